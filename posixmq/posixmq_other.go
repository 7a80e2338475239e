//go:build !linux
// +build !linux

package posixmq

import (
	"context"
	"sync"
	"syscall"
)

// On non-linux systems the OS queue namespace is emulated with an in-process
// registry of mocks, so open-existing and unlink keep their contract.
// Every open returns its own handle, like an fd: closing one handle doesn't
// affect others or remove the queue from the namespace.
var mockNamespace = struct {
	sync.Mutex
	queues map[string]*MockMessageQueue
}{queues: make(map[string]*MockMessageQueue)}

func openMessageQueue(cfg MessageQueueConfig) (MessageQueue, error) {
	mockNamespace.Lock()
	defer mockNamespace.Unlock()
	mmq, ok := mockNamespace.queues[queueName(cfg.Name)]
	if !ok {
		mmq = OpenMockMessageQueue(cfg)
		mockNamespace.queues[queueName(cfg.Name)] = mmq
	}
	return &mockHandle{mmq: mmq}, nil
}

func openExistingMessageQueue(name string) (MessageQueue, error) {
	mockNamespace.Lock()
	defer mockNamespace.Unlock()
	if mmq, ok := mockNamespace.queues[queueName(name)]; ok {
		return &mockHandle{mmq: mmq}, nil
	}
	return nil, OpenError{Name: name, Cause: syscall.ENOENT}
}

func unlink(name string) error {
	mockNamespace.Lock()
	defer mockNamespace.Unlock()
	if _, ok := mockNamespace.queues[queueName(name)]; !ok {
		return UnlinkError{Name: name, Cause: syscall.ENOENT}
	}
	delete(mockNamespace.queues, queueName(name))
	return nil
}

type mockHandle struct {
	mmq *MockMessageQueue

	mu     sync.Mutex
	closed bool
}

func (h *mockHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *mockHandle) Attributes() Attributes {
	return h.mmq.Attributes()
}

func (h *mockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return CloseError{Name: h.mmq.name, Cause: syscall.EBADF}
	}
	h.closed = true
	return nil
}

func (h *mockHandle) Send(ctx context.Context, data []byte, priority uint) error {
	if h.isClosed() {
		return SendError{Name: h.mmq.name, Cause: syscall.EBADF}
	}
	return h.mmq.Send(ctx, data, priority)
}

func (h *mockHandle) Receive(ctx context.Context, buf []byte) (int, uint, error) {
	if h.isClosed() {
		return 0, 0, ReceiveError{Name: h.mmq.name, Cause: syscall.EBADF}
	}
	return h.mmq.Receive(ctx, buf)
}
