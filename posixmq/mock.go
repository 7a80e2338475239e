package posixmq

import (
	"context"
	"sort"
	"sync"
	"syscall"
)

// MockMessageQueue is a mocked implementation of MessageQueue.
//
// It's implemented in memory with the same ordering contract as the real
// queue: higher priorities are dequeued first, FIFO within a priority.
type MockMessageQueue struct {
	name string
	attr Attributes

	mu      sync.Mutex
	msgs    []mockMessage
	closed  bool
	changed chan struct{}
}

type mockMessage struct {
	data     []byte
	priority uint
}

var _ MessageQueue = (*MockMessageQueue)(nil)

// OpenMockMessageQueue creates a MockMessageQueue.
//
// Zero capacity attributes in cfg fall back to the package defaults,
// same as OpenMessageQueue.
func OpenMockMessageQueue(cfg MessageQueueConfig) *MockMessageQueue {
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = DefaultMaxQueueSize
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = DefaultMaxMessageSize
	}
	return &MockMessageQueue{
		name: cfg.Name,
		attr: Attributes{
			MaxQueueSize:   cfg.MaxQueueSize,
			MaxMessageSize: cfg.MaxMessageSize,
		},
		changed: make(chan struct{}),
	}
}

// Attributes returns the capacity attributes the mock was created with.
func (mmq *MockMessageQueue) Attributes() Attributes {
	return mmq.attr
}

// Close closes the queue.
//
// Blocked Send and Receive calls fail after Close.
// Closing an already closed queue fails with CloseError.
func (mmq *MockMessageQueue) Close() error {
	mmq.mu.Lock()
	defer mmq.mu.Unlock()
	if mmq.closed {
		return CloseError{Name: mmq.name, Cause: syscall.EBADF}
	}
	mmq.closed = true
	mmq.broadcast()
	return nil
}

// broadcast wakes every blocked Send/Receive. Caller must hold mu.
func (mmq *MockMessageQueue) broadcast() {
	close(mmq.changed)
	mmq.changed = make(chan struct{})
}

func (mmq *MockMessageQueue) isClosed() bool {
	mmq.mu.Lock()
	defer mmq.mu.Unlock()
	return mmq.closed
}

// Send sends a message to the queue.
func (mmq *MockMessageQueue) Send(ctx context.Context, data []byte, priority uint) error {
	// The kernel validates the descriptor before the message size,
	// so a closed queue is EBADF even for an oversized send.
	if mmq.isClosed() {
		return SendError{Name: mmq.name, Cause: syscall.EBADF}
	}
	if int64(len(data)) > mmq.attr.MaxMessageSize {
		return SendError{Name: mmq.name, Cause: MessageTooLargeError{
			MessageSize: len(data),
			MaxSize:     int(mmq.attr.MaxMessageSize),
		}}
	}

	for {
		mmq.mu.Lock()
		if mmq.closed {
			mmq.mu.Unlock()
			return SendError{Name: mmq.name, Cause: syscall.EBADF}
		}
		if int64(len(mmq.msgs)) < mmq.attr.MaxQueueSize {
			mmq.msgs = append(mmq.msgs, mockMessage{
				data:     append([]byte(nil), data...),
				priority: priority,
			})
			// Stable keeps arrival order within the same priority.
			sort.SliceStable(mmq.msgs, func(i, j int) bool {
				return mmq.msgs[i].priority > mmq.msgs[j].priority
			})
			mmq.broadcast()
			mmq.mu.Unlock()
			return nil
		}
		ch := mmq.changed
		mmq.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return SendError{Name: mmq.name, Cause: TimedOutError{
					Cause: ctx.Err(),
				}}
			}
			return ctx.Err()
		}
	}
}

// Receive receives the oldest highest priority message from the queue.
func (mmq *MockMessageQueue) Receive(ctx context.Context, buf []byte) (int, uint, error) {
	if mmq.isClosed() {
		return 0, 0, ReceiveError{Name: mmq.name, Cause: syscall.EBADF}
	}
	if int64(len(buf)) < mmq.attr.MaxMessageSize {
		// Mirror the kernel: the message is not dequeued.
		return 0, 0, ReceiveError{Name: mmq.name, Cause: syscall.EMSGSIZE}
	}

	for {
		mmq.mu.Lock()
		if mmq.closed {
			mmq.mu.Unlock()
			return 0, 0, ReceiveError{Name: mmq.name, Cause: syscall.EBADF}
		}
		if len(mmq.msgs) > 0 {
			msg := mmq.msgs[0]
			mmq.msgs = mmq.msgs[1:]
			mmq.broadcast()
			mmq.mu.Unlock()
			return copy(buf, msg.data), msg.priority, nil
		}
		ch := mmq.changed
		mmq.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return 0, 0, ReceiveError{Name: mmq.name, Cause: TimedOutError{
					Cause: ctx.Err(),
				}}
			}
			return 0, 0, ctx.Err()
		}
	}
}
