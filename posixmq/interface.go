package posixmq

import (
	"context"
	"io"
	"strings"
)

// MessageQueueOpenMode is the mode used to create message queues.
const MessageQueueOpenMode = 0644

// Default capacity attributes applied by OpenMessageQueue when the config
// leaves them unset.
const (
	DefaultMaxQueueSize   = 10
	DefaultMaxMessageSize = 4096
)

// MessageQueue represents an open Posix Message Queue.
//
// A MessageQueue is only valid between a successful open and Close.
// This package does not track open queues,
// the caller is responsible for matching every open with a Close
// (usually via defer).
type MessageQueue interface {
	io.Closer

	// Send enqueues data at the given priority.
	//
	// Higher priorities are dequeued first.
	// When the queue is full Send blocks until there's room,
	// or until the deadline on ctx (if any) passes.
	Send(ctx context.Context, data []byte, priority uint) error

	// Receive dequeues the oldest message of the highest priority into buf.
	//
	// buf must be at least the queue's max message size or the call fails
	// without dequeuing anything.
	// When the queue is empty Receive blocks until a message arrives,
	// or until the deadline on ctx (if any) passes.
	Receive(ctx context.Context, buf []byte) (n int, priority uint, err error)

	// Attributes returns the queue's capacity attributes,
	// as negotiated with the OS at open time.
	Attributes() Attributes
}

// Attributes are the capacity attributes of a message queue.
//
// They are fixed at creation time and immutable afterwards.
type Attributes struct {
	// The max number of messages in the queue.
	MaxQueueSize int64

	// The max size in bytes per message.
	MaxMessageSize int64
}

// MessageQueueConfig is the config used in OpenMessageQueue call.
type MessageQueueConfig struct {
	// Name of the message queue.
	// A single leading "/" is accepted and stripped,
	// so names used by glibc based peers work unchanged.
	Name string

	// The max number of messages in the queue.
	// When zero, DefaultMaxQueueSize is used.
	MaxQueueSize int64

	// The max size in bytes per message.
	// When zero, DefaultMaxMessageSize is used.
	MaxMessageSize int64
}

// OpenMessageQueue opens the named message queue,
// creating it with the configured capacity attributes if it doesn't exist.
//
// When the queue already exists the capacity attributes in cfg are ignored
// by the OS; the attributes reported by the returned queue are always the
// negotiated ones.
func OpenMessageQueue(cfg MessageQueueConfig) (MessageQueue, error) {
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = DefaultMaxQueueSize
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = DefaultMaxMessageSize
	}
	return openMessageQueue(cfg)
}

// OpenExistingMessageQueue opens a message queue that must already exist.
//
// It fails with OpenError wrapping syscall.ENOENT when it doesn't.
func OpenExistingMessageQueue(name string) (MessageQueue, error) {
	return openExistingMessageQueue(name)
}

// Unlink removes the named message queue from the OS namespace.
//
// Queues still open by other handles remain usable until those handles are
// closed, per OS semantics.
func Unlink(name string) error {
	return unlink(name)
}

// The kernel rejects names containing "/",
// while glibc requires a leading one and strips it before the syscall.
// Accept both conventions.
func queueName(name string) string {
	return strings.TrimPrefix(name, "/")
}
