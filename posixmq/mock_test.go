package posixmq_test

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/reddit/posixmq.go/posixmq"
)

func TestMockMessageQueue(t *testing.T) {
	const msg = "hello, world!"
	const max = len(msg)
	const timeout = time.Millisecond

	mq := posixmq.OpenMockMessageQueue(posixmq.MessageQueueConfig{
		MaxMessageSize: int64(max),
		MaxQueueSize:   1,
	})
	defer mq.Close()

	t.Run(
		"message-too-large",
		func(t *testing.T) {
			data := make([]byte, max+1)
			err := mq.Send(context.Background(), data, 0)
			if !errors.As(err, new(posixmq.MessageTooLargeError)) {
				t.Errorf(
					"Expected MessageTooLargeError when message is larger than the max size, got %v",
					err,
				)
			}
		},
	)

	t.Run(
		"send",
		func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			err := mq.Send(ctx, []byte(msg), 2)
			if err != nil {
				t.Errorf("Send returned error: %v", err)
			}
		},
	)

	t.Run(
		"send-timeout",
		func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			err := mq.Send(ctx, []byte(msg), 2)
			if !errors.As(err, new(posixmq.TimedOutError)) {
				t.Errorf("Expected TimedOutError when the queue is full, got %v", err)
			}
		},
	)

	t.Run(
		"receive-buffer-too-small",
		func(t *testing.T) {
			small := make([]byte, max-1)
			_, _, err := mq.Receive(context.Background(), small)
			if !errors.As(err, new(posixmq.ReceiveError)) {
				t.Errorf("Expected ReceiveError with a too small buffer, got %v", err)
			}
			if !errors.Is(err, syscall.EMSGSIZE) {
				t.Errorf("Expected error to wrap EMSGSIZE, got %v", err)
			}
		},
	)

	t.Run(
		"receive",
		func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			buf := make([]byte, max)
			n, priority, err := mq.Receive(ctx, buf)
			if err != nil {
				t.Fatalf("Receive returned error: %v", err)
			}
			if string(buf[:n]) != msg {
				t.Errorf("Expected to receive data %q, got %q", msg, buf[:n])
			}
			if priority != 2 {
				t.Errorf("Expected priority 2, got %d", priority)
			}
		},
	)

	t.Run(
		"receive-timeout",
		func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			buf := make([]byte, max)
			_, _, err := mq.Receive(ctx, buf)
			if !errors.As(err, new(posixmq.TimedOutError)) {
				t.Errorf("Expected TimedOutError when the queue is empty, got %v", err)
			}
		},
	)
}

func TestMockMessageQueuePriorityOrdering(t *testing.T) {
	mq := posixmq.OpenMockMessageQueue(posixmq.MessageQueueConfig{
		MaxMessageSize: 32,
		MaxQueueSize:   4,
	})
	defer mq.Close()

	ctx := context.Background()
	for _, m := range []struct {
		data     string
		priority uint
	}{
		{data: "first low", priority: 1},
		{data: "high", priority: 9},
		{data: "second low", priority: 1},
	} {
		if err := mq.Send(ctx, []byte(m.data), m.priority); err != nil {
			t.Fatalf("Send(%q) returned error: %v", m.data, err)
		}
	}

	buf := make([]byte, 32)
	for i, expected := range []struct {
		data     string
		priority uint
	}{
		{data: "high", priority: 9},
		{data: "first low", priority: 1},
		{data: "second low", priority: 1},
	} {
		n, priority, err := mq.Receive(ctx, buf)
		if err != nil {
			t.Fatalf("Receive #%d returned error: %v", i, err)
		}
		if string(buf[:n]) != expected.data || priority != expected.priority {
			t.Errorf(
				"Receive #%d: expected (%q, %d), got (%q, %d)",
				i,
				expected.data,
				expected.priority,
				buf[:n],
				priority,
			)
		}
	}
}

func TestMockMessageQueueDefaults(t *testing.T) {
	mq := posixmq.OpenMockMessageQueue(posixmq.MessageQueueConfig{Name: "defaults"})
	defer mq.Close()

	expected := posixmq.Attributes{
		MaxQueueSize:   posixmq.DefaultMaxQueueSize,
		MaxMessageSize: posixmq.DefaultMaxMessageSize,
	}
	if diff := cmp.Diff(expected, mq.Attributes()); diff != "" {
		t.Errorf("Attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestMockMessageQueueClosedErrors(t *testing.T) {
	const max = 8

	mq := posixmq.OpenMockMessageQueue(posixmq.MessageQueueConfig{
		MaxMessageSize: max,
		MaxQueueSize:   1,
	})
	if err := mq.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	t.Run(
		"send",
		func(t *testing.T) {
			// Even an oversized send is EBADF on a closed queue,
			// matching the kernel's descriptor-first validation.
			data := make([]byte, max+1)
			err := mq.Send(context.Background(), data, 0)
			if !errors.Is(err, syscall.EBADF) {
				t.Errorf("Expected error to wrap EBADF, got %v", err)
			}
			if errors.As(err, new(posixmq.MessageTooLargeError)) {
				t.Errorf("Expected no MessageTooLargeError on a closed queue, got %v", err)
			}
		},
	)

	t.Run(
		"receive",
		func(t *testing.T) {
			small := make([]byte, max-1)
			_, _, err := mq.Receive(context.Background(), small)
			if !errors.Is(err, syscall.EBADF) {
				t.Errorf("Expected error to wrap EBADF, got %v", err)
			}
			if errors.Is(err, syscall.EMSGSIZE) {
				t.Errorf("Expected no EMSGSIZE on a closed queue, got %v", err)
			}
		},
	)
}

func TestMockMessageQueueCloseTwice(t *testing.T) {
	mq := posixmq.OpenMockMessageQueue(posixmq.MessageQueueConfig{})
	if err := mq.Close(); err != nil {
		t.Fatalf("First Close returned error: %v", err)
	}
	err := mq.Close()
	if !errors.As(err, new(posixmq.CloseError)) {
		t.Errorf("Expected CloseError on double close, got %v", err)
	}
}
