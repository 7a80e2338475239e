//go:build linux
// +build linux

package posixmq

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"syscall"
	"testing"

	"github.com/reddit/posixmq.go/randq"
)

func requireLinux64(t *testing.T) {
	t.Helper()
	if !strings.HasSuffix(runtime.GOARCH, "64") {
		t.Skipf("posix message queue syscalls need 64-bit, skipping on %s", runtime.GOARCH)
	}
}

func TestOpenNegotiatesAttributes(t *testing.T) {
	requireLinux64(t)

	name := fmt.Sprintf("posixmq.test.%d", randq.Uint64())
	created, err := openMessageQueue(MessageQueueConfig{
		Name:           name,
		MaxQueueSize:   2,
		MaxMessageSize: 64,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer created.Close()
	defer func() {
		if err := unlink(name); err != nil {
			t.Errorf("Failed to delete message queue %q: %v", name, err)
		}
	}()

	// The queue exists now, so these capacity attributes must be ignored and
	// the original ones reported back.
	reopened, err := openMessageQueue(MessageQueueConfig{
		Name:           name,
		MaxQueueSize:   5,
		MaxMessageSize: 128,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	attr := reopened.Attributes()
	if attr.MaxQueueSize != 2 || attr.MaxMessageSize != 64 {
		t.Errorf("Expected attributes (2, 64) from the original creation, got %+v", attr)
	}
}

func TestOpenDefaultAttributes(t *testing.T) {
	requireLinux64(t)

	// Zero capacity attributes would be EINVAL at the syscall,
	// they must fall back to the defaults before reaching the kernel.
	name := fmt.Sprintf("posixmq.test.%d", randq.Uint64())
	mq, err := openMessageQueue(MessageQueueConfig{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	defer mq.Close()
	defer func() {
		if err := unlink(name); err != nil {
			t.Errorf("Failed to delete message queue %q: %v", name, err)
		}
	}()

	attr := mq.Attributes()
	if attr.MaxQueueSize != DefaultMaxQueueSize || attr.MaxMessageSize != DefaultMaxMessageSize {
		t.Errorf(
			"Expected default attributes (%d, %d), got %+v",
			DefaultMaxQueueSize,
			DefaultMaxMessageSize,
			attr,
		)
	}
}

func TestLeadingSlashName(t *testing.T) {
	requireLinux64(t)

	base := fmt.Sprintf("posixmq.test.%d", randq.Uint64())
	mq, err := openMessageQueue(MessageQueueConfig{Name: "/" + base})
	if err != nil {
		t.Fatal(err)
	}
	defer mq.Close()
	defer func() {
		if err := unlink(base); err != nil {
			t.Errorf("Failed to delete message queue %q: %v", base, err)
		}
	}()

	// The slashless spelling must address the same queue.
	existing, err := openExistingMessageQueue(base)
	if err != nil {
		t.Fatalf("Expected %q and %q to be the same queue: %v", "/"+base, base, err)
	}
	existing.Close()
}

func TestSendAfterClose(t *testing.T) {
	requireLinux64(t)

	name := fmt.Sprintf("posixmq.test.%d", randq.Uint64())
	mq, err := openMessageQueue(MessageQueueConfig{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := unlink(name); err != nil {
			t.Errorf("Failed to delete message queue %q: %v", name, err)
		}
	}()

	if err := mq.Close(); err != nil {
		t.Fatal(err)
	}
	err = mq.Send(context.Background(), []byte("x"), 0)
	if !errors.As(err, new(SendError)) {
		t.Errorf("Expected SendError on a closed queue, got %v", err)
	}
	if !errors.Is(err, syscall.EBADF) {
		t.Errorf("Expected error to wrap EBADF, got %v", err)
	}
}
