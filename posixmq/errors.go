package posixmq

import (
	"fmt"
	"strings"
)

// OpenError is the error returned by OpenMessageQueue and
// OpenExistingMessageQueue.
//
// On linux systems it usually wraps a syscall.Errno,
// e.g. syscall.ENOENT when the queue doesn't exist,
// or syscall.EACCES on permission failures.
type OpenError struct {
	Name  string
	Cause error
}

func (e OpenError) Error() string {
	return fmt.Sprintf("posixmq: open queue %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error.
func (e OpenError) Unwrap() error {
	return e.Cause
}

// CloseError is the error returned by MessageQueue.Close,
// usually wrapping syscall.EBADF when the queue was already closed.
type CloseError struct {
	Name  string
	Cause error
}

func (e CloseError) Error() string {
	return fmt.Sprintf("posixmq: close queue %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error.
func (e CloseError) Unwrap() error {
	return e.Cause
}

// UnlinkError is the error returned by Unlink,
// usually wrapping syscall.ENOENT when the name doesn't exist.
type UnlinkError struct {
	Name  string
	Cause error
}

func (e UnlinkError) Error() string {
	return fmt.Sprintf("posixmq: unlink queue %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error.
func (e UnlinkError) Unwrap() error {
	return e.Cause
}

// SendError is the error returned by MessageQueue.Send.
//
// Its Cause is either the underlying syscall.Errno,
// or one of TimedOutError and MessageTooLargeError
// (which wrap the errno themselves when there is one).
type SendError struct {
	Name  string
	Cause error
}

func (e SendError) Error() string {
	return fmt.Sprintf("posixmq: send to queue %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error.
func (e SendError) Unwrap() error {
	return e.Cause
}

// ReceiveError is the error returned by MessageQueue.Receive.
//
// It wraps syscall.EMSGSIZE when the caller's buffer is smaller than the
// queue's max message size (the message is not dequeued in that case),
// or TimedOutError when the receive deadline passed.
type ReceiveError struct {
	Name  string
	Cause error
}

func (e ReceiveError) Error() string {
	return fmt.Sprintf("posixmq: receive from queue %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error.
func (e ReceiveError) Unwrap() error {
	return e.Cause
}

// TimedOutError is the cause attached to SendError or ReceiveError when the
// operation timed out because the queue was full (or empty, for receives).
//
// On linux systems it usually wraps one of syscall.ETIMEDOUT or
// context.DeadlineExceeded.
// On other systems (or with MockMessageQueue) it usually wraps
// context.DeadlineExceeded.
type TimedOutError struct {
	Cause error
}

func (e TimedOutError) Error() string {
	return fmt.Sprintf("timed out: %v", e.Cause)
}

// Unwrap returns the underlying error.
func (e TimedOutError) Unwrap() error {
	return e.Cause
}

// MessageTooLargeError is the cause attached to SendError when the message is
// larger than the queue's max message size.
//
// On linux systems it wraps syscall.EMSGSIZE, on other systems (or with
// MockMessageQueue) it doesn't wrap any other errors.
type MessageTooLargeError struct {
	MessageSize int
	MaxSize     int

	// Note that on non-linux systems Cause will be nil.
	Cause error
}

func (e MessageTooLargeError) Error() string {
	var sb strings.Builder
	sb.WriteString("message too large")
	if e.MaxSize != 0 {
		sb.WriteString(fmt.Sprintf(" (%d > %d)", e.MessageSize, e.MaxSize))
	} else {
		sb.WriteString(fmt.Sprintf(" (%d)", e.MessageSize))
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error, if any.
func (e MessageTooLargeError) Unwrap() error {
	return e.Cause
}
