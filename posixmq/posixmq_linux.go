//go:build linux
// +build linux

package posixmq

import (
	"context"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const maxEINTRRetries = 3

// C version:
//
// struct mq_attr {
//     long mq_flags;       /* Flags (ignored for mq_open()) */
//     long mq_maxmsg;      /* Max. # of messages on queue */
//     long mq_msgsize;     /* Max. message size (bytes) */
//     long mq_curmsgs;     /* # of messages currently in queue
//                             (ignored for mq_open()) */
// };
//
// Note that this only works on 64-bit systems.
type mqAttr struct {
	Flags          int64
	MaxQueueSize   int64
	MaxMessageSize int64
	CurMessages    int64
}

type messageQueue struct {
	mqd  uintptr
	name string
	attr Attributes
}

func openMessageQueue(cfg MessageQueueConfig) (MessageQueue, error) {
	// The kernel rejects mq_maxmsg/mq_msgsize of 0 with EINVAL,
	// so zero attributes fall back to the defaults here too,
	// keeping this entry point in sync with the non-linux implementation.
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = DefaultMaxQueueSize
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = DefaultMaxMessageSize
	}

	name, err := unix.BytePtrFromString(queueName(cfg.Name))
	if err != nil {
		return nil, OpenError{Name: cfg.Name, Cause: err}
	}

	flags := unix.O_RDWR | unix.O_CREAT

	// From MQ_OPEN(3) manpage:
	// mqd_t mq_open(const char *name, int oflag, mode_t mode, struct mq_attr *attr);
	mqd, _, errno := unix.Syscall6(
		unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(name)), // name
		uintptr(flags),                // oflag
		uintptr(MessageQueueOpenMode), // mode
		uintptr(unsafe.Pointer(&mqAttr{
			MaxQueueSize:   cfg.MaxQueueSize,
			MaxMessageSize: cfg.MaxMessageSize,
		})), // attr
		0, // unused
		0, // unused
	)
	if errno != 0 {
		return nil, OpenError{Name: cfg.Name, Cause: errno}
	}
	return newMessageQueue(mqd, cfg.Name)
}

func openExistingMessageQueue(name string) (MessageQueue, error) {
	nameBytes, err := unix.BytePtrFromString(queueName(name))
	if err != nil {
		return nil, OpenError{Name: name, Cause: err}
	}

	mqd, _, errno := unix.Syscall6(
		unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(nameBytes)), // name
		uintptr(unix.O_RDWR),               // oflag
		0,                                  // mode, unused without O_CREAT
		0,                                  // attr
		0,                                  // unused
		0,                                  // unused
	)
	if errno != 0 {
		return nil, OpenError{Name: name, Cause: errno}
	}
	return newMessageQueue(mqd, name)
}

// newMessageQueue wraps a just opened descriptor and reads back the
// negotiated capacity attributes, so callers always see what the OS actually
// gave them rather than what they asked for.
func newMessageQueue(mqd uintptr, name string) (*messageQueue, error) {
	var attr mqAttr
	// The kernel implements mq_getattr(3) as:
	// int mq_getsetattr(mqd_t mqdes, const struct mq_attr *newattr, struct mq_attr *oldattr);
	_, _, errno := unix.Syscall(
		unix.SYS_MQ_GETSETATTR,
		mqd,                            // mqdes
		0,                              // newattr
		uintptr(unsafe.Pointer(&attr)), // oldattr
	)
	if errno != 0 {
		unix.Close(int(mqd))
		return nil, OpenError{Name: name, Cause: errno}
	}
	return &messageQueue{
		mqd:  mqd,
		name: name,
		attr: Attributes{
			MaxQueueSize:   attr.MaxQueueSize,
			MaxMessageSize: attr.MaxMessageSize,
		},
	}, nil
}

func unlink(name string) error {
	nameBytes, err := unix.BytePtrFromString(queueName(name))
	if err != nil {
		return UnlinkError{Name: name, Cause: err}
	}
	// From MQ_UNLINK(3) manpage:
	// int mq_unlink(const char *name);
	_, _, errno := unix.Syscall(
		unix.SYS_MQ_UNLINK,
		uintptr(unsafe.Pointer(nameBytes)), // name
		0,                                  // unused
		0,                                  // unused
	)
	if errno != 0 {
		return UnlinkError{Name: name, Cause: errno}
	}
	return nil
}

func (mq *messageQueue) Attributes() Attributes {
	return mq.attr
}

func (mq *messageQueue) Close() error {
	if err := unix.Close(int(mq.mqd)); err != nil {
		return CloseError{Name: mq.name, Cause: err}
	}
	return nil
}

func (mq *messageQueue) Send(ctx context.Context, data []byte, priority uint) error {
	var absTimeout uintptr
	if deadline, ok := ctx.Deadline(); ok {
		t, err := unix.TimeToTimespec(deadline)
		if err != nil {
			return SendError{Name: mq.name, Cause: err}
		}
		absTimeout = uintptr(unsafe.Pointer(&t))
	}

	var msgPtr unsafe.Pointer
	if len(data) > 0 {
		msgPtr = unsafe.Pointer(&data[0])
	}

	for i := 0; i < maxEINTRRetries; i++ {
		// NOTE: The reason we only care about DeadlineExceeded here,
		// is that sometimes the parent context might get explicitly canceled for
		// other reasons.
		// For example, context objects from http requests might get canceled when
		// the client connection is lost.
		// In those cases, we don't want to just fail the Send.
		// We still want to give them a chance.
		if ctx.Err() == context.DeadlineExceeded {
			return SendError{Name: mq.name, Cause: TimedOutError{
				Cause: ctx.Err(),
			}}
		}

		// From MQ_SEND(3) manpage:
		// int mq_timedsend(mqd_t mqdes, const char *msg_ptr, size_t msg_len, unsigned int msg_prio, const struct timespec *abs_timeout);
		_, _, errno := unix.Syscall6(
			unix.SYS_MQ_TIMEDSEND,
			mq.mqd,             // mqdes
			uintptr(msgPtr),    // msg_ptr
			uintptr(len(data)), // msg_len
			uintptr(priority),  // msg_prio
			absTimeout,         // abs_timeout
			0,                  // unused
		)
		switch errno {
		default:
			return SendError{Name: mq.name, Cause: errno}
		case 0:
			return nil
		case syscall.EINTR:
			// Just retry the syscall. We set absolute timeout so retry won't cause
			// the timeout to be longer.
			continue
		case syscall.EMSGSIZE:
			return SendError{Name: mq.name, Cause: MessageTooLargeError{
				MessageSize: len(data),
				MaxSize:     int(mq.attr.MaxMessageSize),
				Cause:       errno,
			}}
		case syscall.ETIMEDOUT:
			return SendError{Name: mq.name, Cause: TimedOutError{
				Cause: errno,
			}}
		}
	}

	// The only possibility we get here is because we exceeded maxEINTRRetries.
	return SendError{Name: mq.name, Cause: syscall.EINTR}
}

func (mq *messageQueue) Receive(ctx context.Context, buf []byte) (int, uint, error) {
	var absTimeout uintptr
	if deadline, ok := ctx.Deadline(); ok {
		t, err := unix.TimeToTimespec(deadline)
		if err != nil {
			return 0, 0, ReceiveError{Name: mq.name, Cause: err}
		}
		absTimeout = uintptr(unsafe.Pointer(&t))
	}

	var bufPtr unsafe.Pointer
	if len(buf) > 0 {
		bufPtr = unsafe.Pointer(&buf[0])
	}
	var priority uint32

	for i := 0; i < maxEINTRRetries; i++ {
		if ctx.Err() == context.DeadlineExceeded {
			return 0, 0, ReceiveError{Name: mq.name, Cause: TimedOutError{
				Cause: ctx.Err(),
			}}
		}

		// From MQ_RECEIVE(3) manpage:
		// ssize_t mq_timedreceive(mqd_t mqdes, char *msg_ptr, size_t msg_len, unsigned int *msg_prio, const struct timespec *abs_timeout);
		n, _, errno := unix.Syscall6(
			unix.SYS_MQ_TIMEDRECEIVE,
			mq.mqd,                             // mqdes
			uintptr(bufPtr),                    // msg_ptr
			uintptr(len(buf)),                  // msg_len
			uintptr(unsafe.Pointer(&priority)), // msg_prio
			absTimeout,                         // abs_timeout
			0,                                  // unused
		)
		switch errno {
		default:
			// Includes EMSGSIZE when buf is smaller than the queue's max
			// message size; the kernel leaves the message on the queue.
			return 0, 0, ReceiveError{Name: mq.name, Cause: errno}
		case 0:
			return int(n), uint(priority), nil
		case syscall.EINTR:
			continue
		case syscall.ETIMEDOUT:
			return 0, 0, ReceiveError{Name: mq.name, Cause: TimedOutError{
				Cause: errno,
			}}
		}
	}

	return 0, 0, ReceiveError{Name: mq.name, Cause: syscall.EINTR}
}
