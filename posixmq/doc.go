// Package posixmq is a pure go implementation of posix message queue clients
// for Linux, using syscalls.
//
// The purpose of this package is to provide a pure go (no cgo) way on 64-bit
// Linux systems to create, send to, and receive from named posix message
// queues shared with processes written in other languages.
// It's never meant to be a complete implementation of message queue features.
// It does NOT have supports for:
//
// - Non-linux systems (e.g. macOS)
// - Non-64-bit systems (e.g. 32-bit Linux)
// - Queue notification (mq_notify)
// - Changing queue attributes after creation
//
// If you need those features, this is not the package for you.
//
// On non-Linux systems every open returns a channel backed in-process mock,
// so code using this package still compiles and tests there.
package posixmq
