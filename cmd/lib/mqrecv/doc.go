// Package mqrecv implements the mqrecv tool,
// the receiving counterpart of mqsend:
//
//	mqrecv [options] QUEUE_NAME
//
// It receives a single message from an existing posix message queue and
// prints its payload to standard output followed by a newline.
// Diagnostics go to standard error; the exit code is 0 on success and 1 on
// any failure.
package mqrecv
