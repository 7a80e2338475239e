// Package mqsend implements the mqsend tool,
// which sends a single message to an existing posix message queue:
//
//	mqsend [options] QUEUE_NAME MESSAGE PRIORITY
//
// The queue must already exist (mqsend never creates queues),
// and the message is sent at the priority given on the command line.
// On success mqsend exits 0 with no output;
// on any failure it prints a diagnostic to standard error and exits 1.
package mqsend
