package mqrecv

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/reddit/posixmq.go/log"
	"github.com/reddit/posixmq.go/posixmq"
)

// Run runs mqrecv.
//
// It returns 0 to indicate success,
// and non-zero to indicate failure.
//
// Your main function usually should look like:
//
//	func main() {
//		os.Exit(mqrecv.Run())
//	}
func Run() int {
	payload, priority, err := RunArgs(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	os.Stdout.Write(payload)
	fmt.Println()
	log.Debugw(
		"message received",
		"bytes", len(payload),
		"priority", priority,
	)
	log.Sync()
	return 0
}

// RunArgs is the more customizable/testable version of Run.
//
// In production code it expects you to pass in os.Args as the arg.
// It returns the payload and priority of the received message instead of
// printing them.
func RunArgs(args []string) ([]byte, uint, error) {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	timeout := fs.Duration(
		"timeout",
		0,
		"If positive, give up after blocking this long on an empty queue.",
	)
	verbose := fs.Bool(
		"v",
		false,
		"Enable debug logging to standard error.",
	)
	if err := fs.Parse(args[1:]); err != nil {
		return nil, 0, fmt.Errorf("failed to parse args: %w", err)
	}
	pos := fs.Args()
	if len(pos) != 1 {
		return nil, 0, fmt.Errorf("usage: %s [options] QUEUE_NAME", args[0])
	}
	name := pos[0]

	level := log.ErrorLevel
	if *verbose {
		level = log.DebugLevel
	}
	log.InitLogger(level)

	mq, err := posixmq.OpenExistingMessageQueue(name)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := mq.Close(); err != nil {
			log.Errorw("failed to close queue", "queue", name, "err", err)
		}
	}()

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	buf := make([]byte, mq.Attributes().MaxMessageSize)
	n, priority, err := mq.Receive(ctx, buf)
	if err != nil {
		return nil, 0, err
	}
	return buf[:n], priority, nil
}
