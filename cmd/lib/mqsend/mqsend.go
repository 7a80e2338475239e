package mqsend

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/reddit/posixmq.go/log"
	"github.com/reddit/posixmq.go/posixmq"
)

// Run runs mqsend.
//
// It returns 0 to indicate success,
// and non-zero to indicate failure.
//
// Your main function usually should look like:
//
//	func main() {
//		os.Exit(mqsend.Run())
//	}
func Run() int {
	if err := RunArgs(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// RunArgs is the more customizable/testable version of Run.
//
// In production code it expects you to pass in os.Args as the arg.
func RunArgs(args []string) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	timeout := fs.Duration(
		"timeout",
		0,
		"If positive, give up after blocking this long on a full queue.",
	)
	verbose := fs.Bool(
		"v",
		false,
		"Enable debug logging to standard error.",
	)
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	pos := fs.Args()
	if len(pos) != 3 {
		return fmt.Errorf("usage: %s [options] QUEUE_NAME MESSAGE PRIORITY", args[0])
	}
	name, message := pos[0], pos[1]
	// Strict on purpose: the tool this replaces fell back to 0 on non-numeric
	// priorities, which hid typos.
	priority, err := strconv.ParseUint(pos[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid priority %q: %w", pos[2], err)
	}

	level := log.ErrorLevel
	if *verbose {
		level = log.DebugLevel
	}
	log.InitLogger(level)
	defer log.Sync()

	mq, err := posixmq.OpenExistingMessageQueue(name)
	if err != nil {
		return err
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
	if err := mq.Send(ctx, []byte(message), uint(priority)); err != nil {
		return err
	}
	log.Debugw(
		"message sent",
		"queue", name,
		"bytes", len(message),
		"priority", priority,
	)
	return nil
}
