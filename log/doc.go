// Package log provides the logging used by the command line tools in this
// repo.
//
// It's a thin wrapper around zap's sugared logger.
// The global logger starts as a nop,
// so nothing is logged unless a main function opts in via InitLogger.
package log
