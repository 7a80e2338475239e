// Package randq provides a properly seeded, concurrency safe random source.
//
// It's mainly used by tests to generate unique queue names,
// so parallel test runs on the same machine don't collide in the OS queue
// namespace.
package randq
