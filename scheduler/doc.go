// Package scheduler provides the worker pool that executes compile tasks.
//
// The pool is an opaque submission queue: Enqueue hands a task to a fixed
// set of worker goroutines and returns without any completion channel.
// Independently submitted tasks have no ordering guarantee, and a submitted
// task cannot be cancelled or timed out. The Go runtime's scheduler steals
// work across the worker goroutines' underlying threads.
package scheduler
