// Package dispatch reads a descriptor listing and feeds work items to a
// fixed number of workers.
//
// In batch mode (the default) lines are read in chunks of the worker count;
// each chunk runs concurrently and the dispatcher waits for all of it before
// reading the next chunk. A short chunk means the input is exhausted and
// ends the run. In streaming mode a bounded queue replaces the barrier, so a
// worker that finishes early picks up the next line immediately.
package dispatch
