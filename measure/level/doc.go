// Package level measures signal levels: one-shot statistics over a buffer
// and a lock-free meter that the audio goroutine feeds and any other
// goroutine reads.
package level
