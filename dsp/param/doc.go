// Package param describes the delay's control parameters and provides the
// Surface, a lock-free handoff of parameter values from a control goroutine
// (user interface, automation, stdin) to the audio goroutine.
//
// Three parameters exist, keyed by stable string identifiers:
//
//   - "delayTime": 0..2000 ms, default 800
//   - "feedback":  0..1, default 0.5
//   - "ratio":     0..100 %, default 50 (0 = dry, 100 = wet)
//
// The writer calls [Surface.Set] at any time. The reader, typically a host
// adapter, calls [Surface.Pending] once per block at a safe point and applies
// the returned [Snapshot] before processing, so every block is rendered with
// one consistent parameter set.
//
// Ping-pong routing ("delayType") is not supported.
package param
