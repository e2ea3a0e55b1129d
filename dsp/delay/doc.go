// Package delay implements a real-time multi-channel feedback delay.
//
// The [Engine] keeps one circular history row per channel. All rows share a
// single write cursor that advances once per frame. Row capacity is always a
// power of two so that wrapping is a bitmask, never a modulo:
//
//	readPos = (cursor - delaySamples + capacity) & mask
//
// Per frame and channel the engine reads the delayed sample, writes
// input + feedback*delayed at the cursor and emits the linear dry/wet
// crossfade input*(1-ratio/100) + delayed*(ratio/100).
//
// # Lifecycle
//
//	e := delay.New()
//	if err := e.Initialize(48000, 512, 2); err != nil {
//		// sample rate or block size rejected, or the buffer would be too large
//	}
//	e.SetDelayTime(350)
//	e.Process(block) // block[channel][frame], in place
//
// Initialize is the only allocation point. Process never allocates, locks,
// blocks or logs. Setters are plain stores and must be called from the
// goroutine that calls Process, or while Process is not running; use
// [param.Surface] to hand values over from another goroutine.
//
// # Safe operating range
//
// Feedback is clamped to [0, 1]. At 1 the echo train never decays, and a
// constant input accumulates without bound. Delay time is clamped to
// [0, maxDelay]; a delay that rounds to zero samples is raised to one sample.
package delay
