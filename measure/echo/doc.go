// Package echo characterizes a delay setting offline.
//
// It renders the impulse response of a [delay.Engine] for a given parameter
// snapshot and derives:
//
//   - Taps: the individual echoes (index, time, gain)
//   - Decay per repeat and the extrapolated time to fall by 60 dB
//   - The comb-filter magnitude response, computed by FFT, with its peak
//     and notch levels
//
// # Usage
//
//	a := echo.NewAnalyzer(48000, 512)
//	s, err := a.Analyze(param.Snapshot{DelayTimeMs: 350, Feedback: 0.5, Ratio: 50}, 1<<16, 1<<16)
//	fmt.Printf("first echo %d samples, decay %.1f dB/repeat\n", s.DelaySamples, s.DecayDBPerRepeat)
package echo
