package echo_test

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/param"
	"github.com/cwbudde/algo-delay/measure/echo"
)

func ExampleAnalyzer_Analyze() {
	a := echo.NewAnalyzer(1000, 16)
	s, err := a.Analyze(param.Snapshot{DelayTimeMs: 64, Feedback: 0.5, Ratio: 100}, 1024, 1024)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("first echo: %d samples\n", s.DelaySamples)
	fmt.Printf("echoes: %d\n", len(s.Taps))
	fmt.Printf("decay: %.2f dB/repeat\n", s.DecayDBPerRepeat)
	// Output:
	// first echo: 64 samples
	// echoes: 15
	// decay: -6.02 dB/repeat
}
