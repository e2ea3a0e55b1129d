package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=2
}

func ExampleNextPowerOfTwo() {
	fmt.Println(core.NextPowerOfTwo(96001), core.NextPowerOfTwo(1024))

	// Output:
	// 131072 1024
}
