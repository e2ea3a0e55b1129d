// Package host adapts a delay engine to a block-based audio host.
//
// An Adapter owns the glue a host callback needs around [delay.Engine]:
// it prepares the engine for the stream format, applies parameter changes
// published on a [param.Surface] once per block before processing, converts
// float32 host buffers to the engine's float64 working format and flushes
// denormals from the output.
//
//	engine := delay.New()
//	surface := param.NewSurface()
//	a := host.New(engine, surface)
//	if err := a.Prepare(core.ApplyProcessorOptions(core.WithSampleRate(48000))); err != nil {
//		return err
//	}
//	// audio callback:
//	a.ProcessFloat32(in, out)
//	// control goroutine:
//	_ = surface.Set(param.Feedback, 0.7)
package host
