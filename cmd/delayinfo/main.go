// Command delayinfo prints buffer sizing, echo taps and the comb response of
// the delay engine for one parameter setting.
//
// Usage:
//
//	delayinfo [flags]
//
// Examples:
//
//	delayinfo
//	delayinfo -delay 125 -feedback 0.7 -ratio 40
//	delayinfo -rate 44100 -block 128 -length 262144 -fft 262144
//	delayinfo -taps 0
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/param"
	"github.com/cwbudde/algo-delay/measure/echo"
	"github.com/sirupsen/logrus"
)

type options struct {
	rate     float64
	block    int
	channels int
	maxDelay float64
	length   int
	fftSize  int
	maxTaps  int
	snap     param.Snapshot
}

func main() {
	var o options
	def := param.DefaultSnapshot()
	flag.Float64Var(&o.rate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&o.block, "block", 512, "host block size in frames")
	flag.IntVar(&o.channels, "channels", 2, "channel count used for the memory estimate")
	flag.Float64Var(&o.maxDelay, "max-delay", delay.DefaultMaxDelaySeconds, "maximum delay in seconds")
	flag.IntVar(&o.length, "length", 1<<16, "impulse response length in samples")
	flag.IntVar(&o.fftSize, "fft", 1<<16, "FFT size for the comb response (power of two)")
	flag.IntVar(&o.maxTaps, "taps", 16, "number of taps to list (0 = all)")
	flag.Float64Var(&o.snap.DelayTimeMs, "delay", def.DelayTimeMs, "delay time in milliseconds")
	flag.Float64Var(&o.snap.Feedback, "feedback", def.Feedback, "feedback gain (0..1)")
	flag.Float64Var(&o.snap.Ratio, "ratio", def.Ratio, "wet share in percent (0..100)")
	level := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: delayinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints buffer sizing, echo taps and comb response of the delay engine.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	logrus.SetLevel(lvl)

	if err := report(os.Stdout, o); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func report(w io.Writer, o options) error {
	for _, spec := range param.Specs() {
		v, err := o.snap.Value(spec.ID)
		if err != nil {
			return err
		}
		if err := spec.Validate(v); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writeGeometry(tw, o); err != nil {
		return err
	}

	a := echo.NewAnalyzer(o.rate, o.block, delay.WithMaxDelay(o.maxDelay), delay.WithCompactSizing())
	s, err := a.Analyze(o.snap, o.length, o.fftSize)
	if err != nil {
		return err
	}
	if err := writeTaps(tw, s, o.maxTaps); err != nil {
		return err
	}
	if err := writeSummary(tw, s); err != nil {
		return err
	}
	return tw.Flush()
}

func writeGeometry(w io.Writer, o options) error {
	if _, err := fmt.Fprintf(w, "Sizing\tCapacity [samples]\tMemory [MiB]\tMax delay [s]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "------\t------------------\t------------\t-------------\n"); err != nil {
		return err
	}

	for _, sizing := range []delay.Sizing{delay.SizingBlockScaled, delay.SizingCompact} {
		capacity, err := delay.BufferCapacity(o.rate, o.block, o.maxDelay, sizing, delay.DefaultMaxCapacity)
		switch {
		case errors.Is(err, delay.ErrCapacityExceeded):
			if _, err := fmt.Fprintf(w, "%s\texceeds %d\t-\t%.3f\n", sizing, delay.DefaultMaxCapacity, o.maxDelay); err != nil {
				return err
			}
			continue
		case err != nil:
			return err
		}

		mib := float64(capacity*o.channels*8) / (1 << 20)
		if _, err := fmt.Fprintf(w, "%s\t%d\t%.2f\t%.3f\n", sizing, capacity, mib, o.maxDelay); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeTaps(w io.Writer, s echo.Summary, maxTaps int) error {
	if _, err := fmt.Fprintf(w, "Tap\tIndex\tTime [ms]\tGain\tLevel [dB]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "---\t-----\t---------\t----\t----------\n"); err != nil {
		return err
	}

	taps := s.Taps
	if maxTaps > 0 && len(taps) > maxTaps {
		taps = taps[:maxTaps]
	}
	for i, tap := range taps {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%.3f\t%.6f\t%.2f\n",
			i, tap.Index, tap.Seconds*1000, tap.Gain, tap.GainDB); err != nil {
			return err
		}
	}
	if n := len(s.Taps) - len(taps); n > 0 {
		if _, err := fmt.Fprintf(w, "...\t%d more\t\t\t\n", n); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeSummary(w io.Writer, s echo.Summary) error {
	rows := []struct {
		name  string
		value string
	}{
		{"first echo", fmt.Sprintf("%d samples (%.3f ms)", s.DelaySamples, float64(s.DelaySamples)/s.SampleRate*1000)},
		{"echoes", fmt.Sprintf("%d", len(s.Taps))},
		{"decay per repeat", formatDB(s.DecayDBPerRepeat)},
		{"decay to -60 dB", formatSeconds(s.DecaySeconds)},
		{"energy", fmt.Sprintf("%.6f (%s)", s.Energy, formatDB(10*math.Log10(s.Energy)))},
		{"comb peak", fmt.Sprintf("%s at %.2f Hz", formatDB(s.PeakDB), s.PeakFrequency)},
		{"comb notch", formatDB(s.NotchDB)},
		{"comb depth", formatDB(s.PeakDB - s.NotchDB)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.name, r.value); err != nil {
			return err
		}
	}
	return nil
}

func formatDB(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprintf("%v dB", v)
	}
	return fmt.Sprintf("%.2f dB", v)
}

func formatSeconds(v float64) string {
	if math.IsInf(v, 1) {
		return "never"
	}
	return fmt.Sprintf("%.3f s", v)
}
