// Command stereodelay runs the delay engine on the default audio devices.
//
// Usage:
//
//	stereodelay [flags]
//
// While running, parameter changes are read from stdin as "<param> <value>"
// lines, for example "delayTime 350" or "feedback 0.7". Interrupt to stop.
//
// Examples:
//
//	stereodelay
//	stereodelay -delay 250 -feedback 0.6 -ratio 35
//	stereodelay -rate 44100 -block 128 -compact
//	stereodelay -meter 1s -log-level info
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/param"
	"github.com/cwbudde/algo-delay/host"
	"github.com/cwbudde/algo-delay/measure/level"
	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

var errBadCommand = errors.New("expected \"<param> <value>\"")

type settings struct {
	rate     float64
	block    int
	channels int
	maxDelay float64
	compact  bool
	meter    time.Duration
	snap     param.Snapshot
}

func main() {
	var s settings
	def := param.DefaultSnapshot()
	flag.Float64Var(&s.rate, "rate", 0, "sample rate in Hz (0 = device default)")
	flag.IntVar(&s.block, "block", 256, "frames per buffer")
	flag.IntVar(&s.channels, "channels", 2, "input and output channels")
	flag.Float64Var(&s.maxDelay, "max-delay", delay.DefaultMaxDelaySeconds, "maximum delay in seconds")
	flag.BoolVar(&s.compact, "compact", false, "size the history from the maximum delay only")
	flag.DurationVar(&s.meter, "meter", 0, "log output levels at this interval (0 = off)")
	flag.Float64Var(&s.snap.DelayTimeMs, "delay", def.DelayTimeMs, "delay time in milliseconds")
	flag.Float64Var(&s.snap.Feedback, "feedback", def.Feedback, "feedback gain (0..1)")
	flag.Float64Var(&s.snap.Ratio, "ratio", def.Ratio, "wet share in percent (0..100)")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stereodelay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a stereo delay between the default input and output devices.\n")
		fmt.Fprintf(os.Stderr, "Parameters can be changed at runtime by typing \"<param> <value>\".\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nParameters:\n")
		for _, spec := range param.Specs() {
			fmt.Fprintf(os.Stderr, "  %-10s %s (%s .. %s)\n", spec.ID, spec.Name, spec.Format(spec.Min), spec.Format(spec.Max))
		}
	}
	flag.Parse()

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	logrus.SetLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, s); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("stereodelay failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, s settings) error {
	surface := param.NewSurface()
	if err := applySettings(surface, s.snap); err != nil {
		return err
	}

	opts := []delay.Option{delay.WithMaxDelay(s.maxDelay)}
	if s.compact {
		opts = append(opts, delay.WithCompactSizing())
	}
	engine := delay.New(opts...)

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	defer portaudio.Terminate()

	h, err := portaudio.DefaultHostApi()
	if err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	if h.DefaultInputDevice == nil || h.DefaultOutputDevice == nil {
		return errors.New("portaudio: no default input or output device")
	}

	p := portaudio.LowLatencyParameters(h.DefaultInputDevice, h.DefaultOutputDevice)
	p.Input.Channels = s.channels
	p.Output.Channels = s.channels
	p.FramesPerBuffer = s.block
	if s.rate > 0 {
		p.SampleRate = s.rate
	}

	var hostOpts []host.Option
	var meter *level.Meter
	if s.meter > 0 {
		window := int(math.Ceil(s.meter.Seconds() * p.SampleRate))
		if meter, err = level.NewMeter(s.channels, window); err != nil {
			return err
		}
		hostOpts = append(hostOpts, host.WithMeter(meter))
	}
	adapter := host.New(engine, surface, hostOpts...)

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(p.SampleRate),
		core.WithBlockSize(s.block),
		core.WithChannels(s.channels),
	)
	if err := adapter.Prepare(cfg); err != nil {
		return err
	}

	stream, err := portaudio.OpenStream(p, adapter.ProcessFloat32)
	if err != nil {
		return fmt.Errorf("portaudio: open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start stream: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "run",
		"input":    h.DefaultInputDevice.Name,
		"output":   h.DefaultOutputDevice.Name,
		"latency":  adapter.Latency().String(),
	}).Info("stream started")

	go readCommands(os.Stdin, surface)
	if meter != nil {
		go logLevels(ctx, meter, s.meter)
	}

	<-ctx.Done()

	if err := stream.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop stream: %w", err)
	}
	logrus.WithField("function", "run").Info("stream stopped")
	return nil
}

func logLevels(ctx context.Context, meter *level.Meter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	readings := make([]level.Reading, 0, meter.Channels())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		readings = meter.Read(readings[:0])
		fields := logrus.Fields{"function": "logLevels"}
		for c, r := range readings {
			fields[fmt.Sprintf("peak_%d", c)] = fmt.Sprintf("%.1f dB", r.PeakDB())
			fields[fmt.Sprintf("rms_%d", c)] = fmt.Sprintf("%.1f dB", r.RMSDB())
		}
		logrus.WithFields(fields).Info("output level")
	}
}

func applySettings(surface *param.Surface, snap param.Snapshot) error {
	for _, spec := range param.Specs() {
		v, err := snap.Value(spec.ID)
		if err != nil {
			return err
		}
		if err := surface.Set(spec.ID, v); err != nil {
			return fmt.Errorf("-%s: %w", flagName(spec.ID), err)
		}
	}
	return nil
}

func flagName(id string) string {
	switch id {
	case param.DelayTime:
		return "delay"
	default:
		return id
	}
}

// readCommands feeds "<param> <value>" lines from r into surface until r is
// exhausted.
func readCommands(r io.Reader, surface *param.Surface) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, v, err := parseCommand(line)
		if err == nil {
			err = surface.Set(id, v)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		spec, _ := param.Lookup(id)
		fmt.Fprintf(os.Stderr, "%s = %s\n", spec.Name, spec.Format(v))
	}
}

func parseCommand(line string) (string, float64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("%q: %w", line, errBadCommand)
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "", 0, fmt.Errorf("%q: %w", line, err)
	}
	return fields[0], v, nil
}
