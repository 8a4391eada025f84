package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrdg/vizzy/config"
	"github.com/mrdg/vizzy/envelope"
	"github.com/mrdg/vizzy/frame"
	"github.com/mrdg/vizzy/logging"
	"github.com/mrdg/vizzy/source"
)

type runOptions struct {
	midiPort string
	noMIDI   bool
	file     string
	loop     bool
	wav      string
	audio    bool
	display  string
	console  bool
	script   string
	logLevel string
}

// apply overrides configuration values with the flags that were set.
func (o runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("midi-port") {
		cfg.MIDI.Port = o.midiPort
		cfg.MIDI.Enabled = true
	}
	if o.noMIDI {
		cfg.MIDI.Enabled = false
	}
	if flags.Changed("file") {
		cfg.MIDI.File = o.file
	}
	if flags.Changed("wav") {
		cfg.Audio.File = o.wav
	}
	if flags.Changed("loop") {
		cfg.MIDI.Loop = o.loop
		cfg.Audio.Loop = o.loop
	}
	if flags.Changed("audio") {
		cfg.Audio.Enabled = o.audio
	}
	if flags.Changed("display") {
		cfg.Frame.Display = o.display
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	// the console and the meter share the terminal
	if o.console {
		cfg.Frame.Display = "none"
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Listen for events and sample envelopes every frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			log, closeLog, err := logging.New(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				File:   cfg.Log.File,
			})
			if err != nil {
				return err
			}
			defer closeLog()
			console := consoleOptions{interactive: opts.console}
			if opts.script != "" {
				f, err := os.Open(opts.script)
				if err != nil {
					return err
				}
				defer f.Close()
				console.script = f
			}
			err = run(signalCtx, cfg, log, cmd.OutOrStdout(), console)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.midiPort, "midi-port", "", "MIDI input port number or name")
	flags.BoolVar(&opts.noMIDI, "no-midi", false, "Don't open a live MIDI input")
	flags.StringVar(&opts.file, "file", "", "Play a standard MIDI file")
	flags.StringVar(&opts.wav, "wav", "", "Play the onsets detected in a wav file")
	flags.BoolVar(&opts.loop, "loop", false, "Loop file playback")
	flags.BoolVar(&opts.audio, "audio", false, "Detect onsets on the default audio input")
	flags.StringVar(&opts.display, "display", "meter", "Frame display: meter or none")
	flags.BoolVar(&opts.console, "console", false, "Start an interactive console (disables the meter)")
	flags.StringVar(&opts.script, "script", "", "Run console commands from a file after starting")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	return cmd
}

type consoleOptions struct {
	interactive bool
	script      io.Reader
}

// run wires the configured sources to the envelope bank and runs the frame
// loop until ctx is done, the console exits or a source fails.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer, console consoleOptions) error {
	bank, err := cfg.BuildBank(envelope.WithLogger(log.With("component", "bank")))
	if err != nil {
		return err
	}
	sources, devices, err := buildSources(cfg, log)
	if err != nil {
		return err
	}
	if len(sources) == 0 && !console.interactive && console.script == nil {
		return errors.New("no event sources enabled: enable midi or audio, or pass --file, --wav, --script or --console")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sourceErr := make(chan error, 1)
	go func() {
		sourceErr <- source.RunAll(ctx, log.With("component", "source"), bank, sources...)
	}()

	e := &env{bank: bank, devices: devices, now: time.Now}
	if console.script != nil {
		if err := runScript(e, console.script, out); err != nil {
			cancel()
			<-sourceErr
			return fmt.Errorf("script: %w", err)
		}
	}
	if console.interactive {
		go func() {
			defer cancel()
			if err := repl(ctx, e, out); err != nil {
				log.Error("console failed", "error", err)
			}
		}()
	}

	var consumers []frame.Consumer
	if cfg.Frame.Display == "meter" {
		consumers = append(consumers, frame.NewMeter(out, cfg.Frame.MeterWidth, cfg.Frame.MeterEvery))
	}
	loop := &frame.Loop{
		Bank:      bank,
		Consumers: consumers,
		FPS:       cfg.Frame.FPS,
		Log:       log.With("component", "frame"),
	}
	log.Info("running", "envelopes", bank.Names(), "sources", len(sources), "fps", cfg.Frame.FPS)

	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	select {
	case err = <-loopErr:
		cancel()
		if srcErr := <-sourceErr; err == nil {
			err = srcErr
		}
	case err = <-sourceErr:
		if err == nil {
			// sampling continues until interrupted or the console exits
			log.Info("all sources finished")
			err = <-loopErr
		} else {
			cancel()
			<-loopErr
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// buildSources returns the enabled sources and the runtime properties the
// console can edit, keyed by device name.
func buildSources(cfg *config.Config, log *slog.Logger) ([]source.Source, map[string]*source.Props, error) {
	var sources []source.Source
	devices := make(map[string]*source.Props)

	if cfg.MIDI.Enabled {
		sources = append(sources, &source.MIDI{Port: cfg.MIDI.Port, Log: log.With("component", "midi")})
	}
	if cfg.MIDI.File != "" {
		sources = append(sources, &source.File{Path: cfg.MIDI.File, Loop: cfg.MIDI.Loop, Log: log.With("component", "file")})
	}
	if cfg.Audio.Enabled {
		props := source.NewProps()
		detector := source.NewOnsetDetector(props, cfg.Audio.SampleRate, cfg.Audio.Threshold, cfg.Audio.Refractory.Std())
		sources = append(sources, &source.Audio{
			SampleRate: cfg.Audio.SampleRate,
			BufferSize: cfg.Audio.BufferSize,
			Detector:   detector,
			Log:        log.With("component", "audio"),
		})
		devices["audio"] = props
	}
	if cfg.Audio.File != "" {
		threshold, refractory := cfg.Audio.Threshold, cfg.Audio.Refractory.Std()
		sources = append(sources, &source.WAV{
			Path:      cfg.Audio.File,
			Loop:      cfg.Audio.Loop,
			BlockSize: cfg.Audio.BufferSize,
			Detector: func(rate int) *source.OnsetDetector {
				return source.NewOnsetDetector(source.NewProps(), rate, threshold, refractory)
			},
			Log: log.With("component", "wav"),
		})
	}

	seqs, err := cfg.BuildSequencers()
	if err != nil {
		return nil, nil, err
	}
	for _, seq := range seqs {
		sources = append(sources, seq)
		devices[seq.Name()] = seq.Props
	}
	return sources, devices, nil
}
