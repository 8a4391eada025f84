// Package config loads the vizzy TOML configuration and builds the envelope
// bank and sequencers it describes.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Duration is a time.Duration written as a string ("250ms") in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Log contains logger settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Frame contains frame loop and display settings.
type Frame struct {
	FPS        int    `toml:"fps"`
	Display    string `toml:"display"` // meter or none
	MeterWidth int    `toml:"meter_width"`
	MeterEvery int    `toml:"meter_every"` // draw every nth frame
}

// MIDI contains live input and file playback settings.
type MIDI struct {
	Enabled bool   `toml:"enabled"`
	Port    string `toml:"port"` // number or name substring, empty for the first port
	File    string `toml:"file"`
	Loop    bool   `toml:"loop"`
}

// Audio contains onset detection settings for live input and wav files.
type Audio struct {
	Enabled    bool     `toml:"enabled"`
	File       string   `toml:"file"`
	Loop       bool     `toml:"loop"`
	SampleRate int      `toml:"sample_rate"`
	BufferSize int      `toml:"buffer_size"`
	Threshold  float64  `toml:"threshold"`
	Refractory Duration `toml:"refractory"`
}

// Stage is one explicit envelope stage.
type Stage struct {
	Duration Duration `toml:"duration"`
	Target   float64  `toml:"target"`
	Curve    string   `toml:"curve"`
}

// Envelope describes one envelope: a shape preset with parameters, or an
// explicit list of stages.
type Envelope struct {
	Name    string   `toml:"name"`
	Match   string   `toml:"match"`
	Shape   string   `toml:"shape"`
	Curve   string   `toml:"curve"`
	Attack  Duration `toml:"attack"`
	Decay   Duration `toml:"decay"`
	Hold    Duration `toml:"hold"`
	Sustain Duration `toml:"sustain"`
	Release Duration `toml:"release"`
	Level   float64  `toml:"level"`
	Stages  []Stage  `toml:"stages"`
}

// Sequence describes a step sequencer source.
type Sequence struct {
	Name          string  `toml:"name"`
	BPM           float64 `toml:"bpm"`
	TimeSignature string  `toml:"time_signature"`
	StepSize      int     `toml:"step_size"`
	Rhythm        string  `toml:"rhythm"`
	Event         string  `toml:"event"`
}

// Config is the full configuration.
type Config struct {
	Log       Log        `toml:"log"`
	Frame     Frame      `toml:"frame"`
	MIDI      MIDI       `toml:"midi"`
	Audio     Audio      `toml:"audio"`
	Envelopes []Envelope `toml:"envelope"`
	Sequences []Sequence `toml:"sequence"`
}

// Default returns the configuration used when no file exists: live MIDI
// input driving one envelope per note-on.
func Default() Config {
	return Config{
		Log:   Log{Level: "info", Format: "console"},
		Frame: Frame{FPS: 60, Display: "meter", MeterWidth: 40, MeterEvery: 1},
		MIDI:  MIDI{Enabled: true},
		Audio: Audio{
			SampleRate: 44100,
			BufferSize: 512,
			Threshold:  0.1,
			Refractory: Duration(80 * time.Millisecond),
		},
		Envelopes: []Envelope{{
			Name:    "notes",
			Match:   "noteon",
			Shape:   "ar",
			Attack:  Duration(5 * time.Millisecond),
			Release: Duration(250 * time.Millisecond),
		}},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vizzy", "config.toml"), nil
}

// Load parses and validates the configuration at path, or at DefaultPath when
// path is empty. A missing default file yields Default(); a missing explicit
// path is an error. It returns the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, "", false, err
		}
		path = p
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		if err := cfg.Validate(); err != nil {
			return nil, "", false, err
		}
		return &cfg, path, false, nil
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	loaded, err := decode(file)
	if err != nil {
		return nil, "", false, fmt.Errorf("%s: %w", path, err)
	}
	return loaded, path, true, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	return decode(bytes.NewReader(data))
}

// decode starts from Default. A document that declares envelopes replaces the
// default envelope rather than adding to it.
func decode(r io.Reader) (*Config, error) {
	cfg := Default()
	cfg.Envelopes = nil
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sample returns the annotated sample configuration.
func Sample() string { return sampleConfig }

// CreateSample writes the sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
