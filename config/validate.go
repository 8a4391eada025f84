package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Envelopes and sequences are
// validated by building them.
func (c *Config) Validate() error {
	if err := c.validateLog(); err != nil {
		return err
	}
	if err := c.validateFrame(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateEnvelopes(); err != nil {
		return err
	}
	return c.validateSequences()
}

func (c *Config) validateLog() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unsupported value %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q", c.Log.Format)
	}
	return nil
}

func (c *Config) validateFrame() error {
	if c.Frame.FPS < 1 || c.Frame.FPS > 1000 {
		return fmt.Errorf("frame.fps must be between 1 and 1000, got %d", c.Frame.FPS)
	}
	switch c.Frame.Display {
	case "meter", "none":
	default:
		return fmt.Errorf("frame.display must be meter or none, got %q", c.Frame.Display)
	}
	if c.Frame.MeterWidth < 0 || c.Frame.MeterEvery < 0 {
		return errors.New("frame.meter_width and frame.meter_every must not be negative")
	}
	return nil
}

func (c *Config) validateAudio() error {
	a := c.Audio
	if a.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", a.SampleRate)
	}
	if a.BufferSize <= 0 {
		return fmt.Errorf("audio.buffer_size must be positive, got %d", a.BufferSize)
	}
	if a.Threshold <= 0 || a.Threshold > 1 {
		return fmt.Errorf("audio.threshold must be in (0, 1], got %v", a.Threshold)
	}
	if a.Refractory < 0 {
		return errors.New("audio.refractory must not be negative")
	}
	return nil
}

func (c *Config) validateEnvelopes() error {
	if len(c.Envelopes) == 0 {
		return errors.New("at least one [[envelope]] is required")
	}
	seen := make(map[string]bool, len(c.Envelopes))
	for i, e := range c.Envelopes {
		if seen[e.Name] {
			return fmt.Errorf("envelope %d: duplicate name %q", i+1, e.Name)
		}
		seen[e.Name] = true
		if _, err := e.Build(); err != nil {
			return fmt.Errorf("envelope %d: %w", i+1, err)
		}
	}
	return nil
}

// names used by the built-in sources in console commands
var reservedNames = map[string]bool{"midi": true, "file": true, "audio": true, "wav": true}

func (c *Config) validateSequences() error {
	seen := make(map[string]bool, len(c.Sequences))
	for i, s := range c.Sequences {
		if reservedNames[s.Name] {
			return fmt.Errorf("sequence %d: name %q is reserved", i+1, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("sequence %d: duplicate name %q", i+1, s.Name)
		}
		seen[s.Name] = true
		if _, err := s.Build(); err != nil {
			return fmt.Errorf("sequence %d: %w", i+1, err)
		}
	}
	return nil
}
