package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrdg/vizzy/envelope"
	"github.com/mrdg/vizzy/event"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	bank, err := cfg.BuildBank()
	require.NoError(t, err)
	assert.Equal(t, []string{"notes"}, bank.Names())
}

func TestSampleConfig(t *testing.T) {
	cfg, err := Parse([]byte(Sample()))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Frame.FPS)
	assert.Equal(t, 80*time.Millisecond, cfg.Audio.Refractory.Std())
	require.Len(t, cfg.Envelopes, 4)
	require.Len(t, cfg.Sequences, 1)

	bank, err := cfg.BuildBank()
	require.NoError(t, err)
	assert.Equal(t, []string{"kick", "snare", "pad", "flash"}, bank.Names())
	assert.Equal(t, 2, bank.OnEvent(event.NoteOn(10, 36, 100))+bank.OnEvent(event.Onset(50)))

	seqs, err := cfg.BuildSequencers()
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Equal(t, "hats", seqs[0].Name())
	assert.Equal(t, []int{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0}, seqs[0].Steps())
}

func TestEnvelopeCompile(t *testing.T) {
	e := Envelope{
		Name:  "flash",
		Match: "any",
		Curve: "smooth",
		Stages: []Stage{
			{Duration: 0, Target: 1},
			{Duration: Duration(100 * time.Millisecond), Target: 0, Curve: "exp"},
		},
	}
	stages, err := e.Compile()
	require.NoError(t, err)
	assert.Equal(t, []envelope.Stage{
		{Duration: 0, Target: 1, Curve: envelope.Smooth},
		{Duration: 100 * time.Millisecond, Target: 0, Curve: envelope.Exponential},
	}, stages)

	e = Envelope{Name: "kick", Match: "any", Attack: Duration(time.Millisecond), Release: Duration(time.Second)}
	stages, err = e.Compile()
	require.NoError(t, err)
	assert.Equal(t, envelope.AttackRelease(time.Millisecond, time.Second), stages)
}

func TestValidateErrors(t *testing.T) {
	tests := map[string]string{
		"no envelopes": `[frame]
fps = 30`,
		"bad fps": `[frame]
fps = 0
[[envelope]]
name = "a"
match = "any"`,
		"bad display": `[frame]
display = "opengl"
[[envelope]]
name = "a"
match = "any"`,
		"duplicate envelope": `[[envelope]]
name = "a"
match = "any"
[[envelope]]
name = "a"
match = "onset"`,
		"bad pattern": `[[envelope]]
name = "a"
match = "noteon 17"`,
		"shape and stages": `[[envelope]]
name = "a"
match = "any"
shape = "ar"
stages = [{ duration = "1s", target = 1.0 }]`,
		"negative stage": `[[envelope]]
name = "a"
match = "any"
stages = [{ duration = "-1s", target = 1.0 }]`,
		"bad duration": `[[envelope]]
name = "a"
match = "any"
attack = "soon"`,
		"unknown field": `[[envelope]]
name = "a"
match = "any"
colour = "red"`,
		"reserved sequence": `[[envelope]]
name = "a"
match = "any"
[[sequence]]
name = "midi"
event = "onset 1"`,
		"bad rhythm": `[[envelope]]
name = "a"
match = "any"
[[sequence]]
name = "s"
rhythm = "*////1"
event = "onset 1"`,
		"missing sequence event": `[[envelope]]
name = "a"
match = "any"
[[sequence]]
name = "s"`,
		"bad threshold": `[audio]
threshold = 2.0
[[envelope]]
name = "a"
match = "any"`,
		"bad log level": `[log]
level = "chatty"
[[envelope]]
name = "a"
match = "any"`,
	}
	for name, doc := range tests {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vizzy", "config.toml")
	require.NoError(t, CreateSample(path))

	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)
	assert.Len(t, cfg.Envelopes, 4)

	_, _, _, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, _, exists, err := Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, Default(), *cfg)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	text, err := cfg.Encode()
	require.NoError(t, err)
	assert.Contains(t, text, "250ms")

	parsed, err := Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, cfg.Log, parsed.Log)
	assert.Equal(t, cfg.Frame, parsed.Frame)
	assert.Equal(t, cfg.MIDI, parsed.MIDI)
	assert.Equal(t, cfg.Audio, parsed.Audio)
	require.Len(t, parsed.Envelopes, 1)
	assert.Equal(t, cfg.Envelopes[0].Release, parsed.Envelopes[0].Release)
	assert.Empty(t, parsed.Sequences)
}

func TestCreateSampleWritesEmbeddedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, CreateSample(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sample(), string(data))
}
