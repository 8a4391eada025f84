package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrdg/vizzy/config"
	"github.com/mrdg/vizzy/dub"
	"github.com/mrdg/vizzy/envelope"
	"github.com/mrdg/vizzy/event"
	"github.com/mrdg/vizzy/logging"
	"github.com/mrdg/vizzy/source"
)

var t0 = time.Unix(1700000000, 0)

func newTestEnv(t *testing.T) *env {
	t.Helper()
	cfg, err := config.Parse([]byte(`
[[envelope]]
name = "kick"
match = "noteon '10 36"
attack = "50ms"
release = "75ms"

[[envelope]]
name = "hats"
match = "noteon '10 42"
attack = "1ms"
release = "10ms"
`))
	require.NoError(t, err)
	bank, err := cfg.BuildBank(envelope.WithClock(func() time.Time { return t0 }))
	require.NoError(t, err)

	expr, err := dub.ParseMatchExpr("1:4")
	require.NoError(t, err)
	seq, err := source.NewSequencer("hats", source.TimeSig{Num: 4, Denom: 4}, 16, 120, expr, event.NoteOn(10, 42, 100))
	require.NoError(t, err)

	return &env{
		bank:    bank,
		devices: map[string]*source.Props{"hats": seq.Props},
		now:     func() time.Time { return t0.Add(25 * time.Millisecond) },
	}
}

func TestEvalSend(t *testing.T) {
	e := newTestEnv(t)
	out, err := e.eval("send noteon 10 36 100")
	require.NoError(t, err)
	assert.Equal(t, "triggered 1", out)

	out, err = e.eval("send onset 90")
	require.NoError(t, err)
	assert.Equal(t, "triggered 0", out)

	_, err = e.eval("send noteon 10")
	assert.Error(t, err)
	_, err = e.eval("send")
	assert.Error(t, err)
}

func TestEvalProps(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.eval("set hats bpm 90")
	require.NoError(t, err)
	out, err := e.eval("get hats bpm")
	require.NoError(t, err)
	assert.Equal(t, "90", out)

	_, err = e.eval("set hats rhythm '*/2")
	require.NoError(t, err)
	out, err = e.eval("get hats rhythm")
	require.NoError(t, err)
	assert.Equal(t, "[0 0 1 0 0 0 1 0 0 0 1 0 0 0 1 0]", out)

	_, err = e.eval("set hats mute on")
	require.NoError(t, err)

	out, err = e.eval("props hats")
	require.NoError(t, err)
	assert.Equal(t, "bpm mute rhythm", out)

	_, err = e.eval("set hats bpm 9000")
	assert.ErrorContains(t, err, "set error")
	_, err = e.eval("set drums bpm 100")
	assert.ErrorContains(t, err, "unknown device")
	_, err = e.eval("get hats")
	assert.ErrorContains(t, err, "wrong number of arguments")
}

func TestEvalListAndLevels(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.eval("send noteon 10 36 100")
	require.NoError(t, err)

	out, err := e.eval("levels")
	require.NoError(t, err)
	assert.Contains(t, out, "kick=")
	assert.Contains(t, out, "hats=0.000")

	out, err = e.eval("list")
	require.NoError(t, err)
	assert.Contains(t, out, "kick")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "125ms")
}

func TestEvalLevelsReadsLastFrame(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.eval("send noteon 10 36 100")
	require.NoError(t, err)

	// no frame sampled yet: levels must not advance the envelopes itself
	out, err := e.eval("levels")
	require.NoError(t, err)
	assert.Equal(t, "kick=0.000 hats=0.000", out)
	assert.Equal(t, 0.0, e.bank.Snapshot(e.now())[0].Current)

	e.bank.SampleAll(t0.Add(50 * time.Millisecond))
	out, err = e.eval("levels")
	require.NoError(t, err)
	assert.Equal(t, "kick=1.000 hats=0.000", out)
}

func TestEvalUnknownAndQuit(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.eval("explode")
	assert.ErrorContains(t, err, "unknown command")
	_, err = e.eval("quit")
	assert.ErrorIs(t, err, errQuit)
	_, err = e.eval("'1")
	assert.Error(t, err)

	out, err := e.eval("help")
	require.NoError(t, err)
	assert.Contains(t, out, "devices: hats")
}

func TestRunScript(t *testing.T) {
	e := newTestEnv(t)
	script := strings.NewReader(`
# trigger the kick
send noteon 10 36 100
set hats bpm 100
quit
send noteon 10 42 100
`)
	var out bytes.Buffer
	require.NoError(t, runScript(e, script, &out))
	assert.Equal(t, "triggered 1\n", out.String())

	err := runScript(e, strings.NewReader("send noteon 10 36 100\nbogus\n"), &out)
	assert.ErrorContains(t, err, "line 2")
}

func TestEvalLine(t *testing.T) {
	e := newTestEnv(t)
	var out bytes.Buffer
	assert.False(t, evalLine(e, "   ", &out))
	assert.False(t, evalLine(e, "bogus", &out))
	assert.Contains(t, out.String(), "unknown command")
	assert.True(t, evalLine(e, "quit", &out))
}

func TestRunWithScript(t *testing.T) {
	cfg := config.Default()
	cfg.MIDI.Enabled = false
	cfg.Frame.Display = "none"
	cfg.Frame.FPS = 100

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)
	var out bytes.Buffer
	err := run(ctx, &cfg, logging.Discard(), &out, consoleOptions{
		script: strings.NewReader("send noteon 1 60 100\nlevels\n"),
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "triggered 1")
	assert.Contains(t, out.String(), "notes=")
}

func TestRunWithoutSources(t *testing.T) {
	cfg := config.Default()
	cfg.MIDI.Enabled = false
	err := run(context.Background(), &cfg, logging.Discard(), &bytes.Buffer{}, consoleOptions{})
	assert.ErrorContains(t, err, "no event sources")
}
