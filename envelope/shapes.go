package envelope

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AttackRelease rises to 1 over attack and falls back to 0 over release.
func AttackRelease(attack, release time.Duration) []Stage {
	return []Stage{
		{Duration: attack, Target: 1},
		{Duration: release, Target: 0},
	}
}

// AttackHoldRelease is AttackRelease with a plateau at 1 for hold.
func AttackHoldRelease(attack, hold, release time.Duration) []Stage {
	return []Stage{
		{Duration: attack, Target: 1},
		{Duration: hold, Target: 1},
		{Duration: release, Target: 0},
	}
}

// ADSR rises to 1, decays to level, holds level for sustain and releases to 0.
func ADSR(attack, decay time.Duration, level float64, sustain, release time.Duration) []Stage {
	return []Stage{
		{Duration: attack, Target: 1},
		{Duration: decay, Target: level},
		{Duration: sustain, Target: level},
		{Duration: release, Target: 0},
	}
}

// Params holds the named parameters of a shape preset.
type Params struct {
	Attack  time.Duration
	Decay   time.Duration
	Hold    time.Duration
	Sustain time.Duration
	Release time.Duration
	Level   float64
}

type preset struct {
	help  string
	build func(Params) []Stage
}

var presets = map[string]preset{
	"ar": {
		help:  "attack, release",
		build: func(p Params) []Stage { return AttackRelease(p.Attack, p.Release) },
	},
	"ahr": {
		help:  "attack, hold, release",
		build: func(p Params) []Stage { return AttackHoldRelease(p.Attack, p.Hold, p.Release) },
	},
	"adsr": {
		help:  "attack, decay, level, sustain, release",
		build: func(p Params) []Stage { return ADSR(p.Attack, p.Decay, p.Level, p.Sustain, p.Release) },
	},
}

// Preset returns the stages of the named shape.
func Preset(name string, p Params) ([]Stage, error) {
	s, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown shape %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return s.build(p), nil
}

// PresetNames lists the available shapes.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetHelp describes the parameters a shape uses.
func PresetHelp(name string) string {
	return presets[name].help
}
