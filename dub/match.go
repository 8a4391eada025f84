package dub

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type matchItem struct {
	level   int
	matcher matcher
}

type matcher interface {
	match(i int) bool
	String() string
}

type rangeMatch struct {
	start, end int
}

func (r rangeMatch) match(i int) bool {
	return (i >= r.start || r.start == -1) && (i <= r.end || r.end == -1)
}

func (r rangeMatch) String() string {
	if r == matchAll {
		return "*"
	}
	return fmt.Sprintf("%d:%d", r.start, r.end)
}

var matchAll = rangeMatch{-1, -1}

type listMatch []int

func (l listMatch) match(i int) bool {
	for _, k := range l {
		if k == i {
			return true
		}
	}
	return false
}

func (l listMatch) String() string {
	parts := make([]string, len(l))
	for n, k := range l {
		parts[n] = strconv.Itoa(k)
	}
	return strings.Join(parts, ",")
}

// MatchAll returns an expression equivalent to '*.
func MatchAll() MatchExpr {
	return MatchExpr{matchers: []matchItem{{matcher: matchAll}}}
}

// MatchList returns an expression matching any of values.
func MatchList(values ...int) MatchExpr {
	return MatchExpr{matchers: []matchItem{{matcher: listMatch(values)}}}
}

// Levels returns the number of rhythmic levels in the expression.
func (m MatchExpr) Levels() int {
	if len(m.matchers) == 0 {
		return 0
	}
	return m.matchers[len(m.matchers)-1].level + 1
}

// Match reports whether i is selected by a single-level expression.
// Multi-level expressions only make sense as rhythms; see EvalMatchExpr.
func (m MatchExpr) Match(i int) bool {
	if len(m.matchers) != 1 {
		return false
	}
	return m.matchers[0].matcher.match(i)
}

func (m MatchExpr) String() string {
	var b strings.Builder
	b.WriteByte('\'')
	level := 0
	for n, item := range m.matchers {
		if n > 0 {
			b.WriteString(strings.Repeat("/", item.level-level))
		}
		level = item.level
		b.WriteString(item.matcher.String())
	}
	return b.String()
}

var errEmptyExpr = errors.New("empty match expression")

// EvalMatchExpr expands a rhythm expression into a step sequence of one bar in
// numerator/denominator time, where each step is a 1/stepSize note. Level 0
// selects beats (counted from 1), each further level halves the division and
// selects notes within the enclosing one.
func EvalMatchExpr(expr MatchExpr, numerator, denominator, stepSize int) ([]int, error) {
	if len(expr.matchers) == 0 {
		return nil, errEmptyExpr
	}
	if numerator <= 0 || denominator <= 0 || stepSize < denominator {
		return nil, fmt.Errorf("invalid grid %d/%d with step size %d", numerator, denominator, stepSize)
	}
	seq := make([]int, (stepSize/denominator)*numerator)

	for i := len(expr.matchers) - 1; i >= 0; i-- {
		item := expr.matchers[i]
		level := int(float64(denominator) * math.Pow(2.0, float64(item.level)))
		if level > stepSize {
			return nil, fmt.Errorf("can't match on %d notes with step size %d", level, stepSize)
		}
		skip := stepSize / level
		notesPerBeat := level / denominator

		for note, steps := 0, 0; note < len(seq); note += skip {
			// calculate a note number relative to other notes on the same division, e.g.
			// the 16th notes within a beat are numbered 0 to 3
			noteNum := steps % notesPerBeat
			if notesPerBeat == 1 {
				noteNum = steps
			}
			steps++

			// add 1 because match expects note numbers to start at 1
			if item.matcher.match(noteNum + 1) {
				if i == len(expr.matchers)-1 {
					seq[note] = 1
				}
			} else {
				// zero steps that are unmatched by the current level
				for k := note; k < note+skip && k < len(seq); k++ {
					seq[k] = 0
				}
			}
		}
	}
	return seq, nil
}
