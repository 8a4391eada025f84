package frame

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	colorRed = iota + 31
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}

// Meter draws one bar per envelope. On a terminal it redraws in place with
// colour; otherwise it appends plain lines.
type Meter struct {
	w     io.Writer
	tty   bool
	width int
	every uint64
	names []string
	drawn int
}

// NewMeter returns a meter drawing bars of width cells on every nth frame.
func NewMeter(w io.Writer, width, every int) *Meter {
	if width <= 0 {
		width = 40
	}
	if every <= 0 {
		every = 1
	}
	return &Meter{w: w, tty: isTerminal(w), width: width, every: uint64(every)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (m *Meter) Consume(f Frame) error {
	if f.Index%m.every != 0 {
		return nil
	}
	if len(m.names) != len(f.Values) {
		m.names = m.names[:0]
		for name := range f.Values {
			m.names = append(m.names, name)
		}
		sort.Strings(m.names)
	}

	var b strings.Builder
	if m.tty && m.drawn > 0 {
		fmt.Fprintf(&b, "\033[%dA", m.drawn)
	}
	nameWidth := 0
	for _, name := range m.names {
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
	}
	for _, name := range m.names {
		b.WriteString(m.bar(name, nameWidth, f.Values[name]))
		b.WriteByte('\n')
	}
	if !m.tty {
		fmt.Fprintf(&b, "-- frame %d t=%v\n", f.Index, f.Elapsed.Truncate(time.Millisecond))
	}
	m.drawn = len(m.names)
	_, err := io.WriteString(m.w, b.String())
	return err
}

func (m *Meter) bar(name string, nameWidth int, v float64) string {
	clamped := v
	if clamped < 0 {
		clamped = 0
	} else if clamped > 1 {
		clamped = 1
	}
	filled := int(clamped*float64(m.width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("·", m.width-filled)
	label := fmt.Sprintf("%-*s", nameWidth, name)
	if m.tty {
		label = colorize(label, colorBlue)
		bar = colorize(bar, levelColor(clamped))
		return fmt.Sprintf("\033[2K%s %s %5.3f", label, bar, v)
	}
	return fmt.Sprintf("%s %s %5.3f", label, bar, v)
}

func levelColor(v float64) int {
	switch {
	case v >= 0.8:
		return colorRed
	case v >= 0.5:
		return colorYellow
	case v > 0:
		return colorGreen
	default:
		return colorMagenta
	}
}
