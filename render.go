package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mrdg/vizzy/config"
	"github.com/mrdg/vizzy/envelope"
	"github.com/mrdg/vizzy/source"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	// keep headers as written; the rounded style upper-cases them
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// renderStatus shows the live state of every envelope.
func renderStatus(statuses []envelope.Status, now time.Time) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		last := "never"
		if !s.Triggered.IsZero() {
			last = now.Sub(s.Triggered).Truncate(time.Millisecond).String() + " ago"
		}
		segment := "idle"
		if s.Segment >= 0 {
			segment = fmt.Sprintf("%d/%d", s.Segment+1, len(s.Segments))
		}
		rows = append(rows, []string{
			s.Name,
			strconv.FormatFloat(s.Current, 'f', 3, 64),
			segment,
			last,
			envelope.Duration(s.Segments).String(),
		})
	}
	return renderTable(
		[]string{"Envelope", "Value", "Segment", "Triggered", "Length"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

// renderEnvelopes lists the configured envelopes with their compiled segments.
func renderEnvelopes(cfg *config.Config) (string, error) {
	var rows [][]string
	for _, e := range cfg.Envelopes {
		env, err := e.Build()
		if err != nil {
			return "", err
		}
		var segs []string
		for _, s := range env.Segments() {
			segs = append(segs, s.String())
		}
		rows = append(rows, []string{env.Name, e.Match, strings.Join(segs, "\n")})
	}
	return renderTable([]string{"Envelope", "Match", "Segments"}, rows, nil), nil
}

func renderSequencers(seqs []*source.Sequencer) string {
	rows := make([][]string, 0, len(seqs))
	for _, seq := range seqs {
		bpm, _ := seq.Get("bpm")
		var steps strings.Builder
		for _, v := range seq.Steps() {
			if v != 0 {
				steps.WriteString("x")
			} else {
				steps.WriteString(".")
			}
		}
		rows = append(rows, []string{seq.Name(), fmt.Sprint(bpm), steps.String()})
	}
	return renderTable([]string{"Sequence", "BPM", "Steps"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
}

func renderPorts(ports []source.Port) string {
	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		rows = append(rows, []string{strconv.Itoa(p.Number), p.Name})
	}
	return renderTable([]string{"#", "MIDI input"}, rows, []columnAlignment{alignRight, alignLeft})
}
