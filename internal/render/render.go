// Package render emits the calendar as an SVG document. It is a pure
// consumer of the layout engine's output: the window, the synthesized bands
// and the geometry mapper fully determine the markup.
package render

import (
	"fmt"
	"os"
	"strings"

	"vacationcal/internal/geometry"
	"vacationcal/internal/model"
)

// DefaultWeekdayLabels are the header labels, Monday first. The source data
// this calendar was built for is Japanese, hence the defaults; they are
// configurable.
var DefaultWeekdayLabels = []string{"月", "火", "水", "木", "金", "土", "日"}

// Options bundles the inputs for one document.
type Options struct {
	Window model.Window
	Today  model.Date
	Bands  []model.Band
	Mapper *geometry.Mapper

	// WeekdayLabels must have 7 entries; nil falls back to the defaults.
	WeekdayLabels []string
}

// Document builds the full SVG document string.
func Document(opts Options) string {
	labels := opts.WeekdayLabels
	if len(labels) != model.DaysPerWeek {
		labels = DefaultWeekdayLabels
	}
	m := opts.Mapper

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
    <defs>
        <style>
            .header { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; text-anchor: middle; }
            .month { font-family: Arial, sans-serif; font-size: 18px; font-weight: bold; text-anchor: start; }
            .day-number { font-family: Arial, sans-serif; font-size: 14px; text-anchor: end; }
            .event { font-family: Arial, sans-serif; font-size: 10px; text-anchor: start; }
            .event-rect { stroke: #666666; stroke-width: 0.5; }
            .cell { fill: white; stroke: #cccccc; stroke-width: 1; }
            .saturday { fill: #e3f2fd; }
            .sunday { fill: #ffebee; }
            .today { fill: #ffffa8; stroke: #cccccc; stroke-width: 1; }
        </style>
    </defs>
    <rect width="%d" height="%d" fill="#fafafa"/>
`, m.CanvasWidth(), m.CanvasHeight(), m.CanvasWidth(), m.CanvasHeight()))

	writeHeader(&svg, m, labels)
	writeCells(&svg, m, opts.Window, opts.Today)
	writeBands(&svg, m, opts.Bands)

	svg.WriteString("</svg>\n")
	return svg.String()
}

// WriteFile renders the document and writes it to path.
func WriteFile(path string, opts Options) error {
	if err := os.WriteFile(path, []byte(Document(opts)), 0o644); err != nil {
		return fmt.Errorf("render: write svg: %w", err)
	}
	return nil
}

func writeHeader(svg *strings.Builder, m *geometry.Mapper, labels []string) {
	for day, label := range labels {
		r := m.HeaderRect(day)
		svg.WriteString(fmt.Sprintf(
			`    <rect x="%d" y="%d" width="%d" height="%d" class="cell" fill="#e0e0e0"/>`+"\n",
			r.X, r.Y, r.W, r.H))
		svg.WriteString(fmt.Sprintf(
			`    <text x="%d" y="%d" class="header">%s</text>`+"\n",
			r.X+r.W/2, r.Y+r.H/2+5, escape(label)))
	}
}

// writeCells draws all day cells before any band, so bands always sit on top
// of the grid.
func writeCells(svg *strings.Builder, m *geometry.Mapper, win model.Window, today model.Date) {
	for weekIdx, week := range win {
		for dayIdx, date := range week {
			r := m.CellRect(weekIdx, dayIdx)

			class := cellClass(date, dayIdx, today)
			svg.WriteString(fmt.Sprintf(
				`    <rect x="%d" y="%d" width="%d" height="%d" class="%s"/>`+"\n",
				r.X, r.Y, r.W, r.H, class))

			// Month label on the 1st of each month.
			if date.Day() == 1 {
				svg.WriteString(fmt.Sprintf(
					`    <text x="%d" y="%d" class="month">%d月</text>`+"\n",
					r.X+8, r.Y+20, int(date.Month())))
			}

			svg.WriteString(fmt.Sprintf(
				`    <text x="%d" y="%d" class="day-number">%d</text>`+"\n",
				r.X+r.W-8, r.Y+20, date.Day()))
		}
	}
}

// cellClass resolves the styling flag for a day cell. Today wins over the
// weekend tints.
func cellClass(date model.Date, dayIdx int, today model.Date) string {
	switch {
	case date.Equal(today):
		return "cell today"
	case dayIdx == 5:
		return "cell saturday"
	case dayIdx == 6:
		return "cell sunday"
	default:
		return "cell"
	}
}

func writeBands(svg *strings.Builder, m *geometry.Mapper, bands []model.Band) {
	for _, b := range bands {
		r := m.BandRect(b)
		svg.WriteString(fmt.Sprintf(
			`    <rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="event-rect"/>`+"\n",
			r.X, r.Y, r.W, r.H, b.Color))

		if b.Label != "" {
			x, y := m.BandLabelPos(b)
			svg.WriteString(fmt.Sprintf(
				`    <text x="%d" y="%d" class="event">%s</text>`+"\n",
				x, y, escape(b.Label)))
		}
	}
}

// escape makes free text safe for SVG text nodes.
func escape(s string) string {
	return xmlReplacer.Replace(s)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)
