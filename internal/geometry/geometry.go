// Package geometry maps (week, weekday, row) coordinates to pixel
// rectangles. It knows nothing about the packing algorithm beyond the
// already-assigned row and band length.
package geometry

import (
	"vacationcal/internal/model"
)

// Fixed layout constants matching the rendered cell anatomy.
const (
	// bandTopOffset is the vertical space inside a cell reserved for the day
	// number before the first band row.
	bandTopOffset = 30
	// bandInset shrinks band rectangles horizontally so adjacent cells keep
	// a visible border.
	bandInset = 4
	// minCellHeight is the floor for the dynamic cell height.
	minCellHeight = 120
	// labelBaseline is the text baseline offset inside a band rectangle.
	labelBaseline = 12
	// labelIndent is the horizontal text offset from the cell edge.
	labelIndent = 4
)

// Config holds the purely geometric options recognized by the calendar.
// The zero value is normalized to the defaults below.
type Config struct {
	CellWidth      int `yaml:"cell_width"`
	CellHeight     int `yaml:"cell_height"` // base height; grows with row count
	HeaderHeight   int `yaml:"header_height"`
	Margin         int `yaml:"margin"`
	EventRowHeight int `yaml:"event_row_height"`
	RowSpacing     int `yaml:"row_spacing"`
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.CellWidth <= 0 {
		c.CellWidth = 120
	}
	if c.CellHeight <= 0 {
		c.CellHeight = 140
	}
	if c.HeaderHeight <= 0 {
		c.HeaderHeight = 40
	}
	if c.Margin <= 0 {
		c.Margin = 10
	}
	if c.EventRowHeight <= 0 {
		c.EventRowHeight = 18
	}
	if c.RowSpacing <= 0 {
		c.RowSpacing = 2
	}
}

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, W, H int
}

// Mapper resolves calendar coordinates into pixel rectangles. The cell
// height is dynamic and uniform across the grid: the busiest day in the
// whole window decides it.
type Mapper struct {
	cfg        Config
	cellHeight int
}

// NewMapper builds a Mapper for a layout with maxRows concurrent band rows
// on its busiest day.
func NewMapper(cfg Config, maxRows int) *Mapper {
	cfg.Normalize()

	cellHeight := cfg.CellHeight
	if maxRows > 0 {
		needed := 2*bandTopOffset + maxRows*(cfg.EventRowHeight+cfg.RowSpacing)
		cellHeight = max(minCellHeight, needed)
	}

	return &Mapper{cfg: cfg, cellHeight: cellHeight}
}

// CellHeight returns the resolved uniform cell height.
func (m *Mapper) CellHeight() int { return m.cellHeight }

// CanvasWidth is the total document width.
func (m *Mapper) CanvasWidth() int {
	return model.DaysPerWeek*m.cfg.CellWidth + 2*m.cfg.Margin
}

// CanvasHeight is the total document height: header row plus four weeks.
func (m *Mapper) CanvasHeight() int {
	return m.cfg.HeaderHeight + model.WeeksPerWindow*m.cellHeight + 2*m.cfg.Margin
}

// HeaderRect returns the weekday header cell for day index 0..6.
func (m *Mapper) HeaderRect(day int) Rect {
	return Rect{
		X: m.cfg.Margin + day*m.cfg.CellWidth,
		Y: m.cfg.Margin,
		W: m.cfg.CellWidth,
		H: m.cfg.HeaderHeight,
	}
}

// CellRect returns the day cell at (week 0..3, day 0..6).
func (m *Mapper) CellRect(week, day int) Rect {
	return Rect{
		X: m.cfg.Margin + day*m.cfg.CellWidth,
		Y: m.cfg.Margin + m.cfg.HeaderHeight + week*m.cellHeight,
		W: m.cfg.CellWidth,
		H: m.cellHeight,
	}
}

// BandRect returns the rectangle for a band: horizontally spanning its
// length in days minus the inset, vertically offset by its row inside the
// week's cells.
func (m *Mapper) BandRect(b model.Band) Rect {
	cell := m.CellRect(b.WeekIndex, b.StartDay)
	return Rect{
		X: cell.X + bandInset/2,
		Y: cell.Y + bandTopOffset + b.Row*(m.cfg.EventRowHeight+m.cfg.RowSpacing),
		W: b.Length*m.cfg.CellWidth - bandInset,
		H: m.cfg.EventRowHeight,
	}
}

// BandLabelPos returns the anchor point for a band's label text.
func (m *Mapper) BandLabelPos(b model.Band) (x, y int) {
	cell := m.CellRect(b.WeekIndex, b.StartDay)
	rect := m.BandRect(b)
	return cell.X + labelIndent, rect.Y + labelBaseline
}
