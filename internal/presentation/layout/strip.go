package layout

import (
	"math"

	"github.com/penwyp/go-timeline-clock/internal/core/model"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

const (
	tickRune     = '┈'
	ruleRune     = '─'
	lineRune     = '━'
	readoutSep   = "  "
	readoutInset = 1
)

// Scene is everything the surface shows in one frame.
type Scene struct {
	Viewport    model.Viewport
	Markers     []model.TimeMarker
	Translation float64
	Line        model.ReferenceLine
	HasLine     bool
	Padding     float64
	TimeText    string
	DateText    string
	ShowHelp    bool
	Status      string
}

// MarkerSpans reports where a labeled marker's texts landed, in cells.
type MarkerSpans struct {
	TimeFrom, TimeTo int
	DateFrom, DateTo int
}

// TimeWidth is the number of cells the time label occupies.
func (s MarkerSpans) TimeWidth() int {
	return s.TimeTo - s.TimeFrom
}

// DateWidth is the number of cells the date label occupies.
func (s MarkerSpans) DateWidth() int {
	return s.DateTo - s.DateFrom
}

// PixelToRow maps a vertical pixel offset to a 0-based row.
func PixelToRow(y, cellHeight float64) int {
	return int(math.Floor(y / cellHeight))
}

// PaddingCols converts the marker padding to whole cells.
func PaddingCols(padding, cellWidth float64) int {
	if cellWidth <= 0 {
		return 0
	}
	return int(math.Round(padding / cellWidth))
}

// Compose draws the scene into a fresh grid. Markers are drawn in slice order,
// so labeled markers placed after ticks cover them when they share a row.
func Compose(scene Scene) *Grid {
	v := scene.Viewport
	g := NewGrid(v.Rows, v.Cols)
	if v.Rows == 0 || v.Cols == 0 || v.CellHeight <= 0 || v.CellWidth <= 0 {
		return g
	}

	pad := PaddingCols(scene.Padding, v.CellWidth)
	for _, marker := range scene.Markers {
		row := PixelToRow(marker.Position+scene.Translation, v.CellHeight)
		if row < 0 || row >= g.Rows {
			continue
		}
		DrawMarker(g, row, marker, pad)
	}

	if scene.HasLine {
		drawReferenceLine(g, scene.Line, v)
	}
	drawReadouts(g, scene.TimeText, scene.DateText)
	if scene.Status != "" {
		g.Put(g.Rows-1, 1, scene.Status, RoleStatus)
	}
	if scene.ShowHelp {
		drawHelp(g)
	}
	return g
}

// DrawMarker draws one marker on row with pad cells of side padding.
func DrawMarker(g *Grid, row int, marker model.TimeMarker, pad int) MarkerSpans {
	if !marker.Labeled() {
		g.Fill(row, pad, g.Cols-pad, tickRune, RoleTick)
		return MarkerSpans{}
	}

	labelRole, ruleRole := RoleLabel, RoleRule
	if marker.IsHourBoundary {
		labelRole, ruleRole = RoleHourLabel, RoleHourRule
	}

	// Clear whatever a tick left on this row before drawing the label
	g.Fill(row, 0, g.Cols, ' ', RoleBlank)

	var spans MarkerSpans
	spans.TimeFrom, spans.TimeTo = g.Put(row, pad, marker.TimeText, labelRole)

	ruleEnd := g.Cols - pad
	if marker.DateText != "" {
		dateStart := g.Cols - pad - util.GetDisplayWidth(marker.DateText)
		if dateStart > spans.TimeTo+1 {
			spans.DateFrom, spans.DateTo = g.Put(row, dateStart, marker.DateText, labelRole)
			ruleEnd = spans.DateFrom - 1
		}
	}
	g.Fill(row, spans.TimeTo+1, ruleEnd, ruleRune, ruleRole)
	return spans
}

// LineCols converts a reference line's pixel insets to a half-open column range.
func LineCols(line model.ReferenceLine, v model.Viewport) (from, to int) {
	if line.FullWidth || v.CellWidth <= 0 {
		return 0, v.Cols
	}
	from = int(math.Ceil(line.Left / v.CellWidth))
	to = v.Cols - int(math.Ceil(line.Right/v.CellWidth))
	if from < 0 {
		from = 0
	}
	if to > v.Cols {
		to = v.Cols
	}
	if from >= to {
		return 0, v.Cols
	}
	return from, to
}

func drawReferenceLine(g *Grid, line model.ReferenceLine, v model.Viewport) {
	row := PixelToRow(line.Offset, v.CellHeight)
	from, to := LineCols(line, v)
	g.Fill(row, from, to, lineRune, RoleLine)
}

func drawReadouts(g *Grid, timeText, dateText string) {
	if timeText == "" && dateText == "" {
		return
	}
	text := timeText
	if dateText != "" {
		if text != "" {
			text += readoutSep
		}
		text += dateText
	}
	col := g.Cols - readoutInset - util.GetDisplayWidth(text)
	if col < 0 {
		col = 0
	}
	g.Put(g.Rows-1, col, text, RoleReadout)
}

var helpLines = []string{
	"Timeline Clock - Help",
	"",
	"q/Esc/Ctrl+C  Quit",
	"r             Rebuild markers now",
	"i             Toggle right inset (date/fixed)",
	"h/?           Toggle this help",
}

func drawHelp(g *Grid) {
	width := 0
	for _, line := range helpLines {
		if w := util.GetDisplayWidth(line); w > width {
			width = w
		}
	}
	width += 4

	top := (g.Rows - len(helpLines) - 2) / 2
	left := (g.Cols - width) / 2
	if top < 0 {
		top = 0
	}
	if left < 0 {
		left = 0
	}

	g.Fill(top, left, left+width, ' ', RoleHelp)
	for i, line := range helpLines {
		row := top + 1 + i
		g.Fill(row, left, left+width, ' ', RoleHelp)
		if i == 0 {
			g.Put(row, left, util.CenterText(line, width), RoleHelp)
			continue
		}
		g.Put(row, left+2, line, RoleHelp)
	}
	g.Fill(top+len(helpLines)+1, left, left+width, ' ', RoleHelp)
}
