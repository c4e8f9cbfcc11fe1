package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Role tags a cell with what drew it, so the display can style runs of cells.
type Role int

const (
	RoleBlank Role = iota
	RoleTick
	RoleRule
	RoleHourRule
	RoleLabel
	RoleHourLabel
	RoleLine
	RoleReadout
	RoleHelp
	RoleStatus
)

// continuation marks the second cell of a wide rune.
const continuation rune = 0

// Cell is one terminal cell.
type Cell struct {
	Ch   rune
	Role Role
}

// Run is a horizontal stretch of cells sharing a role.
type Run struct {
	Text string
	Role Role
}

// Grid is an offscreen cell buffer.
type Grid struct {
	Rows  int
	Cols  int
	Cells [][]Cell
}

func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
		for c := range cells[r] {
			cells[r][c] = Cell{Ch: ' ', Role: RoleBlank}
		}
	}
	return &Grid{Rows: rows, Cols: cols, Cells: cells}
}

func (g *Grid) inRow(row int) bool {
	return row >= 0 && row < g.Rows
}

// Put writes text starting at col and returns the half-open cell range it occupies.
// Text past the right edge is clipped; a wide rune that does not fit is dropped.
func (g *Grid) Put(row, col int, text string, role Role) (start, end int) {
	if !g.inRow(row) || col >= g.Cols {
		return col, col
	}
	start = col
	end = col
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if end+w > g.Cols {
			break
		}
		if end >= 0 {
			g.Cells[row][end] = Cell{Ch: r, Role: role}
			if w == 2 {
				g.Cells[row][end+1] = Cell{Ch: continuation, Role: role}
			}
		}
		end += w
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return start, end
}

// Fill repeats ch over the half-open range [from, to) of row.
func (g *Grid) Fill(row, from, to int, ch rune, role Role) {
	if !g.inRow(row) {
		return
	}
	if from < 0 {
		from = 0
	}
	if to > g.Cols {
		to = g.Cols
	}
	for c := from; c < to; c++ {
		g.Cells[row][c] = Cell{Ch: ch, Role: role}
	}
}

// Runs splits a row into same-role stretches.
func (g *Grid) Runs(row int) []Run {
	if !g.inRow(row) {
		return nil
	}
	var runs []Run
	var sb strings.Builder
	current := RoleBlank
	for c, cell := range g.Cells[row] {
		if c > 0 && cell.Role != current {
			runs = append(runs, Run{Text: sb.String(), Role: current})
			sb.Reset()
		}
		current = cell.Role
		if cell.Ch != continuation {
			sb.WriteRune(cell.Ch)
		}
	}
	if len(g.Cells[row]) > 0 {
		runs = append(runs, Run{Text: sb.String(), Role: current})
	}
	return runs
}

// PlainLines returns the grid as unstyled text, one string per row.
func (g *Grid) PlainLines() []string {
	lines := make([]string, g.Rows)
	for r := range g.Cells {
		var sb strings.Builder
		for _, cell := range g.Cells[r] {
			if cell.Ch != continuation {
				sb.WriteRune(cell.Ch)
			}
		}
		lines[r] = sb.String()
	}
	return lines
}
