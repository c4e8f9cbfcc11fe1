package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	EnterAltScreen    = "\033[?1049h" // Switch to alternate screen buffer
	ExitAltScreen     = "\033[?1049l" // Return to normal screen buffer
	ClearScreen       = "\033[2J"     // Clear entire screen
	ClearScrollback   = "\033[3J"     // Clear scrollback buffer
	ResetScrollRegion = "\033[r"      // Reset scroll region
	MoveCursorHome    = "\033[H"      // Move cursor to home position
	HideCursor        = "\033[?25l"   // Hide cursor
	ShowCursor        = "\033[?25h"   // Show cursor
)

// GetDisplayWidth calculates the cell width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// MoveCursor returns ANSI sequence to move cursor to a 1-based row and column
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

// CenterText centers text within the given cell width
func CenterText(text string, width int) string {
	textWidth := GetDisplayWidth(text)
	if textWidth >= width {
		return runewidth.Truncate(text, width, "")
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-padding-textWidth)
}
