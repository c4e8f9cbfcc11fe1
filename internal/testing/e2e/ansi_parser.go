package e2e

import (
	"regexp"
	"strings"
	"sync"
)

// ansiEscape matches CSI sequences, including private modes like ?1049h
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// TerminalScreen is a virtual terminal. It implements io.Writer so a display
// can draw into it directly.
type TerminalScreen struct {
	mu            sync.Mutex
	rows          int
	cols          int
	buffer        [][]rune
	cursorX       int
	cursorY       int
	altScreen     bool
	cursorVisible bool
	pending       []rune // Incomplete escape sequence from the last write
	writes        int
}

// NewTerminalScreen creates a blank screen of rows x cols
func NewTerminalScreen(rows, cols int) *TerminalScreen {
	s := &TerminalScreen{rows: rows, cols: cols, cursorVisible: true}
	s.buffer = make([][]rune, rows)
	for i := range s.buffer {
		s.buffer[i] = blankRow(cols)
	}
	return s
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for j := range row {
		row[j] = ' '
	}
	return row
}

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// ParseTerminalOutput replays output on a fresh screen of rows x cols
func ParseTerminalOutput(output string, rows, cols int) *TerminalScreen {
	screen := NewTerminalScreen(rows, cols)
	_, _ = screen.Write([]byte(output))
	return screen
}

// Write feeds raw terminal output to the screen.
func (s *TerminalScreen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	runes := append(s.pending, []rune(string(p))...)
	s.pending = nil

	i := 0
	for i < len(runes) {
		switch {
		case runes[i] == '\x1b':
			next, complete := s.handleEscape(runes, i)
			if !complete {
				s.pending = append([]rune(nil), runes[i:]...)
				return len(p), nil
			}
			i = next
		case runes[i] == '\r':
			s.cursorX = 0
			i++
		case runes[i] == '\n':
			s.cursorX = 0
			s.lineFeed()
			i++
		case runes[i] == '\b':
			if s.cursorX > 0 {
				s.cursorX--
			}
			i++
		default:
			s.putChar(runes[i])
			i++
		}
	}
	return len(p), nil
}

// handleEscape processes the sequence starting at start and returns the index after it.
func (s *TerminalScreen) handleEscape(runes []rune, start int) (int, bool) {
	if start+1 >= len(runes) {
		return start, false
	}
	if runes[start+1] != '[' {
		// Two-byte escape, ignored
		return start + 2, true
	}

	i := start + 2
	private := false
	if i < len(runes) && runes[i] == '?' {
		private = true
		i++
	}

	params := []int{}
	current := 0
	for ; i < len(runes); i++ {
		switch r := runes[i]; {
		case r >= '0' && r <= '9':
			current = current*10 + int(r-'0')
		case r == ';':
			params = append(params, current)
			current = 0
		default:
			params = append(params, current)
			if private {
				s.handlePrivateMode(r, params)
			} else {
				s.handleANSICommand(r, params)
			}
			return i + 1, true
		}
	}
	return start, false
}

func (s *TerminalScreen) handlePrivateMode(cmd rune, params []int) {
	if len(params) == 0 || (cmd != 'h' && cmd != 'l') {
		return
	}
	on := cmd == 'h'
	switch params[0] {
	case 1049:
		s.altScreen = on
		if on {
			s.clear()
		}
	case 25:
		s.cursorVisible = on
	}
}

// handleANSICommand processes a specific ANSI command
func (s *TerminalScreen) handleANSICommand(cmd rune, params []int) {
	arg := func(idx, def int) int {
		if len(params) > idx && params[idx] > 0 {
			return params[idx]
		}
		return def
	}

	switch cmd {
	case 'H', 'f': // Cursor position
		s.cursorY = min(s.rows-1, arg(0, 1)-1)
		s.cursorX = min(s.cols-1, arg(1, 1)-1)

	case 'J': // Clear screen
		switch arg(0, 0) {
		case 0:
			s.clearFromCursor()
		case 1:
			s.clearToCursor()
		case 2, 3:
			s.clear()
		}

	case 'K': // Clear line
		switch arg(0, 0) {
		case 0:
			s.clearLine(s.cursorX, s.cols)
		case 1:
			s.clearLine(0, s.cursorX+1)
		case 2:
			s.clearLine(0, s.cols)
		}

	case 'A':
		s.cursorY = max(0, s.cursorY-arg(0, 1))
	case 'B':
		s.cursorY = min(s.rows-1, s.cursorY+arg(0, 1))
	case 'C':
		s.cursorX = min(s.cols-1, s.cursorX+arg(0, 1))
	case 'D':
		s.cursorX = max(0, s.cursorX-arg(0, 1))
	}
	// SGR ('m'), scroll regions and the rest do not change cell content
}

// putChar places a character at the cursor, wrapping at the right edge
func (s *TerminalScreen) putChar(ch rune) {
	if s.cursorX >= s.cols {
		s.cursorX = 0
		s.lineFeed()
	}
	if s.cursorY >= 0 && s.cursorY < s.rows && s.cursorX >= 0 {
		s.buffer[s.cursorY][s.cursorX] = ch
	}
	s.cursorX++
}

func (s *TerminalScreen) lineFeed() {
	s.cursorY++
	if s.cursorY >= s.rows {
		s.scrollUp()
	}
}

func (s *TerminalScreen) clear() {
	for i := range s.buffer {
		s.buffer[i] = blankRow(s.cols)
	}
}

func (s *TerminalScreen) clearFromCursor() {
	s.clearLine(s.cursorX, s.cols)
	for i := s.cursorY + 1; i < s.rows; i++ {
		s.buffer[i] = blankRow(s.cols)
	}
}

func (s *TerminalScreen) clearToCursor() {
	for i := 0; i < s.cursorY; i++ {
		s.buffer[i] = blankRow(s.cols)
	}
	s.clearLine(0, s.cursorX+1)
}

func (s *TerminalScreen) clearLine(from, to int) {
	if s.cursorY < 0 || s.cursorY >= s.rows {
		return
	}
	for j := max(0, from); j < min(s.cols, to); j++ {
		s.buffer[s.cursorY][j] = ' '
	}
}

// scrollUp scrolls the screen up by one line
func (s *TerminalScreen) scrollUp() {
	copy(s.buffer, s.buffer[1:])
	s.buffer[s.rows-1] = blankRow(s.cols)
	s.cursorY = s.rows - 1
}

// Render returns the screen content with trailing blanks trimmed per line
func (s *TerminalScreen) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result strings.Builder
	for i, row := range s.buffer {
		result.WriteString(strings.TrimRight(string(row), " "))
		if i < len(s.buffer)-1 {
			result.WriteRune('\n')
		}
	}
	return result.String()
}

// GetLine returns one untrimmed line of the screen
func (s *TerminalScreen) GetLine(line int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line >= 0 && line < s.rows {
		return string(s.buffer[line])
	}
	return ""
}

// ContainsText checks if the screen contains specific text
func (s *TerminalScreen) ContainsText(text string) bool {
	return strings.Contains(s.Render(), text)
}

// InAltScreen reports whether the alternate screen buffer is active
func (s *TerminalScreen) InAltScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.altScreen
}

// CursorVisible reports the last cursor visibility mode
func (s *TerminalScreen) CursorVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorVisible
}

// Writes counts the Write calls received
func (s *TerminalScreen) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
