package interaction

import (
	"os"

	"github.com/penwyp/go-timeline-clock/internal/util"
)

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	in      *os.File
	restore func() error
	input   chan KeyEvent
	stop    chan struct{}
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
)

const (
	keyCtrlC = 3
	keyEsc   = 27
)

// IsQuit reports whether the event asks the program to exit.
func (e KeyEvent) IsQuit() bool {
	if e.Type == KeyEscape {
		return true
	}
	switch e.Key {
	case 'q', 'Q', keyCtrlC:
		return true
	}
	return false
}

// NewKeyboardReader puts in into raw mode and starts reading key presses from it
func NewKeyboardReader(in *os.File) (*KeyboardReader, error) {
	kr := &KeyboardReader{
		in:    in,
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	restore, err := enableRawMode(int(in.Fd()))
	if err != nil {
		return nil, err
	}
	kr.restore = restore

	go kr.readInput()

	return kr, nil
}

// readInput reads keyboard input until the reader is closed or input fails
func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 8)

	for {
		n, err := kr.in.Read(buf)
		if err != nil {
			util.LogDebugf("Keyboard reader stopped: %v", err)
			return
		}
		if n == 0 {
			continue
		}

		event := kr.parseInput(buf[:n])
		if event == nil {
			continue
		}
		select {
		case kr.input <- *event:
		case <-kr.stop:
			return
		}
	}
}

// parseInput parses raw keyboard input
func (kr *KeyboardReader) parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	if buf[0] == keyCtrlC {
		return &KeyEvent{Key: keyCtrlC, Type: KeyChar}
	}

	if buf[0] == keyEsc {
		if len(buf) == 1 {
			return &KeyEvent{Key: keyEsc, Type: KeyEscape}
		}
		// Arrow keys and other escape sequences are ignored
		return nil
	}

	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the keyboard reader and restores the terminal
func (kr *KeyboardReader) Close() error {
	select {
	case <-kr.stop:
		return nil
	default:
	}
	close(kr.stop)
	if kr.restore == nil {
		return nil
	}
	return kr.restore()
}
