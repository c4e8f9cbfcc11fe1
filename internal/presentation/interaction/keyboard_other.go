//go:build !darwin && !linux

package interaction

import "golang.org/x/term"

// enableRawMode falls back to x/term on platforms without termios ioctls
func enableRawMode(fd int) (func() error, error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error {
		return term.Restore(fd, oldState)
	}, nil
}
