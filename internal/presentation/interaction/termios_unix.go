//go:build darwin || linux

package interaction

import "golang.org/x/sys/unix"

// rawState disables echo and line buffering. ISIG stays on so Ctrl+C still
// raises SIGINT when the reader is not consuming it.
func rawState(state unix.Termios) unix.Termios {
	state.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	state.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	state.Cflag |= unix.CS8
	state.Cc[unix.VMIN] = 1
	state.Cc[unix.VTIME] = 0
	return state
}
