//go:build darwin || linux

package layout

import "golang.org/x/sys/unix"

// pixelSize asks the terminal for its size in pixels. Many terminals answer zero.
func pixelSize(fd int) (xpix, ypix int, ok bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return 0, 0, false
	}
	return int(ws.Xpixel), int(ws.Ypixel), true
}
