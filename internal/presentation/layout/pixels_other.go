//go:build !darwin && !linux

package layout

func pixelSize(fd int) (xpix, ypix int, ok bool) {
	return 0, 0, false
}
