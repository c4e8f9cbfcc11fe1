//go:build windows

package commands

import "os"

// Windows has no SIGWINCH; the per-frame size check picks up resizes.
func notifyResize(ch chan<- os.Signal) {}
