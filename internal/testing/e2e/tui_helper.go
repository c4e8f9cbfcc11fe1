package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// TUITestSession runs a binary on a pseudo terminal and records its output
type TUITestSession struct {
	cmd        *exec.Cmd
	ptmx       *os.File
	rows, cols int
	output     *bytes.Buffer
	outputLock sync.RWMutex
	cancel     context.CancelFunc
	done       chan struct{}
	waitErr    error
}

// TUITestConfig contains configuration for TUI testing
type TUITestConfig struct {
	Command string
	Args    []string
	Env     []string

	// Terminal size in cells
	Rows uint16
	Cols uint16

	// Timeout for the entire session
	Timeout time.Duration
}

// NewTUITestSession starts the command on a new pty
func NewTUITestSession(config *TUITestConfig) (*TUITestSession, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Rows == 0 {
		config.Rows = 24
	}
	if config.Cols == 0 {
		config.Cols = 80
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Env = append(os.Environ(), config.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: config.Rows, Cols: config.Cols})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &TUITestSession{
		cmd:    cmd,
		ptmx:   ptmx,
		rows:   int(config.Rows),
		cols:   int(config.Cols),
		output: &bytes.Buffer{},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.captureOutput()
	go func() {
		s.waitErr = cmd.Wait()
		close(s.done)
	}()
	return s, nil
}

// captureOutput copies everything the program writes until the pty closes
func (s *TUITestSession) captureOutput() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.outputLock.Lock()
			s.output.Write(buf[:n])
			s.outputLock.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendString types str into the program
func (s *TUITestSession) SendString(str string) error {
	_, err := io.WriteString(s.ptmx, str)
	return err
}

// Resize changes the pty size; the program receives SIGWINCH
func (s *TUITestSession) Resize(rows, cols uint16) error {
	s.outputLock.Lock()
	s.rows, s.cols = int(rows), int(cols)
	s.outputLock.Unlock()
	return pty.Setsize(s.ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}

// GetOutput returns the raw output so far
func (s *TUITestSession) GetOutput() string {
	s.outputLock.RLock()
	defer s.outputLock.RUnlock()
	return s.output.String()
}

// Screenshot replays the output on a virtual screen of the current size
func (s *TUITestSession) Screenshot() *TerminalScreen {
	s.outputLock.RLock()
	defer s.outputLock.RUnlock()
	return ParseTerminalOutput(s.output.String(), s.rows, s.cols)
}

// WaitForText polls the rendered screen until text shows up
func (s *TUITestSession) WaitForText(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(StripANSI(s.GetOutput()), text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for text: %s", text)
}

// WaitForExit waits for the program to terminate on its own
func (s *TUITestSession) WaitForExit(timeout time.Duration) error {
	select {
	case <-s.done:
		return s.waitErr
	case <-time.After(timeout):
		return fmt.Errorf("program still running after %s", timeout)
	}
}

// ForceStop kills the program and releases the pty
func (s *TUITestSession) ForceStop() {
	s.cancel()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	<-s.done
	_ = s.ptmx.Close()
}
