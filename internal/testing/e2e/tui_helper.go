package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/penwyp/go-talkshow/internal/testing/fixtures"
)

// TUITestSession runs a command on a pseudo terminal and records everything it draws
type TUITestSession struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	cancel context.CancelFunc

	outputLock sync.RWMutex
	output     bytes.Buffer
	done       chan struct{}
}

// TUITestConfig contains configuration for TUI testing
type TUITestConfig struct {
	// Command and arguments to run
	Command string
	Args    []string

	// Environment variables added to the current ones
	Env []string

	// Terminal size
	Rows uint16
	Cols uint16

	// Timeout for the entire test
	Timeout time.Duration
}

// NewTUITestSession starts the command on a pseudo terminal of the configured size
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
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.captureOutput()
	return s, nil
}

func (s *TUITestSession) captureOutput() {
	defer close(s.done)
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

// SendString types str into the terminal
func (s *TUITestSession) SendString(str string) error {
	_, err := s.ptmx.Write([]byte(str))
	return err
}

// WaitForText waits until text appears in the ANSI-stripped output
func (s *TUITestSession) WaitForText(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.GetCleanOutput(), text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for text: %s", text)
}

// GetCleanOutput returns the output so far with ANSI escape codes removed
func (s *TUITestSession) GetCleanOutput() string {
	s.outputLock.RLock()
	defer s.outputLock.RUnlock()
	return fixtures.StripANSI(s.output.String())
}

// Wait waits for the command to exit on its own
func (s *TUITestSession) Wait(timeout time.Duration) error {
	exited := make(chan error, 1)
	go func() { exited <- s.cmd.Wait() }()

	select {
	case err := <-exited:
		s.cleanup()
		return err
	case <-time.After(timeout):
		s.ForceStop()
		return fmt.Errorf("command did not exit within %s", timeout)
	}
}

// ForceStop kills the command and releases the terminal
func (s *TUITestSession) ForceStop() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	s.cleanup()
}

func (s *TUITestSession) cleanup() {
	s.cancel()
	_ = s.ptmx.Close()
	<-s.done
}
