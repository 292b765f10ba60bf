package common

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// lineBuffer is how many output lines may queue up before the child blocks
const lineBuffer = 64

// Process represents a running process
type Process interface {
	// Lines yields the merged stdout/stderr output one line at a time. The
	// channel is closed once the process has exited and all output is read.
	Lines() <-chan string
	// Wait drains any unread lines and returns the exit error, if any
	Wait() error
	Kill() error
	Signal(sig os.Signal) error
}

// CmdRunner is interface for executing external commands
type CmdRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// realCmdRunner implements CmdRunner using os/exec
type realCmdRunner struct{}

// NewCmdRunner creates a new CmdRunner
func NewCmdRunner() CmdRunner {
	return &realCmdRunner{}
}

// processWrapper wraps exec.Cmd to implement Process interface
type processWrapper struct {
	cmd   *exec.Cmd
	lines chan string
	done  chan struct{}
	err   error
}

func (p *processWrapper) Lines() <-chan string {
	return p.lines
}

func (p *processWrapper) Wait() error {
	for range p.lines {
	}
	<-p.done
	return p.err
}

func (p *processWrapper) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

func (p *processWrapper) Signal(sig os.Signal) error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Signal(sig)
}

// Run executes external command with given arguments
func (r *realCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Start starts external command and returns Process for management.
// stdout and stderr share one LineWriter, so exec serialises its writes.
func (r *realCmdRunner) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	lines := make(chan string, lineBuffer)
	w := NewLineWriter(func(line string) {
		lines <- line
	})
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &processWrapper{cmd: cmd, lines: lines, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		w.Flush()
		close(lines)
		close(p.done)
	}()

	return p, nil
}

// ExitCode extracts the exit status from an error returned by Run or Wait.
// It returns 0 for nil and -1 when the process never produced a status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}

// Stderr returns the trimmed stderr captured by Run, if any
func Stderr(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return ""
}
