package ytdlp

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/Taichi-iskw/yt-vault/internal/service/common"
)

// mockCmdRunner is a mock implementation of CmdRunner for testing
type mockCmdRunner struct {
	mock.Mock
}

func (m *mockCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	arguments := m.Called(ctx, name, args)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]byte), arguments.Error(1)
}

func (m *mockCmdRunner) Start(ctx context.Context, name string, args ...string) (common.Process, error) {
	arguments := m.Called(ctx, name, args)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(common.Process), arguments.Error(1)
}

// fakeProcess replays canned output lines and exits with err
type fakeProcess struct {
	lines chan string
	err   error
}

func newFakeProcess(err error, lines ...string) *fakeProcess {
	ch := make(chan string, len(lines))
	for _, line := range lines {
		ch <- line
	}
	close(ch)
	return &fakeProcess{lines: ch, err: err}
}

func (p *fakeProcess) Lines() <-chan string { return p.lines }

func (p *fakeProcess) Wait() error {
	for range p.lines {
	}
	return p.err
}

func (p *fakeProcess) Kill() error                { return nil }
func (p *fakeProcess) Signal(sig os.Signal) error { return nil }

// exitError mimics *exec.ExitError for a given status
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "exit status" }
func (e *exitError) ExitCode() int { return e.code }

func touch(path string) error {
	return os.WriteFile(path, []byte("x"), 0644)
}
