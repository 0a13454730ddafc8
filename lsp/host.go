package lsp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/tliron/commonlog"
)

// HostProcess is a child language server spoken to over its stdin/stdout.
type HostProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

// StartHost launches command with its stderr routed to the log.
func StartHost(command []string) (*HostProcess, error) {
	if len(command) == 0 {
		return nil, errors.New("no host language server command")
	}

	path, err := exec.LookPath(command[0])
	if err != nil {
		return nil, fmt.Errorf("host language server %q not found: %w", command[0], err)
	}

	cmd := exec.Command(path, command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("host stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("host stdout: %w", err)
	}
	cmd.Stderr = commonlog.GetWriter()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting host language server: %w", err)
	}
	log.Infof("started host language server %s (pid %d)", path, cmd.Process.Pid)

	return &HostProcess{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

func (h *HostProcess) Read(p []byte) (int, error) {
	return h.stdout.Read(p)
}

func (h *HostProcess) Write(p []byte) (int, error) {
	return h.stdin.Write(p)
}

// Close ends the child's input and kills it if it has not exited yet.
func (h *HostProcess) Close() error {
	err := h.stdin.Close()
	if h.cmd.ProcessState == nil {
		_ = h.cmd.Process.Kill()
		_ = h.cmd.Wait()
	}
	return err
}

// Stdio joins stdin and stdout into the editor-side stream.
func Stdio() io.ReadWriteCloser {
	return stdio{}
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdio) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdio) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
