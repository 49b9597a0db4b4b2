package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// maxDiagnosticLines caps how much of stderr ends up in an ExecError.
const maxDiagnosticLines = 8

// Runner executes the encoder with the given arguments and returns stdout.
type Runner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

// ExecError describes a failed encoder invocation.
type ExecError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	tail := lastLines(e.Stderr, maxDiagnosticLines)
	if e.ExitCode >= 0 {
		if tail == "" {
			return fmt.Sprintf("ffmpeg exited with code %d", e.ExitCode)
		}
		return fmt.Sprintf("ffmpeg exited with code %d: %s", e.ExitCode, tail)
	}
	if tail == "" {
		return fmt.Sprintf("ffmpeg failed: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg failed: %v: %s", e.Err, tail)
}

func (e *ExecError) Unwrap() error { return e.Err }

type execRunner struct {
	binary string
}

// NewRunner returns a Runner that spawns binary as a child process.
func NewRunner(binary string) Runner {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &execRunner{binary: binary}
}

func (r *execRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		execErr := &ExecError{
			Args:     args,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			execErr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), execErr
	}
	return stdout.Bytes(), nil
}

// Version runs `ffmpeg -version` and returns its raw output.
func Version(ctx context.Context, r Runner) (string, error) {
	out, err := r.Run(ctx, VersionArgs())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
