package extractors

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner executes an external command and returns its combined
// output. Extraction steps that shell out (pdfimages, pdftoppm,
// tesseract) take a runner so tests can substitute a double.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. The caller's context bounds
// the command lifetime, so per-file timeouts apply to subprocesses too.
type ExecRunner struct{}

// Run executes the command and returns stdout.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// LookPath reports whether the named binary is on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
