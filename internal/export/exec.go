// SPDX-License-Identifier: MPL-2.0

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// ToolRunner invokes one external tool synchronously. The exit status is
// the sole success signal: non-zero exit (or failure to start) returns an
// error carrying the tool's combined output. Exactly one attempt is made
// per invocation; there are no retries.
type ToolRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execToolRunner is the production ToolRunner backed by os/exec.
type execToolRunner struct {
	logger *log.Logger
}

// NewToolRunner returns the production ToolRunner. A nil logger disables
// invocation logging.
func NewToolRunner(logger *log.Logger) ToolRunner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &execToolRunner{logger: logger}
}

func (r *execToolRunner) Run(ctx context.Context, name string, args ...string) error {
	r.logger.Debug("running external tool", "tool", name, "args", strings.Join(args, " "))

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Debug("external tool failed", "tool", name, "exitCode", exitErr.ExitCode())
		return fmt.Errorf("%s exited with status %d:\n%s", name, exitErr.ExitCode(), strings.TrimSpace(output.String()))
	}
	return fmt.Errorf("failed to run %s: %w", name, err)
}
