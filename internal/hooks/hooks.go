// SPDX-License-Identifier: MPL-2.0

// Package hooks runs user-configured shell snippets around export
// milestones. Scripts execute in an embedded POSIX shell interpreter, so
// behavior does not depend on the host having /bin/sh.
package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Environment is the export context exposed to hook scripts.
type Environment struct {
	// SessionID is the export session identifier.
	SessionID string
	// StagingDir is the session's staging directory. It may already be
	// removed when the raw format was not requested.
	StagingDir string
	// ArtifactPaths are the final artifact locations.
	ArtifactPaths []string
}

// vars renders the environment as PORTPACK_EXPORT_* variables appended to
// the process environment.
func (e Environment) vars() []string {
	return append(os.Environ(),
		"PORTPACK_EXPORT_SESSION_ID="+e.SessionID,
		"PORTPACK_EXPORT_STAGING_DIR="+e.StagingDir,
		"PORTPACK_EXPORT_ARTIFACTS="+strings.Join(e.ArtifactPaths, string(os.PathListSeparator)),
	)
}

// Runner executes hook scripts.
type Runner struct {
	// Dir is the working directory for the scripts.
	Dir string
	// Stdout and Stderr receive the scripts' output.
	Stdout io.Writer
	Stderr io.Writer
	// Logger receives per-script diagnostics.
	Logger *log.Logger
}

// NewRunner returns a Runner writing script output to the given streams.
// A nil logger disables diagnostics.
func NewRunner(dir string, stdout, stderr io.Writer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Dir: dir, Stdout: stdout, Stderr: stderr, Logger: logger}
}

// RunPostExport runs every post-export script in order. Hook failures are
// warnings: a failing script is logged and the remaining scripts still
// run, because the export itself already succeeded. The returned count is
// the number of scripts that failed.
func (r *Runner) RunPostExport(ctx context.Context, scripts []string, env Environment) int {
	failed := 0
	for i, script := range scripts {
		if err := r.runScript(ctx, fmt.Sprintf("post-export[%d]", i), script, env); err != nil {
			r.Logger.Warn("post-export hook failed", "hook", i, "error", err)
			failed++
		}
	}
	return failed
}

func (r *Runner) runScript(ctx context.Context, name, script string, env Environment) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}

	runner, err := interp.New(
		interp.Dir(r.Dir),
		interp.Env(expand.ListEnviron(env.vars()...)),
		interp.StdIO(nil, r.Stdout, r.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return fmt.Errorf("script exited with status %d", status)
		}
		return err
	}
	return nil
}
