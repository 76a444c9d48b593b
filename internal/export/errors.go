// SPDX-License-Identifier: MPL-2.0

package export

import (
	"fmt"
	"strings"

	"portpack-cli/pkg/pkgspec"
)

// ConfigurationError reports contradictory or incomplete CLI input. The
// caller can recover by re-invoking with corrected flags.
type ConfigurationError struct {
	// Reason is the human-readable cause ("no export target specified",
	// "--nuget-id is only valid with --nuget", ...).
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// UnbuiltDependencyError reports that the plan contains packages that are
// not built yet. Remediation holds the minimal spec set to build first.
type UnbuiltDependencyError struct {
	Remediation []pkgspec.Spec
}

func (e *UnbuiltDependencyError) Error() string {
	if len(e.Remediation) == 0 {
		return "there are packages that have not been built"
	}
	tokens := make([]string, len(e.Remediation))
	for i, s := range e.Remediation {
		tokens[i] = s.String()
	}
	return "there are packages that have not been built: " + strings.Join(tokens, " ")
}

// StagingError reports a filesystem failure while assembling the staging
// snapshot. It is fatal: no generator runs after it.
type StagingError struct {
	Op   string
	Path string
	Err  error
}

func (e *StagingError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("staging failed: %s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("staging failed: %s: %v", e.Op, e.Err)
}

func (e *StagingError) Unwrap() error { return e.Err }

// ArtifactGenerationError reports that an artifact generator failed,
// typically because its external tool exited non-zero. It aborts the
// remaining generators; staging cleanup still runs.
type ArtifactGenerationError struct {
	Format Format
	Err    error
}

func (e *ArtifactGenerationError) Error() string {
	return fmt.Sprintf("%s artifact generation failed: %v", e.Format, e.Err)
}

func (e *ArtifactGenerationError) Unwrap() error { return e.Err }
