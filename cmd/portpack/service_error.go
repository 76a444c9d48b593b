// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"portpack-cli/internal/export"
	"portpack-cli/internal/issue"
)

// ServiceError pairs an export failure with its CLI presentation: the
// styled message to print, the issue catalog entry carrying recovery help,
// and the process exit code runExport converts it to. Always create via
// newServiceError or classifyExportError to enforce the Err-must-be-non-nil
// invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text. Empty
	// means the pipeline already reported the failure on its own output
	// (e.g. the plan report plus remediation command).
	StyledMessage string
	// ExitCode is the process exit code for this failure.
	ExitCode int
}

// newServiceError creates a ServiceError with a nil-Err panic guard and
// the conventional exit code 1. All construction sites must use this (or
// classifyExportError) instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
		ExitCode:      1,
	}
}

// classifyExportError maps the pipeline's error taxonomy onto catalog
// entries: configuration errors point at the flag docs, unbuilt-package
// aborts at the build-first workflow, staging and generator failures at
// their respective troubleshooting entries.
func classifyExportError(err error) *ServiceError {
	styled := ErrorStyle.Render("Error: ") + err.Error() + "\n"

	var cfgErr *export.ConfigurationError
	if errors.As(err, &cfgErr) {
		id := issue.NoExportTargetId
		if strings.Contains(cfgErr.Reason, "only valid with") {
			id = issue.SettingRequiresFlagId
		}
		return newServiceError(err, id, styled)
	}

	var unbuiltErr *export.UnbuiltDependencyError
	if errors.As(err, &unbuiltErr) {
		// The pipeline already printed the plan and the remediation
		// command; the catalog entry adds the background.
		return newServiceError(err, issue.UnbuiltPackagesId, "")
	}

	var stagingErr *export.StagingError
	if errors.As(err, &stagingErr) {
		return newServiceError(err, issue.StagingFailedId, styled)
	}

	var genErr *export.ArtifactGenerationError
	if errors.As(err, &genErr) {
		return newServiceError(err, issue.ToolExecFailedId, styled)
	}

	return newServiceError(err, 0, styled)
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// exitError converts the ServiceError into the ExitError that sets the
// process exit code.
func (e *ServiceError) exitError() *ExitError {
	return &ExitError{Code: e.ExitCode, Err: e.Err}
}

// renderServiceError renders a ServiceError in the CLI layer: the styled
// message first, then the catalog entry's help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}
