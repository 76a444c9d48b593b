// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"portpack-cli/internal/export"
	"portpack-cli/internal/issue"
)

func TestClassifyExportError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		wantID issue.Id
	}{
		{
			name:   "missing target",
			err:    &export.ConfigurationError{Reason: "no export target specified: provide at least one of --raw --nuget --ifw --zip --7zip"},
			wantID: issue.NoExportTargetId,
		},
		{
			name:   "setting without owning flag",
			err:    &export.ConfigurationError{Reason: "--nuget-id is only valid with --nuget"},
			wantID: issue.SettingRequiresFlagId,
		},
		{
			name:   "unbuilt packages",
			err:    &export.UnbuiltDependencyError{},
			wantID: issue.UnbuiltPackagesId,
		},
		{
			name:   "staging failure",
			err:    &export.StagingError{Op: "create staging directory", Err: errors.New("permission denied")},
			wantID: issue.StagingFailedId,
		},
		{
			name:   "generator failure",
			err:    &export.ArtifactGenerationError{Format: export.FormatZip, Err: errors.New("cmake exited with status 1")},
			wantID: issue.ToolExecFailedId,
		},
		{
			name:   "unknown error",
			err:    fmt.Errorf("boom"),
			wantID: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svcErr := classifyExportError(tc.err)

			if svcErr.IssueID != tc.wantID {
				t.Errorf("IssueID = %d, want %d", svcErr.IssueID, tc.wantID)
			}
			if svcErr.ExitCode != 1 {
				t.Errorf("ExitCode = %d, want 1", svcErr.ExitCode)
			}
			if !errors.Is(svcErr, tc.err) {
				t.Error("classified error does not unwrap to the original")
			}
		})
	}
}

func TestClassifyExportErrorSuppressesDuplicateReport(t *testing.T) {
	t.Parallel()

	// The pipeline already prints the plan and the remediation command for
	// unbuilt packages, so classification must not add a second message.
	svcErr := classifyExportError(&export.UnbuiltDependencyError{})
	if svcErr.StyledMessage != "" {
		t.Errorf("StyledMessage = %q, want empty", svcErr.StyledMessage)
	}
}

func TestServiceErrorExitError(t *testing.T) {
	t.Parallel()

	underlying := errors.New("boom")
	svcErr := newServiceError(underlying, 0, "")
	exitErr := svcErr.exitError()

	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !errors.Is(exitErr, underlying) {
		t.Error("exit error does not unwrap to the underlying error")
	}
}

func TestNewServiceErrorPanicsOnNil(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("newServiceError(nil, ...) did not panic")
		}
	}()
	newServiceError(nil, 0, "")
}
