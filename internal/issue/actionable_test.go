// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "stage export snapshot"},
			want: "failed to stage export snapshot",
		},
		{
			name: "operation and resource",
			err:  &ActionableError{Operation: "copy integration file", Resource: "scripts/portpack.cmake"},
			want: "failed to copy integration file: scripts/portpack.cmake",
		},
		{
			name: "full context",
			err:  &ActionableError{Operation: "create staging directory", Resource: "/exports/x", Cause: cause},
			want: "failed to create staging directory: /exports/x: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := NewErrorContext().
		WithOperation("write listfile").
		Wrap(cause).
		BuildError()

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	ae := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("Check the CUE syntax").
		WithSuggestion("Delete the file to use defaults").
		Wrap(errors.New("unexpected token")).
		Build()

	short := ae.Format(false)
	if !strings.Contains(short, "• Check the CUE syntax") {
		t.Errorf("Format(false) missing suggestion bullet:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) should not include the error chain:\n%s", short)
	}

	long := ae.Format(true)
	if !strings.Contains(long, "Error chain:") || !strings.Contains(long, "unexpected token") {
		t.Errorf("Format(true) missing error chain:\n%s", long)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().WithResource("x").BuildError(); err != nil {
		t.Errorf("BuildError without operation = %v, want nil", err)
	}
}

func TestWrapWithOperation_NilError(t *testing.T) {
	t.Parallel()

	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
}
