// SPDX-License-Identifier: MPL-2.0

package hooks

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRunPostExport(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	r := NewRunner(t.TempDir(), &stdout, &stdout, nil)

	env := Environment{
		SessionID:     "portpack-export-20260826-143015",
		StagingDir:    "/tmp/export",
		ArtifactPaths: []string{"/tmp/export.zip"},
	}
	failed := r.RunPostExport(context.Background(), []string{
		`echo "session=$PORTPACK_EXPORT_SESSION_ID"`,
		`echo "artifacts=$PORTPACK_EXPORT_ARTIFACTS"`,
	}, env)

	if failed != 0 {
		t.Fatalf("RunPostExport() failed = %d, want 0", failed)
	}
	for _, want := range []string{
		"session=portpack-export-20260826-143015",
		"artifacts=/tmp/export.zip",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunPostExportFailuresAreNonFatal(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	r := NewRunner(t.TempDir(), &stdout, &stdout, nil)

	failed := r.RunPostExport(context.Background(), []string{
		`exit 3`,
		`echo "still runs"`,
	}, Environment{})

	if failed != 1 {
		t.Errorf("RunPostExport() failed = %d, want 1", failed)
	}
	if !strings.Contains(stdout.String(), "still runs") {
		t.Errorf("later hook did not run:\n%s", stdout.String())
	}
}

func TestRunPostExportSyntaxError(t *testing.T) {
	t.Parallel()

	r := NewRunner(t.TempDir(), &bytes.Buffer{}, &bytes.Buffer{}, nil)

	failed := r.RunPostExport(context.Background(), []string{`if then fi (`}, Environment{})

	if failed != 1 {
		t.Errorf("RunPostExport() failed = %d, want 1", failed)
	}
}
