// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// toolCall records one external tool invocation observed by the fake
// runner.
type toolCall struct {
	name string
	args []string
}

func (c toolCall) String() string {
	return c.name + " " + strings.Join(c.args, " ")
}

// fakeToolRunner records invocations and optionally fails a given tool.
type fakeToolRunner struct {
	calls    []toolCall
	failTool string
	failErr  error
}

func (r *fakeToolRunner) Run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, toolCall{name: name, args: args})
	if r.failTool != "" && name == r.failTool {
		return r.failErr
	}
	return nil
}

func TestArchiveGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  ArchiveFormat
		wantExt string
		wantFmt string
	}{
		{name: "zip", format: archiveFormats[FormatZip], wantExt: ".zip", wantFmt: "--format=zip"},
		{name: "7zip", format: archiveFormats[FormatSevenZip], wantExt: ".7z", wantFmt: "--format=7zip"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeToolRunner{}
			gen := &archiveGenerator{runner: runner, tool: "cmake"}
			outputDir := t.TempDir()
			snap := &Snapshot{
				Dir:       filepath.Join(outputDir, "portpack-export-20260826-143015"),
				SessionID: "portpack-export-20260826-143015",
			}

			artifact, err := gen.generate(context.Background(), tc.format, snap, outputDir)
			if err != nil {
				t.Fatalf("generate() error = %v", err)
			}

			wantPath := filepath.Join(outputDir, "portpack-export-20260826-143015"+tc.wantExt)
			if artifact.OutputPath != wantPath {
				t.Errorf("artifact.OutputPath = %q, want %q", artifact.OutputPath, wantPath)
			}
			if len(runner.calls) != 1 {
				t.Fatalf("tool calls = %d, want 1", len(runner.calls))
			}
			call := runner.calls[0]
			if call.name != "cmake" {
				t.Errorf("tool = %q, want cmake", call.name)
			}
			wantArgs := []string{"-E", "tar", "cf", wantPath, tc.wantFmt, "--", snap.Dir}
			if got := strings.Join(call.args, " "); got != strings.Join(wantArgs, " ") {
				t.Errorf("args = %q, want %q", got, strings.Join(wantArgs, " "))
			}
		})
	}
}

func TestArchiveGeneratorToolFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeToolRunner{failTool: "cmake", failErr: fmt.Errorf("cmake exited with status 1")}
	gen := &archiveGenerator{runner: runner, tool: "cmake"}
	snap := &Snapshot{Dir: filepath.Join(t.TempDir(), "portpack-export-20260826-143015")}

	_, err := gen.generate(context.Background(), archiveFormats[FormatZip], snap, t.TempDir())

	var genErr *ArtifactGenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("generate() error = %v, want ArtifactGenerationError", err)
	}
	if genErr.Format != FormatZip {
		t.Errorf("genErr.Format = %q, want %q", genErr.Format, FormatZip)
	}
}

func TestNugetGeneratorDefaults(t *testing.T) {
	t.Parallel()

	runner := &fakeToolRunner{}
	scratch := filepath.Join(t.TempDir(), "scripts", "buildsystems", "tmp")
	gen := &nugetGenerator{runner: runner, tool: "nuget", scratchDir: scratch}
	outputDir := t.TempDir()
	snap := &Snapshot{
		Dir:       filepath.Join(outputDir, "portpack-export-20260826-143015"),
		SessionID: "portpack-export-20260826-143015",
	}

	artifact, err := gen.generate(context.Background(), NugetOptions{}, snap, outputDir)
	if err != nil {
		t.Fatalf("generate() error = %v", err)
	}

	if artifact.NugetID != "portpack-export-20260826-143015" {
		t.Errorf("artifact.NugetID = %q, want session directory name", artifact.NugetID)
	}
	wantPath := filepath.Join(outputDir, "portpack-export-20260826-143015.nupkg")
	if artifact.OutputPath != wantPath {
		t.Errorf("artifact.OutputPath = %q, want %q", artifact.OutputPath, wantPath)
	}

	nuspec, err := os.ReadFile(filepath.Join(scratch, "portpack.export.nuspec"))
	if err != nil {
		t.Fatalf("failed to read generated nuspec: %v", err)
	}
	for _, want := range []string{
		"<id>portpack-export-20260826-143015</id>",
		"<version>1.0.0</version>",
		"target=\"build/native/portpack-export-20260826-143015.targets\"",
	} {
		if !strings.Contains(string(nuspec), want) {
			t.Errorf("nuspec missing %q:\n%s", want, nuspec)
		}
	}

	if len(runner.calls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(runner.calls))
	}
	call := runner.calls[0]
	if call.name != "nuget" || call.args[0] != "pack" {
		t.Errorf("call = %v, want nuget pack", call)
	}
	if got := call.args[len(call.args)-1]; got != "-NoDefaultExcludes" {
		t.Errorf("last arg = %q, want -NoDefaultExcludes", got)
	}
}

func TestNugetGeneratorExplicitIdentity(t *testing.T) {
	t.Parallel()

	runner := &fakeToolRunner{}
	gen := &nugetGenerator{
		runner:     runner,
		tool:       "nuget",
		scratchDir: filepath.Join(t.TempDir(), "tmp"),
	}
	outputDir := t.TempDir()
	snap := &Snapshot{Dir: filepath.Join(outputDir, "portpack-export-20260826-143015")}

	artifact, err := gen.generate(context.Background(), NugetOptions{ID: "mylibs", Version: "2.1.0"}, snap, outputDir)
	if err != nil {
		t.Fatalf("generate() error = %v", err)
	}

	if artifact.NugetID != "mylibs" {
		t.Errorf("artifact.NugetID = %q, want mylibs", artifact.NugetID)
	}
	if want := filepath.Join(outputDir, "mylibs.nupkg"); artifact.OutputPath != want {
		t.Errorf("artifact.OutputPath = %q, want %q", artifact.OutputPath, want)
	}
}

func TestIFWGeneratorDefaultsAndRepogen(t *testing.T) {
	t.Parallel()

	runner := &fakeToolRunner{}
	exportRoot := t.TempDir()
	gen := &ifwGenerator{
		runner:        runner,
		binaryCreator: "binarycreator",
		repoGen:       "repogen",
		exportRoot:    exportRoot,
	}
	snap := &Snapshot{
		Dir:       filepath.Join(exportRoot, "portpack-export-20260826-143015"),
		SessionID: "portpack-export-20260826-143015",
	}

	artifact, err := gen.Generate(context.Background(), nil, snap, IFWSettings{
		RepositoryDirPath: filepath.Join(exportRoot, "repo"),
		RepositoryURL:     "http://localhost/repo",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(runner.calls) != 2 {
		t.Fatalf("tool calls = %d, want repogen then binarycreator", len(runner.calls))
	}
	if runner.calls[0].name != "repogen" {
		t.Errorf("first tool = %q, want repogen", runner.calls[0].name)
	}
	creator := runner.calls[1]
	if creator.name != "binarycreator" {
		t.Errorf("second tool = %q, want binarycreator", creator.name)
	}
	joined := creator.String()
	if !strings.Contains(joined, "--online-only") {
		t.Errorf("binarycreator args missing --online-only: %q", joined)
	}
	wantInstaller := filepath.Join(exportRoot, "portpack-export-20260826-143015-ifw-installer.exe")
	if artifact.OutputPath != wantInstaller {
		t.Errorf("artifact.OutputPath = %q, want %q", artifact.OutputPath, wantInstaller)
	}
}

func TestIFWGeneratorSkipsRepogenWithoutRepositoryDir(t *testing.T) {
	t.Parallel()

	runner := &fakeToolRunner{}
	gen := &ifwGenerator{
		runner:        runner,
		binaryCreator: "binarycreator",
		repoGen:       "repogen",
		exportRoot:    t.TempDir(),
	}
	snap := &Snapshot{Dir: "ignored", SessionID: "portpack-export-20260826-143015"}

	if _, err := gen.Generate(context.Background(), nil, snap, IFWSettings{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(runner.calls) != 1 || runner.calls[0].name != "binarycreator" {
		t.Errorf("calls = %v, want a single binarycreator invocation", runner.calls)
	}
}
