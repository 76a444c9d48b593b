// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"portpack-cli/internal/config"
	"portpack-cli/internal/installtree"
	"portpack-cli/internal/plan"
	"portpack-cli/internal/statusdb"
	"portpack-cli/pkg/pkgspec"

	"github.com/charmbracelet/log"
)

// phase names the pipeline driver's states, in order of progression.
type phase string

const (
	phaseValidating  phase = "validating"
	phaseClassifying phase = "classifying"
	phaseStaging     phase = "staging"
	phaseGenerating  phase = "generating"
	phaseCleaningUp  phase = "cleaning up"
	phaseDone        phase = "done"
)

// Artifact is one final distributable output.
type Artifact struct {
	Kind       Format
	OutputPath string

	// NugetID is set for nuget artifacts; the install guidance needs it.
	NugetID string
}

// Result summarizes a completed pipeline run.
type Result struct {
	SessionID string
	Artifacts []Artifact

	// StagingDir is where the snapshot was (or still is) rooted.
	StagingDir string
	// StagingKept is true when the raw format preserved the snapshot.
	StagingKept bool
	// DryRun is true when the run stopped after classification.
	DryRun bool
}

// Pipeline sequences one export invocation: option validation, plan
// classification, staging, artifact fan-out, and cleanup. The zero value
// is not usable; fill the inputs and collaborators, leaving any of
// Runner/Copier/Installer/Logger/Out nil to get production defaults.
type Pipeline struct {
	// Entries is the externally computed export plan (authoritative).
	Entries []plan.Entry
	// DB locates package install-output directories.
	DB *statusdb.Database
	// SourceRoot is the portpack root holding the integration files.
	SourceRoot string
	// ExportRoot receives the staging directory and all artifacts.
	ExportRoot string
	// Tools names the external binaries.
	Tools config.ToolsConfig

	// Runner invokes external tools. Default: production os/exec runner.
	Runner ToolRunner
	// Copier stages package install trees. Default: installtree.FSCopier.
	Copier installtree.Copier
	// Installer generates the IFW artifact. Default: binarycreator adapter.
	Installer InstallerGenerator
	// Out receives the operator-facing report. Default: os.Stdout.
	Out io.Writer
	// Logger receives diagnostics. Default: discard.
	Logger *log.Logger
	// Now supplies the session timestamp. Default: time.Now.
	Now func() time.Time
}

// Run executes the pipeline for the given raw options. The returned error
// is one of the export error types (ConfigurationError,
// UnbuiltDependencyError, StagingError, ArtifactGenerationError) or a
// session-identifier failure; in every case no partial success is
// reported. Cleanup of the staging directory is best-effort and runs even
// when a generator fails.
func (p *Pipeline) Run(ctx context.Context, raw RawOptions) (*Result, error) {
	p.applyDefaults()

	p.Logger.Debug("pipeline phase", "phase", phaseValidating)
	req, err := ValidateOptions(raw)
	if err != nil {
		return nil, err
	}

	p.Logger.Debug("pipeline phase", "phase", phaseClassifying)
	classification := plan.Classify(p.Entries)
	p.printPlan(classification)

	if !classification.FullySatisfied() {
		remediation := classification.Remediation()
		p.printRemediation(remediation)
		return nil, &UnbuiltDependencyError{Remediation: remediation}
	}

	if req.DryRun {
		p.Logger.Debug("pipeline phase", "phase", phaseDone, "reason", "dry run")
		return &Result{DryRun: true}, nil
	}

	sessionID, err := NewSessionID(p.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create export session identifier: %w", err)
	}
	p.Logger.Debug("export session", "id", sessionID)

	p.Logger.Debug("pipeline phase", "phase", phaseStaging)
	stager := &Stager{
		ExportRoot: p.ExportRoot,
		SourceRoot: p.SourceRoot,
		DB:         p.DB,
		Copier:     p.Copier,
		Report:     p.Out,
	}
	snap, err := stager.Stage(sessionID, classification.AlreadyBuilt)
	if err != nil {
		// A failed staging run may leave a partial tree behind; nothing
		// downstream can use it.
		if rmErr := os.RemoveAll(filepath.Join(p.ExportRoot, sessionID)); rmErr != nil {
			p.Logger.Warn("failed to remove partial staging directory", "error", rmErr)
		}
		return nil, err
	}

	p.Logger.Debug("pipeline phase", "phase", phaseGenerating)
	result := &Result{
		SessionID:   sessionID,
		StagingDir:  snap.Dir,
		StagingKept: req.Raw,
	}
	genErr := p.generate(ctx, req, snap, result)

	p.Logger.Debug("pipeline phase", "phase", phaseCleaningUp)
	if !req.Raw {
		if err := os.RemoveAll(snap.Dir); err != nil {
			// Best effort only: a leftover staging directory is an
			// annoyance, not a failed export.
			p.Logger.Warn("failed to remove staging directory", "dir", snap.Dir, "error", err)
		}
	}

	if genErr != nil {
		return nil, genErr
	}
	p.Logger.Debug("pipeline phase", "phase", phaseDone)
	return result, nil
}

// generate fans the snapshot out to every requested generator. The first
// failure stops the fan-out; no best-effort partial export.
func (p *Pipeline) generate(ctx context.Context, req *Request, snap *Snapshot, result *Result) error {
	if req.Raw {
		artifact := Artifact{Kind: FormatRaw, OutputPath: snap.Dir}
		result.Artifacts = append(result.Artifacts, artifact)
		fmt.Fprintf(p.Out, "Files exported at: %s\n", snap.Dir)
		p.printToolchainGuidance(snap.Dir)
	}

	if req.Nuget != nil {
		fmt.Fprintln(p.Out, "Creating nuget package...")
		gen := &nugetGenerator{
			runner:     p.Runner,
			tool:       p.Tools.Nuget,
			scratchDir: filepath.Join(p.SourceRoot, "scripts", "buildsystems", "tmp"),
		}
		artifact, err := gen.generate(ctx, *req.Nuget, snap, p.ExportRoot)
		if err != nil {
			return err
		}
		result.Artifacts = append(result.Artifacts, artifact)
		fmt.Fprintf(p.Out, "NuGet package exported at: %s\n", artifact.OutputPath)
		fmt.Fprintf(p.Out, "\nWith a project open, go to Tools->NuGet Package Manager->Package Manager Console and paste:\n    Install-Package %s -Source %q\n\n", artifact.NugetID, filepath.Dir(artifact.OutputPath))
	}

	for _, format := range req.Archives {
		fmt.Fprintf(p.Out, "Creating %s archive...\n", format.Kind)
		gen := &archiveGenerator{runner: p.Runner, tool: p.Tools.CMake}
		artifact, err := gen.generate(ctx, format, snap, p.ExportRoot)
		if err != nil {
			return err
		}
		result.Artifacts = append(result.Artifacts, artifact)
		fmt.Fprintf(p.Out, "%s archive exported at: %s\n", format.Kind, artifact.OutputPath)
		p.printToolchainGuidance("[...]")
	}

	if req.IFW != nil {
		fmt.Fprintln(p.Out, "Creating installer...")
		artifact, err := p.Installer.Generate(ctx, p.Entries, snap, *req.IFW)
		if err != nil {
			return err
		}
		result.Artifacts = append(result.Artifacts, artifact)
		fmt.Fprintf(p.Out, "Installer exported at: %s\n", artifact.OutputPath)
	}

	return nil
}

// printPlan writes the operator-facing plan report: one section per status
// group, entries sorted, dependency-pulled entries marked with "*".
func (p *Pipeline) printPlan(c plan.Classification) {
	if len(c.AlreadyBuilt) > 0 {
		fmt.Fprintln(p.Out, "The following packages are already built and will be exported:")
		p.printEntries(c.AlreadyBuilt)
	}
	if len(c.NeedsBuild) > 0 {
		fmt.Fprintln(p.Out, "The following packages need to be built:")
		p.printEntries(c.NeedsBuild)
	}
	if c.HasDependencyEntries() {
		fmt.Fprintln(p.Out, "Additional packages (*) need to be exported to complete this operation.")
	}
}

func (p *Pipeline) printEntries(entries []plan.Entry) {
	for _, e := range entries {
		marker := "   "
		if e.Origin == plan.PulledInAsDependency {
			marker = " * "
		}
		fmt.Fprintf(p.Out, " %s %s\n", marker, e.Spec)
	}
}

// printRemediation emits the minimal build command for the unbuilt
// explicit specs. Dependency-only entries are omitted: building the
// explicit set pulls them in.
func (p *Pipeline) printRemediation(specs []pkgspec.Spec) {
	if len(specs) == 0 {
		return
	}
	fmt.Fprintln(p.Out, "There are packages that have not been built.")
	fmt.Fprintln(p.Out, "To build them, run:")
	fmt.Fprint(p.Out, "    portpack install")
	for _, s := range specs {
		fmt.Fprintf(p.Out, " %s", s)
	}
	fmt.Fprintln(p.Out)
}

// printToolchainGuidance shows the CMake include snippet for consuming the
// exported tree.
func (p *Pipeline) printToolchainGuidance(prefix string) {
	toolchain := filepath.ToSlash(filepath.Join(prefix, "scripts", "buildsystems", "portpack.cmake"))
	fmt.Fprintf(p.Out, "\nTo use the exported libraries in CMake projects use:\n    -DCMAKE_TOOLCHAIN_FILE=%s\n\n", toolchain)
}

func (p *Pipeline) applyDefaults() {
	if p.Runner == nil {
		p.Runner = NewToolRunner(p.Logger)
	}
	if p.Copier == nil {
		p.Copier = installtree.FSCopier{}
	}
	if p.Installer == nil {
		p.Installer = &ifwGenerator{
			runner:        p.Runner,
			binaryCreator: p.Tools.BinaryCreator,
			repoGen:       p.Tools.RepoGen,
			exportRoot:    p.ExportRoot,
		}
	}
	if p.Out == nil {
		p.Out = os.Stdout
	}
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	if p.Now == nil {
		p.Now = time.Now
	}
}
