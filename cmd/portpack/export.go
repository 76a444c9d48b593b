// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"portpack-cli/internal/export"
	"portpack-cli/internal/hooks"
	"portpack-cli/internal/issue"
	"portpack-cli/internal/plan"
	"portpack-cli/internal/statusdb"
	"portpack-cli/pkg/pkgspec"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	exportOpts export.RawOptions

	// exportOutputDir overrides the configured export root.
	exportOutputDir string
	// exportRootDir overrides portpack-root discovery.
	exportRootDir string

	// exportCmd packages already-built libraries into artifacts.
	exportCmd = &cobra.Command{
		Use:   "export <pkg>[:triplet]...",
		Short: "Export built packages as distributable artifacts",
		Long: `Export built packages as distributable artifacts.

The export command snapshots the named packages (and their installed
dependencies) together with the build-system integration files, then
produces one artifact per requested format. Packages must already be
built; nothing is built on the fly.

Formats can be combined in a single invocation:

  portpack export zlib --zip --nuget
  portpack export zlib openssl:x64-linux --raw
  portpack export zlib --ifw --ifw-repository-url=https://example.com/repo`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExport,
	}
)

func init() {
	flags := exportCmd.Flags()

	flags.BoolVar(&exportOpts.DryRun, "dry-run", false, "print the export plan without exporting")
	flags.BoolVar(&exportOpts.Raw, "raw", false, "keep the export as a plain directory tree")
	flags.BoolVar(&exportOpts.Nuget, "nuget", false, "produce a NuGet package")
	flags.BoolVar(&exportOpts.IFW, "ifw", false, "produce a Qt Installer Framework installer")
	flags.BoolVar(&exportOpts.Zip, "zip", false, "produce a zip archive")
	flags.BoolVar(&exportOpts.SevenZip, "7zip", false, "produce a 7zip archive")

	flags.StringVar(&exportOpts.NugetID.Value, "nuget-id", "", "NuGet package id (default: session directory name)")
	flags.StringVar(&exportOpts.NugetVersion.Value, "nuget-version", "", "NuGet package version (default: 1.0.0)")

	flags.StringVar(&exportOpts.IFWRepositoryURL.Value, "ifw-repository-url", "", "remote repository URL for an online installer")
	flags.StringVar(&exportOpts.IFWPackagesDirPath.Value, "ifw-packages-directory-path", "", "directory for the installer's package layout")
	flags.StringVar(&exportOpts.IFWRepositoryDirPath.Value, "ifw-repository-directory-path", "", "directory for the exported online repository")
	flags.StringVar(&exportOpts.IFWConfigFilePath.Value, "ifw-configuration-file-path", "", "installer configuration file")
	flags.StringVar(&exportOpts.IFWInstallerFilePath.Value, "ifw-installer-file-path", "", "installer output file")

	flags.StringVar(&exportOutputDir, "output-dir", "", "directory receiving the artifacts (default: configured export root)")
	flags.StringVar(&exportRootDir, "portpack-root", "", "portpack root directory (default: discovered from the working directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	applySettingPresence(cmd)

	err := executeExport(cmd.Context(), args, os.Stdout, os.Stderr)
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(os.Stderr, svcErr)
		return svcErr.exitError()
	}
	return err
}

// applySettingPresence records which format-scoped flags were supplied at
// all, so an explicitly empty value (--nuget-id="") still counts as
// present during validation.
func applySettingPresence(cmd *cobra.Command) {
	flags := cmd.Flags()
	exportOpts.NugetID.Set = flags.Changed("nuget-id")
	exportOpts.NugetVersion.Set = flags.Changed("nuget-version")
	exportOpts.IFWRepositoryURL.Set = flags.Changed("ifw-repository-url")
	exportOpts.IFWPackagesDirPath.Set = flags.Changed("ifw-packages-directory-path")
	exportOpts.IFWRepositoryDirPath.Set = flags.Changed("ifw-repository-directory-path")
	exportOpts.IFWConfigFilePath.Set = flags.Changed("ifw-configuration-file-path")
	exportOpts.IFWInstallerFilePath.Set = flags.Changed("ifw-installer-file-path")
}

// executeExport is the flag-free core of the export command; all failures
// come back as ServiceErrors pointing at the relevant issue catalog entry.
func executeExport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := newLogger(stderr)

	// Flag consistency is checked before any filesystem access so a bad
	// flag combination reports the same error from anywhere, portpack
	// tree or not. The pipeline re-validates cheaply.
	if _, err := export.ValidateOptions(exportOpts); err != nil {
		return classifyExportError(err)
	}

	root, err := resolvePortpackRoot(exportRootDir)
	if err != nil {
		return newServiceError(err, 0, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose)+"\n")
	}

	specs, err := parseSpecArgs(args, pkgspec.Triplet(cfg.DefaultTriplet))
	if err != nil {
		return newServiceError(err, issue.InvalidSpecId, ErrorStyle.Render("Error: ")+err.Error()+"\n")
	}

	db, err := statusdb.Load(root)
	if err != nil {
		if !errors.Is(err, statusdb.ErrNotFound) {
			return newServiceError(err, 0, ErrorStyle.Render("Error: ")+err.Error()+"\n")
		}
		// No status database means nothing is installed yet; the plan
		// report tells the user what to build.
		db = statusdb.Empty(root)
	}

	entries, err := plan.Resolve(db, specs)
	if err != nil {
		return newServiceError(err, issue.InvalidSpecId, ErrorStyle.Render("Error: ")+err.Error()+"\n")
	}

	pipeline := &export.Pipeline{
		Entries:    entries,
		DB:         db,
		SourceRoot: root,
		ExportRoot: resolveExportRoot(root),
		Tools:      cfg.Tools,
		Out:        stdout,
		Logger:     logger,
	}

	result, err := pipeline.Run(ctx, exportOpts)
	if err != nil {
		return classifyExportError(err)
	}
	if result.DryRun {
		return nil
	}

	runner := hooks.NewRunner(root, stdout, stderr, logger)
	env := hooks.Environment{
		SessionID:  result.SessionID,
		StagingDir: result.StagingDir,
	}
	for _, artifact := range result.Artifacts {
		env.ArtifactPaths = append(env.ArtifactPaths, artifact.OutputPath)
	}
	if failed := runner.RunPostExport(ctx, cfg.Hooks.PostExport, env); failed > 0 {
		fmt.Fprintln(stderr, WarningStyle.Render("Warning: ")+fmt.Sprintf("%d post-export hook(s) failed", failed))
	}

	fmt.Fprintln(stdout, SuccessStyle.Render("✓")+" Export complete.")
	return nil
}

// parseSpecArgs turns the positional arguments into package specs,
// qualifying bare names with the default triplet.
func parseSpecArgs(args []string, defaultTriplet pkgspec.Triplet) ([]pkgspec.Spec, error) {
	specs := make([]pkgspec.Spec, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		spec, err := pkgspec.Parse(arg, defaultTriplet)
		if err != nil {
			return nil, fmt.Errorf("invalid package spec %q: %w", arg, err)
		}
		if seen[spec.String()] {
			continue
		}
		seen[spec.String()] = true
		specs = append(specs, spec)
	}
	return specs, nil
}

// resolvePortpackRoot returns the portpack root: the explicit flag value
// when given, otherwise the nearest ancestor of the working directory
// carrying the root marker file.
func resolvePortpackRoot(explicit string) (string, error) {
	if explicit != "" {
		if !isPortpackRoot(explicit) {
			return "", issue.NewErrorContext().
				WithOperation("locating the portpack root").
				WithResource(explicit).
				WithSuggestion("make sure the directory contains a " + export.RootMarkerName + " file").
				Wrap(fmt.Errorf("%s is not a portpack root", explicit)).
				BuildError()
		}
		return explicit, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	for {
		if isPortpackRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", issue.NewErrorContext().
				WithOperation("locating the portpack root").
				WithSuggestion("run from inside a portpack tree").
				WithSuggestion("or pass --portpack-root explicitly").
				Wrap(errors.New("no " + export.RootMarkerName + " found in the working directory or any parent")).
				BuildError()
		}
		dir = parent
	}
}

func isPortpackRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, export.RootMarkerName))
	return err == nil
}

// resolveExportRoot picks the artifact destination: flag, then configured
// export root, then the portpack root itself.
func resolveExportRoot(portpackRoot string) string {
	if exportOutputDir != "" {
		return exportOutputDir
	}
	if cfg.ExportRoot != "" {
		return cfg.ExportRoot
	}
	return portpackRoot
}

// newLogger builds the diagnostic logger; verbose mode lowers the level
// to debug.
func newLogger(w io.Writer) *log.Logger {
	logger := log.New(w)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
