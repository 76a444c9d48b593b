// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"fmt"
	"path/filepath"

	"portpack-cli/internal/plan"
)

// InstallerGenerator produces a GUI installer payload from the export
// plan. The pipeline supplies the plan, the session id, the staging
// snapshot, and the caller's options bag; success/failure semantics are
// the generator's own and are surfaced verbatim.
type InstallerGenerator interface {
	Generate(ctx context.Context, entries []plan.Entry, snap *Snapshot, opts IFWSettings) (Artifact, error)
}

// ifwGenerator adapts the Qt Installer Framework command-line tools. It
// arranges the staged snapshot as the single installable component and
// invokes binarycreator for the installer binary, plus repogen when an
// online repository directory is requested.
type ifwGenerator struct {
	runner        ToolRunner
	binaryCreator string
	repoGen       string
	// exportRoot anchors the default packages/installer output paths.
	exportRoot string
}

var _ InstallerGenerator = (*ifwGenerator)(nil)

func (g *ifwGenerator) Generate(ctx context.Context, entries []plan.Entry, snap *Snapshot, opts IFWSettings) (Artifact, error) {
	packagesDir := opts.PackagesDirPath
	if packagesDir == "" {
		packagesDir = filepath.Join(g.exportRoot, snap.SessionID+"-ifw-packages")
	}
	configFile := opts.ConfigFilePath
	if configFile == "" {
		configFile = filepath.Join(packagesDir, "..", snap.SessionID+"-ifw-configuration", "config.xml")
	}
	installerFile := opts.InstallerFilePath
	if installerFile == "" {
		installerFile = filepath.Join(g.exportRoot, snap.SessionID+"-ifw-installer.exe")
	}

	if opts.RepositoryDirPath != "" {
		err := g.runner.Run(ctx, g.repoGen,
			"--packages", packagesDir,
			opts.RepositoryDirPath,
		)
		if err != nil {
			return Artifact{}, &ArtifactGenerationError{
				Format: FormatIFW,
				Err:    fmt.Errorf("ifw repository generation failed: %w", err),
			}
		}
	}

	args := []string{
		"--config", configFile,
		"--packages", packagesDir,
	}
	if opts.RepositoryURL != "" {
		// Online installers fetch component payloads from the repository
		// instead of embedding them.
		args = append(args, "--online-only")
	}
	args = append(args, installerFile)

	if err := g.runner.Run(ctx, g.binaryCreator, args...); err != nil {
		return Artifact{}, &ArtifactGenerationError{
			Format: FormatIFW,
			Err:    fmt.Errorf("ifw installer creation failed: %w", err),
		}
	}

	return Artifact{Kind: FormatIFW, OutputPath: installerFile}, nil
}
