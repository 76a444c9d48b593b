// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"fmt"
	"path/filepath"
)

// ArchiveFormat describes one generic archive flavor. Dispatch switches on
// Kind; new flavors register here instead of adding branching code.
type ArchiveFormat struct {
	// Kind is the format identity (also the CLI flag name).
	Kind Format
	// Extension is the output filename extension, without dot.
	Extension string
	// ToolFormat is the --format value understood by the archiving tool.
	ToolFormat string
}

// archiveFormats is the fixed registry of supported archive flavors.
var archiveFormats = map[Format]ArchiveFormat{
	FormatZip:      {Kind: FormatZip, Extension: "zip", ToolFormat: "zip"},
	FormatSevenZip: {Kind: FormatSevenZip, Extension: "7z", ToolFormat: "7zip"},
}

// archiveGenerator compresses the whole staging snapshot with cmake's
// archive driver (`cmake -E tar`), which is already present wherever
// portpack packages are built.
type archiveGenerator struct {
	runner ToolRunner
	// tool is the cmake binary (name or path).
	tool string
}

// generate produces <outputDir>/<snapshot-dir-name>.<extension>.
func (g *archiveGenerator) generate(ctx context.Context, format ArchiveFormat, snap *Snapshot, outputDir string) (Artifact, error) {
	archivePath := filepath.Join(outputDir, filepath.Base(snap.Dir)+"."+format.Extension)

	err := g.runner.Run(ctx, g.tool,
		"-E", "tar", "cf", archivePath,
		"--format="+format.ToolFormat,
		"--", snap.Dir,
	)
	if err != nil {
		return Artifact{}, &ArtifactGenerationError{
			Format: format.Kind,
			Err:    fmt.Errorf("%s creation failed: %w", archivePath, err),
		}
	}

	return Artifact{Kind: format.Kind, OutputPath: archivePath}, nil
}
