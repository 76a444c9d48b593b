// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// defaultNugetVersion is the documented placeholder used when the caller
// supplies no --nuget-version. Repeated exports with default id+version
// produce colliding package identities; that is preserved, documented
// behavior rather than silently "fixed".
const defaultNugetVersion = "1.0.0"

// nuspecTemplate describes the NuGet package: the whole snapshot plus a
// targets-redirect stub that MSBuild consumers import from
// build/native/<id>.targets.
var nuspecTemplate = template.Must(template.New("nuspec").Parse(`<package>
    <metadata>
        <id>{{.ID}}</id>
        <version>{{.Version}}</version>
        <authors>portpack</authors>
        <description>
            Portpack NuGet export
        </description>
    </metadata>
    <files>
        <file src="{{.ExportedDir}}/installed/**" target="installed" />
        <file src="{{.ExportedDir}}/scripts/**" target="scripts" />
        <file src="{{.ExportedDir}}/.portpack-root" target="" />
        <file src="{{.TargetsRedirect}}" target="build/native/{{.ID}}.targets" />
    </files>
</package>
`))

// targetsRedirectTemplate is the stub placed at build/native inside the
// package; it forwards to the snapshot's real MSBuild integration. The
// relative path climbs out of build/native back to the package root.
var targetsRedirectTemplate = template.Must(template.New("targets").Parse(`<Project ToolsVersion="4.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <Import Condition="Exists('{{.}}')" Project="{{.}}" />
</Project>
`))

type nuspecData struct {
	ID              string
	Version         string
	ExportedDir     string
	TargetsRedirect string
}

// nugetGenerator produces a NuGet package from the staging snapshot by
// synthesizing a nuspec and invoking the external nuget tool.
type nugetGenerator struct {
	runner ToolRunner
	// tool is the nuget binary (name or path).
	tool string
	// scratchDir receives the generated nuspec and targets-redirect stub.
	// These are working files, not artifacts; on failure they are left in
	// place for inspection.
	scratchDir string
}

// generate writes the description files and runs
// `nuget pack -OutputDirectory <outputDir> <nuspec> -NoDefaultExcludes`
// (-NoDefaultExcludes keeps the dot-prefixed root marker in the package).
func (g *nugetGenerator) generate(ctx context.Context, opts NugetOptions, snap *Snapshot, outputDir string) (Artifact, error) {
	id := opts.ID
	if id == "" {
		id = filepath.Base(snap.Dir)
	}
	version := opts.Version
	if version == "" {
		version = defaultNugetVersion
	}

	if err := os.MkdirAll(g.scratchDir, 0o755); err != nil {
		return Artifact{}, &ArtifactGenerationError{Format: FormatNuget, Err: err}
	}

	targetsRedirectPath := filepath.Join(g.scratchDir, "portpack.export.nuget.targets")
	var redirect strings.Builder
	if err := targetsRedirectTemplate.Execute(&redirect, "../../scripts/buildsystems/msbuild/portpack.targets"); err != nil {
		return Artifact{}, &ArtifactGenerationError{Format: FormatNuget, Err: err}
	}
	if err := os.WriteFile(targetsRedirectPath, []byte(redirect.String()), 0o644); err != nil {
		return Artifact{}, &ArtifactGenerationError{Format: FormatNuget, Err: err}
	}

	nuspecPath := filepath.Join(g.scratchDir, "portpack.export.nuspec")
	var nuspec strings.Builder
	err := nuspecTemplate.Execute(&nuspec, nuspecData{
		ID:              id,
		Version:         version,
		ExportedDir:     filepath.ToSlash(snap.Dir),
		TargetsRedirect: filepath.ToSlash(targetsRedirectPath),
	})
	if err != nil {
		return Artifact{}, &ArtifactGenerationError{Format: FormatNuget, Err: err}
	}
	if err := os.WriteFile(nuspecPath, []byte(nuspec.String()), 0o644); err != nil {
		return Artifact{}, &ArtifactGenerationError{Format: FormatNuget, Err: err}
	}

	err = g.runner.Run(ctx, g.tool, "pack", "-OutputDirectory", outputDir, nuspecPath, "-NoDefaultExcludes")
	if err != nil {
		return Artifact{}, &ArtifactGenerationError{Format: FormatNuget, Err: fmt.Errorf("nuget package creation failed: %w", err)}
	}

	return Artifact{
		Kind:       FormatNuget,
		OutputPath: filepath.Join(outputDir, id+".nupkg"),
		NugetID:    id,
	}, nil
}
