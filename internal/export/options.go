// SPDX-License-Identifier: MPL-2.0

package export

import (
	"fmt"
)

// Format identifies one artifact format the pipeline can produce.
type Format string

const (
	FormatRaw      Format = "raw"
	FormatNuget    Format = "nuget"
	FormatZip      Format = "zip"
	FormatSevenZip Format = "7zip"
	FormatIFW      Format = "ifw"
)

// Setting is one format-scoped string flag: its value plus whether the
// flag was supplied at all. Presence is tracked separately from the value
// so an explicitly empty setting (--nuget-id="") still trips the
// settings-imply-flag rule.
type Setting struct {
	Value string
	Set   bool
}

// RawOptions mirrors the parsed export flags before validation. The CLI
// layer fills it verbatim from cobra; ValidateOptions turns it into an
// immutable Request or fails with a ConfigurationError.
type RawOptions struct {
	DryRun   bool
	Raw      bool
	Nuget    bool
	IFW      bool
	Zip      bool
	SevenZip bool

	NugetID      Setting
	NugetVersion Setting

	IFWRepositoryURL     Setting
	IFWPackagesDirPath   Setting
	IFWRepositoryDirPath Setting
	IFWConfigFilePath    Setting
	IFWInstallerFilePath Setting
}

// NugetOptions configures the NuGet generator. Zero values fall back to
// the documented defaults (session directory name, placeholder version).
type NugetOptions struct {
	ID      string
	Version string
}

// IFWSettings is the options bag handed to the installer generator.
type IFWSettings struct {
	RepositoryURL     string
	PackagesDirPath   string
	RepositoryDirPath string
	ConfigFilePath    string
	InstallerFilePath string
}

// Request is the validated, immutable export request.
type Request struct {
	DryRun   bool
	Raw      bool
	Nuget    *NugetOptions  // nil when the nuget format is not requested
	IFW      *IFWSettings   // nil when the installer format is not requested
	Archives []ArchiveFormat
}

// settingValue pairs a format-scoped flag name with the setting supplied
// on the command line.
type settingValue struct {
	flag    string
	setting Setting
}

// formatFamily declares one format's owning flag and its dependent
// settings. Validation is one generic pass over these declarations; new
// format families add a table entry, not new branching code.
type formatFamily struct {
	ownerFlag string
	selected  bool
	settings  []settingValue
}

// ValidateOptions checks the raw flags for consistency and produces the
// Request. It enforces two rules: at least one export target (or dry-run)
// must be selected, and a format-scoped setting may only be supplied
// together with its owning format flag.
func ValidateOptions(raw RawOptions) (*Request, error) {
	if !raw.Raw && !raw.Nuget && !raw.IFW && !raw.Zip && !raw.SevenZip && !raw.DryRun {
		return nil, &ConfigurationError{
			Reason: "no export target specified: provide at least one of --raw --nuget --ifw --zip --7zip",
		}
	}

	families := []formatFamily{
		{
			ownerFlag: "--nuget",
			selected:  raw.Nuget,
			settings: []settingValue{
				{"--nuget-id", raw.NugetID},
				{"--nuget-version", raw.NugetVersion},
			},
		},
		{
			ownerFlag: "--ifw",
			selected:  raw.IFW,
			settings: []settingValue{
				{"--ifw-repository-url", raw.IFWRepositoryURL},
				{"--ifw-packages-directory-path", raw.IFWPackagesDirPath},
				{"--ifw-repository-directory-path", raw.IFWRepositoryDirPath},
				{"--ifw-configuration-file-path", raw.IFWConfigFilePath},
				{"--ifw-installer-file-path", raw.IFWInstallerFilePath},
			},
		},
	}

	for _, fam := range families {
		if fam.selected {
			continue
		}
		for _, s := range fam.settings {
			if s.setting.Set {
				return nil, &ConfigurationError{
					Reason: fmt.Sprintf("%s is only valid with %s", s.flag, fam.ownerFlag),
				}
			}
		}
	}

	req := &Request{
		DryRun: raw.DryRun,
		Raw:    raw.Raw,
	}
	if raw.Nuget {
		req.Nuget = &NugetOptions{ID: raw.NugetID.Value, Version: raw.NugetVersion.Value}
	}
	if raw.IFW {
		req.IFW = &IFWSettings{
			RepositoryURL:     raw.IFWRepositoryURL.Value,
			PackagesDirPath:   raw.IFWPackagesDirPath.Value,
			RepositoryDirPath: raw.IFWRepositoryDirPath.Value,
			ConfigFilePath:    raw.IFWConfigFilePath.Value,
			InstallerFilePath: raw.IFWInstallerFilePath.Value,
		}
	}
	if raw.Zip {
		req.Archives = append(req.Archives, archiveFormats[FormatZip])
	}
	if raw.SevenZip {
		req.Archives = append(req.Archives, archiveFormats[FormatSevenZip])
	}
	return req, nil
}
