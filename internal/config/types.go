// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"runtime"

	"portpack-cli/pkg/pkgspec"
	"portpack-cli/pkg/platform"
)

// Config is the root configuration for the portpack CLI.
type Config struct {
	// ExportRoot is the directory under which export sessions are staged
	// and artifacts are written. Empty means the current portpack root
	// (the working directory).
	ExportRoot string `mapstructure:"export_root"`

	// DefaultTriplet qualifies package specs given without an explicit
	// ":triplet" suffix.
	DefaultTriplet string `mapstructure:"default_triplet"`

	// Tools holds the external tool invocations used by artifact generators.
	Tools ToolsConfig `mapstructure:"tools"`

	// Hooks holds user shell snippets run around pipeline milestones.
	Hooks HooksConfig `mapstructure:"hooks"`
}

// ToolsConfig names the external binaries the artifact generators invoke.
// A bare name is resolved on PATH; an absolute path is used verbatim.
type ToolsConfig struct {
	Nuget         string `mapstructure:"nuget"`
	CMake         string `mapstructure:"cmake"`
	BinaryCreator string `mapstructure:"binarycreator"`
	RepoGen       string `mapstructure:"repogen"`
}

// HooksConfig declares optional user shell snippets.
type HooksConfig struct {
	// PostExport scripts run after a successful export, once per artifact
	// format, in the embedded virtual shell. Failures are warnings only.
	PostExport []string `mapstructure:"post_export"`
}

// DefaultConfig returns the built-in defaults used when no config file is
// present or when a field is omitted.
func DefaultConfig() *Config {
	return &Config{
		ExportRoot:     "",
		DefaultTriplet: defaultTripletForHost(),
		Tools: ToolsConfig{
			Nuget:         "nuget",
			CMake:         "cmake",
			BinaryCreator: "binarycreator",
			RepoGen:       "repogen",
		},
	}
}

// defaultTripletForHost picks the conventional triplet for the host OS.
func defaultTripletForHost() string {
	switch runtime.GOOS {
	case platform.Windows:
		return "x64-windows"
	case platform.Darwin:
		return "x64-osx"
	default:
		return "x64-linux"
	}
}

// Validate checks constraints the CUE schema cannot express on decoded
// values (the schema already constrains syntax for values it sees, but
// defaults injected by viper bypass it).
func (c *Config) Validate() error {
	if _, err := pkgspec.ParseTriplet(c.DefaultTriplet); err != nil {
		return fmt.Errorf("default_triplet: %w", err)
	}
	if c.Tools.Nuget == "" || c.Tools.CMake == "" {
		return fmt.Errorf("tools: nuget and cmake must not be empty")
	}
	return nil
}
