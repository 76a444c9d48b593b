// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	cfg, path, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty (defaults)", path)
	}
	if cfg.Tools.Nuget != "nuget" || cfg.Tools.CMake != "cmake" {
		t.Errorf("tool defaults = %+v", cfg.Tools)
	}
	if cfg.DefaultTriplet == "" {
		t.Error("DefaultTriplet should have a host default")
	}
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	writeConfigFile(t, dir, `
export_root: "/srv/exports"
default_triplet: "arm64-linux"
tools: cmake: "/opt/cmake/bin/cmake"
hooks: post_export: ["echo done"]
`)

	cfg, path, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path == "" {
		t.Error("expected a resolved config path")
	}
	if cfg.ExportRoot != "/srv/exports" {
		t.Errorf("ExportRoot = %q", cfg.ExportRoot)
	}
	if cfg.DefaultTriplet != "arm64-linux" {
		t.Errorf("DefaultTriplet = %q", cfg.DefaultTriplet)
	}
	// Omitted tool keeps its default, set tool takes the file value.
	if cfg.Tools.Nuget != "nuget" {
		t.Errorf("Tools.Nuget = %q, want default", cfg.Tools.Nuget)
	}
	if cfg.Tools.CMake != "/opt/cmake/bin/cmake" {
		t.Errorf("Tools.CMake = %q", cfg.Tools.CMake)
	}
	if len(cfg.Hooks.PostExport) != 1 || cfg.Hooks.PostExport[0] != "echo done" {
		t.Errorf("Hooks.PostExport = %v", cfg.Hooks.PostExport)
	}
}

func TestLoad_SchemaRejectsBadTriplet(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	writeConfigFile(t, dir, `default_triplet: "X64 Windows"`)

	_, _, err := Load(LoadOptions{})
	if err == nil {
		t.Fatal("Load should reject a triplet that fails the schema regex")
	}
	if !strings.Contains(err.Error(), "default_triplet") {
		t.Errorf("error should name the offending field: %v", err)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	_, _, err := Load(LoadOptions{ConfigFilePath: "/nonexistent/config.cue"})
	if err == nil {
		t.Fatal("Load should fail for a missing explicit config path")
	}
}

func TestLoad_InvalidCUESyntax(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	writeConfigFile(t, dir, `tools: { nuget: `)

	if _, _, err := Load(LoadOptions{}); err == nil {
		t.Fatal("Load should fail on malformed CUE")
	}
}
