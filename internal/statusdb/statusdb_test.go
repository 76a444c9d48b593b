// SPDX-License-Identifier: MPL-2.0

package statusdb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"portpack-cli/pkg/pkgspec"
)

func writeStatusFile(t *testing.T, root, content string) {
	t.Helper()
	path := filepath.Join(root, RelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func mustSpec(t *testing.T, token string) pkgspec.Spec {
	t.Helper()
	s, err := pkgspec.Parse(token, "x64-linux")
	if err != nil {
		t.Fatalf("Parse(%q): %v", token, err)
	}
	return s
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty root = %v, want ErrNotFound", err)
	}
}

func TestLoad_LookupAndPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeStatusFile(t, root, `
[[package]]
name = "zlib"
version = "1.3.1"
triplet = "x64-linux"

[[package]]
name = "libpng"
version = "1.6.43"
triplet = "x64-linux"
depends = ["zlib"]
`)

	db, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if db.Len() != 2 {
		t.Fatalf("Len = %d, want 2", db.Len())
	}

	pkg, ok := db.Lookup(mustSpec(t, "libpng"))
	if !ok {
		t.Fatal("libpng:x64-linux should be installed")
	}
	if got, want := pkg.Fullstem(), "libpng_1.6.43_x64-linux"; got != want {
		t.Errorf("Fullstem = %q, want %q", got, want)
	}
	if len(pkg.Depends) != 1 || pkg.Depends[0] != "zlib" {
		t.Errorf("Depends = %v", pkg.Depends)
	}

	if _, ok := db.Lookup(mustSpec(t, "zlib:arm64-linux")); ok {
		t.Error("zlib:arm64-linux should not be installed")
	}

	wantDir := filepath.Join(root, "packages", "zlib_x64-linux")
	if got := db.PackageDir(mustSpec(t, "zlib")); got != wantDir {
		t.Errorf("PackageDir = %q, want %q", got, wantDir)
	}
}

func TestLoad_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeStatusFile(t, root, `
[[package]]
name = "zlib"
version = "1.3.1"
triplet = "x64-linux"

[[package]]
name = "zlib"
version = "1.2.0"
triplet = "x64-linux"
`)

	if _, err := Load(root); err == nil {
		t.Fatal("Load should reject duplicate (name, triplet) records")
	}
}

func TestLoad_RejectsMalformedRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeStatusFile(t, root, `
[[package]]
name = "Not Valid"
version = "1.0"
triplet = "x64-linux"
`)

	if _, err := Load(root); err == nil {
		t.Fatal("Load should reject invalid package names")
	}
}
