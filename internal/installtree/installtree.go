// SPDX-License-Identifier: MPL-2.0

// Package installtree copies one built package's install-output tree into
// a destination root and records every copied path in a listfile, the
// manifest later used by uninstall and audit tooling.
package installtree

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Copier copies a package's installed files and writes the listfile.
// The export staging manager invokes it once per already-built package.
type Copier interface {
	// CopyTree copies every file under srcDir into destDir (preserving
	// relative subpaths) and writes the listfile at listfilePath. Listfile
	// entries are slash-separated paths prefixed with destDir's base name,
	// one per line, sorted; directories carry a trailing slash.
	CopyTree(srcDir, destDir, listfilePath string) error
}

// FSCopier is the filesystem-backed Copier.
type FSCopier struct{}

var _ Copier = FSCopier{}

// CopyTree implements Copier.
func (FSCopier) CopyTree(srcDir, destDir, listfilePath string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("install tree not readable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("install tree %s is not a directory", srcDir)
	}

	prefix := filepath.Base(destDir)
	var entries []string

	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(destDir, 0o755)
		}

		dest := filepath.Join(destDir, rel)
		listEntry := prefix + "/" + filepath.ToSlash(rel)

		if d.IsDir() {
			entries = append(entries, listEntry+"/")
			return os.MkdirAll(dest, 0o755)
		}

		entries = append(entries, listEntry)
		return copyFile(path, dest)
	})
	if err != nil {
		return fmt.Errorf("failed to copy install tree %s: %w", srcDir, err)
	}

	sort.Strings(entries)
	if err := os.MkdirAll(filepath.Dir(listfilePath), 0o755); err != nil {
		return fmt.Errorf("failed to create listfile directory: %w", err)
	}
	content := strings.Join(entries, "\n")
	if len(entries) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(listfilePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write listfile: %w", err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
