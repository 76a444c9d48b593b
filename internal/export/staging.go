// SPDX-License-Identifier: MPL-2.0

package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"portpack-cli/internal/installtree"
	"portpack-cli/internal/plan"
	"portpack-cli/internal/statusdb"
)

// RootMarkerName marks the root of a portpack tree; every export snapshot
// carries one so downstream build systems can locate the tree.
const RootMarkerName = ".portpack-root"

// integrationFiles is the fixed, versioned list of files copied into every
// export so build-system consumers can use the exported packages. Paths
// are relative to the portpack source root and preserved in the snapshot.
var integrationFiles = []string{
	RootMarkerName,
	filepath.Join("scripts", "buildsystems", "portpack.cmake"),
	filepath.Join("scripts", "buildsystems", "msbuild", "portpack.targets"),
	filepath.Join("scripts", "buildsystems", "msbuild", "applocal.ps1"),
	filepath.Join("scripts", "cmake", "portpack_get_windows_sdk.cmake"),
	filepath.Join("scripts", "getWindowsSDK.ps1"),
	filepath.Join("scripts", "getProgramFilesPlatformBitness.ps1"),
	filepath.Join("scripts", "getProgramFiles32bit.ps1"),
}

// Snapshot is one export session's staging directory: a self-contained
// tree holding every already-built package's installed files plus the
// integration files. It is rebuilt from scratch each session and owned by
// the pipeline for the session's lifetime; generators read it, never
// write it.
type Snapshot struct {
	// Dir is the absolute staging directory, <exportRoot>/<sessionID>.
	Dir string
	// SessionID is the session this snapshot belongs to.
	SessionID string
}

// InstalledDir is the subtree holding package files, one partition per
// triplet.
func (s *Snapshot) InstalledDir() string {
	return filepath.Join(s.Dir, "installed")
}

// listfilePath is where a package's copied-file manifest lives inside the
// snapshot.
func (s *Snapshot) listfilePath(pkg *statusdb.InstalledPackage) string {
	return filepath.Join(s.InstalledDir(), "portpack", "info", pkg.Fullstem()+".list")
}

// Stager assembles staging snapshots.
type Stager struct {
	// ExportRoot is the directory that receives session directories.
	ExportRoot string
	// SourceRoot is the portpack root holding the integration files.
	SourceRoot string
	// DB locates each package's install-output directory.
	DB *statusdb.Database
	// Copier performs the per-package copy-and-listfile step.
	Copier installtree.Copier
	// Report receives operator-facing progress lines.
	Report io.Writer
}

// Stage builds a fresh snapshot for the session from the already-built
// plan entries. Any pre-existing directory at the target path is removed
// in full first, so re-running a session is idempotent. All failures are
// StagingErrors and abort the export before any generator runs.
func (st *Stager) Stage(sessionID string, built []plan.Entry) (*Snapshot, error) {
	snap := &Snapshot{
		Dir:       filepath.Join(st.ExportRoot, sessionID),
		SessionID: sessionID,
	}

	if err := os.RemoveAll(snap.Dir); err != nil {
		return nil, &StagingError{Op: "remove previous staging directory", Path: snap.Dir, Err: err}
	}
	if err := os.MkdirAll(snap.Dir, 0o755); err != nil {
		return nil, &StagingError{Op: "create staging directory", Path: snap.Dir, Err: err}
	}

	for _, entry := range built {
		if entry.Status != plan.AlreadyBuilt || entry.Built == nil {
			return nil, &StagingError{
				Op:  "stage package",
				Err: fmt.Errorf("plan entry %s is not built; classification must abort before staging", entry.Spec),
			}
		}

		fmt.Fprintf(st.Report, "Exporting package %s...\n", entry.Spec)
		destDir := filepath.Join(snap.InstalledDir(), string(entry.Spec.Triplet()))
		err := st.Copier.CopyTree(st.DB.PackageDir(entry.Spec), destDir, snap.listfilePath(entry.Built))
		if err != nil {
			return nil, &StagingError{Op: "stage package " + entry.Spec.String(), Err: err}
		}
	}

	if err := st.copyIntegrationFiles(snap); err != nil {
		return nil, err
	}

	return snap, nil
}

// copyIntegrationFiles copies the fixed integration file set, preserving
// relative subpaths. A missing or unreadable integration file is fatal:
// the snapshot is useless to downstream build systems without them.
func (st *Stager) copyIntegrationFiles(snap *Snapshot) error {
	for _, rel := range integrationFiles {
		src := filepath.Join(st.SourceRoot, rel)
		dest := filepath.Join(snap.Dir, rel)

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return &StagingError{Op: "create integration directory", Path: filepath.Dir(dest), Err: err}
		}
		if err := copyIntegrationFile(src, dest); err != nil {
			return &StagingError{Op: "copy integration file", Path: rel, Err: err}
		}
	}
	return nil
}

func copyIntegrationFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}
