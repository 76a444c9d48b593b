// SPDX-License-Identifier: MPL-2.0

// Package statusdb reads the installed-package status database.
//
// The database is a TOML file maintained by the install machinery at
// installed/portpack/status.toml under the portpack root. The export
// pipeline treats it as read-only: it answers "which package instances
// are already built and where do their files live".
package statusdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"portpack-cli/pkg/pkgspec"

	"github.com/pelletier/go-toml/v2"
)

// RelPath is the status database location relative to the portpack root.
var RelPath = filepath.Join("installed", "portpack", "status.toml")

// ErrNotFound is returned by Load when the status database file is absent,
// which is equivalent to "nothing is installed".
var ErrNotFound = errors.New("status database not found")

// InstalledPackage is one record in the status database.
type InstalledPackage struct {
	Name    string   `toml:"name"`
	Version string   `toml:"version"`
	Triplet string   `toml:"triplet"`
	Depends []string `toml:"depends,omitempty"`
}

// Spec returns the package's identity.
func (p *InstalledPackage) Spec() (pkgspec.Spec, error) {
	return pkgspec.New(p.Name, pkgspec.Triplet(p.Triplet))
}

// Fullstem is the canonical "<name>_<version>_<triplet>" token used in
// listfile names.
func (p *InstalledPackage) Fullstem() string {
	return fmt.Sprintf("%s_%s_%s", p.Name, p.Version, p.Triplet)
}

// fileDocument is the on-disk TOML shape.
type fileDocument struct {
	Packages []InstalledPackage `toml:"package"`
}

// Database is the loaded, indexed status database for one portpack root.
type Database struct {
	root     string
	packages map[string]*InstalledPackage
}

// Load reads the status database under root. A missing file yields
// ErrNotFound; a malformed file is an error.
func Load(root string) (*Database, error) {
	path := filepath.Join(root, RelPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read status database: %w", err)
	}

	var doc fileDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse status database %s: %w", path, err)
	}

	db := &Database{
		root:     root,
		packages: make(map[string]*InstalledPackage, len(doc.Packages)),
	}
	for i := range doc.Packages {
		pkg := &doc.Packages[i]
		spec, err := pkg.Spec()
		if err != nil {
			return nil, fmt.Errorf("status database %s: record %d: %w", path, i, err)
		}
		if _, dup := db.packages[spec.String()]; dup {
			return nil, fmt.Errorf("status database %s: duplicate record for %s", path, spec)
		}
		db.packages[spec.String()] = pkg
	}
	return db, nil
}

// Empty returns a database with no installed records, used when the
// status file does not exist yet.
func Empty(root string) *Database {
	return &Database{root: root, packages: map[string]*InstalledPackage{}}
}

// Root returns the portpack root this database was loaded from.
func (db *Database) Root() string { return db.root }

// Lookup returns the installed record for spec, if any.
func (db *Database) Lookup(spec pkgspec.Spec) (*InstalledPackage, bool) {
	pkg, ok := db.packages[spec.String()]
	return pkg, ok
}

// PackageDir is the install-output directory for spec: the tree that
// staging copies into the export snapshot.
func (db *Database) PackageDir(spec pkgspec.Spec) string {
	return filepath.Join(db.root, "packages", spec.Name()+"_"+string(spec.Triplet()))
}

// Len reports the number of installed records.
func (db *Database) Len() int { return len(db.packages) }
