// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"

	"portpack-cli/internal/statusdb"
	"portpack-cli/pkg/pkgspec"
)

// Resolve computes the export plan for the requested specs against the
// status database. Requested specs become ExplicitlyRequested entries;
// declared dependencies of installed packages are walked transitively
// (same triplet) and become PulledInAsDependency entries. A spec with no
// installed record is planned as NeedsBuild.
func Resolve(db *statusdb.Database, requested []pkgspec.Spec) ([]Entry, error) {
	if len(requested) == 0 {
		return nil, fmt.Errorf("export plan cannot be empty")
	}

	seen := make(map[string]bool, len(requested))
	var entries []Entry

	// Explicit set first so duplicates keep their requested origin.
	queue := make([]pkgspec.Spec, 0, len(requested))
	for _, spec := range requested {
		if seen[spec.String()] {
			continue
		}
		seen[spec.String()] = true
		entries = append(entries, newEntry(db, spec, ExplicitlyRequested))
		queue = append(queue, spec)
	}

	// Breadth-first walk over declared dependencies of installed packages.
	// Unbuilt packages contribute no dependency edges: their dependency
	// set is unknown until they are built.
	for len(queue) > 0 {
		spec := queue[0]
		queue = queue[1:]

		pkg, ok := db.Lookup(spec)
		if !ok {
			continue
		}
		for _, depName := range pkg.Depends {
			depSpec, err := pkgspec.New(depName, spec.Triplet())
			if err != nil {
				return nil, fmt.Errorf("status database: %s declares invalid dependency %q: %w", spec, depName, err)
			}
			if seen[depSpec.String()] {
				continue
			}
			seen[depSpec.String()] = true
			entries = append(entries, newEntry(db, depSpec, PulledInAsDependency))
			queue = append(queue, depSpec)
		}
	}

	return entries, nil
}

func newEntry(db *statusdb.Database, spec pkgspec.Spec, origin Origin) Entry {
	if pkg, ok := db.Lookup(spec); ok {
		return Entry{Spec: spec, Status: AlreadyBuilt, Origin: origin, Built: pkg}
	}
	return Entry{Spec: spec, Status: NeedsBuild, Origin: origin}
}
