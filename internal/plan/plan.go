// SPDX-License-Identifier: MPL-2.0

// Package plan models the export plan: which requested package instances
// are already built, which still need a build, and whether each entry was
// asked for explicitly or pulled in as a dependency.
//
// The plan is computed once per export invocation from the status database
// and is read-only afterwards; the export pipeline treats it as
// authoritative and never recomputes or mutates it.
package plan

import (
	"slices"

	"portpack-cli/internal/statusdb"
	"portpack-cli/pkg/pkgspec"
)

// Status says whether a planned package instance is already built.
type Status int

const (
	// AlreadyBuilt means the package is installed and can be exported.
	AlreadyBuilt Status = iota
	// NeedsBuild means the package must be built before exporting.
	NeedsBuild
)

// Origin says why an entry is in the plan.
type Origin int

const (
	// ExplicitlyRequested entries were named on the command line.
	ExplicitlyRequested Origin = iota
	// PulledInAsDependency entries were added to satisfy another entry.
	PulledInAsDependency
)

// Entry is one package instance in the export plan.
type Entry struct {
	Spec   pkgspec.Spec
	Status Status
	Origin Origin

	// Built references the installed record; non-nil exactly when
	// Status == AlreadyBuilt.
	Built *statusdb.InstalledPackage
}

// Classification partitions a plan by status, each group sorted by spec
// for deterministic reporting.
type Classification struct {
	AlreadyBuilt []Entry
	NeedsBuild   []Entry
}

// Classify groups entries by status and sorts each group.
func Classify(entries []Entry) Classification {
	var c Classification
	for _, e := range entries {
		switch e.Status {
		case AlreadyBuilt:
			c.AlreadyBuilt = append(c.AlreadyBuilt, e)
		case NeedsBuild:
			c.NeedsBuild = append(c.NeedsBuild, e)
		}
	}
	bySpec := func(a, b Entry) int { return a.Spec.Compare(b.Spec) }
	slices.SortFunc(c.AlreadyBuilt, bySpec)
	slices.SortFunc(c.NeedsBuild, bySpec)
	return c
}

// FullySatisfied reports whether every entry is already built.
func (c Classification) FullySatisfied() bool {
	return len(c.NeedsBuild) == 0
}

// HasDependencyEntries reports whether any entry was pulled in as a
// dependency rather than requested explicitly.
func (c Classification) HasDependencyEntries() bool {
	for _, group := range [][]Entry{c.AlreadyBuilt, c.NeedsBuild} {
		for _, e := range group {
			if e.Origin == PulledInAsDependency {
				return true
			}
		}
	}
	return false
}

// Remediation returns the minimal set of specs to build: the explicitly
// requested unbuilt entries only. Dependency-only entries are omitted
// because building the explicit set pulls them in transitively.
func (c Classification) Remediation() []pkgspec.Spec {
	var specs []pkgspec.Spec
	for _, e := range c.NeedsBuild {
		if e.Origin == ExplicitlyRequested {
			specs = append(specs, e.Spec)
		}
	}
	return specs
}
