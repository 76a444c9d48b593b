// SPDX-License-Identifier: EPL-2.0

// Package pkgspec defines the value types that identify one package
// instance inside a portpack installation tree.
//
// A package instance is the pair (name, triplet): the same library built
// for two target triplets is two distinct instances. Specs are immutable
// once constructed and have a total order (name first, then triplet) so
// that plan reports and manifests are deterministic and diffable.
package pkgspec
