// SPDX-License-Identifier: EPL-2.0

package pkgspec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidName is returned when a package name is malformed.
	ErrInvalidName = errors.New("invalid package name")
	// ErrInvalidTriplet is returned when a triplet token is malformed.
	ErrInvalidTriplet = errors.New("invalid triplet")
)

// nameRegex validates package names: lowercase alphanumeric segments
// separated by single dashes (e.g., "zlib", "boost-system").
var nameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// tripletRegex validates target triplets: lowercase alphanumeric segments
// separated by single dashes (e.g., "x64-windows", "arm64-linux").
var tripletRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Triplet identifies a target platform (architecture plus OS/ABI flavor).
type Triplet string

// ParseTriplet validates and returns a Triplet.
func ParseTriplet(s string) (Triplet, error) {
	if !tripletRegex.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTriplet, s)
	}
	return Triplet(s), nil
}

// String returns the triplet token.
func (t Triplet) String() string { return string(t) }

// Spec is the identity of one package instance: a package name plus the
// triplet it was built for. The zero value is not a valid spec; construct
// via New or Parse.
type Spec struct {
	name    string
	triplet Triplet
}

// New constructs a Spec after validating both components.
func New(name string, triplet Triplet) (Spec, error) {
	if !nameRegex.MatchString(name) {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, err := ParseTriplet(string(triplet)); err != nil {
		return Spec{}, err
	}
	return Spec{name: name, triplet: triplet}, nil
}

// Parse parses a spec token of the form "name" or "name:triplet".
// When the triplet qualifier is omitted, defaultTriplet is used.
func Parse(token string, defaultTriplet Triplet) (Spec, error) {
	name, trip, qualified := strings.Cut(token, ":")
	if !qualified {
		return New(name, defaultTriplet)
	}
	t, err := ParseTriplet(trip)
	if err != nil {
		return Spec{}, err
	}
	return New(name, t)
}

// Name returns the package name.
func (s Spec) Name() string { return s.name }

// Triplet returns the target triplet.
func (s Spec) Triplet() Triplet { return s.triplet }

// String renders the canonical "name:triplet" form.
func (s Spec) String() string {
	return s.name + ":" + string(s.triplet)
}

// Compare orders specs by name, then by triplet. It returns a negative
// value when s sorts before other, zero when equal, positive otherwise.
func (s Spec) Compare(other Spec) int {
	if c := strings.Compare(s.name, other.name); c != 0 {
		return c
	}
	return strings.Compare(string(s.triplet), string(other.triplet))
}
