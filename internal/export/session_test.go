// SPDX-License-Identifier: MPL-2.0

package export

import (
	"testing"
	"time"
)

func TestNewSessionID(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 26, 14, 30, 15, 0, time.UTC)

	got, err := NewSessionID(now)
	if err != nil {
		t.Fatalf("NewSessionID() error = %v", err)
	}
	want := "portpack-export-20260826-143015"
	if got != want {
		t.Errorf("NewSessionID() = %q, want %q", got, want)
	}
}

func TestNewSessionIDIsSortable(t *testing.T) {
	t.Parallel()

	earlier := time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC)
	later := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	a, err := NewSessionID(earlier)
	if err != nil {
		t.Fatalf("NewSessionID(earlier) error = %v", err)
	}
	b, err := NewSessionID(later)
	if err != nil {
		t.Fatalf("NewSessionID(later) error = %v", err)
	}
	if !(a < b) {
		t.Errorf("session ids not lexicographically ordered: %q >= %q", a, b)
	}
}

func TestNewSessionIDRejectsMalformedStamp(t *testing.T) {
	t.Parallel()

	// A five-digit year widens the stamp past its fixed width.
	now := time.Date(12026, time.January, 1, 0, 0, 0, 0, time.UTC)

	if _, err := NewSessionID(now); err == nil {
		t.Error("NewSessionID() error = nil, want width-check failure")
	}
}
