// SPDX-License-Identifier: EPL-2.0

package pkgspec

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token   string
		def     Triplet
		want    string
		wantErr error
	}{
		{"zlib", "x64-linux", "zlib:x64-linux", nil},
		{"zlib:x64-windows", "x64-linux", "zlib:x64-windows", nil},
		{"boost-system:arm64-osx", "x64-linux", "boost-system:arm64-osx", nil},
		{"Zlib", "x64-linux", "", ErrInvalidName},
		{"zlib_ng", "x64-linux", "", ErrInvalidName},
		{"", "x64-linux", "", ErrInvalidName},
		{"zlib:", "x64-linux", "", ErrInvalidTriplet},
		{"zlib:X64", "x64-linux", "", ErrInvalidTriplet},
		{"zlib:x64 windows", "x64-linux", "", ErrInvalidTriplet},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.token, tt.def)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.token, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.token, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.token, got.String(), tt.want)
			}
		})
	}
}

func TestCompare_SortOrder(t *testing.T) {
	t.Parallel()

	mustSpec := func(token string) Spec {
		s, err := Parse(token, "x64-linux")
		if err != nil {
			t.Fatalf("Parse(%q): %v", token, err)
		}
		return s
	}

	specs := []Spec{
		mustSpec("zlib:x64-windows"),
		mustSpec("boost:x64-linux"),
		mustSpec("zlib:arm64-linux"),
		mustSpec("abseil:x64-linux"),
	}
	slices.SortFunc(specs, Spec.Compare)

	want := []string{
		"abseil:x64-linux",
		"boost:x64-linux",
		"zlib:arm64-linux",
		"zlib:x64-windows",
	}
	for i, s := range specs {
		if s.String() != want[i] {
			t.Errorf("sorted[%d] = %q, want %q", i, s.String(), want[i])
		}
	}
}
