// SPDX-License-Identifier: MPL-2.0

package export

import (
	"fmt"
	"time"
)

// sessionPrefix starts every export session directory name.
const sessionPrefix = "portpack-export-"

// sessionStampLayout is the local-time layout for session identifiers:
// second resolution, fixed width, lexicographically sortable.
const sessionStampLayout = "20060102-150405"

// NewSessionID derives the export session identifier from the given local
// time, e.g. "portpack-export-20260826-143015". The formatted stamp must
// be exactly 15 characters; any other width means the clock produced a
// year outside the four-digit range and every downstream path computation
// would be wrong, so the error is treated as fatal by the caller.
//
// Two exports starting within the same second collide; this is a known,
// accepted limitation of the second-resolution identifier.
func NewSessionID(now time.Time) (string, error) {
	stamp := now.Format(sessionStampLayout)
	if len(stamp) != len(sessionStampLayout) {
		return "", fmt.Errorf("expected %d-character session stamp, got %q", len(sessionStampLayout), stamp)
	}
	return sessionPrefix + stamp, nil
}
