// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes platform-specific string constants so that
// runtime.GOOS comparisons don't scatter magic strings across the codebase.
package platform

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
