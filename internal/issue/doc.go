// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context for the portpack CLI.
//
// Two building blocks live here:
//
//   - ActionableError / ErrorContext: structured errors carrying the failed
//     operation, the resource involved, and fix suggestions. Services return
//     these; the CLI layer formats them.
//   - The issue catalog: markdown help entries keyed by Id, rendered with
//     glamour when the CLI wants to show remediation guidance next to an
//     error (e.g., "no export target specified").
package issue
