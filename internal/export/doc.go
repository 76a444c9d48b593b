// SPDX-License-Identifier: MPL-2.0

// Package export implements the export pipeline: validating the requested
// artifact formats, snapshotting already-built packages into an ephemeral
// staging directory, and fanning that snapshot out to the requested
// artifact generators (raw directory, NuGet package, compressed archives,
// IFW installer) with deterministic cleanup.
//
// The pipeline never builds anything: a plan containing unbuilt packages
// aborts before staging with the minimal build command the operator needs.
// External tools (nuget, cmake, binarycreator) are invoked exactly once
// per artifact through the ToolRunner seam; a non-zero exit status fails
// the whole invocation, and the staging directory is still cleaned up
// unless the raw format was requested.
package export
