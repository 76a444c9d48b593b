// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for portpack.
//
// This package implements the Cobra command hierarchy for the portpack
// CLI: the root command and the export subcommand that packages built
// libraries into distributable artifacts.
package cmd
