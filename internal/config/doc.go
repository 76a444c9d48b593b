// SPDX-License-Identifier: MPL-2.0

// Package config loads the portpack configuration.
//
// Configuration lives in a CUE file (config.cue) in the platform config
// directory or the current directory. The file is validated against an
// embedded #Config schema before being merged into viper on top of the
// built-in defaults, so a partial config file is always valid input.
package config
