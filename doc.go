// Package main implements the pioversion CLI tool.
//
// The pioversion tool is a command-line interface that propagates a semantic
// version across the metadata files of a PlatformIO/Arduino library project.
// It resolves the target version from a positional argument or, when the
// argument is omitted, from the VERSION marker file at the project root,
// validates it against the restricted X.Y.Z shape, rewrites the marker file,
// and applies a per-format update rule to each of the JSON manifest, the
// properties file, and the version define in the C header.
//
// Command Usage:
//
//	pioversion [flags] [version]
//
// Flags:
//
//	-C, --root:    Project root containing the metadata files. (Defaults to ".")
//	--manifest:    Path to the JSON manifest, relative to the project root.
//	               (Defaults to "library.json")
//	--properties:  Path to the properties file, relative to the project root.
//	               (Defaults to "library.properties")
//	--header:      Path to the C header carrying the version define, relative
//	               to the project root. (Defaults to "src/IS31FL373x.h")
//	--macro:       Name of the version define in the header.
//	               (Defaults to "IS31FL373X_VERSION")
//	--dry:         Report which files would be updated without writing anything.
//	--log_level:   Set the log level (debug, info, warn, error).
//	--log_format:  Set the log format (text, logfmt, json).
//	--version:     Display the version of the pioversion CLI tool and exit.
//
// Examples:
//
//	# Set an explicit version across all metadata files
//	pioversion 1.0.9
//
//	# Re-propagate the version recorded in the VERSION marker file
//	pioversion
//
//	# Operate on a project in another directory
//	pioversion -C path/to/project 1.0.9
//
//	# Preview which files would change
//	pioversion --dry 2.0.0
//
// Target files that do not exist are skipped silently. If none of the three
// target files exist, a warning is emitted but the command still succeeds;
// the marker file is always written. A header file that exists but lacks the
// version define is a fatal error, as is a malformed JSON manifest.
//
// For more detailed API documentation, please see the documentation in the
// "pkg" package.
package main
