// Package pioversion propagates a semantic version string across the
// metadata files of a PlatformIO/Arduino library project.
//
// It provides functionalities for:
//   - Resolving a version from an explicit argument or from the VERSION
//     marker file at the project root, validated against the restricted
//     digit.digit.digit shape (no prerelease or build metadata).
//   - Rewriting the marker file, the JSON manifest (library.json), the
//     properties file (library.properties), and the version define in the
//     C header, each with a format-specific update rule.
//   - Reporting which files were written and which were skipped because
//     they do not exist, plus a dry-run mode that predicts the outcome
//     without writing.
//
// Each updater is an independent function with the signature
// (path, version) -> (wrote bool, err error). A false result means the file
// is absent, which is a skip rather than an error. Malformed manifest JSON
// and a header missing its version define are fatal.
//
// This package is designed to be used both via the provided CLI (the root
// main package) and as a programmatic API.
//
// Usage Example:
//
//	res, err := pioversion.Run(".", "1.2.3", pioversion.DefaultTargets())
//	if err != nil {
//	    log.Fatalf("version propagation failed: %v", err)
//	}
//	log.Printf("version set to %s", res.Version)
package pioversion
