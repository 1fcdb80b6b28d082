package pioversion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// MarkerFile is the single-line file at the project root holding the
// canonical current version.
const MarkerFile = "VERSION"

var (
	// ErrNoVersion is returned when no explicit version was given and the
	// marker file does not exist.
	ErrNoVersion = errors.New("no version provided and VERSION file not found")

	// ErrInvalidVersion is returned when a candidate version does not match
	// the restricted digit.digit.digit shape.
	ErrInvalidVersion = errors.New("invalid version")
)

// versionRE matches the restricted semver shape accepted by this tool:
// three dot-separated non-negative integers, nothing else. Prerelease and
// build metadata are rejected.
var versionRE = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Source describes where the applied version came from.
type Source string

const (
	SourceArgument Source = "argument"
	SourceMarker   Source = "marker"
)

// Targets enumerates the metadata files updated within a project root,
// as paths relative to it.
type Targets struct {
	Manifest   string // JSON manifest with a top-level "version" key
	Properties string // line-oriented key=value file
	Header     string // C header carrying the version define
	Macro      string // name of the version define in the header
}

// DefaultTargets returns the standard PlatformIO/Arduino library layout.
func DefaultTargets() Targets {
	return Targets{
		Manifest:   "library.json",
		Properties: "library.properties",
		Header:     filepath.Join("src", "IS31FL373x.h"),
		Macro:      "IS31FL373X_VERSION",
	}
}

// Result holds metadata about one propagation run.
type Result struct {
	Version      string   // the version that was applied
	Source       Source   // where the version came from
	Previous     string   // trimmed marker contents before the run, if any
	Downgrade    bool     // the applied version is lower than Previous
	MarkerPath   string   // path of the marker file written
	UpdatedFiles []string // target files rewritten (marker excluded)
	SkippedFiles []string // target files absent and skipped
}

// Resolve determines and validates the version to apply. A non-empty arg is
// trimmed and used as the candidate; otherwise the marker file under root is
// consulted. The candidate must fully match the digit.digit.digit shape.
func Resolve(root, arg string) (string, Source, error) {
	var (
		candidate string
		source    Source
	)
	if arg != "" {
		candidate = strings.TrimSpace(arg)
		source = SourceArgument
	} else {
		data, err := os.ReadFile(filepath.Join(root, MarkerFile))
		if err != nil {
			if os.IsNotExist(err) {
				return "", "", ErrNoVersion
			}
			return "", "", fmt.Errorf("reading marker file: %w", err)
		}
		candidate = strings.TrimSpace(string(data))
		source = SourceMarker
	}

	if !versionRE.MatchString(candidate) {
		return "", "", fmt.Errorf("%w %q: expected a semantic version like 1.0.9", ErrInvalidVersion, candidate)
	}
	return candidate, source, nil
}

// Run resolves the version, writes the marker file, and applies each
// per-format updater in a fixed order (manifest, properties, header). Target
// files that do not exist are skipped. There is no rollback: a fatal error
// in a later updater leaves earlier writes in place.
func Run(root, arg string, targets Targets) (Result, error) {
	var res Result

	version, source, err := Resolve(root, arg)
	if err != nil {
		return res, err
	}
	res.Version = version
	res.Source = source

	res.Previous, res.Downgrade = previousVersion(root, version)

	res.MarkerPath = filepath.Join(root, MarkerFile)
	if err := WriteMarker(res.MarkerPath, version); err != nil {
		return res, err
	}

	steps := []struct {
		rel    string
		update func(path string) (bool, error)
	}{
		{targets.Manifest, func(p string) (bool, error) { return UpdateManifest(p, version) }},
		{targets.Properties, func(p string) (bool, error) { return UpdateProperties(p, version) }},
		{targets.Header, func(p string) (bool, error) { return UpdateHeader(p, version, targets.Macro) }},
	}
	for _, step := range steps {
		path := filepath.Join(root, step.rel)
		wrote, err := step.update(path)
		if err != nil {
			return res, err
		}
		if wrote {
			res.UpdatedFiles = append(res.UpdatedFiles, path)
		} else {
			res.SkippedFiles = append(res.SkippedFiles, path)
		}
	}

	return res, nil
}

// DryRun resolves the version and reports which files Run would write,
// without modifying anything. The header is additionally checked for the
// version define so that a dry run predicts the fatal missing-pattern case.
func DryRun(root, arg string, targets Targets) (Result, error) {
	var res Result

	version, source, err := Resolve(root, arg)
	if err != nil {
		return res, err
	}
	res.Version = version
	res.Source = source

	res.Previous, res.Downgrade = previousVersion(root, version)
	res.MarkerPath = filepath.Join(root, MarkerFile)

	for _, rel := range []string{targets.Manifest, targets.Properties} {
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err == nil {
			res.UpdatedFiles = append(res.UpdatedFiles, path)
		} else {
			res.SkippedFiles = append(res.SkippedFiles, path)
		}
	}

	headerPath := filepath.Join(root, targets.Header)
	if _, err := os.Stat(headerPath); err == nil {
		found, err := headerContainsDefine(headerPath, targets.Macro)
		if err != nil {
			return res, err
		}
		if !found {
			return res, fmt.Errorf("%w: %s in %s", ErrMacroNotFound, targets.Macro, headerPath)
		}
		res.UpdatedFiles = append(res.UpdatedFiles, headerPath)
	} else {
		res.SkippedFiles = append(res.SkippedFiles, headerPath)
	}

	return res, nil
}

// previousVersion reads the marker file before it is overwritten and
// reports whether applying next would be a downgrade. A missing or
// malformed marker yields no previous version.
func previousVersion(root, next string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(root, MarkerFile))
	if err != nil {
		return "", false
	}
	prev := strings.TrimSpace(string(data))
	if !versionRE.MatchString(prev) {
		return prev, false
	}
	return prev, semver.Compare("v"+next, "v"+prev) < 0
}
