package pioversion

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// ErrMacroNotFound is returned when the header file exists but does not
// contain the expected version define. This is distinct from an absent
// header file, which is a silent skip.
var ErrMacroNotFound = errors.New("version define not found in header")

// WriteMarker overwrites the marker file with the version plus a trailing
// newline. It is always performed, regardless of whether any other target
// exists.
func WriteMarker(path, version string) error {
	if err := os.WriteFile(path, []byte(version+"\n"), 0644); err != nil {
		return fmt.Errorf("writing marker file: %w", err)
	}
	return nil
}

// UpdateManifest sets the top-level "version" key of the JSON manifest at
// path and rewrites it with 2-space indentation and a trailing newline.
// Key order is preserved across the load/dump cycle. Returns false with no
// error when the file is absent; malformed JSON is a fatal parse error.
func UpdateManifest(path, version string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	manifest := orderedmap.New()
	if err := json.Unmarshal(data, manifest); err != nil {
		return false, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	manifest.Set("version", version)

	out, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return false, fmt.Errorf("serializing manifest %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
		return false, fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return true, nil
}

// UpdateProperties rewrites the first line of the properties file that
// starts with the literal prefix "version=" to carry the new version. If no
// such line exists, a new one is appended as the last line. Duplicate
// version= lines beyond the first are left untouched. Returns false with no
// error when the file is absent.
func UpdateProperties(path, version string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading properties %s: %w", path, err)
	}

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	updated := false
	for i, line := range lines {
		if strings.HasPrefix(line, "version=") {
			lines[i] = "version=" + version
			updated = true
			break
		}
	}
	if !updated {
		lines = append(lines, "version="+version)
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return false, fmt.Errorf("writing properties %s: %w", path, err)
	}
	return true, nil
}

// UpdateHeader replaces the quoted value of the `#define <macro> "..."`
// directive in the header at path. An existing header without the define is
// a fatal condition and the file is left unmodified. Returns false with no
// error when the file is absent.
func UpdateHeader(path, version, macro string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading header %s: %w", path, err)
	}

	re, err := headerDefinePattern(macro)
	if err != nil {
		return false, err
	}
	if !re.Match(data) {
		return false, fmt.Errorf("%w: %s in %s", ErrMacroNotFound, macro, path)
	}

	// The version is a validated digit.digit.digit string, so it is safe to
	// splice into the replacement template.
	out := re.ReplaceAll(data, []byte(`${1}"`+version+`"`))
	if err := os.WriteFile(path, out, 0644); err != nil {
		return false, fmt.Errorf("writing header %s: %w", path, err)
	}
	return true, nil
}

// headerContainsDefine reports whether the header at path carries the
// version define. Used by dry runs to predict the fatal missing-pattern
// case without writing.
func headerContainsDefine(path, macro string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading header %s: %w", path, err)
	}
	re, err := headerDefinePattern(macro)
	if err != nil {
		return false, err
	}
	return re.Match(data), nil
}

func headerDefinePattern(macro string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(#define\s+` + regexp.QuoteMeta(macro) + `\s+)"[^"]*"`)
	if err != nil {
		return nil, fmt.Errorf("building define pattern for %s: %w", macro, err)
	}
	return re, nil
}
