package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain triggers the CLI as a subprocess when GO_HELPER_PROCESS is set.
func TestMain(m *testing.M) {
	if os.Getenv("GO_HELPER_PROCESS") == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runCLI runs the CLI in helper process mode in the given directory.
func runCLI(dir string, args ...string) (string, error) {
	cmd := exec.Command(os.Args[0], args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GO_HELPER_PROCESS=1")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// writeProjectFixture lays out a project with all target files at version.
func writeProjectFixture(t *testing.T, version string) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"VERSION":            version + "\n",
		"library.json":       `{"name": "IS31FL373x", "version": "` + version + `"}`,
		"library.properties": "name=IS31FL373x\nversion=" + version + "\n",
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}

	if err := os.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatalf("failed to create src dir: %v", err)
	}
	header := `#define IS31FL373X_VERSION "` + version + `"` + "\n"
	if err := os.WriteFile(filepath.Join(root, "src", "IS31FL373x.h"), []byte(header), 0644); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}

	return root
}

func TestCLIHelp(t *testing.T) {
	out, err := runCLI(t.TempDir(), "--help")
	if err != nil {
		t.Fatalf("help failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected help output, got:\n%s", out)
	}
}

func TestCLIVersionFlag(t *testing.T) {
	out, err := runCLI(t.TempDir(), "--version")
	if err != nil {
		t.Fatalf("version flag failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("expected CLI version in output, got:\n%s", out)
	}
}

func TestCLIMissingInput(t *testing.T) {
	// No argument and no marker file is a fatal error, and nothing is
	// written.
	root := t.TempDir()

	out, err := runCLI(root)
	if err == nil {
		t.Fatalf("expected non-zero exit, got success:\n%s", out)
	}
	if !strings.Contains(out, "no version provided") {
		t.Errorf("expected missing-input error, got:\n%s", out)
	}
	if _, statErr := os.Stat(filepath.Join(root, "VERSION")); !os.IsNotExist(statErr) {
		t.Errorf("marker file should not have been written")
	}
}

func TestCLIInvalidVersion(t *testing.T) {
	for _, v := range []string{"1.2", "v1.2.3", "1.2.3-rc1"} {
		out, err := runCLI(t.TempDir(), v)
		if err == nil {
			t.Fatalf("expected non-zero exit for %q, got success:\n%s", v, out)
		}
		if !strings.Contains(out, "invalid version") {
			t.Errorf("expected validation error for %q, got:\n%s", v, out)
		}
	}
}

func TestCLIMarkerOnlyWarning(t *testing.T) {
	// No target files exist but the root is writable: the marker is
	// written, a warning is emitted, and the run still succeeds.
	root := t.TempDir()

	out, err := runCLI(root, "1.0.9")
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "no target files were updated") {
		t.Errorf("expected warning about no targets, got:\n%s", out)
	}
	if !strings.Contains(out, "Version set to 1.0.9") {
		t.Errorf("expected confirmation message, got:\n%s", out)
	}

	marker, readErr := os.ReadFile(filepath.Join(root, "VERSION"))
	if readErr != nil {
		t.Fatalf("reading marker file failed: %v", readErr)
	}
	if string(marker) != "1.0.9\n" {
		t.Errorf("marker file = %q; want %q", marker, "1.0.9\n")
	}
}

func TestCLIFullPropagation(t *testing.T) {
	root := writeProjectFixture(t, "0.0.1")

	out, err := runCLI(root, "1.0.0")
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Version set to 1.0.0") {
		t.Errorf("expected confirmation message, got:\n%s", out)
	}
	if strings.Contains(out, "no target files were updated") {
		t.Errorf("unexpected warning with all targets present:\n%s", out)
	}

	checks := map[string]string{
		"VERSION":            "1.0.0\n",
		"library.properties": "name=IS31FL373x\nversion=1.0.0\n",
	}
	for rel, want := range checks {
		got, readErr := os.ReadFile(filepath.Join(root, rel))
		if readErr != nil {
			t.Fatalf("reading %s failed: %v", rel, readErr)
		}
		if string(got) != want {
			t.Errorf("%s = %q; want %q", rel, got, want)
		}
	}

	header, readErr := os.ReadFile(filepath.Join(root, "src", "IS31FL373x.h"))
	if readErr != nil {
		t.Fatalf("reading header failed: %v", readErr)
	}
	if !strings.Contains(string(header), `#define IS31FL373X_VERSION "1.0.0"`) {
		t.Errorf("header not updated:\n%s", header)
	}

	manifest, readErr := os.ReadFile(filepath.Join(root, "library.json"))
	if readErr != nil {
		t.Fatalf("reading manifest failed: %v", readErr)
	}
	if !strings.Contains(string(manifest), `"version": "1.0.0"`) {
		t.Errorf("manifest not updated:\n%s", manifest)
	}
	if !strings.Contains(string(manifest), `"name": "IS31FL373x"`) {
		t.Errorf("manifest lost the name key:\n%s", manifest)
	}
}

func TestCLIRootFlag(t *testing.T) {
	root := writeProjectFixture(t, "0.0.1")

	// Run from an unrelated directory and point at the project with -C.
	out, err := runCLI(t.TempDir(), "-C", root, "2.0.0")
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}

	marker, readErr := os.ReadFile(filepath.Join(root, "VERSION"))
	if readErr != nil {
		t.Fatalf("reading marker file failed: %v", readErr)
	}
	if string(marker) != "2.0.0\n" {
		t.Errorf("marker file = %q; want %q", marker, "2.0.0\n")
	}
}

func TestCLIDryRun(t *testing.T) {
	root := writeProjectFixture(t, "0.0.1")

	out, err := runCLI(root, "--dry", "2.0.0")
	if err != nil {
		t.Fatalf("CLI dry run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Dry run complete") {
		t.Errorf("expected dry run message, got:\n%s", out)
	}

	// Nothing was written.
	marker, readErr := os.ReadFile(filepath.Join(root, "VERSION"))
	if readErr != nil {
		t.Fatalf("reading marker file failed: %v", readErr)
	}
	if string(marker) != "0.0.1\n" {
		t.Errorf("dry run should not rewrite the marker; got %q", marker)
	}
}

func TestCLIHeaderMissingMacro(t *testing.T) {
	root := writeProjectFixture(t, "0.0.1")
	headerPath := filepath.Join(root, "src", "IS31FL373x.h")
	if err := os.WriteFile(headerPath, []byte("#ifndef IS31FL373X_H\n#endif\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite header: %v", err)
	}

	out, err := runCLI(root, "1.0.0")
	if err == nil {
		t.Fatalf("expected non-zero exit, got success:\n%s", out)
	}
	if !strings.Contains(out, "version define not found") {
		t.Errorf("expected missing-define error, got:\n%s", out)
	}
}

func TestCLIDowngradeWarning(t *testing.T) {
	root := writeProjectFixture(t, "2.0.0")

	out, err := runCLI(root, "1.0.0")
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "lower than the current one") {
		t.Errorf("expected downgrade warning, got:\n%s", out)
	}
}
