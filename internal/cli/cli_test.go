package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/platemap/pkg/errors"
	plateio "github.com/matzehuels/platemap/pkg/io"
	"github.com/matzehuels/platemap/pkg/pipeline"
)

// runCLI executes the root command with args in an isolated environment and
// returns what was printed to the status writer.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return execCLI(t, args...)
}

// execCLI executes the root command in the current environment.
func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf, errBuf bytes.Buffer
	prevOut, prevErr := out, errOut
	out, errOut = &buf, &errBuf
	defer func() { out, errOut = prevOut, prevErr }()

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(&errBuf)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "plates/run1.json", "plates/run1"},
		{"", "plates/run1.toml", "plates/run1"},
		{"", "run1.plate.json", "run1"},
		{"", "noext", "noext"},
		{"out/plate.svg", "in.json", "out/plate"},
		{"out/plate.neato.svg", "in.json", "out/plate"},
		{"out/plate.plate.json", "in.json", "out/plate"},
		{"out/plate", "in.json", "out/plate"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	single := outputPaths("custom.out", "plate.json", []string{"svg"})
	if single["svg"] != "custom.out" {
		t.Errorf("single format should use -o verbatim: %v", single)
	}

	multi := outputPaths("", "dir/plate.json", []string{"svg", "export", "neato"})
	want := map[string]string{
		"svg":    "dir/plate.svg",
		"export": "dir/plate.plate.json",
		"neato":  "dir/plate.neato.svg",
	}
	for f, p := range want {
		if multi[f] != p {
			t.Errorf("outputPaths[%s] = %q, want %q", f, multi[f], p)
		}
	}

	if got := sortedFormats(multi); strings.Join(got, ",") != "export,neato,svg" {
		t.Errorf("sortedFormats = %v", got)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "platemap") {
		t.Errorf("cacheDir() = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", "platemap") {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"render", "inspect", "label", "view", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "plate.json", `{
		"name": "assay",
		"format": 6,
		"direction": "vertical",
		"values": [1, 2, 3, 4],
		"text": "values"
	}`)

	stdout, err := runCLI(t, "render", input, "-f", "svg,export", "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stdout, "assay") {
		t.Errorf("status output should name the plate:\n%s", stdout)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "plate.svg"))
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !bytes.Contains(svg, []byte(`id="well-B1"`)) {
		t.Error("svg should contain well B1")
	}

	export, err := os.ReadFile(filepath.Join(dir, "plate.plate.json"))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	// Vertical fill on 2x3: position 1 is B1.
	if !bytes.Contains(export, []byte(`"B1"`)) {
		t.Errorf("export should be label-keyed:\n%s", export)
	}
}

func TestRenderCommandSingleOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "plate.toml", "format = 96\n\n[wells.A1]\nvalue = 1.5\n")
	output := filepath.Join(dir, "nested", "out.dot")

	if _, err := runCLI(t, "render", input, "-f", "dot", "-o", output, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("graph plate")) {
		t.Errorf("dot output = %.40s", data)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	dup := writeFile(t, dir, "dup.json", `{"format": 96, "wells": {"A1": {}, "a01": {}}}`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"bad extension", []string{"render", filepath.Join(dir, "plate.yaml")}, errors.ErrCodeInvalidFormat},
		{"duplicate wells", []string{"render", dup, "--no-cache"}, errors.ErrCodeDuplicateWellLabel},
		{"bad format", []string{"render", dup, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad colorscale", []string{"render", dup, "--colorscale", "rainbow"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommandUsesCache(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "plate.json", `{"format": 6, "values": [1, 2]}`)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	first, err := execCLI(t, "render", input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(first, iconFresh) {
		t.Errorf("first render should be fresh:\n%s", first)
	}

	second, err := execCLI(t, "render", input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(second, iconCached) {
		t.Errorf("second render should be cached:\n%s", second)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "plate.json", `{"format": 6, "values": [1, 2]}`)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	_, l, err := plateio.Load(input)
	if err != nil {
		t.Fatal(err)
	}
	hash, err := pipeline.PlateHash(l)
	if err != nil {
		t.Fatal(err)
	}

	empty, err := execCLI(t, "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	if !strings.Contains(empty, "Cache is empty") {
		t.Errorf("cache list before render:\n%s", empty)
	}

	if _, err := execCLI(t, "render", input, "-f", "svg,dot"); err != nil {
		t.Fatalf("render: %v", err)
	}
	listed, err := execCLI(t, "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	for _, want := range []string{hash[:12], "plate", "svg", "dot"} {
		if !strings.Contains(listed, want) {
			t.Errorf("cache list missing %q:\n%s", want, listed)
		}
	}

	path, err := execCLI(t, "cache", "path", hash)
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(cacheHome, "platemap", hash[:2], hash); strings.TrimSpace(path) != want {
		t.Errorf("cache path = %q, want %q", path, want)
	}

	cleared, err := execCLI(t, "cache", "clear", hash)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(cleared, "Removed 3 entries") {
		t.Errorf("cache clear output:\n%s", cleared)
	}
	if _, err := execCLI(t, "cache", "clear", "nope"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("cache clear with a bad hash: %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "plate.json", `{"rows": 2, "columns": 2, "wells": {"b2": {"value": 7, "text": "ctrl"}}}`)

	stdout, err := runCLI(t, "inspect", input)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"B2", "ctrl", "2×2"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "A1") {
		t.Error("empty wells are listed only with --all")
	}

	stdout, err = runCLI(t, "inspect", input, "--all")
	if err != nil {
		t.Fatalf("inspect --all: %v", err)
	}
	if !strings.Contains(stdout, "A1") {
		t.Error("--all should list A1")
	}
}

func TestInspectLabels(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "plate.json", `{"rows": 2, "columns": 2, "wells": {"b2": {"value": 7, "text": "ctrl"}}}`)

	stdout, err := runCLI(t, "inspect", input, "b02", "B2", "a1")
	if err != nil {
		t.Fatalf("inspect labels: %v", err)
	}
	if n := strings.Count(stdout, "B2"); n != 1 {
		t.Errorf("B2 listed %d times, want once:\n%s", n, stdout)
	}
	if !strings.Contains(stdout, "A1") || !strings.Contains(stdout, "ctrl") {
		t.Errorf("inspect labels output:\n%s", stdout)
	}

	if _, err := runCLI(t, "inspect", input, "C1"); !errors.Is(err, errors.ErrCodeCoordinateOutOfRange) {
		t.Errorf("inspect C1 error = %v", err)
	}
	if _, err := runCLI(t, "inspect", input, "1A"); !errors.Is(err, errors.ErrCodeInvalidLabelFormat) {
		t.Errorf("inspect 1A error = %v", err)
	}
}

func TestInspectExport(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "plate.json", `{"rows": 1, "columns": 3, "values": [1, 2], "direction": "vertical"}`)

	stdout, err := runCLI(t, "inspect", input, "--export", "--toml")
	if err != nil {
		t.Fatalf("inspect --export --toml: %v", err)
	}
	if !strings.Contains(stdout, "[wells.A2]") {
		t.Errorf("TOML export missing A2:\n%s", stdout)
	}

	output := filepath.Join(dir, "out.toml")
	if _, err := runCLI(t, "inspect", input, "-o", output); err != nil {
		t.Fatalf("inspect -o: %v", err)
	}
	def, l, err := plateio.Load(output)
	if err != nil {
		t.Fatalf("reload export: %v", err)
	}
	if !def.IsLabelKeyed() || l.Len() != 2 {
		t.Errorf("reloaded export: labelKeyed=%v len=%d", def.IsLabelKeyed(), l.Len())
	}

	if _, err := runCLI(t, "inspect", input, "-o", filepath.Join(dir, "out.yaml")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad export extension error = %v", err)
	}
}
