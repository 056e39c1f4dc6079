package filter

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/goccy/go-yaml"
)

// Case is a single pattern test case from the YAML golden file.
type Case struct {
	Pattern     string `yaml:"pattern"`
	Path        string `yaml:"path"`
	Match       bool   `yaml:"match"`
	Description string `yaml:"description,omitempty"`
}

// Group is a named collection of test cases.
type Group struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

func loadGroups(t *testing.T) []Group {
	t.Helper()

	data, err := os.ReadFile("testdata/patterns.yml")
	if err != nil {
		t.Fatalf("reading testdata: %v", err)
	}

	var groups []Group
	if err := yaml.Unmarshal(data, &groups); err != nil {
		t.Fatalf("parsing testdata: %v", err)
	}

	if len(groups) == 0 {
		t.Fatal("no test groups in testdata/patterns.yml")
	}

	return groups
}

func TestPatternMatching(t *testing.T) {
	for _, group := range loadGroups(t) {
		t.Run(group.Name, func(t *testing.T) {
			for _, tc := range group.Cases {
				f, err := New([]string{tc.Pattern}, nil)
				if err != nil {
					t.Fatalf("compiling %q: %v", tc.Pattern, err)
				}

				if got := f.match(tc.Path, true); got != tc.Match {
					t.Errorf("pattern %q against %q = %v, want %v (%s)",
						tc.Pattern, tc.Path, got, tc.Match, tc.Description)
				}
			}
		})
	}
}

func TestExcludesWin(t *testing.T) {
	f, err := New([]string{"*.txt"}, []string{"secret*"})
	if err != nil {
		t.Fatalf("creating filter: %v", err)
	}

	if !f.match("notes.txt", true) {
		t.Error("notes.txt should be included")
	}

	if f.match("secret.txt", true) {
		t.Error("secret.txt should be excluded even though included")
	}
}

func TestEmptyIncludesMatchAll(t *testing.T) {
	f, err := New(nil, []string{"*.bak"})
	if err != nil {
		t.Fatalf("creating filter: %v", err)
	}

	if !f.match("anything/at/all", false) {
		t.Error("everything should match with no includes")
	}

	if f.match("old.bak", false) {
		t.Error("excludes should still apply with no includes")
	}
}

func TestInvalidPattern(t *testing.T) {
	if _, err := New([]string{"broken["}, nil); err == nil {
		t.Fatal("expected error for unterminated character class")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a.txt", "b.enc", "sub/c.txt", "sub/d.enc"} {
		path := filepath.Join(dir, name)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating dirs: %v", err)
		}

		if err := os.WriteFile(path, []byte(name), 0o600); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	files, scanned, err := Resolve([]string{dir}, []string{"*.enc"}, nil, true)
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}

	if scanned != 4 {
		t.Errorf("scanned = %d, want 4", scanned)
	}

	want := []string{filepath.Join(dir, "b.enc"), filepath.Join(dir, "sub", "d.enc")}

	slices.Sort(files)

	if !slices.Equal(files, want) {
		t.Errorf("resolved %v, want %v", files, want)
	}
}

func TestResolveFilesBypassFiltering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")

	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	// An explicitly named file is taken even though it matches no include.
	files, _, err := Resolve([]string{path}, []string{"*.enc"}, nil, true)
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}

	if len(files) != 1 || files[0] != path {
		t.Errorf("resolved %v, want [%s]", files, path)
	}
}

func TestLoadPatterns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.jsonc")

	content := `[
	// encrypted outputs
	"*.enc",
	"backup/*", // trailing comment
]`

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing pattern file: %v", err)
	}

	patterns, err := LoadPatterns(path)
	if err != nil {
		t.Fatalf("loading patterns: %v", err)
	}

	want := []string{"*.enc", "backup/*"}
	if !slices.Equal(patterns, want) {
		t.Errorf("patterns = %v, want %v", patterns, want)
	}
}
