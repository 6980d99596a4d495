package git

import (
	"io"
	"testing"
)

func TestPathspecMatch(t *testing.T) {
	tests := []struct {
		name     string
		pathspec Pathspec
		path     string
		want     bool
	}{
		{"exact file", Pathspec{"x.txt"}, "x.txt", true},
		{"other file", Pathspec{"x.txt"}, "y.txt", false},
		{"directory prefix", Pathspec{"docs"}, "docs/intro.md", true},
		{"directory prefix with slash", Pathspec{"docs/"}, "docs/intro.md", true},
		{"directory prefix no match", Pathspec{"docs"}, "src/main.go", false},
		{"glob extension", Pathspec{"*.go"}, "main.go", true},
		{"glob extension nested", Pathspec{"*.go"}, "internal/app/main.go", true},
		{"glob no match", Pathspec{"*.go"}, "README.md", false},
		{"nested glob", Pathspec{"docs/*"}, "docs/guide/intro.md", true},
		{"nested glob deep", Pathspec{"docs/*"}, "docs/a/b/intro.md", true},
		{"nested glob direct child", Pathspec{"docs/*"}, "docs/intro.md", true},
		{"nested glob wrong directory", Pathspec{"docs/*"}, "src/intro.md", false},
		{"multiple patterns", Pathspec{"a.txt", "b.txt"}, "b.txt", true},
		{"empty pathspec", Pathspec{}, "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pathspec.Match(tt.path); got != tt.want {
				t.Fatalf("Match(%q) with %v = %v, want %v", tt.path, tt.pathspec, got, tt.want)
			}
		})
	}
}

// A ← B ← C where B changes x.txt and C only touches y.txt: filtering by
// x.txt keeps exactly B. A is excluded despite introducing x.txt, because an
// initial commit has no parent to diff against.
func TestHistoryPathspecScenario(t *testing.T) {
	f := newFixture(t)
	f.commit("a", map[string]string{"x.txt": "1\n", "y.txt": "1\n"})
	b := f.commit("b", map[string]string{"x.txt": "2\n"})
	c := f.commit("c", map[string]string{"y.txt": "2\n"})
	repo := f.open()

	walker, err := NewWalker(repo, []OID{c}, SortTime, Pathspec{"x.txt"})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}
	got := drainWalker(t, walker)
	if len(got) != 1 || got[0] != b {
		t.Fatalf("filtered walk = %v, want [%s]", got, b)
	}
}

// A directory glob must keep commits that only touch files nested below
// the named directory.
func TestHistoryDirectoryGlob(t *testing.T) {
	f := newFixture(t)
	f.commit("a", map[string]string{"docs/guide/intro.md": "1\n", "src/main.go": "1\n"})
	b := f.commit("b", map[string]string{"docs/guide/intro.md": "2\n"})
	c := f.commit("c", map[string]string{"src/main.go": "2\n"})
	repo := f.open()

	walker, err := NewWalker(repo, []OID{c}, SortTime, Pathspec{"docs/*"})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}
	got := drainWalker(t, walker)
	if len(got) != 1 || got[0] != b {
		t.Fatalf("filtered walk = %v, want [%s]", got, b)
	}
}

func TestPathspecFilterExcludesUntouchedPaths(t *testing.T) {
	f := newFixture(t)
	f.commit("a", map[string]string{"x.txt": "1\n"})
	head := f.commit("b", map[string]string{"x.txt": "2\n"})
	repo := f.open()

	walker, err := NewWalker(repo, []OID{head}, SortTime, Pathspec{"absent.txt"})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}
	if _, err := walker.Next(); err != io.EOF {
		t.Fatalf("pathspec over absent path should filter everything, got %v", err)
	}
}
