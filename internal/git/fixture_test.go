package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// fixture builds throwaway repositories through the native engine so tests
// never shell out to a git binary.
type fixture struct {
	t     *testing.T
	dir   string
	repo  *gitlib.Repository
	wt    *gitlib.Worktree
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	return &fixture{
		t:     t,
		dir:   dir,
		repo:  repo,
		wt:    wt,
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) open() *Repository {
	f.t.Helper()
	repo, err := Open(f.dir)
	if err != nil {
		f.t.Fatalf("open repository: %v", err)
	}
	return repo
}

func (f *fixture) write(name, content string) {
	f.t.Helper()
	path := filepath.Join(f.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		f.t.Fatalf("write %s: %v", name, err)
	}
	if _, err := f.wt.Add(name); err != nil {
		f.t.Fatalf("add %s: %v", name, err)
	}
}

// commit writes the given files, stages them, and commits with a clock that
// advances one minute per commit so time ordering is deterministic.
func (f *fixture) commit(message string, files map[string]string, parents ...plumbing.Hash) plumbing.Hash {
	f.t.Helper()
	for name, content := range files {
		f.write(name, content)
	}
	f.clock = f.clock.Add(time.Minute)
	sig := &object.Signature{Name: "Alice", Email: "alice@example.com", When: f.clock}
	opts := &gitlib.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true}
	if len(parents) > 0 {
		opts.Parents = parents
	}
	hash, err := f.wt.Commit(message, opts)
	if err != nil {
		f.t.Fatalf("commit %q: %v", message, err)
	}
	return hash
}

func (f *fixture) branch(name string, hash plumbing.Hash) {
	f.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	if err := f.repo.Storer.SetReference(ref); err != nil {
		f.t.Fatalf("create branch %s: %v", name, err)
	}
}

func (f *fixture) lightweightTag(name string, hash plumbing.Hash) {
	f.t.Helper()
	if _, err := f.repo.CreateTag(name, hash, nil); err != nil {
		f.t.Fatalf("create tag %s: %v", name, err)
	}
}

func (f *fixture) annotatedTag(name string, hash plumbing.Hash, message string) plumbing.Hash {
	f.t.Helper()
	f.clock = f.clock.Add(time.Minute)
	ref, err := f.repo.CreateTag(name, hash, &gitlib.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Alice", Email: "alice@example.com", When: f.clock},
		Message: message,
	})
	if err != nil {
		f.t.Fatalf("create annotated tag %s: %v", name, err)
	}
	return ref.Hash()
}
