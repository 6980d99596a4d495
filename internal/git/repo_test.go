package git

import (
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestOpenMissingRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	if err == nil {
		t.Fatalf("expected attach failure for a directory without a repository")
	}
	var attachErr *AttachError
	if !errors.As(err, &attachErr) {
		t.Fatalf("expected *AttachError, got %T: %v", err, err)
	}
}

func TestEmptyRepository(t *testing.T) {
	f := newFixture(t)
	repo := f.open()

	empty, err := repo.IsEmpty()
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Fatalf("freshly initialized repository should be empty")
	}
	ref, ok, err := repo.Head()
	if err != nil {
		t.Fatalf("Head on empty repository should not error, got %v", err)
	}
	if ok || ref != nil {
		t.Fatalf("Head on empty repository should report no object, got %v", ref)
	}
}

func TestHeadPeelsToCommit(t *testing.T) {
	f := newFixture(t)
	hash := f.commit("initial", map[string]string{"a.txt": "a\n"})
	repo := f.open()

	empty, err := repo.IsEmpty()
	if err != nil || empty {
		t.Fatalf("repository with a commit should not be empty (err=%v)", err)
	}
	ref, ok, err := repo.Head()
	if err != nil || !ok {
		t.Fatalf("Head: ok=%v err=%v", ok, err)
	}
	if ref.Kind != RefBranch {
		t.Fatalf("HEAD should resolve to a branch, got %s", ref.Kind)
	}
	peeled, err := repo.Peel(ref)
	if err != nil {
		t.Fatalf("peel HEAD: %v", err)
	}
	commit, isCommit := peeled.(*Commit)
	if !isCommit {
		t.Fatalf("peeled HEAD should be a commit, got %T", peeled)
	}
	if commit.OID() != hash {
		t.Fatalf("peeled commit oid = %s, want %s", commit.OID(), hash)
	}
}

func TestObjectCarriesLookupOID(t *testing.T) {
	f := newFixture(t)
	hash := f.commit("initial", map[string]string{"a.txt": "a\n"})
	repo := f.open()

	commitObj, err := repo.Object(hash)
	if err != nil {
		t.Fatalf("Object(%s): %v", hash, err)
	}
	if commitObj.OID() != hash {
		t.Fatalf("object oid = %s, want %s", commitObj.OID(), hash)
	}
	commit := commitObj.(*Commit)
	tree, err := repo.Tree(commit)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	treeObj, err := repo.Object(tree.OID())
	if err != nil {
		t.Fatalf("Object(tree): %v", err)
	}
	if _, isTree := treeObj.(*Tree); !isTree {
		t.Fatalf("expected *Tree, got %T", treeObj)
	}
	if treeObj.OID() != tree.OID() {
		t.Fatalf("tree oid = %s, want %s", treeObj.OID(), tree.OID())
	}
}

func TestObjectNotFound(t *testing.T) {
	f := newFixture(t)
	f.commit("initial", map[string]string{"a.txt": "a\n"})
	repo := f.open()

	_, err := repo.Object(plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReferenceShorthandMatchesFullPath(t *testing.T) {
	f := newFixture(t)
	f.commit("initial", map[string]string{"a.txt": "a\n"})
	repo := f.open()

	full, ok, err := repo.Reference("refs/heads/master")
	if err != nil || !ok {
		t.Fatalf("full lookup: ok=%v err=%v", ok, err)
	}
	short, ok, err := repo.Reference("master")
	if err != nil || !ok {
		t.Fatalf("shorthand lookup: ok=%v err=%v", ok, err)
	}
	if full.OID() != short.OID() {
		t.Fatalf("shorthand oid %s != full path oid %s", short.OID(), full.OID())
	}
	if short.Name != "master" || short.Prefix != "refs/heads/" || short.Kind != RefBranch {
		t.Fatalf("unexpected reference shape: %+v", short)
	}
}

func TestReferenceMissingIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.commit("initial", map[string]string{"a.txt": "a\n"})
	repo := f.open()

	ref, ok, err := repo.Reference("does-not-exist")
	if err != nil {
		t.Fatalf("missing reference should not error, got %v", err)
	}
	if ok || ref != nil {
		t.Fatalf("missing reference should report no object, got %v", ref)
	}
}

func TestReferenceKindUnknownPrefix(t *testing.T) {
	f := newFixture(t)
	hash := f.commit("initial", map[string]string{"a.txt": "a\n"})
	if err := f.repo.Storer.SetReference(plumbing.NewHashReference("refs/custom/thing", hash)); err != nil {
		t.Fatalf("set custom reference: %v", err)
	}
	repo := f.open()

	ref, ok, err := repo.Reference("refs/custom/thing")
	if err != nil || !ok {
		t.Fatalf("lookup custom reference: ok=%v err=%v", ok, err)
	}
	if ref.Kind != RefUnknown {
		t.Fatalf("custom prefix should be unknown kind, got %s", ref.Kind)
	}
	if _, err := repo.ReferenceKind(ref); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestBranchesAndTags(t *testing.T) {
	f := newFixture(t)
	hash := f.commit("initial", map[string]string{"a.txt": "a\n"})
	f.branch("feature", hash)
	f.lightweightTag("v1.0", hash)
	repo := f.open()

	branches, err := repo.Branches()
	if err != nil {
		t.Fatalf("Branches: %v", err)
	}
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(branches))
	}
	for _, branch := range branches {
		if branch.Kind != RefBranch {
			t.Fatalf("branch %s has kind %s", branch.Name, branch.Kind)
		}
	}
	tags, err := repo.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "v1.0" || tags[0].Kind != RefTag {
		t.Fatalf("unexpected tags: %+v", tags)
	}
	branch, ok, err := repo.Branch("feature")
	if err != nil || !ok {
		t.Fatalf("Branch(feature): ok=%v err=%v", ok, err)
	}
	if branch.OID() != hash {
		t.Fatalf("branch oid = %s, want %s", branch.OID(), hash)
	}
	if _, ok, _ := repo.Branch("missing"); ok {
		t.Fatalf("missing branch should report no object")
	}
}

func TestReferencesGlob(t *testing.T) {
	f := newFixture(t)
	hash := f.commit("initial", map[string]string{"a.txt": "a\n"})
	f.branch("feature", hash)
	f.lightweightTag("v1.0", hash)
	repo := f.open()

	all, err := repo.References("")
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 references, got %d", len(all))
	}
	tagsOnly, err := repo.References("refs/tags/*")
	if err != nil {
		t.Fatalf("References(refs/tags/*): %v", err)
	}
	if len(tagsOnly) != 1 || tagsOnly[0].Kind != RefTag {
		t.Fatalf("unexpected glob result: %+v", tagsOnly)
	}
}

func TestAnnotatedTag(t *testing.T) {
	f := newFixture(t)
	commitHash := f.commit("initial", map[string]string{"a.txt": "a\n"})
	tagHash := f.annotatedTag("v2.0", commitHash, "release v2.0\n")
	repo := f.open()

	obj, err := repo.Object(tagHash)
	if err != nil {
		t.Fatalf("Object(tag): %v", err)
	}
	tag, isTag := obj.(*Tag)
	if !isTag {
		t.Fatalf("expected *Tag, got %T", obj)
	}
	if tag.Name != "v2.0" {
		t.Fatalf("tag name = %q, want v2.0", tag.Name)
	}
	author, err := repo.TagAuthor(tag)
	if err != nil {
		t.Fatalf("TagAuthor: %v", err)
	}
	if author.Name != "Alice" || author.Email != "alice@example.com" {
		t.Fatalf("unexpected tag author: %+v", author)
	}
	message, err := repo.TagMessage(tag)
	if err != nil || message != "release v2.0\n" {
		t.Fatalf("TagMessage = %q err=%v", message, err)
	}
	peeled, err := repo.Peel(tag)
	if err != nil {
		t.Fatalf("peel tag: %v", err)
	}
	if peeled.OID() != commitHash {
		t.Fatalf("peeled tag oid = %s, want %s", peeled.OID(), commitHash)
	}
}

func TestRevision(t *testing.T) {
	f := newFixture(t)
	first := f.commit("first", map[string]string{"a.txt": "a\n"})
	second := f.commit("second", map[string]string{"a.txt": "b\n"})
	repo := f.open()

	obj, err := repo.Revision("HEAD")
	if err != nil {
		t.Fatalf("Revision(HEAD): %v", err)
	}
	if obj.OID() != second {
		t.Fatalf("HEAD = %s, want %s", obj.OID(), second)
	}
	parent, err := repo.Revision("HEAD~1")
	if err != nil {
		t.Fatalf("Revision(HEAD~1): %v", err)
	}
	if parent.OID() != first {
		t.Fatalf("HEAD~1 = %s, want %s", parent.OID(), first)
	}
	if _, err := repo.Revision("no-such-rev"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad revision, got %v", err)
	}
}

func TestCommitAccessors(t *testing.T) {
	f := newFixture(t)
	first := f.commit("first", map[string]string{"a.txt": "a\n"})
	second := f.commit("second\n\nbody\n", map[string]string{"a.txt": "b\n"})
	repo := f.open()

	commit := mustCommit(t, repo, second)
	parents, err := repo.CommitParents(commit)
	if err != nil {
		t.Fatalf("CommitParents: %v", err)
	}
	if len(parents) != 1 || parents[0].OID() != first {
		t.Fatalf("unexpected parents: %+v", parents)
	}
	author, err := repo.CommitAuthor(commit)
	if err != nil {
		t.Fatalf("CommitAuthor: %v", err)
	}
	want := time.Date(2024, 5, 1, 12, 2, 0, 0, time.UTC)
	if author.Name != "Alice" || !author.When.Equal(want) {
		t.Fatalf("unexpected author: %+v", author)
	}
	if _, offset := author.When.Zone(); offset != 0 {
		t.Fatalf("author timestamp should be UTC, got offset %d", offset)
	}
	committer, err := repo.CommitCommitter(commit)
	if err != nil || committer.Email != "alice@example.com" {
		t.Fatalf("CommitCommitter = %+v err=%v", committer, err)
	}
	message, err := repo.CommitMessage(commit)
	if err != nil || message != "second\n\nbody\n" {
		t.Fatalf("CommitMessage = %q err=%v", message, err)
	}
	ts, err := repo.CommitTimestamp(commit)
	if err != nil {
		t.Fatalf("CommitTimestamp: %v", err)
	}
	if !ts.Equal(committer.When) {
		t.Fatalf("timestamp %s should equal committer time %s", ts, committer.When)
	}
	if _, err := repo.CommitSignature(commit); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unsigned commit signature should be ErrNotFound, got %v", err)
	}
}

// A signature whose year cannot be represented must surface as a
// TranslationError instead of a mangled timestamp.
func TestSignatureYearOutOfRange(t *testing.T) {
	f := newFixture(t)
	f.commit("a", map[string]string{"x.txt": "1\n"})
	repo := f.open()

	sig := object.Signature{
		Name:  "Alice",
		Email: "alice@example.com",
		When:  time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	bad := &Commit{commit: &object.Commit{Author: sig, Committer: sig}}

	var translationErr *TranslationError
	if _, err := repo.CommitAuthor(bad); !errors.As(err, &translationErr) {
		t.Fatalf("CommitAuthor with year 10000 = %v, want *TranslationError", err)
	}
	if _, err := repo.CommitCommitter(bad); !errors.As(err, &translationErr) {
		t.Fatalf("CommitCommitter with year 10000 = %v, want *TranslationError", err)
	}
	if _, err := repo.CommitTimestamp(bad); !errors.As(err, &translationErr) {
		t.Fatalf("CommitTimestamp with year 10000 = %v, want *TranslationError", err)
	}
}

func TestTreeEntries(t *testing.T) {
	f := newFixture(t)
	hash := f.commit("initial", map[string]string{
		"a.txt":     "a\n",
		"dir/b.txt": "b\n",
	})
	repo := f.open()

	commit := mustCommit(t, repo, hash)
	tree, err := repo.Tree(commit)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	entries, err := repo.TreeEntries(tree)
	if err != nil {
		t.Fatalf("TreeEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	byName := map[string]*TreeEntry{}
	for _, entry := range entries {
		byName[entry.Name] = entry
	}
	if entry := byName["a.txt"]; entry == nil || entry.Kind != EntryBlob {
		t.Fatalf("a.txt entry missing or wrong kind: %+v", entry)
	}
	if entry := byName["dir"]; entry == nil || entry.Kind != EntryTree {
		t.Fatalf("dir entry missing or wrong kind: %+v", entry)
	}

	nested, err := repo.TreeEntryByPath(tree, "dir/b.txt")
	if err != nil {
		t.Fatalf("TreeEntryByPath: %v", err)
	}
	if nested.Name != "b.txt" || nested.Kind != EntryBlob {
		t.Fatalf("unexpected nested entry: %+v", nested)
	}
	byOID, err := repo.TreeEntryByOID(tree, byName["a.txt"].OID())
	if err != nil || byOID.Name != "a.txt" {
		t.Fatalf("TreeEntryByOID = %+v err=%v", byOID, err)
	}
	if _, err := repo.TreeEntryByPath(tree, "missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	target, err := repo.TreeEntryTarget(nested)
	if err != nil {
		t.Fatalf("TreeEntryTarget: %v", err)
	}
	blob, isBlob := target.(*Blob)
	if !isBlob {
		t.Fatalf("expected *Blob target, got %T", target)
	}
	content, err := repo.BlobContent(blob)
	if err != nil || string(content) != "b\n" {
		t.Fatalf("BlobContent = %q err=%v", content, err)
	}
	size, err := repo.BlobSize(blob)
	if err != nil || size != 2 {
		t.Fatalf("BlobSize = %d err=%v", size, err)
	}
}

func mustCommit(t *testing.T, repo *Repository, oid OID) *Commit {
	t.Helper()
	obj, err := repo.Object(oid)
	if err != nil {
		t.Fatalf("Object(%s): %v", oid, err)
	}
	commit, ok := obj.(*Commit)
	if !ok {
		t.Fatalf("expected commit at %s, got %T", oid, obj)
	}
	return commit
}
