package git

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Repository is the owned handle to an open native repository. Every object
// model value it produces borrows this handle's lifetime. Repository performs
// no internal serialization; concurrent callers must go through an isolated
// agent or serialize access themselves.
type Repository struct {
	repo *gitlib.Repository
	path string
}

// Open attaches to the repository at repoPath. Failure is fatal to the
// caller's agent and is reported as an AttachError.
func Open(repoPath string) (*Repository, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, &AttachError{Path: repoPath, Err: err}
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &AttachError{Path: abs, Err: err}
	}
	return &Repository{repo: repo, path: abs}, nil
}

func (r *Repository) Path() string { return r.path }

// IsEmpty reports whether HEAD points at an unborn branch.
func (r *Repository) IsEmpty() (bool, error) {
	_, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("resolve HEAD: %w", err)
	}
	return false, nil
}

// Head returns the reference HEAD resolves to. On an empty repository it
// returns ok=false without an error.
func (r *Repository) Head() (*Reference, bool, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("resolve HEAD: %w", err)
	}
	return newReference(ref), true, nil
}

func (r *Repository) Branches() ([]*Reference, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer iter.Close()
	return drainRefs(iter, "")
}

func (r *Repository) Branch(name string) (*Reference, bool, error) {
	return r.lookupRef(plumbing.NewBranchReferenceName(name))
}

func (r *Repository) Tags() ([]*Reference, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()
	return drainRefs(iter, "")
}

func (r *Repository) Tag(name string) (*Reference, bool, error) {
	return r.lookupRef(plumbing.NewTagReferenceName(name))
}

// TagAuthor returns the tagger of an annotated tag.
func (r *Repository) TagAuthor(tag *Tag) (*Signature, error) {
	return newSignature(tag.tag.Tagger, "tag author")
}

func (r *Repository) TagMessage(tag *Tag) (string, error) {
	return tag.tag.Message, nil
}

// References lists all hash references, optionally restricted by a glob
// pattern matched against the full or shorthand name.
func (r *Repository) References(glob string) ([]*Reference, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()
	return drainRefs(iter, glob)
}

// Reference resolves a reference by full path or by shorthand
// (did-what-I-mean: refs/<name>, refs/tags/<name>, refs/heads/<name>,
// refs/remotes/<name>). A missing reference is ok=false, not an error.
func (r *Repository) Reference(name string) (*Reference, bool, error) {
	candidates := []plumbing.ReferenceName{plumbing.ReferenceName(name)}
	if !strings.HasPrefix(name, "refs/") && name != "HEAD" {
		candidates = append(candidates,
			plumbing.ReferenceName("refs/"+name),
			plumbing.NewTagReferenceName(name),
			plumbing.NewBranchReferenceName(name),
			plumbing.NewRemoteHEADReferenceName(name),
		)
	}
	for _, candidate := range candidates {
		ref, ok, err := r.lookupRef(candidate)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return ref, true, nil
		}
	}
	return nil, false, nil
}

// ReferenceKind reports the kind derived from the reference prefix, failing
// with ErrInvalidReference when the prefix maps to no known kind.
func (r *Repository) ReferenceKind(ref *Reference) (RefKind, error) {
	if ref.Kind == RefUnknown {
		return RefUnknown, fmt.Errorf("%s: %w", ref.FullName(), ErrInvalidReference)
	}
	return ref.Kind, nil
}

func (r *Repository) lookupRef(name plumbing.ReferenceName) (*Reference, bool, error) {
	ref, err := r.repo.Reference(name, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("resolve %s: %w", name, err)
	}
	// Resolution follows symbolic references but reports the name asked for.
	resolved := plumbing.NewHashReference(name, ref.Hash())
	return newReference(resolved), true, nil
}

// Object looks up any object by oid and returns its typed object model value.
func (r *Repository) Object(oid OID) (Object, error) {
	obj, err := r.repo.Object(plumbing.AnyObject, oid)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("object %s: %w", oid, ErrNotFound)
		}
		return nil, fmt.Errorf("lookup %s: %w", oid, err)
	}
	return r.wrapObject(obj)
}

// Revision resolves a revision spec (e.g. "HEAD~2", "main^{tree}") to the
// object it names.
func (r *Repository) Revision(spec string) (Object, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(spec))
	if err != nil {
		return nil, fmt.Errorf("revision %q: %w", spec, ErrNotFound)
	}
	return r.Object(*hash)
}

func (r *Repository) CommitParents(commit *Commit) ([]*Commit, error) {
	parents := make([]*Commit, 0, len(commit.commit.ParentHashes))
	for _, hash := range commit.commit.ParentHashes {
		parent, err := r.lookupCommit(hash)
		if err != nil {
			return nil, err
		}
		parents = append(parents, parent)
	}
	return parents, nil
}

func (r *Repository) CommitAuthor(commit *Commit) (*Signature, error) {
	return newSignature(commit.commit.Author, "commit author")
}

func (r *Repository) CommitCommitter(commit *Commit) (*Signature, error) {
	return newSignature(commit.commit.Committer, "commit committer")
}

func (r *Repository) CommitMessage(commit *Commit) (string, error) {
	return commit.commit.Message, nil
}

// CommitTimestamp returns the committer timestamp in UTC.
func (r *Repository) CommitTimestamp(commit *Commit) (time.Time, error) {
	sig, err := newSignature(commit.commit.Committer, "commit timestamp")
	if err != nil {
		return time.Time{}, err
	}
	return sig.When, nil
}

// CommitSignature returns the raw GPG signature attached to a commit, or
// ErrNotFound for unsigned commits.
func (r *Repository) CommitSignature(commit *Commit) (string, error) {
	if commit.commit.PGPSignature == "" {
		return "", fmt.Errorf("commit %s signature: %w", commit.oid, ErrNotFound)
	}
	return commit.commit.PGPSignature, nil
}

func (r *Repository) BlobContent(blob *Blob) ([]byte, error) {
	reader, err := blob.blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("blob %s: %w", blob.oid, err)
	}
	defer reader.Close()
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", blob.oid, err)
	}
	return content, nil
}

func (r *Repository) BlobSize(blob *Blob) (int64, error) {
	return blob.blob.Size, nil
}

// Tree resolves any object down to a tree: commits peel to their root tree,
// tags peel recursively through their target.
func (r *Repository) Tree(obj Object) (*Tree, error) {
	return r.peelToTree(obj)
}

// TreeEntries returns the immediate entries of a tree in native order.
func (r *Repository) TreeEntries(tree *Tree) ([]*TreeEntry, error) {
	entries := make([]*TreeEntry, 0, len(tree.tree.Entries))
	for _, entry := range tree.tree.Entries {
		entries = append(entries, newTreeEntry(entry))
	}
	return entries, nil
}

func (r *Repository) TreeEntryByOID(tree *Tree, oid OID) (*TreeEntry, error) {
	for _, entry := range tree.tree.Entries {
		if entry.Hash == oid {
			return newTreeEntry(entry), nil
		}
	}
	return nil, fmt.Errorf("tree entry %s: %w", oid, ErrNotFound)
}

func (r *Repository) TreeEntryByPath(tree *Tree, entryPath string) (*TreeEntry, error) {
	entry, err := tree.tree.FindEntry(entryPath)
	if err != nil {
		return nil, fmt.Errorf("tree entry %q: %w", entryPath, ErrNotFound)
	}
	return newTreeEntry(*entry), nil
}

// TreeEntryTarget looks up the object a tree entry points at.
func (r *Repository) TreeEntryTarget(entry *TreeEntry) (Object, error) {
	return r.Object(entry.oid)
}

// Peel resolves an indirect value (reference, tag) down to the object it
// ultimately points at. Commits, trees, and blobs peel to themselves.
func (r *Repository) Peel(v Object) (Object, error) {
	switch obj := v.(type) {
	case *Reference:
		target, err := r.Object(obj.oid)
		if err != nil {
			return nil, err
		}
		return r.Peel(target)
	case *Tag:
		target, err := r.Object(obj.tag.Target)
		if err != nil {
			return nil, err
		}
		return r.Peel(target)
	default:
		return v, nil
	}
}

func (r *Repository) lookupCommit(oid OID) (*Commit, error) {
	commit, err := r.repo.CommitObject(oid)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("commit %s: %w", oid, ErrNotFound)
		}
		return nil, fmt.Errorf("lookup commit %s: %w", oid, err)
	}
	return &Commit{oid: oid, commit: commit}, nil
}

func (r *Repository) lookupTree(oid OID) (*Tree, error) {
	tree, err := r.repo.TreeObject(oid)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("tree %s: %w", oid, ErrNotFound)
		}
		return nil, fmt.Errorf("lookup tree %s: %w", oid, err)
	}
	return &Tree{oid: oid, tree: tree}, nil
}

// peelToTree maps any object model value to the tree backing it.
func (r *Repository) peelToTree(v Object) (*Tree, error) {
	switch obj := v.(type) {
	case *Tree:
		return obj, nil
	case *Commit:
		return r.lookupTree(obj.commit.TreeHash)
	case *Tag, *Reference:
		peeled, err := r.Peel(obj)
		if err != nil {
			return nil, err
		}
		return r.peelToTree(peeled)
	default:
		return nil, fmt.Errorf("cannot peel %T to tree", v)
	}
}

func (r *Repository) wrapObject(obj object.Object) (Object, error) {
	switch native := obj.(type) {
	case *object.Commit:
		return &Commit{oid: native.Hash, commit: native}, nil
	case *object.Tree:
		return &Tree{oid: native.Hash, tree: native}, nil
	case *object.Blob:
		return &Blob{oid: native.Hash, blob: native}, nil
	case *object.Tag:
		return &Tag{oid: native.Hash, Name: native.Name, tag: native}, nil
	default:
		return nil, fmt.Errorf("object %s: unsupported kind %s", obj.ID(), obj.Type())
	}
}

func newReference(ref *plumbing.Reference) *Reference {
	full := ref.Name().String()
	short := ref.Name().Short()
	prefix := strings.TrimSuffix(full, short)
	kind := RefUnknown
	switch prefix {
	case "refs/heads/":
		kind = RefBranch
	case "refs/tags/":
		kind = RefTag
	}
	return &Reference{oid: ref.Hash(), Name: short, Prefix: prefix, Kind: kind}
}

func newTreeEntry(entry object.TreeEntry) *TreeEntry {
	return &TreeEntry{
		Mode: entry.Mode,
		Kind: entryKind(entry.Mode),
		oid:  entry.Hash,
		Name: entry.Name,
	}
}

// newSignature converts a native signature, failing explicitly when the
// recorded epoch cannot be represented as a calendar timestamp.
func newSignature(sig object.Signature, field string) (*Signature, error) {
	when := sig.When.UTC()
	if year := when.Year(); year < 1 || year > 9999 {
		return nil, &TranslationError{Field: field, Err: fmt.Errorf("timestamp year %d out of range", year)}
	}
	return &Signature{Name: sig.Name, Email: sig.Email, When: when}, nil
}

func drainRefs(iter storer.ReferenceIter, glob string) ([]*Reference, error) {
	var refs []*Reference
	err := iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		if glob != "" && !globMatch(glob, ref.Name()) {
			return nil
		}
		refs = append(refs, newReference(ref))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate references: %w", err)
	}
	return refs, nil
}

func globMatch(glob string, name plumbing.ReferenceName) bool {
	if ok, err := path.Match(glob, name.String()); err == nil && ok {
		return true
	}
	ok, err := path.Match(glob, name.Short())
	return err == nil && ok
}
