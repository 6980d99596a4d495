package agent

import (
	"time"

	"github.com/otboss/gitgud/internal/git"
)

// refResult bundles a lookup that can legitimately find nothing; ok=false
// with a nil error is the "no object" value, distinct from a failure.
type refResult struct {
	ref *git.Reference
	ok  bool
}

type chunkResult struct {
	commits []*git.Commit
	more    bool
}

func (a *Agent) IsEmpty() (bool, error) {
	return exec(a, "is_empty", func(r *git.Repository) (bool, error) {
		return r.IsEmpty()
	})
}

func (a *Agent) Head() (*git.Reference, bool, error) {
	result, err := exec(a, "head", func(r *git.Repository) (refResult, error) {
		ref, ok, err := r.Head()
		return refResult{ref: ref, ok: ok}, err
	})
	return result.ref, result.ok, err
}

func (a *Agent) Branches() ([]*git.Reference, error) {
	return exec(a, "branches", func(r *git.Repository) ([]*git.Reference, error) {
		return r.Branches()
	})
}

func (a *Agent) Branch(name string) (*git.Reference, bool, error) {
	result, err := exec(a, "branch", func(r *git.Repository) (refResult, error) {
		ref, ok, err := r.Branch(name)
		return refResult{ref: ref, ok: ok}, err
	})
	return result.ref, result.ok, err
}

func (a *Agent) Tags() ([]*git.Reference, error) {
	return exec(a, "tags", func(r *git.Repository) ([]*git.Reference, error) {
		return r.Tags()
	})
}

func (a *Agent) Tag(name string) (*git.Reference, bool, error) {
	result, err := exec(a, "tag", func(r *git.Repository) (refResult, error) {
		ref, ok, err := r.Tag(name)
		return refResult{ref: ref, ok: ok}, err
	})
	return result.ref, result.ok, err
}

func (a *Agent) TagAuthor(tag *git.Tag) (*git.Signature, error) {
	return exec(a, "tag_author", func(r *git.Repository) (*git.Signature, error) {
		return r.TagAuthor(tag)
	})
}

func (a *Agent) TagMessage(tag *git.Tag) (string, error) {
	return exec(a, "tag_message", func(r *git.Repository) (string, error) {
		return r.TagMessage(tag)
	})
}

func (a *Agent) References(glob string) ([]*git.Reference, error) {
	return exec(a, "references", func(r *git.Repository) ([]*git.Reference, error) {
		return r.References(glob)
	})
}

func (a *Agent) Reference(name string) (*git.Reference, bool, error) {
	result, err := exec(a, "reference", func(r *git.Repository) (refResult, error) {
		ref, ok, err := r.Reference(name)
		return refResult{ref: ref, ok: ok}, err
	})
	return result.ref, result.ok, err
}

func (a *Agent) ReferenceKind(ref *git.Reference) (git.RefKind, error) {
	return exec(a, "reference_kind", func(r *git.Repository) (git.RefKind, error) {
		return r.ReferenceKind(ref)
	})
}

func (a *Agent) Object(oid git.OID) (git.Object, error) {
	return exec(a, "object", func(r *git.Repository) (git.Object, error) {
		return r.Object(oid)
	})
}

func (a *Agent) Revision(spec string) (git.Object, error) {
	return exec(a, "revision", func(r *git.Repository) (git.Object, error) {
		return r.Revision(spec)
	})
}

func (a *Agent) CommitParents(commit *git.Commit) ([]*git.Commit, error) {
	return exec(a, "commit_parents", func(r *git.Repository) ([]*git.Commit, error) {
		return r.CommitParents(commit)
	})
}

func (a *Agent) CommitAuthor(commit *git.Commit) (*git.Signature, error) {
	return exec(a, "commit_author", func(r *git.Repository) (*git.Signature, error) {
		return r.CommitAuthor(commit)
	})
}

func (a *Agent) CommitCommitter(commit *git.Commit) (*git.Signature, error) {
	return exec(a, "commit_committer", func(r *git.Repository) (*git.Signature, error) {
		return r.CommitCommitter(commit)
	})
}

func (a *Agent) CommitMessage(commit *git.Commit) (string, error) {
	return exec(a, "commit_message", func(r *git.Repository) (string, error) {
		return r.CommitMessage(commit)
	})
}

func (a *Agent) CommitTimestamp(commit *git.Commit) (time.Time, error) {
	return exec(a, "commit_timestamp", func(r *git.Repository) (time.Time, error) {
		return r.CommitTimestamp(commit)
	})
}

func (a *Agent) CommitSignature(commit *git.Commit) (string, error) {
	return exec(a, "commit_signature", func(r *git.Repository) (string, error) {
		return r.CommitSignature(commit)
	})
}

func (a *Agent) BlobContent(blob *git.Blob) ([]byte, error) {
	return exec(a, "blob_content", func(r *git.Repository) ([]byte, error) {
		return r.BlobContent(blob)
	})
}

func (a *Agent) BlobSize(blob *git.Blob) (int64, error) {
	return exec(a, "blob_size", func(r *git.Repository) (int64, error) {
		return r.BlobSize(blob)
	})
}

func (a *Agent) Tree(obj git.Object) (*git.Tree, error) {
	return exec(a, "tree", func(r *git.Repository) (*git.Tree, error) {
		return r.Tree(obj)
	})
}

func (a *Agent) TreeEntries(tree *git.Tree) ([]*git.TreeEntry, error) {
	return exec(a, "tree_entries", func(r *git.Repository) ([]*git.TreeEntry, error) {
		return r.TreeEntries(tree)
	})
}

func (a *Agent) TreeEntryByOID(tree *git.Tree, oid git.OID) (*git.TreeEntry, error) {
	return exec(a, "tree_entry_by_oid", func(r *git.Repository) (*git.TreeEntry, error) {
		return r.TreeEntryByOID(tree, oid)
	})
}

func (a *Agent) TreeEntryByPath(tree *git.Tree, path string) (*git.TreeEntry, error) {
	return exec(a, "tree_entry_by_path", func(r *git.Repository) (*git.TreeEntry, error) {
		return r.TreeEntryByPath(tree, path)
	})
}

func (a *Agent) TreeEntryTarget(entry *git.TreeEntry) (git.Object, error) {
	return exec(a, "tree_entry_target", func(r *git.Repository) (git.Object, error) {
		return r.TreeEntryTarget(entry)
	})
}

func (a *Agent) Diff(oldObj, newObj git.Object, opts git.DiffOptions) (*git.Diff, error) {
	return exec(a, "diff", func(r *git.Repository) (*git.Diff, error) {
		return r.Diff(oldObj, newObj, opts)
	})
}

func (a *Agent) DiffDeltas(diff *git.Diff) ([]git.Delta, error) {
	return exec(a, "diff_deltas", func(r *git.Repository) ([]git.Delta, error) {
		return r.DiffDeltas(diff)
	})
}

func (a *Agent) DiffFormat(diff *git.Diff, format git.DiffFormat) ([]byte, error) {
	return exec(a, "diff_format", func(r *git.Repository) ([]byte, error) {
		return r.DiffFormat(diff, format)
	})
}

func (a *Agent) DiffStats(diff *git.Diff) (git.DiffStats, error) {
	return exec(a, "diff_stats", func(r *git.Repository) (git.DiffStats, error) {
		return r.DiffStats(diff)
	})
}

func (a *Agent) History(obj git.Object, opts git.HistoryOptions) (*git.HistoryCursor, error) {
	return exec(a, "history", func(r *git.Repository) (*git.HistoryCursor, error) {
		return r.History(obj, opts)
	})
}

// HistoryNext advances a cursor previously returned by History. In isolated
// mode the underlying walk is only ever advanced inside the worker.
func (a *Agent) HistoryNext(cursor *git.HistoryCursor, chunkSize int) ([]*git.Commit, bool, error) {
	result, err := exec(a, "history_next", func(r *git.Repository) (chunkResult, error) {
		commits, more, err := r.HistoryNext(cursor, chunkSize)
		return chunkResult{commits: commits, more: more}, err
	})
	return result.commits, result.more, err
}

func (a *Agent) Peel(obj git.Object) (git.Object, error) {
	return exec(a, "peel", func(r *git.Repository) (git.Object, error) {
		return r.Peel(obj)
	})
}
