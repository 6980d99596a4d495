package git

import (
	"fmt"
	"io"
)

// DefaultChunk is the chunk size used when a caller passes a non-positive
// one to HistoryNext.
const DefaultChunk = 1000

// HistoryOptions configure a history walk.
type HistoryOptions struct {
	Sort     WalkSort
	Pathspec Pathspec
}

// HistoryCursor is resumable pagination state over a revision walk. It is
// exclusively owned by the caller that requested it and must not be shared
// between concurrent consumers; in isolated mode it is only ever advanced
// inside the worker.
type HistoryCursor struct {
	walker *Walker
	// buffered holds the read-ahead commit consumed while answering "is
	// there more", so successive chunks stay in order.
	buffered  *Commit
	exhausted bool
}

// History starts a walk from the commit the given object peels to and
// returns the initial cursor.
func (r *Repository) History(obj Object, opts HistoryOptions) (*HistoryCursor, error) {
	commit, err := r.peelToCommit(obj)
	if err != nil {
		return nil, err
	}
	walker, err := NewWalker(r, []OID{commit.oid}, opts.Sort, opts.Pathspec)
	if err != nil {
		return nil, err
	}
	return &HistoryCursor{walker: walker}, nil
}

// HistoryNext returns up to chunkSize already-resolved commits and whether
// more remain. Advancing an exhausted cursor is a no-op yielding an empty
// chunk.
func (r *Repository) HistoryNext(cursor *HistoryCursor, chunkSize int) ([]*Commit, bool, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunk
	}
	if cursor.exhausted {
		return nil, false, nil
	}
	chunk := make([]*Commit, 0, chunkSize)
	for len(chunk) < chunkSize {
		commit, err := cursor.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, false, err
		}
		chunk = append(chunk, commit)
	}
	more, err := cursor.hasMore()
	if err != nil {
		return nil, false, err
	}
	return chunk, more, nil
}

func (c *HistoryCursor) next() (*Commit, error) {
	if c.exhausted {
		return nil, io.EOF
	}
	if c.buffered != nil {
		commit := c.buffered
		c.buffered = nil
		return commit, nil
	}
	commit, err := c.walker.Next()
	if err != nil {
		if err == io.EOF {
			c.exhausted = true
		}
		return nil, err
	}
	return commit, nil
}

func (c *HistoryCursor) hasMore() (bool, error) {
	if c.exhausted {
		return false, nil
	}
	if c.buffered != nil {
		return true, nil
	}
	commit, err := c.walker.Next()
	if err != nil {
		if err == io.EOF {
			c.exhausted = true
			return false, nil
		}
		return false, err
	}
	c.buffered = commit
	return true, nil
}

func (r *Repository) peelToCommit(v Object) (*Commit, error) {
	peeled, err := r.Peel(v)
	if err != nil {
		return nil, err
	}
	commit, ok := peeled.(*Commit)
	if !ok {
		return nil, fmt.Errorf("cannot walk history from %T", peeled)
	}
	return commit, nil
}
