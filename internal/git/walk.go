package git

import (
	"container/heap"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// WalkSort flags control revision walk ordering and are combinable.
type WalkSort uint8

const (
	// SortTime orders commits by committer time, newest first. This is the
	// default when no flag is set.
	SortTime WalkSort = 1 << iota
	// SortTopo guarantees every commit is emitted before any of its parents.
	SortTopo
	// SortReverse flips the final order.
	SortReverse
)

// Walker produces a lazy, finite, not restartable sequence of commits
// reachable from one or more starting points.
//
// Time-ordered walks stream from a committer-time priority queue over the
// ancestry frontier. Topological and reversed walks materialize the
// reachable subgraph up front, the same trade-off git itself makes for
// --topo-order and --reverse.
type Walker struct {
	repo   *Repository
	filter Pathspec

	frontier commitQueue
	seen     map[OID]bool

	ordered      []*object.Commit
	pos          int
	materialized bool
	done         bool
}

// NewWalker opens a walk from the given starting oids. Each yielded value is
// resolved to a full Commit before handoff. A non-empty filter composes the
// pathspec filter over the walk.
func NewWalker(repo *Repository, starts []OID, sort WalkSort, filter Pathspec) (*Walker, error) {
	if len(starts) == 0 {
		return nil, fmt.Errorf("revision walk: no starting points")
	}
	w := &Walker{repo: repo, filter: filter, seen: make(map[OID]bool)}
	for _, oid := range starts {
		commit, err := repo.lookupCommit(oid)
		if err != nil {
			return nil, err
		}
		if !w.seen[oid] {
			w.seen[oid] = true
			heap.Push(&w.frontier, commit.commit)
		}
	}
	if sort&SortTopo != 0 {
		if err := w.materializeTopo(); err != nil {
			return nil, err
		}
	}
	if sort&SortReverse != 0 {
		if !w.materialized {
			if err := w.materializeTime(); err != nil {
				return nil, err
			}
		}
		for i, j := 0, len(w.ordered)-1; i < j; i, j = i+1, j-1 {
			w.ordered[i], w.ordered[j] = w.ordered[j], w.ordered[i]
		}
	}
	return w, nil
}

// Next returns the next commit in walk order, or io.EOF when the walk is
// exhausted. A filtered walk skips non-matching commits transparently.
func (w *Walker) Next() (*Commit, error) {
	for {
		native, err := w.next()
		if err != nil {
			return nil, err
		}
		commit := &Commit{oid: native.Hash, commit: native}
		if len(w.filter) > 0 && !w.filter.matchCommit(w.repo, commit) {
			continue
		}
		return commit, nil
	}
}

func (w *Walker) next() (*object.Commit, error) {
	if w.done {
		return nil, io.EOF
	}
	if w.materialized {
		if w.pos >= len(w.ordered) {
			w.done = true
			return nil, io.EOF
		}
		commit := w.ordered[w.pos]
		w.pos++
		return commit, nil
	}
	if w.frontier.Len() == 0 {
		w.done = true
		return nil, io.EOF
	}
	commit := heap.Pop(&w.frontier).(*object.Commit)
	if err := w.pushParents(commit); err != nil {
		return nil, err
	}
	return commit, nil
}

func (w *Walker) pushParents(commit *object.Commit) error {
	for _, parent := range commit.ParentHashes {
		if w.seen[parent] {
			continue
		}
		w.seen[parent] = true
		native, err := w.repo.lookupCommit(parent)
		if err != nil {
			return err
		}
		heap.Push(&w.frontier, native.commit)
	}
	return nil
}

func (w *Walker) materializeTime() error {
	for {
		commit, err := w.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		w.ordered = append(w.ordered, commit)
	}
	w.materialized = true
	w.done = false
	w.pos = 0
	return nil
}

// materializeTopo enumerates the reachable subgraph, then emits commits only
// once all their children within the subgraph have been emitted, breaking
// ties by committer time.
func (w *Walker) materializeTopo() error {
	reachable := make(map[OID]*object.Commit)
	pendingChildren := make(map[OID]int)
	queue := make([]*object.Commit, w.frontier.Len())
	copy(queue, w.frontier)
	for _, commit := range queue {
		reachable[commit.Hash] = commit
	}
	for len(queue) > 0 {
		commit := queue[0]
		queue = queue[1:]
		for _, parent := range commit.ParentHashes {
			pendingChildren[parent]++
			if _, ok := reachable[parent]; ok {
				continue
			}
			native, err := w.repo.lookupCommit(parent)
			if err != nil {
				return err
			}
			reachable[parent] = native.commit
			queue = append(queue, native.commit)
		}
	}

	var ready commitQueue
	for oid, commit := range reachable {
		if pendingChildren[oid] == 0 {
			heap.Push(&ready, commit)
		}
	}
	ordered := make([]*object.Commit, 0, len(reachable))
	for ready.Len() > 0 {
		commit := heap.Pop(&ready).(*object.Commit)
		ordered = append(ordered, commit)
		for _, parent := range commit.ParentHashes {
			pendingChildren[parent]--
			if pendingChildren[parent] == 0 {
				heap.Push(&ready, reachable[parent])
			}
		}
	}
	w.ordered = ordered
	w.materialized = true
	w.frontier = nil
	return nil
}

// commitQueue is a committer-time max-heap with a stable oid tiebreak.
type commitQueue []*object.Commit

func (q commitQueue) Len() int { return len(q) }

func (q commitQueue) Less(i, j int) bool {
	ti, tj := q[i].Committer.When, q[j].Committer.When
	if ti.Equal(tj) {
		return q[i].Hash.String() > q[j].Hash.String()
	}
	return ti.After(tj)
}

func (q commitQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *commitQueue) Push(x any) { *q = append(*q, x.(*object.Commit)) }

func (q *commitQueue) Pop() any {
	old := *q
	n := len(old)
	commit := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return commit
}
