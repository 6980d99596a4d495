package git

import (
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// Pathspec is a set of path patterns restricting diffs and history to
// specific files or directories. A pattern matches a path when it is equal
// to it, names one of its parent directories, or glob-matches it with
// patterns whose wildcards also cross directory separators.
type Pathspec []string

// Match reports whether any pattern matches the given path.
func (p Pathspec) Match(filePath string) bool {
	for _, pattern := range p {
		if matchPattern(pattern, filePath) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, filePath string) bool {
	if pattern == "" || pattern == filePath {
		return pattern != ""
	}
	if strings.HasPrefix(filePath, strings.TrimSuffix(pattern, "/")+"/") {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return false
	}
	if ok, err := path.Match(pattern, filePath); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		// A bare glob applies to the file name in any directory.
		ok, err := path.Match(pattern, path.Base(filePath))
		return err == nil && ok
	}
	// A glob with a directory component also matches everything under any
	// directory it names, so "docs/*" covers docs/guide/intro.md. Try the
	// pattern against each leading sub-path.
	for i, r := range filePath {
		if r != '/' {
			continue
		}
		if ok, err := path.Match(pattern, filePath[:i]); err == nil && ok {
			return true
		}
	}
	return false
}

// matchCommit decides whether a commit's diff against its first parent
// touches the pathspec. An initial commit never matches; a failed diff
// degrades to a non-match instead of surfacing an error, since absence of a
// match is a valid filtering outcome.
func (p Pathspec) matchCommit(repo *Repository, commit *Commit) bool {
	tree, err := commit.commit.Tree()
	if err != nil {
		slog.Debug("pathspec filter: commit tree unavailable",
			slog.String("commit", commit.oid.String()), slog.Any("error", err))
		return false
	}
	if !p.matchTree(tree) {
		return false
	}
	if commit.commit.NumParents() == 0 {
		return false
	}
	parent, err := commit.commit.Parent(0)
	if err != nil {
		slog.Debug("pathspec filter: first parent unavailable",
			slog.String("commit", commit.oid.String()), slog.Any("error", err))
		return false
	}
	parentTree, err := parent.Tree()
	if err != nil {
		slog.Debug("pathspec filter: parent tree unavailable",
			slog.String("commit", commit.oid.String()), slog.Any("error", err))
		return false
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		slog.Debug("pathspec filter: diff failed",
			slog.String("commit", commit.oid.String()), slog.Any("error", err))
		return false
	}
	for _, change := range changes {
		if p.Match(changePath(change)) {
			return true
		}
	}
	return false
}

// matchTree is the cheap pre-check: does any path in the tree match at all.
func (p Pathspec) matchTree(tree *object.Tree) bool {
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, _, err := walker.Next()
		if err != nil {
			if err != io.EOF {
				slog.Debug("pathspec filter: tree walk failed", slog.Any("error", err))
			}
			return false
		}
		if p.Match(name) {
			return true
		}
	}
}

func changePath(change *object.Change) string {
	if change.To.Name != "" {
		return change.To.Name
	}
	return change.From.Name
}
