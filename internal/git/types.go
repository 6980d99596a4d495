package git

import (
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// OID is a content-addressed object identifier within one repository.
type OID = plumbing.Hash

// Object is any value resolved from the object store. Identity is the oid it
// was resolved with, never a stale one.
type Object interface {
	OID() OID
}

type RefKind uint8

const (
	RefUnknown RefKind = iota
	RefBranch
	RefTag
)

func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefTag:
		return "tag"
	}
	return "unknown"
}

// Reference is a named pointer into the object store. The full path is
// Prefix + Name; Kind is derived from Prefix.
type Reference struct {
	oid    OID
	Name   string // shorthand: main, v1.0, origin/main
	Prefix string // refs/heads/, refs/tags/, ...
	Kind   RefKind
}

func (r *Reference) OID() OID { return r.oid }

// FullName returns the complete reference path.
func (r *Reference) FullName() string { return r.Prefix + r.Name }

type Signature struct {
	Name  string
	Email string
	When  time.Time // always UTC
}

type Commit struct {
	oid    OID
	commit *object.Commit
}

func (c *Commit) OID() OID { return c.oid }

type Tree struct {
	oid  OID
	tree *object.Tree
}

func (t *Tree) OID() OID { return t.oid }

type Blob struct {
	oid  OID
	blob *object.Blob
}

func (b *Blob) OID() OID { return b.oid }

type Tag struct {
	oid OID
	// Name is empty when the native tag name could not be resolved.
	Name string
	tag  *object.Tag
}

func (t *Tag) OID() OID { return t.oid }

type EntryKind uint8

const (
	EntryBlob EntryKind = iota
	EntryTree
	EntryCommit // submodule pointer
)

func (k EntryKind) String() string {
	switch k {
	case EntryTree:
		return "tree"
	case EntryCommit:
		return "commit"
	}
	return "blob"
}

// TreeEntry is a named, mode-tagged pointer from a tree to a blob, subtree,
// or submodule commit.
type TreeEntry struct {
	Mode filemode.FileMode
	Kind EntryKind
	oid  OID
	Name string
}

func (e *TreeEntry) OID() OID { return e.oid }

func entryKind(mode filemode.FileMode) EntryKind {
	switch mode {
	case filemode.Dir:
		return EntryTree
	case filemode.Submodule:
		return EntryCommit
	default:
		return EntryBlob
	}
}
