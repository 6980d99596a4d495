package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"
)

// DiffOptions tune diff computation.
type DiffOptions struct {
	// Pathspec restricts the diff to matching paths when non-empty.
	Pathspec Pathspec
	// ContextLines is the number of unchanged lines around each hunk.
	// Zero means the default of 3.
	ContextLines int
	// DetectRenames asks the engine to pair deletions with additions.
	DetectRenames bool
}

const defaultContextLines = 3

type DeltaStatus uint8

const (
	DeltaModified DeltaStatus = iota
	DeltaAdded
	DeltaDeleted
	DeltaRenamed
)

func (s DeltaStatus) String() string {
	switch s {
	case DeltaAdded:
		return "A"
	case DeltaDeleted:
		return "D"
	case DeltaRenamed:
		return "R"
	}
	return "M"
}

// DiffFile identifies one side of a per-file change.
type DiffFile struct {
	OID  OID
	Path string
	Size int64
	Mode filemode.FileMode
}

type LineOrigin byte

const (
	OriginContext LineOrigin = ' '
	OriginAdd     LineOrigin = '+'
	OriginDelete  LineOrigin = '-'
)

// Line is a single diff line. Line numbers are -1 on the side the line does
// not apply to.
type Line struct {
	Origin    LineOrigin
	OldLineNo int
	NewLineNo int
	NumLines  int
	Content   string
}

// Hunk is one contiguous changed region with its surrounding context.
type Hunk struct {
	Header   string
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// Delta is a per-file change with its ordered hunks.
type Delta struct {
	Status     DeltaStatus
	Old        DiffFile
	New        DiffFile
	Similarity int
	Binary     bool
	Hunks      []Hunk
}

// DiffStats aggregates a diff.
type DiffStats struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// Diff is the translated result of comparing two trees.
type Diff struct {
	old    *Tree
	new    *Tree
	deltas []Delta
}

// Diff compares two objects after peeling each down to its tree. Commits
// peel to their root tree, tags peel recursively, references peel to the
// object they point at.
func (r *Repository) Diff(oldObj, newObj Object, opts DiffOptions) (*Diff, error) {
	oldTree, err := r.peelToTree(oldObj)
	if err != nil {
		return nil, err
	}
	newTree, err := r.peelToTree(newObj)
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTreeWithOptions(context.Background(), oldTree.tree, newTree.tree,
		&object.DiffTreeOptions{DetectRenames: opts.DetectRenames})
	if err != nil {
		return nil, fmt.Errorf("diff trees %s..%s: %w", oldTree.oid, newTree.oid, err)
	}
	contextLines := opts.ContextLines
	if contextLines <= 0 {
		contextLines = defaultContextLines
	}
	deltas := make([]Delta, 0, len(changes))
	for _, change := range changes {
		if len(opts.Pathspec) > 0 && !opts.Pathspec.Match(changePath(change)) {
			continue
		}
		delta, err := newDelta(change, contextLines)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, delta)
	}
	return &Diff{old: oldTree, new: newTree, deltas: deltas}, nil
}

// DiffDeltas returns the ordered per-file changes of a diff.
func (r *Repository) DiffDeltas(diff *Diff) ([]Delta, error) {
	return diff.deltas, nil
}

// DiffStats recomputes aggregate counts from the diff's deltas, so they are
// always consistent with DiffDeltas.
func (r *Repository) DiffStats(diff *Diff) (DiffStats, error) {
	stats := DiffStats{FilesChanged: len(diff.deltas)}
	for _, delta := range diff.deltas {
		for _, hunk := range delta.Hunks {
			for _, line := range hunk.Lines {
				switch line.Origin {
				case OriginAdd:
					stats.Insertions++
				case OriginDelete:
					stats.Deletions++
				}
			}
		}
	}
	return stats, nil
}

func newDelta(change *object.Change, contextLines int) (Delta, error) {
	from, to, err := change.Files()
	if err != nil {
		return Delta{}, fmt.Errorf("resolve change files: %w", err)
	}
	delta := Delta{Status: changeStatus(change, from, to)}
	oldPath, newPath := change.From.Name, change.To.Name
	if oldPath == "" {
		oldPath = newPath
	}
	if newPath == "" {
		newPath = oldPath
	}
	delta.Old = DiffFile{Path: oldPath}
	delta.New = DiffFile{Path: newPath}
	if from != nil {
		delta.Old.OID = change.From.TreeEntry.Hash
		delta.Old.Mode = change.From.TreeEntry.Mode
		delta.Old.Size = from.Blob.Size
	}
	if to != nil {
		delta.New.OID = change.To.TreeEntry.Hash
		delta.New.Mode = change.To.TreeEntry.Mode
		delta.New.Size = to.Blob.Size
	}

	binary, err := changeIsBinary(from, to)
	if err != nil {
		return Delta{}, err
	}
	if binary {
		delta.Binary = true
		return delta, nil
	}

	oldLines, err := fileLines(from)
	if err != nil {
		return Delta{}, err
	}
	newLines, err := fileLines(to)
	if err != nil {
		return Delta{}, err
	}
	matcher := difflib.NewMatcher(oldLines, newLines)
	if from != nil && to != nil {
		delta.Similarity = int(matcher.Ratio() * 100)
	}
	delta.Hunks = buildHunks(matcher, oldLines, newLines, contextLines)
	return delta, nil
}

func changeStatus(change *object.Change, from, to *object.File) DeltaStatus {
	switch {
	case from == nil:
		return DeltaAdded
	case to == nil:
		return DeltaDeleted
	case change.From.Name != change.To.Name:
		return DeltaRenamed
	default:
		return DeltaModified
	}
}

func changeIsBinary(from, to *object.File) (bool, error) {
	for _, file := range []*object.File{from, to} {
		if file == nil {
			continue
		}
		binary, err := file.IsBinary()
		if err != nil {
			return false, fmt.Errorf("probe %s: %w", file.Name, err)
		}
		if binary {
			return true, nil
		}
	}
	return false, nil
}

func fileLines(file *object.File) ([]string, error) {
	if file == nil {
		return nil, nil
	}
	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}
	return splitLines(content), nil
}

// splitLines keeps line terminators so rendered patches reproduce content
// byte for byte, and never fabricates a phantom trailing line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func buildHunks(matcher *difflib.SequenceMatcher, oldLines, newLines []string, contextLines int) []Hunk {
	var hunks []Hunk
	for _, group := range matcher.GetGroupedOpCodes(contextLines) {
		first, last := group[0], group[len(group)-1]
		hunk := Hunk{
			OldStart: unifiedStart(first.I1, last.I2),
			OldLines: last.I2 - first.I1,
			NewStart: unifiedStart(first.J1, last.J2),
			NewLines: last.J2 - first.J1,
		}
		hunk.Header = fmt.Sprintf("@@ -%s +%s @@\n",
			formatRange(first.I1, last.I2), formatRange(first.J1, last.J2))
		for _, op := range group {
			switch op.Tag {
			case 'e':
				for i := op.I1; i < op.I2; i++ {
					hunk.Lines = append(hunk.Lines, Line{
						Origin:    OriginContext,
						OldLineNo: i + 1,
						NewLineNo: op.J1 + (i - op.I1) + 1,
						NumLines:  1,
						Content:   oldLines[i],
					})
				}
			case 'r', 'd':
				for i := op.I1; i < op.I2; i++ {
					hunk.Lines = append(hunk.Lines, Line{
						Origin:    OriginDelete,
						OldLineNo: i + 1,
						NewLineNo: -1,
						NumLines:  1,
						Content:   oldLines[i],
					})
				}
			}
			switch op.Tag {
			case 'r', 'i':
				for j := op.J1; j < op.J2; j++ {
					hunk.Lines = append(hunk.Lines, Line{
						Origin:    OriginAdd,
						OldLineNo: -1,
						NewLineNo: j + 1,
						NumLines:  1,
						Content:   newLines[j],
					})
				}
			}
		}
		hunks = append(hunks, hunk)
	}
	return hunks
}

func unifiedStart(start, stop int) int {
	if stop-start == 0 {
		return start
	}
	return start + 1
}

// formatRange renders a unified diff range, omitting the length when it is 1.
func formatRange(start, stop int) string {
	length := stop - start
	beginning := start + 1
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}
