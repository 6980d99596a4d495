package git

import (
	"fmt"
	"strings"
)

// DiffFormat selects a rendering of a diff.
type DiffFormat uint8

const (
	// FormatPatch renders unified patch text, the default format.
	FormatPatch DiffFormat = iota
	// FormatNameOnly renders one changed path per line.
	FormatNameOnly
	// FormatNameStatus renders a status letter and the changed path(s).
	FormatNameStatus
)

// DiffFormat renders a diff as a single byte sequence in the given format.
func (r *Repository) DiffFormat(diff *Diff, format DiffFormat) ([]byte, error) {
	var b strings.Builder
	switch format {
	case FormatPatch:
		for _, delta := range diff.deltas {
			writePatchDelta(&b, delta)
		}
	case FormatNameOnly:
		for _, delta := range diff.deltas {
			b.WriteString(delta.New.Path)
			b.WriteByte('\n')
		}
	case FormatNameStatus:
		for _, delta := range diff.deltas {
			b.WriteString(delta.Status.String())
			b.WriteByte('\t')
			if delta.Status == DeltaRenamed {
				b.WriteString(delta.Old.Path)
				b.WriteByte('\t')
			}
			b.WriteString(delta.New.Path)
			b.WriteByte('\n')
		}
	default:
		return nil, fmt.Errorf("unsupported diff format %d", format)
	}
	return []byte(b.String()), nil
}

func writePatchDelta(b *strings.Builder, delta Delta) {
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", delta.Old.Path, delta.New.Path)
	switch delta.Status {
	case DeltaAdded:
		fmt.Fprintf(b, "new file mode %06o\n", uint32(delta.New.Mode))
	case DeltaDeleted:
		fmt.Fprintf(b, "deleted file mode %06o\n", uint32(delta.Old.Mode))
	case DeltaRenamed:
		fmt.Fprintf(b, "similarity index %d%%\n", delta.Similarity)
		fmt.Fprintf(b, "rename from %s\n", delta.Old.Path)
		fmt.Fprintf(b, "rename to %s\n", delta.New.Path)
	}
	fmt.Fprintf(b, "index %s..%s", shortOID(delta.Old.OID), shortOID(delta.New.OID))
	if delta.Status == DeltaModified && delta.Old.Mode == delta.New.Mode {
		fmt.Fprintf(b, " %06o", uint32(delta.New.Mode))
	}
	b.WriteByte('\n')
	if delta.Binary {
		fmt.Fprintf(b, "Binary files a/%s and b/%s differ\n", delta.Old.Path, delta.New.Path)
		return
	}
	if len(delta.Hunks) == 0 {
		return
	}
	if delta.Status == DeltaAdded {
		b.WriteString("--- /dev/null\n")
	} else {
		fmt.Fprintf(b, "--- a/%s\n", delta.Old.Path)
	}
	if delta.Status == DeltaDeleted {
		b.WriteString("+++ /dev/null\n")
	} else {
		fmt.Fprintf(b, "+++ b/%s\n", delta.New.Path)
	}
	for _, hunk := range delta.Hunks {
		b.WriteString(hunk.Header)
		for _, line := range hunk.Lines {
			b.WriteByte(byte(line.Origin))
			b.WriteString(line.Content)
			if !strings.HasSuffix(line.Content, "\n") {
				b.WriteByte('\n')
			}
		}
	}
}

func shortOID(oid OID) string {
	s := oid.String()
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
