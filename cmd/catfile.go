package cmd

import (
	"fmt"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"

	"github.com/otboss/gitgud/internal/agent"
	"github.com/otboss/gitgud/internal/git"
)

func newCatFileCmd(opts *options) *cobra.Command {
	var syntax bool
	cmd := &cobra.Command{
		Use:   "cat-file <revision> [path]",
		Short: "Print the object a revision resolves to, or a file inside its tree",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.attach()
			if err != nil {
				return err
			}
			defer a.Close()

			obj, err := a.Revision(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				return catPath(cmd, a, obj, args[1], syntax)
			}
			return catObject(cmd, a, obj)
		},
	}
	cmd.Flags().BoolVar(&syntax, "syntax", false, "syntax highlight file content for the terminal")
	return cmd
}

func catPath(cmd *cobra.Command, a *agent.Agent, obj git.Object, path string, syntax bool) error {
	tree, err := a.Tree(obj)
	if err != nil {
		return err
	}
	entry, err := a.TreeEntryByPath(tree, path)
	if err != nil {
		return err
	}
	target, err := a.TreeEntryTarget(entry)
	if err != nil {
		return err
	}
	blob, ok := target.(*git.Blob)
	if !ok {
		return fmt.Errorf("%s is a %T, not a file", path, target)
	}
	content, err := a.BlobContent(blob)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if syntax {
		lexer := lexers.Match(path)
		if lexer != nil {
			return quick.Highlight(out, string(content), lexer.Config().Name, "terminal256", "monokai")
		}
	}
	_, err = out.Write(content)
	return err
}

func catObject(cmd *cobra.Command, a *agent.Agent, obj git.Object) error {
	out := cmd.OutOrStdout()
	switch v := obj.(type) {
	case *git.Blob:
		content, err := a.BlobContent(v)
		if err != nil {
			return err
		}
		_, err = out.Write(content)
		return err
	case *git.Commit:
		message, err := a.CommitMessage(v)
		if err != nil {
			return err
		}
		author, err := a.CommitAuthor(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "commit %s\nAuthor: %s <%s>\nDate:   %s\n\n%s",
			v.OID(), author.Name, author.Email, author.When.Format("Mon Jan 2 15:04:05 2006 -0700"), message)
		return nil
	case *git.Tag:
		message, err := a.TagMessage(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "tag %s\n\n%s", v.Name, message)
		return nil
	case *git.Tree:
		entries, err := a.TreeEntries(v)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			fmt.Fprintf(out, "%06o %s %s\t%s\n", uint32(entry.Mode), entry.Kind, entry.OID(), entry.Name)
		}
		return nil
	default:
		return fmt.Errorf("cannot print %T", obj)
	}
}
