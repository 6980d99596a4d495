package cmd

import (
	"fmt"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"

	"github.com/otboss/gitgud/internal/agent"
	"github.com/otboss/gitgud/internal/git"
)

func newDiffCmd(opts *options) *cobra.Command {
	var (
		nameOnly    bool
		nameStatus  bool
		stat        bool
		color       bool
		context     int
		findRenames bool
		paths       []string
	)
	cmd := &cobra.Command{
		Use:   "diff <old-revision> <new-revision>",
		Short: "Compare the trees two revisions resolve to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.attach()
			if err != nil {
				return err
			}
			defer a.Close()

			oldObj, err := a.Revision(args[0])
			if err != nil {
				return err
			}
			newObj, err := a.Revision(args[1])
			if err != nil {
				return err
			}
			diff, err := a.Diff(oldObj, newObj, git.DiffOptions{
				Pathspec:      git.Pathspec(paths),
				ContextLines:  context,
				DetectRenames: findRenames,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case stat:
				stats, err := a.DiffStats(diff)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d files changed, %d insertions(+), %d deletions(-)\n",
					stats.FilesChanged, stats.Insertions, stats.Deletions)
				return nil
			case nameOnly:
				return writeFormat(cmd, a, diff, git.FormatNameOnly)
			case nameStatus:
				return writeFormat(cmd, a, diff, git.FormatNameStatus)
			default:
				patch, err := a.DiffFormat(diff, git.FormatPatch)
				if err != nil {
					return err
				}
				if color {
					return quick.Highlight(out, string(patch), "diff", "terminal256", "monokai")
				}
				_, err = out.Write(patch)
				return err
			}
		},
	}
	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "show only changed paths")
	cmd.Flags().BoolVar(&nameStatus, "name-status", false, "show status letters and changed paths")
	cmd.Flags().BoolVar(&stat, "stat", false, "show aggregate change counts")
	cmd.Flags().BoolVar(&color, "color", false, "syntax highlight the patch for the terminal")
	cmd.Flags().IntVar(&context, "context", 0, "context lines per hunk (0 uses the default)")
	cmd.Flags().BoolVar(&findRenames, "find-renames", false, "detect renamed files")
	cmd.Flags().StringSliceVar(&paths, "path", nil, "restrict the diff to these paths")
	return cmd
}

func writeFormat(cmd *cobra.Command, a *agent.Agent, diff *git.Diff, format git.DiffFormat) error {
	text, err := a.DiffFormat(diff, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(text)
	return err
}
