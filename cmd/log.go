package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otboss/gitgud/internal/agent"
	"github.com/otboss/gitgud/internal/git"
)

func newLogCmd(opts *options) *cobra.Command {
	var (
		limit   int
		chunk   int
		paths   []string
		topo    bool
		reverse bool
	)
	cmd := &cobra.Command{
		Use:   "log [revision]",
		Short: "Show commit history from a revision (default HEAD)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rev := "HEAD"
			if len(args) == 1 {
				rev = args[0]
			}
			a, err := opts.attach()
			if err != nil {
				return err
			}
			defer a.Close()

			obj, err := a.Revision(rev)
			if err != nil {
				return err
			}
			var sort git.WalkSort
			if topo {
				sort |= git.SortTopo
			}
			if reverse {
				sort |= git.SortReverse
			}
			cursor, err := a.History(obj, git.HistoryOptions{
				Sort:     sort,
				Pathspec: git.Pathspec(paths),
			})
			if err != nil {
				return err
			}
			printed := 0
			for printed < limit {
				size := chunk
				if remaining := limit - printed; remaining < size {
					size = remaining
				}
				commits, more, err := a.HistoryNext(cursor, size)
				if err != nil {
					return err
				}
				for _, commit := range commits {
					if err := printLogLine(cmd, a, commit); err != nil {
						return err
					}
				}
				printed += len(commits)
				if !more {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show")
	cmd.Flags().IntVar(&chunk, "chunk", 100, "commits fetched per agent round trip")
	cmd.Flags().StringSliceVar(&paths, "path", nil, "only show commits touching these paths")
	cmd.Flags().BoolVar(&topo, "topo-order", false, "show commits before their parents")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "show commits oldest first")
	return cmd
}

func printLogLine(cmd *cobra.Command, a *agent.Agent, commit *git.Commit) error {
	author, err := a.CommitAuthor(commit)
	if err != nil {
		return err
	}
	message, err := a.CommitMessage(commit)
	if err != nil {
		return err
	}
	summary, _, _ := strings.Cut(message, "\n")
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %-20s %s\n",
		commit.OID().String()[:7],
		author.When.Format("2006-01-02"),
		author.Name,
		summary,
	)
	return nil
}
