// Package cmd implements the gitgud CLI, a thin read-only consumer of the
// repository agent.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/otboss/gitgud/internal/agent"
	"github.com/otboss/gitgud/internal/buildinfo"
)

func Run() error {
	return newRootCmd().Execute()
}

type options struct {
	repoPath string
	isolated bool
	verbose  bool
}

func (o *options) attach() (*agent.Agent, error) {
	mode := agent.Local
	if o.isolated {
		mode = agent.Isolated
	}
	return agent.New(o.repoPath, mode)
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "gitgud",
		Short:         "Inspect a git repository through its agent",
		Version:       buildinfo.VersionWithTags(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				// slog.SetLogLoggerLevel requires Go 1.22; this is the
				// closest equivalent available on Go 1.21.
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.repoPath, "repo", "C", ".", "path to the repository")
	root.PersistentFlags().BoolVar(&opts.isolated, "isolated", false, "serialize all operations through a dedicated worker")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable verbose logging")
	root.AddCommand(
		newLogCmd(opts),
		newRefsCmd(opts),
		newDiffCmd(opts),
		newCatFileCmd(opts),
		newWatchCmd(opts),
	)
	return root
}
