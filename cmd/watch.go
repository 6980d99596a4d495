package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/otboss/gitgud/internal/watch"
)

func newWatchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the new HEAD whenever the repository changes on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.attach()
			if err != nil {
				return err
			}
			defer a.Close()

			notifier, err := watch.New(a.Path(), 0)
			if err != nil {
				return err
			}
			defer notifier.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "watching %s\n", a.Path())
			for {
				select {
				case <-notifier.Changes():
					head, ok, err := a.Head()
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "changed: repository is empty")
						continue
					}
					fmt.Fprintf(out, "changed: HEAD at %s (%s)\n", head.OID().String()[:7], head.FullName())
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
	return cmd
}
