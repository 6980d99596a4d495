package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefsCmd(opts *options) *cobra.Command {
	var glob string
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List references with their kind and target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.attach()
			if err != nil {
				return err
			}
			defer a.Close()

			refs, err := a.References(glob)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if head, ok, err := a.Head(); err != nil {
				return err
			} else if ok {
				fmt.Fprintf(out, "%s HEAD -> %s\n", head.OID().String()[:7], head.FullName())
			}
			for _, ref := range refs {
				fmt.Fprintf(out, "%s %-7s %s\n", ref.OID().String()[:7], ref.Kind, ref.FullName())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&glob, "glob", "", "only show references matching this pattern")
	return cmd
}
