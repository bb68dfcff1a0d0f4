package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func PrintCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "print <fileUrl>",
		Short: "Send one file URL to the printer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			api, _, err := connect(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = api.Logout(ctx) }()

			ack, err := api.Print(ctx, args[0])
			if err != nil {
				return fmt.Errorf("print failed: %s", describe(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), ack.Message)
			return nil
		},
	}
}
