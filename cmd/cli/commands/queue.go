package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func BuildQueueCmd(provide Provider) *cobra.Command {
	return &cobra.Command{
		Use:   "build-queue <campaign-id>",
		Short: "Rebuild the call queue from the current eligible hosts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provide()
			if err != nil {
				return err
			}

			res, err := app.Queue.Build(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to build queue: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

// DispatchCmd places one batch of calls, or keeps dispatching until the campaign closes
// with --drain.
func DispatchCmd(provide Provider) *cobra.Command {
	var (
		batchSize int
		drain     bool
	)

	cmd := &cobra.Command{
		Use:   "dispatch <campaign-id>",
		Short: "Place the next batch of calls for a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provide()
			if err != nil {
				return err
			}

			if drain {
				res, err := app.Queue.Drain(cmd.Context(), args[0], batchSize)
				if err != nil {
					return fmt.Errorf("failed to drain campaign: %w", err)
				}

				return printJSON(cmd.OutOrStdout(), res)
			}

			res, err := app.Queue.Dispatch(cmd.Context(), args[0], batchSize)
			if err != nil {
				return fmt.Errorf("failed to dispatch: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch", 0, "maximum calls per batch, 0 for the configured default")
	cmd.Flags().BoolVar(&drain, "drain", false, "keep dispatching until the campaign is filled or exhausted")

	return cmd
}

func SweepCmd(provide Provider) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire stale calls, close past campaigns and create the next scheduled one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := provide()
			if err != nil {
				return err
			}

			res, err := app.Queue.Sweep(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to sweep: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
