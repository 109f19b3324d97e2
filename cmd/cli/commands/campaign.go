package commands

import (
	"bedcall/internal/domains/campaign/model/dto"
	"fmt"

	"github.com/spf13/cobra"
)

// CreateCampaignCmd creates a campaign and builds its queue.
func CreateCampaignCmd(provide Provider) *cobra.Command {
	req := dto.CreateCampaignRequest{}

	cmd := &cobra.Command{
		Use:   "create-campaign",
		Short: "Create a campaign for a date and build its call queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := provide()
			if err != nil {
				return err
			}

			res, err := app.Campaigns.Create(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create campaign: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&req.TargetDate, "date", "", "target date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&req.BedsNeeded, "beds", 0, "beds needed, 0 to call every eligible host")
	cmd.Flags().BoolVar(&req.IsSpecial, "special", false, "include hosts registered for special occasions")
	cmd.Flags().StringVar(&req.CustomMessageURL, "message-url", "", "recording played instead of the default message")
	cmd.Flags().BoolVar(&req.StartCalling, "start", false, "start calling right away")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// ReportCmd prints a campaign report, or uploads it as a spreadsheet with --export.
func ReportCmd(provide Provider) *cobra.Command {
	var export bool

	cmd := &cobra.Command{
		Use:   "report <campaign-id>",
		Short: "Show the call and response report for a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provide()
			if err != nil {
				return err
			}

			if export {
				res, err := app.Campaigns.ExportReport(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to export report: %w", err)
				}

				return printJSON(cmd.OutOrStdout(), res)
			}

			res, err := app.Campaigns.Report(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "upload the report as xlsx and print its URL")

	return cmd
}
