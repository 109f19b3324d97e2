package commands

import (
	campaignService "bedcall/internal/domains/campaign/service"
	queueService "bedcall/internal/domains/queue/service"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// App is what every command runs against.
type App struct {
	Campaigns campaignService.Campaign
	Queue     queueService.Queue
}

// Provider builds the App lazily so --help never opens a database connection.
type Provider func() (*App, error)

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}

	return nil
}

// Root assembles the command tree.
func Root(provide Provider) *cobra.Command {
	root := &cobra.Command{
		Use:           "bedcall",
		Short:         "Operate bed campaigns from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		CreateCampaignCmd(provide),
		BuildQueueCmd(provide),
		DispatchCmd(provide),
		SweepCmd(provide),
		ReportCmd(provide),
	)

	return root
}
