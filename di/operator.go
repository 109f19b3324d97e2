package di

import (
	campaignService "bedcall/internal/domains/campaign/service"
	queueService "bedcall/internal/domains/queue/service"
)

// Operator is what the command line tool drives. It talks to the same services as the API.
type Operator struct {
	Campaigns campaignService.Campaign
	Queue     queueService.Queue
}
