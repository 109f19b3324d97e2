package worker

import (
	"bedcall/config"
	"bedcall/infras/kafka"
	campaignModel "bedcall/internal/domains/campaign/model"
	campaignRepo "bedcall/internal/domains/campaign/repository"
	queueService "bedcall/internal/domains/queue/service"
	"bedcall/internal/events"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Dependencies struct {
	Config    *config.Config
	Kafka     kafka.Client
	Queue     queueService.Queue
	Campaigns campaignRepo.Campaign
	Publisher events.Publisher
}

// Worker runs the background side of dispatch: it consumes dispatch triggers, sweeps stale
// calls and closes past campaigns, and periodically re-triggers every active campaign so one
// lost trigger never stalls calling. Pending campaigns are left alone until someone starts them.
type Worker struct {
	Dependencies
}

func New(deps Dependencies) *Worker {
	return &Worker{Dependencies: deps}
}

// Run blocks until ctx is done or one of the loops fails.
func (w *Worker) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return events.ConsumeDispatchTriggers(ctx, w.Kafka, w.Config, w.HandleTrigger)
	})

	group.Go(func() error {
		every(ctx, w.Config.Dispatch.SweepInterval, w.sweep)

		return nil
	})

	group.Go(func() error {
		every(ctx, w.Config.Dispatch.RetriggerInterval, w.retrigger)

		return nil
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}

	return nil
}

// HandleTrigger runs one dispatch batch. Errors for campaigns that no longer exist are
// dropped so the consumer moves on.
func (w *Worker) HandleTrigger(ctx context.Context, trigger events.DispatchTrigger) error {
	logger := log.With().Str("campaign_id", trigger.CampaignID).Str("reason", trigger.Reason).Logger()

	res, err := w.Queue.Dispatch(ctx, trigger.CampaignID, w.Config.Dispatch.BatchSize)
	if errors.Is(err, campaignModel.ErrCampaignNotFound) {
		logger.Warn().Msg("dropping trigger for unknown campaign")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to dispatch: %w", err)
	}

	logger.Info().
		Int("called", res.Called).
		Int("still_needed", res.StillNeeded).
		Bool("busy", res.Busy).
		Bool("completed", res.Completed).
		Msg("dispatch trigger handled")

	return nil
}

func (w *Worker) sweep(ctx context.Context) {
	res, err := w.Queue.Sweep(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sweep failed")

		return
	}

	if res.Demoted > 0 || res.CompletedCampaigns > 0 || res.CreatedCampaignID != "" {
		log.Info().
			Int("demoted", res.Demoted).
			Int64("completed_campaigns", res.CompletedCampaigns).
			Str("created_campaign_id", res.CreatedCampaignID).
			Msg("sweep finished")
	}
}

func (w *Worker) retrigger(ctx context.Context) {
	campaigns, err := w.Campaigns.GetActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active campaigns")

		return
	}

	for _, campaign := range campaigns {
		if err = w.Publisher.PublishDispatchTrigger(ctx, campaign.ID, events.ReasonSweep); err != nil {
			log.Warn().Err(err).Str("campaign_id", campaign.ID).Msg("failed to re-trigger campaign")
		}
	}
}

// every runs fn immediately and then on each tick until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
