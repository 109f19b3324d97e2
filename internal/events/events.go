package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"bedcall/config"
	"bedcall/infras/kafka"
	"bedcall/infras/otel"
	"bedcall/shared/constant"
	"bedcall/shared/timezone"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Campaign event types.
const (
	TypeCampaignCompleted = "campaign.completed"
	TypeCampaignCancelled = "campaign.cancelled"
	TypeCallOutcome       = "call.outcome"
	TypeResponseRecorded  = "response.recorded"
)

// Dispatch trigger reasons.
const (
	ReasonStart    = "start"
	ReasonResponse = "response"
	ReasonCallback = "call_status"
	ReasonSweep    = "sweep"
	ReasonCreated  = "created"
)

// DispatchTrigger asks a worker to run one dispatch round for a campaign.
type DispatchTrigger struct {
	CampaignID  string    `json:"campaign_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

type CampaignEvent struct {
	Type          string    `json:"type"`
	CampaignID    string    `json:"campaign_id"`
	HostID        string    `json:"host_id,omitempty"`
	QueueEntryID  string    `json:"queue_entry_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	BedsNeeded    int       `json:"beds_needed,omitempty"`
	BedsConfirmed int       `json:"beds_confirmed,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishDispatchTrigger(ctx context.Context, campaignID, reason string) error
	PublishCampaignEvent(ctx context.Context, event CampaignEvent) error
}

type publisherImpl struct {
	client kafka.Client
	config *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		config: cfg,
		otel:   otel,
	}
}

// PublishDispatchTrigger keys the message by campaign so rounds for one campaign stay ordered on a partition.
func (p *publisherImpl) PublishDispatchTrigger(ctx context.Context, campaignID, reason string) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishDispatchTrigger")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{"campaign_id": campaignID, "reason": reason})

	err = p.client.SendMessages(ctx, p.config.Kafka.Topics.DispatchTrigger, kafka.Message{
		Key: campaignID,
		Value: DispatchTrigger{
			CampaignID:  campaignID,
			Reason:      reason,
			RequestedAt: timezone.Now(),
		},
	})
	if err != nil {
		log.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to publish dispatch trigger")

		return fmt.Errorf("failed to publish dispatch trigger: %w", err)
	}

	return nil
}

func (p *publisherImpl) PublishCampaignEvent(ctx context.Context, event CampaignEvent) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishCampaignEvent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = timezone.Now()
	}

	scope.SetAttributes(map[string]any{"campaign_id": event.CampaignID, "type": event.Type})

	err = p.client.SendMessages(ctx, p.config.Kafka.Topics.CampaignEvents, kafka.Message{
		Key:   event.CampaignID,
		Value: event,
	})
	if err != nil {
		log.Error().Err(err).Str("campaign_id", event.CampaignID).Str("type", event.Type).Msg("failed to publish campaign event")

		return fmt.Errorf("failed to publish campaign event: %w", err)
	}

	return nil
}

// TriggerHandler runs a dispatch round for the campaign named in a trigger.
type TriggerHandler func(ctx context.Context, trigger DispatchTrigger) error

// ConsumeDispatchTriggers blocks until ctx is done, passing every decoded trigger to handle.
func ConsumeDispatchTriggers(ctx context.Context, client kafka.Client, cfg *config.Config, handle TriggerHandler) error {
	return client.Consume(ctx, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topics.DispatchTrigger, func(ctx context.Context, message kafkaGo.Message) error { //nolint:wrapcheck
		trigger, err := kafka.Decode[DispatchTrigger](message)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if trigger.CampaignID == "" {
			log.Warn().Str("key", string(message.Key)).Msg("dropping dispatch trigger without campaign id")

			return nil
		}

		return handle(ctx, trigger)
	})
}
