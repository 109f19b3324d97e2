package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Response=MockResponseService

import (
	"bedcall/infras/otel"
	"bedcall/infras/postgres"
	campaignModel "bedcall/internal/domains/campaign/model"
	campaignRepo "bedcall/internal/domains/campaign/repository"
	hostModel "bedcall/internal/domains/host/model"
	hostRepo "bedcall/internal/domains/host/repository"
	hostService "bedcall/internal/domains/host/service"
	queueModel "bedcall/internal/domains/queue/model"
	queueRepo "bedcall/internal/domains/queue/repository"
	"bedcall/internal/domains/response/model"
	"bedcall/internal/domains/response/model/dto"
	"bedcall/internal/domains/response/repository"
	"bedcall/internal/events"
	"bedcall/shared"
	"bedcall/shared/cache"
	"bedcall/shared/constant"
	"bedcall/shared/metrics"
	"bedcall/shared/timezone"
	"bedcall/shared/validator"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// entryStatusFor is the queue status each response type settles the host's entry to.
// Cancelled responses are kept for audit only.
var entryStatusFor = map[string]string{
	model.TypeAccepted: queueModel.StatusAccepted,
	model.TypeDeclined: queueModel.StatusDeclined,
	model.TypeCallback: queueModel.StatusDeferred,
}

type Response interface {
	Record(ctx context.Context, req dto.RecordRequest) (dto.RecordResult, error)
	ModifyBeds(ctx context.Context, req dto.ModifyBedsRequest) (dto.RecordResult, error)
}

type Dependencies struct {
	Otel      otel.Otel
	Tx        postgres.Transactor
	Cache     cache.RedisCache
	Responses repository.Response
	Campaigns campaignRepo.Campaign
	Hosts     hostRepo.Host
	Queue     queueRepo.Queue
	Publisher events.Publisher
	Metrics   *metrics.Metrics
}

type serviceImpl struct {
	Dependencies
}

func New(deps Dependencies) Response {
	return &serviceImpl{Dependencies: deps}
}

// Record stores a host answer and applies it to the campaign counter and queue entry in one
// transaction.
func (s *serviceImpl) Record(ctx context.Context, req dto.RecordRequest) (res dto.RecordResult, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".response.Record")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err // nolint:wrapcheck
	}

	return s.record(ctx, req, nil)
}

// ModifyBeds updates the host's bed count and records an accept for that many beds.
func (s *serviceImpl) ModifyBeds(ctx context.Context, req dto.ModifyBedsRequest) (res dto.RecordResult, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".response.ModifyBeds")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err // nolint:wrapcheck
	}

	actor := shared.Actor(ctx)

	updateHost := func(tx *sqlx.Tx) error {
		_, err := s.Hosts.UpdateTx(ctx, tx, map[string]any{
			hostModel.FieldTotalBeds: req.Beds,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: actor,
		}, shared.FilterByID(req.HostID, hostModel.FieldID, hostModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to update host beds: %w", err)
		}

		return nil
	}

	return s.record(ctx, req.ToRecord(), updateHost)
}

func (s *serviceImpl) record(ctx context.Context, req dto.RecordRequest, before func(tx *sqlx.Tx) error) (res dto.RecordResult, err error) {
	logger := log.With().
		Str("campaign_id", req.CampaignID).
		Str("host_id", req.HostID).
		Str("response_type", req.ResponseType).
		Logger()

	campaign, err := s.Campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get campaign")

		return res, fmt.Errorf("failed to get campaign: %w", err)
	}

	if campaign.ID == constant.Empty {
		return res, campaignModel.ErrCampaignNotFound // nolint:wrapcheck
	}

	host, err := s.Hosts.GetByID(ctx, req.HostID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get host")

		return res, fmt.Errorf("failed to get host: %w", err)
	}

	if host.ID == constant.Empty {
		return res, hostService.ErrHostNotFound // nolint:wrapcheck
	}

	actor := shared.Actor(ctx)
	response := req.ToModel(actor)

	// An accept without a count means the host's usual beds.
	if response.ResponseType == model.TypeAccepted && response.BedsOffered == 0 && before == nil {
		response.BedsOffered = host.TotalBeds
	}

	err = s.Tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if before != nil {
			if err := before(tx); err != nil {
				return err
			}
		}

		counted, err := s.apply(ctx, tx, response, actor)
		res.Counted = counted

		return err
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to record response")

		return res, fmt.Errorf("failed to record response: %w", err)
	}

	s.afterCommit(ctx, response, res.Counted)

	res.FromModel(response)

	campaign, err = s.Campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to reload campaign after response")
	}

	res.BedsNeeded = campaign.BedsNeeded
	res.BedsConfirmed = campaign.BedsConfirmed
	res.StillNeeded = campaign.StillNeeded()

	logger.Info().
		Int("beds_offered", response.BedsOffered).
		Bool("counted", res.Counted).
		Int("beds_confirmed", res.BedsConfirmed).
		Msg("response recorded")

	return res, nil
}

// apply writes the audit row first, then the counter, then the entry. The counter must move
// before the entry becomes accepted because its duplicate guard looks for an accepted entry.
// Accepts hold the campaign row so two accepts from one host cannot both pass that guard.
func (s *serviceImpl) apply(ctx context.Context, tx *sqlx.Tx, response model.Response, actor string) (counted bool, err error) {
	if response.ResponseType == model.TypeAccepted {
		if err = s.Campaigns.LockTx(ctx, tx, response.CampaignID); err != nil {
			return false, err
		}
	}

	if err = s.Responses.InsertTx(ctx, tx, response); err != nil {
		return false, fmt.Errorf("failed to insert response: %w", err)
	}

	if response.ResponseType == model.TypeAccepted && response.BedsOffered > 0 {
		counted, err = s.Campaigns.IncrementConfirmedTx(ctx, tx, response.CampaignID, response.HostID, response.BedsOffered, actor)
		if err != nil {
			return false, fmt.Errorf("failed to count confirmed beds: %w", err)
		}
	}

	status, ok := entryStatusFor[response.ResponseType]
	if !ok {
		return counted, nil
	}

	// No entry (an inbound caller outside the queue) is not an error.
	if _, err = s.Queue.TransitionForHostTx(ctx, tx, response.CampaignID, response.HostID, queueModel.SourcesFor(status), status); err != nil {
		return false, fmt.Errorf("failed to update queue entry: %w", err)
	}

	return counted, nil
}

func (s *serviceImpl) afterCommit(ctx context.Context, response model.Response, counted bool) {
	countedBeds := 0
	if counted {
		countedBeds = response.BedsOffered
	}

	s.Metrics.ObserveResponse(response.ResponseType, countedBeds)

	if err := s.Cache.Delete(ctx, campaignModel.CacheKey(response.CampaignID)); err != nil {
		log.Warn().Err(err).Str("campaign_id", response.CampaignID).Msg("failed to invalidate campaign cache")
	}

	event := events.CampaignEvent{
		Type:       events.TypeResponseRecorded,
		CampaignID: response.CampaignID,
		HostID:     response.HostID,
		Status:     response.ResponseType,
		OccurredAt: timezone.Now(),
	}
	if err := s.Publisher.PublishCampaignEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("campaign_id", response.CampaignID).Msg("failed to publish response event")
	}

	if err := s.Publisher.PublishDispatchTrigger(ctx, response.CampaignID, events.ReasonResponse); err != nil {
		log.Warn().Err(err).Str("campaign_id", response.CampaignID).Msg("failed to publish dispatch trigger")
	}
}
