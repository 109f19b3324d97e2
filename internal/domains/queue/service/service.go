package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Queue=MockQueueService

import (
	"bedcall/config"
	"bedcall/infras/jwt"
	"bedcall/infras/otel"
	"bedcall/infras/postgres"
	"bedcall/infras/telephony"
	campaignModel "bedcall/internal/domains/campaign/model"
	campaignRepo "bedcall/internal/domains/campaign/repository"
	"bedcall/internal/domains/campaign/schedule"
	hostModel "bedcall/internal/domains/host/model"
	hostRepo "bedcall/internal/domains/host/repository"
	"bedcall/internal/domains/queue/fairness"
	"bedcall/internal/domains/queue/model"
	"bedcall/internal/domains/queue/model/dto"
	"bedcall/internal/domains/queue/repository"
	"bedcall/internal/events"
	"bedcall/shared"
	"bedcall/shared/cache"
	"bedcall/shared/constant"
	"bedcall/shared/failure"
	"bedcall/shared/metrics"
	"bedcall/shared/timezone"
	"bedcall/shared/validator"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	dispatchLockPrefix = "dispatch"
	statusCallbackPath = "/v1/telephony/status"

	dispatchOutcomeBusy      = "busy"
	dispatchOutcomeTerminal  = "terminal"
	dispatchOutcomeCompleted = "completed"
	dispatchOutcomeDialed    = "dialed"
)

var (
	ErrNoEligibleHosts    = failure.Unprocessable("no eligible hosts for campaign")
	ErrCallInProgress     = failure.Conflict("queue cannot be rebuilt while a call is in progress")
	ErrCampaignClosed     = failure.Conflict("campaign is already closed")
	ErrQueueEntryNotFound = failure.NotFound("queue entry not found")

	ErrDialInitiationFailed = errors.New("dial initiation failed")
	ErrMissingPhoneNumber   = errors.New("missing phone number")
	ErrPersistenceConflict  = errors.New("queue entry was claimed by another dispatcher")
)

type Queue interface {
	Build(ctx context.Context, campaignID string) (dto.BuildResult, error)
	Dispatch(ctx context.Context, campaignID string, batchSize int) (dto.DispatchResult, error)
	HandleStatus(ctx context.Context, req dto.StatusCallback) error
	Drain(ctx context.Context, campaignID string, batchSize int) (dto.DrainResult, error)
	Sweep(ctx context.Context) (dto.SweepResult, error)
}

// Dependencies groups what the queue service needs so wire can fill it field by field.
type Dependencies struct {
	Config    *config.Config
	Otel      otel.Otel
	Tx        postgres.Transactor
	Cache     cache.RedisCache
	Queue     repository.Queue
	Campaigns campaignRepo.Campaign
	Hosts     hostRepo.Host
	Telephony telephony.Sender
	JWT       jwt.JWT
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Planner   schedule.Planner
	Rand      *rand.Rand
}

type serviceImpl struct {
	Dependencies

	rngMu sync.Mutex
}

func New(deps Dependencies) Queue {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)) //nolint:gosec
	}

	return &serviceImpl{Dependencies: deps}
}

// StatusForCallOutcome maps a provider call status onto the queue entry status it settles
// to. ok is false for progress states that do not end the call.
func StatusForCallOutcome(callStatus string) (status string, ok bool) {
	switch strings.ToLower(callStatus) {
	case telephony.CallStatusCompleted, telephony.CallStatusAnswered:
		return model.StatusAnswered, true
	case telephony.CallStatusNoAnswer, telephony.CallStatusBusy:
		return model.StatusNoAnswer, true
	case telephony.CallStatusFailed, telephony.CallStatusCanceled:
		return model.StatusFailed, true
	default:
		return "", false
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err() //nolint:wrapcheck
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-timer.C:
		return nil
	}
}

func (s *serviceImpl) getCampaign(ctx context.Context, id string) (campaignModel.Campaign, error) {
	campaign, err := s.Campaigns.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", id).Msg("failed to get campaign")

		return campaign, fmt.Errorf("failed to get campaign: %w", err)
	}

	if campaign.ID == constant.Empty {
		return campaign, campaignModel.ErrCampaignNotFound // nolint:wrapcheck
	}

	return campaign, nil
}

func (s *serviceImpl) rank(histories map[string]fairness.History, hostIDs []string) []fairness.Ranked {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	return fairness.Rank(histories, hostIDs, fairness.WeekOf(timezone.Now()), s.Rand)
}

// Build replaces the campaign queue with every eligible host ordered by fairness.
func (s *serviceImpl) Build(ctx context.Context, campaignID string) (res dto.BuildResult, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".queue.Build")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	campaign, err := s.getCampaign(ctx, campaignID)
	if err != nil {
		return res, err
	}

	if campaign.IsTerminal() {
		return res, ErrCampaignClosed // nolint:wrapcheck
	}

	calling, err := s.Queue.HasCalling(ctx, campaignID)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to check live calls")

		return res, fmt.Errorf("failed to check live calls: %w", err)
	}

	if calling {
		return res, ErrCallInProgress // nolint:wrapcheck
	}

	hosts, err := s.Hosts.GetEligible(ctx, campaign.IsSpecial)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to get eligible hosts")

		return res, fmt.Errorf("failed to get eligible hosts: %w", err)
	}

	if len(hosts) == 0 {
		return res, ErrNoEligibleHosts // nolint:wrapcheck
	}

	hostIDs := make([]string, len(hosts))
	byID := make(map[string]hostModel.Host, len(hosts))

	for i, host := range hosts {
		hostIDs[i] = host.ID
		byID[host.ID] = host
	}

	rows, err := s.Queue.GetHistory(ctx, hostIDs)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to get response history")

		return res, fmt.Errorf("failed to get response history: %w", err)
	}

	histories := make(map[string]fairness.History, len(rows))
	for hostID, row := range rows {
		histories[hostID] = row.ToFairness()
	}

	ranked := s.rank(histories, hostIDs)
	actor := shared.Actor(ctx)
	now := timezone.Now()

	entries := make([]model.Entry, len(ranked))
	for i, item := range ranked {
		entries[i] = model.Entry{
			ID:            uuid.NewString(),
			CampaignID:    campaignID,
			HostID:        item.HostID,
			Priority:      i,
			FairnessScore: item.Score,
			Status:        model.StatusPending,
			QueuedAt:      now,
		}
		entries[i].CreatedAt = now
		entries[i].ModifiedAt = now
		entries[i].CreatedBy = actor
		entries[i].ModifiedBy = actor
	}

	err = s.Tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.Queue.ReplaceTx(ctx, tx, campaignID, entries)
	})
	if err != nil {
		log.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to write queue")

		return res, fmt.Errorf("failed to write queue: %w", err)
	}

	s.Metrics.ObserveQueueBuild(len(entries))
	log.Info().Str("campaign_id", campaignID).Int("queued", len(entries)).Msg("queue built")

	res.CampaignID = campaignID
	res.Queued = len(entries)
	res.Entries = make([]dto.EntryResponse, len(entries))

	for i, entry := range entries {
		host := byID[entry.HostID]
		res.Entries[i].FromCandidate(model.Candidate{
			Entry:       entry,
			PhoneNumber: host.PhoneNumber,
			HostName:    host.Name,
			TotalBeds:   host.TotalBeds,
		})
	}

	return res, nil
}

func (s *serviceImpl) unlock(ctx context.Context, key, token string) {
	if err := s.Cache.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to release dispatch lock")
	}
}

// complete closes an open campaign and announces it. Losing the race to another closer is fine.
func (s *serviceImpl) complete(ctx context.Context, campaign campaignModel.Campaign) error {
	changed, err := s.Campaigns.SetStatus(ctx, campaign.ID, campaignModel.OpenStatuses, campaignModel.StatusCompleted, shared.Actor(ctx))
	if err != nil {
		log.Error().Err(err).Str("campaign_id", campaign.ID).Msg("failed to complete campaign")

		return fmt.Errorf("failed to complete campaign: %w", err)
	}

	if !changed {
		return nil
	}

	if err = s.Cache.Delete(ctx, campaignModel.CacheKey(campaign.ID)); err != nil {
		log.Warn().Err(err).Str("campaign_id", campaign.ID).Msg("failed to invalidate campaign cache")
	}

	event := events.CampaignEvent{
		Type:          events.TypeCampaignCompleted,
		CampaignID:    campaign.ID,
		Status:        campaignModel.StatusCompleted,
		BedsNeeded:    campaign.BedsNeeded,
		BedsConfirmed: campaign.BedsConfirmed,
		OccurredAt:    timezone.Now(),
	}
	if err = s.Publisher.PublishCampaignEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("campaign_id", campaign.ID).Msg("failed to publish campaign completed")
	}

	log.Info().Str("campaign_id", campaign.ID).Int("beds_confirmed", campaign.BedsConfirmed).Msg("campaign completed")

	return nil
}

// Dispatch runs one bounded batch of calls for a campaign. It is safe to invoke repeatedly
// and concurrently: the claim on each entry decides who dials.
func (s *serviceImpl) Dispatch(ctx context.Context, campaignID string, batchSize int) (res dto.DispatchResult, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".queue.Dispatch")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res.CampaignID = campaignID
	res.Results = []dto.HostResult{}

	if batchSize <= 0 {
		batchSize = s.Config.Dispatch.BatchSize
	}

	scope.SetAttributes(map[string]any{
		"campaign_id": campaignID,
		"batch_size":  batchSize,
		"dial_pause":  s.Config.Dispatch.DialPause,
	})

	lockKey := cache.BuildKey(dispatchLockPrefix, campaignID)

	token, acquired, lockErr := s.Cache.TryLock(ctx, lockKey, s.Config.Dispatch.LockTTL)
	switch {
	case lockErr != nil:
		log.Warn().Err(lockErr).Str("campaign_id", campaignID).Msg("dispatch lock unavailable, continuing without it")
	case !acquired:
		res.Busy = true
		s.Metrics.ObserveDispatch(dispatchOutcomeBusy)

		return res, nil
	default:
		defer s.unlock(ctx, lockKey, token)
	}

	campaign, err := s.getCampaign(ctx, campaignID)
	if err != nil {
		return res, err
	}

	if campaign.IsTerminal() {
		res.Terminal = true
		s.Metrics.ObserveDispatch(dispatchOutcomeTerminal)

		return res, nil
	}

	if campaign.IsFilled() {
		if err = s.complete(ctx, campaign); err != nil {
			return res, err
		}

		res.Completed = true
		s.Metrics.ObserveDispatch(dispatchOutcomeCompleted)

		return res, nil
	}

	if campaign.Status == campaignModel.StatusPending {
		if _, err = s.Campaigns.SetStatus(ctx, campaignID, []string{campaignModel.StatusPending}, campaignModel.StatusActive, shared.Actor(ctx)); err != nil {
			log.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to activate campaign")

			return res, fmt.Errorf("failed to activate campaign: %w", err)
		}

		campaign.Status = campaignModel.StatusActive
	}

	stillNeeded := campaign.StillNeeded()
	res.StillNeeded = stillNeeded

	locked, err := s.Queue.InFlightBeds(ctx, campaignID)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to sum in-flight beds")

		return res, fmt.Errorf("failed to sum in-flight beds: %w", err)
	}

	res.BedsInFlight = locked

	candidates, err := s.Queue.NextPending(ctx, campaignID, batchSize)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to get pending entries")

		return res, fmt.Errorf("failed to get pending entries: %w", err)
	}

	if len(candidates) == 0 {
		if err = s.complete(ctx, campaign); err != nil {
			return res, err
		}

		res.Completed = true
		res.BedsLocked = locked
		s.Metrics.ObserveDispatch(dispatchOutcomeCompleted)

		return res, nil
	}

	attempted := false

	for _, candidate := range candidates {
		if stillNeeded > 0 && locked >= stillNeeded {
			break
		}

		if attempted {
			if err := sleep(ctx, s.Config.Dispatch.DialPause); err != nil {
				break
			}
		}

		result, dialed := s.dialOne(ctx, campaign, candidate)
		res.Results = append(res.Results, result)

		if result.Status != dto.HostResultSkippedConflict {
			attempted = true
		}

		if dialed {
			res.Called++
			locked += candidate.TotalBeds
		}
	}

	res.BedsLocked = locked
	s.Metrics.ObserveDispatch(dispatchOutcomeDialed)

	log.Info().
		Str("campaign_id", campaignID).
		Int("called", res.Called).
		Int("still_needed", stillNeeded).
		Int("beds_locked", locked).
		Msg("dispatch batch finished")

	return res, nil
}

func (s *serviceImpl) failEntry(ctx context.Context, entryID, from, reason string) error {
	_, err := s.Queue.Transition(ctx, entryID, []string{from}, model.StatusFailed, map[string]any{
		model.FieldLastError: reason,
	})
	if err != nil {
		return fmt.Errorf("failed to mark entry failed: %w", err)
	}

	return nil
}

// dialOne claims and dials a single host. dialed reports whether a call is now live.
func (s *serviceImpl) dialOne(ctx context.Context, campaign campaignModel.Campaign, candidate model.Candidate) (result dto.HostResult, dialed bool) {
	result = dto.HostResult{
		QueueEntryID: candidate.ID,
		HostID:       candidate.HostID,
		Beds:         candidate.TotalBeds,
	}

	logger := log.With().
		Str("campaign_id", campaign.ID).
		Str("queue_entry_id", candidate.ID).
		Str("host_id", candidate.HostID).
		Logger()

	if strings.TrimSpace(candidate.PhoneNumber) == constant.Empty {
		result.Status = dto.HostResultFailed
		result.Error = ErrMissingPhoneNumber.Error()

		if err := s.failEntry(ctx, candidate.ID, model.StatusPending, ErrMissingPhoneNumber.Error()); err != nil {
			logger.Error().Err(err).Msg("failed to record missing phone number")

			result.Status = dto.HostResultError
			result.Error = err.Error()
		}

		s.Metrics.ObserveDial(metrics.DialFailed)
		logger.Warn().Msg("host has no phone number")

		return result, false
	}

	claimed, err := s.Queue.Claim(ctx, candidate.ID, candidate.HostID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to claim queue entry")

		result.Status = dto.HostResultError
		result.Error = err.Error()

		return result, false
	}

	if !claimed {
		result.Status = dto.HostResultSkippedConflict
		result.Error = ErrPersistenceConflict.Error()
		s.Metrics.ObserveDial(metrics.DialSkipped)

		return result, false
	}

	req, err := s.dialRequest(campaign, candidate)
	if err == nil {
		dialCtx, cancel := context.WithTimeout(ctx, s.Config.Dispatch.DialTimeout)

		var call telephony.DialResult
		call, err = s.Telephony.Dial(dialCtx, req)

		cancel()

		if err == nil {
			return s.recordDial(ctx, campaign, candidate, call, result, logger)
		}
	}

	reason := fmt.Sprintf("%s: %s", ErrDialInitiationFailed, err)
	result.Status = dto.HostResultFailed
	result.Error = reason

	if failErr := s.failEntry(ctx, candidate.ID, model.StatusCalling, reason); failErr != nil {
		logger.Error().Err(failErr).Msg("failed to record dial failure")
	}

	s.Metrics.ObserveDial(metrics.DialFailed)
	logger.Error().Err(err).Msg("failed to dial host")

	return result, false
}

// recordDial stores the provider call id. The call is live either way, so bookkeeping
// errors are reported on the result without un-counting the host.
func (s *serviceImpl) recordDial(
	ctx context.Context,
	campaign campaignModel.Campaign,
	candidate model.Candidate,
	call telephony.DialResult,
	result dto.HostResult,
	logger zerolog.Logger,
) (dto.HostResult, bool) {
	result.Status = dto.HostResultDialed
	result.CallID = call.CallID

	s.Metrics.ObserveDial(metrics.DialPlaced)

	_, err := s.Queue.Transition(ctx, candidate.ID, []string{model.StatusCalling}, model.StatusCalling, map[string]any{
		model.FieldProviderCallID: call.CallID,
	})
	if err != nil {
		logger.Error().Err(err).Str("call_id", call.CallID).Msg("failed to store provider call id")

		result.Error = err.Error()
	}

	now := timezone.Now()
	actor := shared.Actor(ctx)
	entryID, campaignID, hostID := candidate.ID, campaign.ID, candidate.HostID

	callLog := model.CallLog{
		ID:           uuid.NewString(),
		CallSID:      call.CallID,
		Direction:    model.DirectionOutbound,
		FromNumber:   s.Config.Telephony.FromNumber,
		ToNumber:     candidate.PhoneNumber,
		Status:       call.Status,
		HostID:       &hostID,
		CampaignID:   &campaignID,
		QueueEntryID: &entryID,
	}
	callLog.CreatedAt = now
	callLog.ModifiedAt = now
	callLog.CreatedBy = actor
	callLog.ModifiedBy = actor

	if callLog.Status == constant.Empty {
		callLog.Status = telephony.CallStatusQueued
	}

	if err = s.Queue.InsertCallLog(ctx, callLog); err != nil {
		logger.Error().Err(err).Str("call_id", call.CallID).Msg("failed to insert call log")

		result.Error = err.Error()
	}

	logger.Info().Str("call_id", call.CallID).Int("beds", candidate.TotalBeds).Msg("host dialed")

	return result, true
}

func (s *serviceImpl) dialRequest(campaign campaignModel.Campaign, candidate model.Candidate) (telephony.DialRequest, error) {
	answerURL, err := url.Parse(s.Config.Telephony.AnswerURL)
	if err != nil {
		return telephony.DialRequest{}, fmt.Errorf("invalid answer url: %w", err)
	}

	query := answerURL.Query()
	query.Set("campaign_id", campaign.ID)
	query.Set("host_id", candidate.HostID)
	query.Set("queue_entry_id", candidate.ID)

	if campaign.CustomMessageURL != nil && *campaign.CustomMessageURL != constant.Empty {
		query.Set("message_url", *campaign.CustomMessageURL)
	}

	answerURL.RawQuery = query.Encode()

	token, err := s.JWT.GenerateCallToken(candidate.ID, campaign.ID, candidate.HostID)
	if err != nil {
		return telephony.DialRequest{}, fmt.Errorf("failed to sign call token: %w", err)
	}

	callback := strings.TrimRight(s.Config.Telephony.PublicURL, "/") + statusCallbackPath + "?" +
		url.Values{constant.RequestParamToken: []string{token}}.Encode()

	return telephony.DialRequest{
		To:                candidate.PhoneNumber,
		AnswerURL:         answerURL.String(),
		StatusCallbackURL: callback,
	}, nil
}

// HandleStatus applies a delivery-status callback to the entry it was signed for.
func (s *serviceImpl) HandleStatus(ctx context.Context, req dto.StatusCallback) (err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".queue.HandleStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.JWT.ValidateCallToken(req.Token)
	if err != nil {
		log.Warn().Err(err).Str("call_sid", req.CallSid).Msg("rejected status callback")

		return failure.InvalidCallToken
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return err // nolint:wrapcheck
	}

	entry, err := s.Queue.GetByID(ctx, claims.QueueEntryID)
	if err != nil {
		log.Error().Err(err).Str("queue_entry_id", claims.QueueEntryID).Msg("failed to get queue entry")

		return fmt.Errorf("failed to get queue entry: %w", err)
	}

	if entry.ID == constant.Empty && req.CallSid != constant.Empty {
		entry, err = s.Queue.GetByProviderCallID(ctx, req.CallSid)
		if err != nil {
			log.Error().Err(err).Str("call_sid", req.CallSid).Msg("failed to get queue entry by call id")

			return fmt.Errorf("failed to get queue entry: %w", err)
		}
	}

	if entry.ID == constant.Empty {
		return ErrQueueEntryNotFound // nolint:wrapcheck
	}

	callStatus := strings.ToLower(req.CallStatus)

	if req.CallSid != constant.Empty {
		if err = s.Queue.UpdateCallLogStatus(ctx, req.CallSid, callStatus); err != nil {
			log.Warn().Err(err).Str("call_sid", req.CallSid).Msg("failed to update call log")
		}
	}

	status, final := StatusForCallOutcome(callStatus)
	if !final {
		return nil
	}

	s.Metrics.ObserveCallOutcome(callStatus)

	moved, err := s.Queue.Transition(ctx, entry.ID, []string{model.StatusCalling}, status, nil)
	if err != nil {
		log.Error().Err(err).Str("queue_entry_id", entry.ID).Msg("failed to apply call outcome")

		return fmt.Errorf("failed to apply call outcome: %w", err)
	}

	if moved {
		event := events.CampaignEvent{
			Type:         events.TypeCallOutcome,
			CampaignID:   entry.CampaignID,
			HostID:       entry.HostID,
			QueueEntryID: entry.ID,
			Status:       status,
			OccurredAt:   timezone.Now(),
		}
		if err := s.Publisher.PublishCampaignEvent(ctx, event); err != nil {
			log.Warn().Err(err).Str("queue_entry_id", entry.ID).Msg("failed to publish call outcome")
		}
	}

	if err := s.Publisher.PublishDispatchTrigger(ctx, entry.CampaignID, events.ReasonCallback); err != nil {
		log.Warn().Err(err).Str("campaign_id", entry.CampaignID).Msg("failed to publish dispatch trigger")
	}

	log.Info().
		Str("queue_entry_id", entry.ID).
		Str("call_status", callStatus).
		Bool("applied", moved).
		Msg("call status received")

	return nil
}

// Drain keeps dispatching until the campaign closes, ctx ends or the round limit is hit.
func (s *serviceImpl) Drain(ctx context.Context, campaignID string, batchSize int) (res dto.DrainResult, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".queue.Drain")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res.CampaignID = campaignID
	res.Results = []dto.HostResult{}

	maxRounds := s.Config.Dispatch.MaxDrainRounds
	if maxRounds <= 0 {
		maxRounds = 1
	}

	for res.Rounds < maxRounds {
		if ctx.Err() != nil {
			res.Stopped = dto.DrainStoppedContext

			return res, nil
		}

		round, err := s.Dispatch(ctx, campaignID, batchSize)
		if err != nil {
			return res, err
		}

		res.Rounds++
		res.Called += round.Called
		res.Results = append(res.Results, round.Results...)

		switch {
		case round.Terminal:
			res.Terminal = true

			return res, nil
		case round.Completed:
			res.Completed = true

			return res, nil
		case round.Called == 0:
			if err := sleep(ctx, s.Config.Dispatch.DrainPollInterval); err != nil {
				res.Stopped = dto.DrainStoppedContext

				return res, nil
			}
		}
	}

	res.Stopped = dto.DrainStoppedMaxRounds

	return res, nil
}

// Sweep demotes calls that never got a status callback, closes campaigns whose date has
// passed and, when enabled, schedules the next campaign.
func (s *serviceImpl) Sweep(ctx context.Context) (res dto.SweepResult, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".queue.Sweep")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()

	demoted, err := s.Queue.DemoteStale(ctx, now.Add(-s.Config.Dispatch.StaleCallingAfter))
	if err != nil {
		log.Error().Err(err).Msg("failed to demote stale calls")

		return res, fmt.Errorf("failed to demote stale calls: %w", err)
	}

	res.Demoted = len(demoted)

	retrigger := make(map[string]struct{}, len(demoted))
	for _, entry := range demoted {
		retrigger[entry.CampaignID] = struct{}{}
	}

	for campaignID := range retrigger {
		if err := s.Publisher.PublishDispatchTrigger(ctx, campaignID, events.ReasonSweep); err != nil {
			log.Warn().Err(err).Str("campaign_id", campaignID).Msg("failed to publish dispatch trigger")
		}
	}

	res.CompletedCampaigns, err = s.Campaigns.CompletePast(ctx, timezone.StartOfDay(now))
	if err != nil {
		log.Error().Err(err).Msg("failed to complete past campaigns")

		return res, fmt.Errorf("failed to complete past campaigns: %w", err)
	}

	if s.Config.Schedule.AutoCreate && s.Planner != nil {
		res.CreatedCampaignID, err = s.scheduleNext(ctx, now)
		if err != nil {
			return res, err
		}
	}

	if res.Demoted > 0 || res.CompletedCampaigns > 0 || res.CreatedCampaignID != constant.Empty {
		log.Info().
			Int("demoted", res.Demoted).
			Int64("completed_campaigns", res.CompletedCampaigns).
			Str("created_campaign_id", res.CreatedCampaignID).
			Msg("sweep finished")
	}

	return res, nil
}

// scheduleNext creates and queues the next campaign when nothing is upcoming.
func (s *serviceImpl) scheduleNext(ctx context.Context, now time.Time) (string, error) {
	upcoming, err := s.Campaigns.ExistsUpcoming(ctx, timezone.StartOfDay(now))
	if err != nil {
		log.Error().Err(err).Msg("failed to check upcoming campaigns")

		return "", fmt.Errorf("failed to check upcoming campaigns: %w", err)
	}

	if upcoming {
		return "", nil
	}

	event, err := s.Planner.Next(now)
	if err != nil {
		log.Error().Err(err).Msg("failed to plan next campaign")

		return "", fmt.Errorf("failed to plan next campaign: %w", err)
	}

	actor := shared.Actor(ctx)
	campaign := campaignModel.Campaign{
		ID:         uuid.NewString(),
		TargetDate: event.Date,
		Status:     campaignModel.StatusPending,
		IsSpecial:  event.IsSpecial,
	}
	campaign.CreatedAt = now
	campaign.ModifiedAt = now
	campaign.CreatedBy = actor
	campaign.ModifiedBy = actor

	if err = s.Campaigns.Insert(ctx, campaign); err != nil {
		log.Error().Err(err).Msg("failed to create scheduled campaign")

		return "", fmt.Errorf("failed to create scheduled campaign: %w", err)
	}

	if _, err = s.Build(ctx, campaign.ID); err != nil && !errors.Is(err, ErrNoEligibleHosts) {
		return campaign.ID, err
	}

	log.Info().
		Str("campaign_id", campaign.ID).
		Time("target_date", event.Date).
		Bool("is_special", event.IsSpecial).
		Str("occasion", event.Occasion).
		Msg("scheduled next campaign")

	return campaign.ID, nil
}
