package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Campaign=MockCampaignService

import (
	"bedcall/config"
	"bedcall/infras/otel"
	"bedcall/infras/s3"
	"bedcall/internal/domains/campaign/model"
	"bedcall/internal/domains/campaign/model/dto"
	"bedcall/internal/domains/campaign/repository"
	queueDto "bedcall/internal/domains/queue/model/dto"
	queueRepo "bedcall/internal/domains/queue/repository"
	queueService "bedcall/internal/domains/queue/service"
	responseDto "bedcall/internal/domains/response/model/dto"
	responseRepo "bedcall/internal/domains/response/repository"
	"bedcall/internal/events"
	"bedcall/shared"
	"bedcall/shared/cache"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	"bedcall/shared/failure"
	"bedcall/shared/timezone"
	"bedcall/shared/validator"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	reportDirectory = "reports"

	sheetSummary   = "Summary"
	sheetQueue     = "Queue"
	sheetResponses = "Responses"
)

var ErrCampaignNotOpen = failure.Conflict("campaign is not open")

type Campaign interface {
	Create(ctx context.Context, req dto.CreateCampaignRequest) (dto.CreateCampaignResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCampaignsResponse, error)
	Get(ctx context.Context, id string) (dto.CampaignResponse, error)
	Cancel(ctx context.Context, id string) error
	Start(ctx context.Context, id string, drain bool) (dto.StartResponse, error)
	Report(ctx context.Context, id string) (dto.ReportResponse, error)
	ExportReport(ctx context.Context, id string) (dto.ExportResponse, error)
}

type Dependencies struct {
	Config       *config.Config
	Otel         otel.Otel
	Cache        cache.RedisCache
	Campaigns    repository.Campaign
	QueueEntries queueRepo.Queue
	Responses    responseRepo.Response
	Queue        queueService.Queue
	Publisher    events.Publisher
	S3           s3.S3
}

type serviceImpl struct {
	Dependencies
}

func New(deps Dependencies) Campaign {
	return &serviceImpl{Dependencies: deps}
}

// Create stores the campaign and builds its call queue right away. A campaign without
// eligible hosts is still created; the response carries a warning instead.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCampaignRequest) (res dto.CreateCampaignResponse, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".campaign.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err // nolint:wrapcheck
	}

	campaign, err := req.ToModel(shared.Actor(ctx))
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.Campaigns.Insert(ctx, campaign); err != nil {
		log.Error().Err(err).Msg("failed to create campaign")

		return res, fmt.Errorf("failed to create campaign: %w", err)
	}

	logger := log.With().Str("campaign_id", campaign.ID).Logger()

	built, err := s.Queue.Build(ctx, campaign.ID)
	switch {
	case errors.Is(err, queueService.ErrNoEligibleHosts):
		logger.Warn().Msg("campaign created without eligible hosts")

		res.Warning = queueService.ErrNoEligibleHosts.Error()
	case err != nil:
		logger.Error().Err(err).Msg("failed to build queue for new campaign")

		// A campaign without a queue would only be picked up by the sweep; drop it so the
		// caller can retry the create.
		if delErr := s.Campaigns.Delete(ctx, shared.FilterByID(campaign.ID, model.FieldID, model.TableName)); delErr != nil {
			logger.Error().Err(delErr).Msg("failed to remove campaign after queue build failure")
		}

		return res, fmt.Errorf("failed to build queue: %w", err)
	default:
		res.Queued = built.Queued
	}

	if req.StartCalling && res.Queued > 0 {
		if pubErr := s.Publisher.PublishDispatchTrigger(ctx, campaign.ID, events.ReasonCreated); pubErr != nil {
			logger.Warn().Err(pubErr).Msg("failed to publish dispatch trigger")
		}
	}

	res.Campaign.FromModel(campaign)

	logger.Info().Int("beds_needed", campaign.BedsNeeded).Int("queued", res.Queued).Msg("campaign created")

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCampaignsResponse, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".campaign.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.Campaigns.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count campaigns")

		return res, fmt.Errorf("failed to count campaigns: %w", err)
	}

	campaigns, err := s.Campaigns.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get campaigns")

		return res, fmt.Errorf("failed to get campaigns: %w", err)
	}

	res.FromModels(campaigns, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CampaignResponse, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".campaign.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := model.CacheKey(id)

	if cacheErr := s.Cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for campaign")

		return res, nil
	}

	campaign, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(campaign)

	if cacheErr := s.Cache.Save(ctx, cacheKey, res, s.Config.Cache.TTL); cacheErr != nil {
		log.Warn().Err(cacheErr).Msg("failed to save campaign to cache")
	}

	return res, nil
}

// Cancel stops an open campaign. Calls already ringing are left to finish; their answers
// are still recorded.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".campaign.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	campaign, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	cancelled, err := s.Campaigns.SetStatus(ctx, campaign.ID, model.OpenStatuses, model.StatusCancelled, shared.Actor(ctx))
	if err != nil {
		log.Error().Err(err).Str("campaign_id", id).Msg("failed to cancel campaign")

		return fmt.Errorf("failed to cancel campaign: %w", err)
	}

	if !cancelled {
		return ErrCampaignNotOpen
	}

	if cacheErr := s.Cache.Delete(ctx, model.CacheKey(id)); cacheErr != nil {
		log.Warn().Err(cacheErr).Str("campaign_id", id).Msg("failed to invalidate campaign cache")
	}

	event := events.CampaignEvent{
		Type:       events.TypeCampaignCancelled,
		CampaignID: id,
		Status:     model.StatusCancelled,
		OccurredAt: timezone.Now(),
	}
	if pubErr := s.Publisher.PublishCampaignEvent(ctx, event); pubErr != nil {
		log.Warn().Err(pubErr).Str("campaign_id", id).Msg("failed to publish campaign cancelled event")
	}

	log.Info().Str("campaign_id", id).Msg("campaign cancelled")

	return nil
}

// Start hands the campaign to the worker through a dispatch trigger, or drains it inline
// when drain is set.
func (s *serviceImpl) Start(ctx context.Context, id string, drain bool) (res dto.StartResponse, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".campaign.Start")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	campaign, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if campaign.IsTerminal() {
		return res, ErrCampaignNotOpen
	}

	res.CampaignID = id

	if !drain {
		if err = s.Publisher.PublishDispatchTrigger(ctx, id, events.ReasonStart); err != nil {
			log.Error().Err(err).Str("campaign_id", id).Msg("failed to publish dispatch trigger")

			return res, fmt.Errorf("failed to start campaign: %w", err)
		}

		res.Queued = true

		return res, nil
	}

	result, err := s.Queue.Drain(ctx, id, s.Config.Dispatch.BatchSize)
	if err != nil {
		return res, fmt.Errorf("failed to drain campaign: %w", err)
	}

	res.Drain = &result

	return res, nil
}

func (s *serviceImpl) Report(ctx context.Context, id string) (res dto.ReportResponse, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".campaign.Report")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	campaign, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	logger := log.With().Str("campaign_id", id).Logger()

	counts, err := s.QueueEntries.CountByStatus(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msg("failed to count queue entries")

		return res, fmt.Errorf("failed to count queue entries: %w", err)
	}

	candidates, err := s.QueueEntries.GetCandidates(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get queue entries")

		return res, fmt.Errorf("failed to get queue entries: %w", err)
	}

	responses, err := s.Responses.GetByCampaign(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get responses")

		return res, fmt.Errorf("failed to get responses: %w", err)
	}

	res.Campaign.FromModel(campaign)
	res.StatusCounts = counts
	res.Queue = queueDto.FromCandidates(candidates)

	res.Responses = make([]responseDto.ResponseResponse, len(responses))
	for i, response := range responses {
		res.Responses[i].FromModel(response)
	}

	return res, nil
}

// ExportReport renders the report as a workbook and uploads it to object storage.
func (s *serviceImpl) ExportReport(ctx context.Context, id string) (res dto.ExportResponse, err error) {
	ctx, scope := s.Otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".campaign.ExportReport")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	report, err := s.Report(ctx, id)
	if err != nil {
		return res, err
	}

	data, err := renderWorkbook(report)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", id).Msg("failed to render report workbook")

		return res, fmt.Errorf("failed to render report: %w", err)
	}

	fileName := fmt.Sprintf("campaign-%s-%s.xlsx", id, report.Campaign.TargetDate)

	url, err := s.S3.Upload(ctx, reportDirectory, fileName, constant.ContentTypeXLSX, data)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", id).Msg("failed to upload report")

		return res, fmt.Errorf("failed to upload report: %w", err)
	}

	res.CampaignID = id
	res.FileName = fileName
	res.URL = url

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Campaign, error) {
	campaign, err := s.Campaigns.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", id).Msg("failed to get campaign")

		return campaign, fmt.Errorf("failed to get campaign: %w", err)
	}

	if campaign.ID == constant.Empty {
		return campaign, model.ErrCampaignNotFound // nolint:wrapcheck
	}

	return campaign, nil
}

func optional(value *string) string {
	if value == nil {
		return constant.Empty
	}

	return *value
}

func renderWorkbook(report dto.ReportResponse) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), sheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	campaign := report.Campaign
	summary := [][]any{
		{"Campaign", campaign.ID},
		{"Target date", campaign.TargetDate},
		{"Status", campaign.Status},
		{"Beds needed", campaign.BedsNeeded},
		{"Beds confirmed", campaign.BedsConfirmed},
		{"Still needed", campaign.StillNeeded},
	}
	for _, status := range slices.Sorted(maps.Keys(report.StatusCounts)) {
		summary = append(summary, []any{"Queue " + status, report.StatusCounts[status]})
	}

	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cell: %w", err)
		}

		if err = xl.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	queueRows := make([][]any, len(report.Queue))
	for i, entry := range report.Queue {
		queueRows[i] = []any{
			entry.Priority, entry.HostName, entry.PhoneNumber, entry.TotalBeds,
			entry.FairnessScore, entry.Status, entry.QueuedAt, optional(entry.CalledAt),
			optional(entry.RespondedAt), optional(entry.LastError),
		}
	}

	queueHeader := []any{"Priority", "Host", "Phone", "Beds", "Fairness score", "Status", "Queued at", "Called at", "Responded at", "Last error"}
	if err := writeSheet(xl, sheetQueue, queueHeader, queueRows); err != nil {
		return nil, err
	}

	responseRows := make([][]any, len(report.Responses))
	for i, response := range report.Responses {
		responseRows[i] = []any{response.HostID, response.ResponseType, response.BedsOffered, response.Method, response.RespondedAt}
	}

	responseHeader := []any{"Host", "Response", "Beds offered", "Method", "Responded at"}
	if err := writeSheet(xl, sheetResponses, responseHeader, responseRows); err != nil {
		return nil, err
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSheet(xl *excelize.File, name string, header []any, rows [][]any) error {
	if _, err := xl.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	if err := xl.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}

	for ri, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}

		if err = xl.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	return nil
}
