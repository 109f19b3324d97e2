package campaign

import (
	"bedcall/infras/otel"
	"bedcall/internal/domains/campaign/model"
	"bedcall/internal/domains/campaign/model/dto"
	"bedcall/internal/domains/campaign/service"
	queueService "bedcall/internal/domains/queue/service"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	"bedcall/shared/failure"
	"bedcall/shared/validator"
	"bedcall/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryBatchSize = "batch_size"
	queryDrain     = "drain"
)

type Handler struct {
	service service.Campaign
	queue   queueService.Queue
	otel    otel.Otel
}

func New(service service.Campaign, queue queueService.Queue, otel otel.Otel) Handler {
	return Handler{
		service: service,
		queue:   queue,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/campaigns", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCampaign)
		routerGroup.Get("/", handler.GetCampaigns)
		routerGroup.Get("/{id}", handler.GetCampaignByID)
		routerGroup.Post("/{id}/cancel", handler.CancelCampaign)
		routerGroup.Post("/{id}/queue", handler.BuildQueue)
		routerGroup.Post("/{id}/dispatch", handler.Dispatch)
		routerGroup.Post("/{id}/start", handler.StartCampaign)
		routerGroup.Get("/{id}/report", handler.GetReport)
		routerGroup.Post("/{id}/report/export", handler.ExportReport)
	})
}

// CreateCampaign handles the creation of a campaign and its call queue.
// @Summary Create a campaign
// @Description Create a bed campaign for a target date and build its call queue.
// @Tags Campaign
// @Accept json
// @Produce json
// @Param request body dto.CreateCampaignRequest true "Create Campaign Request"
// @Success 201 {object} response.Data[dto.CreateCampaignResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/campaigns [post]
// @Security ApiKeyAuth
func (handler *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCampaign")
	defer scope.End()

	req := dto.CreateCampaignRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create campaign")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Campaign created " + res.Campaign.ID)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetCampaigns lists campaigns.
// @Summary Get all campaigns
// @Tags Campaign
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, active, completed, cancelled)"
// @Param target_date query string false "Filter by target date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetCampaignsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/campaigns [get]
// @Security ApiKeyAuth
func (handler *Handler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCampaigns")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.EqualFilters(r, model.TableName, model.FieldStatus, model.FieldTargetDate)

	campaigns, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get campaigns")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, campaigns)
}

// GetCampaignByID retrieves a campaign with its bed counters.
// @Summary Get a campaign by ID
// @Tags Campaign
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Data[dto.CampaignResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/campaigns/{id} [get]
// @Security ApiKeyAuth
func (handler *Handler) GetCampaignByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCampaignByID")
	defer scope.End()

	campaign, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get campaign by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, campaign)
}

// CancelCampaign stops an open campaign.
// @Summary Cancel a campaign
// @Tags Campaign
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/campaigns/{id}/cancel [post]
// @Security ApiKeyAuth
func (handler *Handler) CancelCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelCampaign")
	defer scope.End()

	if err := handler.service.Cancel(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel campaign")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Campaign cancelled successfully")
}

// BuildQueue rebuilds the campaign's call queue from the current eligible hosts.
// @Summary Rebuild the call queue
// @Tags Queue
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Data[any] "Rebuilt queue"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/campaigns/{id}/queue [post]
// @Security ApiKeyAuth
func (handler *Handler) BuildQueue(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BuildQueue")
	defer scope.End()

	res, err := handler.queue.Build(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build queue")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Dispatch runs one dispatch batch for the campaign.
// @Summary Dispatch one batch of calls
// @Tags Queue
// @Produce json
// @Param id path string true "Campaign ID"
// @Param batch_size query int false "Maximum calls to place"
// @Success 200 {object} response.Data[any] "Dispatch result"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/campaigns/{id}/dispatch [post]
// @Security ApiKeyAuth
func (handler *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Dispatch")
	defer scope.End()

	batchSize := 0

	if raw := r.URL.Query().Get(queryBatchSize); raw != constant.Empty {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.WithError(w, failure.BadRequestFromString("batch_size must be a positive integer"))

			return
		}

		batchSize = parsed
	}

	res, err := handler.queue.Dispatch(ctx, chi.URLParam(r, constant.RequestParamID), batchSize)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to dispatch")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// StartCampaign starts calling. With drain=true the request blocks until the campaign closes.
// @Summary Start calling for a campaign
// @Tags Campaign
// @Produce json
// @Param id path string true "Campaign ID"
// @Param drain query bool false "Drain synchronously"
// @Success 202 {object} response.Data[dto.StartResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/campaigns/{id}/start [post]
// @Security ApiKeyAuth
func (handler *Handler) StartCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartCampaign")
	defer scope.End()

	drain, _ := strconv.ParseBool(r.URL.Query().Get(queryDrain))

	res, err := handler.service.Start(ctx, chi.URLParam(r, constant.RequestParamID), drain)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to start campaign")

		response.WithError(w, err)

		return
	}

	code := http.StatusAccepted
	if drain {
		code = http.StatusOK
	}

	response.WithJSON(w, code, res)
}

// GetReport summarises a campaign.
// @Summary Campaign report
// @Tags Campaign
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Data[dto.ReportResponse]
// @Failure 404 {object} response.Error
// @Router /v1/campaigns/{id}/report [get]
// @Security ApiKeyAuth
func (handler *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReport")
	defer scope.End()

	report, err := handler.service.Report(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get campaign report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, report)
}

// ExportReport uploads the campaign report as a spreadsheet.
// @Summary Export campaign report
// @Tags Campaign
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Data[dto.ExportResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/campaigns/{id}/report/export [post]
// @Security ApiKeyAuth
func (handler *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportReport")
	defer scope.End()

	res, err := handler.service.ExportReport(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export campaign report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
