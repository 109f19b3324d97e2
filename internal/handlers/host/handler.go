package host

import (
	"bedcall/infras/otel"
	"bedcall/internal/domains/host/model"
	"bedcall/internal/domains/host/model/dto"
	"bedcall/internal/domains/host/service"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	"bedcall/shared/validator"
	"bedcall/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Host
	otel    otel.Otel
}

func New(service service.Host, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/hosts", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.RegisterHost)
		routerGroup.Get("/", handler.GetHosts)
		routerGroup.Get("/{id}", handler.GetHostByID)
		routerGroup.Put("/{id}", handler.UpdateHost)
	})
}

// RegisterHost registers a host, or refreshes one already known by phone number.
// @Summary Register a host
// @Tags Host
// @Accept json
// @Produce json
// @Param request body dto.RegisterHostRequest true "Register Host Request"
// @Success 200 {object} response.Data[dto.HostResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hosts [post]
// @Security ApiKeyAuth
func (handler *Handler) RegisterHost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RegisterHost")
	defer scope.End()

	req := dto.RegisterHostRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	host, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register host")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, host)
}

// GetHosts lists hosts.
// @Summary Get all hosts
// @Tags Host
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param call_frequency query string false "Filter by call frequency (weekly, special)"
// @Param is_registered query bool false "Filter by registration"
// @Success 200 {object} response.Data[dto.GetHostsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/hosts [get]
// @Security ApiKeyAuth
func (handler *Handler) GetHosts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHosts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.EqualFilters(r, model.TableName, model.FieldCallFrequency, model.FieldIsRegistered)

	hosts, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hosts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, hosts)
}

// GetHostByID retrieves a host.
// @Summary Get a host by ID
// @Tags Host
// @Produce json
// @Param id path string true "Host ID"
// @Success 200 {object} response.Data[dto.HostResponse]
// @Failure 404 {object} response.Error
// @Router /v1/hosts/{id} [get]
// @Security ApiKeyAuth
func (handler *Handler) GetHostByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHostByID")
	defer scope.End()

	host, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get host by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, host)
}

// UpdateHost changes a host's details.
// @Summary Update a host
// @Tags Host
// @Accept json
// @Produce json
// @Param id path string true "Host ID"
// @Param request body dto.UpdateHostRequest true "Update Host Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/hosts/{id} [put]
// @Security ApiKeyAuth
func (handler *Handler) UpdateHost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateHost")
	defer scope.End()

	req := dto.UpdateHostRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update host")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Host updated successfully")
}
