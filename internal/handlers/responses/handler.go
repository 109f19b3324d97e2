package responses

import (
	"bedcall/infras/otel"
	"bedcall/internal/domains/response/model/dto"
	"bedcall/internal/domains/response/service"
	"bedcall/shared/constant"
	"bedcall/shared/validator"
	"bedcall/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Response
	otel    otel.Otel
}

func New(service service.Response, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/responses", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.RecordResponse)
		routerGroup.Post("/modify-beds", handler.ModifyBeds)
	})
}

// RecordResponse records a host's answer for a campaign.
// @Summary Record a host response
// @Description Record accept, decline, callback or cancel. Accepts count toward the campaign's confirmed beds once per host.
// @Tags Response
// @Accept json
// @Produce json
// @Param request body dto.RecordRequest true "Record Response Request"
// @Success 201 {object} response.Data[dto.RecordResult]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/responses [post]
// @Security ApiKeyAuth
func (handler *Handler) RecordResponse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordResponse")
	defer scope.End()

	req := dto.RecordRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Record(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record response")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// ModifyBeds updates a host's bed count and accepts for that many beds.
// @Summary Modify beds and accept
// @Tags Response
// @Accept json
// @Produce json
// @Param request body dto.ModifyBedsRequest true "Modify Beds Request"
// @Success 201 {object} response.Data[dto.RecordResult]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/responses/modify-beds [post]
// @Security ApiKeyAuth
func (handler *Handler) ModifyBeds(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ModifyBeds")
	defer scope.End()

	req := dto.ModifyBedsRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ModifyBeds(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to modify beds")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}
