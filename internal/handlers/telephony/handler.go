package telephony

import (
	"bedcall/infras/otel"
	"bedcall/internal/domains/queue/model/dto"
	"bedcall/internal/domains/queue/service"
	"bedcall/shared/constant"
	"bedcall/shared/failure"
	"bedcall/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formCallSid    = "CallSid"
	formCallStatus = "CallStatus"
)

type Handler struct {
	queue service.Queue
	otel  otel.Otel
}

func New(queue service.Queue, otel otel.Otel) Handler {
	return Handler{
		queue: queue,
		otel:  otel,
	}
}

// Router mounts the provider webhooks. They authenticate with the signed call token and
// must stay outside the API key group.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/telephony", func(routerGroup chi.Router) {
		routerGroup.Post("/status", handler.CallStatus)
	})
}

// CallStatus receives delivery-status callbacks for outbound calls.
// @Summary Call status callback
// @Tags Telephony
// @Accept x-www-form-urlencoded
// @Produce json
// @Param token query string true "Signed call token"
// @Param CallSid formData string false "Provider call id"
// @Param CallStatus formData string true "Provider call status"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/telephony/status [post]
func (handler *Handler) CallStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CallStatus")
	defer scope.End()

	if err := r.ParseForm(); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.StatusCallback{
		Token:      r.URL.Query().Get(constant.RequestParamToken),
		CallSid:    r.PostForm.Get(formCallSid),
		CallStatus: r.PostForm.Get(formCallStatus),
	}

	if err := handler.queue.HandleStatus(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("call_sid", req.CallSid).Msg("failed to handle call status")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Status received")
}
