package telephony

//go:generate go run go.uber.org/mock/mockgen -source=./telephony.go -destination=./mocks/telephony_mock.go -package=mocks

import (
	"bedcall/config"
	"bedcall/infras/otel"
	"bedcall/shared/constant"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Provider call states as reported by LaML status callbacks.
const (
	CallStatusQueued     = "queued"
	CallStatusInitiated  = "initiated"
	CallStatusRinging    = "ringing"
	CallStatusInProgress = "in-progress"
	CallStatusAnswered   = "answered"
	CallStatusCompleted  = "completed"
	CallStatusBusy       = "busy"
	CallStatusNoAnswer   = "no-answer"
	CallStatusFailed     = "failed"
	CallStatusCanceled   = "canceled"
)

const (
	callsPathFormat    = "/api/laml/2010-04-01/Accounts/%s/Calls.json"
	maxErrorBodyBytes  = 4 << 10
	otelAttrToNumber   = "telephony.to"
	otelAttrProviderID = "telephony.call_sid"
)

var (
	ErrDialRejected     = errors.New("telephony provider rejected call")
	ErrMissingRecipient = errors.New("recipient number is required")
)

type DialRequest struct {
	To                string
	AnswerURL         string
	StatusCallbackURL string
}

type DialResult struct {
	CallID string
	Status string
}

// Sender places outbound calls. The provider fetches AnswerURL once the call is picked up
// and reports the final state to StatusCallbackURL.
type Sender interface {
	Dial(ctx context.Context, req DialRequest) (DialResult, error)
}

type signalwire struct {
	client   *http.Client
	config   *config.Config
	otel     otel.Otel
	endpoint string
}

type callResponse struct {
	Sid     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func New(cfg *config.Config, otel otel.Otel) Sender {
	base := strings.TrimSuffix(cfg.Telephony.SpaceURL, "/")
	if base != "" && !strings.Contains(base, "://") {
		base = "https://" + base
	}

	return &signalwire{
		client:   &http.Client{Timeout: cfg.Telephony.RequestTimeout},
		config:   cfg,
		otel:     otel,
		endpoint: base + fmt.Sprintf(callsPathFormat, url.PathEscape(cfg.Telephony.ProjectID)),
	}
}

func (s *signalwire) Dial(ctx context.Context, req DialRequest) (result DialResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".telephony.Dial")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.To == "" {
		return result, ErrMissingRecipient
	}

	scope.SetAttribute(otelAttrToNumber, req.To)

	form := url.Values{}
	form.Set("From", s.config.Telephony.FromNumber)
	form.Set("To", req.To)
	form.Set("Url", req.AnswerURL)
	form.Set("Method", http.MethodPost)
	form.Set("Timeout", strconv.Itoa(s.config.Telephony.RingTimeoutSeconds))

	if req.StatusCallbackURL != "" {
		form.Set("StatusCallback", req.StatusCallbackURL)
		form.Set("StatusCallbackMethod", http.MethodPost)
		form.Add("StatusCallbackEvent", CallStatusCompleted)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return result, fmt.Errorf("failed to build dial request: %w", err)
	}

	httpReq.SetBasicAuth(s.config.Telephony.ProjectID, s.config.Telephony.APIToken)
	httpReq.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeFormURLEncoded)
	httpReq.Header.Set("Accept", constant.ContentTypeJSON)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("to", req.To).Msg("failed to reach telephony provider")

		return result, fmt.Errorf("failed to call telephony provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return result, fmt.Errorf("failed to read telephony response: %w", err)
	}

	var payload callResponse
	_ = json.Unmarshal(body, &payload)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := payload.Message
		if message == "" {
			message = strings.TrimSpace(string(body))
		}

		log.Warn().Int("status", resp.StatusCode).Str("to", req.To).Str("message", message).Msg("telephony provider rejected call")

		return result, fmt.Errorf("%w: status %d: %s", ErrDialRejected, resp.StatusCode, message)
	}

	if payload.Sid == "" {
		return result, fmt.Errorf("%w: response carried no call sid", ErrDialRejected)
	}

	scope.SetAttribute(otelAttrProviderID, payload.Sid)

	return DialResult{CallID: payload.Sid, Status: payload.Status}, nil
}
