package middleware

import (
	"bedcall/config"
	"bedcall/infras/otel"
	"bedcall/shared/constant"
	"bedcall/shared/failure"
	"bedcall/transport/http/response"
	"context"
	"crypto/subtle"
	"net/http"
)

// Auth guards the operator API. There are no user sessions; callers present the shared API key
// and may name themselves in X-Actor for the audit columns.
type Auth interface {
	APIKey(http.Handler) http.Handler
}

type authImpl struct {
	otel otel.Otel
	cfg  *config.Config
}

func NewAuthMiddleware(otel otel.Otel, cfg *config.Config) Auth {
	return &authImpl{
		otel: otel,
		cfg:  cfg,
	}
}

func (m *authImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if m.cfg.App.APIKey == constant.Empty ||
			subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.App.APIKey)) != 1 {
			response.WithError(writer, failure.InvalidAPIKey)

			scope.TraceError(failure.InvalidAPIKey)
			scope.End()

			return
		}

		actor := request.Header.Get(constant.RequestHeaderActor)
		if actor == constant.Empty {
			actor = constant.ContextSystem
		}

		scope.SetAttribute("actor", actor)
		scope.End()

		ctx = context.WithValue(ctx, constant.ContextKeyActor, actor)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
