package router

import (
	"bedcall/config"
	"bedcall/internal/handlers/campaign"
	"bedcall/internal/handlers/host"
	"bedcall/internal/handlers/responses"
	"bedcall/internal/handlers/telephony"
	"bedcall/shared/constant"
	"bedcall/shared/metrics"
	"bedcall/transport/http/middleware"
	"bedcall/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "bedcall/docs" //nolint:revive
)

type DomainHandlers struct {
	Campaign  campaign.Handler
	Host      host.Handler
	Response  responses.Handler
	Telephony telephony.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	Auth           middleware.Auth
	Metrics        *metrics.Metrics
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(chiMiddleware.RequestID, chiMiddleware.Recoverer)

	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(r.App.Tracing, r.App.Metrics)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.WithMessage(w, http.StatusOK, "OK")
	})

	if r.Config.Metrics.Enable {
		router.Handle("/metrics", r.Metrics.Handler())
	}

	if r.Config.Server.Env != constant.ServerEnvProduction {
		router.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.App.RateLimit())

		r.DomainHandlers.Telephony.Router(routerGroup)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(r.Auth.APIKey)

			r.DomainHandlers.Campaign.Router(protected)
			r.DomainHandlers.Host.Router(protected)
			r.DomainHandlers.Response.Router(protected)
		})
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, auth middleware.Auth, metrics *metrics.Metrics, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		Auth:           auth,
		Metrics:        metrics,
		Config:         cfg,
	}
}
