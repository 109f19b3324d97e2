//go:build wireinject
// +build wireinject

package di

import (
	"bedcall/config"
	"bedcall/infras/jwt"
	"bedcall/infras/kafka"
	"bedcall/infras/otel"
	"bedcall/infras/postgres"
	"bedcall/infras/redis"
	"bedcall/infras/s3"
	"bedcall/infras/telephony"
	"bedcall/internal/domains/campaign/schedule"
	"bedcall/internal/events"
	campaignHandler "bedcall/internal/handlers/campaign"
	hostHandler "bedcall/internal/handlers/host"
	responseHandler "bedcall/internal/handlers/responses"
	telephonyHandler "bedcall/internal/handlers/telephony"
	"bedcall/internal/worker"
	"bedcall/shared/cache"
	"bedcall/shared/metrics"
	"bedcall/transport/http"
	"bedcall/transport/http/middleware"
	"bedcall/transport/http/router"

	campaignRepository "bedcall/internal/domains/campaign/repository"
	campaignService "bedcall/internal/domains/campaign/service"
	hostRepository "bedcall/internal/domains/host/repository"
	hostService "bedcall/internal/domains/host/service"
	queueRepository "bedcall/internal/domains/queue/repository"
	queueService "bedcall/internal/domains/queue/service"
	responseRepository "bedcall/internal/domains/response/repository"
	responseService "bedcall/internal/domains/response/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	telephony.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	metrics.New,
	events.NewPublisher,
	schedule.NewPlanner,
)

var hostDomain = wire.NewSet(
	hostRepository.New,
	hostService.New,
)

var queueDomain = wire.NewSet(
	queueRepository.New,
	wire.Struct(new(queueService.Dependencies),
		"Config", "Otel", "Tx", "Cache", "Queue", "Campaigns", "Hosts",
		"Telephony", "JWT", "Publisher", "Metrics", "Planner"),
	queueService.New,
)

var campaignDomain = wire.NewSet(
	campaignRepository.New,
	wire.Struct(new(campaignService.Dependencies), "*"),
	campaignService.New,
)

var responseDomain = wire.NewSet(
	responseRepository.New,
	wire.Struct(new(responseService.Dependencies), "*"),
	responseService.New,
)

var domains = wire.NewSet(
	hostDomain,
	queueDomain,
	campaignDomain,
	responseDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	campaignHandler.New,
	hostHandler.New,
	responseHandler.New,
	telephonyHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil
}

func InitializeWorker() (*worker.Worker, error) {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		wire.Struct(new(worker.Dependencies), "*"),
		worker.New,
	)

	return &worker.Worker{}, nil
}

func InitializeOperator() (*Operator, error) {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		wire.Struct(new(Operator), "*"),
	)

	return &Operator{}, nil
}
