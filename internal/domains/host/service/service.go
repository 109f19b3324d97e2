package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Host=MockHostService

import (
	"bedcall/config"
	"bedcall/infras/otel"
	"bedcall/internal/domains/host/model"
	"bedcall/internal/domains/host/model/dto"
	"bedcall/internal/domains/host/repository"
	"bedcall/shared"
	"bedcall/shared/cache"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	"bedcall/shared/failure"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetHost = "host:get"
)

var ErrHostNotFound = failure.NotFound("host not found")

type Host interface {
	Register(ctx context.Context, req dto.RegisterHostRequest) (dto.HostResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetHostsResponse, error)
	Get(ctx context.Context, id string) (dto.HostResponse, error)
	Update(ctx context.Context, req dto.UpdateHostRequest, id string) error
}

type serviceImpl struct {
	repo  repository.Host
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Host, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Host {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Register upserts a host by phone number and marks it registered for calls.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterHostRequest) (res dto.HostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".host.Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := shared.Actor(ctx)
	byPhone := shared.FilterByID(req.PhoneNumber, model.FieldPhoneNumber, model.TableName)

	existing, err := s.repo.Get(ctx, byPhone)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up host by phone number")

		return res, fmt.Errorf("failed to look up host: %w", err)
	}

	if existing.ID == constant.Empty {
		host := req.ToModel(actor)
		if err = s.repo.Insert(ctx, host); err != nil {
			log.Error().Err(err).Msg("failed to register host")

			return res, fmt.Errorf("failed to register host: %w", err)
		}

		res.FromModel(host)

		return res, nil
	}

	if _, err = s.repo.Update(ctx, req.ToUpdate(existing, actor), shared.FilterByID(existing.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("host_id", existing.ID).Msg("failed to update registered host")

		return res, fmt.Errorf("failed to update host: %w", err)
	}

	s.invalidate(ctx, existing.ID)

	updated, err := s.repo.Get(ctx, byPhone)
	if err != nil {
		return res, fmt.Errorf("failed to reload host: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetHostsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".host.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hosts")

		return res, fmt.Errorf("failed to count hosts: %w", err)
	}

	hosts, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hosts")

		return res, fmt.Errorf("failed to get hosts: %w", err)
	}

	res.FromModels(hosts, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.HostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".host.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := cache.BuildKey(cacheGetHost, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for host")

		return res, nil
	}

	host, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get host")

		return res, fmt.Errorf("failed to get host: %w", err)
	}

	if host.ID == constant.Empty {
		return res, ErrHostNotFound
	}

	res.FromModel(host)

	if cacheErr := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); cacheErr != nil {
		log.Warn().Err(cacheErr).Msg("failed to save host to cache")
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateHostRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".host.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateHostRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	affected, err := s.repo.Update(ctx, shared.TransformFields(req, shared.Actor(ctx)), filter)
	if err != nil {
		log.Error().Err(err).Str("host_id", id).Msg("failed to update host")

		return fmt.Errorf("failed to update host: %w", err)
	}

	if affected == 0 {
		return ErrHostNotFound
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cache.BuildKey(cacheGetHost, id)); err != nil {
		log.Warn().Err(err).Str("host_id", id).Msg("failed to invalidate host cache")
	}
}
