package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"bedcall/infras/otel"
	"bedcall/infras/postgres"
	"bedcall/internal/domains/host/model"
	"bedcall/shared"
	gDto "bedcall/shared/dto"
	gRepo "bedcall/shared/repository"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Host interface {
	Insert(ctx context.Context, model model.Host) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Host, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Host, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	GetByID(ctx context.Context, id string) (model.Host, error)
	GetEligible(ctx context.Context, includeSpecial bool) ([]model.Host, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Host]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Host {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Host](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// EligibleFilter selects registered hosts with at least one bed whose call frequency matches the campaign.
func EligibleFilter(includeSpecial bool) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsRegistered,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldTotalBeds,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    1,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCallFrequency,
				Operator: gDto.FilterOperatorIn,
				Value:    model.Frequencies(includeSpecial),
				Table:    model.TableName,
			},
		},
	}
}

func (r *repositoryImpl) GetEligible(ctx context.Context, includeSpecial bool) ([]model.Host, error) {
	hosts, err := r.GetAll(ctx, gDto.QueryParams{}, EligibleFilter(includeSpecial))
	if err != nil {
		return nil, fmt.Errorf("failed to get eligible hosts: %w", err)
	}

	return hosts, nil
}

// GetByID returns a zero Host when the id is unknown.
func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Host, error) {
	return r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}
