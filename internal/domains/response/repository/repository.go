package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"bedcall/infras/otel"
	"bedcall/infras/postgres"
	"bedcall/internal/domains/response/model"
	gDto "bedcall/shared/dto"
	gRepo "bedcall/shared/repository"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Response interface {
	Insert(ctx context.Context, model model.Response) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Response) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Response, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	GetByCampaign(ctx context.Context, campaignID string) ([]model.Response, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Response]
}

func New(db *postgres.Connection, otel otel.Otel) Response {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Response](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// GetByCampaign lists every answer given for a campaign in the order it arrived.
func (r *repositoryImpl) GetByCampaign(ctx context.Context, campaignID string) ([]model.Response, error) {
	responses, err := r.GetAll(ctx,
		gDto.QueryParams{SortBy: model.FieldRespondedAt, SortDir: gDto.SortDirAsc},
		gDto.FilterGroup{Filters: []any{gDto.Filter{
			Field:    model.FieldCampaignID,
			Operator: gDto.FilterOperatorEq,
			Value:    campaignID,
			Table:    model.TableName,
		}}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign responses: %w", err)
	}

	return responses, nil
}
