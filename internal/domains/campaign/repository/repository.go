package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"bedcall/infras/otel"
	"bedcall/infras/postgres"
	"bedcall/internal/domains/campaign/model"
	"bedcall/shared"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	gRepo "bedcall/shared/repository"
	"bedcall/shared/timezone"
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	// incrementConfirmedQuery skips the increment when the host already has an accepted entry,
	// so a repeated accept for the same campaign is never counted twice. Callers hold LockTx so
	// the subquery sees an accept committed by a concurrent transaction.
	incrementConfirmedQuery = `
UPDATE campaigns
SET beds_confirmed = beds_confirmed + $3, modified_at = $4, modified_by = $5
WHERE id = $1
  AND NOT EXISTS (
    SELECT 1 FROM queue_entries
    WHERE queue_entries.campaign_id = $1 AND queue_entries.host_id = $2 AND queue_entries.status = 'accepted'
  )`

	lockCampaignQuery = `SELECT id FROM campaigns WHERE id = $1 FOR UPDATE`
)

type Campaign interface {
	Insert(ctx context.Context, model model.Campaign) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Campaign, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Campaign, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetByID(ctx context.Context, id string) (model.Campaign, error)
	SetStatus(ctx context.Context, id string, from []string, to, actor string) (bool, error)
	LockTx(ctx context.Context, tx *sqlx.Tx, id string) error
	IncrementConfirmedTx(ctx context.Context, tx *sqlx.Tx, campaignID, hostID string, beds int, actor string) (bool, error)
	GetActive(ctx context.Context) ([]model.Campaign, error)
	CompletePast(ctx context.Context, today time.Time) (int64, error)
	ExistsUpcoming(ctx context.Context, today time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Campaign]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Campaign {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Campaign](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func statusIn(statuses []string) gDto.Filter {
	return gDto.Filter{
		Field:    model.FieldStatus,
		Operator: gDto.FilterOperatorIn,
		Value:    statuses,
		Table:    model.TableName,
	}
}

// GetByID returns a zero Campaign when the id is unknown.
func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Campaign, error) {
	return r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

// SetStatus moves the campaign to `to` only while it is in one of `from`. Completing stamps completed_at.
func (r *repositoryImpl) SetStatus(ctx context.Context, id string, from []string, to, actor string) (bool, error) {
	fields := map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if to == model.StatusCompleted {
		fields[model.FieldCompletedAt] = timezone.Now()
	}

	affected, err := r.Update(ctx, fields, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.TableName},
			statusIn(from),
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to set campaign status: %w", err)
	}

	return affected > 0, nil
}

// LockTx holds the campaign row until tx ends, serializing accepts for one campaign.
func (r *repositoryImpl) LockTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".campaign.LockTx")
	defer scope.End()

	var locked string
	if err := tx.GetContext(ctx, &locked, lockCampaignQuery, id); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to lock campaign: %w", err)
	}

	return nil
}

func (r *repositoryImpl) IncrementConfirmedTx(ctx context.Context, tx *sqlx.Tx, campaignID, hostID string, beds int, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".campaign.IncrementConfirmedTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, incrementConfirmedQuery)

	result, err := tx.ExecContext(ctx, incrementConfirmedQuery, campaignID, hostID, beds, timezone.Now(), actor)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to increment confirmed beds: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// GetActive lists campaigns an admin has started. Pending campaigns wait for Start.
func (r *repositoryImpl) GetActive(ctx context.Context) ([]model.Campaign, error) {
	campaigns, err := r.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldTargetDate, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{
		Filters: []any{statusIn([]string{model.StatusActive})},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get active campaigns: %w", err)
	}

	return campaigns, nil
}

// CompletePast closes open campaigns whose target date is before today.
func (r *repositoryImpl) CompletePast(ctx context.Context, today time.Time) (int64, error) {
	now := timezone.Now()

	affected, err := r.Update(ctx, map[string]any{
		model.FieldStatus:        model.StatusCompleted,
		model.FieldCompletedAt:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: constant.ContextSystem,
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			statusIn(model.OpenStatuses),
			gDto.Filter{Field: model.FieldTargetDate, Operator: gDto.FilterOperatorLess, Value: today, Table: model.TableName},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to complete past campaigns: %w", err)
	}

	return affected, nil
}

func (r *repositoryImpl) ExistsUpcoming(ctx context.Context, today time.Time) (bool, error) {
	exist, err := r.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			statusIn(model.OpenStatuses),
			gDto.Filter{Field: model.FieldTargetDate, Operator: gDto.FilterOperatorGreaterEq, Value: today, Table: model.TableName},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check upcoming campaigns: %w", err)
	}

	return exist, nil
}
