package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"bedcall/infras/otel"
	"bedcall/infras/postgres"
	"bedcall/internal/domains/queue/model"
	"bedcall/shared"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	gRepo "bedcall/shared/repository"
	"bedcall/shared/timezone"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	entryColumns = `queue_entries.id, queue_entries.campaign_id, queue_entries.host_id, queue_entries.priority,
queue_entries.fairness_score, queue_entries.status, queue_entries.provider_call_id, queue_entries.last_error,
queue_entries.queued_at, queue_entries.called_at, queue_entries.responded_at, queue_entries.created_at,
queue_entries.modified_at, queue_entries.created_by, queue_entries.modified_by`

	nextPendingQuery = `
SELECT ` + entryColumns + `,
  hosts.phone_number AS host_phone_number, hosts.name AS host_name, hosts.total_beds AS host_total_beds
FROM queue_entries
JOIN hosts ON hosts.id = queue_entries.host_id
WHERE queue_entries.campaign_id = $1 AND queue_entries.status = 'pending'
ORDER BY queue_entries.priority ASC, queue_entries.queued_at ASC
LIMIT $2`

	// claimQuery is the single serialization point for dialing: the row must still be pending
	// and the host must not be on a live call for any campaign.
	claimQuery = `
UPDATE queue_entries
SET status = 'calling', called_at = $3, modified_at = $3, last_error = NULL
WHERE id = $1 AND status = 'pending'
  AND NOT EXISTS (
    SELECT 1 FROM queue_entries other
    WHERE other.host_id = $2 AND other.status = 'calling' AND other.id <> $1
  )`

	inFlightBedsQuery = `
SELECT COALESCE(SUM(hosts.total_beds), 0)
FROM queue_entries
JOIN hosts ON hosts.id = queue_entries.host_id
WHERE queue_entries.campaign_id = $1 AND queue_entries.status = 'calling'`

	historyQuery = `
SELECT host_id,
  MAX(responded_at) FILTER (WHERE response_type = 'accepted') AS last_accepted_at,
  COUNT(*) FILTER (WHERE response_type = 'accepted') AS accepted_count,
  COUNT(*) FILTER (WHERE response_type = 'declined') AS declined_count
FROM responses
WHERE host_id = ANY($1::uuid[])
GROUP BY host_id`

	countByStatusQuery = `SELECT status, COUNT(*) AS total FROM queue_entries WHERE campaign_id = $1 GROUP BY status`

	demoteStaleQuery = `
UPDATE queue_entries
SET status = 'no_answer', last_error = $2, modified_at = $3
WHERE status = 'calling' AND called_at < $1
RETURNING ` + entryColumns

	staleCallError = "no status callback received"
)

type Queue interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Entry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Entry, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	GetByID(ctx context.Context, id string) (model.Entry, error)
	GetByProviderCallID(ctx context.Context, callID string) (model.Entry, error)
	HasCalling(ctx context.Context, campaignID string) (bool, error)
	ReplaceTx(ctx context.Context, tx *sqlx.Tx, campaignID string, entries []model.Entry) error
	GetHistory(ctx context.Context, hostIDs []string) (map[string]model.History, error)
	InFlightBeds(ctx context.Context, campaignID string) (int, error)
	NextPending(ctx context.Context, campaignID string, limit int) ([]model.Candidate, error)
	GetCandidates(ctx context.Context, campaignID string) ([]model.Candidate, error)
	CountByStatus(ctx context.Context, campaignID string) (map[string]int, error)
	Claim(ctx context.Context, entryID, hostID string) (bool, error)
	Transition(ctx context.Context, entryID string, from []string, to string, fields map[string]any) (bool, error)
	TransitionForHostTx(ctx context.Context, tx *sqlx.Tx, campaignID, hostID string, from []string, to string) (bool, error)
	DemoteStale(ctx context.Context, before time.Time) ([]model.Entry, error)
	InsertCallLog(ctx context.Context, log model.CallLog) error
	UpdateCallLogStatus(ctx context.Context, callSID, status string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Entry]
	candidates gRepo.Repository[model.Candidate]
	callLogs   gRepo.Repository[model.CallLog]
	db         *postgres.Connection
	otel       otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Queue {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Entry](model.EntityName, model.TableName, model.FieldID, db, otel),
		candidates: gRepo.NewRepository[model.Candidate](model.EntityName, model.TableName, model.FieldID, db, otel),
		callLogs:   gRepo.NewRepository[model.CallLog](model.CallLogEntityName, model.CallLogTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) scope(ctx context.Context, op, query string) (context.Context, otel.Scope) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+"."+op)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return ctx, scope
}

func campaignFilter(campaignID string) gDto.Filter {
	return gDto.Filter{Field: model.FieldCampaignID, Operator: gDto.FilterOperatorEq, Value: campaignID, Table: model.TableName}
}

func statusIn(statuses []string) gDto.Filter {
	return gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: statuses, Table: model.TableName}
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Entry, error) {
	return r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

func (r *repositoryImpl) GetByProviderCallID(ctx context.Context, callID string) (model.Entry, error) {
	return r.Get(ctx, shared.FilterByID(callID, model.FieldProviderCallID, model.TableName))
}

func (r *repositoryImpl) HasCalling(ctx context.Context, campaignID string) (bool, error) {
	return r.Exist(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{campaignFilter(campaignID), statusIn([]string{model.StatusCalling})},
	})
}

// ReplaceTx drops every entry of the campaign and writes the new queue in its place.
func (r *repositoryImpl) ReplaceTx(ctx context.Context, tx *sqlx.Tx, campaignID string, entries []model.Entry) error {
	if err := r.DeleteTx(ctx, tx, gDto.FilterGroup{Filters: []any{campaignFilter(campaignID)}}); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}

	if err := r.InsertBulkTx(ctx, tx, entries); err != nil {
		return fmt.Errorf("failed to insert queue: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetHistory(ctx context.Context, hostIDs []string) (map[string]model.History, error) {
	ctx, scope := r.scope(ctx, "GetHistory", historyQuery)
	defer scope.End()

	histories := make(map[string]model.History, len(hostIDs))
	if len(hostIDs) == 0 {
		return histories, nil
	}

	var rows []model.History
	if err := r.db.Read.SelectContext(ctx, &rows, historyQuery, pq.Array(hostIDs)); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get response history: %w", err)
	}

	for _, row := range rows {
		histories[row.HostID] = row
	}

	return histories, nil
}

func (r *repositoryImpl) InFlightBeds(ctx context.Context, campaignID string) (int, error) {
	ctx, scope := r.scope(ctx, "InFlightBeds", inFlightBedsQuery)
	defer scope.End()

	var beds int
	if err := r.db.Write.GetContext(ctx, &beds, inFlightBedsQuery, campaignID); err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum in-flight beds: %w", err)
	}

	return beds, nil
}

// NextPending reads from the primary so a batch never sees a claim it just made as pending.
func (r *repositoryImpl) NextPending(ctx context.Context, campaignID string, limit int) ([]model.Candidate, error) {
	ctx, scope := r.scope(ctx, "NextPending", nextPendingQuery)
	defer scope.End()

	var candidates []model.Candidate
	if err := r.db.Write.SelectContext(ctx, &candidates, nextPendingQuery, campaignID, limit); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get pending entries: %w", err)
	}

	return candidates, nil
}

func (r *repositoryImpl) GetCandidates(ctx context.Context, campaignID string) ([]model.Candidate, error) {
	candidates, err := r.candidates.GetAll(ctx,
		gDto.QueryParams{SortBy: model.FieldPriority, SortDir: gDto.SortDirAsc},
		gDto.FilterGroup{Filters: []any{campaignFilter(campaignID)}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}

	return candidates, nil
}

func (r *repositoryImpl) CountByStatus(ctx context.Context, campaignID string) (map[string]int, error) {
	ctx, scope := r.scope(ctx, "CountByStatus", countByStatusQuery)
	defer scope.End()

	var rows []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}

	if err := r.db.Read.SelectContext(ctx, &rows, countByStatusQuery, campaignID); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count queue by status: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

// Claim moves a pending entry to calling. False means another caller got there first.
func (r *repositoryImpl) Claim(ctx context.Context, entryID, hostID string) (bool, error) {
	ctx, scope := r.scope(ctx, "Claim", claimQuery)
	defer scope.End()

	result, err := r.db.Write.ExecContext(ctx, claimQuery, entryID, hostID, timezone.Now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation {
			return false, nil
		}

		scope.TraceError(err)

		return false, fmt.Errorf("failed to claim queue entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

// Transition applies `to` only while the entry is still in one of `from`.
func (r *repositoryImpl) Transition(ctx context.Context, entryID string, from []string, to string, fields map[string]any) (bool, error) {
	update := map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
	}

	for key, value := range fields {
		update[key] = value
	}

	affected, err := r.Update(ctx, update, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: entryID, Table: model.TableName},
			statusIn(from),
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to transition queue entry: %w", err)
	}

	return affected > 0, nil
}

func (r *repositoryImpl) TransitionForHostTx(ctx context.Context, tx *sqlx.Tx, campaignID, hostID string, from []string, to string) (bool, error) {
	now := timezone.Now()

	affected, err := r.UpdateTx(ctx, tx, map[string]any{
		model.FieldStatus:        to,
		model.FieldRespondedAt:   now,
		constant.FieldModifiedAt: now,
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			campaignFilter(campaignID),
			gDto.Filter{Field: model.FieldHostID, Operator: gDto.FilterOperatorEq, Value: hostID, Table: model.TableName},
			statusIn(from),
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to transition queue entry: %w", err)
	}

	return affected > 0, nil
}

// DemoteStale gives up on calls whose status callback never arrived.
func (r *repositoryImpl) DemoteStale(ctx context.Context, before time.Time) ([]model.Entry, error) {
	ctx, scope := r.scope(ctx, "DemoteStale", demoteStaleQuery)
	defer scope.End()

	var entries []model.Entry
	if err := r.db.Write.SelectContext(ctx, &entries, demoteStaleQuery, before, staleCallError, timezone.Now()); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to demote stale calls: %w", err)
	}

	return entries, nil
}

func (r *repositoryImpl) InsertCallLog(ctx context.Context, log model.CallLog) error {
	return r.callLogs.Insert(ctx, log) //nolint:wrapcheck
}

func (r *repositoryImpl) UpdateCallLogStatus(ctx context.Context, callSID, status string) error {
	_, err := r.callLogs.Update(ctx, map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
	}, shared.FilterByID(callSID, model.FieldCallSID, model.CallLogTableName))
	if err != nil {
		return fmt.Errorf("failed to update call log: %w", err)
	}

	return nil
}
