package dto_test

import (
	"bedcall/shared/constant"
	"bedcall/shared/dto"
	"bedcall/shared/model"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.Equal(t, createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, modifiedAt.Format(constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:        "with all valid parameters",
			queryParams: map[string]string{"page": "2", "limit": "20", "sort_by": "name", "sort_dir": "asc"},
			expected:    dto.QueryParams{Page: 2, Limit: 20, SortBy: "name", SortDir: "ASC"},
		},
		{
			name:           "defaults applied when empty",
			queryParams:    map[string]string{},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:        "no defaults when disabled",
			queryParams: map[string]string{},
			expected:    dto.QueryParams{},
		},
		{
			name:           "invalid and negative values fall back to defaults",
			queryParams:    map[string]string{"page": "-1", "limit": "abc"},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:        "limit capped",
			queryParams: map[string]string{"limit": "5000"},
			expected:    dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:        "unknown sort direction ignored",
			queryParams: map[string]string{"sort_by": "target_date", "sort_dir": "sideways"},
			expected:    dto.QueryParams{SortBy: "target_date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := url.Values{}
			for key, value := range tt.queryParams {
				query.Set(key, value)
			}

			req := httptest.NewRequest("GET", "/v1/campaigns?"+query.Encode(), nil)

			params := &dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, *params)
		})
	}
}

func TestEqualFilters(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/hosts?call_frequency=weekly&is_registered=true&ignored=x", nil)

	group := dto.EqualFilters(req, "hosts", "call_frequency", "is_registered", "name")

	assert.Equal(t, dto.FilterGroupOperatorAnd, group.Operator)
	assert.Equal(t, []any{
		dto.Filter{Field: "call_frequency", Operator: dto.FilterOperatorEq, Value: "weekly", Table: "hosts"},
		dto.Filter{Field: "is_registered", Operator: dto.FilterOperatorEq, Value: true, Table: "hosts"},
	}, group.Filters)
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	cutoff := time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		group     dto.FilterGroup
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "empty group",
			group:     dto.FilterGroup{},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name: "eq with table",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "campaign_id", Value: "c1", Operator: dto.FilterOperatorEq, Table: "queue_entries"},
			}},
			wantWhere: "(queue_entries.campaign_id = :campaign_id)",
			wantArgs:  map[string]any{"campaign_id": "c1"},
		},
		{
			name: "in and less joined with and",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "status", Value: []string{"pending", "active"}, Operator: dto.FilterOperatorIn},
					dto.Filter{Field: "target_date", Value: cutoff, Operator: dto.FilterOperatorLess},
				},
			},
			wantWhere: "(status IN (:status_0, :status_1)  AND target_date < :target_date)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "active", "target_date": cutoff},
		},
		{
			name: "not in with custom arg name",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{ArgName: "guard", Field: "status", Value: []string{"accepted"}, Operator: dto.FilterOperatorNotIn},
			}},
			wantWhere: "(status NOT IN (:guard_0) )",
			wantArgs:  map[string]any{"guard_0": "accepted"},
		},
		{
			name: "nested or group",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "is_registered", Value: true, Operator: dto.FilterOperatorEq},
					dto.FilterGroup{
						Operator: dto.FilterGroupOperatorOr,
						Filters: []any{
							dto.Filter{Field: "name", Value: "cohen", Operator: dto.FilterOperatorLike},
							dto.Filter{Field: "phone_number", Value: "+1555", Operator: dto.FilterOperatorEq},
						},
					},
				},
			},
			wantWhere: "(is_registered = :is_registered AND (LOWER(name) LIKE LOWER(:name)  OR phone_number = :phone_number))",
			wantArgs:  map[string]any{"is_registered": true, "name": "%cohen%", "phone_number": "+1555"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSortDirectionConstants(t *testing.T) {
	assert.Equal(t, "ASC", dto.SortDirAsc)
	assert.Equal(t, "DESC", dto.SortDirDesc)
}
