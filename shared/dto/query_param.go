package dto

import (
	"bedcall/shared/constant"
	"net/http"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit and sort from the query string. Limit is capped at
// constant.MaxValueLimit. With withDefaults, a missing page or limit gets the default value.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	query := r.URL.Query()

	q.Page = positiveInt(query.Get(constant.RequestParamPage))
	q.Limit = min(positiveInt(query.Get(constant.RequestParamLimit)), constant.MaxValueLimit)
	q.SortBy = query.Get(constant.RequestParamSortBy)

	switch dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// EqualFilters builds an AND group with one equality filter per query parameter present in
// the request. Parameter names double as column names of table.
func EqualFilters(r *http.Request, table string, fields ...string) FilterGroup {
	group := FilterGroup{
		Operator: FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	query := r.URL.Query()
	for _, field := range fields {
		value := query.Get(field)
		if value == constant.Empty {
			continue
		}

		var typed any = value
		if parsed, err := strconv.ParseBool(value); err == nil {
			typed = parsed
		}

		group.Filters = append(group.Filters, Filter{
			Field:    field,
			Operator: FilterOperatorEq,
			Value:    typed,
			Table:    table,
		})
	}

	return group
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}

	return n
}
