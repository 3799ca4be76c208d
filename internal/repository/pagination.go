package repository

import (
	"fmt"
	"strings"

	"catalog_service/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// orderByClause renders the requested ordering against a per-entity column
// whitelist. Sort fields arrive as DTO field names; anything outside the
// whitelist is rejected rather than interpolated into SQL.
func orderByClause(spec domain.PageSpec, columns map[string]string) (string, error) {
	if len(spec.Sort) == 0 {
		return "ORDER BY id ASC", nil
	}

	parts := make([]string, 0, len(spec.Sort))
	for _, order := range spec.Sort {
		column, ok := columns[order.Field]
		if !ok {
			return "", &domain.ValidationError{
				Field:   "sort",
				Message: fmt.Sprintf("unknown sort field '%s'", order.Field),
			}
		}
		direction := "ASC"
		if order.Desc {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// limitOffset normalizes the page window and caps the listing size.
func limitOffset(spec domain.PageSpec) (limit, offset int) {
	limit = spec.Size
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := spec.Page
	if page < 0 {
		page = 0
	}
	return limit, page * limit
}
