package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_service/internal/domain"
)

func TestOrderByClause_Default(t *testing.T) {
	clause, err := orderByClause(domain.PageSpec{}, productSortColumns)
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY id ASC", clause)
}

func TestOrderByClause_MapsFieldsAndDirections(t *testing.T) {
	spec := domain.PageSpec{Sort: []domain.SortOrder{
		{Field: "firstName"},
		{Field: "email", Desc: true},
	}}

	clause, err := orderByClause(spec, userSortColumns)
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY first_name ASC, email DESC", clause)
}

func TestOrderByClause_RejectsUnknownField(t *testing.T) {
	spec := domain.PageSpec{Sort: []domain.SortOrder{{Field: "password_hash"}}}

	_, err := orderByClause(spec, userSortColumns)

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "sort", validation.Field)
}

func TestLimitOffset(t *testing.T) {
	limit, offset := limitOffset(domain.PageSpec{Page: 3, Size: 20})
	assert.Equal(t, 20, limit)
	assert.Equal(t, 60, offset)

	limit, offset = limitOffset(domain.PageSpec{Page: -1, Size: 0})
	assert.Equal(t, defaultPageSize, limit)
	assert.Equal(t, 0, offset)

	limit, _ = limitOffset(domain.PageSpec{Size: 10000})
	assert.Equal(t, maxPageSize, limit)
}
