package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pq.Error{Code: pqForeignKeyViolation}
	assert.True(t, isForeignKeyViolation(err))
	assert.False(t, isUniqueViolation(err))

	wrapped := fmt.Errorf("could not delete category: %w", err)
	assert.True(t, isForeignKeyViolation(wrapped))

	assert.False(t, isForeignKeyViolation(errors.New("plain error")))
	assert.False(t, isForeignKeyViolation(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: pqUniqueViolation}
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isForeignKeyViolation(err))
}

func TestMissingRefID(t *testing.T) {
	err := &pq.Error{
		Code:   pqForeignKeyViolation,
		Detail: `Key (category_id)=(42) is not present in table "categories".`,
	}

	id, ok := missingRefID(err)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestMissingRefID_WrappedError(t *testing.T) {
	err := fmt.Errorf("insert join rows: %w", &pq.Error{
		Code:   pqForeignKeyViolation,
		Detail: `Key (role_id)=(7) is not present in table "roles".`,
	})

	id, ok := missingRefID(err)
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestMissingRefID_NoMatch(t *testing.T) {
	_, ok := missingRefID(&pq.Error{Code: pqForeignKeyViolation, Detail: "no key here"})
	assert.False(t, ok)

	_, ok = missingRefID(&pq.Error{Code: pqUniqueViolation, Detail: `Key (email)=(a@x.com) already exists.`})
	assert.False(t, ok)

	_, ok = missingRefID(errors.New("plain error"))
	assert.False(t, ok)
}
