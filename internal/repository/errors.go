package repository

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/lib/pq"
)

const (
	pqForeignKeyViolation pq.ErrorCode = "23503"
	pqUniqueViolation     pq.ErrorCode = "23505"
)

// foreignKeyDetail matches the offending key of a foreign-key violation, e.g.
//
//	Key (category_id)=(42) is not present in table "categories".
var foreignKeyDetail = regexp.MustCompile(`\([a-z_]+\)=\((\d+)\)`)

func isPqErrorCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func isForeignKeyViolation(err error) bool {
	return isPqErrorCode(err, pqForeignKeyViolation)
}

func isUniqueViolation(err error) bool {
	return isPqErrorCode(err, pqUniqueViolation)
}

// missingRefID extracts the referenced id that caused a foreign-key violation
// so the failure can be attributed to the specific id the caller supplied.
func missingRefID(err error) (int64, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqForeignKeyViolation {
		return 0, false
	}
	m := foreignKeyDetail.FindStringSubmatch(pqErr.Detail)
	if m == nil {
		return 0, false
	}
	id, err2 := strconv.ParseInt(m[1], 10, 64)
	if err2 != nil {
		return 0, false
	}
	return id, true
}
