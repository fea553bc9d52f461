package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// SlotTaken turns a violated slot constraint into time_conflict and returns
// other errors unchanged.
func SlotTaken(err error) error {
	if IsUniqueViolation(err) || IsExclusionConflict(err) {
		return ErrBusiness("time_conflict")
	}
	return err
}

func IsExclusionConflict(err error) bool {
	return pgCode(err) == pgExclusionViolation
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
