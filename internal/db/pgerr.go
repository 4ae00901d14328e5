package db

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/noah-isme/backend-dapur/internal/common"
)

// PostgreSQL error classes relevant to the API surface.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// wrapStoreErr translates low-level store failures into the shared error
// taxonomy. pgx.ErrNoRows is left untouched so callers can map it to the
// entity that was actually missing.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return common.ConstraintViolation(pgErr.ConstraintName, err)
		case pgCheckViolation:
			return common.Validation("value rejected by constraint "+pgErr.ConstraintName, nil)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return common.StoreUnavailable(err)
	}
	return err
}
