package repository

import (
	"context"
	stderrors "errors"
	"net/http"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"evenapp/pkg/errors"
)

// SQLSTATE codes the repositories care about.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// mapPgError turns pgx failures into AppErrors. Context errors pass through
// untouched so callers can still match them.
func mapPgError(err error, resource string) error {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return err
	}

	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound(resource, err)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.New(errors.CodeConflict, resource+" already exists", http.StatusConflict, err)
		case pgCheckViolation:
			return errors.BadRequest("invalid "+resource, err)
		}
	}

	return errors.Internal("Failed to access "+resource, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isNoRows(err error) bool {
	return stderrors.Is(err, pgx.ErrNoRows)
}
