package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
	"evenapp/internal/infrastructure/postgres"
	"evenapp/pkg/errors"
)

var strikeColumns = []string{
	"id", "user_uid", "reason", "strike_number", "timeout_hours", "timeout_expires_at", "created_at",
}

type postgresStrikeRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStrikeRepository(pool *pgxpool.Pool) repository.StrikeRepository {
	return &postgresStrikeRepository{pool: pool}
}

// NextStrikeNumber takes a transaction-scoped advisory lock on uid before
// counting. Outside a transaction the lock is released immediately and only
// the unique key protects the ledger.
func (r *postgresStrikeRepository) NextStrikeNumber(ctx context.Context, uid string) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", uid); err != nil {
		return 0, mapPgError(err, "strike")
	}

	query, args, err := psql.Select("COUNT(*)").
		From("strikes").
		Where(sq.Eq{"user_uid": uid}).
		ToSql()
	if err != nil {
		return 0, errors.Internal("Failed to build strike count", err)
	}

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, mapPgError(err, "strike")
	}
	return count + 1, nil
}

func (r *postgresStrikeRepository) Create(ctx context.Context, strike *entity.Strike) error {
	query, args, err := psql.Insert("strikes").
		Columns(strikeColumns...).
		Values(
			strike.ID, strike.UserUID, strike.Reason, strike.StrikeNumber,
			strike.TimeoutHours, strike.TimeoutExpiresAt, strike.CreatedAt,
		).
		ToSql()
	if err != nil {
		return errors.Internal("Failed to build strike insert", err)
	}

	_, err = postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	return mapPgError(err, "strike")
}

func (r *postgresStrikeRepository) ListByUser(ctx context.Context, uid string) ([]*entity.Strike, error) {
	query, args, err := psql.Select(strikeColumns...).
		From("strikes").
		Where(sq.Eq{"user_uid": uid}).
		OrderBy("strike_number ASC").
		ToSql()
	if err != nil {
		return nil, errors.Internal("Failed to build strike query", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "strike")
	}
	strikes, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entity.Strike])
	if err != nil {
		return nil, mapPgError(err, "strike")
	}
	return strikes, nil
}
