package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
	"evenapp/internal/infrastructure/postgres"
	"evenapp/pkg/errors"
)

var emergencyGrantColumns = []string{
	"reviewer_uid", "target_uid", "used", "used_at", "phone_number_snapshot", "created_at",
}

type postgresEmergencyGrantRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEmergencyGrantRepository(pool *pgxpool.Pool) repository.EmergencyGrantRepository {
	return &postgresEmergencyGrantRepository{pool: pool}
}

func (r *postgresEmergencyGrantRepository) Get(ctx context.Context, reviewerUID, targetUID string) (*entity.EmergencyGrant, error) {
	query, args, err := psql.Select(emergencyGrantColumns...).
		From("emergency_grants").
		Where(sq.Eq{"reviewer_uid": reviewerUID, "target_uid": targetUID}).
		ToSql()
	if err != nil {
		return nil, errors.Internal("Failed to build emergency grant query", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "emergency grant")
	}
	grant, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[entity.EmergencyGrant])
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err, "emergency grant")
	}
	return grant, nil
}

// MarkUsed flips an unused grant, creating it if needed. The conditional
// upsert returns no row when the grant was already used.
func (r *postgresEmergencyGrantRepository) MarkUsed(ctx context.Context, reviewerUID, targetUID, phone string, at time.Time) (*entity.EmergencyGrant, error) {
	query, args, err := psql.Insert("emergency_grants").
		Columns(emergencyGrantColumns...).
		Values(reviewerUID, targetUID, true, at, phone, at).
		Suffix(`ON CONFLICT (reviewer_uid, target_uid) DO UPDATE
			SET used = TRUE, used_at = EXCLUDED.used_at, phone_number_snapshot = EXCLUDED.phone_number_snapshot
			WHERE emergency_grants.used = FALSE
			RETURNING reviewer_uid, target_uid, used, used_at, phone_number_snapshot, created_at`).
		ToSql()
	if err != nil {
		return nil, errors.Internal("Failed to build emergency grant upsert", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "emergency grant")
	}
	grant, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[entity.EmergencyGrant])
	if isNoRows(err) {
		return nil, errors.EmergencyAlreadyUsed()
	}
	if err != nil {
		return nil, mapPgError(err, "emergency grant")
	}
	return grant, nil
}
