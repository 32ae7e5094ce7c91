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

var weekWindowColumns = []string{"user_uid", "window_start", "window_end", "reviews_used"}

type postgresWeekWindowRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresWeekWindowRepository(pool *pgxpool.Pool) repository.WeekWindowRepository {
	return &postgresWeekWindowRepository{pool: pool}
}

func (r *postgresWeekWindowRepository) Get(ctx context.Context, uid string) (*entity.WeekWindow, error) {
	return r.selectWindow(ctx, uid, "")
}

// GetOrCreateForUpdate inserts the row if missing and then locks it, so two
// transactions for the same user serialise on the row lock.
func (r *postgresWeekWindowRepository) GetOrCreateForUpdate(ctx context.Context, uid string, now time.Time) (*entity.WeekWindow, error) {
	fresh := entity.NewWeekWindow(uid, now)

	query, args, err := psql.Insert("week_windows").
		Columns(weekWindowColumns...).
		Values(fresh.UserUID, fresh.WindowStart, fresh.WindowEnd, fresh.ReviewsUsed).
		Suffix("ON CONFLICT (user_uid) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, errors.Internal("Failed to build week window insert", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return nil, mapPgError(err, "week window")
	}

	window, err := r.selectWindow(ctx, uid, "FOR UPDATE")
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, errors.Internal("week window vanished after insert", nil)
	}
	return window, nil
}

func (r *postgresWeekWindowRepository) Save(ctx context.Context, window *entity.WeekWindow) error {
	query, args, err := psql.Update("week_windows").
		Set("window_start", window.WindowStart).
		Set("window_end", window.WindowEnd).
		Set("reviews_used", window.ReviewsUsed).
		Where(sq.Eq{"user_uid": window.UserUID}).
		ToSql()
	if err != nil {
		return errors.Internal("Failed to build week window update", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "week window")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("week window", nil)
	}
	return nil
}

func (r *postgresWeekWindowRepository) selectWindow(ctx context.Context, uid, lock string) (*entity.WeekWindow, error) {
	sel := psql.Select(weekWindowColumns...).
		From("week_windows").
		Where(sq.Eq{"user_uid": uid})
	if lock != "" {
		sel = sel.Suffix(lock)
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, errors.Internal("Failed to build week window query", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "week window")
	}
	window, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[entity.WeekWindow])
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err, "week window")
	}
	return window, nil
}
