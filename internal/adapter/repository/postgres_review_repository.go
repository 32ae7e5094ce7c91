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

var reviewColumns = []string{
	"id", "reviewer_uid", "target_uid", "rating", "comment", "type",
	"flagged_by_keyword", "flagged_by_llm", "pending_human_review",
	"approved", "rejected", "strike_issued", "created_at",
}

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) repository.ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query, args, err := psql.Insert("reviews").
		Columns(reviewColumns...).
		Values(
			review.ID, review.ReviewerUID, review.TargetUID, review.Rating, review.Comment, string(review.Type),
			review.FlaggedByKeyword, review.FlaggedByLLM, review.PendingHumanReview,
			review.Approved, review.Rejected, review.StrikeIssued, review.CreatedAt,
		).
		ToSql()
	if err != nil {
		return errors.Internal("Failed to build review insert", err)
	}

	_, err = postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return errors.AlreadyReviewed(err)
	}
	return mapPgError(err, "review")
}

func (r *postgresReviewRepository) GetByPair(ctx context.Context, reviewerUID, targetUID string) (*entity.Review, error) {
	query, args, err := psql.Select(reviewColumns...).
		From("reviews").
		Where(sq.Eq{"reviewer_uid": reviewerUID, "target_uid": targetUID}).
		ToSql()
	if err != nil {
		return nil, errors.Internal("Failed to build review query", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "review")
	}
	review, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[entity.Review])
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err, "review")
	}
	return review, nil
}

func (r *postgresReviewRepository) ListByTarget(ctx context.Context, targetUID string, limit, offset int) ([]*entity.Review, int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := psql.Select("COUNT(*)").
		From("reviews").
		Where(sq.Eq{"target_uid": targetUID}).
		ToSql()
	if err != nil {
		return nil, 0, errors.Internal("Failed to build review count", err)
	}

	var total int64
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapPgError(err, "review")
	}

	sel := psql.Select(reviewColumns...).
		From("reviews").
		Where(sq.Eq{"target_uid": targetUID}).
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(offset))
	if limit > 0 {
		sel = sel.Limit(uint64(limit))
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, errors.Internal("Failed to build review list", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err, "review")
	}
	reviews, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entity.Review])
	if err != nil {
		return nil, 0, mapPgError(err, "review")
	}
	if reviews == nil {
		reviews = []*entity.Review{}
	}

	return reviews, total, nil
}

func (r *postgresReviewRepository) RatingStats(ctx context.Context, targetUID string) (entity.RatingStats, error) {
	query, args, err := psql.Select("AVG(rating)::float8", "COUNT(*)").
		From("reviews").
		Where(sq.Eq{"target_uid": targetUID}).
		ToSql()
	if err != nil {
		return entity.RatingStats{}, errors.Internal("Failed to build rating query", err)
	}

	var stats entity.RatingStats
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&stats.Average, &stats.Count); err != nil {
		return entity.RatingStats{}, mapPgError(err, "review")
	}
	return stats, nil
}
