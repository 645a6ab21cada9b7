package repository

import (
	"context"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	GetByUserAndProperty(ctx context.Context, userID, propertyID string) (*domain.Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id, userID string) error
	ToggleLike(ctx context.Context, id, userID string) (*domain.Review, error)
	RatingStats(ctx context.Context, propertyID string) (domain.RatingSummary, error)
}

type PGReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &PGReviewRepository{db: db}
}

const reviewColumns = `id, property_id, COALESCE(booking_id, ''), user_id, rating, comment, likes, is_edited, edited_at, created_at, updated_at`

func scanReview(row rowScanner) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(&rv.ID, &rv.PropertyID, &rv.BookingID, &rv.UserID, &rv.Rating, &rv.Comment,
		&rv.Likes, &rv.IsEdited, &rv.EditedAt, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *PGReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.QueryRow(ctx, `INSERT INTO reviews (id, property_id, booking_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		rv.ID, rv.PropertyID, nullString(rv.BookingID), rv.UserID, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyReviewed
		}
		return err
	}
	if rv.Likes == nil {
		rv.Likes = []string{}
	}
	return nil
}

func (r *PGReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return rv, nil
}

func (r *PGReviewRepository) GetByUserAndProperty(ctx context.Context, userID, propertyID string) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 AND property_id=$2`, userID, propertyID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return rv, nil
}

func (r *PGReviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE property_id=$1 ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

func (r *PGReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	err := r.db.QueryRow(ctx, `UPDATE reviews SET rating=$3, comment=$4, is_edited=$5, edited_at=$6, updated_at=now()
		WHERE id=$1 AND user_id=$2
		RETURNING updated_at`, rv.ID, rv.UserID, rv.Rating, rv.Comment, rv.IsEdited, rv.EditedAt).
		Scan(&rv.UpdatedAt)
	return mapNotFound(err)
}

func (r *PGReviewRepository) Delete(ctx context.Context, id, userID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ToggleLike adds userID to the review likes, or removes it when already present.
func (r *PGReviewRepository) ToggleLike(ctx context.Context, id, userID string) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `UPDATE reviews
		SET likes = CASE WHEN $2 = ANY(likes) THEN array_remove(likes, $2) ELSE array_append(likes, $2) END
		WHERE id=$1
		RETURNING `+reviewColumns, id, userID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return rv, nil
}

func (r *PGReviewRepository) RatingStats(ctx context.Context, propertyID string) (domain.RatingSummary, error) {
	var (
		avg   float64
		count int
	)
	err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE property_id=$1`, propertyID).
		Scan(&avg, &count)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return domain.NewRatingSummary(avg, count), nil
}

var _ ReviewRepository = (*PGReviewRepository)(nil)
