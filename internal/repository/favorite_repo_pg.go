package repository

import (
	"context"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *domain.Favorite) error
	Remove(ctx context.Context, userID, propertyID string) error
	ListPropertyIDs(ctx context.Context, userID string) ([]string, error)
	Exists(ctx context.Context, userID, propertyID string) (bool, error)
}

type PGFavoriteRepository struct {
	db *pgxpool.Pool
}

func NewFavoriteRepository(db *pgxpool.Pool) FavoriteRepository {
	return &PGFavoriteRepository{db: db}
}

// Add is a no-op when the property is already a favourite.
func (r *PGFavoriteRepository) Add(ctx context.Context, f *domain.Favorite) error {
	_, err := r.db.Exec(ctx, `INSERT INTO favorites (id, user_id, property_id, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, property_id) DO NOTHING`, f.ID, f.UserID, f.PropertyID, f.Notes)
	return err
}

func (r *PGFavoriteRepository) Remove(ctx context.Context, userID, propertyID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND property_id=$2`, userID, propertyID)
	return err
}

func (r *PGFavoriteRepository) ListPropertyIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT property_id FROM favorites WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PGFavoriteRepository) Exists(ctx context.Context, userID, propertyID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id=$1 AND property_id=$2)`, userID, propertyID).
		Scan(&exists)
	return exists, err
}

var _ FavoriteRepository = (*PGFavoriteRepository)(nil)
