package repository

import (
	"context"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository interface {
	Get(ctx context.Context, id string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type PGProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &PGProfileRepository{db: db}
}

func (r *PGProfileRepository) Get(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRow(ctx, `SELECT id, name, email, phone, bio, photo_url, updated_at FROM profiles WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Bio, &p.PhotoURL, &p.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *PGProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	return r.db.QueryRow(ctx, `INSERT INTO profiles (id, name, email, phone, bio, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			bio = EXCLUDED.bio,
			photo_url = EXCLUDED.photo_url,
			updated_at = now()
		RETURNING updated_at`, p.ID, p.Name, p.Email, p.Phone, p.Bio, p.PhotoURL).
		Scan(&p.UpdatedAt)
}

var _ ProfileRepository = (*PGProfileRepository)(nil)
