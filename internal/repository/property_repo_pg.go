package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepository interface {
	List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Property, error)
	Create(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id, agentID string) error
	AppendImage(ctx context.Context, id, agentID, url string) (*domain.Property, error)
	UpdateRating(ctx context.Context, id string, summary domain.RatingSummary) error
}

type PGPropertyRepository struct {
	db *pgxpool.Pool
}

func NewPropertyRepository(db *pgxpool.Pool) PropertyRepository {
	return &PGPropertyRepository{db: db}
}

const propertyColumns = `id, agent_id, name, type, description, address, price_cents, images, geolocation,
	bedrooms, bathrooms, area_sqm, facilities, rating, review_count, created_at, updated_at`

func scanProperty(row rowScanner) (*domain.Property, error) {
	var p domain.Property
	if err := row.Scan(&p.ID, &p.AgentID, &p.Name, &p.Type, &p.Description, &p.Address, &p.PriceCents,
		&p.Images, &p.Geolocation, &p.Bedrooms, &p.Bathrooms, &p.AreaSqm, &p.Facilities,
		&p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGPropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	filter = filter.Normalize()

	var (
		where []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d OR type ILIKE $%d)", n, n, n))
	}

	where = append(where, "deleted_at IS NULL")
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE ` + strings.Join(where, " AND ")
	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := make([]domain.Property, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

func (r *PGPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	p, err := scanProperty(r.db.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id=$1 AND deleted_at IS NULL`, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PGPropertyRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Property, error) {
	if len(ids) == 0 {
		return []domain.Property{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ANY($1) AND deleted_at IS NULL`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]domain.Property, len(ids))
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// keep the caller's order
	properties := make([]domain.Property, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			properties = append(properties, p)
		}
	}
	return properties, nil
}

func (r *PGPropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	return r.db.QueryRow(ctx, `INSERT INTO properties
		(id, agent_id, name, type, description, address, price_cents, images, geolocation, bedrooms, bathrooms, area_sqm, facilities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		p.ID, p.AgentID, p.Name, p.Type, p.Description, p.Address, p.PriceCents, emptyIfNil(p.Images),
		p.Geolocation, p.Bedrooms, p.Bathrooms, p.AreaSqm, emptyIfNil(p.Facilities)).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Delete hides the property from every read. Rows stay in place so past
// bookings and payments keep their reference. A property with pending or
// confirmed bookings is left untouched and yields domain.ErrConflict.
func (r *PGPropertyRepository) Delete(ctx context.Context, id, agentID string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE properties SET deleted_at = now(), updated_at = now()
		WHERE id=$1 AND agent_id=$2 AND deleted_at IS NULL
		AND NOT EXISTS (SELECT 1 FROM bookings WHERE property_id=$1 AND status IN ($3, $4))`,
		id, agentID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM properties
		WHERE id=$1 AND agent_id=$2 AND deleted_at IS NULL)`, id, agentID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: property has active bookings", domain.ErrConflict)
	}
	return domain.ErrNotFound
}

func (r *PGPropertyRepository) AppendImage(ctx context.Context, id, agentID, url string) (*domain.Property, error) {
	p, err := scanProperty(r.db.QueryRow(ctx, `UPDATE properties
		SET images = array_append(images, $3), updated_at = now()
		WHERE id=$1 AND agent_id=$2 AND deleted_at IS NULL
		RETURNING `+propertyColumns, id, agentID, url))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PGPropertyRepository) UpdateRating(ctx context.Context, id string, summary domain.RatingSummary) error {
	_, err := r.db.Exec(ctx, `UPDATE properties SET rating=$2, review_count=$3 WHERE id=$1`, id, summary.Average, summary.Count)
	return err
}

var _ PropertyRepository = (*PGPropertyRepository)(nil)
