package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error

	GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *domain.NotificationPreferences) error

	AddDevice(ctx context.Context, device *domain.Device) error
	ListDeviceTokens(ctx context.Context, userID string) ([]string, error)
	RemoveDevice(ctx context.Context, token string) error
}

type PGNotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) NotificationRepository {
	return &PGNotificationRepository{db: db}
}

const notificationColumns = `id, user_id, type, category, priority, title, message, action_url, image_url, data, is_read, read_at, created_at`

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Category, &n.Priority, &n.Title, &n.Message,
		&n.ActionURL, &n.ImageURL, &n.Data, &n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PGNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	return r.db.QueryRow(ctx, `INSERT INTO notifications
		(id, user_id, type, category, priority, title, message, action_url, image_url, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		n.ID, n.UserID, n.Type, n.Category, n.Priority, n.Title, n.Message, n.ActionURL, n.ImageURL, data).
		Scan(&n.CreatedAt)
}

func (r *PGNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE user_id=$1 AND (NOT $2 OR is_read = false)
		ORDER BY created_at DESC LIMIT $3`, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

func (r *PGNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND is_read = false`, userID).Scan(&count)
	return count, err
}

func (r *PGNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = true, read_at = COALESCE(read_at, $3)
		WHERE id=$1 AND user_id=$2`, id, userID, time.Now())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = true, read_at = $2
		WHERE user_id=$1 AND is_read = false`, userID, time.Now())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *PGNotificationRepository) Delete(ctx context.Context, id, userID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGNotificationRepository) GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	var p domain.NotificationPreferences
	err := r.db.QueryRow(ctx, `SELECT user_id, bookings, payments, reviews, payouts, system, push_enabled, updated_at
		FROM notification_preferences WHERE user_id=$1`, userID).
		Scan(&p.UserID, &p.Bookings, &p.Payments, &p.Reviews, &p.Payouts, &p.System, &p.PushEnabled, &p.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *PGNotificationRepository) UpsertPreferences(ctx context.Context, p *domain.NotificationPreferences) error {
	return r.db.QueryRow(ctx, `INSERT INTO notification_preferences
		(user_id, bookings, payments, reviews, payouts, system, push_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			bookings = EXCLUDED.bookings,
			payments = EXCLUDED.payments,
			reviews = EXCLUDED.reviews,
			payouts = EXCLUDED.payouts,
			system = EXCLUDED.system,
			push_enabled = EXCLUDED.push_enabled,
			updated_at = now()
		RETURNING updated_at`,
		p.UserID, p.Bookings, p.Payments, p.Reviews, p.Payouts, p.System, p.PushEnabled).
		Scan(&p.UpdatedAt)
}

// AddDevice registers a push token. A token moves to the latest user that registers it.
func (r *PGNotificationRepository) AddDevice(ctx context.Context, d *domain.Device) error {
	return r.db.QueryRow(ctx, `INSERT INTO devices (token, user_id, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
		RETURNING created_at`, d.Token, d.UserID, d.Platform).
		Scan(&d.CreatedAt)
}

func (r *PGNotificationRepository) ListDeviceTokens(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT token FROM devices WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (r *PGNotificationRepository) RemoveDevice(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM devices WHERE token=$1`, token)
	return err
}

var _ NotificationRepository = (*PGNotificationRepository)(nil)
