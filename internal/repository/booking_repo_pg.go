package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]domain.Booking, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Booking, error)
	ListActiveForProperty(ctx context.Context, propertyID string) ([]domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking, expected domain.BookingState) error
	ListConfirmedEndingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, property_id, guest_id, agent_id, check_in, check_out, number_of_guests, number_of_nights,
	price_per_night_cents, subtotal_cents, service_fee_cents, total_cents, status, payment_status,
	special_requests, rejection_reason, cancelled_by, refund_cents, cancelled_at, created_at, updated_at`

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.PropertyID, &b.GuestID, &b.AgentID, &b.CheckIn, &b.CheckOut,
		&b.NumberOfGuests, &b.NumberOfNights, &b.PricePerNightCents, &b.SubtotalCents, &b.ServiceFeeCents,
		&b.TotalCents, &b.Status, &b.PaymentStatus, &b.SpecialRequests, &b.RejectionReason, &b.CancelledBy,
		&b.RefundCents, &b.CancelledAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings
		(id, property_id, guest_id, agent_id, check_in, check_out, number_of_guests, number_of_nights,
		 price_per_night_cents, subtotal_cents, service_fee_cents, total_cents, status, payment_status, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		b.ID, b.PropertyID, b.GuestID, b.AgentID, b.CheckIn, b.CheckOut, b.NumberOfGuests, b.NumberOfNights,
		b.PricePerNightCents, b.SubtotalCents, b.ServiceFeeCents, b.TotalCents, b.Status, b.PaymentStatus, b.SpecialRequests).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (r *PGBookingRepository) ListByGuest(ctx context.Context, guestID string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE guest_id=$1 ORDER BY created_at DESC`, guestID)
}

func (r *PGBookingRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE agent_id=$1 ORDER BY created_at DESC`, agentID)
}

func (r *PGBookingRepository) ListActiveForProperty(ctx context.Context, propertyID string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE property_id=$1 AND status IN ($2, $3) ORDER BY check_in`,
		propertyID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
}

// Update persists the mutable booking fields, but only while the stored
// booking and payment status still equal expected. A concurrent change
// yields domain.ErrConflict.
func (r *PGBookingRepository) Update(ctx context.Context, b *domain.Booking, expected domain.BookingState) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateBooking(ctx, tx, b, expected); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGBookingRepository) ListConfirmedEndingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE status=$1 AND check_out < $2 ORDER BY check_out`,
		domain.BookingStatusConfirmed, deadline)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func updateBooking(ctx context.Context, q querier, b *domain.Booking, expected domain.BookingState) error {
	err := q.QueryRow(ctx, `UPDATE bookings
		SET status=$4, payment_status=$5, rejection_reason=$6, cancelled_by=$7, refund_cents=$8, cancelled_at=$9, updated_at=now()
		WHERE id=$1 AND status=$2 AND payment_status=$3
		RETURNING updated_at`,
		b.ID, expected.Status, expected.PaymentStatus,
		b.Status, b.PaymentStatus, b.RejectionReason, b.CancelledBy, b.RefundCents, b.CancelledAt).
		Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConflict
		}
		return err
	}

	// offline payments still waiting can no longer be settled
	if b.PaymentStatus != domain.PaymentStatusUnpaid || !b.Blocking() {
		if _, err := q.Exec(ctx, `UPDATE payments SET status=$3, updated_at=now()
			WHERE booking_id=$1 AND status=$2`,
			b.ID, domain.PaymentRecordPending, domain.PaymentRecordFailed); err != nil {
			return err
		}
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
