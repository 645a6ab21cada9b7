package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	CreateForBooking(ctx context.Context, payment *domain.Payment, booking *domain.Booking, expected domain.BookingState) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetSucceededForBooking(ctx context.Context, bookingID string) (*domain.Payment, error)
	HasPendingForBooking(ctx context.Context, bookingID string) (bool, error)
	SettleForBooking(ctx context.Context, payment *domain.Payment, booking *domain.Booking, expected domain.BookingState) error
	RefundForBooking(ctx context.Context, paymentID string, refundCents int64, booking *domain.Booking, expected domain.BookingState) error
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Payment, error)
	ListUnpaidOut(ctx context.Context) ([]domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

const paymentColumns = `p.id, p.booking_id, p.user_id, p.agent_id, p.amount_cents, p.currency, p.method, p.gateway,
	p.transaction_id, p.status, p.gateway_response, p.refund_cents, COALESCE(p.payout_id, ''), b.status,
	p.created_at, p.updated_at`

const paymentFrom = ` FROM payments p JOIN bookings b ON b.id = p.booking_id`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.BookingID, &p.UserID, &p.AgentID, &p.AmountCents, &p.Currency, &p.Method,
		&p.Gateway, &p.TransactionID, &p.Status, &p.GatewayResponse, &p.RefundCents, &p.PayoutID,
		&p.BookingStatus, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateForBooking inserts the payment and stores the booking changes in one transaction.
func (r *PGPaymentRepository) CreateForBooking(ctx context.Context, p *domain.Payment, b *domain.Booking, expected domain.BookingState) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO payments
		(id, booking_id, user_id, agent_id, amount_cents, currency, method, gateway, transaction_id, status, gateway_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		p.ID, p.BookingID, p.UserID, p.AgentID, p.AmountCents, p.Currency, p.Method, p.Gateway,
		p.TransactionID, p.Status, p.GatewayResponse).
		Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: booking already has a %s payment", domain.ErrConflict, p.Status)
		}
		return err
	}

	if err := updateBooking(ctx, tx, b, expected); err != nil {
		return err
	}
	p.BookingStatus = b.Status
	return tx.Commit(ctx)
}

func (r *PGPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+paymentFrom+` WHERE p.id=$1`, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PGPaymentRepository) GetSucceededForBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+paymentFrom+`
		WHERE p.booking_id=$1 AND p.status=$2
		ORDER BY p.created_at DESC LIMIT 1`, bookingID, domain.PaymentRecordSucceeded))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PGPaymentRepository) HasPendingForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id=$1 AND status=$2)`,
		bookingID, domain.PaymentRecordPending).Scan(&exists)
	return exists, err
}

// SettleForBooking marks a pending offline payment succeeded together with the booking update.
func (r *PGPaymentRepository) SettleForBooking(ctx context.Context, p *domain.Payment, b *domain.Booking, expected domain.BookingState) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `UPDATE payments SET status=$3, updated_at=now()
		WHERE id=$1 AND status=$2
		RETURNING updated_at`, p.ID, domain.PaymentRecordPending, domain.PaymentRecordSucceeded).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	p.Status = domain.PaymentRecordSucceeded

	if err := updateBooking(ctx, tx, b, expected); err != nil {
		return err
	}
	p.BookingStatus = b.Status
	return tx.Commit(ctx)
}

// RefundForBooking stores a cancelled booking and, when paymentID is set,
// marks that payment refunded with refundCents.
func (r *PGPaymentRepository) RefundForBooking(ctx context.Context, paymentID string, refundCents int64, b *domain.Booking, expected domain.BookingState) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateBooking(ctx, tx, b, expected); err != nil {
		return err
	}

	if paymentID != "" {
		cmd, err := tx.Exec(ctx, `UPDATE payments SET status=$3, refund_cents=$4, updated_at=now()
			WHERE id=$1 AND status=$2`,
			paymentID, domain.PaymentRecordSucceeded, domain.PaymentRecordRefunded, refundCents)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrConflict
		}
	}
	return tx.Commit(ctx)
}

func (r *PGPaymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+paymentFrom+` WHERE p.user_id=$1 ORDER BY p.created_at DESC`, userID)
}

func (r *PGPaymentRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+paymentFrom+` WHERE p.agent_id=$1 ORDER BY p.created_at DESC`, agentID)
}

// ListUnpaidOut returns succeeded payments of completed stays not yet assigned to a payout.
func (r *PGPaymentRepository) ListUnpaidOut(ctx context.Context) ([]domain.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+paymentFrom+`
		WHERE p.status=$1 AND p.payout_id IS NULL AND b.status=$2
		ORDER BY p.agent_id, p.created_at`,
		domain.PaymentRecordSucceeded, domain.BookingStatusCompleted)
}

func (r *PGPaymentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
