package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PayoutRepository interface {
	CreateWithPayments(ctx context.Context, payout *domain.Payout, paymentIDs []string) error
	ListByAgent(ctx context.Context, agentID string) ([]domain.Payout, error)
	ListDue(ctx context.Context, before, staleBefore time.Time) ([]domain.Payout, error)
	UpdateStatus(ctx context.Context, payout *domain.Payout, expected domain.PayoutStatus) error
}

type PGPayoutRepository struct {
	db *pgxpool.Pool
}

func NewPayoutRepository(db *pgxpool.Pool) PayoutRepository {
	return &PGPayoutRepository{db: db}
}

const payoutColumns = `id, agent_id, amount_cents, currency, status, scheduled_date, completed_date, created_at`

func scanPayout(row rowScanner) (*domain.Payout, error) {
	var p domain.Payout
	if err := row.Scan(&p.ID, &p.AgentID, &p.AmountCents, &p.Currency, &p.Status,
		&p.ScheduledDate, &p.CompletedDate, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateWithPayments inserts the payout and links the payments to it. Payments
// already claimed by another payout abort the transaction with domain.ErrConflict.
func (r *PGPayoutRepository) CreateWithPayments(ctx context.Context, p *domain.Payout, paymentIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO payouts (id, agent_id, amount_cents, currency, status, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		p.ID, p.AgentID, p.AmountCents, p.Currency, p.Status, p.ScheduledDate).Scan(&p.CreatedAt); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `UPDATE payments SET payout_id=$1, updated_at=now()
		WHERE id = ANY($2) AND payout_id IS NULL`, p.ID, paymentIDs)
	if err != nil {
		return err
	}
	if int(cmd.RowsAffected()) != len(paymentIDs) {
		return fmt.Errorf("%w: payments already assigned to a payout", domain.ErrConflict)
	}
	return tx.Commit(ctx)
}

func (r *PGPayoutRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Payout, error) {
	return r.list(ctx, `SELECT `+payoutColumns+` FROM payouts WHERE agent_id=$1 ORDER BY scheduled_date DESC`, agentID)
}

// ListDue returns pending or failed payouts scheduled up to before, plus
// processing payouts last touched before staleBefore.
func (r *PGPayoutRepository) ListDue(ctx context.Context, before, staleBefore time.Time) ([]domain.Payout, error) {
	return r.list(ctx, `SELECT `+payoutColumns+` FROM payouts
		WHERE (status IN ($1, $2) AND scheduled_date <= $3) OR (status = $4 AND updated_at < $5)
		ORDER BY scheduled_date`,
		domain.PayoutStatusPending, domain.PayoutStatusFailed, before, domain.PayoutStatusProcessing, staleBefore)
}

func (r *PGPayoutRepository) UpdateStatus(ctx context.Context, p *domain.Payout, expected domain.PayoutStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE payouts SET status=$3, completed_date=$4, updated_at=now() WHERE id=$1 AND status=$2`,
		p.ID, expected, p.Status, p.CompletedDate)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *PGPayoutRepository) list(ctx context.Context, query string, args ...any) ([]domain.Payout, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payouts := []domain.Payout{}
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, *p)
	}
	return payouts, rows.Err()
}

var _ PayoutRepository = (*PGPayoutRepository)(nil)
