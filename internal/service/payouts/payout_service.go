package payouts

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/google/uuid"
)

type PayoutUseCase interface {
	ListForAgent(ctx context.Context, agentID string) ([]domain.Payout, error)
	ScheduleDue(ctx context.Context) ([]domain.Payout, error)
	ProcessDue(ctx context.Context) ([]domain.Payout, error)
}

type EventEmitter interface {
	Emit(ctx context.Context, event kafka.Event)
}

type PayoutService struct {
	payouts  repository.PayoutRepository
	payments repository.PaymentRepository
	events   EventEmitter
	delay    time.Duration
	currency string
	now      func() time.Time
}

type PayoutServiceOption func(*PayoutService)

func WithClock(now func() time.Time) PayoutServiceOption {
	return func(s *PayoutService) {
		s.now = now
	}
}

func NewPayoutService(
	payouts repository.PayoutRepository,
	payments repository.PaymentRepository,
	events EventEmitter,
	delay time.Duration,
	currency string,
	opts ...PayoutServiceOption,
) *PayoutService {
	service := &PayoutService{
		payouts:  payouts,
		payments: payments,
		events:   events,
		delay:    delay,
		currency: currency,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PayoutService) ListForAgent(ctx context.Context, agentID string) ([]domain.Payout, error) {
	return s.payouts.ListByAgent(ctx, agentID)
}

// ScheduleDue bundles every agent's settled payments on completed stays into
// one pending payout per agent.
func (s *PayoutService) ScheduleDue(ctx context.Context) ([]domain.Payout, error) {
	unpaid, err := s.payments.ListUnpaidOut(ctx)
	if err != nil {
		return nil, err
	}

	var agents []string
	byAgent := make(map[string][]domain.Payment)
	for _, p := range unpaid {
		if _, ok := byAgent[p.AgentID]; !ok {
			agents = append(agents, p.AgentID)
		}
		byAgent[p.AgentID] = append(byAgent[p.AgentID], p)
	}

	now := s.now()
	scheduled := make([]domain.Payout, 0, len(agents))
	for _, agentID := range agents {
		payments := byAgent[agentID]
		ids := make([]string, 0, len(payments))
		var total int64
		for _, p := range payments {
			ids = append(ids, p.ID)
			total += p.AmountCents
		}
		if total <= 0 {
			continue
		}

		payout := &domain.Payout{
			ID:            uuid.NewString(),
			AgentID:       agentID,
			AmountCents:   total,
			Currency:      s.currency,
			Status:        domain.PayoutStatusPending,
			ScheduledDate: now.Add(s.delay),
		}
		if err := s.payouts.CreateWithPayments(ctx, payout, ids); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				log.Printf("WARNING: payments for agent %s were claimed concurrently, skipping", agentID)
				continue
			}
			return scheduled, err
		}
		scheduled = append(scheduled, *payout)
	}
	return scheduled, nil
}

// processingTimeout is how long a payout may sit in processing before a sweep
// picks it up again.
const processingTimeout = time.Hour

// ProcessDue releases pending payouts whose scheduled date has passed. Failed
// payouts and payouts stuck in processing are retried. A payout that cannot be
// completed is marked failed so the next sweep sees it.
func (s *PayoutService) ProcessDue(ctx context.Context) ([]domain.Payout, error) {
	now := s.now()
	due, err := s.payouts.ListDue(ctx, now, now.Add(-processingTimeout))
	if err != nil {
		return nil, err
	}

	completed := make([]domain.Payout, 0, len(due))
	for i := range due {
		p := &due[i]

		if p.Status != domain.PayoutStatusProcessing {
			from := p.Status
			if err := p.Transition(domain.PayoutStatusProcessing); err != nil {
				log.Printf("WARNING: skipping payout %s: %v", p.ID, err)
				continue
			}
			if err := s.payouts.UpdateStatus(ctx, p, from); err != nil {
				if !errors.Is(err, domain.ErrConflict) {
					log.Printf("start payout %s: %v", p.ID, err)
				}
				continue
			}
		}

		if err := p.Transition(domain.PayoutStatusCompleted); err != nil {
			continue
		}
		p.CompletedDate = &now
		if err := s.payouts.UpdateStatus(ctx, p, domain.PayoutStatusProcessing); err != nil {
			log.Printf("complete payout %s: %v", p.ID, err)
			s.markFailed(ctx, p)
			continue
		}

		if s.events != nil {
			s.events.Emit(ctx, kafka.Event{
				Type:        kafka.EventPayoutCompleted,
				RecipientID: p.AgentID,
				PayoutID:    p.ID,
				Status:      string(p.Status),
				AmountCents: p.AmountCents,
				OccurredAt:  now,
			})
		}
		completed = append(completed, *p)
	}
	return completed, nil
}

func (s *PayoutService) markFailed(ctx context.Context, p *domain.Payout) {
	p.Status = domain.PayoutStatusProcessing
	p.CompletedDate = nil
	if err := p.Transition(domain.PayoutStatusFailed); err != nil {
		return
	}
	if err := s.payouts.UpdateStatus(ctx, p, domain.PayoutStatusProcessing); err != nil {
		log.Printf("WARNING: payout %s left in processing until it goes stale: %v", p.ID, err)
	}
}

var _ PayoutUseCase = (*PayoutService)(nil)
