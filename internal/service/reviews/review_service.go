package reviews

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/google/uuid"
)

type ReviewUseCase interface {
	Create(ctx context.Context, userID string, input CreateReviewInput) (*domain.Review, error)
	Update(ctx context.Context, userID, id string, input UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleLike(ctx context.Context, userID, id string) (*domain.Review, error)
	ListForProperty(ctx context.Context, propertyID string) ([]domain.Review, error)
	UserReviewForProperty(ctx context.Context, userID, propertyID string) (*domain.Review, error)
	Rating(ctx context.Context, propertyID string) (domain.RatingSummary, error)
}

type RatingCache interface {
	Get(ctx context.Context, propertyID string) (domain.RatingSummary, bool)
	Set(ctx context.Context, propertyID string, s domain.RatingSummary)
	Invalidate(ctx context.Context, propertyID string)
}

type EventEmitter interface {
	Emit(ctx context.Context, event kafka.Event)
}

type CreateReviewInput struct {
	PropertyID string `json:"property_id"`
	BookingID  string `json:"booking_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewService struct {
	reviews    repository.ReviewRepository
	properties repository.PropertyRepository
	bookings   repository.BookingRepository
	cache      RatingCache
	events     EventEmitter
	now        func() time.Time
}

type ReviewServiceOption func(*ReviewService)

func WithClock(now func() time.Time) ReviewServiceOption {
	return func(s *ReviewService) {
		s.now = now
	}
}

func NewReviewService(
	reviews repository.ReviewRepository,
	properties repository.PropertyRepository,
	bookings repository.BookingRepository,
	cache RatingCache,
	events EventEmitter,
	opts ...ReviewServiceOption,
) *ReviewService {
	s := &ReviewService{
		reviews:    reviews,
		properties: properties,
		bookings:   bookings,
		cache:      cache,
		events:     events,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReviewService) Create(ctx context.Context, userID string, input CreateReviewInput) (*domain.Review, error) {
	comment, err := domain.ValidateReview(input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}

	property, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}

	if input.BookingID != "" {
		b, err := s.bookings.GetByID(ctx, input.BookingID)
		if err != nil {
			return nil, err
		}
		if b.GuestID != userID {
			return nil, fmt.Errorf("%w: booking belongs to another guest", domain.ErrForbidden)
		}
		if b.PropertyID != property.ID {
			return nil, fmt.Errorf("%w: booking is for a different property", domain.ErrValidation)
		}
	}

	review := &domain.Review{
		ID:         uuid.NewString(),
		PropertyID: property.ID,
		BookingID:  input.BookingID,
		UserID:     userID,
		Rating:     input.Rating,
		Comment:    comment,
		Likes:      []string{},
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.refreshRating(ctx, property.ID)

	if property.AgentID != userID {
		s.emit(ctx, kafka.Event{
			Type:        kafka.EventReviewPosted,
			RecipientID: property.AgentID,
			ActorID:     userID,
			PropertyID:  property.ID,
			ReviewID:    review.ID,
			AmountCents: int64(review.Rating),
		})
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, userID, id string, input UpdateReviewInput) (*domain.Review, error) {
	review, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	comment, err := domain.ValidateReview(input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}

	editedAt := s.now()
	review.Rating = input.Rating
	review.Comment = comment
	review.IsEdited = true
	review.EditedAt = &editedAt

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	s.refreshRating(ctx, review.PropertyID)
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, id string) error {
	review, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.refreshRating(ctx, review.PropertyID)
	return nil
}

func (s *ReviewService) ToggleLike(ctx context.Context, userID, id string) (*domain.Review, error) {
	return s.reviews.ToggleLike(ctx, id, userID)
}

func (s *ReviewService) ListForProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	return s.reviews.ListByProperty(ctx, propertyID)
}

func (s *ReviewService) UserReviewForProperty(ctx context.Context, userID, propertyID string) (*domain.Review, error) {
	return s.reviews.GetByUserAndProperty(ctx, userID, propertyID)
}

func (s *ReviewService) Rating(ctx context.Context, propertyID string) (domain.RatingSummary, error) {
	if s.cache != nil {
		if summary, ok := s.cache.Get(ctx, propertyID); ok {
			return summary, nil
		}
	}

	summary, err := s.reviews.RatingStats(ctx, propertyID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, propertyID, summary)
	}
	return summary, nil
}

func (s *ReviewService) owned(ctx context.Context, userID, id string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("%w: only the author can change a review", domain.ErrForbidden)
	}
	return review, nil
}

// refreshRating drops the cached summary and stores the recomputed one on the property.
func (s *ReviewService) refreshRating(ctx context.Context, propertyID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, propertyID)
	}
	summary, err := s.Rating(ctx, propertyID)
	if err != nil {
		log.Printf("WARNING: failed to recompute rating for property %s: %v", propertyID, err)
		return
	}
	if err := s.properties.UpdateRating(ctx, propertyID, summary); err != nil {
		log.Printf("WARNING: failed to store rating for property %s: %v", propertyID, err)
	}
}

func (s *ReviewService) emit(ctx context.Context, event kafka.Event) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.now()
	s.events.Emit(ctx, event)
}

var _ ReviewUseCase = (*ReviewService)(nil)
