package properties

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/google/uuid"
)

type PropertyUseCase interface {
	List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	Latest(ctx context.Context) ([]domain.Property, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	Create(ctx context.Context, agentID string, input CreatePropertyInput) (*domain.Property, error)
	Delete(ctx context.Context, agentID, id string) error
	AttachImage(ctx context.Context, agentID, id, filename string, data []byte) (*domain.Property, error)
}

type Cache interface {
	GetProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	SetProperties(ctx context.Context, filter domain.PropertyFilter, properties []domain.Property) error
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	SetProperty(ctx context.Context, p *domain.Property) error
	InvalidateProperties(ctx context.Context, id string) error
}

type RatingSource interface {
	Rating(ctx context.Context, propertyID string) (domain.RatingSummary, error)
}

// ActiveBookings reports the pending and confirmed stays that still need the property.
type ActiveBookings interface {
	ListActiveForProperty(ctx context.Context, propertyID string) ([]domain.Booking, error)
}

type ImageStore interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (string, error)
}

type CreatePropertyInput struct {
	Name        string              `json:"name"`
	Type        domain.PropertyType `json:"type"`
	Description string              `json:"description"`
	Address     string              `json:"address"`
	PriceCents  int64               `json:"price_cents"`
	Geolocation string              `json:"geolocation"`
	Bedrooms    int                 `json:"bedrooms"`
	Bathrooms   int                 `json:"bathrooms"`
	AreaSqm     int                 `json:"area_sqm"`
	Facilities  []string            `json:"facilities"`
}

type PropertyService struct {
	repo     repository.PropertyRepository
	bookings ActiveBookings
	cache    Cache
	ratings  RatingSource
	images   ImageStore
}

func NewPropertyService(repo repository.PropertyRepository, bookings ActiveBookings, cache Cache, ratings RatingSource, images ImageStore) *PropertyService {
	return &PropertyService{repo: repo, bookings: bookings, cache: cache, ratings: ratings, images: images}
}

func (s *PropertyService) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	filter = filter.Normalize()

	var properties []domain.Property
	if s.cache != nil {
		if cached, err := s.cache.GetProperties(ctx, filter); err == nil && cached != nil {
			properties = cached
		}
	}

	if properties == nil {
		fresh, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		properties = fresh
		if s.cache != nil {
			_ = s.cache.SetProperties(ctx, filter, properties)
		}
	}

	for i := range properties {
		s.withRating(ctx, &properties[i])
	}
	return properties, nil
}

func (s *PropertyService) Latest(ctx context.Context) ([]domain.Property, error) {
	return s.List(ctx, domain.PropertyFilter{Limit: domain.LatestPropertyLimit})
}

func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	var property *domain.Property
	if s.cache != nil {
		if cached, err := s.cache.GetProperty(ctx, id); err == nil && cached != nil {
			property = cached
		}
	}

	if property == nil {
		fresh, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		property = fresh
		if s.cache != nil {
			_ = s.cache.SetProperty(ctx, property)
		}
	}

	s.withRating(ctx, property)
	return property, nil
}

func (s *PropertyService) Create(ctx context.Context, agentID string, input CreatePropertyInput) (*domain.Property, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	property := &domain.Property{
		ID:          uuid.NewString(),
		AgentID:     agentID,
		Name:        strings.TrimSpace(input.Name),
		Type:        input.Type,
		Description: strings.TrimSpace(input.Description),
		Address:     strings.TrimSpace(input.Address),
		PriceCents:  input.PriceCents,
		Images:      []string{},
		Geolocation: input.Geolocation,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		AreaSqm:     input.AreaSqm,
		Facilities:  input.Facilities,
	}
	if property.Facilities == nil {
		property.Facilities = []string{}
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "")
	return property, nil
}

func (s *PropertyService) Delete(ctx context.Context, agentID, id string) error {
	if _, err := s.owned(ctx, agentID, id); err != nil {
		return err
	}
	active, err := s.bookings.ListActiveForProperty(ctx, id)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return fmt.Errorf("%w: property has %d pending or confirmed bookings", domain.ErrConflict, len(active))
	}
	if err := s.repo.Delete(ctx, id, agentID); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *PropertyService) AttachImage(ctx context.Context, agentID, id, filename string, data []byte) (*domain.Property, error) {
	if s.images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}
	if _, err := s.owned(ctx, agentID, id); err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, "properties/"+id, filename, data)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.AppendImage(ctx, id, agentID, url)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.withRating(ctx, property)
	return property, nil
}

func (s *PropertyService) owned(ctx context.Context, agentID, id string) (*domain.Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.AgentID != agentID {
		return nil, fmt.Errorf("%w: property belongs to another agent", domain.ErrForbidden)
	}
	return property, nil
}

func (s *PropertyService) withRating(ctx context.Context, p *domain.Property) {
	if s.ratings == nil {
		return
	}
	summary, err := s.ratings.Rating(ctx, p.ID)
	if err != nil {
		log.Printf("WARNING: rating lookup for property %s: %v", p.ID, err)
		return
	}
	p.Rating = summary.Average
	p.ReviewCount = summary.Count
}

func (s *PropertyService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProperties(ctx, id); err != nil {
		log.Printf("WARNING: failed to invalidate property cache: %v", err)
	}
}

func validate(input CreatePropertyInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case strings.TrimSpace(input.Address) == "":
		return fmt.Errorf("%w: address is required", domain.ErrValidation)
	case !input.Type.Valid():
		return fmt.Errorf("%w: unknown property type %q", domain.ErrValidation, input.Type)
	case input.PriceCents <= 0:
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	case input.Bedrooms < 0 || input.Bathrooms < 0 || input.AreaSqm < 0:
		return fmt.Errorf("%w: room counts and area cannot be negative", domain.ErrValidation)
	}
	return nil
}

var _ PropertyUseCase = (*PropertyService)(nil)
