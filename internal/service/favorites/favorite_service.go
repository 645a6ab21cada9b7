package favorites

import (
	"context"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/google/uuid"
)

type FavoriteUseCase interface {
	Add(ctx context.Context, userID, propertyID string) error
	Remove(ctx context.Context, userID, propertyID string) error
	List(ctx context.Context, userID string) ([]domain.Property, error)
	IDs(ctx context.Context, userID string) ([]string, error)
	IsFavorite(ctx context.Context, userID, propertyID string) (bool, error)
}

type FavoriteService struct {
	favorites  repository.FavoriteRepository
	properties repository.PropertyRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository, properties repository.PropertyRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, properties: properties}
}

// Add favourites a property. Adding an existing favourite succeeds.
func (s *FavoriteService) Add(ctx context.Context, userID, propertyID string) error {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return err
	}
	return s.favorites.Add(ctx, &domain.Favorite{
		ID:         uuid.NewString(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now(),
	})
}

func (s *FavoriteService) Remove(ctx context.Context, userID, propertyID string) error {
	return s.favorites.Remove(ctx, userID, propertyID)
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]domain.Property, error) {
	ids, err := s.favorites.ListPropertyIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Property{}, nil
	}
	return s.properties.GetByIDs(ctx, ids)
}

func (s *FavoriteService) IDs(ctx context.Context, userID string) ([]string, error) {
	return s.favorites.ListPropertyIDs(ctx, userID)
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	return s.favorites.Exists(ctx, userID, propertyID)
}

var _ FavoriteUseCase = (*FavoriteService)(nil)
