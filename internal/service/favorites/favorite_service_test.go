package favorites

import (
	"context"
	"testing"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_Add(t *testing.T) {
	favorites := &mocks.FavoriteRepository{}
	properties := &mocks.PropertyRepository{}
	service := NewFavoriteService(favorites, properties)
	ctx := context.Background()

	properties.On("GetByID", ctx, "p1").Return(&domain.Property{ID: "p1"}, nil)
	favorites.On("Add", ctx, mock.MatchedBy(func(f *domain.Favorite) bool {
		return f.UserID == "u1" && f.PropertyID == "p1" && f.ID != ""
	})).Return(nil).Twice()

	require.NoError(t, service.Add(ctx, "u1", "p1"))
	require.NoError(t, service.Add(ctx, "u1", "p1"))
	favorites.AssertExpectations(t)
}

func TestFavoriteService_Add_UnknownProperty(t *testing.T) {
	favorites := &mocks.FavoriteRepository{}
	properties := &mocks.PropertyRepository{}
	service := NewFavoriteService(favorites, properties)
	ctx := context.Background()

	properties.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound)

	err := service.Add(ctx, "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	favorites.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestFavoriteService_List(t *testing.T) {
	favorites := &mocks.FavoriteRepository{}
	properties := &mocks.PropertyRepository{}
	service := NewFavoriteService(favorites, properties)
	ctx := context.Background()

	favorites.On("ListPropertyIDs", ctx, "u1").Return([]string{"p2", "p1"}, nil)
	properties.On("GetByIDs", ctx, []string{"p2", "p1"}).Return([]domain.Property{{ID: "p2"}, {ID: "p1"}}, nil)

	list, err := service.List(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].ID)
}

func TestFavoriteService_List_Empty(t *testing.T) {
	favorites := &mocks.FavoriteRepository{}
	properties := &mocks.PropertyRepository{}
	service := NewFavoriteService(favorites, properties)
	ctx := context.Background()

	favorites.On("ListPropertyIDs", ctx, "u1").Return([]string{}, nil)

	list, err := service.List(ctx, "u1")

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	properties.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestFavoriteService_RemoveAndIsFavorite(t *testing.T) {
	favorites := &mocks.FavoriteRepository{}
	service := NewFavoriteService(favorites, &mocks.PropertyRepository{})
	ctx := context.Background()

	favorites.On("Remove", ctx, "u1", "p1").Return(nil)
	favorites.On("Exists", ctx, "u1", "p1").Return(false, nil)

	require.NoError(t, service.Remove(ctx, "u1", "p1"))
	ok, err := service.IsFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}
