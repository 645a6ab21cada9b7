package profiles

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	args := m.Called(ctx, folder, filename, data)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func ptr(s string) *string { return &s }

func TestProfileService_Update_Merges(t *testing.T) {
	repo := &mocks.ProfileRepository{}
	service := NewProfileService(repo, &MockFileStore{})
	ctx := context.Background()

	repo.On("Get", ctx, "u1").Return(&domain.Profile{ID: "u1", Name: "Old", Email: "a@b.c", Phone: "123"}, nil)
	repo.On("Upsert", ctx, mock.AnythingOfType("*domain.Profile")).Return(nil)

	profile, err := service.Update(ctx, "u1", UpdateProfileInput{Name: ptr("  New Name "), Bio: ptr("Agent since 2010")})

	require.NoError(t, err)
	assert.Equal(t, "New Name", profile.Name)
	assert.Equal(t, "123", profile.Phone)
	assert.Equal(t, "a@b.c", profile.Email)
	assert.Equal(t, "Agent since 2010", profile.Bio)
}

func TestProfileService_Update_CreatesMissingProfile(t *testing.T) {
	repo := &mocks.ProfileRepository{}
	service := NewProfileService(repo, &MockFileStore{})
	ctx := context.Background()

	repo.On("Get", ctx, "u1").Return(nil, domain.ErrNotFound)
	repo.On("Upsert", ctx, mock.MatchedBy(func(p *domain.Profile) bool { return p.ID == "u1" && p.Phone == "555" })).Return(nil)

	profile, err := service.Update(ctx, "u1", UpdateProfileInput{Phone: ptr("555")})

	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	repo.AssertExpectations(t)
}

func TestProfileService_Update_EmailFromToken(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"claim replaces stored", "new@example.com", "new@example.com"},
		{"missing claim keeps stored", "", "a@b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.ProfileRepository{}
			service := NewProfileService(repo, &MockFileStore{})
			ctx := context.Background()

			repo.On("Get", ctx, "u1").Return(&domain.Profile{ID: "u1", Name: "Ann", Email: "a@b.c"}, nil)
			repo.On("Upsert", ctx, mock.MatchedBy(func(p *domain.Profile) bool { return p.Email == tt.want })).Return(nil)

			profile, err := service.Update(ctx, "u1", UpdateProfileInput{Email: tt.email})

			require.NoError(t, err)
			assert.Equal(t, tt.want, profile.Email)
			repo.AssertExpectations(t)
		})
	}
}

func TestProfileService_Update_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input UpdateProfileInput
	}{
		{"blank name", UpdateProfileInput{Name: ptr("   ")}},
		{"long bio", UpdateProfileInput{Bio: ptr(strings.Repeat("x", 501))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.ProfileRepository{}
			service := NewProfileService(repo, &MockFileStore{})
			ctx := context.Background()
			repo.On("Get", ctx, "u1").Return(&domain.Profile{ID: "u1"}, nil)

			_, err := service.Update(ctx, "u1", tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestProfileService_UploadAvatar_ReplacesOld(t *testing.T) {
	repo := &mocks.ProfileRepository{}
	files := &MockFileStore{}
	service := NewProfileService(repo, files)
	ctx := context.Background()
	data := []byte("jpeg")

	repo.On("Get", ctx, "u1").Return(&domain.Profile{ID: "u1", PhotoURL: "https://cdn/avatars/u1/old.jpg"}, nil)
	files.On("Upload", ctx, "avatars/u1", "new.jpg", data).Return("https://cdn/avatars/u1/new.jpg", nil)
	repo.On("Upsert", ctx, mock.AnythingOfType("*domain.Profile")).Return(nil)
	files.On("Delete", ctx, "https://cdn/avatars/u1/old.jpg").Return(errors.New("gone"))

	profile, err := service.UploadAvatar(ctx, "u1", "new.jpg", data)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn/avatars/u1/new.jpg", profile.PhotoURL)
	files.AssertExpectations(t)
}

func TestProfileService_UploadAvatar_Empty(t *testing.T) {
	service := NewProfileService(&mocks.ProfileRepository{}, &MockFileStore{})

	_, err := service.UploadAvatar(context.Background(), "u1", "a.jpg", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
