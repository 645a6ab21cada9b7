package profiles

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/repository"
)

const (
	avatarFolder = "avatars"
	maxBioLength = 500
)

type ProfileUseCase interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, input UpdateProfileInput) (*domain.Profile, error)
	UploadAvatar(ctx context.Context, userID, filename string, data []byte) (*domain.Profile, error)
}

type FileStore interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// UpdateProfileInput carries the fields to change; nil fields are kept.
// Email comes from the caller's token, never from the request body, and is
// only written when non-empty.
type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Bio   *string `json:"bio"`
	Email string  `json:"-"`
}

type ProfileService struct {
	profiles repository.ProfileRepository
	files    FileStore
}

func NewProfileService(profiles repository.ProfileRepository, files FileStore) *ProfileService {
	return &ProfileService{profiles: profiles, files: files}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.Get(ctx, userID)
}

func (s *ProfileService) Update(ctx context.Context, userID string, input UpdateProfileInput) (*domain.Profile, error) {
	profile, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		profile.Name = name
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			return nil, fmt.Errorf("%w: bio must be at most %d characters", domain.ErrValidation, maxBioLength)
		}
		profile.Bio = bio
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		profile.Email = email
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar stores a new photo and removes the previous one from the bucket.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID, filename string, data []byte) (*domain.Profile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrValidation)
	}
	if s.files == nil {
		return nil, errors.New("file storage is not configured")
	}

	profile, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.files.Upload(ctx, avatarFolder+"/"+userID, filename, data)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	previous := profile.PhotoURL
	profile.PhotoURL = url
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	if previous != "" && previous != url {
		if err := s.files.Delete(ctx, previous); err != nil {
			log.Printf("WARNING: failed to delete old avatar %s: %v", previous, err)
		}
	}
	return profile, nil
}

func (s *ProfileService) current(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Profile{ID: userID}, nil
	}
	return profile, err
}

var _ ProfileUseCase = (*ProfileService)(nil)
