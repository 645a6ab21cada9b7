package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

type Review struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	BookingID  string     `json:"booking_id,omitempty"`
	UserID     string     `json:"user_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	Likes      []string   `json:"likes"`
	IsEdited   bool       `json:"is_edited"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ValidateReview checks the rating range and returns the trimmed comment.
func ValidateReview(rating int, comment string) (string, error) {
	if rating < MinRating || rating > MaxRating {
		return "", fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return "", fmt.Errorf("%w: comment is required", ErrValidation)
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return "", fmt.Errorf("%w: comment must be at most %d characters", ErrValidation, MaxCommentLength)
	}
	return comment, nil
}

func (r Review) LikedBy(userID string) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// NewRatingSummary rounds avg to one decimal place.
func NewRatingSummary(avg float64, count int) RatingSummary {
	if count == 0 {
		return RatingSummary{}
	}
	return RatingSummary{Average: math.Round(avg*10) / 10, Count: count}
}

func SummarizeReviews(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return NewRatingSummary(float64(total)/float64(len(reviews)), len(reviews))
}
