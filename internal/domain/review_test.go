package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateReview(t *testing.T) {
	comment, err := ValidateReview(5, "  Lovely place  ")
	assert.NoError(t, err)
	assert.Equal(t, "Lovely place", comment)

	_, err = ValidateReview(0, "ok")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ValidateReview(6, "ok")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ValidateReview(3, "   ")
	assert.ErrorContains(t, err, "comment is required")

	_, err = ValidateReview(3, strings.Repeat("a", MaxCommentLength+1))
	assert.ErrorContains(t, err, "at most 500")

	_, err = ValidateReview(3, strings.Repeat("é", MaxCommentLength))
	assert.NoError(t, err)
}

func TestSummarizeReviews(t *testing.T) {
	assert.Equal(t, RatingSummary{}, SummarizeReviews(nil))

	s := SummarizeReviews([]Review{{Rating: 5}, {Rating: 4}, {Rating: 4}})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 4.3, s.Average)
}

func TestNewRatingSummary(t *testing.T) {
	assert.Equal(t, RatingSummary{}, NewRatingSummary(4.2, 0))
	assert.Equal(t, RatingSummary{Average: 3.7, Count: 3}, NewRatingSummary(3.6666, 3))
}

func TestReview_LikedBy(t *testing.T) {
	r := Review{Likes: []string{"a", "b"}}
	assert.True(t, r.LikedBy("a"))
	assert.False(t, r.LikedBy("c"))
}
