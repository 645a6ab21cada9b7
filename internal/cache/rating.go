package cache

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/karlseguin/ccache/v3"
)

const localRatingsMaxSize = 1000

type ratingStore interface {
	GetRating(ctx context.Context, propertyID string) (*domain.RatingSummary, error)
	SetRating(ctx context.Context, propertyID string, s domain.RatingSummary, ttl time.Duration) error
	DeleteRating(ctx context.Context, propertyID string) error
}

// RatingCache keeps property rating summaries in process memory in front of Redis.
type RatingCache struct {
	local  *ccache.Cache[*domain.RatingSummary]
	remote ratingStore
	ttl    time.Duration
}

// NewRatingCache builds the two-level cache. remote may be nil, in which case
// only the in-process level is used.
func NewRatingCache(remote ratingStore, ttl time.Duration) *RatingCache {
	return &RatingCache{
		local:  ccache.New(ccache.Configure[*domain.RatingSummary]().MaxSize(localRatingsMaxSize)),
		remote: remote,
		ttl:    ttl,
	}
}

func (c *RatingCache) Get(ctx context.Context, propertyID string) (domain.RatingSummary, bool) {
	if item := c.local.Get(propertyID); item != nil && !item.Expired() {
		return *item.Value(), true
	}
	if c.remote == nil {
		return domain.RatingSummary{}, false
	}

	s, err := c.remote.GetRating(ctx, propertyID)
	if err != nil {
		log.Printf("WARNING: rating cache read for %s: %v", propertyID, err)
		return domain.RatingSummary{}, false
	}
	if s == nil {
		return domain.RatingSummary{}, false
	}
	c.local.Set(propertyID, s, c.ttl)
	return *s, true
}

func (c *RatingCache) Set(ctx context.Context, propertyID string, s domain.RatingSummary) {
	c.local.Set(propertyID, &s, c.ttl)
	if c.remote == nil {
		return
	}
	if err := c.remote.SetRating(ctx, propertyID, s, c.ttl); err != nil {
		log.Printf("WARNING: rating cache write for %s: %v", propertyID, err)
	}
}

func (c *RatingCache) Invalidate(ctx context.Context, propertyID string) {
	c.local.Delete(propertyID)
	if c.remote == nil {
		return
	}
	if err := c.remote.DeleteRating(ctx, propertyID); err != nil {
		log.Printf("WARNING: rating cache invalidate for %s: %v", propertyID, err)
	}
}

func (c *RatingCache) Stop() {
	c.local.Stop()
}
