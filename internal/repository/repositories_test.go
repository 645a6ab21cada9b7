package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}

	assert.NotNil(t, NewPropertyRepository(pool))
	assert.NotNil(t, NewReviewRepository(pool))
	assert.NotNil(t, NewFavoriteRepository(pool))
	assert.NotNil(t, NewNotificationRepository(pool))
	assert.NotNil(t, NewProfileRepository(pool))
}

func TestMapNotFound(t *testing.T) {
	assert.ErrorIs(t, mapNotFound(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, mapNotFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)), domain.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, mapNotFound(other))
	assert.NoError(t, mapNotFound(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	if s := nullString("b1"); assert.NotNil(t, s) {
		assert.Equal(t, "b1", *s)
	}
	assert.Equal(t, []string{}, emptyIfNil(nil))
}
