package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	var retries int
	repo := NewBookingRepository(pool, WithMaxTxAttempts(3), WithRetryHook(func(int, error) { retries++ }))
	assert.NotNil(t, repo)

	pg := repo.(*PGBookingRepository)
	assert.Equal(t, 3, pg.tx.maxAttempts)
	assert.NotNil(t, pg.tx.onRetry)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pgconn.PgError{Code: codeSerializationFailure}))
	assert.True(t, isRetryable(fmt.Errorf("insert booking: %w", &pgconn.PgError{Code: codeDeadlockDetected})))
	assert.False(t, isRetryable(&pgconn.PgError{Code: codeExclusionViolation}))
	assert.False(t, isRetryable(errors.New("boom")))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: codeExclusionViolation, ConstraintName: "bookings_no_overlap"}), domain.ErrConflict)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "amenities_name_lower_idx"}), domain.ErrAlreadyExists)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
}

func TestBackoffGrows(t *testing.T) {
	assert.Equal(t, 10*time.Millisecond, backoff(1))
	assert.Less(t, backoff(2), backoff(3))
}

func TestPGTimeRoundTrip(t *testing.T) {
	for _, c := range []domain.Clock{0, 1, 630, domain.MinutesPerDay - 1} {
		assert.Equal(t, c, fromPGTime(toPGTime(c)))
	}
	assert.Equal(t, int64(10*time.Hour/time.Microsecond), toPGTime(600).Microseconds)
}

func TestSchemaHasOverlapConstraint(t *testing.T) {
	assert.Contains(t, schema, "EXCLUDE USING gist")
	assert.Contains(t, schema, "WHERE (status = 'booked')")
}
