package coupons

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var couponRowColumns = []string{
	"id", "code", "description", "discount_type", "discount_value", "min_amount",
	"max_discount", "valid_from", "valid_until", "usage_limit", "used_count",
	"is_active", "created_at",
}

func TestGetByCodeNormalizesToUppercase(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT .+ FROM coupons.+WHERE code = \$1`).
		WithArgs("SAVE20").
		WillReturnRows(pgxmock.NewRows(couponRowColumns).AddRow(
			int64(1), "SAVE20", nil, DiscountPercentage, 20.0, 0.0,
			nil, now.Add(-time.Hour), now.Add(time.Hour), nil, 0, true, now,
		))

	repo := NewRepository(mock)
	c, err := repo.GetByCode(context.Background(), "save20")
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", c.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCodeNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM coupons.+WHERE code = \$1`).
		WithArgs("NOPE").
		WillReturnRows(pgxmock.NewRows(couponRowColumns))

	repo := NewRepository(mock)
	_, err = repo.GetByCode(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementUsageUnderLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE coupons SET used_count = used_count \+ 1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewRepository(mock)
	require.NoError(t, repo.IncrementUsage(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementUsageExhausted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// the capped update touches no row once used_count reached the limit
	mock.ExpectExec(`UPDATE coupons SET used_count = used_count \+ 1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewRepository(mock)
	err = repo.IncrementUsage(context.Background(), 7)
	assert.ErrorIs(t, err, ErrUsageExhausted)
}
