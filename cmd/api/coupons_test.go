package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotbook/internal/domain/users"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectCouponSelect(mock pgxmock.PgxPoolIface, code string, discountType string, value, minAmount float64, maxDiscount *float64) {
	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT.+FROM coupons.+WHERE code = \$1`).
		WithArgs(code).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "code", "description", "discount_type", "discount_value",
			"min_amount", "max_discount", "valid_from", "valid_until",
			"usage_limit", "used_count", "is_active", "created_at",
		}).AddRow(int64(5), code, nil, discountType, value,
			minAmount, maxDiscount, now.Add(-time.Hour), now.Add(time.Hour),
			nil, 0, true, now))
}

func TestApplyCouponReturnsQuote(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	maxDiscount := 80.0
	expectCouponSelect(mock, "SUMMER20", "percentage", 20, 0, &maxDiscount)

	body := bytes.NewBufferString(`{"code": "summer20", "amount": 500}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/coupons/apply", body)
	req = requestWithUser(req, &users.User{ID: 7, Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.applyCouponHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			DiscountAmount float64 `json:"discount_amount"`
			FinalAmount    float64 `json:"final_amount"`
			Valid          bool    `json:"is_valid"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 80.0, resp.Data.DiscountAmount)
	assert.Equal(t, 420.0, resp.Data.FinalAmount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyCouponIneligibleStillAnswers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	expectCouponSelect(mock, "BIGSPEND", "fixed", 50, 200, nil)

	body := bytes.NewBufferString(`{"code": "bigspend", "amount": 100}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/coupons/apply", body)
	req = requestWithUser(req, &users.User{ID: 7, Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.applyCouponHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			Valid   bool   `json:"is_valid"`
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Valid)
	assert.Contains(t, resp.Data.Message, "minimum amount")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyCouponUnknownCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	mock.ExpectQuery(`(?s)SELECT.+FROM coupons.+WHERE code = \$1`).
		WithArgs("NOPE").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	body := bytes.NewBufferString(`{"code": "nope", "amount": 100}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/coupons/apply", body)
	req = requestWithUser(req, &users.User{ID: 7, Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.applyCouponHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
