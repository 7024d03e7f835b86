package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"slotbook/internal/domain/storage"
	"slotbook/internal/domain/users"
	"slotbook/internal/payments"

	"github.com/9ssi7/exponent"
	"github.com/go-chi/chi/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mailerStub struct {
	mu   sync.Mutex
	sent []string
}

func (m *mailerStub) Send(templateFile, username, email string, data any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, templateFile)
	return http.StatusOK, nil
}

func (m *mailerStub) sentTemplates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

type pushStub struct {
	mu        sync.Mutex
	published int
}

func (p *pushStub) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published += len(msgs)
	return nil, nil
}

func (p *pushStub) PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error) {
	return p.Publish(ctx, []*exponent.Message{msg})
}

func newTestApplication(t *testing.T, mock pgxmock.PgxPoolIface) (*application, *mailerStub, *pushStub) {
	t.Helper()

	gateway, err := payments.NewOfflineGateway("test-salt")
	require.NoError(t, err)

	manager := payments.NewManager()
	manager.RegisterGateway("offline", gateway)

	ml := &mailerStub{}
	ps := &pushStub{}

	app := &application{
		config:   config{env: "test"},
		store:    storage.NewContainer(mock),
		logger:   zap.NewNop().Sugar(),
		mailer:   ml,
		payments: manager,
		push:     ps,
	}
	return app, ml, ps
}

func requestWithUser(req *http.Request, user *users.User) *http.Request {
	ctx := context.WithValue(req.Context(), userCtx, user)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func expectSlotSelect(mock pgxmock.PgxPoolIface, slotID int64, price float64, status string) {
	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT.+FROM time_slots WHERE id = \$1`).
		WithArgs(slotID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "ground_id", "date", "start_time", "end_time",
			"price", "status", "is_hot_selling", "created_at",
		}).AddRow(slotID, int64(2), now, now, now.Add(time.Hour), price, status, false, now))
}

func expectBookingDetailSelect(mock pgxmock.PgxPoolIface, bookingID, userID int64, final float64) {
	now := time.Now()
	paymentID := "PAY-x"
	mock.ExpectQuery(`(?s)SELECT b.id.+FROM bookings b.+WHERE b.id = \$1`).
		WithArgs(bookingID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "slot_id", "booking_date", "total_amount",
			"discount_amount", "final_amount", "coupon_id", "payment_status",
			"payment_id", "created_at", "updated_at",
			"date", "start_time", "end_time",
			"ground_name", "sport_type", "venue_name", "code",
		}).AddRow(bookingID, userID, int64(11), now, 500.0, 500.0-final, final,
			nil, "completed", &paymentID, now, now,
			now, now, now.Add(time.Hour),
			"Court 1", "badminton", "City Arena", nil))
}

func TestCreateBookingHappyPath(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, ml, ps := newTestApplication(t, mock)

	now := time.Now()

	expectSlotSelect(mock, 11, 500, "available")
	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE time_slots SET status = 'booked'.+status = 'available'`).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(int64(7), int64(11), pgxmock.AnyArg(), 500.0, 0.0, 500.0,
			pgxmock.AnyArg(), "completed", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(99), now, now))
	mock.ExpectCommit()
	mock.ExpectRollback()
	expectBookingDetailSelect(mock, 99, 7, 500)
	mock.ExpectQuery(`SELECT expo_push_token FROM user_push_tokens`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"expo_push_token"}).
			AddRow("ExponentPushToken[abc]"))

	body := bytes.NewBufferString(`{"slot_id": 11}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", body)
	req = requestWithUser(req, &users.User{ID: 7, FullName: "Asha", Email: "asha@example.com", Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.createBookingHandler(rr, req)
	app.wg.Wait()

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Data struct {
			ID          int64   `json:"id"`
			FinalAmount float64 `json:"final_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.EqualValues(t, 99, resp.Data.ID)
	assert.Equal(t, 500.0, resp.Data.FinalAmount)

	assert.Contains(t, ml.sentTemplates(), "booking_confirmation.tmpl")
	assert.Equal(t, 1, ps.published)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingAppliesCoupon(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	now := time.Now()
	maxDiscount := 80.0
	usageLimit := 100

	expectSlotSelect(mock, 11, 500, "available")
	mock.ExpectQuery(`(?s)SELECT.+FROM coupons.+WHERE code = \$1`).
		WithArgs("SUMMER20").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "code", "description", "discount_type", "discount_value",
			"min_amount", "max_discount", "valid_from", "valid_until",
			"usage_limit", "used_count", "is_active", "created_at",
		}).AddRow(int64(5), "SUMMER20", nil, "percentage", 20.0,
			0.0, &maxDiscount, now.Add(-time.Hour), now.Add(time.Hour),
			&usageLimit, 3, true, now))
	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE time_slots SET status = 'booked'.+status = 'available'`).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(int64(7), int64(11), pgxmock.AnyArg(), 500.0, 80.0, 420.0,
			pgxmock.AnyArg(), "completed", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(99), now, now))
	mock.ExpectExec(`UPDATE coupons SET used_count = used_count \+ 1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()
	expectBookingDetailSelect(mock, 99, 7, 420)
	mock.ExpectQuery(`SELECT expo_push_token FROM user_push_tokens`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"expo_push_token"}))

	body := bytes.NewBufferString(`{"slot_id": 11, "coupon_code": "summer20"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", body)
	req = requestWithUser(req, &users.User{ID: 7, FullName: "Asha", Email: "asha@example.com", Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.createBookingHandler(rr, req)
	app.wg.Wait()

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsTakenSlotEarly(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	expectSlotSelect(mock, 11, 500, "booked")

	body := bytes.NewBufferString(`{"slot_id": 11}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", body)
	req = requestWithUser(req, &users.User{ID: 7, Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.createBookingHandler(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingConflictInsideTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, ml, _ := newTestApplication(t, mock)

	expectSlotSelect(mock, 11, 500, "available")
	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE time_slots SET status = 'booked'.+status = 'available'`).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	body := bytes.NewBufferString(`{"slot_id": 11}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", body)
	req = requestWithUser(req, &users.User{ID: 7, Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.createBookingHandler(rr, req)
	app.wg.Wait()

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Empty(t, ml.sentTemplates())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownCoupon(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	expectSlotSelect(mock, 11, 500, "available")
	mock.ExpectQuery(`(?s)SELECT.+FROM coupons.+WHERE code = \$1`).
		WithArgs("NOPE").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	body := bytes.NewBufferString(`{"slot_id": 11, "coupon_code": "nope"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", body)
	req = requestWithUser(req, &users.User{ID: 7, Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.createBookingHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid or expired coupon")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingCouponBelowMinimum(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	now := time.Now()

	expectSlotSelect(mock, 11, 100, "available")
	mock.ExpectQuery(`(?s)SELECT.+FROM coupons.+WHERE code = \$1`).
		WithArgs("BIGSPEND").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "code", "description", "discount_type", "discount_value",
			"min_amount", "max_discount", "valid_from", "valid_until",
			"usage_limit", "used_count", "is_active", "created_at",
		}).AddRow(int64(6), "BIGSPEND", nil, "fixed", 50.0,
			200.0, nil, now.Add(-time.Hour), now.Add(time.Hour),
			nil, 0, true, now))

	body := bytes.NewBufferString(`{"slot_id": 11, "coupon_code": "bigspend"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", body)
	req = requestWithUser(req, &users.User{ID: 7, Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.createBookingHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "minimum amount")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingDeniedForOtherUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	expectBookingDetailSelect(mock, 99, 7, 500)

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/99", nil)
	req = withURLParam(req, "bookingID", "99")
	req = requestWithUser(req, &users.User{ID: 8, Role: users.RoleUser})
	rr := httptest.NewRecorder()

	app.getBookingHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingAllowedForAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app, _, _ := newTestApplication(t, mock)

	expectBookingDetailSelect(mock, 99, 7, 500)

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/99", nil)
	req = withURLParam(req, "bookingID", "99")
	req = requestWithUser(req, &users.User{ID: 1, Role: users.RoleAdmin})
	rr := httptest.NewRecorder()

	app.getBookingHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
