package bookings

import (
	"context"
	"errors"

	"slotbook/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id int64) (*Detail, error)
	ListByUser(ctx context.Context, userID int64) ([]Detail, error)
	ListAll(ctx context.Context) ([]Detail, error)
	UpdatePayment(ctx context.Context, id int64, status string, paymentID *string) (*Booking, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

func (r *Repository) Create(ctx context.Context, booking *Booking) error {
	query := `
	INSERT INTO bookings (user_id, slot_id, booking_date, total_amount,
		discount_amount, final_amount, coupon_id, payment_status, payment_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		booking.UserID,
		booking.SlotID,
		booking.BookingDate,
		booking.TotalAmount,
		booking.DiscountAmount,
		booking.FinalAmount,
		booking.CouponID,
		booking.PaymentStatus,
		booking.PaymentID,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

const detailQuery = `
	SELECT b.id, b.user_id, b.slot_id, b.booking_date, b.total_amount,
	       b.discount_amount, b.final_amount, b.coupon_id, b.payment_status,
	       b.payment_id, b.created_at, b.updated_at,
	       ts.date, ts.start_time, ts.end_time,
	       g.name, g.sport_type, v.name, c.code
	FROM bookings b
	JOIN time_slots ts ON ts.id = b.slot_id
	JOIN grounds g ON g.id = ts.ground_id
	JOIN venues v ON v.id = g.venue_id
	LEFT JOIN coupons c ON c.id = b.coupon_id`

func (r *Repository) GetByID(ctx context.Context, id int64) (*Detail, error) {
	query := detailQuery + ` WHERE b.id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var d Detail
	if err := scanDetail(r.db.QueryRow(ctx, query, id), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByUser returns the caller's bookings, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Detail, error) {
	query := detailQuery + ` WHERE b.user_id = $1 ORDER BY b.created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]Detail, error) {
	query := detailQuery + ` ORDER BY b.created_at DESC`
	return r.list(ctx, query)
}

// UpdatePayment is the only post-creation mutation a booking supports.
func (r *Repository) UpdatePayment(ctx context.Context, id int64, status string, paymentID *string) (*Booking, error) {
	query := `
	UPDATE bookings
	SET payment_status = $2,
	    payment_id = COALESCE($3, payment_id),
	    updated_at = now()
	WHERE id = $1
	RETURNING id, user_id, slot_id, booking_date, total_amount, discount_amount,
	          final_amount, coupon_id, payment_status, payment_id, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var b Booking
	err := r.db.QueryRow(ctx, query, id, status, paymentID).Scan(
		&b.ID, &b.UserID, &b.SlotID, &b.BookingDate, &b.TotalAmount,
		&b.DiscountAmount, &b.FinalAmount, &b.CouponID, &b.PaymentStatus,
		&b.PaymentID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Detail, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Detail
	for rows.Next() {
		var d Detail
		if err := scanDetail(rows, &d); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDetail(row pgx.Row, d *Detail) error {
	return row.Scan(
		&d.ID, &d.UserID, &d.SlotID, &d.BookingDate, &d.TotalAmount,
		&d.DiscountAmount, &d.FinalAmount, &d.CouponID, &d.PaymentStatus,
		&d.PaymentID, &d.CreatedAt, &d.UpdatedAt,
		&d.SlotDate, &d.SlotStartTime, &d.SlotEndTime,
		&d.GroundName, &d.SportType, &d.VenueName, &d.CouponCode)
}
