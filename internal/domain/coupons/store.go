package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"slotbook/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	GetByID(ctx context.Context, id int64) (*Coupon, error)
	ListActive(ctx context.Context) ([]Coupon, error)
	ListAll(ctx context.Context) ([]Coupon, error)
	Create(ctx context.Context, coupon *Coupon) error
	Update(ctx context.Context, id int64, updates map[string]any) (*Coupon, error)
	Delete(ctx context.Context, id int64) error
	IncrementUsage(ctx context.Context, id int64) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const couponColumns = `id, code, description, discount_type, discount_value, min_amount,
	max_discount, valid_from, valid_until, usage_limit, used_count, is_active, created_at`

// GetByCode looks up an active coupon whose validity window contains
// now. Codes are stored uppercase, so the input is normalized first.
func (r *Repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	query := `
	SELECT ` + couponColumns + `
	FROM coupons
	WHERE code = $1
	  AND is_active = true
	  AND valid_from <= now()
	  AND valid_until >= now()`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, query, strings.ToUpper(code)))
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) ListActive(ctx context.Context) ([]Coupon, error) {
	query := `
	SELECT ` + couponColumns + `
	FROM coupons
	WHERE is_active = true
	  AND valid_from <= now()
	  AND valid_until >= now()
	ORDER BY created_at DESC`

	return r.list(ctx, query)
}

func (r *Repository) ListAll(ctx context.Context) ([]Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *Repository) Create(ctx context.Context, coupon *Coupon) error {
	query := `
	INSERT INTO coupons (code, description, discount_type, discount_value, min_amount,
		max_discount, valid_from, valid_until, usage_limit, is_active)
	VALUES (upper($1), $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, code, used_count, created_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		coupon.Code, coupon.Description, coupon.DiscountType, coupon.DiscountValue,
		coupon.MinAmount, coupon.MaxDiscount, coupon.ValidFrom, coupon.ValidUntil,
		coupon.UsageLimit, coupon.IsActive,
	).Scan(&coupon.ID, &coupon.Code, &coupon.UsedCount, &coupon.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "coupons_code_key") {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*Coupon, error) {
	allowed := map[string]bool{
		"description": true, "discount_type": true, "discount_value": true,
		"min_amount": true, "max_discount": true, "valid_from": true,
		"valid_until": true, "usage_limit": true, "is_active": true,
	}

	var setClauses []string
	args := []any{id}
	for col, val := range updates {
		if !allowed[col] {
			continue
		}
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE coupons SET ` + strings.Join(setClauses, ", ") +
		` WHERE id = $1 RETURNING ` + couponColumns

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM coupons WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementUsage bumps used_count atomically, refusing once the usage
// limit is reached. Run it inside the booking transaction so an
// exhausted coupon rolls the whole booking back.
func (r *Repository) IncrementUsage(ctx context.Context, id int64) error {
	query := `
	UPDATE coupons SET used_count = used_count + 1
	WHERE id = $1
	  AND (usage_limit IS NULL OR used_count < usage_limit)`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUsageExhausted
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Coupon
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Description, &c.DiscountType,
			&c.DiscountValue, &c.MinAmount, &c.MaxDiscount, &c.ValidFrom,
			&c.ValidUntil, &c.UsageLimit, &c.UsedCount, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *Repository) scanOne(row pgx.Row) (*Coupon, error) {
	var c Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Description, &c.DiscountType,
		&c.DiscountValue, &c.MinAmount, &c.MaxDiscount, &c.ValidFrom,
		&c.ValidUntil, &c.UsageLimit, &c.UsedCount, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
