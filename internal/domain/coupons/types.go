package coupons

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("coupon not found")
	ErrUsageExhausted    = errors.New("coupon usage limit reached")
	ErrDuplicateCode     = errors.New("a coupon with that code already exists")
	QueryTimeoutDuration = time.Second * 5
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon carries the eligibility rules the discount engine evaluates:
// minimum amount, usage cap, validity window and the discount shape.
type Coupon struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	Description   *string    `json:"description,omitempty"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue float64    `json:"discount_value"`
	MinAmount     float64    `json:"min_amount"`
	MaxDiscount   *float64   `json:"max_discount,omitempty"`
	ValidFrom     time.Time  `json:"valid_from"`
	ValidUntil    time.Time  `json:"valid_until"`
	UsageLimit    *int       `json:"usage_limit,omitempty"`
	UsedCount     int        `json:"used_count"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
}
