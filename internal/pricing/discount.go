// Package pricing computes coupon discounts for the booking workflow.
// Everything here is pure: the caller fetches the coupon, the engine
// only does arithmetic and rule checks, and business-rule violations
// come back as an invalid Quote rather than an error.
package pricing

import (
	"fmt"

	"slotbook/internal/domain/coupons"
)

// Quote is the outcome of applying a coupon to an amount. When Valid is
// false the amounts pass through unchanged and Message says why.
type Quote struct {
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
	Valid          bool    `json:"is_valid"`
	Message        string  `json:"message,omitempty"`
}

// Apply evaluates the coupon's rules against amount and computes the
// discounted total. The minimum-amount check is inclusive: an amount
// equal to the minimum qualifies.
func Apply(c *coupons.Coupon, amount float64) Quote {
	if amount < c.MinAmount {
		return Quote{
			FinalAmount: amount,
			Message:     fmt.Sprintf("minimum amount of %.2f required", c.MinAmount),
		}
	}

	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return Quote{
			FinalAmount: amount,
			Message:     "coupon usage limit reached",
		}
	}

	var discount float64
	switch c.DiscountType {
	case coupons.DiscountPercentage:
		discount = amount * c.DiscountValue / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	default:
		// fixed discount, may exceed the amount
		discount = c.DiscountValue
	}

	final := amount - discount
	if final < 0 {
		// a fixed discount larger than the amount floors the total at
		// zero; report only what was actually deducted
		final = 0
		discount = amount
	}

	return Quote{
		DiscountAmount: discount,
		FinalAmount:    final,
		Valid:          true,
	}
}
