package pricing

import (
	"testing"
	"time"

	"slotbook/internal/domain/coupons"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(i int) *int           { return &i }

func testCoupon(mutate func(c *coupons.Coupon)) *coupons.Coupon {
	c := &coupons.Coupon{
		ID:            1,
		Code:          "SAVE20",
		DiscountType:  coupons.DiscountPercentage,
		DiscountValue: 20,
		MinAmount:     0,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(time.Hour),
		IsActive:      true,
	}
	if mutate != nil {
		mutate(c)
	}
	return c
}

func TestApplyPercentage(t *testing.T) {
	tests := []struct {
		name         string
		coupon       *coupons.Coupon
		amount       float64
		wantDiscount float64
		wantFinal    float64
	}{
		{
			name:         "plain percentage",
			coupon:       testCoupon(nil),
			amount:       1000,
			wantDiscount: 200,
			wantFinal:    800,
		},
		{
			name: "capped by max discount",
			coupon: testCoupon(func(c *coupons.Coupon) {
				c.MaxDiscount = ptrFloat(80)
			}),
			amount:       500,
			wantDiscount: 80,
			wantFinal:    420,
		},
		{
			name: "cap higher than raw discount leaves it alone",
			coupon: testCoupon(func(c *coupons.Coupon) {
				c.MaxDiscount = ptrFloat(500)
			}),
			amount:       1000,
			wantDiscount: 200,
			wantFinal:    800,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Apply(tt.coupon, tt.amount)
			require.True(t, q.Valid)
			assert.Empty(t, q.Message)
			assert.InDelta(t, tt.wantDiscount, q.DiscountAmount, 0.001)
			assert.InDelta(t, tt.wantFinal, q.FinalAmount, 0.001)
		})
	}
}

func TestApplyFixed(t *testing.T) {
	coupon := testCoupon(func(c *coupons.Coupon) {
		c.DiscountType = coupons.DiscountFixed
		c.DiscountValue = 100
	})

	q := Apply(coupon, 600)
	require.True(t, q.Valid)
	assert.InDelta(t, 100, q.DiscountAmount, 0.001)
	assert.InDelta(t, 500, q.FinalAmount, 0.001)
}

func TestApplyFixedNeverNegative(t *testing.T) {
	coupon := testCoupon(func(c *coupons.Coupon) {
		c.DiscountType = coupons.DiscountFixed
		c.DiscountValue = 500
	})

	q := Apply(coupon, 300)
	require.True(t, q.Valid)
	assert.InDelta(t, 0, q.FinalAmount, 0.001)
	// reported discount never exceeds what was deducted
	assert.InDelta(t, 300, q.DiscountAmount, 0.001)
}

func TestApplyBelowMinimum(t *testing.T) {
	coupon := testCoupon(func(c *coupons.Coupon) {
		c.MinAmount = 200
	})

	q := Apply(coupon, 100)
	require.False(t, q.Valid)
	assert.Zero(t, q.DiscountAmount)
	assert.InDelta(t, 100, q.FinalAmount, 0.001)
	assert.Contains(t, q.Message, "minimum amount")
}

func TestApplyMinimumIsInclusive(t *testing.T) {
	coupon := testCoupon(func(c *coupons.Coupon) {
		c.MinAmount = 200
	})

	q := Apply(coupon, 200)
	require.True(t, q.Valid)
	assert.InDelta(t, 40, q.DiscountAmount, 0.001)
}

func TestApplyUsageLimitReached(t *testing.T) {
	coupon := testCoupon(func(c *coupons.Coupon) {
		c.UsageLimit = ptrInt(5)
		c.UsedCount = 5
	})

	for _, amount := range []float64{10, 500, 100000} {
		q := Apply(coupon, amount)
		require.False(t, q.Valid)
		assert.Zero(t, q.DiscountAmount)
		assert.InDelta(t, amount, q.FinalAmount, 0.001)
		assert.Equal(t, "coupon usage limit reached", q.Message)
	}
}

func TestApplyUnderUsageLimit(t *testing.T) {
	coupon := testCoupon(func(c *coupons.Coupon) {
		c.UsageLimit = ptrInt(5)
		c.UsedCount = 4
	})

	q := Apply(coupon, 100)
	assert.True(t, q.Valid)
}

func TestApplyIsPure(t *testing.T) {
	coupon := testCoupon(func(c *coupons.Coupon) {
		c.MaxDiscount = ptrFloat(80)
	})

	first := Apply(coupon, 500)
	second := Apply(coupon, 500)
	assert.Equal(t, first, second)
}
