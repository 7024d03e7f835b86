package storage

import (
	"context"

	"slotbook/internal/domain/bookings"
	"slotbook/internal/domain/coupons"
	"slotbook/internal/domain/grounds"
	"slotbook/internal/domain/pushtokens"
	"slotbook/internal/domain/slots"
	"slotbook/internal/domain/users"
	"slotbook/internal/domain/venues"
	"slotbook/internal/infra/dbx"
)

type Container struct {
	pool       dbx.Beginner
	Users      users.Store
	Venues     venues.Store
	Grounds    grounds.Store
	Slots      slots.Store
	Bookings   bookings.Store
	Coupons    coupons.Store
	PushTokens pushtokens.Store
}

func NewContainer(db dbx.Beginner) *Container {
	return &Container{
		pool:       db,
		Users:      users.NewRepository(db),
		Venues:     venues.NewRepository(db),
		Grounds:    grounds.NewRepository(db),
		Slots:      slots.NewRepository(db),
		Bookings:   bookings.NewRepository(db),
		Coupons:    coupons.NewRepository(db),
		PushTokens: pushtokens.NewRepository(db),
	}
}

// BookingTx is a tx-scoped set of repos for the submit unit of work:
// slot flip, booking insert and coupon increment commit or roll back
// together.
type BookingTx struct {
	Slots    slots.Store
	Bookings bookings.Store
	Coupons  coupons.Store
}

// WithBookingTx runs fn inside one transaction. Rollback after commit
// is a no-op, so the deferred call is safe on every path.
func (c *Container) WithBookingTx(ctx context.Context, fn func(tx *BookingTx) error) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	s := &BookingTx{
		Slots:    slots.NewRepository(tx),
		Bookings: bookings.NewRepository(tx),
		Coupons:  coupons.NewRepository(tx),
	}

	if err := fn(s); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
