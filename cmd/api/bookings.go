package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"slotbook/internal/domain/bookings"
	"slotbook/internal/domain/coupons"
	"slotbook/internal/domain/slots"
	"slotbook/internal/domain/storage"
	"slotbook/internal/mailer"
	"slotbook/internal/notifications"
	"slotbook/internal/payments"
	"slotbook/internal/pricing"

	"github.com/go-chi/chi/v5"
)

type CreateBookingPayload struct {
	SlotID     int64   `json:"slot_id" validate:"required,gt=0"`
	CouponCode *string `json:"coupon_code" validate:"omitempty,max=50"`
}

// createBookingHandler godoc
//
//	@Summary		Books a time slot
//	@Description	Prices the slot, optionally applies a coupon, takes payment and commits the slot flip, booking row and coupon usage as one unit. A slot that was taken in the meantime answers 409.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateBookingPayload	true	"Slot and optional coupon"
//	@Success		201		{object}	bookings.Detail
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		409		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/bookings [post]
func (app *application) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	slot, err := app.store.Slots.GetByID(ctx, payload.SlotID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Cheap pre-check; the transaction below is what actually
	// guarantees the slot is taken at most once.
	if slot.Status != slots.StatusAvailable {
		app.conflictResponse(w, r, errors.New("slot is no longer available"))
		return
	}

	totalAmount := slot.Price
	quote := pricing.Quote{FinalAmount: totalAmount, Valid: true}

	var coupon *coupons.Coupon
	if payload.CouponCode != nil && *payload.CouponCode != "" {
		coupon, err = app.store.Coupons.GetByCode(ctx, *payload.CouponCode)
		if err != nil {
			switch {
			case errors.Is(err, coupons.ErrNotFound):
				app.badRequestResponse(w, r, errors.New("invalid or expired coupon"))
			default:
				app.internalServerError(w, r, err)
			}
			return
		}

		quote = pricing.Apply(coupon, totalAmount)
		if !quote.Valid {
			app.badRequestResponse(w, r, errors.New(quote.Message))
			return
		}
	}

	payResp, err := app.payments.InitiatePayment(ctx, "offline", payments.PaymentRequest{
		UserID:   user.ID,
		SlotID:   slot.ID,
		Amount:   quote.FinalAmount,
		Currency: "NPR",
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	booking := &bookings.Booking{
		UserID:         user.ID,
		SlotID:         slot.ID,
		BookingDate:    slot.Date,
		TotalAmount:    totalAmount,
		DiscountAmount: quote.DiscountAmount,
		FinalAmount:    quote.FinalAmount,
		PaymentStatus:  bookings.PaymentCompleted,
		PaymentID:      &payResp.PaymentID,
	}
	if coupon != nil {
		booking.CouponID = &coupon.ID
	}

	err = app.store.WithBookingTx(ctx, func(tx *storage.BookingTx) error {
		if err := tx.Slots.MarkBooked(ctx, slot.ID); err != nil {
			return err
		}
		if err := tx.Bookings.Create(ctx, booking); err != nil {
			return err
		}
		if coupon != nil {
			if err := tx.Coupons.IncrementUsage(ctx, coupon.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrNotAvailable):
			app.conflictResponse(w, r, errors.New("slot is no longer available"))
		case errors.Is(err, coupons.ErrUsageExhausted):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	detail, err := app.store.Bookings.GetByID(ctx, booking.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.notifyBookingConfirmed(user.ID, user.FullName, user.Email, detail)

	if err := app.jsonResponse(w, http.StatusCreated, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

// notifyBookingConfirmed fires the confirmation email and push in the
// background; neither can fail the booking anymore.
func (app *application) notifyBookingConfirmed(userID int64, fullName, email string, detail *bookings.Detail) {
	app.background(func() {
		vars := struct {
			Username       string
			VenueName      string
			GroundName     string
			Date           string
			StartTime      string
			EndTime        string
			FinalAmount    float64
			CouponCode     *string
			DiscountAmount float64
			PaymentID      *string
		}{
			Username:       fullName,
			VenueName:      detail.VenueName,
			GroundName:     detail.GroundName,
			Date:           detail.SlotDate.Format("2006-01-02"),
			StartTime:      detail.SlotStartTime.Format("15:04"),
			EndTime:        detail.SlotEndTime.Format("15:04"),
			FinalAmount:    detail.FinalAmount,
			CouponCode:     detail.CouponCode,
			DiscountAmount: detail.DiscountAmount,
			PaymentID:      detail.PaymentID,
		}

		if _, err := app.mailer.Send(mailer.BookingConfirmationTemplate, fullName, email, vars); err != nil {
			app.logger.Errorw("error sending booking confirmation email", "booking_id", detail.ID, "error", err)
		}
	})

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := notifications.SendBookingNotification(ctx, app.push, app.store.PushTokens,
			userID, notifications.BookingConfirmed, detail.ID)
		if err != nil {
			app.logger.Warnw("booking push not delivered", "booking_id", detail.ID, "error", err)
		}
	})
}

// listMyBookingsHandler godoc
//
//	@Summary		Lists the caller's bookings, newest first
//	@Tags			bookings
//	@Produce		json
//	@Success		200	{array}	bookings.Detail
//	@Failure		401	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/bookings [get]
func (app *application) listMyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Bookings.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getBookingHandler godoc
//
//	@Summary		Fetches one booking
//	@Description	Owners see their own bookings; admins see any.
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	bookings.Detail
//	@Failure		403			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID} [get]
func (app *application) getBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if detail.UserID != user.ID && !user.IsAdmin() {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listAllBookingsHandler godoc
//
//	@Summary		Lists every booking (admin only)
//	@Tags			bookings
//	@Produce		json
//	@Success		200	{array}	bookings.Detail
//	@Failure		403	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/bookings/all [get]
func (app *application) listAllBookingsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Bookings.ListAll(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateBookingPaymentPayload struct {
	PaymentStatus string  `json:"payment_status" validate:"required"`
	PaymentID     *string `json:"payment_id" validate:"omitempty,max=100"`
}

// updateBookingPaymentHandler godoc
//
//	@Summary		Updates a booking's payment record (admin only)
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		int							true	"Booking ID"
//	@Param			payload		body		UpdateBookingPaymentPayload	true	"New payment state"
//	@Success		200			{object}	bookings.Booking
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID}/payment [patch]
func (app *application) updateBookingPaymentHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateBookingPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !bookings.ValidPaymentStatus(payload.PaymentStatus) {
		app.badRequestResponse(w, r, errors.New("unknown payment status: "+payload.PaymentStatus))
		return
	}

	booking, err := app.store.Bookings.UpdatePayment(r.Context(), bookingID, payload.PaymentStatus, payload.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	switch payload.PaymentStatus {
	case bookings.PaymentRefunded:
		app.notifyPaymentEvent(booking.UserID, notifications.BookingPaymentRefunded, booking.ID)
	case bookings.PaymentFailed:
		app.notifyPaymentEvent(booking.UserID, notifications.BookingPaymentFailed, booking.ID)
	}

	if err := app.jsonResponse(w, http.StatusOK, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) notifyPaymentEvent(userID int64, event notifications.BookingEvent, bookingID int64) {
	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := notifications.SendBookingNotification(ctx, app.push, app.store.PushTokens, userID, event, bookingID)
		if err != nil {
			app.logger.Warnw("payment push not delivered", "booking_id", bookingID, "error", err)
		}
	})
}
