package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"slotbook/internal/domain/coupons"
	"slotbook/internal/pricing"

	"github.com/go-chi/chi/v5"
)

// listActiveCouponsHandler godoc
//
//	@Summary		Lists coupons currently open for use
//	@Tags			coupons
//	@Produce		json
//	@Success		200	{array}	coupons.Coupon
//	@Failure		500	{object}	error
//	@Router			/coupons [get]
func (app *application) listActiveCouponsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Coupons.ListActive(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ApplyCouponPayload struct {
	Code   string  `json:"code" validate:"required,max=50"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// applyCouponHandler godoc
//
//	@Summary		Previews a coupon against an amount
//	@Description	Returns the discount quote without consuming the coupon. An ineligible coupon still answers 200 with is_valid false and the reason.
//	@Tags			coupons
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		ApplyCouponPayload	true	"Code and booking amount"
//	@Success		200		{object}	pricing.Quote
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/coupons/apply [post]
func (app *application) applyCouponHandler(w http.ResponseWriter, r *http.Request) {
	var payload ApplyCouponPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	coupon, err := app.store.Coupons.GetByCode(r.Context(), payload.Code)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("invalid or expired coupon"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	quote := pricing.Apply(coupon, payload.Amount)

	if err := app.jsonResponse(w, http.StatusOK, quote); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listAllCouponsHandler godoc
//
//	@Summary		Lists every coupon, including inactive ones (admin only)
//	@Tags			coupons
//	@Produce		json
//	@Success		200	{array}	coupons.Coupon
//	@Failure		403	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/coupons/all [get]
func (app *application) listAllCouponsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Coupons.ListAll(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateCouponPayload struct {
	Code          string    `json:"code" validate:"required,max=50,alphanum"`
	Description   *string   `json:"description" validate:"omitempty,max=255"`
	DiscountType  string    `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue float64   `json:"discount_value" validate:"required,gt=0"`
	MinAmount     float64   `json:"min_amount" validate:"gte=0"`
	MaxDiscount   *float64  `json:"max_discount" validate:"omitempty,gt=0"`
	ValidFrom     time.Time `json:"valid_from" validate:"required"`
	ValidUntil    time.Time `json:"valid_until" validate:"required,gtfield=ValidFrom"`
	UsageLimit    *int      `json:"usage_limit" validate:"omitempty,gt=0"`
	IsActive      bool      `json:"is_active"`
}

// createCouponHandler godoc
//
//	@Summary		Creates a coupon (admin only)
//	@Tags			coupons
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateCouponPayload	true	"Coupon details"
//	@Success		201		{object}	coupons.Coupon
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/coupons [post]
func (app *application) createCouponHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCouponPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	coupon := &coupons.Coupon{
		Code:          payload.Code,
		Description:   payload.Description,
		DiscountType:  payload.DiscountType,
		DiscountValue: payload.DiscountValue,
		MinAmount:     payload.MinAmount,
		MaxDiscount:   payload.MaxDiscount,
		ValidFrom:     payload.ValidFrom,
		ValidUntil:    payload.ValidUntil,
		UsageLimit:    payload.UsageLimit,
		IsActive:      payload.IsActive,
	}

	if err := app.store.Coupons.Create(r.Context(), coupon); err != nil {
		switch {
		case errors.Is(err, coupons.ErrDuplicateCode):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, coupon); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateCouponPayload struct {
	Description   *string    `json:"description" validate:"omitempty,max=255"`
	DiscountType  *string    `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *float64   `json:"discount_value" validate:"omitempty,gt=0"`
	MinAmount     *float64   `json:"min_amount" validate:"omitempty,gte=0"`
	MaxDiscount   *float64   `json:"max_discount" validate:"omitempty,gt=0"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
	UsageLimit    *int       `json:"usage_limit" validate:"omitempty,gt=0"`
	IsActive      *bool      `json:"is_active"`
}

// updateCouponHandler godoc
//
//	@Summary		Updates a coupon (admin only)
//	@Tags			coupons
//	@Accept			json
//	@Produce		json
//	@Param			couponID	path		int					true	"Coupon ID"
//	@Param			payload		body		UpdateCouponPayload	true	"Fields to update"
//	@Success		200			{object}	coupons.Coupon
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/coupons/{couponID} [patch]
func (app *application) updateCouponHandler(w http.ResponseWriter, r *http.Request) {
	couponID, err := strconv.ParseInt(chi.URLParam(r, "couponID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateCouponPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updates := map[string]any{}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.DiscountType != nil {
		updates["discount_type"] = *payload.DiscountType
	}
	if payload.DiscountValue != nil {
		updates["discount_value"] = *payload.DiscountValue
	}
	if payload.MinAmount != nil {
		updates["min_amount"] = *payload.MinAmount
	}
	if payload.MaxDiscount != nil {
		updates["max_discount"] = *payload.MaxDiscount
	}
	if payload.ValidFrom != nil {
		updates["valid_from"] = *payload.ValidFrom
	}
	if payload.ValidUntil != nil {
		updates["valid_until"] = *payload.ValidUntil
	}
	if payload.UsageLimit != nil {
		updates["usage_limit"] = *payload.UsageLimit
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}

	coupon, err := app.store.Coupons.Update(r.Context(), couponID, updates)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, coupon); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCouponHandler godoc
//
//	@Summary		Deletes a coupon (admin only)
//	@Tags			coupons
//	@Produce		json
//	@Param			couponID	path	int	true	"Coupon ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/coupons/{couponID} [delete]
func (app *application) deleteCouponHandler(w http.ResponseWriter, r *http.Request) {
	couponID, err := strconv.ParseInt(chi.URLParam(r, "couponID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Coupons.Delete(r.Context(), couponID); err != nil {
		switch {
		case errors.Is(err, coupons.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
