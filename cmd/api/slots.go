package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"slotbook/internal/domain/slots"

	"github.com/go-chi/chi/v5"
)

// listSlotsHandler godoc
//
//	@Summary		Lists time slots for a ground on a date
//	@Tags			slots
//	@Produce		json
//	@Param			ground_id	query	int		true	"Ground ID"
//	@Param			date		query	string	true	"Date (YYYY-MM-DD)"
//	@Success		200	{array}	slots.TimeSlot
//	@Failure		400	{object}	error
//	@Router			/slots [get]
func (app *application) listSlotsHandler(w http.ResponseWriter, r *http.Request) {
	groundID, err := strconv.ParseInt(r.URL.Query().Get("ground_id"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("ground_id is required"))
		return
	}

	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		app.badRequestResponse(w, r, errors.New("date must be YYYY-MM-DD"))
		return
	}

	list, err := app.store.Slots.ListByGroundAndDate(r.Context(), groundID, date)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listAvailableSlotsHandler godoc
//
//	@Summary		Lists free slots for a sport on a date
//	@Description	Joins ground and venue details onto each slot. Narrow to one venue with venue_id.
//	@Tags			slots
//	@Produce		json
//	@Param			sport		query	string	true	"Sport type"
//	@Param			date		query	string	true	"Date (YYYY-MM-DD)"
//	@Param			venue_id	query	int		false	"Venue ID"
//	@Success		200	{array}	slots.AvailableSlot
//	@Failure		400	{object}	error
//	@Router			/slots/available [get]
func (app *application) listAvailableSlotsHandler(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	if sport == "" {
		app.badRequestResponse(w, r, errors.New("sport is required"))
		return
	}

	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		app.badRequestResponse(w, r, errors.New("date must be YYYY-MM-DD"))
		return
	}

	var venueID *int64
	if raw := r.URL.Query().Get("venue_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid venue_id: %s", raw))
			return
		}
		venueID = &id
	}

	list, err := app.store.Slots.ListAvailable(r.Context(), sport, date, venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateSlotPricePayload struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// updateSlotPriceHandler godoc
//
//	@Summary		Updates a slot's price (admin only)
//	@Tags			slots
//	@Accept			json
//	@Produce		json
//	@Param			slotID	path		int						true	"Slot ID"
//	@Param			payload	body		UpdateSlotPricePayload	true	"New price"
//	@Success		200		{object}	slots.TimeSlot
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/slots/{slotID}/price [patch]
func (app *application) updateSlotPriceHandler(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(chi.URLParam(r, "slotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateSlotPricePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	slot, err := app.store.Slots.UpdatePrice(r.Context(), slotID, payload.Price)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, slot); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateSlotStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// updateSlotStatusHandler godoc
//
//	@Summary		Updates a slot's status (admin only)
//	@Description	Allows flipping a slot between available, booked and blocked.
//	@Tags			slots
//	@Accept			json
//	@Produce		json
//	@Param			slotID	path		int						true	"Slot ID"
//	@Param			payload	body		UpdateSlotStatusPayload	true	"New status"
//	@Success		200		{object}	slots.TimeSlot
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/slots/{slotID}/status [patch]
func (app *application) updateSlotStatusHandler(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(chi.URLParam(r, "slotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateSlotStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !slots.ValidStatus(payload.Status) {
		app.badRequestResponse(w, r, fmt.Errorf("unknown status: %s", payload.Status))
		return
	}

	slot, err := app.store.Slots.UpdateStatus(r.Context(), slotID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, slot); err != nil {
		app.internalServerError(w, r, err)
	}
}
