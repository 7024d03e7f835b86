package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"slotbook/internal/domain/grounds"

	"github.com/go-chi/chi/v5"
)

// listGroundsHandler godoc
//
//	@Summary		Lists grounds
//	@Description	Optional query filters: venue_id, sport.
//	@Tags			grounds
//	@Produce		json
//	@Param			venue_id	query	int		false	"Venue ID"
//	@Param			sport		query	string	false	"Sport type (badminton, cricket, tennis)"
//	@Success		200	{array}	grounds.Ground
//	@Failure		400	{object}	error
//	@Router			/grounds [get]
func (app *application) listGroundsHandler(w http.ResponseWriter, r *http.Request) {
	var filter grounds.Filter

	if raw := r.URL.Query().Get("venue_id"); raw != "" {
		venueID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid venue_id: %s", raw))
			return
		}
		filter.VenueID = &venueID
	}

	if sport := r.URL.Query().Get("sport"); sport != "" {
		if !grounds.ValidSport(sport) {
			app.badRequestResponse(w, r, fmt.Errorf("unknown sport: %s", sport))
			return
		}
		filter.SportType = &sport
	}

	list, err := app.store.Grounds.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateGroundPayload struct {
	VenueID      int64  `json:"venue_id" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required,max=100"`
	SportType    string `json:"sport_type" validate:"required,sporttype"`
	GroundNumber int    `json:"ground_number" validate:"required,gt=0"`
}

// createGroundHandler godoc
//
//	@Summary		Creates a ground inside a venue (admin only)
//	@Tags			grounds
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateGroundPayload	true	"Ground details"
//	@Success		201		{object}	grounds.Ground
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/grounds [post]
func (app *application) createGroundHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateGroundPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Venues.GetByID(r.Context(), payload.VenueID); err != nil {
		app.notFoundResponse(w, r, fmt.Errorf("venue %d not found", payload.VenueID))
		return
	}

	ground := &grounds.Ground{
		VenueID:      payload.VenueID,
		Name:         payload.Name,
		SportType:    payload.SportType,
		GroundNumber: payload.GroundNumber,
	}

	if err := app.store.Grounds.Create(r.Context(), ground); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, ground); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateGroundPayload struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	GroundNumber *int    `json:"ground_number" validate:"omitempty,gt=0"`
}

// updateGroundHandler godoc
//
//	@Summary		Updates a ground (admin only)
//	@Tags			grounds
//	@Accept			json
//	@Produce		json
//	@Param			groundID	path		int					true	"Ground ID"
//	@Param			payload		body		UpdateGroundPayload	true	"Fields to update"
//	@Success		200			{object}	grounds.Ground
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/grounds/{groundID} [patch]
func (app *application) updateGroundHandler(w http.ResponseWriter, r *http.Request) {
	groundID, err := strconv.ParseInt(chi.URLParam(r, "groundID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateGroundPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updates := map[string]any{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.GroundNumber != nil {
		updates["ground_number"] = *payload.GroundNumber
	}

	ground, err := app.store.Grounds.Update(r.Context(), groundID, updates)
	if err != nil {
		switch {
		case errors.Is(err, grounds.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, ground); err != nil {
		app.internalServerError(w, r, err)
	}
}
