package main

import (
	"errors"
	"net/http"
	"strconv"

	"slotbook/internal/domain/venues"

	"github.com/go-chi/chi/v5"
)

// listVenuesHandler godoc
//
//	@Summary		Lists all venues
//	@Tags			venues
//	@Produce		json
//	@Success		200	{array}	venues.Venue
//	@Failure		500	{object}	error
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Venues.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueHandler godoc
//
//	@Summary		Fetches a venue by ID
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path		int	true	"Venue ID"
//	@Success		200		{object}	venues.Venue
//	@Failure		404		{object}	error
//	@Router			/venues/{venueID} [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), venueID)
	if err != nil {
		switch {
		case errors.Is(err, venues.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateVenuePayload struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// createVenueHandler godoc
//
//	@Summary		Creates a venue (admin only)
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateVenuePayload	true	"Venue details"
//	@Success		201		{object}	venues.Venue
//	@Failure		400		{object}	error
//	@Failure		403		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	venue := &venues.Venue{
		Name:        payload.Name,
		Address:     payload.Address,
		Description: payload.Description,
	}

	if err := app.store.Venues.Create(r.Context(), venue); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateVenuePayload struct {
	Name        *string `json:"name" validate:"omitempty,max=150"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// updateVenueHandler godoc
//
//	@Summary		Updates a venue (admin only)
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			payload	body		UpdateVenuePayload	true	"Fields to update"
//	@Success		200		{object}	venues.Venue
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID} [patch]
func (app *application) updateVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateVenuePayload
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
	if payload.Address != nil {
		updates["address"] = *payload.Address
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}

	venue, err := app.store.Venues.Update(r.Context(), venueID, updates)
	if err != nil {
		switch {
		case errors.Is(err, venues.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadVenuePhotoHandler godoc
//
//	@Summary		Uploads a venue photo (admin only)
//	@Description	Accepts a multipart form with a "photo" file, stores it on Cloudinary and appends the URL to the venue.
//	@Tags			venues
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			venueID	path		int		true	"Venue ID"
//	@Param			photo	formData	file	true	"Image file (JPEG or PNG)"
//	@Success		201		{object}	string	"Hosted photo URL"
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [post]
func (app *application) uploadVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		app.badRequestResponse(w, r, errors.New("unable to parse form, file size limit is 10MB"))
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("unable to retrieve file"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		app.badRequestResponse(w, r, errors.New("only JPEG and PNG images are allowed"))
		return
	}

	// Make sure the venue exists before touching Cloudinary.
	if _, err := app.store.Venues.GetByID(r.Context(), venueID); err != nil {
		switch {
		case errors.Is(err, venues.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	photoURL, err := app.uploadVenuePhoto(r.Context(), file, venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Venues.AddPhotoURL(r.Context(), venueID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, photoURL); err != nil {
		app.internalServerError(w, r, err)
	}
}

type DeleteVenuePhotoPayload struct {
	PhotoURL string `json:"photo_url" validate:"required,url"`
}

// deleteVenuePhotoHandler godoc
//
//	@Summary		Removes a venue photo (admin only)
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int						true	"Venue ID"
//	@Param			payload	body		DeleteVenuePhotoPayload	true	"Photo URL to remove"
//	@Success		200		{object}	string
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [delete]
func (app *application) deleteVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload DeleteVenuePhotoPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Venues.RemovePhotoURL(r.Context(), venueID, payload.PhotoURL); err != nil {
		switch {
		case errors.Is(err, venues.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.deleteVenuePhoto(r.Context(), payload.PhotoURL); err != nil {
		// The DB row is already updated; losing the remote asset is
		// recoverable, so log and keep going.
		app.logger.Errorw("cloudinary destroy failed", "url", payload.PhotoURL, "error", err)
	}

	if err := app.jsonResponse(w, http.StatusOK, "photo removed"); err != nil {
		app.internalServerError(w, r, err)
	}
}
