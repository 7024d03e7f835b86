package main

import (
	"encoding/json"
	"net/http"
)

type RegisterPushTokenPayload struct {
	Token      string          `json:"token" validate:"required,max=255"`
	DeviceInfo json.RawMessage `json:"device_info"`
}

// registerPushTokenHandler godoc
//
//	@Summary		Registers an Expo push token for the caller's device
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	RegisterPushTokenPayload	true	"Expo token and optional device info"
//	@Success		201		{object}	string
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/push-token [post]
func (app *application) registerPushTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload RegisterPushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.AddOrUpdate(r.Context(), user.ID, payload.Token, payload.DeviceInfo); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, "push token registered"); err != nil {
		app.internalServerError(w, r, err)
	}
}

type RemovePushTokenPayload struct {
	Token string `json:"token" validate:"required,max=255"`
}

// removePushTokenHandler godoc
//
//	@Summary		Removes a push token, typically on logout of a device
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	RemovePushTokenPayload	true	"Expo token"
//	@Success		200		{object}	string
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/push-token [delete]
func (app *application) removePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload RemovePushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.Remove(r.Context(), user.ID, payload.Token); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, "push token removed"); err != nil {
		app.internalServerError(w, r, err)
	}
}
