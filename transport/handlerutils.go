package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/service"
	"github.com/nxlauncher/launcher-admin-system/utils"
)

func perr(msg string, status int) error {
	return constants.PublicError{Msg: msg, Status: status}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeResponse(ctx context.Context, w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		utils.LogCtx(ctx).Error(err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	pe := constants.PublicError{}
	if errors.As(err, &pe) {
		writeResponse(ctx, w, errorResponse{Error: pe.Msg}, pe.Status)
		return
	}
	writeResponse(ctx, w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
}

// GetSecretFromCookie extracts the session secret from the login cookie
func (a *App) GetSecretFromCookie(r *http.Request) (string, error) {
	cookieMap, err := a.CC.GetSecureCookie(r, utils.Cookies.Login)
	if err != nil {
		return "", err
	}
	token, err := service.ParseAuthToken(cookieMap)
	if err != nil {
		return "", err
	}
	return token.Secret, nil
}

// GetSteamIDFromCookie extracts the steam id from the login cookie
func (a *App) GetSteamIDFromCookie(r *http.Request) (string, error) {
	cookieMap, err := a.CC.GetSecureCookie(r, utils.Cookies.Login)
	if err != nil {
		return "", err
	}
	token, err := service.ParseAuthToken(cookieMap)
	if err != nil {
		return "", err
	}
	return token.SteamID, nil
}
