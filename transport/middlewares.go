package transport

import (
	"context"
	"net/http"

	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/utils"
)

func (a *App) RequestWeb(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(context.WithValue(r.Context(), utils.CtxKeys.RequestType, constants.RequestWeb)))
	}
}

func (a *App) RequestJSON(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(context.WithValue(r.Context(), utils.CtxKeys.RequestType, constants.RequestJSON)))
	}
}

func (a *App) RequestData(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(context.WithValue(r.Context(), utils.CtxKeys.RequestType, constants.RequestData)))
	}
}

func (a *App) unauthorized(ctx context.Context, w http.ResponseWriter, r *http.Request, msg string, status int) {
	if utils.RequestType(ctx) == constants.RequestWeb {
		utils.UnsetCookie(w, utils.Cookies.Login)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	writeError(ctx, w, perr(msg, status))
}

// UserAuthMux takes many authorization middlewares and accepts if any of them does not return error
func (a *App) UserAuthMux(next func(http.ResponseWriter, *http.Request), authorizers ...func(*http.Request, string) (bool, error)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		secret, err := a.GetSecretFromCookie(r)

		if err != nil {
			utils.LogCtx(ctx).Error(err)
			a.unauthorized(ctx, w, r, "please log in to continue", http.StatusUnauthorized)
			return
		}

		steamID, ok, err := a.Service.GetSteamIDFromSession(ctx, secret)
		if err != nil {
			utils.LogCtx(ctx).Error(err)
			a.unauthorized(ctx, w, r, "failed to load session, please log in again", http.StatusUnauthorized)
			return
		}
		if !ok {
			a.unauthorized(ctx, w, r, "session expired, please log in to continue", http.StatusUnauthorized)
			return
		}

		if len(authorizers) == 0 {
			r = r.WithContext(context.WithValue(ctx, utils.CtxKeys.SteamID, steamID))
			next(w, r)
			return
		}

		allOk := true

		for _, authorizer := range authorizers {
			ok, err := authorizer(r, steamID)
			if err != nil {
				utils.LogCtx(ctx).Error(err)
				writeError(ctx, w, perr("failed to verify authority", http.StatusInternalServerError))
				return
			}
			if !ok {
				allOk = false
				break
			}
		}

		if allOk {
			r = r.WithContext(context.WithValue(ctx, utils.CtxKeys.SteamID, steamID))
			next(w, r)
			return
		}

		utils.LogCtx(ctx).Debug("unauthorized attempt")
		writeError(ctx, w, perr("you do not have the proper authorization to access this page", http.StatusUnauthorized))
	}
}

// staffRole resolves the viewer's role, cached briefly to keep the middleware
// off the database on bursts of requests
func (a *App) staffRole(ctx context.Context, steamID string) (string, error) {
	role, err, _ := a.authMiddlewareCache.Memoize("staff-role-"+steamID, func() (interface{}, error) {
		return a.Service.GetStaffRole(ctx, steamID)
	})
	if err != nil {
		return "", err
	}
	return role.(string), nil
}

// UserHasPermission accepts user whose role grants the checked permission
func (a *App) UserHasPermission(r *http.Request, steamID string, check func(constants.Permissions) bool) (bool, error) {
	role, err := a.staffRole(r.Context(), steamID)
	if err != nil {
		return false, err
	}
	if role == "" {
		return false, nil
	}
	return check(constants.PermissionsForRole(role)), nil
}

// UserIsStaff accepts any user on the staff roster
func (a *App) UserIsStaff(r *http.Request, steamID string) (bool, error) {
	role, err := a.staffRole(r.Context(), steamID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

func muxAny(authorizers ...func(*http.Request, string) (bool, error)) func(*http.Request, string) (bool, error) {
	return func(r *http.Request, steamID string) (bool, error) {
		for _, authorizer := range authorizers {
			ok, err := authorizer(r, steamID)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

func muxAll(authorizers ...func(*http.Request, string) (bool, error)) func(*http.Request, string) (bool, error) {
	return func(r *http.Request, steamID string) (bool, error) {
		for _, authorizer := range authorizers {
			ok, err := authorizer(r, steamID)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
}
