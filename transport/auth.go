package transport

import (
	"errors"
	"net/http"

	"github.com/nxlauncher/launcher-admin-system/service"
	"github.com/nxlauncher/launcher-admin-system/steam"
	"github.com/nxlauncher/launcher-admin-system/utils"
)

func (a *App) HandleSteamAuth(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, steam.LoginURL(a.Conf.SteamOpenIDRealm, a.Conf.SteamOpenIDReturnURL), http.StatusTemporaryRedirect)
}

func (a *App) HandleSteamCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	steamID, err := steam.VerifyCallback(ctx, r.URL.Query())
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		http.Error(w, "steam login verification failed", http.StatusUnauthorized)
		return
	}

	token, err := a.Service.SaveStaffLogin(ctx, steamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := a.CC.SetSecureCookie(w, utils.Cookies.Login, service.MapAuthToken(token), int(a.Conf.SessionExpirationSeconds)); err != nil {
		utils.LogCtx(ctx).Error(err)
		http.Error(w, "failed to set cookie", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *App) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	const msg = "unable to log out, please clear your cookies"

	cookieMap, err := a.CC.GetSecureCookie(r, utils.Cookies.Login)
	if err != nil && !errors.Is(err, http.ErrNoCookie) {
		utils.LogCtx(ctx).Error(err)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}

	token, err := service.ParseAuthToken(cookieMap)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}

	if err := a.Service.Logout(ctx, token.Secret); err != nil {
		utils.LogCtx(ctx).Error(err)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}

	utils.UnsetCookie(w, utils.Cookies.Login)
	http.Redirect(w, r, "/", http.StatusFound)
}
