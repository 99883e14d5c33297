package transport

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/sirupsen/logrus"
)

func (a *App) handleRequests(l *logrus.Logger, srv *http.Server, router *mux.Router) {
	isStaff := func(r *http.Request, steamID string) (bool, error) {
		return a.UserIsStaff(r, steamID)
	}
	canEditGames := func(r *http.Request, steamID string) (bool, error) {
		return a.UserHasPermission(r, steamID, func(p constants.Permissions) bool { return p.EditGame })
	}
	canPublishGames := func(r *http.Request, steamID string) (bool, error) {
		return a.UserHasPermission(r, steamID, func(p constants.Permissions) bool { return p.PublishGame })
	}
	canRemoveGames := func(r *http.Request, steamID string) (bool, error) {
		return a.UserHasPermission(r, steamID, func(p constants.Permissions) bool { return p.RemoveGame })
	}
	canManageStaff := func(r *http.Request, steamID string) (bool, error) {
		return a.UserHasPermission(r, steamID, func(p constants.Permissions) bool { return p.ManageStaff })
	}
	canManageMaintenance := func(r *http.Request, steamID string) (bool, error) {
		return a.UserHasPermission(r, steamID, func(p constants.Permissions) bool { return p.ManageMaintenance })
	}

	// auth
	router.Handle("/auth/steam", http.HandlerFunc(a.RequestWeb(a.HandleSteamAuth))).Methods("GET")
	router.Handle("/auth/steam/callback", http.HandlerFunc(a.RequestWeb(a.HandleSteamCallback))).Methods("GET")

	// logout
	router.Handle("/logout", http.HandlerFunc(a.RequestWeb(a.HandleLogout))).Methods("GET")

	// file server
	router.PathPrefix("/gallery/").Handler(http.StripPrefix("/gallery/", http.FileServer(http.Dir(a.Conf.GalleryDirFullPath))))

	// viewer
	router.Handle("/api/profile",
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(a.HandleProfile)))).Methods("GET")

	// catalog
	router.Handle("/api/games",
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleSearchGames, muxAny(isStaff))))).Methods("GET")

	router.Handle("/api/games/order",
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleReorderGames, muxAll(canEditGames))))).Methods("POST")

	router.Handle(fmt.Sprintf("/api/game/{%s}", constants.ResourceKeyGameID),
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleGetGame, muxAny(isStaff))))).Methods("GET")

	router.Handle("/api/game",
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleSaveGame, muxAny(
				canPublishGames,
				canEditGames))))).Methods("POST")

	router.Handle(fmt.Sprintf("/api/game/{%s}", constants.ResourceKeyGameID),
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleSaveGame, muxAny(
				canPublishGames,
				canEditGames))))).Methods("POST")

	router.Handle(fmt.Sprintf("/api/game/{%s}", constants.ResourceKeyGameID),
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleDeleteGame, muxAll(canRemoveGames))))).Methods("DELETE")

	// receivers
	router.Handle("/api/gallery-upload",
		http.HandlerFunc(a.RequestData(a.UserAuthMux(
			a.HandleGalleryUpload, muxAll(canEditGames))))).Methods("POST")

	// staff
	router.Handle("/api/staff",
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleStaffList, muxAny(isStaff))))).Methods("GET")

	router.Handle("/api/staff",
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleAddStaff, muxAll(canManageStaff))))).Methods("POST")

	router.Handle(fmt.Sprintf("/api/staff/{%s}", constants.ResourceKeySteamID),
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleUpdateStaffRole, muxAll(canManageStaff))))).Methods("PATCH")

	router.Handle(fmt.Sprintf("/api/staff/{%s}", constants.ResourceKeySteamID),
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleDeleteStaff, muxAll(canManageStaff))))).Methods("DELETE")

	// maintenance flag is read by the launcher itself, so the read stays open
	router.Handle("/api/maintenance",
		http.HandlerFunc(a.RequestJSON(a.HandleGetMaintenance))).Methods("GET")

	router.Handle("/api/maintenance",
		http.HandlerFunc(a.RequestJSON(a.UserAuthMux(
			a.HandleSaveMaintenance, muxAll(canManageMaintenance))))).Methods("PATCH")

	err := srv.ListenAndServe()
	if err != nil {
		l.Fatal(err)
	}
}
