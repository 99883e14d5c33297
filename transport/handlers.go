package transport

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/service"
	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/nxlauncher/launcher-admin-system/utils"
)

const formParseMemory = 4 << 20

func (a *App) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bpd, err := a.Service.GetBasePageData(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, bpd, http.StatusOK)
}

func (a *App) HandleSearchGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := &types.GamesFilter{}
	if err := a.decoder.Decode(filter, r.URL.Query()); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to parse query params", http.StatusBadRequest))
		return
	}
	if err := filter.Validate(); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr(err.Error(), http.StatusBadRequest))
		return
	}

	games, err := a.Service.SearchGames(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, map[string]interface{}{"games": games}, http.StatusOK)
}

func (a *App) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := mux.Vars(r)
	gameID := params[constants.ResourceKeyGameID]

	game, err := a.Service.GetGame(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, game, http.StatusOK)
}

// HandleSaveGame handles both create and update. The record fields arrive as
// multipart form values, optionally together with the game archive.
func (a *App) HandleSaveGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := mux.Vars(r)
	existingID := params[constants.ResourceKeyGameID]

	if err := r.ParseMultipartForm(formParseMemory); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to parse form", http.StatusBadRequest))
		return
	}

	form := &types.GameForm{}
	if err := a.decoder.Decode(form, r.PostForm); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to decode form", http.StatusBadRequest))
		return
	}

	game, err := a.Service.SaveGame(ctx, form, existingID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if fileHeaders := r.MultipartForm.File["archive"]; len(fileHeaders) > 0 {
		game, err = a.Service.PublishArchive(ctx, game.ID, service.NewMultipartFileWrapper(fileHeaders[0]))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	writeResponse(ctx, w, game, http.StatusOK)
}

func (a *App) HandleDeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := mux.Vars(r)
	gameID := params[constants.ResourceKeyGameID]

	if err := a.Service.DeleteGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, nil, http.StatusNoContent)
}

func (a *App) HandleReorderGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Order []string `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to decode request body", http.StatusBadRequest))
		return
	}

	result, err := a.Service.ReorderGames(ctx, body.Order)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, result, http.StatusOK)
}

func (a *App) HandleGalleryUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(formParseMemory); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to parse form", http.StatusBadRequest))
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	fileProviders := make([]service.MultipartFileProvider, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		fileProviders = append(fileProviders, service.NewMultipartFileWrapper(fileHeader))
	}

	urls, err := a.Service.ReceiveGalleryImages(ctx, fileProviders)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, map[string]interface{}{"urls": urls}, http.StatusOK)
}

func (a *App) HandleStaffList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := a.Service.GetStaffMembers(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, map[string]interface{}{"staff": members}, http.StatusOK)
}

func (a *App) HandleAddStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to parse form", http.StatusBadRequest))
		return
	}

	member, err := a.Service.AddStaffMember(ctx, r.FormValue("steam-id"), r.FormValue("staff-role"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, member, http.StatusOK)
}

func (a *App) HandleUpdateStaffRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := mux.Vars(r)
	steamID := params[constants.ResourceKeySteamID]

	if err := r.ParseForm(); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to parse form", http.StatusBadRequest))
		return
	}

	if err := a.Service.UpdateStaffRole(ctx, steamID, r.FormValue("staff-role")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, nil, http.StatusNoContent)
}

func (a *App) HandleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := mux.Vars(r)
	steamID := params[constants.ResourceKeySteamID]

	if err := a.Service.DeleteStaffMember(ctx, steamID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, nil, http.StatusNoContent)
}

func (a *App) HandleGetMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flag, err := a.Service.GetMaintenanceFlag(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, flag, http.StatusOK)
}

func (a *App) HandleSaveMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flag := &types.MaintenanceFlag{}
	if err := json.NewDecoder(r.Body).Decode(flag); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to decode request body", http.StatusBadRequest))
		return
	}

	if err := a.Service.SaveMaintenanceFlag(ctx, flag); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, flag, http.StatusOK)
}
