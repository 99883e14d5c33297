package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/agnivade/levenshtein"
	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/database"
	"github.com/nxlauncher/launcher-admin-system/mapper"
	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/nxlauncher/launcher-admin-system/utils"
)

// slugs within this distance of an existing id are treated as accidental
// near-duplicates on create
const nearDuplicateDistance = 2

// SearchGames returns catalog records matching the filter
func (s *siteService) SearchGames(ctx context.Context, filter *types.GamesFilter) ([]*types.Game, error) {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	games, err := s.dal.SearchGames(dbs, filter)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	return games, nil
}

// GetGame returns a single catalog record
func (s *siteService) GetGame(ctx context.Context, id string) (*types.Game, error) {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	game, err := s.dal.GetGame(dbs, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, perr("game not found", http.StatusNotFound)
		}
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	return game, nil
}

// SaveGame creates or updates a catalog record from a submitted form.
// existingID is empty on create; on update the record id is immutable and
// the submitted form cannot change it.
func (s *siteService) SaveGame(ctx context.Context, form *types.GameForm, existingID string) (*types.Game, error) {
	game, err := mapper.ToGame(form)
	if err != nil {
		return nil, perr(err.Error(), http.StatusBadRequest)
	}

	if len(game.DownloadURLs) == 0 && game.DriveFileID == "" && !game.ComingSoon {
		return nil, perr("a download source is required unless the game is marked as coming soon", http.StatusBadRequest)
	}

	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	now := s.clock.Now()
	game.UpdatedAt = now

	if existingID != "" {
		game.ID = existingID
		existing, err := s.dal.GetGame(dbs, existingID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, perr("game not found", http.StatusNotFound)
			}
			utils.LogCtx(ctx).Error(err)
			return nil, dberr(err)
		}
		game.CreatedAt = existing.CreatedAt
		game.SortOrder = existing.SortOrder
	} else {
		if err := s.checkDuplicateID(dbs, ctx, game.ID); err != nil {
			return nil, err
		}
		maxOrder, err := s.dal.GetMaxSortOrder(dbs)
		if err != nil {
			utils.LogCtx(ctx).Error(err)
			return nil, dberr(err)
		}
		game.CreatedAt = now
		game.SortOrder = maxOrder + constants.SortOrderStep
	}

	if err := s.dal.StoreGame(dbs, game); err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	return game, nil
}

// checkDuplicateID refuses ids that already exist or sit within levenshtein
// distance 2 of an existing id, which in practice always means a retyped
// duplicate of the same game
func (s *siteService) checkDuplicateID(dbs database.DBSession, ctx context.Context, id string) error {
	existing, err := s.dal.GetGameIDs(dbs)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	nearest, distance := nearestExistingID(existing, id)
	if distance == 0 {
		return perr(fmt.Sprintf("a game with id '%s' already exists", id), http.StatusConflict)
	}
	if distance > 0 && distance <= nearDuplicateDistance {
		return perr(fmt.Sprintf("id '%s' is nearly identical to existing game '%s'", id, nearest), http.StatusConflict)
	}
	return nil
}

// DeleteGame removes a catalog record
func (s *siteService) DeleteGame(ctx context.Context, id string) error {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	if _, err := s.dal.GetGame(dbs, id); err != nil {
		if err == sql.ErrNoRows {
			return perr("game not found", http.StatusNotFound)
		}
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	if err := s.dal.DeleteGame(dbs, id); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	return nil
}

// ReorderGames reassigns sequential sort orders following the submitted id
// list and returns the authoritative post-reorder order
func (s *siteService) ReorderGames(ctx context.Context, order []string) (*types.ReorderResult, error) {
	if len(order) == 0 {
		return nil, perr("order must not be empty", http.StatusBadRequest)
	}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if id == "" || seen[id] {
			return nil, perr("order contains empty or duplicate ids", http.StatusBadRequest)
		}
		seen[id] = true
	}

	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	updated, err := s.dal.UpdateSortOrders(dbs, order)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	confirmed, err := s.dal.GetOrderedGameIDs(dbs)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	return &types.ReorderResult{
		UpdatedCount: updated,
		Order:        confirmed,
	}, nil
}

func nearestExistingID(existing []string, id string) (string, int) {
	best := ""
	bestDistance := -1
	for _, candidate := range existing {
		d := levenshtein.ComputeDistance(candidate, id)
		if bestDistance < 0 || d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best, bestDistance
}
