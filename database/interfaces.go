package database

import (
	"context"
	"database/sql"

	"github.com/nxlauncher/launcher-admin-system/types"
)

type DBSession interface {
	Commit() error
	Rollback() error
	Tx() *sql.Tx
	Ctx() context.Context
}

type DAL interface {
	NewSession(ctx context.Context) (DBSession, error)

	StoreSession(dbs DBSession, key string, steamID string, durationSeconds int64) error
	DeleteSession(dbs DBSession, secret string) error
	GetSteamIDFromSession(dbs DBSession, key string) (string, bool, error)

	SearchGames(dbs DBSession, filter *types.GamesFilter) ([]*types.Game, error)
	GetGame(dbs DBSession, id string) (*types.Game, error)
	GetGameIDs(dbs DBSession) ([]string, error)
	StoreGame(dbs DBSession, game *types.Game) error
	DeleteGame(dbs DBSession, id string) error
	GetMaxSortOrder(dbs DBSession) (int64, error)
	UpdateSortOrders(dbs DBSession, order []string) (int64, error)
	GetOrderedGameIDs(dbs DBSession) ([]string, error)

	StoreStaffMember(dbs DBSession, member *types.StaffMember) error
	GetStaffMember(dbs DBSession, steamID string) (*types.StaffMember, error)
	GetAllStaffMembers(dbs DBSession) ([]*types.StaffMember, error)
	UpdateStaffRole(dbs DBSession, steamID string, role string) error
	UpdateStaffProfile(dbs DBSession, profile *types.SteamProfile) error
	DeleteStaffMember(dbs DBSession, steamID string) error
	CountStaffMembers(dbs DBSession) (int64, error)

	GetMaintenanceFlag(dbs DBSession) (*types.MaintenanceFlag, error)
	StoreMaintenanceFlag(dbs DBSession, flag *types.MaintenanceFlag) error
}
