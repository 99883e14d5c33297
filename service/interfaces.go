package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/nxlauncher/launcher-admin-system/types"
)

type Service interface {
	GetBasePageData(ctx context.Context) (*types.BasePageData, error)

	SearchGames(ctx context.Context, filter *types.GamesFilter) ([]*types.Game, error)
	GetGame(ctx context.Context, id string) (*types.Game, error)
	SaveGame(ctx context.Context, form *types.GameForm, existingID string) (*types.Game, error)
	DeleteGame(ctx context.Context, id string) error
	ReorderGames(ctx context.Context, order []string) (*types.ReorderResult, error)
	PublishArchive(ctx context.Context, gameID string, fileProvider MultipartFileProvider) (*types.Game, error)
	ReceiveGalleryImages(ctx context.Context, fileProviders []MultipartFileProvider) ([]string, error)

	GetStaffMembers(ctx context.Context) ([]*types.StaffMember, error)
	AddStaffMember(ctx context.Context, steamID, role string) (*types.StaffMember, error)
	UpdateStaffRole(ctx context.Context, steamID, role string) error
	DeleteStaffMember(ctx context.Context, steamID string) error
	GetStaffRole(ctx context.Context, steamID string) (string, error)

	GetMaintenanceFlag(ctx context.Context) (*types.MaintenanceFlag, error)
	SaveMaintenanceFlag(ctx context.Context, flag *types.MaintenanceFlag) error

	SaveStaffLogin(ctx context.Context, steamID string) (*authToken, error)
	Logout(ctx context.Context, secret string) error
	GetSteamIDFromSession(ctx context.Context, key string) (string, bool, error)
}

type Clock interface {
	Now() time.Time
	Unix(sec int64, nsec int64) time.Time
}

type MultipartFileProvider interface {
	Filename() string
	Size() int64
	Open() (multipart.File, error)
}
