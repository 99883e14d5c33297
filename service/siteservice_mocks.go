package service

import (
	"context"
	"database/sql"
	"mime/multipart"
	"time"

	"github.com/nxlauncher/launcher-admin-system/database"
	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/stretchr/testify/mock"
)

////////////////////////////////////////////////

type mockDBSession struct {
	mock.Mock
}

func (m *mockDBSession) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockDBSession) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockDBSession) Tx() *sql.Tx {
	args := m.Called()
	return args.Get(0).(*sql.Tx)
}

func (m *mockDBSession) Ctx() context.Context {
	args := m.Called()
	return args.Get(0).(context.Context)
}

////////////////////////////////////////////////

type mockDAL struct {
	mock.Mock
}

func (m *mockDAL) NewSession(_ context.Context) (database.DBSession, error) {
	args := m.Called()
	return args.Get(0).(*mockDBSession), args.Error(1)
}

func (m *mockDAL) StoreSession(_ database.DBSession, key string, steamID string, durationSeconds int64) error {
	args := m.Called(key, steamID, durationSeconds)
	return args.Error(0)
}

func (m *mockDAL) DeleteSession(_ database.DBSession, secret string) error {
	args := m.Called(secret)
	return args.Error(0)
}

func (m *mockDAL) GetSteamIDFromSession(_ database.DBSession, key string) (string, bool, error) {
	args := m.Called(key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockDAL) SearchGames(_ database.DBSession, filter *types.GamesFilter) ([]*types.Game, error) {
	args := m.Called(filter)
	return args.Get(0).([]*types.Game), args.Error(1)
}

func (m *mockDAL) GetGame(_ database.DBSession, id string) (*types.Game, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Game), args.Error(1)
}

func (m *mockDAL) GetGameIDs(_ database.DBSession) ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockDAL) StoreGame(_ database.DBSession, game *types.Game) error {
	args := m.Called(game)
	return args.Error(0)
}

func (m *mockDAL) DeleteGame(_ database.DBSession, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockDAL) GetMaxSortOrder(_ database.DBSession) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDAL) UpdateSortOrders(_ database.DBSession, order []string) (int64, error) {
	args := m.Called(order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDAL) GetOrderedGameIDs(_ database.DBSession) ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockDAL) StoreStaffMember(_ database.DBSession, member *types.StaffMember) error {
	args := m.Called(member)
	return args.Error(0)
}

func (m *mockDAL) GetStaffMember(_ database.DBSession, steamID string) (*types.StaffMember, error) {
	args := m.Called(steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StaffMember), args.Error(1)
}

func (m *mockDAL) GetAllStaffMembers(_ database.DBSession) ([]*types.StaffMember, error) {
	args := m.Called()
	return args.Get(0).([]*types.StaffMember), args.Error(1)
}

func (m *mockDAL) UpdateStaffRole(_ database.DBSession, steamID string, role string) error {
	args := m.Called(steamID, role)
	return args.Error(0)
}

func (m *mockDAL) UpdateStaffProfile(_ database.DBSession, profile *types.SteamProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *mockDAL) DeleteStaffMember(_ database.DBSession, steamID string) error {
	args := m.Called(steamID)
	return args.Error(0)
}

func (m *mockDAL) CountStaffMembers(_ database.DBSession) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDAL) GetMaintenanceFlag(_ database.DBSession) (*types.MaintenanceFlag, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MaintenanceFlag), args.Error(1)
}

func (m *mockDAL) StoreMaintenanceFlag(_ database.DBSession, flag *types.MaintenanceFlag) error {
	args := m.Called(flag)
	return args.Error(0)
}

////////////////////////////////////////////////

type mockProfileReader struct {
	mock.Mock
}

func (m *mockProfileReader) GetProfile(_ context.Context, steamID string) (*types.SteamProfile, error) {
	args := m.Called(steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SteamProfile), args.Error(1)
}

////////////////////////////////////////////////

type mockAuthTokenProvider struct {
	mock.Mock
}

func (m *mockAuthTokenProvider) CreateAuthToken(steamID string) (*authToken, error) {
	args := m.Called(steamID)
	return args.Get(0).(*authToken), args.Error(1)
}

////////////////////////////////////////////////

type mockMultipartFileWrapper struct {
	mock.Mock
}

func (m *mockMultipartFileWrapper) Filename() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockMultipartFileWrapper) Size() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *mockMultipartFileWrapper) Open() (multipart.File, error) {
	args := m.Called()
	return args.Get(0).(multipart.File), args.Error(1)
}

////////////////////////////////////////////////

type fakeClock struct {
}

func (f fakeClock) Now() time.Time {
	return time.Date(2021, 3, 27, 0, 0, 0, 0, time.UTC)
}

func (f fakeClock) Unix(sec int64, nsec int64) time.Time {
	return time.Unix(sec, nsec)
}

////////////////////////////////////////////////

type fakeRandomStringProvider struct {
}

func (f fakeRandomStringProvider) RandomString(n int) string {
	result := ""
	for i := 0; i < n; i++ {
		result += "a"
	}
	return result
}
