package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/nxlauncher/launcher-admin-system/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

////////////////////////////////////////////////

type testService struct {
	s                 *siteService
	dal               *mockDAL
	dbs               *mockDBSession
	profileReader     *mockProfileReader
	authTokenProvider *mockAuthTokenProvider
}

func NewTestSiteService() *testService {
	dal := &mockDAL{}
	dbs := &mockDBSession{}
	profileReader := &mockProfileReader{}
	authTokenProvider := &mockAuthTokenProvider{}

	return &testService{
		s: &siteService{
			dal:                      dal,
			profileReader:            profileReader,
			clock:                    &fakeClock{},
			randomStringProvider:     &fakeRandomStringProvider{},
			authTokenProvider:        authTokenProvider,
			sessionExpirationSeconds: 86400,
			archivesDir:              "archives",
			galleryDir:               "gallery",
			publicBaseURL:            "https://cdn.example.com",
		},
		dal:               dal,
		dbs:               dbs,
		profileReader:     profileReader,
		authTokenProvider: authTokenProvider,
	}
}

func (ts *testService) assertExpectations(t *testing.T) {
	ts.dal.AssertExpectations(t)
	ts.dbs.AssertExpectations(t)
	ts.profileReader.AssertExpectations(t)
	ts.authTokenProvider.AssertExpectations(t)
}

const adminSteamID = "76561198000000001"
const staffSteamID = "76561198000000002"

func testCtx() context.Context {
	return context.WithValue(context.Background(), utils.CtxKeys.Log, logrus.New())
}

func testCtxWithSteamID(steamID string) context.Context {
	return context.WithValue(testCtx(), utils.CtxKeys.SteamID, steamID)
}

func adminMember() *types.StaffMember {
	return &types.StaffMember{
		SteamID:     adminSteamID,
		Role:        constants.RoleAdministrador,
		DisplayName: "Admin",
	}
}

func staffMember() *types.StaffMember {
	return &types.StaffMember{
		SteamID:     staffSteamID,
		Role:        constants.RoleStaff,
		DisplayName: "Staff",
	}
}

////////////////////////////////////////////////

func Test_siteService_GetBasePageData_Anonymous(t *testing.T) {
	ts := NewTestSiteService()

	bpd, err := ts.s.GetBasePageData(testCtx())

	assert.NoError(t, err)
	assert.Equal(t, &types.BasePageData{}, bpd)
	ts.assertExpectations(t)
}

func Test_siteService_GetBasePageData_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtxWithSteamID(adminSteamID)

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(adminMember(), nil)
	ts.dbs.On("Rollback").Return(nil)

	bpd, err := ts.s.GetBasePageData(ctx)

	assert.NoError(t, err)
	assert.Equal(t, adminSteamID, bpd.SteamID)
	assert.Equal(t, constants.RoleAdministrador, bpd.Role)
	assert.True(t, bpd.IsAdmin)
	assert.True(t, bpd.Permissions.ManageStaff)
	ts.assertExpectations(t)
}

func Test_siteService_SaveStaffLogin_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()
	token := &authToken{Secret: "secret", SteamID: adminSteamID}
	profile := &types.SteamProfile{SteamID: adminSteamID, DisplayName: "Admin"}

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(adminMember(), nil)
	ts.profileReader.On("GetProfile", adminSteamID).Return(profile, nil)
	ts.dal.On("UpdateStaffProfile", profile).Return(nil)
	ts.authTokenProvider.On("CreateAuthToken", adminSteamID).Return(token, nil)
	ts.dal.On("StoreSession", "secret", adminSteamID, int64(86400)).Return(nil)
	ts.dbs.On("Commit").Return(nil)
	ts.dbs.On("Rollback").Return(nil)

	got, err := ts.s.SaveStaffLogin(ctx, adminSteamID)

	assert.NoError(t, err)
	assert.Equal(t, token, got)
	ts.assertExpectations(t)
}

func Test_siteService_SaveStaffLogin_NotStaff(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(nil, sql.ErrNoRows)
	ts.dbs.On("Rollback").Return(nil)

	got, err := ts.s.SaveStaffLogin(ctx, adminSteamID)

	assert.Nil(t, got)
	assert.Equal(t, perr("not a staff member", http.StatusUnauthorized), err)
	ts.assertExpectations(t)
}

func Test_siteService_SaveStaffLogin_ProfileFailureTolerated(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()
	token := &authToken{Secret: "secret", SteamID: adminSteamID}

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(adminMember(), nil)
	ts.profileReader.On("GetProfile", adminSteamID).Return(nil, errors.New("steam is down"))
	ts.authTokenProvider.On("CreateAuthToken", adminSteamID).Return(token, nil)
	ts.dal.On("StoreSession", "secret", adminSteamID, int64(86400)).Return(nil)
	ts.dbs.On("Commit").Return(nil)
	ts.dbs.On("Rollback").Return(nil)

	got, err := ts.s.SaveStaffLogin(ctx, adminSteamID)

	assert.NoError(t, err)
	assert.Equal(t, token, got)
	ts.assertExpectations(t)
}

func Test_siteService_Logout_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("DeleteSession", "secret").Return(nil)
	ts.dbs.On("Commit").Return(nil)
	ts.dbs.On("Rollback").Return(nil)

	assert.NoError(t, ts.s.Logout(ctx, "secret"))
	ts.assertExpectations(t)
}

func Test_siteService_GetSteamIDFromSession_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetSteamIDFromSession", "key").Return(adminSteamID, true, nil)
	ts.dbs.On("Rollback").Return(nil)

	steamID, ok, err := ts.s.GetSteamIDFromSession(ctx, "key")

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, adminSteamID, steamID)
	ts.assertExpectations(t)
}

func Test_siteService_GetSteamIDFromSession_Unknown(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetSteamIDFromSession", "key").Return("", false, sql.ErrNoRows)
	ts.dbs.On("Rollback").Return(nil)

	steamID, ok, err := ts.s.GetSteamIDFromSession(ctx, "key")

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, steamID)
	ts.assertExpectations(t)
}

////////////////////////////////////////////////

func Test_siteService_AddStaffMember_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtxWithSteamID(adminSteamID)
	newID := "76561198000000003"
	profile := &types.SteamProfile{SteamID: newID, DisplayName: "Newbie", AvatarURL: "a", ProfileURL: "p"}

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(adminMember(), nil)
	ts.dal.On("GetStaffMember", newID).Return(nil, sql.ErrNoRows)
	ts.profileReader.On("GetProfile", newID).Return(profile, nil)
	ts.dal.On("StoreStaffMember", mock.Anything).Return(nil)
	ts.dbs.On("Commit").Return(nil)
	ts.dbs.On("Rollback").Return(nil)

	member, err := ts.s.AddStaffMember(ctx, newID, constants.RoleStaff)

	assert.NoError(t, err)
	assert.Equal(t, newID, member.SteamID)
	assert.Equal(t, constants.RoleStaff, member.Role)
	assert.Equal(t, "Newbie", member.DisplayName)
	ts.assertExpectations(t)
}

func Test_siteService_AddStaffMember_InvalidSteamID(t *testing.T) {
	ts := NewTestSiteService()

	member, err := ts.s.AddStaffMember(testCtxWithSteamID(adminSteamID), "123", constants.RoleStaff)

	assert.Nil(t, member)
	assert.Equal(t, perr("steam id must be exactly 17 digits", http.StatusBadRequest), err)
	ts.assertExpectations(t)
}

func Test_siteService_AddStaffMember_RoleAboveActor(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtxWithSteamID(staffSteamID)

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", staffSteamID).Return(staffMember(), nil)
	ts.dbs.On("Rollback").Return(nil)

	member, err := ts.s.AddStaffMember(ctx, "76561198000000003", constants.RoleAdministrador)

	assert.Nil(t, member)
	assert.Equal(t, perr("cannot manage a role above your own", http.StatusForbidden), err)
	ts.assertExpectations(t)
}

func Test_siteService_DeleteStaffMember_LastStaffRefused(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtxWithSteamID(adminSteamID)

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(adminMember(), nil)
	ts.dal.On("CountStaffMembers").Return(int64(1), nil)
	ts.dbs.On("Rollback").Return(nil)

	err := ts.s.DeleteStaffMember(ctx, adminSteamID)

	assert.Equal(t, perr(constants.ErrorCannotDeleteLastStaff, http.StatusConflict), err)
	ts.assertExpectations(t)
}

func Test_siteService_DeleteStaffMember_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtxWithSteamID(adminSteamID)

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", staffSteamID).Return(staffMember(), nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(adminMember(), nil)
	ts.dal.On("CountStaffMembers").Return(int64(2), nil)
	ts.dal.On("DeleteStaffMember", staffSteamID).Return(nil)
	ts.dbs.On("Commit").Return(nil)
	ts.dbs.On("Rollback").Return(nil)

	assert.NoError(t, ts.s.DeleteStaffMember(ctx, staffSteamID))
	ts.assertExpectations(t)
}

func Test_siteService_DeleteStaffMember_CannotRemoveHigherRole(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtxWithSteamID(staffSteamID)

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(adminMember(), nil)
	ts.dal.On("GetStaffMember", staffSteamID).Return(staffMember(), nil)
	ts.dal.On("CountStaffMembers").Return(int64(2), nil)
	ts.dbs.On("Rollback").Return(nil)

	err := ts.s.DeleteStaffMember(ctx, adminSteamID)

	assert.Equal(t, perr("cannot manage a role above your own", http.StatusForbidden), err)
	ts.assertExpectations(t)
}

func Test_siteService_UpdateStaffRole_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtxWithSteamID(adminSteamID)

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetStaffMember", staffSteamID).Return(staffMember(), nil)
	ts.dal.On("GetStaffMember", adminSteamID).Return(adminMember(), nil)
	ts.dal.On("UpdateStaffRole", staffSteamID, constants.RoleAdministrador).Return(nil)
	ts.dbs.On("Commit").Return(nil)
	ts.dbs.On("Rollback").Return(nil)

	assert.NoError(t, ts.s.UpdateStaffRole(ctx, staffSteamID, constants.RoleAdministrador))
	ts.assertExpectations(t)
}

func Test_siteService_UpdateStaffRole_InvalidRole(t *testing.T) {
	ts := NewTestSiteService()

	err := ts.s.UpdateStaffRole(testCtxWithSteamID(adminSteamID), staffSteamID, "king")

	assert.Equal(t, perr("invalid role 'king'", http.StatusBadRequest), err)
	ts.assertExpectations(t)
}

////////////////////////////////////////////////

func Test_siteService_GetMaintenanceFlag_FallbackWhenUnset(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetMaintenanceFlag").Return(nil, sql.ErrNoRows)
	ts.dbs.On("Rollback").Return(nil)

	flag, err := ts.s.GetMaintenanceFlag(ctx)

	assert.NoError(t, err)
	assert.Equal(t, types.DefaultMaintenanceFlag(), flag)
	ts.assertExpectations(t)
}

func Test_siteService_GetMaintenanceFlag_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()
	stored := &types.MaintenanceFlag{Enabled: true, Title: "Em manutenção", Message: "volte depois"}

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("GetMaintenanceFlag").Return(stored, nil)
	ts.dbs.On("Rollback").Return(nil)

	flag, err := ts.s.GetMaintenanceFlag(ctx)

	assert.NoError(t, err)
	assert.Equal(t, stored, flag)
	ts.assertExpectations(t)
}

func Test_siteService_SaveMaintenanceFlag_OK(t *testing.T) {
	ts := NewTestSiteService()
	ctx := testCtx()
	flag := &types.MaintenanceFlag{Enabled: true, Message: "volte depois"}

	ts.dal.On("NewSession").Return(ts.dbs, nil)
	ts.dal.On("StoreMaintenanceFlag", flag).Return(nil)
	ts.dbs.On("Commit").Return(nil)
	ts.dbs.On("Rollback").Return(nil)

	assert.NoError(t, ts.s.SaveMaintenanceFlag(ctx, flag))
	assert.Equal(t, (&fakeClock{}).Now(), flag.UpdatedAt)
	assert.Equal(t, (&fakeClock{}).Now(), flag.CreatedAt)
	assert.Equal(t, types.DefaultMaintenanceFlag().Title, flag.Title)
	ts.assertExpectations(t)
}
