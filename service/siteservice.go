package service

import (
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/database"
	"github.com/nxlauncher/launcher-admin-system/steam"
	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/nxlauncher/launcher-admin-system/utils"
	"github.com/sirupsen/logrus"
)

type MultipartFileWrapper struct {
	fileHeader *multipart.FileHeader
}

func NewMultipartFileWrapper(fileHeader *multipart.FileHeader) *MultipartFileWrapper {
	return &MultipartFileWrapper{
		fileHeader: fileHeader,
	}
}

func (m *MultipartFileWrapper) Filename() string {
	return m.fileHeader.Filename
}

func (m *MultipartFileWrapper) Size() int64 {
	return m.fileHeader.Size
}

func (m *MultipartFileWrapper) Open() (multipart.File, error) {
	return m.fileHeader.Open()
}

type RealClock struct {
}

func (r *RealClock) Now() time.Time {
	return time.Now()
}

func (r *RealClock) Unix(sec int64, nsec int64) time.Time {
	return time.Unix(sec, nsec)
}

// authToken is authToken
type authToken struct {
	Secret  string
	SteamID string
}

type authTokenProvider struct {
}

func NewAuthTokenProvider() *authTokenProvider {
	return &authTokenProvider{}
}

type AuthTokenizer interface {
	CreateAuthToken(steamID string) (*authToken, error)
}

func (a *authTokenProvider) CreateAuthToken(steamID string) (*authToken, error) {
	s, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &authToken{
		Secret:  s.String(),
		SteamID: steamID,
	}, nil
}

// ParseAuthToken parses map into token
func ParseAuthToken(value map[string]string) (*authToken, error) {
	secret, ok := value["Secret"]
	if !ok {
		return nil, fmt.Errorf("missing Secret")
	}
	steamID, ok := value["steamID"]
	if !ok {
		return nil, fmt.Errorf("missing steamID")
	}
	return &authToken{
		Secret:  secret,
		SteamID: steamID,
	}, nil
}

func MapAuthToken(token *authToken) map[string]string {
	return map[string]string{"Secret": token.Secret, "steamID": token.SteamID}
}

type siteService struct {
	dal                      database.DAL
	profileReader            steam.ProfileReader
	clock                    Clock
	randomStringProvider     utils.RandomStringer
	authTokenProvider        AuthTokenizer
	sessionExpirationSeconds int64
	archivesDir              string
	galleryDir               string
	publicBaseURL            string
}

func NewSiteService(l *logrus.Logger, db *sql.DB, profileReader steam.ProfileReader, sessionExpirationSeconds int64, archivesDir, galleryDir, publicBaseURL string) *siteService {
	return &siteService{
		dal:                      database.NewMysqlDAL(db),
		profileReader:            profileReader,
		clock:                    &RealClock{},
		randomStringProvider:     utils.NewRealRandomStringProvider(),
		authTokenProvider:        NewAuthTokenProvider(),
		sessionExpirationSeconds: sessionExpirationSeconds,
		archivesDir:              archivesDir,
		galleryDir:               galleryDir,
		publicBaseURL:            publicBaseURL,
	}
}

// GetBasePageData loads base viewer data, does not return error if the viewer is not logged in
func (s *siteService) GetBasePageData(ctx context.Context) (*types.BasePageData, error) {
	steamID := utils.SteamIDFromContext(ctx)
	if steamID == "" {
		return &types.BasePageData{}, nil
	}

	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	member, err := s.dal.GetStaffMember(dbs, steamID)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf("failed to get staff data from database")
	}

	bpd := &types.BasePageData{
		SteamID:     member.SteamID,
		DisplayName: member.DisplayName,
		AvatarURL:   member.AvatarURL,
		Role:        member.Role,
		IsAdmin:     constants.RoleRank(member.Role) >= constants.RoleRank(constants.RoleAdministrador),
		Permissions: constants.PermissionsForRole(member.Role),
	}

	return bpd, nil
}

// GetStaffMembers returns the whole staff roster
func (s *siteService) GetStaffMembers(ctx context.Context) ([]*types.StaffMember, error) {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	members, err := s.dal.GetAllStaffMembers(dbs)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	return members, nil
}

// AddStaffMember registers a new staff account. The assigned role must not
// outrank the actor's own role.
func (s *siteService) AddStaffMember(ctx context.Context, steamID, role string) (*types.StaffMember, error) {
	if err := types.ValidateSteamID(steamID); err != nil {
		return nil, perr(err.Error(), http.StatusBadRequest)
	}
	if !constants.IsValidRole(role) {
		return nil, perr(fmt.Sprintf("invalid role '%s'", role), http.StatusBadRequest)
	}

	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	if err := s.requireOutranksOrSelf(dbs, ctx, role); err != nil {
		return nil, err
	}

	_, err = s.dal.GetStaffMember(dbs, steamID)
	if err == nil {
		return nil, perr("staff member already exists", http.StatusConflict)
	}
	if err != sql.ErrNoRows {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	member := &types.StaffMember{
		SteamID:   steamID,
		Role:      role,
		CreatedAt: s.clock.Now(),
	}

	// profile snapshot is best effort, the upstream read must not block registration
	profile, err := s.profileReader.GetProfile(ctx, steamID)
	if err != nil {
		utils.LogCtx(ctx).Warn(err)
	} else {
		member.DisplayName = profile.DisplayName
		member.AvatarURL = profile.AvatarURL
		member.ProfileURL = profile.ProfileURL
	}

	if err := s.dal.StoreStaffMember(dbs, member); err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	return member, nil
}

// UpdateStaffRole changes a staff member's role within the actor's rank
func (s *siteService) UpdateStaffRole(ctx context.Context, steamID, role string) error {
	if !constants.IsValidRole(role) {
		return perr(fmt.Sprintf("invalid role '%s'", role), http.StatusBadRequest)
	}

	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	member, err := s.dal.GetStaffMember(dbs, steamID)
	if err != nil {
		if err == sql.ErrNoRows {
			return perr("staff member not found", http.StatusNotFound)
		}
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	if err := s.requireOutranksOrSelf(dbs, ctx, role); err != nil {
		return err
	}
	if err := s.requireOutranksOrSelf(dbs, ctx, member.Role); err != nil {
		return err
	}

	if err := s.dal.UpdateStaffRole(dbs, steamID, role); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	return nil
}

// DeleteStaffMember removes a staff account. Removing the last remaining
// account is refused so the panel cannot lock everyone out.
func (s *siteService) DeleteStaffMember(ctx context.Context, steamID string) error {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	member, err := s.dal.GetStaffMember(dbs, steamID)
	if err != nil {
		if err == sql.ErrNoRows {
			return perr("staff member not found", http.StatusNotFound)
		}
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	count, err := s.dal.CountStaffMembers(dbs)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}
	if count <= 1 {
		return perr(constants.ErrorCannotDeleteLastStaff, http.StatusConflict)
	}

	if steamID != utils.SteamIDFromContext(ctx) {
		if err := s.requireOutranksOrSelf(dbs, ctx, member.Role); err != nil {
			return err
		}
	}

	if err := s.dal.DeleteStaffMember(dbs, steamID); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	return nil
}

// GetStaffRole returns a staff member's role, "" when they are not staff
func (s *siteService) GetStaffRole(ctx context.Context, steamID string) (string, error) {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return "", fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	member, err := s.dal.GetStaffMember(dbs, steamID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		utils.LogCtx(ctx).Error(err)
		return "", dberr(err)
	}

	return member.Role, nil
}

// requireOutranksOrSelf refuses the operation when the target role outranks
// the actor's own role
func (s *siteService) requireOutranksOrSelf(dbs database.DBSession, ctx context.Context, targetRole string) error {
	actorID := utils.SteamIDFromContext(ctx)
	if actorID == "" {
		return perr("no user associated with request", http.StatusUnauthorized)
	}
	actor, err := s.dal.GetStaffMember(dbs, actorID)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}
	if constants.Outranks(targetRole, actor.Role) {
		return perr("cannot manage a role above your own", http.StatusForbidden)
	}
	return nil
}

// GetMaintenanceFlag returns the stored flag, falling back to the hardcoded
// default when the flag is absent or unreadable
func (s *siteService) GetMaintenanceFlag(ctx context.Context) (*types.MaintenanceFlag, error) {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return types.DefaultMaintenanceFlag(), nil
	}
	defer dbs.Rollback()

	flag, err := s.dal.GetMaintenanceFlag(dbs)
	if err != nil {
		if err != sql.ErrNoRows {
			utils.LogCtx(ctx).Error(err)
		}
		return types.DefaultMaintenanceFlag(), nil
	}

	return flag, nil
}

// SaveMaintenanceFlag stores the singleton flag
func (s *siteService) SaveMaintenanceFlag(ctx context.Context, flag *types.MaintenanceFlag) error {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	now := s.clock.Now()
	if flag.CreatedAt.IsZero() {
		flag.CreatedAt = now
	}
	flag.UpdatedAt = now

	if flag.Title == "" {
		flag.Title = types.DefaultMaintenanceFlag().Title
	}

	if err := s.dal.StoreMaintenanceFlag(dbs, flag); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	return nil
}

// SaveStaffLogin opens a session for a verified steam login. Logins from
// accounts that are not on the staff roster are refused.
func (s *siteService) SaveStaffLogin(ctx context.Context, steamID string) (*authToken, error) {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	if _, err := s.dal.GetStaffMember(dbs, steamID); err != nil {
		if err == sql.ErrNoRows {
			return nil, perr("not a staff member", http.StatusUnauthorized)
		}
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	// refresh the profile snapshot on every login, best effort
	profile, err := s.profileReader.GetProfile(ctx, steamID)
	if err != nil {
		utils.LogCtx(ctx).Warn(err)
	} else if err := s.dal.UpdateStaffProfile(dbs, profile); err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	token, err := s.authTokenProvider.CreateAuthToken(steamID)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, fmt.Errorf("failed to generate auth token")
	}

	if err := s.dal.StoreSession(dbs, token.Secret, steamID, s.sessionExpirationSeconds); err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return nil, dberr(err)
	}

	return token, nil
}

// Logout drops the session
func (s *siteService) Logout(ctx context.Context, secret string) error {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	if err := s.dal.DeleteSession(dbs, secret); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	if err := dbs.Commit(); err != nil {
		utils.LogCtx(ctx).Error(err)
		return dberr(err)
	}

	return nil
}

// GetSteamIDFromSession returns the session's steam ID and validity
func (s *siteService) GetSteamIDFromSession(ctx context.Context, key string) (string, bool, error) {
	dbs, err := s.dal.NewSession(ctx)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return "", false, fmt.Errorf(constants.ErrorFailedToBeginTransaction)
	}
	defer dbs.Rollback()

	steamID, ok, err := s.dal.GetSteamIDFromSession(dbs, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		utils.LogCtx(ctx).Error(err)
		return "", false, dberr(err)
	}

	return steamID, ok, nil
}
