package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/mysql"
	_ "github.com/golang-migrate/migrate/source/file"
	"github.com/nxlauncher/launcher-admin-system/config"
	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/nxlauncher/launcher-admin-system/utils"
	"github.com/sirupsen/logrus"
)

type mysqlDAL struct {
	db *sql.DB
}

func NewMysqlDAL(conn *sql.DB) *mysqlDAL {
	return &mysqlDAL{
		db: conn,
	}
}

// OpenDB opens DAL or panics
func OpenDB(l *logrus.Logger, conf *config.Config) *sql.DB {

	rootUser := conf.DBRootUser
	rootPass := conf.DBRootPassword
	ip := conf.DBIP
	port := conf.DBPort
	dbName := conf.DBName

	rootDB, err := sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?multiStatements=true", rootUser, rootPass, ip, port, dbName))
	if err != nil {
		l.Fatal(err)
	}
	driver, err := mysql.WithInstance(rootDB, &mysql.Config{})
	if err != nil {
		l.Fatal(err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations/",
		"mysql",
		driver,
	)
	if err != nil {
		l.Fatal(err)
	}
	err = m.Up()
	if err != nil && err.Error() != "no change" {
		l.Fatal(err)
	}
	m.Close()
	driver.Close()
	rootDB.Close()

	user := conf.DBUser
	pass := conf.DBPassword

	db, err := sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?multiStatements=true", user, pass, ip, port, dbName))
	if err != nil {
		l.Fatal(err)
	}

	return db
}

type MysqlSession struct {
	context     context.Context
	transaction *sql.Tx
}

// NewSession begins a transaction
func (d *mysqlDAL) NewSession(ctx context.Context) (DBSession, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}

	return &MysqlSession{
		context:     ctx,
		transaction: tx,
	}, nil
}

func (dbs *MysqlSession) Commit() error {
	return dbs.transaction.Commit()
}

func (dbs *MysqlSession) Rollback() error {
	err := dbs.Tx().Rollback()
	if err != nil && err.Error() == "sql: transaction has already been committed or rolled back" {
		err = nil
	}
	if err != nil {
		utils.LogIfErr(dbs.Ctx(), err)
	}
	return err
}

func (dbs *MysqlSession) Tx() *sql.Tx {
	return dbs.transaction
}

func (dbs *MysqlSession) Ctx() context.Context {
	return dbs.context
}

// StoreSession store session into the DAL with set expiration date
func (d *mysqlDAL) StoreSession(dbs DBSession, key string, steamID string, durationSeconds int64) error {
	expiration := time.Now().Add(time.Second * time.Duration(durationSeconds)).Unix()
	_, err := dbs.Tx().ExecContext(dbs.Ctx(), `INSERT INTO session (secret, steam_id, expires_at) VALUES (?, ?, ?)`, key, steamID, expiration)
	return err
}

// DeleteSession deletes specific session
func (d *mysqlDAL) DeleteSession(dbs DBSession, secret string) error {
	_, err := dbs.Tx().ExecContext(dbs.Ctx(), `DELETE FROM session WHERE secret=?`, secret)
	return err
}

// GetSteamIDFromSession returns the session's steam ID and expiration state
func (d *mysqlDAL) GetSteamIDFromSession(dbs DBSession, key string) (string, bool, error) {
	row := dbs.Tx().QueryRowContext(dbs.Ctx(), `SELECT steam_id, expires_at FROM session WHERE secret=?`, key)

	var steamID string
	var expiration int64
	err := row.Scan(&steamID, &expiration)
	if err != nil {
		return "", false, err
	}

	if expiration <= time.Now().Unix() {
		return "", false, nil
	}

	return steamID, true, nil
}

const gameColumns = `id, name, section, description, long_description,
	archive_type, archive_password, install_dir_name, launch_executable,
	image_url, card_image_url, banner_url, logo_url, trailer_url,
	developed_by, published_by, release_date, steam_app_id, steam_url,
	genres, gallery, download_urls, drive_file_id,
	size_bytes, size_label, current_price, original_price, discount_percent,
	free, exclusive, coming_soon, enabled, sort_order, created_at, updated_at`

// SearchGames returns catalog records matching the filter, ordered by sort order
func (d *mysqlDAL) SearchGames(dbs DBSession, filter *types.GamesFilter) ([]*types.Game, error) {
	filters := make([]string, 0)
	data := make([]interface{}, 0)

	if filter != nil {
		if filter.SearchPartial != nil {
			filters = append(filters, `(name LIKE ? OR id LIKE ?)`)
			data = append(data, utils.FormatLike(*filter.SearchPartial), utils.FormatLike(*filter.SearchPartial))
		}
		if filter.Section != nil {
			filters = append(filters, `section = ?`)
			data = append(data, *filter.Section)
		}
		if filter.EnabledOnly {
			filters = append(filters, `enabled = 1`)
		}
	}

	where := ``
	for i, f := range filters {
		if i == 0 {
			where = ` WHERE ` + f
		} else {
			where += ` AND ` + f
		}
	}

	rows, err := dbs.Tx().QueryContext(dbs.Ctx(),
		`SELECT `+gameColumns+` FROM game`+where+` ORDER BY sort_order, id`, data...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*types.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// GetGame returns a single record, sql.ErrNoRows when absent
func (d *mysqlDAL) GetGame(dbs DBSession, id string) (*types.Game, error) {
	row := dbs.Tx().QueryRowContext(dbs.Ctx(),
		`SELECT `+gameColumns+` FROM game WHERE id=?`, id)
	return scanGame(row)
}

// GetGameIDs returns every record id
func (d *mysqlDAL) GetGameIDs(dbs DBSession) ([]string, error) {
	rows, err := dbs.Tx().QueryContext(dbs.Ctx(), `SELECT id FROM game`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// StoreGame inserts or replaces a record
func (d *mysqlDAL) StoreGame(dbs DBSession, game *types.Game) error {
	genres, err := json.Marshal(game.Genres)
	if err != nil {
		return err
	}
	gallery, err := json.Marshal(game.Gallery)
	if err != nil {
		return err
	}
	downloads, err := json.Marshal(game.DownloadURLs)
	if err != nil {
		return err
	}

	_, err = dbs.Tx().ExecContext(dbs.Ctx(),
		`INSERT INTO game (`+gameColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		 name=VALUES(name), section=VALUES(section), description=VALUES(description),
		 long_description=VALUES(long_description), archive_type=VALUES(archive_type),
		 archive_password=VALUES(archive_password), install_dir_name=VALUES(install_dir_name),
		 launch_executable=VALUES(launch_executable), image_url=VALUES(image_url),
		 card_image_url=VALUES(card_image_url), banner_url=VALUES(banner_url),
		 logo_url=VALUES(logo_url), trailer_url=VALUES(trailer_url),
		 developed_by=VALUES(developed_by), published_by=VALUES(published_by),
		 release_date=VALUES(release_date), steam_app_id=VALUES(steam_app_id),
		 steam_url=VALUES(steam_url), genres=VALUES(genres), gallery=VALUES(gallery),
		 download_urls=VALUES(download_urls), drive_file_id=VALUES(drive_file_id),
		 size_bytes=VALUES(size_bytes), size_label=VALUES(size_label),
		 current_price=VALUES(current_price), original_price=VALUES(original_price),
		 discount_percent=VALUES(discount_percent), free=VALUES(free),
		 exclusive=VALUES(exclusive), coming_soon=VALUES(coming_soon),
		 enabled=VALUES(enabled), sort_order=VALUES(sort_order), updated_at=VALUES(updated_at)`,
		game.ID, game.Name, game.Section, game.Description, game.LongDescription,
		game.ArchiveType, game.ArchivePassword, game.InstallDirName, game.LaunchExecutable,
		game.ImageURL, game.CardImageURL, game.BannerURL, game.LogoURL, game.TrailerURL,
		game.DevelopedBy, game.PublishedBy, game.ReleaseDate, game.SteamAppID, game.SteamURL,
		string(genres), string(gallery), string(downloads), game.DriveFileID,
		game.SizeBytes, game.SizeLabel, game.CurrentPrice, game.OriginalPrice, game.DiscountPercent,
		game.Free, game.Exclusive, game.ComingSoon, game.Enabled, game.SortOrder,
		game.CreatedAt.Unix(), game.UpdatedAt.Unix())
	return err
}

// DeleteGame removes a record
func (d *mysqlDAL) DeleteGame(dbs DBSession, id string) error {
	_, err := dbs.Tx().ExecContext(dbs.Ctx(), `DELETE FROM game WHERE id=?`, id)
	return err
}

// GetMaxSortOrder returns the highest sort order in the catalog, 0 when empty
func (d *mysqlDAL) GetMaxSortOrder(dbs DBSession) (int64, error) {
	row := dbs.Tx().QueryRowContext(dbs.Ctx(), `SELECT COALESCE(MAX(sort_order), 0) FROM game`)
	var max int64
	err := row.Scan(&max)
	return max, err
}

// UpdateSortOrders reassigns sequential sort orders following the given id
// list and returns the number of rows actually changed
func (d *mysqlDAL) UpdateSortOrders(dbs DBSession, order []string) (int64, error) {
	var updated int64
	for i, id := range order {
		result, err := dbs.Tx().ExecContext(dbs.Ctx(),
			`UPDATE game SET sort_order=? WHERE id=?`, int64(i+1)*constants.SortOrderStep, id)
		if err != nil {
			return 0, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		updated += affected
	}
	return updated, nil
}

// GetOrderedGameIDs returns every record id by sort order
func (d *mysqlDAL) GetOrderedGameIDs(dbs DBSession) ([]string, error) {
	rows, err := dbs.Tx().QueryContext(dbs.Ctx(), `SELECT id FROM game ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// StoreStaffMember inserts a staff member or refreshes the existing row
func (d *mysqlDAL) StoreStaffMember(dbs DBSession, member *types.StaffMember) error {
	_, err := dbs.Tx().ExecContext(dbs.Ctx(),
		`INSERT INTO staff (steam_id, staff_role, display_name, avatar_url, profile_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE staff_role=?, display_name=?, avatar_url=?, profile_url=?`,
		member.SteamID, member.Role, member.DisplayName, member.AvatarURL, member.ProfileURL, member.CreatedAt.Unix(),
		member.Role, member.DisplayName, member.AvatarURL, member.ProfileURL)
	return err
}

// GetStaffMember returns a staff member, sql.ErrNoRows when absent
func (d *mysqlDAL) GetStaffMember(dbs DBSession, steamID string) (*types.StaffMember, error) {
	row := dbs.Tx().QueryRowContext(dbs.Ctx(),
		`SELECT steam_id, staff_role, display_name, avatar_url, profile_url, created_at FROM staff WHERE steam_id=?`, steamID)
	return scanStaffMember(row)
}

// GetAllStaffMembers returns the whole staff roster
func (d *mysqlDAL) GetAllStaffMembers(dbs DBSession) ([]*types.StaffMember, error) {
	rows, err := dbs.Tx().QueryContext(dbs.Ctx(),
		`SELECT steam_id, staff_role, display_name, avatar_url, profile_url, created_at FROM staff ORDER BY created_at, steam_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*types.StaffMember, 0)
	for rows.Next() {
		member, err := scanStaffMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// UpdateStaffRole changes a staff member's role
func (d *mysqlDAL) UpdateStaffRole(dbs DBSession, steamID string, role string) error {
	_, err := dbs.Tx().ExecContext(dbs.Ctx(), `UPDATE staff SET staff_role=? WHERE steam_id=?`, role, steamID)
	return err
}

// UpdateStaffProfile refreshes the cached upstream profile snapshot
func (d *mysqlDAL) UpdateStaffProfile(dbs DBSession, profile *types.SteamProfile) error {
	_, err := dbs.Tx().ExecContext(dbs.Ctx(),
		`UPDATE staff SET display_name=?, avatar_url=?, profile_url=? WHERE steam_id=?`,
		profile.DisplayName, profile.AvatarURL, profile.ProfileURL, profile.SteamID)
	return err
}

// DeleteStaffMember removes a staff member and their sessions
func (d *mysqlDAL) DeleteStaffMember(dbs DBSession, steamID string) error {
	_, err := dbs.Tx().ExecContext(dbs.Ctx(), `DELETE FROM session WHERE steam_id=?`, steamID)
	if err != nil {
		return err
	}
	_, err = dbs.Tx().ExecContext(dbs.Ctx(), `DELETE FROM staff WHERE steam_id=?`, steamID)
	return err
}

// CountStaffMembers returns the staff roster size
func (d *mysqlDAL) CountStaffMembers(dbs DBSession) (int64, error) {
	row := dbs.Tx().QueryRowContext(dbs.Ctx(), `SELECT COUNT(*) FROM staff`)
	var count int64
	err := row.Scan(&count)
	return count, err
}

// GetMaintenanceFlag returns the singleton flag, sql.ErrNoRows when unset
func (d *mysqlDAL) GetMaintenanceFlag(dbs DBSession) (*types.MaintenanceFlag, error) {
	row := dbs.Tx().QueryRowContext(dbs.Ctx(),
		`SELECT enabled, title, message, data, created_at, updated_at FROM maintenance WHERE id=1`)

	flag := &types.MaintenanceFlag{}
	var data string
	var createdAt, updatedAt int64
	err := row.Scan(&flag.Enabled, &flag.Title, &flag.Message, &data, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &flag.Data); err != nil {
			flag.Data = nil
		}
	}
	flag.CreatedAt = time.Unix(createdAt, 0)
	flag.UpdatedAt = time.Unix(updatedAt, 0)
	return flag, nil
}

// StoreMaintenanceFlag inserts or replaces the singleton flag
func (d *mysqlDAL) StoreMaintenanceFlag(dbs DBSession, flag *types.MaintenanceFlag) error {
	data, err := json.Marshal(flag.Data)
	if err != nil {
		return err
	}
	_, err = dbs.Tx().ExecContext(dbs.Ctx(),
		`INSERT INTO maintenance (id, enabled, title, message, data, created_at, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE enabled=?, title=?, message=?, data=?, updated_at=?`,
		flag.Enabled, flag.Title, flag.Message, string(data), flag.CreatedAt.Unix(), flag.UpdatedAt.Unix(),
		flag.Enabled, flag.Title, flag.Message, string(data), flag.UpdatedAt.Unix())
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*types.Game, error) {
	game := &types.Game{}
	var genres, gallery, downloads string
	var createdAt, updatedAt int64

	err := row.Scan(
		&game.ID, &game.Name, &game.Section, &game.Description, &game.LongDescription,
		&game.ArchiveType, &game.ArchivePassword, &game.InstallDirName, &game.LaunchExecutable,
		&game.ImageURL, &game.CardImageURL, &game.BannerURL, &game.LogoURL, &game.TrailerURL,
		&game.DevelopedBy, &game.PublishedBy, &game.ReleaseDate, &game.SteamAppID, &game.SteamURL,
		&genres, &gallery, &downloads, &game.DriveFileID,
		&game.SizeBytes, &game.SizeLabel, &game.CurrentPrice, &game.OriginalPrice, &game.DiscountPercent,
		&game.Free, &game.Exclusive, &game.ComingSoon, &game.Enabled, &game.SortOrder,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(genres), &game.Genres); err != nil {
		game.Genres = []string{}
	}
	if err := json.Unmarshal([]byte(gallery), &game.Gallery); err != nil {
		game.Gallery = []string{}
	}
	if err := json.Unmarshal([]byte(downloads), &game.DownloadURLs); err != nil {
		game.DownloadURLs = []string{}
	}
	game.CreatedAt = time.Unix(createdAt, 0)
	game.UpdatedAt = time.Unix(updatedAt, 0)
	return game, nil
}

func scanStaffMember(row rowScanner) (*types.StaffMember, error) {
	member := &types.StaffMember{}
	var createdAt int64
	err := row.Scan(&member.SteamID, &member.Role, &member.DisplayName, &member.AvatarURL, &member.ProfileURL, &createdAt)
	if err != nil {
		return nil, err
	}
	member.CreatedAt = time.Unix(createdAt, 0)
	return member, nil
}
