package draftstore

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/types"
)

const payloadVersion = 1

// DraftStore is a small local key-value store for per-editor state that must
// survive a panel restart: the unsaved editor draft and the layout
// preference. It is last-write-wins and deliberately forgiving, a corrupt or
// version-mismatched payload reads as absent.
type DraftStore struct {
	db *sql.DB
}

type draftPayload struct {
	Version int             `json:"version"`
	SavedAt int64           `json:"saved_at"`
	Form    *types.GameForm `json:"form"`
}

func New(path string) (*DraftStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DraftStore{db: db}, nil
}

func (s *DraftStore) Close() error {
	return s.db.Close()
}

// SaveDraft stores the editor form under the record's id, "" for a new record.
func (s *DraftStore) SaveDraft(gameID string, form *types.GameForm) error {
	payload := draftPayload{
		Version: payloadVersion,
		SavedAt: time.Now().Unix(),
		Form:    form,
	}
	blob, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.put("draft:"+gameID, string(blob))
}

// LoadDraft returns the stored draft, or nil when there is none or the
// stored payload is unreadable or from an incompatible version.
func (s *DraftStore) LoadDraft(gameID string) *types.GameForm {
	value, ok := s.get("draft:" + gameID)
	if !ok {
		return nil
	}
	var payload draftPayload
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		return nil
	}
	if payload.Version != payloadVersion || payload.Form == nil {
		return nil
	}
	return payload.Form
}

// DiscardDraft drops the stored draft, typically after a successful save.
func (s *DraftStore) DiscardDraft(gameID string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE k=?`, "draft:"+gameID)
	return err
}

// SaveLayout stores the editor layout preference.
func (s *DraftStore) SaveLayout(layout string) error {
	if layout != constants.LayoutSimplified && layout != constants.LayoutComplete {
		layout = constants.LayoutSimplified
	}
	return s.put("layout", layout)
}

// Layout returns the stored layout preference, defaulting to simplified.
func (s *DraftStore) Layout() string {
	value, ok := s.get("layout")
	if !ok {
		return constants.LayoutSimplified
	}
	if value != constants.LayoutSimplified && value != constants.LayoutComplete {
		return constants.LayoutSimplified
	}
	return value
}

func (s *DraftStore) put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v=excluded.v`,
		key, value)
	return err
}

func (s *DraftStore) get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k=?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}
