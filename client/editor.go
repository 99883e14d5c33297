package client

import (
	"context"

	"github.com/nxlauncher/launcher-admin-system/draftstore"
	"github.com/nxlauncher/launcher-admin-system/mapper"
	"github.com/nxlauncher/launcher-admin-system/types"
)

// draft key for a record that has not been created yet
const newDraftKey = "new"

// Editor drives the record form: it loads a record into its editable shape,
// tracks dirtiness against the loaded snapshot, keeps a local draft across
// restarts and saves through the API.
type Editor struct {
	client *Client
	drafts *draftstore.DraftStore

	form       *types.GameForm
	snapshot   string
	existingID string
}

func NewEditor(c *Client, drafts *draftstore.DraftStore) *Editor {
	return &Editor{client: c, drafts: drafts}
}

// Open loads an existing record into the editor. A stored draft for the same
// record wins over the server copy, the snapshot still reflects the server
// copy so the draft shows up as dirty.
func (e *Editor) Open(ctx context.Context, id string) (*types.GameForm, error) {
	game, err := e.client.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	form := mapper.ToForm(game)
	e.snapshot = mapper.Snapshot(form)
	e.existingID = game.ID

	if draft := e.drafts.LoadDraft(game.ID); draft != nil {
		form = draft
	}
	e.form = form
	return form, nil
}

// OpenNew starts a blank form with the editor defaults filled in.
func (e *Editor) OpenNew() *types.GameForm {
	form := mapper.ToForm(&types.Game{})
	e.snapshot = mapper.Snapshot(form)
	e.existingID = ""

	if draft := e.drafts.LoadDraft(newDraftKey); draft != nil {
		form = draft
	}
	e.form = form
	return form
}

func (e *Editor) Form() *types.GameForm {
	return e.form
}

func (e *Editor) draftKey() string {
	if e.existingID == "" {
		return newDraftKey
	}
	return e.existingID
}

// Update replaces the working form and persists it as the local draft.
func (e *Editor) Update(form *types.GameForm) error {
	e.form = form
	return e.drafts.SaveDraft(e.draftKey(), form)
}

// Dirty reports whether the working form differs from the loaded record
func (e *Editor) Dirty() bool {
	if e.form == nil {
		return false
	}
	return mapper.Snapshot(e.form) != e.snapshot
}

// ImportJSON merges an external JSON export into the working form.
func (e *Editor) ImportJSON(payload []byte) (*types.GameForm, error) {
	mode := mapper.ImportModeEdit
	if e.existingID == "" {
		mode = mapper.ImportModeCreate
	}

	form, err := mapper.ImportJSON(payload, e.form, mode)
	if err != nil {
		return nil, err
	}
	return form, e.Update(form)
}

// Save pushes the working form to the server. On success the editor adopts
// the saved record as the new clean state and discards the draft.
func (e *Editor) Save(ctx context.Context) (*types.Game, error) {
	game, err := e.client.SaveGame(ctx, e.form, e.existingID)
	if err != nil {
		return nil, err
	}

	key := e.draftKey()
	e.form = mapper.ToForm(game)
	e.snapshot = mapper.Snapshot(e.form)
	e.existingID = game.ID

	if err := e.drafts.DiscardDraft(key); err != nil {
		return game, err
	}
	return game, nil
}

// Discard drops the working changes and the stored draft.
func (e *Editor) Discard() error {
	e.form = nil
	return e.drafts.DiscardDraft(e.draftKey())
}

func (e *Editor) Layout() string {
	return e.drafts.Layout()
}

func (e *Editor) SetLayout(layout string) error {
	return e.drafts.SaveLayout(layout)
}
