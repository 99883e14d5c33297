package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/schema"
	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/reorder"
	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/sirupsen/logrus"
)

// ErrTimedOut marks a call abandoned because its deadline passed. The caller
// rolls back whatever the call was about to change and may retry.
var ErrTimedOut = errors.New("timed out, retry")

// ErrRequestInFlight is returned when a mutation is attempted while an
// earlier mutation of the same entity is still running. The attempt is
// rejected, not queued.
var ErrRequestInFlight = errors.New("another request for this entity is still in flight")

type deadlines struct {
	read    time.Duration
	write   time.Duration
	gallery time.Duration
	publish time.Duration
}

// Client talks to the panel API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	encoder    *schema.Encoder
	deadlines  deadlines
	l          *logrus.Entry

	mu       sync.Mutex
	inFlight map[string]bool
}

func New(baseURL string, l *logrus.Entry) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Jar: jar},
		encoder:    schema.NewEncoder(),
		deadlines: deadlines{
			read:    constants.DeadlineRead,
			write:   constants.DeadlineWrite,
			gallery: constants.DeadlineGalleryUpload,
			publish: constants.DeadlinePublish,
		},
		l:        l,
		inFlight: make(map[string]bool),
	}
}

var _ reorder.Persister = (*Client)(nil)

// acquire claims the single-flight slot for an entity
func (c *Client) acquire(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[key] {
		return ErrRequestInFlight
	}
	c.inFlight[key] = true
	return nil
}

func (c *Client) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, key)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, deadline time.Duration, contentType string, body io.Reader, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.l.WithField("path", path).Warn("request deadline exceeded")
			return ErrTimedOut
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		er := errorResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
			return constants.PublicError{Msg: er.Error, Status: resp.StatusCode}
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Profile(ctx context.Context) (*types.BasePageData, error) {
	bpd := &types.BasePageData{}
	if err := c.do(ctx, http.MethodGet, "/api/profile", c.deadlines.read, "", nil, bpd); err != nil {
		return nil, err
	}
	return bpd, nil
}

func (c *Client) ListGames(ctx context.Context, filter *types.GamesFilter) ([]*types.Game, error) {
	path := "/api/games"
	if filter != nil {
		values := url.Values{}
		if err := c.encoder.Encode(filter, values); err != nil {
			return nil, err
		}
		path += "?" + values.Encode()
	}

	var body struct {
		Games []*types.Game `json:"games"`
	}
	if err := c.do(ctx, http.MethodGet, path, c.deadlines.read, "", nil, &body); err != nil {
		return nil, err
	}
	return body.Games, nil
}

func (c *Client) GetGame(ctx context.Context, id string) (*types.Game, error) {
	game := &types.Game{}
	if err := c.do(ctx, http.MethodGet, "/api/game/"+url.PathEscape(id), c.deadlines.read, "", nil, game); err != nil {
		return nil, err
	}
	return game, nil
}

// SaveGame creates or updates a record. existingID is empty on create.
// Single-flighted per record so a double submit is rejected outright.
func (c *Client) SaveGame(ctx context.Context, form *types.GameForm, existingID string) (*types.Game, error) {
	key := existingID
	if key == "" {
		key = "create"
	}
	if err := c.acquire("game-" + key); err != nil {
		return nil, err
	}
	defer c.release("game-" + key)

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if err := c.writeFormFields(mw, form); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	path := "/api/game"
	if existingID != "" {
		path += "/" + url.PathEscape(existingID)
	}

	game := &types.Game{}
	if err := c.do(ctx, http.MethodPost, path, c.deadlines.write, mw.FormDataContentType(), buf, game); err != nil {
		return nil, err
	}
	return game, nil
}

// PublishArchive uploads the game archive together with the record fields.
// The archive is streamed, not buffered.
func (c *Client) PublishArchive(ctx context.Context, form *types.GameForm, gameID, archivePath string) (*types.Game, error) {
	if err := c.acquire("game-" + gameID); err != nil {
		return nil, err
	}
	defer c.release("game-" + gameID)

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := c.writeFormFields(mw, form)
		if err == nil {
			var part io.Writer
			part, err = mw.CreateFormFile("archive", filepath.Base(archivePath))
			if err == nil {
				_, err = io.Copy(part, f)
			}
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	game := &types.Game{}
	if err := c.do(ctx, http.MethodPost, "/api/game/"+url.PathEscape(gameID), c.deadlines.publish, mw.FormDataContentType(), pr, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (c *Client) DeleteGame(ctx context.Context, id string) error {
	if err := c.acquire("game-" + id); err != nil {
		return err
	}
	defer c.release("game-" + id)

	return c.do(ctx, http.MethodDelete, "/api/game/"+url.PathEscape(id), c.deadlines.write, "", nil, nil)
}

// PersistOrder sends the full ordered id list and returns the server's
// authoritative order.
func (c *Client) PersistOrder(ctx context.Context, order []string) (*types.ReorderResult, error) {
	if err := c.acquire("catalog-order"); err != nil {
		return nil, err
	}
	defer c.release("catalog-order")

	payload, err := json.Marshal(map[string]interface{}{"order": order})
	if err != nil {
		return nil, err
	}

	result := &types.ReorderResult{}
	if err := c.do(ctx, http.MethodPost, "/api/games/order", c.deadlines.write, "application/json", bytes.NewReader(payload), result); err != nil {
		return nil, err
	}
	return result, nil
}

// UploadGalleryImages uploads local image files and returns their public
// URLs in the same order.
func (c *Client) UploadGalleryImages(ctx context.Context, paths []string) ([]string, error) {
	if err := c.acquire("gallery-upload"); err != nil {
		return nil, err
	}
	defer c.release("gallery-upload")

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for _, p := range paths {
		part, err := mw.CreateFormFile("files", filepath.Base(p))
		if err != nil {
			return nil, err
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		_, err = io.Copy(part, f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var body struct {
		URLs []string `json:"urls"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/gallery-upload", c.deadlines.gallery, mw.FormDataContentType(), buf, &body); err != nil {
		return nil, err
	}
	return body.URLs, nil
}

func (c *Client) ListStaff(ctx context.Context) ([]*types.StaffMember, error) {
	var body struct {
		Staff []*types.StaffMember `json:"staff"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/staff", c.deadlines.read, "", nil, &body); err != nil {
		return nil, err
	}
	return body.Staff, nil
}

func (c *Client) AddStaff(ctx context.Context, steamID, role string) (*types.StaffMember, error) {
	if err := c.acquire("staff-" + steamID); err != nil {
		return nil, err
	}
	defer c.release("staff-" + steamID)

	values := url.Values{}
	values.Set("steam-id", steamID)
	values.Set("staff-role", role)

	member := &types.StaffMember{}
	if err := c.do(ctx, http.MethodPost, "/api/staff", c.deadlines.write, "application/x-www-form-urlencoded", bytes.NewReader([]byte(values.Encode())), member); err != nil {
		return nil, err
	}
	return member, nil
}

func (c *Client) UpdateStaffRole(ctx context.Context, steamID, role string) error {
	if err := c.acquire("staff-" + steamID); err != nil {
		return err
	}
	defer c.release("staff-" + steamID)

	values := url.Values{}
	values.Set("staff-role", role)

	return c.do(ctx, http.MethodPatch, "/api/staff/"+url.PathEscape(steamID), c.deadlines.write, "application/x-www-form-urlencoded", bytes.NewReader([]byte(values.Encode())), nil)
}

func (c *Client) DeleteStaff(ctx context.Context, steamID string) error {
	if err := c.acquire("staff-" + steamID); err != nil {
		return err
	}
	defer c.release("staff-" + steamID)

	return c.do(ctx, http.MethodDelete, "/api/staff/"+url.PathEscape(steamID), c.deadlines.write, "", nil, nil)
}

func (c *Client) GetMaintenanceFlag(ctx context.Context) (*types.MaintenanceFlag, error) {
	flag := &types.MaintenanceFlag{}
	if err := c.do(ctx, http.MethodGet, "/api/maintenance", c.deadlines.read, "", nil, flag); err != nil {
		return nil, err
	}
	return flag, nil
}

func (c *Client) SaveMaintenanceFlag(ctx context.Context, flag *types.MaintenanceFlag) error {
	if err := c.acquire("maintenance"); err != nil {
		return err
	}
	defer c.release("maintenance")

	payload, err := json.Marshal(flag)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, "/api/maintenance", c.deadlines.write, "application/json", bytes.NewReader(payload), nil)
}

func (c *Client) writeFormFields(mw *multipart.Writer, form *types.GameForm) error {
	values := url.Values{}
	if err := c.encoder.Encode(form, values); err != nil {
		return err
	}
	for key, vals := range values {
		for _, v := range vals {
			if err := mw.WriteField(key, v); err != nil {
				return err
			}
		}
	}
	return nil
}
