package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/sirupsen/logrus"
)

// ProfileReader reads upstream Steam profile snapshots.
type ProfileReader interface {
	GetProfile(ctx context.Context, steamID string) (*types.SteamProfile, error)
}

type client struct {
	apiKey     string
	httpClient *http.Client
	l          *logrus.Entry
}

func NewClient(apiKey string, l *logrus.Entry) *client {
	return &client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		l: l,
	}
}

const playerSummariesURL = "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v2/"

type playerSummariesResponse struct {
	Response struct {
		Players []struct {
			SteamID     string `json:"steamid"`
			PersonaName string `json:"personaname"`
			AvatarFull  string `json:"avatarfull"`
			ProfileURL  string `json:"profileurl"`
		} `json:"players"`
	} `json:"response"`
}

// GetProfile returns the current upstream profile for a steam ID
func (c *client) GetProfile(ctx context.Context, steamID string) (*types.SteamProfile, error) {
	c.l.WithField("steamID", steamID).Debug("getting steam profile")

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamids", steamID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, playerSummariesURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steam api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var summaries playerSummariesResponse
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, err
	}
	if len(summaries.Response.Players) == 0 {
		return nil, fmt.Errorf("steam profile not found for %s", steamID)
	}

	player := summaries.Response.Players[0]
	return &types.SteamProfile{
		SteamID:     player.SteamID,
		DisplayName: player.PersonaName,
		AvatarURL:   player.AvatarFull,
		ProfileURL:  player.ProfileURL,
	}, nil
}
