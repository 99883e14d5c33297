package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var steamAppPathRegex = regexp.MustCompile(`/app/(\d+)`)

// SteamAppID resolves a bare numeric id or a Steam store/community URL into
// a positive app id, 0 when nothing usable is found.
func SteamAppID(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if id > 0 {
			return id
		}
		return 0
	}

	u, err := url.Parse(URL(s))
	if err != nil {
		return 0
	}
	host := strings.ToLower(u.Host)
	if !hostMatches(host, "steampowered.com") && !hostMatches(host, "steamcommunity.com") {
		return 0
	}
	if m := steamAppPathRegex.FindStringSubmatch(u.Path); m != nil {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil && id > 0 {
			return id
		}
	}
	return 0
}

// SteamStoreURL derives the canonical store URL. The stored steam_url is
// never authoritative on its own, it is always rebuilt from the app id.
func SteamStoreURL(appID int64) string {
	if appID <= 0 {
		return ""
	}
	return fmt.Sprintf("https://store.steampowered.com/app/%d", appID)
}
