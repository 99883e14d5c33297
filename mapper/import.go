package mapper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nxlauncher/launcher-admin-system/normalize"
	"github.com/nxlauncher/launcher-admin-system/types"
)

type ImportMode int

const (
	ImportModeCreate ImportMode = iota
	ImportModeEdit
)

// wrapper keys that older exports put around the actual payload
var importWrapperKeys = []string{"form", "game", "payload", "data"}

// scalarAliases maps each canonical form field to the key spellings that
// historical exports have used for it, in priority order. This table is the
// single source of truth for import key resolution.
var scalarAliases = map[string][]string{
	"name":             {"name", "title", "game_name"},
	"section":          {"section", "category"},
	"description":      {"description", "short_description"},
	"longDescription":  {"longDescription", "long_description", "about"},
	"archiveType":      {"archiveType", "archive_type"},
	"archivePassword":  {"archivePassword", "archive_password", "password"},
	"installDirName":   {"installDirName", "install_dir_name", "install_dir"},
	"launchExecutable": {"launchExecutable", "launch_executable", "executable"},
	"imageUrl":         {"imageUrl", "image_url", "image"},
	"cardImageUrl":     {"cardImageUrl", "card_image_url", "card_image"},
	"bannerUrl":        {"bannerUrl", "banner_url", "banner"},
	"logoUrl":          {"logoUrl", "logo_url", "logo"},
	"trailerUrl":       {"trailerUrl", "trailer_url", "trailer"},
	"developedBy":      {"developedBy", "developed_by", "developer"},
	"publishedBy":      {"publishedBy", "published_by", "publisher"},
	"releaseDate":      {"releaseDate", "release_date"},
	"sizeBytes":        {"sizeBytes", "size_bytes"},
	"sizeLabel":        {"sizeLabel", "size_label", "size"},
	"currentPrice":     {"currentPrice", "current_price", "price"},
	"originalPrice":    {"originalPrice", "original_price"},
	"discountPercent":  {"discountPercent", "discount_percent", "discount"},
}

var boolAliases = map[string][]string{
	"free":       {"free", "is_free"},
	"exclusive":  {"exclusive", "is_exclusive"},
	"comingSoon": {"comingSoon", "coming_soon"},
	"enabled":    {"enabled", "is_enabled", "active"},
}

var (
	genresAliases        = []string{"genres", "tags"}
	galleryAliases       = []string{"gallery", "screenshots", "images", "gallery_urls"}
	downloadListAliases  = []string{"downloadUrls", "download_urls"}
	downloadValueAliases = []string{"downloadUrl", "download_url"}
	idAliases            = []string{"id", "slug", "game_id"}
	steamIDAliases       = []string{"steamAppId", "steam_app_id", "appid", "app_id"}
	steamURLAliases      = []string{"steamUrl", "steam_url"}
)

// ImportJSON merges an arbitrary external JSON object into the current form.
// Fields absent from the import keep their current values, list fields are
// only overwritten when at least one alias is present, and everything goes
// through the same normalization as manual entry.
func ImportJSON(payload []byte, current *types.GameForm, mode ImportMode) (*types.GameForm, error) {
	var raw interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: object expected")
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid JSON: object expected")
	}

	// unwrap one level of export envelope
	for _, key := range importWrapperKeys {
		if inner, ok := obj[key].(map[string]interface{}); ok {
			obj = inner
			break
		}
	}

	result := *current

	scalarTargets := map[string]*string{
		"name":             &result.Name,
		"section":          &result.Section,
		"description":      &result.Description,
		"longDescription":  &result.LongDescription,
		"archiveType":      &result.ArchiveType,
		"archivePassword":  &result.ArchivePassword,
		"installDirName":   &result.InstallDirName,
		"launchExecutable": &result.LaunchExecutable,
		"imageUrl":         &result.ImageURL,
		"cardImageUrl":     &result.CardImageURL,
		"bannerUrl":        &result.BannerURL,
		"logoUrl":          &result.LogoURL,
		"trailerUrl":       &result.TrailerURL,
		"developedBy":      &result.DevelopedBy,
		"publishedBy":      &result.PublishedBy,
		"releaseDate":      &result.ReleaseDate,
		"sizeBytes":        &result.SizeBytes,
		"sizeLabel":        &result.SizeLabel,
		"currentPrice":     &result.CurrentPrice,
		"originalPrice":    &result.OriginalPrice,
		"discountPercent":  &result.DiscountPercent,
	}
	for canonical, aliases := range scalarAliases {
		if value, ok := firstString(obj, aliases); ok {
			*scalarTargets[canonical] = value
		}
	}

	boolTargets := map[string]*bool{
		"free":       &result.Free,
		"exclusive":  &result.Exclusive,
		"comingSoon": &result.ComingSoon,
		"enabled":    &result.Enabled,
	}
	for canonical, aliases := range boolAliases {
		if value, ok := firstBool(obj, aliases); ok {
			*boolTargets[canonical] = value
		}
	}

	if items, ok := firstList(obj, genresAliases); ok {
		result.GenresText = strings.Join(normalize.UniqueList(items), "\n")
	}
	if items, ok := firstList(obj, galleryAliases); ok {
		gallery := make([]string, 0, len(items))
		for _, item := range items {
			gallery = append(gallery, normalize.ImgurURL(normalize.URL(item), ".png"))
		}
		result.GalleryText = strings.Join(normalize.UniqueList(gallery), "\n")
	}
	if items, ok := downloadEntries(obj); ok {
		downloads := make([]string, 0, len(items))
		for _, item := range items {
			resolved := normalize.DownloadURL(item)
			if resolved.URL != "" {
				downloads = append(downloads, resolved.URL)
				if result.DriveFileID == "" && resolved.DriveFileID != "" {
					result.DriveFileID = resolved.DriveFileID
				}
			}
		}
		result.DownloadURLsText = strings.Join(uniqueExact(downloads), "\n")
	}

	// the id of an existing record is immutable
	if mode == ImportModeCreate {
		if value, ok := firstString(obj, idAliases); ok && value != "" {
			result.ID = normalize.Slugify(value)
		}
	} else {
		result.ID = current.ID
	}

	appID := int64(0)
	if value, ok := firstString(obj, steamIDAliases); ok {
		appID = normalize.SteamAppID(value)
	}
	if appID == 0 {
		if value, ok := firstString(obj, steamURLAliases); ok {
			appID = normalize.SteamAppID(value)
		}
	}
	if appID > 0 {
		result.SteamAppID = strconv.FormatInt(appID, 10)
		result.SteamURL = normalize.SteamStoreURL(appID)
	}

	return &result, nil
}

func firstString(obj map[string]interface{}, aliases []string) (string, bool) {
	for _, alias := range aliases {
		v, ok := obj[alias]
		if !ok {
			continue
		}
		switch value := v.(type) {
		case string:
			return strings.TrimSpace(value), true
		case float64:
			return strconv.FormatFloat(value, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(value), true
		}
	}
	return "", false
}

func firstBool(obj map[string]interface{}, aliases []string) (bool, bool) {
	for _, alias := range aliases {
		v, ok := obj[alias]
		if !ok {
			continue
		}
		switch value := v.(type) {
		case bool:
			return value, true
		case string:
			lower := strings.ToLower(strings.TrimSpace(value))
			return lower == "true" || lower == "1" || lower == "yes", true
		case float64:
			return value != 0, true
		}
	}
	return false, false
}

func firstList(obj map[string]interface{}, aliases []string) ([]string, bool) {
	for _, alias := range aliases {
		v, ok := obj[alias]
		if !ok {
			continue
		}
		switch value := v.(type) {
		case []interface{}:
			items := make([]string, 0, len(value))
			for _, entry := range value {
				if s, ok := entry.(string); ok {
					s = strings.TrimSpace(s)
					if s != "" {
						items = append(items, s)
					}
				}
			}
			return items, true
		case string:
			return normalize.ParseList(value), true
		}
	}
	return nil, false
}

// downloadEntries accepts both the list-shaped and the single-value
// historical spellings
func downloadEntries(obj map[string]interface{}) ([]string, bool) {
	if items, ok := firstList(obj, downloadListAliases); ok {
		return items, true
	}
	if value, ok := firstString(obj, downloadValueAliases); ok && value != "" {
		return []string{value}, true
	}
	return nil, false
}
