package mapper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/normalize"
	"github.com/nxlauncher/launcher-admin-system/types"
)

// ToForm flattens a persisted record into the editable string-typed shape.
// Absent optional fields get the shared defaults so the editor never shows
// blanks the launcher would not accept back.
func ToForm(g *types.Game) *types.GameForm {
	f := &types.GameForm{
		ID:               g.ID,
		Name:             g.Name,
		Section:          g.Section,
		Description:      g.Description,
		LongDescription:  g.LongDescription,
		ArchiveType:      g.ArchiveType,
		ArchivePassword:  g.ArchivePassword,
		InstallDirName:   g.InstallDirName,
		LaunchExecutable: g.LaunchExecutable,
		ImageURL:         g.ImageURL,
		CardImageURL:     g.CardImageURL,
		BannerURL:        g.BannerURL,
		LogoURL:          g.LogoURL,
		TrailerURL:       g.TrailerURL,
		DevelopedBy:      g.DevelopedBy,
		PublishedBy:      g.PublishedBy,
		ReleaseDate:      g.ReleaseDate,
		GenresText:       strings.Join(g.Genres, "\n"),
		GalleryText:      strings.Join(g.Gallery, "\n"),
		DownloadURLsText: strings.Join(g.DownloadURLs, "\n"),
		DriveFileID:      g.DriveFileID,
		SizeBytes:        g.SizeBytes,
		SizeLabel:        g.SizeLabel,
		CurrentPrice:     g.CurrentPrice,
		OriginalPrice:    g.OriginalPrice,
		DiscountPercent:  g.DiscountPercent,
		Free:             g.Free,
		Exclusive:        g.Exclusive,
		ComingSoon:       g.ComingSoon,
		Enabled:          g.Enabled,
	}

	if f.ArchivePassword == "" {
		f.ArchivePassword = constants.DefaultArchivePassword
	}
	if f.PublishedBy == "" {
		f.PublishedBy = constants.DefaultPublisherLabel
	}
	if g.SteamAppID > 0 {
		f.SteamAppID = strconv.FormatInt(g.SteamAppID, 10)
		f.SteamURL = normalize.SteamStoreURL(g.SteamAppID)
	}

	return f
}

// Sanitize is the single normalization pass applied on every relevant field
// write: trims everything, canonicalizes URLs, dedupes lists, slugifies the
// id and re-derives steamUrl from steamAppId. All invariant maintenance
// happens here, nowhere else.
func Sanitize(form *types.GameForm) *types.GameForm {
	f := *form

	f.ID = normalize.Slugify(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Section = strings.TrimSpace(f.Section)
	f.Description = strings.TrimSpace(f.Description)
	f.LongDescription = strings.TrimSpace(f.LongDescription)
	f.ArchiveType = strings.ToLower(strings.TrimSpace(f.ArchiveType))
	f.ArchivePassword = strings.TrimSpace(f.ArchivePassword)
	f.InstallDirName = strings.TrimSpace(f.InstallDirName)
	f.LaunchExecutable = strings.TrimSpace(f.LaunchExecutable)
	f.DevelopedBy = strings.TrimSpace(f.DevelopedBy)
	f.PublishedBy = strings.TrimSpace(f.PublishedBy)
	f.DriveFileID = strings.TrimSpace(f.DriveFileID)
	f.SizeBytes = strings.TrimSpace(f.SizeBytes)
	f.SizeLabel = strings.TrimSpace(f.SizeLabel)
	f.CurrentPrice = strings.TrimSpace(f.CurrentPrice)
	f.OriginalPrice = strings.TrimSpace(f.OriginalPrice)
	f.DiscountPercent = strings.TrimSpace(f.DiscountPercent)

	f.ImageURL = normalize.FieldURL("imageUrl", f.ImageURL)
	f.CardImageURL = normalize.FieldURL("cardImageUrl", f.CardImageURL)
	f.BannerURL = normalize.FieldURL("bannerUrl", f.BannerURL)
	f.LogoURL = normalize.FieldURL("logoUrl", f.LogoURL)
	f.TrailerURL = normalize.FieldURL("trailerUrl", f.TrailerURL)

	f.ReleaseDate = normalize.ReleaseDate(f.ReleaseDate)

	f.GenresText = strings.Join(normalize.UniqueList(normalize.ParseList(f.GenresText)), "\n")
	f.GalleryText = strings.Join(sanitizeGallery(f.GalleryText), "\n")
	f.DownloadURLsText = strings.Join(sanitizeDownloads(f.DownloadURLsText), "\n")

	appID := normalize.SteamAppID(f.SteamAppID)
	if appID == 0 {
		appID = normalize.SteamAppID(f.SteamURL)
	}
	if appID > 0 {
		f.SteamAppID = strconv.FormatInt(appID, 10)
		f.SteamURL = normalize.SteamStoreURL(appID)
	} else {
		f.SteamAppID = ""
		f.SteamURL = ""
	}

	return &f
}

func sanitizeGallery(text string) []string {
	entries := normalize.ParseList(text)
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, normalize.ImgurURL(normalize.URL(entry), ".png"))
	}
	return normalize.UniqueList(out)
}

func sanitizeDownloads(text string) []string {
	entries := normalize.ParseList(text)
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		resolved := normalize.DownloadURL(entry)
		if resolved.URL != "" {
			out = append(out, resolved.URL)
		} else {
			out = append(out, normalize.URL(entry))
		}
	}
	return uniqueExact(out)
}

// download urls get exact-string dedup, case matters in paths
func uniqueExact(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// Snapshot produces a deterministic serialization of the sanitized form,
// used purely for dirty-state detection. Forms differing only in whitespace
// or dedup-normalized list ordering snapshot identically.
func Snapshot(form *types.GameForm) string {
	b, err := json.Marshal(Sanitize(form))
	if err != nil {
		// GameForm contains only strings and bools, this cannot happen
		return ""
	}
	return string(b)
}

// ToGame maps a sanitized form back into the persisted record shape.
// Validation that requires catalog context (slug collisions, download
// source requirements) lives in the service.
func ToGame(form *types.GameForm) (*types.Game, error) {
	f := Sanitize(form)

	id := f.ID
	if id == "" {
		id = normalize.Slugify(f.Name)
	}
	if id == "" {
		return nil, fmt.Errorf("game name is required")
	}

	archiveType := f.ArchiveType
	if archiveType == "" {
		archiveType = constants.ArchiveTypeRar
	}
	if archiveType != constants.ArchiveTypeRar && archiveType != constants.ArchiveTypeZip {
		return nil, fmt.Errorf("invalid archive type '%s'", archiveType)
	}

	downloadURLs := make([]string, 0)
	driveFileID := f.DriveFileID
	for _, entry := range normalize.ParseList(f.DownloadURLsText) {
		if normalize.IsCloudFolderLink(entry) {
			return nil, fmt.Errorf("folder links cannot be used as a download source: %s", entry)
		}
		resolved := normalize.DownloadURL(entry)
		if resolved.URL == "" {
			return nil, fmt.Errorf("invalid download link: %s", entry)
		}
		downloadURLs = append(downloadURLs, resolved.URL)
		if driveFileID == "" && resolved.DriveFileID != "" {
			driveFileID = resolved.DriveFileID
		}
	}
	downloadURLs = uniqueExact(downloadURLs)

	var steamAppID int64
	if f.SteamAppID != "" {
		steamAppID, _ = strconv.ParseInt(f.SteamAppID, 10, 64)
	}

	g := &types.Game{
		ID:               id,
		Name:             f.Name,
		Section:          f.Section,
		Description:      f.Description,
		LongDescription:  f.LongDescription,
		ArchiveType:      archiveType,
		ArchivePassword:  f.ArchivePassword,
		InstallDirName:   f.InstallDirName,
		LaunchExecutable: f.LaunchExecutable,
		ImageURL:         f.ImageURL,
		CardImageURL:     f.CardImageURL,
		BannerURL:        f.BannerURL,
		LogoURL:          f.LogoURL,
		TrailerURL:       f.TrailerURL,
		DevelopedBy:      f.DevelopedBy,
		PublishedBy:      f.PublishedBy,
		ReleaseDate:      f.ReleaseDate,
		SteamAppID:       steamAppID,
		SteamURL:         normalize.SteamStoreURL(steamAppID),
		Genres:           normalize.ParseList(f.GenresText),
		Gallery:          normalize.ParseList(f.GalleryText),
		DownloadURLs:     downloadURLs,
		DriveFileID:      driveFileID,
		SizeBytes:        f.SizeBytes,
		SizeLabel:        f.SizeLabel,
		CurrentPrice:     f.CurrentPrice,
		OriginalPrice:    f.OriginalPrice,
		DiscountPercent:  f.DiscountPercent,
		Free:             f.Free,
		Exclusive:        f.Exclusive,
		ComingSoon:       f.ComingSoon,
		Enabled:          f.Enabled,
	}

	return g, nil
}
