package types

import (
	"fmt"
	"time"

	"github.com/nxlauncher/launcher-admin-system/constants"
)

// Game is the persisted catalog record
type Game struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Section          string    `json:"section"`
	Description      string    `json:"description"`
	LongDescription  string    `json:"long_description"`
	ArchiveType      string    `json:"archive_type"`
	ArchivePassword  string    `json:"archive_password"`
	InstallDirName   string    `json:"install_dir_name"`
	LaunchExecutable string    `json:"launch_executable"`
	ImageURL         string    `json:"image_url"`
	CardImageURL     string    `json:"card_image_url"`
	BannerURL        string    `json:"banner_url"`
	LogoURL          string    `json:"logo_url"`
	TrailerURL       string    `json:"trailer_url"`
	DevelopedBy      string    `json:"developed_by"`
	PublishedBy      string    `json:"published_by"`
	ReleaseDate      string    `json:"release_date"`
	SteamAppID       int64     `json:"steam_app_id,omitempty"`
	SteamURL         string    `json:"steam_url,omitempty"`
	Genres           []string  `json:"genres"`
	Gallery          []string  `json:"gallery"`
	DownloadURLs     []string  `json:"download_urls"`
	DriveFileID      string    `json:"drive_file_id,omitempty"`
	SizeBytes        string    `json:"size_bytes"`
	SizeLabel        string    `json:"size_label"`
	CurrentPrice     string    `json:"current_price"`
	OriginalPrice    string    `json:"original_price"`
	DiscountPercent  string    `json:"discount_percent"`
	Free             bool      `json:"free"`
	Exclusive        bool      `json:"exclusive"`
	ComingSoon       bool      `json:"coming_soon"`
	Enabled          bool      `json:"enabled"`
	SortOrder        int64     `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// GameForm is the editable, string-typed shape of a Game. List fields are
// newline-joined text for the editor.
type GameForm struct {
	ID               string `json:"id" schema:"id"`
	Name             string `json:"name" schema:"name"`
	Section          string `json:"section" schema:"section"`
	Description      string `json:"description" schema:"description"`
	LongDescription  string `json:"longDescription" schema:"long-description"`
	ArchiveType      string `json:"archiveType" schema:"archive-type"`
	ArchivePassword  string `json:"archivePassword" schema:"archive-password"`
	InstallDirName   string `json:"installDirName" schema:"install-dir-name"`
	LaunchExecutable string `json:"launchExecutable" schema:"launch-executable"`
	ImageURL         string `json:"imageUrl" schema:"image-url"`
	CardImageURL     string `json:"cardImageUrl" schema:"card-image-url"`
	BannerURL        string `json:"bannerUrl" schema:"banner-url"`
	LogoURL          string `json:"logoUrl" schema:"logo-url"`
	TrailerURL       string `json:"trailerUrl" schema:"trailer-url"`
	DevelopedBy      string `json:"developedBy" schema:"developed-by"`
	PublishedBy      string `json:"publishedBy" schema:"published-by"`
	ReleaseDate      string `json:"releaseDate" schema:"release-date"`
	SteamAppID       string `json:"steamAppId" schema:"steam-app-id"`
	SteamURL         string `json:"steamUrl" schema:"steam-url"`
	GenresText       string `json:"genres" schema:"genres"`
	GalleryText      string `json:"gallery" schema:"gallery"`
	DownloadURLsText string `json:"downloadUrls" schema:"download-urls"`
	DriveFileID      string `json:"driveFileId" schema:"drive-file-id"`
	SizeBytes        string `json:"sizeBytes" schema:"size-bytes"`
	SizeLabel        string `json:"sizeLabel" schema:"size-label"`
	CurrentPrice     string `json:"currentPrice" schema:"current-price"`
	OriginalPrice    string `json:"originalPrice" schema:"original-price"`
	DiscountPercent  string `json:"discountPercent" schema:"discount-percent"`
	Free             bool   `json:"free" schema:"free"`
	Exclusive        bool   `json:"exclusive" schema:"exclusive"`
	ComingSoon       bool   `json:"comingSoon" schema:"coming-soon"`
	Enabled          bool   `json:"enabled" schema:"enabled"`
}

// MaintenanceFlag is the site-wide maintenance singleton
type MaintenanceFlag struct {
	Enabled   bool                   `json:"enabled"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// DefaultMaintenanceFlag is returned when the stored flag is absent or unreadable
func DefaultMaintenanceFlag() *MaintenanceFlag {
	return &MaintenanceFlag{
		Enabled: false,
		Title:   "Em manutenção",
		Message: "O painel está temporariamente indisponível.",
	}
}

// StaffMember is a staff account keyed by a 17-digit SteamID
type StaffMember struct {
	SteamID     string    `json:"steam_id"`
	Role        string    `json:"staff_role"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	ProfileURL  string    `json:"profile_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// SteamProfile is the upstream profile snapshot, read-only
type SteamProfile struct {
	SteamID     string
	DisplayName string
	AvatarURL   string
	ProfileURL  string
}

// GamesFilter narrows the catalog listing
type GamesFilter struct {
	SearchPartial *string `schema:"search-partial"`
	Section       *string `schema:"section"`
	EnabledOnly   bool    `schema:"enabled-only"`
}

func (gf *GamesFilter) Validate() error {
	if gf.SearchPartial != nil && *gf.SearchPartial == "" {
		gf.SearchPartial = nil
	}
	if gf.Section != nil && *gf.Section == "" {
		gf.Section = nil
	}
	return nil
}

// BasePageData is the viewer session summary
type BasePageData struct {
	SteamID     string                `json:"steamId"`
	DisplayName string                `json:"displayName"`
	AvatarURL   string                `json:"avatarUrl"`
	Role        string                `json:"role"`
	IsAdmin     bool                  `json:"isAdmin"`
	Permissions constants.Permissions `json:"permissions"`
}

// ReorderResult is the server's answer to a reorder request
type ReorderResult struct {
	UpdatedCount int64    `json:"updated_count"`
	Order        []string `json:"order"`
}

// ValidateSteamID enforces the 17-digit numeric key format
func ValidateSteamID(steamID string) error {
	if len(steamID) != 17 {
		return fmt.Errorf("steam id must be exactly 17 digits")
	}
	for _, r := range steamID {
		if r < '0' || r > '9' {
			return fmt.Errorf("steam id must be numeric")
		}
	}
	return nil
}
