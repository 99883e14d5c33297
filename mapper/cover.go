package mapper

import (
	"github.com/nxlauncher/launcher-admin-system/normalize"
	"github.com/nxlauncher/launcher-admin-system/types"
)

// legacy key spellings still present in records imported from old dumps
var coverAliasChain = [][]string{
	{"card_image_url", "cardImageUrl"},
	{"card_image"},
	{"image_url", "imageUrl"},
	{"image"},
	{"banner_url", "bannerUrl"},
	{"banner"},
}

var coverTailChain = [][]string{
	{"logo_url", "logoUrl"},
	{"logo"},
}

var coverGalleryAliases = []string{"gallery", "screenshots", "images"}

// CoverCandidates builds the ordered, deduplicated fallback chain the
// renderer walks when a cover image fails to load: card image first, then
// primary image, banner, every gallery entry, logo, with legacy aliases
// interleaved after their modern spelling.
func CoverCandidates(record map[string]interface{}) []string {
	candidates := make([]string, 0, 8)

	appendAliases := func(chain [][]string) {
		for _, aliases := range chain {
			if value, ok := firstString(record, aliases); ok {
				candidates = append(candidates, value)
			}
		}
	}

	appendAliases(coverAliasChain)
	if entries, ok := firstList(record, coverGalleryAliases); ok {
		candidates = append(candidates, entries...)
	}
	appendAliases(coverTailChain)

	return sanitizeCandidates(candidates)
}

// GameCoverCandidates is the typed-record variant used against records the
// panel itself persisted.
func GameCoverCandidates(g *types.Game) []string {
	candidates := make([]string, 0, 5+len(g.Gallery))
	candidates = append(candidates, g.CardImageURL, g.ImageURL, g.BannerURL)
	candidates = append(candidates, g.Gallery...)
	candidates = append(candidates, g.LogoURL)
	return sanitizeCandidates(candidates)
}

func sanitizeCandidates(candidates []string) []string {
	out := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		url := normalize.SanitizeMediaURL(candidate)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		out = append(out, url)
	}
	return out
}

// CoverURL returns the first usable candidate or ""
func CoverURL(record map[string]interface{}) string {
	candidates := CoverCandidates(record)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}
