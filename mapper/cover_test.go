package mapper

import (
	"testing"

	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/stretchr/testify/assert"
)

func Test_CoverCandidates_Order(t *testing.T) {
	record := map[string]interface{}{
		"card_image_url": "https://cdn.example.com/card.png",
		"image_url":      "https://cdn.example.com/image.png",
		"banner_url":     "https://cdn.example.com/banner.png",
		"gallery":        []interface{}{"https://cdn.example.com/shot1.png", "https://cdn.example.com/shot2.png"},
		"logo_url":       "https://cdn.example.com/logo.png",
	}

	got := CoverCandidates(record)

	assert.Equal(t, []string{
		"https://cdn.example.com/card.png",
		"https://cdn.example.com/image.png",
		"https://cdn.example.com/banner.png",
		"https://cdn.example.com/shot1.png",
		"https://cdn.example.com/shot2.png",
		"https://cdn.example.com/logo.png",
	}, got)
}

func Test_CoverCandidates_LegacyAliases(t *testing.T) {
	record := map[string]interface{}{
		"card_image": "https://cdn.example.com/legacy-card.png",
		"image":      "https://cdn.example.com/legacy-image.png",
	}

	got := CoverCandidates(record)

	assert.Equal(t, []string{
		"https://cdn.example.com/legacy-card.png",
		"https://cdn.example.com/legacy-image.png",
	}, got)
}

func Test_CoverCandidates_ModernSpellingWins(t *testing.T) {
	record := map[string]interface{}{
		"card_image_url": "https://cdn.example.com/modern.png",
		"card_image":     "https://cdn.example.com/legacy.png",
	}

	got := CoverCandidates(record)

	assert.Equal(t, []string{
		"https://cdn.example.com/modern.png",
		"https://cdn.example.com/legacy.png",
	}, got)
}

func Test_CoverCandidates_SentinelsAndDuplicatesDropped(t *testing.T) {
	record := map[string]interface{}{
		"card_image_url": "null",
		"image_url":      "https://cdn.example.com/image.png",
		"banner_url":     "https://cdn.example.com/image.png",
		"logo_url":       "undefined",
	}

	got := CoverCandidates(record)

	assert.Equal(t, []string{"https://cdn.example.com/image.png"}, got)
}

func Test_CoverCandidates_RelativePathsNormalized(t *testing.T) {
	record := map[string]interface{}{
		"image_url": "../uploads/cover.png",
		"banner":    "cdn.example.com/banner.png",
	}

	got := CoverCandidates(record)

	assert.Equal(t, []string{
		"/uploads/cover.png",
		"https://cdn.example.com/banner.png",
	}, got)
}

func Test_CoverCandidates_Empty(t *testing.T) {
	assert.Empty(t, CoverCandidates(map[string]interface{}{}))
}

func Test_GameCoverCandidates(t *testing.T) {
	g := &types.Game{
		CardImageURL: "https://cdn.example.com/card.png",
		ImageURL:     "",
		BannerURL:    "https://cdn.example.com/banner.png",
		Gallery:      []string{"https://cdn.example.com/shot1.png"},
		LogoURL:      "https://cdn.example.com/logo.png",
	}

	got := GameCoverCandidates(g)

	assert.Equal(t, []string{
		"https://cdn.example.com/card.png",
		"https://cdn.example.com/banner.png",
		"https://cdn.example.com/shot1.png",
		"https://cdn.example.com/logo.png",
	}, got)
}

func Test_CoverURL(t *testing.T) {
	assert.Equal(t, "", CoverURL(map[string]interface{}{}))
	assert.Equal(t, "https://cdn.example.com/card.png", CoverURL(map[string]interface{}{
		"cardImageUrl": "https://cdn.example.com/card.png",
	}))
}
