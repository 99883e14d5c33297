package mapper

import (
	"testing"

	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/stretchr/testify/assert"
)

func Test_ImportJSON_AbsentFieldsKeepCurrent(t *testing.T) {
	current := &types.GameForm{
		ID:      "house-flipper-2",
		Name:    "House Flipper 2",
		Section: "Catalogo",
	}

	result, err := ImportJSON([]byte(`{"name":"Foo"}`), current, ImportModeEdit)

	assert.NoError(t, err)
	assert.Equal(t, "Foo", result.Name)
	assert.Equal(t, "Catalogo", result.Section)
	assert.Equal(t, "house-flipper-2", result.ID)
}

func Test_ImportJSON_EnvelopeUnwrap(t *testing.T) {
	current := &types.GameForm{Section: "Catalogo"}

	result, err := ImportJSON([]byte(`{"form":{"name":"Foo"}}`), current, ImportModeEdit)

	assert.NoError(t, err)
	assert.Equal(t, "Foo", result.Name)
	assert.Equal(t, "Catalogo", result.Section)
}

func Test_ImportJSON_NonObjectRejected(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"array", `[1,2,3]`},
		{"string", `"hello"`},
		{"number", `42`},
		{"garbage", `{not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ImportJSON([]byte(tt.payload), &types.GameForm{}, ImportModeCreate)
			assert.Nil(t, result)
			assert.EqualError(t, err, "invalid JSON: object expected")
		})
	}
}

func Test_ImportJSON_SnakeCaseAliases(t *testing.T) {
	payload := []byte(`{
		"game_name": "House Flipper 2",
		"release_date": "26 de fevereiro de 2025",
		"long_description": "about text",
		"is_free": true
	}`)

	result, err := ImportJSON(payload, &types.GameForm{}, ImportModeCreate)

	assert.NoError(t, err)
	assert.Equal(t, "House Flipper 2", result.Name)
	assert.Equal(t, "26 de fevereiro de 2025", result.ReleaseDate)
	assert.Equal(t, "about text", result.LongDescription)
	assert.True(t, result.Free)
}

func Test_ImportJSON_CanonicalAliasWins(t *testing.T) {
	payload := []byte(`{"name":"Canonical","title":"Legacy"}`)

	result, err := ImportJSON(payload, &types.GameForm{}, ImportModeCreate)

	assert.NoError(t, err)
	assert.Equal(t, "Canonical", result.Name)
}

func Test_ImportJSON_IDImmutableInEditMode(t *testing.T) {
	current := &types.GameForm{ID: "house-flipper-2"}

	result, err := ImportJSON([]byte(`{"id":"something-else"}`), current, ImportModeEdit)

	assert.NoError(t, err)
	assert.Equal(t, "house-flipper-2", result.ID)
}

func Test_ImportJSON_IDSlugifiedInCreateMode(t *testing.T) {
	result, err := ImportJSON([]byte(`{"slug":"House Flipper 2"}`), &types.GameForm{}, ImportModeCreate)

	assert.NoError(t, err)
	assert.Equal(t, "house-flipper-2", result.ID)
}

func Test_ImportJSON_ListOverwriteOnlyWhenPresent(t *testing.T) {
	current := &types.GameForm{GenresText: "Action\nAdventure"}

	kept, err := ImportJSON([]byte(`{"name":"X"}`), current, ImportModeEdit)
	assert.NoError(t, err)
	assert.Equal(t, "Action\nAdventure", kept.GenresText)

	replaced, err := ImportJSON([]byte(`{"tags":["Simulation"]}`), current, ImportModeEdit)
	assert.NoError(t, err)
	assert.Equal(t, "Simulation", replaced.GenresText)
}

func Test_ImportJSON_GalleryThroughImgur(t *testing.T) {
	payload := []byte(`{"screenshots":["https://imgur.com/abc123","https://i.imgur.com/abc123.png"]}`)

	result, err := ImportJSON(payload, &types.GameForm{}, ImportModeCreate)

	assert.NoError(t, err)
	assert.Equal(t, "https://i.imgur.com/abc123.png", result.GalleryText)
}

func Test_ImportJSON_DownloadsCaptureDriveFileID(t *testing.T) {
	payload := []byte(`{"download_url":"https://drive.google.com/file/d/ABC123xyz_-00000000/view"}`)

	result, err := ImportJSON(payload, &types.GameForm{}, ImportModeCreate)

	assert.NoError(t, err)
	assert.Equal(t, "https://drive.google.com/uc?export=download&id=ABC123xyz_-00000000", result.DownloadURLsText)
	assert.Equal(t, "ABC123xyz_-00000000", result.DriveFileID)
}

func Test_ImportJSON_SteamAppIDFromURL(t *testing.T) {
	payload := []byte(`{"steam_url":"https://store.steampowered.com/app/1190970/House_Flipper_2/"}`)

	result, err := ImportJSON(payload, &types.GameForm{}, ImportModeCreate)

	assert.NoError(t, err)
	assert.Equal(t, "1190970", result.SteamAppID)
	assert.Equal(t, "https://store.steampowered.com/app/1190970", result.SteamURL)
}

func Test_ImportJSON_NumericAppID(t *testing.T) {
	result, err := ImportJSON([]byte(`{"appid":1190970}`), &types.GameForm{}, ImportModeCreate)

	assert.NoError(t, err)
	assert.Equal(t, "1190970", result.SteamAppID)
}

func Test_ImportJSON_BoolCoercion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"string true", `{"free":"true"}`, true},
		{"string yes", `{"free":"yes"}`, true},
		{"string no", `{"free":"no"}`, false},
		{"number one", `{"free":1}`, true},
		{"number zero", `{"free":0}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ImportJSON([]byte(tt.payload), &types.GameForm{}, ImportModeCreate)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, result.Free)
		})
	}
}
