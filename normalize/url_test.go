package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_URL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: "",
		},
		{
			name: "https passes through",
			raw:  "https://example.com/a",
			want: "https://example.com/a",
		},
		{
			name: "http passes through",
			raw:  "http://example.com",
			want: "http://example.com",
		},
		{
			name: "rooted path passes through",
			raw:  "/uploads/cover.png",
			want: "/uploads/cover.png",
		},
		{
			name: "bare host gets scheme",
			raw:  "example.com",
			want: "https://example.com",
		},
		{
			name: "bare host with path gets scheme",
			raw:  "cdn.example.com/img/cover.png",
			want: "https://cdn.example.com/img/cover.png",
		},
		{
			name: "garbage passes through",
			raw:  "not a url",
			want: "not a url",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.raw))
		})
	}
}

func Test_MediaPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "data uri passes through",
			raw:  "data:image/png;base64,AAAA",
			want: "data:image/png;base64,AAAA",
		},
		{
			name: "blob uri passes through",
			raw:  "blob:https://panel.example.com/123",
			want: "blob:https://panel.example.com/123",
		},
		{
			name: "protocol relative gets https",
			raw:  "//cdn.example.com/cover.png",
			want: "https://cdn.example.com/cover.png",
		},
		{
			name: "uploads path gets single leading slash",
			raw:  "../../uploads/covers/a.png",
			want: "/uploads/covers/a.png",
		},
		{
			name: "storage path case-insensitive",
			raw:  "./Storage/img/a.webp",
			want: "/Storage/img/a.webp",
		},
		{
			name: "image extension gets leading slash",
			raw:  "img/cover.jpeg",
			want: "/img/cover.jpeg",
		},
		{
			name: "other relative path stays stripped",
			raw:  "../docs/readme",
			want: "docs/readme",
		},
		{
			name: "collapses repeated leading slashes through uploads",
			raw:  "///uploads/a.png",
			want: "/uploads/a.png",
		},
		{
			name: "bare host with image path gains scheme",
			raw:  "cdn.example.com/a.png",
			want: "https://cdn.example.com/a.png",
		},
		{
			name: "bare filename stays a rooted path",
			raw:  "a.png",
			want: "/a.png",
		},
		{
			name: "explicitly relative host-like path stays a path",
			raw:  "../cdn.example.com/a.png",
			want: "/cdn.example.com/a.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaPath(tt.raw))
		})
	}
}

func Test_ImgurURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback string
		want     string
	}{
		{
			name:     "page link becomes direct image",
			raw:      "https://imgur.com/abc123",
			fallback: ".png",
			want:     "https://i.imgur.com/abc123.png",
		},
		{
			name:     "gallery prefix stripped",
			raw:      "https://imgur.com/gallery/abc123",
			fallback: ".png",
			want:     "https://i.imgur.com/abc123.png",
		},
		{
			name:     "album prefix not touched",
			raw:      "https://imgur.com/a/abc123",
			fallback: ".png",
			want:     "https://imgur.com/a/abc123",
		},
		{
			name:     "existing extension wins over fallback",
			raw:      "https://m.imgur.com/abc123.gif",
			fallback: ".png",
			want:     "https://i.imgur.com/abc123.gif",
		},
		{
			name:     "direct host normalized",
			raw:      "https://i.imgur.com/abc123.png",
			fallback: ".png",
			want:     "https://i.imgur.com/abc123.png",
		},
		{
			name:     "query preserved",
			raw:      "https://imgur.com/abc123?x=1",
			fallback: ".png",
			want:     "https://i.imgur.com/abc123.png?x=1",
		},
		{
			name:     "fallback without dot is normalized",
			raw:      "https://imgur.com/abc123",
			fallback: "mp4",
			want:     "https://i.imgur.com/abc123.mp4",
		},
		{
			name:     "other host untouched",
			raw:      "https://example.com/abc123",
			fallback: ".png",
			want:     "https://example.com/abc123",
		},
		{
			name:     "non-alphanumeric id untouched",
			raw:      "https://imgur.com/ab%c1_23",
			fallback: ".png",
			want:     "https://imgur.com/ab%c1_23",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImgurURL(tt.raw, tt.fallback))
		})
	}
}

func Test_SanitizeMediaURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "null sentinel",
			raw:  "null",
			want: "",
		},
		{
			name: "undefined sentinel case-insensitive",
			raw:  "UNDEFINED",
			want: "",
		},
		{
			name: "n/a sentinel",
			raw:  "N/A",
			want: "",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
		{
			name: "uploads path normalized and rooted",
			raw:  "../uploads/a.png",
			want: "/uploads/a.png",
		},
		{
			name: "bare host gains scheme",
			raw:  "cdn.example.com/a.png",
			want: "https://cdn.example.com/a.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMediaURL(tt.raw))
		})
	}
}

func Test_FieldURL(t *testing.T) {
	assert.Equal(t, "https://i.imgur.com/abc123.png", FieldURL("imageUrl", "imgur.com/abc123"))
	assert.Equal(t, "https://i.imgur.com/abc123.png", FieldURL("cardImageUrl", "https://imgur.com/abc123"))
	assert.Equal(t, "https://i.imgur.com/abc123.mp4", FieldURL("trailerUrl", "https://imgur.com/abc123"))
	assert.Equal(t, "https://example.com/file", FieldURL("downloadUrl", "example.com/file"))
}
