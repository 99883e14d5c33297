package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "commas",
			raw:  "Action, Adventure, RPG",
			want: []string{"Action", "Adventure", "RPG"},
		},
		{
			name: "mixed separators",
			raw:  "Action; Adventure\nRPG",
			want: []string{"Action", "Adventure", "RPG"},
		},
		{
			name: "empties dropped",
			raw:  ",, Action ,\n\n;",
			want: []string{"Action"},
		},
		{
			name: "empty input",
			raw:  "",
			want: []string{},
		},
		{
			name: "windows newlines",
			raw:  "a\r\nb",
			want: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.raw))
		})
	}
}

func Test_UniqueList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  []string
	}{
		{
			name:  "case-insensitive dedup keeps first casing",
			items: []string{"Tag", "tag", " Tag "},
			want:  []string{"Tag"},
		},
		{
			name:  "order preserved",
			items: []string{"b", "a", "B", "c"},
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "empties dropped",
			items: []string{"", "  ", "a"},
			want:  []string{"a"},
		},
		{
			name:  "nil input",
			items: nil,
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueList(tt.items))
		})
	}
}
