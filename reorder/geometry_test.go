package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ResolvePlacement(t *testing.T) {
	box := Rect{Left: 0, Top: 0, Width: 100, Height: 100}

	tests := []struct {
		name         string
		pointerX     float64
		pointerY     float64
		draggedIndex int
		targetIndex  int
		want         Placement
	}{
		{"left edge", 10, 50, 0, 3, PlaceBefore},
		{"right edge", 90, 50, 0, 3, PlaceAfter},
		{"exactly at before threshold", 43, 50, 0, 3, PlaceBefore},
		{"exactly at after threshold", 57, 50, 0, 3, PlaceAfter},
		{"dead zone target after dragged", 50, 50, 1, 3, PlaceAfter},
		{"dead zone target before dragged", 50, 50, 3, 1, PlaceBefore},
		{"dead zone same index", 50, 50, 2, 2, PlaceBefore},
		{"vertical axis dominates", 48, 5, 0, 3, PlaceBefore},
		{"vertical axis dominates downward", 48, 95, 3, 1, PlaceAfter},
		{"pointer outside box clamps", -20, 50, 0, 3, PlaceBefore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePlacement(tt.pointerX, tt.pointerY, box, tt.draggedIndex, tt.targetIndex)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_ResolvePlacement_DegenerateBox(t *testing.T) {
	box := Rect{Left: 0, Top: 0, Width: 0, Height: 0}

	// both ratios collapse to the dead zone, relative index decides
	assert.Equal(t, PlaceBefore, ResolvePlacement(0, 0, box, 3, 1))
	assert.Equal(t, PlaceAfter, ResolvePlacement(0, 0, box, 1, 3))
}
