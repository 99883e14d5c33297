package reorder

// Placement says on which side of the hovered card the dragged card lands.
type Placement int

const (
	PlaceBefore Placement = iota
	PlaceAfter
)

func (p Placement) String() string {
	if p == PlaceBefore {
		return "before"
	}
	return "after"
}

// Rect is a card's bounding box in the same coordinate space as the pointer.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

const (
	beforeThreshold = 0.43
	afterThreshold  = 0.57
)

// ResolvePlacement decides before/after from the pointer position relative to
// the hovered card. The dominant axis is the one where the pointer sits
// further from the card's center. A ratio at or below 0.43 along that axis
// places the dragged card before the hovered one, at or above 0.57 after.
// The band in between is a dead zone that resolves by relative index so the
// decision does not flicker while the pointer hovers near the midpoint.
func ResolvePlacement(pointerX, pointerY float64, box Rect, draggedIndex, targetIndex int) Placement {
	ratioX := axisRatio(pointerX, box.Left, box.Width)
	ratioY := axisRatio(pointerY, box.Top, box.Height)

	ratio := ratioX
	if abs(ratioY-0.5) > abs(ratioX-0.5) {
		ratio = ratioY
	}

	switch {
	case ratio <= beforeThreshold:
		return PlaceBefore
	case ratio >= afterThreshold:
		return PlaceAfter
	case targetIndex <= draggedIndex:
		return PlaceBefore
	default:
		return PlaceAfter
	}
}

func axisRatio(pointer, origin, size float64) float64 {
	if size <= 0 {
		return 0.5
	}
	ratio := (pointer - origin) / size
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
