package reorder

import (
	"context"
	"fmt"
	"sync"

	"github.com/nxlauncher/launcher-admin-system/constants"
	"github.com/nxlauncher/launcher-admin-system/types"
)

// Persister sends a full ordered id list to the server and returns the
// order the server actually committed.
type Persister interface {
	PersistOrder(ctx context.Context, order []string) (*types.ReorderResult, error)
}

// Engine is the drag-and-drop session state machine over the visible catalog
// order. It is either idle or holds exactly one drag session; every dragover
// splices the order in place so the caller can render it directly, and the
// pre-drag snapshot is kept for rollback until the drop is confirmed.
type Engine struct {
	mu sync.Mutex

	persister Persister

	order    []string
	snapshot []string

	draggedID     string
	dragging      bool
	persisting    bool
	editable      bool
	filterActive  bool
	lastSignature string
}

func NewEngine(persister Persister) *Engine {
	return &Engine{
		persister: persister,
		order:     []string{},
	}
}

// SetOrder replaces the local order wholesale, e.g. after a catalog load.
// A drag session in progress is canceled first.
func (e *Engine) SetOrder(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	e.order = append([]string{}, ids...)
}

// Order returns a copy of the current visible order.
func (e *Engine) Order() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.order...)
}

// SetEditable flips the caller's edit permission. Losing it mid-drag cancels
// the session.
func (e *Engine) SetEditable(editable bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editable = editable
	if !editable {
		e.cancelLocked()
	}
}

// SetFilterActive marks a text search filter as active. Filtered indices do
// not correspond to catalog positions, so reordering is disabled and any
// in-progress drag is canceled.
func (e *Engine) SetFilterActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filterActive = active
	if active {
		e.cancelLocked()
	}
}

// Enabled reports whether a new drag may start.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabledLocked()
}

func (e *Engine) enabledLocked() bool {
	return e.editable && !e.filterActive && !e.persisting
}

// Dragging reports whether a drag session is in progress.
func (e *Engine) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragging
}

// DragStart opens a drag session for the given card. It is rejected when
// reordering is disabled or the card is not in the visible order.
func (e *Engine) DragStart(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabledLocked() || e.dragging {
		return false
	}
	if indexOf(e.order, id) < 0 {
		return false
	}
	e.dragging = true
	e.draggedID = id
	e.snapshot = append([]string{}, e.order...)
	e.lastSignature = ""
	return true
}

// DragOver processes a pointer move over another card, splicing the dragged
// card into its new position. Returns true when the visible order changed,
// so the caller only re-renders on actual moves.
func (e *Engine) DragOver(targetID string, pointerX, pointerY float64, box Rect) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.dragging || targetID == e.draggedID {
		return false
	}

	draggedIdx := indexOf(e.order, e.draggedID)
	targetIdx := indexOf(e.order, targetID)
	if draggedIdx < 0 {
		// the dragged card vanished from the visible set, e.g. a
		// concurrent deletion
		e.cancelLocked()
		return true
	}
	if targetIdx < 0 {
		return false
	}

	placement := ResolvePlacement(pointerX, pointerY, box, draggedIdx, targetIdx)

	signature := fmt.Sprintf("%s|%s|%s|%d", e.draggedID, targetID, placement, targetIdx)
	if signature == e.lastSignature {
		return false
	}
	e.lastSignature = signature

	return e.spliceLocked(draggedIdx, targetIdx, placement)
}

// DragOverEmpty processes a pointer move over empty grid space, which moves
// the dragged card to the end of the list.
func (e *Engine) DragOverEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.dragging {
		return false
	}
	draggedIdx := indexOf(e.order, e.draggedID)
	if draggedIdx < 0 {
		e.cancelLocked()
		return true
	}
	if draggedIdx == len(e.order)-1 {
		return false
	}
	e.lastSignature = ""
	return e.spliceLocked(draggedIdx, len(e.order)-1, PlaceAfter)
}

// spliceLocked removes the dragged card and reinserts it relative to the
// target index. Indices are positions in the current order, pre-removal.
func (e *Engine) spliceLocked(draggedIdx, targetIdx int, placement Placement) bool {
	id := e.order[draggedIdx]
	rest := append(append([]string{}, e.order[:draggedIdx]...), e.order[draggedIdx+1:]...)

	insertAt := targetIdx
	if targetIdx > draggedIdx {
		insertAt--
	}
	if placement == PlaceAfter {
		insertAt++
	}
	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(rest) {
		insertAt = len(rest)
	}

	next := append(append(append([]string{}, rest[:insertAt]...), id), rest[insertAt:]...)
	if equalOrder(next, e.order) {
		return false
	}
	e.order = next
	return true
}

// Drop closes the drag session and persists the final order. On success the
// local order is replaced with the server-confirmed one; on failure it rolls
// back to the pre-drag snapshot and returns the error.
func (e *Engine) Drop(ctx context.Context) (*types.ReorderResult, error) {
	e.mu.Lock()
	if !e.dragging {
		e.mu.Unlock()
		return nil, fmt.Errorf("no drag in progress")
	}

	final := append([]string{}, e.order...)
	snapshot := e.snapshot
	e.dragging = false
	e.draggedID = ""
	e.snapshot = nil
	e.lastSignature = ""

	if equalOrder(final, snapshot) {
		e.mu.Unlock()
		return nil, nil
	}

	e.persisting = true
	e.mu.Unlock()

	result, err := e.persister.PersistOrder(ctx, final)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.persisting = false
	if err != nil {
		e.order = snapshot
		return nil, err
	}
	// the server order is authoritative, it may differ from what was sent
	e.order = append([]string{}, result.Order...)
	return result, nil
}

// Cancel aborts the drag session and restores the pre-drag order.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
}

func (e *Engine) cancelLocked() {
	if !e.dragging {
		return
	}
	e.order = e.snapshot
	e.snapshot = nil
	e.dragging = false
	e.draggedID = ""
	e.lastSignature = ""
}

// RemoveID drops a card from the visible order, canceling the drag first if
// it is the card being dragged.
func (e *Engine) RemoveID(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dragging && id == e.draggedID {
		e.cancelLocked()
	}
	if idx := indexOf(e.order, id); idx >= 0 {
		e.order = append(e.order[:idx], e.order[idx+1:]...)
	}
	if e.dragging {
		e.snapshot = removeFrom(e.snapshot, id)
	}
}

// SortOrderFor assigns the persisted sort order for a list position.
func SortOrderFor(index int) int64 {
	return int64(index+1) * constants.SortOrderStep
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func equalOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func removeFrom(ids []string, id string) []string {
	if idx := indexOf(ids, id); idx >= 0 {
		return append(append([]string{}, ids[:idx]...), ids[idx+1:]...)
	}
	return ids
}
