package reorder

import (
	"context"
	"fmt"
	"testing"

	"github.com/nxlauncher/launcher-admin-system/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) PersistOrder(ctx context.Context, order []string) (*types.ReorderResult, error) {
	args := m.Called(ctx, order)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*types.ReorderResult), args.Error(1)
}

func newTestEngine(ids ...string) (*Engine, *mockPersister) {
	p := &mockPersister{}
	e := NewEngine(p)
	e.SetEditable(true)
	e.SetOrder(ids)
	return e, p
}

func serverResult(order []string) *types.ReorderResult {
	return &types.ReorderResult{UpdatedCount: int64(len(order)), Order: order}
}

func Test_Engine_DragToFront(t *testing.T) {
	e, p := newTestEngine("a", "b", "c", "d", "e")

	assert.True(t, e.DragStart("d"))
	moved := e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})
	assert.True(t, moved)
	assert.Equal(t, []string{"d", "a", "b", "c", "e"}, e.Order())

	want := []string{"d", "a", "b", "c", "e"}
	p.On("PersistOrder", mock.Anything, want).Return(serverResult(want), nil)

	result, err := e.Drop(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, want, result.Order)
	assert.Equal(t, want, e.Order())
	p.AssertExpectations(t)
}

func Test_Engine_SortOrdersAfterMove(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c", "d", "e")

	assert.True(t, e.DragStart("d"))
	e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})

	orders := make([]int64, 0, 5)
	for i := range e.Order() {
		orders = append(orders, SortOrderFor(i))
	}
	assert.Equal(t, []int64{10, 20, 30, 40, 50}, orders)
}

func Test_Engine_RollbackOnPersistFailure(t *testing.T) {
	e, p := newTestEngine("a", "b", "c", "d", "e")
	before := e.Order()

	assert.True(t, e.DragStart("d"))
	e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})
	assert.NotEqual(t, before, e.Order())

	p.On("PersistOrder", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("persist failed"))

	result, err := e.Drop(context.Background())
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, before, e.Order())
}

func Test_Engine_ServerOrderIsAuthoritative(t *testing.T) {
	e, p := newTestEngine("a", "b", "c")

	assert.True(t, e.DragStart("c"))
	e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})

	// the server dropped a record the panel did not know about
	p.On("PersistOrder", mock.Anything, mock.Anything).Return(serverResult([]string{"c", "a"}), nil)

	_, err := e.Drop(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, e.Order())
}

func Test_Engine_DropWithoutMovePersistsNothing(t *testing.T) {
	e, p := newTestEngine("a", "b", "c")

	assert.True(t, e.DragStart("b"))

	result, err := e.Drop(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, result)
	p.AssertNotCalled(t, "PersistOrder", mock.Anything, mock.Anything)
}

func Test_Engine_CancelRestoresSnapshot(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c", "d", "e")
	before := e.Order()

	assert.True(t, e.DragStart("e"))
	e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})
	e.DragOver("c", 90, 50, Rect{Width: 100, Height: 100})
	assert.NotEqual(t, before, e.Order())

	e.Cancel()
	assert.Equal(t, before, e.Order())
	assert.False(t, e.Dragging())
}

func Test_Engine_DragOverEmptyMovesToEnd(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c", "d")

	assert.True(t, e.DragStart("b"))
	assert.True(t, e.DragOverEmpty())
	assert.Equal(t, []string{"a", "c", "d", "b"}, e.Order())

	// already at the end, no change
	assert.False(t, e.DragOverEmpty())
}

func Test_Engine_SignatureDedup(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c")

	assert.True(t, e.DragStart("c"))
	assert.True(t, e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100}))
	// identical pointer decision, no re-splice
	assert.False(t, e.DragOver("a", 12, 50, Rect{Width: 100, Height: 100}))
}

func Test_Engine_DisabledUnderFilter(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c")

	e.SetFilterActive(true)
	assert.False(t, e.Enabled())
	assert.False(t, e.DragStart("a"))

	e.SetFilterActive(false)
	assert.True(t, e.DragStart("a"))
}

func Test_Engine_FilterMidDragCancels(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c")
	before := e.Order()

	assert.True(t, e.DragStart("c"))
	e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})

	e.SetFilterActive(true)
	assert.False(t, e.Dragging())
	assert.Equal(t, before, e.Order())
}

func Test_Engine_PermissionLossMidDragCancels(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c")
	before := e.Order()

	assert.True(t, e.DragStart("c"))
	e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})

	e.SetEditable(false)
	assert.False(t, e.Dragging())
	assert.Equal(t, before, e.Order())
}

func Test_Engine_DraggedRecordDeletedMidDrag(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c")

	assert.True(t, e.DragStart("c"))
	e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})

	e.RemoveID("c")
	assert.False(t, e.Dragging())
	assert.Equal(t, []string{"a", "b"}, e.Order())
}

func Test_Engine_OtherRecordDeletedMidDrag(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c", "d")

	assert.True(t, e.DragStart("d"))
	e.DragOver("a", 10, 50, Rect{Width: 100, Height: 100})
	assert.Equal(t, []string{"d", "a", "b", "c"}, e.Order())

	e.RemoveID("b")
	assert.True(t, e.Dragging())
	assert.Equal(t, []string{"d", "a", "c"}, e.Order())

	e.Cancel()
	assert.Equal(t, []string{"a", "c", "d"}, e.Order())
}

func Test_Engine_DragStartRejectedForUnknownID(t *testing.T) {
	e, _ := newTestEngine("a", "b")
	assert.False(t, e.DragStart("nope"))
}

func Test_Engine_SecondDragStartRejected(t *testing.T) {
	e, _ := newTestEngine("a", "b")
	assert.True(t, e.DragStart("a"))
	assert.False(t, e.DragStart("b"))
}
