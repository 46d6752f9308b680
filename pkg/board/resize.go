package board

import (
	"math"

	"github.com/google/uuid"
)

// ResizeHandle names the four corner handles of a block.
type ResizeHandle int

const (
	HandleTopLeft ResizeHandle = iota
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

// ResizeState captures the start of a resize gesture so every subsequent
// pointer sample can be resolved against the original geometry instead of
// accumulating incremental error.
type ResizeState struct {
	ID           uuid.UUID
	Handle       ResizeHandle
	InitialMouse Vec2
	InitialRect  Rect
}

// ApplyResize resizes the block in state to follow the mouse, preserving the
// block's aspect ratio and keeping it centered on its original center. The
// dominant pointer axis wins: a mostly-horizontal motion derives the size
// from X, a mostly-vertical one from Y. The resulting width never drops
// below MinBlockSize, and degenerate math falls back to MinBlockSize.
//
// When the target block is chained alongside others, every other chained
// block is resized to match the new height, each keeping its own aspect
// ratio and center.
func (m *Manager) ApplyResize(state ResizeState, mouse Vec2, zoom float64) {
	b := m.Get(state.ID)
	if b == nil {
		return
	}

	delta := mouse.Sub(state.InitialMouse).Scale(1 / zoom)
	originalCenter := state.InitialRect.Center()

	initialImageW := state.InitialRect.Width() - BlockPadding*2
	initialImageH := state.InitialRect.Height() - BlockPadding*2

	xSign, ySign := 1.0, 1.0
	if state.Handle == HandleTopLeft || state.Handle == HandleBottomLeft {
		xSign = -1
	}
	if state.Handle == HandleTopLeft || state.Handle == HandleTopRight {
		ySign = -1
	}

	targetOffsetX := initialImageW/2*xSign + delta.X
	widthFromX := math.Max(2*math.Abs(targetOffsetX), MinBlockSize)

	targetOffsetY := initialImageH/2*ySign + delta.Y
	heightFromY := 2 * math.Abs(targetOffsetY)
	widthFromY := math.Max(heightFromY*b.AspectRatio, MinBlockSize)

	newWidth := widthFromY
	if math.Abs(delta.X) >= math.Abs(delta.Y) {
		newWidth = widthFromX
	}
	if math.IsNaN(newWidth) || math.IsInf(newWidth, 0) {
		newWidth = MinBlockSize
	}
	if newWidth < MinBlockSize {
		newWidth = MinBlockSize
	}

	newSize := Vec2{newWidth, newWidth / b.AspectRatio}
	resizeAroundCenter(b, originalCenter, newSize)

	if b.Chained && m.ChainedCount() > 1 {
		for _, other := range m.blocks {
			if !other.Chained || other.ID == b.ID {
				continue
			}
			w := math.Max(newSize.Y*other.AspectRatio, MinBlockSize)
			resizeAroundCenter(other, other.Rect().Center(), Vec2{w, newSize.Y})
		}
	}
}

func resizeAroundCenter(b *Block, center, imageSize Vec2) {
	outer := Vec2{imageSize.X + BlockPadding*2, imageSize.Y + BlockPadding*2}
	b.Pos = RectFromCenter(center, outer).Min
	b.SetPreferredSize(imageSize)
}

// =============================================================================
// Dragging
// =============================================================================

// StartDrag begins a drag gesture on the block under pointer, recording where
// inside the block the pointer grabbed it.
func (m *Manager) StartDrag(id uuid.UUID, pointer Vec2) {
	b := m.Get(id)
	if b == nil {
		return
	}
	b.DragOffset = pointer.Sub(b.Pos)
	b.Dragging = true
}

// DragTo moves a dragging block so its grab point follows pointer. When the
// block is chained, every other chained block shifts by the same delta so
// the chain moves as a rigid set.
func (m *Manager) DragTo(id uuid.UUID, pointer Vec2) {
	b := m.Get(id)
	if b == nil || !b.Dragging {
		return
	}
	newPos := pointer.Sub(b.DragOffset)
	delta := newPos.Sub(b.Pos)
	b.Pos = newPos

	if b.Chained {
		for _, other := range m.blocks {
			if other.Chained && other.ID != id {
				other.Pos = other.Pos.Add(delta)
			}
		}
	}
}

// EndDrag finishes a drag gesture. If the block was dropped on a group it is
// absorbed into that group (dropInto reports true); groups themselves are
// never absorbed. Otherwise the caller should reorder with this block as
// leader.
func (m *Manager) EndDrag(id uuid.UUID, pointer Vec2) (dropInto bool) {
	b := m.Get(id)
	if b == nil {
		return false
	}
	b.Dragging = false

	if b.IsGroup {
		return false
	}
	if gi := m.FindGroupAt(pointer, id); gi >= 0 {
		m.DropIntoGroup(id, m.blocks[gi].ID)
		return true
	}
	return false
}
