package board

import (
	"sort"

	"github.com/google/uuid"
)

// Reflow repacks every top-level block into left-to-right rows inside
// innerWidth, walking the collection in its current order. Each block is
// first restored to its preferred size and then constrained to fit one row.
// A category change between groups and non-groups forces a row break, so the
// two kinds never share a row.
//
// Reflow is idempotent: running it twice with the same width yields the same
// positions, because positions feed ordering only through ReorderAndReflow.
func (m *Manager) Reflow(innerWidth float64) {
	if innerWidth < MinCanvasInnerWidth {
		innerWidth = MinCanvasInnerWidth
	}
	rowLimit := CanvasPadding + innerWidth
	maxImageWidth := innerWidth - BlockPadding*2
	if maxImageWidth < 1 {
		maxImageWidth = 1
	}

	for _, b := range m.blocks {
		b.ResetToPreferredSize()
		b.ConstrainToWidth(maxImageWidth)
	}

	cursor := Vec2{CanvasPadding, CanvasPadding}
	rowHeight := 0.0
	havePrev := false
	prevIsGroup := false

	for _, b := range m.blocks {
		if havePrev && prevIsGroup != b.IsGroup && cursor.X > CanvasPadding {
			cursor.X = CanvasPadding
			cursor.Y += rowHeight + AlignSpacing
			rowHeight = 0
		}
		havePrev = true
		prevIsGroup = b.IsGroup

		size := b.OuterSize()
		if cursor.X+size.X > rowLimit {
			cursor.X = CanvasPadding
			cursor.Y += rowHeight + AlignSpacing
			rowHeight = 0
		}

		b.Pos = cursor
		cursor.X += size.X + AlignSpacing
		if size.Y > rowHeight {
			rowHeight = size.Y
		}
	}
}

// ReorderAndReflow re-derives the collection order from current positions and
// then reflows.
//
// With leaderID == uuid.Nil the whole collection is sorted by the layout
// comparator. With a leader, the leader (or, when the leader is chained, the
// whole chained set in its current relative order) keeps its dragged position
// as its ordering key: the rest of the collection is sorted and the moved
// set is spliced in where the leader's position says it belongs. An unknown
// leader leaves the collection untouched.
func (m *Manager) ReorderAndReflow(leaderID uuid.UUID, innerWidth float64) {
	if leaderID == uuid.Nil {
		sort.SliceStable(m.blocks, func(i, j int) bool {
			return m.blocks[i].CompareLayout(m.blocks[j]) < 0
		})
		m.Reflow(innerWidth)
		return
	}

	leader := m.Get(leaderID)
	if leader == nil {
		return
	}
	leaderChained := leader.Chained

	var moved, remaining []*Block
	for _, b := range m.blocks {
		isMoved := b.ID == leaderID
		if leaderChained {
			isMoved = b.Chained
		}
		if isMoved {
			moved = append(moved, b)
		} else {
			remaining = append(remaining, b)
		}
	}

	if len(moved) == 0 {
		m.blocks = remaining
		m.Reflow(innerWidth)
		return
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].CompareLayout(remaining[j]) < 0
	})

	groupBoundary := len(remaining)
	for i, b := range remaining {
		if !b.IsGroup {
			groupBoundary = i
			break
		}
	}

	insertAt := findInsertIndex(remaining, leader.Pos, moved[0].IsGroup, groupBoundary)

	m.blocks = remaining
	for i, b := range moved {
		m.Insert(insertAt+i, b)
	}
	m.Reflow(innerWidth)
}

// findInsertIndex locates where a moved block belongs among the sorted rest,
// staying inside its own category: groups land before groupBoundary,
// non-groups after it.
func findInsertIndex(remaining []*Block, leaderPos Vec2, leaderIsGroup bool, groupBoundary int) int {
	if leaderIsGroup {
		for i, b := range remaining[:groupBoundary] {
			if shouldInsertBefore(leaderPos, b.Pos) {
				return i
			}
		}
		return groupBoundary
	}
	for i, b := range remaining[groupBoundary:] {
		if shouldInsertBefore(leaderPos, b.Pos) {
			return groupBoundary + i
		}
	}
	return len(remaining)
}

// shouldInsertBefore compares by quantized row first, then by X within a row.
func shouldInsertBefore(leaderPos, blockPos Vec2) bool {
	leaderRow := int(leaderPos.Y / RowQuantizeHeight)
	blockRow := int(blockPos.Y / RowQuantizeHeight)
	return leaderRow < blockRow || (leaderRow == blockRow && leaderPos.X < blockPos.X)
}
