package board

import (
	"testing"

	"github.com/google/uuid"
)

func testBlock(w, h float64) *Block {
	return New("img.png", nil, Vec2{w, h}, false, true)
}

func TestReflowRowPacking(t *testing.T) {
	m := NewManager()
	for i := 0; i < 3; i++ {
		m.Push(testBlock(100, 100))
	}

	// 100x100 image -> 108 outer. Row limit is 32+300=332, so two fit per row.
	m.Reflow(300)

	b := m.Blocks()
	if b[0].Pos != (Vec2{32, 32}) {
		t.Errorf("first block at %v", b[0].Pos)
	}
	if b[1].Pos != (Vec2{164, 32}) {
		t.Errorf("second block at %v", b[1].Pos)
	}
	if b[2].Pos != (Vec2{32, 164}) {
		t.Errorf("third block should wrap to next row, got %v", b[2].Pos)
	}
}

func TestReflowIdempotent(t *testing.T) {
	m := NewManager()
	m.Push(testBlock(200, 100))
	m.Push(testBlock(80, 120))
	m.Push(testBlock(150, 90))

	m.Reflow(400)
	first := make([]Vec2, m.Len())
	for i, b := range m.Blocks() {
		first[i] = b.Pos
	}

	m.Reflow(400)
	for i, b := range m.Blocks() {
		if b.Pos != first[i] {
			t.Errorf("block %d moved from %v to %v on second reflow", i, first[i], b.Pos)
		}
	}
}

func TestReflowConstrainsWideBlocks(t *testing.T) {
	m := NewManager()
	m.Push(testBlock(500, 250))

	m.Reflow(200)

	b := m.Blocks()[0]
	if b.ImageSize.X != 192 {
		t.Errorf("image width should be constrained to 192, got %v", b.ImageSize.X)
	}
	if b.ImageSize.Y != 96 {
		t.Errorf("height should follow aspect ratio, got %v", b.ImageSize.Y)
	}
	// Preferred size survives for the next, wider reflow.
	if b.PreferredImageSize != (Vec2{500, 250}) {
		t.Errorf("preferred size clobbered: %v", b.PreferredImageSize)
	}

	m.Reflow(1400)
	if b.ImageSize != (Vec2{500, 250}) {
		t.Errorf("block should return to preferred size, got %v", b.ImageSize)
	}
}

func TestReflowNeverExceedsRowLimit(t *testing.T) {
	m := NewManager()
	sizes := []Vec2{{300, 100}, {120, 80}, {90, 200}, {400, 100}, {60, 60}}
	for _, s := range sizes {
		m.Push(testBlock(s.X, s.Y))
	}

	inner := 350.0
	m.Reflow(inner)

	for i, b := range m.Blocks() {
		if b.Pos.X+b.OuterSize().X > CanvasPadding+inner+1e-9 {
			t.Errorf("block %d overflows the row: x=%v w=%v", i, b.Pos.X, b.OuterSize().X)
		}
	}
}

func TestReflowCategoryRowBreak(t *testing.T) {
	m := NewManager()
	g := NewGroup(nil)
	g.UpdateGroupName()
	m.Push(g)
	m.Push(testBlock(100, 100))

	// Both would fit in one row, but a group and a non-group never share one.
	m.Reflow(1400)

	blocks := m.Blocks()
	if blocks[0].Pos.Y == blocks[1].Pos.Y {
		t.Error("group and non-group should not share a row")
	}
	if blocks[1].Pos.X != CanvasPadding {
		t.Errorf("non-group should start a fresh row at x=%v, got %v", CanvasPadding, blocks[1].Pos.X)
	}
}

func TestReflowClampsTinyWidth(t *testing.T) {
	m := NewManager()
	m.Push(testBlock(100, 100))

	m.Reflow(5)

	b := m.Blocks()[0]
	if b.ImageSize.X < MinBlockSize {
		t.Errorf("width fell below the canvas minimum: %v", b.ImageSize.X)
	}
}

func TestReorderAndReflowSortsAll(t *testing.T) {
	m := NewManager()
	a := testBlock(100, 100)
	b := testBlock(100, 100)
	c := testBlock(100, 100)
	m.Push(a)
	m.Push(b)
	m.Push(c)

	// Scatter positions so sorted order is c, a, b.
	c.Pos = Vec2{10, 10}
	a.Pos = Vec2{200, 10}
	b.Pos = Vec2{10, 300}

	m.ReorderAndReflow(uuid.Nil, 1400)

	got := []uuid.UUID{m.Blocks()[0].ID, m.Blocks()[1].ID, m.Blocks()[2].ID}
	want := []uuid.UUID{c.ID, a.ID, b.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReorderAndReflowLeader(t *testing.T) {
	m := NewManager()
	a := testBlock(100, 100)
	b := testBlock(100, 100)
	c := testBlock(100, 100)
	m.Push(a)
	m.Push(b)
	m.Push(c)
	m.Reflow(1400)

	// Drag c to the left edge of the first row.
	c.Pos = Vec2{5, 40}
	m.ReorderAndReflow(c.ID, 1400)

	if m.Blocks()[0].ID != c.ID {
		t.Errorf("dragged block should lead the row, got %v first", m.Blocks()[0].ID)
	}
	if m.Blocks()[1].ID != a.ID || m.Blocks()[2].ID != b.ID {
		t.Error("remaining blocks should keep their relative order")
	}
}

func TestReorderAndReflowChainedLeaderMovesSet(t *testing.T) {
	m := NewManager()
	a := testBlock(100, 100)
	b := testBlock(100, 100)
	c := testBlock(100, 100)
	d := testBlock(100, 100)
	for _, blk := range []*Block{a, b, c, d} {
		m.Push(blk)
	}
	m.Reflow(1400)

	m.ToggleChain(c.ID)
	m.ToggleChain(d.ID)

	// Drag c (chained) to the front; d must travel with it.
	c.Pos = Vec2{0, 0}
	m.ReorderAndReflow(c.ID, 1400)

	got := []uuid.UUID{m.Blocks()[0].ID, m.Blocks()[1].ID, m.Blocks()[2].ID, m.Blocks()[3].ID}
	want := []uuid.UUID{c.ID, d.ID, a.ID, b.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReorderAndReflowUnknownLeader(t *testing.T) {
	m := NewManager()
	a := testBlock(100, 100)
	m.Push(a)
	a.Pos = Vec2{500, 500}

	m.ReorderAndReflow(uuid.New(), 1400)

	if a.Pos != (Vec2{500, 500}) {
		t.Error("unknown leader should leave the collection untouched")
	}
}

func TestShouldInsertBefore(t *testing.T) {
	tests := []struct {
		name   string
		leader Vec2
		block  Vec2
		want   bool
	}{
		{"same row, leader left", Vec2{100, 50}, Vec2{200, 50}, true},
		{"same row, leader right", Vec2{200, 50}, Vec2{100, 50}, false},
		{"leader above", Vec2{100, 50}, Vec2{100, 250}, true},
		{"leader below", Vec2{100, 250}, Vec2{100, 50}, false},
		{"same quantized row despite drift", Vec2{100, 10}, Vec2{200, 90}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldInsertBefore(tt.leader, tt.block); got != tt.want {
				t.Errorf("shouldInsertBefore(%v, %v) = %v, want %v", tt.leader, tt.block, got, tt.want)
			}
		})
	}
}
