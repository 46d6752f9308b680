package session

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/blockboard/blockboard/pkg/board"
)

func buildBoard(t *testing.T) (*board.Manager, *board.Block, *board.Block) {
	t.Helper()
	m := board.NewManager()
	a := board.New("a.png", nil, board.Vec2{X: 100, Y: 100}, false, true)
	b := board.New("b.gif", nil, board.Vec2{X: 200, Y: 100}, true, true)
	m.Push(a)
	m.Push(b)
	m.Reflow(1400)
	return m, a, b
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m, a, b := buildBoard(t)
	b.Counter = 4
	m.ToggleChain(a.ID)
	m.ToggleChain(b.ID)
	m.ClearChainGroup()

	doc := Snapshot(m, 1.5, true)

	// Feed through JSON to cover the wire format too.
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Document
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored := board.NewManager()
	paths := Restore(restored, &decoded)

	if restored.Len() != 2 {
		t.Fatalf("restored %d blocks, want 2", restored.Len())
	}
	ra := restored.Get(a.ID)
	if ra == nil {
		t.Fatal("block a lost its ID")
	}
	if ra.Pos != a.Pos {
		t.Errorf("position %v, want %v", ra.Pos, a.Pos)
	}
	if ra.PreferredImageSize != a.PreferredImageSize {
		t.Errorf("size %v, want %v", ra.PreferredImageSize, a.PreferredImageSize)
	}
	if restored.Get(b.ID).Counter != 4 {
		t.Error("counter not restored")
	}
	if len(restored.RememberedChains()) != 1 {
		t.Errorf("remembered chains = %d, want 1", len(restored.RememberedChains()))
	}

	// Every unique path needs a fresh first-frame decode.
	if len(paths) != 2 {
		t.Errorf("paths = %v, want both images", paths)
	}
	for _, blk := range restored.Blocks() {
		if len(blk.Anim.Frames) != 0 || blk.FullSequence {
			t.Error("restored blocks should be skeletons")
		}
	}
	if decoded.Zoom != 1.5 || !decoded.ShowFileNames {
		t.Error("viewport settings lost")
	}
}

func TestSnapshotRestoreGroups(t *testing.T) {
	m, a, b := buildBoard(t)
	m.ToggleChain(a.ID)
	m.ToggleChain(b.ID)
	gid := m.Box()
	m.Get(gid).Counter = 2

	doc := Snapshot(m, 1, false)
	restored := board.NewManager()
	paths := Restore(restored, doc)

	g := restored.Get(gid)
	if g == nil || !g.IsGroup {
		t.Fatal("group lost")
	}
	if len(g.Children) != 2 {
		t.Fatalf("group has %d children, want 2", len(g.Children))
	}
	if g.Children[0].ID != a.ID || g.Children[1].ID != b.ID {
		t.Error("child order lost")
	}
	if g.GroupName != "Group of 2" {
		t.Errorf("group name = %q", g.GroupName)
	}
	if len(paths) != 2 {
		t.Errorf("child paths should still be requested, got %v", paths)
	}
}

func TestRestoreDropsPathlessBlocks(t *testing.T) {
	doc := &Document{
		Blocks: []BlockRecord{
			{ID: uuid.New(), Path: "", Size: [2]float64{50, 50}},
			{ID: uuid.New(), Path: "ok.png", Size: [2]float64{50, 50}},
		},
	}
	m := board.NewManager()
	paths := Restore(m, doc)

	if m.Len() != 1 {
		t.Errorf("restored %d blocks, want 1", m.Len())
	}
	if len(paths) != 1 || paths[0] != "ok.png" {
		t.Errorf("paths = %v", paths)
	}
}

func TestRestoreDedupesPaths(t *testing.T) {
	doc := &Document{
		Blocks: []BlockRecord{
			{ID: uuid.New(), Path: "same.png", Size: [2]float64{50, 50}},
			{ID: uuid.New(), Path: "same.png", Size: [2]float64{70, 70}},
		},
	}
	m := board.NewManager()
	paths := Restore(m, doc)

	if len(paths) != 1 {
		t.Errorf("duplicate paths should be requested once, got %v", paths)
	}
	if m.Len() != 2 {
		t.Error("both blocks should exist despite sharing a path")
	}
}

func TestRestoreReboxSlot(t *testing.T) {
	boxed := uuid.New()
	unboxed := []uuid.UUID{uuid.New(), uuid.New()}
	doc := &Document{LastBoxedID: &boxed, LastUnboxedIDs: unboxed}

	m := board.NewManager()
	Restore(m, doc)

	if m.LastBoxedID() != boxed {
		t.Error("last boxed ID lost")
	}
	if len(m.LastUnboxedIDs()) != 2 {
		t.Error("last unboxed IDs lost")
	}
}

func TestRestoreSkipsMalformedChainIDs(t *testing.T) {
	good := uuid.New()
	doc := &Document{
		RememberedChains: [][]string{{good.String(), "not-a-uuid", uuid.New().String()}},
	}
	m := board.NewManager()
	Restore(m, doc)

	chains := m.RememberedChains()
	if len(chains) != 1 {
		t.Fatalf("chains = %d, want 1", len(chains))
	}
	if len(chains[0]) != 2 {
		t.Errorf("chain has %d members, want the 2 parseable ones", len(chains[0]))
	}
}

func TestNormalizeZoom(t *testing.T) {
	if NormalizeZoom(0) != DefaultZoom {
		t.Error("zero zoom should normalize to the default")
	}
	if NormalizeZoom(-2) != DefaultZoom {
		t.Error("negative zoom should normalize to the default")
	}
	if NormalizeZoom(2.5) != 2.5 {
		t.Error("valid zoom should pass through")
	}
}
