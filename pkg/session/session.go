// Package session persists board documents.
//
// A Document is the JSON snapshot of everything a board needs to come back:
// block geometry, grouping, chain state, the remembered chains, the rebox
// slot and viewport settings. Pixel data is deliberately absent; blocks are
// restored as skeletons and re-decoded from their source paths.
//
// Backends:
//   - file: one JSON file per named board, for the CLI
package session

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/blockboard/blockboard/pkg/board"
)

// Sentinel errors for document operations.
var (
	// ErrNotFound is returned when a named board does not exist.
	ErrNotFound = errors.New("board not found")

	// ErrInvalidName is returned for board names unusable as file names.
	ErrInvalidName = errors.New("invalid board name")
)

// DefaultZoom is applied when a document predates the zoom field.
const DefaultZoom = 1.0

// BlockRecord is the serialized form of one block, including group children.
type BlockRecord struct {
	ID               uuid.UUID     `json:"id"`
	Position         [2]float64    `json:"position"`
	Size             [2]float64    `json:"size"`
	Path             string        `json:"path"`
	Chained          bool          `json:"chained"`
	AnimationEnabled bool          `json:"animation_enabled"`
	Counter          int           `json:"counter"`
	IsGroup          bool          `json:"is_group"`
	GroupName        string        `json:"group_name"`
	Color            [4]uint8      `json:"color"`
	Children         []BlockRecord `json:"children"`
}

// Document is a complete board snapshot.
type Document struct {
	Blocks           []BlockRecord `json:"blocks"`
	RememberedChains [][]string    `json:"remembered_chains"`
	LastUnboxedIDs   []uuid.UUID   `json:"last_unboxed_ids"`
	LastBoxedID      *uuid.UUID    `json:"last_boxed_id"`
	Zoom             float64       `json:"zoom"`
	ShowFileNames    bool          `json:"show_file_names"`
}

// Snapshot captures the manager's full state into a Document.
func Snapshot(m *board.Manager, zoom float64, showFileNames bool) *Document {
	doc := &Document{
		Blocks:         make([]BlockRecord, 0, m.Len()),
		LastUnboxedIDs: m.LastUnboxedIDs(),
		Zoom:           zoom,
		ShowFileNames:  showFileNames,
	}
	for _, b := range m.Blocks() {
		doc.Blocks = append(doc.Blocks, blockToRecord(b))
	}
	for _, chain := range m.RememberedChains() {
		ids := make([]string, 0, len(chain))
		for _, id := range chain.IDs() {
			ids = append(ids, id.String())
		}
		doc.RememberedChains = append(doc.RememberedChains, ids)
	}
	if id := m.LastBoxedID(); id != uuid.Nil {
		doc.LastBoxedID = &id
	}
	return doc
}

func blockToRecord(b *board.Block) BlockRecord {
	r, g, bl := b.Color.RGB255()
	rec := BlockRecord{
		ID:               b.ID,
		Position:         [2]float64{b.Pos.X, b.Pos.Y},
		Size:             [2]float64{b.ImageSize.X, b.ImageSize.Y},
		Path:             b.Path,
		Chained:          b.Chained,
		AnimationEnabled: b.Anim.Enabled,
		Counter:          b.Counter,
		IsGroup:          b.IsGroup,
		GroupName:        b.GroupName,
		Color:            [4]uint8{r, g, bl, 255},
	}
	for _, c := range b.Children {
		rec.Children = append(rec.Children, blockToRecord(c))
	}
	return rec
}

// Restore rebuilds the manager's state from a Document. Blocks come back as
// skeletons with their stored geometry but no frames; the returned paths are
// the unique image paths that need a first-frame decode. Playback state is
// not restored, since full sequences are loaded on demand.
func Restore(m *board.Manager, doc *Document) (paths []string) {
	m.Clear()

	seen := map[string]struct{}{}
	for _, rec := range doc.Blocks {
		if b := recordToSkeleton(rec, seen, &paths); b != nil {
			m.Push(b)
		}
	}

	chains := make([]board.ChainSet, 0, len(doc.RememberedChains))
	for _, raw := range doc.RememberedChains {
		chain := board.ChainSet{}
		for _, s := range raw {
			if id, err := uuid.Parse(s); err == nil {
				chain[id] = struct{}{}
			}
		}
		chains = append(chains, chain)
	}
	m.SetRememberedChains(chains)

	lastBoxed := uuid.Nil
	if doc.LastBoxedID != nil {
		lastBoxed = *doc.LastBoxedID
	}
	m.SetReboxSlot(lastBoxed, doc.LastUnboxedIDs)
	return paths
}

func recordToSkeleton(rec BlockRecord, seen map[string]struct{}, paths *[]string) *board.Block {
	if rec.IsGroup {
		var children []*board.Block
		for _, c := range rec.Children {
			if child := recordToSkeleton(c, seen, paths); child != nil {
				children = append(children, child)
			}
		}
		g := board.NewGroup(children)
		g.ID = rec.ID
		g.GroupName = rec.GroupName
		applyGeometry(g, rec)
		return g
	}

	// Pathless non-group records cannot be restored.
	if rec.Path == "" {
		return nil
	}

	b := board.New(rec.Path, nil, board.Vec2{X: rec.Size[0], Y: rec.Size[1]}, false, false)
	b.ID = rec.ID
	b.Counter = rec.Counter
	applyGeometry(b, rec)

	if _, ok := seen[rec.Path]; !ok {
		seen[rec.Path] = struct{}{}
		*paths = append(*paths, rec.Path)
	}
	return b
}

func applyGeometry(b *board.Block, rec BlockRecord) {
	b.Pos = board.Vec2{X: rec.Position[0], Y: rec.Position[1]}
	b.SetPreferredSize(board.Vec2{X: rec.Size[0], Y: rec.Size[1]})
	b.Chained = rec.Chained
	b.Color = colorful.Color{
		R: float64(rec.Color[0]) / 255,
		G: float64(rec.Color[1]) / 255,
		B: float64(rec.Color[2]) / 255,
	}
}

// NormalizeZoom maps a stored zoom onto a usable value, covering documents
// written before zoom existed.
func NormalizeZoom(z float64) float64 {
	if z <= 0 {
		return DefaultZoom
	}
	return z
}
