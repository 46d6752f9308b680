package board

import (
	"github.com/google/uuid"
)

// Manager owns the top-level block collection and every cross-cutting piece
// of state that must stay consistent with it: chain membership, remembered
// chains, the rebox slot, and the animation LRU order.
type Manager struct {
	blocks []*Block

	rememberedChains []ChainSet
	lastBoxedID      uuid.UUID
	lastUnboxedIDs   []uuid.UUID

	animOrder  []uuid.UUID
	animBudget int
}

// Option configures a Manager.
type Option func(*Manager)

// WithAnimationBudget overrides the number of blocks allowed to hold a full
// frame sequence at once. Values below one fall back to the default.
func WithAnimationBudget(n int) Option {
	return func(m *Manager) {
		if n >= 1 {
			m.animBudget = n
		}
	}
}

// NewManager creates an empty board.
func NewManager(opts ...Option) *Manager {
	m := &Manager{animBudget: DefaultAnimationBudget}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// =============================================================================
// Collection Access
// =============================================================================

// Blocks returns the top-level blocks in their current order.
// The slice is owned by the Manager; callers must not reorder it.
func (m *Manager) Blocks() []*Block { return m.blocks }

// Len returns the number of top-level blocks.
func (m *Manager) Len() int { return len(m.blocks) }

// IndexOf returns the position of the block with the given ID, or -1.
func (m *Manager) IndexOf(id uuid.UUID) int {
	for i, b := range m.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the top-level block with the given ID, or nil.
func (m *Manager) Get(id uuid.UUID) *Block {
	if i := m.IndexOf(id); i >= 0 {
		return m.blocks[i]
	}
	return nil
}

// ByIndex returns the block at index i, or nil when out of range.
func (m *Manager) ByIndex(i int) *Block {
	if i < 0 || i >= len(m.blocks) {
		return nil
	}
	return m.blocks[i]
}

// =============================================================================
// Mutation
// =============================================================================

// Push appends a block to the collection.
func (m *Manager) Push(b *Block) { m.blocks = append(m.blocks, b) }

// Insert places a block at index i, shifting later blocks right.
func (m *Manager) Insert(i int, b *Block) {
	if i < 0 {
		i = 0
	}
	if i > len(m.blocks) {
		i = len(m.blocks)
	}
	m.blocks = append(m.blocks, nil)
	copy(m.blocks[i+1:], m.blocks[i:])
	m.blocks[i] = b
}

// removeAt removes and returns the block at index i and scrubs it from the
// animation access order.
func (m *Manager) removeAt(i int) *Block {
	b := m.blocks[i]
	m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
	m.forgetAnimation(b.ID)
	return b
}

// Remove removes the block with the given ID from the top level and returns
// it, or nil when absent. Children travel with their group.
func (m *Manager) Remove(id uuid.UUID) *Block {
	i := m.IndexOf(id)
	if i < 0 {
		return nil
	}
	return m.removeAt(i)
}

// Close removes a block the way the close control does: a chained block
// cascades to every chained block, and groups take their children with them.
// It returns the IDs of every removed block, including descendants.
func (m *Manager) Close(id uuid.UUID) []uuid.UUID {
	i := m.IndexOf(id)
	if i < 0 {
		return nil
	}

	indices := []int{i}
	if m.blocks[i].Chained {
		indices = m.chainedIndices()
	}

	var removed []uuid.UUID
	for j := len(indices) - 1; j >= 0; j-- { // reverse order for safe removal
		b := m.removeAt(indices[j])
		removed = append(removed, b.ID)
		removed = collectChildIDs(b, removed)
	}

	removedSet := make(ChainSet, len(removed))
	for _, rid := range removed {
		removedSet[rid] = struct{}{}
	}
	m.dropRememberedOverlapping(removedSet)
	for _, rid := range removed {
		m.forgetAnimation(rid)
	}
	return removed
}

func collectChildIDs(b *Block, ids []uuid.UUID) []uuid.UUID {
	for _, c := range b.Children {
		ids = append(ids, c.ID)
		ids = collectChildIDs(c, ids)
	}
	return ids
}

// Clear drops every block and all animation bookkeeping. Remembered chains
// survive so a reloaded session can still restore them.
func (m *Manager) Clear() {
	m.blocks = nil
	m.animOrder = nil
}

// =============================================================================
// Queries
// =============================================================================

// MaxBlockHeight returns the tallest preferred height among non-group blocks.
// New blocks are matched to this height so rows stay visually aligned.
func (m *Manager) MaxBlockHeight() float64 {
	max := 0.0
	for _, b := range m.blocks {
		if !b.IsGroup && b.PreferredImageSize.Y > max {
			max = b.PreferredImageSize.Y
		}
	}
	return max
}

// FindGroupAt returns the index of the first group whose rectangle contains
// pos, excluding the block with excludeID. Returns -1 when nothing matches.
func (m *Manager) FindGroupAt(pos Vec2, excludeID uuid.UUID) int {
	for i, b := range m.blocks {
		if b.ID != excludeID && b.IsGroup && b.Rect().Contains(pos) {
			return i
		}
	}
	return -1
}

// AnyDragging reports whether any top-level block is mid-drag.
func (m *Manager) AnyDragging() bool {
	for _, b := range m.blocks {
		if b.Dragging {
			return true
		}
	}
	return false
}

// ResetAllCounters zeroes every counter on the board, descending into groups.
func (m *Manager) ResetAllCounters() {
	for _, b := range m.blocks {
		b.ResetCountersRecursive()
	}
}
