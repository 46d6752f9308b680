package board

import (
	"math"

	"github.com/google/uuid"
)

// ChainSet is an unordered set of block IDs forming one chain.
type ChainSet map[uuid.UUID]struct{}

// NewChainSet builds a set from the given IDs.
func NewChainSet(ids ...uuid.UUID) ChainSet {
	s := make(ChainSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s ChainSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Disjoint reports whether s and o share no members.
func (s ChainSet) Disjoint(o ChainSet) bool {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if large.Contains(id) {
			return false
		}
	}
	return true
}

// IDs returns the members in unspecified order.
func (s ChainSet) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// =============================================================================
// Chain State
// =============================================================================

// CanChain reports whether chaining is possible at all.
func (m *Manager) CanChain() bool { return len(m.blocks) > 0 }

// ChainedCount returns the number of currently chained top-level blocks.
func (m *Manager) ChainedCount() int {
	n := 0
	for _, b := range m.blocks {
		if b.Chained {
			n++
		}
	}
	return n
}

// ChainedIDs returns the IDs of all currently chained blocks as a set.
func (m *Manager) ChainedIDs() ChainSet {
	s := make(ChainSet)
	for _, b := range m.blocks {
		if b.Chained {
			s[b.ID] = struct{}{}
		}
	}
	return s
}

// chainedIndices returns the indices of chained blocks in ascending order.
func (m *Manager) chainedIndices() []int {
	var idxs []int
	for i, b := range m.blocks {
		if b.Chained {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// RememberedChains exposes the remembered chain sets for persistence.
func (m *Manager) RememberedChains() []ChainSet { return m.rememberedChains }

// SetRememberedChains replaces the remembered chains, used on session load.
// Empty and single-member sets are dropped since they can never restore.
func (m *Manager) SetRememberedChains(chains []ChainSet) {
	m.rememberedChains = m.rememberedChains[:0]
	for _, c := range chains {
		if len(c) >= 2 {
			m.rememberedChains = append(m.rememberedChains, c)
		}
	}
}

// ClearChainGroup unchains every block. A chain of two or more members is
// remembered first, evicting any previously remembered chain it overlaps, so
// chaining any former member later restores the whole set.
func (m *Manager) ClearChainGroup() {
	chained := m.ChainedIDs()
	if len(chained) >= 2 {
		m.dropRememberedOverlapping(chained)
		m.rememberedChains = append(m.rememberedChains, chained)
	}
	for _, b := range m.blocks {
		b.Chained = false
	}
}

// ToggleChain flips the chained state of one block. Chaining a block that
// belongs to a remembered chain restores every surviving member of that chain.
func (m *Manager) ToggleChain(id uuid.UUID) {
	b := m.Get(id)
	if b == nil {
		return
	}
	if b.Chained {
		b.Chained = false
		return
	}
	for _, chain := range m.rememberedChains {
		if chain.Contains(id) {
			for _, other := range m.blocks {
				if chain.Contains(other.ID) {
					other.Chained = true
				}
			}
			return
		}
	}
	b.Chained = true
}

// EnforceChainConstraints reconciles chain memory after removals. A
// remembered chain with fewer than two surviving members can never restore,
// so it is forgotten.
func (m *Manager) EnforceChainConstraints() {
	kept := m.rememberedChains[:0]
	for _, chain := range m.rememberedChains {
		survivors := 0
		for id := range chain {
			if m.Get(id) != nil {
				survivors++
			}
		}
		if survivors >= 2 {
			kept = append(kept, chain)
		}
	}
	m.rememberedChains = kept
}

// dropRememberedOverlapping deletes every remembered chain sharing a member
// with the given set.
func (m *Manager) dropRememberedOverlapping(set ChainSet) {
	kept := m.rememberedChains[:0]
	for _, chain := range m.rememberedChains {
		if chain.Disjoint(set) {
			kept = append(kept, chain)
		}
	}
	m.rememberedChains = kept
}

// =============================================================================
// Boxing
// =============================================================================

// Box collects every chained block into a new group and inserts the group at
// the head of the collection. The group is positioned at the top-left corner
// of its members. Chained groups are dissolved so their children join the new
// group directly; groups therefore never nest more than one level deep.
// Returns uuid.Nil when nothing is chained.
func (m *Manager) Box() uuid.UUID {
	idxs := m.chainedIndices()
	if len(idxs) == 0 {
		return uuid.Nil
	}

	removed := make([]*Block, 0, len(idxs))
	minPos := Vec2{math.MaxFloat64, math.MaxFloat64}
	for j := len(idxs) - 1; j >= 0; j-- {
		b := m.removeAt(idxs[j])
		if b.Pos.X < minPos.X {
			minPos.X = b.Pos.X
		}
		if b.Pos.Y < minPos.Y {
			minPos.Y = b.Pos.Y
		}
		b.Chained = false
		b.Dragging = false
		removed = append(removed, b)
	}
	reverseBlocks(removed)

	var children []*Block
	for _, b := range removed {
		if b.IsGroup {
			children = append(children, b.Children...)
		} else {
			children = append(children, b)
		}
	}

	group := NewGroup(children)
	group.UpdateGroupName()
	group.Pos = minPos
	m.Insert(0, group)
	return group.ID
}

// Unbox removes the group with the given ID and reinserts its children at the
// group boundary, keeping them ahead of all non-group blocks' tail. Children
// come back unchained. Returns the children's IDs, or nil when the ID does
// not name a group.
func (m *Manager) Unbox(id uuid.UUID) []uuid.UUID {
	i := m.IndexOf(id)
	if i < 0 || !m.blocks[i].IsGroup {
		return nil
	}
	group := m.removeAt(i)

	insertAt := len(m.blocks)
	for j, b := range m.blocks {
		if !b.IsGroup {
			insertAt = j
			break
		}
	}

	ids := make([]uuid.UUID, 0, len(group.Children))
	for j, child := range group.Children {
		child.Chained = false
		ids = append(ids, child.ID)
		m.Insert(insertAt+j, child)
	}
	return ids
}

// DropIntoGroup moves the block with blockID into the group with groupID.
// When the dropped block is chained, every chained block moves with it.
func (m *Manager) DropIntoGroup(blockID, groupID uuid.UUID) {
	b := m.Get(blockID)
	g := m.Get(groupID)
	if b == nil || g == nil || !g.IsGroup || blockID == groupID {
		return
	}

	if b.Chained {
		// Snapshot in board order so children land deterministically.
		var ids []uuid.UUID
		for _, blk := range m.blocks {
			if blk.Chained {
				ids = append(ids, blk.ID)
			}
		}
		for _, id := range ids {
			m.moveIntoGroup(id, groupID)
		}
		return
	}
	m.moveIntoGroup(blockID, groupID)
}

func (m *Manager) moveIntoGroup(blockID, groupID uuid.UUID) {
	i := m.IndexOf(blockID)
	if i < 0 {
		return
	}
	b := m.removeAt(i)
	b.Dragging = false
	b.Chained = false

	g := m.Get(groupID)
	if g == nil {
		// Target vanished mid-move; put the block back rather than drop it.
		m.Push(b)
		return
	}
	// A group swept along with a chain dissolves into its children, the same
	// as in Box, so groups never nest more than one level deep.
	if b.IsGroup {
		g.Children = append(g.Children, b.Children...)
	} else {
		g.Children = append(g.Children, b)
	}
	g.UpdateGroupName()
}

// =============================================================================
// Boxing Toggle
// =============================================================================

// ToggleBoxing is the single entry point behind the compact control:
//
//   - nothing chained: re-box the last unboxed set if one exists, otherwise
//     unbox the last boxed group if it still exists, otherwise do nothing
//   - exactly one chained block and it is a group: unbox it
//   - otherwise: box the chained blocks
//
// The rebox slot holds at most one undo in either direction; any explicit
// box or unbox overwrites it.
func (m *Manager) ToggleBoxing() {
	count := m.ChainedCount()

	if count == 0 {
		if m.tryReboxLastUnboxed() {
			return
		}
		m.tryUnboxLastBoxed()
		return
	}

	if count == 1 {
		var chained *Block
		for _, b := range m.blocks {
			if b.Chained {
				chained = b
				break
			}
		}
		if chained.IsGroup {
			m.lastUnboxedIDs = childIDs(chained)
			m.Unbox(chained.ID)
			m.lastBoxedID = uuid.Nil
			return
		}
	}

	m.lastBoxedID = m.Box()
	m.lastUnboxedIDs = nil
}

// tryReboxLastUnboxed re-chains whatever survives of the last unboxed set and
// boxes it again. Reports whether anything happened.
func (m *Manager) tryReboxLastUnboxed() bool {
	if len(m.lastUnboxedIDs) == 0 {
		return false
	}
	want := NewChainSet(m.lastUnboxedIDs...)
	found := false
	for _, b := range m.blocks {
		if want.Contains(b.ID) {
			b.Chained = true
			found = true
		}
	}
	if !found {
		return false
	}
	m.lastBoxedID = m.Box()
	m.lastUnboxedIDs = nil
	return true
}

// tryUnboxLastBoxed unboxes the most recently boxed group if it still exists.
func (m *Manager) tryUnboxLastBoxed() bool {
	if m.lastBoxedID == uuid.Nil {
		return false
	}
	g := m.Get(m.lastBoxedID)
	if g == nil || !g.IsGroup {
		return false
	}
	m.lastUnboxedIDs = childIDs(g)
	m.Unbox(g.ID)
	m.lastBoxedID = uuid.Nil
	return true
}

// LastBoxedID exposes the rebox slot's box side for persistence.
func (m *Manager) LastBoxedID() uuid.UUID { return m.lastBoxedID }

// LastUnboxedIDs exposes the rebox slot's unbox side for persistence.
func (m *Manager) LastUnboxedIDs() []uuid.UUID { return m.lastUnboxedIDs }

// SetReboxSlot restores the rebox slot, used on session load.
func (m *Manager) SetReboxSlot(lastBoxed uuid.UUID, lastUnboxed []uuid.UUID) {
	m.lastBoxedID = lastBoxed
	m.lastUnboxedIDs = lastUnboxed
}

func childIDs(g *Block) []uuid.UUID {
	ids := make([]uuid.UUID, len(g.Children))
	for i, c := range g.Children {
		ids[i] = c.ID
	}
	return ids
}

func reverseBlocks(blocks []*Block) {
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
}
