package board

import "github.com/google/uuid"

// Full frame sequences are expensive to hold, so at most animBudget blocks
// keep theirs at a time. Access order is tracked per block ID; exceeding the
// budget demotes the least recently used block back to a skeleton.

// AnimationAccessOrder exposes the LRU order, oldest first.
func (m *Manager) AnimationAccessOrder() []uuid.UUID { return m.animOrder }

// MarkAnimationUsed records that the block's frames were just needed, moving
// it to the most-recent end of the order. When the tracked set exceeds the
// budget the oldest entry is purged down to its first frame.
func (m *Manager) MarkAnimationUsed(id uuid.UUID) {
	m.forgetAnimation(id)
	m.animOrder = append(m.animOrder, id)

	if len(m.animOrder) > m.animBudget {
		oldest := m.animOrder[0]
		m.animOrder = m.animOrder[1:]
		m.purgeAnimationFrames(oldest)
	}
}

// purgeAnimationFrames demotes a block to a skeleton: only the first frame
// survives, playback stops, and the block must re-request a full decode
// before it can animate again. Blocks already down to one frame, and blocks
// no longer on the board, are left alone.
func (m *Manager) purgeAnimationFrames(id uuid.UUID) {
	b := m.Get(id)
	if b == nil {
		return
	}
	if !b.FullSequence || len(b.Anim.Frames) <= 1 {
		return
	}
	b.Anim.Frames = b.Anim.Frames[:1]
	b.FullSequence = false
	b.StopAnimation()
}

// forgetAnimation drops the ID from the access order without purging.
func (m *Manager) forgetAnimation(id uuid.UUID) {
	for i, x := range m.animOrder {
		if x == id {
			m.animOrder = append(m.animOrder[:i], m.animOrder[i+1:]...)
			return
		}
	}
}
