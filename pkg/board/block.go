package board

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// Frame is a single decoded animation frame and how long it stays on screen.
type Frame struct {
	Image    image.Image
	Duration time.Duration
}

// Animation holds the frame sequence and playback state for a block.
//
// A block whose FullSequence flag is false is a "skeleton": it retains only
// the first frame and must re-request a full decode before it can animate.
type Animation struct {
	Frames       []Frame
	Current      int
	Elapsed      time.Duration
	Enabled      bool
	HasAnimation bool
}

// Block is the core entity of the board: a positioned rectangle wrapping
// either a single image (with optional animation) or, for groups, an ordered
// list of child blocks.
type Block struct {
	ID   uuid.UUID
	Path string

	Pos        Vec2
	DragOffset Vec2
	Dragging   bool

	Anim         Animation
	FullSequence bool

	IsGroup   bool
	GroupName string
	Children  []*Block

	ImageSize          Vec2
	PreferredImageSize Vec2
	AspectRatio        float64

	Color   colorful.Color
	Chained bool
	Counter int
}

// New creates a block for a single image or the first frame of an animation.
// The aspect ratio is fixed for the block's lifetime; a zero source height
// yields ratio 1 so later resize math never divides by zero.
func New(path string, frames []Frame, size Vec2, hasAnimation, fullSequence bool) *Block {
	ratio := 1.0
	if size.Y > 0 {
		ratio = size.X / size.Y
	}
	id := uuid.New()
	return &Block{
		ID:   id,
		Path: path,
		Anim: Animation{
			Frames:       frames,
			HasAnimation: hasAnimation,
		},
		FullSequence:       fullSequence,
		ImageSize:          size,
		PreferredImageSize: size,
		AspectRatio:        ratio,
		Color:              ColorFromID(id),
	}
}

// NewGroup creates a group block that owns the given children.
// Callers are expected to position it and call UpdateGroupName afterwards.
func NewGroup(children []*Block) *Block {
	id := uuid.New()
	return &Block{
		ID:                 id,
		IsGroup:            true,
		Children:           children,
		ImageSize:          Vec2{DefaultGroupSize, DefaultGroupSize},
		PreferredImageSize: Vec2{DefaultGroupSize, DefaultGroupSize},
		AspectRatio:        1,
		Color:              ColorFromID(id),
		FullSequence:       true,
	}
}

// OuterSize returns the block's footprint including padding on all sides.
func (b *Block) OuterSize() Vec2 {
	return Vec2{b.ImageSize.X + BlockPadding*2, b.ImageSize.Y + BlockPadding*2}
}

// Rect returns the block's outer bounding rectangle at its current position.
func (b *Block) Rect() Rect {
	return Rect{Min: b.Pos, Size: b.OuterSize()}
}

// SetPreferredSize records size as the user's chosen size and applies it.
func (b *Block) SetPreferredSize(size Vec2) {
	b.PreferredImageSize = size
	b.ImageSize = size
}

// ResetToPreferredSize restores the user's chosen size, undoing any
// width-constraint clamping from a previous reflow pass.
func (b *Block) ResetToPreferredSize() {
	b.ImageSize = b.PreferredImageSize
}

// ConstrainToWidth shrinks the block to fit maxWidth, recomputing the height
// from the fixed aspect ratio. Blocks already narrow enough are untouched;
// constraining never grows a block.
func (b *Block) ConstrainToWidth(maxWidth float64) {
	if b.ImageSize.X <= maxWidth {
		return
	}
	w := maxWidth
	if w < 1 {
		w = 1
	}
	b.ImageSize = Vec2{w, w / b.AspectRatio}
}

// UpdateAnimation advances playback by dt. It reports whether the visible
// frame changed. Multi-frame wraparound is handled so very large dt values
// land on the correct frame.
func (b *Block) UpdateAnimation(dt time.Duration) bool {
	if !b.Anim.Enabled || len(b.Anim.Frames) <= 1 {
		return false
	}
	var total time.Duration
	for _, f := range b.Anim.Frames {
		total += f.Duration
	}
	if total <= 0 {
		// Every frame has zero duration; the wraparound loop below would
		// never terminate, so the animation simply never advances.
		return false
	}
	if dt > 0 {
		b.Anim.Elapsed += dt
	}
	changed := false
	for b.Anim.Elapsed >= b.Anim.Frames[b.Anim.Current].Duration {
		b.Anim.Elapsed -= b.Anim.Frames[b.Anim.Current].Duration
		b.Anim.Current = (b.Anim.Current + 1) % len(b.Anim.Frames)
		changed = true
	}
	return changed
}

// TimeUntilNextFrame returns how long until the current frame expires, and
// false when the block isn't animating. A zero remainder is reported as 1ms
// so schedulers always sleep a positive duration.
func (b *Block) TimeUntilNextFrame() (time.Duration, bool) {
	if !b.Anim.Enabled || len(b.Anim.Frames) <= 1 {
		return 0, false
	}
	remaining := b.Anim.Frames[b.Anim.Current].Duration - b.Anim.Elapsed
	if remaining <= 0 {
		remaining = time.Millisecond
	}
	return remaining, true
}

// ToggleAnimation flips playback on or off. Turning playback off rewinds to
// the first frame. Single-frame blocks are untouched.
func (b *Block) ToggleAnimation() {
	if len(b.Anim.Frames) <= 1 {
		return
	}
	if b.Anim.Enabled {
		b.StopAnimation()
		return
	}
	b.Anim.Enabled = true
}

// StopAnimation halts playback and rewinds to frame zero.
func (b *Block) StopAnimation() {
	b.Anim.Enabled = false
	b.Anim.Current = 0
	b.Anim.Elapsed = 0
}

// CurrentFrame returns the image that should be displayed right now, or nil
// for blocks with no decoded frames (skeletons fresh from a session load).
func (b *Block) CurrentFrame() image.Image {
	if len(b.Anim.Frames) == 0 {
		return nil
	}
	if b.Anim.Current < len(b.Anim.Frames) {
		return b.Anim.Frames[b.Anim.Current].Image
	}
	return b.Anim.Frames[0].Image
}

// ResetCountersRecursive zeroes this block's counter and every descendant's.
func (b *Block) ResetCountersRecursive() {
	b.Counter = 0
	for _, c := range b.Children {
		c.ResetCountersRecursive()
	}
}

// UpdateGroupName rederives the group's display name from its child set.
// Non-group blocks are untouched.
func (b *Block) UpdateGroupName() {
	if !b.IsGroup {
		return
	}
	switch len(b.Children) {
	case 0:
		b.GroupName = "Empty Group"
	case 1:
		b.GroupName = "Box: " + fileName(b.Children[0].Path)
	default:
		b.GroupName = fmt.Sprintf("Group of %d", len(b.Children))
	}
}

// DisplayName returns the group name for groups and the file name otherwise.
func (b *Block) DisplayName() string {
	if b.IsGroup {
		return b.GroupName
	}
	return fileName(b.Path)
}

func fileName(path string) string {
	if path == "" {
		return "unnamed"
	}
	return filepath.Base(path)
}

// NeedsFramesForPath reports whether this block, or any group child, is a
// skeleton waiting for decoded frames of path. fullSequence narrows the match
// to blocks waiting for a full decode.
func (b *Block) NeedsFramesForPath(path string, fullSequence bool) bool {
	if !b.IsGroup && b.Path == path {
		if len(b.Anim.Frames) == 0 {
			return true
		}
		if fullSequence && !b.FullSequence {
			return true
		}
	}
	for _, c := range b.Children {
		if c.NeedsFramesForPath(path, fullSequence) {
			return true
		}
	}
	return false
}

// PopulateFramesByPath fills this block (and group children, recursively)
// with decoded frames when the path matches and the block is still waiting
// for them. It reports whether any block was updated.
func (b *Block) PopulateFramesByPath(path string, frames []Frame, hasAnimation, fullSequence bool) bool {
	updated := false
	if !b.IsGroup && b.Path == path && (len(b.Anim.Frames) == 0 || (fullSequence && !b.FullSequence)) {
		b.Anim.Frames = frames
		b.Anim.HasAnimation = hasAnimation
		b.Anim.Current = 0
		b.Anim.Elapsed = 0
		b.FullSequence = fullSequence
		updated = true
	}
	for _, c := range b.Children {
		if c.PopulateFramesByPath(path, frames, hasAnimation, fullSequence) {
			updated = true
		}
	}
	return updated
}

// CompareLayout orders blocks for layout: groups before non-groups, then by
// row-quantized Y ascending, then by X ascending. The Y quantization keeps a
// block's slot stable while it drifts a few pixels inside its row.
func (b *Block) CompareLayout(other *Block) int {
	switch {
	case b.IsGroup && !other.IsGroup:
		return -1
	case !b.IsGroup && other.IsGroup:
		return 1
	}
	aRow := int(b.Pos.Y / RowQuantizeHeight)
	bRow := int(other.Pos.Y / RowQuantizeHeight)
	switch {
	case aRow < bRow:
		return -1
	case aRow > bRow:
		return 1
	case b.Pos.X < other.Pos.X:
		return -1
	case b.Pos.X > other.Pos.X:
		return 1
	}
	return 0
}
