package board

import (
	"testing"
	"time"
)

func TestNewBlockAspectRatio(t *testing.T) {
	b := New("a.png", nil, Vec2{300, 150}, false, true)
	if b.AspectRatio != 2 {
		t.Errorf("aspect ratio = %v, want 2", b.AspectRatio)
	}

	// Degenerate source height falls back to a square ratio.
	z := New("z.png", nil, Vec2{300, 0}, false, true)
	if z.AspectRatio != 1 {
		t.Errorf("zero-height aspect ratio = %v, want 1", z.AspectRatio)
	}
}

func TestOuterSizeIncludesPadding(t *testing.T) {
	b := testBlock(100, 60)
	want := Vec2{100 + BlockPadding*2, 60 + BlockPadding*2}
	if b.OuterSize() != want {
		t.Errorf("outer size = %v, want %v", b.OuterSize(), want)
	}
}

func TestConstrainToWidth(t *testing.T) {
	tests := []struct {
		name     string
		size     Vec2
		maxWidth float64
		want     Vec2
	}{
		{"already fits", Vec2{100, 50}, 200, Vec2{100, 50}},
		{"shrinks keeping ratio", Vec2{200, 100}, 100, Vec2{100, 50}},
		{"floor at one", Vec2{200, 100}, 0.1, Vec2{1, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBlock(tt.size.X, tt.size.Y)
			b.ConstrainToWidth(tt.maxWidth)
			if b.ImageSize != tt.want {
				t.Errorf("image size = %v, want %v", b.ImageSize, tt.want)
			}
		})
	}
}

func TestUpdateAnimationAdvancesFrames(t *testing.T) {
	b := animatedBlock(3)
	b.Anim.Enabled = true

	if changed := b.UpdateAnimation(50 * time.Millisecond); changed {
		t.Error("frame should not change before its duration elapses")
	}
	if changed := b.UpdateAnimation(60 * time.Millisecond); !changed {
		t.Error("frame should advance after 110ms total")
	}
	if b.Anim.Current != 1 {
		t.Errorf("current frame = %d, want 1", b.Anim.Current)
	}

	// A huge delta wraps around rather than sticking on the last frame.
	b.UpdateAnimation(250 * time.Millisecond)
	if b.Anim.Current != 0 {
		t.Errorf("current frame = %d, want 0 after wraparound", b.Anim.Current)
	}
}

func TestUpdateAnimationZeroDurationFrames(t *testing.T) {
	b := animatedBlock(3)
	b.Anim.Enabled = true
	for i := range b.Anim.Frames {
		b.Anim.Frames[i].Duration = 0
	}

	// Frames with no playable duration must not advance (or hang).
	if b.UpdateAnimation(time.Second) {
		t.Error("zero-duration frames should never advance")
	}
	if b.Anim.Current != 0 {
		t.Errorf("current frame = %d, want 0", b.Anim.Current)
	}
}

func TestUpdateAnimationDisabled(t *testing.T) {
	b := animatedBlock(3)
	if b.UpdateAnimation(time.Second) {
		t.Error("disabled animation should never advance")
	}
	if b.Anim.Current != 0 {
		t.Error("frame moved while disabled")
	}
}

func TestTimeUntilNextFrame(t *testing.T) {
	b := animatedBlock(3)

	if _, ok := b.TimeUntilNextFrame(); ok {
		t.Error("disabled animation should not schedule a wakeup")
	}

	b.Anim.Enabled = true
	b.Anim.Elapsed = 40 * time.Millisecond
	d, ok := b.TimeUntilNextFrame()
	if !ok || d != 60*time.Millisecond {
		t.Errorf("remaining = %v, want 60ms", d)
	}

	// An overdue frame still yields a positive wakeup.
	b.Anim.Elapsed = 100 * time.Millisecond
	d, ok = b.TimeUntilNextFrame()
	if !ok || d <= 0 {
		t.Errorf("overdue frame should yield a positive duration, got %v", d)
	}
}

func TestToggleAnimation(t *testing.T) {
	b := animatedBlock(3)
	b.ToggleAnimation()
	if !b.Anim.Enabled {
		t.Error("toggle should enable playback")
	}

	b.Anim.Current = 2
	b.Anim.Elapsed = 10 * time.Millisecond
	b.ToggleAnimation()
	if b.Anim.Enabled {
		t.Error("toggle should disable playback")
	}
	if b.Anim.Current != 0 || b.Anim.Elapsed != 0 {
		t.Error("stopping should rewind to the first frame")
	}

	single := animatedBlock(1)
	single.ToggleAnimation()
	if single.Anim.Enabled {
		t.Error("single-frame blocks never animate")
	}
}

func TestUpdateGroupName(t *testing.T) {
	tests := []struct {
		name     string
		children []*Block
		want     string
	}{
		{"empty", nil, "Empty Group"},
		{"single", []*Block{testBlock(10, 10)}, "Box: img.png"},
		{"several", []*Block{testBlock(10, 10), testBlock(10, 10), testBlock(10, 10)}, "Group of 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGroup(tt.children)
			g.UpdateGroupName()
			if g.GroupName != tt.want {
				t.Errorf("group name = %q, want %q", g.GroupName, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	b := New("/some/dir/cat.gif", nil, Vec2{10, 10}, false, true)
	if b.DisplayName() != "cat.gif" {
		t.Errorf("display name = %q", b.DisplayName())
	}

	anon := New("", nil, Vec2{10, 10}, false, true)
	if anon.DisplayName() != "unnamed" {
		t.Errorf("pathless display name = %q", anon.DisplayName())
	}
}

func TestPopulateFramesByPath(t *testing.T) {
	skeleton := New("cat.gif", nil, Vec2{50, 50}, true, false)
	other := New("dog.gif", nil, Vec2{50, 50}, false, false)
	g := NewGroup([]*Block{skeleton, other})

	frames := []Frame{{Duration: 100 * time.Millisecond}, {Duration: 100 * time.Millisecond}}
	if !g.PopulateFramesByPath("cat.gif", frames, true, true) {
		t.Fatal("matching child should be populated")
	}
	if len(skeleton.Anim.Frames) != 2 || !skeleton.FullSequence {
		t.Error("skeleton should now hold the full sequence")
	}
	if len(other.Anim.Frames) != 0 {
		t.Error("non-matching child should be untouched")
	}

	// A second delivery for the same path is ignored.
	if g.PopulateFramesByPath("cat.gif", frames[:1], true, true) {
		t.Error("already-populated block should not be overwritten")
	}
}

func TestNeedsFramesForPath(t *testing.T) {
	skeleton := New("cat.gif", nil, Vec2{50, 50}, true, false)
	if !skeleton.NeedsFramesForPath("cat.gif", false) {
		t.Error("frameless block should need frames")
	}
	if skeleton.NeedsFramesForPath("dog.gif", false) {
		t.Error("path mismatch should not need frames")
	}

	// A first-frame-only block needs a full decode but not another preview.
	preview := New("cat.gif", []Frame{{}}, Vec2{50, 50}, true, false)
	if preview.NeedsFramesForPath("cat.gif", false) {
		t.Error("previewed block should not need another first frame")
	}
	if !preview.NeedsFramesForPath("cat.gif", true) {
		t.Error("previewed block should still need the full sequence")
	}
}

func TestCompareLayout(t *testing.T) {
	mk := func(isGroup bool, x, y float64) *Block {
		b := testBlock(50, 50)
		b.IsGroup = isGroup
		b.Pos = Vec2{x, y}
		return b
	}

	tests := []struct {
		name string
		a, b *Block
		want int
	}{
		{"group before non-group", mk(true, 900, 900), mk(false, 0, 0), -1},
		{"non-group after group", mk(false, 0, 0), mk(true, 900, 900), 1},
		{"earlier row first", mk(false, 500, 50), mk(false, 0, 250), -1},
		{"same row by x", mk(false, 10, 50), mk(false, 20, 90), -1},
		{"identical", mk(false, 10, 50), mk(false, 10, 50), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.CompareLayout(tt.b); got != tt.want {
				t.Errorf("CompareLayout = %d, want %d", got, tt.want)
			}
		})
	}
}
