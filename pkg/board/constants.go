package board

// Layout constants shared by the engine and its render collaborators.
// These are deliberately not configurable: reflow must be deterministic for a
// given document regardless of the machine it runs on.
const (
	// BlockPadding is the inner padding between a block's image and its border.
	BlockPadding = 4.0

	// MinBlockSize is the smallest width or height an image may be resized to.
	MinBlockSize = 50.0

	// RowQuantizeHeight buckets Y positions into coarse rows so a few pixels
	// of vertical drift from a drag don't reorder blocks within a row.
	RowQuantizeHeight = 100.0

	// DefaultGroupSize is the square image size given to new group blocks.
	DefaultGroupSize = 160.0

	// CanvasPadding is the margin between the canvas edges and the blocks.
	CanvasPadding = 32.0

	// CanvasWorkingWidth is the reference inner width used when no live
	// viewport width is available (exports, tests, headless reflow).
	CanvasWorkingWidth = 1400.0

	// AlignSpacing is the horizontal and vertical gap between blocks.
	AlignSpacing = 24.0

	// MaxBlockDimension caps the initial size of freshly decoded blocks.
	MaxBlockDimension = 420.0

	// MinCanvasInnerWidth guarantees a row can always hold one minimum-size block.
	MinCanvasInnerWidth = MinBlockSize + BlockPadding*2
)

// DefaultAnimationBudget is the default number of blocks allowed to hold a
// full decoded frame sequence at once. Override with WithAnimationBudget.
const DefaultAnimationBudget = 20
