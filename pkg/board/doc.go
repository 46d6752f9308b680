// Package board implements the block relationship and layout engine behind
// blockboard: the data model for blocks, groups and chains, the deterministic
// row-packing reflow, drag and resize delta propagation across chained blocks,
// re-insertion ordering after a drag, and the LRU budget that bounds how many
// blocks may hold a full decoded animation sequence at once.
//
// The engine is single-threaded and synchronous. A Manager owns its block
// collection exclusively; every operation runs to completion inside one
// caller-driven update step. Pixel decoding never happens on this call path —
// the engine only consumes frames that a collaborator (pkg/imaging) already
// decoded.
//
// # Coordinates
//
// All positions and sizes are in world units with the origin at the canvas
// top-left corner. A block's rectangle is its image size plus a fixed padding
// on all four sides; layout always works with these outer rectangles.
//
// # Lookups
//
// Every lookup by ID tolerates absence: operating on a block that was removed
// mid-gesture is a silent no-op, never an error.
package board
