// Package pkg provides the core libraries for the Blockboard spatial canvas.
//
// # Overview
//
// Blockboard arranges images as blocks on a canvas: blocks pack into rows,
// chain together for linked operations, and collapse into groups. The pkg
// directory is organized into these areas:
//
//  1. [board] - Domain logic (blocks, groups, chains, layout, resize)
//  2. [imaging] - Image decoding and the background loader
//  3. [session] - Board persistence as JSON documents
//  4. [cache] - Byte cache backends and the thumbnail cache
//  5. [export] - PNG raster and Graphviz structure diagrams
//
// # Architecture
//
// The typical data flow through Blockboard:
//
//	Image files
//	         ↓
//	    [imaging] package (decode frames, scale down)
//	         ↓
//	    [board] package (blocks, rows, chains, groups)
//	         ↓
//	    [session] package (JSON snapshot per named board)
//	         ↓
//	    [export] package (PNG / SVG / DOT output)
//
// # Quick Start
//
// Build a board, box two chained blocks, and save it:
//
//	import (
//	    "github.com/blockboard/blockboard/pkg/board"
//	    "github.com/blockboard/blockboard/pkg/session"
//	)
//
//	// 1. Create a manager and add blocks
//	m := board.NewManager()
//	a := board.New("cat.png", frames, board.Vec2{X: 320, Y: 240}, false, true)
//	b := board.New("dog.png", frames, board.Vec2{X: 320, Y: 240}, false, true)
//	m.Push(a)
//	m.Push(b)
//	m.Reflow(1336)
//
//	// 2. Chain and box them into a group
//	m.ToggleChain(a.ID)
//	m.ToggleChain(b.ID)
//	m.Box()
//
//	// 3. Persist the board
//	store, _ := session.NewFileStore("")
//	store.Save("pets", session.Snapshot(m, 1.0, false))
//
// # Main Packages
//
// [board] - The engine: an ordered block list with row-packing reflow,
// chain membership and memory, group boxing/unboxing, aspect-preserving
// resize with chain propagation, and an LRU budget for decoded animations.
//
// [imaging] - Decoders for PNG, JPEG, GIF, WebP, BMP and TIFF with
// animation support for GIF, plus a worker-pool Loader whose results are
// polled once per update step.
//
// [session] - JSON snapshot documents and a file-per-board store.
//
// [cache] - Cache interface with file and null backends, and a thumbnail
// cache that keys previews by path, mtime and size.
//
// [export] - Shareable artifacts: a PNG raster of the canvas and a DOT
// structure diagram of groups and chains (renderable to SVG/PNG).
package pkg
