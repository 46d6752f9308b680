// Package imaging decodes image files into frame sequences ready for the
// board.
//
// # Formats
//
// PNG, JPEG, GIF, WebP, BMP and TIFF are supported. GIF is the only format
// decoded as an animation; everything else yields a single frame. Animated
// decodes are capped at MaxAnimationFrames.
//
// # Loading
//
// Loader runs decodes on a small worker pool so the UI loop never blocks on
// disk or CPU. Results are collected with Drain, which never blocks either.
package imaging
