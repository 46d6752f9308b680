package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blockboard/blockboard/pkg/board"
	"github.com/blockboard/blockboard/pkg/cache"
	"github.com/blockboard/blockboard/pkg/imaging"
	"github.com/blockboard/blockboard/pkg/session"
)

// Movement and resize steps in world units. A vertical drag step spans a
// full quantized row so one keypress moves a block to the next row.
const (
	dragStepX  = 56.0
	dragStepY  = board.RowQuantizeHeight
	resizeStep = 24.0

	minTick     = 30 * time.Millisecond
	defaultTick = 120 * time.Millisecond
)

// tickMsg drives the update step: one loader drain, one reflow, one
// animation advance per tick.
type tickMsg time.Time

// =============================================================================
// boardModel - Interactive board canvas
// =============================================================================

// boardModel is the bubbletea model for the board canvas. World coordinates
// are projected onto a terminal cell grid; all mutation goes through the
// board.Manager so the on-screen state always matches what a save captures.
type boardModel struct {
	cli    *CLI
	cfg    *Config
	store  *session.FileStore
	thumbs *cache.ThumbnailCache
	loader *imaging.Loader
	name   string

	mgr       *board.Manager
	zoom      float64
	showNames bool

	cursor   int
	width    int
	height   int
	status   string
	dirty    bool
	lastTick time.Time
}

func newBoardModel(c *CLI, cfg *Config, store *session.FileStore, thumbs *cache.ThumbnailCache,
	loader *imaging.Loader, name string, mgr *board.Manager, zoom float64, showNames bool) boardModel {
	return boardModel{
		cli:       c,
		cfg:       cfg,
		store:     store,
		thumbs:    thumbs,
		loader:    loader,
		name:      name,
		mgr:       mgr,
		zoom:      zoom,
		showNames: showNames,
		width:     80,
		height:    24,
		lastTick:  time.Now(),
	}
}

func (m boardModel) Init() tea.Cmd {
	return tick(defaultTick)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// innerWidth is the usable row width inside the canvas margins.
func (m boardModel) innerWidth() float64 {
	return m.cfg.CanvasWidth - 2*board.CanvasPadding
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m.step(time.Time(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// step runs one update cycle: drain finished decodes, advance animations by
// the elapsed wall time, and reflow once.
func (m boardModel) step(now time.Time) (tea.Model, tea.Cmd) {
	dt := now.Sub(m.lastTick)
	m.lastTick = now

	for _, res := range m.loader.Drain() {
		m.applyResult(res)
	}

	for _, b := range m.mgr.Blocks() {
		b.UpdateAnimation(dt)
	}

	// A block mid-drag holds its position; reflow resumes on drop.
	if !m.mgr.AnyDragging() {
		m.mgr.Reflow(m.innerWidth())
	}
	m.clampCursor()
	return m, tick(m.nextTick())
}

// nextTick schedules the next update from the soonest frame flip, clamped so
// loader results are still polled while nothing animates.
func (m boardModel) nextTick() time.Duration {
	next := defaultTick
	for _, b := range m.mgr.Blocks() {
		if d, ok := b.TimeUntilNextFrame(); ok && d < next {
			next = d
		}
	}
	if next < minTick {
		next = minTick
	}
	return next
}

// applyResult routes one decode result: fill a waiting skeleton if any block
// claims the path, otherwise add a fresh block sized to match the board.
func (m *boardModel) applyResult(res imaging.Result) {
	if res.Err != nil {
		m.status = fmt.Sprintf("failed to load %s: %v", filepath.Base(res.Path), res.Err)
		return
	}

	claimed := false
	for _, b := range m.mgr.Blocks() {
		if b.NeedsFramesForPath(res.Path, res.FullSequence) {
			b.PopulateFramesByPath(res.Path, res.Loaded.Frames, res.Loaded.HasAnimation, res.FullSequence)
			claimed = true
		}
	}
	if !claimed {
		m.addBlock(res)
	}
	if res.FullSequence && len(res.Loaded.Frames) > 1 {
		m.touchAnimation(res.Path)
	}
	m.cacheThumbnail(res)
	m.dirty = true
}

// addBlock creates a block from a decode and matches its height to the
// tallest block already on the board so rows stay aligned.
func (m *boardModel) addBlock(res imaging.Result) {
	size := imaging.ScaledBlockSize(res.Loaded.OriginalSize)
	b := board.New(res.Path, res.Loaded.Frames, size, res.Loaded.HasAnimation, res.FullSequence)

	if maxH := m.mgr.MaxBlockHeight(); maxH > 0 {
		b.SetPreferredSize(board.Vec2{X: maxH * b.AspectRatio, Y: maxH})
	}
	m.mgr.Push(b)
	m.status = fmt.Sprintf("added %s", b.DisplayName())
}

// touchAnimation marks every enabled animation for the path as recently used.
func (m *boardModel) touchAnimation(path string) {
	for _, b := range m.mgr.Blocks() {
		if !b.IsGroup && b.Path == path && b.Anim.Enabled {
			m.mgr.MarkAnimationUsed(b.ID)
		}
	}
}

// cacheThumbnail stores the first frame of a first-frame-only decode so the
// next session load can skip the decoder entirely.
func (m *boardModel) cacheThumbnail(res imaging.Result) {
	if res.FullSequence || len(res.Loaded.Frames) == 0 {
		return
	}
	key, err := m.thumbs.Key(res.Path, m.cfg.MaxBlockDimension)
	if err != nil {
		return
	}
	_ = m.thumbs.Set(context.Background(), key, res.Loaded.Frames[0].Image)
}

// =============================================================================
// Key Handling
// =============================================================================

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.save()
		return m, tea.Quit

	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursorVertical(-1)
	case "down", "j":
		m.moveCursorVertical(1)

	case "H", "shift+left":
		m = m.dragSelected(board.Vec2{X: -dragStepX})
	case "L", "shift+right":
		m = m.dragSelected(board.Vec2{X: dragStepX})
	case "K", "shift+up":
		m = m.dragSelected(board.Vec2{Y: -dragStepY})
	case "J", "shift+down":
		m = m.dragSelected(board.Vec2{Y: dragStepY})

	case "+", "=":
		m = m.resizeSelected(resizeStep)
	case "-", "_":
		m = m.resizeSelected(-resizeStep)

	case "c":
		if b := m.selected(); b != nil && m.mgr.CanChain() {
			m.mgr.ToggleChain(b.ID)
			m.dirty = true
		}
	case "C":
		m.mgr.ClearChainGroup()
		m.status = "chain cleared"
		m.dirty = true

	case "b":
		m.mgr.ToggleBoxing()
		m.mgr.Reflow(m.innerWidth())
		m.clampCursor()
		m.dirty = true

	case "x":
		m = m.closeSelected()

	case "a":
		m = m.toggleAnimation()

	case "n":
		m.showNames = !m.showNames
		m.dirty = true

	case "]":
		if b := m.selected(); b != nil && !b.IsGroup {
			b.Counter++
			m.dirty = true
		}
	case "[":
		if b := m.selected(); b != nil && !b.IsGroup && b.Counter > 0 {
			b.Counter--
			m.dirty = true
		}
	case "r":
		m.mgr.ResetAllCounters()
		m.status = "counters reset"
		m.dirty = true

	case "y":
		if b := m.selected(); b != nil && !b.IsGroup {
			if err := clipboard.WriteAll(b.Path); err != nil {
				m.status = fmt.Sprintf("clipboard: %v", err)
			} else {
				m.status = "path copied"
			}
		}

	case "z":
		m.zoom = session.NormalizeZoom(m.zoom - 0.1)
		m.dirty = true
	case "Z":
		m.zoom = session.NormalizeZoom(m.zoom + 0.1)
		m.dirty = true

	case "s":
		m.save()
	}
	return m, nil
}

// dragSelected moves the selected block by one step, lets the engine handle
// chain propagation and group drops, then re-sorts the row order around it.
func (m boardModel) dragSelected(delta board.Vec2) boardModel {
	b := m.selected()
	if b == nil {
		return m
	}
	id := b.ID
	center := b.Rect().Center()
	m.mgr.StartDrag(id, center)
	m.mgr.DragTo(id, center.Add(delta))
	m.mgr.EndDrag(id, center.Add(delta))
	m.mgr.EnforceChainConstraints()

	// The drop may have absorbed the block into a group.
	if m.mgr.Get(id) != nil {
		m.mgr.ReorderAndReflow(id, m.innerWidth())
		m.cursor = m.mgr.IndexOf(id)
	} else {
		m.mgr.Reflow(m.innerWidth())
	}
	m.clampCursor()
	m.dirty = true
	return m
}

// resizeSelected grows or shrinks the selected block by dragging its
// bottom-right handle; the engine keeps aspect and propagates height through
// the chain.
func (m boardModel) resizeSelected(step float64) boardModel {
	b := m.selected()
	if b == nil {
		return m
	}
	r := b.Rect()
	state := board.ResizeState{
		ID:           b.ID,
		Handle:       board.HandleBottomRight,
		InitialMouse: r.Max(),
		InitialRect:  r,
	}
	m.mgr.ApplyResize(state, r.Max().Add(board.Vec2{X: step, Y: step / 2}), 1)
	m.dirty = true
	return m
}

func (m boardModel) closeSelected() boardModel {
	b := m.selected()
	if b == nil {
		return m
	}
	name := b.DisplayName()
	removed := m.mgr.Close(b.ID)
	m.mgr.EnforceChainConstraints()
	m.mgr.Reflow(m.innerWidth())
	m.clampCursor()
	if len(removed) > 1 {
		m.status = fmt.Sprintf("closed %s (+%d more)", name, len(removed)-1)
	} else {
		m.status = fmt.Sprintf("closed %s", name)
	}
	m.dirty = true
	return m
}

// toggleAnimation flips playback for the selected block. Skeletons holding
// only a preview frame re-request the full sequence; enabling playback
// counts as a cache touch.
func (m boardModel) toggleAnimation() boardModel {
	b := m.selected()
	if b == nil || b.IsGroup || !b.Anim.HasAnimation {
		return m
	}
	if !b.FullSequence {
		m.loader.Load(b.Path, false)
		b.Anim.Enabled = true
		m.status = fmt.Sprintf("loading frames for %s", b.DisplayName())
	} else {
		b.ToggleAnimation()
	}
	if b.Anim.Enabled {
		m.mgr.MarkAnimationUsed(b.ID)
	}
	m.dirty = true
	return m
}

func (m *boardModel) save() {
	doc := session.Snapshot(m.mgr, m.zoom, m.showNames)
	if err := m.store.Save(m.name, doc); err != nil {
		m.cli.Logger.Error("save failed", "board", m.name, "error", err)
		m.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.cli.Logger.Debug("board saved", "board", m.name, "blocks", m.mgr.Len())
	m.status = fmt.Sprintf("saved %s", m.name)
	m.dirty = false
}

// =============================================================================
// Selection
// =============================================================================

func (m boardModel) selected() *board.Block {
	return m.mgr.ByIndex(m.cursor)
}

func (m *boardModel) clampCursor() {
	if m.cursor >= m.mgr.Len() {
		m.cursor = m.mgr.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *boardModel) moveCursor(delta int) {
	if m.mgr.Len() == 0 {
		return
	}
	m.cursor = (m.cursor + delta + m.mgr.Len()) % m.mgr.Len()
}

// moveCursorVertical selects the nearest block in the row above or below.
func (m *boardModel) moveCursorVertical(dir int) {
	cur := m.selected()
	if cur == nil {
		return
	}
	center := cur.Rect().Center()
	best, bestDist := -1, 0.0
	for i, b := range m.mgr.Blocks() {
		if i == m.cursor {
			continue
		}
		c := b.Rect().Center()
		if dir < 0 && c.Y >= center.Y {
			continue
		}
		if dir > 0 && c.Y <= center.Y {
			continue
		}
		dx, dy := c.X-center.X, c.Y-center.Y
		dist := dx*dx + dy*dy
		if best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		m.cursor = best
	}
}

// =============================================================================
// View
// =============================================================================

type cell struct {
	ch   rune
	fg   string
	bg   string
	bold bool
}

func (m boardModel) View() string {
	var out strings.Builder

	out.WriteString(m.headerView())
	out.WriteString("\n")
	out.WriteString(m.canvasView())
	out.WriteString("\n")
	out.WriteString(m.footerView())
	return out.String()
}

func (m boardModel) headerView() string {
	title := m.name
	if m.dirty {
		title += "*"
	}
	groups, chained := 0, 0
	for _, b := range m.mgr.Blocks() {
		if b.IsGroup {
			groups++
		}
		if b.Chained {
			chained++
		}
	}
	stats := fmt.Sprintf("%d blocks · %d groups · %d chained · zoom %.1f",
		m.mgr.Len(), groups, chained, m.zoom)
	return StyleTitle.Render(title) + "  " + StyleDim.Render(stats)
}

func (m boardModel) footerView() string {
	help := "arrows select · shift+arrows move · +/- resize · c chain · b box · a anim · x close · s save · q quit"
	line := StyleDim.Render(help)
	if m.status != "" {
		line += "\n" + StyleValue.Render(m.status)
	}
	return line
}

// canvasView projects block rectangles onto a cell grid. Terminal cells are
// roughly twice as tall as wide, so vertical scale is halved.
func (m boardModel) canvasView() string {
	gridW := m.width
	if gridW < 20 {
		gridW = 20
	}
	gridH := m.height - 4
	if gridH < 5 {
		gridH = 5
	}

	sx := float64(gridW) / m.cfg.CanvasWidth * m.zoom
	sy := sx / 2

	grid := make([][]cell, gridH)
	for y := range grid {
		grid[y] = make([]cell, gridW)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' '}
		}
	}

	for i, b := range m.mgr.Blocks() {
		m.drawBlock(grid, b, sx, sy, i == m.cursor)
	}

	var out strings.Builder
	for y, row := range grid {
		if y > 0 {
			out.WriteString("\n")
		}
		out.WriteString(renderRow(row))
	}
	return out.String()
}

func (m boardModel) drawBlock(grid [][]cell, b *board.Block, sx, sy float64, sel bool) {
	r := b.Rect()
	x0, y0 := int(r.Min.X*sx), int(r.Min.Y*sy)
	x1, y1 := int(r.Max().X*sx), int(r.Max().Y*sy)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	bg := b.Color.Hex()
	fg := contrastColor(b)

	for y := y0; y < y1 && y < len(grid); y++ {
		if y < 0 {
			continue
		}
		for x := x0; x < x1 && x < len(grid[y]); x++ {
			if x < 0 {
				continue
			}
			grid[y][x] = cell{ch: ' ', bg: bg}
		}
	}

	label := m.blockLabel(b, sel)
	if label != "" && y0 >= 0 && y0 < len(grid) {
		for i, ch := range label {
			x := x0 + i
			if x < 0 || x >= len(grid[y0]) || x >= x1 {
				break
			}
			grid[y0][x] = cell{ch: ch, fg: fg, bg: bg, bold: sel}
		}
	}
}

// blockLabel builds the short text drawn on a block's top row.
func (m boardModel) blockLabel(b *board.Block, sel bool) string {
	var parts []string
	if sel {
		parts = append(parts, "▸")
	}
	if b.IsGroup {
		parts = append(parts, fmt.Sprintf("[%d]", len(b.Children)))
	}
	if b.Chained {
		parts = append(parts, "~")
	}
	if b.Counter > 0 {
		parts = append(parts, fmt.Sprintf("+%d", b.Counter))
	}
	if m.showNames || sel || b.IsGroup {
		parts = append(parts, b.DisplayName())
	}
	return strings.Join(parts, " ")
}

// contrastColor picks a readable label color for the block's fill.
func contrastColor(b *board.Block) string {
	lum := 0.299*b.Color.R + 0.587*b.Color.G + 0.114*b.Color.B
	if lum > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}

// renderRow converts one grid row into a styled string, batching runs of
// cells that share a style so the output stays small.
func renderRow(row []cell) string {
	var out strings.Builder
	var run strings.Builder
	var cur cell

	flush := func() {
		if run.Len() == 0 {
			return
		}
		style := lipgloss.NewStyle()
		if cur.fg != "" {
			style = style.Foreground(lipgloss.Color(cur.fg))
		}
		if cur.bg != "" {
			style = style.Background(lipgloss.Color(cur.bg))
		}
		if cur.bold {
			style = style.Bold(true)
		}
		out.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for i, c := range row {
		if i == 0 || c.fg != cur.fg || c.bg != cur.bg || c.bold != cur.bold {
			flush()
			cur = c
		}
		run.WriteRune(c.ch)
	}
	flush()
	return out.String()
}
