package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal rendering maps the fixed logical canvas onto whatever cell grid
// the viewport offers. The same transform runs both ways: logical positions
// to cells when drawing, pointer cells back to logical units for the drag
// controller and hit tests.
type viewTransform struct {
	cols  int
	rows  int
	unitX float64 // logical units per cell, horizontal
	unitY float64
}

func newViewTransform(cols, rows int) viewTransform {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return viewTransform{
		cols:  cols,
		rows:  rows,
		unitX: canvasWidth / float64(cols),
		unitY: canvasHeight / float64(rows),
	}
}

// toLogical maps a pointer cell to the logical coordinate of its center.
func (t viewTransform) toLogical(cellX, cellY int) (float64, float64) {
	return (float64(cellX) + 0.5) * t.unitX, (float64(cellY) + 0.5) * t.unitY
}

func (t viewTransform) toCellX(x float64) int {
	c := int(x / t.unitX)
	if c < 0 {
		c = 0
	}
	if c >= t.cols {
		c = t.cols - 1
	}
	return c
}

func (t viewTransform) toCellY(y float64) int {
	c := int(y / t.unitY)
	if c < 0 {
		c = 0
	}
	if c >= t.rows {
		c = t.rows - 1
	}
	return c
}

type renderOpts struct {
	pendingItem  int64 // connection-mode first endpoint
	selectedItem int64
	selectedConn int64
	draggingItem int64
}

// renderBoardLines draws connections first, then items on top, into a rune
// grid sized to the viewport.
func renderBoardLines(state BoardState, t viewTransform, opts renderOpts) []string {
	grid := make([][]rune, t.rows)
	for y := range grid {
		grid[y] = make([]rune, t.cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, conn := range state.Connections {
		x1, y1, x2, y2, ok := connectionEndpoints(conn, state.Items)
		if !ok {
			continue
		}
		mark := '·'
		if conn.ID == opts.selectedConn {
			mark = '●'
		}
		drawGridLine(grid, t.toCellX(x1), t.toCellY(y1), t.toCellX(x2), t.toCellY(y2), mark)
	}

	for _, item := range state.Items {
		drawGridItem(grid, t, item, opts)
	}

	lines := make([]string, t.rows)
	for y := range grid {
		lines[y] = string(grid[y])
	}
	return lines
}

// drawGridLine plots a straight cell run between two points (Bresenham),
// only over empty cells so item borders stay intact.
func drawGridLine(grid [][]rune, x1, y1, x2, y2 int, mark rune) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == ' ' {
			grid[y][x] = mark
		}
		if x == x2 && y == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func drawGridItem(grid [][]rune, t viewTransform, item BoardItem, opts renderOpts) {
	left := t.toCellX(item.Position.X)
	top := t.toCellY(item.Position.Y)
	right := t.toCellX(item.Position.X + itemWidth)
	bottom := t.toCellY(item.Position.Y + itemHeight)
	if right-left < 2 {
		right = left + 2
	}
	if bottom-top < 2 {
		bottom = top + 2
	}

	h, v := '─', '│'
	tl, tr, bl, br := '┌', '┐', '└', '┘'
	switch item.ID {
	case opts.pendingItem:
		h, v = '═', '║'
		tl, tr, bl, br = '╔', '╗', '╚', '╝'
	case opts.selectedItem, opts.draggingItem:
		h, v = '─', '│'
		tl, tr, bl, br = '┏', '┓', '┗', '┛'
	}

	for x := left; x <= right; x++ {
		setCell(grid, x, top, h)
		setCell(grid, x, bottom, h)
	}
	for y := top; y <= bottom; y++ {
		setCell(grid, left, y, v)
		setCell(grid, right, y, v)
	}
	setCell(grid, left, top, tl)
	setCell(grid, right, top, tr)
	setCell(grid, left, bottom, bl)
	setCell(grid, right, bottom, br)

	for y := top + 1; y < bottom; y++ {
		for x := left + 1; x < right; x++ {
			setCell(grid, x, y, ' ')
		}
	}

	glyph := "▣ "
	if item.Kind == KindEvidence {
		glyph = "◆ "
	}
	label := glyph + item.Title()
	maxLen := right - left - 1
	if maxLen > 0 {
		runes := []rune(label)
		if len(runes) > maxLen {
			runes = runes[:maxLen]
		}
		for i, r := range runes {
			setCell(grid, left+1+i, top+1, r)
		}
	}
}

func setCell(grid [][]rune, x, y int, r rune) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
		grid[y][x] = r
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var (
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")).Bold(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Background(lipgloss.Color("236"))
	connModeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("216")).Background(lipgloss.Color("236")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("216"))
)

// statusBar pads the assembled segments to the viewport width.
func statusBar(width int, segments ...string) string {
	line := strings.Join(segments, "  ")
	plain := lipgloss.Width(line)
	if plain < width {
		line += statusStyle.Render(strings.Repeat(" ", width-plain))
	}
	return line
}
