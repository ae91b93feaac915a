package draw

import (
	"io"
	"math"
	"strings"
)

// cell is what a terminal cell currently shows: the colors of its upper
// and lower half-pixel.
type cell struct {
	top, bottom Color
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Game code draws in logical coordinates; the canvas scales
// them to whatever terminal size it currently has.
//
// Render only emits cells that changed since the previous frame.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	shown          []cell  // What the terminal displays, per cell
	dirty          []bool  // Cells overwritten by text since the last render

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets of the render area when it is centered
	// inside a larger terminal.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	fullDraw  bool // Next Render repaints every cell
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.shown = make([]cell, termHeight*termWidth)
		c.dirty = make([]bool, termHeight*termWidth)
		c.fullDraw = true
	}
	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.fullDraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.fullDraw = true
}

// MarkTextDirty records that text was written over n cells starting at the
// 1-based canvas cell (col, row), so those cells are repainted next frame.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+n; x++ {
		if x >= 0 && x < c.termWidth {
			c.dirty[r*c.termWidth+x] = true
		}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

// Set sets a pixel using logical coordinates.
func (c *Canvas) Set(x, y float64, color Color) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), color)
}

// FillRect fills the logical box [min, max). Boxes smaller than a pixel
// still cover at least one.
func (c *Canvas) FillRect(min, max Point, color Color) {
	x0 := int(math.Floor(min.X * c.scaleX))
	y0 := int(math.Floor(min.Y * c.scaleY))
	x1 := int(math.Ceil(max.X*c.scaleX)) - 1
	y1 := int(math.Ceil(max.Y*c.scaleY)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= c.termWidth {
		x1 = c.termWidth - 1
	}
	if y1 >= c.subPixelHeight {
		y1 = c.subPixelHeight - 1
	}
	for y := y0; y <= y1; y++ {
		row := c.pixels[y*c.termWidth : (y+1)*c.termWidth]
		for x := x0; x <= x1; x++ {
			row[x] = color
		}
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, color Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, color)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Cell returns the colors of the upper and lower half of the 0-based
// terminal cell at col, row. Out-of-range cells are empty.
func (c *Canvas) Cell(col, row int) (top, bottom Color) {
	if col < 0 || col >= c.termWidth || row < 0 || row >= c.termHeight {
		return ColorNone, ColorNone
	}
	top = c.pixels[row*2*c.termWidth+col]
	bottom = c.pixels[(row*2+1)*c.termWidth+col]
	return top, bottom
}

// Render writes the changed cells to w using half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			idx := row*c.termWidth + col
			next := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			if !c.fullDraw && !c.dirty[idx] && next == c.shown[idx] {
				continue
			}
			c.shown[idx] = next
			c.dirty[idx] = false
			writeCell(&c.renderBuf, row+1+c.offsetRow, col+1+c.offsetCol, next)
		}
	}
	c.fullDraw = false

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// writeCell emits the cursor move, colors and glyph for one cell.
func writeCell(b *strings.Builder, row, col int, cl cell) {
	b.WriteString("\033[")
	b.WriteString(itoa(row))
	b.WriteByte(';')
	b.WriteString(itoa(col))
	b.WriteByte('H')

	switch {
	case cl.top == ColorNone && cl.bottom == ColorNone:
		b.WriteString(ColorReset)
		b.WriteRune(BlockEmpty)
		return
	case cl.bottom == ColorNone:
		sgr(b, cl.top.FG())
		b.WriteRune(BlockUpperHalf)
	case cl.top == ColorNone:
		sgr(b, cl.bottom.FG())
		b.WriteRune(BlockLowerHalf)
	case cl.top == cl.bottom:
		sgr(b, cl.top.FG())
		b.WriteRune(BlockFull)
	default:
		sgr(b, cl.top.FG(), cl.bottom.BG())
		b.WriteRune(BlockUpperHalf)
	}
	b.WriteString(ColorReset)
}

func sgr(b *strings.Builder, params ...int) {
	b.WriteString("\033[")
	for i, p := range params {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(itoa(p))
	}
	b.WriteByte('m')
}

func itoa(n int) string {
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString("\033[" + itoa(top) + ";" + itoa(left) + "H┌" + line + "┐")
			buf.WriteString("\033[" + itoa(bottom) + ";" + itoa(left) + "H└" + line + "┘")
		} else {
			buf.WriteString("\033[" + itoa(top) + ";" + itoa(c.offsetCol+1) + "H" + line)
			buf.WriteString("\033[" + itoa(bottom) + ";" + itoa(c.offsetCol+1) + "H" + line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			buf.WriteString("\033[" + itoa(row) + ";" + itoa(left) + "H│")
			buf.WriteString("\033[" + itoa(row) + ";" + itoa(right) + "H│")
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the render area column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas cell
// (col, row), for placing text over canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts an absolute 1-based terminal cell (as reported
// by mouse events) to the logical coordinates of the cell center.
// ok is false when the cell lies outside the render area.
func (c *Canvas) TerminalToLogical(col, row int) (p Point, ok bool) {
	x := col - 1 - c.offsetCol
	y := row - 1 - c.offsetRow
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.termHeight {
		return Point{}, false
	}
	return Point{
		X: (float64(x) + 0.5) / c.scaleX,
		Y: (float64(y)*2 + 1) / c.scaleY,
	}, true
}
