package draw

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// ChunkWriter accumulates one frame of terminal output and writes it in
// MTU-sized chunks on Flush. Cursor positions are canvas-relative; the
// centering offset is applied automatically.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte // Scratch buffer for allocation-free integer formatting
	offCol int
	offRow int
	width  int // Canvas width in cells, for centering
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// SetWidth sets the canvas width used by WriteCentered.
func (cw *ChunkWriter) SetWidth(width int) {
	cw.width = width
}

// MoveCursor appends an ANSI cursor position sequence (1-based canvas cell).
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// SGR appends a Select Graphic Rendition sequence with the given parameters.
func (cw *ChunkWriter) SGR(params ...int) {
	cw.buf.WriteString("\033[")
	for i, p := range params {
		if i > 0 {
			cw.buf.WriteByte(';')
		}
		cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(p), 10))
	}
	cw.buf.WriteByte('m')
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteRune appends a rune to the buffer.
func (cw *ChunkWriter) WriteRune(r rune) {
	cw.buf.WriteRune(r)
}

// WriteAt writes s starting at a 1-based canvas cell.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteCentered writes s horizontally centered on row in color c.
// Returns the starting column.
func (cw *ChunkWriter) WriteCentered(row int, s string, c Color) int {
	col := (cw.width-utf8.RuneCountInString(s))/2 + 1
	if col < 1 {
		col = 1
	}
	cw.MoveCursor(col, row)
	if c != ColorNone {
		cw.SGR(c.FG())
	}
	cw.buf.WriteString(s)
	if c != ColorNone {
		cw.buf.WriteString(ColorReset)
	}
	return col
}

// Len returns the number of buffered bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = TerminalSize
