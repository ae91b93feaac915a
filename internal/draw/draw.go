// Package draw renders to ANSI terminals using half-block characters.
package draw

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a palette entry. The zero value is an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorCyan
	ColorBlue
	ColorYellow
	ColorRed
	ColorMagenta
)

// ANSI SGR sequences.
const (
	ColorReset      = "\033[0m"
	ColorBrightCyan = "\033[96m"
	ColorBold       = "\033[1m"
)

// fgCodes and bgCodes map palette entries to ANSI SGR parameters.
var (
	fgCodes = [...]int{ColorNone: 39, ColorWhite: 97, ColorGray: 90, ColorCyan: 96, ColorBlue: 94, ColorYellow: 93, ColorRed: 91, ColorMagenta: 95}
	bgCodes = [...]int{ColorNone: 49, ColorWhite: 107, ColorGray: 100, ColorCyan: 106, ColorBlue: 104, ColorYellow: 103, ColorRed: 101, ColorMagenta: 105}
)

// FG returns the SGR code for c as a foreground color.
func (c Color) FG() int {
	if int(c) >= len(fgCodes) {
		return fgCodes[ColorNone]
	}
	return fgCodes[c]
}

// BG returns the SGR code for c as a background color.
func (c Color) BG() int {
	if int(c) >= len(bgCodes) {
		return bgCodes[ColorNone]
	}
	return bgCodes[c]
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// MoveCursor moves cursor to a specific position (1-based).
func MoveCursor(w io.Writer, x, y int) {
	fmt.Fprintf(w, "\033[%d;%dH", y, x)
}

// TerminalSize returns the terminal width and height of os.Stdout.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
