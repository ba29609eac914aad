// Package render draws Clobber positions into images.
package render

import (
	"image"
	"image/color"

	"github.com/hailam/clobberplay/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	TargetColor    color.RGBA
	LastMoveColor  color.RGBA
	Background     color.RGBA
	TextColor      color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180}, // Yellow highlight
		TargetColor:    color.RGBA{130, 151, 105, 200}, // Green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		Background:     color.RGBA{40, 44, 52, 255},
		TextColor:      color.RGBA{220, 220, 220, 255},
	}
}

// Layout maps squares to pixels. The board starts at (Margin, Margin).
type Layout struct {
	SquareSize int
	Margin     int
	Flip       bool // Black at the bottom
}

// BoardSize returns the width of the eight squares in pixels.
func (l Layout) BoardSize() int {
	return board.Size * l.SquareSize
}

// ImageSize returns the width of the whole image, margins included.
func (l Layout) ImageSize() int {
	return l.BoardSize() + 2*l.Margin
}

// SquareToScreen returns the top-left pixel of sq.
func (l Layout) SquareToScreen(sq board.Square) (int, int) {
	col, row := sq.File(), 7-sq.Rank() // rank 1 at the bottom
	if l.Flip {
		col, row = 7-col, 7-row
	}
	return l.Margin + col*l.SquareSize, l.Margin + row*l.SquareSize
}

// SquareRect returns the pixel rectangle covered by sq.
func (l Layout) SquareRect(sq board.Square) image.Rectangle {
	x, y := l.SquareToScreen(sq)
	return image.Rect(x, y, x+l.SquareSize, y+l.SquareSize)
}

// ScreenToSquare converts pixel coordinates to a square, or NoSquare when
// the point is off the board.
func (l Layout) ScreenToSquare(x, y int) board.Square {
	x -= l.Margin
	y -= l.Margin
	if x < 0 || x >= l.BoardSize() || y < 0 || y >= l.BoardSize() || l.SquareSize <= 0 {
		return board.NoSquare
	}
	col, row := x/l.SquareSize, y/l.SquareSize
	if l.Flip {
		col, row = 7-col, 7-row
	}
	return board.NewSquare(col, 7-row)
}

// squareColor returns the base color of sq. a1 is dark.
func (t *Theme) squareColor(sq board.Square) color.RGBA {
	if (sq.File()+sq.Rank())%2 == 0 {
		return t.DarkSquare
	}
	return t.LightSquare
}
