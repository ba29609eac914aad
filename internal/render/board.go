package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/clobberplay/internal/board"
)

// labelMargin is the smallest margin that fits the coordinate labels.
const labelMargin = 16

// Options control what Board draws besides squares and stones.
type Options struct {
	Layout
	Theme    *Theme   // nil = DefaultTheme
	Sprites  *Sprites // nil = shared cache
	Last     board.Move
	Selected board.Bitboard // highlighted squares
	Targets  board.Bitboard // squares marked with a dot
}

// DefaultOptions returns 48 pixel squares with room for labels.
func DefaultOptions() Options {
	return Options{
		Layout: Layout{SquareSize: 48, Margin: labelMargin + 4},
	}
}

var sharedSprites = NewSprites()

// Board renders pos into a new image.
func Board(pos *board.Position, opts Options) (*image.RGBA, error) {
	theme := opts.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	sprites := opts.Sprites
	if sprites == nil {
		sprites = sharedSprites
	}

	size := opts.ImageSize()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(theme.Background), image.Point{}, draw.Src)

	for sq := board.A1; sq <= board.H8; sq++ {
		draw.Draw(img, opts.SquareRect(sq), image.NewUniform(theme.squareColor(sq)), image.Point{}, draw.Src)
	}

	if opts.Last != board.NoMove {
		fillSquare(img, opts.Layout, opts.Last.From(), theme.LastMoveColor)
		fillSquare(img, opts.Layout, opts.Last.To(), theme.LastMoveColor)
	}
	for _, sq := range opts.Selected.Squares() {
		fillSquare(img, opts.Layout, sq, theme.SelectedSquare)
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		side, ok := pos.SideAt(sq)
		if !ok {
			continue
		}
		stone, err := sprites.Stone(side, opts.SquareSize)
		if err != nil {
			return nil, err
		}
		draw.Draw(img, opts.SquareRect(sq), stone, image.Point{}, draw.Over)
	}

	drawTargets(img, opts.Layout, opts.Targets, theme.TargetColor)

	if opts.Margin >= labelMargin {
		drawLabels(img, opts.Layout, theme.TextColor)
	}
	return img, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG renders pos and writes it to path.
func SavePNG(path string, pos *board.Position, opts Options) error {
	img, err := Board(pos, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fillSquare(img draw.Image, l Layout, sq board.Square, c color.RGBA) {
	if !sq.IsValid() {
		return
	}
	draw.Draw(img, l.SquareRect(sq), image.NewUniform(color.NRGBA(c)), image.Point{}, draw.Over)
}

// drawTargets marks capture targets with anti-aliased dots.
func drawTargets(img *image.RGBA, l Layout, targets board.Bitboard, c color.RGBA) {
	if targets.Empty() {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	filler := rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds()))
	filler.SetColor(color.NRGBA(c))

	half := float64(l.SquareSize) / 2
	for _, sq := range targets.Squares() {
		x, y := l.SquareToScreen(sq)
		rasterx.AddCircle(float64(x)+half, float64(y)+half, half*0.3, filler)
	}
	filler.Draw()
}

// drawLabels writes file letters under the board and rank numbers to its left.
func drawLabels(img *image.RGBA, l Layout, c color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(c), Face: face}

	for i := 0; i < board.Size; i++ {
		x, _ := l.SquareToScreen(board.NewSquare(i, 0))
		d.Dot = fixed.P(x+l.SquareSize/2-3, l.Margin+l.BoardSize()+13)
		d.DrawString(string(rune('a' + i)))

		_, y := l.SquareToScreen(board.NewSquare(0, i))
		d.Dot = fixed.P(l.Margin-11, y+l.SquareSize/2+5)
		d.DrawString(string(rune('1' + i)))
	}
}
