package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/render"
)

// Renderer handles all drawing operations.
type Renderer struct {
	layout      render.Layout
	theme       *render.Theme
	stones      [2]*ebiten.Image
	renderScale float64 // stones are rasterized this much larger and scaled down
	scale       float64 // HiDPI scale factor
}

// NewRenderer creates a new renderer with square-pixel squares.
func NewRenderer(squareSize int) *Renderer {
	r := &Renderer{
		layout:      render.Layout{SquareSize: squareSize},
		theme:       render.DefaultTheme(),
		renderScale: 3.0,
		scale:       1.0,
	}
	r.loadStones()
	return r
}

func (r *Renderer) loadStones() {
	sprites := render.NewSprites()
	size := int(float64(r.layout.SquareSize) * r.renderScale)
	for _, side := range []board.Side{board.White, board.Black} {
		img, err := sprites.Stone(side, size)
		if err != nil {
			log.Error().Err(err).Str("side", side.String()).Msg("render stone")
			continue
		}
		r.stones[side] = ebiten.NewImageFromImage(img)
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
}

// SetFlipped puts Black at the bottom.
func (r *Renderer) SetFlipped(flip bool) {
	r.layout.Flip = flip
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// DrawBoard draws the squares.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for sq := board.A1; sq <= board.H8; sq++ {
		c := r.theme.LightSquare
		if (sq.File()+sq.Rank())%2 == 0 {
			c = r.theme.DarkSquare
		}
		r.fillSquare(screen, sq, c)
	}
}

// DrawHighlights draws the last move, the selection and capture targets.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected board.Square, targets board.Bitboard, lastMove board.Move) {
	if lastMove != board.NoMove {
		r.fillSquare(screen, lastMove.From(), r.theme.LastMoveColor)
		r.fillSquare(screen, lastMove.To(), r.theme.LastMoveColor)
	}
	if selected != board.NoSquare {
		r.fillSquare(screen, selected, r.theme.SelectedSquare)
	}
	for _, sq := range targets.Squares() {
		x, y := r.layout.SquareToScreen(sq)
		half := r.s(r.layout.SquareSize) / 2
		vector.DrawFilledCircle(screen, r.s(x)+half, r.s(y)+half, half*0.3, r.theme.TargetColor, true)
	}
}

// DrawStones draws every stone of pos.
func (r *Renderer) DrawStones(screen *ebiten.Image, pos *board.Position) {
	for sq := board.A1; sq <= board.H8; sq++ {
		side, ok := pos.SideAt(sq)
		if !ok || r.stones[side] == nil {
			continue
		}
		x, y := r.layout.SquareToScreen(sq)

		op := &ebiten.DrawImageOptions{}
		scale := r.scale / r.renderScale
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(r.s(x)), float64(r.s(y)))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(r.stones[side], op)
	}
}

// DrawStatus writes a line of text in the bar under the board.
func (r *Renderer) DrawStatus(screen *ebiten.Image, line string, y int) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Scale(r.scale, r.scale)
	op.GeoM.Translate(float64(r.s(12)), float64(r.s(y)))
	op.ColorScale.ScaleWithColor(r.theme.TextColor)
	text.Draw(screen, line, face, op)
}

// DrawOverlay dims the board and writes lines centered on it.
func (r *Renderer) DrawOverlay(screen *ebiten.Image, lines []string) {
	size := r.s(r.layout.BoardSize())
	vector.DrawFilledRect(screen, 0, 0, size, size, color.RGBA{0, 0, 0, 160}, false)

	face := GetBoldFace()
	if face == nil {
		return
	}
	lineHeight := face.Size * 1.6
	top := float64(r.layout.BoardSize())/2 - lineHeight*float64(len(lines))/2
	for i, line := range lines {
		w, _ := MeasureText(line, face)
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(r.layout.BoardSize())/2-w/2, top+float64(i)*lineHeight)
		op.GeoM.Scale(r.scale, r.scale)
		op.ColorScale.ScaleWithColor(r.theme.TextColor)
		text.Draw(screen, line, face, op)
	}
}

func (r *Renderer) fillSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if !sq.IsValid() {
		return
	}
	x, y := r.layout.SquareToScreen(sq)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.layout.SquareSize), r.s(r.layout.SquareSize), c, false)
}

// ScreenToSquare converts logical screen coordinates to a board square.
func (r *Renderer) ScreenToSquare(x, y int) board.Square {
	return r.layout.ScreenToSquare(x, y)
}

// BoardSize returns the board size in logical pixels.
func (r *Renderer) BoardSize() int {
	return r.layout.BoardSize()
}

// Theme returns the current theme.
func (r *Renderer) Theme() *render.Theme {
	return r.theme
}
