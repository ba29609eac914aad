package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/hailam/clobberplay/internal/board"
)

func TestLayoutRoundTrip(t *testing.T) {
	for _, flip := range []bool{false, true} {
		l := Layout{SquareSize: 40, Margin: 10, Flip: flip}
		for sq := board.A1; sq <= board.H8; sq++ {
			x, y := l.SquareToScreen(sq)
			if got := l.ScreenToSquare(x+5, y+35); got != sq {
				t.Errorf("flip=%v: %s maps back to %s", flip, sq, got)
			}
		}
	}
}

func TestLayoutOrientation(t *testing.T) {
	l := Layout{SquareSize: 10}
	if x, y := l.SquareToScreen(board.A1); x != 0 || y != 70 {
		t.Errorf("a1 at (%d,%d), want bottom-left (0,70)", x, y)
	}
	l.Flip = true
	if x, y := l.SquareToScreen(board.A1); x != 70 || y != 0 {
		t.Errorf("flipped a1 at (%d,%d), want top-right (70,0)", x, y)
	}

	tests := []struct {
		x, y int
	}{
		{-1, 5}, {5, -1}, {80, 5}, {5, 80},
	}
	for _, tc := range tests {
		if sq := l.ScreenToSquare(tc.x, tc.y); sq != board.NoSquare {
			t.Errorf("(%d,%d) should be off the board, got %s", tc.x, tc.y, sq)
		}
	}
}

func TestBoardImage(t *testing.T) {
	pos, err := board.NewPositionFromMasks(board.SquareBB(board.B1), board.SquareBB(board.A1))
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Targets = board.SquareBB(board.C1)

	img, err := Board(pos, opts)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if got, want := img.Bounds().Dx(), opts.ImageSize(); got != want {
		t.Fatalf("width %d, want %d", got, want)
	}

	theme := DefaultTheme()
	center := func(sq board.Square) color.RGBA {
		r := opts.SquareRect(sq)
		return img.RGBAAt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
	}
	corner := func(sq board.Square) color.RGBA {
		r := opts.SquareRect(sq)
		return img.RGBAAt(r.Min.X+1, r.Min.Y+1)
	}

	if c := corner(board.A1); c != theme.DarkSquare {
		t.Errorf("a1 corner = %v, want dark square", c)
	}
	if c := corner(board.B1); c != theme.LightSquare {
		t.Errorf("b1 corner = %v, want light square", c)
	}
	if c := center(board.A1); c.R > 100 {
		t.Errorf("a1 holds a black stone, center = %v", c)
	}
	if c := center(board.B1); c.R < 180 {
		t.Errorf("b1 holds a white stone, center = %v", c)
	}
	if c := center(board.C1); c == theme.DarkSquare {
		t.Error("c1 target dot not drawn")
	}
	if c := center(board.E4); c != theme.DarkSquare {
		t.Errorf("empty e4 center = %v", c)
	}
}

func TestBoardLastMove(t *testing.T) {
	pos := board.NewPosition()
	m := board.NewMove(board.B1, board.A1)
	pos.Apply(board.White, m)

	opts := Options{Layout: Layout{SquareSize: 32}, Last: m}
	img, err := Board(pos, opts)
	if err != nil {
		t.Fatal(err)
	}
	r := opts.SquareRect(board.B1)
	if c := img.RGBAAt(r.Min.X+1, r.Min.Y+1); c == DefaultTheme().LightSquare {
		t.Error("from-square of the last move is not highlighted")
	}
}

func TestWritePNG(t *testing.T) {
	img, err := Board(board.NewPosition(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("bounds %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestSpritesCache(t *testing.T) {
	s := NewSprites()
	a, err := s.Stone(board.White, 24)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Stone(board.White, 24)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second call re-rendered the sprite")
	}
	if _, err := s.Stone(board.Black, 0); err == nil {
		t.Error("expected error for size 0")
	}
}
