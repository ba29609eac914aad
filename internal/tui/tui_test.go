package tui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/clobberplay/internal/arena"
	"github.com/hailam/clobberplay/internal/board"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(40, 14)
	t.Cleanup(s.Fini)
	return s
}

func cellAt(s tcell.SimulationScreen, x, y int) (rune, tcell.Style) {
	cells, w, _ := s.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' ', c.Style
	}
	return c.Runes[0], c.Style
}

func TestDraw(t *testing.T) {
	s := newScreen(t)
	pos, err := board.NewPositionFromMasks(board.SquareBB(board.B1), board.SquareBB(board.H8))
	if err != nil {
		t.Fatal(err)
	}
	Draw(s, pos, board.NewMove(board.C1, board.B1), "hello")

	x, y := SquareCell(board.B1)
	r, style := cellAt(s, x, y)
	if r != stoneRune {
		t.Errorf("b1 shows %q, want a stone", r)
	}
	if fg, bg, _ := style.Decompose(); fg != tcell.ColorWhite || bg != tcell.NewRGBColor(170, 180, 90) {
		t.Errorf("b1 style fg %v bg %v", fg, bg)
	}

	x, y = SquareCell(board.H8)
	if r, style := cellAt(s, x, y); r != stoneRune {
		t.Errorf("h8 shows %q, want a stone", r)
	} else if fg, _, _ := style.Decompose(); fg != tcell.ColorBlack {
		t.Errorf("h8 stone color %v", fg)
	}

	x, y = SquareCell(board.E4)
	if r, _ := cellAt(s, x, y); r != ' ' {
		t.Errorf("e4 shows %q, want empty", r)
	}

	if r, _ := cellAt(s, 0, 0); r != '8' {
		t.Errorf("top rank label %q", r)
	}
	if r, _ := cellAt(s, 0, captionRow); r != 'h' {
		t.Errorf("caption starts with %q", r)
	}
}

func TestWatchQuitsOnEscape(t *testing.T) {
	s := newScreen(t)
	pos, err := board.NewPositionFromMasks(board.SquareBB(board.A1), board.SquareBB(board.B1))
	if err != nil {
		t.Fatal(err)
	}
	games := make(chan *arena.Game, 1)
	games <- &arena.Game{
		Number:    1,
		Start:     *pos,
		StartSide: board.White,
		Moves:     []board.Move{board.NewMove(board.A1, board.B1)},
		Winner:    board.White,
	}

	done := make(chan error, 1)
	go func() {
		done <- Watch(context.Background(), s, games, time.Hour)
	}()

	time.Sleep(50 * time.Millisecond)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop on Esc")
	}
}

func TestWatchEndsWhenGamesClosed(t *testing.T) {
	s := newScreen(t)
	games := make(chan *arena.Game)
	close(games)
	if err := Watch(context.Background(), s, games, time.Millisecond); err != nil {
		t.Errorf("Watch: %v", err)
	}
}

func TestWatchCancelled(t *testing.T) {
	s := newScreen(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Watch(ctx, s, make(chan *arena.Game), time.Millisecond); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
