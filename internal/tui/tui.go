// Package tui shows Clobber positions and arena games in a terminal.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/clobberplay/internal/arena"
	"github.com/hailam/clobberplay/internal/board"
)

const (
	cellWidth  = 3 // " ● "
	boardLeft  = 2 // rank label and a space
	captionRow = board.Size + 2
	stoneRune  = '●'
)

var (
	lightStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(240, 217, 181))
	darkStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(181, 136, 99))
	lastStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(170, 180, 90))
	labelStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle  = tcell.StyleDefault
	stoneColor = [2]tcell.Color{
		board.White: tcell.ColorWhite,
		board.Black: tcell.ColorBlack,
	}
)

// SquareCell returns the screen cell holding the stone of sq.
func SquareCell(sq board.Square) (x, y int) {
	return boardLeft + sq.File()*cellWidth + 1, 7 - sq.Rank()
}

// Draw renders pos with rank 8 at the top. The squares of last are
// highlighted and caption is printed under the board.
func Draw(screen tcell.Screen, pos *board.Position, last board.Move, caption string) {
	screen.Clear()

	for rank := 7; rank >= 0; rank-- {
		row := 7 - rank
		screen.SetContent(0, row, rune('1'+rank), nil, labelStyle)

		for file := 0; file < board.Size; file++ {
			sq := board.NewSquare(file, rank)
			style := lightStyle
			if (file+rank)%2 == 0 {
				style = darkStyle
			}
			if last != board.NoMove && (sq == last.From() || sq == last.To()) {
				style = lastStyle
			}

			x := boardLeft + file*cellWidth
			for i := 0; i < cellWidth; i++ {
				screen.SetContent(x+i, row, ' ', nil, style)
			}
			if side, ok := pos.SideAt(sq); ok {
				screen.SetContent(x+1, row, stoneRune, nil, style.Foreground(stoneColor[side]))
			}
		}
	}

	for file := 0; file < board.Size; file++ {
		screen.SetContent(boardLeft+file*cellWidth+1, board.Size, rune('a'+file), nil, labelStyle)
	}

	printAt(screen, 0, captionRow, caption, textStyle)
	screen.Show()
}

func printAt(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Watch replays games on screen, one ply every delay, until games is
// closed, ctx is done or the user presses Esc or q.
func Watch(ctx context.Context, screen tcell.Screen, games <-chan *arena.Game, delay time.Duration) error {
	events := make(chan tcell.Event, 8)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	wait := func() bool {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return false
			case ev := <-events:
				if isQuit(ev) {
					return false
				}
				if _, ok := ev.(*tcell.EventResize); ok {
					screen.Sync()
				}
			case <-timer.C:
				return true
			}
		}
	}

	for {
		var g *arena.Game
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case g, ok = <-games:
			if !ok {
				return nil
			}
		}

		stopped := false
		ply := 0
		g.Replay(func(pos *board.Position, toMove board.Side, last board.Move) bool {
			caption := fmt.Sprintf("game %d  %s (w) vs %s (b)  ply %d/%d  %s to move",
				g.Number, g.Players[board.White], g.Players[board.Black], ply, len(g.Moves), toMove)
			ply++
			Draw(screen, pos, last, caption)
			if !wait() {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return ctx.Err()
		}

		last := board.NoMove
		if n := len(g.Moves); n > 0 {
			last = g.Moves[n-1]
		}
		Draw(screen, g.Final(), last, fmt.Sprintf("game %d  %s wins", g.Number, g.Winner))
		if !wait() {
			return ctx.Err()
		}
	}
}

func isQuit(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC || key.Rune() == 'q'
}
