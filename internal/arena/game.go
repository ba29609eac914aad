// Package arena plays batches of engine-versus-engine Clobber games.
package arena

import (
	"context"
	"time"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/engine"
	"github.com/hailam/clobberplay/internal/storage"
)

// Player is one side of a game: an engine and the limits it searches with.
type Player struct {
	Label  string
	Engine *engine.Engine
	Limits engine.SearchLimits
}

// Game is a finished game.
type Game struct {
	Number    int
	Start     board.Position
	StartSide board.Side
	Players   [2]string // labels indexed by side
	AIsWhite  bool
	Opening   int // number of random plies included in Moves
	Moves     []board.Move
	Winner    board.Side
	Duration  time.Duration
}

// Replay calls fn for the start position and after every move. It stops
// early when fn returns false. last is NoMove for the start position.
func (g *Game) Replay(fn func(pos *board.Position, toMove board.Side, last board.Move) bool) {
	pos := g.Start
	side := g.StartSide
	if !fn(&pos, side, board.NoMove) {
		return
	}
	for _, m := range g.Moves {
		pos.Apply(side, m)
		side = side.Other()
		if !fn(&pos, side, m) {
			return
		}
	}
}

// Final returns the position the game ended in.
func (g *Game) Final() *board.Position {
	var final *board.Position
	g.Replay(func(pos *board.Position, _ board.Side, _ board.Move) bool {
		final = pos
		return true
	})
	return final.Copy()
}

// Record converts the game to its stored form.
func (g *Game) Record() *storage.GameRecord {
	moves := make([]string, len(g.Moves))
	for i, m := range g.Moves {
		moves[i] = m.String()
	}
	return &storage.GameRecord{
		Start:    g.Start.Notation(g.StartSide),
		Players:  g.Players,
		Moves:    moves,
		Winner:   g.Winner,
		Duration: g.Duration,
	}
}

// PlayGame plays from start until the side to move has no capture; that
// side loses. players is indexed by side. Moves played before the call are
// not part of the result.
func PlayGame(ctx context.Context, start *board.Position, toMove board.Side, players [2]Player) (Game, error) {
	begin := time.Now()
	g := Game{
		Start:     *start,
		StartSide: toMove,
		Players:   [2]string{players[board.White].Label, players[board.Black].Label},
	}

	pos := start.Copy()
	side := toMove
	for {
		if err := ctx.Err(); err != nil {
			return g, err
		}
		if pos.HasLost(side) {
			g.Winner = side.Other()
			break
		}

		p := players[side]
		res, err := p.Engine.SearchWithLimits(ctx, pos, side, p.Limits)
		if err != nil {
			return g, err
		}
		pos.Apply(side, res.Move)
		g.Moves = append(g.Moves, res.Move)
		side = side.Other()
	}

	g.Duration = time.Since(begin)
	return g, nil
}
