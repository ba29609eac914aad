// Package engine implements the Clobber search engine.
package engine

import (
	"github.com/hailam/clobberplay/internal/board"
)

// Connectivity counts, over the four orthogonal directions, the occupied
// squares (either side) next to a piece of side. A square adjacent to two
// of side's pieces is counted once per piece.
func Connectivity(pos *board.Position, side board.Side) int {
	us := pos.Occupied[side]
	all := pos.All()

	return (us.West() & all).PopCount() +
		(us.East() & all).PopCount() +
		(us.North() & all).PopCount() +
		(us.South() & all).PopCount()
}

// Evaluate returns the static score of pos from side's point of view.
// Evaluate(pos, s) == -Evaluate(pos, s.Other()) for every position.
func Evaluate(pos *board.Position, side board.Side) int {
	return Connectivity(pos, side) - Connectivity(pos, side.Other())
}
