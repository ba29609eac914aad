package engine

import (
	"github.com/hailam/clobberplay/internal/board"
)

// Search constants
const (
	// MaxScore is returned to a side that has no capture left: it has lost.
	MaxScore = 1000
	// Infinity is below any reachable score; every node starts from -Infinity.
	Infinity = 30000
)

// Searcher performs the fixed-depth negamax search with alpha-beta pruning.
// It keeps no state between searches except the node counter.
type Searcher struct {
	nodes uint64

	// stop is polled between root moves only. Nil means never stop.
	stop func() bool
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.stop = nil
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search searches pos for side to the given depth and returns the best move
// with its score. Ties go to the move generated first. If side has no
// capture the move is NoMove and the score -MaxScore.
func (s *Searcher) Search(pos *board.Position, side board.Side, depth int) (board.Move, int) {
	var moves board.MoveList
	pos.GenerateMovesInto(&moves, side)
	return s.searchRoot(pos, side, &moves, depth)
}

// searchRoot runs the root loop over a pre-generated move list.
func (s *Searcher) searchRoot(pos *board.Position, side board.Side, moves *board.MoveList, depth int) (board.Move, int) {
	s.nodes++
	if moves.Len() == 0 {
		return board.NoMove, -MaxScore
	}

	alpha, beta := -MaxScore, MaxScore
	bestMove := board.NoMove
	bestScore := -Infinity

	for i, m := range moves.Slice() {
		if i > 0 && s.stop != nil && s.stop() {
			break
		}

		child := *pos
		child.Apply(side, m)
		score := -s.negamax(&child, side.Other(), depth-1, -beta, -alpha)

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		alpha = max(alpha, bestScore)
		if alpha >= beta {
			break
		}
	}

	return bestMove, bestScore
}

// negamax returns the score of pos for side searched to depth plies.
// Every child is a fresh copy, so siblings never see each other's moves.
func (s *Searcher) negamax(pos *board.Position, side board.Side, depth, alpha, beta int) int {
	s.nodes++

	var moves board.MoveList
	pos.GenerateMovesInto(&moves, side)
	if moves.Len() == 0 {
		return -MaxScore
	}
	if depth <= 0 {
		return Evaluate(pos, side)
	}

	bestScore := -Infinity
	for _, m := range moves.Slice() {
		child := *pos
		child.Apply(side, m)
		score := -s.negamax(&child, side.Other(), depth-1, -beta, -alpha)

		bestScore = max(bestScore, score)
		alpha = max(alpha, bestScore)
		if alpha >= beta {
			break
		}
	}

	return bestScore
}

// NegamaxFullWidth is plain negamax without pruning. It visits every node
// to the given depth and serves as the reference alpha-beta must agree with.
func NegamaxFullWidth(pos *board.Position, side board.Side, depth int) (board.Move, int) {
	moves := pos.GenerateMoves(side)
	if moves.Len() == 0 {
		return board.NoMove, -MaxScore
	}

	bestMove := board.NoMove
	bestScore := -Infinity
	for _, m := range moves.Slice() {
		child := *pos
		child.Apply(side, m)
		score := -fullWidth(&child, side.Other(), depth-1)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
	}
	return bestMove, bestScore
}

func fullWidth(pos *board.Position, side board.Side, depth int) int {
	moves := pos.GenerateMoves(side)
	if moves.Len() == 0 {
		return -MaxScore
	}
	if depth <= 0 {
		return Evaluate(pos, side)
	}

	bestScore := -Infinity
	for _, m := range moves.Slice() {
		child := *pos
		child.Apply(side, m)
		bestScore = max(bestScore, -fullWidth(&child, side.Other(), depth-1))
	}
	return bestScore
}
