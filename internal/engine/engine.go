package engine

import (
	"context"
	"errors"
	"time"

	"github.com/hailam/clobberplay/internal/board"
)

// ErrNoLegalMove is returned when the side to move has no capture at the
// root. The accompanying Result carries NoMove and a score of -MaxScore.
var ErrNoLegalMove = errors.New("no legal move")

// Result describes a finished search.
type Result struct {
	Move      board.Move
	Score     int
	Depth     int
	MoveCount int // captures available at the root
	Nodes     uint64
	Time      time.Duration
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Fixed depth (0 = pick from the root move count)
	MoveTime time.Duration // Checked between root moves (0 = no limit)
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 4 ply
	Hard                     // move-count schedule, 4 to 10 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2},
	Medium: {Depth: 4},
	Hard:   {},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	default:
		return "Hard"
	}
}

// Depth schedule: fewer captures means a narrower tree, so search deeper.
const (
	baseDepth  = 4
	depthStep  = 2
	fewMoves   = 40
	veryFew    = 18
	almostNone = 12
)

// DepthForMoveCount returns the search depth for a root with n captures:
// 4 plies, plus 2 below 40 moves, 2 more below 18 and 2 more below 12.
func DepthForMoveCount(n int) int {
	depth := baseDepth
	if n < fewMoves {
		depth += depthStep
	}
	if n < veryFew {
		depth += depthStep
	}
	if n < almostNone {
		depth += depthStep
	}
	return depth
}

// Engine is the Clobber AI engine. It holds no position state; every call
// to Search works on the position it is given.
type Engine struct {
	searcher   *Searcher
	difficulty Difficulty

	// Callbacks
	OnInfo func(Result)
}

// NewEngine creates a new engine searching with the move-count schedule.
func NewEngine() *Engine {
	return &Engine{
		searcher:   NewSearcher(),
		difficulty: Hard,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the engine difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Search finds the best move for side using the difficulty's limits.
func (e *Engine) Search(ctx context.Context, pos *board.Position, side board.Side) (Result, error) {
	return e.SearchWithLimits(ctx, pos, side, DifficultySettings[e.difficulty])
}

// SearchWithLimits finds the best move for side with specific limits.
// The context and MoveTime are only consulted between root moves, so the
// first root move is always searched in full and a move is always chosen
// when one exists.
func (e *Engine) SearchWithLimits(ctx context.Context, pos *board.Position, side board.Side, limits SearchLimits) (Result, error) {
	e.searcher.Reset()
	startTime := time.Now()

	var moves board.MoveList
	pos.GenerateMovesInto(&moves, side)

	depth := limits.Depth
	if depth <= 0 {
		depth = DepthForMoveCount(moves.Len())
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}
	e.searcher.stop = func() bool {
		if ctx.Err() != nil {
			return true
		}
		return !deadline.IsZero() && time.Now().After(deadline)
	}

	move, score := e.searcher.searchRoot(pos, side, &moves, depth)

	res := Result{
		Move:      move,
		Score:     score,
		Depth:     depth,
		MoveCount: moves.Len(),
		Nodes:     e.searcher.Nodes(),
		Time:      time.Since(startTime),
	}

	if e.OnInfo != nil {
		e.OnInfo(res)
	}

	if move == board.NoMove {
		return res, ErrNoLegalMove
	}
	return res, nil
}

// Perft counts leaf nodes of the capture tree (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, side board.Side, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var moves board.MoveList
	pos.GenerateMovesInto(&moves, side)
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		child := *pos
		child.Apply(side, m)
		nodes += e.Perft(&child, side.Other(), depth-1)
	}

	return nodes
}

// PerftCached counts like Perft but reuses subtree counts from cache.
func PerftCached(pos *board.Position, side board.Side, depth int, cache *PerftCache) uint64 {
	return perftCached(pos, side, pos.Hash(side), depth, cache)
}

func perftCached(pos *board.Position, side board.Side, hash uint64, depth int, cache *PerftCache) uint64 {
	if depth == 0 {
		return 1
	}

	var moves board.MoveList
	pos.GenerateMovesInto(&moves, side)
	if depth == 1 {
		return uint64(moves.Len())
	}

	if nodes, ok := cache.Probe(hash, depth); ok {
		return nodes
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		child := *pos
		child.Apply(side, m)
		nodes += perftCached(&child, side.Other(), board.HashAfter(hash, side, m), depth-1, cache)
	}

	cache.Store(hash, depth, nodes)
	return nodes
}

// Evaluate returns the static evaluation of a position for side.
func (e *Engine) Evaluate(pos *board.Position, side board.Side) int {
	return Evaluate(pos, side)
}
