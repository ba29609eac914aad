// Package protocol implements the referee's turn-based text protocol.
//
// Initialisation, once:
//
//	8            board size
//	w            our colour ("w" moves first, "b" second)
//
// Every turn:
//
//	wbwbwbwb     8 rows, rank 8 first, file a leftmost
//	...
//	c2d2         last opponent action ("null" on the first turn)
//	112          number of legal actions
//
// The agent answers each turn with one move such as "c2d2".
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/engine"
)

// Agent plays one game over the protocol. It replaces any process-wide
// state: the engine, limits and our side all live here.
type Agent struct {
	engine *engine.Engine
	limits engine.SearchLimits
	log    zerolog.Logger

	scanner *bufio.Scanner
	out     io.Writer

	side board.Side
	turn int
}

// New creates an agent reading from in and writing moves to out.
func New(eng *engine.Engine, limits engine.SearchLimits, in io.Reader, out io.Writer, logger zerolog.Logger) *Agent {
	return &Agent{
		engine:  eng,
		limits:  limits,
		log:     logger,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Side returns the side the agent plays. Valid after the header is read.
func (a *Agent) Side() board.Side {
	return a.side
}

// Run reads the header and then answers turns until the input ends.
// A clean end of input between turns is not an error.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.readHeader(); err != nil {
		return err
	}
	a.log.Info().Str("side", a.side.String()).Msg("game started")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pos, err := a.readTurn()
		if errors.Is(err, io.EOF) {
			a.log.Info().Int("turns", a.turn).Msg("input closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("turn %d: %w", a.turn+1, err)
		}
		a.turn++

		move := a.think(ctx, pos)
		if _, err := fmt.Fprintln(a.out, move.String()); err != nil {
			return fmt.Errorf("turn %d: write move: %w", a.turn, err)
		}
	}
}

// readHeader reads the board size and our colour.
func (a *Agent) readHeader() error {
	line, err := a.readLine()
	if err != nil {
		return fmt.Errorf("read board size: %w", err)
	}
	size, err := strconv.Atoi(line)
	if err != nil {
		return fmt.Errorf("invalid board size %q: %w", line, err)
	}
	if size != board.Size {
		return fmt.Errorf("unsupported board size %d", size)
	}

	line, err = a.readLine()
	if err != nil {
		return fmt.Errorf("read colour: %w", err)
	}
	a.side, err = board.ParseSide(line)
	return err
}

// readTurn reads one board snapshot plus the trailing action lines.
// It returns io.EOF only when the input ends before the first row.
func (a *Agent) readTurn() (*board.Position, error) {
	rows := make([]string, 0, board.Size)
	for i := 0; i < board.Size; i++ {
		line, err := a.readLine()
		if err != nil {
			if i > 0 && errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		rows = append(rows, line)
	}

	pos, err := board.ParseRows(rows)
	if err != nil {
		return nil, err
	}

	lastAction, err := a.readLine()
	if err != nil {
		return nil, fmt.Errorf("read last action: %w", unexpected(err))
	}
	line, err := a.readLine()
	if err != nil {
		return nil, fmt.Errorf("read action count: %w", unexpected(err))
	}
	actions, err := strconv.Atoi(line)
	if err != nil {
		return nil, fmt.Errorf("invalid action count %q: %w", line, err)
	}

	if n := pos.CountMoves(a.side); n != actions {
		a.log.Warn().Int("referee", actions).Int("generated", n).Msg("action count mismatch")
	}
	a.log.Debug().Str("last", lastAction).Str("board", pos.Notation(a.side)).Msg("turn")

	return pos, nil
}

// think searches the position and returns the move to send. A position
// without a capture is answered with NoMove ("0000"), a resignation.
func (a *Agent) think(ctx context.Context, pos *board.Position) board.Move {
	res, err := a.engine.SearchWithLimits(ctx, pos, a.side, a.limits)
	if errors.Is(err, engine.ErrNoLegalMove) {
		a.log.Warn().Int("turn", a.turn).Msg("no legal move, resigning")
		return board.NoMove
	}

	a.log.Info().
		Int("turn", a.turn).
		Int("moves", res.MoveCount).
		Int("depth", res.Depth).
		Int("score", res.Score).
		Uint64("nodes", res.Nodes).
		Dur("time", res.Time).
		Str("move", res.Move.String()).
		Msg("search")

	return res.Move
}

// readLine returns the next non-empty line, trimmed.
func (a *Agent) readLine() (string, error) {
	for a.scanner.Scan() {
		line := strings.TrimSpace(a.scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := a.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
