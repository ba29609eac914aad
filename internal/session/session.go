// Package session holds the state of one human-versus-engine game.
package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/engine"
	"github.com/hailam/clobberplay/internal/storage"
)

type reply struct {
	gen  int
	move board.Move
	res  engine.Result
}

// Session is a game between a human and the engine. It is not safe for
// concurrent use; the engine runs on its own goroutine and reports back
// through Poll.
type Session struct {
	difficulty engine.Difficulty
	human      board.Side

	start   board.Position
	pos     *board.Position
	toMove  board.Side
	history []board.Move
	began   time.Time

	selected board.Square
	targets  board.Bitboard

	over   bool
	winner board.Side

	thinking bool
	gen      int
	cancel   context.CancelFunc
	replies  chan reply
	lastInfo engine.Result
}

// New starts a game from the initial position with the human playing human.
func New(difficulty engine.Difficulty, human board.Side) *Session {
	s := &Session{
		difficulty: difficulty,
		human:      human,
		replies:    make(chan reply, 1),
	}
	s.Reset()
	return s
}

// Reset abandons the current game and starts a new one. If the engine
// moves first it starts thinking immediately.
func (s *Session) Reset() {
	s.stopEngine()
	s.pos = board.NewPosition()
	s.start = *s.pos
	s.toMove = board.White
	s.history = nil
	s.began = time.Now()
	s.over = false
	s.clearSelection()
	s.maybeStartEngine()
}

// SwapSides changes the human's side and starts a new game.
func (s *Session) SwapSides() {
	s.human = s.human.Other()
	s.Reset()
}

// SetDifficulty changes the engine strength from its next search on.
func (s *Session) SetDifficulty(d engine.Difficulty) { s.difficulty = d }

// Difficulty returns the engine strength.
func (s *Session) Difficulty() engine.Difficulty { return s.difficulty }

// Position returns the current position. Callers must not modify it.
func (s *Session) Position() *board.Position { return s.pos }

// ToMove returns the side to move.
func (s *Session) ToMove() board.Side { return s.toMove }

// Human returns the human's side.
func (s *Session) Human() board.Side { return s.human }

// History returns the moves played so far.
func (s *Session) History() []board.Move { return s.history }

// LastMove returns the most recent move, or NoMove.
func (s *Session) LastMove() board.Move {
	if len(s.history) == 0 {
		return board.NoMove
	}
	return s.history[len(s.history)-1]
}

// Selected returns the selected square, or NoSquare.
func (s *Session) Selected() board.Square { return s.selected }

// Targets returns the capture targets of the selected stone.
func (s *Session) Targets() board.Bitboard { return s.targets }

// Thinking reports whether the engine is searching.
func (s *Session) Thinking() bool { return s.thinking }

// LastInfo returns the result of the engine's most recent search.
func (s *Session) LastInfo() engine.Result { return s.lastInfo }

// Over reports whether the game has ended and who won.
func (s *Session) Over() (bool, board.Side) { return s.over, s.winner }

// Click handles a click on sq by the human: selecting an own stone,
// capturing with the selected stone, or clearing the selection. It
// returns true when a move was made.
func (s *Session) Click(sq board.Square) bool {
	if s.over || s.thinking || s.toMove != s.human || !sq.IsValid() {
		return false
	}

	if side, ok := s.pos.SideAt(sq); ok && side == s.human {
		s.selected = sq
		s.targets = 0
		for _, m := range s.pos.MovesFrom(s.human, sq).Slice() {
			s.targets = s.targets.Set(m.To())
		}
		return false
	}

	if s.selected != board.NoSquare && s.targets.IsSet(sq) {
		s.play(board.NewMove(s.selected, sq))
		return true
	}

	s.clearSelection()
	return false
}

// Poll applies the engine's move if its search has finished. It never
// blocks and returns true when a move was applied.
func (s *Session) Poll() bool {
	if !s.thinking {
		return false
	}
	select {
	case r := <-s.replies:
		return s.accept(r)
	default:
		return false
	}
}

// Wait blocks until the engine has moved or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	for s.thinking {
		select {
		case r := <-s.replies:
			s.accept(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Record returns the finished game in its stored form, or nil while the
// game is still running. labels name the human and the engine.
func (s *Session) Record(humanLabel, engineLabel string) *storage.GameRecord {
	if !s.over {
		return nil
	}
	var players [2]string
	players[s.human] = humanLabel
	players[s.human.Other()] = engineLabel

	moves := make([]string, len(s.history))
	for i, m := range s.history {
		moves[i] = m.String()
	}
	return &storage.GameRecord{
		Start:    s.start.Notation(board.White),
		Players:  players,
		Moves:    moves,
		Winner:   s.winner,
		Duration: time.Since(s.began),
	}
}

// Close stops a running search.
func (s *Session) Close() {
	s.stopEngine()
}

func (s *Session) accept(r reply) bool {
	if r.gen != s.gen {
		return false
	}
	s.thinking = false
	s.cancel = nil
	s.lastInfo = r.res
	if r.move == board.NoMove {
		s.finish()
		return false
	}
	s.play(r.move)
	return true
}

func (s *Session) play(m board.Move) {
	s.pos.Apply(s.toMove, m)
	s.history = append(s.history, m)
	s.toMove = s.toMove.Other()
	s.clearSelection()

	if s.pos.HasLost(s.toMove) {
		s.finish()
		return
	}
	s.maybeStartEngine()
}

func (s *Session) finish() {
	s.over = true
	s.winner = s.toMove.Other()
	log.Info().
		Str("winner", s.winner.String()).
		Int("plies", len(s.history)).
		Msg("game over")
}

func (s *Session) maybeStartEngine() {
	if s.over || s.toMove == s.human || s.thinking {
		return
	}
	if s.pos.HasLost(s.toMove) {
		s.finish()
		return
	}

	s.thinking = true
	s.gen++
	gen := s.gen
	pos := s.pos.Copy()
	side := s.toMove

	// A cancelled search finishes its current root move, so every search
	// gets its own engine.
	eng := engine.NewEngine()
	eng.SetDifficulty(s.difficulty)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		res, err := eng.Search(ctx, pos, side)
		if err != nil {
			log.Warn().Err(err).Msg("engine search")
		}
		select {
		case s.replies <- reply{gen: gen, move: res.Move, res: res}:
		case <-ctx.Done():
		}
	}()
}

func (s *Session) stopEngine() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.thinking = false
	s.gen++
	select {
	case <-s.replies:
	default:
	}
}

func (s *Session) clearSelection() {
	s.selected = board.NoSquare
	s.targets = 0
}
