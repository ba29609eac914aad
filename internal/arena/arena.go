package arena

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/engine"
)

// Config describes a match between engine A and engine B.
type Config struct {
	Games       int
	Concurrency int // 0 = GOMAXPROCS
	RandomPlies int // random captures played from the start position before the engines take over
	Seed        uint64
	A, B        engine.SearchLimits
	LabelA      string
	LabelB      string
	Logger      *zerolog.Logger
}

// Summary is the outcome of a match, counted from engine A's side.
type Summary struct {
	Games      int
	WinsA      int
	WinsB      int
	WinsBySide [2]int
	Plies      int
	Elapsed    time.Duration
}

// ScoreA returns A's share of the games as a percentage.
func (s Summary) ScoreA() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.WinsA) / float64(s.Games) * 100
}

func (s Summary) String() string {
	return fmt.Sprintf("games %d, A %d - B %d (%.1f%%), white %d - black %d, avg plies %.1f",
		s.Games, s.WinsA, s.WinsB, s.ScoreA(),
		s.WinsBySide[board.White], s.WinsBySide[board.Black], s.avgPlies())
}

func (s Summary) avgPlies() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Plies) / float64(s.Games)
}

func (s *Summary) add(g *Game) {
	s.Games++
	s.Plies += len(g.Moves)
	s.WinsBySide[g.Winner]++
	aWon := (g.Winner == board.White) == g.AIsWhite
	if aWon {
		s.WinsA++
	} else {
		s.WinsB++
	}
}

type gameInfo struct {
	number   int
	opening  []board.Move
	aIsWhite bool
}

// Run plays cfg.Games games and calls sink with each finished game, one at
// a time, in completion order. Each opening is played twice with colours
// swapped. A sink error stops the match.
func Run(ctx context.Context, cfg Config, sink func(*Game) error) (Summary, error) {
	if cfg.Games <= 0 {
		return Summary{}, errors.New("arena: no games to play")
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.LabelA == "" {
		cfg.LabelA = "A"
	}
	if cfg.LabelB == "" {
		cfg.LabelB = "B"
	}

	logger.Info().
		Int("games", cfg.Games).
		Int("concurrency", concurrency).
		Int("random_plies", cfg.RandomPlies).
		Msg("arena started")

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	gameInfos := make(chan gameInfo)
	games := make(chan *Game)

	g.Go(func() error {
		defer close(gameInfos)
		return produceOpenings(ctx, cfg, gameInfos)
	})

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return playGames(ctx, cfg, gameInfos, games)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(games)
		return nil
	})

	var summary Summary
	g.Go(func() error {
		for game := range games {
			summary.add(game)
			logger.Info().
				Int("game", game.Number).
				Str("white", game.Players[board.White]).
				Str("black", game.Players[board.Black]).
				Str("winner", game.Winner.String()).
				Int("plies", len(game.Moves)).
				Dur("time", game.Duration).
				Msg("game finished")
			if sink != nil {
				if err := sink(game); err != nil {
					return fmt.Errorf("game %d: %w", game.Number, err)
				}
			}
		}
		return nil
	})

	err := g.Wait()
	summary.Elapsed = time.Since(start)
	logger.Info().Str("summary", summary.String()).Dur("elapsed", summary.Elapsed).Msg("arena finished")
	return summary, err
}

// produceOpenings sends one gameInfo per game. Consecutive games share an
// opening with colours swapped. Openings already used are redrawn a few
// times before a repeat is accepted.
func produceOpenings(ctx context.Context, cfg Config, out chan<- gameInfo) error {
	rng := newRNG(cfg.Seed)
	seen := make(map[uint64]bool)

	var opening []board.Move
	for n := 0; n < cfg.Games; n++ {
		if n%2 == 0 {
			for try := 0; try < maxOpeningRetries; try++ {
				opening = RandomOpening(rng, cfg.RandomPlies)
				if h := openingHash(opening); !seen[h] {
					seen[h] = true
					break
				}
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- gameInfo{number: n + 1, opening: opening, aIsWhite: n%2 == 0}:
		}
	}
	return nil
}

const maxOpeningRetries = 16

// openingHash identifies the position an opening reaches.
func openingHash(opening []board.Move) uint64 {
	pos := board.NewPosition()
	side := board.White
	h := pos.Hash(side)
	for _, m := range opening {
		h = board.HashAfter(h, side, m)
		pos.Apply(side, m)
		side = side.Other()
	}
	return h
}

func playGames(ctx context.Context, cfg Config, in <-chan gameInfo, out chan<- *Game) error {
	// Engines keep search state, so every worker owns its own pair.
	engineA := engine.NewEngine()
	engineB := engine.NewEngine()

	for info := range in {
		a := Player{Label: cfg.LabelA, Engine: engineA, Limits: cfg.A}
		b := Player{Label: cfg.LabelB, Engine: engineB, Limits: cfg.B}
		players := [2]Player{a, b}
		if !info.aIsWhite {
			players = [2]Player{b, a}
		}

		pos := board.NewPosition()
		side := board.White
		for _, m := range info.opening {
			pos.Apply(side, m)
			side = side.Other()
		}

		game, err := PlayGame(ctx, pos, side, players)
		if err != nil {
			return err
		}
		game.Number = info.number
		game.AIsWhite = info.aIsWhite
		game.Start = *board.NewPosition()
		game.StartSide = board.White
		game.Opening = len(info.opening)
		game.Moves = append(append([]board.Move(nil), info.opening...), game.Moves...)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- &game:
		}
	}
	return nil
}

// RandomOpening plays up to plies random captures from the start position,
// White first. It stops early if the side to move has no capture.
func RandomOpening(rng *frand.RNG, plies int) []board.Move {
	pos := board.NewPosition()
	side := board.White
	moves := make([]board.Move, 0, plies)

	var ml board.MoveList
	for i := 0; i < plies; i++ {
		pos.GenerateMovesInto(&ml, side)
		if ml.Len() == 0 {
			break
		}
		m := ml.Get(rng.Intn(ml.Len()))
		pos.Apply(side, m)
		moves = append(moves, m)
		side = side.Other()
	}
	return moves
}

// newRNG returns a deterministic generator for a non-zero seed and a
// randomly seeded one otherwise.
func newRNG(seed uint64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}
