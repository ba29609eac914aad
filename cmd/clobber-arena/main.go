// Command clobber-arena plays a match between two engine settings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/clobberplay/internal/arena"
	"github.com/hailam/clobberplay/internal/engine"
	"github.com/hailam/clobberplay/internal/logging"
	"github.com/hailam/clobberplay/internal/render"
	"github.com/hailam/clobberplay/internal/storage"
	"github.com/hailam/clobberplay/internal/tui"
)

type Config struct {
	Games       int
	Concurrency int
	RandomPlies int
	Seed        uint64
	DepthA      int
	DepthB      int
	MoveTimeA   time.Duration
	MoveTimeB   time.Duration
	DB          string
	PNG         string
	Watch       bool
	WatchDelay  time.Duration
	LogLevel    string
}

var config Config

func main() {
	flag.IntVar(&config.Games, "games", 20, "number of games")
	flag.IntVar(&config.Concurrency, "concurrency", 0, "games played in parallel (0 = GOMAXPROCS)")
	flag.IntVar(&config.RandomPlies, "random-plies", 4, "random opening captures per game pair")
	flag.Uint64Var(&config.Seed, "seed", 0, "opening seed (0 = random)")
	flag.IntVar(&config.DepthA, "depth-a", 0, "engine A depth (0 = schedule)")
	flag.IntVar(&config.DepthB, "depth-b", 4, "engine B depth (0 = schedule)")
	flag.DurationVar(&config.MoveTimeA, "movetime-a", 0, "engine A time per move")
	flag.DurationVar(&config.MoveTimeB, "movetime-b", 0, "engine B time per move")
	flag.StringVar(&config.DB, "db", "", `store games in this directory ("app" = application data dir)`)
	flag.StringVar(&config.PNG, "png", "", "write the final position of every game into this directory")
	flag.BoolVar(&config.Watch, "watch", false, "replay finished games in the terminal")
	flag.DurationVar(&config.WatchDelay, "watch-delay", 300*time.Millisecond, "delay between replayed plies")
	flag.StringVar(&config.LogLevel, "log-level", "info", "log level")
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "clobber-arena:", err)
		os.Exit(1)
	}
}

func run() error {
	var logOut io.Writer = os.Stderr
	if config.Watch {
		// The terminal belongs to the replay.
		logOut = io.Discard
	}
	logger := logging.Setup(config.LogLevel, logOut)
	logger.Info().Interface("config", config).Msg("arena")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := openStore(config.DB)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if config.PNG != "" {
		if err := os.MkdirAll(config.PNG, 0755); err != nil {
			return err
		}
	}

	cfg := arena.Config{
		Games:       config.Games,
		Concurrency: config.Concurrency,
		RandomPlies: config.RandomPlies,
		Seed:        config.Seed,
		A:           engine.SearchLimits{Depth: config.DepthA, MoveTime: config.MoveTimeA},
		B:           engine.SearchLimits{Depth: config.DepthB, MoveTime: config.MoveTimeB},
		LabelA:      label("A", config.DepthA, config.MoveTimeA),
		LabelB:      label("B", config.DepthB, config.MoveTimeB),
		Logger:      &logger,
	}

	var watch chan *arena.Game
	if config.Watch {
		watch = make(chan *arena.Game, 16)
	}

	sink := func(g *arena.Game) error {
		if store != nil {
			if err := store.RecordGame(g.Record()); err != nil {
				return err
			}
		}
		if config.PNG != "" {
			if err := writeSnapshot(config.PNG, g); err != nil {
				return err
			}
		}
		if watch != nil {
			select {
			case watch <- g:
			default:
				// Replay is slower than play; skip games it cannot keep up with.
			}
		}
		return nil
	}

	if !config.Watch {
		summary, err := arena.Run(ctx, cfg, sink)
		fmt.Println(summary)
		return err
	}
	return runWatched(ctx, cfg, sink, watch)
}

// runWatched plays the match in the background while the terminal replays
// finished games. Leaving the replay cancels the match.
func runWatched(ctx context.Context, cfg arena.Config, sink func(*arena.Game) error, watch chan *arena.Game) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		summary arena.Summary
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		defer close(watch)
		s, err := arena.Run(ctx, cfg, sink)
		done <- outcome{s, err}
	}()

	werr := tui.Watch(ctx, screen, watch, config.WatchDelay)
	screen.Fini()
	cancel()

	res := <-done
	fmt.Println(res.summary)
	if werr != nil && werr != context.Canceled {
		return werr
	}
	if res.err != nil && res.err != context.Canceled {
		return res.err
	}
	return nil
}

func openStore(dir string) (*storage.Storage, error) {
	switch dir {
	case "":
		return nil, nil
	case "app":
		return storage.NewStorage()
	default:
		return storage.Open(dir)
	}
}

func writeSnapshot(dir string, g *arena.Game) error {
	opts := render.DefaultOptions()
	if n := len(g.Moves); n > 0 {
		opts.Last = g.Moves[n-1]
	}
	name := fmt.Sprintf("game-%04d-%s.png", g.Number, g.Winner)
	return render.SavePNG(filepath.Join(dir, name), g.Final(), opts)
}

func label(name string, depth int, moveTime time.Duration) string {
	s := name + ":schedule"
	if depth > 0 {
		s = fmt.Sprintf("%s:depth-%d", name, depth)
	}
	if moveTime > 0 {
		s += "/" + moveTime.String()
	}
	return s
}
