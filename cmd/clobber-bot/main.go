// Command clobber-bot plays Clobber over the referee's stdin/stdout protocol.
// Logs go to stderr; stdout carries only moves.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/profile"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/engine"
	"github.com/hailam/clobberplay/internal/logging"
	"github.com/hailam/clobberplay/internal/protocol"
)

var (
	depth      = flag.Int("depth", 0, "fixed search depth (0 = pick from the number of moves)")
	moveTime   = flag.Duration("movetime", 0, "time budget per move, checked between root moves (0 = none)")
	logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error, disabled")
	cpuprofile = flag.String("cpuprofile", "", "write a cpu profile into this directory")
	perft      = flag.Int("perft", 0, "print move-tree sizes from the start position up to this depth and exit")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	logger := logging.Setup(*logLevel, os.Stderr)

	// Environment variable fallback for harnesses that cannot pass flags.
	profileDir := *cpuprofile
	if profileDir == "" {
		profileDir = os.Getenv("CPUPROFILE")
	}
	if profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.Quiet).Stop()
		logger.Info().Str("dir", profileDir).Msg("cpu profiling enabled")
	}

	if *perft > 0 {
		return runPerft(*perft)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	limits := engine.SearchLimits{Depth: *depth, MoveTime: *moveTime}
	agent := protocol.New(engine.NewEngine(), limits, os.Stdin, os.Stdout, logger)
	if err := agent.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("protocol")
		return err
	}
	return nil
}

// runPerft prints leaf counts to stderr so stdout stays clean for the referee.
func runPerft(maxDepth int) error {
	cache := engine.NewPerftCache(256)
	for depth := 1; depth <= maxDepth; depth++ {
		start := time.Now()
		nodes := engine.PerftCached(board.NewPosition(), board.White, depth, cache)
		fmt.Fprintf(os.Stderr, "perft %d: %d (%v, cache hits %.1f%%)\n",
			depth, nodes, time.Since(start).Round(time.Millisecond), cache.HitRate())
	}
	return nil
}
