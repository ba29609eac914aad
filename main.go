// ClobberPlay - Clobber against the computer, built with Ebitengine
package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/hailam/clobberplay/internal/logging"
	"github.com/hailam/clobberplay/internal/storage"
	"github.com/hailam/clobberplay/internal/ui"
)

func main() {
	logging.Setup(os.Getenv("CLOBBERPLAY_LOG"), os.Stderr)

	store, err := storage.NewStorage()
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable, nothing will be saved")
		store = nil
	}

	game := ui.NewGame(store)
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("ClobberPlay")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("run game")
	}
}
