package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/engine"
	"github.com/hailam/clobberplay/internal/session"
	"github.com/hailam/clobberplay/internal/storage"
)

// UI Constants
const (
	BoardSize    = 512
	SquareSize   = BoardSize / 8
	StatusHeight = 56
	ScreenWidth  = BoardSize
	ScreenHeight = BoardSize + StatusHeight
)

var helpLines = []string{
	"Clobber",
	"Click one of your stones, then an adjacent enemy stone.",
	"The player left without a capture loses.",
	"N  new game    S  swap sides    D  difficulty    M  sound",
	"Click to start",
}

// Game implements ebiten.Game interface.
type Game struct {
	session *session.Session

	storage *storage.Storage
	prefs   *storage.UserPreferences
	stats   *storage.GameStats

	renderer *Renderer
	input    *InputHandler
	audio    *AudioManager

	showHelp bool
	recorded bool

	scale float64
}

// NewGame creates a new game using the stored preferences. A nil store
// plays with defaults and records nothing.
func NewGame(store *storage.Storage) *Game {
	g := &Game{
		storage:  store,
		renderer: NewRenderer(SquareSize),
		input:    NewInputHandler(),
		scale:    1.0,
	}
	g.loadPreferences()
	g.audio = NewAudioManager(g.prefs.Sound)
	g.renderer.SetFlipped(g.prefs.PlayerSide == board.Black)
	g.session = session.New(g.prefs.Difficulty, g.prefs.PlayerSide)
	g.checkFirstLaunch()
	return g
}

// loadPreferences loads user preferences and statistics from storage.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	g.stats = storage.NewGameStats()
	if g.storage == nil {
		return
	}

	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		log.Warn().Err(err).Msg("load preferences")
	} else {
		g.prefs = prefs
	}

	stats, err := g.storage.LoadStats()
	if err != nil {
		log.Warn().Err(err).Msg("load stats")
	} else {
		g.stats = stats
	}
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	g.prefs.Difficulty = g.session.Difficulty()
	g.prefs.PlayerSide = g.session.Human()
	g.prefs.Sound = g.audio.IsEnabled()
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Warn().Err(err).Msg("save preferences")
	}
}

// checkFirstLaunch shows the rules on first launch.
func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}
	isFirst, err := g.storage.IsFirstLaunch()
	if err != nil {
		log.Warn().Err(err).Msg("check first launch")
		return
	}
	g.showHelp = isFirst
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update(g.scale)

	if g.showHelp {
		if g.input.IsLeftJustPressed() {
			g.showHelp = false
			if g.storage != nil {
				if err := g.storage.MarkFirstLaunchComplete(); err != nil {
					log.Warn().Err(err).Msg("mark first launch complete")
				}
			}
		}
		return nil
	}

	switch {
	case IsKeyJustPressed(ebiten.KeyN):
		g.NewGameAction()
	case IsKeyJustPressed(ebiten.KeyS):
		g.SwapSidesAction()
	case IsKeyJustPressed(ebiten.KeyD):
		g.CycleDifficultyAction()
	case IsKeyJustPressed(ebiten.KeyM):
		g.audio.SetEnabled(!g.audio.IsEnabled())
		g.savePreferences()
	case IsKeyJustPressed(ebiten.KeyH):
		g.showHelp = true
	}

	if g.input.IsLeftJustPressed() {
		mx, my := g.input.MousePosition()
		before := g.session.Selected()
		if g.session.Click(g.renderer.ScreenToSquare(mx, my)) {
			g.audio.Play(SoundCapture)
		} else if sel := g.session.Selected(); sel != board.NoSquare && sel != before {
			g.audio.Play(SoundSelect)
		}
	}

	if g.session.Poll() {
		g.audio.Play(SoundCapture)
	}
	g.recordResult()
	return nil
}

// recordResult stores a finished game once.
func (g *Game) recordResult() {
	if over, _ := g.session.Over(); !over || g.recorded {
		return
	}
	g.recorded = true

	if _, winner := g.session.Over(); winner == g.session.Human() {
		g.audio.Play(SoundWin)
	} else {
		g.audio.Play(SoundLose)
	}

	rec := g.session.Record(g.prefs.Username, "engine "+g.session.Difficulty().String())
	g.stats.Add(rec)
	if g.storage == nil {
		return
	}
	if err := g.storage.RecordGame(rec); err != nil {
		log.Warn().Err(err).Msg("record game")
	}
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawBoard(screen)
	g.renderer.DrawHighlights(screen, g.session.Selected(), g.session.Targets(), g.session.LastMove())
	g.renderer.DrawStones(screen, g.session.Position())

	g.renderer.DrawStatus(screen, g.statusLine(), BoardSize+8)
	g.renderer.DrawStatus(screen, g.infoLine(), BoardSize+30)

	if g.showHelp {
		g.renderer.DrawOverlay(screen, helpLines)
		return
	}
	if over, winner := g.session.Over(); over {
		g.renderer.DrawOverlay(screen, g.gameOverLines(winner))
	}
}

func (g *Game) statusLine() string {
	human := g.session.Human()
	turn := fmt.Sprintf("%v to move", g.session.ToMove())
	if g.session.Thinking() {
		turn = "engine thinking..."
	}
	return fmt.Sprintf("You play %v  |  %v  |  %s", human, g.session.Difficulty(), turn)
}

func (g *Game) infoLine() string {
	info := g.session.LastInfo()
	if info.Move == board.NoMove {
		return fmt.Sprintf("Games %d  |  N new  S swap  D difficulty  H help", g.stats.GamesPlayed)
	}
	return fmt.Sprintf("Engine %s  depth %d  score %d  nodes %d  %v",
		info.Move, info.Depth, info.Score, info.Nodes, info.Time.Round(time.Millisecond))
}

func (g *Game) gameOverLines(winner board.Side) []string {
	headline := "Engine wins"
	if winner == g.session.Human() {
		headline = "You win!"
	}
	return []string{
		headline,
		fmt.Sprintf("%d moves played", len(g.session.History())),
		fmt.Sprintf("Your win rate: %.0f%% of %d games", g.stats.GetWinRate(g.prefs.Username), g.stats.GamesPlayed),
		"N  new game    S  swap sides",
	}
}

// Layout returns the game's screen dimensions.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// NewGameAction starts a new game with the current settings.
func (g *Game) NewGameAction() {
	g.recorded = false
	g.session.Reset()
}

// SwapSidesAction lets the human play the other side in a new game.
func (g *Game) SwapSidesAction() {
	g.recorded = false
	g.session.SwapSides()
	g.renderer.SetFlipped(g.session.Human() == board.Black)
	g.savePreferences()
}

// CycleDifficultyAction moves to the next difficulty.
func (g *Game) CycleDifficultyAction() {
	next := (g.session.Difficulty() + 1) % (engine.Hard + 1)
	g.session.SetDifficulty(next)
	g.savePreferences()
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.session.Close()
	if g.storage != nil {
		if err := g.storage.Close(); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}
}
