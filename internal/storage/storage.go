package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/engine"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	gamePrefix     = "game/"
)

// UserPreferences stores user settings for the desktop game.
type UserPreferences struct {
	Username   string            `json:"username"`
	Difficulty engine.Difficulty `json:"difficulty"`
	PlayerSide board.Side        `json:"player_side"`
	Sound      bool              `json:"sound"`
	LastPlayed time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences.
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:   "Player",
		Difficulty: engine.Medium,
		PlayerSide: board.White,
		Sound:      true,
		LastPlayed: time.Now(),
	}
}

// GameRecord is one finished game. Moves are in wire format ("c2d2").
type GameRecord struct {
	ID       string        `json:"id"`
	Start    string        `json:"start"`   // notation of the first position, side to move included
	Players  [2]string     `json:"players"` // label of the White and Black player
	Moves    []string      `json:"moves"`
	Winner   board.Side    `json:"winner"`
	Duration time.Duration `json:"duration"`
	PlayedAt time.Time     `json:"played_at"`
}

// Plies returns the number of moves played.
func (r *GameRecord) Plies() int {
	return len(r.Moves)
}

// GameStats stores game statistics.
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	WinsBySide     [2]int         `json:"wins_by_side"`
	WinsByPlayer   map[string]int `json:"wins_by_player"`
	TotalPlies     int            `json:"total_plies"`
	LongestGame    int            `json:"longest_game"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"` // by the same label
	CurrentStreak  int            `json:"current_streak"`
	LastWinner     string         `json:"last_winner"`
}

// NewGameStats returns empty game statistics.
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByPlayer: make(map[string]int),
	}
}

// Add folds a finished game into the statistics.
func (s *GameStats) Add(rec *GameRecord) {
	if s.WinsByPlayer == nil {
		s.WinsByPlayer = make(map[string]int)
	}

	s.GamesPlayed++
	s.WinsBySide[rec.Winner]++
	s.TotalPlies += rec.Plies()
	s.TotalPlayTime += rec.Duration
	if rec.Plies() > s.LongestGame {
		s.LongestGame = rec.Plies()
	}

	winner := rec.Players[rec.Winner]
	s.WinsByPlayer[winner]++
	if winner == s.LastWinner {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
		s.LastWinner = winner
	}
	if s.CurrentStreak > s.LongestWinStrk {
		s.LongestWinStrk = s.CurrentStreak
	}
}

// AveragePlies returns the mean game length.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// GetWinRate returns the win rate of a player label as a percentage (0-100).
func (s *GameStats) GetWinRate(player string) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.WinsByPlayer[player]) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db  *badger.DB
	seq atomic.Uint64
}

// NewStorage opens the database in the application data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch.
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences.
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found.
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyPreferences, prefs)
	})
	return prefs, err
}

// SaveStats saves game statistics.
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found.
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyStats, stats)
	})
	return stats, err
}

// RecordGame stores a finished game and folds it into the statistics in
// one transaction. The record's ID and PlayedAt are filled in if empty.
func (s *Storage) RecordGame(rec *GameRecord) error {
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%020d-%06d", rec.PlayedAt.UnixNano(), s.seq.Add(1))
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats := NewGameStats()
		if err := getJSON(txn, keyStats, stats); err != nil {
			return err
		}
		stats.Add(rec)

		if err := setJSON(txn, gamePrefix+rec.ID, rec); err != nil {
			return err
		}
		return setJSON(txn, keyStats, stats)
	})
}

// Game loads a single game record by ID.
func (s *Storage) Game(id string) (*GameRecord, error) {
	rec := &GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gamePrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	return rec, nil
}

// Games returns up to limit game records, newest first. limit <= 0 returns all.
func (s *Storage) Games(limit int) ([]*GameRecord, error) {
	var games []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// In reverse mode Seek finds the last key <= the seek key.
		seek := append([]byte(gamePrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			rec := &GameRecord{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return err
			}
			games = append(games, rec)
			if limit > 0 && len(games) >= limit {
				break
			}
		}
		return nil
	})

	return games, err
}

func (s *Storage) put(key string, v any) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, key, v)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// getJSON decodes key into v. A missing key leaves v untouched.
func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}
