package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstRun    = "first_run"
)

// Preferences stores engine defaults used by the shells.
type Preferences struct {
	UseBook     bool      `json:"use_book"`
	UseExplorer bool      `json:"use_explorer"`
	BookFile    string    `json:"book_file"`
	MoveTimeMs  int       `json:"move_time_ms"`
	SearchDepth int       `json:"search_depth"`
	LastPlayed  time.Time `json:"last_played"`
}

// DefaultPreferences returns the engine's out-of-the-box settings.
func DefaultPreferences() *Preferences {
	return &Preferences{
		UseBook:     true,
		UseExplorer: false,
		MoveTimeMs:  3000,
		SearchDepth: 0, // 0 = no depth cap, time-driven
	}
}

// PlayStats accumulates results and search effort across games.
type PlayStats struct {
	GamesPlayed  int           `json:"games_played"`
	WhiteWins    int           `json:"white_wins"`
	BlackWins    int           `json:"black_wins"`
	Draws        int           `json:"draws"`
	TotalNodes   uint64        `json:"total_nodes"`
	TotalThink   time.Duration `json:"total_think_time"`
	LongestPlies int           `json:"longest_game_plies"`
}

// NewPlayStats returns empty statistics.
func NewPlayStats() *PlayStats {
	return &PlayStats{}
}

// GameResult records one finished game.
type GameResult struct {
	Winner    string // "white", "black" or "draw"
	Plies     int
	Nodes     uint64
	ThinkTime time.Duration
}

// Storage wraps BadgerDB for persistent engine state.
type Storage struct {
	db *badger.DB
}

// Open opens the storage database in the platform data directory.
func Open() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the storage database in an explicit directory. Used by
// tests to work against a temp dir.
func OpenAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
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

// IsFirstRun returns true until MarkFirstRunComplete has been called.
func (s *Storage) IsFirstRun() (bool, error) {
	first := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstRun))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		first = false
		return nil
	})

	return first, err
}

// MarkFirstRunComplete records that initial setup has happened.
func (s *Storage) MarkFirstRunComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstRun), []byte("done"))
	})
}

// SavePreferences persists preferences, stamping the play time.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads preferences, returning defaults when none are
// stored yet.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveStats persists play statistics.
func (s *Storage) SaveStats(stats *PlayStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads play statistics, returning empty stats when none are
// stored yet.
func (s *Storage) LoadStats() (*PlayStats, error) {
	stats := NewPlayStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordGame folds a finished game into the stored statistics.
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalNodes += result.Nodes
	stats.TotalThink += result.ThinkTime
	if result.Plies > stats.LongestPlies {
		stats.LongestPlies = result.Plies
	}

	switch result.Winner {
	case "white":
		stats.WhiteWins++
	case "black":
		stats.BlackWins++
	default:
		stats.Draws++
	}

	return s.SaveStats(stats)
}
