package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/engine"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	prefixBench    = "bench/"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Preferences stores the settings of the console harness.
type Preferences struct {
	Difficulty    string    `json:"difficulty"`     // easy, medium or hard
	ComputerMode  string    `json:"computer_mode"`  // search or random
	ComputerColor string    `json:"computer_color"` // white or black
	DefaultDepth  int       `json:"default_depth"`
	LastUsed      time.Time `json:"last_used"`
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Difficulty:    engine.Medium.String(),
		ComputerMode:  engine.ModeSearch.String(),
		ComputerColor: "black",
		DefaultDepth:  engine.DifficultySettings[engine.Medium].Depth,
	}
}

// BenchRun is one stored run of the engine bench.
type BenchRun struct {
	Timestamp time.Time            `json:"timestamp"`
	MaxDepth  int                  `json:"max_depth"`
	Results   []engine.BenchResult `json:"results"`
}

// GameRecord is a finished or abandoned game.
type GameRecord struct {
	Played   time.Time `json:"played"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`  // SAN
	Result   string    `json:"result"` // PGN result tag
	PGN      string    `json:"pgn"`
}

// GameStats counts recorded games by result.
type GameStats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
	Unfinished  int `json:"unfinished"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open in memory: %w", err)
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

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value at key into v. It returns ErrNotFound when the key
// is absent.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SavePreferences saves preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returns defaults if not found.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.get(keyPreferences, prefs)
	if errors.Is(err, ErrNotFound) {
		return prefs, nil
	}
	return prefs, err
}

// timeKey returns prefix followed by the zero-padded nanosecond timestamp,
// so keys sort chronologically.
func timeKey(prefix string, t time.Time) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, t.UnixNano()))
}

// insertTimed stores v under a fresh time key, moving forward one
// nanosecond at a time past existing keys.
func (s *Storage) insertTimed(prefix string, t time.Time, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for {
			key := timeKey(prefix, t)
			_, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return txn.Set(key, data)
			}
			if err != nil {
				return err
			}
			t = t.Add(time.Nanosecond)
		}
	})
}

// scanNewest calls fn with up to limit values under prefix, newest first.
// limit <= 0 means all.
func (s *Storage) scanNewest(prefix string, limit int, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		n := 0
		for it.Seek(append([]byte(prefix), 0xFF)); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
			n++
			if limit > 0 && n >= limit {
				return nil
			}
		}
		return nil
	})
}

// SaveBenchRun stores a bench run keyed by its timestamp. A zero timestamp
// is set to now.
func (s *Storage) SaveBenchRun(run *BenchRun) error {
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	return s.insertTimed(prefixBench, run.Timestamp, run)
}

// BenchRuns returns up to limit stored runs, newest first. limit <= 0
// returns every run.
func (s *Storage) BenchRuns(limit int) ([]BenchRun, error) {
	var runs []BenchRun
	err := s.scanNewest(prefixBench, limit, func(val []byte) error {
		var run BenchRun
		if err := json.Unmarshal(val, &run); err != nil {
			return err
		}
		runs = append(runs, run)
		return nil
	})
	return runs, err
}

// LatestBenchRun returns the newest stored run or ErrNotFound.
func (s *Storage) LatestBenchRun() (*BenchRun, error) {
	runs, err := s.BenchRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no bench runs", ErrNotFound)
	}
	return &runs[0], nil
}

// RecordGame stores a game and updates the statistics.
func (s *Storage) RecordGame(rec *GameRecord) error {
	if rec.Played.IsZero() {
		rec.Played = time.Now()
	}
	if err := s.insertTimed(prefixGame, rec.Played, rec); err != nil {
		return err
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.GamesPlayed++
	switch rec.Result {
	case "1-0":
		stats.WhiteWins++
	case "0-1":
		stats.BlackWins++
	case "1/2-1/2":
		stats.Draws++
	default:
		stats.Unfinished++
	}
	return s.put(keyStats, stats)
}

// RecentGames returns up to limit recorded games, newest first.
func (s *Storage) RecentGames(limit int) ([]GameRecord, error) {
	var games []GameRecord
	err := s.scanNewest(prefixGame, limit, func(val []byte) error {
		var rec GameRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return err
		}
		games = append(games, rec)
		return nil
	})
	return games, err
}

// LoadStats loads game statistics, returns empty stats if not found.
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	err := s.get(keyStats, stats)
	if errors.Is(err, ErrNotFound) {
		return stats, nil
	}
	return stats, err
}

// DrawRate returns the share of finished games drawn, in percent.
func (s *GameStats) DrawRate() float64 {
	finished := s.GamesPlayed - s.Unfinished
	if finished == 0 {
		return 0
	}
	return float64(s.Draws) / float64(finished) * 100
}
