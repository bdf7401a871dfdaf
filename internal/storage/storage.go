// Package storage persists decided matches.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hitbit/internal/shared/types"
)

// ErrDisabled is returned by Open when storage.type is "none".
var ErrDisabled = errors.New("storage disabled")

// Config selects and configures a backend.
type Config struct {
	Type       string // none|sqlite|postgres
	SQLitePath string
	Postgres   PostgresConfig
}

type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

func (c PostgresConfig) dsn() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

// MatchRecord is one decided match.
type MatchRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	MatchID       string    `gorm:"size:64;uniqueIndex" json:"matchId"`
	StartedAt     time.Time `json:"startedAt"`
	EndedAt       time.Time `json:"endedAt"`
	Frames        uint64    `json:"frames"`
	PlatformSize  float64   `json:"platformSize"`
	Humans        int       `json:"humans"`
	CPUs          int       `json:"cpus"`
	Outcome       string    `gorm:"size:16;index" json:"outcome"`
	WinnerSlot    int       `json:"winnerSlot"`
	WinnerName    string    `gorm:"size:64;index" json:"winnerName"`
	WinnerProfile string    `gorm:"size:32" json:"winnerProfile"`
	// Roster holds []types.RosterEntry.
	Roster datatypes.JSON `json:"roster"`
}

// WinCount is one row of the leaderboard.
type WinCount struct {
	Name string `json:"name"`
	Wins int64  `json:"wins"`
}

// Store writes and queries match records.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the configured backend and migrates the schema.
func Open(cfg Config, log zerolog.Logger) (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	gcfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Type {
	case "", "none":
		return nil, ErrDisabled
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = "hitbit.db"
		}
		db, err = gorm.Open(sqlite.Open(path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		log.Info().Str("path", path).Msg("Using SQLite match store")
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.Postgres.dsn(),
			PreferSimpleProtocol: true,
		}), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres %s:%s: %w", cfg.Postgres.Host, cfg.Postgres.Port, err)
		}
		log.Info().Str("host", cfg.Postgres.Host).Msg("Using Postgres match store")
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	return New(db, log)
}

// New wraps an open connection and migrates the schema.
func New(db *gorm.DB, log zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&MatchRecord{}); err != nil {
		return nil, fmt.Errorf("migrate match records: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// RecordResult stores a decided match.
func (s *Store) RecordResult(ctx context.Context, res types.MatchResult) error {
	roster, err := json.Marshal(res.Roster)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	rec := MatchRecord{
		MatchID:       res.MatchID,
		StartedAt:     res.StartedAt,
		EndedAt:       res.EndedAt,
		Frames:        res.Frames,
		PlatformSize:  res.PlatformSize,
		Humans:        res.Humans,
		CPUs:          res.CPUs,
		Outcome:       res.Outcome,
		WinnerSlot:    res.WinnerSlot,
		WinnerName:    res.WinnerName,
		WinnerProfile: res.WinnerProfile,
		Roster:        datatypes.JSON(roster),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert match %s: %w", res.MatchID, err)
	}
	s.log.Debug().Str("match", res.MatchID).Uint("id", rec.ID).Msg("match recorded")
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	var out []MatchRecord
	err := s.db.WithContext(ctx).Order("ended_at DESC, id DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query recent matches: %w", err)
	}
	return out, nil
}

// Wins counts victories per winner name, most wins first.
func (s *Store) Wins(ctx context.Context) ([]WinCount, error) {
	var out []WinCount
	err := s.db.WithContext(ctx).Model(&MatchRecord{}).
		Select("winner_name AS name, COUNT(*) AS wins").
		Where("outcome = ?", "victory").
		Group("winner_name").
		Order("wins DESC, name ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query wins: %w", err)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Result decodes a record back into its wire form.
func (r MatchRecord) Result() (types.MatchResult, error) {
	res := types.MatchResult{
		MatchID:       r.MatchID,
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
		Frames:        r.Frames,
		PlatformSize:  r.PlatformSize,
		Humans:        r.Humans,
		CPUs:          r.CPUs,
		Outcome:       r.Outcome,
		WinnerSlot:    r.WinnerSlot,
		WinnerName:    r.WinnerName,
		WinnerProfile: r.WinnerProfile,
	}
	if len(r.Roster) > 0 {
		if err := json.Unmarshal(r.Roster, &res.Roster); err != nil {
			return res, fmt.Errorf("decode roster of %s: %w", r.MatchID, err)
		}
	}
	return res, nil
}
