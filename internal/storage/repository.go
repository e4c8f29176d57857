// Package storage persists recorded matches (settings, map, ruleset and command
// log) in SQLite through GORM so they can be replayed later.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/napolitain/rts-core/internal/config"
	"github.com/napolitain/rts-core/internal/replay"
)

// ErrMatchNotFound is returned when no match has the requested id
var ErrMatchNotFound = errors.New("match not found")

// Match is a recorded game
type Match struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Settings  config.SimulationConfig
	// Map is the map payload the match started from
	Map []byte
	// Rules is the ruleset YAML; empty means the built-in tables
	Rules     []byte
	FinalTick int64
	Digest    string
}

// Open opens (creating if needed) the SQLite database at path and migrates it
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&MatchModel{}, &CommandModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// Repository stores matches using GORM
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on a migrated database
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateMatch persists a new match. A nil ID is replaced by a fresh one.
func (r *Repository) CreateMatch(ctx context.Context, m *Match) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	model, err := matchToModel(m)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// AppendCommands adds commands to the end of a match's log
func (r *Repository) AppendCommands(ctx context.Context, id uuid.UUID, commands []replay.Command) error {
	if len(commands) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureMatch(tx, id); err != nil {
			return err
		}
		var next int64
		if err := tx.Model(&CommandModel{}).Where("match_id = ?", id.String()).Count(&next).Error; err != nil {
			return fmt.Errorf("failed to count commands: %w", err)
		}
		rows := make([]CommandModel, 0, len(commands))
		for i, c := range commands {
			payload, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("failed to encode command %d: %w", i, err)
			}
			rows = append(rows, CommandModel{
				MatchID: id.String(),
				Seq:     int(next) + i,
				Tick:    c.Tick,
				Payload: string(payload),
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to append commands: %w", err)
		}
		return nil
	})
}

// LoadMatch returns a match and its command log in order
func (r *Repository) LoadMatch(ctx context.Context, id uuid.UUID) (*Match, []replay.Command, error) {
	var model MatchModel
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find match: %w", err)
	}
	m, err := modelToMatch(&model)
	if err != nil {
		return nil, nil, err
	}

	var rows []CommandModel
	if err := r.db.WithContext(ctx).Where("match_id = ?", id.String()).Order("seq").Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load commands: %w", err)
	}
	commands := make([]replay.Command, 0, len(rows))
	for _, row := range rows {
		var c replay.Command
		if err := json.Unmarshal([]byte(row.Payload), &c); err != nil {
			return nil, nil, fmt.Errorf("failed to decode command %d: %w", row.Seq, err)
		}
		commands = append(commands, c)
	}
	return m, commands, nil
}

// ListMatches returns every match, newest first, without map and rules data
func (r *Repository) ListMatches(ctx context.Context) ([]Match, error) {
	var models []MatchModel
	err := r.db.WithContext(ctx).
		Omit("map_data", "rules_yaml").
		Order("created_at desc").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	out := make([]Match, 0, len(models))
	for i := range models {
		m, err := modelToMatch(&models[i])
		if err != nil {
			continue // skip unreadable rows
		}
		out = append(out, *m)
	}
	return out, nil
}

// SaveDigest records the tick a match ended at and its state digest
func (r *Repository) SaveDigest(ctx context.Context, id uuid.UUID, tick int64, digest string) error {
	res := r.db.WithContext(ctx).
		Model(&MatchModel{}).
		Where("id = ?", id.String()).
		Updates(map[string]any{"final_tick": tick, "digest": digest})
	if res.Error != nil {
		return fmt.Errorf("failed to save digest: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return nil
}

func ensureMatch(tx *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := tx.Model(&MatchModel{}).Where("id = ?", id.String()).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to find match: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return nil
}

func matchToModel(m *Match) (*MatchModel, error) {
	settings, err := json.Marshal(m.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return &MatchModel{
		ID:        m.ID.String(),
		CreatedAt: m.CreatedAt,
		Settings:  string(settings),
		MapData:   m.Map,
		RulesYAML: string(m.Rules),
		FinalTick: m.FinalTick,
		Digest:    m.Digest,
	}, nil
}

func modelToMatch(model *MatchModel) (*Match, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid match id %q: %w", model.ID, err)
	}
	var settings config.SimulationConfig
	if err := json.Unmarshal([]byte(model.Settings), &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings of %s: %w", model.ID, err)
	}
	m := &Match{
		ID:        id,
		CreatedAt: model.CreatedAt,
		Settings:  settings,
		Map:       model.MapData,
		FinalTick: model.FinalTick,
		Digest:    model.Digest,
	}
	if model.RulesYAML != "" {
		m.Rules = []byte(model.RulesYAML)
	}
	return m, nil
}
