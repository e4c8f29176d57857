package storage

import "time"

// MatchModel represents the matches table
type MatchModel struct {
	ID        string    `gorm:"column:id;primaryKey;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	Settings  string    `gorm:"column:settings;type:text;not null"` // JSON as text
	MapData   []byte    `gorm:"column:map_data;not null"`
	RulesYAML string    `gorm:"column:rules_yaml;type:text"`
	FinalTick int64     `gorm:"column:final_tick;not null;default:0"`
	Digest    string    `gorm:"column:digest"`
}

func (MatchModel) TableName() string {
	return "matches"
}

// CommandModel represents the match_commands table
type CommandModel struct {
	ID      int         `gorm:"column:id;primaryKey;autoIncrement"`
	MatchID string      `gorm:"column:match_id;not null;index:idx_match_seq,priority:1"`
	Match   *MatchModel `gorm:"foreignKey:MatchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Seq     int         `gorm:"column:seq;not null;index:idx_match_seq,priority:2"`
	Tick    int64       `gorm:"column:tick;not null"`
	Payload string      `gorm:"column:payload;type:text;not null"` // JSON as text
}

func (CommandModel) TableName() string {
	return "match_commands"
}
