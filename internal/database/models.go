package database

import (
	"strings"
)

// Faction represents one of the playable factions
type Faction struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"column:name;size:15;not null"       json:"name"`
	Resume string `gorm:"column:resume;size:500;not null"    json:"resume"`
}

// TableName specifies the table name for Faction
func (Faction) TableName() string {
	return TableFaction
}

// Character represents a playable hero with its combat ratings
type Character struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"column:name;size:15;not null"       json:"name"`
	Attack    float64 `gorm:"column:attack;not null"             json:"attack"`
	Defense   float64 `gorm:"column:defense;not null"            json:"defense"`
	FactionID int64   `gorm:"column:idFaction;not null"          json:"faction_id"`
}

// TableName specifies the table name for Character
func (Character) TableName() string {
	return TableCharacter
}

// Column describes one column as reported by PRAGMA table_info
type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NotNull bool   `json:"not_null"`
}

// Row is one untyped result row with its columns in select order
type Row struct {
	Columns []string `json:"columns"`
	Values  []string `json:"values"`
}

// Get returns the value of the named column
func (r Row) Get(column string) (string, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return "", false
}

// Map returns the row as a column -> value map
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// String renders the row as "column: value" pairs
func (r Row) String() string {
	var b strings.Builder
	for i, c := range r.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString(": ")
		b.WriteString(r.Values[i])
	}
	return b.String()
}
