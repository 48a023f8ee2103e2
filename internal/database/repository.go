package database

import (
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/palemoky/forhonor-db/internal/errors"
)

// RepositoryInterface defines the read operations offered over a connection
type RepositoryInterface interface {
	ListTableContents(conn *Conn, table string) ([]Row, error)
	TableInfo(conn *Conn, table string) ([]Column, error)
	ListFactionNames(conn *Conn) ([]string, error)
	ListFactions(conn *Conn) ([]Faction, error)
	CharactersInFaction(conn *Conn, factionName string) ([]Character, error)
	BestAttackInFaction(conn *Conn, factionName string) (*Character, error)
	BestDefenseInFaction(conn *Conn, factionName string) (*Character, error)
}

var _ RepositoryInterface = (*Repository)(nil)

// Repository handles the roster queries.
// It holds no connection; every call re-reads from the handle it is given.
type Repository struct {
	gw *Gateway
}

// NewRepository creates a new repository
func NewRepository(gw *Gateway) *Repository {
	return &Repository{gw: gw}
}

// factionFilter selects characters of the faction with an exact, case-sensitive name
const factionFilter = "idFaction = (SELECT id FROM faction WHERE name = ?)"

// ListTableContents returns every row of table in storage order
func (r *Repository) ListTableContents(conn *Conn, table string) ([]Row, error) {
	if !IsKnownTable(table) {
		return nil, r.gw.fail(apperrors.Statement("list table", fmt.Errorf("unknown table %q", table)))
	}
	return r.gw.ExecuteQuery(conn, fmt.Sprintf("SELECT * FROM %s", table))
}

// TableInfo returns the column layout of table
func (r *Repository) TableInfo(conn *Conn, table string) ([]Column, error) {
	if !IsKnownTable(table) {
		return nil, r.gw.fail(apperrors.Statement("table info", fmt.Errorf("unknown table %q", table)))
	}

	rows, err := r.gw.ExecuteQuery(conn, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(rows))
	for _, row := range rows {
		name, _ := row.Get("name")
		typ, _ := row.Get("type")
		notNull, _ := row.Get("notnull")
		columns = append(columns, Column{Name: name, Type: typ, NotNull: notNull == "1"})
	}
	return columns, nil
}

// ListFactionNames returns the distinct faction names
func (r *Repository) ListFactionNames(conn *Conn) ([]string, error) {
	return r.gw.ListDistinctColumnValues(conn, TableFaction, "name")
}

// ListFactions returns every faction ordered by id
func (r *Repository) ListFactions(conn *Conn) ([]Faction, error) {
	if err := r.gw.usable(conn, "list factions"); err != nil {
		return nil, err
	}

	var factions []Faction
	if err := conn.db.Order("id").Find(&factions).Error; err != nil {
		return nil, r.gw.fail(apperrors.Statement("list factions", err))
	}
	return factions, nil
}

// CharactersInFaction returns the characters of the named faction ordered by id.
// An unknown faction yields an empty slice and no error.
func (r *Repository) CharactersInFaction(conn *Conn, factionName string) ([]Character, error) {
	if err := r.gw.usable(conn, "characters in faction"); err != nil {
		return nil, err
	}

	characters := []Character{}
	err := conn.db.Where(factionFilter, factionName).Order("id").Find(&characters).Error
	if err != nil {
		return nil, r.gw.fail(apperrors.Statement("characters in faction", err), zap.String("faction", factionName))
	}
	return characters, nil
}

// BestAttackInFaction returns the character of the named faction with the
// highest attack, or nil when the faction is unknown. Ties go to whichever
// row the engine sorts first.
func (r *Repository) BestAttackInFaction(conn *Conn, factionName string) (*Character, error) {
	return r.bestInFaction(conn, factionName, "attack")
}

// BestDefenseInFaction returns the character of the named faction with the
// highest defense, or nil when the faction is unknown.
func (r *Repository) BestDefenseInFaction(conn *Conn, factionName string) (*Character, error) {
	return r.bestInFaction(conn, factionName, "defense")
}

func (r *Repository) bestInFaction(conn *Conn, factionName, column string) (*Character, error) {
	op := "best " + column + " in faction"
	if err := r.gw.usable(conn, op); err != nil {
		return nil, err
	}

	var characters []Character
	err := conn.db.Where(factionFilter, factionName).
		Order(column + " DESC").
		Limit(1).
		Find(&characters).Error
	if err != nil {
		return nil, r.gw.fail(apperrors.Statement(op, err), zap.String("faction", factionName))
	}

	if len(characters) == 0 {
		return nil, nil
	}
	return &characters[0], nil
}
