package database

import "slices"

const (
	TableFaction   = "faction"
	TableCharacter = "character"
)

// CreateFactionTableSQL creates the faction table
const CreateFactionTableSQL = `CREATE TABLE IF NOT EXISTS faction (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(15) NOT NULL,
	resume VARCHAR(500) NOT NULL
)`

// DropCharacterTableSQL removes the character table before it is recreated
const DropCharacterTableSQL = `DROP TABLE IF EXISTS character`

// CreateCharacterTableSQL creates the character table with its faction reference
const CreateCharacterTableSQL = `CREATE TABLE IF NOT EXISTS character (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(15) NOT NULL,
	attack REAL NOT NULL,
	defense REAL NOT NULL,
	idFaction INTEGER NOT NULL,
	FOREIGN KEY (idFaction) REFERENCES faction(id)
)`

// SchemaSQL is the ordered list of schema statements run at initialization
var SchemaSQL = []string{
	CreateFactionTableSQL,
	DropCharacterTableSQL,
	CreateCharacterTableSQL,
}

// knownColumns whitelists identifiers that may be interpolated into SQL
var knownColumns = map[string][]string{
	TableFaction:   {"id", "name", "resume"},
	TableCharacter: {"id", "name", "attack", "defense", "idFaction"},
}

// Tables returns the names of the application tables
func Tables() []string {
	return []string{TableFaction, TableCharacter}
}

// IsKnownTable reports whether table belongs to the schema
func IsKnownTable(table string) bool {
	_, ok := knownColumns[table]
	return ok
}

// IsKnownColumn reports whether column belongs to table
func IsKnownColumn(table, column string) bool {
	return slices.Contains(knownColumns[table], column)
}
