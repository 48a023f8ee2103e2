package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
)

// SeedFactions are the factions inserted on first run, in id order
var SeedFactions = []Faction{
	{Name: "Knights", Resume: "Honorable warriors with a code of chivalry."},
	{Name: "Vikings", Resume: "Fierce warriors with a strong connection to nature."},
	{Name: "Samurais", Resume: "Disciplined warriors with a focus on martial arts."},
}

// SeedCharacters are the characters inserted on first run.
// FactionID refers to the position of the faction in SeedFactions, starting at 1.
var SeedCharacters = []Character{
	// Knights
	{Name: "Warden", Attack: 80, Defense: 60, FactionID: 1},
	{Name: "Conqueror", Attack: 75, Defense: 70, FactionID: 1},
	{Name: "Lawbringer", Attack: 85, Defense: 65, FactionID: 1},

	// Vikings
	{Name: "Raider", Attack: 90, Defense: 50, FactionID: 2},
	{Name: "Warlord", Attack: 70, Defense: 75, FactionID: 2},
	{Name: "Berserker", Attack: 95, Defense: 45, FactionID: 2},

	// Samurais
	{Name: "Kensei", Attack: 75, Defense: 70, FactionID: 3},
	{Name: "Shugoki", Attack: 90, Defense: 60, FactionID: 3},
	{Name: "Orochi", Attack: 80, Defense: 55, FactionID: 3},
}

const (
	insertFactionSQL   = `INSERT INTO faction (name, resume) VALUES (?, ?)`
	insertCharacterSQL = `INSERT INTO character (name, attack, defense, idFaction) VALUES (?, ?, ?, ?)`
)

// Initialize creates the schema in the file at path and inserts the seed rows.
// Each statement commits on its own; an interrupted run may leave the tables
// partially populated. Returns the number of statements that failed.
// progress is optional and gets one bar covering every statement.
func Initialize(gw *Gateway, path string, progress *mpb.Progress) int {
	conn, err := gw.Open(path)
	if err != nil {
		return len(SchemaSQL) + len(SeedFactions) + len(SeedCharacters)
	}
	defer gw.Close(conn)

	var bar *mpb.Bar
	if progress != nil {
		bar = progress.AddBar(int64(len(SchemaSQL)+len(SeedFactions)+len(SeedCharacters)),
			mpb.PrependDecorators(
				decor.Name("Seeding: ", decor.WC{W: 9, C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
			),
		)
	}

	failed := 0
	step := func(query string, args ...any) {
		if _, err := gw.ExecuteUpdate(conn, query, args...); err != nil {
			failed++
		}
		if bar != nil {
			bar.Increment()
		}
	}

	for _, stmt := range SchemaSQL {
		step(stmt)
	}
	for _, f := range SeedFactions {
		step(insertFactionSQL, f.Name, f.Resume)
	}
	for _, c := range SeedCharacters {
		step(insertCharacterSQL, c.Name, c.Attack, c.Defense, c.FactionID)
	}

	gw.log.Info("Database initialized",
		zap.String("path", path),
		zap.Int("factions", len(SeedFactions)),
		zap.Int("characters", len(SeedCharacters)),
		zap.Int("failed_statements", failed),
	)

	return failed
}

// EnsureInitialized runs Initialize only when no file exists at path.
// The parent directory is created when missing. Reports whether seeding ran.
func EnsureInitialized(gw *Gateway, path string, progress *mpb.Progress) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		gw.log.Debug("Database already exists, skipping initialization", zap.String("path", path))
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat database: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create data directory: %w", err)
	}

	if failed := Initialize(gw, path, progress); failed > 0 {
		return true, fmt.Errorf("initialization finished with %d failed statements", failed)
	}
	return true, nil
}
