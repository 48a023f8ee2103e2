package handler

import "github.com/palemoky/forhonor-db/internal/database"

// formatFaction formats a faction for API response.
func formatFaction(f *database.Faction) map[string]any {
	return map[string]any{
		"id":     f.ID,
		"name":   f.Name,
		"resume": f.Resume,
	}
}

// formatCharacter formats a character for API response.
func formatCharacter(ch *database.Character) map[string]any {
	return map[string]any{
		"id":         ch.ID,
		"name":       ch.Name,
		"attack":     ch.Attack,
		"defense":    ch.Defense,
		"faction_id": ch.FactionID,
	}
}

// formatCharacters formats a list of characters, never returning nil.
func formatCharacters(characters []database.Character) []map[string]any {
	data := make([]map[string]any, len(characters))
	for i := range characters {
		data[i] = formatCharacter(&characters[i])
	}
	return data
}
