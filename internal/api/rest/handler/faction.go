package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/palemoky/forhonor-db/internal/database"
	apperrors "github.com/palemoky/forhonor-db/internal/errors"
)

// FactionHandler handles faction-related requests
type FactionHandler struct {
	repo database.RepositoryInterface
	conn *database.Conn
}

// NewFactionHandler creates a new faction handler
func NewFactionHandler(repo database.RepositoryInterface, conn *database.Conn) *FactionHandler {
	return &FactionHandler{repo: repo, conn: conn}
}

// ListFactions returns every faction
func (h *FactionHandler) ListFactions(c *gin.Context) {
	factions, err := h.repo.ListFactions(h.conn)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]map[string]any, len(factions))
	for i := range factions {
		data[i] = formatFaction(&factions[i])
	}

	respondOK(c, data)
}

// ListCharacters returns the characters of the faction named in the path.
// An unknown faction yields an empty list.
func (h *FactionHandler) ListCharacters(c *gin.Context) {
	characters, err := h.repo.CharactersInFaction(h.conn, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, formatCharacters(characters))
}

// BestAttack returns the highest attack character of the faction
func (h *FactionHandler) BestAttack(c *gin.Context) {
	h.respondBest(c, h.repo.BestAttackInFaction)
}

// BestDefense returns the highest defense character of the faction
func (h *FactionHandler) BestDefense(c *gin.Context) {
	h.respondBest(c, h.repo.BestDefenseInFaction)
}

func (h *FactionHandler) respondBest(c *gin.Context, find func(*database.Conn, string) (*database.Character, error)) {
	best, err := find(h.conn, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	if best == nil {
		respondError(c, apperrors.NotFound("Faction"))
		return
	}

	respondOK(c, formatCharacter(best))
}
