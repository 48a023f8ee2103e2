package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/forhonor-db/internal/database"
	apperrors "github.com/palemoky/forhonor-db/internal/errors"
)

// TableHandler dumps whole tables
type TableHandler struct {
	repo database.RepositoryInterface
	conn *database.Conn
}

// NewTableHandler creates a new table handler
func NewTableHandler(repo database.RepositoryInterface, conn *database.Conn) *TableHandler {
	return &TableHandler{repo: repo, conn: conn}
}

// GetTable returns the column layout and every row of a table
func (h *TableHandler) GetTable(c *gin.Context) {
	name := c.Param("name")
	if !database.IsKnownTable(name) {
		respondError(c, apperrors.Input(fmt.Sprintf("Unknown table %q, expected one of: %s",
			name, strings.Join(database.Tables(), ", "))))
		return
	}

	columns, err := h.repo.TableInfo(h.conn, name)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.repo.ListTableContents(h.conn, name)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]map[string]string, len(rows))
	for i, row := range rows {
		data[i] = row.Map()
	}

	respondOK(c, gin.H{
		"table":   name,
		"columns": columns,
		"rows":    data,
	})
}
