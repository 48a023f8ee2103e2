// Package testutil provides shared utilities for testing.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/palemoky/forhonor-db/internal/database"
)

// TestDB bundles the handles a test needs to query a seeded database.
type TestDB struct {
	Path    string
	Gateway *database.Gateway
	Conn    *database.Conn
	Repo    *database.Repository
}

// SetupTestDB creates a seeded SQLite file under t.TempDir() and opens it.
// The connection is closed automatically on test completion.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	gw := database.NewGateway(zap.NewNop())
	path := filepath.Join(t.TempDir(), "data", "forhonor.db")

	_, err := database.EnsureInitialized(gw, path, nil)
	require.NoError(t, err, "Failed to initialize database")

	conn, err := gw.Open(path)
	require.NoError(t, err, "Failed to open database")

	t.Cleanup(func() {
		gw.Close(conn)
	})

	return &TestDB{
		Path:    path,
		Gateway: gw,
		Conn:    conn,
		Repo:    database.NewRepository(gw),
	}
}

// SetupTestGin creates a test Gin engine with test mode enabled.
func SetupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
