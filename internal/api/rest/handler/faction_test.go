package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/forhonor-db/internal/database"
	"github.com/palemoky/forhonor-db/internal/testutil"
)

func setupFactionTestRouter(t *testing.T, conn func(*testutil.TestDB) *database.Conn) *gin.Engine {
	t.Helper()

	db := testutil.SetupTestDB(t)
	handler := NewFactionHandler(db.Repo, conn(db))

	router := testutil.SetupTestGin()
	router.GET("/factions", handler.ListFactions)
	router.GET("/factions/:name/characters", handler.ListCharacters)
	router.GET("/factions/:name/best-attack", handler.BestAttack)
	router.GET("/factions/:name/best-defense", handler.BestDefense)
	return router
}

func openConn(db *testutil.TestDB) *database.Conn { return db.Conn }

func get(t *testing.T, router *gin.Engine, path string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func TestListFactions(t *testing.T) {
	router := setupFactionTestRouter(t, openConn)

	status, response := get(t, router, "/factions")
	require.Equal(t, http.StatusOK, status)

	data, ok := response["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 3)

	first := data[0].(map[string]any)
	assert.Equal(t, "Knights", first["name"])
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Honorable warriors with a code of chivalry.", first["resume"])
}

func TestListCharacters(t *testing.T) {
	router := setupFactionTestRouter(t, openConn)

	tests := []struct {
		name      string
		path      string
		wantNames []string
	}{
		{"samurais", "/factions/Samurais/characters", []string{"Kensei", "Shugoki", "Orochi"}},
		{"unknown faction", "/factions/Atlanteans/characters", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, response := get(t, router, tt.path)
			require.Equal(t, http.StatusOK, status)

			data, ok := response["data"].([]any)
			require.True(t, ok, "data should be a list, even when empty")

			names := []string{}
			for _, item := range data {
				names = append(names, item.(map[string]any)["name"].(string))
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestBestCharacter(t *testing.T) {
	router := setupFactionTestRouter(t, openConn)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		wantName       string
	}{
		{"best attack vikings", "/factions/Vikings/best-attack", http.StatusOK, "Berserker"},
		{"best defense knights", "/factions/Knights/best-defense", http.StatusOK, "Conqueror"},
		{"best attack unknown faction", "/factions/Atlanteans/best-attack", http.StatusNotFound, ""},
		{"best defense unknown faction", "/factions/Atlanteans/best-defense", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, response := get(t, router, tt.path)
			assert.Equal(t, tt.expectedStatus, status)

			if tt.wantName == "" {
				assert.Equal(t, "NOT_FOUND", response["code"])
				return
			}
			data := response["data"].(map[string]any)
			assert.Equal(t, tt.wantName, data["name"])
		})
	}
}

func TestFactionHandlerWithoutConnection(t *testing.T) {
	router := setupFactionTestRouter(t, func(*testutil.TestDB) *database.Conn { return nil })

	for _, path := range []string{
		"/factions",
		"/factions/Knights/characters",
		"/factions/Knights/best-attack",
		"/factions/Knights/best-defense",
	} {
		status, response := get(t, router, path)
		assert.Equal(t, http.StatusServiceUnavailable, status, path)
		assert.Equal(t, "CONNECTION_ERROR", response["code"], path)
	}
}
