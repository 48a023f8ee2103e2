package menu

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/forhonor-db/internal/database"
	"github.com/palemoky/forhonor-db/internal/testutil"
)

const menuHeader = "----- For Honor Database Menu -----"

// runSession feeds input to a fresh controller and returns everything printed
func runSession(t *testing.T, repo database.RepositoryInterface, conn *database.Conn, input string) string {
	t.Helper()

	var out bytes.Buffer
	c := New(repo, conn, strings.NewReader(input), &out)
	require.NoError(t, c.Run())
	assert.Equal(t, StateExit, c.State())
	return out.String()
}

func TestSessions(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
		menus       int
	}{
		{
			name:  "exit immediately",
			input: "5\n",
			menus: 1,
		},
		{
			name:  "end of input exits",
			input: "",
			menus: 1,
		},
		{
			name:     "non numeric main choice",
			input:    "abc\n5\n",
			contains: []string{"Invalid input. Please enter a number."},
			menus:    2,
		},
		{
			name:     "out of range main choice",
			input:    "9\n5\n",
			contains: []string{"Invalid choice. Please enter a number between 1 and 5."},
			menus:    2,
		},
		{
			name:  "faction table",
			input: "1\n1\n5\n",
			contains: []string{
				"Table Info for faction:",
				"Column Name: resume, Type: VARCHAR(500), Not Null: true",
				"Content of faction:",
				"    id: 2, name: Vikings, resume: Fierce warriors with a strong connection to nature.",
			},
			menus: 2,
		},
		{
			name:  "character table",
			input: "1\n2\n5\n",
			contains: []string{
				"Content of character:",
				"    id: 6, name: Berserker, attack: 95.0, defense: 45.0, idFaction: 2",
				"    id: 9, name: Orochi, attack: 80.0, defense: 55.0, idFaction: 3",
			},
			menus: 2,
		},
		{
			name:        "invalid table choice falls back to main menu",
			input:       "1\n3\n5\n",
			contains:    []string{"Invalid choice. Please enter 1 or 2."},
			notContains: []string{"Content of"},
			menus:       2,
		},
		{
			name:        "non numeric table choice",
			input:       "1\nfaction\n5\n",
			contains:    []string{"Invalid input. Please enter a number."},
			notContains: []string{"Content of"},
			menus:       2,
		},
		{
			name:        "characters in faction",
			input:       "2\nSamurais\n5\n",
			contains:    []string{"Available Factions: [", "Characters of Samurais:", "Kensei", "Shugoki", "Orochi"},
			notContains: []string{"Warden", "Raider", "Berserker"},
			menus:       2,
		},
		{
			name:     "characters in unknown faction",
			input:    "2\nAtlanteans\n5\n",
			contains: []string{`No characters found for faction "Atlanteans".`},
			menus:    2,
		},
		{
			name:        "best attack",
			input:       "3\nVikings\n5\n",
			contains:    []string{"Best attack character of Vikings:", "Berserker", "95.0"},
			notContains: []string{"Raider", "Warlord"},
			menus:       2,
		},
		{
			name:        "best defense",
			input:       "4\n  Knights \n5\n",
			contains:    []string{"Best defense character of Knights:", "Conqueror", "70.0"},
			notContains: []string{"Warden", "Lawbringer"},
			menus:       2,
		},
		{
			name:     "best attack in unknown faction",
			input:    "3\nAtlanteans\n5\n",
			contains: []string{`No characters found for faction "Atlanteans".`},
			menus:    2,
		},
		{
			name:     "oversized line is invalid input",
			input:    strings.Repeat("x", 70000) + "\n5\n",
			contains: []string{"Invalid input. Please enter a number."},
			menus:    2,
		},
		{
			name:  "last line without newline",
			input: "5",
			menus: 1,
		},
		{
			name:        "faction name without newline",
			input:       "3\nVikings",
			contains:    []string{"Best attack character of Vikings:", "Berserker"},
			notContains: []string{"Raider"},
			menus:       2,
		},
		{
			name:     "table submenu lists tables",
			input:    "1\n7\n5\n",
			contains: []string{"1. Faction\n2. Character\n", "Enter your choice (1-2): ", "Invalid choice. Please enter 1 or 2."},
			menus:    2,
		},
		{
			name:  "end of input at faction prompt",
			input: "2\n",
			menus: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runSession(t, db.Repo, db.Conn, tt.input)

			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
			assert.Equal(t, tt.menus, strings.Count(out, menuHeader))
		})
	}
}

func TestStepTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var out bytes.Buffer
	c := New(db.Repo, db.Conn, strings.NewReader("1\n2\n3\nKnights\nx\n5\n"), &out)

	steps := []State{
		StateTableSubmenu,
		StateMainMenu,
		StateFactionPrompt,
		StateMainMenu,
		StateMainMenu,
		StateExit,
	}
	for i, want := range steps {
		assert.Equal(t, want, c.Step(), "step %d", i)
	}

	// exit is terminal
	assert.Equal(t, StateExit, c.Step())
}

func TestNilConnectionDoesNotCrash(t *testing.T) {
	repo := database.NewRepository(database.NewGateway(nil))

	out := runSession(t, repo, nil, "1\n1\n2\nKnights\n3\nVikings\n4\nKnights\n5\n")

	assert.Equal(t, 4, strings.Count(out, msgQueryFailed))
	assert.Contains(t, out, "Available Factions: []")
}

func TestReadErrorEndsSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	readErr := errors.New("terminal went away")

	var out bytes.Buffer
	c := New(db.Repo, db.Conn, iotest.ErrReader(readErr), &out)

	assert.ErrorIs(t, c.Run(), readErr)
	assert.Equal(t, StateExit, c.State())
}

func TestRepeatedSessionsReleaseResources(t *testing.T) {
	db := testutil.SetupTestDB(t)

	input := strings.Repeat("1\n2\n2\nVikings\n3\nSamurais\n4\nKnights\n", 25) + "5\n"
	runSession(t, db.Repo, db.Conn, input)

	stats := db.Gateway.Stats(db.Conn)
	assert.Equal(t, 0, stats.InUse)
	assert.LessOrEqual(t, stats.OpenConnections, 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "main-menu", StateMainMenu.String())
	assert.Equal(t, "table-submenu", StateTableSubmenu.String())
	assert.Equal(t, "faction-prompt", StateFactionPrompt.String())
	assert.Equal(t, "exit", StateExit.String())
	assert.Equal(t, "unknown", State(42).String())
}
