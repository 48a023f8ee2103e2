// Package menu implements the interactive console menu as a state machine
// driven by an injected input stream.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/palemoky/forhonor-db/internal/database"
	apperrors "github.com/palemoky/forhonor-db/internal/errors"
)

// State is a menu state
type State int

const (
	StateMainMenu State = iota
	StateTableSubmenu
	StateFactionPrompt
	StateExit
)

func (s State) String() string {
	switch s {
	case StateMainMenu:
		return "main-menu"
	case StateTableSubmenu:
		return "table-submenu"
	case StateFactionPrompt:
		return "faction-prompt"
	case StateExit:
		return "exit"
	default:
		return "unknown"
	}
}

// factionQuery selects what the faction prompt runs once a name is read
type factionQuery int

const (
	queryCharacters factionQuery = iota + 1
	queryBestAttack
	queryBestDefense
)

const (
	msgInvalidNumber = "Invalid input. Please enter a number."
	msgQueryFailed   = "The query failed, see the log for details."
)

// Controller runs one read-evaluate step per call to Step.
type Controller struct {
	repo  database.RepositoryInterface
	conn  *database.Conn
	in    *bufio.Reader
	out   io.Writer
	state State
	query factionQuery
	err   error
}

// New creates a controller in the main menu state.
// conn may be nil, in which case every query reports a failure.
func New(repo database.RepositoryInterface, conn *database.Conn, in io.Reader, out io.Writer) *Controller {
	return &Controller{
		repo:  repo,
		conn:  conn,
		in:    bufio.NewReader(in),
		out:   out,
		state: StateMainMenu,
	}
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Step performs one prompt/read/dispatch cycle and returns the new state
func (c *Controller) Step() State {
	switch c.state {
	case StateMainMenu:
		c.state = c.mainMenu()
	case StateTableSubmenu:
		c.state = c.tableSubmenu()
	case StateFactionPrompt:
		c.state = c.factionPrompt()
	}
	return c.state
}

// Run steps until the exit state is reached.
// It returns the first error hit while reading input or writing output.
func (c *Controller) Run() error {
	for c.state != StateExit {
		c.Step()
	}
	return c.err
}

func (c *Controller) mainMenu() State {
	c.println("----- For Honor Database Menu -----")
	c.println("1. Show a table")
	c.println("2. Show characters per faction")
	c.println("3. Show the best attack character of a faction")
	c.println("4. Show the best defense character of a faction")
	c.println("5. Exit")
	c.printf("Enter your choice (1-5): ")

	choice, err := c.readChoice()
	if err != nil {
		return c.handleReadErr(err)
	}

	switch choice {
	case 1:
		return StateTableSubmenu
	case 2:
		c.query = queryCharacters
		return StateFactionPrompt
	case 3:
		c.query = queryBestAttack
		return StateFactionPrompt
	case 4:
		c.query = queryBestDefense
		return StateFactionPrompt
	case 5:
		return StateExit
	default:
		c.println("Invalid choice. Please enter a number between 1 and 5.")
		return StateMainMenu
	}
}

func (c *Controller) tableSubmenu() State {
	tables := database.Tables()

	c.println("Select a table to show:")
	for i, table := range tables {
		c.printf("%d. %s\n", i+1, strings.ToUpper(table[:1])+table[1:])
	}
	c.printf("Enter your choice (1-%d): ", len(tables))

	choice, err := c.readChoice()
	if err != nil {
		return c.handleReadErr(err)
	}

	if choice < 1 || choice > len(tables) {
		c.println("Invalid choice. Please enter 1 or 2.")
		return StateMainMenu
	}
	c.showTable(tables[choice-1])
	return StateMainMenu
}

func (c *Controller) factionPrompt() State {
	names, _ := c.repo.ListFactionNames(c.conn)
	c.printf("Available Factions: [%s]\n", strings.Join(names, ", "))
	c.printf("Enter the name of the faction: ")

	line, err := c.readLine()
	if err != nil {
		return c.handleReadErr(err)
	}
	name := strings.TrimSpace(line)

	switch c.query {
	case queryCharacters:
		characters, err := c.repo.CharactersInFaction(c.conn, name)
		if err != nil {
			c.println(msgQueryFailed)
			break
		}
		c.printf("Characters of %s:\n", name)
		c.showCharacters(name, characters...)
	case queryBestAttack:
		best, err := c.repo.BestAttackInFaction(c.conn, name)
		c.showBest("attack", name, best, err)
	case queryBestDefense:
		best, err := c.repo.BestDefenseInFaction(c.conn, name)
		c.showBest("defense", name, best, err)
	}
	return StateMainMenu
}

func (c *Controller) showTable(table string) {
	columns, err := c.repo.TableInfo(c.conn, table)
	if err != nil {
		c.println(msgQueryFailed)
		return
	}
	c.printf("Table Info for %s:\n", table)
	for _, col := range columns {
		c.printf("Column Name: %s, Type: %s, Not Null: %t\n", col.Name, col.Type, col.NotNull)
	}
	c.println()

	rows, err := c.repo.ListTableContents(c.conn, table)
	if err != nil {
		c.println(msgQueryFailed)
		return
	}
	c.printf("Content of %s:\n", table)
	for _, row := range rows {
		c.printf("    %s\n", row)
	}
	c.println()
}

func (c *Controller) showBest(rating, faction string, best *database.Character, err error) {
	if err != nil {
		c.println(msgQueryFailed)
		return
	}
	c.printf("Best %s character of %s:\n", rating, faction)
	if best == nil {
		c.showCharacters(faction)
		return
	}
	c.showCharacters(faction, *best)
}

func (c *Controller) showCharacters(faction string, characters ...database.Character) {
	if len(characters) == 0 {
		c.printf("No characters found for faction %q.\n\n", faction)
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Name", "Attack", "Defense", "Faction ID")
	for _, ch := range characters {
		if err := table.Append([]string{
			strconv.FormatInt(ch.ID, 10),
			ch.Name,
			formatRating(ch.Attack),
			formatRating(ch.Defense),
			strconv.FormatInt(ch.FactionID, 10),
		}); err != nil {
			c.setErr(err)
		}
	}
	c.setErr(table.Render())
	c.println()
}

// handleReadErr reports an input error and returns to the main menu.
// Exhausted or failing input ends the session.
func (c *Controller) handleReadErr(err error) State {
	if apperrors.IsKind(err, apperrors.KindInput) {
		c.println(err.Error())
		return StateMainMenu
	}
	if !errors.Is(err, io.EOF) {
		c.setErr(err)
	}
	return StateExit
}

// readChoice reads one line as a menu number.
// It returns io.EOF when input is exhausted and an input error otherwise.
func (c *Controller) readChoice() (int, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, apperrors.Input(msgInvalidNumber)
	}
	return choice, nil
}

// readLine returns the next line without its terminator. Lines have no
// length limit. A final line without a newline is returned before io.EOF.
func (c *Controller) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Controller) printf(format string, args ...any) {
	_, err := fmt.Fprintf(c.out, format, args...)
	c.setErr(err)
}

func (c *Controller) println(args ...any) {
	_, err := fmt.Fprintln(c.out, args...)
	c.setErr(err)
}

func (c *Controller) setErr(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
