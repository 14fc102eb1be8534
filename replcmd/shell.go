// Package replcmd implements the verb-command language driving a Database
// from a terminal: CREATE, USE, INSERT, GET, UPDATE, DELETE, RANGE, REBUILD,
// TABLES, EXIT. Ground: the command set mirrors the routes of
// original_source/db_management_system/app.py one-for-one, standing in for
// run_demo.py's role as a terminal-facing exercise of the same operations.
package replcmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bplusdb/database"
	"bplusdb/tablekey"
)

// ErrExit is returned by Execute when the EXIT command was entered; callers
// use it to break their input loop.
var ErrExit = errors.New("replcmd: exit requested")

// Shell holds the command interpreter's state: the database it drives and
// which table USE last selected.
type Shell struct {
	db      *database.Database
	current string
}

// New creates a Shell bound to db.
func New(db *database.Database) *Shell {
	return &Shell{db: db}
}

// Execute parses and runs one line of input, returning text to print to the
// user. It returns ErrExit (with an empty string) when the line was EXIT.
func (sh *Shell) Execute(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	verb := strings.ToUpper(fields[0])
	args := fields[1:]

	switch verb {
	case "EXIT", "QUIT":
		return "", ErrExit
	case "CREATE":
		return sh.create(args)
	case "USE":
		return sh.use(args)
	case "TABLES":
		return sh.tables(args)
	case "INSERT":
		return sh.insert(args)
	case "GET":
		return sh.get(args)
	case "UPDATE":
		return sh.update(args)
	case "DELETE":
		return sh.delete(args)
	case "RANGE":
		return sh.rangeQuery(args)
	case "REBUILD":
		return sh.rebuild(args)
	default:
		return "", fmt.Errorf("unknown command %q", fields[0])
	}
}

func (sh *Shell) requireTable() (string, error) {
	if sh.current == "" {
		return "", errors.New("no table selected; run USE <name> first")
	}
	return sh.current, nil
}

// CREATE <name> [order]
func (sh *Shell) create(args []string) (string, error) {
	if len(args) < 1 {
		return "", errors.New("usage: CREATE <name> [order]")
	}
	order := 0
	if len(args) >= 2 {
		o, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid order %q: %w", args[1], err)
		}
		order = o
	}

	if _, err := sh.db.CreateTable(args[0], order); err != nil {
		return "", err
	}
	if err := sh.db.Save(); err != nil {
		return "", err
	}
	sh.current = args[0]
	return fmt.Sprintf("table %q created", args[0]), nil
}

// USE <name>
func (sh *Shell) use(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: USE <name>")
	}
	if _, ok := sh.db.GetTable(args[0]); !ok {
		return "", fmt.Errorf("table %q not found", args[0])
	}
	sh.current = args[0]
	return fmt.Sprintf("using table %q", args[0]), nil
}

// TABLES
func (sh *Shell) tables(args []string) (string, error) {
	names := sh.db.ListTables()
	if len(names) == 0 {
		return "(no tables)", nil
	}
	return strings.Join(names, "\n"), nil
}

// INSERT <key> <json-value>
func (sh *Shell) insert(args []string) (string, error) {
	name, err := sh.requireTable()
	if err != nil {
		return "", err
	}
	if len(args) < 2 {
		return "", errors.New("usage: INSERT <key> <json-value>")
	}

	t, _ := sh.db.GetTable(name)
	value, err := decodeValue(strings.Join(args[1:], " "))
	if err != nil {
		return "", err
	}

	t.Insert(tablekey.Normalize(args[0]), value)
	if err := sh.db.Save(); err != nil {
		return "", err
	}
	return fmt.Sprintf("inserted key %s", args[0]), nil
}

// GET <key>
func (sh *Shell) get(args []string) (string, error) {
	name, err := sh.requireTable()
	if err != nil {
		return "", err
	}
	if len(args) != 1 {
		return "", errors.New("usage: GET <key>")
	}

	t, _ := sh.db.GetTable(name)
	value, ok := t.Select(tablekey.Normalize(args[0]))
	if !ok {
		return "(not found)", nil
	}
	return formatValue(value), nil
}

// UPDATE <key> <json-value>
func (sh *Shell) update(args []string) (string, error) {
	name, err := sh.requireTable()
	if err != nil {
		return "", err
	}
	if len(args) < 2 {
		return "", errors.New("usage: UPDATE <key> <json-value>")
	}

	t, _ := sh.db.GetTable(name)
	value, err := decodeValue(strings.Join(args[1:], " "))
	if err != nil {
		return "", err
	}

	if !t.Update(tablekey.Normalize(args[0]), value) {
		return "(not found)", nil
	}
	if err := sh.db.Save(); err != nil {
		return "", err
	}
	return fmt.Sprintf("updated key %s", args[0]), nil
}

// DELETE <key>
func (sh *Shell) delete(args []string) (string, error) {
	name, err := sh.requireTable()
	if err != nil {
		return "", err
	}
	if len(args) != 1 {
		return "", errors.New("usage: DELETE <key>")
	}

	t, _ := sh.db.GetTable(name)
	if !t.Delete(tablekey.Normalize(args[0])) {
		return "(not found)", nil
	}
	if err := sh.db.Save(); err != nil {
		return "", err
	}
	return fmt.Sprintf("deleted key %s", args[0]), nil
}

// RANGE <lo> <hi>
func (sh *Shell) rangeQuery(args []string) (string, error) {
	name, err := sh.requireTable()
	if err != nil {
		return "", err
	}
	if len(args) != 2 {
		return "", errors.New("usage: RANGE <lo> <hi>")
	}

	t, _ := sh.db.GetTable(name)
	records := t.RangeQuery(tablekey.Normalize(args[0]), tablekey.Normalize(args[1]))
	if len(records) == 0 {
		return "(empty)", nil
	}

	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "%v: %s\n", r.Key, formatValue(r.Value))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// REBUILD <order>
func (sh *Shell) rebuild(args []string) (string, error) {
	name, err := sh.requireTable()
	if err != nil {
		return "", err
	}
	if len(args) != 1 {
		return "", errors.New("usage: REBUILD <order>")
	}
	order, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("invalid order %q: %w", args[0], err)
	}

	t, _ := sh.db.GetTable(name)
	if err := t.RebuildWithOrder(order); err != nil {
		return "", err
	}
	if err := sh.db.Save(); err != nil {
		return "", err
	}
	return fmt.Sprintf("table %q rebuilt with order %d", name, order), nil
}

func decodeValue(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("value must be JSON: %w", err)
	}
	return v, nil
}

func formatValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
