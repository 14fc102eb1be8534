// Command repl is an interactive line-editing shell over a Database,
// grounded on Hareesh108-haruDB/cmd/cli/main.go's peterh/liner usage —
// adapted from a TCP client talking to a remote server into an in-process
// dispatcher, since this engine embeds rather than listens.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"bplusdb/database"
	"bplusdb/replcmd"
)

func main() {
	path := flag.String("db", "bplusdb.bpdb", "path to the database snapshot file")
	flag.Parse()

	db, err := database.Open(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "repl: opening database:", err)
		os.Exit(1)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".bplusdb_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Println("bplusdb repl —", *path)
	fmt.Println("commands: CREATE, USE, TABLES, INSERT, GET, UPDATE, DELETE, RANGE, REBUILD, EXIT")

	sh := replcmd.New(db)
	for {
		input, err := line.Prompt("bplusdb> ")
		if err != nil {
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		out, err := sh.Execute(input)
		if err != nil {
			if errors.Is(err, replcmd.ErrExit) {
				break
			}
			fmt.Println("error:", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}
