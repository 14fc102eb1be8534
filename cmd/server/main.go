// Command server exposes a Database over HTTP, grounded on
// Hareesh108-haruDB/cmd/server/main.go and
// mnohosten-laura-db/cmd/server/main.go's flag-driven wiring, with graceful
// shutdown on SIGINT/SIGTERM handled inside httpapi.Server.Start.
package main

import (
	"flag"
	"fmt"
	"os"

	"bplusdb/database"
	"bplusdb/httpapi"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	path := flag.String("db", "bplusdb.bpdb", "path to the database snapshot file")
	flag.Parse()

	db, err := database.Open(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "server: opening database:", err)
		os.Exit(1)
	}

	srv := httpapi.New(db, *addr)
	fmt.Printf("bplusdb server listening on %s (snapshot: %s)\n", *addr, *path)

	if err := srv.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}
