// Package httpapi exposes a Database over HTTP: per-table create/drop,
// record insert/update/delete/search/range, index rebuild, a Graphviz DOT
// render endpoint, and a WebSocket endpoint pushing a fresh render after
// every mutation.
//
// Ground: original_source/db_management_system/app.py's route list and
// save-after-every-mutation policy, with the Go framing (chi router,
// middleware stack, JSON/form content negotiation) taken from
// mnohosten-laura-db/pkg/server/server.go.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bplusdb/database"
)

// Server wraps a Database with chi-routed HTTP handlers.
type Server struct {
	db      *database.Database
	router  *chi.Mux
	httpSrv *http.Server
	watch   *watchRegistry
}

// New builds a Server bound to db, listening on addr once Start is called.
func New(db *database.Database, addr string) *Server {
	s := &Server{
		db:     db,
		router: chi.NewRouter(),
		watch:  newWatchRegistry(),
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.routes()

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// Handler returns the server's http.Handler, for use with httptest.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Get("/tables", s.listTables)
	s.router.Post("/tables", s.createTable)

	s.router.Route("/tables/{name}", func(r chi.Router) {
		r.Delete("/", s.dropTable)
		r.Get("/render", s.renderTable)
		r.Get("/watch", s.watchTable)
		r.Post("/rebuild", s.rebuildTable)

		r.Post("/records", s.insertRecord)
		r.Get("/records/{key}", s.getRecord)
		r.Put("/records/{key}", s.updateRecord)
		r.Delete("/records/{key}", s.deleteRecord)
		r.Get("/range", s.rangeQuery)
	})
}

// Start runs the HTTP server until it receives SIGINT/SIGTERM, at which
// point it shuts down gracefully and returns. It also returns early if
// ListenAndServe fails for a reason other than a graceful close.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("httpapi: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	}
}

// Shutdown gracefully stops the HTTP server and closes any open watch
// connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.watch.closeAll()
	return s.httpSrv.Shutdown(ctx)
}
