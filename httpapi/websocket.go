package httpapi

import (
	"bytes"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// upgrader mirrors mnohosten-laura-db/pkg/server/handlers/websocket.go's
// upgrader: buffered defaults, origin checking left open since this is a
// local admin surface, not a public API.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// watchRegistry tracks active "watch" WebSocket connections per table name
// and pushes a fresh render to each after every mutation of that table.
// Ground: mnohosten-laura-db/pkg/server/handlers/websocket.go's
// ChangeStreamManager, repurposed from oplog change events to
// tree-render-after-mutation events.
type watchRegistry struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]struct{}
}

func newWatchRegistry() *watchRegistry {
	return &watchRegistry{conns: map[string]map[*websocket.Conn]struct{}{}}
}

func (w *watchRegistry) add(table string, conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conns[table] == nil {
		w.conns[table] = map[*websocket.Conn]struct{}{}
	}
	w.conns[table][conn] = struct{}{}
}

func (w *watchRegistry) remove(table string, conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.conns[table], conn)
}

// pushTo sends payload to every connection watching table. Write errors
// just drop the connection from the registry; the read-loop goroutine that
// owns it will observe the close and exit.
func (w *watchRegistry) pushTo(table string, payload []byte) {
	w.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(w.conns[table]))
	for c := range w.conns[table] {
		conns = append(conns, c)
	}
	w.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("httpapi: watch push to %s failed: %v", table, err)
			w.remove(table, c)
		}
	}
}

func (w *watchRegistry) closeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, conns := range w.conns {
		for c := range conns {
			c.Close()
		}
	}
	w.conns = map[string]map[*websocket.Conn]struct{}{}
}

// notify is called by the mutation handlers after a successful insert,
// update, delete, or rebuild; it renders the table's current tree and
// pushes the DOT text to every watcher.
func (s *Server) notify(tableName string) {
	t, ok := s.db.GetTable(tableName)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := t.Visualize(&buf); err != nil {
		log.Printf("httpapi: rendering %s for watch push: %v", tableName, err)
		return
	}
	s.watch.pushTo(tableName, buf.Bytes())
}

// watchTable handles GET /tables/{name}/watch, upgrading to a WebSocket that
// receives a fresh render after every mutation of the table.
func (s *Server) watchTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.db.GetTable(name); !ok {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("httpapi: websocket upgrade failed: %v", err)
		return
	}
	s.watch.add(name, conn)

	defer func() {
		s.watch.remove(name, conn)
		conn.Close()
	}()

	s.notify(name) // send an initial render immediately on connect

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
