package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bplusdb/table"
	"bplusdb/tablekey"
)

// isJSONRequest reports whether the request body should be decoded as JSON
// rather than a form body, content-negotiated on Content-Type (ground:
// app.py accepts both a form submission and a JSON API body for the same
// routes).
func isJSONRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// normalizeKey converts a decoded key value into the int64-or-string
// dynamic kind table.Table expects. A JSON number decodes to float64; a form
// value arrives as plain text and is normalized the way app.py does
// ("try: key = int(key) except ValueError: pass").
func normalizeKey(v any) any {
	switch x := v.(type) {
	case string:
		return tablekey.Normalize(x)
	case float64:
		return int64(x)
	default:
		return v
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) tableFromPath(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	name := chi.URLParam(r, "name")
	t, ok := s.db.GetTable(name)
	if !ok {
		writeError(w, http.StatusNotFound, "table not found")
		return nil, false
	}
	return t, true
}

func (s *Server) saveOrWarn(w http.ResponseWriter) bool {
	if err := s.db.Save(); err != nil {
		writeError(w, http.StatusInternalServerError, "saving database: "+err.Error())
		return false
	}
	return true
}

// listTables handles GET /tables.
func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tables": s.db.ListTables()})
}

// createTable handles POST /tables.
func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	var name string
	order := 0

	if isJSONRequest(r) {
		var body struct {
			Name  string `json:"name"`
			Order int    `json:"order"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		name, order = body.Name, body.Order
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body: "+err.Error())
			return
		}
		name = r.FormValue("name")
		if o, err := strconv.Atoi(r.FormValue("order")); err == nil {
			order = o
		}
	}

	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	t, err := s.db.CreateTable(name, order)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if !s.saveOrWarn(w) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": t.Name(), "order": t.Order()})
}

// dropTable handles DELETE /tables/{name}.
func (s *Server) dropTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.db.DeleteTable(name) {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}
	if !s.saveOrWarn(w) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// insertRecord handles POST /tables/{name}/records.
func (s *Server) insertRecord(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tableFromPath(w, r)
	if !ok {
		return
	}

	var key, value any
	if isJSONRequest(r) {
		var body struct {
			Key   any `json:"key"`
			Value any `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		key, value = body.Key, body.Value
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body: "+err.Error())
			return
		}
		key = r.FormValue("key")
		if err := json.Unmarshal([]byte(r.FormValue("value")), &value); err != nil {
			writeError(w, http.StatusBadRequest, "value must be JSON: "+err.Error())
			return
		}
	}

	t.Insert(normalizeKey(key), value)
	if !s.saveOrWarn(w) {
		return
	}
	s.notify(t.Name())
	writeJSON(w, http.StatusCreated, map[string]any{"key": key, "value": value})
}

// getRecord handles GET /tables/{name}/records/{key}.
func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tableFromPath(w, r)
	if !ok {
		return
	}
	key := normalizeKey(chi.URLParam(r, "key"))

	value, found := t.Select(key)
	if !found {
		writeError(w, http.StatusNotFound, "key not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": value})
}

// updateRecord handles PUT /tables/{name}/records/{key}.
func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tableFromPath(w, r)
	if !ok {
		return
	}
	key := normalizeKey(chi.URLParam(r, "key"))

	var value any
	if isJSONRequest(r) {
		var body struct {
			Value any `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		value = body.Value
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body: "+err.Error())
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("value")), &value); err != nil {
			writeError(w, http.StatusBadRequest, "value must be JSON: "+err.Error())
			return
		}
	}

	if !t.Update(key, value) {
		writeError(w, http.StatusNotFound, "key not found")
		return
	}
	if !s.saveOrWarn(w) {
		return
	}
	s.notify(t.Name())
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": value})
}

// deleteRecord handles DELETE /tables/{name}/records/{key}.
func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tableFromPath(w, r)
	if !ok {
		return
	}
	key := normalizeKey(chi.URLParam(r, "key"))

	if !t.Delete(key) {
		writeError(w, http.StatusNotFound, "key not found")
		return
	}
	if !s.saveOrWarn(w) {
		return
	}
	s.notify(t.Name())
	w.WriteHeader(http.StatusNoContent)
}

// rangeQuery handles GET /tables/{name}/range?lo=&hi=.
func (s *Server) rangeQuery(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tableFromPath(w, r)
	if !ok {
		return
	}

	lo := normalizeKey(r.URL.Query().Get("lo"))
	hi := normalizeKey(r.URL.Query().Get("hi"))

	records := t.RangeQuery(lo, hi)
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// rebuildTable handles POST /tables/{name}/rebuild.
func (s *Server) rebuildTable(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tableFromPath(w, r)
	if !ok {
		return
	}

	var newOrder int
	if isJSONRequest(r) {
		var body struct {
			Order int `json:"order"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		newOrder = body.Order
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body: "+err.Error())
			return
		}
		newOrder, _ = strconv.Atoi(r.FormValue("order"))
	}

	if err := t.RebuildWithOrder(newOrder); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.saveOrWarn(w) {
		return
	}
	s.notify(t.Name())
	writeJSON(w, http.StatusOK, map[string]any{"name": t.Name(), "order": t.Order()})
}

// renderTable handles GET /tables/{name}/render, emitting the Graphviz DOT
// description of the table's index.
func (s *Server) renderTable(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tableFromPath(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	if err := t.Visualize(w); err != nil {
		writeError(w, http.StatusInternalServerError, "rendering: "+err.Error())
	}
}
