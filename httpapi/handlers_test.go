package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bplusdb/database"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.bpdb"))
	require.NoError(t, err)
	return New(db, "")
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListTables(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "users", "order": 4})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/tables", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{"users"}, body["tables"])
}

func TestCreateTableConflict(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "users", "order": 4})

	rec := doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "users", "order": 4})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInsertGetUpdateDeleteRecord(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "users", "order": 4})

	rec := doJSON(t, s, http.MethodPost, "/tables/users/records", map[string]any{
		"key": float64(1), "value": map[string]any{"name": "Alice"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/tables/users/records/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]any{"name": "Alice"}, got["value"])

	rec = doJSON(t, s, http.MethodPut, "/tables/users/records/1", map[string]any{
		"value": map[string]any{"name": "Alicia"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/tables/users/records/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/tables/users/records/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecordMissingTable(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/tables/ghost/records/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRangeQuery(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "nums", "order": 4})
	for i := 0; i < 10; i++ {
		doJSON(t, s, http.MethodPost, "/tables/nums/records", map[string]any{
			"key": float64(i), "value": i * 10,
		})
	}

	rec := doJSON(t, s, http.MethodGet, "/tables/nums/range?lo=3&hi=6", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	records, ok := body["records"].([]any)
	require.True(t, ok)
	assert.Len(t, records, 4)
}

func TestRebuildTable(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "t", "order": 4})
	for i := 0; i < 20; i++ {
		doJSON(t, s, http.MethodPost, "/tables/t/records", map[string]any{"key": float64(i), "value": i})
	}

	rec := doJSON(t, s, http.MethodPost, "/tables/t/rebuild", map[string]any{"order": 8})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/tables/t/records/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRebuildTableInvalidOrder(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "t", "order": 4})

	rec := doJSON(t, s, http.MethodPost, "/tables/t/rebuild", map[string]any{"order": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderTableReturnsDOT(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "t", "order": 4})
	doJSON(t, s, http.MethodPost, "/tables/t/records", map[string]any{"key": float64(1), "value": "x"})

	req := httptest.NewRequest(http.MethodGet, "/tables/t/render", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "digraph")
}

func TestInsertRecordFormContentType(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/tables", map[string]any{"name": "t", "order": 4})

	form := "key=42&value=%22hello%22"
	req := httptest.NewRequest(http.MethodPost, "/tables/t/records", bytes.NewBufferString(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/tables/t/records/42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "hello", got["value"])
}
