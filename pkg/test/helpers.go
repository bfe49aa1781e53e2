package test

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todoapi/internal/adapter/database/sqlite"
)

// InitTestDB opens a fresh migrated in-memory database.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.NewDB(sqlite.Options{DSN: sqlite.MemoryDSN})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// CountRows returns how many rows table holds.
func CountRows(t *testing.T, db *sqlite.DB, table string) int {
	t.Helper()

	var count int

	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// NewJSONRequest builds a request carrying body as raw JSON. An empty body
// sends no body at all.
func NewJSONRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func Serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	return w
}

func DoRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	return Serve(handler, NewJSONRequest(method, path, body))
}

// DecodeJSON unmarshals the recorded body into T.
func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T

	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}

	return out
}
