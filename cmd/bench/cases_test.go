package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQL(t *testing.T) {
	stmts := splitSQL("-- comment\nCREATE TABLE a (id int);\n\nCREATE INDEX i ON a (id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id int)", "CREATE INDEX i ON a (id)"}, stmts)
}

func TestExtractTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.sql")
	require.NoError(t, os.WriteFile(path, []byte("create table if not exists facilities (id text);"), 0o600))

	tables, err := extractTables(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"facilities"}, tables)
}

func TestHTTPCase_StatusClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := NewRunner(Config{BaseURL: srv.URL, Concurrency: 2, Duration: 50 * time.Millisecond})
	ctx := context.Background()

	assert.Equal(t, "PASS", httpCaseMethod("ok", http.MethodGet, srv.URL+"/ok", nil, []int{200}).Run(ctx, r).Status)
	assert.Equal(t, "FAIL", httpCaseMethod("bad", http.MethodGet, srv.URL+"/bad", nil, []int{200}).Run(ctx, r).Status)
	assert.Equal(t, "FAIL", httpCaseMethod("missing", http.MethodGet, srv.URL+"/gone", nil, []int{200}).Run(ctx, r).Status)
}

func TestConcurrentNearby_DetectsAgreement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"facilities":[{"id":"a","distance_km":1},{"id":"b","distance_km":2}]}`))
	}))
	defer srv.Close()

	r := NewRunner(Config{BaseURL: srv.URL, Concurrency: 5})
	res := concurrentNearby(context.Background(), r, srv.URL)
	assert.Equal(t, "PASS", res.Status, res.Note)
}
