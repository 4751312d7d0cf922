package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bboyzero "github.com/bboyyzero/bboyzero-net-site"
	bboyhttp "github.com/bboyyzero/bboyzero-net-site/http"
	"github.com/bboyyzero/bboyzero-net-site/static"
	"github.com/bboyyzero/bboyzero-net-site/supabase"
)

const (
	testAdminToken = "e2e-admin-token"
	testServiceKey = "e2e-service-role-key"
	testBucket     = "event-images"
)

// fakeSupabase is an in-memory stand-in for the upstream store, speaking
// just enough of the REST and storage protocol for the gateway.
type fakeSupabase struct {
	mu       sync.Mutex
	events   []bboyzero.EventRow
	messages []bboyzero.MessageRow
	objects  map[string][]byte
}

func newFakeSupabase() *fakeSupabase {
	return &fakeSupabase{objects: make(map[string][]byte)}
}

func (f *fakeSupabase) handler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// every gateway call must carry the service credential
		require.Equal(t, testServiceKey, r.Header.Get("apikey"))
		require.Equal(t, "Bearer "+testServiceKey, r.Header.Get("Authorization"))

		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/rest/v1/events" && r.Method == http.MethodGet:
			f.listEvents(w, r)
		case r.URL.Path == "/rest/v1/events" && r.Method == http.MethodPost:
			f.insertEvent(w, r)
		case r.URL.Path == "/rest/v1/events" && r.Method == http.MethodDelete:
			f.deleteEvent(w, r)
		case r.URL.Path == "/rest/v1/messages" && r.Method == http.MethodPost:
			f.insertMessage(w, r)
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/") && r.Method == http.MethodPost:
			f.uploadObject(w, r)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeSupabase) listEvents(w http.ResponseWriter, r *http.Request) {
	// rows come back ordered by the requested date column
	if r.URL.Query().Get("order") != "date.asc" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	rows := make([]bboyzero.EventRow, len(f.events))
	copy(rows, f.events)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	_ = json.NewEncoder(w).Encode(rows)
}

func (f *fakeSupabase) insertEvent(w http.ResponseWriter, r *http.Request) {
	var row bboyzero.EventRow
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.events = append(f.events, row)

	w.WriteHeader(http.StatusCreated)
	if r.Header.Get("Prefer") == "return=representation" {
		_ = json.NewEncoder(w).Encode([]bboyzero.EventRow{row})
	}
}

func (f *fakeSupabase) deleteEvent(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("id")
	id := strings.TrimPrefix(filter, "eq.")

	kept := f.events[:0]
	for _, row := range f.events {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	// deleting an absent id is still a success
	f.events = kept
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeSupabase) insertMessage(w http.ResponseWriter, r *http.Request) {
	var row bboyzero.MessageRow
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.messages = append(f.messages, row)
	w.WriteHeader(http.StatusCreated)
}

func (f *fakeSupabase) uploadObject(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/")
	if r.Header.Get("x-upsert") != "false" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, exists := f.objects[key]; exists {
		w.WriteHeader(http.StatusConflict)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.objects[key] = data
	w.WriteHeader(http.StatusOK)
}

// startGateway wires a real client, service, resolver, and router against
// the fake upstream and returns the gateway's base URL.
func startGateway(t *testing.T, upstream *fakeSupabase) (string, *url.URL) {
	t.Helper()

	upstreamServer := httptest.NewServer(upstream.handler(t))
	t.Cleanup(upstreamServer.Close)

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>bboy zero</h1>"), 0o644))

	root, err := os.OpenRoot(staticDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	store := supabase.NewClient(supabase.Config{
		URL:        upstreamServer.URL,
		ServiceKey: testServiceKey,
		Bucket:     testBucket,
		Timeout:    5 * time.Second,
	})

	handler := bboyhttp.NewHandler(&bboyhttp.HandlerConfig{
		AdminToken:      testAdminToken,
		StoreConfigured: store.Configured(),
	}, bboyzero.NewService(store), static.NewResolver(root))

	gateway := httptest.NewServer(handler.Router())
	t.Cleanup(gateway.Close)

	upstreamURL, err := url.Parse(upstreamServer.URL)
	require.NoError(t, err)

	return gateway.URL, upstreamURL
}
