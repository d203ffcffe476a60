package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aleister1102/urlist/internal/config"
	"github.com/aleister1102/urlist/internal/datastore"
	"github.com/aleister1102/urlist/internal/metadata"
	"github.com/aleister1102/urlist/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hiPage = `<html><head><meta property="og:title" content="Hi"></head><body></body></html>`

type testEnv struct {
	server *Server
	store  *datastore.DB
	hits   atomic.Int32
}

// stubHandler serves the canned pages the resolver is pointed at.
func stubHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/missing":
		http.NotFound(w, r)
	case "/data.json":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"not html"}`))
	case "/slow":
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(hiPage))
	}
}

// newTestEnv wires a server to a TLS stub site. Every hostname dials the
// stub, so the host guard still rejects internal names before any I/O.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{}

	site := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.hits.Add(1)
		stubHandler(w, r)
	}))
	t.Cleanup(site.Close)
	addr := site.Listener.Addr().String()
	dial := func(ctx context.Context, network, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, network, addr)
	}

	reg := prometheus.NewRegistry()
	metaCfg := config.NewDefaultMetadataConfig()
	metaCfg.EnableHTTP2 = false
	metaCfg.TimeoutMillis = 500
	resolver, err := metadata.NewResolver(metaCfg, zerolog.Nop(),
		metadata.WithDialContext(dial),
		metadata.WithTLSConfig(site.Client().Transport.(*http.Transport).TLSClientConfig),
		metadata.WithRegisterer(reg))
	require.NoError(t, err)

	store, err := datastore.NewDB(filepath.Join(t.TempDir(), "urlist.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	env.store = store

	env.server = New(config.NewDefaultServerConfig(), resolver, store, zerolog.Nop(),
		WithRegistry(reg),
		WithVanityConfig(config.NewDefaultVanityConfig()))
	return env
}

func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(config.DefaultServerUserHeader, user)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestOGInfo_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/oginfo", "", map[string]string{"url": "https://example.com"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"title":"Hi"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, int32(1), env.hits.Load())
}

func TestOGInfo_FileSchemeNeverFetches(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/oginfo", "", map[string]string{"url": "file:///etc/passwd"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))
	assert.Equal(t, int32(0), env.hits.Load())
}

func TestOGInfo_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
		wantHits   int32
	}{
		{name: "missing url", body: map[string]string{}, wantStatus: http.StatusBadRequest, wantError: "URL is required"},
		{name: "malformed json", body: `{"url":`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "trailing data", body: `{"url":"https://example.com"} {}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "unparseable url", body: map[string]string{"url": "https://"}, wantStatus: http.StatusBadRequest, wantError: "Invalid URL"},
		{name: "ftp scheme", body: map[string]string{"url": "ftp://example.com/file"}, wantStatus: http.StatusBadRequest, wantError: "Only http and https URLs are allowed"},
		{name: "localhost", body: map[string]string{"url": "https://localhost/admin"}, wantStatus: http.StatusForbidden, wantError: "Access to this host is not allowed"},
		{name: "private address", body: map[string]string{"url": "https://10.1.2.3/"}, wantStatus: http.StatusForbidden, wantError: "Access to this host is not allowed"},
		{name: "metadata address", body: map[string]string{"url": "https://169.254.169.254/latest"}, wantStatus: http.StatusForbidden, wantError: "Access to this host is not allowed"},
		{name: "upstream 404", body: map[string]string{"url": "https://example.com/missing"}, wantStatus: http.StatusBadRequest, wantError: "Failed to fetch URL", wantHits: 1},
		{name: "not html", body: map[string]string{"url": "https://example.com/data.json"}, wantStatus: http.StatusBadRequest, wantError: "URL did not return an HTML document", wantHits: 1},
		{name: "timeout", body: map[string]string{"url": "https://example.com/slow"}, wantStatus: http.StatusInternalServerError, wantError: "Failed to fetch metadata", wantHits: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(t, http.MethodPost, "/api/oginfo", "", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantError, errorMessage(t, rec))
			assert.Equal(t, tt.wantHits, env.hits.Load())
		})
	}
}

func TestOpenGraph_Get(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/opengraph?url=https%3A%2F%2Fexample.com%2Fpage", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hi", decode[models.OpenGraphMetadata](t, rec).Title)

	rec = env.do(t, http.MethodGet, "/api/opengraph", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "URL is required", errorMessage(t, rec))

	rec = env.do(t, http.MethodGet, "/api/opengraph?url=http%3A%2F%2F127.0.0.1%2F", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBundles_RequireIdentity(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/bundles"},
		{http.MethodGet, "/api/bundles"},
		{http.MethodPut, "/api/bundles/anything"},
		{http.MethodDelete, "/api/bundles/anything"},
		{http.MethodPost, "/api/bundles/anything/links"},
	} {
		rec := env.do(t, tc.method, tc.path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestBundles_CreateAndRead(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]any{
		"vanity_url": "My-List",
		"title":      "Reading",
		"links": []map[string]string{
			{"url": "https://go.dev", "title": "Go"},
			{"url": "https://pkg.go.dev", "title": "Packages"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Bundle](t, rec)
	assert.Equal(t, "my-list", created.VanityURL)
	assert.Equal(t, "alice", created.UserID)
	require.Len(t, created.Links, 2)

	rec = env.do(t, http.MethodGet, "/api/bundles/my-list", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Bundle](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "https://go.dev", got.Links[0].URL)
	assert.Equal(t, "https://pkg.go.dev", got.Links[1].URL)

	rec = env.do(t, http.MethodGet, "/api/bundles/MY-LIST", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/bundles/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBundles_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]string{"vanity_url": "taken"})
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "taken", body: map[string]string{"vanity_url": "taken"}, wantStatus: http.StatusConflict},
		{name: "taken other case", body: map[string]string{"vanity_url": "TAKEN"}, wantStatus: http.StatusConflict},
		{name: "too short", body: map[string]string{"vanity_url": "ab"}, wantStatus: http.StatusBadRequest},
		{name: "bad characters", body: map[string]string{"vanity_url": "my_list"}, wantStatus: http.StatusBadRequest},
		{name: "double hyphen", body: map[string]string{"vanity_url": "my--list"}, wantStatus: http.StatusBadRequest},
		{name: "link without url", body: map[string]any{"links": []map[string]string{{"title": "x"}}}, wantStatus: http.StatusBadRequest},
		{name: "link with bad scheme", body: map[string]any{"links": []map[string]string{{"url": "javascript:alert(1)"}}}, wantStatus: http.StatusBadRequest},
		{name: "title too long", body: map[string]string{"title": strings.Repeat("t", 201)}, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/bundles", "bob", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestBundles_GeneratedVanity(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]string{"title": "Untitled"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[models.Bundle](t, rec)
	assert.Len(t, created.VanityURL, config.DefaultVanityLength)
	assert.Regexp(t, `^[a-z0-9]+$`, created.VanityURL)
}

func TestBundles_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	for _, v := range []string{"one", "two", "three"} {
		rec := env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]string{"vanity_url": v})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/api/bundles", "bob", map[string]string{"vanity_url": "bobs"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/bundles", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bundles := decode[[]models.Bundle](t, rec)
	require.Len(t, bundles, 3)
	assert.Equal(t, "three", bundles[0].VanityURL)
	assert.Equal(t, "one", bundles[2].VanityURL)

	rec = env.do(t, http.MethodGet, "/api/bundles", "carol", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBundles_UpdateOwnership(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]any{
		"vanity_url":  "alices",
		"title":       "Old",
		"description": "Keep me",
		"links":       []map[string]string{{"url": "https://go.dev"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/bundles/alices", "mallory", map[string]string{"title": "Pwned"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/bundles/missing", "alice", map[string]string{"title": "New"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/bundles/alices", "alice", map[string]string{"title": "New"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Bundle](t, rec)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Keep me", updated.Description)
	assert.Len(t, updated.Links, 1)

	rec = env.do(t, http.MethodPut, "/api/bundles/alices", "alice", map[string]any{
		"links": []map[string]string{{"url": "https://a.example"}, {"url": "https://b.example"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated = decode[models.Bundle](t, rec)
	require.Len(t, updated.Links, 2)
	assert.Equal(t, "https://a.example", updated.Links[0].URL)
	assert.Equal(t, 1, updated.Links[1].SortOrder)

	rec = env.do(t, http.MethodPut, "/api/bundles/alices", "alice", map[string]any{
		"links": []map[string]string{{"url": "file:///etc/passwd"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBundles_Delete(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]string{"vanity_url": "doomed"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/bundles/doomed", "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/bundles/doomed", "alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/bundles/doomed", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/bundles/doomed", "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBundles_AddLink(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]string{"vanity_url": "links"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/bundles/links/links", "alice", map[string]string{"url": "https://example.com/post"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resolved := decode[map[string]any](t, rec)
	assert.Equal(t, "Hi", resolved["title"])
	assert.Equal(t, "https://example.com/post", resolved["url"])
	assert.NotContains(t, resolved, "metadata_error")
	assert.Equal(t, int32(1), env.hits.Load())

	rec = env.do(t, http.MethodPost, "/api/bundles/links/links", "alice", map[string]string{"url": "http://localhost/admin"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	degraded := decode[map[string]any](t, rec)
	assert.Equal(t, "http://localhost/admin", degraded["title"])
	assert.Equal(t, "", degraded["description"])
	assert.Equal(t, string(metadata.KindForbiddenHost), degraded["metadata_error"])
	assert.Equal(t, float64(1), degraded["sort_order"])
	assert.Equal(t, int32(1), env.hits.Load())

	rec = env.do(t, http.MethodPost, "/api/bundles/links/links", "alice", map[string]string{"url": "https://example.com/missing"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, string(metadata.KindUpstream), decode[map[string]any](t, rec)["metadata_error"])

	rec = env.do(t, http.MethodPost, "/api/bundles/links/links", "mallory", map[string]string{"url": "https://example.com"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/bundles/links/links", "alice", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, raw := range []string{"javascript:alert(1)", "file:///etc/passwd", "not a url at all"} {
		rec = env.do(t, http.MethodPost, "/api/bundles/links/links", "alice", map[string]string{"url": raw})
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}
	assert.Equal(t, int32(2), env.hits.Load())

	rec = env.do(t, http.MethodGet, "/api/bundles/links", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	links := decode[models.Bundle](t, rec).Links
	require.Len(t, links, 3)
	for _, link := range links {
		assert.True(t, strings.HasPrefix(link.URL, "http"), link.URL)
	}
}

func TestBundles_UpdateAndDeleteLink(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]any{
		"vanity_url": "edit-links",
		"links": []map[string]string{
			{"url": "https://example.com/a", "title": "A"},
			{"url": "https://example.com/b", "title": "B"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Bundle](t, rec)
	first, second := created.Links[0].ID, created.Links[1].ID

	rec = env.do(t, http.MethodPut, "/api/bundles/edit-links/links/"+first, "alice", map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Link](t, rec)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "https://example.com/a", updated.URL)

	rec = env.do(t, http.MethodPut, "/api/bundles/edit-links/links/"+first, "alice", map[string]string{"url": "javascript:alert(1)"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/bundles/edit-links/links/"+first, "mallory", map[string]string{"title": "Mine"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/bundles/edit-links/links/nope", "alice", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Link not found")

	rec = env.do(t, http.MethodDelete, "/api/bundles/edit-links/links/"+second, "mallory", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/bundles/edit-links/links/"+second, "alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/bundles/edit-links/links/"+second, "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/bundles/edit-links", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Bundle](t, rec)
	require.Len(t, got.Links, 1)
	assert.Equal(t, "Renamed", got.Links[0].Title)

	rec = env.do(t, http.MethodDelete, "/api/bundles/edit-links/links/"+first, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVanityAvailable(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/vanity/fresh-name/available", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available":true}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/bundles", "alice", map[string]string{"vanity_url": "fresh-name"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.Bundle](t, rec).ID

	rec = env.do(t, http.MethodGet, "/api/vanity/fresh-name/available", "", nil)
	assert.JSONEq(t, `{"available":false}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/vanity/fresh-name/available?exclude="+id, "", nil)
	assert.JSONEq(t, `{"available":true}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/vanity/x/available", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime_seconds")
	assert.Contains(t, body, "rss_bytes")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/oginfo", "", map[string]string{"url": "https://example.com"})
	rec := env.do(t, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "urlist_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/oginfo"`)
	assert.Contains(t, rec.Body.String(), `urlist_metadata_resolve_total{result="ok"} 1`)
}

type panickingResolver struct{}

func (panickingResolver) Resolve(context.Context, string) (models.OpenGraphMetadata, error) {
	panic("boom")
}

func TestRecoverer(t *testing.T) {
	srv := New(config.NewDefaultServerConfig(), panickingResolver{}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/opengraph?url=https://example.com", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServeAndShutdown(t *testing.T) {
	env := newTestEnv(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- env.server.Serve(ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, env.server.Shutdown(ctx))
	assert.NoError(t, <-done)
}
