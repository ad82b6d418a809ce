package transport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/downtime/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(opts))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPServer_MCPRequiresAuth(t *testing.T) {
	var gotUser, gotSession string
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		gotSession, _ = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})
	keys := &mocks.APIKeyRepository{}
	keys.On("ResolveUser", mock.Anything, "token").Return("user1", nil)
	server := newTestServer(t, Options{MCP: mcp, Auth: AuthMiddleware(keys)})

	resp, err := http.Post(server.URL+"/mcp", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Mcp-Session-Id", "sess1")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "user1", gotUser)
	require.Equal(t, "sess1", gotSession)
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, Options{
		MCP:    http.NotFoundHandler(),
		Auth:   AuthMiddleware(&mocks.APIKeyRepository{}),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}

func TestHTTPServer_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("downtime_submissions_total 0\n"))
	})
	server := newTestServer(t, Options{MCP: http.NotFoundHandler(), Metrics: metrics})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	noMetrics := newTestServer(t, Options{MCP: http.NotFoundHandler()})
	resp2, err := http.Get(noMetrics.URL + "/metrics")
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
