package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/config"
	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/domain/planner"
	"github.com/rpggio/downtime/internal/mcp"
	"github.com/rpggio/downtime/internal/metrics"
	"github.com/rpggio/downtime/internal/sqlite"
	"github.com/rpggio/downtime/internal/transport"
	"github.com/stretchr/testify/require"
)

// Responder answers one elicitation request.
type Responder func(params *sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error)

// Accept submits content.
func Accept(content map[string]any) Responder {
	return func(*sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error) {
		return &sdkmcp.ElicitResult{Action: "accept", Content: content}, nil
	}
}

// Decline rejects the request.
func Decline() Responder {
	return func(*sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error) {
		return &sdkmcp.ElicitResult{Action: "decline"}, nil
	}
}

// Dismiss closes the request without answering.
func Dismiss() Responder {
	return func(*sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error) {
		return &sdkmcp.ElicitResult{Action: "cancel"}, nil
	}
}

// TestServer is a planner MCP server over a fresh in-memory database.
type TestServer struct {
	DB         *sqlite.DB
	Characters *sqlite.CharacterRepository
	ChatLog    *sqlite.ChatLogRepository
	Metrics    *metrics.Recorder
	Server     *sdkmcp.Server

	// FailPost runs before each chat log write. A non-nil error fails the
	// post as if the chat log were unavailable.
	FailPost func(chat.Message) error
	// Sink mirrors every report the chat log accepted. Its errors are
	// logged, never returned.
	Sink chat.Sink

	mu       sync.Mutex
	script   []Responder
	elicited []*sdkmcp.ElicitParams
}

// New builds the services and an MCP server with auth configured as for
// the given transport mode.
func New(t *testing.T, mode string, authEnabled bool) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	ts := &TestServer{
		DB:         db,
		Characters: sqlite.NewCharacterRepository(db),
		ChatLog:    sqlite.NewChatLogRepository(db),
		Metrics:    metrics.New(),
	}

	historySvc := history.NewService(sqlite.NewHistoryRepository(db), nil)
	primary := chat.SinkFunc(func(ctx context.Context, msg chat.Message) error {
		if ts.FailPost != nil {
			if err := ts.FailPost(msg); err != nil {
				return err
			}
		}
		return ts.ChatLog.Post(ctx, msg)
	})
	mirror := chat.SinkFunc(func(ctx context.Context, msg chat.Message) error {
		if ts.Sink != nil {
			return ts.Sink.Post(ctx, msg)
		}
		return nil
	})
	sink := chat.NewMirror(primary, nil, mirror)
	plannerSvc := planner.NewService(
		planner.NewJSONStore(sqlite.NewPlannerStateRepository(db), nil),
		sink,
		nil,
		planner.WithCharacters(ts.Characters),
		planner.WithHistory(historySvc),
		planner.WithMetrics(ts.Metrics),
	)

	ts.Server = mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Planner: plannerSvc,
			History: historySvc,
			ChatLog: ts.ChatLog,
		},
		Resolver:      sqlite.NewAPIKeyRepository(db),
		AuthEnabled:   authEnabled,
		TransportMode: mode,
	})

	t.Cleanup(func() {
		_ = db.Close()
	})
	return ts
}

// Connect returns a client session over in-memory transports.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := ts.Server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	session, err := ts.client().Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

// ServeHTTP starts the chi router with bearer auth and returns a client
// session authenticated with token.
func (ts *TestServer) ServeHTTP(t *testing.T, token string) (*httptest.Server, *sdkmcp.ClientSession) {
	t.Helper()

	server := httptest.NewServer(transport.NewServer(transport.Options{
		MCP:     transport.NewMCPHandler(ts.Server),
		Metrics: ts.Metrics.Handler(),
		Auth:    transport.AuthMiddleware(sqlite.NewAPIKeyRepository(ts.DB)),
	}))
	t.Cleanup(server.Close)

	if token == "" {
		return server, nil
	}
	session, err := ts.client().Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearer{token: token}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return server, session
}

// AddAPIKey registers token for userID.
func (ts *TestServer) AddAPIKey(t *testing.T, token, userID string) {
	t.Helper()
	require.NoError(t, sqlite.NewAPIKeyRepository(ts.DB).Create(context.Background(), userID, token))
}

// AddCharacter stores a sheet, and its crew when given.
func (ts *TestServer) AddCharacter(t *testing.T, sheet *character.Sheet, crew *character.Crew) {
	t.Helper()
	ctx := context.Background()
	if crew != nil {
		require.NoError(t, ts.Characters.UpsertCrew(ctx, crew))
	}
	require.NoError(t, ts.Characters.UpsertSheet(ctx, sheet))
}

// Script queues answers for the next elicitation requests.
func (ts *TestServer) Script(responses ...Responder) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.script = append(ts.script, responses...)
}

// Elicited returns every elicitation request received so far.
func (ts *TestServer) Elicited() []*sdkmcp.ElicitParams {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]*sdkmcp.ElicitParams(nil), ts.elicited...)
}

// Pending returns the number of scripted answers not yet used.
func (ts *TestServer) Pending() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.script)
}

func (ts *TestServer) client() *sdkmcp.Client {
	return sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, &sdkmcp.ClientOptions{
		ElicitationHandler: ts.elicit,
	})
}

func (ts *TestServer) elicit(_ context.Context, req *sdkmcp.ElicitRequest) (*sdkmcp.ElicitResult, error) {
	ts.mu.Lock()
	ts.elicited = append(ts.elicited, req.Params)
	if len(ts.script) == 0 {
		ts.mu.Unlock()
		return &sdkmcp.ElicitResult{Action: "cancel"}, nil
	}
	next := ts.script[0]
	ts.script = ts.script[1:]
	ts.mu.Unlock()
	return next(req.Params)
}

// Call invokes a tool and decodes its structured result into out. A tool
// error fails the test unless out is nil.
func Call(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) *sdkmcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	if out != nil {
		require.False(t, result.IsError, "%s: %s", name, ErrorText(result))
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return result
}

// ErrorText returns the text content of a failed tool result.
func ErrorText(result *sdkmcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

type bearer struct {
	token string
}

func (b bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}

// Stdio is the transport mode used by in-memory tests.
const Stdio = config.TransportStdio
