package mcp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/domain/planner"
	"github.com/rpggio/downtime/internal/locale"
	"github.com/rpggio/downtime/internal/repository"
)

const defaultChatLogLimit = 20

var errMissingID = &APIError{Code: "INVALID_INPUT", Message: "id is required", RecoveryHint: "Call open_planner to list activity ids"}

type tools struct {
	services Services
	catalog  *locale.Catalog
	logger   *slog.Logger
}

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ping",
		Description: "Check that the server is reachable",
	}, t.ping)

	// Planner
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_planner",
		Description: "Show the planned downtime activities of the current user, with a trauma warning when no vice is planned",
	}, t.openPlanner)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activity_kinds",
		Description: "List the downtime activity types that can be planned",
	}, t.listKinds)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_activity",
		Description: "Plan a new downtime activity. The user picks the type and fills in its form through elicitation",
	}, t.addActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "edit_activity",
		Description: "Reopen the form of a planned activity pre-filled with its current values",
	}, t.editActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_activity",
		Description: "Remove a planned activity",
	}, t.removeActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_over",
		Description: "Discard every planned activity after the user confirms",
	}, t.startOver)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_to_chat",
		Description: "Post one report per planned activity to the chat, in order, then clear the plan",
	}, t.submit)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "preview_report",
		Description: "Render the chat report of a planned activity without posting it",
	}, t.preview)

	// Logs
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_chat_log",
		Description: "List the most recent reports posted to the chat",
	}, t.chatLog)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_planner_history",
		Description: "List recent changes to the current user's plan, newest first",
	}, t.plannerHistory)
}

// open starts a planner session whose dialogs are elicited from the
// calling client.
func (t *tools) open(ctx context.Context, req *sdkmcp.CallToolRequest) (*planner.Session, *elicitHost, error) {
	var elicitor Elicitor
	if req != nil && req.Session != nil {
		elicitor = req.Session
	}
	host := newElicitHost(elicitor)
	sess, err := t.services.Planner.Open(ctx, getUserID(ctx), host)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return sess, host, nil
}

func (t *tools) ping(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, PingResult, error) {
	return nil, PingResult{Message: "pong"}, nil
}

func (t *tools) openPlanner(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, planner.View, error) {
	sess, _, err := t.open(ctx, req)
	if err != nil {
		return nil, planner.View{}, err
	}
	return nil, sess.View(ctx), nil
}

func (t *tools) listKinds(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, KindsResult, error) {
	descriptors := activity.Descriptors()
	out := KindsResult{Kinds: make([]KindInfo, len(descriptors))}
	for i, d := range descriptors {
		out.Kinds[i] = KindInfo{
			Type:        d.Kind,
			Title:       t.catalog.Localize(d.TitleKey),
			Description: t.catalog.Localize(strings.TrimSuffix(d.TitleKey, ".Title") + ".Description"),
		}
	}
	return nil, out, nil
}

func (t *tools) addActivity(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	sess, host, err := t.open(ctx, req)
	if err != nil {
		return nil, ActivityResult{}, err
	}
	rec, err := sess.Add(ctx)
	if err != nil {
		return nil, ActivityResult{}, toolError(err)
	}
	return nil, ActivityResult{
		Changed:  rec != nil,
		Activity: activityInfo(rec),
		Planner:  sess.View(ctx),
		Notices:  host.Notices(),
	}, nil
}

func (t *tools) editActivity(ctx context.Context, req *sdkmcp.CallToolRequest, params ActivityIDParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	if params.ID == "" {
		return nil, ActivityResult{}, errMissingID
	}
	sess, host, err := t.open(ctx, req)
	if err != nil {
		return nil, ActivityResult{}, err
	}
	rec, err := sess.Edit(ctx, params.ID)
	if err != nil {
		return nil, ActivityResult{}, toolError(err)
	}
	return nil, ActivityResult{
		Changed:  rec != nil,
		Activity: activityInfo(rec),
		Planner:  sess.View(ctx),
		Notices:  host.Notices(),
	}, nil
}

func (t *tools) removeActivity(ctx context.Context, req *sdkmcp.CallToolRequest, params ActivityIDParams) (*sdkmcp.CallToolResult, RemoveResult, error) {
	if params.ID == "" {
		return nil, RemoveResult{}, errMissingID
	}
	sess, _, err := t.open(ctx, req)
	if err != nil {
		return nil, RemoveResult{}, err
	}
	removed, err := sess.Remove(ctx, params.ID)
	if err != nil {
		return nil, RemoveResult{}, toolError(err)
	}
	return nil, RemoveResult{Removed: removed, Planner: sess.View(ctx)}, nil
}

func (t *tools) startOver(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StartOverResult, error) {
	sess, _, err := t.open(ctx, req)
	if err != nil {
		return nil, StartOverResult{}, err
	}
	cleared, err := sess.StartOver(ctx)
	if err != nil {
		return nil, StartOverResult{}, toolError(err)
	}
	return nil, StartOverResult{Cleared: cleared, Planner: sess.View(ctx)}, nil
}

func (t *tools) submit(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, SubmitResult, error) {
	sess, host, err := t.open(ctx, req)
	if err != nil {
		return nil, SubmitResult{}, err
	}
	res, err := sess.SubmitToChat(ctx)
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("submit failed", "user_id", sess.UserID(), "posted", res.Posted, "error", err)
		}
		return nil, SubmitResult{}, toolError(err)
	}
	return nil, SubmitResult{
		Warned:    res.Warned,
		Confirmed: res.Confirmed,
		Posted:    res.Posted,
		Notices:   host.Notices(),
	}, nil
}

func (t *tools) preview(ctx context.Context, req *sdkmcp.CallToolRequest, params ActivityIDParams) (*sdkmcp.CallToolResult, PreviewResult, error) {
	if params.ID == "" {
		return nil, PreviewResult{}, errMissingID
	}
	sess, _, err := t.open(ctx, req)
	if err != nil {
		return nil, PreviewResult{}, err
	}
	report, ok := sess.Preview(ctx, params.ID)
	return nil, PreviewResult{Found: ok, Report: report}, nil
}

func (t *tools) chatLog(ctx context.Context, _ *sdkmcp.CallToolRequest, params LimitParams) (*sdkmcp.CallToolResult, ChatLogResult, error) {
	if t.services.ChatLog == nil {
		return nil, ChatLogResult{}, errors.New("chat log is not available")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultChatLogLimit
	}
	msgs, err := t.services.ChatLog.List(ctx, repository.ListChatOptions{Limit: limit})
	if err != nil {
		return nil, ChatLogResult{}, toolError(err)
	}
	return nil, ChatLogResult{Messages: chatMessages(msgs)}, nil
}

func (t *tools) plannerHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, params HistoryParams) (*sdkmcp.CallToolResult, HistoryResult, error) {
	if t.services.History == nil {
		return nil, HistoryResult{}, errors.New("planner history is not available")
	}
	opts := history.ListOptions{Limit: params.Limit}
	if params.ActivityID != "" {
		opts.ActivityID = &params.ActivityID
	}
	if params.EventType != "" {
		eventType := history.EventType(params.EventType)
		opts.EventType = &eventType
	}
	entries, err := t.services.History.Recent(ctx, getUserID(ctx), opts)
	if err != nil {
		return nil, HistoryResult{}, toolError(err)
	}
	return nil, HistoryResult{Entries: historyEntries(entries)}, nil
}
