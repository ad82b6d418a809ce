package mcp

import (
	"time"

	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/domain/planner"
)

type EmptyParams struct{}

type ActivityIDParams struct {
	ID string `json:"id,omitempty" jsonschema:"activity id from open_planner"`
}

type LimitParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

type HistoryParams struct {
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	ActivityID string `json:"activity_id,omitempty" jsonschema:"only entries for this activity"`
	EventType  string `json:"event_type,omitempty" jsonschema:"activity_added, activity_edited, activity_removed, plan_cleared or plan_submitted"`
}

type PingResult struct {
	Message string `json:"message"`
}

type KindInfo struct {
	Type        activity.Kind `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
}

type KindsResult struct {
	Kinds []KindInfo `json:"kinds"`
}

type ActivityInfo struct {
	ID      string        `json:"id"`
	Type    activity.Kind `json:"type"`
	Summary string        `json:"summary"`
	Data    any           `json:"data"`
}

type ActivityResult struct {
	// Changed is false when the dialog was cancelled or the id was unknown.
	Changed  bool          `json:"changed"`
	Activity *ActivityInfo `json:"activity,omitempty"`
	Planner  planner.View  `json:"planner"`
	Notices  []string      `json:"notices,omitempty"`
}

type RemoveResult struct {
	Removed bool         `json:"removed"`
	Planner planner.View `json:"planner"`
}

type StartOverResult struct {
	Cleared bool         `json:"cleared"`
	Planner planner.View `json:"planner"`
}

type SubmitResult struct {
	Warned    bool     `json:"warned,omitempty"`
	Confirmed bool     `json:"confirmed"`
	Posted    int      `json:"posted"`
	Notices   []string `json:"notices,omitempty"`
}

type PreviewResult struct {
	Found  bool   `json:"found"`
	Report string `json:"report,omitempty"`
}

type ChatMessage struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Speaker  string `json:"speaker"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	PostedAt string `json:"posted_at"`
}

type ChatLogResult struct {
	Messages []ChatMessage `json:"messages"`
}

type HistoryEntry struct {
	ID         int64  `json:"id"`
	ActivityID string `json:"activity_id,omitempty"`
	Type       string `json:"type,omitempty"`
	Event      string `json:"event"`
	Summary    string `json:"summary"`
	CreatedAt  string `json:"created_at"`
}

type HistoryResult struct {
	Entries []HistoryEntry `json:"entries"`
}

func activityInfo(rec *activity.Record) *ActivityInfo {
	if rec == nil {
		return nil
	}
	return &ActivityInfo{ID: rec.ID, Type: rec.Kind, Summary: rec.Payload.Summary(), Data: rec.Payload}
}

func chatMessages(msgs []chat.Message) []ChatMessage {
	out := make([]ChatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = ChatMessage{
			ID:       m.ID,
			UserID:   m.UserID,
			Speaker:  m.Speaker,
			Type:     string(m.Kind),
			Content:  m.Content,
			PostedAt: m.PostedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}

func historyEntries(entries []history.Entry) []HistoryEntry {
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{
			ID:        e.ID,
			Type:      e.Kind,
			Event:     string(e.EventType),
			Summary:   e.Summary,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if e.ActivityID != nil {
			out[i].ActivityID = *e.ActivityID
		}
	}
	return out
}
