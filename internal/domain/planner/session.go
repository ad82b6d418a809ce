package planner

import (
	"context"
	"errors"
	"sync"

	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/dialog"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/history"
)

// selectorLabel is the metrics label for a cancelled activity selection.
const selectorLabel = "select"

// Session is one open planner for one user. Actions run one at a time.
type Session struct {
	svc    *Service
	userID string
	host   Host

	op sync.Mutex

	mu   sync.RWMutex
	list activity.List
}

// SubmitResult reports what SubmitToChat did.
type SubmitResult struct {
	// Warned is set when there was nothing to submit.
	Warned bool `json:"warned,omitempty"`
	// Confirmed is false when the user declined.
	Confirmed bool `json:"confirmed"`
	Posted    int  `json:"posted"`
}

// Item is one row of the planner view.
type Item struct {
	Number  int           `json:"number"`
	ID      string        `json:"id"`
	Kind    activity.Kind `json:"type"`
	Title   string        `json:"title"`
	Summary string        `json:"summary"`
}

// View is what a host renders for the planner window.
type View struct {
	Description   string `json:"description"`
	Activities    []Item `json:"activities"`
	Trauma        int    `json:"trauma"`
	TraumaWarning string `json:"trauma_warning,omitempty"`
}

// UserID returns the session's user.
func (s *Session) UserID() string { return s.userID }

// Activities returns a copy of the current list.
func (s *Session) Activities() activity.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Clone()
}

// Record returns the record with id.
func (s *Session) Record(id string) (activity.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.list.Find(id); i >= 0 {
		return s.list[i], true
	}
	return activity.Record{}, false
}

func (s *Session) swap(list activity.List) {
	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
}

// Add runs the selector and appends the new activity. A cancelled dialog
// returns nil without error.
func (s *Session) Add(ctx context.Context) (*activity.Record, error) {
	s.op.Lock()
	defer s.op.Unlock()

	sheet := s.svc.sheet(ctx, s.userID)
	selection, err := dialog.NewSelector(s.svc.factory(s.host, sheet)).Present(ctx)
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			s.svc.metrics.DialogCancelled(selectorLabel)
			return nil, nil
		}
		return nil, wrapPrompt("select activity", err)
	}

	rec := activity.Record{ID: s.svc.newID(), Kind: selection.Kind, Payload: selection.Payload}
	next := append(s.Activities(), rec)
	if err := s.svc.store.Save(ctx, s.userID, next); err != nil {
		return nil, &PersistenceError{Op: "save", UserID: s.userID, Err: err}
	}
	s.swap(next)

	s.svc.metrics.ActivityAdded(string(rec.Kind))
	s.svc.logHistory(ctx, s.userID, &history.Entry{
		ActivityID: &rec.ID, Kind: string(rec.Kind), EventType: history.EventAdded, Summary: rec.Payload.Summary(),
	})
	s.svc.debug("activity added", "user_id", s.userID, "id", rec.ID, "kind", rec.Kind)
	return &rec, nil
}

// Edit re-opens the dialog for id pre-filled with its payload. An unknown id
// or a cancelled dialog returns nil without error.
func (s *Session) Edit(ctx context.Context, id string) (*activity.Record, error) {
	s.op.Lock()
	defer s.op.Unlock()

	current, ok := s.Record(id)
	if !ok {
		return nil, nil
	}

	sheet := s.svc.sheet(ctx, s.userID)
	d, err := s.svc.factory(s.host, sheet).ForKind(current.Kind)
	if err != nil {
		return nil, err
	}
	payload, err := d.Present(ctx, current.Payload)
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			s.svc.metrics.DialogCancelled(string(current.Kind))
			return nil, nil
		}
		return nil, wrapPrompt("edit activity", err)
	}

	next := s.Activities()
	i := next.Find(id)
	updated := activity.Record{ID: current.ID, Kind: current.Kind, Payload: payload}
	next[i] = updated
	if err := s.svc.store.Save(ctx, s.userID, next); err != nil {
		return nil, &PersistenceError{Op: "save", UserID: s.userID, Err: err}
	}
	s.swap(next)

	s.svc.metrics.ActivityEdited(string(updated.Kind))
	s.svc.logHistory(ctx, s.userID, &history.Entry{
		ActivityID: &updated.ID, Kind: string(updated.Kind), EventType: history.EventEdited, Summary: payload.Summary(),
	})
	return &updated, nil
}

// Remove deletes id from the list. It reports whether a record was removed.
func (s *Session) Remove(ctx context.Context, id string) (bool, error) {
	s.op.Lock()
	defer s.op.Unlock()

	current, ok := s.Record(id)
	if !ok {
		return false, nil
	}
	next := s.Activities().Without(id)
	if err := s.svc.store.Save(ctx, s.userID, next); err != nil {
		return false, &PersistenceError{Op: "save", UserID: s.userID, Err: err}
	}
	s.swap(next)

	s.svc.metrics.ActivityRemoved()
	s.svc.logHistory(ctx, s.userID, &history.Entry{
		ActivityID: &current.ID, Kind: string(current.Kind), EventType: history.EventRemoved, Summary: current.Payload.Summary(),
	})
	return true, nil
}

// StartOver clears the list after confirmation. It reports whether the list
// was cleared.
func (s *Session) StartOver(ctx context.Context) (bool, error) {
	s.op.Lock()
	defer s.op.Unlock()

	ok, err := s.confirm(ctx, "StartOver.ConfirmMessage")
	if err != nil || !ok {
		return false, err
	}
	if err := s.svc.store.Clear(ctx, s.userID); err != nil {
		return false, &PersistenceError{Op: "clear", UserID: s.userID, Err: err}
	}
	s.swap(activity.List{})

	s.svc.logHistory(ctx, s.userID, &history.Entry{EventType: history.EventCleared, Summary: "start over"})
	return true, nil
}

// SubmitToChat posts a report per activity in list order, then clears the
// list. Posting stops at the first failure; records already posted are
// dropped so a retry does not repeat them.
func (s *Session) SubmitToChat(ctx context.Context) (SubmitResult, error) {
	s.op.Lock()
	defer s.op.Unlock()

	list := s.Activities()
	if len(list) == 0 {
		s.host.Warn(ctx, s.svc.catalog.Localize("NoActivitiesWarning"))
		return SubmitResult{Warned: true}, nil
	}

	ok, err := s.confirm(ctx, "SendChoicesToChat.ConfirmMessage")
	if err != nil || !ok {
		return SubmitResult{}, err
	}
	result := SubmitResult{Confirmed: true}

	actor := s.svc.actor(ctx, s.userID, s.svc.sheet(ctx, s.userID))
	for i, rec := range list {
		msg := chat.Message{
			UserID:  s.userID,
			Speaker: actor.DisplayName(),
			Kind:    rec.Kind,
			Content: s.svc.formatter.Format(rec, actor),
		}
		if err := s.svc.sink.Post(ctx, msg); err != nil {
			postErr := &PostError{RecordID: rec.ID, Kind: rec.Kind, Posted: result.Posted, Err: err}
			if result.Posted == 0 {
				return result, postErr
			}
			remaining := list[i:].Clone()
			s.swap(remaining)
			if serr := s.svc.store.Save(ctx, s.userID, remaining); serr != nil {
				return result, errors.Join(postErr, &PersistenceError{Op: "save", UserID: s.userID, Err: serr})
			}
			return result, postErr
		}
		result.Posted++
		s.svc.metrics.ReportPosted(string(rec.Kind))
	}

	s.swap(activity.List{})
	if err := s.svc.store.Clear(ctx, s.userID); err != nil {
		return result, &PersistenceError{Op: "clear", UserID: s.userID, Err: err}
	}

	s.svc.metrics.Submitted()
	s.svc.logHistory(ctx, s.userID, &history.Entry{EventType: history.EventSubmitted, Summary: "submitted to chat"})
	s.svc.debug("plan submitted", "user_id", s.userID, "posted", result.Posted)
	return result, nil
}

// Preview formats the report for id without posting it.
func (s *Session) Preview(ctx context.Context, id string) (string, bool) {
	rec, ok := s.Record(id)
	if !ok {
		return "", false
	}
	actor := s.svc.actor(ctx, s.userID, s.svc.sheet(ctx, s.userID))
	return s.svc.formatter.Format(rec, actor), true
}

// View builds the planner window contents.
func (s *Session) View(ctx context.Context) View {
	list := s.Activities()
	c := s.svc.catalog
	view := View{
		Description: c.Localize("Description"),
		Activities:  make([]Item, len(list)),
	}
	for i, rec := range list {
		view.Activities[i] = Item{
			Number:  i + 1,
			ID:      rec.ID,
			Kind:    rec.Kind,
			Title:   c.Localize(activity.TitleKey(rec.Kind)),
			Summary: rec.Payload.Summary(),
		}
	}
	if sheet := s.svc.sheet(ctx, s.userID); sheet != nil {
		view.Trauma = sheet.Trauma
	}
	if view.Trauma > 0 && !list.Has(activity.KindIndulgeVice) {
		view.TraumaWarning = c.Format("TraumaWarning", map[string]any{"trauma": view.Trauma})
	}
	return view
}

func (s *Session) confirm(ctx context.Context, messageKey string) (bool, error) {
	c := s.svc.catalog
	ok, err := s.host.Confirm(ctx, c.Localize("Confirm"), c.Localize(messageKey))
	if err != nil {
		if errors.Is(err, dialog.ErrDismissed) || errors.Is(err, dialog.ErrCancelled) {
			return false, nil
		}
		return false, wrapPrompt("confirm", err)
	}
	return ok, nil
}
