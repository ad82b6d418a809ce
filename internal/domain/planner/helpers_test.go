package planner_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/dialog"
	"github.com/rpggio/downtime/internal/domain/activity"
)

// fakeHost answers forms and confirmations from scripts.
type fakeHost struct {
	mu         sync.Mutex
	responses  []dialog.Response
	forms      []dialog.Form
	confirms   []bool
	confirmErr error
	asked      []string
	warnings   []string
}

func (h *fakeHost) Prompt(_ context.Context, form dialog.Form) (dialog.Response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.forms = append(h.forms, form)
	if len(h.responses) == 0 {
		return dialog.Response{Action: dialog.ActionDismiss}, nil
	}
	resp := h.responses[0]
	h.responses = h.responses[1:]
	return resp, nil
}

func (h *fakeHost) Confirm(_ context.Context, _, message string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.asked = append(h.asked, message)
	if h.confirmErr != nil {
		return false, h.confirmErr
	}
	if len(h.confirms) == 0 {
		return false, nil
	}
	ok := h.confirms[0]
	h.confirms = h.confirms[1:]
	return ok, nil
}

func (h *fakeHost) Warn(_ context.Context, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warnings = append(h.warnings, message)
}

func (h *fakeHost) script(responses ...dialog.Response) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, responses...)
}

func choose(kind activity.Kind) dialog.Response {
	return dialog.Response{Action: dialog.ActionConfirm, Values: map[string]string{dialog.FieldActivityType: string(kind)}}
}

func fill(values map[string]string) dialog.Response {
	return dialog.Response{Action: dialog.ActionConfirm, Values: values}
}

func cancel() dialog.Response {
	return dialog.Response{Action: dialog.ActionCancel}
}

// memoryStore keeps encoded lists so saved state is observed the way a real
// store returns it.
type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	clears  int
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (s *memoryStore) Load(_ context.Context, userID string) (activity.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[userID]
	if !ok {
		return activity.List{}, nil
	}
	list, _, err := activity.Decode(data)
	return list, err
}

func (s *memoryStore) Save(_ context.Context, userID string, list activity.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := activity.Encode(list)
	if err != nil {
		return err
	}
	s.saves++
	s.data[userID] = data
	return nil
}

func (s *memoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	delete(s.data, userID)
	return nil
}

func (s *memoryStore) stored(userID string) (activity.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[userID]
	if !ok {
		return nil, false
	}
	list, _, err := activity.Decode(data)
	if err != nil {
		panic(err)
	}
	return list, true
}

// recordingSink keeps posted messages and can fail on the nth post.
type recordingSink struct {
	mu     sync.Mutex
	posted []chat.Message
	failAt int
}

func (s *recordingSink) Post(_ context.Context, msg chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.posted)+1 == s.failAt {
		return fmt.Errorf("sink unavailable")
	}
	s.posted = append(s.posted, msg)
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
