package dialog

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/rpggio/downtime/internal/domain/activity"
)

// FieldActivityType is the selector's only field.
const FieldActivityType = "activityType"

// Selection is a chosen kind with its completed payload.
type Selection struct {
	Kind    activity.Kind
	Payload activity.Payload
}

// Selector asks for an activity kind and then runs that kind's dialog.
type Selector struct {
	factory Factory

	used      atomic.Bool
	result    *Pending[Selection]
	closed    chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	child *StepDialog
}

func NewSelector(factory Factory) *Selector {
	return &Selector{
		factory: factory,
		result:  NewPending[Selection](),
		closed:  make(chan struct{}),
	}
}

// Result is resolved when the selector ends by any path.
func (s *Selector) Result() *Pending[Selection] { return s.result }

// Close dismisses the selector and any dialog it opened.
func (s *Selector) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
	s.mu.Lock()
	child := s.child
	s.mu.Unlock()
	if child != nil {
		child.Close()
	}
}

// Present runs the selector once.
func (s *Selector) Present(ctx context.Context) (Selection, error) {
	if !s.used.CompareAndSwap(false, true) {
		return Selection{}, ErrDialogUsed
	}
	return present(ctx, s.closed, s.result, s.run)
}

func (s *Selector) run(ctx context.Context) (Selection, error) {
	if s.factory.Prompter == nil {
		return Selection{}, errors.New("dialog: nil prompter")
	}
	kind, err := s.choose(ctx)
	if err != nil {
		return Selection{}, err
	}

	child, err := s.factory.ForKind(kind)
	if err != nil {
		return Selection{}, err
	}
	s.mu.Lock()
	s.child = child
	s.mu.Unlock()
	select {
	case <-s.closed:
		child.Close()
	default:
	}

	payload, err := child.Present(ctx, nil)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Kind: kind, Payload: payload}, nil
}

func (s *Selector) choose(ctx context.Context) (activity.Kind, error) {
	c := s.factory.Catalog
	descriptors := activity.Descriptors()
	field := activity.Field{
		Name:         FieldActivityType,
		LabelKey:     "ActivityType",
		Label:        c.Localize("ActivityType"),
		Type:         activity.FieldSelect,
		Required:     true,
		Options:      make([]string, len(descriptors)),
		OptionLabels: make([]string, len(descriptors)),
	}
	for i, d := range descriptors {
		field.Options[i] = string(d.Kind)
		field.OptionLabels[i] = c.Localize(d.TitleKey)
	}
	form := Form{
		ID:          "select-activity",
		Title:       c.Localize("SelectActivity"),
		Description: c.Localize("Description"),
		Fields:      []activity.Field{field},
	}

	for {
		resp, err := s.factory.Prompter.Prompt(ctx, form)
		if err != nil {
			if errors.Is(err, ErrDismissed) || ctx.Err() != nil {
				return "", ErrCancelled
			}
			return "", fmt.Errorf("prompt activity type: %w", err)
		}
		if resp.Action != ActionConfirm {
			return "", ErrCancelled
		}
		values := form.Values()
		maps.Copy(values, resp.Values)
		if kind, ok := matchKind(values[FieldActivityType], field); ok {
			return kind, nil
		}
		form.Fields = activity.WithValues(form.Fields, values)
		form.Warnings = []string{c.Localize(activity.MsgInvalidChoice)}
	}
}

// matchKind accepts a slug or a localized title.
func matchKind(value string, field activity.Field) (activity.Kind, bool) {
	for i, opt := range field.Options {
		if value == opt || (value != "" && value == field.OptionLabels[i]) {
			return activity.Kind(opt), true
		}
	}
	return "", false
}
