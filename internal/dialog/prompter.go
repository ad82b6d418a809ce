package dialog

import (
	"context"

	"github.com/rpggio/downtime/internal/domain/activity"
)

// Action is how the user left a form.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
	ActionDismiss Action = "dismiss"
)

// Form is one modal step shown by a Prompter.
type Form struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Fields      []activity.Field `json:"fields"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// Values returns the current value of each field.
func (f Form) Values() map[string]string {
	return activity.Values(f.Fields)
}

// Response is what the user submitted. Values may omit fields left unchanged.
type Response struct {
	Action Action
	Values map[string]string
}

// Prompter shows a form and waits for the user. Implementations should
// return when ctx is done.
type Prompter interface {
	Prompt(ctx context.Context, form Form) (Response, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, form Form) (Response, error)

func (f PrompterFunc) Prompt(ctx context.Context, form Form) (Response, error) {
	return f(ctx, form)
}
