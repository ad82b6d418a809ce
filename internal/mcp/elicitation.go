package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/downtime/internal/dialog"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/planner"
)

// Elicitation actions sent back by clients.
const (
	elicitAccept  = "accept"
	elicitDecline = "decline"
)

const confirmField = "confirm"

// ErrNoElicitation is returned when a tool needs user input but the
// request has no session to ask through.
var ErrNoElicitation = errors.New("client session does not support elicitation")

// Elicitor is the part of a server session used to ask the user.
type Elicitor interface {
	Elicit(ctx context.Context, params *sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error)
}

var _ Elicitor = (*sdkmcp.ServerSession)(nil)

// elicitHost runs planner dialogs as MCP elicitation requests. Warnings are
// collected and returned with the tool result.
type elicitHost struct {
	elicitor Elicitor

	mu      sync.Mutex
	notices []string
}

var _ planner.Host = (*elicitHost)(nil)

func newElicitHost(e Elicitor) *elicitHost {
	return &elicitHost{elicitor: e}
}

func (h *elicitHost) Prompt(ctx context.Context, form dialog.Form) (dialog.Response, error) {
	res, err := h.elicit(ctx, formMessage(form), formSchema(form.Fields))
	if err != nil {
		return dialog.Response{}, fmt.Errorf("elicit %s: %w", form.ID, err)
	}
	switch res.Action {
	case elicitAccept:
		return dialog.Response{Action: dialog.ActionConfirm, Values: formValues(form.Fields, res.Content)}, nil
	case elicitDecline:
		return dialog.Response{Action: dialog.ActionCancel}, nil
	default:
		return dialog.Response{Action: dialog.ActionDismiss}, nil
	}
}

func (h *elicitHost) Confirm(ctx context.Context, title, message string) (bool, error) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			confirmField: {Type: "boolean", Title: title, Description: "leave unset to confirm"},
		},
	}
	res, err := h.elicit(ctx, message, schema)
	if err != nil {
		return false, fmt.Errorf("elicit confirmation: %w", err)
	}
	switch res.Action {
	case elicitAccept:
		v, ok := res.Content[confirmField].(bool)
		return !ok || v, nil
	case elicitDecline:
		return false, nil
	default:
		return false, dialog.ErrDismissed
	}
}

func (h *elicitHost) Warn(_ context.Context, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notices = append(h.notices, message)
}

// Notices returns the warnings shown so far.
func (h *elicitHost) Notices() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.notices...)
}

func (h *elicitHost) elicit(ctx context.Context, message string, schema *jsonschema.Schema) (*sdkmcp.ElicitResult, error) {
	if h.elicitor == nil {
		return nil, ErrNoElicitation
	}
	res, err := h.elicitor.Elicit(ctx, &sdkmcp.ElicitParams{
		Message:         message,
		RequestedSchema: schema,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &sdkmcp.ElicitResult{Action: "cancel"}, nil
	}
	return res, nil
}

func formMessage(form dialog.Form) string {
	var b strings.Builder
	b.WriteString(form.Title)
	if form.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(form.Description)
	}
	for _, w := range form.Warnings {
		b.WriteString("\n\n! ")
		b.WriteString(w)
	}
	return b.String()
}

// formSchema builds a flat elicitation schema. It carries no defaults and
// no required list: a declined or cancelled request has no content, and the
// SDK checks content against both. Current values and required markers go
// in the descriptions, and the activity binder enforces them on submit.
func formSchema(fields []activity.Field) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(fields)),
	}
	for _, f := range fields {
		prop := &jsonschema.Schema{Title: f.Label}
		if prop.Title == "" {
			prop.Title = f.Name
		}
		var notes []string
		current := f.Value
		switch f.Type {
		case activity.FieldCheckbox:
			prop.Type = "boolean"
			current = "no"
			if f.Value == "true" {
				current = "yes"
			}
		case activity.FieldNumber:
			prop.Type = "integer"
		case activity.FieldSelect:
			prop.Type = "string"
			prop.Enum = make([]any, len(f.Options))
			labels := make([]string, len(f.Options))
			for i, opt := range f.Options {
				prop.Enum[i] = opt
				labels[i] = opt
				if i < len(f.OptionLabels) && f.OptionLabels[i] != opt {
					labels[i] = fmt.Sprintf("%s = %s", opt, f.OptionLabels[i])
				}
			}
			notes = append(notes, strings.Join(labels, "; "))
		default:
			prop.Type = "string"
		}
		if f.ShowWhen != nil {
			notes = append(notes, fmt.Sprintf("only when %s is %s", f.ShowWhen.Field, f.ShowWhen.Equals))
		} else if f.Required {
			notes = append(notes, "required")
		}
		if current != "" {
			notes = append(notes, "current: "+current)
		}
		prop.Description = strings.Join(notes, ". ")
		schema.Properties[f.Name] = prop
	}
	return schema
}

// formValues converts elicited content to form strings. Missing keys keep
// their current value.
func formValues(fields []activity.Field, content map[string]any) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		v, ok := content[f.Name]
		if !ok {
			continue
		}
		switch v := v.(type) {
		case nil:
			values[f.Name] = ""
		case string:
			values[f.Name] = v
		case bool:
			if v {
				values[f.Name] = "true"
			} else {
				values[f.Name] = ""
			}
		case float64:
			values[f.Name] = strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			values[f.Name] = v.String()
		default:
			values[f.Name] = fmt.Sprint(v)
		}
	}
	return values
}
