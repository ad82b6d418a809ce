package activity

import (
	"strconv"
	"strings"
)

// Message keys shared by all forms.
const (
	MsgInvalidChoice = "Validation.InvalidChoice"
)

// FieldProblem is one missing or malformed field.
type FieldProblem struct {
	Field      string `json:"field"`
	MessageKey string `json:"message_key"`
}

// ValidationError blocks confirmation of a form.
type ValidationError struct {
	Kind     Kind
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		fields = append(fields, p.Field)
	}
	return "invalid " + string(e.Kind) + ": " + strings.Join(fields, ", ")
}

// binder reads form values and accumulates problems.
type binder struct {
	kind     Kind
	values   map[string]string
	problems []FieldProblem
}

func newBinder(kind Kind, values map[string]string) *binder {
	return &binder{kind: kind, values: values}
}

func (b *binder) fail(field, key string) {
	b.problems = append(b.problems, FieldProblem{Field: field, MessageKey: key})
}

// text returns the trimmed value; requiredKey marks it required.
func (b *binder) text(name, requiredKey string) string {
	v := strings.TrimSpace(b.values[name])
	if v == "" && requiredKey != "" {
		b.fail(name, requiredKey)
	}
	return v
}

// choice returns a value from options.
func (b *binder) choice(name string, options []string, requiredKey string) string {
	v := b.text(name, requiredKey)
	if v == "" {
		return ""
	}
	for _, opt := range options {
		if strings.EqualFold(opt, v) {
			return opt
		}
	}
	b.fail(name, MsgInvalidChoice)
	return ""
}

func (b *binder) flag(name string) bool {
	switch strings.ToLower(strings.TrimSpace(b.values[name])) {
	case "true", "on", "yes", "y", "1":
		return true
	default:
		return false
	}
}

// integer parses a required whole number.
func (b *binder) integer(name, requiredKey string) *int {
	raw := strings.TrimSpace(b.values[name])
	if raw == "" {
		b.fail(name, requiredKey)
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		b.fail(name, requiredKey)
		return nil
	}
	return &n
}

func (b *binder) err() error {
	if len(b.problems) == 0 {
		return nil
	}
	return &ValidationError{Kind: b.kind, Problems: b.problems}
}
