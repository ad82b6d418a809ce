package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rpggio/downtime/internal/dialog"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/planner"
)

// CancelWord abandons the form being filled in.
const CancelWord = ":cancel"

// LineReader reads one line of input. *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

var _ LineReader = (*readline.Instance)(nil)

// Host asks dialog questions one line at a time.
type Host struct {
	in     LineReader
	out    io.Writer
	styles Styles
}

var _ planner.Host = (*Host)(nil)

// NewHost creates a host reading from in and writing to out.
func NewHost(in LineReader, out io.Writer, styles Styles) *Host {
	return &Host{in: in, out: out, styles: styles}
}

// errAbandon ends a form. It carries the action to report.
type errAbandon struct{ action dialog.Action }

func (e errAbandon) Error() string { return string(e.action) }

func (h *Host) Prompt(ctx context.Context, form dialog.Form) (dialog.Response, error) {
	fmt.Fprintln(h.out, h.styles.Title.Render(form.Title))
	if form.Description != "" {
		fmt.Fprintln(h.out, h.styles.Muted.Render(form.Description))
	}
	for _, w := range form.Warnings {
		fmt.Fprintln(h.out, h.styles.Warning.Render("! "+w))
	}
	fmt.Fprintln(h.out, h.styles.Muted.Render("Enter keeps the current value, "+CancelWord+" cancels."))

	values := form.Values()
	for _, f := range form.Fields {
		if !f.Visible(values) {
			continue
		}
		v, err := h.ask(ctx, f, values[f.Name])
		if err != nil {
			var abandon errAbandon
			if errors.As(err, &abandon) {
				return dialog.Response{Action: abandon.action}, nil
			}
			return dialog.Response{}, err
		}
		values[f.Name] = v
	}
	return dialog.Response{Action: dialog.ActionConfirm, Values: values}, nil
}

func (h *Host) Confirm(ctx context.Context, title, message string) (bool, error) {
	fmt.Fprintln(h.out, h.styles.Title.Render(title))
	for {
		line, err := h.readLine(ctx, message+" [y/N] ")
		if err != nil {
			var abandon errAbandon
			if errors.As(err, &abandon) {
				return false, dialog.ErrDismissed
			}
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
	}
}

func (h *Host) Warn(_ context.Context, message string) {
	fmt.Fprintln(h.out, h.styles.Warning.Render(message))
}

// ask reads one field until the input is acceptable.
func (h *Host) ask(ctx context.Context, f activity.Field, current string) (string, error) {
	label := f.Label
	if label == "" {
		label = f.Name
	}
	if f.Type == activity.FieldSelect {
		for i, opt := range f.Options {
			fmt.Fprintf(h.out, "  %s %s\n", h.styles.Accent.Render(strconv.Itoa(i+1)+")"), optionLabel(f, i, opt))
		}
	}

	prompt := label
	switch {
	case f.Type == activity.FieldCheckbox:
		def := "n"
		if current == "true" {
			def = "y"
		}
		prompt += " [y/n, " + def + "]"
	case current != "":
		shown := current
		if f.Type == activity.FieldSelect {
			if i := indexOf(f.Options, current); i >= 0 {
				shown = optionLabel(f, i, current)
			}
		}
		prompt += " [" + shown + "]"
	}
	if f.Required {
		prompt += " *"
	}
	prompt += ": "

	for {
		line, err := h.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if line == CancelWord {
			return "", errAbandon{action: dialog.ActionCancel}
		}
		if line == "" {
			return current, nil
		}
		if v, ok := parseValue(f, line); ok {
			return v, nil
		}
		fmt.Fprintln(h.out, h.styles.Warning.Render("Not a valid answer for "+label+"."))
	}
}

func (h *Host) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h.in.SetPrompt(prompt)
	line, err := h.in.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", errAbandon{action: dialog.ActionCancel}
		}
		if errors.Is(err, io.EOF) {
			return "", errAbandon{action: dialog.ActionDismiss}
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// parseValue accepts option numbers, values and labels for selects and
// yes/no for checkboxes. Numbers are left to validation.
func parseValue(f activity.Field, line string) (string, bool) {
	switch f.Type {
	case activity.FieldCheckbox:
		switch strings.ToLower(line) {
		case "y", "yes", "true":
			return "true", true
		case "n", "no", "false":
			return "", true
		}
		return "", false
	case activity.FieldSelect:
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(f.Options) {
			return f.Options[n-1], true
		}
		for i, opt := range f.Options {
			if strings.EqualFold(line, opt) || strings.EqualFold(line, optionLabel(f, i, opt)) {
				return opt, true
			}
		}
		return "", false
	default:
		return line, true
	}
}

func optionLabel(f activity.Field, i int, opt string) string {
	if i < len(f.OptionLabels) && f.OptionLabels[i] != "" {
		return f.OptionLabels[i]
	}
	return opt
}

func indexOf(options []string, v string) int {
	for i, opt := range options {
		if opt == v {
			return i
		}
	}
	return -1
}
