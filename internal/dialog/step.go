package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/rpggio/downtime/internal/locale"
)

// Dialog collects one activity payload. existing pre-fills the form for an
// edit; nil starts from an empty payload.
type Dialog interface {
	Present(ctx context.Context, existing activity.Payload) (activity.Payload, error)
}

// Factory builds step dialogs that share a prompter and context.
type Factory struct {
	Prompter Prompter
	Catalog  *locale.Catalog
	// Sheet, when set, is used to auto-fill character values.
	Sheet  *character.Sheet
	Logger *slog.Logger
}

// ForKind returns a new single-shot dialog for kind.
func (f Factory) ForKind(kind activity.Kind) (*StepDialog, error) {
	if _, ok := activity.Lookup(kind); !ok {
		return nil, fmt.Errorf("%w: %q", activity.ErrUnknownKind, kind)
	}
	if f.Prompter == nil {
		return nil, errors.New("dialog: nil prompter")
	}
	return &StepDialog{
		kind:     kind,
		prompter: f.Prompter,
		catalog:  f.Catalog,
		sheet:    f.Sheet,
		logger:   f.Logger,
		result:   NewPending[activity.Payload](),
		closed:   make(chan struct{}),
	}, nil
}

// StepDialog is the form for one activity kind. It can be presented once.
type StepDialog struct {
	kind     activity.Kind
	prompter Prompter
	catalog  *locale.Catalog
	sheet    *character.Sheet
	logger   *slog.Logger

	used      atomic.Bool
	result    *Pending[activity.Payload]
	closed    chan struct{}
	closeOnce sync.Once
}

var _ Dialog = (*StepDialog)(nil)

// Kind returns the activity kind the dialog collects.
func (d *StepDialog) Kind() activity.Kind { return d.kind }

// Result is resolved when the dialog ends by any path.
func (d *StepDialog) Result() *Pending[activity.Payload] { return d.result }

// Close dismisses the dialog. Safe from any goroutine and before Present.
func (d *StepDialog) Close() {
	d.closeOnce.Do(func() { close(d.closed) })
}

func (d *StepDialog) Present(ctx context.Context, existing activity.Payload) (activity.Payload, error) {
	if !d.used.CompareAndSwap(false, true) {
		return nil, ErrDialogUsed
	}
	if existing != nil && existing.Kind() != d.kind {
		err := fmt.Errorf("%w: dialog %s given %s", activity.ErrKindMismatch, d.kind, existing.Kind())
		d.result.Resolve(nil, err)
		return nil, err
	}
	return present(ctx, d.closed, d.result, func(ctx context.Context) (activity.Payload, error) {
		return d.run(ctx, existing)
	})
}

func (d *StepDialog) run(ctx context.Context, existing activity.Payload) (activity.Payload, error) {
	base := existing
	if base == nil {
		p, err := activity.NewPayload(d.kind)
		if err != nil {
			return nil, err
		}
		base = p
	}
	if iv, ok := base.(*activity.IndulgeVice); ok {
		filled := *iv
		filled.AutoFill(d.sheet)
		base = &filled
	}

	title := activity.TitleKey(d.kind)
	form := Form{
		ID:          string(d.kind),
		Title:       d.catalog.Localize(title),
		Description: d.catalog.Localize(descriptionKey(title)),
		Fields:      localizeFields(d.catalog, base.Fields()),
	}

	for {
		resp, err := d.prompter.Prompt(ctx, form)
		if err != nil {
			if errors.Is(err, ErrDismissed) || ctx.Err() != nil {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("prompt %s: %w", d.kind, err)
		}
		if resp.Action != ActionConfirm {
			return nil, ErrCancelled
		}

		values := form.Values()
		maps.Copy(values, resp.Values)

		next, err := activity.NewPayload(d.kind)
		if err != nil {
			return nil, err
		}
		if err := next.Bind(values); err != nil {
			var verr *activity.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			if d.logger != nil {
				d.logger.Debug("form rejected", "kind", d.kind, "problems", len(verr.Problems))
			}
			form.Fields = activity.WithValues(form.Fields, values)
			form.Warnings = warnings(d.catalog, verr)
			continue
		}
		return next, nil
	}
}

// present runs fn and resolves p with its result, or with ErrCancelled when
// closed or ctx ends first.
func present[T any](ctx context.Context, closed <-chan struct{}, p *Pending[T], fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		v, err := fn(ctx)
		p.Resolve(v, err)
	}()

	var zero T
	select {
	case <-p.Done():
	case <-closed:
		p.Resolve(zero, ErrCancelled)
	case <-ctx.Done():
		p.Resolve(zero, ErrCancelled)
	}
	return p.Wait(context.Background())
}

func descriptionKey(titleKey string) string {
	const suffix = ".Title"
	if len(titleKey) > len(suffix) && titleKey[len(titleKey)-len(suffix):] == suffix {
		return titleKey[:len(titleKey)-len(suffix)] + ".Description"
	}
	return ""
}

func localizeFields(c *locale.Catalog, fields []activity.Field) []activity.Field {
	out := make([]activity.Field, len(fields))
	for i, f := range fields {
		f.Label = c.Localize(f.LabelKey)
		if len(f.Options) > 0 && f.OptionLabels == nil {
			f.OptionLabels = make([]string, len(f.Options))
			for j, opt := range f.Options {
				if f.OptionPrefix == "" {
					f.OptionLabels[j] = opt
					continue
				}
				f.OptionLabels[j] = c.Localize(f.OptionPrefix + opt)
			}
		}
		out[i] = f
	}
	return out
}

func warnings(c *locale.Catalog, verr *activity.ValidationError) []string {
	out := make([]string, 0, len(verr.Problems))
	for _, p := range verr.Problems {
		out = append(out, c.Localize(p.MessageKey))
	}
	return out
}
