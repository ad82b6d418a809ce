package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rpggio/downtime/internal/domain/planner"
	"github.com/rpggio/downtime/internal/locale"
)

// Prompt is the command prompt.
const Prompt = "downtime> "

const helpText = `Commands:
  list               show planned activities
  add                plan a new activity
  edit <n|id>        change an activity
  preview <n|id>     show the report an activity will post
  remove <n|id>      remove an activity
  start-over         remove every activity
  submit             post reports to chat and clear the plan
  rules              overindulgence rules
  help               this text
  quit               leave the shell`

// Shell is an interactive command loop over one planner session.
type Shell struct {
	session  *planner.Session
	in       LineReader
	out      io.Writer
	renderer *ChatEcho
	catalog  *locale.Catalog
	styles   Styles
}

// NewShell creates a shell. renderer and catalog may be nil.
func NewShell(session *planner.Session, in LineReader, out io.Writer, renderer *ChatEcho, catalog *locale.Catalog, styles Styles) *Shell {
	if catalog == nil {
		catalog = locale.Default()
	}
	return &Shell{session: session, in: in, out: out, renderer: renderer, catalog: catalog, styles: styles}
}

// Run reads commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.list(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.in.SetPrompt(Prompt)
		line, err := s.in.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}
		if s.Exec(ctx, line) {
			return nil
		}
	}
}

// Exec runs one command line. It reports whether the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := strings.Join(fields[1:], " ")

	switch strings.ToLower(fields[0]) {
	case "list", "ls":
		s.list(ctx)
	case "add":
		s.add(ctx)
	case "edit":
		s.edit(ctx, arg)
	case "preview":
		s.preview(ctx, arg)
	case "remove", "rm":
		s.remove(ctx, arg)
	case "start-over":
		s.startOver(ctx)
	case "submit":
		s.submit(ctx)
	case "rules":
		s.markdown(s.catalog.Localize("Rules.Overindulge"))
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintln(s.out, s.styles.Warning.Render("Unknown command "+strconv.Quote(fields[0])+". Type help."))
	}
	return false
}

func (s *Shell) list(ctx context.Context) {
	view := s.session.View(ctx)
	fmt.Fprintln(s.out, s.styles.Muted.Render(view.Description))
	if view.TraumaWarning != "" {
		fmt.Fprintln(s.out, s.styles.Warning.Render(view.TraumaWarning))
	}
	if len(view.Activities) == 0 {
		fmt.Fprintln(s.out, s.styles.Muted.Render("(no activities planned)"))
		return
	}
	for _, item := range view.Activities {
		fmt.Fprintf(s.out, "%s %s  %s %s\n",
			s.styles.Accent.Render(fmt.Sprintf("%2d.", item.Number)),
			s.styles.Title.Render(item.Title),
			s.styles.Text.Render(item.Summary),
			s.styles.Muted.Render("("+item.ID+")"),
		)
	}
}

func (s *Shell) add(ctx context.Context) {
	rec, err := s.session.Add(ctx)
	if err != nil {
		s.fail(err)
		return
	}
	if rec == nil {
		fmt.Fprintln(s.out, s.styles.Muted.Render("Cancelled."))
		return
	}
	fmt.Fprintln(s.out, s.styles.Success.Render("Added "+rec.Payload.Summary()+"."))
	s.list(ctx)
}

func (s *Shell) edit(ctx context.Context, arg string) {
	id, ok := s.resolve(arg)
	if !ok {
		return
	}
	rec, err := s.session.Edit(ctx, id)
	if err != nil {
		s.fail(err)
		return
	}
	if rec == nil {
		fmt.Fprintln(s.out, s.styles.Muted.Render("Unchanged."))
		return
	}
	fmt.Fprintln(s.out, s.styles.Success.Render("Updated "+rec.Payload.Summary()+"."))
	s.list(ctx)
}

func (s *Shell) preview(ctx context.Context, arg string) {
	id, ok := s.resolve(arg)
	if !ok {
		return
	}
	report, found := s.session.Preview(ctx, id)
	if !found {
		fmt.Fprintln(s.out, s.styles.Warning.Render("No activity "+arg+"."))
		return
	}
	s.markdown(report)
}

func (s *Shell) remove(ctx context.Context, arg string) {
	id, ok := s.resolve(arg)
	if !ok {
		return
	}
	removed, err := s.session.Remove(ctx, id)
	if err != nil {
		s.fail(err)
		return
	}
	if !removed {
		fmt.Fprintln(s.out, s.styles.Warning.Render("No activity "+arg+"."))
		return
	}
	s.list(ctx)
}

func (s *Shell) startOver(ctx context.Context) {
	cleared, err := s.session.StartOver(ctx)
	if err != nil {
		s.fail(err)
		return
	}
	if cleared {
		s.list(ctx)
	}
}

func (s *Shell) submit(ctx context.Context) {
	res, err := s.session.SubmitToChat(ctx)
	if err != nil {
		s.fail(err)
		s.list(ctx)
		return
	}
	switch {
	case res.Warned:
	case !res.Confirmed:
		fmt.Fprintln(s.out, s.styles.Muted.Render("Not sent."))
	default:
		fmt.Fprintln(s.out, s.styles.Success.Render(fmt.Sprintf("Posted %d report(s).", res.Posted)))
	}
}

// resolve maps a list number or an id to an id.
func (s *Shell) resolve(arg string) (string, bool) {
	if arg == "" {
		fmt.Fprintln(s.out, s.styles.Warning.Render("Which activity? Give its number or id."))
		return "", false
	}
	if n, err := strconv.Atoi(arg); err == nil {
		list := s.session.Activities()
		if n >= 1 && n <= len(list) {
			return list[n-1].ID, true
		}
	}
	return arg, true
}

func (s *Shell) markdown(md string) {
	if s.renderer != nil {
		fmt.Fprint(s.out, s.renderer.Render(md))
		return
	}
	fmt.Fprintln(s.out, md)
}

func (s *Shell) fail(err error) {
	var postErr *planner.PostError
	var persistErr *planner.PersistenceError
	switch {
	case errors.As(err, &postErr):
		fmt.Fprintln(s.out, s.styles.Warning.Render(fmt.Sprintf(
			"Posting stopped after %d report(s): %v. Submit again to send the rest.", postErr.Posted, postErr.Err)))
	case errors.As(err, &persistErr):
		fmt.Fprintln(s.out, s.styles.Warning.Render("Could not save your plan: "+persistErr.Err.Error()+". Nothing changed."))
	default:
		fmt.Fprintln(s.out, s.styles.Warning.Render("Error: "+err.Error()))
	}
}
