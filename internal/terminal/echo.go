package terminal

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/rpggio/downtime/internal/chat"
)

// ChatEcho renders posted reports as Markdown in the terminal.
type ChatEcho struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *glamour.TermRenderer
	styles   Styles
}

var _ chat.Sink = (*ChatEcho)(nil)

// NewChatEcho creates an echo sink. A zero width keeps glamour's default.
func NewChatEcho(out io.Writer, styles Styles, width int, opts ...glamour.TermRendererOption) (*ChatEcho, error) {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &ChatEcho{out: out, renderer: renderer, styles: styles}, nil
}

// Post renders msg. Rendering errors fall back to the raw Markdown.
func (e *ChatEcho) Post(_ context.Context, msg chat.Message) error {
	rendered, err := e.renderer.Render(msg.Content)
	if err != nil {
		rendered = msg.Content + "\n"
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := fmt.Fprintln(e.out, e.styles.Accent.Render(msg.Speaker+" posted:")); err != nil {
		return err
	}
	_, err = io.WriteString(e.out, rendered)
	return err
}

// Render renders Markdown without posting it.
func (e *ChatEcho) Render(markdown string) string {
	rendered, err := e.renderer.Render(markdown)
	if err != nil {
		return markdown + "\n"
	}
	return rendered
}
