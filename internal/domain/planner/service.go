package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/dialog"
	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/locale"
	"github.com/rpggio/downtime/internal/metrics"
	"github.com/rpggio/downtime/internal/repository"
)

// Service opens planner sessions.
type Service struct {
	store      Store
	sink       chat.Sink
	characters character.Reader
	history    HistoryLogger
	metrics    *metrics.Recorder
	catalog    *locale.Catalog
	formatter  *chat.Formatter
	logger     *slog.Logger
	newID      func() string
}

// Option configures a Service.
type Option func(*Service)

// WithCharacters sets the character sheet source.
func WithCharacters(r character.Reader) Option {
	return func(s *Service) { s.characters = r }
}

// WithHistory records successful changes.
func WithHistory(h HistoryLogger) Option {
	return func(s *Service) { s.history = h }
}

// WithMetrics counts planner events.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCatalog sets the message catalog.
func WithCatalog(c *locale.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithIDGenerator replaces uuid generation of record ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a planner service.
func NewService(store Store, sink chat.Sink, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		sink:   sink,
		logger: logger,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = locale.Default()
	}
	s.formatter = chat.NewFormatter(s.catalog)
	return s
}

// Open loads the user's list and starts a session in host.
func (s *Service) Open(ctx context.Context, userID string, host Host) (*Session, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if host == nil {
		return nil, ErrNilHost
	}
	list, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "load", UserID: userID, Err: err}
	}
	return &Session{svc: s, userID: userID, host: host, list: list}, nil
}

// Formatter returns the report formatter used for submissions.
func (s *Service) Formatter() *chat.Formatter { return s.formatter }

// sheet returns the user's sheet, or nil when none is available.
func (s *Service) sheet(ctx context.Context, userID string) *character.Sheet {
	if s.characters == nil {
		return nil
	}
	sheet, err := s.characters.Sheet(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) && s.logger != nil {
			s.logger.Warn("loading character sheet", "user_id", userID, "error", err)
		}
		return nil
	}
	return sheet
}

func (s *Service) actor(ctx context.Context, userID string, sheet *character.Sheet) chat.Actor {
	actor := chat.Actor{UserName: userID}
	if sheet == nil {
		return actor
	}
	actor.CharacterName = sheet.Name
	if sheet.CrewID == "" || s.characters == nil {
		return actor
	}
	crew, err := s.characters.Crew(ctx, sheet.CrewID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) && s.logger != nil {
			s.logger.Warn("loading crew", "crew_id", sheet.CrewID, "error", err)
		}
		return actor
	}
	actor.CrewName = crew.Name
	actor.CrewTier = crew.Tier
	return actor
}

func (s *Service) factory(host Host, sheet *character.Sheet) dialog.Factory {
	return dialog.Factory{
		Prompter: host,
		Catalog:  s.catalog,
		Sheet:    sheet,
		Logger:   s.logger,
	}
}

func (s *Service) logHistory(ctx context.Context, userID string, entry *history.Entry) {
	if s.history == nil {
		return
	}
	if err := s.history.Log(ctx, userID, entry); err != nil && s.logger != nil {
		s.logger.Debug("history log failed", "user_id", userID, "error", err)
	}
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func wrapPrompt(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
