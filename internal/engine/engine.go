// Package engine owns the game state. It loads and saves it, runs the daily
// tick and applies player actions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tatianab/library-of-memories/internal/action"
	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/scenario"
	"github.com/tatianab/library-of-memories/internal/store"
)

var (
	// ErrGameOver is returned for any action while a terminal scenario is showing.
	ErrGameOver = errors.New("the library has closed")
	// ErrNoMinigame is returned for minigame input when no minigame is running.
	ErrNoMinigame = errors.New("no minigame in progress")
	// ErrInvalidParams is returned when an action names something that does not exist.
	ErrInvalidParams = errors.New("invalid action parameters")
	// ErrNotLoaded is returned when the engine is used before Load.
	ErrNotLoaded = errors.New("game not loaded")
)

// Result describes what a call changed.
type Result struct {
	// Message is the text to show in place of the scenario text. Empty means
	// show the scenario text.
	Message string
	// Refused is set when the action was turned down and nothing changed.
	Refused bool
	// NewDay is set when a daily tick ran.
	NewDay bool
}

// View is a read-only snapshot for rendering.
type View struct {
	State    *models.GameState
	Text     string
	Choices  []scenario.Choice
	Final    bool
	Minigame *MinigameView
}

// MinigameView describes the running minigame.
type MinigameView struct {
	Name        string
	Description string
	Target      string
	Fragments   []string
	Score       int
	TakesText   bool
}

// Engine is the single owner of the game state.
type Engine struct {
	mu sync.Mutex

	store   store.Store
	key     string
	clock   Clock
	logger  *log.Logger
	catalog *scenario.Catalog
	newRand func(seed int) rng.Source
	newID   func() string
	games   []Minigame

	state *models.GameState
	src   rng.Source
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the calendar the load gate reads. The default is RealClock.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithKey sets the storage key. The default is models.StorageKey.
func WithKey(key string) Option { return func(e *Engine) { e.key = key } }

// WithCatalog replaces the embedded scenario catalog.
func WithCatalog(c *scenario.Catalog) Option { return func(e *Engine) { e.catalog = c } }

// WithRandomSource replaces the seeded generator, mainly so tests can force
// outcomes.
func WithRandomSource(f func(seed int) rng.Source) Option {
	return func(e *Engine) { e.newRand = f }
}

// WithIDs replaces the librarian id generator.
func WithIDs(f func() string) Option { return func(e *Engine) { e.newID = f } }

// New returns an engine backed by s. Call Load before anything else.
func New(s store.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:   s,
		key:     models.StorageKey,
		clock:   RealClock{},
		logger:  log.New(io.Discard),
		newRand: func(seed int) rng.Source { return rng.New(seed) },
		newID:   uuid.NewString,
		games:   DefaultMinigames(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		c, err := scenario.Default()
		if err != nil {
			return nil, err
		}
		e.catalog = c
	}
	return e, nil
}

func (e *Engine) today() string {
	return dateOf(e.clock.Now())
}

func (e *Engine) reseed(g *models.GameState) {
	e.src = e.newRand(rng.Seed(e.clock.Now(), g.Day))
}

// Load reads the save, patches it forward and runs the daily tick when the
// calendar date has changed since the last session. A missing save starts a
// new game.
func (e *Engine) Load(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.today()
	data, err := e.store.Get(ctx, e.key)
	if errors.Is(err, store.ErrNotFound) {
		e.logger.Info("no save found, opening a new library", "key", e.key)
		return e.startNew(ctx)
	}
	if err != nil {
		return Result{}, fmt.Errorf("load save: %w", err)
	}

	g, err := models.Decode(data, today)
	if err != nil {
		return Result{}, err
	}
	e.state = g
	e.reseed(g)
	e.logger.Info("loaded save", "key", e.key, "day", g.Day, "scenario", g.CurrentScenarioID)

	if g.LastPlayedDate == today || e.catalog.IsFinal(g.CurrentScenarioID) {
		return Result{}, e.save(ctx)
	}

	g.Day++
	g.LastPlayedDate = today
	g.ManualDayAdvances = 0
	g.DailyEventTriggered = false
	msg := e.tick(g)
	return Result{Message: msg, NewDay: true}, e.save(ctx)
}

// Reset throws the save away and opens a new library.
func (e *Engine) Reset(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Delete(ctx, e.key); err != nil && !errors.Is(err, store.ErrNotFound) {
		return Result{}, fmt.Errorf("delete save: %w", err)
	}
	e.logger.Info("library reset", "key", e.key)
	return e.startNew(ctx)
}

func (e *Engine) startNew(ctx context.Context) (Result, error) {
	g := models.NewGameState(e.today())
	e.state = g
	msg := e.tick(g)
	return Result{Message: msg, NewDay: true}, e.save(ctx)
}

func (e *Engine) save(ctx context.Context) error {
	data, err := models.Encode(e.state)
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, e.key, data); err != nil {
		e.logger.Error("save failed", "key", e.key, "err", err)
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

// State returns a copy of the current state.
func (e *Engine) State() *models.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil
	}
	return e.state.Clone()
}

// View renders the current scenario.
func (e *Engine) View() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return View{}, ErrNotLoaded
	}
	g := e.state.Clone()

	if mg, ok := e.activeMinigame(g); ok {
		mv := mg.View(g)
		return View{State: g, Text: mv.Description, Minigame: &mv}, nil
	}

	text, err := e.catalog.Render(g.CurrentScenarioID, g)
	if err != nil {
		return View{}, err
	}
	return View{
		State:   g,
		Text:    text,
		Choices: e.catalog.Choices(g.CurrentScenarioID, g),
		Final:   e.catalog.IsFinal(g.CurrentScenarioID),
	}, nil
}

// Dispatch carries out a player action. Soft failures come back as a
// refused Result; errors are reserved for bad input and storage problems.
func (e *Engine) Dispatch(ctx context.Context, a action.Action) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return Result{}, ErrNotLoaded
	}
	if e.catalog.IsFinal(e.state.CurrentScenarioID) {
		return Result{}, ErrGameOver
	}
	if _, ok := e.activeMinigame(e.state); ok && a.Kind != action.ManualNextDay {
		return Result{Message: msgFinishMinigame, Refused: true}, nil
	}

	g := e.state.Clone()
	msg, err := e.apply(g, a)
	var r refusal
	if errors.As(err, &r) {
		return Result{Message: string(r), Refused: true}, nil
	}
	if err != nil {
		return Result{}, err
	}

	newDay := a.Kind == action.ManualNextDay
	if !newDay {
		g.Note = msg
	}
	e.state = g
	e.logger.Debug("action", "kind", a.Kind, "scenario", g.CurrentScenarioID, "points", g.ActionPoints)
	return Result{Message: msg, NewDay: newDay}, e.save(ctx)
}

// refusal is a soft failure. It leaves the state untouched.
type refusal string

func (r refusal) Error() string { return string(r) }

const (
	msgNoPoints       = "Not enough work points."
	msgNoResources    = "Not enough resources."
	msgFinishMinigame = "Finish today's record first."
)

// spend takes one work point or refuses.
func spend(g *models.GameState) error {
	if g.ActionPoints <= 0 {
		return refusal(msgNoPoints)
	}
	g.ActionPoints--
	return nil
}

// render returns the scenario text for g, or an empty string if it cannot be
// rendered.
func (e *Engine) render(g *models.GameState) string {
	text, err := e.catalog.Render(g.CurrentScenarioID, g)
	if err != nil {
		e.logger.Warn("render failed", "scenario", g.CurrentScenarioID, "err", err)
		return ""
	}
	return text
}

func joinSentences(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
