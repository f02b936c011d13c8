package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/library-of-memories/internal/chronicle"
	"github.com/tatianab/library-of-memories/internal/engine"
	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/store"
)

var start = time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)

// run feeds engine results back into the model until the chain ends. Other
// commands (cursor blinks) are not run.
func run(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case resultMsg, pageMsg:
		default:
			return m
		}
		next, c := m.Update(msg)
		m = next.(model)
		cmd = c
	}
	return m
}

func press(t *testing.T, m model, key string) model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return run(t, next.(model), cmd)
}

func newTestModel(t *testing.T, mem *store.Memory) model {
	t.Helper()
	e, err := engine.New(mem,
		engine.WithClock(engine.NewFakeClock(start)),
		engine.WithRandomSource(func(int) rng.Source { return &rng.Fixed{Values: []float64{0.99}} }),
	)
	require.NoError(t, err)
	m := NewModel(e, chronicle.NewKeeper(mem, models.StorageKey, chronicle.Nop{}), nil)
	return run(t, m, m.Init())
}

func TestLoadShowsDailyEvent(t *testing.T) {
	m := newTestModel(t, store.NewMemory())

	assert.Equal(t, statePlaying, m.state)
	assert.Equal(t, "daily_event_service_crisis", m.view.State.CurrentScenarioID)
	assert.Contains(t, m.body, "Day 1 begins.")
	assert.Len(t, m.view.Choices, 2)
	require.NotNil(t, m.page)
	assert.Equal(t, 1, m.page.Day)
	assert.Contains(t, m.View(), "DAY 1")
}

func TestChoosingByNumberAndCursor(t *testing.T) {
	m := newTestModel(t, store.NewMemory())

	m = press(t, m, "1")
	assert.Equal(t, "intro", m.view.State.CurrentScenarioID)
	assert.Contains(t, m.body, "You looked for ways to serve visitors better.")
	assert.Contains(t, m.body, "What will you do in the Library of Memories today?")

	m = press(t, m, "down")
	m = press(t, m, "down")
	assert.Equal(t, 2, m.cursor)
	m = press(t, m, "down")
	m = press(t, m, "down")
	m = press(t, m, "enter")
	assert.Equal(t, "action_record_room_management", m.view.State.CurrentScenarioID)
	assert.Equal(t, 0, m.cursor)

	m = press(t, m, "9")
	assert.Equal(t, "action_record_room_management", m.view.State.CurrentScenarioID)
}

// wellStocked returns a store holding today's save with plenty of old books,
// so repeated days do not starve the library.
func wellStocked(t *testing.T) *store.Memory {
	t.Helper()
	g := models.NewGameState(start.Format("2006-01-02"))
	g.Resources[models.OldBooks] = 1000
	data, err := models.Encode(g)
	require.NoError(t, err)
	mem := store.NewMemory()
	require.NoError(t, mem.Put(context.Background(), models.StorageKey, data))
	return mem
}

func TestRefusalShowsNotice(t *testing.T) {
	m := newTestModel(t, wellStocked(t))
	require.Equal(t, "intro", m.view.State.CurrentScenarioID)
	for i := 0; i < models.MaxManualAdvances; i++ {
		m = press(t, m, "n")
		assert.Empty(t, m.notice)
	}
	day := m.view.State.Day
	m = press(t, m, "n")
	assert.Contains(t, m.notice, "cannot move to the next day")
	assert.Equal(t, day, m.view.State.Day)
	assert.Contains(t, m.View(), m.notice)
}

func TestResetNeedsConfirmation(t *testing.T) {
	m := newTestModel(t, store.NewMemory())
	m = press(t, m, "n")
	require.Equal(t, 2, m.view.State.Day)

	m = press(t, m, "R")
	assert.Equal(t, stateConfirmReset, m.state)
	m = press(t, m, "x")
	assert.Equal(t, statePlaying, m.state)
	assert.Equal(t, 2, m.view.State.Day)

	m = press(t, m, "R")
	m = press(t, m, "y")
	assert.Equal(t, statePlaying, m.state)
	assert.Equal(t, 1, m.view.State.Day)
}

func TestMinigameInput(t *testing.T) {
	m := newTestModel(t, store.NewMemory())
	m = press(t, m, "1")
	m = press(t, m, "7")
	require.NotNil(t, m.view.Minigame)
	assert.True(t, m.view.Minigame.TakesText)
	assert.Contains(t, m.View(), "Original:")

	// Letters go to the text input, not the choice keys.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(model)
	assert.Equal(t, "n", m.textInput.Value())
	assert.Equal(t, 1, m.view.State.Day)

	m.textInput.SetValue("care")
	m = press(t, m, "enter")
	assert.Equal(t, []string{"care"}, m.view.Minigame.Fragments)
	assert.Empty(t, m.textInput.Value())

	m = press(t, m, "enter")
	assert.Nil(t, m.view.Minigame)
	assert.Equal(t, "intro", m.view.State.CurrentScenarioID)
	assert.Contains(t, m.body, "Restoration failed")
}

func TestLoadFailureShowsErrorScreen(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Put(context.Background(), models.StorageKey, []byte("not json")))

	m := newTestModel(t, mem)
	assert.Equal(t, stateError, m.state)
	assert.Contains(t, m.View(), loadFailed)
}

func TestCompose(t *testing.T) {
	assert.Equal(t, "scene", compose("", "scene"))
	assert.Equal(t, "note in scene", compose("note", "note in scene"))
	assert.Equal(t, "summary\n\nscene", compose("summary\n\nscene", "scene"))
	assert.Equal(t, "did it\n\nscene", compose("did it", "scene"))
}
