package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tatianab/library-of-memories/internal/action"
	"github.com/tatianab/library-of-memories/internal/chronicle"
	"github.com/tatianab/library-of-memories/internal/engine"
)

type sessionState int

const (
	stateLoading sessionState = iota
	statePlaying
	stateConfirmReset
	stateError
)

const loadFailed = "Failed to load the library. Please restart."

type model struct {
	state     sessionState
	engine    *engine.Engine
	keeper    *chronicle.Keeper
	logger    *log.Logger
	view      engine.View
	body      string
	notice    string
	page      *chronicle.Page
	cursor    int
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	width     int
	height    int
}

var (
	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Italic(true)

	pageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AFAFD7")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

// NewModel returns the root model. keeper may be nil to skip the journal.
func NewModel(eng *engine.Engine, keeper *chronicle.Keeper, logger *log.Logger) model {
	ti := textinput.New()
	ti.Placeholder = "Type a fragment, or press enter on an empty line to finish..."
	ti.CharLimit = 64
	ti.Width = 40

	if logger == nil {
		logger = log.New(io.Discard)
	}
	return model{
		state:     stateLoading,
		engine:    eng,
		keeper:    keeper,
		logger:    logger,
		textInput: ti,
		viewport:  viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	return m.load()
}

// resultMsg carries the outcome of any engine call.
type resultMsg struct {
	res  engine.Result
	view engine.View
	err  error
	load bool
}

type pageMsg struct {
	page chronicle.Page
	err  error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.state {
		case stateConfirmReset:
			if msg.String() == "y" {
				m.state = stateLoading
				return m, m.reset()
			}
			m.state = statePlaying
			m.notice = ""
			return m, nil
		case statePlaying:
			return m.handleKey(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.65)
		m.viewport.Height = msg.Height - 6
		m.refresh()

	case resultMsg:
		return m.applyResult(msg)

	case pageMsg:
		if msg.err != nil {
			m.logger.Warn("chronicle failed", "err", msg.err)
			return m, nil
		}
		m.page = &msg.page
		m.refresh()
		return m, nil
	}

	if m.minigameTakesText() {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view.Minigame != nil {
		switch {
		case msg.Type == tea.KeyEnter:
			input := m.textInput.Value()
			m.textInput.Reset()
			return m, m.minigameInput(input)
		case msg.Type == tea.KeyCtrlN:
			return m, m.dispatch(action.New(action.ManualNextDay))
		case m.view.Minigame.TakesText:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.refresh()
		return m, nil
	case "down", "j":
		if m.cursor < len(m.view.Choices)-1 {
			m.cursor++
		}
		m.refresh()
		return m, nil
	case "enter":
		return m.choose(m.cursor)
	case "n":
		return m, m.dispatch(action.New(action.ManualNextDay))
	case "R":
		m.state = stateConfirmReset
		m.notice = "Start a new library? Everything will be lost. (y/n)"
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return m.choose(int(s[0] - '1'))
	}
	return m, nil
}

func (m model) choose(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.view.Choices) {
		return m, nil
	}
	m.cursor = i
	return m, m.dispatch(m.view.Choices[i].Action)
}

func (m model) applyResult(msg resultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.load {
			m.logger.Error("load failed", "err", msg.err)
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.logger.Error("action failed", "err", msg.err)
		m.notice = describe(msg.err)
		m.refresh()
		return m, nil
	}

	m.state = statePlaying
	m.view = msg.view
	m.cursor = 0
	m.notice = ""
	if msg.res.Refused {
		m.notice = msg.res.Message
	} else {
		m.body = compose(msg.res.Message, msg.view.Text)
	}
	if m.view.Minigame != nil && m.view.Minigame.TakesText {
		m.textInput.Focus()
	} else {
		m.textInput.Blur()
	}
	m.refresh()

	if msg.res.NewDay && m.keeper != nil && msg.view.State != nil {
		return m, m.chronicle(msg.res.Message)
	}
	return m, nil
}

// compose decides what text to show after a call. Result scenarios already
// print the outcome through the note, so the message is only prepended when
// the scenario text does not contain it.
func compose(message, text string) string {
	switch {
	case message == "":
		return text
	case strings.Contains(text, message):
		return text
	case strings.Contains(message, text):
		return message
	}
	return message + "\n\n" + text
}

func describe(err error) string {
	switch {
	case errors.Is(err, engine.ErrGameOver):
		return "The library has closed. Press R to start again."
	case errors.Is(err, engine.ErrNoMinigame):
		return "There is no record to restore right now."
	case errors.Is(err, engine.ErrInvalidParams), errors.Is(err, action.ErrUnknown):
		return "That cannot be done."
	}
	return "Something went wrong. Your progress was not saved."
}

func (m model) minigameTakesText() bool {
	return m.state == statePlaying && m.view.Minigame != nil && m.view.Minigame.TakesText
}

func (m *model) refresh() {
	m.viewport.SetContent(m.renderLog())
}

func (m model) renderLog() string {
	width := m.viewport.Width
	var b strings.Builder
	if m.page != nil {
		b.WriteString(pageStyle.Width(width).Render(fmt.Sprintf("Journal, day %d: %s\n%s", m.page.Day, m.page.Title, m.page.Text)))
		b.WriteString("\n\n")
	}

	if mg := m.view.Minigame; mg != nil {
		b.WriteString(titleStyle.Render(mg.Name))
		b.WriteString("\n\n")
		b.WriteString(gameStyle.Width(width).Render(mg.Description))
		b.WriteString("\n\n")
		if mg.Target != "" {
			fmt.Fprintf(&b, "Original: %s\n", mg.Target)
			fmt.Fprintf(&b, "Restored: %s\n", strings.Join(mg.Fragments, " "))
		}
		fmt.Fprintf(&b, "Score: %d\n", mg.Score)
		if m.body != "" && m.body != mg.Description {
			b.WriteString("\n" + gameStyle.Width(width).Render(m.body) + "\n")
		}
		return b.String()
	}

	b.WriteString(gameStyle.Width(width).Render(m.body))
	b.WriteString("\n\n")
	for i, c := range m.view.Choices {
		line := fmt.Sprintf("%d. %s", i+1, c.Text)
		if i == m.cursor {
			b.WriteString(choiceStyle.Width(width).Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = "\n  Opening the library... please wait.\n"

	case statePlaying, stateConfirmReset:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)

		parts := []string{mainView}
		if m.view.Minigame != nil && m.view.Minigame.TakesText {
			parts = append(parts, "\n"+m.textInput.View())
		}
		if m.notice != "" {
			parts = append(parts, "\n"+noticeStyle.Render(m.notice))
		}
		parts = append(parts, "\n"+helpStyle.Render(m.help()))
		s = lipgloss.JoinVertical(lipgloss.Left, parts...)

	case stateError:
		s = fmt.Sprintf("\n  %s\n\nPress Esc to quit.", loadFailed)
	}

	return "\n" + s + "\n"
}

func (m model) help() string {
	switch {
	case m.view.Minigame != nil && m.view.Minigame.TakesText:
		return "enter: add fragment (empty to finish)  ctrl+n: next day  esc: quit"
	case m.view.Minigame != nil:
		return "enter: play  ctrl+n: next day  esc: quit"
	case m.view.Final:
		return "R: start a new library  esc: quit"
	}
	return "1-9 or ↑/↓ + enter: choose  n: next day  R: reset  pgup/pgdown: scroll  esc: quit"
}

func (m model) load() tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.Load(context.Background())
		if err != nil {
			return resultMsg{err: err, load: true}
		}
		v, err := m.engine.View()
		return resultMsg{res: res, view: v, err: err, load: true}
	}
}

func (m model) reset() tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.Reset(context.Background())
		if err == nil && m.keeper != nil {
			err = m.keeper.Reset(context.Background())
		}
		if err != nil {
			return resultMsg{err: err, load: true}
		}
		v, err := m.engine.View()
		return resultMsg{res: res, view: v, err: err, load: true}
	}
}

func (m model) dispatch(a action.Action) tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.Dispatch(context.Background(), a)
		if err != nil {
			return resultMsg{err: fmt.Errorf("%s: %w", a, err)}
		}
		v, err := m.engine.View()
		return resultMsg{res: res, view: v, err: err}
	}
}

func (m model) minigameInput(input string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.MinigameInput(context.Background(), input)
		if err != nil {
			return resultMsg{err: err}
		}
		v, err := m.engine.View()
		return resultMsg{res: res, view: v, err: err}
	}
}

func (m model) chronicle(events string) tea.Cmd {
	g := m.view.State
	return func() tea.Msg {
		page, err := m.keeper.Record(context.Background(), g, events)
		return pageMsg{page: page, err: err}
	}
}

// Run starts the game in the terminal.
func Run(eng *engine.Engine, keeper *chronicle.Keeper, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(eng, keeper, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
