package engine

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/scenario"
)

// Reward is what finishing a minigame grants.
type Reward struct {
	Delta   models.Delta
	Message string
}

// Minigame is one of the daily "today's record" games. Scratch state lives
// in GameState.MinigameState so a running game survives a reload.
type Minigame interface {
	Key() string
	Name() string
	Description() string
	Start(g *models.GameState, src rng.Source)
	// Process feeds one line of input. done reports that the game is over.
	Process(g *models.GameState, input string) (done bool, note string)
	Reward(score int) Reward
	View(g *models.GameState) MinigameView
}

// DefaultMinigames returns the rotation, indexed by (day-1) % len.
func DefaultMinigames() []Minigame {
	return []Minigame{
		&recordRestoration{},
		fixedScore{
			key:         "manuscript_decoding",
			name:        "Manuscript Decoding Challenge",
			description: "Decode the hidden meaning of an ancient manuscript.",
			score:       10,
			reward:      models.Delta{}.Stat(models.Memory, 2).Stat(models.Tradition, 1),
		},
		fixedScore{
			key:         "library_maze",
			name:        "Library Maze",
			description: "Find the book you need in the winding stacks and make your way out.",
			score:       15,
			reward:      models.Delta{}.Stat(models.Stability, 2).Stat(models.Dedication, 1),
		},
		fixedScore{
			key:         "visitor_service",
			name:        "Visitor Service Simulation",
			description: "Answer visitors' questions and requests kindly and accurately.",
			score:       20,
			reward:      models.Delta{}.Stat(models.Service, 2).Stat(models.Memory, 1),
		},
		fixedScore{
			key:         "tradition_ritual",
			name:        "Tradition Ritual Reenactment",
			description: "Reenact the library's old ritual step by step.",
			score:       25,
			reward:      models.Delta{}.Stat(models.Tradition, 2).Stat(models.Service, 1),
		},
	}
}

// activeMinigame returns the game g is in the middle of, if any.
func (e *Engine) activeMinigame(g *models.GameState) (Minigame, bool) {
	if g.MinigameState == nil || !strings.HasPrefix(g.CurrentScenarioID, scenario.MinigamePrefix) {
		return nil, false
	}
	key := strings.TrimPrefix(g.CurrentScenarioID, scenario.MinigamePrefix)
	for _, mg := range e.games {
		if mg.Key() == key {
			return mg, true
		}
	}
	return nil, false
}

func (e *Engine) startMinigame(g *models.GameState) (string, error) {
	if g.DailyActions.MinigamePlayed {
		return "", refusal("You have already played today's record.")
	}
	if err := spend(g); err != nil {
		return "", err
	}
	idx := (max(g.Day, 1) - 1) % len(e.games)
	mg := e.games[idx]
	g.DailyActions.MinigamePlayed = true
	g.CurrentScenarioID = scenario.MinigamePrefix + mg.Key()
	mg.Start(g, e.src)
	g.MinigameState.Index = idx
	return mg.Description(), nil
}

// MinigameInput feeds a line of input to the running minigame and settles the
// reward when it finishes.
func (e *Engine) MinigameInput(ctx context.Context, input string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return Result{}, ErrNotLoaded
	}
	mg, ok := e.activeMinigame(e.state)
	if !ok {
		return Result{}, ErrNoMinigame
	}

	g := e.state.Clone()
	done, note := mg.Process(g, input)
	if done {
		reward := mg.Reward(g.MinigameState.Score)
		g.Apply(reward.Delta)
		g.MinigameState = nil
		g.CurrentScenarioID = scenario.Intro
		note = joinSentences(note, reward.Message)
		e.logger.Info("minigame finished", "game", mg.Key(), "day", g.Day)
	}
	g.Note = note
	e.state = g
	return Result{Message: note}, e.save(ctx)
}

var restorationFragments = []string{
	"old", "knowledge", "record", "library", "memory",
	"history", "tradition", "preservation", "care", "service",
}

const (
	restorationTargetLen = 3
	restorationBonus     = 100
)

type recordRestoration struct{}

func (*recordRestoration) Key() string  { return "record_restoration" }
func (*recordRestoration) Name() string { return "Record Restoration" }
func (*recordRestoration) Description() string {
	return "Piece the damaged fragments back into the original record. Type one fragment per line and press enter on an empty line when you are done."
}

func (*recordRestoration) Start(g *models.GameState, src rng.Source) {
	frags := append([]string(nil), restorationFragments...)
	for i := len(frags) - 1; i > 0; i-- {
		j := rng.Intn(src, i+1)
		frags[i], frags[j] = frags[j], frags[i]
	}
	g.MinigameState = &models.MinigameState{Target: strings.Join(frags[:restorationTargetLen], " ")}
}

func (*recordRestoration) Process(g *models.GameState, input string) (bool, string) {
	st := g.MinigameState
	if frag := strings.TrimSpace(input); frag != "" {
		st.Fragments = append(st.Fragments, frag)
		st.Score += 2 * utf8.RuneCountInString(frag)
		return false, fmt.Sprintf("Added %q.", frag)
	}
	if strings.Join(st.Fragments, " ") == st.Target {
		st.Score += restorationBonus
		return true, "Restoration succeeded! The record is whole again."
	}
	return true, "Restoration failed. The record does not match the original."
}

func (*recordRestoration) Reward(score int) Reward {
	switch {
	case score >= 51:
		return Reward{
			Delta: models.Delta{}.
				Stat(models.Dedication, 15).Stat(models.Memory, 10).
				Stat(models.Stability, 5).Stat(models.Service, 5),
			Message: "You are a master of record restoration! (+15 dedication, +10 memory, +5 stability, +5 service)",
		}
	case score >= 21:
		return Reward{
			Delta: models.Delta{}.
				Stat(models.Dedication, 10).Stat(models.Memory, 5).Stat(models.Stability, 3),
			Message: "A fine restoration! (+10 dedication, +5 memory, +3 stability)",
		}
	}
	return Reward{
		Delta:   models.Delta{}.Stat(models.Dedication, 5),
		Message: "Record restoration complete. (+5 dedication)",
	}
}

func (r *recordRestoration) View(g *models.GameState) MinigameView {
	v := MinigameView{Name: r.Name(), Description: r.Description(), TakesText: true}
	if st := g.MinigameState; st != nil {
		v.Target = st.Target
		v.Fragments = append([]string(nil), st.Fragments...)
		v.Score = st.Score
	}
	return v
}

// fixedScore is a minigame that ends on the first input with a set score.
type fixedScore struct {
	key, name, description string
	score                  int
	reward                 models.Delta
}

func (f fixedScore) Key() string         { return f.key }
func (f fixedScore) Name() string        { return f.name }
func (f fixedScore) Description() string { return f.description }

func (f fixedScore) Start(g *models.GameState, _ rng.Source) {
	g.MinigameState = &models.MinigameState{Score: f.score}
}

func (f fixedScore) Process(*models.GameState, string) (bool, string) {
	return true, ""
}

func (f fixedScore) Reward(int) Reward {
	return Reward{
		Delta:   f.reward,
		Message: withChanges(&models.GameState{}, fmt.Sprintf("You completed the %s.", f.name), f.reward),
	}
}

func (f fixedScore) View(g *models.GameState) MinigameView {
	v := MinigameView{Name: f.name, Description: f.description}
	if g.MinigameState != nil {
		v.Score = g.MinigameState.Score
	}
	return v
}
