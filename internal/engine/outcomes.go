package engine

import (
	"fmt"
	"strings"

	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/weighted"
)

// situation is what outcome conditions look at. Librarian is nil for
// outcomes without a subject.
type situation struct {
	State     *models.GameState
	Librarian *models.Librarian
}

// outcome rolls its own amounts from src and describes the result.
type outcome func(s situation, src rng.Source) (models.Delta, string)

type outcomeTable []weighted.Entry[situation, outcome]

func (e *Engine) resolve(table outcomeTable, s situation) (models.Delta, string) {
	fn, ok := weighted.Choose(e.src, table, s)
	if !ok {
		return models.Delta{}, ""
	}
	return fn(s, e.src)
}

var organizeOutcomes = outcomeTable{
	{
		Weight: 30,
		When:   func(s situation) bool { return s.State.Resources[models.OldBooks] < 20 },
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.Resource(models.OldBooks, rng.Spread(src, 10, 5)),
				"While sorting the stacks you found old books!"
		},
	},
	{
		Weight: 25,
		When:   func(s situation) bool { return s.State.Resources[models.Records] < 20 },
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.Resource(models.Records, rng.Spread(src, 10, 5)),
				"While sorting the stacks you found damaged records worth saving!"
		},
	},
	{
		Weight: 20,
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Memory, rng.Spread(src, 5, 2)).
				Stat(models.Tradition, rng.Spread(src, 5, 2)),
				"Sorting the stacks turned up forgotten memories and customs."
		},
	},
	{
		Weight: 25,
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			d := models.Delta{ActionPoints: -rng.Spread(src, 2, 1)}
			return d.
				Stat(models.Stability, -rng.Spread(src, 5, 2)).
				Stat(models.Memory, -rng.Spread(src, 5, 2)),
				"You got lost in the sorting and wore yourself out."
		},
	},
	{
		Weight: 15,
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Dedication, -rng.Spread(src, 5, 2)).
				Stat(models.Service, -rng.Spread(src, 5, 2)),
				"The sorting ran into unexpected trouble."
		},
	},
}

var chatOutcomes = outcomeTable{
	{
		Weight: 40,
		When:   func(s situation) bool { return s.Librarian.Trust < 60 },
		Value: func(s situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				WithTrust(s.Librarian.ID, rng.Spread(src, 10, 5)).
				Stat(models.Dedication, rng.Spread(src, 5, 2)).
				Stat(models.Service, rng.Spread(src, 5, 2)),
				fmt.Sprintf("A long, honest talk with %s built trust between you.", s.Librarian.Name)
		},
	},
	{
		Weight: 20,
		When:   func(s situation) bool { return s.Librarian.Personality == models.PersonalityKind },
		Value: func(s situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Service, rng.Spread(src, 10, 3)).
				Stat(models.Dedication, rng.Spread(src, 5, 2)),
				fmt.Sprintf("A cheerful chat with %s lifted your spirits.", s.Librarian.Name)
		},
	},
	{
		Weight: 15,
		When:   func(s situation) bool { return s.Librarian.Skill == models.SkillRecordRestoration },
		Value: func(s situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.Resource(models.Records, rng.Spread(src, 5, 2)),
				fmt.Sprintf("%s shared restoration tips and you saved a few more records.", s.Librarian.Name)
		},
	},
	{
		Weight: 25,
		Value: func(s situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Stability, rng.Spread(src, 5, 2)).
				Stat(models.Memory, rng.Spread(src, 3, 1)),
				fmt.Sprintf("Small talk with %s made the day feel steadier.", s.Librarian.Name)
		},
	},
	{
		Weight: 20,
		When: func(s situation) bool {
			return s.State.Stability < 40 || s.Librarian.Trust < 40
		},
		Value: func(s situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				WithTrust(s.Librarian.ID, -rng.Spread(src, 10, 3)).
				Stat(models.Stability, -rng.Spread(src, 5, 2)).
				Stat(models.Dedication, -rng.Spread(src, 5, 2)),
				fmt.Sprintf("A misunderstanding with %s soured the conversation.", s.Librarian.Name)
		},
	},
	{
		Weight: 15,
		When:   func(s situation) bool { return s.State.Stability < 30 },
		Value: func(s situation, src rng.Source) (models.Delta, string) {
			d := models.Delta{ActionPoints: -rng.Spread(src, 1, 0)}
			return d.Stat(models.Memory, -rng.Spread(src, 5, 2)),
				fmt.Sprintf("The talk with %s dragged on and led nowhere.", s.Librarian.Name)
		},
	},
}

func firstDistrusting(g *models.GameState) *models.Librarian {
	for i := range g.Librarians {
		if g.Librarians[i].Trust < 50 {
			return &g.Librarians[i]
		}
	}
	return nil
}

var meetingOutcomes = outcomeTable{
	{
		Weight: 40,
		When:   func(s situation) bool { return s.State.Stability < 40 },
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Stability, -rng.Spread(src, 10, 4)).
				Stat(models.Tradition, -rng.Spread(src, 5, 2)).
				Stat(models.Dedication, -rng.Spread(src, 5, 2)),
				"Complaints erupted as soon as the meeting began. The mood is tense."
		},
	},
	{
		Weight: 30,
		When:   func(s situation) bool { return s.State.Service > 70 && s.State.Dedication > 60 },
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Stability, rng.Spread(src, 15, 5)).
				Stat(models.Tradition, rng.Spread(src, 10, 3)).
				Stat(models.Dedication, rng.Spread(src, 10, 3)),
				"Buoyed by strong service and dedication, the meeting was truly constructive!"
		},
	},
	{
		Weight: 25,
		When: func(s situation) bool {
			return s.State.Resources[models.OldBooks] < len(s.State.Librarians)*4
		},
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Memory, rng.Spread(src, 10, 3)).
				Stat(models.Stability, rng.Spread(src, 5, 2)),
				"You discussed the shortage of old books and everyone agreed to manage materials carefully."
		},
	},
	{
		Weight: 20,
		When:   func(s situation) bool { return firstDistrusting(s.State) != nil },
		Value: func(s situation, src rng.Source) (models.Delta, string) {
			l := firstDistrusting(s.State)
			return models.Delta{}.
				WithTrust(l.ID, rng.Spread(src, 10, 4)).
				Stat(models.Dedication, rng.Spread(src, 5, 2)).
				Stat(models.Stability, rng.Spread(src, 5, 2)),
				fmt.Sprintf("%s carefully raised a grievance. You listened and promised to act.", l.Name)
		},
	},
	{
		Weight: 20,
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Stability, rng.Spread(src, 5, 2)).
				Stat(models.Tradition, rng.Spread(src, 3, 1)),
				"An ordinary meeting, but gathering everyone together still mattered."
		},
	},
	{
		Weight: 25,
		When: func(s situation) bool {
			return s.State.Tradition < 40 || s.State.Dedication < 40
		},
		Value: func(_ situation, src rng.Source) (models.Delta, string) {
			return models.Delta{}.
				Stat(models.Stability, -rng.Spread(src, 5, 2)).
				Stat(models.Tradition, -rng.Spread(src, 5, 2)).
				Stat(models.Dedication, -rng.Spread(src, 5, 2)),
				"The meeting ran long and only confirmed how far apart everyone is."
		},
	},
}

func (e *Engine) organizeArchive(g *models.GameState) (string, error) {
	if err := spend(g); err != nil {
		return "", err
	}
	d, text := e.resolve(organizeOutcomes, situation{State: g})
	d = g.Apply(d)
	g.DailyActions.Organized = true
	return withChanges(g, text, d), nil
}

func (e *Engine) chatWithLibrarian(g *models.GameState) (string, error) {
	if g.DailyActions.Chatted {
		return "", refusal("You have already had a good talk with your colleagues today.")
	}
	if len(g.Librarians) == 0 {
		return "", refusal("There is no one to talk to.")
	}
	if err := spend(g); err != nil {
		return "", err
	}
	l := g.Librarians[rng.Intn(e.src, len(g.Librarians))]
	d, text := e.resolve(chatOutcomes, situation{State: g, Librarian: &l})
	d = g.Apply(d)
	g.DailyActions.Chatted = true
	return withChanges(g, text, d), nil
}

func (e *Engine) holdMeeting(g *models.GameState) (string, error) {
	if err := spend(g); err != nil {
		return "", err
	}
	d, text := e.resolve(meetingOutcomes, situation{State: g})
	d = g.Apply(d)
	g.DailyActions.Met = true
	return withChanges(g, text, d), nil
}

// withChanges appends a summary such as "(+5 memory, -3 stability)".
func withChanges(g *models.GameState, text string, d models.Delta) string {
	var parts []string
	add := func(n int, label string) {
		if n != 0 {
			parts = append(parts, fmt.Sprintf("%+d %s", n, label))
		}
	}
	for _, s := range models.Stats {
		add(d.Stats[s], s.Label())
	}
	for _, r := range models.Resources {
		add(d.Resources[r], r.Label())
	}
	add(d.ActionPoints, "work points")
	for _, l := range g.Librarians {
		add(d.Trust[l.ID], l.Name+"'s trust")
	}
	if len(parts) == 0 {
		return text
	}
	return fmt.Sprintf("%s (%s)", text, strings.Join(parts, ", "))
}
