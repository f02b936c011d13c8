package engine

import (
	"fmt"

	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/weighted"
)

// dailyEvent sets up its scenario. trigger may be nil for events that only
// offer choices; otherwise it returns the note the scenario shows.
type dailyEvent struct {
	ID      string
	trigger func(e *Engine, g *models.GameState) string
}

var dailyEvents = []weighted.Entry[*models.GameState, dailyEvent]{
	{Weight: 10, Value: dailyEvent{ID: "daily_event_visitor_complaint", trigger: visitorComplaint}},
	{Weight: 10, Value: dailyEvent{ID: "daily_event_bookworm_infestation", trigger: bookwormInfestation}},
	{Weight: 7, Value: dailyEvent{ID: "daily_event_lost_artifact", trigger: lostArtifact}},
	{
		Weight: 15,
		When:   func(g *models.GameState) bool { return len(g.Librarians) >= 2 },
		Value:  dailyEvent{ID: "daily_event_librarian_dispute", trigger: librarianDispute},
	},
	{
		Weight: 10,
		When: func(g *models.GameState) bool {
			return g.RecordRooms[models.CentralHall].Built && len(g.Librarians) < g.MaxLibrarians
		},
		Value: dailyEvent{ID: "daily_event_new_librarian", trigger: newLibrarian},
	},
	{Weight: 10, Value: dailyEvent{ID: "daily_event_historical_discovery", trigger: historicalDiscovery}},
	{Weight: 15, Value: dailyEvent{ID: "daily_event_forgotten_tradition"}},
	{
		Weight: 12,
		When:   func(g *models.GameState) bool { return g.Memory < 50 },
		Value:  dailyEvent{ID: "daily_event_memory_loss", trigger: memoryLoss},
	},
	{Weight: 15, Value: dailyEvent{ID: "daily_event_service_crisis"}},
}

func visitorComplaint(e *Engine, g *models.GameState) string {
	d := models.Delta{}.Stat(models.Service, -rng.Spread(e.src, 10, 5))
	d = g.Apply(d)
	return withChanges(g, "A visitor's complaint lowers satisfaction with the library.", d)
}

func bookwormInfestation(e *Engine, g *models.GameState) string {
	d := models.Delta{}.Resource(models.OldBooks, -rng.Spread(e.src, 10, 5))
	d = g.Apply(d)
	return withChanges(g, "Bookworms got into the stacks and damaged some old books.", d)
}

func lostArtifact(e *Engine, g *models.GameState) string {
	d := models.Delta{}.Resource(models.HistoricalArtifacts, -rng.Spread(e.src, 1, 1))
	d = g.Apply(d)
	return withChanges(g, "Some historical artifacts have gone missing.", d)
}

func historicalDiscovery(e *Engine, g *models.GameState) string {
	d := models.Delta{}.
		Resource(models.HistoricalArtifacts, rng.Spread(e.src, 1, 1)).
		Stat(models.Memory, rng.Spread(e.src, 5, 2))
	d = g.Apply(d)
	return withChanges(g, "A new historical artifact turned up in the stacks!", d)
}

func memoryLoss(e *Engine, g *models.GameState) string {
	d := models.Delta{}.Stat(models.Memory, -rng.Spread(e.src, 10, 5))
	d = g.Apply(d)
	return withChanges(g, "Part of the library's memory has faded.", d)
}

// librarianDispute picks two different librarians to disagree.
func librarianDispute(e *Engine, g *models.GameState) string {
	n := len(g.Librarians)
	i := rng.Intn(e.src, n)
	j := rng.Intn(e.src, n-1)
	if j >= i {
		j++
	}
	g.Dispute = &models.Dispute{First: g.Librarians[i].ID, Second: g.Librarians[j].ID}
	return ""
}

var (
	recruitNames         = []string{"Clara", "Daniel", "Eva", "Fred", "Grace"}
	recruitPersonalities = []string{models.PersonalityMeticulous, models.PersonalityKind, models.PersonalityCalm, models.PersonalityWise}
	recruitSkills        = []string{models.SkillRecordRestoration, models.SkillVisitorService, models.SkillDecoding}
)

func newLibrarian(e *Engine, g *models.GameState) string {
	l := models.Librarian{
		ID:          e.newID(),
		Name:        recruitNames[rng.Intn(e.src, len(recruitNames))],
		Personality: recruitPersonalities[rng.Intn(e.src, len(recruitPersonalities))],
		Skill:       recruitSkills[rng.Intn(e.src, len(recruitSkills))],
		Trust:       models.DefaultStat,
	}
	g.PendingNewLibrarian = &l
	e.logger.Debug("recruit waiting", "name", l.Name, "skill", l.Skill)
	return ""
}

func (e *Engine) rollEvent(g *models.GameState) (string, error) {
	ev, ok := weighted.Choose(e.src, dailyEvents, g)
	if !ok {
		return "", fmt.Errorf("no daily event could be chosen")
	}
	g.CurrentScenarioID = ev.ID
	g.Note = ""
	if ev.trigger != nil {
		g.Note = ev.trigger(e, g)
	}
	return ev.ID, nil
}
