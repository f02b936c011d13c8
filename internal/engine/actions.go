package engine

import (
	"fmt"

	"github.com/tatianab/library-of-memories/internal/action"
	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/scenario"
)

// apply mutates g according to a. A refusal error means g must be dropped.
func (e *Engine) apply(g *models.GameState, a action.Action) (string, error) {
	if a.Kind.CostsPoint() && g.ActionPoints <= 0 {
		return "", refusal(msgNoPoints)
	}

	switch a.Kind {
	case action.OrganizeArchive:
		return e.organizeArchive(g)
	case action.ChatWithLibrarian:
		return e.chatWithLibrarian(g)
	case action.HoldMeeting:
		return e.holdMeeting(g)

	case action.ShowMaterialCollection:
		return goTo(g, scenario.MaterialCollection)
	case action.ShowRecordRoomManagement:
		return goTo(g, scenario.RecordRoomManagement)
	case action.ShowQuietRest:
		return goTo(g, scenario.QuietRest)
	case action.ReturnToIntro:
		return goTo(g, scenario.Intro)

	case action.CollectOldBooks:
		return e.collect(g, models.OldBooks, "old books")
	case action.RestoreRecords:
		return e.collect(g, models.Records, "records")
	case action.SecureInk:
		return e.collect(g, models.Ink, "ink")

	case action.BuildArchiveOfMemories, action.BuildRestorationRoom, action.BuildCentralHall,
		action.BuildSpecialArchive, action.BuildCommunityLounge:
		key, _ := a.Kind.BuildTarget()
		return e.build(g, key)
	case action.MaintainRecordRoom:
		return e.maintain(g, a.Params.Room)
	case action.UpgradeLibrary:
		return e.upgradeLibrary(g)

	case action.ViewOldAlbums:
		return e.viewOldAlbums(g)
	case action.FindLostItems:
		return e.findLostItems(g)

	case action.HandleLibrarianDispute:
		return e.handleDispute(g, a.Params)
	case action.MediateLibrarianDispute:
		return e.mediateDispute(g)
	case action.IgnoreEvent:
		return e.ignoreDispute(g)

	case action.RestoreTradition:
		return e.respond(g, models.Delta{}.
			Stat(models.Tradition, rng.Spread(e.src, 10, 3)).
			Stat(models.Memory, rng.Spread(e.src, 5, 2)),
			"You restored the old tradition. The library's tradition and memory grow.")
	case action.DeclineTraditionRestoration:
		return e.respond(g, models.Delta{}.
			Stat(models.Tradition, -rng.Spread(e.src, 10, 3)).
			Stat(models.Stability, -rng.Spread(e.src, 5, 2)),
			"You put the tradition off. The library's tradition and stability fade.")
	case action.ImproveService:
		return e.respond(g, models.Delta{}.
			Stat(models.Service, rng.Spread(e.src, 10, 3)).
			Stat(models.Dedication, rng.Spread(e.src, 5, 2)),
			"You looked for ways to serve visitors better. Service and your dedication rise.")
	case action.MaintainCurrentService:
		return e.respond(g, models.Delta{}.
			Stat(models.Service, -rng.Spread(e.src, 10, 3)).
			Stat(models.Memory, -rng.Spread(e.src, 5, 2)),
			"You kept things as they were. Visitor satisfaction and the library's memory slip.")

	case action.WelcomeNewLibrarian:
		return e.welcomeLibrarian(g)
	case action.ObserveLibrarian:
		return e.observeLibrarian(g)
	case action.RejectLibrarian:
		return e.rejectLibrarian(g)

	case action.PlayMinigame:
		return e.startMinigame(g)
	case action.ManualNextDay:
		return e.manualNextDay(g)
	}
	return "", fmt.Errorf("%w: %v", action.ErrUnknown, a.Kind)
}

func goTo(g *models.GameState, id string) (string, error) {
	g.CurrentScenarioID = id
	return "", nil
}

// respond settles a yes/no event choice and returns to the intro.
func (e *Engine) respond(g *models.GameState, d models.Delta, text string) (string, error) {
	if err := spend(g); err != nil {
		return "", err
	}
	d = g.Apply(d)
	g.CurrentScenarioID = scenario.Intro
	return withChanges(g, text, d), nil
}

func (e *Engine) collect(g *models.GameState, r models.Resource, what string) (string, error) {
	if err := spend(g); err != nil {
		return "", err
	}
	g.CurrentScenarioID = scenario.MaterialResult

	chance := min(0.95, 0.6+0.1*float64(g.LibraryLevel)+g.DailyBonus.RestorationSuccess)
	if !rng.Chance(e.src, chance) {
		return fmt.Sprintf("You could not find any %s this time.", what), nil
	}
	d := models.Delta{}.Resource(r, rng.Spread(e.src, 5, 2))
	d = g.Apply(d)
	return withChanges(g, fmt.Sprintf("You gathered %s.", what), d), nil
}

func (e *Engine) viewOldAlbums(g *models.GameState) (string, error) {
	if err := spend(g); err != nil {
		return "", err
	}
	g.CurrentScenarioID = scenario.QuietRest

	var d models.Delta
	var text string
	switch r := e.src.Float64(); {
	case r < 0.1:
		d = models.Delta{}.
			Resource(models.OldBooks, rng.Spread(e.src, 30, 10)).
			Resource(models.Records, rng.Spread(e.src, 20, 5)).
			Resource(models.Ink, rng.Spread(e.src, 15, 5))
		text = "A treasure trove hidden in the old albums!"
	case r < 0.4:
		d = models.Delta{}.Stat(models.Memory, rng.Spread(e.src, 10, 5))
		text = "Looking through the old albums brings memories back."
	case r < 0.7:
		d = models.Delta{}.Stat(models.Memory, -rng.Spread(e.src, 5, 2))
		text = "The album is damaged and some memories blur."
	default:
		return "You looked through the old albums but found nothing special.", nil
	}
	d = g.Apply(d)
	return withChanges(g, text, d), nil
}

func (e *Engine) findLostItems(g *models.GameState) (string, error) {
	if err := spend(g); err != nil {
		return "", err
	}
	g.CurrentScenarioID = scenario.QuietRest

	var d models.Delta
	var text string
	switch r := e.src.Float64(); {
	case r < 0.2:
		d = models.Delta{}.Resource(models.HistoricalArtifacts, rng.Spread(e.src, 3, 1))
		text = "A great find! You uncovered historical artifacts."
	case r < 0.6:
		d = models.Delta{}.Resource(models.Records, rng.Spread(e.src, 10, 5))
		text = "You found some misplaced records."
	default:
		return "Sadly, you found nothing.", nil
	}
	d = g.Apply(d)
	return withChanges(g, text, d), nil
}

func (e *Engine) handleDispute(g *models.GameState, p action.Params) (string, error) {
	if g.Dispute == nil {
		return "", refusal(msgNoDispute)
	}
	pair := *g.Dispute
	if !(p.First == pair.First && p.Second == pair.Second) && !(p.First == pair.Second && p.Second == pair.First) {
		return "", fmt.Errorf("%w: %q and %q are not in the dispute", ErrInvalidParams, p.First, p.Second)
	}
	first, second := g.Librarian(p.First), g.Librarian(p.Second)
	if first == nil || second == nil {
		return "", fmt.Errorf("%w: unknown librarian", ErrInvalidParams)
	}
	if err := spend(g); err != nil {
		return "", err
	}

	trustGain := rng.Spread(e.src, 10, 3)
	trustLoss := rng.Spread(e.src, 5, 2)
	d := models.Delta{}.
		WithTrust(first.ID, trustGain).
		WithTrust(second.ID, -trustLoss).
		Stat(models.Dedication, rng.Spread(e.src, 5, 2)).
		Stat(models.Service, rng.Spread(e.src, 5, 2))
	text := fmt.Sprintf("You heard %s out first and their trust in you grew. %s feels a little overlooked.",
		first.Name, second.Name)

	d = g.Apply(d)
	g.Dispute = nil
	g.CurrentScenarioID = scenario.DisputeResult
	return withChanges(g, text, d), nil
}

func (e *Engine) mediateDispute(g *models.GameState) (string, error) {
	if g.Dispute == nil {
		return "", refusal(msgNoDispute)
	}
	if err := spend(g); err != nil {
		return "", err
	}
	a, b := librarianName(g, g.Dispute.First), librarianName(g, g.Dispute.Second)
	d := models.Delta{}.
		Stat(models.Stability, rng.Spread(e.src, 10, 3)).
		Stat(models.Tradition, rng.Spread(e.src, 5, 2)).
		Stat(models.Service, rng.Spread(e.src, 5, 2))
	text := fmt.Sprintf("Your careful mediation brought %s and %s to an understanding. The library feels steadier.", a, b)

	d = g.Apply(d)
	g.Dispute = nil
	g.CurrentScenarioID = scenario.DisputeResult
	return withChanges(g, text, d), nil
}

func (e *Engine) ignoreDispute(g *models.GameState) (string, error) {
	if err := spend(g); err != nil {
		return "", err
	}
	d := models.Delta{}.
		Stat(models.Stability, -rng.Spread(e.src, 10, 3)).
		Stat(models.Tradition, -rng.Spread(e.src, 5, 2))
	for _, l := range g.Librarians {
		d = d.WithTrust(l.ID, -5)
	}
	d = g.Apply(d)
	g.Dispute = nil
	g.CurrentScenarioID = scenario.DisputeResult
	return withChanges(g, "You let the disagreement be. Grumbling spreads and the mood sinks.", d), nil
}

func (e *Engine) welcomeLibrarian(g *models.GameState) (string, error) {
	if g.PendingNewLibrarian == nil || len(g.Librarians) >= g.MaxLibrarians {
		return "", refusal("You cannot take on a new librarian.")
	}
	if err := spend(g); err != nil {
		return "", err
	}
	recruit := *g.PendingNewLibrarian
	d := models.Delta{}.
		Stat(models.Dedication, rng.Spread(e.src, 10, 3)).
		Stat(models.Stability, rng.Spread(e.src, 5, 2)).
		Stat(models.Service, rng.Spread(e.src, 5, 2))

	g.Librarians = append(g.Librarians, recruit)
	g.PendingNewLibrarian = nil
	d = g.Apply(d)
	g.CurrentScenarioID = scenario.Intro
	return withChanges(g, fmt.Sprintf("%s joins the library.", recruit.Name), d), nil
}

func (e *Engine) observeLibrarian(g *models.GameState) (string, error) {
	if g.PendingNewLibrarian == nil {
		return "", refusal(msgNoRecruit)
	}
	if err := spend(g); err != nil {
		return "", err
	}
	var d models.Delta
	var text string
	if rng.Chance(e.src, 0.7) {
		d = models.Delta{}.Stat(models.Memory, rng.Spread(e.src, 5, 2))
		text = "Watching the newcomer, you noticed something interesting."
	} else {
		d = models.Delta{}.Stat(models.Stability, -rng.Spread(e.src, 5, 2))
		text = "Your hesitation left a poor impression around the library."
	}
	d = g.Apply(d)
	g.PendingNewLibrarian = nil
	g.CurrentScenarioID = scenario.Intro
	return withChanges(g, text, d), nil
}

func (e *Engine) rejectLibrarian(g *models.GameState) (string, error) {
	if g.PendingNewLibrarian == nil {
		return "", refusal(msgNoRecruit)
	}
	if err := spend(g); err != nil {
		return "", err
	}
	d := models.Delta{}.
		Stat(models.Dedication, -rng.Spread(e.src, 10, 3)).
		Stat(models.Stability, -rng.Spread(e.src, 5, 2)).
		Stat(models.Service, -rng.Spread(e.src, 5, 2))
	d = g.Apply(d)
	g.PendingNewLibrarian = nil
	g.CurrentScenarioID = scenario.Intro
	return withChanges(g, "You turned the newcomer away.", d), nil
}

func (e *Engine) manualNextDay(g *models.GameState) (string, error) {
	if g.ManualDayAdvances >= models.MaxManualAdvances {
		return "", refusal("You cannot move to the next day by hand any more today. Try again tomorrow.")
	}
	g.ManualDayAdvances++
	g.Day++
	g.LastPlayedDate = e.today()
	g.DailyEventTriggered = false
	return e.tick(g), nil
}

const (
	msgNoDispute = "There is no disagreement to settle."
	msgNoRecruit = "No one is waiting to join."
)

func librarianName(g *models.GameState, id string) string {
	if l := g.Librarian(id); l != nil {
		return l.Name
	}
	return id
}
