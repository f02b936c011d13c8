package engine

import (
	"fmt"
	"strings"

	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/scenario"
)

const (
	highStat          = 70
	lowStat           = 30
	upkeepPerHead     = 2
	upkeepPenalty     = 10
	exhaustionPerHead = 5
)

// tick runs the start-of-day sequence on g and returns the text to show:
// the day summary followed by the new scenario.
func (e *Engine) tick(g *models.GameState) string {
	if g.DailyEventTriggered {
		return ""
	}
	e.reseed(g)

	g.ActionPoints = models.BaseActionPoints
	g.MaxActionPoints = models.BaseActionPoints
	g.DailyActions = models.DailyActions{}
	g.DailyBonus = models.DailyBonus{}
	g.DailyEventTriggered = true
	g.MinigameState = nil
	g.PendingNewLibrarian = nil
	g.Dispute = nil
	g.Note = ""

	var summary []string
	summary = append(summary, fmt.Sprintf("Day %d begins.", g.Day))
	summary = append(summary, e.statEffects(g)...)
	summary = append(summary, skillYield(g)...)
	summary = append(summary, decay(g)...)

	g.Resources[models.OldBooks] -= upkeepPerHead * len(g.Librarians)
	if g.Resources[models.OldBooks] < 0 {
		g.Apply(models.Delta{}.Stat(models.Dedication, -upkeepPenalty))
		summary = append(summary, fmt.Sprintf("There are not enough old books and the librarians are struggling! (-%d dedication)", upkeepPenalty))
	}
	text := strings.Join(summary, " ")

	if id, over := terminal(g); over {
		g.CurrentScenarioID = id
		e.logger.Warn("library closed", "day", g.Day, "scenario", id)
		return text + "\n\n" + e.render(g)
	}

	id, err := e.rollEvent(g)
	if err != nil {
		e.logger.Error("daily event", "err", err)
		g.CurrentScenarioID = scenario.Intro
	}
	e.logger.Info("daily tick", "day", g.Day, "event", id, "points", g.ActionPoints)
	return text + "\n\n" + e.render(g)
}

// terminal reports the game-over scenario g has reached, checking stats in
// priority order before resource exhaustion.
func terminal(g *models.GameState) (string, bool) {
	for _, s := range models.Stats {
		if g.Stat(s) <= 0 {
			return scenario.GameOverPrefix + string(s), true
		}
	}
	if g.Resources[models.OldBooks] < -(exhaustionPerHead * len(g.Librarians)) {
		return scenario.GameOverPrefix + "resources", true
	}
	return "", false
}

// statEffects applies the threshold effects of each stat in order. Each
// check sees the results of the ones before it.
func (e *Engine) statEffects(g *models.GameState) []string {
	var out []string

	if g.Dedication >= highStat {
		g.DailyBonus.RestorationSuccess += 0.1
		out = append(out, "Your dedication makes gathering materials more likely to succeed.")
	}
	if g.Dedication < lowStat {
		d := models.Delta{}.Stat(models.Stability, -rng.Spread(e.src, 5, 2))
		d = g.Apply(d)
		out = append(out, withChanges(g, "A lack of dedication shakes the library's stability.", d))
	}

	if g.Stability >= highStat {
		g.MaxActionPoints++
		g.ActionPoints = g.MaxActionPoints
		out = append(out, "The library runs smoothly and you have more energy for work.")
	}
	if g.Stability < lowStat {
		g.MaxActionPoints = max(models.MinActionPoints, g.MaxActionPoints-1)
		g.ActionPoints = min(g.ActionPoints, g.MaxActionPoints)
		out = append(out, "Instability drains your capacity for work.")
	}

	if g.Tradition >= highStat {
		d := models.Delta{}.
			Stat(models.Memory, rng.Spread(e.src, 5, 2)).
			Stat(models.Service, rng.Spread(e.src, 5, 2))
		d = g.Apply(d)
		out = append(out, withChanges(g, "Respect for tradition strengthens memory and service.", d))
	}
	if g.Tradition < lowStat {
		d := models.Delta{}.
			Stat(models.Memory, -rng.Spread(e.src, 5, 2)).
			Stat(models.Service, -rng.Spread(e.src, 5, 2))
		d = g.Apply(d)
		out = append(out, withChanges(g, "Forgotten traditions blur memory and service.", d))
	}

	if g.Memory >= highStat {
		d := models.Delta{}.Stat(models.Dedication, rng.Spread(e.src, 5, 2))
		d = g.Apply(d)
		out = append(out, withChanges(g, "Vivid memories rekindle your dedication.", d))
		if rng.Chance(e.src, 0.2) {
			d := models.Delta{}.Resource(models.HistoricalArtifacts, rng.Spread(e.src, 1, 1))
			d = g.Apply(d)
			out = append(out, withChanges(g, "You remembered where a historical artifact was kept!", d))
		}
	}
	if g.Memory < lowStat {
		d := models.Delta{}.Stat(models.Dedication, -rng.Spread(e.src, 5, 2))
		d = g.Apply(d)
		out = append(out, withChanges(g, "Fading memory wears down your dedication.", d))
		if rng.Chance(e.src, 0.1) {
			d := models.Delta{ActionPoints: -rng.Spread(e.src, 1, 0)}
			d = g.Apply(d)
			out = append(out, withChanges(g, "Muddled work wasted some of your energy.", d))
		}
	}

	if g.Service >= highStat {
		var d models.Delta
		for _, l := range g.Librarians {
			d = d.WithTrust(l.ID, rng.Spread(e.src, 2, 1))
		}
		g.Apply(d)
		out = append(out, "Your devotion to service deepens the librarians' trust.")
	}
	if g.Service < lowStat {
		var d models.Delta
		for _, l := range g.Librarians {
			d = d.WithTrust(l.ID, -rng.Spread(e.src, 5, 2))
		}
		g.Apply(d)
		out = append(out, "Poor service erodes the librarians' trust.")
	}
	return out
}

var skillYields = map[string]models.Resource{
	models.SkillRecordRestoration: models.Records,
	models.SkillVisitorService:    models.Ink,
	models.SkillDecoding:          models.HistoricalArtifacts,
}

func skillYield(g *models.GameState) []string {
	var out []string
	for _, l := range g.Librarians {
		r, ok := skillYields[l.Skill]
		if !ok {
			continue
		}
		g.Resources[r]++
		out = append(out, fmt.Sprintf("Thanks to %s's %s you gained 1 %s.", l.Name, l.Skill, r.Label()))
	}
	return out
}

// decay wears every built room down by one point and unbuilds rooms that
// reach zero.
func decay(g *models.GameState) []string {
	var out []string
	for _, key := range g.FacilityKeys() {
		room := g.RecordRooms[key]
		if !room.Built {
			continue
		}
		room.Durability--
		if room.Durability <= 0 {
			room.Built = false
			out = append(out, fmt.Sprintf("The %s has fallen into disrepair and needs rebuilding!", room.Name))
		}
		g.RecordRooms[key] = room
	}
	return out
}
