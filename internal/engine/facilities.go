package engine

import (
	"fmt"

	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/scenario"
)

// MaxLibraryLevel caps upgrade_library.
const MaxLibraryLevel = 3

// buildReward rolls the one-off stat boost for finishing a room.
func buildReward(key string, src rng.Source) models.Delta {
	switch key {
	case models.ArchiveOfMemories:
		return models.Delta{}.Stat(models.Memory, rng.Spread(src, 10, 3))
	case models.RestorationRoom:
		return models.Delta{}.Stat(models.Dedication, rng.Spread(src, 10, 3))
	case models.CentralHall:
		return models.Delta{}.
			Stat(models.Service, rng.Spread(src, 20, 5)).
			Stat(models.Stability, rng.Spread(src, 20, 5))
	case models.SpecialArchive:
		return models.Delta{}.
			Stat(models.Memory, rng.Spread(src, 15, 5)).
			Stat(models.Tradition, rng.Spread(src, 10, 3))
	}
	return models.Delta{}
}

func debit(cost map[models.Resource]int) models.Delta {
	var d models.Delta
	for r, n := range cost {
		d = d.Resource(r, -n)
	}
	return d
}

func (e *Engine) build(g *models.GameState, key string) (string, error) {
	def := models.FacilityDefinition(key)
	if def == nil {
		return "", fmt.Errorf("%w: unknown record room %q", ErrInvalidParams, key)
	}
	room := g.RecordRooms[key]
	if room.Built {
		return "", refusal(fmt.Sprintf("The %s is already built.", def.Name))
	}
	if key == models.CommunityLounge {
		restoration := g.RecordRooms[models.RestorationRoom]
		if !restoration.Built || restoration.Durability <= 0 {
			return "", refusal("The community lounge needs a working restoration room first.")
		}
	}
	if !g.Affords(def.Cost) {
		return "", refusal(msgNoResources)
	}
	if err := spend(g); err != nil {
		return "", err
	}

	g.Apply(debit(def.Cost))
	room.Built = true
	room.Durability = models.MaxDurability
	g.RecordRooms[key] = room

	reward := buildReward(key, e.src)
	reward = g.Apply(reward)
	g.CurrentScenarioID = scenario.RecordRoomResult
	e.logger.Info("record room built", "room", key, "day", g.Day)
	return withChanges(g, fmt.Sprintf("The %s is complete!", def.Name), reward), nil
}

func (e *Engine) maintain(g *models.GameState, key string) (string, error) {
	room, ok := g.RecordRooms[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown record room %q", ErrInvalidParams, key)
	}
	if !room.Built {
		return "", refusal(fmt.Sprintf("The %s has not been built.", room.Name))
	}
	if !g.Affords(models.MaintenanceCost) {
		return "", refusal(msgNoResources)
	}
	if err := spend(g); err != nil {
		return "", err
	}

	g.Apply(debit(models.MaintenanceCost))
	room.Durability = models.MaxDurability
	g.RecordRooms[key] = room
	g.CurrentScenarioID = scenario.RecordRoomResult
	return fmt.Sprintf("Repairs on the %s are finished. Durability is back to %d.", room.Name, models.MaxDurability), nil
}

func (e *Engine) upgradeLibrary(g *models.GameState) (string, error) {
	if g.LibraryLevel >= MaxLibraryLevel {
		return "", refusal("The library cannot grow any further.")
	}
	cost := map[models.Resource]int{models.HistoricalArtifacts: scenario.UpgradeCost(g.LibraryLevel)}
	if !g.Affords(cost) {
		return "", refusal(msgNoResources)
	}
	if err := spend(g); err != nil {
		return "", err
	}

	g.Apply(debit(cost))
	g.LibraryLevel++
	g.CurrentScenarioID = scenario.RecordRoomResult
	e.logger.Info("library upgraded", "level", g.LibraryLevel)
	return fmt.Sprintf("The library expands to level %d. Gathering materials gets easier.", g.LibraryLevel), nil
}
