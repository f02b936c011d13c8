package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StorageKey is the key the game is saved under.
const StorageKey = "isfjLibraryGame"

// legacyResourceRelics is the pre-v2 name of HistoricalArtifacts.
const legacyResourceRelics Resource = "historical_relics"

// Encode serializes the state as JSON.
func Encode(g *GameState) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return data, nil
}

type legacyLibrarian struct {
	Trust       *int `json:"trust"`
	Loyalty     *int `json:"loyalty"`
	Cooperation *int `json:"cooperation"`
}

type legacyFields struct {
	Archives   map[string]Facility `json:"archives"`
	Librarians []legacyLibrarian   `json:"librarians"`
}

// Decode reads a saved record of any earlier shape. Fields missing from the
// record keep the defaults of a new game started today; legacy field names
// are carried over to their current names.
func Decode(data []byte, today string) (*GameState, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}

	g := NewGameState(today)
	if _, ok := raw["resources"]; ok {
		g.Resources = nil
	}
	if _, ok := raw["librarians"]; ok {
		g.Librarians = nil
	}
	_, hasRooms := raw["recordRooms"]
	if hasRooms {
		g.RecordRooms = nil
	}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}

	var legacy legacyFields
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy save fields: %w", err)
	}
	if !hasRooms && legacy.Archives != nil {
		g.RecordRooms = legacy.Archives
	}
	migrate(g, legacy)
	return g, nil
}

func migrate(g *GameState, legacy legacyFields) {
	if g.Resources == nil {
		g.Resources = make(map[Resource]int)
	}
	if n, ok := g.Resources[legacyResourceRelics]; ok {
		g.Resources[HistoricalArtifacts] += n
		delete(g.Resources, legacyResourceRelics)
	}
	for _, r := range Resources {
		if _, ok := g.Resources[r]; !ok {
			g.Resources[r] = 0
		}
	}

	for i := range g.Librarians {
		if i >= len(legacy.Librarians) || legacy.Librarians[i].Trust != nil {
			continue
		}
		switch {
		case legacy.Librarians[i].Loyalty != nil:
			g.Librarians[i].Trust = *legacy.Librarians[i].Loyalty
		case legacy.Librarians[i].Cooperation != nil:
			g.Librarians[i].Trust = *legacy.Librarians[i].Cooperation
		}
	}
	if len(g.Librarians) == 0 {
		g.Librarians = StarterLibrarians()
	}

	rooms := make(map[string]Facility, len(FacilityDefinitions))
	for _, def := range FacilityDefinitions {
		f, ok := g.RecordRooms[def.Key]
		if !ok {
			f = newFacility(def)
		}
		f.Name = def.Name
		f.Description = def.Description
		f.EffectDescription = def.EffectDescription
		rooms[def.Key] = f
	}
	g.RecordRooms = rooms

	if g.Day < 1 {
		g.Day = 1
	}
	if g.MaxLibrarians <= 0 {
		g.MaxLibrarians = MaxLibrarians
	}
	if g.MaxActionPoints < MinActionPoints {
		g.MaxActionPoints = BaseActionPoints
	}
	if !strings.HasPrefix(g.CurrentScenarioID, "minigame_") {
		g.MinigameState = nil
	}
	if g.CurrentScenarioID == "" ||
		(strings.HasPrefix(g.CurrentScenarioID, "minigame_") && g.MinigameState == nil) {
		g.CurrentScenarioID = ScenarioIntro
	}
	g.SaveVersion = SaveVersion
}
