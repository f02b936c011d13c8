package models

// Scenario ids the engine refers to directly.
const (
	ScenarioIntro = "intro"
)

// StarterLibrarians returns the roster a new library opens with.
func StarterLibrarians() []Librarian {
	return []Librarian{
		{ID: "anna", Name: "Anna", Personality: PersonalityMeticulous, Skill: SkillRecordRestoration, Trust: 70},
		{ID: "ben", Name: "Ben", Personality: PersonalityKind, Skill: SkillVisitorService, Trust: 60},
	}
}

// DefaultResources returns the opening stock.
func DefaultResources() map[Resource]int {
	return map[Resource]int{
		OldBooks:            10,
		Records:             10,
		Ink:                 5,
		HistoricalArtifacts: 0,
	}
}

// NewGameState returns a fresh day-one library stamped with today's date
// (YYYY-MM-DD).
func NewGameState(today string) *GameState {
	rooms := make(map[string]Facility, len(FacilityDefinitions))
	for _, def := range FacilityDefinitions {
		rooms[def.Key] = newFacility(def)
	}
	return &GameState{
		SaveVersion:       SaveVersion,
		Day:               1,
		Dedication:        DefaultStat,
		Stability:         DefaultStat,
		Tradition:         DefaultStat,
		Memory:            DefaultStat,
		Service:           DefaultStat,
		ActionPoints:      BaseActionPoints,
		MaxActionPoints:   BaseActionPoints,
		Resources:         DefaultResources(),
		Librarians:        StarterLibrarians(),
		MaxLibrarians:     MaxLibrarians,
		RecordRooms:       rooms,
		CurrentScenarioID: ScenarioIntro,
		LastPlayedDate:    today,
	}
}
