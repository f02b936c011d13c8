package models

import "sort"

// SaveVersion is the shape of the save record written by this build.
const SaveVersion = 2

// Game-wide constants.
const (
	BaseActionPoints  = 10
	MinActionPoints   = 5
	MaxLibrarians     = 5
	MaxManualAdvances = 5
	MaxDurability     = 100
	StatMax           = 100
	DefaultStat       = 50
)

// Stat names one of the five core stats.
type Stat string

const (
	Dedication Stat = "dedication"
	Stability  Stat = "stability"
	Tradition  Stat = "tradition"
	Memory     Stat = "memory"
	Service    Stat = "service"
)

// Stats lists the core stats in terminal-check priority order.
var Stats = []Stat{Dedication, Stability, Tradition, Memory, Service}

var statLabels = map[Stat]string{
	Dedication: "dedication",
	Stability:  "stability",
	Tradition:  "tradition",
	Memory:     "memory",
	Service:    "service",
}

func (s Stat) Label() string { return statLabels[s] }

// Resource names a countable library resource.
type Resource string

const (
	OldBooks            Resource = "old_books"
	Records             Resource = "records"
	Ink                 Resource = "ink"
	HistoricalArtifacts Resource = "historical_artifacts"
)

// Resources lists resources in display order.
var Resources = []Resource{OldBooks, Records, Ink, HistoricalArtifacts}

var resourceLabels = map[Resource]string{
	OldBooks:            "old books",
	Records:             "records",
	Ink:                 "ink",
	HistoricalArtifacts: "historical artifacts",
}

func (r Resource) Label() string {
	if l, ok := resourceLabels[r]; ok {
		return l
	}
	return string(r)
}

// Librarian is a member of the roster.
type Librarian struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Skill       string `json:"skill"`
	Trust       int    `json:"trust"`
}

// Personalities and skills that outcome tables react to.
const (
	PersonalityMeticulous = "meticulous"
	PersonalityKind       = "kind"
	PersonalityCalm       = "calm"
	PersonalityWise       = "wise"

	SkillRecordRestoration = "record restoration"
	SkillVisitorService    = "visitor service"
	SkillDecoding          = "manuscript decoding"
)

// Facility is a record room. Built rooms decay one durability point a day.
type Facility struct {
	Built             bool   `json:"built"`
	Durability        int    `json:"durability"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	EffectDescription string `json:"effect_description"`
}

// DailyBonus holds boosts that last until the next daily tick.
type DailyBonus struct {
	RestorationSuccess float64 `json:"restorationSuccess"`
}

// DailyActions tracks once-per-day actions.
type DailyActions struct {
	Organized      bool `json:"organized"`
	Chatted        bool `json:"chatted"`
	Met            bool `json:"met"`
	MinigamePlayed bool `json:"minigamePlayed"`
}

// MinigameState is scratch state for the active minigame.
type MinigameState struct {
	Index     int      `json:"index"`
	Score     int      `json:"score"`
	Target    string   `json:"target,omitempty"`
	Fragments []string `json:"fragments,omitempty"`
}

// Dispute names the two librarians in an open disagreement.
type Dispute struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// GameState is the whole persisted game.
type GameState struct {
	SaveVersion int `json:"saveVersion"`
	Day         int `json:"day"`

	Dedication int `json:"dedication"`
	Stability  int `json:"stability"`
	Tradition  int `json:"tradition"`
	Memory     int `json:"memory"`
	Service    int `json:"service"`

	ActionPoints    int `json:"actionPoints"`
	MaxActionPoints int `json:"maxActionPoints"`

	Resources     map[Resource]int    `json:"resources"`
	Librarians    []Librarian         `json:"librarians"`
	MaxLibrarians int                 `json:"maxLibrarians"`
	RecordRooms   map[string]Facility `json:"recordRooms"`

	CurrentScenarioID   string       `json:"currentScenarioId"`
	LastPlayedDate      string       `json:"lastPlayedDate"`
	ManualDayAdvances   int          `json:"manualDayAdvances"`
	DailyEventTriggered bool         `json:"dailyEventTriggered"`
	DailyBonus          DailyBonus   `json:"dailyBonus"`
	DailyActions        DailyActions `json:"dailyActions"`

	LibraryLevel        int            `json:"libraryLevel"`
	MinigameState       *MinigameState `json:"minigameState,omitempty"`
	PendingNewLibrarian *Librarian     `json:"pendingNewLibrarian,omitempty"`
	Dispute             *Dispute       `json:"dispute,omitempty"`
	Note                string         `json:"note,omitempty"`
}

// Stat returns the value of a core stat.
func (g *GameState) Stat(s Stat) int {
	if p := g.statRef(s); p != nil {
		return *p
	}
	return 0
}

// SetStat overwrites a core stat without clamping.
func (g *GameState) SetStat(s Stat, v int) {
	if p := g.statRef(s); p != nil {
		*p = v
	}
}

func (g *GameState) statRef(s Stat) *int {
	switch s {
	case Dedication:
		return &g.Dedication
	case Stability:
		return &g.Stability
	case Tradition:
		return &g.Tradition
	case Memory:
		return &g.Memory
	case Service:
		return &g.Service
	}
	return nil
}

// Librarian returns the roster entry with id, or nil.
func (g *GameState) Librarian(id string) *Librarian {
	for i := range g.Librarians {
		if g.Librarians[i].ID == id {
			return &g.Librarians[i]
		}
	}
	return nil
}

// Affords reports whether every resource in cost is covered.
func (g *GameState) Affords(cost map[Resource]int) bool {
	for r, n := range cost {
		if g.Resources[r] < n {
			return false
		}
	}
	return true
}

// FacilityKeys returns record room keys in definition order.
func (g *GameState) FacilityKeys() []string {
	keys := make([]string, 0, len(g.RecordRooms))
	for _, def := range FacilityDefinitions {
		if _, ok := g.RecordRooms[def.Key]; ok {
			keys = append(keys, def.Key)
		}
	}
	var extra []string
	for k := range g.RecordRooms {
		if FacilityDefinition(k) == nil {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Clone returns a deep copy.
func (g *GameState) Clone() *GameState {
	c := *g
	c.Resources = make(map[Resource]int, len(g.Resources))
	for k, v := range g.Resources {
		c.Resources[k] = v
	}
	c.Librarians = append([]Librarian(nil), g.Librarians...)
	c.RecordRooms = make(map[string]Facility, len(g.RecordRooms))
	for k, v := range g.RecordRooms {
		c.RecordRooms[k] = v
	}
	if g.MinigameState != nil {
		m := *g.MinigameState
		m.Fragments = append([]string(nil), g.MinigameState.Fragments...)
		c.MinigameState = &m
	}
	if g.PendingNewLibrarian != nil {
		l := *g.PendingNewLibrarian
		c.PendingNewLibrarian = &l
	}
	if g.Dispute != nil {
		d := *g.Dispute
		c.Dispute = &d
	}
	return &c
}
