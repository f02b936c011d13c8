// Package scenario holds the static scenario catalog and turns a scenario id
// plus the current game state into display text and choices.
package scenario

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/library-of-memories/internal/action"
	"github.com/tatianab/library-of-memories/internal/models"
)

//go:embed scenarios.yaml
var catalogYAML []byte

// Scenario ids referenced from code.
const (
	Intro                  = models.ScenarioIntro
	MaterialCollection     = "action_material_collection"
	RecordRoomManagement   = "action_record_room_management"
	MaterialResult         = "material_collection_result"
	RecordRoomResult       = "record_room_management_result"
	DisputeResult          = "librarian_dispute_resolution_result"
	QuietRest              = "quiet_rest_menu"
	EventLibrarianDispute  = "daily_event_librarian_dispute"
	EventNewLibrarian      = "daily_event_new_librarian"
	GameOverPrefix         = "game_over_"
	MinigamePrefix         = "minigame_"
	maxLibraryLevelChoices = 3
)

// Choice is one button on a scenario.
type Choice struct {
	Text   string
	Action action.Action
}

// Scenario is a catalog entry.
type Scenario struct {
	ID      string
	Final   bool
	Choices []Choice
	text    *template.Template
}

// View is what scenario templates see.
type View struct {
	State         *models.GameState
	Note          string
	Pending       *models.Librarian
	DisputeFirst  string
	DisputeSecond string
	RosterSize    int
	RosterMax     int
}

// NewView builds the template view of g.
func NewView(g *models.GameState) View {
	v := View{
		State:      g,
		Note:       g.Note,
		Pending:    g.PendingNewLibrarian,
		RosterSize: len(g.Librarians),
		RosterMax:  g.MaxLibrarians,
	}
	if g.Dispute != nil {
		v.DisputeFirst = librarianName(g, g.Dispute.First)
		v.DisputeSecond = librarianName(g, g.Dispute.Second)
	}
	return v
}

func librarianName(g *models.GameState, id string) string {
	if l := g.Librarian(id); l != nil {
		return l.Name
	}
	return id
}

// Catalog is the parsed set of scenarios.
type Catalog struct {
	scenarios map[string]*Scenario
}

type rawChoice struct {
	Text   string        `yaml:"text"`
	Action string        `yaml:"action"`
	Params action.Params `yaml:"params"`
}

type rawScenario struct {
	Text    string      `yaml:"text"`
	Final   bool        `yaml:"final"`
	Choices []rawChoice `yaml:"choices"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Load(catalogYAML)
}

// Load parses a YAML catalog. Every choice must name a known action and the
// catalog must contain an intro scenario.
func Load(data []byte) (*Catalog, error) {
	var raw map[string]rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario catalog: %w", err)
	}
	if _, ok := raw[Intro]; !ok {
		return nil, fmt.Errorf("scenario catalog has no %q scenario", Intro)
	}

	c := &Catalog{scenarios: make(map[string]*Scenario, len(raw))}
	for id, rs := range raw {
		tmpl, err := template.New(id).Option("missingkey=zero").Parse(rs.Text)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", id, err)
		}
		s := &Scenario{ID: id, Final: rs.Final, text: tmpl}
		for _, rc := range rs.Choices {
			a, err := action.Parse(rc.Action, rc.Params)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: %w", id, err)
			}
			s.Choices = append(s.Choices, Choice{Text: rc.Text, Action: a})
		}
		if s.Final && len(s.Choices) > 0 {
			return nil, fmt.Errorf("scenario %s: final scenarios cannot offer choices", id)
		}
		c.scenarios[id] = s
	}
	return c, nil
}

// Lookup returns the scenario for id, falling back to intro.
func (c *Catalog) Lookup(id string) *Scenario {
	if s, ok := c.scenarios[id]; ok {
		return s
	}
	return c.scenarios[Intro]
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.scenarios[id]
	return ok
}

// IsFinal reports whether id is a terminal scenario.
func (c *Catalog) IsFinal(id string) bool {
	s, ok := c.scenarios[id]
	return ok && s.Final
}

// Render produces the display text of scenario id for g.
func (c *Catalog) Render(id string, g *models.GameState) (string, error) {
	var buf bytes.Buffer
	if err := c.Lookup(id).text.Execute(&buf, NewView(g)); err != nil {
		return "", fmt.Errorf("render scenario %s: %w", id, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Choices returns the choices available on scenario id for g, including
// those computed from state.
func (c *Catalog) Choices(id string, g *models.GameState) []Choice {
	s := c.Lookup(id)
	switch s.ID {
	case RecordRoomManagement:
		out := append([]Choice(nil), s.Choices...)
		out = append(out, recordRoomChoices(g)...)
		return append(out, Choice{Text: "Cancel", Action: action.New(action.ReturnToIntro)})
	case EventLibrarianDispute:
		return append(disputeChoices(g), s.Choices...)
	}
	return append([]Choice(nil), s.Choices...)
}

func recordRoomChoices(g *models.GameState) []Choice {
	var out []Choice
	for _, def := range models.FacilityDefinitions {
		room := g.RecordRooms[def.Key]
		if room.Built {
			continue
		}
		if def.Key == models.CommunityLounge {
			restoration := g.RecordRooms[models.RestorationRoom]
			if !restoration.Built || restoration.Durability <= 0 {
				continue
			}
		}
		kind, ok := action.BuildKind(def.Key)
		if !ok {
			continue
		}
		out = append(out, Choice{
			Text:   fmt.Sprintf("Build the %s (%s)", def.Name, FormatCost(def.Cost)),
			Action: action.New(kind),
		})
	}
	for _, key := range g.FacilityKeys() {
		room := g.RecordRooms[key]
		if room.Built && room.Durability < models.MaxDurability {
			out = append(out, Choice{
				Text:   fmt.Sprintf("Repair the %s (%s)", room.Name, FormatCost(models.MaintenanceCost)),
				Action: action.Action{Kind: action.MaintainRecordRoom, Params: action.Params{Room: key}},
			})
		}
	}
	if g.LibraryLevel < maxLibraryLevelChoices {
		out = append(out, Choice{
			Text: fmt.Sprintf("Expand the library to level %d (%d %s)",
				g.LibraryLevel+1, UpgradeCost(g.LibraryLevel), models.HistoricalArtifacts.Label()),
			Action: action.New(action.UpgradeLibrary),
		})
	}
	return out
}

func disputeChoices(g *models.GameState) []Choice {
	if g.Dispute == nil {
		return nil
	}
	a := librarianName(g, g.Dispute.First)
	b := librarianName(g, g.Dispute.Second)
	return []Choice{
		{
			Text:   fmt.Sprintf("Hear %s out first.", a),
			Action: action.Action{Kind: action.HandleLibrarianDispute, Params: action.Params{First: g.Dispute.First, Second: g.Dispute.Second}},
		},
		{
			Text:   fmt.Sprintf("Hear %s out first.", b),
			Action: action.Action{Kind: action.HandleLibrarianDispute, Params: action.Params{First: g.Dispute.Second, Second: g.Dispute.First}},
		},
	}
}

// UpgradeCost is the artifact price of raising the library from level.
func UpgradeCost(level int) int {
	return 3 * (level + 1)
}

// FormatCost renders a resource cost in display order.
func FormatCost(cost map[models.Resource]int) string {
	var parts []string
	for _, r := range models.Resources {
		if n, ok := cost[r]; ok {
			parts = append(parts, fmt.Sprintf("%s %d", r.Label(), n))
		}
	}
	return strings.Join(parts, ", ")
}
