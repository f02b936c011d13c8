package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/library-of-memories/internal/action"
	"github.com/tatianab/library-of-memories/internal/models"
)

func newState() *models.GameState {
	return models.NewGameState("2026-10-16")
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, id := range []string{
		Intro, MaterialCollection, RecordRoomManagement, MaterialResult,
		RecordRoomResult, DisputeResult, QuietRest, EventLibrarianDispute, EventNewLibrarian,
	} {
		assert.True(t, c.Has(id), id)
	}
	for _, s := range models.Stats {
		assert.True(t, c.IsFinal(GameOverPrefix+string(s)), s)
	}
	assert.True(t, c.IsFinal(GameOverPrefix+"resources"))
	assert.False(t, c.IsFinal(Intro))
	assert.False(t, c.IsFinal("nowhere"))
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no intro", "other:\n  text: hi\n"},
		{"unknown action", "intro:\n  text: hi\n  choices:\n    - {text: x, action: fly_away}\n"},
		{"final with choices", "intro:\n  text: hi\nend:\n  text: bye\n  final: true\n  choices:\n    - {text: x, action: return_to_intro}\n"},
		{"bad template", "intro:\n  text: \"{{.Note\"\n"},
		{"not yaml", "intro: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadParsesParams(t *testing.T) {
	c, err := Load([]byte(`
intro:
  text: hi
  choices:
    - text: Fix the hall
      action: maintain_record_room
      params: {room: central_hall}
`))
	require.NoError(t, err)
	choices := c.Choices(Intro, newState())
	require.Len(t, choices, 1)
	assert.Equal(t, action.MaintainRecordRoom, choices[0].Action.Kind)
	assert.Equal(t, models.CentralHall, choices[0].Action.Params.Room)
}

func TestRenderNote(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	g := newState()
	g.Note = "You gathered ink. (+5 ink)"
	text, err := c.Render(MaterialResult, g)
	require.NoError(t, err)
	assert.Equal(t, g.Note, text)

	text, err = c.Render(QuietRest, newState())
	require.NoError(t, err)
	assert.Equal(t, "How will you rest quietly?", text)
}

func TestRenderNewLibrarian(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	g := newState()
	g.PendingNewLibrarian = &models.Librarian{ID: "x", Name: "Eva", Personality: models.PersonalityWise, Skill: models.SkillDecoding}
	text, err := c.Render(EventNewLibrarian, g)
	require.NoError(t, err)
	assert.Contains(t, text, "Eva")
	assert.Contains(t, text, "(Librarians: 2 / 5)")
}

func TestUnknownScenarioFallsBackToIntro(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	want, err := c.Render(Intro, newState())
	require.NoError(t, err)
	got, err := c.Render("daily_event_that_never_was", newState())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, c.Choices(Intro, newState()), c.Choices("daily_event_that_never_was", newState()))
}

func kinds(choices []Choice) []action.Kind {
	var out []action.Kind
	for _, c := range choices {
		out = append(out, c.Action.Kind)
	}
	return out
}

func TestRecordRoomChoices(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	g := newState()
	assert.Equal(t, []action.Kind{
		action.BuildArchiveOfMemories,
		action.BuildRestorationRoom,
		action.BuildCentralHall,
		action.BuildSpecialArchive,
		action.UpgradeLibrary,
		action.ReturnToIntro,
	}, kinds(c.Choices(RecordRoomManagement, g)))

	restoration := g.RecordRooms[models.RestorationRoom]
	restoration.Built, restoration.Durability = true, 80
	g.RecordRooms[models.RestorationRoom] = restoration
	g.LibraryLevel = 3

	choices := c.Choices(RecordRoomManagement, g)
	assert.Equal(t, []action.Kind{
		action.BuildArchiveOfMemories,
		action.BuildCentralHall,
		action.BuildSpecialArchive,
		action.BuildCommunityLounge,
		action.MaintainRecordRoom,
		action.ReturnToIntro,
	}, kinds(choices))
	assert.Equal(t, models.RestorationRoom, choices[4].Action.Params.Room)
	assert.Equal(t, "Build the Archive of Memories (old books 50, records 20)", choices[0].Text)
	assert.Equal(t, "Cancel", choices[5].Text)
}

func TestDisputeChoices(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	g := newState()
	g.Dispute = &models.Dispute{First: "anna", Second: "ben"}
	choices := c.Choices(EventLibrarianDispute, g)
	require.Len(t, choices, 4)
	assert.Equal(t, "Hear Anna out first.", choices[0].Text)
	assert.Equal(t, action.Params{First: "anna", Second: "ben"}, choices[0].Action.Params)
	assert.Equal(t, "Hear Ben out first.", choices[1].Text)
	assert.Equal(t, action.Params{First: "ben", Second: "anna"}, choices[1].Action.Params)
	assert.Equal(t, action.MediateLibrarianDispute, choices[2].Action.Kind)

	text, err := c.Render(EventLibrarianDispute, g)
	require.NoError(t, err)
	assert.Contains(t, text, "Anna and Ben disagree")

	// Without a dispute only the static choices remain.
	assert.Len(t, c.Choices(EventLibrarianDispute, newState()), 2)
}

func TestCosts(t *testing.T) {
	assert.Equal(t, 3, UpgradeCost(0))
	assert.Equal(t, 9, UpgradeCost(2))
	assert.Equal(t, "records 10, ink 10", FormatCost(models.MaintenanceCost))
	assert.Equal(t, "", FormatCost(nil))
}
