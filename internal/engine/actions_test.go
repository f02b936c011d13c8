package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/library-of-memories/internal/action"
	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/scenario"
	"github.com/tatianab/library-of-memories/internal/store"
)

func dispatch(t *testing.T, e *Engine, k action.Kind) Result {
	t.Helper()
	res, err := e.Dispatch(context.Background(), action.New(k))
	require.NoError(t, err)
	return res
}

func TestOrganizeArchive(t *testing.T) {
	e, mem, _ := newTestEngine(t)
	g := fresh()
	g.ActionPoints = 1
	put(e, g, 0.05)

	res := dispatch(t, e, action.OrganizeArchive)
	assert.False(t, res.Refused)
	assert.Equal(t, "While sorting the stacks you found old books! (+5 old books)", res.Message)

	got := e.State()
	assert.Equal(t, 15, got.Resources[models.OldBooks])
	assert.Equal(t, 0, got.ActionPoints)
	assert.True(t, got.DailyActions.Organized)
	assert.Equal(t, res.Message, got.Note)

	stored := saved(t, mem)
	assert.Equal(t, got.Resources, stored.Resources)
	assert.Equal(t, got.ActionPoints, stored.ActionPoints)
}

func TestRefusalChangesNothing(t *testing.T) {
	e, mem, _ := newTestEngine(t)
	g := fresh()
	g.ActionPoints = 0
	put(e, g)
	before, err := models.Encode(g)
	require.NoError(t, err)

	for _, k := range []action.Kind{action.OrganizeArchive, action.HoldMeeting, action.CollectOldBooks, action.PlayMinigame} {
		res := dispatch(t, e, k)
		assert.True(t, res.Refused, k.String())
		assert.Equal(t, msgNoPoints, res.Message)
	}

	after, err := models.Encode(e.State())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	_, err = mem.Get(context.Background(), models.StorageKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNavigationIsFree(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := fresh()
	g.ActionPoints = 0
	put(e, g)

	dispatch(t, e, action.ShowRecordRoomManagement)
	assert.Equal(t, scenario.RecordRoomManagement, e.State().CurrentScenarioID)
	dispatch(t, e, action.ReturnToIntro)
	assert.Equal(t, scenario.Intro, e.State().CurrentScenarioID)
	assert.Equal(t, 0, e.State().ActionPoints)
}

func TestCollectChanceIsCapped(t *testing.T) {
	g := fresh()
	g.LibraryLevel = 3
	g.DailyBonus.RestorationSuccess = 0.1

	e, _, _ := newTestEngine(t)
	put(e, g.Clone(), 0.94, 0.5)
	res := dispatch(t, e, action.CollectOldBooks)
	assert.Equal(t, "You gathered old books. (+5 old books)", res.Message)
	assert.Equal(t, 15, e.State().Resources[models.OldBooks])
	assert.Equal(t, scenario.MaterialResult, e.State().CurrentScenarioID)

	put(e, g.Clone(), 0.96)
	res = dispatch(t, e, action.CollectOldBooks)
	assert.False(t, res.Refused)
	assert.Equal(t, "You could not find any old books this time.", res.Message)
	assert.Equal(t, 10, e.State().Resources[models.OldBooks])
	assert.Equal(t, models.BaseActionPoints-1, e.State().ActionPoints)
}

func TestBuild(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := fresh()
	g.Resources[models.OldBooks] = 60
	g.Resources[models.Records] = 30
	put(e, g, 0.5)

	res := dispatch(t, e, action.BuildArchiveOfMemories)
	require.False(t, res.Refused, res.Message)
	assert.Equal(t, "The Archive of Memories is complete! (+10 memory)", res.Message)

	got := e.State()
	room := got.RecordRooms[models.ArchiveOfMemories]
	assert.True(t, room.Built)
	assert.Equal(t, models.MaxDurability, room.Durability)
	assert.Equal(t, 10, got.Resources[models.OldBooks])
	assert.Equal(t, 10, got.Resources[models.Records])
	assert.Equal(t, 60, got.Memory)
	assert.Equal(t, models.BaseActionPoints-1, got.ActionPoints)
	assert.Equal(t, scenario.RecordRoomResult, got.CurrentScenarioID)

	res = dispatch(t, e, action.BuildArchiveOfMemories)
	assert.True(t, res.Refused)
	assert.Equal(t, "The Archive of Memories is already built.", res.Message)
}

func TestBuildRefusals(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := fresh()
	put(e, g)

	res := dispatch(t, e, action.BuildCentralHall)
	assert.True(t, res.Refused)
	assert.Equal(t, msgNoResources, res.Message)
	assert.Equal(t, g.Resources, e.State().Resources)
	assert.Equal(t, models.BaseActionPoints, e.State().ActionPoints)

	g = fresh()
	g.Resources[models.Records] = 500
	g.Resources[models.Ink] = 500
	put(e, g)
	res = dispatch(t, e, action.BuildCommunityLounge)
	assert.True(t, res.Refused)
	assert.Contains(t, res.Message, "restoration room")

	room := g.RecordRooms[models.RestorationRoom]
	room.Built, room.Durability = true, 50
	g.RecordRooms[models.RestorationRoom] = room
	put(e, g)
	res = dispatch(t, e, action.BuildCommunityLounge)
	assert.False(t, res.Refused, res.Message)
	assert.True(t, e.State().RecordRooms[models.CommunityLounge].Built)
}

func TestMaintain(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := fresh()
	g.Resources[models.Ink] = 10
	hall := g.RecordRooms[models.CentralHall]
	hall.Built, hall.Durability = true, 40
	g.RecordRooms[models.CentralHall] = hall
	put(e, g)

	res, err := e.Dispatch(context.Background(), action.Action{
		Kind:   action.MaintainRecordRoom,
		Params: action.Params{Room: models.CentralHall},
	})
	require.NoError(t, err)
	require.False(t, res.Refused, res.Message)

	got := e.State()
	assert.Equal(t, models.MaxDurability, got.RecordRooms[models.CentralHall].Durability)
	assert.Equal(t, 0, got.Resources[models.Records])
	assert.Equal(t, 0, got.Resources[models.Ink])

	res, err = e.Dispatch(context.Background(), action.Action{
		Kind:   action.MaintainRecordRoom,
		Params: action.Params{Room: models.SpecialArchive},
	})
	require.NoError(t, err)
	assert.True(t, res.Refused)

	_, err = e.Dispatch(context.Background(), action.Action{
		Kind:   action.MaintainRecordRoom,
		Params: action.Params{Room: "dungeon"},
	})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestUpgradeLibrary(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := fresh()
	g.Resources[models.HistoricalArtifacts] = 3
	put(e, g)

	res := dispatch(t, e, action.UpgradeLibrary)
	require.False(t, res.Refused, res.Message)
	assert.Equal(t, 1, e.State().LibraryLevel)
	assert.Equal(t, 0, e.State().Resources[models.HistoricalArtifacts])

	res = dispatch(t, e, action.UpgradeLibrary)
	assert.True(t, res.Refused)

	g = fresh()
	g.LibraryLevel = MaxLibraryLevel
	g.Resources[models.HistoricalArtifacts] = 100
	put(e, g)
	res = dispatch(t, e, action.UpgradeLibrary)
	assert.True(t, res.Refused)
	assert.Equal(t, MaxLibraryLevel, e.State().LibraryLevel)
}

func TestChatOncePerDay(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, fresh())

	res := dispatch(t, e, action.ChatWithLibrarian)
	require.False(t, res.Refused, res.Message)
	// Every draw is 0: Anna is picked and the first eligible outcome is her
	// restoration tips.
	assert.Equal(t, "Anna shared restoration tips and you saved a few more records. (+3 records)", res.Message)
	assert.Equal(t, 13, e.State().Resources[models.Records])

	res = dispatch(t, e, action.ChatWithLibrarian)
	assert.True(t, res.Refused)
	assert.Equal(t, models.BaseActionPoints-1, e.State().ActionPoints)
}

func TestMeetingIsRepeatable(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, fresh(), 0.99)

	dispatch(t, e, action.HoldMeeting)
	res := dispatch(t, e, action.HoldMeeting)
	assert.False(t, res.Refused)
	assert.True(t, e.State().DailyActions.Met)
	assert.Equal(t, models.BaseActionPoints-2, e.State().ActionPoints)
}

func disputeState() *models.GameState {
	g := fresh()
	g.CurrentScenarioID = scenario.EventLibrarianDispute
	g.Dispute = &models.Dispute{First: "anna", Second: "ben"}
	return g
}

func TestHandleDispute(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, disputeState(), 0.5)

	res, err := e.Dispatch(context.Background(), action.Action{
		Kind:   action.HandleLibrarianDispute,
		Params: action.Params{First: "ben", Second: "anna"},
	})
	require.NoError(t, err)
	require.False(t, res.Refused, res.Message)

	got := e.State()
	assert.Equal(t, 65, got.Librarian("anna").Trust)
	assert.Equal(t, 70, got.Librarian("ben").Trust)
	assert.Equal(t, 55, got.Dedication)
	assert.Equal(t, 55, got.Service)
	assert.Nil(t, got.Dispute)
	assert.Equal(t, scenario.DisputeResult, got.CurrentScenarioID)
}

func TestHandleDisputeRejectsStrangers(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, disputeState())

	_, err := e.Dispatch(context.Background(), action.Action{
		Kind:   action.HandleLibrarianDispute,
		Params: action.Params{First: "anna", Second: "zed"},
	})
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.NotNil(t, e.State().Dispute)
}

func TestIgnoreDispute(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, disputeState(), 0.5)

	dispatch(t, e, action.IgnoreEvent)
	got := e.State()
	assert.Equal(t, 65, got.Librarian("anna").Trust)
	assert.Equal(t, 55, got.Librarian("ben").Trust)
	assert.Equal(t, 40, got.Stability)
	assert.Equal(t, 45, got.Tradition)
	assert.Nil(t, got.Dispute)
}

func TestMediateDispute(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, disputeState(), 0.5)

	res := dispatch(t, e, action.MediateLibrarianDispute)
	assert.Contains(t, res.Message, "Anna and Ben")
	assert.Equal(t, 60, e.State().Stability)

	put(e, fresh())
	res = dispatch(t, e, action.MediateLibrarianDispute)
	assert.True(t, res.Refused)
}

func recruitState() *models.GameState {
	g := fresh()
	g.CurrentScenarioID = scenario.EventNewLibrarian
	g.PendingNewLibrarian = &models.Librarian{
		ID: "recruit-1", Name: "Clara",
		Personality: models.PersonalityCalm, Skill: models.SkillDecoding,
		Trust: models.DefaultStat,
	}
	return g
}

func TestWelcomeLibrarian(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, recruitState(), 0.5)

	res := dispatch(t, e, action.WelcomeNewLibrarian)
	require.False(t, res.Refused, res.Message)
	got := e.State()
	require.Len(t, got.Librarians, 3)
	assert.Equal(t, "Clara", got.Librarians[2].Name)
	assert.Nil(t, got.PendingNewLibrarian)
	assert.Equal(t, 60, got.Dedication)

	g := recruitState()
	g.MaxLibrarians = 2
	put(e, g)
	res = dispatch(t, e, action.WelcomeNewLibrarian)
	assert.True(t, res.Refused)
	assert.Len(t, e.State().Librarians, 2)
}

func TestObserveAndRejectNeedARecruit(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, fresh())
	assert.True(t, dispatch(t, e, action.ObserveLibrarian).Refused)
	assert.True(t, dispatch(t, e, action.RejectLibrarian).Refused)

	put(e, recruitState(), 0.1, 0.5)
	res := dispatch(t, e, action.ObserveLibrarian)
	assert.Contains(t, res.Message, "noticed something interesting")
	assert.Equal(t, 55, e.State().Memory)
	assert.Nil(t, e.State().PendingNewLibrarian)
}

func TestEventResponses(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := fresh()
	g.CurrentScenarioID = "daily_event_service_crisis"
	put(e, g, 0.5)

	dispatch(t, e, action.ImproveService)
	got := e.State()
	assert.Equal(t, 60, got.Service)
	assert.Equal(t, 55, got.Dedication)
	assert.Equal(t, scenario.Intro, got.CurrentScenarioID)
}

func TestUnknownKind(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, fresh())

	_, err := e.Dispatch(context.Background(), action.Action{Kind: action.Kind(999)})
	assert.ErrorIs(t, err, action.ErrUnknown)
}

func TestOldBookDebtCarriesIntoNextDay(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := fresh()
	g.Resources[models.OldBooks] = -8
	put(e, g, 0)

	res := dispatch(t, e, action.CollectOldBooks)
	assert.Equal(t, "You gathered old books. (+3 old books)", res.Message)
	assert.Equal(t, -5, e.State().Resources[models.OldBooks])

	// -5 - 4 = -9: still in debt, but above -(5 * 2).
	dispatch(t, e, action.ManualNextDay)
	got := e.State()
	assert.Equal(t, -9, got.Resources[models.OldBooks])
	assert.Equal(t, 40, got.Dedication)
	assert.Equal(t, "daily_event_visitor_complaint", got.CurrentScenarioID)

	// -9 - 4 = -13 closes the library.
	dispatch(t, e, action.ManualNextDay)
	got = e.State()
	assert.Equal(t, -13, got.Resources[models.OldBooks])
	assert.Equal(t, "game_over_resources", got.CurrentScenarioID)
}

func TestMessagesReportClampedChanges(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := fresh()
	g.Memory = 95
	g.Resources[models.OldBooks] = 60
	g.Resources[models.Records] = 30
	put(e, g, 0.5)

	res := dispatch(t, e, action.BuildArchiveOfMemories)
	assert.Equal(t, "The Archive of Memories is complete! (+5 memory)", res.Message)
	assert.Equal(t, 100, e.State().Memory)
}
