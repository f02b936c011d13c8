package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/library-of-memories/internal/action"
	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/rng"
	"github.com/tatianab/library-of-memories/internal/scenario"
)

func TestRecordRestorationSuccess(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t)
	put(e, fresh(), 0.3)

	res := dispatch(t, e, action.PlayMinigame)
	require.False(t, res.Refused, res.Message)

	v, err := e.View()
	require.NoError(t, err)
	require.NotNil(t, v.Minigame)
	assert.Equal(t, "Record Restoration", v.Minigame.Name)
	assert.True(t, v.Minigame.TakesText)

	target := v.Minigame.Target
	words := strings.Fields(target)
	require.Len(t, words, 3)
	for _, w := range words {
		assert.Contains(t, restorationFragments, w)
	}

	for _, w := range words {
		res, err := e.MinigameInput(ctx, w)
		require.NoError(t, err)
		assert.Contains(t, res.Message, w)
	}
	res, err = e.MinigameInput(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, res.Message, "master of record restoration")

	got := e.State()
	assert.Nil(t, got.MinigameState)
	assert.Equal(t, scenario.Intro, got.CurrentScenarioID)
	assert.Equal(t, 65, got.Dedication)
	assert.Equal(t, 60, got.Memory)
	assert.Equal(t, 55, got.Stability)
	assert.Equal(t, 55, got.Service)
	assert.True(t, got.DailyActions.MinigamePlayed)

	res = dispatch(t, e, action.PlayMinigame)
	assert.True(t, res.Refused)

	_, err = e.MinigameInput(ctx, "again")
	assert.ErrorIs(t, err, ErrNoMinigame)
}

func TestRecordRestorationMismatch(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t)
	put(e, fresh())
	dispatch(t, e, action.PlayMinigame)

	_, err := e.MinigameInput(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, 8, e.State().MinigameState.Score)

	res, err := e.MinigameInput(ctx, "  ")
	require.NoError(t, err)
	assert.Contains(t, res.Message, "Restoration failed")
	assert.Equal(t, 55, e.State().Dedication)
}

func TestMinigameBlocksOtherActions(t *testing.T) {
	e, _, _ := newTestEngine(t)
	put(e, fresh())
	dispatch(t, e, action.PlayMinigame)

	res := dispatch(t, e, action.OrganizeArchive)
	assert.True(t, res.Refused)
	assert.Equal(t, msgFinishMinigame, res.Message)
	assert.Equal(t, models.BaseActionPoints-1, e.State().ActionPoints)

	res = dispatch(t, e, action.ManualNextDay)
	assert.False(t, res.Refused)
	assert.Nil(t, e.State().MinigameState)
}

func TestMinigameRotation(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t)
	g := fresh()
	g.Day = 2
	put(e, g)

	dispatch(t, e, action.PlayMinigame)
	st := e.State()
	assert.Equal(t, "minigame_manuscript_decoding", st.CurrentScenarioID)
	assert.Equal(t, 1, st.MinigameState.Index)

	v, err := e.View()
	require.NoError(t, err)
	assert.False(t, v.Minigame.TakesText)
	assert.Equal(t, 10, v.Minigame.Score)

	res, err := e.MinigameInput(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "You completed the Manuscript Decoding Challenge. (+1 tradition, +2 memory)", res.Message)
	assert.Equal(t, 52, e.State().Memory)
	assert.Equal(t, 51, e.State().Tradition)

	g = fresh()
	g.Day = 6
	put(e, g)
	dispatch(t, e, action.PlayMinigame)
	assert.Equal(t, "minigame_record_restoration", e.State().CurrentScenarioID)
}

func TestRestorationShuffleUsesEveryFragment(t *testing.T) {
	g := fresh()
	(&recordRestoration{}).Start(g, rng.New(42))
	words := strings.Fields(g.MinigameState.Target)
	require.Len(t, words, restorationTargetLen)
	seen := map[string]bool{}
	for _, w := range words {
		assert.False(t, seen[w], "duplicate fragment %q", w)
		seen[w] = true
	}
}
