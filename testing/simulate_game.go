package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/library-of-memories/internal/action"
	"github.com/tatianab/library-of-memories/internal/chronicle"
	"github.com/tatianab/library-of-memories/internal/config"
	"github.com/tatianab/library-of-memories/internal/engine"
	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/scenario"
	"github.com/tatianab/library-of-memories/internal/store"
)

// maxStepsPerDay stops a day that keeps bouncing between menus.
const maxStepsPerDay = 60

func main() {
	days := flag.Int("days", 30, "calendar days to play")
	useLLM := flag.Bool("llm", false, "let a Gemini model pick choices (needs GEMINI_API_KEY)")
	verbose := flag.Bool("v", false, "log every action")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "sim"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	ctx := context.Background()
	clock := engine.NewFakeClock(time.Now())
	mem := store.NewMemory()
	eng, err := engine.New(mem, engine.WithClock(clock), engine.WithLogger(logger.WithPrefix("engine")))
	if err != nil {
		logger.Fatal("failed to create engine", "err", err)
	}

	var p player = &heuristic{}
	if *useLLM {
		if !cfg.NarratorEnabled() {
			logger.Fatal("-llm needs GEMINI_API_KEY")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			logger.Fatal("failed to create player client", "err", err)
		}
		defer client.Close()
		p = llmPlayer{model: client.GenerativeModel(cfg.GeminiModel), fallback: &heuristic{}}
	}
	keeper := chronicle.NewKeeper(mem, models.StorageKey, chronicle.Nop{})

	for day := 1; day <= *days; day++ {
		res, err := eng.Load(ctx)
		if err != nil {
			logger.Fatal("load failed", "err", err)
		}
		if res.NewDay {
			if _, err := keeper.Record(ctx, eng.State(), res.Message); err != nil {
				logger.Warn("journal", "err", err)
			}
		}
		if over := playDay(ctx, eng, p, logger); over {
			break
		}
		clock.AdvanceDays(1)
	}

	g := eng.State()
	fmt.Printf("--- Finished on day %d (%s) ---\n", g.Day, g.CurrentScenarioID)
	for _, s := range models.Stats {
		fmt.Printf("%-11s %3d\n", s.Label(), g.Stat(s))
	}
	for _, r := range models.Resources {
		fmt.Printf("%-11s %3d\n", r.Label(), g.Resources[r])
	}
	fmt.Printf("librarians  %d/%d, library level %d\n", len(g.Librarians), g.MaxLibrarians, g.LibraryLevel)
	if j, err := keeper.Journal(ctx); err == nil {
		fmt.Printf("journal pages: %d\n", len(j.Pages))
	}
}

// playDay spends the day's work points. It reports whether the game ended.
func playDay(ctx context.Context, eng *engine.Engine, p player, logger *log.Logger) bool {
	for step := 0; step < maxStepsPerDay; step++ {
		v, err := eng.View()
		if err != nil {
			logger.Fatal("view failed", "err", err)
		}
		if v.Final {
			fmt.Printf("Game over on day %d: %s\n", v.State.Day, v.Text)
			return true
		}

		if v.Minigame != nil {
			for _, in := range minigameInputs(v.Minigame) {
				if _, err := eng.MinigameInput(ctx, in); err != nil {
					logger.Error("minigame input", "err", err)
					break
				}
			}
			continue
		}

		if v.State.ActionPoints <= 0 && v.State.CurrentScenarioID == models.ScenarioIntro {
			return false
		}

		a := p.choose(ctx, v)
		res, err := eng.Dispatch(ctx, a)
		if err != nil {
			logger.Error("action failed", "action", a, "err", err)
			a = action.New(action.ReturnToIntro)
			if _, err := eng.Dispatch(ctx, a); err != nil {
				return true
			}
			continue
		}
		logger.Debug("step", "day", v.State.Day, "action", a, "refused", res.Refused, "msg", res.Message)
		if res.Refused && v.State.CurrentScenarioID != models.ScenarioIntro {
			if _, err := eng.Dispatch(ctx, action.New(action.ReturnToIntro)); err != nil {
				return true
			}
		}
	}
	return false
}

func minigameInputs(mg *engine.MinigameView) []string {
	if !mg.TakesText {
		return []string{""}
	}
	return append(strings.Fields(mg.Target), "")
}

type player interface {
	choose(ctx context.Context, v engine.View) action.Action
}

// heuristic walks the intro menu in a fixed rotation and takes the first
// affordable choice everywhere else.
type heuristic struct {
	turn int
}

var rotation = []action.Kind{
	action.PlayMinigame,
	action.ShowMaterialCollection,
	action.ChatWithLibrarian,
	action.ShowRecordRoomManagement,
	action.OrganizeArchive,
	action.HoldMeeting,
	action.ShowMaterialCollection,
	action.ShowQuietRest,
}

func (h *heuristic) choose(_ context.Context, v engine.View) action.Action {
	g := v.State
	if g.CurrentScenarioID != models.ScenarioIntro {
		return firstUseful(g, v.Choices)
	}
	k := rotation[h.turn%len(rotation)]
	h.turn++
	if k == action.PlayMinigame && g.DailyActions.MinigamePlayed {
		k = action.OrganizeArchive
	}
	if k == action.ChatWithLibrarian && g.DailyActions.Chatted {
		k = action.HoldMeeting
	}
	return action.New(k)
}

// firstUseful prefers anything affordable that is not a way back to a menu.
func firstUseful(g *models.GameState, choices []scenario.Choice) action.Action {
	for _, c := range choices {
		switch c.Action.Kind {
		case action.ReturnToIntro, action.ShowMaterialCollection, action.ShowRecordRoomManagement:
			continue
		}
		if !affordable(g, c.Action) {
			continue
		}
		return c.Action
	}
	return action.New(action.ReturnToIntro)
}

func affordable(g *models.GameState, a action.Action) bool {
	if key, ok := a.Kind.BuildTarget(); ok {
		def := models.FacilityDefinition(key)
		return def != nil && g.Affords(def.Cost)
	}
	switch a.Kind {
	case action.MaintainRecordRoom:
		return g.Affords(models.MaintenanceCost)
	case action.UpgradeLibrary:
		return g.Resources[models.HistoricalArtifacts] >= scenario.UpgradeCost(g.LibraryLevel)
	}
	return true
}

// llmPlayer asks a Gemini model which numbered choice to take.
type llmPlayer struct {
	model    *genai.GenerativeModel
	fallback player
}

func (p llmPlayer) choose(ctx context.Context, v engine.View) action.Action {
	if len(v.Choices) == 0 {
		return p.fallback.choose(ctx, v)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are managing a small library in a daily management game. It is day %d and you have %d work points left.\n",
		v.State.Day, v.State.ActionPoints)
	for _, s := range models.Stats {
		fmt.Fprintf(&b, "%s: %d\n", s.Label(), v.State.Stat(s))
	}
	fmt.Fprintf(&b, "\n%s\n\nChoices:\n", v.Text)
	for i, c := range v.Choices {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Text)
	}
	b.WriteString("\nKeep every stat above zero. Return ONLY the number of your choice.")

	resp, err := p.model.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return p.fallback.choose(ctx, v)
	}
	n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])))
	if err != nil || n < 1 || n > len(v.Choices) {
		return p.fallback.choose(ctx, v)
	}
	return v.Choices[n-1].Action
}
