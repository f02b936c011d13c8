// Package chronicle keeps the library's journal: one short page per day,
// written by a Narrator, with older pages folded into a running summary.
package chronicle

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/library-of-memories/internal/models"
	"github.com/tatianab/library-of-memories/internal/store"
)

//go:embed prompts/narrate_day.txt
var narrateDayPrompt string

//go:embed prompts/summarize_journal.txt
var summarizeJournalPrompt string

var (
	narrateTmpl   = template.Must(template.New("narrate_day").Parse(narrateDayPrompt))
	summarizeTmpl = template.Must(template.New("summarize_journal").Parse(summarizeJournalPrompt))
)

const (
	// compactAfter is how many pages the journal holds before older ones are
	// summarized.
	compactAfter = 8
	keepPages    = 3
)

// Page is one day's entry.
type Page struct {
	Day   int    `yaml:"day"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// Journal is the persisted chronicle.
type Journal struct {
	Summary string `yaml:"summary,omitempty"`
	Pages   []Page `yaml:"pages"`
}

// Request is everything a narrator gets to write a page.
type Request struct {
	State   *models.GameState
	Events  string
	Summary string
	Recent  []Page
}

// Narrator writes pages and folds old ones into a summary.
type Narrator interface {
	Narrate(ctx context.Context, req Request) (Page, error)
	Summarize(ctx context.Context, summary string, pages []Page) (string, error)
}

// Keeper stores a journal next to a save.
type Keeper struct {
	store    store.Store
	key      string
	narrator Narrator
}

// journalSuffix marks the store key of a journal kept next to a save.
const journalSuffix = ".chronicle"

// NewKeeper returns a keeper for the journal of the save at saveKey.
func NewKeeper(s store.Store, saveKey string, n Narrator) *Keeper {
	return &Keeper{store: s, key: saveKey + journalSuffix, narrator: n}
}

// SaveKeys drops journal keys from a store listing, leaving only saves.
func SaveKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, journalSuffix) {
			out = append(out, k)
		}
	}
	return out
}

// Journal returns the stored journal, or an empty one.
func (k *Keeper) Journal(ctx context.Context) (*Journal, error) {
	data, err := k.store.Get(ctx, k.key)
	if errors.Is(err, store.ErrNotFound) {
		return &Journal{}, nil
	}
	if err != nil {
		return nil, err
	}
	var j Journal
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse journal: %w", err)
	}
	return &j, nil
}

// Record writes the page for the state's current day and saves the journal.
// A page for the same day replaces the old one.
func (k *Keeper) Record(ctx context.Context, g *models.GameState, events string) (Page, error) {
	j, err := k.Journal(ctx)
	if err != nil {
		return Page{}, err
	}

	if len(j.Pages) > compactAfter {
		if err := k.compact(ctx, j); err != nil {
			return Page{}, fmt.Errorf("summarize journal: %w", err)
		}
	}

	page, err := k.narrator.Narrate(ctx, Request{
		State:   g,
		Events:  events,
		Summary: j.Summary,
		Recent:  j.Pages,
	})
	if err != nil {
		return Page{}, err
	}
	page.Day = g.Day

	if n := len(j.Pages); n > 0 && j.Pages[n-1].Day == page.Day {
		j.Pages[n-1] = page
	} else {
		j.Pages = append(j.Pages, page)
	}

	data, err := yaml.Marshal(j)
	if err != nil {
		return Page{}, err
	}
	if err := k.store.Put(ctx, k.key, data); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Reset drops the journal.
func (k *Keeper) Reset(ctx context.Context) error {
	err := k.store.Delete(ctx, k.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func (k *Keeper) compact(ctx context.Context, j *Journal) error {
	cut := len(j.Pages) - keepPages
	summary, err := k.narrator.Summarize(ctx, j.Summary, j.Pages[:cut])
	if err != nil {
		return err
	}
	j.Summary = summary
	j.Pages = append([]Page(nil), j.Pages[cut:]...)
	return nil
}

type resourceLine struct {
	Label  string
	Amount int
}

func narratePrompt(req Request) (string, error) {
	var resources []resourceLine
	for _, r := range models.Resources {
		resources = append(resources, resourceLine{Label: r.Label(), Amount: req.State.Resources[r]})
	}
	data := struct {
		Request
		Day       int
		Resources []resourceLine
	}{
		Request:   req,
		Day:       req.State.Day,
		Resources: resources,
	}

	var buf bytes.Buffer
	if err := narrateTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func summarizePrompt(summary string, pages []Page) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Summary string
		Pages   []Page
	}{
		Summary: summary,
		Pages:   pages,
	}
	if err := summarizeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// cleanYAML strips the code fences models like to wrap YAML in.
func cleanYAML(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func parsePage(text string) (Page, error) {
	clean := cleanYAML(text)
	var p Page
	if err := yaml.Unmarshal([]byte(clean), &p); err != nil {
		return Page{}, fmt.Errorf("failed to parse page YAML: %w\nOutput was: %s", err, clean)
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return Page{}, fmt.Errorf("page has no text\nOutput was: %s", clean)
	}
	return p, nil
}
