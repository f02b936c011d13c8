package chronicle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini narrates with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Narrate(ctx context.Context, req Request) (Page, error) {
	prompt, err := narratePrompt(req)
	if err != nil {
		return Page{}, err
	}
	text, err := g.generate(ctx, prompt)
	if err != nil {
		return Page{}, err
	}
	return parsePage(text)
}

func (g *Gemini) Summarize(ctx context.Context, summary string, pages []Page) (string, error) {
	prompt, err := summarizePrompt(summary, pages)
	if err != nil {
		return "", err
	}
	text, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}

// Nop writes plain pages from the morning's events without a model.
type Nop struct{}

func (Nop) Narrate(_ context.Context, req Request) (Page, error) {
	first, _, _ := strings.Cut(strings.TrimSpace(req.Events), "\n")
	return Page{
		Day:   req.State.Day,
		Title: fmt.Sprintf("Day %d", req.State.Day),
		Text:  strings.TrimSpace(first),
	}, nil
}

func (Nop) Summarize(_ context.Context, summary string, pages []Page) (string, error) {
	parts := []string{}
	if summary != "" {
		parts = append(parts, summary)
	}
	for _, p := range pages {
		parts = append(parts, p.Title+".")
	}
	return strings.Join(parts, " "), nil
}
