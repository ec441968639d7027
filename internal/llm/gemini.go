package llm

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	genai "google.golang.org/genai"

	"riskprotocol/internal/protocol"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	// NOTE: apiKey is currently unused here; the genai client reads it from
	// env. Keep the parameter for a consistent factory signature.
	_ = apiKey

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateProtocol sends the templated report with the response schema
// constraint and parses the single JSON candidate into a draft. One call,
// no retry: the model is non-deterministic and the caller surfaces the
// failure as-is.
func (g *GeminiClient) GenerateProtocol(ctx context.Context, report string) (*protocol.Draft, error) {
	prompt := userPrompt(report)
	log.Printf("LLM request (%s): %d bytes", g.model, len(prompt))

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema(),
		},
	)
	if err != nil {
		return nil, generationError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, generationError(ErrInvalidJSON)
	}
	txt := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	return ParseDraft(json.RawMessage(txt))
}
