package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/replydesk/replydesk/internal/knowledge"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini drafts replies with the Gemini API. The prompt embeds the
// knowledge base as question/answer context and asks the model to report
// its own confidence alongside the reply.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a generator for the given API key. The model name is
// optional and falls back to a sensible default.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("draft: gemini api key required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("draft: create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Draft generates a reply for the comment using the knowledge base.
func (g *Gemini) Draft(ctx context.Context, commentText string, kb []knowledge.Entry) (Result, error) {
	prompt := buildPrompt(commentText, kb)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		TopP:             genai.Ptr[float32](0.95),
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return Result{}, fmt.Errorf("draft: generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Result{}, errors.New("draft: empty model response")
	}
	return parseModelOutput(resp.Candidates[0].Content.Parts[0].Text), nil
}

func buildPrompt(commentText string, kb []knowledge.Entry) string {
	var context strings.Builder
	for _, entry := range kb {
		context.WriteString("Q: ")
		context.WriteString(entry.Question)
		context.WriteString("\nA: ")
		context.WriteString(entry.Answer)
		context.WriteString("\n\n")
	}

	return fmt.Sprintf(`You are an expert customer support representative.
Use the following knowledge base to answer the viewer comment.
If the answer is not in the knowledge base, politely inform the user that you will look into it and report low confidence.
Keep the tone professional yet friendly and the reply concise.

KNOWLEDGE BASE:
%s
VIEWER COMMENT:
%q

Respond with a single JSON object of the form
{"reply": "<the drafted reply>", "confidence": <integer 0-100>}
where confidence reflects how directly the knowledge base answers the comment.`, context.String(), commentText)
}

type modelOutput struct {
	Reply      string `json:"reply"`
	Confidence int    `json:"confidence"`
}

// parseModelOutput tolerates fenced or otherwise decorated JSON. When the
// output cannot be parsed at all the raw text becomes a zero-confidence
// draft, so a misbehaving model degrades an item instead of failing it.
func parseModelOutput(raw string) Result {
	cleaned := cleanJSON(raw)
	var out modelOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil || out.Reply == "" {
		return Result{Text: strings.TrimSpace(raw), Score: 0}
	}
	return Result{Text: strings.TrimSpace(out.Reply), Score: out.Confidence}
}

func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
