// Package suggest asks a Gemini model to map headers that the deterministic
// resolution stages could not place. It is an optional collaborator: the
// engine treats every failure here as "no suggestion".
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"google.golang.org/genai"

	"github.com/cogenworks/plantparse/internal/engine"
	"github.com/cogenworks/plantparse/internal/registry"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

const systemPromptHeader = `You are an expert at mapping messy spreadsheet column headers to standard parameter names and detecting plant assets.

Map the given column header onto the registries below. Use exact parameter keys (like "coal_consumption") and exact asset ids (like "AFBC-1"). If nothing fits, use null.

Return JSON only, with this exact structure:
{
  "param_name": "parameter_key_or_null",
  "asset_name": "asset_id_or_null",
  "confidence": "high|medium|low",
  "reason": "one-sentence explanation"
}
`

// Client maps headers via the Gemini API.
// It is safe for concurrent use.
type Client struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

var _ engine.Suggester = (*Client)(nil)

// New builds a Client against the given registry. The registry contents are
// embedded in the system instruction so the model can only answer with known
// canonical ids.
func New(ctx context.Context, apiKey, model string, reg *registry.Registry) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("suggest: missing API key")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("suggest: create client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.1)),
			ResponseMIMEType: "application/json",
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{
					{Text: systemPrompt(reg)},
				},
			},
		},
	}, nil
}

// Suggest implements engine.Suggester.
func (c *Client) Suggest(ctx context.Context, header string) (*engine.Suggestion, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(headerPrompt(header)), c.config)
	if err != nil {
		return nil, fmt.Errorf("suggest: generate: %w", err)
	}
	return decodeSuggestion(result.Text())
}

func systemPrompt(reg *registry.Registry) string {
	return systemPromptHeader + "\n" + reg.PromptContext()
}

func headerPrompt(header string) string {
	return fmt.Sprintf("Map this spreadsheet column header: %q", header)
}

// suggestionPayload is the JSON shape the model is instructed to return.
type suggestionPayload struct {
	Param      string `json:"param_name"`
	Asset      string `json:"asset_name"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// decodeSuggestion parses the model's reply. Malformed JSON goes through a
// repair pass before giving up; a null or empty param means no suggestion.
func decodeSuggestion(text string) (*engine.Suggestion, error) {
	text = stripFences(text)

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		repaired, rerr := jsonrepair.RepairJSON(text)
		if rerr != nil {
			return nil, fmt.Errorf("suggest: unparseable reply: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return nil, fmt.Errorf("suggest: unparseable reply after repair: %w", err)
		}
	}

	param := cleanID(payload.Param)
	if param == "" {
		return nil, nil
	}

	return &engine.Suggestion{
		Param:      param,
		Asset:      cleanID(payload.Asset),
		Confidence: strings.ToLower(strings.TrimSpace(payload.Confidence)),
		Reason:     strings.TrimSpace(payload.Reason),
	}, nil
}

// cleanID normalizes a model-supplied id, treating textual nulls as absent.
func cleanID(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "none", "n/a":
		return ""
	}
	return s
}

// stripFences removes a surrounding markdown code fence, which some models
// emit even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
