package aiassist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

// Suggestion is one advisory mapping candidate for a single target variable.
type Suggestion struct {
	Variable     string
	SourceColumn string
	Confidence   float64
	Reasoning    string
}

// Client wraps an OpenAI chat-completions client configured for structured
// (JSON-schema) output, scoped to the single-variable mapping suggestion
// use case.
type Client struct {
	client openai.Client
	model  string
	cfg    Config
}

// NewClient builds a Client. Returns an error only for a misconfiguration
// that the caller should know about upfront (no API key available);
// runtime failures against the API never return an error from Suggest,
// they degrade to a nil suggestion instead.
func NewClient(cfg Config) (*Client, error) {
	apiKey := resolveAPIKey(cfg)
	if apiKey == "" {
		return nil, fmt.Errorf("aiassist: no OpenAI API key configured")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultConfig().Model
	}
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		cfg:    cfg,
	}, nil
}

type suggestionResponse struct {
	SelectedColumn string  `json:"selected_column"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

// Suggest asks the model to pick, among candidateColumns, the single best
// source column for target — or "none" if nothing fits — given a handful
// of sample rows (same column order as candidateColumns). It returns nil
// whenever it cannot produce a usable suggestion: no candidates, an API
// error, a timeout, a malformed response, or the model declining to pick
// one.
func (c *Client) Suggest(ctx context.Context, target standards.Variable, candidateColumns []string, sampleRows [][]string) *Suggestion {
	if c == nil || len(candidateColumns) == 0 {
		return nil
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if c.cfg.RequestTimeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	limit := c.cfg.MaxSampleRows
	if limit <= 0 {
		limit = DefaultConfig().MaxSampleRows
	}
	if len(sampleRows) > limit {
		sampleRows = sampleRows[:limit]
	}

	schema := c.buildSchema(candidateColumns)
	userContent := formatSuggestPrompt(target, candidateColumns, sampleRows)

	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userContent),
		},
		MaxCompletionTokens: openai.Int(300),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "mapping_suggestion",
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		slog.Warn("aiassist: completion failed, degrading to no suggestion", "variable", target.Name, "error", err)
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" || msg.Content == "" {
		return nil
	}

	var parsed suggestionResponse
	if err := json.Unmarshal([]byte(msg.Content), &parsed); err != nil {
		slog.Warn("aiassist: malformed JSON response, degrading to no suggestion", "variable", target.Name, "error", err)
		return nil
	}
	if parsed.SelectedColumn == "" || parsed.SelectedColumn == "none" {
		return nil
	}
	if !containsColumn(candidateColumns, parsed.SelectedColumn) {
		return nil
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > ConfidenceCeiling {
		confidence = ConfidenceCeiling
	}

	return &Suggestion{
		Variable:     target.Name,
		SourceColumn: parsed.SelectedColumn,
		Confidence:   confidence,
		Reasoning:    parsed.Reasoning,
	}
}

func containsColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

func (c *Client) buildSchema(candidateColumns []string) map[string]interface{} {
	enum := append([]string{"none"}, candidateColumns...)
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"selected_column": map[string]interface{}{
				"type": "string",
				"enum": enum,
			},
			"confidence": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
				"maximum": 1,
			},
			"reasoning": map[string]interface{}{
				"type":      "string",
				"maxLength": 256,
			},
		},
		"required":             []string{"selected_column", "confidence", "reasoning"},
		"additionalProperties": false,
	}
}
