package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/logger"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// generator is the part of genai.GenerativeModel the client relies on.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client sends prompts to the Gemini API.
type Client struct {
	client *genai.Client
	model  generator
	name   string
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string, modelName string) (*Client, error) {
	// option.WithHTTPClient interferes with the API key header injection
	// (403s); timeouts are enforced per call by the gateway instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = DefaultModel
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text("You translate and edit railway maintenance records. Follow the user's instructions exactly.")},
	}

	return &Client{
		client: client,
		model:  model,
		name:   modelName,
	}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.name }

var _ gateway.Completer = (*Client)(nil)

// Complete sends one prompt. Blocked or empty candidates are reported as
// Success=false; API and transport failures as classified errors.
func (c *Client) Complete(ctx context.Context, prompt string) (gateway.Completion, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return gateway.Completion{}, classifyGeminiError(err)
	}

	comp := gateway.Completion{}
	if resp != nil && resp.UsageMetadata != nil {
		comp.Usage = gateway.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	text, err := extractResponseText(resp)
	if err != nil {
		logger.Warn("Gemini returned no usable text", "model", c.name, "error", err)
		return comp, nil
	}
	comp.Success = true
	comp.Text = strings.TrimSpace(text)
	return comp, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked by Gemini: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined strings.Builder
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined.WriteString(string(text))
		}
		if combined.Len() > 0 {
			return combined.String(), nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
