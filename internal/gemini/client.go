// Package gemini wraps the Gemini SDK as a text-array translation backend.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/httpclient"
	"google.golang.org/api/option"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gemini-2.5-flash"

// SystemInstruction tells the model how to treat a RequestData document.
const SystemInstruction = `You are a professional software localizer.
You receive a JSON object with "target_language", optional "formality", optional "html" and "texts".
Translate every entry of "texts" into target_language and reply with a JSON object {"translations": [...]}.
The reply must contain exactly one translation per input text in the same order.
When "html" is true keep every tag and attribute unchanged and translate only text nodes.
Never translate placeholders such as :name, {name} or %s.`

// Client handles communication with the Gemini API.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string, modelName string) (*Client, error) {
	// option.WithHTTPClient breaks the SDK's API key header injection, so
	// timeouts are enforced through the context in Translate instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = DefaultModel
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	c := &Client{
		client: client,
		model:  model,
	}
	c.SetSystemInstruction(SystemInstruction)
	return c, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

// SetSystemInstruction sets the system prompt for the model.
func (c *Client) SetSystemInstruction(prompt string) {
	c.model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt)},
	}
}

// Translator is the part of Client the provider adapter depends on.
type Translator interface {
	Translate(ctx context.Context, request RequestData) (*ResponseData, error)
}

var _ Translator = (*Client)(nil)

// Translate sends request to Gemini and returns one translation per input text.
func (c *Client) Translate(ctx context.Context, request RequestData) (*ResponseData, error) {
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(string(requestJSON)))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return nil, apperrors.Remote(ProviderName, apperrors.KindValidation, "", err)
	}
	responseData, err := decodeResponse(text, len(request.Texts))
	if err != nil {
		return nil, err
	}

	if resp.UsageMetadata != nil {
		responseData.Usage = UsageMetadata{
			PromptTokenCount:     int(resp.UsageMetadata.PromptTokenCount),
			CandidatesTokenCount: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokenCount:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return responseData, nil
}

// decodeResponse accepts either {"translations": [...]} or a bare array.
// The raw model text is never included in the error.
func decodeResponse(text string, want int) (*ResponseData, error) {
	var responseData ResponseData
	if err := json.Unmarshal([]byte(text), &responseData); err != nil {
		var arr []string
		if err2 := json.Unmarshal([]byte(text), &arr); err2 != nil {
			return nil, apperrors.Remote(ProviderName, apperrors.KindValidation, "Gemini response format was invalid.",
				fmt.Errorf("failed to unmarshal response: %w", err))
		}
		responseData.Translations = arr
	}
	if len(responseData.Translations) != want {
		return nil, apperrors.Remote(ProviderName, apperrors.KindValidation, "Gemini returned an unexpected number of translations.",
			fmt.Errorf("got %d translations for %d texts", len(responseData.Translations), want))
	}
	return &responseData, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				combined.WriteString(string(text))
			}
		}
		if combined.Len() > 0 {
			return combined.String(), nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
