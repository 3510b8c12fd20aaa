package ai

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/tindaph/tinda-backend/internal/reqctx"
	"google.golang.org/genai"
)

// Fixed replies used in place of generated text. Generation never fails the
// request.
const (
	FallbackNoKey = "This is a great item! (AI Description unavailable without API Key)"
	FallbackEmpty = "Could not generate description."
	FallbackError = "Error generating description. Please try again."
)

const DefaultModel = "gemini-2.5-flash"

type DescriptionGenerator interface {
	Generate(ctx context.Context, in DescriptionInput) string
}

// textModel is the slice of the genai client we use.
type textModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiDescriptionClient struct {
	apiKey  string
	model   string
	timeout time.Duration
	newFn   func(ctx context.Context) (textModel, error)
}

func NewGeminiDescriptionClient(apiKey, model string) *GeminiDescriptionClient {
	if model == "" {
		model = DefaultModel
	}
	c := &GeminiDescriptionClient{apiKey: apiKey, model: model, timeout: 20 * time.Second}
	c.newFn = func(ctx context.Context) (textModel, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}
		return client.Models, nil
	}
	return c
}

// Generate returns a short sales description, or one of the fallback
// strings when the model is unavailable or misbehaves.
func (c *GeminiDescriptionClient) Generate(ctx context.Context, in DescriptionInput) string {
	rid := reqctx.RID(ctx)
	if c.apiKey == "" {
		log.Printf("[ai] rid=%s stage=skip reason=no_api_key", rid)
		return FallbackNoKey
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	models, err := c.newFn(ctx)
	if err != nil {
		log.Printf("[ai] rid=%s stage=client_init err=%v", rid, err)
		return FallbackError
	}

	parts := []*genai.Part{genai.NewPartFromText(BuildDescriptionPrompt(in))}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	temp := float32(0.8)
	config := &genai.GenerateContentConfig{Temperature: &temp}

	log.Printf("[ai] rid=%s stage=gemini_start model=%s", rid, c.model)
	res, err := models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		log.Printf("[ai] rid=%s stage=gemini_fail model=%s err=%v", rid, c.model, err)
		return FallbackError
	}
	text, err := NormalizeDescription(res.Text())
	if errors.Is(err, ErrEmptyText) {
		log.Printf("[ai] rid=%s stage=empty_output model=%s", rid, c.model)
		return FallbackEmpty
	}
	log.Printf("[ai] rid=%s stage=gemini_done model=%s len=%d totalMs=%d", rid, c.model, len(text), time.Since(start).Milliseconds())
	return text
}
