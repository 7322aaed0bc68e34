package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/domain"
)

const visionPrompt = `You are an e-commerce vision assistant. Describe the ` +
	`product in the image in one short lowercase phrase suitable for catalog ` +
	`search: color, item type, category, material, style. No brand names, ` +
	`no prices, no prose.`

// VisionClient produces a short text description of an image via an
// OpenAI-compatible chat API with image input.
type VisionClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// VisionConfig holds the image describer settings.
type VisionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewVisionClient creates an image description client.
func NewVisionClient(cfg *VisionConfig) *VisionClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &VisionClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Describe returns a compact product description of the image bytes.
// Failures wrap domain.ErrDescriberUnavailable; the caller degrades to a
// generic query rather than surfacing the error.
func (c *VisionClient) Describe(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image payload", domain.ErrDescriberUnavailable)
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDescriberUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domain.ErrDescriberUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
