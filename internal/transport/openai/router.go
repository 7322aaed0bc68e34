package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/intent"
	"github.com/shoplens/discovery/internal/metrics"
)

const routerSystemPrompt = `You are a shopping assistant's routing controller. ` +
	`Decide which tool should handle the user's message. ` +
	`Available tools: general_conversation, text_product_search, image_product_search. ` +
	`Rules:
- Use image_product_search if the user provided an image or asks to analyze a photo/picture.
- Use text_product_search for any shopping/product-related intent described in text.
- Use general_conversation for greetings, questions about the assistant, or non-shopping chat.
Output strict JSON with keys: route (one of the three tool names), rationale (short).`

// RouterClient classifies messages into routable tool names via an
// OpenAI-compatible chat API with structured JSON output.
type RouterClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// RouterConfig holds the LLM router settings.
type RouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewRouterClient creates an LLM router client.
func NewRouterClient(cfg *RouterConfig) *RouterClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &RouterClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Classify asks the LLM which tool should handle the message. Any failure
// (transport, malformed output, unknown tool name) is reported as an error
// wrapping domain.ErrClassifierUnavailable; the caller owns the fallback.
func (c *RouterClient) Classify(ctx context.Context, message string) (intent.Intent, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: routerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "User message: " + message + "\nReturn JSON only."},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		metrics.RouterRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		metrics.RouterRequestsTotal.WithLabelValues("invalid_output").Inc()
		return "", fmt.Errorf("%w: empty completion", domain.ErrClassifierUnavailable)
	}

	route := parseRoute(resp.Choices[0].Message.Content)
	in, ok := intent.FromTool(route)
	if !ok {
		metrics.RouterRequestsTotal.WithLabelValues("invalid_output").Inc()
		return "", fmt.Errorf("%w: unrecognized route %q", domain.ErrClassifierUnavailable, route)
	}

	metrics.RouterRequestsTotal.WithLabelValues("success").Inc()
	return in, nil
}

// parseRoute extracts the tool name from the model output. Strict JSON is
// tried first; free-form output falls back to a substring scan.
func parseRoute(content string) string {
	var payload struct {
		Route string `json:"route"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err == nil && payload.Route != "" {
		return strings.TrimSpace(payload.Route)
	}

	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, intent.ToolImageProductSearch):
		return intent.ToolImageProductSearch
	case strings.Contains(lower, intent.ToolTextProductSearch), strings.Contains(lower, "product_search"):
		return intent.ToolTextProductSearch
	case strings.Contains(lower, intent.ToolGeneralConversation), strings.Contains(lower, "general"):
		return intent.ToolGeneralConversation
	default:
		return ""
	}
}
