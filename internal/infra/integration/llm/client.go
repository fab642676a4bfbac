package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/cazehq/bizcon/internal/entity"
)

// ErrContentFiltered marks a completion rejected by the provider's content
// policy. Callers end the conversation instead of retrying.
var ErrContentFiltered = errors.New("completion rejected by content policy")

const defaultTimeout = 60 * time.Second

type Client struct {
	client openaigo.Client
	model  string
}

func NewClient(baseURL, apiKey, model string) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		option.WithHTTPClient(&http.Client{Timeout: defaultTimeout}),
		option.WithMaxRetries(2),
		option.WithRequestTimeout(defaultTimeout),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	return &Client{
		client: openaigo.NewClient(opts...),
		model:  model,
	}
}

// Complete issues one chat completion over the full message sequence. The
// leading context message maps to the system role.
func (c *Client) Complete(ctx context.Context, messages []entity.Message) (string, error) {
	params := openaigo.ChatCompletionNewParams{
		Model:    openaigo.ChatModel(c.model),
		Messages: toParams(messages),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if isContentFilterError(err) {
			return "", ErrContentFiltered
		}
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", ErrContentFiltered
	}
	return choice.Message.Content, nil
}

func toParams(messages []entity.Message) []openaigo.ChatCompletionMessageParamUnion {
	out := make([]openaigo.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case entity.RoleContext:
			out = append(out, openaigo.SystemMessage(m.Content))
		case entity.RoleUser:
			out = append(out, openaigo.UserMessage(m.Content))
		case entity.RoleAI:
			out = append(out, openaigo.AssistantMessage(m.Content))
		}
	}
	return out
}

func isContentFilterError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "content_filter") || strings.Contains(msg, "content management policy")
}
