package chat

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest is a provider-neutral completion request. MaxTokens and
// Temperature may be left unset; the clients fill them with the storefront
// reply defaults. A negative Temperature asks the provider for its own
// default instead.
type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// Chat replies are short: a tight token cap keeps answers widget-sized, and
// the temperature suits conversational Indonesian without drifting into
// invented stock or promo details.
const (
	defaultReplyMaxTokens   int32   = 512
	defaultReplyTemperature float32 = 0.7
)

func normalizeReplyRequest(req LLMRequest) LLMRequest {
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultReplyMaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = defaultReplyTemperature
	}
	return req
}
