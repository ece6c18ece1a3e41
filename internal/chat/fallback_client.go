package chat

import (
	"context"
	"fmt"

	"github.com/tokoline/tokochat/pkg/logging"
)

// FallbackLLMClient chains a primary completion provider with a standby
// one. A turn is answered by whichever provider completes first in order;
// the standby is consulted only after the primary errors, so a healthy
// primary never pays for the second provider.
type FallbackLLMClient struct {
	primary LLMClient
	standby LLMClient
	logger  *logging.Logger
}

// NewFallbackLLMClient wires the provider chain. standby may be nil, in
// which case primary failures surface directly.
func NewFallbackLLMClient(primary, standby LLMClient, logger *logging.Logger) *FallbackLLMClient {
	if primary == nil {
		panic("chat: primary llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackLLMClient{
		primary: primary,
		standby: standby,
		logger:  logger,
	}
}

func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, primaryErr := c.primary.Complete(ctx, req)
	if primaryErr == nil {
		return resp, nil
	}

	if c.standby == nil {
		return LLMResponse{}, fmt.Errorf("chat: primary completion failed with no standby: %w", primaryErr)
	}

	c.logger.Warn("primary completion failed, trying standby",
		"error", primaryErr.Error(),
	)

	resp, standbyErr := c.standby.Complete(ctx, req)
	if standbyErr != nil {
		c.logger.Error("standby completion failed as well",
			"primary_error", primaryErr.Error(),
			"standby_error", standbyErr.Error(),
		)
		return LLMResponse{}, fmt.Errorf("chat: standby completion failed after primary (%v): %w", primaryErr, standbyErr)
	}

	c.logger.Info("standby completion answered the turn")
	return resp, nil
}
