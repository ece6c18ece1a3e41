package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLMClient struct {
	lastRequest LLMRequest
	response    LLMResponse
	err         error
}

func (c *stubLLMClient) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	c.lastRequest = req
	return c.response, c.err
}

func TestNewLLMResponder_Validation(t *testing.T) {
	_, err := NewLLMResponder(nil, "model-id")
	assert.Error(t, err)

	_, err = NewLLMResponder(&stubLLMClient{}, "  ")
	assert.Error(t, err)
}

func TestLLMResponder_Respond(t *testing.T) {
	client := &stubLLMClient{response: LLMResponse{Text: "Tentu kak, bisa dibantu."}}
	responder, err := NewLLMResponder(client, "model-id")
	require.NoError(t, err)

	got, err := responder.Respond(context.Background(), "ada promo apa?", "")
	require.NoError(t, err)
	assert.Equal(t, "Tentu kak, bisa dibantu.", got)

	assert.Equal(t, "model-id", client.lastRequest.Model)
	require.Len(t, client.lastRequest.Messages, 1)
	assert.Equal(t, ChatRoleUser, client.lastRequest.Messages[0].Role)
	assert.Equal(t, "ada promo apa?", client.lastRequest.Messages[0].Content)
	require.Len(t, client.lastRequest.System, 1)
}

func TestLLMResponder_Respond_WithPriorSummary(t *testing.T) {
	client := &stubLLMClient{response: LLMResponse{Text: "baik kak"}}
	responder, err := NewLLMResponder(client, "model-id")
	require.NoError(t, err)

	_, err = responder.Respond(context.Background(), "yang tadi gimana?", "Pelanggan: halo\nAsisten: halo juga")
	require.NoError(t, err)

	require.Len(t, client.lastRequest.System, 2)
	assert.Contains(t, client.lastRequest.System[1], "Pelanggan: halo")
}

func TestLLMResponder_Respond_Errors(t *testing.T) {
	client := &stubLLMClient{err: errors.New("model unavailable")}
	responder, err := NewLLMResponder(client, "model-id")
	require.NoError(t, err)

	_, err = responder.Respond(context.Background(), "halo", "")
	assert.Error(t, err)

	client.err = nil
	client.response = LLMResponse{Text: "   "}
	_, err = responder.Respond(context.Background(), "halo", "")
	assert.Error(t, err, "blank completion is an error")
}

func TestPriorTurnSummary(t *testing.T) {
	assert.Empty(t, priorTurnSummary(nil))
	assert.Empty(t, priorTurnSummary(&State{}), "no completed turn means no summary")

	state := &State{Context: TurnContext{
		TurnCount:    1,
		LastMessage:  "halo",
		LastResponse: "halo juga kak",
	}}
	summary := priorTurnSummary(state)
	assert.Contains(t, summary, "Pelanggan: halo")
	assert.Contains(t, summary, "Asisten: halo juga kak")
}

func TestFallbackLLMClient(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubLLMClient{response: LLMResponse{Text: "dari primary"}}
		fallback := &stubLLMClient{response: LLMResponse{Text: "dari fallback"}}
		client := NewFallbackLLMClient(primary, fallback, nil)

		resp, err := client.Complete(context.Background(), LLMRequest{})
		require.NoError(t, err)
		assert.Equal(t, "dari primary", resp.Text)
	})

	t.Run("primary fails, fallback succeeds", func(t *testing.T) {
		primary := &stubLLMClient{err: errors.New("down")}
		fallback := &stubLLMClient{response: LLMResponse{Text: "dari fallback"}}
		client := NewFallbackLLMClient(primary, fallback, nil)

		resp, err := client.Complete(context.Background(), LLMRequest{})
		require.NoError(t, err)
		assert.Equal(t, "dari fallback", resp.Text)
	})

	t.Run("no fallback configured", func(t *testing.T) {
		primary := &stubLLMClient{err: errors.New("down")}
		client := NewFallbackLLMClient(primary, nil, nil)

		_, err := client.Complete(context.Background(), LLMRequest{})
		assert.Error(t, err)
	})

	t.Run("both fail", func(t *testing.T) {
		primary := &stubLLMClient{err: errors.New("primary down")}
		fallback := &stubLLMClient{err: errors.New("fallback down")}
		client := NewFallbackLLMClient(primary, fallback, nil)

		_, err := client.Complete(context.Background(), LLMRequest{})
		assert.ErrorContains(t, err, "fallback down")
		assert.ErrorContains(t, err, "primary down", "the primary failure stays visible")
	})

	t.Run("nil primary panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewFallbackLLMClient(nil, &stubLLMClient{}, nil)
		})
	})
}
