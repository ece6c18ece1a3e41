package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// GeneralResponder produces an open-domain answer for messages that no
// specific action handles. priorSummary is empty on a session's first turn.
type GeneralResponder interface {
	Respond(ctx context.Context, message, priorSummary string) (string, error)
}

const responderSystemPrompt = `Kamu adalah asisten layanan pelanggan Tokoline, toko busana muslim online.
Jawab dengan ramah dan singkat dalam bahasa yang sama dengan pelanggan.
Topik yang bisa kamu bantu: produk (gamis, hijab, mukena, dan lainnya),
status pesanan, pengiriman, pembayaran, dan keanggotaan.
Jika pelanggan menanyakan hal di luar topik toko, arahkan kembali dengan sopan.
Jangan mengarang informasi stok, harga, atau promo.`

// LLMResponder answers general queries through an LLMClient. Sampling knobs
// stay unset here; the clients fill in the storefront reply defaults.
type LLMResponder struct {
	client  LLMClient
	modelID string
}

// NewLLMResponder creates a responder bound to a model id.
func NewLLMResponder(client LLMClient, modelID string) (*LLMResponder, error) {
	if client == nil {
		return nil, errors.New("chat: llm client is required")
	}
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("chat: responder model id is required")
	}
	return &LLMResponder{client: client, modelID: modelID}, nil
}

// Respond sends the message (and, when present, a short summary of the
// previous turn) to the language model.
func (r *LLMResponder) Respond(ctx context.Context, message, priorSummary string) (string, error) {
	system := []string{responderSystemPrompt}
	if strings.TrimSpace(priorSummary) != "" {
		system = append(system, "Konteks percakapan sebelumnya:\n"+priorSummary)
	}

	resp, err := r.client.Complete(ctx, LLMRequest{
		Model:    r.modelID,
		System:   system,
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: message}},
	})
	if err != nil {
		return "", fmt.Errorf("chat: general responder failed: %w", err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", errors.New("chat: general responder returned empty text")
	}
	return resp.Text, nil
}

// priorTurnSummary renders the previous exchange as a short natural-language
// note for the responder. Returns "" when no turn has completed yet.
func priorTurnSummary(state *State) string {
	if state == nil || state.Context.TurnCount == 0 {
		return ""
	}
	var b strings.Builder
	if state.Context.LastMessage != "" {
		fmt.Fprintf(&b, "Pelanggan: %s\n", state.Context.LastMessage)
	}
	if state.Context.LastResponse != "" {
		fmt.Fprintf(&b, "Asisten: %s", state.Context.LastResponse)
	}
	return strings.TrimSpace(b.String())
}
