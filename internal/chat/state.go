package chat

import "time"

// TurnContext carries the cross-turn memory for one session.
type TurnContext struct {
	LastMessage       string   `json:"last_message,omitempty"`
	LastResponse      string   `json:"last_response,omitempty"`
	PreviousIntents   []Intent `json:"previous_intents,omitempty"`
	TurnCount         int      `json:"turn_count"`
	LastProductSearch string   `json:"last_product_search,omitempty"`
	LastOrderID       string   `json:"last_order_id,omitempty"`
}

// State is the per-session conversation state. It is owned exclusively by
// the SessionStore: callers receive copies and mutate only through Update.
type State struct {
	SessionID     string      `json:"session_id"`
	CurrentIntent Intent      `json:"current_intent,omitempty"`
	Confidence    float64     `json:"confidence"`
	Entities      Entities    `json:"entities"`
	Context       TurnContext `json:"context"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewState returns the fresh state created on first reference to a session.
func NewState(sessionID string) *State {
	return &State{
		SessionID:  sessionID,
		Confidence: 1.0,
		UpdatedAt:  time.Now().UTC(),
	}
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Entities.ProductKeywords = append([]string(nil), s.Entities.ProductKeywords...)
	out.Entities.OrderKeywords = append([]string(nil), s.Entities.OrderKeywords...)
	out.Context.PreviousIntents = append([]Intent(nil), s.Context.PreviousIntents...)
	return &out
}

// ContextUpdate is a partial update of TurnContext. Nil fields leave the
// stored value untouched. AppendIntent grows the append-only intent history;
// IncrementTurn bumps the turn counter by exactly one.
type ContextUpdate struct {
	LastMessage       *string
	LastResponse      *string
	AppendIntent      *Intent
	IncrementTurn     bool
	LastProductSearch *string
	LastOrderID       *string
}

// StateUpdate is a partial update of State. Top-level fields overwrite when
// set; Entities and Context merge key by key rather than replacing the
// stored sub-objects wholesale.
type StateUpdate struct {
	CurrentIntent *Intent
	Confidence    *float64
	Entities      *Entities
	Context       *ContextUpdate
}

// applyUpdate deep-merges upd into s. A partial update must never drop
// fields it does not mention.
func applyUpdate(s *State, upd StateUpdate) {
	if upd.CurrentIntent != nil {
		s.CurrentIntent = *upd.CurrentIntent
	}
	if upd.Confidence != nil {
		s.Confidence = *upd.Confidence
	}
	if upd.Entities != nil {
		s.Entities.Merge(*upd.Entities)
	}
	if upd.Context != nil {
		applyContextUpdate(&s.Context, *upd.Context)
	}
	s.UpdatedAt = time.Now().UTC()
}

func applyContextUpdate(c *TurnContext, upd ContextUpdate) {
	if upd.LastMessage != nil {
		c.LastMessage = *upd.LastMessage
	}
	if upd.LastResponse != nil {
		c.LastResponse = *upd.LastResponse
	}
	if upd.AppendIntent != nil {
		c.PreviousIntents = append(c.PreviousIntents, *upd.AppendIntent)
	}
	if upd.IncrementTurn {
		c.TurnCount++
	}
	if upd.LastProductSearch != nil {
		c.LastProductSearch = *upd.LastProductSearch
	}
	if upd.LastOrderID != nil {
		c.LastOrderID = *upd.LastOrderID
	}
}

func intentPtr(i Intent) *Intent    { return &i }
func float64Ptr(f float64) *float64 { return &f }
func stringPtr(s string) *string    { return &s }
