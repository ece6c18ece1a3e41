package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tokoline/tokochat/internal/auth"
	"github.com/tokoline/tokochat/internal/observability/metrics"
	"github.com/tokoline/tokochat/pkg/logging"
)

// ErrEmptyMessage is returned when a turn arrives without message text.
// It is the only engine error the boundary maps to a client error.
var ErrEmptyMessage = errors.New("chat: message is required")

// TurnResult is the outcome of one handled turn.
type TurnResult struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// Actions bundles the external collaborators the engine dispatches to.
// Products/Orders have local fallbacks used when the external call fails or
// returns nothing; Users has none because membership data is auth-sensitive.
type Actions struct {
	Products      ProductSearcher
	LocalProducts ProductSearcher
	Orders        OrderLookup
	LocalOrders   OrderLookup
	Users         StatusLookup
	Responder     GeneralResponder
}

// Engine is the dialogue router: per turn it resolves session state, runs
// the classifier, applies the fallback gate, dispatches to an action, and
// records the turn back into state.
type Engine struct {
	store      SessionStore
	actions    Actions
	replies    *ReplyPicker
	transcript TranscriptAppender
	metrics    *metrics.ChatMetrics
	logger     *logging.Logger

	callTimeout time.Duration

	locks *keyedMutex
}

const defaultCallTimeout = 10 * time.Second

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithReplyPicker overrides the canned reply pools.
func WithReplyPicker(picker *ReplyPicker) EngineOption {
	return func(e *Engine) {
		if picker != nil {
			e.replies = picker
		}
	}
}

// WithTranscript enables durable turn transcripts.
func WithTranscript(store TranscriptAppender) EngineOption {
	return func(e *Engine) { e.transcript = store }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.ChatMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithCallTimeout bounds each external action call.
func WithCallTimeout(timeout time.Duration) EngineOption {
	return func(e *Engine) {
		if timeout > 0 {
			e.callTimeout = timeout
		}
	}
}

// NewEngine wires the dialogue router.
func NewEngine(store SessionStore, actions Actions, logger *logging.Logger, opts ...EngineOption) *Engine {
	if store == nil {
		panic("chat: session store cannot be nil")
	}
	if actions.Responder == nil {
		panic("chat: general responder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	e := &Engine{
		store:       store,
		actions:     actions,
		replies:     NewReplyPicker(),
		logger:      logger,
		callTimeout: defaultCallTimeout,
		locks:       newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// actionResult carries an action's response text plus the context fields the
// final state update should record.
type actionResult struct {
	response          string
	lastProductSearch string
	lastOrderID       string
}

// HandleTurn processes one request/response exchange. An empty sessionID
// starts a new session. Auth, when present, travels in ctx.
//
// Action failures are converted to apologetic text locally; only a
// general-responder failure propagates, since an open-domain answer has no
// canned substitute.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// The read-classify-merge-dispatch-merge cycle must be serialized per
	// session or concurrent turns would lose updates.
	e.locks.Lock(sessionID)
	defer e.locks.Unlock(sessionID)

	state, err := e.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("chat: failed to resolve session: %w", err)
	}

	cls := Classify(message, state)

	// Pre-dispatch merge: the fresh classification is visible to anything
	// that re-reads state within this turn.
	state, err = e.store.Update(ctx, sessionID, StateUpdate{
		CurrentIntent: intentPtr(cls.Intent),
		Confidence:    float64Ptr(cls.Confidence),
		Entities:      &cls.Entities,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: failed to update session: %w", err)
	}

	var result actionResult
	if ShouldUseFallback(cls) {
		result.response = e.replies.Fallback()
		e.metrics.ObserveFallback()
	} else {
		result, err = e.dispatch(ctx, message, cls, state)
		if err != nil {
			return nil, err
		}
	}

	ctxUpdate := &ContextUpdate{
		LastMessage:   stringPtr(message),
		LastResponse:  stringPtr(result.response),
		AppendIntent:  intentPtr(cls.Intent),
		IncrementTurn: true,
	}
	if result.lastProductSearch != "" {
		ctxUpdate.LastProductSearch = stringPtr(result.lastProductSearch)
	}
	if result.lastOrderID != "" {
		ctxUpdate.LastOrderID = stringPtr(result.lastOrderID)
	}
	if _, err := e.store.Update(ctx, sessionID, StateUpdate{Context: ctxUpdate}); err != nil {
		return nil, fmt.Errorf("chat: failed to record turn: %w", err)
	}

	if e.transcript != nil {
		if err := e.transcript.AppendTurn(ctx, sessionID, message, result.response, cls.Intent); err != nil {
			e.logger.Error("failed to persist transcript", "error", err, "session_id", sessionID)
		}
	}

	e.metrics.ObserveTurn(string(cls.Intent))
	e.logger.Debug("turn handled",
		"session_id", sessionID,
		"intent", cls.Intent,
		"confidence", cls.Confidence,
	)

	return &TurnResult{Response: result.response, SessionID: sessionID}, nil
}

// ClearSession removes a session entirely.
func (e *Engine) ClearSession(ctx context.Context, sessionID string) error {
	e.locks.Lock(sessionID)
	defer e.locks.Unlock(sessionID)

	return e.store.Clear(ctx, sessionID)
}

// ListSessions returns a snapshot of tracked session ids.
func (e *Engine) ListSessions(ctx context.Context) ([]string, error) {
	return e.store.ListSessionIDs(ctx)
}

// dispatch routes a classified turn to its action. Intents without a
// specific handler fall through to the general responder, as does any
// handler whose required entity is missing.
func (e *Engine) dispatch(ctx context.Context, message string, cls Classification, state *State) (actionResult, error) {
	switch cls.Intent {
	case IntentProductSearch:
		return e.handleProductSearch(ctx, message, cls.Entities, state)
	case IntentOrderTracking:
		return e.handleOrderTracking(ctx, message, cls.Entities, state)
	case IntentGreeting:
		return actionResult{response: e.replies.Greeting()}, nil
	case IntentUserStatus:
		return e.handleUserStatus(ctx, cls.Entities)
	case IntentOrderAction:
		return actionResult{response: formatOrderAction(cls.Entities.OrderAction, cls.Entities.OrderID)}, nil
	case IntentMenuQuery:
		return actionResult{response: menuResponse}, nil
	default:
		return e.handleGeneral(ctx, message, state)
	}
}

func (e *Engine) handleProductSearch(ctx context.Context, message string, ents Entities, state *State) (actionResult, error) {
	query := ents.ProductName
	if query == "" && len(ents.ProductKeywords) > 0 {
		query = ents.ProductKeywords[0]
	}
	if query == "" {
		// Color/size/category alone is not enough to search on.
		return e.handleGeneral(ctx, message, state)
	}

	filters := SearchFilters{
		Category: ents.Category,
		Color:    ents.Color,
		Size:     ents.Size,
	}
	ac, _ := auth.FromContext(ctx)

	products := e.searchProducts(ctx, e.actions.Products, "catalog", query, filters, ac)
	if len(products) == 0 {
		products = e.searchProducts(ctx, e.actions.LocalProducts, "catalog_local", query, filters, ac)
	}

	if len(products) == 0 {
		return actionResult{response: productsNotFoundResponse, lastProductSearch: query}, nil
	}
	return actionResult{response: formatProducts(query, products), lastProductSearch: query}, nil
}

func (e *Engine) searchProducts(ctx context.Context, searcher ProductSearcher, action, query string, filters SearchFilters, ac *auth.Context) []Product {
	if searcher == nil {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	start := time.Now()
	products, err := searcher.Search(callCtx, query, filters, 1, 10, ac)
	if err != nil {
		e.metrics.ObserveExternalCall(action, "error", time.Since(start).Seconds())
		e.logger.Warn("product search failed", "action", action, "error", err, "query", query)
		return nil
	}
	e.metrics.ObserveExternalCall(action, "ok", time.Since(start).Seconds())
	return products
}

func (e *Engine) handleOrderTracking(ctx context.Context, message string, ents Entities, state *State) (actionResult, error) {
	orderID := ents.OrderID
	if orderID == "" {
		return e.handleGeneral(ctx, message, state)
	}
	ac, _ := auth.FromContext(ctx)

	order := e.lookupOrder(ctx, e.actions.Orders, "orders", orderID, ac)
	if order == nil {
		order = e.lookupOrder(ctx, e.actions.LocalOrders, "orders_local", orderID, ac)
	}

	if order == nil {
		return actionResult{response: orderNotFoundResponse, lastOrderID: orderID}, nil
	}
	return actionResult{response: formatOrder(order), lastOrderID: orderID}, nil
}

func (e *Engine) lookupOrder(ctx context.Context, lookup OrderLookup, action, orderID string, ac *auth.Context) *Order {
	if lookup == nil {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	start := time.Now()
	order, err := lookup.Lookup(callCtx, orderID, ac)
	if err != nil {
		e.metrics.ObserveExternalCall(action, "error", time.Since(start).Seconds())
		e.logger.Warn("order lookup failed", "action", action, "error", err, "order_id", orderID)
		return nil
	}
	e.metrics.ObserveExternalCall(action, "ok", time.Since(start).Seconds())
	return order
}

func (e *Engine) handleUserStatus(ctx context.Context, ents Entities) (actionResult, error) {
	ac, ok := auth.FromContext(ctx)
	userID := ents.UserID
	if userID == "" && ok {
		userID = ac.UserID
	}
	// Membership data has no safe mock substitute; without both an auth
	// context and a resolved user id there is nothing to call.
	if !ok || userID == "" || e.actions.Users == nil {
		return actionResult{response: loginRequiredResponse}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	start := time.Now()
	profile, err := e.actions.Users.Status(callCtx, userID, ac)
	if err != nil {
		e.metrics.ObserveExternalCall("users", "error", time.Since(start).Seconds())
		e.logger.Warn("user status lookup failed", "error", err, "user_id", userID)
		return actionResult{response: statusUnavailableResponse}, nil
	}
	e.metrics.ObserveExternalCall("users", "ok", time.Since(start).Seconds())
	return actionResult{response: formatProfile(profile)}, nil
}

func (e *Engine) handleGeneral(ctx context.Context, message string, state *State) (actionResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	start := time.Now()
	response, err := e.actions.Responder.Respond(callCtx, message, priorTurnSummary(state))
	if err != nil {
		e.metrics.ObserveExternalCall("responder", "error", time.Since(start).Seconds())
		return actionResult{}, fmt.Errorf("chat: general responder: %w", err)
	}
	e.metrics.ObserveExternalCall("responder", "ok", time.Since(start).Seconds())
	return actionResult{response: response}, nil
}
