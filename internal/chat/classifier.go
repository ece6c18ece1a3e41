package chat

import "strings"

// Intent is the coarse category of user need inferred from a message.
type Intent string

const (
	IntentProductSearch Intent = "PRODUCT_SEARCH"
	IntentOrderTracking Intent = "ORDER_TRACKING"
	IntentGreeting      Intent = "GREETING"
	IntentGeneralQuery  Intent = "GENERAL_QUERY"
	IntentFallback      Intent = "FALLBACK"
	IntentUserStatus    Intent = "USER_STATUS"
	IntentMenuQuery     Intent = "MENU_QUERY"
	IntentOrderAction   Intent = "ORDER_ACTION"
	IntentGeneralFAQ    Intent = "GENERAL_FAQ"

	// IntentNone marks a session that has not classified any turn yet.
	IntentNone Intent = ""
)

// Classification is the classifier's verdict for a single message.
type Classification struct {
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   Entities `json:"entities"`
}

// fallbackThreshold is the confidence below which the router answers with a
// canned apology instead of dispatching. Only the default GENERAL_QUERY
// branch (0.3) scores under it; every rule outcome is >= 0.5.
const fallbackThreshold = 0.4

var greetingVocabulary = []string{
	"assalamualaikum",
	"halo",
	"hallo",
	"hai",
	"hello",
	"hei",
	"hey",
	"selamat pagi",
	"selamat siang",
	"selamat sore",
	"selamat malam",
	"pagi",
	"siang",
	"sore",
	"malam",
}

// "hi" is deliberately absent from the vocabulary: as a substring it
// collides with "hijab", the storefront's highest-volume product keyword.

// maxGreetingLength bounds the greeting rule so a long message that merely
// opens with "halo" still classifies on its real content.
const maxGreetingLength = 20

// classifierRule is one step of the decision cascade. Rules are evaluated
// top to bottom and the first match wins.
type classifierRule struct {
	name  string
	apply func(message string, ents Entities, prior *State) (Classification, bool)
}

var classifierRules = []classifierRule{
	{
		name: "greeting",
		apply: func(message string, ents Entities, _ *State) (Classification, bool) {
			if len(message) >= maxGreetingLength {
				return Classification{}, false
			}
			lower := strings.ToLower(message)
			for _, greeting := range greetingVocabulary {
				if strings.Contains(lower, greeting) {
					// Entities are intentionally discarded for greetings.
					return Classification{Intent: IntentGreeting, Confidence: 0.9}, true
				}
			}
			return Classification{}, false
		},
	},
	{
		name: "product_search",
		apply: func(_ string, ents Entities, _ *State) (Classification, bool) {
			hasName := ents.ProductName != "" || len(ents.ProductKeywords) > 0
			if !hasName && ents.Color == "" && ents.Size == "" && ents.Category == "" {
				return Classification{}, false
			}
			confidence := 0.7
			if hasName {
				confidence = 0.85
			}
			return Classification{Intent: IntentProductSearch, Confidence: confidence, Entities: ents}, true
		},
	},
	{
		name: "order_tracking",
		apply: func(_ string, ents Entities, _ *State) (Classification, bool) {
			if len(ents.OrderKeywords) == 0 && ents.OrderID == "" {
				return Classification{}, false
			}
			confidence := 0.75
			if ents.OrderID != "" {
				confidence = 0.9
			}
			return Classification{Intent: IntentOrderTracking, Confidence: confidence, Entities: ents}, true
		},
	},
	{
		name: "order_action",
		apply: func(_ string, ents Entities, _ *State) (Classification, bool) {
			if ents.OrderAction == "" {
				return Classification{}, false
			}
			return Classification{Intent: IntentOrderAction, Confidence: 0.85, Entities: ents}, true
		},
	},
	{
		name: "user_status",
		apply: func(_ string, ents Entities, _ *State) (Classification, bool) {
			if !ents.UserStatus {
				return Classification{}, false
			}
			return Classification{Intent: IntentUserStatus, Confidence: 0.9, Entities: ents}, true
		},
	},
	{
		name: "menu_query",
		apply: func(_ string, ents Entities, _ *State) (Classification, bool) {
			if !ents.MenuQuery {
				return Classification{}, false
			}
			return Classification{Intent: IntentMenuQuery, Confidence: 0.9, Entities: ents}, true
		},
	},
	{
		name: "general_faq",
		apply: func(_ string, ents Entities, _ *State) (Classification, bool) {
			if !ents.GeneralFAQ {
				return Classification{}, false
			}
			return Classification{Intent: IntentGeneralFAQ, Confidence: 0.85, Entities: ents}, true
		},
	},
	{
		name: "context_continuation",
		apply: func(_ string, ents Entities, prior *State) (Classification, bool) {
			if prior == nil || prior.CurrentIntent == IntentNone {
				return Classification{}, false
			}
			// Reuses the previous intent with this turn's (possibly empty)
			// entities. The lower confidence marks it as an assumption
			// rather than fresh evidence.
			return Classification{Intent: prior.CurrentIntent, Confidence: 0.5, Entities: ents}, true
		},
	},
}

// Classify runs the message through entity extraction and the rule cascade.
// prior may be nil for a session's first turn.
func Classify(message string, prior *State) Classification {
	ents := ExtractEntities(message)
	for _, rule := range classifierRules {
		if result, ok := rule.apply(message, ents, prior); ok {
			return result
		}
	}
	return Classification{Intent: IntentGeneralQuery, Confidence: 0.3, Entities: ents}
}

// ShouldUseFallback reports whether confidence is too low to act on the
// classified intent.
func ShouldUseFallback(c Classification) bool {
	return c.Confidence < fallbackThreshold
}
