package chat

import (
	"regexp"
	"strings"
)

// OrderAction is a requested operation on an existing order.
type OrderAction string

const (
	OrderActionCancel OrderAction = "cancel"
	OrderActionReturn OrderAction = "return"
	OrderActionRefund OrderAction = "refund"
)

// Entities is the structured bag of facts extracted from a single message.
// Fields are sparse: only non-zero values carry meaning.
type Entities struct {
	ProductName     string      `json:"product_name,omitempty"`
	ProductKeywords []string    `json:"product_keywords,omitempty"`
	Color           string      `json:"color,omitempty"`
	Size            string      `json:"size,omitempty"`
	Category        string      `json:"category,omitempty"`
	OrderID         string      `json:"order_id,omitempty"`
	OrderKeywords   []string    `json:"order_keywords,omitempty"`
	OrderAction     OrderAction `json:"order_action,omitempty"`
	UserStatus      bool        `json:"user_status,omitempty"`
	UserID          string      `json:"user_id,omitempty"`
	MenuQuery       bool        `json:"menu_query,omitempty"`
	GeneralFAQ      bool        `json:"general_faq,omitempty"`
}

// IsZero reports whether no entity was detected at all.
func (e Entities) IsZero() bool {
	return e.ProductName == "" &&
		len(e.ProductKeywords) == 0 &&
		e.Color == "" &&
		e.Size == "" &&
		e.Category == "" &&
		e.OrderID == "" &&
		len(e.OrderKeywords) == 0 &&
		e.OrderAction == "" &&
		!e.UserStatus &&
		e.UserID == "" &&
		!e.MenuQuery &&
		!e.GeneralFAQ
}

// Merge overlays the non-zero fields of in onto e. Fields absent from in are
// left untouched, so repeated partial updates never drop earlier findings.
func (e *Entities) Merge(in Entities) {
	if in.ProductName != "" {
		e.ProductName = in.ProductName
	}
	if len(in.ProductKeywords) > 0 {
		e.ProductKeywords = append([]string(nil), in.ProductKeywords...)
	}
	if in.Color != "" {
		e.Color = in.Color
	}
	if in.Size != "" {
		e.Size = in.Size
	}
	if in.Category != "" {
		e.Category = in.Category
	}
	if in.OrderID != "" {
		e.OrderID = in.OrderID
	}
	if len(in.OrderKeywords) > 0 {
		e.OrderKeywords = append([]string(nil), in.OrderKeywords...)
	}
	if in.OrderAction != "" {
		e.OrderAction = in.OrderAction
	}
	if in.UserStatus {
		e.UserStatus = true
	}
	if in.UserID != "" {
		e.UserID = in.UserID
	}
	if in.MenuQuery {
		e.MenuQuery = true
	}
	if in.GeneralFAQ {
		e.GeneralFAQ = true
	}
}

// categoryEntry maps a catalog keyword to the category used by product search
// filters. Scan order matters: the first substring hit wins.
type categoryEntry struct {
	keyword  string
	category string
}

var categoryTable = []categoryEntry{
	{"gamis", "gamis"},
	{"dress", "gamis"},
	{"abaya", "gamis"},
	{"hijab", "hijab"},
	{"jilbab", "hijab"},
	{"khimar", "hijab"},
	{"pashmina", "hijab"},
	{"mukena", "perlengkapan-sholat"},
	{"sajadah", "perlengkapan-sholat"},
	{"koko", "atasan-pria"},
	{"kemeja", "atasan"},
	{"blouse", "atasan"},
	{"tunik", "atasan"},
	{"rok", "bawahan"},
	{"celana", "bawahan"},
}

// defaultCategory applies when product evidence exists but no category
// keyword matched. Matches the storefront's dominant catalog segment.
const defaultCategory = "gamis"

var productVocabulary = []string{
	"gamis",
	"dress",
	"abaya",
	"hijab",
	"jilbab",
	"khimar",
	"pashmina",
	"mukena",
	"sajadah",
	"koko",
	"kemeja",
	"blouse",
	"tunik",
	"rok",
	"celana",
	"baju",
	"pakaian",
	"outfit",
	"atasan",
	"bawahan",
}

var orderVocabulary = []string{
	"pesanan",
	"order",
	"resi",
	"paket",
	"pengiriman",
	"tracking",
	"lacak",
	"kurir",
}

var colorVocabulary = []string{
	"merah",
	"biru",
	"hijau",
	"kuning",
	"hitam",
	"putih",
	"coklat",
	"abu",
	"ungu",
	"pink",
	"navy",
	"maroon",
	"mocca",
	"cream",
}

var sizeVocabulary = []string{"s", "m", "l", "xl", "xxl", "xxxl"}

// sizePatterns are whole-word matches so a bare letter never matches inside
// a longer token ("m" must not hit "mocca", "3" must not hit "30").
var sizePatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(sizeVocabulary))
	for i, size := range sizeVocabulary {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(size) + `\b`)
	}
	return patterns
}()

var (
	orderIDPattern = regexp.MustCompile(`(?:order|pesanan|tracking|lacak|status|nomor|number|id)\s*[#:]?\s*(\d+)`)
	userIDPattern  = regexp.MustCompile(`(?:user|member|akun)\s*[#:]?\s*(\d+)`)
)

var cancelKeywords = []string{"batalkan", "batal", "cancel"}
var returnKeywords = []string{"kembalikan", "retur", "return", "tukar"}
var refundKeywords = []string{"refund", "pengembalian dana", "uang kembali"}

var userStatusKeywords = []string{
	"status member",
	"status keanggotaan",
	"keanggotaan",
	"membership",
	"akun saya",
	"profil saya",
}

var menuKeywords = []string{
	"menu",
	"bantuan",
	"help",
	"bisa apa",
	"apa saja",
}

var faqKeywords = []string{
	"faq",
	"cara ",
	"bagaimana",
	"jam buka",
	"jam operasional",
	"metode pembayaran",
	"ongkir",
	"ongkos kirim",
	"gratis ongkir",
}

// ExtractEntities scans a raw message against the keyword tables and
// returns every entity it can detect. Extraction is pure: it never reads
// conversation state and re-runs from scratch every turn.
func ExtractEntities(text string) Entities {
	lower := strings.ToLower(text)

	var ents Entities

	for _, entry := range categoryTable {
		if strings.Contains(lower, entry.keyword) {
			ents.Category = entry.category
			break
		}
	}

	for _, keyword := range productVocabulary {
		if strings.Contains(lower, keyword) {
			ents.ProductKeywords = append(ents.ProductKeywords, keyword)
		}
	}
	if len(ents.ProductKeywords) > 0 {
		ents.ProductName = ents.ProductKeywords[0]
		if ents.Category == "" {
			ents.Category = defaultCategory
		}
	}

	for _, keyword := range orderVocabulary {
		if strings.Contains(lower, keyword) {
			ents.OrderKeywords = append(ents.OrderKeywords, keyword)
		}
	}

	if match := orderIDPattern.FindStringSubmatch(lower); match != nil {
		ents.OrderID = match[1]
	}

	ents.OrderAction = detectOrderAction(lower)

	for _, color := range colorVocabulary {
		if strings.Contains(lower, color) {
			ents.Color = color
			break
		}
	}

	for i, pattern := range sizePatterns {
		if pattern.MatchString(lower) {
			ents.Size = sizeVocabulary[i]
			break
		}
	}

	for _, keyword := range userStatusKeywords {
		if strings.Contains(lower, keyword) {
			ents.UserStatus = true
			break
		}
	}

	if match := userIDPattern.FindStringSubmatch(lower); match != nil {
		ents.UserID = match[1]
	}

	for _, keyword := range menuKeywords {
		if strings.Contains(lower, keyword) {
			ents.MenuQuery = true
			break
		}
	}

	for _, keyword := range faqKeywords {
		if strings.Contains(lower, keyword) {
			ents.GeneralFAQ = true
			break
		}
	}

	return ents
}

// detectOrderAction checks action keyword groups in fixed priority order:
// cancel, then return, then refund. At most one action is recorded.
func detectOrderAction(lower string) OrderAction {
	groups := []struct {
		action   OrderAction
		keywords []string
	}{
		{OrderActionCancel, cancelKeywords},
		{OrderActionReturn, returnKeywords},
		{OrderActionRefund, refundKeywords},
	}
	for _, group := range groups {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.action
			}
		}
	}
	return ""
}
