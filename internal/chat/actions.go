package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/tokoline/tokochat/internal/auth"
)

// Product is a storefront catalog item as the chat layer sees it.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	PriceIDR int64  `json:"price_idr"`
	InStock  bool   `json:"in_stock"`
}

// Order is the shape returned by order lookups.
type Order struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Courier        string `json:"courier"`
	TrackingNumber string `json:"tracking_number"`
	EstimatedDays  int    `json:"estimated_days"`
	TotalIDR       int64  `json:"total_idr"`
}

// UserProfile is the membership record returned by the user-status lookup.
type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tier   string `json:"tier"`
	Points int    `json:"points"`
	Active bool   `json:"active"`
}

// SearchFilters narrows a product search.
type SearchFilters struct {
	Category string
	Color    string
	Size     string
}

// ProductSearcher finds catalog items. Implemented by the external catalog
// client and by the local fallback catalog.
type ProductSearcher interface {
	Search(ctx context.Context, query string, filters SearchFilters, page, limit int, ac *auth.Context) ([]Product, error)
}

// OrderLookup resolves an order id. A nil order with nil error means the
// order does not exist.
type OrderLookup interface {
	Lookup(ctx context.Context, orderID string, ac *auth.Context) (*Order, error)
}

// StatusLookup fetches a membership profile. It must never be called
// without an auth context.
type StatusLookup interface {
	Status(ctx context.Context, userID string, ac *auth.Context) (UserProfile, error)
}

// TranscriptAppender records turn transcripts. Implementations must be
// nil-safe so persistence stays optional.
type TranscriptAppender interface {
	AppendTurn(ctx context.Context, sessionID, userMessage, botResponse string, intent Intent) error
}

func formatPriceIDR(price int64) string {
	s := fmt.Sprintf("%d", price)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp" + b.String()
}

func formatProducts(query string, products []Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Berikut hasil pencarian untuk %q:\n", query)
	for i, p := range products {
		if i >= 5 {
			fmt.Fprintf(&b, "...dan %d produk lainnya.\n", len(products)-i)
			break
		}
		stock := "tersedia"
		if !p.InStock {
			stock = "stok habis"
		}
		fmt.Fprintf(&b, "%d. %s - %s (%s)\n", i+1, p.Name, formatPriceIDR(p.PriceIDR), stock)
	}
	b.WriteString("Ketik nama produk untuk info lebih lanjut ya kak.")
	return b.String()
}

func formatOrder(order *Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pesanan #%s saat ini berstatus: %s.\n", order.ID, order.Status)
	if order.Courier != "" {
		fmt.Fprintf(&b, "Kurir: %s", order.Courier)
		if order.TrackingNumber != "" {
			fmt.Fprintf(&b, " (resi %s)", order.TrackingNumber)
		}
		b.WriteString(".\n")
	}
	if order.EstimatedDays > 0 {
		fmt.Fprintf(&b, "Estimasi tiba dalam %d hari.", order.EstimatedDays)
	}
	return strings.TrimSpace(b.String())
}

func formatProfile(profile UserProfile) string {
	status := "aktif"
	if !profile.Active {
		status = "tidak aktif"
	}
	return fmt.Sprintf(
		"Halo %s! Keanggotaan kakak berstatus %s, tier %s dengan %d poin.",
		profile.Name, status, profile.Tier, profile.Points,
	)
}

func formatOrderAction(action OrderAction, orderID string) string {
	var verb string
	switch action {
	case OrderActionCancel:
		verb = "pembatalan"
	case OrderActionReturn:
		verb = "pengembalian barang"
	case OrderActionRefund:
		verb = "pengembalian dana"
	default:
		verb = "perubahan"
	}
	if orderID != "" {
		return fmt.Sprintf(
			"Permintaan %s untuk pesanan #%s sudah kami catat. Tim kami akan menghubungi kakak dalam 1x24 jam.",
			verb, orderID,
		)
	}
	return fmt.Sprintf(
		"Permintaan %s sudah kami catat. Mohon sebutkan nomor pesanannya agar bisa kami proses ya kak.",
		verb,
	)
}

const menuResponse = `Tokoline bisa bantu kakak dengan:
1. Cari produk (contoh: "cari gamis warna hitam ukuran m")
2. Lacak pesanan (contoh: "status order #1234")
3. Batal / retur / refund pesanan
4. Cek status keanggotaan
5. Pertanyaan umum seputar pembayaran dan pengiriman`

const loginRequiredResponse = "Untuk cek status keanggotaan, silakan login terlebih dahulu ya kak."

const statusUnavailableResponse = "Mohon maaf, layanan status keanggotaan sedang tidak bisa diakses. Silakan coba beberapa saat lagi."

const orderNotFoundResponse = "Mohon maaf, pesanan dengan nomor tersebut tidak kami temukan. Mohon periksa kembali nomornya ya kak."

const productsNotFoundResponse = "Mohon maaf, produk yang kakak cari belum tersedia. Coba kata kunci lain ya kak."
