package chat

import (
	"math/rand"
	"sync"
	"time"
)

var defaultGreetingReplies = []string{
	"Halo! Selamat datang di Tokoline. Ada yang bisa kami bantu?",
	"Hai kak! Mau cari produk apa hari ini?",
	"Assalamualaikum! Terima kasih sudah menghubungi Tokoline. Ada yang bisa dibantu?",
	"Halo kak! Silakan tanya seputar produk, pesanan, atau keanggotaan ya.",
}

var defaultFallbackReplies = []string{
	"Maaf, kami kurang memahami maksud kakak. Boleh dijelaskan lagi?",
	"Mohon maaf, pesan kakak belum kami pahami. Bisa ditulis ulang dengan kata lain?",
	"Maaf kak, kami belum menangkap maksudnya. Kakak bisa tanya soal produk, pesanan, atau keanggotaan.",
}

// ReplyPicker selects canned replies. The randomness source is injectable so
// tests can pin the selection; the default is uniform choice over each pool.
type ReplyPicker struct {
	mu        sync.Mutex
	rng       *rand.Rand
	greetings []string
	fallbacks []string
}

// ReplyPickerOption configures a ReplyPicker.
type ReplyPickerOption func(*ReplyPicker)

// WithRand replaces the randomness source.
func WithRand(rng *rand.Rand) ReplyPickerOption {
	return func(p *ReplyPicker) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// WithGreetingReplies replaces the greeting pool.
func WithGreetingReplies(replies []string) ReplyPickerOption {
	return func(p *ReplyPicker) {
		if len(replies) > 0 {
			p.greetings = replies
		}
	}
}

// WithFallbackReplies replaces the low-confidence apology pool.
func WithFallbackReplies(replies []string) ReplyPickerOption {
	return func(p *ReplyPicker) {
		if len(replies) > 0 {
			p.fallbacks = replies
		}
	}
}

// NewReplyPicker creates a picker with the default reply pools.
func NewReplyPicker(opts ...ReplyPickerOption) *ReplyPicker {
	p := &ReplyPicker{
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		greetings: defaultGreetingReplies,
		fallbacks: defaultFallbackReplies,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Greeting returns a random greeting reply.
func (p *ReplyPicker) Greeting() string {
	return p.pick(p.greetings)
}

// Fallback returns a random "did not understand" reply.
func (p *ReplyPicker) Fallback() string {
	return p.pick(p.fallbacks)
}

func (p *ReplyPicker) pick(pool []string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return pool[p.rng.Intn(len(pool))]
}
