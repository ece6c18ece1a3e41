package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tokoline/tokochat/internal/auth"
	"github.com/tokoline/tokochat/internal/chat"
	httpmiddleware "github.com/tokoline/tokochat/internal/http/middleware"
	"github.com/tokoline/tokochat/internal/webchat"
	"github.com/tokoline/tokochat/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *chat.Handler
	WebchatHandler     *webchat.Handler
	MetricsHandler     http.Handler
	AuthJWTSecret      string
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/chat", func(r chi.Router) {
		if cfg.AuthJWTSecret != "" {
			r.Use(auth.Middleware(cfg.AuthJWTSecret))
		}
		r.Post("/message", cfg.ChatHandler.Message)
		r.Get("/sessions", cfg.ChatHandler.ListSessions)
		r.Delete("/sessions/{sessionID}", cfg.ChatHandler.ClearSession)
	})

	if cfg.WebchatHandler != nil {
		r.Route("/webchat", func(r chi.Router) {
			r.Get("/ws", cfg.WebchatHandler.HandleWebSocket)
			r.Post("/message", cfg.WebchatHandler.HandleMessage)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
