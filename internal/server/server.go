// Package server exposes the HTTP JSON API: payment calculation, financing
// options, the vehicle catalog, and the guided questionnaire chatbot.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sells-group/financing-advisor/internal/advisor"
	"github.com/sells-group/financing-advisor/internal/model"
)

// sessionHeader carries the conversation ID between requests.
const sessionHeader = "X-Session-ID"

// Server wires the read-only data tables and the advisor into HTTP handlers.
type Server struct {
	vehicles []model.Vehicle
	lenders  []model.LenderRecord
	advisor  *advisor.Advisor
	sessions *SessionStore

	rateLimitRPS   float64
	rateLimitBurst int
}

// Options configures a Server.
type Options struct {
	Vehicles       []model.Vehicle
	Lenders        []model.LenderRecord
	Advisor        *advisor.Advisor
	SessionTTL     time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// New builds a Server from loaded data and configuration.
func New(opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 20
	}
	return &Server{
		vehicles:       opts.Vehicles,
		lenders:        opts.Lenders,
		advisor:        opts.Advisor,
		sessions:       NewSessionStore(opts.SessionTTL),
		rateLimitRPS:   opts.RateLimitRPS,
		rateLimitBurst: opts.RateLimitBurst,
	}
}

// Sessions exposes the session store for the serve loop's sweep ticker.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Router assembles the chi route tree with middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", sessionHeader},
		ExposedHeaders: []string{sessionHeader},
	}))
	r.Use(requestLogMiddleware)
	r.Use(rateLimitMiddleware(s.rateLimitRPS, s.rateLimitBurst))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/vehicles", s.handleVehicles)
		r.Post("/calculate-payment", s.handleCalculatePayment)
		r.Post("/financing-options", s.handleFinancingOptions)
		r.Route("/chatbot", func(r chi.Router) {
			r.Post("/start", s.handleChatbotStart)
			r.Post("/respond", s.handleChatbotRespond)
			r.Get("/summary", s.handleChatbotSummary)
			r.Post("/reset", s.handleChatbotReset)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
