package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/financing-advisor/internal/finance"
	"github.com/sells-group/financing-advisor/internal/survey"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vehicles)
}

func (s *Server) handleCalculatePayment(w http.ResponseWriter, r *http.Request) {
	// Defaults match the quoting UI: 60-month term at 5.5% APR.
	req := struct {
		VehiclePrice float64 `json:"vehicle_price"`
		DownPayment  float64 `json:"down_payment"`
		LoanTerm     int     `json:"loan_term"`
		InterestRate float64 `json:"interest_rate"`
	}{LoanTerm: 60, InterestRate: 5.5}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LoanTerm <= 0 {
		writeError(w, http.StatusBadRequest, "loan_term must be positive")
		return
	}

	breakdown := finance.CalculatePayment(req.VehiclePrice, req.DownPayment, req.LoanTerm, req.InterestRate)
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleFinancingOptions(w http.ResponseWriter, r *http.Request) {
	req := struct {
		CreditScore  int      `json:"credit_score"`
		VehiclePrice float64  `json:"vehicle_price"`
		DownPayment  *float64 `json:"down_payment"`
	}{CreditScore: 700, VehiclePrice: 30000}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	downPayment := req.VehiclePrice * 0.1
	if req.DownPayment != nil {
		downPayment = *req.DownPayment
	}

	offers := finance.ComputeOptions(s.lenders, req.CreditScore, req.VehiclePrice, downPayment)
	writeJSON(w, http.StatusOK, offers)
}

// startResponse is the first question plus the issued session ID.
type startResponse struct {
	SessionID string `json:"session_id"`
	survey.Question
}

func (s *Server) handleChatbotStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehiclePrice any    `json:"vehicle_price"` // clients send both "30000" and 30000
		VehicleName  string `json:"vehicle_name"`
	}
	// The body is optional; a missing or empty body starts a generic session.
	_ = json.NewDecoder(r.Body).Decode(&req)
	price := looseFloat(req.VehiclePrice)

	sess := s.sessions.Create()

	sess.mu.Lock()
	conv, question := survey.Start()
	sess.Conv = conv
	sess.VehiclePrice = price
	sess.VehicleName = req.VehicleName
	sess.touch()
	sess.mu.Unlock()

	zap.L().Info("chatbot conversation started",
		zap.String("session_id", sess.ID),
		zap.String("vehicle", req.VehicleName),
	)

	w.Header().Set(sessionHeader, sess.ID)
	writeJSON(w, http.StatusOK, startResponse{SessionID: sess.ID, Question: question})
}

// questionResponse is a pending question, optionally with an advisory note
// about the previous answer.
type questionResponse struct {
	survey.Question
	Advisory string `json:"advisory,omitempty"`
}

// recommendationsResponse is the terminal payload of a conversation. The
// advisory rides along in case the final accepted answer carried one.
type recommendationsResponse struct {
	Type            string                        `json:"type"` // always "recommendations"
	Recommendations any                           `json:"recommendations"`
	UserData        map[survey.QuestionKey]string `json:"user_data"`
	Completed       bool                          `json:"completed"`
	Advisory        string                        `json:"advisory,omitempty"`
}

func (s *Server) handleChatbotRespond(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	if sess == nil {
		writeError(w, http.StatusBadRequest, "no active conversation; start a new one")
		return
	}

	var req struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Response == "" {
		writeError(w, http.StatusBadRequest, "response is required")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	result := survey.Respond(&sess.Conv, req.Response)
	sess.touch()

	switch {
	case result.Invalid != nil:
		writeJSON(w, http.StatusOK, result.Invalid)
	case result.Completed:
		rec := s.advisor.Generate(r.Context(), sess.Conv.Answers)
		writeJSON(w, http.StatusOK, recommendationsResponse{
			Type:            "recommendations",
			Recommendations: rec,
			UserData:        sess.Conv.Answers,
			Completed:       true,
			Advisory:        result.Advisory,
		})
	default:
		writeJSON(w, http.StatusOK, questionResponse{Question: *result.Question, Advisory: result.Advisory})
	}
}

func (s *Server) handleChatbotSummary(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	if sess == nil {
		writeError(w, http.StatusBadRequest, "no active conversation; start a new one")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":     sess.ID,
		"collected_data": sess.Conv.Answers,
		"current_step":   sess.Conv.Step,
		"total_steps":    len(survey.QuestionOrder),
		"completed":      sess.Conv.Completed,
	})
}

func (s *Server) handleChatbotReset(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	if sess == nil {
		writeError(w, http.StatusBadRequest, "no active conversation; start a new one")
		return
	}

	s.sessions.Delete(sess.ID)
	zap.L().Info("chatbot conversation reset", zap.String("session_id", sess.ID))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// looseFloat coerces a decoded JSON value that may arrive as a number or a
// numeric string.
func looseFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

func (s *Server) sessionFrom(r *http.Request) *Session {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		return nil
	}
	return s.sessions.Get(id)
}
