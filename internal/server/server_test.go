package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/financing-advisor/internal/advisor"
	"github.com/sells-group/financing-advisor/internal/model"
)

func testVehicles() []model.Vehicle {
	return []model.Vehicle{
		{Year: 2024, Make: "Toyota", Model: "Camry", Trim: "LE", Price: 26520},
		{Year: 2024, Make: "Toyota", Model: "RAV4", Trim: "XLE", Price: 32100},
	}
}

func testLenders() []model.LenderRecord {
	return []model.LenderRecord{
		{
			Name:            "Capital Auto",
			CountryCoverage: "US",
			RatesByTier: map[model.CreditTier]string{
				model.TierExcellent: "1.99% - 4.99%",
				model.TierGood:      "4.5% - 7.0%",
				model.TierFair:      "8.0% - 12.0%",
				model.TierPoor:      "13.0% - 20.0%",
			},
			TypicalTerms: "60",
			LoanTypes:    "New Auto Loan, Used Auto Loan",
		},
	}
}

func newTestServer() *Server {
	return New(Options{
		Vehicles: testVehicles(),
		Lenders:  testLenders(),
		Advisor:  advisor.New(nil, "", time.Second), // fallback-only
	})
}

func postJSON(t *testing.T, handler http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestVehicles(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var vehicles []model.Vehicle
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vehicles))
	require.Len(t, vehicles, 2)
	assert.Equal(t, "Camry", vehicles[0].Model)
}

func TestCalculatePayment(t *testing.T) {
	router := newTestServer().Router()

	rr := postJSON(t, router, "/api/calculate-payment", map[string]any{
		"vehicle_price": 30000,
		"down_payment":  3000,
		"loan_term":     60,
		"interest_rate": 5.5,
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]float64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 27000.0, body["loan_amount"])
	assert.InDelta(t, 515.73, body["monthly_payment"], 0.01)
	assert.InDelta(t, body["total_payment"]-27000, body["total_interest"], 0.01)
}

func TestCalculatePayment_Defaults(t *testing.T) {
	router := newTestServer().Router()

	// Term and rate default to 60 months at 5.5%.
	rr := postJSON(t, router, "/api/calculate-payment", map[string]any{
		"vehicle_price": 30000,
		"down_payment":  3000,
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]float64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.InDelta(t, 515.73, body["monthly_payment"], 0.01)
}

func TestCalculatePayment_BadBody(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodPost, "/api/calculate-payment", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestFinancingOptions(t *testing.T) {
	router := newTestServer().Router()

	rr := postJSON(t, router, "/api/financing-options", map[string]any{
		"credit_score":  720,
		"vehicle_price": 30000,
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var offers []model.FinancingOffer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &offers))
	require.Len(t, offers, 1)

	// Good tier, default 10% down: 27000 loan at 4.5% over 60 months.
	offer := offers[0]
	assert.Equal(t, "Capital Auto", offer.Lender)
	assert.Equal(t, 4.5, offer.RateMin)
	assert.Equal(t, "New Auto Loan, Used Auto Loan", offer.Description)
	assert.InDelta(t, 503.36, offer.MonthlyPayment, 0.01)
}

func TestFinancingOptions_DefaultsApply(t *testing.T) {
	router := newTestServer().Router()

	rr := postJSON(t, router, "/api/financing-options", map[string]any{}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var offers []model.FinancingOffer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &offers))
	require.Len(t, offers, 1)
	// Defaults: score 700 (good tier), price 30000.
	assert.Equal(t, 4.5, offers[0].RateMin)
}

var chatbotAnswers = []string{"85k", "720", "rent", "full-time", "5000", "financing", "suv"}

func startConversation(t *testing.T, router http.Handler) string {
	t.Helper()
	rr := postJSON(t, router, "/api/chatbot/start", map[string]any{
		"vehicle_price": "30000",
		"vehicle_name":  "2024 Toyota Camry",
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		SessionID string `json:"session_id"`
		Type      string `json:"type"`
		Question  string `json:"question"`
		Step      int    `json:"step"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "question", body.Type)
	assert.Equal(t, 1, body.Step)
	assert.NotEmpty(t, body.Question)
	assert.Equal(t, body.SessionID, rr.Header().Get(sessionHeader))
	return body.SessionID
}

func TestChatbot_FullConversation(t *testing.T) {
	router := newTestServer().Router()
	sessionID := startConversation(t, router)
	headers := map[string]string{sessionHeader: sessionID}

	for i, answer := range chatbotAnswers {
		rr := postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": answer}, headers)
		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

		if i < len(chatbotAnswers)-1 {
			assert.Equal(t, "question", body["type"], "answer %d", i)
			assert.EqualValues(t, i+2, body["step"], "answer %d", i)
		} else {
			assert.Equal(t, "recommendations", body["type"])
			assert.Equal(t, true, body["completed"])
			require.Contains(t, body, "recommendations")
			rec := body["recommendations"].(map[string]any)
			assert.NotEmpty(t, rec["recommendation"])
			assert.NotEmpty(t, rec["next_steps"])
		}
	}
}

func TestChatbot_ValidationErrorKeepsStep(t *testing.T) {
	router := newTestServer().Router()
	sessionID := startConversation(t, router)
	headers := map[string]string{sessionHeader: sessionID}

	rr := postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": "idk"}, headers)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Type     string `json:"type"`
		Message  string `json:"error_message"`
		Question struct {
			Step int `json:"step"`
		} `json:"current_question"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Type)
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, 1, body.Question.Step)
}

func TestChatbot_AdvisoryTravelsWithAcceptedAnswer(t *testing.T) {
	router := newTestServer().Router()
	sessionID := startConversation(t, router)
	headers := map[string]string{sessionHeader: sessionID}

	postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": "85k"}, headers)

	// A sub-500 score is accepted but flagged; the caution must reach the
	// client alongside the next question.
	rr := postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": "450"}, headers)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "question", body["type"])
	assert.Contains(t, body["advisory"], "score under 500")
}

func TestChatbot_RespondWithoutSession(t *testing.T) {
	router := newTestServer().Router()

	rr := postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": "85k"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": "85k"},
		map[string]string{sessionHeader: "not-a-session"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChatbot_RespondAfterCompletionRegenerates(t *testing.T) {
	router := newTestServer().Router()
	sessionID := startConversation(t, router)
	headers := map[string]string{sessionHeader: sessionID}

	for _, answer := range chatbotAnswers {
		postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": answer}, headers)
	}

	rr := postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": "hello again"}, headers)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "recommendations", body["type"])
}

func TestChatbot_Summary(t *testing.T) {
	router := newTestServer().Router()
	sessionID := startConversation(t, router)
	headers := map[string]string{sessionHeader: sessionID}

	postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": "85k"}, headers)

	req := httptest.NewRequest(http.MethodGet, "/api/chatbot/summary", nil)
	req.Header.Set(sessionHeader, sessionID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		CollectedData map[string]string `json:"collected_data"`
		CurrentStep   int               `json:"current_step"`
		TotalSteps    int               `json:"total_steps"`
		Completed     bool              `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.CurrentStep)
	assert.Equal(t, 7, body.TotalSteps)
	assert.False(t, body.Completed)
	assert.Equal(t, "85000", body.CollectedData["income"])
}

func TestChatbot_Reset(t *testing.T) {
	router := newTestServer().Router()
	sessionID := startConversation(t, router)
	headers := map[string]string{sessionHeader: sessionID}

	rr := postJSON(t, router, "/api/chatbot/reset", map[string]any{}, headers)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body["success"])

	// The session is gone afterwards.
	rr = postJSON(t, router, "/api/chatbot/respond", map[string]string{"response": "85k"}, headers)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRateLimit(t *testing.T) {
	srv := New(Options{
		Advisor:        advisor.New(nil, "", time.Second),
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	})
	router := srv.Router()

	first := httptest.NewRequest(http.MethodGet, "/health", nil)
	first.RemoteAddr = "192.0.2.1:1234"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, first)
	assert.Equal(t, http.StatusOK, rr.Code)

	second := httptest.NewRequest(http.MethodGet, "/health", nil)
	second.RemoteAddr = "192.0.2.1:5678"
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, second)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// A different client IP has its own bucket.
	third := httptest.NewRequest(http.MethodGet, "/health", nil)
	third.RemoteAddr = "192.0.2.2:1234"
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, third)
	assert.Equal(t, http.StatusOK, rr.Code)
}
