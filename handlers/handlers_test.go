package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"careline/config"
	"careline/database/repository/hospital"
	"careline/models"
	"careline/services/agents"
	"careline/services/dispatch"
	"careline/services/llm"
	"careline/services/router"
	"careline/services/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig.HospitalPhone = "(555) 123-4567"
	config.AppConfig.SupportEmail = "support@careline.example.com"
	config.AppConfig.HREmail = "hr@careline.example.com"
	config.AppConfig.HRExtension = "1234"
	os.Exit(m.Run())
}

type downLLM struct{}

func (downLLM) GenerateText(context.Context, string, llm.Options, []models.Turn) (string, error) {
	return "", errors.New("backend down")
}

func testRouter() (*gin.Engine, session.Store, hospital.Repo) {
	logger := zap.NewNop()
	repo := hospital.NewMemoryRepo()
	store := session.NewMemoryStore()
	client := downLLM{}

	classifier := router.NewClassifier(client, logger)
	greeting := agents.NewGreetingAgent(client, logger)
	appointment := agents.NewAppointmentAgent(client, repo, nil, logger)
	dispatcher := dispatch.NewService(store, classifier, greeting, []agents.Agent{
		appointment,
		agents.NewHRAgent(client, repo, logger),
		agents.NewClosingAgent(client, logger),
		agents.NewFallbackAgent(client, appointment, logger),
	}, logger)

	r := gin.New()
	r.POST("/api/chat", ChatHandler(dispatcher))
	r.GET("/api/appointments", AvailabilityHandler(repo))
	r.POST("/api/appointments/book", BookAppointmentHandler(repo, nil))
	r.GET("/api/appointments/doctors", DoctorsHandler(repo))
	r.GET("/api/hr/policies", HRPoliciesHandler(repo))
	r.GET("/api/company/info", CompanyInfoHandler(repo))
	r.GET("/api/session/:id", GetSessionHandler(store))
	r.DELETE("/api/session/:id", DeleteSessionHandler(store))
	return r, store, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatEndpointStartsConversation(t *testing.T) {
	r, _, _ := testRouter()

	w := doJSON(t, r, http.MethodPost, "/api/chat", ChatRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	var result models.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.AgentGreeting, result.Agent)
	assert.NotEmpty(t, result.SessionID)
	assert.Len(t, result.History, 2)
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	r, _, _ := testRouter()

	w := doJSON(t, r, http.MethodPost, "/api/chat", ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpointContinuesSession(t *testing.T) {
	r, _, _ := testRouter()

	w := doJSON(t, r, http.MethodPost, "/api/chat", ChatRequest{Message: "hi"})
	var first models.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = doJSON(t, r, http.MethodPost, "/api/chat", ChatRequest{
		Message:   "what's the vacation policy",
		SessionID: first.SessionID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var second models.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, models.AgentHR, second.Agent)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, second.History, 4)
}

func TestAvailabilityEndpoint(t *testing.T) {
	r, _, _ := testRouter()

	w := doJSON(t, r, http.MethodGet, "/api/appointments?department=Cardiology", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Slots []models.AppointmentSlot `json:"slots"`
		Count int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, len(body.Slots), body.Count)
	for _, s := range body.Slots {
		assert.Equal(t, "Cardiology", s.Department)
	}
}

func TestAvailabilityEndpointRejectsBadTimePreference(t *testing.T) {
	r, _, _ := testRouter()

	w := doJSON(t, r, http.MethodGet, "/api/appointments?timePreference=evening", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookEndpoint(t *testing.T) {
	r, _, repo := testRouter()

	slots, err := repo.QueryAvailability(context.Background(), models.SlotFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	req := BookRequest{SlotID: slots[0].ID, Patient: models.PatientInfo{Name: "Pat Doe"}}
	w := doJSON(t, r, http.MethodPost, "/api/appointments/book", req)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.BookingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.ConfirmationCode)

	// Booking the same slot again conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/appointments/book", req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown slot is a 404.
	req.SlotID = "no-such-slot"
	w = doJSON(t, r, http.MethodPost, "/api/appointments/book", req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookEndpointRequiresPatientName(t *testing.T) {
	r, _, _ := testRouter()

	w := doJSON(t, r, http.MethodPost, "/api/appointments/book", BookRequest{SlotID: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHRPoliciesEndpointFiltersByCategory(t *testing.T) {
	r, _, _ := testRouter()

	w := doJSON(t, r, http.MethodGet, "/api/hr/policies?category=leave", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Policies []models.HRPolicy `json:"policies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Policies)
	for _, p := range body.Policies {
		assert.Equal(t, "leave", p.Category)
	}
}

func TestSessionEndpoints(t *testing.T) {
	r, store, _ := testRouter()

	w := doJSON(t, r, http.MethodGet, "/api/session/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	sess := models.NewSession("s1", nil)
	sess.Append("hello", "hi there")
	require.NoError(t, store.Put(context.Background(), sess))

	w = doJSON(t, r, http.MethodGet, "/api/session/s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.History, 2)

	w = doJSON(t, r, http.MethodDelete, "/api/session/s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/session/s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
