package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GreenShard-market/JC-detector/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockClassifier counts calls and answers with ClassifyFunc
type mockClassifier struct {
	calls        int
	lastUsername string
	ClassifyFunc func(username string) (*models.ClassificationResult, error)
}

func (m *mockClassifier) Classify(ctx context.Context, username string) (*models.ClassificationResult, error) {
	m.calls++
	m.lastUsername = username
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(username)
	}
	return &models.ClassificationResult{Decision: models.DecisionSafe, Confidence: 0.2}, nil
}

func (m *mockClassifier) Model() string {
	return "llama3-8b-8192"
}

func result(d models.Decision, confidence float64) func(string) (*models.ClassificationResult, error) {
	return func(string) (*models.ClassificationResult, error) {
		return &models.ClassificationResult{Decision: d, Confidence: confidence}, nil
	}
}

func serve(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	r := gin.New()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheck_MissingUsername(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty string", `{"username":""}`},
		{"null", `{"username":null}`},
		{"not a string", `{"username":123}`},
		{"not json", `username=abc`},
		{"no body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockClassifier{}
			h := NewHandler(mock, zap.NewNop())

			w := serve(h, http.MethodPost, "/check", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"No username provided"}`, w.Body.String())
			assert.Zero(t, mock.calls, "classifier must not be invoked")
		})
	}
}

func TestCheck_Success(t *testing.T) {
	mock := &mockClassifier{ClassifyFunc: result(models.DecisionUnsafe, 1.0)}
	h := NewHandler(mock, zap.NewNop())

	w := serve(h, http.MethodPost, "/check", `{"username":"Johnny_Charlie99"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"username":"Johnny_Charlie99","decision":"UNSAFE","confidence":1,"model":"llama3-8b-8192"}`,
		w.Body.String())
	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, "Johnny_Charlie99", mock.lastUsername)
}

func TestCheck_RoundsConfidence(t *testing.T) {
	mock := &mockClassifier{ClassifyFunc: result(models.DecisionUnsafe, 1-1.0/12)}
	h := NewHandler(mock, zap.NewNop())

	w := serve(h, http.MethodPost, "/check", `{"username":"CharlieJ2013"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"username":"CharlieJ2013","decision":"UNSAFE","confidence":0.92,"model":"llama3-8b-8192"}`,
		w.Body.String())
}

func TestCheck_ClassifierError(t *testing.T) {
	mock := &mockClassifier{ClassifyFunc: func(string) (*models.ClassificationResult, error) {
		return nil, errors.New("database on fire")
	}}
	h := NewHandler(mock, zap.NewNop())

	w := serve(h, http.MethodPost, "/check", `{"username":"someone"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Analysis failed"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "database on fire")
}

func TestCheck_WrongMethod(t *testing.T) {
	mock := &mockClassifier{}
	h := NewHandler(mock, zap.NewNop())

	w := serve(h, http.MethodGet, "/check", ``)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, mock.calls)
}

func TestHealthCheck(t *testing.T) {
	h := NewHandler(&mockClassifier{}, zap.NewNop())

	w := serve(h, http.MethodGet, "/health", ``)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"jc-detector","model":"llama3-8b-8192"}`, w.Body.String())
}

func TestRoundConfidence(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1, 1},
		{0, 0},
		{0.8, 0.8},
		{1 - 1.0/12, 0.92},
		{0.666666, 0.67},
		{0.123, 0.12},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundConfidence(tt.in))
	}
}
