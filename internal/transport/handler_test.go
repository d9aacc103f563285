package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-image-similarity/internal/catalog"
	"go-image-similarity/internal/config"
	apperrors "go-image-similarity/internal/errors"
	"go-image-similarity/pkg/models"
)

type stubService struct {
	compareErr error
	score      float64
}

func (s *stubService) Compare(ctx context.Context, req models.CompareRequest) (*models.CompareResponse, error) {
	if s.compareErr != nil {
		return nil, s.compareErr
	}
	return &models.CompareResponse{
		Report:            &models.SimilarityReport{Combined: s.score},
		ProcessingTimeSec: 0.01,
	}, nil
}

func (s *stubService) StartSession(ctx context.Context, req models.StartSessionRequest) (*models.StartSessionResponse, error) {
	if req.TargetID != "van" {
		return nil, apperrors.NewNotFoundError("unknown target", nil)
	}
	return &models.StartSessionResponse{
		SessionID: "abc123", TargetID: "van", TargetName: "Van",
		Difficulty: catalog.DifficultyEasy, WinScore: 0.85,
	}, nil
}

func (s *stubService) Guess(ctx context.Context, req models.GuessRequest) (*models.GuessResponse, error) {
	return &models.GuessResponse{
		Attempt: 1, Score: s.score, BestScore: s.score,
		Feedback: "Excellent! You're very close!",
		Report:   &models.SimilarityReport{Combined: s.score},
	}, nil
}

func (s *stubService) ListTargets() []catalog.Target {
	return catalog.NewBuiltin().All()
}

func testConfig() *config.Config {
	return &config.Config{
		MaxRequestBodySize: 1 << 20,
		CompareTimeout:     5 * time.Second,
	}
}

func newTestHandler(svc *stubService) http.Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(svc, testConfig(), nil)
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(&stubService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("status field = %v, want available", body["status"])
	}
}

func TestCompareEndpoint(t *testing.T) {
	h := newTestHandler(&stubService{score: 0.8})
	body := `{"target_ref": "http://img/a.png", "candidate_ref": "http://img/b.png"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp models.CompareResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Report.Combined != 0.8 {
		t.Errorf("combined = %f, want 0.8", resp.Report.Combined)
	}
}

func TestCompareEndpointBadRequest(t *testing.T) {
	h := newTestHandler(&stubService{score: 0.8})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing fields", `{"target_ref": "http://img/a.png"}`, http.StatusBadRequest},
		{"malformed json", `{"target_ref": `, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCompareEndpointServiceError(t *testing.T) {
	h := newTestHandler(&stubService{
		compareErr: apperrors.NewNetworkError("failed to fetch image", nil),
	})
	body := `{"target_ref": "http://img/a.png", "candidate_ref": "http://img/b.png"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("network error should map to 502, got %d", rec.Code)
	}
}

func TestGameEndpoints(t *testing.T) {
	h := newTestHandler(&stubService{score: 0.85})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/game/start", strings.NewReader(`{"target_id": "van"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var started models.StartSessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/game/start", strings.NewReader(`{"target_id": "nope"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown target status = %d, want 404", rec.Code)
	}

	guess := `{"session_id": "abc123", "prompt": "a van", "candidate_ref": "http://img/b.png"}`
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/game/guess", strings.NewReader(guess))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("guess status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var guessResp models.GuessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &guessResp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if guessResp.Feedback == "" {
		t.Error("guess response missing feedback")
	}
}

func TestListTargetsEndpoint(t *testing.T) {
	h := newTestHandler(&stubService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/targets", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Targets []catalog.Target `json:"targets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Targets) != 5 {
		t.Errorf("targets = %d, want 5", len(body.Targets))
	}
}
