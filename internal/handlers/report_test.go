package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"neuroscreen/internal/config"
	"neuroscreen/internal/llm"
	"neuroscreen/internal/models"
)

// scriptedCompleter stands in for the live LLM during handler tests.
type scriptedCompleter struct {
	text string
	err  error
}

func (s *scriptedCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return s.text, s.err
}

func (s *scriptedCompleter) CompleteStream(ctx context.Context, req llm.CompletionRequest, emit llm.StreamFunc) error {
	if s.err != nil {
		return s.err
	}
	return emit(s.text)
}

const modelResponse = `1. Summary
Alex completed the full screening battery.

2. Observations
- Emotion recognition was broadly accurate.
- Reaction times slowed over the session.

3. Cognitive and Emotional Assessment
Within expected range for age.

4. Red Flags
- Several reaction times exceeded 500ms.

5. Recommendations
- Re-test reaction time in two weeks.

6. Disclaimer
Screening aid only.`

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{MaxTokens: 1500, ReportTemperature: 0.2, AnalysisTemperature: 0.7}
}

func reportRouter(live llm.StreamingCompleter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gateway := llm.NewGatewayWithClient(live, zap.NewNop())
	handler := NewReportHandler(zap.NewNop(), gateway, testLLMConfig())

	r := gin.New()
	r.POST("/api/generate-report", handler.GenerateReport)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func screeningRequest() map[string]any {
	return map[string]any{
		"patientInfo": models.PatientInfo{ID: "p1", Name: "Alex", Age: 8, Gender: "male"},
		"testResults": models.TestResultSet{
			EmotionTest: []models.EmotionTrial{
				{IsCorrect: true}, {IsCorrect: true}, {IsCorrect: true}, {IsCorrect: false},
			},
			ReactionTest: []models.ReactionTrial{
				{Valid: true, ReactionTime: 250}, {Valid: true, ReactionTime: 300}, {Valid: true, ReactionTime: 600},
			},
			PatternTest: []models.PatternTrial{
				{IsCorrect: true}, {IsCorrect: true}, {IsCorrect: true}, {IsCorrect: true}, {IsCorrect: false},
			},
		},
	}
}

func TestGenerateReportEndToEnd(t *testing.T) {
	r := reportRouter(&scriptedCompleter{text: modelResponse})

	w := postJSON(t, r, "/api/generate-report", screeningRequest())
	require.Equal(t, http.StatusOK, w.Code)

	var resp generateReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.False(t, resp.Degraded)
	assert.Equal(t, models.ScoreSet{EmotionScore: 75, ReactionScore: 383, PatternScore: 80}, resp.Report.Scores)
	assert.Equal(t, "moderate", resp.Report.Interpretations.Emotion)
	assert.Equal(t, "moderate delay", resp.Report.Interpretations.Reaction)
	assert.Equal(t, "strong", resp.Report.Interpretations.Pattern)

	assert.NotEmpty(t, resp.Report.Generated.Observations)
	assert.NotEmpty(t, resp.Report.Generated.Recommendations)
	assert.NotEmpty(t, resp.Report.GeneratedAt)
}

func TestGenerateReportLLMFailureDegrades(t *testing.T) {
	r := reportRouter(&scriptedCompleter{err: errors.New("simulated network error")})

	w := postJSON(t, r, "/api/generate-report", screeningRequest())
	require.Equal(t, http.StatusOK, w.Code)

	var resp generateReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Degraded)
	assert.NotEmpty(t, resp.Note)
	// The fallback report still carries content and the full score groups.
	assert.NotEmpty(t, resp.Report.Generated.Observations)
	assert.NotEmpty(t, resp.Report.Generated.Recommendations)
	assert.Equal(t, 75, resp.Report.Scores.EmotionScore)
}

func TestGenerateReportUnparseableResponseSubstitutes(t *testing.T) {
	r := reportRouter(&scriptedCompleter{text: "A haiku about screening,\nnot a report at all,\nsections nowhere found."})

	w := postJSON(t, r, "/api/generate-report", screeningRequest())
	require.Equal(t, http.StatusOK, w.Code)

	var resp generateReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Degraded)
	assert.NotEmpty(t, resp.Report.Generated.Observations)
}

func TestGenerateReportMissingPatientInfo(t *testing.T) {
	r := reportRouter(&scriptedCompleter{text: modelResponse})

	body := screeningRequest()
	body["patientInfo"] = models.PatientInfo{ID: "p1"} // name, age, gender missing

	w := postJSON(t, r, "/api/generate-report", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name")
}

func TestGenerateReportMalformedJSON(t *testing.T) {
	r := reportRouter(&scriptedCompleter{text: modelResponse})

	req := httptest.NewRequest(http.MethodPost, "/api/generate-report", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateReportNoValidReactionTrials(t *testing.T) {
	r := reportRouter(&scriptedCompleter{text: modelResponse})

	body := screeningRequest()
	body["testResults"] = models.TestResultSet{
		EmotionTest:  []models.EmotionTrial{{IsCorrect: true}},
		ReactionTest: []models.ReactionTrial{{Valid: false, ReactionTime: 9999}},
		PatternTest:  []models.PatternTrial{{IsCorrect: true}},
	}

	w := postJSON(t, r, "/api/generate-report", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp generateReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 0, resp.Report.Scores.ReactionScore)
	assert.Equal(t, "not assessed, no valid trials", resp.Report.Interpretations.Reaction)
}
