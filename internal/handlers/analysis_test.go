package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"neuroscreen/internal/config"
	"neuroscreen/internal/llm"
)

func analysisRouter(gateway *llm.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAnalysisHandler(zap.NewNop(), gateway, testLLMConfig())

	r := gin.New()
	r.POST("/api/analyze", handler.Analyze)
	r.POST("/api/analyze/stream", handler.AnalyzeStream)
	return r
}

func TestAnalyzeReturnsModelText(t *testing.T) {
	gateway := llm.NewGatewayWithClient(&scriptedCompleter{text: "Reaction times trend upward late in the session."}, zap.NewNop())
	r := analysisRouter(gateway)

	w := postJSON(t, r, "/api/analyze", map[string]any{
		"question": "What stands out in this session?",
		"data":     map[string]any{"reactionTimes": []int{250, 300, 600}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "trend upward")
	assert.Contains(t, w.Body.String(), `"degraded":false`)
}

func TestAnalyzeEmptyQuestion(t *testing.T) {
	gateway := llm.NewGatewayWithClient(&scriptedCompleter{text: "unused"}, zap.NewNop())
	r := analysisRouter(gateway)

	w := postJSON(t, r, "/api/analyze", map[string]any{"question": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeWithoutCredentialDegrades(t *testing.T) {
	// No API key configured: the gateway has no live client and answers
	// from the deterministic fallback.
	gateway := llm.NewGateway(config.LLMConfig{}, zap.NewNop())
	r := analysisRouter(gateway)

	w := postJSON(t, r, "/api/analyze", map[string]any{"question": "Anything unusual?"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded":true`)
	assert.Contains(t, w.Body.String(), "Anything unusual?")
}

func TestAnalyzeStreamEmitsChunksAndDone(t *testing.T) {
	gateway := llm.NewGatewayWithClient(&scriptedCompleter{text: "Sustained attention looks typical."}, zap.NewNop())
	r := analysisRouter(gateway)

	w := postJSON(t, r, "/api/analyze/stream", map[string]any{"question": "Summarize attention."})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "event:chunk")
	assert.Contains(t, body, "Sustained attention looks typical.")
	assert.Contains(t, body, "event:done")
	assert.Contains(t, body, `"degraded":false`)
}

func TestAnalyzeStreamFallbackStillStreams(t *testing.T) {
	gateway := llm.NewGateway(config.LLMConfig{}, zap.NewNop())
	r := analysisRouter(gateway)

	w := postJSON(t, r, "/api/analyze/stream", map[string]any{"question": "Summarize attention."})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event:chunk")
	assert.Contains(t, body, "event:done")
	assert.Contains(t, body, `"degraded":true`)
}
