package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuroscreen/internal/config"
	"neuroscreen/internal/llm"
	"neuroscreen/internal/report"
)

type AnalysisHandler struct {
	log     *zap.Logger
	gateway *llm.Gateway
	llmCfg  config.LLMConfig
}

func NewAnalysisHandler(log *zap.Logger, gateway *llm.Gateway, llmCfg config.LLMConfig) *AnalysisHandler {
	return &AnalysisHandler{log: log, gateway: gateway, llmCfg: llmCfg}
}

type analyzeRequest struct {
	Question string          `json:"question"`
	Data     json.RawMessage `json:"data"`
}

func (r *analyzeRequest) completion(cfg config.LLMConfig) llm.CompletionRequest {
	return llm.CompletionRequest{
		Prompt:      report.BuildAnalysisPrompt(r.Question, r.Data),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.AnalysisTemperature,
		Fallback:    report.AnalysisFallback(r.Question),
	}
}

// Analyze forwards a structured session payload to the model for open-ended
// commentary. Uses the higher analysis temperature.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	result := h.gateway.Complete(c.Request.Context(), req.completion(h.llmCfg))

	c.JSON(http.StatusOK, gin.H{
		"analysis": result.Text,
		"degraded": result.Degraded,
	})
}

// AnalyzeStream is the streaming variant. Chunks are emitted as SSE events
// as they arrive; client disconnect cancels the upstream request through the
// request context, and the stream is always left closed.
func (h *AnalysisHandler) AnalyzeStream(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	degraded, err := h.gateway.Stream(c.Request.Context(), req.completion(h.llmCfg), func(chunk string) error {
		c.SSEvent("chunk", chunk)
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		// Mid-stream failure or client disconnect; nothing useful can be
		// sent beyond ending the stream.
		h.log.Warn("Analysis stream terminated", zap.Error(err))
		return
	}

	c.SSEvent("done", gin.H{"degraded": degraded})
	c.Writer.Flush()
}
