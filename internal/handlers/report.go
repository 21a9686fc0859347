package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuroscreen/internal/config"
	"neuroscreen/internal/llm"
	"neuroscreen/internal/models"
	"neuroscreen/internal/report"
	"neuroscreen/internal/scoring"
)

type ReportHandler struct {
	log     *zap.Logger
	gateway *llm.Gateway
	llmCfg  config.LLMConfig
}

func NewReportHandler(log *zap.Logger, gateway *llm.Gateway, llmCfg config.LLMConfig) *ReportHandler {
	return &ReportHandler{log: log, gateway: gateway, llmCfg: llmCfg}
}

type generateReportRequest struct {
	TestResults models.TestResultSet `json:"testResults"`
	PatientInfo models.PatientInfo   `json:"patientInfo"`
}

type generateReportResponse struct {
	Report   models.Report `json:"report"`
	Degraded bool          `json:"degraded"`
	Note     string        `json:"note,omitempty"`
}

// GenerateReport runs the full pipeline: validate, score, interpret, prompt,
// complete, parse, assemble. Upstream LLM failure degrades to the
// deterministic fallback and still responds 200.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Failed to bind report request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if err := req.PatientInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scores := models.ScoreSet{
		EmotionScore: scoring.EmotionScore(req.TestResults.EmotionTest),
		PatternScore: scoring.PatternScore(req.TestResults.PatternTest),
	}

	reactionMeasured := true
	reactionScore, err := scoring.ReactionScore(req.TestResults.ReactionTest)
	if err != nil {
		if !errors.Is(err, scoring.ErrNoValidTrials) {
			h.log.Error("Unexpected scoring failure", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score test results"})
			return
		}
		// Reporting gap: the score stays zero and the interpretation
		// records that reaction time was not assessed.
		reactionMeasured = false
	}
	scores.ReactionScore = reactionScore

	interpretations := scoring.Interpret(scores, reactionMeasured)

	input := report.PromptInput{
		Patient:          req.PatientInfo,
		Scores:           scores,
		Interpretations:  interpretations,
		ReactionMeasured: reactionMeasured,
		Date:             time.Now().UTC(),
	}

	result := h.gateway.Complete(c.Request.Context(), llm.CompletionRequest{
		Prompt:      report.BuildPrompt(input),
		MaxTokens:   h.llmCfg.MaxTokens,
		Temperature: h.llmCfg.ReportTemperature,
		Fallback:    report.BuildFallback(input),
	})

	generated := report.Parse(result.Text)
	note := ""
	if result.Degraded {
		note = "The report service was unavailable; this report was generated locally from the screening scores."
	} else if len(generated.Observations) == 0 && len(generated.Recommendations) == 0 && len(generated.RedFlags) == 0 {
		// The model returned text with no recognizable sections. Substitute
		// the deterministic body rather than an empty report.
		h.log.Warn("Model response had no parseable sections, substituting deterministic content",
			zap.String("patientID", req.PatientInfo.ID))
		generated = report.Parse(report.BuildFallback(input))
		result.Degraded = true
		note = "The model response could not be parsed; deterministic content was substituted."
	}

	c.JSON(http.StatusOK, generateReportResponse{
		Report:   report.Assemble(req.PatientInfo, scores, interpretations, generated),
		Degraded: result.Degraded,
		Note:     note,
	})
}
