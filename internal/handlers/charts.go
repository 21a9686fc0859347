package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"neuroscreen/internal/repository"
)

type ChartsHandler struct {
	log *zap.Logger
}

func NewChartsHandler(log *zap.Logger) *ChartsHandler {
	return &ChartsHandler{log: log}
}

// SessionChart renders an HTML overview chart of session volume and mean
// reaction times over the requested window.
func (h *ChartsHandler) SessionChart(c *gin.Context) {
	days := 30
	if q := c.Query("days"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 || parsed > 365 {
			c.String(http.StatusBadRequest, "invalid days parameter")
			return
		}
		days = parsed
	}

	volume, err := repository.GetSessionVolume(days)
	if err != nil {
		h.log.Error("Failed to get session volume", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load chart data")
		return
	}
	trend, err := repository.GetReactionTrend(days)
	if err != nil {
		h.log.Error("Failed to get reaction trend", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load chart data")
		return
	}

	page := generateSessionChart(volume, trend)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		h.log.Error("Failed to render session chart", zap.Error(err))
	}
}

func generateSessionChart(volume []repository.SessionVolumePoint, trend []repository.ReactionTrendPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Screening Sessions",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Name: "date",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	dates := make([]string, 0, len(volume))
	counts := make([]opts.LineData, 0, len(volume))
	for _, point := range volume {
		dates = append(dates, point.Date)
		counts = append(counts, opts.LineData{Value: point.Count})
	}

	meanByDate := make(map[string]float64, len(trend))
	for _, point := range trend {
		meanByDate[point.Date] = point.MeanMs
	}
	means := make([]opts.LineData, 0, len(volume))
	for _, point := range volume {
		means = append(means, opts.LineData{Value: meanByDate[point.Date]})
	}

	line.SetXAxis(dates).
		AddSeries("Sessions", counts).
		AddSeries("Mean reaction (ms)", means).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
