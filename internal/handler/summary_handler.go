package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpsoft/puntualidad-api/internal/dto"
	"github.com/rpsoft/puntualidad-api/pkg/response"
)

type summaryService interface {
	Daily(ctx context.Context, date time.Time) (*dto.DailySummary, bool, error)
	Alerts(ctx context.Context, date time.Time) ([]dto.Alert, error)
}

// SummaryHandler exposes the punctuality aggregation endpoints.
type SummaryHandler struct {
	service summaryService
}

// NewSummaryHandler constructs the handler.
func NewSummaryHandler(service summaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// Daily godoc
// @Summary Daily punctuality summary
// @Tags Punctuality
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /punctuality/summary [get]
func (h *SummaryHandler) Daily(c *gin.Context) {
	date, err := dateOrToday(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, cacheHit, err := h.service.Daily(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{"cache_hit": cacheHit}
	response.JSON(c, http.StatusOK, summary, nil, meta)
}

// Alerts godoc
// @Summary Punctuality alerts for a date
// @Tags Punctuality
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /punctuality/alerts [get]
func (h *SummaryHandler) Alerts(c *gin.Context) {
	date, err := dateOrToday(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	alerts, err := h.service.Alerts(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alerts, nil)
}
