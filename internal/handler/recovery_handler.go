package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpsoft/puntualidad-api/internal/dto"
	"github.com/rpsoft/puntualidad-api/internal/models"
	"github.com/rpsoft/puntualidad-api/internal/service"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
	"github.com/rpsoft/puntualidad-api/pkg/response"
)

type recoveryService interface {
	Schedule(ctx context.Context, req service.ScheduleRecoveryRequest) (*models.RecoverySession, error)
	RecordHours(ctx context.Context, sessionID, entry, exit string) (*models.RecoverySession, error)
	Cancel(ctx context.Context, sessionID string) (*models.RecoverySession, error)
	List(ctx context.Context, limit int) ([]dto.RecoveryRow, error)
}

// RecoveryHandler exposes the recovery session endpoints.
type RecoveryHandler struct {
	service recoveryService
}

// NewRecoveryHandler constructs the handler.
func NewRecoveryHandler(service recoveryService) *RecoveryHandler {
	return &RecoveryHandler{service: service}
}

// List godoc
// @Summary List recovery sessions with derived hours and status
// @Tags Recoveries
// @Produce json
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {object} response.Envelope
// @Router /recoveries [get]
func (h *RecoveryHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context(), parseQueryInt(c, "limit", 100))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Schedule godoc
// @Summary Schedule a recovery session against a missed record
// @Tags Recoveries
// @Accept json
// @Produce json
// @Param payload body service.ScheduleRecoveryRequest true "Recovery payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /recoveries [post]
func (h *RecoveryHandler) Schedule(c *gin.Context) {
	var req service.ScheduleRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	session, err := h.service.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

type recordHoursRequest struct {
	EntryTime string `json:"entry_time"`
	ExitTime  string `json:"exit_time"`
}

// RecordHours godoc
// @Summary Record the worked window of a recovery session
// @Tags Recoveries
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body recordHoursRequest true "Worked window"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /recoveries/{id}/hours [patch]
func (h *RecoveryHandler) RecordHours(c *gin.Context) {
	var req recordHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	session, err := h.service.RecordHours(c.Request.Context(), c.Param("id"), req.EntryTime, req.ExitTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Cancel godoc
// @Summary Cancel a recovery session
// @Tags Recoveries
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /recoveries/{id}/cancel [post]
func (h *RecoveryHandler) Cancel(c *gin.Context) {
	session, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
