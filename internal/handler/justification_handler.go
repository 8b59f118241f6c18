package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpsoft/puntualidad-api/internal/dto"
	"github.com/rpsoft/puntualidad-api/internal/models"
	"github.com/rpsoft/puntualidad-api/internal/service"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
	"github.com/rpsoft/puntualidad-api/pkg/response"
)

type justificationService interface {
	CreateOrUpdate(ctx context.Context, req service.CreateJustificationRequest) (*dto.JustificationCreated, error)
	Approve(ctx context.Context, recordID string) (*models.AttendanceRecord, error)
	Reject(ctx context.Context, recordID, rejectionReason string) (*models.AttendanceRecord, error)
	List(ctx context.Context, from, to time.Time) ([]dto.JustificationRow, error)
}

// JustificationHandler exposes the justification ticket endpoints.
type JustificationHandler struct {
	service justificationService
}

// NewJustificationHandler constructs the handler.
func NewJustificationHandler(service justificationService) *JustificationHandler {
	return &JustificationHandler{service: service}
}

// Create godoc
// @Summary Open or re-open a justification ticket
// @Tags Justifications
// @Accept json
// @Produce json
// @Param payload body service.CreateJustificationRequest true "Justification payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /justifications [post]
func (h *JustificationHandler) Create(c *gin.Context) {
	var req service.CreateJustificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	created, err := h.service.CreateOrUpdate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// List godoc
// @Summary List justifications with derived ticket status
// @Tags Justifications
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /justifications [get]
func (h *JustificationHandler) List(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var fromDate, toDate time.Time
	if from != nil {
		fromDate = *from
	}
	if to != nil {
		toDate = *to
	}
	rows, err := h.service.List(c.Request.Context(), fromDate, toDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Approve godoc
// @Summary Approve a pending justification
// @Tags Justifications
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /justifications/{id}/approve [post]
func (h *JustificationHandler) Approve(c *gin.Context) {
	record, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject godoc
// @Summary Reject a pending justification
// @Tags Justifications
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body rejectRequest true "Rejection reason"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /justifications/{id}/reject [post]
func (h *JustificationHandler) Reject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	record, err := h.service.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
