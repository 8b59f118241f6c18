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

type attendanceService interface {
	Mark(ctx context.Context, req service.MarkAttendanceRequest) (*models.AttendanceRecord, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error)
	DayBoard(ctx context.Context, date time.Time) ([]dto.InternDayRow, error)
	ActiveInterns(ctx context.Context) ([]models.Intern, error)
}

// AttendanceHandler exposes the attendance marking endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Mark godoc
// @Summary Mark an intern's attendance for a date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	record, err := h.service.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List godoc
// @Summary List attendance records for a date
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	date, err := dateOrToday(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.ListByDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Board godoc
// @Summary Daily punctuality board across all active interns
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance/board [get]
func (h *AttendanceHandler) Board(c *gin.Context) {
	date, err := dateOrToday(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.DayBoard(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// ActiveInterns godoc
// @Summary List active interns
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /interns/active [get]
func (h *AttendanceHandler) ActiveInterns(c *gin.Context) {
	interns, err := h.service.ActiveInterns(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interns, nil)
}
