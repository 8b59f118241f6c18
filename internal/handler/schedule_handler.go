package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpsoft/puntualidad-api/internal/models"
	"github.com/rpsoft/puntualidad-api/internal/service"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
	"github.com/rpsoft/puntualidad-api/pkg/response"
)

type scheduleService interface {
	ClassDayFor(ctx context.Context, internID string) (*models.Weekday, error)
	InternsWithClassOn(ctx context.Context, day models.Weekday) ([]string, error)
	Upsert(ctx context.Context, req service.UpsertScheduleRequest) (*models.ClassSchedule, error)
}

// ScheduleHandler exposes the class schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// ClassDay godoc
// @Summary Class day for an intern
// @Tags Schedules
// @Produce json
// @Param internId path string true "Intern ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{internId} [get]
func (h *ScheduleHandler) ClassDay(c *gin.Context) {
	day, err := h.service.ClassDayFor(c.Request.Context(), c.Param("internId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"class_day": day}, nil)
}

// ByWeekday godoc
// @Summary Interns with class on a weekday
// @Tags Schedules
// @Produce json
// @Param day query string true "Weekday (monday..sunday)"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) ByWeekday(c *gin.Context) {
	ids, err := h.service.InternsWithClassOn(c.Request.Context(), models.Weekday(c.Query("day")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ids, nil)
}

// Upsert godoc
// @Summary Assign an intern's class schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.UpsertScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules [put]
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	var req service.UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	schedule, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}
