package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
)

func parseQueryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	return &parsed, nil
}

// dateOrToday resolves a date query param, defaulting to today's UTC date.
func dateOrToday(c *gin.Context, key string) (time.Time, error) {
	parsed, err := parseDateParam(c.Query(key))
	if err != nil {
		return time.Time{}, err
	}
	if parsed != nil {
		return *parsed, nil
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}
