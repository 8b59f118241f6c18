package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsoft/puntualidad-api/internal/dto"
	"github.com/rpsoft/puntualidad-api/internal/models"
)

type fakeSummaryAttendance struct {
	counts  *models.AttendanceStateCounts
	records []models.AttendanceRecord
	atCap   []string
}

func (f *fakeSummaryAttendance) StateCounts(context.Context, time.Time) (*models.AttendanceStateCounts, error) {
	return f.counts, nil
}

func (f *fakeSummaryAttendance) ListByDate(context.Context, time.Time) ([]models.AttendanceRecord, error) {
	return f.records, nil
}

func (f *fakeSummaryAttendance) InternsAtTicketCap(context.Context, time.Time, time.Time, int) ([]string, error) {
	return f.atCap, nil
}

type fakeScheduleStore struct {
	schedules []models.ClassSchedule
}

func (f *fakeScheduleStore) ListAll(context.Context) ([]models.ClassSchedule, error) {
	return f.schedules, nil
}

type fakeRoster struct {
	interns []models.Intern
}

func (f *fakeRoster) ListActive(context.Context) ([]models.Intern, error) {
	return f.interns, nil
}

func weekdayPtr(w models.Weekday) *models.Weekday { return &w }

func TestSummaryDaily_CountsAndExpected(t *testing.T) {
	// 2026-03-16 is a Monday.
	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	attendance := &fakeSummaryAttendance{
		counts: &models.AttendanceStateCounts{Present: 4, Late: 2, AbsentJustified: 1, AbsentUnjustified: 1},
	}
	schedules := &fakeScheduleStore{schedules: []models.ClassSchedule{
		{InternID: "int-1", ClassDay: weekdayPtr(models.Monday)},
		{InternID: "int-2", ClassDay: weekdayPtr(models.Friday)},
		{InternID: "int-3"},
	}}
	roster := &fakeRoster{interns: []models.Intern{
		{ID: "int-1"}, {ID: "int-2"}, {ID: "int-3"}, {ID: "int-4"},
	}}

	svc := NewSummaryService(attendance, schedules, roster, nil, nil, SummaryServiceConfig{})
	summary, cacheHit, err := svc.Daily(context.Background(), date)
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, "2026-03-16", summary.Date)
	assert.Equal(t, 4, summary.Present)
	assert.Equal(t, 2, summary.Late)
	assert.Equal(t, 1, summary.AbsentJustified)
	assert.Equal(t, 1, summary.AbsentUnjustified)

	// int-1 has class today; int-2 has class another day so drops out of the
	// expected pool; int-3 and int-4 have no override and are always expected.
	assert.Equal(t, 1, summary.WithClassToday)
	assert.Equal(t, 3, summary.TotalExpected)
}

func TestSummaryAlerts_ClassifiesRecords(t *testing.T) {
	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	attendance := &fakeSummaryAttendance{
		records: []models.AttendanceRecord{
			{InternID: "int-1", State: models.StateLate},
			{InternID: "int-2", State: models.StateAbsentUnjustified},
			{InternID: "int-3", State: models.StateAbsentUnjustified},
			{InternID: "int-4", State: models.StatePresent},
		},
		atCap: []string{"int-5"},
	}
	// int-2 has class on Mondays, so its absence is not alerted.
	schedules := &fakeScheduleStore{schedules: []models.ClassSchedule{
		{InternID: "int-2", ClassDay: weekdayPtr(models.Monday)},
	}}

	svc := NewSummaryService(attendance, schedules, &fakeRoster{}, nil, nil, SummaryServiceConfig{})
	alerts, err := svc.Alerts(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, dto.AlertTypeLate, alerts[0].Type)
	assert.Equal(t, 1, alerts[0].Count)
	assert.Equal(t, []string{"int-1"}, alerts[0].Preview)

	assert.Equal(t, dto.AlertTypeAbsence, alerts[1].Type)
	assert.Equal(t, 1, alerts[1].Count)
	assert.Equal(t, []string{"int-3"}, alerts[1].Preview)

	assert.Equal(t, dto.AlertTypeTicketLimit, alerts[2].Type)
	assert.Equal(t, []string{"int-5"}, alerts[2].Preview)
}

func TestSummaryAlerts_EmptyDay(t *testing.T) {
	svc := NewSummaryService(&fakeSummaryAttendance{}, &fakeScheduleStore{}, &fakeRoster{}, nil, nil, SummaryServiceConfig{})
	alerts, err := svc.Alerts(context.Background(), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestSummaryAlerts_PreviewCapped(t *testing.T) {
	records := make([]models.AttendanceRecord, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		records = append(records, models.AttendanceRecord{InternID: id, State: models.StateLate})
	}
	attendance := &fakeSummaryAttendance{records: records}

	svc := NewSummaryService(attendance, &fakeScheduleStore{}, &fakeRoster{}, nil, nil, SummaryServiceConfig{})
	alerts, err := svc.Alerts(context.Background(), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	assert.Equal(t, 8, alerts[0].Count)
	assert.Len(t, alerts[0].Preview, 5)
}

func TestSummaryDaily_UsesCache(t *testing.T) {
	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	attendance := &fakeSummaryAttendance{
		counts: &models.AttendanceStateCounts{Present: 2},
	}
	cacheRepo := newStubCacheRepo()
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, nil, true)

	svc := NewSummaryService(attendance, &fakeScheduleStore{}, &fakeRoster{}, cacheSvc, nil, SummaryServiceConfig{})

	summary, cacheHit, err := svc.Daily(context.Background(), date)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 2, summary.Present)

	cached, cacheHit, err := svc.Daily(context.Background(), date)
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, summary.Present, cached.Present)
}
