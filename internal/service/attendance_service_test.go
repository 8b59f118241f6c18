package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsoft/puntualidad-api/internal/models"
	appErrors "github.com/rpsoft/puntualidad-api/pkg/errors"
)

type fakeAttendanceStore struct {
	records  []models.AttendanceRecord
	upserted []*models.AttendanceRecord
}

func (f *fakeAttendanceStore) Upsert(_ context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	f.upserted = append(f.upserted, record)
	stored := *record
	stored.ID = "rec-1"
	return &stored, nil
}

func (f *fakeAttendanceStore) ListByDate(context.Context, time.Time) ([]models.AttendanceRecord, error) {
	return f.records, nil
}

func TestAttendanceMark_StoresEntryAndExit(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := NewAttendanceService(store, &fakeRoster{}, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 16, 18, 0, 0, 0, time.UTC) }

	stored, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		InternID:  "int-1",
		Date:      "2026-03-16",
		State:     "present",
		EntryTime: "08:55",
		ExitTime:  "17:30",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatePresent, stored.State)
	require.NotNil(t, stored.EntryTime)
	assert.Equal(t, "08:55", stored.EntryTime.Format("15:04"))
	require.NotNil(t, stored.ExitTime)
	assert.Equal(t, "17:30", stored.ExitTime.Format("15:04"))
}

func TestAttendanceMark_RejectsJustifiedState(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceStore{}, &fakeRoster{}, nil, nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		InternID: "int-1",
		Date:     "2026-03-16",
		State:    "absent_justified",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMark_RejectsUnknownState(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceStore{}, &fakeRoster{}, nil, nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		InternID: "int-1",
		Date:     "2026-03-16",
		State:    "vacationing",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMark_RejectsFutureDate(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceStore{}, &fakeRoster{}, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC) }

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		InternID: "int-1",
		Date:     "2026-03-17",
		State:    "late",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceDayBoard_DefaultsToUnjustified(t *testing.T) {
	team := "backend"
	reason := "TKT-042 - cita medica"
	entry := time.Date(2026, 3, 16, 9, 20, 0, 0, time.UTC)
	store := &fakeAttendanceStore{records: []models.AttendanceRecord{
		{InternID: "int-1", State: models.StateLate, EntryTime: &entry},
		{InternID: "int-2", State: models.StateAbsentJustified, Reason: &reason},
	}}
	roster := &fakeRoster{interns: []models.Intern{
		{ID: "int-1", FullName: "Ana Quispe", Team: &team},
		{ID: "int-2", FullName: "Luis Mamani"},
		{ID: "int-3", FullName: "Rosa Flores"},
	}}

	svc := NewAttendanceService(store, roster, nil, nil)
	rows, err := svc.DayBoard(context.Background(), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.StateLate, rows[0].State)
	assert.Equal(t, "backend", rows[0].Team)
	require.NotNil(t, rows[0].EntryTime)
	assert.Equal(t, "09:20", *rows[0].EntryTime)

	assert.Equal(t, models.StateAbsentJustified, rows[1].State)
	require.NotNil(t, rows[1].Ticket)
	assert.Equal(t, reason, *rows[1].Ticket)

	// No record for int-3: the board shows an unjustified absence.
	assert.Equal(t, models.StateAbsentUnjustified, rows[2].State)
	assert.Nil(t, rows[2].EntryTime)
	assert.Nil(t, rows[2].Ticket)
}
