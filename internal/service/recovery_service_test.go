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

type fakeRecoveryStore struct {
	sessions map[string]*models.RecoverySession
	details  []models.RecoveryDetail
	created  []*models.RecoverySession
	updated  []*models.RecoverySession
}

func newFakeRecoveryStore() *fakeRecoveryStore {
	return &fakeRecoveryStore{sessions: map[string]*models.RecoverySession{}}
}

func (f *fakeRecoveryStore) GetByID(_ context.Context, id string) (*models.RecoverySession, error) {
	return f.sessions[id], nil
}

func (f *fakeRecoveryStore) ListByRecord(_ context.Context, recordID string) ([]models.RecoverySession, error) {
	var out []models.RecoverySession
	for _, s := range f.sessions {
		if s.RecordID == recordID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRecoveryStore) List(context.Context, int) ([]models.RecoveryDetail, error) {
	return f.details, nil
}

func (f *fakeRecoveryStore) Create(_ context.Context, session *models.RecoverySession) (*models.RecoverySession, error) {
	stored := *session
	stored.ID = "sess-1"
	f.created = append(f.created, &stored)
	f.sessions[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeRecoveryStore) Update(_ context.Context, session *models.RecoverySession) (*models.RecoverySession, error) {
	if _, ok := f.sessions[session.ID]; !ok {
		return nil, nil
	}
	stored := *session
	f.updated = append(f.updated, &stored)
	f.sessions[stored.ID] = &stored
	return &stored, nil
}

type fakeRecordStore struct {
	records map[string]*models.AttendanceRecord
}

func (f *fakeRecordStore) GetByID(_ context.Context, id string) (*models.AttendanceRecord, error) {
	return f.records[id], nil
}

func recoveryAt(status models.RecoveryStatus, entry, exit string) *models.RecoverySession {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	session := &models.RecoverySession{
		ID:           "sess-1",
		RecordID:     "rec-1",
		RecoveryDate: date,
		Status:       status,
	}
	if entry != "" {
		at, _ := combineClock(date, entry)
		session.EntryTime = &at
	}
	if exit != "" {
		at, _ := combineClock(date, exit)
		session.ExitTime = &at
	}
	return session
}

func TestRecoveryCompletedHours(t *testing.T) {
	svc := NewRecoveryService(newFakeRecoveryStore(), &fakeRecordStore{}, nil, nil, RecoveryServiceConfig{})

	tests := []struct {
		name  string
		entry string
		exit  string
		want  float64
	}{
		{"normal window", "09:00", "13:30", 4.5},
		{"clamped to max", "08:00", "23:00", 12},
		{"entry equals exit", "09:00", "09:00", 0},
		{"exit before entry", "14:00", "09:00", 0},
		{"missing exit", "09:00", "", 0},
		{"missing both", "", "", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := recoveryAt(models.RecoveryInProgress, tc.entry, tc.exit)
			assert.Equal(t, tc.want, svc.CompletedHours(session))
		})
	}
}

func TestRecoveryTargetHours_AdaptsUpward(t *testing.T) {
	svc := NewRecoveryService(newFakeRecoveryStore(), &fakeRecordStore{}, nil, nil, RecoveryServiceConfig{})

	assert.Equal(t, 6, svc.TargetHours(0))
	assert.Equal(t, 6, svc.TargetHours(4.5))
	assert.Equal(t, 6, svc.TargetHours(6.9))
	assert.Equal(t, 8, svc.TargetHours(8.25))
}

func TestRecoveryDeriveStatus(t *testing.T) {
	svc := NewRecoveryService(newFakeRecoveryStore(), &fakeRecordStore{}, nil, nil, RecoveryServiceConfig{})

	pending := recoveryAt(models.RecoveryPending, "", "")
	assert.Equal(t, models.RecoveryPending, svc.DeriveStatus(pending, 0, 6))
	assert.Equal(t, models.RecoveryInProgress, svc.DeriveStatus(pending, 2, 6))
	assert.Equal(t, models.RecoveryCompleted, svc.DeriveStatus(pending, 6, 6))

	// Terminal statuses never regress.
	completed := recoveryAt(models.RecoveryCompleted, "", "")
	assert.Equal(t, models.RecoveryCompleted, svc.DeriveStatus(completed, 0, 6))

	cancelled := recoveryAt(models.RecoveryCancelled, "", "")
	assert.Equal(t, models.RecoveryCancelled, svc.DeriveStatus(cancelled, 8, 6))
}

func TestRecoverySchedule_RequiresAbsence(t *testing.T) {
	records := &fakeRecordStore{records: map[string]*models.AttendanceRecord{
		"rec-present": {ID: "rec-present", State: models.StatePresent},
		"rec-absent":  {ID: "rec-absent", State: models.StateAbsentUnjustified},
	}}
	store := newFakeRecoveryStore()
	svc := NewRecoveryService(store, records, nil, nil, RecoveryServiceConfig{})

	_, err := svc.Schedule(context.Background(), ScheduleRecoveryRequest{RecordID: "rec-present", Date: "2026-03-14"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)

	_, err = svc.Schedule(context.Background(), ScheduleRecoveryRequest{RecordID: "missing", Date: "2026-03-14"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	stored, err := svc.Schedule(context.Background(), ScheduleRecoveryRequest{RecordID: "rec-absent", Date: "2026-03-14"})
	require.NoError(t, err)
	assert.Equal(t, models.RecoveryPending, stored.Status)
	assert.Equal(t, "rec-absent", stored.RecordID)
}

func TestRecoverySchedule_RejectsSecondActiveSession(t *testing.T) {
	records := &fakeRecordStore{records: map[string]*models.AttendanceRecord{
		"rec-1": {ID: "rec-1", State: models.StateAbsentJustified},
	}}
	store := newFakeRecoveryStore()
	store.sessions["sess-1"] = recoveryAt(models.RecoveryPending, "", "")
	svc := NewRecoveryService(store, records, nil, nil, RecoveryServiceConfig{})

	_, err := svc.Schedule(context.Background(), ScheduleRecoveryRequest{RecordID: "rec-1", Date: "2026-03-21"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)

	// A cancelled session does not block rescheduling.
	store.sessions["sess-1"].Status = models.RecoveryCancelled
	stored, err := svc.Schedule(context.Background(), ScheduleRecoveryRequest{RecordID: "rec-1", Date: "2026-03-21"})
	require.NoError(t, err)
	assert.Equal(t, models.RecoveryPending, stored.Status)
}

func TestRecoveryRecordHours_PromotesStatus(t *testing.T) {
	store := newFakeRecoveryStore()
	store.sessions["sess-1"] = recoveryAt(models.RecoveryPending, "", "")
	svc := NewRecoveryService(store, &fakeRecordStore{}, nil, nil, RecoveryServiceConfig{})

	stored, err := svc.RecordHours(context.Background(), "sess-1", "09:00", "12:00")
	require.NoError(t, err)
	assert.Equal(t, models.RecoveryInProgress, stored.Status)

	stored, err = svc.RecordHours(context.Background(), "sess-1", "08:00", "14:30")
	require.NoError(t, err)
	assert.Equal(t, models.RecoveryCompleted, stored.Status)

	// Once completed, the session is closed to further edits.
	_, err = svc.RecordHours(context.Background(), "sess-1", "08:00", "09:00")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestRecoveryRecordHours_RejectsBadClock(t *testing.T) {
	store := newFakeRecoveryStore()
	store.sessions["sess-1"] = recoveryAt(models.RecoveryPending, "", "")
	svc := NewRecoveryService(store, &fakeRecordStore{}, nil, nil, RecoveryServiceConfig{})

	_, err := svc.RecordHours(context.Background(), "sess-1", "9am", "12:00")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecoveryCancel(t *testing.T) {
	store := newFakeRecoveryStore()
	store.sessions["sess-1"] = recoveryAt(models.RecoveryInProgress, "09:00", "11:00")
	svc := NewRecoveryService(store, &fakeRecordStore{}, nil, nil, RecoveryServiceConfig{})

	stored, err := svc.Cancel(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.RecoveryCancelled, stored.Status)

	_, err = svc.Cancel(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestRecoveryList_BuildsRows(t *testing.T) {
	reason := "TKT-042 - cita medica programada"
	longReason := "justificacion extensa sin referencia de ticket alguna"
	store := newFakeRecoveryStore()
	store.details = []models.RecoveryDetail{
		{
			RecoverySession: *recoveryAt(models.RecoveryInProgress, "09:00", "13:30"),
			InternID:        "int-1",
			InternName:      "Ana Quispe",
			Reason:          &reason,
		},
		{
			RecoverySession: models.RecoverySession{
				ID:           "sess-2",
				RecordID:     "0f8fad5b-d9cb-469f-a165-70867728950e",
				RecoveryDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
				Status:       models.RecoveryPending,
			},
			InternID:   "int-2",
			InternName: "Luis Mamani",
			Reason:     &longReason,
		},
	}
	svc := NewRecoveryService(store, &fakeRecordStore{}, nil, nil, RecoveryServiceConfig{})

	rows, err := svc.List(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TKT-042", rows[0].TicketRef)
	assert.Equal(t, "09:00 - 13:30", rows[0].Window)
	assert.Equal(t, 4.5, rows[0].CompletedHours)
	assert.Equal(t, 6, rows[0].TargetHours)
	assert.Equal(t, models.RecoveryInProgress, rows[0].Status)

	assert.Equal(t, "TKT-0f8fad5b", rows[1].TicketRef)
	assert.Equal(t, "", rows[1].Window)
	assert.Equal(t, float64(0), rows[1].CompletedHours)
	assert.Equal(t, models.RecoveryPending, rows[1].Status)
}

func TestTicketRef(t *testing.T) {
	withRef := "ver TKT123 adjunto"
	short := "permiso breve"
	assert.Equal(t, "TKT123", ticketRef("rec-1", &withRef))
	assert.Equal(t, "permiso breve", ticketRef("rec-1", &short))
	assert.Equal(t, "TKT-rec-1", ticketRef("rec-1", nil))
}
