package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsoft/puntualidad-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

var attendanceCols = []string{"id", "intern_id", "date", "state", "entry_time", "exit_time", "reason", "created_at", "updated_at"}

func TestAttendanceRepositoryGetByIDNone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("rec-99").
		WillReturnError(sql.ErrNoRows)

	rec, err := repo.GetByID(context.Background(), "rec-99")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAttendanceRepositoryCountTickets(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records")).
		WithArgs("int-1", string(models.StateAbsentJustified), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountTickets(context.Background(), "int-1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryInternsAtTicketCap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("HAVING COUNT(*) >= $4")).
		WithArgs(string(models.StateAbsentJustified), from, to, 3).
		WillReturnRows(sqlmock.NewRows([]string{"intern_id"}).AddRow("int-1").AddRow("int-7"))

	ids, err := repo.InternsAtTicketCap(context.Background(), from, to, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"int-1", "int-7"}, ids)
}

func TestAttendanceRepositoryStateCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"state", "cnt"}).
		AddRow("present", 5).
		AddRow("late", 2).
		AddRow("absent_unjustified", 1)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY state")).
		WithArgs(date).
		WillReturnRows(rows)

	counts, err := repo.StateCounts(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 5, counts.Present)
	assert.Equal(t, 2, counts.Late)
	assert.Equal(t, 0, counts.AbsentJustified)
	assert.Equal(t, 1, counts.AbsentUnjustified)
}

func TestAttendanceRepositoryUpsertJustification(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	reason := "cita medica programada"
	record := &models.AttendanceRecord{
		InternID: "int-1",
		Date:     date,
		State:    models.StateAbsentJustified,
		Reason:   &reason,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("int-1", string(models.StateAbsentJustified), monthStart, date).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rec-a"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WithArgs(sqlmock.AnyArg(), "int-1", date, string(models.StateAbsentJustified),
			nil, nil, &reason, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(attendanceCols).
			AddRow("rec-b", "int-1", date, "absent_justified", nil, nil, reason, time.Now(), time.Now()))
	mock.ExpectCommit()

	stored, used, err := repo.UpsertJustification(context.Background(), record, monthStart, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, used)
	assert.Equal(t, "rec-b", stored.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertJustificationAtCap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	reason := "tramite de documentos"
	record := &models.AttendanceRecord{
		InternID: "int-1",
		Date:     date,
		State:    models.StateAbsentJustified,
		Reason:   &reason,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("int-1", string(models.StateAbsentJustified), monthStart, date).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rec-a").AddRow("rec-b").AddRow("rec-c"))
	mock.ExpectRollback()

	_, used, err := repo.UpsertJustification(context.Background(), record, monthStart, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTicketLimitReached))
	assert.Equal(t, 3, used)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	record := &models.AttendanceRecord{
		InternID: "int-1",
		Date:     date,
		State:    models.StateLate,
	}

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (intern_id, date)")).
		WithArgs(sqlmock.AnyArg(), "int-1", date, string(models.StateLate),
			nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(attendanceCols).
			AddRow("rec-1", "int-1", date, "late", nil, nil, nil, time.Now(), time.Now()))

	stored, err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", stored.ID)
	assert.Equal(t, models.StateLate, stored.State)
}
