package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func newMockRepo(t *testing.T) (*AppointmentGormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewAppointmentGormRepository(db), mock
}

func TestCompleteIfConfirmedReportsRowChange(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.CompleteIfConfirmed(context.Background(), 7, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.CompleteIfConfirmed(context.Background(), 7, now)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOverdueWithNothingToCancel(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, err := repo.CancelOverdue(context.Background(), time.Now(), domain.AutoCancelNote)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppointmentNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "appointments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetAppointment(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestFindPatientByUserNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "patients"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindPatientByUser(context.Background(), 11)
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}

func TestUpdateAppointmentRefusesStaleRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "appointments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ap := &models.Appointment{ID: 3, Status: string(domain.StatusPending), PaymentStatus: string(domain.PaymentSubmitted)}
	err := repo.UpdateAppointment(context.Background(), ap, domain.Expect{
		Status:        string(domain.StatusPending),
		PaymentStatus: string(domain.PaymentPending),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectAssignLocks(mock sqlmock.Sqlmock, current int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "time_slots" WHERE .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "start_time", "end_time", "timezone", "max_bookings", "is_available"}).
			AddRow(5, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), "09:00", "09:30", "UTC", 1, true))
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "status", "payment_status", "consultation_method"}).
			AddRow(7, 3, string(domain.StatusPending), string(domain.PaymentVerified), string(domain.MethodPhone)))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE \(?time_slot_id = \$1 AND status IN \(\$2,\$3\) AND id <> \$4\)?`).
		WithArgs(5, string(domain.StatusPending), string(domain.StatusConfirmed), 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(current))
}

func TestAssignSlotLocksSlotThenAppointment(t *testing.T) {
	repo, mock := newMockRepo(t)

	expectAssignLocks(mock, 0)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var seen int64 = -1
	ap, err := repo.AssignSlot(context.Background(), 7, 5,
		func(ap *models.Appointment, slot *models.TimeSlot, current int64) error {
			seen = current
			return domain.AssignSlot(ap, slot, current)
		},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seen)
	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
	require.NotNil(t, ap.TimeSlotID)
	assert.Equal(t, uint(5), *ap.TimeSlotID)
	require.NotNil(t, ap.TimeSlot)
	assert.Equal(t, "09:00", ap.TimeSlot.StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignSlotFullRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	expectAssignLocks(mock, 1)
	mock.ExpectRollback()

	_, err := repo.AssignSlot(context.Background(), 7, 5,
		func(ap *models.Appointment, slot *models.TimeSlot, current int64) error {
			return domain.AssignSlot(ap, slot, current)
		},
	)
	assert.ErrorIs(t, err, domain.ErrSlotFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignSlotMissingSlot(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "time_slots" WHERE .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.AssignSlot(context.Background(), 7, 5,
		func(*models.Appointment, *models.TimeSlot, int64) error { return nil },
	)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOverdueReloadsReturnedRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.MatchExpectationsInOrder(false)
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE "appointments" SET .+ WHERE \(?status IN \(.+\) AND payment_deadline IS NOT NULL AND payment_deadline < .+ AND payment_status <> .+\)? RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4).AddRow(9))
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE id IN \(\$1,\$2\) ORDER BY id ASC`).
		WithArgs(4, 9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "time_slot_id", "status", "payment_status"}).
			AddRow(4, 3, 5, string(domain.StatusCancelled), string(domain.PaymentPending)).
			AddRow(9, 3, 5, string(domain.StatusCancelled), string(domain.PaymentSubmitted)))
	mock.ExpectQuery(`SELECT \* FROM "patients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "full_name"}).AddRow(3, 11, "Ayesha Khan"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(11, "ayesha@example.com"))
	mock.ExpectQuery(`SELECT \* FROM "time_slots"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_time", "end_time"}).AddRow(5, "09:00", "09:30"))

	out, err := repo.CancelOverdue(context.Background(), now, domain.AutoCancelNote)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint(4), out[0].ID)
	assert.Equal(t, uint(9), out[1].ID)
	assert.Equal(t, "ayesha@example.com", out[0].Patient.User.Email)
	require.NotNil(t, out[1].TimeSlot)
	assert.NoError(t, mock.ExpectationsWereMet())
}
