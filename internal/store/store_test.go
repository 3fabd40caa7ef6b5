package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func applicationRow(id, name string, schedule any) ([]string, []driver.Value) {
	cols := append([]string{"id", "created_at", "updated_at"}, dataColumns...)
	vals := []driver.Value{id, created, created}
	for _, f := range stringFields {
		switch f.Column {
		case "partner_full_name":
			vals = append(vals, name)
		case "status":
			vals = append(vals, models.StatusSubmitted)
		default:
			vals = append(vals, nil)
		}
	}
	for _, f := range jsonFields {
		if f.Column == "custom_schedule_a" {
			vals = append(vals, schedule)
			continue
		}
		vals = append(vals, nil)
	}
	return cols, vals
}

func newMock(t *testing.T) (*ApplicationStore, *ScheduleVersionStore, *StaffStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &ApplicationStore{DB: db}, &ScheduleVersionStore{DB: db}, &StaffStore{DB: db}, mock
}

func TestApplicationGet(t *testing.T) {
	apps, _, _, mock := newMock(t)

	cols, vals := applicationRow("app-1", "Jane Doe", []byte(`{"visaMcFee":{"option1":"$0.02"}}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, created_at, updated_at, status")).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(vals...))

	app, err := apps.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", app.PartnerFullName)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.Equal(t, "", app.Agent)
	assert.JSONEq(t, `{"visaMcFee":{"option1":"$0.02"}}`, string(app.CustomScheduleA))
	assert.Nil(t, app.CustomTerms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationGetNotFound(t *testing.T) {
	apps, _, _, mock := newMock(t)
	cols, _ := applicationRow("", "", nil)
	mock.ExpectQuery("SELECT id").WillReturnRows(sqlmock.NewRows(cols))

	_, err := apps.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplicationCreate(t *testing.T) {
	apps, _, _, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO partner_applications (id, created_at, updated_at, status")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	app := &models.Application{ID: "app-2", Status: models.StatusInvited, PartnerEmail: "a@example.com"}
	require.NoError(t, apps.Create(context.Background(), app))
	assert.False(t, app.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Error(t, apps.Create(context.Background(), &models.Application{}))
}

func TestApplicationUpdateNotFound(t *testing.T) {
	apps, _, _, mock := newMock(t)
	mock.ExpectExec("UPDATE partner_applications SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := apps.Update(context.Background(), &models.Application{ID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplicationList(t *testing.T) {
	apps, _, _, mock := newMock(t)

	cols, a := applicationRow("a", "Ann", nil)
	_, b := applicationRow("b", "Bob", nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT ? OFFSET ?")).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(a...).AddRow(b...))

	list, err := apps.List(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bob", list[1].PartnerFullName)
}

func TestDeleteAndStatus(t *testing.T) {
	apps, _, _, mock := newMock(t)
	mock.ExpectExec("DELETE FROM partner_applications").WithArgs("x").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE partner_applications SET status").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, apps.Delete(context.Background(), "x"))
	assert.ErrorIs(t, apps.UpdateStatus(context.Background(), "x", "approved"), ErrNotFound)
}

func TestListCustomSchedules(t *testing.T) {
	apps, _, _, mock := newMock(t)
	mock.ExpectQuery("SELECT id, partner_email, custom_schedule_a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "partner_email", "custom_schedule_a"}).
			AddRow("a", "ann@example.com", []byte(`"{\"a\":1}"`)).
			AddRow("b", nil, []byte(`{}`)))

	rows, err := apps.ListCustomSchedules(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1].PartnerEmail)
	assert.Equal(t, `"{\"a\":1}"`, string(rows[0].Raw))
}

func TestCreateActiveVersion(t *testing.T) {
	_, versions, _, mock := newMock(t)

	data := json.RawMessage(`{"visaMcFee":{"option1":"$0.02"}}`)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE agent_schedule_a_versions SET is_active = FALSE")).
		WithArgs("app-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO agent_schedule_a_versions")).
		WithArgs("app-1", string(data), "2025-05-01", "admin@golumino.com", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE partner_applications SET custom_schedule_a = ?")).
		WithArgs(string(data), sqlmock.AnyArg(), "app-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	v := &models.FeeScheduleVersion{
		ApplicationID: "app-1",
		ScheduleData:  data,
		EffectiveDate: "2025-05-01",
		CreatedBy:     "admin@golumino.com",
	}
	require.NoError(t, versions.CreateActive(context.Background(), v))
	assert.Equal(t, int64(7), v.ID)
	assert.True(t, v.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateActiveVersionRollsBack(t *testing.T) {
	_, versions, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE agent_schedule_a_versions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO agent_schedule_a_versions").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := versions.CreateActive(context.Background(), &models.FeeScheduleVersion{ApplicationID: "app-1", ScheduleData: json.RawMessage(`{}`)})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateActiveVersionMissingApplication(t *testing.T) {
	_, versions, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE agent_schedule_a_versions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO agent_schedule_a_versions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE partner_applications SET custom_schedule_a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := versions.CreateActive(context.Background(), &models.FeeScheduleVersion{ApplicationID: "gone", ScheduleData: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory(t *testing.T) {
	_, versions, _, mock := newMock(t)

	cols := []string{"id", "application_id", "schedule_a_data", "effective_date", "created_by", "notes", "is_active", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY effective_date DESC, id DESC")).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, "app-1", []byte(`{}`), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "a", "raise", true, created).
			AddRow(1, "app-1", []byte(`{}`), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "a", nil, false, created))

	list, err := versions.History(context.Background(), "app-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-06-01", list[0].EffectiveDate)
	require.NotNil(t, list[0].Notes)
	assert.Equal(t, "raise", *list[0].Notes)
	assert.Nil(t, list[1].Notes)
	assert.True(t, list[0].IsActive)
	assert.False(t, list[1].IsActive)
}

func TestEnsureAdmin(t *testing.T) {
	_, _, staff, mock := newMock(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("admin@golumino.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "created_at"}))
	mock.ExpectExec("INSERT INTO staff_users").WillReturnResult(sqlmock.NewResult(1, 1))

	createdAdmin, err := staff.EnsureAdmin(context.Background(), "admin@golumino.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, createdAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())

	skipped, err := staff.EnsureAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, skipped)
}
