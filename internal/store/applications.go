package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/models"
)

// ApplicationStore reads and writes partner_applications.
type ApplicationStore struct {
	DB *sql.DB
}

var (
	stringFields = models.StringFields()
	jsonFields   = models.JSONFields()

	// dataColumns are every column written on insert and update, in order.
	dataColumns = func() []string {
		cols := make([]string, 0, len(stringFields)+len(jsonFields))
		for _, f := range stringFields {
			cols = append(cols, f.Column)
		}
		for _, f := range jsonFields {
			cols = append(cols, f.Column)
		}
		return cols
	}()

	selectColumns = "id, created_at, updated_at, " + strings.Join(dataColumns, ", ")
)

func dataValues(app *models.Application) []any {
	vals := make([]any, 0, len(dataColumns))
	for _, f := range stringFields {
		vals = append(vals, nullString(*f.Ptr(app)))
	}
	for _, f := range jsonFields {
		vals = append(vals, jsonValue(*f.Ptr(app)))
	}
	return vals
}

func jsonValue(raw json.RawMessage) any {
	if !jsonfix.IsPresent(raw) {
		return nil
	}
	return string(raw)
}

func scanApplication(row scanner) (*models.Application, error) {
	app := &models.Application{}
	strs := make([]sql.NullString, len(stringFields))
	raws := make([][]byte, len(jsonFields))

	dest := []any{&app.ID, &app.CreatedAt, &app.UpdatedAt}
	for i := range strs {
		dest = append(dest, &strs[i])
	}
	for i := range raws {
		dest = append(dest, &raws[i])
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, f := range stringFields {
		*f.Ptr(app) = strs[i].String
	}
	for i, f := range jsonFields {
		if raws[i] != nil {
			*f.Ptr(app) = json.RawMessage(raws[i])
		}
	}
	return app, nil
}

// Create inserts a new application. An empty ID is filled by the caller's
// generator beforehand; CreatedAt and UpdatedAt default to now.
func (s *ApplicationStore) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		return errors.New("application id is required")
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	// id, created_at and updated_at come before the data columns.
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(dataColumns)+3), ", ")
	query := fmt.Sprintf("INSERT INTO partner_applications (id, created_at, updated_at, %s) VALUES (%s)",
		strings.Join(dataColumns, ", "), placeholders)

	args := append([]any{app.ID, app.CreatedAt, app.UpdatedAt}, dataValues(app)...)
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// Get returns the application with the given id.
func (s *ApplicationStore) Get(ctx context.Context, id string) (*models.Application, error) {
	query := "SELECT " + selectColumns + " FROM partner_applications WHERE id = ?"
	app, err := scanApplication(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application %s: %w", id, err)
	}
	return app, nil
}

// List returns applications newest first. A limit of zero returns every row.
func (s *ApplicationStore) List(ctx context.Context, limit, offset int) ([]models.Application, error) {
	query := "SELECT " + selectColumns + " FROM partner_applications ORDER BY created_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	// We scan each row into a full Application; the admin list filters in memory.
	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// Update overwrites every data column of an existing application.
func (s *ApplicationStore) Update(ctx context.Context, app *models.Application) error {
	app.UpdatedAt = time.Now().UTC()

	sets := make([]string, 0, len(dataColumns)+1)
	sets = append(sets, "updated_at = ?")
	for _, c := range dataColumns {
		sets = append(sets, c+" = ?")
	}
	query := "UPDATE partner_applications SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	args := append([]any{app.UpdatedAt}, dataValues(app)...)
	args = append(args, app.ID)

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", app.ID, err)
	}
	return expectOne(res)
}

// UpdateStatus changes only the status column.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE partner_applications SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update status of %s: %w", id, err)
	}
	return expectOne(res)
}

// Delete removes an application and, through the foreign key, its schedule versions.
func (s *ApplicationStore) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM partner_applications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete application %s: %w", id, err)
	}
	return expectOne(res)
}

// StoredSchedule is the raw custom_schedule_a of one application.
type StoredSchedule struct {
	ID           string
	PartnerEmail string
	Raw          json.RawMessage
}

// ListCustomSchedules returns every application that has a custom schedule stored.
func (s *ApplicationStore) ListCustomSchedules(ctx context.Context) ([]StoredSchedule, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, partner_email, custom_schedule_a FROM partner_applications WHERE custom_schedule_a IS NOT NULL ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list custom schedules: %w", err)
	}
	defer rows.Close()

	var out []StoredSchedule
	for rows.Next() {
		var (
			row  StoredSchedule
			email sql.NullString
			raw   []byte
		)
		if err := rows.Scan(&row.ID, &email, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan custom schedule: %w", err)
		}
		row.PartnerEmail = email.String
		row.Raw = raw
		out = append(out, row)
	}
	return out, rows.Err()
}

// SetCustomSchedule replaces custom_schedule_a, or clears it when raw is empty.
func (s *ApplicationStore) SetCustomSchedule(ctx context.Context, id string, raw json.RawMessage) error {
	return setCustomSchedule(ctx, s.DB, id, raw)
}

func setCustomSchedule(ctx context.Context, q Querier, id string, raw json.RawMessage) error {
	res, err := q.ExecContext(ctx,
		"UPDATE partner_applications SET custom_schedule_a = ?, updated_at = ? WHERE id = ?",
		jsonValue(raw), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set custom schedule of %s: %w", id, err)
	}
	return expectOne(res)
}
