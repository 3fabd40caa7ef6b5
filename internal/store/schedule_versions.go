package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/models"
)

// ScheduleVersionStore keeps the version history of custom fee schedules.
type ScheduleVersionStore struct {
	DB *sql.DB
}

// CreateActive records v as the only active version for its application and
// copies its data onto the application's custom_schedule_a, all in one
// transaction.
func (s *ScheduleVersionStore) CreateActive(ctx context.Context, v *models.FeeScheduleVersion) error {
	// 1. --- Start Transaction ---
	// Rollback after a successful Commit is a no-op, so it is deferred unconditionally.
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// 2. --- Deactivate Previous Versions ---
	// At most one version per application is active at a time.
	if _, err := tx.ExecContext(ctx,
		"UPDATE agent_schedule_a_versions SET is_active = FALSE WHERE application_id = ? AND is_active = TRUE",
		v.ApplicationID); err != nil {
		return fmt.Errorf("failed to deactivate versions: %w", err)
	}

	// 3. --- Insert New Active Version ---
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO agent_schedule_a_versions
			(application_id, schedule_a_data, effective_date, created_by, notes, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, TRUE, ?)`,
		v.ApplicationID, string(v.ScheduleData), v.EffectiveDate, v.CreatedBy, v.Notes, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read version id: %w", err)
	}

	// 4. --- Mirror onto the Application ---
	// The PDF and the admin console read custom_schedule_a, not the version table.
	if err := setCustomSchedule(ctx, tx, v.ApplicationID, v.ScheduleData); err != nil {
		return err
	}

	// 5. --- Commit ---
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit version: %w", err)
	}

	v.ID = id
	v.IsActive = true
	return nil
}

// History returns an application's versions, latest effective date first.
func (s *ScheduleVersionStore) History(ctx context.Context, applicationID string) ([]models.FeeScheduleVersion, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, application_id, schedule_a_data, effective_date, created_by, notes, is_active, created_at
		 FROM agent_schedule_a_versions
		 WHERE application_id = ?
		 ORDER BY effective_date DESC, id DESC`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	versions := []models.FeeScheduleVersion{}
	for rows.Next() {
		var (
			v         models.FeeScheduleVersion
			data      []byte
			effective time.Time
			notes     sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.ApplicationID, &data, &effective, &v.CreatedBy, &notes, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		v.ScheduleData = data
		v.EffectiveDate = effective.Format("2006-01-02")
		if notes.Valid {
			v.Notes = &notes.String
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate versions: %w", err)
	}
	return versions, nil
}
