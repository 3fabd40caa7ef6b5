package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS partner_applications (
		id CHAR(36) NOT NULL PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		status VARCHAR(32) NOT NULL DEFAULT 'invited',
		agent VARCHAR(255) NULL,
		partner_full_name VARCHAR(255) NULL,
		partner_email VARCHAR(254) NULL,
		partner_phone VARCHAR(64) NULL,
		partner_address VARCHAR(255) NULL,
		partner_city VARCHAR(128) NULL,
		partner_state VARCHAR(64) NULL,
		partner_zip VARCHAR(16) NULL,
		date_of_birth VARCHAR(32) NULL,
		bank_account_number VARCHAR(64) NULL,
		bank_routing_number VARCHAR(32) NULL,
		business_name VARCHAR(255) NULL,
		principal_name VARCHAR(255) NULL,
		business_address VARCHAR(255) NULL,
		business_city VARCHAR(128) NULL,
		business_state VARCHAR(64) NULL,
		business_zip VARCHAR(16) NULL,
		business_phone VARCHAR(64) NULL,
		federal_tax_id VARCHAR(32) NULL,
		business_type VARCHAR(32) NULL,
		website_url VARCHAR(512) NULL,
		w9_name VARCHAR(255) NULL,
		w9_business_name VARCHAR(255) NULL,
		w9_tax_classification VARCHAR(32) NULL,
		w9_llc_classification VARCHAR(8) NULL,
		w9_other_classification VARCHAR(255) NULL,
		w9_exempt_payee_code VARCHAR(32) NULL,
		w9_fatca_code VARCHAR(32) NULL,
		w9_address VARCHAR(255) NULL,
		w9_city_state_zip VARCHAR(255) NULL,
		w9_tin_type VARCHAR(8) NULL,
		w9_tin VARCHAR(32) NULL,
		drivers_license_url VARCHAR(1024) NULL,
		voided_check_url VARCHAR(1024) NULL,
		code_of_conduct_signature TEXT NULL,
		code_of_conduct_date VARCHAR(32) NULL,
		signature_full_name VARCHAR(255) NULL,
		signature_date VARCHAR(32) NULL,
		agreement_text MEDIUMTEXT NULL,
		custom_schedule_a JSON NULL,
		custom_message JSON NULL,
		custom_code_of_conduct JSON NULL,
		custom_terms JSON NULL,
		INDEX idx_partner_applications_created (created_at),
		INDEX idx_partner_applications_email (partner_email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS agent_schedule_a_versions (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		application_id CHAR(36) NOT NULL,
		schedule_a_data JSON NOT NULL,
		effective_date DATE NOT NULL,
		created_by VARCHAR(255) NOT NULL,
		notes TEXT NULL,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_schedule_versions_app (application_id, effective_date),
		CONSTRAINT fk_schedule_versions_app FOREIGN KEY (application_id)
			REFERENCES partner_applications (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS staff_users (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(254) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
