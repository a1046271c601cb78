package schema

import (
	"database/sql"
	"fmt"
	"log"
)

// InitializeSchema creates all tables if they do not exist and seeds the
// department directory. Timestamps use microsecond precision so audit entries
// created in the same second still order deterministically.
func InitializeSchema(db *sql.DB) error {
	tables := []struct {
		name string
		ddl  string
	}{
		{"users", createUsersTable},
		{"departments", createDepartmentsTable},
		{"city_services", createCityServicesTable},
		{"complaints", createComplaintsTable},
		{"complaint_audit_logs", createAuditLogsTable},
		{"notifications", createNotificationsTable},
	}

	for _, table := range tables {
		exists, err := tableExists(db, table.name)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", table.name, err)
		}
		if exists {
			log.Printf("[SCHEMA] Table %s already exists", table.name)
			continue
		}
		if _, err := db.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
		log.Printf("[SCHEMA] Created table %s", table.name)
	}

	if err := seedDepartments(db); err != nil {
		return fmt.Errorf("failed to seed departments: %w", err)
	}

	return nil
}

func tableExists(db *sql.DB, tableName string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	`
	if err := db.QueryRow(query, tableName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

const createUsersTable = `
	CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE,
		phone VARCHAR(20),
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'CITIZEN',
		created_at TIMESTAMP(6) DEFAULT CURRENT_TIMESTAMP(6)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createDepartmentsTable = `
	CREATE TABLE IF NOT EXISTS departments (
		department_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		contact_email VARCHAR(255) NOT NULL,
		phone VARCHAR(20) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createCityServicesTable = `
	CREATE TABLE IF NOT EXISTS city_services (
		service_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		category VARCHAR(100),
		phone VARCHAR(20),
		email VARCHAR(255),
		address VARCHAR(500),
		INDEX idx_city_services_category (category)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createComplaintsTable = `
	CREATE TABLE IF NOT EXISTS complaints (
		complaint_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		complaint_number VARCHAR(50) NOT NULL UNIQUE,
		user_id BIGINT NOT NULL,
		title VARCHAR(500) NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(100),
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		urgency VARCHAR(10) NOT NULL DEFAULT 'MEDIUM',
		location VARCHAR(500) NOT NULL,
		image_url VARCHAR(500),
		assigned_dept VARCHAR(255),
		escalated BOOLEAN NOT NULL DEFAULT FALSE,
		sentiment VARCHAR(20),
		confidence_score DOUBLE,
		remarks TEXT,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		deadline DATETIME(6),
		INDEX idx_complaints_user (user_id),
		INDEX idx_complaints_status (status),
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createAuditLogsTable = `
	CREATE TABLE IF NOT EXISTS complaint_audit_logs (
		entry_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		complaint_id BIGINT NOT NULL,
		user_id BIGINT NULL,
		action VARCHAR(30) NOT NULL,
		old_value VARCHAR(255) NOT NULL DEFAULT '',
		new_value VARCHAR(255) NOT NULL DEFAULT '',
		comment TEXT,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_audit_complaint (complaint_id, created_at),
		FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id),
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createNotificationsTable = `
	CREATE TABLE IF NOT EXISTS notifications (
		notification_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		type VARCHAR(30) NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_notifications_user (user_id, is_read),
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

// seedDepartments inserts the standard municipal departments, skipping any
// already present so repeated startups are safe.
func seedDepartments(db *sql.DB) error {
	departments := []struct {
		name  string
		email string
		phone string
	}{
		{"Water Supply", "water@emysore.in", "+918012340001"},
		{"Electricity", "electricity@emysore.in", "+918012340002"},
		{"Roads and Infrastructure", "roads@emysore.in", "+918012340003"},
		{"Sanitation", "sanitation@emysore.in", "+918012340004"},
		{"Parks and Recreation", "parks@emysore.in", "+918012340005"},
		{"Health Services", "health@emysore.in", "+918012340006"},
	}

	for _, dept := range departments {
		_, err := db.Exec(
			`INSERT IGNORE INTO departments (name, contact_email, phone) VALUES (?, ?, ?)`,
			dept.name, dept.email, dept.phone,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
