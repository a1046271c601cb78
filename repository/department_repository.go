package repository

import (
	"database/sql"
	"fmt"

	"emysore/models"
)

// DepartmentRepository handles database operations for departments.
// Complaints reference departments by name string only; resolution to a
// contact happens here at notification time.
type DepartmentRepository struct {
	db *sql.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// GetByName resolves a department by its name
func (r *DepartmentRepository) GetByName(name string) (*models.Department, error) {
	query := `SELECT department_id, name, contact_email, phone FROM departments WHERE name = ?`

	var dept models.Department
	err := r.db.QueryRow(query, name).Scan(
		&dept.DepartmentID,
		&dept.Name,
		&dept.ContactEmail,
		&dept.Phone,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

// List returns all departments ordered by name
func (r *DepartmentRepository) List() ([]models.Department, error) {
	rows, err := r.db.Query(`SELECT department_id, name, contact_email, phone FROM departments ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var dept models.Department
		if err := rows.Scan(&dept.DepartmentID, &dept.Name, &dept.ContactEmail, &dept.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, dept)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating departments: %w", err)
	}

	return departments, nil
}
