package repository

import (
	"database/sql"
	"fmt"

	"emysore/models"
)

// CityServiceRepository handles database operations for the municipal
// service directory
type CityServiceRepository struct {
	db *sql.DB
}

// NewCityServiceRepository creates a new city service repository
func NewCityServiceRepository(db *sql.DB) *CityServiceRepository {
	return &CityServiceRepository{db: db}
}

const cityServiceColumns = `service_id, name, description, category, phone, email, address`

// Create inserts a new directory entry
func (r *CityServiceRepository) Create(service *models.CityService) error {
	query := `
		INSERT INTO city_services (name, description, category, phone, email, address)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(
		query,
		service.Name,
		service.Description,
		service.Category,
		service.Phone,
		service.Email,
		service.Address,
	)
	if err != nil {
		return fmt.Errorf("failed to create city service: %w", err)
	}

	serviceID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get city service ID: %w", err)
	}

	service.ServiceID = serviceID
	return nil
}

// GetByID retrieves one directory entry
func (r *CityServiceRepository) GetByID(serviceID int64) (*models.CityService, error) {
	query := `SELECT ` + cityServiceColumns + ` FROM city_services WHERE service_id = ?`

	var service models.CityService
	err := r.db.QueryRow(query, serviceID).Scan(
		&service.ServiceID,
		&service.Name,
		&service.Description,
		&service.Category,
		&service.Phone,
		&service.Email,
		&service.Address,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get city service: %w", err)
	}
	return &service, nil
}

// List returns the whole directory ordered by name
func (r *CityServiceRepository) List() ([]models.CityService, error) {
	query := `SELECT ` + cityServiceColumns + ` FROM city_services ORDER BY name ASC`
	return r.queryServices(query)
}

// ListByCategory returns the directory entries in one category
func (r *CityServiceRepository) ListByCategory(category string) ([]models.CityService, error) {
	query := `SELECT ` + cityServiceColumns + ` FROM city_services WHERE category = ? ORDER BY name ASC`
	return r.queryServices(query, category)
}

// Update overwrites all mutable fields of an existing entry
func (r *CityServiceRepository) Update(service *models.CityService) error {
	query := `
		UPDATE city_services
		SET name = ?, description = ?, category = ?, phone = ?, email = ?, address = ?
		WHERE service_id = ?
	`

	result, err := r.db.Exec(
		query,
		service.Name,
		service.Description,
		service.Category,
		service.Phone,
		service.Email,
		service.Address,
		service.ServiceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update city service: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check city service update: %w", err)
	}
	if affected == 0 {
		return models.ErrServiceNotFound
	}
	return nil
}

// Delete removes a directory entry
func (r *CityServiceRepository) Delete(serviceID int64) error {
	result, err := r.db.Exec(`DELETE FROM city_services WHERE service_id = ?`, serviceID)
	if err != nil {
		return fmt.Errorf("failed to delete city service: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check city service delete: %w", err)
	}
	if affected == 0 {
		return models.ErrServiceNotFound
	}
	return nil
}

func (r *CityServiceRepository) queryServices(query string, args ...interface{}) ([]models.CityService, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query city services: %w", err)
	}
	defer rows.Close()

	var services []models.CityService
	for rows.Next() {
		var service models.CityService
		err := rows.Scan(
			&service.ServiceID,
			&service.Name,
			&service.Description,
			&service.Category,
			&service.Phone,
			&service.Email,
			&service.Address,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan city service: %w", err)
		}
		services = append(services, service)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating city services: %w", err)
	}

	return services, nil
}
