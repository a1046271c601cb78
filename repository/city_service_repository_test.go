package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emysore/models"
)

func newMockCityServiceRepo(t *testing.T) (*CityServiceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCityServiceRepository(db), mock
}

var cityServiceCols = []string{"service_id", "name", "description", "category", "phone", "email", "address"}

func TestCityServiceCreateAssignsID(t *testing.T) {
	repo, mock := newMockCityServiceRepo(t)

	mock.ExpectExec("INSERT INTO city_services").
		WithArgs("Water Tanker Booking", "Book a municipal water tanker", "Water",
			"+918012340001", "water@emysore.in", "City Corporation Office").
		WillReturnResult(sqlmock.NewResult(3, 1))

	service := &models.CityService{
		Name:        "Water Tanker Booking",
		Description: "Book a municipal water tanker",
		Category:    "Water",
		Phone:       "+918012340001",
		Email:       "water@emysore.in",
		Address:     "City Corporation Office",
	}
	require.NoError(t, repo.Create(service))
	assert.Equal(t, int64(3), service.ServiceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCityServiceGetByIDNotFound(t *testing.T) {
	repo, mock := newMockCityServiceRepo(t)

	mock.ExpectQuery("FROM city_services WHERE service_id").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(404)
	assert.ErrorIs(t, err, models.ErrServiceNotFound)
}

func TestCityServiceListByCategory(t *testing.T) {
	repo, mock := newMockCityServiceRepo(t)

	rows := sqlmock.NewRows(cityServiceCols).
		AddRow(int64(1), "Water Tanker Booking", "Book a tanker", "Water",
			"+918012340001", "water@emysore.in", "Corporation Office").
		AddRow(int64(2), "Borewell Permit", "Apply for a borewell permit", "Water",
			"+918012340001", "water@emysore.in", "Corporation Office")
	mock.ExpectQuery("FROM city_services WHERE category").
		WithArgs("Water").
		WillReturnRows(rows)

	services, err := repo.ListByCategory("Water")
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Water Tanker Booking", services[0].Name)
	assert.Equal(t, "Borewell Permit", services[1].Name)
}

func TestCityServiceUpdateNotFound(t *testing.T) {
	repo, mock := newMockCityServiceRepo(t)

	mock.ExpectExec("UPDATE city_services").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(&models.CityService{ServiceID: 404, Name: "Renamed"})
	assert.ErrorIs(t, err, models.ErrServiceNotFound)
}

func TestCityServiceDeleteNotFound(t *testing.T) {
	repo, mock := newMockCityServiceRepo(t)

	mock.ExpectExec("DELETE FROM city_services").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(404)
	assert.ErrorIs(t, err, models.ErrServiceNotFound)
}

func TestCityServiceDelete(t *testing.T) {
	repo, mock := newMockCityServiceRepo(t)

	mock.ExpectExec("DELETE FROM city_services").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(3))
}
