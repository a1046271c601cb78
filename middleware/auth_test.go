package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emysore/models"
	"emysore/repository"
	"emysore/service"
	"emysore/utils"
)

const testSecret = "test-secret"

func newAuthMiddleware(t *testing.T) (*AuthMiddleware, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := service.NewUserService(repository.NewUserRepository(db), testSecret, 24)
	return NewAuthMiddleware(users, testSecret), mock
}

func expectUserRow(mock sqlmock.Sqlmock, userID int64, role string) {
	row := sqlmock.NewRows([]string{"user_id", "name", "email", "phone", "password_hash", "role", "created_at"}).
		AddRow(userID, "Asha", "asha@example.com", nil, "hash", role, time.Now().UTC())
	mock.ExpectQuery("FROM users WHERE user_id").WithArgs(userID).WillReturnRows(row)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	mw, _ := newAuthMiddleware(t)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/complaints", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	mw, _ := newAuthMiddleware(t)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthLoadsActingUser(t *testing.T) {
	mw, mock := newAuthMiddleware(t)
	expectUserRow(mock, 9, "CITIZEN")

	token, err := utils.GenerateJWT(9, "CITIZEN", testSecret, 1)
	require.NoError(t, err)

	var got *models.User
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetActingUser(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(9), got.UserID)
	assert.Equal(t, models.RoleCitizen, got.Role)
}

func TestRequireRoleForbidsCitizenOnStaffRoute(t *testing.T) {
	mw, mock := newAuthMiddleware(t)
	expectUserRow(mock, 9, "CITIZEN")

	token, err := utils.GenerateJWT(9, "CITIZEN", testSecret, 1)
	require.NoError(t, err)

	handler := mw.RequireAuth(
		mw.RequireRole(models.RoleOfficer, models.RoleAdmin)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			}),
		),
	)

	req := httptest.NewRequest(http.MethodPut, "/api/complaints/5/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAdmitsOfficer(t *testing.T) {
	mw, mock := newAuthMiddleware(t)
	expectUserRow(mock, 2, "OFFICER")

	token, err := utils.GenerateJWT(2, "OFFICER", testSecret, 1)
	require.NoError(t, err)

	called := false
	handler := mw.RequireAuth(
		mw.RequireRole(models.RoleOfficer, models.RoleAdmin)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}),
		),
	)

	req := httptest.NewRequest(http.MethodPut, "/api/complaints/5/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
