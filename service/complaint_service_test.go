package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emysore/models"
	"emysore/notification"
	"emysore/repository"
)

func newComplaintServiceStack(t *testing.T, mlURL string) (*ComplaintService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dispatcher := notification.NewDispatcher(nil, nil, 16, time.Second)
	notifications := NewNotificationService(repository.NewNotificationRepository(db), dispatcher)
	svc := NewComplaintService(
		repository.NewComplaintRepository(db),
		repository.NewAuditRepository(db),
		repository.NewUserRepository(db),
		repository.NewDepartmentRepository(db),
		NewEnrichmentClient(mlURL, time.Second),
		NewStorageService(t.TempDir(), "/uploads"),
		notifications,
	)
	return svc, mock
}

func TestCreateComplaintRejectsMissingRequiredFields(t *testing.T) {
	svc, mock := newComplaintServiceStack(t, "http://127.0.0.1:1")

	cases := []models.CreateComplaintRequest{
		{Description: "d", Location: "l"},
		{Title: "t", Location: "l"},
		{Title: "t", Description: "d"},
		{Title: "   ", Description: "d", Location: "l"},
	}

	for _, req := range cases {
		_, err := svc.CreateComplaint(context.Background(), 9, &req, nil, "")
		assert.ErrorIs(t, err, models.ErrMissingRequiredFields)
	}

	// validation failures must not touch the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComplaintPersistsEnrichedComplaintWithCreatedAudit(t *testing.T) {
	ml := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"category":   "WATER",
			"urgency":    "HIGH",
			"sentiment":  "NEGATIVE",
			"confidence": 0.91,
		})
	}))
	defer ml.Close()

	svc, mock := newComplaintServiceStack(t, ml.URL)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO complaints").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO complaint_audit_logs").
		WithArgs(int64(42), int64(9), "CREATED", "", "PENDING", "Complaint created", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// filer notification after commit: user lookup then notification insert
	userRow := sqlmock.NewRows([]string{"user_id", "name", "email", "phone", "password_hash", "role", "created_at"}).
		AddRow(int64(9), "Asha", "asha@example.com", nil, "hash", "CITIZEN", time.Now().UTC())
	mock.ExpectQuery("FROM users WHERE user_id").WithArgs(int64(9)).WillReturnRows(userRow)
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(int64(9), "Complaint Filed Successfully",
			"Your complaint has been filed with ID #42", "COMPLAINT_CREATED", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.CreateComplaintRequest{
		Title:       "No water supply",
		Description: "No water since yesterday",
		Location:    "Kuvempunagar",
	}
	complaint, err := svc.CreateComplaint(context.Background(), 9, req, nil, "")
	require.NoError(t, err)

	assert.Equal(t, int64(42), complaint.ComplaintID)
	assert.Equal(t, models.StatusPending, complaint.Status)
	assert.Regexp(t, `^CMP-\d{8}-[0-9a-f]{8}$`, complaint.ComplaintNumber)
	assert.Equal(t, "WATER", complaint.Category.String)
	assert.Equal(t, models.UrgencyHigh, complaint.Urgency)
	assert.Equal(t, "NEGATIVE", complaint.Sentiment.String)
	assert.InDelta(t, 0.91, complaint.ConfidenceScore.Float64, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComplaintProceedsWithDefaultsWhenEnrichmentIsDown(t *testing.T) {
	svc, mock := newComplaintServiceStack(t, "http://127.0.0.1:1")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO complaints").WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectExec("INSERT INTO complaint_audit_logs").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM users WHERE user_id").WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	req := &models.CreateComplaintRequest{
		Title:       "No water supply",
		Description: "No water since yesterday",
		Location:    "Kuvempunagar",
	}
	complaint, err := svc.CreateComplaint(context.Background(), 9, req, nil, "")
	require.NoError(t, err)

	assert.Equal(t, "GENERAL", complaint.Category.String)
	assert.Equal(t, models.UrgencyMedium, complaint.Urgency)
	assert.Equal(t, "NEUTRAL", complaint.Sentiment.String)
	assert.InDelta(t, 0.5, complaint.ConfidenceScore.Float64, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, mock := newComplaintServiceStack(t, "http://127.0.0.1:1")

	actor := &models.User{UserID: 2, Role: models.RoleOfficer}
	_, err := svc.UpdateStatus(5, actor, &models.UpdateStatusRequest{NewStatus: "SHREDDED"})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentRejectsBlankComment(t *testing.T) {
	svc, mock := newComplaintServiceStack(t, "http://127.0.0.1:1")

	actor := &models.User{UserID: 2, Role: models.RoleOfficer}
	err := svc.AddComment(5, actor, "   \t ")
	assert.ErrorIs(t, err, models.ErrEmptyComment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentDoesNotNotifyCommentingFiler(t *testing.T) {
	svc, mock := newComplaintServiceStack(t, "http://127.0.0.1:1")

	mock.ExpectBegin()
	mock.ExpectQuery("FROM complaints WHERE complaint_id = (.+) FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(addPendingRow(sqlmock.NewRows(complaintCols), 5, time.Now().UTC()))
	mock.ExpectExec("UPDATE complaints SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO complaint_audit_logs").
		WithArgs(int64(5), int64(9), "COMMENT_ADDED", "", "", "still waiting", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectCommit()

	// the filer (user 9) commented on their own complaint: no user lookup,
	// no notification insert
	filer := &models.User{UserID: 9, Role: models.RoleCitizen}
	err := svc.AddComment(5, filer, "still waiting")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAuditTrailUnknownComplaint(t *testing.T) {
	svc, mock := newComplaintServiceStack(t, "http://127.0.0.1:1")

	mock.ExpectQuery("FROM complaints WHERE complaint_id").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetAuditTrail(404)
	assert.ErrorIs(t, err, models.ErrComplaintNotFound)
}
