package worker

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"emysore/repository"
	"emysore/service"
)

func TestEscalationWorkerRunsImmediateSweepAndStops(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// one empty sweep on start; the hour-long interval keeps a second sweep
	// from firing during the test
	mock.ExpectQuery("FROM complaints WHERE status").
		WithArgs("PENDING").
		WillReturnRows(sqlmock.NewRows([]string{
			"complaint_id", "complaint_number", "user_id", "title", "description", "category",
			"status", "urgency", "location", "image_url", "assigned_dept", "escalated",
			"sentiment", "confidence_score", "remarks", "created_at", "updated_at", "deadline",
		}))

	complaintRepo := repository.NewComplaintRepository(db)
	escalations := service.NewEscalationService(complaintRepo, nil, 72*time.Hour)

	w := NewEscalationWorker(escalations, time.Hour)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mock.ExpectationsWereMet() == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, mock.ExpectationsWereMet())

	w.Stop()
	require.NotPanics(t, w.Stop)
}

func TestEscalationWorkerStartTwiceIsSafe(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM complaints WHERE status").
		WillReturnRows(sqlmock.NewRows([]string{
			"complaint_id", "complaint_number", "user_id", "title", "description", "category",
			"status", "urgency", "location", "image_url", "assigned_dept", "escalated",
			"sentiment", "confidence_score", "remarks", "created_at", "updated_at", "deadline",
		}))

	escalations := service.NewEscalationService(repository.NewComplaintRepository(db), nil, 72*time.Hour)
	w := NewEscalationWorker(escalations, time.Hour)
	w.Start()
	w.Start()
	w.Stop()
}

func TestEscalationWorkerRestartsAfterStop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{
		"complaint_id", "complaint_number", "user_id", "title", "description", "category",
		"status", "urgency", "location", "image_url", "assigned_dept", "escalated",
		"sentiment", "confidence_score", "remarks", "created_at", "updated_at", "deadline",
	}
	// one immediate sweep per Start
	mock.ExpectQuery("FROM complaints WHERE status").
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery("FROM complaints WHERE status").
		WillReturnRows(sqlmock.NewRows(cols))

	escalations := service.NewEscalationService(repository.NewComplaintRepository(db), nil, 72*time.Hour)
	w := NewEscalationWorker(escalations, time.Hour)

	w.Start()
	w.Stop()
	w.Start()
	defer w.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mock.ExpectationsWereMet() == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
