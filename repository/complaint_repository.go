package repository

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"emysore/models"

	"github.com/google/uuid"
)

// ComplaintRepository handles database operations for complaints.
//
// Every mutating method runs as one transaction covering the complaint write
// and its audit entry: either both commit or neither does. Row locks
// (SELECT ... FOR UPDATE) serialize concurrent mutations per complaint, so
// operations on different complaints never block each other.
type ComplaintRepository struct {
	db *sql.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `
	complaint_id, complaint_number, user_id, title, description, category,
	status, urgency, location, image_url, assigned_dept, escalated,
	sentiment, confidence_score, remarks, created_at, updated_at, deadline
	`

// GenerateComplaintNumber generates a unique complaint number
// Format: CMP-YYYYMMDD-{UUID}
func (r *ComplaintRepository) GenerateComplaintNumber() (string, error) {
	datePrefix := time.Now().UTC().Format("20060102")
	uniqueID := uuid.New().String()[:8]
	return fmt.Sprintf("CMP-%s-%s", datePrefix, uniqueID), nil
}

// CreateComplaint inserts the complaint and its CREATED audit entry in one
// transaction. Timestamps are server-assigned; caller-supplied values are
// overwritten. On return the complaint and entry carry their generated IDs.
func (r *ComplaintRepository) CreateComplaint(complaint *models.Complaint, entry *models.AuditEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now

	query := `
		INSERT INTO complaints (
			complaint_number, user_id, title, description, category,
			status, urgency, location, image_url, assigned_dept, escalated,
			sentiment, confidence_score, remarks, created_at, updated_at, deadline
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(
		query,
		complaint.ComplaintNumber,
		complaint.UserID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Status,
		complaint.Urgency,
		complaint.Location,
		complaint.ImageURL,
		complaint.AssignedDept,
		complaint.Escalated,
		complaint.Sentiment,
		complaint.ConfidenceScore,
		complaint.Remarks,
		complaint.CreatedAt,
		complaint.UpdatedAt,
		complaint.Deadline,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	complaintID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get complaint ID: %w", err)
	}
	complaint.ComplaintID = complaintID

	entry.ComplaintID = complaintID
	entry.CreatedAt = now
	if err := insertAuditEntry(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit complaint creation: %w", err)
	}
	return nil
}

// GetComplaintByID retrieves a complaint by its ID
func (r *ComplaintRepository) GetComplaintByID(complaintID int64) (*models.Complaint, error) {
	query := `SELECT` + complaintColumns + `FROM complaints WHERE complaint_id = ?`

	complaint, err := scanComplaint(r.db.QueryRow(query, complaintID))
	if err == sql.ErrNoRows {
		return nil, models.ErrComplaintNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return complaint, nil
}

// GetComplaintsByUserID retrieves all complaints filed by a user, newest first
func (r *ComplaintRepository) GetComplaintsByUserID(userID int64) ([]models.Complaint, error) {
	query := `SELECT` + complaintColumns + `FROM complaints WHERE user_id = ? ORDER BY created_at DESC`
	return r.queryComplaints(query, userID)
}

// ListComplaints retrieves one page of complaints, newest first (staff view)
func (r *ComplaintRepository) ListComplaints(limit, offset int) ([]models.Complaint, error) {
	query := `SELECT` + complaintColumns + `FROM complaints ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.queryComplaints(query, limit, offset)
}

// ListByStatus retrieves all complaints currently in the given status.
// The escalation sweep uses this to gather PENDING candidates.
func (r *ComplaintRepository) ListByStatus(status models.ComplaintStatus) ([]models.Complaint, error) {
	query := `SELECT` + complaintColumns + `FROM complaints WHERE status = ? ORDER BY created_at ASC`
	return r.queryComplaints(query, status)
}

// UpdateStatus sets a new status and remarks, bumps updated_at and appends the
// STATUS_UPDATED audit entry, all in one transaction. The old value recorded
// in the entry is the status read under the row lock, so concurrent updates
// can never log a transition that was not actually committed.
func (r *ComplaintRepository) UpdateStatus(
	complaintID int64,
	newStatus models.ComplaintStatus,
	remarks string,
	actorID sql.NullInt64,
) (*models.Complaint, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	complaint, err := getComplaintForUpdate(tx, complaintID)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	now := time.Now().UTC()

	_, err = tx.Exec(
		`UPDATE complaints SET status = ?, remarks = ?, updated_at = ? WHERE complaint_id = ?`,
		newStatus, nullString(remarks), now, complaintID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update complaint status: %w", err)
	}

	entry := &models.AuditEntry{
		ComplaintID: complaintID,
		UserID:      actorID,
		Action:      models.ActionStatusUpdated,
		OldValue:    string(oldStatus),
		NewValue:    string(newStatus),
		Comment:     nullString(remarks),
		CreatedAt:   now,
	}
	if err := insertAuditEntry(tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	complaint.Status = newStatus
	complaint.Remarks = nullString(remarks)
	complaint.UpdatedAt = now
	return complaint, nil
}

// SetEscalated sets the escalated flag (independent of status), bumps
// updated_at and appends the ESCALATED audit entry in one transaction.
func (r *ComplaintRepository) SetEscalated(
	complaintID int64,
	escalated bool,
	comment string,
	actorID sql.NullInt64,
) (*models.Complaint, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	complaint, err := getComplaintForUpdate(tx, complaintID)
	if err != nil {
		return nil, err
	}

	oldEscalated := complaint.Escalated
	now := time.Now().UTC()

	_, err = tx.Exec(
		`UPDATE complaints SET escalated = ?, updated_at = ? WHERE complaint_id = ?`,
		escalated, now, complaintID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update escalation flag: %w", err)
	}

	entry := &models.AuditEntry{
		ComplaintID: complaintID,
		UserID:      actorID,
		Action:      models.ActionEscalated,
		OldValue:    strconv.FormatBool(oldEscalated),
		NewValue:    strconv.FormatBool(escalated),
		Comment:     nullString(comment),
		CreatedAt:   now,
	}
	if err := insertAuditEntry(tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit escalation: %w", err)
	}

	complaint.Escalated = escalated
	complaint.UpdatedAt = now
	return complaint, nil
}

// EscalateIfEligible escalates the complaint only if it is still eligible at
// write time: status PENDING, not yet escalated, and created at or before the
// threshold. Eligibility is re-checked under the row lock, so a sweep racing
// an officer's resolution (or a second sweep) no-ops instead of overriding it.
// Returns (nil, false, nil) when the complaint is no longer eligible.
func (r *ComplaintRepository) EscalateIfEligible(
	complaintID int64,
	threshold time.Duration,
	now time.Time,
	comment string,
) (*models.Complaint, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	complaint, err := getComplaintForUpdate(tx, complaintID)
	if err != nil {
		return nil, false, err
	}

	if complaint.Status != models.StatusPending || complaint.Escalated ||
		now.Sub(complaint.CreatedAt) < threshold {
		return nil, false, nil
	}

	_, err = tx.Exec(
		`UPDATE complaints SET escalated = ?, updated_at = ? WHERE complaint_id = ?`,
		true, now, complaintID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update escalation flag: %w", err)
	}

	entry := &models.AuditEntry{
		ComplaintID: complaintID,
		UserID:      sql.NullInt64{}, // system actor
		Action:      models.ActionEscalated,
		OldValue:    "false",
		NewValue:    "true",
		Comment:     nullString(comment),
		CreatedAt:   now,
	}
	if err := insertAuditEntry(tx, entry); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit escalation: %w", err)
	}

	complaint.Escalated = true
	complaint.UpdatedAt = now
	return complaint, true, nil
}

// AddComment appends a COMMENT_ADDED audit entry for an existing complaint.
// The row lock keeps the existence check and the append in one atomic unit.
func (r *ComplaintRepository) AddComment(complaintID int64, actorID int64, comment string) (*models.Complaint, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	complaint, err := getComplaintForUpdate(tx, complaintID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	_, err = tx.Exec(
		`UPDATE complaints SET updated_at = ? WHERE complaint_id = ?`,
		now, complaintID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to touch complaint: %w", err)
	}

	entry := &models.AuditEntry{
		ComplaintID: complaintID,
		UserID:      sql.NullInt64{Int64: actorID, Valid: true},
		Action:      models.ActionCommentAdded,
		OldValue:    "",
		NewValue:    "",
		Comment:     sql.NullString{String: comment, Valid: true},
		CreatedAt:   now,
	}
	if err := insertAuditEntry(tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit comment: %w", err)
	}

	complaint.UpdatedAt = now
	return complaint, nil
}

// getComplaintForUpdate loads the complaint under a row lock inside tx.
func getComplaintForUpdate(tx *sql.Tx, complaintID int64) (*models.Complaint, error) {
	query := `SELECT` + complaintColumns + `FROM complaints WHERE complaint_id = ? FOR UPDATE`

	complaint, err := scanComplaint(tx.QueryRow(query, complaintID))
	if err == sql.ErrNoRows {
		return nil, models.ErrComplaintNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock complaint: %w", err)
	}
	return complaint, nil
}

func (r *ComplaintRepository) queryComplaints(query string, args ...interface{}) ([]models.Complaint, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, *complaint)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaints: %w", err)
	}

	return complaints, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	var complaint models.Complaint
	err := row.Scan(
		&complaint.ComplaintID,
		&complaint.ComplaintNumber,
		&complaint.UserID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Status,
		&complaint.Urgency,
		&complaint.Location,
		&complaint.ImageURL,
		&complaint.AssignedDept,
		&complaint.Escalated,
		&complaint.Sentiment,
		&complaint.ConfidenceScore,
		&complaint.Remarks,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.Deadline,
	)
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
