package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"emysore/models"
	"emysore/repository"
)

// ComplaintService orchestrates the complaint lifecycle: creation with
// enrichment and image storage, officer status updates, escalation, comments
// and reads. Mutations delegate to the repository's transactional methods, so
// the complaint write and its audit entry always commit together; user-facing
// notifications happen strictly after the commit and never fail the operation.
type ComplaintService struct {
	complaintRepo *repository.ComplaintRepository
	auditRepo     *repository.AuditRepository
	userRepo      *repository.UserRepository
	deptRepo      *repository.DepartmentRepository
	enrichment    *EnrichmentClient
	storage       *StorageService
	notifications *NotificationService
}

// NewComplaintService creates a new complaint service
func NewComplaintService(
	complaintRepo *repository.ComplaintRepository,
	auditRepo *repository.AuditRepository,
	userRepo *repository.UserRepository,
	deptRepo *repository.DepartmentRepository,
	enrichment *EnrichmentClient,
	storage *StorageService,
	notifications *NotificationService,
) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		auditRepo:     auditRepo,
		userRepo:      userRepo,
		deptRepo:      deptRepo,
		enrichment:    enrichment,
		storage:       storage,
		notifications: notifications,
	}
}

// CreateComplaint files a new complaint for the given user. Enrichment is
// best-effort (defaults on failure); image storage is not, a supplied image
// that cannot be stored fails the whole operation before anything is written.
func (s *ComplaintService) CreateComplaint(
	ctx context.Context,
	userID int64,
	req *models.CreateComplaintRequest,
	imageData []byte,
	imageContentType string,
) (*models.Complaint, error) {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.Location) == "" {
		return nil, models.ErrMissingRequiredFields
	}

	complaintNumber, err := s.complaintRepo.GenerateComplaintNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate complaint number: %w", err)
	}

	complaint := &models.Complaint{
		ComplaintNumber: complaintNumber,
		UserID:          userID,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		Status:          models.StatusPending,
		Location:        strings.TrimSpace(req.Location),
	}
	if req.Category != nil && *req.Category != "" {
		complaint.Category = sql.NullString{String: *req.Category, Valid: true}
	}
	if req.AssignedDept != nil && *req.AssignedDept != "" {
		complaint.AssignedDept = sql.NullString{String: *req.AssignedDept, Valid: true}
	}
	if req.Deadline != nil {
		complaint.Deadline = sql.NullTime{Time: req.Deadline.UTC(), Valid: true}
	}

	s.enrichment.EnrichComplaint(ctx, complaint)

	if len(imageData) > 0 {
		imageURL, err := s.storage.SaveImage(imageData, imageContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store complaint image: %w", err)
		}
		complaint.ImageURL = sql.NullString{String: imageURL, Valid: true}
	}

	entry := &models.AuditEntry{
		UserID:   sql.NullInt64{Int64: userID, Valid: true},
		Action:   models.ActionCreated,
		OldValue: "",
		NewValue: string(models.StatusPending),
		Comment:  sql.NullString{String: "Complaint created", Valid: true},
	}
	if err := s.complaintRepo.CreateComplaint(complaint, entry); err != nil {
		return nil, err
	}

	s.notifyFiler(
		userID,
		"Complaint Filed Successfully",
		fmt.Sprintf("Your complaint has been filed with ID #%d", complaint.ComplaintID),
		models.NotificationComplaintCreated,
	)
	s.notifyAssignedDepartment(
		complaint,
		"New Complaint Assigned",
		fmt.Sprintf("A new complaint #%d (%s) has been assigned to your department: %s",
			complaint.ComplaintID, complaint.ComplaintNumber, complaint.Title),
	)

	return complaint, nil
}

// UpdateStatus changes a complaint's status on behalf of an officer or admin
func (s *ComplaintService) UpdateStatus(
	complaintID int64,
	actor *models.User,
	req *models.UpdateStatusRequest,
) (*models.Complaint, error) {
	newStatus := models.ComplaintStatus(req.NewStatus)
	if !models.ValidStatus(newStatus) {
		return nil, models.ErrInvalidStatus
	}

	actorID := sql.NullInt64{Int64: actor.UserID, Valid: true}
	complaint, err := s.complaintRepo.UpdateStatus(complaintID, newStatus, req.Remarks, actorID)
	if err != nil {
		return nil, err
	}

	s.notifyFiler(
		complaint.UserID,
		"Complaint Status Updated",
		fmt.Sprintf("Your complaint #%d status has been updated to %s", complaint.ComplaintID, newStatus),
		models.NotificationComplaintUpdated,
	)
	s.notifyAssignedDepartment(
		complaint,
		fmt.Sprintf("Complaint Update - %d", complaint.ComplaintID),
		fmt.Sprintf("Complaint #%d status changed to %s", complaint.ComplaintID, newStatus),
	)

	return complaint, nil
}

// Escalate sets or clears the escalated flag on behalf of an officer or
// admin. Clearing the flag is audited but deliberately quiet.
func (s *ComplaintService) Escalate(
	complaintID int64,
	actor *models.User,
	escalate bool,
) (*models.Complaint, error) {
	actorID := sql.NullInt64{Int64: actor.UserID, Valid: true}
	comment := "Complaint de-escalated"
	if escalate {
		comment = "Complaint escalated manually"
	}

	complaint, err := s.complaintRepo.SetEscalated(complaintID, escalate, comment, actorID)
	if err != nil {
		return nil, err
	}

	if escalate {
		s.notifyFiler(
			complaint.UserID,
			"Complaint Escalated",
			fmt.Sprintf("Your complaint #%d has been escalated to high priority", complaint.ComplaintID),
			models.NotificationComplaintEscalated,
		)
		s.notifyAssignedDepartment(
			complaint,
			fmt.Sprintf("URGENT: Complaint #%d Escalated", complaint.ComplaintID),
			fmt.Sprintf("Complaint #%d (%s) has been escalated. Immediate action required.",
				complaint.ComplaintID, complaint.Title),
		)
	}

	return complaint, nil
}

// AutoEscalate escalates one overdue complaint on behalf of the system. The
// repository re-checks eligibility under the row lock, so a complaint resolved
// or already escalated since it was listed is skipped, not overridden.
func (s *ComplaintService) AutoEscalate(
	complaintID int64,
	threshold time.Duration,
	now time.Time,
) (*models.Complaint, bool, error) {
	complaint, escalated, err := s.complaintRepo.EscalateIfEligible(
		complaintID, threshold, now,
		"Complaint automatically escalated due to overdue status",
	)
	if err != nil || !escalated {
		return nil, escalated, err
	}

	s.notifyFiler(
		complaint.UserID,
		"Complaint Escalated",
		fmt.Sprintf("Your complaint #%d has been escalated due to delayed response", complaint.ComplaintID),
		models.NotificationComplaintEscalated,
	)
	s.notifyAssignedDepartment(
		complaint,
		fmt.Sprintf("URGENT: Complaint #%d Escalated", complaint.ComplaintID),
		fmt.Sprintf("Complaint #%d (%s) has been escalated. Immediate action required.",
			complaint.ComplaintID, complaint.Title),
	)

	return complaint, true, nil
}

// AddComment appends a comment to the complaint's audit trail. The filer is
// notified unless they wrote the comment themselves.
func (s *ComplaintService) AddComment(
	complaintID int64,
	actor *models.User,
	comment string,
) error {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return models.ErrEmptyComment
	}

	complaint, err := s.complaintRepo.AddComment(complaintID, actor.UserID, comment)
	if err != nil {
		return err
	}

	if complaint.UserID != actor.UserID {
		s.notifyFiler(
			complaint.UserID,
			fmt.Sprintf("New Comment on Complaint #%d", complaint.ComplaintID),
			"A new comment has been added to your complaint",
			models.NotificationComplaintUpdated,
		)
	}
	return nil
}

// GetComplaint retrieves one complaint by ID
func (s *ComplaintService) GetComplaint(complaintID int64) (*models.Complaint, error) {
	return s.complaintRepo.GetComplaintByID(complaintID)
}

// GetUserComplaints retrieves the complaints filed by a user, newest first
func (s *ComplaintService) GetUserComplaints(userID int64) ([]models.Complaint, error) {
	return s.complaintRepo.GetComplaintsByUserID(userID)
}

// ListComplaints retrieves one page of complaints, newest first (staff view)
func (s *ComplaintService) ListComplaints(limit, offset int) ([]models.Complaint, error) {
	return s.complaintRepo.ListComplaints(limit, offset)
}

// GetAuditTrail retrieves a complaint's full audit history, oldest first.
// Existence is checked so an unknown complaint reports not-found rather than
// an empty trail.
func (s *ComplaintService) GetAuditTrail(complaintID int64) ([]models.AuditEntry, error) {
	if _, err := s.complaintRepo.GetComplaintByID(complaintID); err != nil {
		return nil, err
	}
	return s.auditRepo.ListForComplaint(complaintID)
}

// GetAuditTrailNewestFirst retrieves the audit history most recent first,
// the order complaint timelines display.
func (s *ComplaintService) GetAuditTrailNewestFirst(complaintID int64) ([]models.AuditEntry, error) {
	if _, err := s.complaintRepo.GetComplaintByID(complaintID); err != nil {
		return nil, err
	}
	return s.auditRepo.ListForComplaintNewestFirst(complaintID)
}

// notifyFiler persists and dispatches a notification to the complaint's filer.
// Failures are logged only; the triggering operation has already committed.
func (s *ComplaintService) notifyFiler(userID int64, title, message string, t models.NotificationType) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("[NOTIFY] cannot load user %d for notification: %v", userID, err)
		return
	}
	if _, err := s.notifications.CreateAndDispatch(user, title, message, t); err != nil {
		log.Printf("[NOTIFY] failed to notify user %d: %v", userID, err)
	}
}

// notifyAssignedDepartment resolves the complaint's department by name and
// sends a direct contact notification (no persisted row). A missing or
// unknown department is logged and skipped.
func (s *ComplaintService) notifyAssignedDepartment(complaint *models.Complaint, title, message string) {
	if !complaint.AssignedDept.Valid || complaint.AssignedDept.String == "" {
		return
	}

	dept, err := s.deptRepo.GetByName(complaint.AssignedDept.String)
	if err != nil {
		if errors.Is(err, models.ErrDepartmentNotFound) {
			log.Printf("[NOTIFY] complaint %d references unknown department %q",
				complaint.ComplaintID, complaint.AssignedDept.String)
		} else {
			log.Printf("[NOTIFY] cannot load department %q: %v", complaint.AssignedDept.String, err)
		}
		return
	}

	s.notifications.DirectContactNotify(dept.ContactEmail, dept.Phone, title, message)
}
