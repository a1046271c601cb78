package models

import (
	"database/sql"
	"time"
)

// ComplaintStatus represents the possible statuses of a complaint
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "PENDING"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
	StatusRejected   ComplaintStatus = "REJECTED"
	StatusEscalated  ComplaintStatus = "ESCALATED"
)

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected, StatusEscalated:
		return true
	}
	return false
}

// Urgency represents complaint urgency as predicted by the enrichment service
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// Sentiment represents the enrichment sentiment label
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// AuditAction is the kind of state-changing action recorded in the audit trail
type AuditAction string

const (
	ActionCreated       AuditAction = "CREATED"
	ActionStatusUpdated AuditAction = "STATUS_UPDATED"
	ActionEscalated     AuditAction = "ESCALATED"
	ActionCommentAdded  AuditAction = "COMMENT_ADDED"
)

// NotificationType classifies persisted in-app notifications
type NotificationType string

const (
	NotificationComplaintCreated   NotificationType = "COMPLAINT_CREATED"
	NotificationComplaintUpdated   NotificationType = "COMPLAINT_UPDATED"
	NotificationComplaintEscalated NotificationType = "COMPLAINT_ESCALATED"
	NotificationServiceUpdate      NotificationType = "SERVICE_UPDATE"
	NotificationSystem             NotificationType = "SYSTEM_NOTIFICATION"
)

// Role is the acting user's role
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

// Complaint represents a citizen-filed service complaint.
// Status and the escalated flag are orthogonal: the escalation sweep only flips
// the flag and never overwrites status.
type Complaint struct {
	ComplaintID     int64           `db:"complaint_id" json:"complaint_id"`
	ComplaintNumber string          `db:"complaint_number" json:"complaint_number"`
	UserID          int64           `db:"user_id" json:"user_id"`
	Title           string          `db:"title" json:"title"`
	Description     string          `db:"description" json:"description"`
	Category        sql.NullString  `db:"category" json:"-"`
	Status          ComplaintStatus `db:"status" json:"status"`
	Urgency         Urgency         `db:"urgency" json:"urgency"`
	Location        string          `db:"location" json:"location"`
	ImageURL        sql.NullString  `db:"image_url" json:"-"`
	AssignedDept    sql.NullString  `db:"assigned_dept" json:"-"`
	Escalated       bool            `db:"escalated" json:"escalated"`
	Sentiment       sql.NullString  `db:"sentiment" json:"-"`
	ConfidenceScore sql.NullFloat64 `db:"confidence_score" json:"-"`
	Remarks         sql.NullString  `db:"remarks" json:"-"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
	Deadline        sql.NullTime    `db:"deadline" json:"-"`
}

// AuditEntry is one immutable record of a state-changing action on a complaint.
// UserID is NULL for system-originated entries (automatic escalation).
type AuditEntry struct {
	EntryID     int64          `db:"entry_id" json:"entry_id"`
	ComplaintID int64          `db:"complaint_id" json:"complaint_id"`
	UserID      sql.NullInt64  `db:"user_id" json:"-"`
	Action      AuditAction    `db:"action" json:"action"`
	OldValue    string         `db:"old_value" json:"old_value"`
	NewValue    string         `db:"new_value" json:"new_value"`
	Comment     sql.NullString `db:"comment" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Notification is the persisted record that a user was informed of an event.
// Delivery over email/SMS is best-effort and never written back here; is_read
// is the only mutable field.
type Notification struct {
	NotificationID int64            `db:"notification_id" json:"notification_id"`
	UserID         int64            `db:"user_id" json:"user_id"`
	Title          string           `db:"title" json:"title"`
	Message        string           `db:"message" json:"message"`
	Type           NotificationType `db:"type" json:"type"`
	IsRead         bool             `db:"is_read" json:"is_read"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// Department is a named external contact responsible for a complaint category.
// Complaints reference it by name only; resolution happens at notification time.
type Department struct {
	DepartmentID int64  `db:"department_id" json:"department_id"`
	Name         string `db:"name" json:"name"`
	ContactEmail string `db:"contact_email" json:"contact_email"`
	Phone        string `db:"phone" json:"phone"`
}

// CityService is one entry in the municipal service directory: a public
// service citizens can look up by category before (or instead of) filing a
// complaint. Managed by staff through plain CRUD; unrelated to the complaint
// lifecycle.
type CityService struct {
	ServiceID   int64  `db:"service_id" json:"service_id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
	Phone       string `db:"phone" json:"phone"`
	Email       string `db:"email" json:"email"`
	Address     string `db:"address" json:"address"`
}

// User is a registered citizen or staff member
type User struct {
	UserID       int64          `db:"user_id" json:"user_id"`
	Name         string         `db:"name" json:"name"`
	Email        sql.NullString `db:"email" json:"-"`
	Phone        sql.NullString `db:"phone" json:"-"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         Role           `db:"role" json:"role"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
