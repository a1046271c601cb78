package models

import "time"

// CreateComplaintRequest is the citizen-facing creation payload. Status,
// urgency, sentiment and timestamps are server-controlled and ignored if sent.
type CreateComplaintRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     *string    `json:"category,omitempty"`
	Location     string     `json:"location"`
	AssignedDept *string    `json:"assigned_dept,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// UpdateStatusRequest is the officer-facing status change payload
type UpdateStatusRequest struct {
	NewStatus string `json:"new_status"`
	Remarks   string `json:"remarks"`
}

// EscalateRequest sets or clears the escalated flag
type EscalateRequest struct {
	Escalate bool `json:"escalate"`
}

// CommentRequest adds a comment to a complaint's audit trail
type CommentRequest struct {
	Comment string `json:"comment"`
}

// RegisterRequest creates a new citizen account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token and the authenticated user
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// EscalationResult reports one complaint processed by an escalation sweep
type EscalationResult struct {
	ComplaintID int64     `json:"complaint_id"`
	Escalated   bool      `json:"escalated"`
	Reason      string    `json:"reason"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ComplaintResponse is the JSON view of a complaint with nullable columns
// flattened to optional fields
type ComplaintResponse struct {
	ComplaintID     int64      `json:"complaint_id"`
	ComplaintNumber string     `json:"complaint_number"`
	UserID          int64      `json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        *string    `json:"category,omitempty"`
	Status          string     `json:"status"`
	Urgency         string     `json:"urgency"`
	Location        string     `json:"location"`
	ImageURL        *string    `json:"image_url,omitempty"`
	AssignedDept    *string    `json:"assigned_dept,omitempty"`
	Escalated       bool       `json:"escalated"`
	Sentiment       *string    `json:"sentiment,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
	Remarks         *string    `json:"remarks,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Deadline        *time.Time `json:"deadline,omitempty"`
}

// AuditEntryResponse is the JSON view of one audit trail entry
type AuditEntryResponse struct {
	EntryID     int64     `json:"entry_id"`
	ComplaintID int64     `json:"complaint_id"`
	UserID      *int64    `json:"user_id,omitempty"`
	Action      string    `json:"action"`
	OldValue    string    `json:"old_value"`
	NewValue    string    `json:"new_value"`
	Comment     *string   `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserResponse is the JSON view of a user without credential material
type UserResponse struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ComplaintToResponse flattens nullable columns into the JSON view
func ComplaintToResponse(c *Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ComplaintID:     c.ComplaintID,
		ComplaintNumber: c.ComplaintNumber,
		UserID:          c.UserID,
		Title:           c.Title,
		Description:     c.Description,
		Status:          string(c.Status),
		Urgency:         string(c.Urgency),
		Location:        c.Location,
		Escalated:       c.Escalated,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if c.Category.Valid {
		resp.Category = &c.Category.String
	}
	if c.ImageURL.Valid {
		resp.ImageURL = &c.ImageURL.String
	}
	if c.AssignedDept.Valid {
		resp.AssignedDept = &c.AssignedDept.String
	}
	if c.Sentiment.Valid {
		resp.Sentiment = &c.Sentiment.String
	}
	if c.ConfidenceScore.Valid {
		resp.ConfidenceScore = &c.ConfidenceScore.Float64
	}
	if c.Remarks.Valid {
		resp.Remarks = &c.Remarks.String
	}
	if c.Deadline.Valid {
		resp.Deadline = &c.Deadline.Time
	}
	return resp
}

// AuditEntryToResponse flattens nullable columns into the JSON view
func AuditEntryToResponse(e *AuditEntry) AuditEntryResponse {
	resp := AuditEntryResponse{
		EntryID:     e.EntryID,
		ComplaintID: e.ComplaintID,
		Action:      string(e.Action),
		OldValue:    e.OldValue,
		NewValue:    e.NewValue,
		CreatedAt:   e.CreatedAt,
	}
	if e.UserID.Valid {
		resp.UserID = &e.UserID.Int64
	}
	if e.Comment.Valid {
		resp.Comment = &e.Comment.String
	}
	return resp
}

// UserToResponse strips credential material from the user record
func UserToResponse(u *User) UserResponse {
	resp := UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
	if u.Email.Valid {
		resp.Email = &u.Email.String
	}
	if u.Phone.Valid {
		resp.Phone = &u.Phone.String
	}
	return resp
}
