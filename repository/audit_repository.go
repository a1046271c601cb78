package repository

import (
	"database/sql"
	"fmt"

	"emysore/models"
)

// AuditRepository reads the append-only audit trail. Writes happen through
// insertAuditEntry inside the same transaction as the complaint mutation that
// triggered them; there is no standalone write path, so an entry can never
// exist for a state change that was not committed.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// insertAuditEntry appends one entry within the caller's transaction so the
// entry commits or rolls back together with the triggering complaint write.
func insertAuditEntry(tx *sql.Tx, entry *models.AuditEntry) error {
	query := `
		INSERT INTO complaint_audit_logs (
			complaint_id, user_id, action, old_value, new_value, comment, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(
		query,
		entry.ComplaintID,
		entry.UserID,
		entry.Action,
		entry.OldValue,
		entry.NewValue,
		entry.Comment,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	entryID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit entry ID: %w", err)
	}

	entry.EntryID = entryID
	return nil
}

// ListForComplaint returns the full audit trail for a complaint in creation
// order. Ordering is total and stable: (created_at, entry_id).
func (r *AuditRepository) ListForComplaint(complaintID int64) ([]models.AuditEntry, error) {
	return r.listForComplaint(complaintID, "ASC")
}

// ListForComplaintNewestFirst returns the audit trail most recent first,
// the display order used by complaint timelines.
func (r *AuditRepository) ListForComplaintNewestFirst(complaintID int64) ([]models.AuditEntry, error) {
	return r.listForComplaint(complaintID, "DESC")
}

func (r *AuditRepository) listForComplaint(complaintID int64, direction string) ([]models.AuditEntry, error) {
	query := fmt.Sprintf(`
		SELECT entry_id, complaint_id, user_id, action, old_value, new_value, comment, created_at
		FROM complaint_audit_logs
		WHERE complaint_id = ?
		ORDER BY created_at %s, entry_id %s
	`, direction, direction)

	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		err := rows.Scan(
			&entry.EntryID,
			&entry.ComplaintID,
			&entry.UserID,
			&entry.Action,
			&entry.OldValue,
			&entry.NewValue,
			&entry.Comment,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}
