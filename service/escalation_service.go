package service

import (
	"log"
	"time"

	"emysore/models"
	"emysore/repository"
)

// EscalationService runs the overdue-complaint sweep. A complaint is overdue
// when it is still PENDING, not yet escalated, and older than the configured
// threshold. The sweep is idempotent: eligibility is re-checked inside each
// complaint's transaction, so overlapping sweeps or a racing officer action
// produce skips, never double escalations.
type EscalationService struct {
	complaintRepo *repository.ComplaintRepository
	complaints    *ComplaintService
	threshold     time.Duration
}

// NewEscalationService creates an escalation service with the given SLA threshold
func NewEscalationService(
	complaintRepo *repository.ComplaintRepository,
	complaints *ComplaintService,
	threshold time.Duration,
) *EscalationService {
	return &EscalationService{
		complaintRepo: complaintRepo,
		complaints:    complaints,
		threshold:     threshold,
	}
}

// IsOverdue reports whether the complaint is eligible for automatic
// escalation at the given instant.
func (s *EscalationService) IsOverdue(c *models.Complaint, now time.Time) bool {
	return c.Status == models.StatusPending &&
		!c.Escalated &&
		now.Sub(c.CreatedAt) >= s.threshold
}

// ProcessEscalations runs one sweep over all PENDING complaints and escalates
// the overdue ones. A failure on one complaint is logged and the sweep moves
// on; the returned results cover only complaints actually escalated.
func (s *EscalationService) ProcessEscalations() ([]models.EscalationResult, error) {
	pending, err := s.complaintRepo.ListByStatus(models.StatusPending)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var results []models.EscalationResult

	for i := range pending {
		c := &pending[i]
		if !s.IsOverdue(c, now) {
			continue
		}

		_, escalated, err := s.complaints.AutoEscalate(c.ComplaintID, s.threshold, now)
		if err != nil {
			log.Printf("[ESCALATION] failed to escalate complaint %d: %v", c.ComplaintID, err)
			continue
		}
		if !escalated {
			// lost the race to an officer action or another sweep
			continue
		}

		results = append(results, models.EscalationResult{
			ComplaintID: c.ComplaintID,
			Escalated:   true,
			Reason:      "overdue",
			ProcessedAt: now,
		})
	}

	if len(results) > 0 {
		log.Printf("[ESCALATION] sweep escalated %d of %d pending complaints", len(results), len(pending))
	}
	return results, nil
}
