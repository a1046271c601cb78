package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"emysore/models"
)

// Enrichment defaults substituted whenever the ML service fails or omits a
// field. Enrichment is advisory only and never blocks complaint creation.
const (
	defaultCategory   = "GENERAL"
	defaultConfidence = 0.5
)

// EnrichmentClient calls the ML service to classify and label a complaint
type EnrichmentClient struct {
	baseURL string
	client  *http.Client
}

// NewEnrichmentClient creates an enrichment client with a bounded per-call timeout
func NewEnrichmentClient(baseURL string, timeout time.Duration) *EnrichmentClient {
	return &EnrichmentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type enrichmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type enrichmentResponse struct {
	Category   *string  `json:"category"`
	Urgency    *string  `json:"urgency"`
	Sentiment  *string  `json:"sentiment"`
	Confidence *float64 `json:"confidence"`
}

// EnrichComplaint fills category, urgency, sentiment and confidence on the
// complaint from the ML prediction. Any transport error, bad response or
// missing field falls back to the fixed defaults; the caller always proceeds.
func (c *EnrichmentClient) EnrichComplaint(ctx context.Context, complaint *models.Complaint) {
	resp, err := c.predict(ctx, complaint.Title, complaint.Description)
	if err != nil {
		log.Printf("[ML] enrichment failed for complaint %q, using defaults: %v", complaint.Title, err)
		applyEnrichment(complaint, &enrichmentResponse{})
		return
	}
	applyEnrichment(complaint, resp)
}

func (c *EnrichmentClient) predict(ctx context.Context, title, description string) (*enrichmentResponse, error) {
	payload, err := json.Marshal(enrichmentRequest{Title: title, Description: description})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal enrichment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build enrichment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrichment request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, httpResp.Body)
		return nil, fmt.Errorf("enrichment service status %d", httpResp.StatusCode)
	}

	var resp enrichmentResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode enrichment response: %w", err)
	}
	return &resp, nil
}

// applyEnrichment writes predicted fields onto the complaint, substituting a
// default for each missing field. A caller-supplied category is kept.
func applyEnrichment(complaint *models.Complaint, resp *enrichmentResponse) {
	if !complaint.Category.Valid || complaint.Category.String == "" {
		category := defaultCategory
		if resp.Category != nil && *resp.Category != "" {
			category = *resp.Category
		}
		complaint.Category = sql.NullString{String: category, Valid: true}
	}

	urgency := models.UrgencyMedium
	if resp.Urgency != nil {
		switch models.Urgency(*resp.Urgency) {
		case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
			urgency = models.Urgency(*resp.Urgency)
		}
	}
	complaint.Urgency = urgency

	sentiment := string(models.SentimentNeutral)
	if resp.Sentiment != nil && *resp.Sentiment != "" {
		sentiment = *resp.Sentiment
	}
	complaint.Sentiment = sql.NullString{String: sentiment, Valid: true}

	confidence := defaultConfidence
	if resp.Confidence != nil {
		confidence = *resp.Confidence
	}
	complaint.ConfidenceScore = sql.NullFloat64{Float64: confidence, Valid: true}
}
