package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// Sender delivers one message over a single external channel. Delivery is
// fire-and-forget: no receipt is consumed, and the caller owns the context
// deadline bounding the attempt.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
	Channel() string
}

// EmailSender sends email through an HTTP mail gateway. With no API key
// configured it logs and reports success, so environments without a gateway
// still exercise the full dispatch path.
type EmailSender struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewEmailSender creates an email sender for the given gateway
func NewEmailSender(apiURL, apiKey, from string) *EmailSender {
	return &EmailSender{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: http.DefaultClient,
	}
}

// Channel returns the email channel name
func (s *EmailSender) Channel() string {
	return "email"
}

// Send sends one email
func (s *EmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return ErrInvalidRecipient
	}
	if s.apiKey == "" {
		log.Printf("[NOTIFY] email gateway not configured, skipping send to %s", recipient)
		return nil
	}

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]interface{}{{"email": recipient}}},
		},
		"from":    map[string]string{"email": s.from},
		"subject": subject,
		"content": []map[string]string{{"type": "text/plain", "value": body}},
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email gateway status %d", resp.StatusCode)
	}
	return nil
}

// SMSSender sends SMS through an HTTP gateway. With no API key configured it
// logs and reports success.
type SMSSender struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewSMSSender creates an SMS sender for the given gateway
func NewSMSSender(apiURL, apiKey string) *SMSSender {
	return &SMSSender{
		apiURL: apiURL,
		apiKey: apiKey,
		client: http.DefaultClient,
	}
}

// Channel returns the SMS channel name
func (s *SMSSender) Channel() string {
	return "sms"
}

// Send sends one SMS. Subject and body are joined, SMS has no subject line.
func (s *SMSSender) Send(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return ErrInvalidRecipient
	}
	if s.apiKey == "" {
		log.Printf("[NOTIFY] sms gateway not configured, skipping send to %s", recipient)
		return nil
	}

	payload := map[string]string{
		"to":      recipient,
		"message": subject + ": " + body,
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway status %d", resp.StatusCode)
	}
	return nil
}

// Errors
var (
	ErrInvalidRecipient = &NotificationError{Message: "invalid recipient"}
)

// NotificationError represents a notification delivery error
type NotificationError struct {
	Message string
	Err     error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
