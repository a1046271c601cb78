package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailSenderRejectsEmptyRecipient(t *testing.T) {
	sender := NewEmailSender("http://example.invalid", "key", "noreply@emysore.in")
	err := sender.Send(context.Background(), "", "s", "b")
	assert.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestEmailSenderNoopsWithoutAPIKey(t *testing.T) {
	// an unconfigured gateway must not attempt a network call
	sender := NewEmailSender("http://127.0.0.1:1", "", "noreply@emysore.in")
	err := sender.Send(context.Background(), "asha@example.com", "s", "b")
	assert.NoError(t, err)
}

func TestEmailSenderPostsToGateway(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender := NewEmailSender(server.URL, "secret-key", "noreply@emysore.in")
	err := sender.Send(context.Background(), "asha@example.com", "Complaint Filed", "details")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "Complaint Filed", gotPayload["subject"])
}

func TestEmailSenderReportsGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewEmailSender(server.URL, "secret-key", "noreply@emysore.in")
	err := sender.Send(context.Background(), "asha@example.com", "s", "b")
	assert.Error(t, err)
}

func TestSMSSenderJoinsSubjectAndBody(t *testing.T) {
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
	}))
	defer server.Close()

	sender := NewSMSSender(server.URL, "secret-key")
	err := sender.Send(context.Background(), "+918012345678", "Complaint Escalated", "details")
	require.NoError(t, err)

	assert.Equal(t, "+918012345678", gotPayload["to"])
	assert.Equal(t, "Complaint Escalated: details", gotPayload["message"])
}

func TestSMSSenderNoopsWithoutAPIKey(t *testing.T) {
	sender := NewSMSSender("http://127.0.0.1:1", "")
	err := sender.Send(context.Background(), "+918012345678", "s", "b")
	assert.NoError(t, err)
}
