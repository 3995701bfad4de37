package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+15551234567", "+15551234567"},
		{"5551234567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"+447911123456", "+447911123456"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeE164(tt.in))
	}
}

func TestTwilioSenderSend(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		gotForm = map[string]string{
			"To":   r.PostFormValue("To"),
			"From": r.PostFormValue("From"),
			"Body": r.PostFormValue("Body"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM42","status":"queued","error_message":null}`))
	}))
	defer srv.Close()

	sender := NewTwilioSender("AC123", "secret", "+15559990000", srv.URL)
	sid, err := sender.Send(context.Background(), "5551234567", "practice moved to 6pm")
	require.NoError(t, err)
	assert.Equal(t, "SM42", sid)
	assert.Equal(t, "+15551234567", gotForm["To"])
	assert.Equal(t, "+15559990000", gotForm["From"])
	assert.Equal(t, "practice moved to 6pm", gotForm["Body"])
}

func TestTwilioSenderRejectsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"Invalid 'To' phone number"}`))
	}))
	defer srv.Close()

	sender := NewTwilioSender("AC123", "secret", "+15559990000", srv.URL)
	_, err := sender.Send(context.Background(), "notaphone", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
