package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioSender posts messages to the Twilio-compatible Messages API.
type TwilioSender struct {
	accountSid string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
}

var _ Sender = &TwilioSender{}

func NewTwilioSender(accountSid, authToken, fromNumber, baseURL string) *TwilioSender {
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}
	return &TwilioSender{
		accountSid: accountSid,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type messageResponse struct {
	Sid          string  `json:"sid"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message"`
}

func (s *TwilioSender) Send(ctx context.Context, toPhone, body string) (string, error) {
	form := url.Values{}
	form.Set("To", normalizeE164(toPhone))
	form.Set("From", s.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSid, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sms provider error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var msg messageResponse
	if err := json.Unmarshal(bodyBytes, &msg); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if msg.ErrorMessage != nil {
		return "", fmt.Errorf("sms rejected: %s", *msg.ErrorMessage)
	}

	return msg.Sid, nil
}

// normalizeE164 assumes US numbers for bare 10-digit input.
func normalizeE164(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) == 10 {
		return "+1" + digits
	}
	return "+" + digits
}
