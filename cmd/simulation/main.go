package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	webhookURL = "http://localhost:3000/api/webhook/v1/sms"
	fromPhone  = "+15550001111"
)

type twimlResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

func main() {
	fmt.Println("=== SMS Turn Simulation Client ===")
	fmt.Printf("Sending as: %s\n", fromPhone)

	// A full draft-to-send conversation against a running server.
	testCases := []string{
		"hey there!",
		"make an announcement that practice moved to 6pm on friday",
		"actually change it to say practice moved to 7pm",
		"send it",
		"yes",
		"when is practice again?",
	}

	for i, text := range testCases {
		fmt.Printf("\nUSER: %s\n", text)

		start := time.Now()
		replies, err := sendSms(text, fmt.Sprintf("SM_sim_%d_%d", time.Now().UnixNano(), i))
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		for _, reply := range replies {
			fmt.Printf("BOT (%v): %s\n", elapsed, reply)
		}

		time.Sleep(500 * time.Millisecond)
	}
}

func sendSms(body, messageSid string) ([]string, error) {
	form := url.Values{}
	form.Set("From", fromPhone)
	form.Set("To", "+15559990000")
	form.Set("Body", body)
	form.Set("MessageSid", messageSid)

	req, err := http.NewRequest("POST", webhookURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(raw))
	}

	var res twimlResponse
	if err := xml.Unmarshal(raw, &res); err != nil {
		log.Printf("Failed to parse TwiML: %v", err)
		return nil, err
	}
	return res.Messages, nil
}
