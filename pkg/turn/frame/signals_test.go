package frame

import (
	"reflect"
	"testing"

	"sms-assistant-be/pkg/store"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"ten digits", "5551234567", "5551234567"},
		{"eleven with country code", "15551234567", "5551234567"},
		{"e164", "+15551234567", "5551234567"},
		{"formatted", "(555) 123-4567", "5551234567"},
		{"long international keeps last ten", "445551234567", "5551234567"},
		{"short stays short", "12345", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.raw); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		draftActive bool
		want        store.Command
	}{
		{"send it", "send it", true, store.CommandSend},
		{"send bare", "Send", false, store.CommandSend},
		{"cancel", "cancel", true, store.CommandCancel},
		{"nevermind", "never mind", true, store.CommandCancel},
		{"make announcement", "make an announcement", false, store.CommandMakeAnnouncement},
		{"draft announcement with content", "draft an announcement that practice moved", false, store.CommandMakeAnnouncement},
		{"make poll", "create a poll about snacks", false, store.CommandMakePoll},
		{"edit with draft", "change the time to 7", true, store.CommandEdit},
		{"edit without draft is not a command", "change the time to 7", false, store.CommandNone},
		{"send out announcement is a make", "send out an announcement", false, store.CommandMakeAnnouncement},
		{"plain text", "when is the meeting?", false, store.CommandNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectCommand(tt.text, tt.draftActive); got != tt.want {
				t.Errorf("detectCommand(%q, %v) = %q, want %q", tt.text, tt.draftActive, got, tt.want)
			}
		})
	}
}

func TestDetectToxicity(t *testing.T) {
	tests := []struct {
		text string
		want store.Toxicity
	}{
		{"I will kill you", store.ToxicityAbusive},
		{"fuck you", store.ToxicityAbusive},
		{"you asshole", store.ToxicityAbusive},
		{"this is stupid", store.ToxicityRude},
		{"damn, I missed it", store.ToxicityRude},
		{"what a damn asshole", store.ToxicityAbusive}, // abusive wins over rude
		{"when is the meeting?", store.ToxicityOK},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := detectToxicity(tt.text); got != tt.want {
				t.Errorf("detectToxicity(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectQuestion(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"real question", "when is the next meeting?", true},
		{"question word no mark", "when is the next meeting", false},
		{"mark without question word", "meeting tonight?", false},
		{"statement with stray mark", "the flyer says 5pm? weird", false},
		{"can question", "can parents come too?", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectQuestion(tt.text); got != tt.want {
				t.Errorf("detectQuestion(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractQuotedSegments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "no quotes here", nil},
		{"single", `say "practice at 8pm" instead`, []string{"practice at 8pm"}},
		{"multiple in order", `use "first part" and "second part"`, []string{"first part", "second part"}},
		{"empty quotes ignored", `use "" please`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractQuotedSegments(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractQuotedSegments(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseTimeAndDate(t *testing.T) {
	if got := parseTime("meeting at 8pm sharp"); got != "8pm" {
		t.Errorf("parseTime = %q, want %q", got, "8pm")
	}
	if got := parseTime("starts 7:30 pm"); got != "7:30 pm" {
		t.Errorf("parseTime = %q, want %q", got, "7:30 pm")
	}
	if got := parseTime("no time here"); got != "" {
		t.Errorf("parseTime = %q, want empty", got)
	}
	if got := parseDate("see you tomorrow"); got != "tomorrow" {
		t.Errorf("parseDate = %q, want %q", got, "tomorrow")
	}
	if got := parseDate("practice on Friday at 5"); got != "Friday" {
		t.Errorf("parseDate = %q, want %q", got, "Friday")
	}
}

func TestDetectNewRequest(t *testing.T) {
	if !detectNewRequest("make a new announcement") {
		t.Error("expected new-request match")
	}
	if !detectNewRequest("actually, create another poll") {
		t.Error("expected new-request match")
	}
	if detectNewRequest("change it to say hello") {
		t.Error("plain edit must not be a new request")
	}
}
