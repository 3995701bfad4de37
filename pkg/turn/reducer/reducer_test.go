package reducer

import (
	"testing"

	"sms-assistant-be/pkg/store"
)

func TestApplyQuoteOverridesEverything(t *testing.T) {
	signals := store.Signals{
		Quoted:   []string{"active meeting at 8pm sharp"},
		Entities: store.Entities{Time: "8pm"},
	}

	res := Apply("meeting tonight", signals, `use "active meeting at 8pm sharp"`)

	if !res.Applied || res.Rule != RuleQuote {
		t.Fatalf("rule = %q applied = %v, want quote applied", res.Rule, res.Applied)
	}
	if res.Body != "active meeting at 8pm sharp" {
		t.Errorf("Body = %q, want the quoted text verbatim", res.Body)
	}
}

func TestApplyJoinsMultipleQuotes(t *testing.T) {
	signals := store.Signals{Quoted: []string{"practice moved", "to  the east field"}}

	res := Apply("old body", signals, "whatever")

	if res.Body != "practice moved to the east field" {
		t.Errorf("Body = %q, want joined and whitespace-normalized", res.Body)
	}
}

func TestApplyEntityTimePatch(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		entities store.Entities
		want     string
	}{
		{
			name:     "replace existing time in place",
			body:     "meeting at 7pm in the gym",
			entities: store.Entities{Time: "8pm"},
			want:     "meeting at 8pm in the gym",
		},
		{
			name:     "append missing time",
			body:     "meeting in the gym",
			entities: store.Entities{Time: "8pm"},
			want:     "meeting in the gym at 8pm",
		},
		{
			name:     "replace existing date",
			body:     "practice friday at 5pm",
			entities: store.Entities{Date: "saturday"},
			want:     "practice saturday at 5pm",
		},
		{
			name:     "append missing date",
			body:     "bake sale at the gym",
			entities: store.Entities{Date: "tomorrow"},
			want:     "bake sale at the gym tomorrow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(tt.body, store.Signals{Entities: tt.entities}, "change it")
			if !res.Applied || res.Rule != RuleEntity {
				t.Fatalf("rule = %q applied = %v, want entity applied", res.Rule, res.Applied)
			}
			if res.Body != tt.want {
				t.Errorf("Body = %q, want %q", res.Body, tt.want)
			}
		})
	}
}

func TestApplyEntityNoopWhenSameTime(t *testing.T) {
	res := Apply("meeting at 8pm", store.Signals{Entities: store.Entities{Time: "8pm"}}, "8pm works")
	if res.Rule == RuleEntity {
		t.Errorf("unchanged time must not count as an entity patch, got %q", res.Rule)
	}
}

func TestApplyTextPatch(t *testing.T) {
	res := Apply("meeting tonight", store.Signals{}, "change it to say practice is cancelled")

	if !res.Applied || res.Rule != RuleTextPatch {
		t.Fatalf("rule = %q applied = %v, want text_patch applied", res.Rule, res.Applied)
	}
	if res.Body != "practice is cancelled" {
		t.Errorf("Body = %q, want edit phrasing stripped", res.Body)
	}
}

func TestApplyEmptyBodyTakesWholeText(t *testing.T) {
	res := Apply("", store.Signals{}, "  Practice moved to 6pm Friday  ")

	if !res.Applied || res.Rule != RuleTextPatch {
		t.Fatalf("rule = %q applied = %v, want text_patch applied", res.Rule, res.Applied)
	}
	if res.Body != "Practice moved to 6pm Friday" {
		t.Errorf("Body = %q", res.Body)
	}
}

func TestApplyFallsThroughToNone(t *testing.T) {
	res := Apply("meeting tonight", store.Signals{}, "hmm not sure about that")

	if res.Applied || res.Rule != RuleNone {
		t.Fatalf("rule = %q applied = %v, want none unapplied", res.Rule, res.Applied)
	}
	if res.Body != "meeting tonight" {
		t.Errorf("Body = %q, want the current body untouched", res.Body)
	}
}
