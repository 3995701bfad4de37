package service

import (
	"testing"
	"time"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPollOption(t *testing.T) {
	payload := map[string]interface{}{
		"question": "what day works best?",
		"options":  []interface{}{"Saturday", "Sunday"},
	}

	tests := []struct {
		name    string
		text    string
		want    string
		matched bool
	}{
		{"exact match", "Saturday", "Saturday", true},
		{"case insensitive", "saturday", "Saturday", true},
		{"trailing punctuation", "Sunday!", "Sunday", true},
		{"surrounding whitespace", "  sunday  ", "Sunday", true},
		{"not an option", "maybe friday", "", false},
		{"partial option", "Satur", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchPollOption(payload, tt.text)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchPollOptionMissingOptions(t *testing.T) {
	_, ok := matchPollOption(map[string]interface{}{"question": "?"}, "yes")
	assert.False(t, ok)
}

func TestActionSummary(t *testing.T) {
	rec := &entity.ActionRecord{
		Kind:    "announcement_sent",
		Payload: map[string]interface{}{"body": "practice moved to 6pm"},
	}
	assert.Equal(t, "announcement_sent: practice moved to 6pm", actionSummary(rec))

	poll := &entity.ActionRecord{
		Kind:    "poll_sent",
		Payload: map[string]interface{}{"question": "pizza or tacos?"},
	}
	assert.Equal(t, "poll_sent: pizza or tacos?", actionSummary(poll))

	bare := &entity.ActionRecord{Kind: "poll_sent", Payload: map[string]interface{}{}}
	assert.Equal(t, "poll_sent", actionSummary(bare))
}

func TestDraftToPending(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(2 * time.Hour)
	id := uuid.New()

	d := &entity.Draft{
		Id:        id,
		Kind:      "poll",
		Question:  "pizza or tacos?",
		Options:   []string{"Pizza", "Tacos"},
		Audience:  "everyone",
		Status:    "draft",
		CreatedAt: created,
		UpdatedAt: &updated,
	}

	p := draftToPending(d)
	require.NotNil(t, p)
	assert.Equal(t, id.String(), p.ID)
	assert.Equal(t, store.DraftKindPoll, p.Kind)
	assert.Equal(t, []string{"Pizza", "Tacos"}, p.Options)
	assert.Equal(t, store.DraftStatusDraft, p.Status)
	assert.Equal(t, updated, p.EditedAt, "edit time should come from the update, not creation")

	d.UpdatedAt = nil
	assert.Equal(t, created, draftToPending(d).EditedAt)
}

func TestFreshnessDecay(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.InDelta(t, 1.0, freshness(now, now), 0.001)
	assert.InDelta(t, 1.0, freshness(now.Add(time.Hour), now), 0.01, "future timestamps clamp to now")

	month := freshness(now.Add(-30*24*time.Hour), now)
	assert.InDelta(t, 0.368, month, 0.01)

	old := freshness(now.Add(-365*24*time.Hour), now)
	assert.Less(t, old, 0.01)
}

func TestTokenFraction(t *testing.T) {
	tokens := tokenize("when is practice tonight?")
	assert.Equal(t, []string{"when", "practice", "tonight"}, tokens)

	assert.InDelta(t, 1.0, tokenFraction(tokens, "Practice is tonight, when the field opens"), 0.001)
	assert.InDelta(t, 1.0/3.0, tokenFraction(tokens, "practice schedule"), 0.001)
	assert.Zero(t, tokenFraction(tokens, "season fees are due"))
	assert.Zero(t, tokenFraction(nil, "anything"))
}
