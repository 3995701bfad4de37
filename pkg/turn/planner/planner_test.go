package planner

import (
	"testing"
	"time"

	"sms-assistant-be/pkg/store"
)

func frameWith(mode store.Mode, signals store.Signals, pending *store.PendingDraft) *store.TurnFrame {
	return &store.TurnFrame{
		Now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		UserPhone: "5551234567",
		Mode:      mode,
		Signals:   signals,
		Pending:   pending,
	}
}

func pendingAnnouncement() *store.PendingDraft {
	return &store.PendingDraft{Kind: store.DraftKindAnnouncement, Status: store.DraftStatusDraft, Body: "meeting tonight"}
}

func pendingPoll() *store.PendingDraft {
	return &store.PendingDraft{Kind: store.DraftKindPoll, Status: store.DraftStatusDraft, Question: "pizza or tacos?"}
}

func TestPlanDecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		mode    store.Mode
		signals store.Signals
		pending *store.PendingDraft
		want    store.ResponseMode
	}{
		{
			name:    "abusive deflects from any mode",
			mode:    store.ModeConfirmSend,
			signals: store.Signals{Toxicity: store.ToxicityAbusive, IsAffirmative: true},
			pending: pendingAnnouncement(),
			want:    store.ResponseChitChat,
		},
		{
			name:    "cancel wins in input mode",
			mode:    store.ModeAnnouncementInput,
			signals: store.Signals{Command: store.CommandCancel},
			pending: pendingAnnouncement(),
			want:    store.ResponseChitChat,
		},
		{
			name:    "make announcement in idle",
			mode:    store.ModeIdle,
			signals: store.Signals{Command: store.CommandMakeAnnouncement},
			want:    store.ResponseDraftCreate,
		},
		{
			name:    "make poll in idle",
			mode:    store.ModeIdle,
			signals: store.Signals{Command: store.CommandMakePoll},
			want:    store.ResponsePollCreate,
		},
		{
			name:    "announcement input defaults to edit",
			mode:    store.ModeAnnouncementInput,
			signals: store.Signals{},
			pending: pendingAnnouncement(),
			want:    store.ResponseDraftEdit,
		},
		{
			name:    "poll input defaults to poll edit",
			mode:    store.ModePollInput,
			signals: store.Signals{},
			pending: pendingPoll(),
			want:    store.ResponsePollEdit,
		},
		{
			name:    "send with pending goes to confirm",
			mode:    store.ModeAnnouncementInput,
			signals: store.Signals{Command: store.CommandSend},
			pending: pendingAnnouncement(),
			want:    store.ResponseActionConfirm,
		},
		{
			name:    "confirm affirmative executes",
			mode:    store.ModeConfirmSend,
			signals: store.Signals{IsAffirmative: true},
			pending: pendingAnnouncement(),
			want:    store.ResponseActionExecute,
		},
		{
			name:    "confirm question answers without losing the draft",
			mode:    store.ModeConfirmSend,
			signals: store.Signals{IsQuestion: true},
			pending: pendingAnnouncement(),
			want:    store.ResponseAnswer,
		},
		{
			name:    "confirm wants edit routes by pending kind",
			mode:    store.ModeConfirmSend,
			signals: store.Signals{WantsEdit: true},
			pending: pendingPoll(),
			want:    store.ResponsePollEdit,
		},
		{
			name:    "confirm anything else reminds",
			mode:    store.ModeConfirmSend,
			signals: store.Signals{},
			pending: pendingAnnouncement(),
			want:    store.ResponseChitChat,
		},
		{
			name:    "question during input mode answers",
			mode:    store.ModeAnnouncementInput,
			signals: store.Signals{IsQuestion: true},
			pending: pendingAnnouncement(),
			want:    store.ResponseAnswer,
		},
		{
			name:    "send with nothing pending is chitchat",
			mode:    store.ModeIdle,
			signals: store.Signals{Command: store.CommandSend},
			want:    store.ResponseChitChat,
		},
		{
			name:    "smalltalk in idle",
			mode:    store.ModeIdle,
			signals: store.Signals{IsSmallTalk: true},
			want:    store.ResponseChitChat,
		},
		{
			name:    "idle default answers",
			mode:    store.ModeIdle,
			signals: store.Signals{},
			want:    store.ResponseAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(frameWith(tt.mode, tt.signals, tt.pending))
			if got != tt.want {
				t.Errorf("Plan = %q, want %q", got, tt.want)
			}
		})
	}
}

// Every reachable (mode, signal) combination must map to exactly one
// defined response mode.
func TestPlanTotality(t *testing.T) {
	modes := []store.Mode{store.ModeIdle, store.ModeAnnouncementInput, store.ModePollInput, store.ModeConfirmSend}
	commands := []store.Command{store.CommandNone, store.CommandSend, store.CommandCancel, store.CommandEdit, store.CommandMakeAnnouncement, store.CommandMakePoll}
	toxicities := []store.Toxicity{store.ToxicityOK, store.ToxicityRude, store.ToxicityAbusive}
	pendings := []*store.PendingDraft{nil, pendingAnnouncement(), pendingPoll()}
	bools := []bool{false, true}

	defined := map[store.ResponseMode]bool{
		store.ResponseChitChat: true, store.ResponseAnswer: true,
		store.ResponseDraftCreate: true, store.ResponseDraftEdit: true,
		store.ResponsePollCreate: true, store.ResponsePollEdit: true,
		store.ResponseActionConfirm: true, store.ResponseActionExecute: true,
	}

	for _, mode := range modes {
		for _, cmd := range commands {
			for _, tox := range toxicities {
				for _, pending := range pendings {
					for _, question := range bools {
						for _, affirmative := range bools {
							f := frameWith(mode, store.Signals{
								Command:       cmd,
								Toxicity:      tox,
								IsQuestion:    question,
								IsAffirmative: affirmative,
								WantsEdit:     affirmative, // exercise overlap
							}, pending)
							got := Plan(f)
							if !defined[got] {
								t.Fatalf("Plan returned undefined mode %q for %+v", got, f.Signals)
							}
						}
					}
				}
			}
		}
	}
}

func TestPlanDeterminism(t *testing.T) {
	f := frameWith(store.ModeConfirmSend, store.Signals{IsAffirmative: true}, pendingAnnouncement())
	first := Plan(f)
	for i := 0; i < 100; i++ {
		if got := Plan(f); got != first {
			t.Fatalf("Plan is not deterministic: %q then %q", first, got)
		}
	}
}
