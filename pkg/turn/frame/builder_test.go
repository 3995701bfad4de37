package frame

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/pkg/store"
)

type fakeDrafts struct {
	draft *store.PendingDraft
	err   error
}

func (f *fakeDrafts) ActiveDraft(ctx context.Context, phone string) (*store.PendingDraft, error) {
	return f.draft, f.err
}

type fakeHistory struct {
	turns []store.ConvoTurn
	err   error
}

func (f *fakeHistory) RecentTurns(ctx context.Context, phone string, limit int) ([]store.ConvoTurn, error) {
	return f.turns, f.err
}

type fakeState struct {
	mode store.Mode
	err  error
}

func (f *fakeState) CurrentMode(ctx context.Context, phone string) (store.Mode, error) {
	return f.mode, f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestBuildDegradesOnSourceFailures(t *testing.T) {
	b := NewBuilder(
		&fakeDrafts{err: errors.New("db down")},
		&fakeHistory{err: errors.New("db down")},
		&fakeState{err: errors.New("db down")},
		testLogger(),
	)

	f := b.Build(context.Background(), Input{Phone: "+15551234567", Text: "hello there"})

	if f == nil {
		t.Fatal("frame must be built despite source failures")
	}
	if f.Mode != store.ModeIdle {
		t.Errorf("Mode = %q, want IDLE default", f.Mode)
	}
	if f.Pending != nil {
		t.Errorf("Pending = %+v, want nil", f.Pending)
	}
	if len(f.History) != 0 {
		t.Errorf("History len = %d, want 0", len(f.History))
	}
	if f.UserPhone != "5551234567" {
		t.Errorf("UserPhone = %q, want normalized", f.UserPhone)
	}
}

func TestBuildUsesPrefetchedHistory(t *testing.T) {
	prefetched := []store.ConvoTurn{{UserMessage: "hi", BotResponse: "hello", Ts: time.Now()}}
	hist := &fakeHistory{err: errors.New("must not be called")}
	b := NewBuilder(&fakeDrafts{}, hist, &fakeState{mode: store.ModeIdle}, testLogger())

	f := b.Build(context.Background(), Input{Phone: "5551234567", Text: "hi", History: prefetched})

	if len(f.History) != 1 || f.LastBotAct != "hello" {
		t.Errorf("prefetched history not used: %+v", f.History)
	}
}

func TestDetermineMode(t *testing.T) {
	draft := &store.PendingDraft{Kind: store.DraftKindAnnouncement, Status: store.DraftStatusDraft}

	tests := []struct {
		name       string
		stored     store.Mode
		lastBotAct string
		signals    store.Signals
		pending    *store.PendingDraft
		want       store.Mode
	}{
		{
			name:    "new request overrides pending draft",
			stored:  store.ModeAnnouncementInput,
			signals: store.Signals{IsNewRequest: true},
			pending: draft,
			want:    store.ModeIdle,
		},
		{
			name:       "bot announcement prompt pins input mode",
			stored:     store.ModeIdle,
			lastBotAct: "Starting a new announcement. Tell me: " + constant.PromptAnnouncementBody,
			want:       store.ModeAnnouncementInput,
		},
		{
			name:       "bot poll prompt pins input mode",
			stored:     store.ModeIdle,
			lastBotAct: "Starting a new poll. Tell me: " + constant.PromptPollQuestion,
			want:       store.ModePollInput,
		},
		{
			name:    "question during draft escapes to idle",
			stored:  store.ModeAnnouncementInput,
			signals: store.Signals{IsQuestion: true},
			pending: draft,
			want:    store.ModeIdle,
		},
		{
			name:   "stored mode sticks otherwise",
			stored: store.ModeConfirmSend,
			want:   store.ModeConfirmSend,
		},
		{
			name:   "empty stored mode defaults idle",
			stored: "",
			want:   store.ModeIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := determineMode(tt.stored, tt.lastBotAct, tt.signals, tt.pending)
			if got != tt.want {
				t.Errorf("determineMode = %q, want %q", got, tt.want)
			}
		})
	}
}
