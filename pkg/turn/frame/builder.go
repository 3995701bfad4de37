package frame

import (
	"context"
	"log"
	"strings"
	"time"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/pkg/store"
)

// DraftSource exposes the live pending draft for a sender.
type DraftSource interface {
	ActiveDraft(ctx context.Context, phone string) (*store.PendingDraft, error)
}

// HistorySource exposes recent conversation turns for a sender.
type HistorySource interface {
	RecentTurns(ctx context.Context, phone string, limit int) ([]store.ConvoTurn, error)
}

// StateSource exposes the persisted conversation mode for a sender.
type StateSource interface {
	CurrentMode(ctx context.Context, phone string) (store.Mode, error)
}

// Builder normalizes raw webhook input into an immutable TurnFrame.
type Builder struct {
	drafts  DraftSource
	history HistorySource
	state   StateSource
	logger  *log.Logger
}

// NewBuilder creates a frame builder.
func NewBuilder(drafts DraftSource, history HistorySource, state StateSource, logger *log.Logger) *Builder {
	return &Builder{
		drafts:  drafts,
		history: history,
		state:   state,
		logger:  logger,
	}
}

// Input is the raw inbound unit of work.
type Input struct {
	Phone       string
	Text        string
	WorkspaceID string
	// History, when non-nil, is used as-is and no log read is issued.
	History []store.ConvoTurn
	Now     time.Time
}

const historyWindow = 6

// Build constructs the frame. Every persistence read degrades to an empty
// result on error or timeout; the frame always completes.
func (b *Builder) Build(ctx context.Context, in Input) *store.TurnFrame {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	phone := NormalizePhone(in.Phone)
	text := strings.TrimSpace(in.Text)

	pending := b.loadDraft(ctx, phone)
	history := in.History
	if history == nil {
		history = b.loadHistory(ctx, phone)
	}
	storedMode := b.loadMode(ctx, phone)

	signals := extractSignals(text, pending != nil && pending.Status == store.DraftStatusDraft)

	lastBotAct := ""
	if len(history) > 0 {
		lastBotAct = history[len(history)-1].BotResponse
	}

	mode := determineMode(storedMode, lastBotAct, signals, pending)

	return &store.TurnFrame{
		Now:         now,
		UserPhone:   phone,
		WorkspaceID: in.WorkspaceID,
		Text:        text,
		Mode:        mode,
		Pending:     pending,
		LastBotAct:  lastBotAct,
		History:     history,
		Signals:     signals,
	}
}

func (b *Builder) loadDraft(ctx context.Context, phone string) *store.PendingDraft {
	pending, err := b.drafts.ActiveDraft(ctx, phone)
	if err != nil {
		b.logger.Printf("[FRAME] draft lookup failed for %s: %v", phone, err)
		return nil
	}
	return pending
}

func (b *Builder) loadHistory(ctx context.Context, phone string) []store.ConvoTurn {
	history, err := b.history.RecentTurns(ctx, phone, historyWindow)
	if err != nil {
		b.logger.Printf("[FRAME] history lookup failed for %s: %v", phone, err)
		return nil
	}
	return history
}

func (b *Builder) loadMode(ctx context.Context, phone string) store.Mode {
	mode, err := b.state.CurrentMode(ctx, phone)
	if err != nil {
		b.logger.Printf("[FRAME] mode lookup failed for %s: %v", phone, err)
		return store.ModeIdle
	}
	if mode == "" {
		return store.ModeIdle
	}
	return mode
}

// NormalizePhone reduces a raw phone number to its canonical 10-digit form.
// An 11-digit number with a leading country-code "1" loses the "1";
// anything else keeps its last 10 digits.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		return d[1:]
	}
	if len(d) > 10 {
		return d[len(d)-10:]
	}
	return d
}

// determineMode derives the working mode for this turn.
//
// Order matters: a fresh top-level request must win over a pending draft so
// it is not swallowed as an edit, then a content prompt from the bot pins
// the matching input mode, then an explicit question escapes to IDLE so it
// resolves as an answer rather than a draft edit.
func determineMode(stored store.Mode, lastBotAct string, signals store.Signals, pending *store.PendingDraft) store.Mode {
	if signals.IsNewRequest {
		return store.ModeIdle
	}

	prompt := strings.ToLower(lastBotAct)
	if strings.Contains(prompt, constant.PromptAnnouncementBody) {
		return store.ModeAnnouncementInput
	}
	if strings.Contains(prompt, constant.PromptPollQuestion) {
		return store.ModePollInput
	}

	if signals.IsQuestion && pending != nil {
		return store.ModeIdle
	}

	if stored == "" {
		return store.ModeIdle
	}
	return stored
}
