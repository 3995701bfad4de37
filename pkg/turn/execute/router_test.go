package execute

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/pkg/store"
)

type fakeDraftStore struct {
	upserted  []*store.PendingDraft
	discarded []store.DraftKind
	sentIDs   []string
	upsertErr error
}

func (s *fakeDraftStore) Upsert(ctx context.Context, phone string, draft *store.PendingDraft) (string, error) {
	if s.upsertErr != nil {
		return "", s.upsertErr
	}
	s.upserted = append(s.upserted, draft)
	return "draft-1", nil
}

func (s *fakeDraftStore) Discard(ctx context.Context, phone string, kind store.DraftKind) error {
	s.discarded = append(s.discarded, kind)
	return nil
}

func (s *fakeDraftStore) MarkSent(ctx context.Context, phone, draftID string) error {
	s.sentIDs = append(s.sentIDs, draftID)
	return nil
}

type fakeActionStore struct {
	kinds    []string
	payloads []map[string]interface{}
}

func (s *fakeActionStore) Record(ctx context.Context, phone, kind string, payload map[string]interface{}) (string, error) {
	s.kinds = append(s.kinds, kind)
	s.payloads = append(s.payloads, payload)
	return "action-1", nil
}

type fakeAudience struct {
	recipients []string
	err        error
}

func (a *fakeAudience) Recipients(ctx context.Context, workspaceID, audience string) ([]string, error) {
	return a.recipients, a.err
}

type fakeSender struct {
	sent    []string
	failAll bool
	failFor map[string]bool
}

func (s *fakeSender) Send(ctx context.Context, phone, body string) (string, error) {
	if s.failAll || s.failFor[phone] {
		return "", errors.New("carrier rejected")
	}
	s.sent = append(s.sent, phone)
	return "sms-" + phone, nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.reply, g.err
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(ctx context.Context, eventType string, payload map[string]interface{}) error {
	p.events = append(p.events, eventType)
	return nil
}

type routerFixture struct {
	router    *Router
	drafts    *fakeDraftStore
	actions   *fakeActionStore
	audience  *fakeAudience
	sender    *fakeSender
	generator *fakeGenerator
	events    *fakePublisher
}

func newFixture() *routerFixture {
	f := &routerFixture{
		drafts:    &fakeDraftStore{},
		actions:   &fakeActionStore{},
		audience:  &fakeAudience{recipients: []string{"5550000001", "5550000002", "5550000003"}},
		sender:    &fakeSender{},
		generator: &fakeGenerator{reply: "generated reply"},
		events:    &fakePublisher{},
	}
	f.router = NewRouter(f.drafts, f.actions, f.audience, f.sender, f.generator, f.events, log.New(io.Discard, "", 0))
	return f
}

func frameWith(mode store.Mode, text string, signals store.Signals, pending *store.PendingDraft) *store.TurnFrame {
	return &store.TurnFrame{
		Now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		UserPhone:   "5551234567",
		WorkspaceID: "ws-1",
		Text:        text,
		Mode:        mode,
		Signals:     signals,
		Pending:     pending,
	}
}

func envWithPending(pending *store.PendingDraft) *store.ContextEnvelope {
	env := &store.ContextEnvelope{Intent: store.IntentLocal}
	if pending == nil {
		return env
	}
	if pending.Kind == store.DraftKindPoll {
		env.SystemState.PendingPoll = pending
	} else {
		env.SystemState.PendingDraft = pending
	}
	return env
}

func announcementDraft() *store.PendingDraft {
	return &store.PendingDraft{
		ID:       "draft-1",
		Kind:     store.DraftKindAnnouncement,
		Body:     "Practice moved to 6pm Friday",
		Audience: "everyone",
		Status:   store.DraftStatusDraft,
	}
}

func TestDraftCreateWithoutContentAsksForBody(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeIdle, "make an announcement", store.Signals{Command: store.CommandMakeAnnouncement}, nil)

	res := fx.router.Execute(context.Background(), store.ResponseDraftCreate, f, envWithPending(nil))

	if len(res.Messages) != 1 || !strings.HasSuffix(res.Messages[0], constant.PromptAnnouncementBody) {
		t.Errorf("message = %q, want it to end with the body prompt", res.Messages)
	}
	if res.NewMode == nil || *res.NewMode != store.ModeAnnouncementInput {
		t.Errorf("NewMode = %v, want ANNOUNCEMENT_INPUT", res.NewMode)
	}
	if len(fx.drafts.upserted) != 0 {
		t.Error("no draft should be persisted before content arrives")
	}
}

func TestDraftCreateWithInlineContentPersistsAndPreviews(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeIdle, "make an announcement that practice moved to 6pm",
		store.Signals{Command: store.CommandMakeAnnouncement}, nil)

	res := fx.router.Execute(context.Background(), store.ResponseDraftCreate, f, envWithPending(nil))

	if len(fx.drafts.upserted) != 1 {
		t.Fatal("draft not persisted")
	}
	draft := fx.drafts.upserted[0]
	if draft.Body != "practice moved to 6pm" || draft.Audience != "everyone" {
		t.Errorf("draft = %+v", draft)
	}
	if !strings.Contains(res.Messages[0], draft.Body) {
		t.Errorf("preview %q does not show the body", res.Messages[0])
	}
	if res.NewMode == nil || *res.NewMode != store.ModeAnnouncementInput {
		t.Errorf("NewMode = %v", res.NewMode)
	}
}

func TestPollCreateDefaultsOptions(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeIdle, "create a poll asking should we order pizza",
		store.Signals{Command: store.CommandMakePoll}, nil)

	fx.router.Execute(context.Background(), store.ResponsePollCreate, f, envWithPending(nil))

	if len(fx.drafts.upserted) != 1 {
		t.Fatal("poll not persisted")
	}
	poll := fx.drafts.upserted[0]
	if poll.Question != "should we order pizza?" {
		t.Errorf("Question = %q", poll.Question)
	}
	if len(poll.Options) != 2 || poll.Options[0] != "Yes" || poll.Options[1] != "No" {
		t.Errorf("Options = %v, want Yes/No default", poll.Options)
	}
}

func TestPromptedReplyBecomesAnnouncementBody(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeAnnouncementInput, "meeting tonight at 8pm", store.Signals{}, nil)

	res := fx.router.Execute(context.Background(), store.ResponseDraftEdit, f, envWithPending(nil))

	if len(fx.drafts.upserted) != 1 {
		t.Fatalf("draft not persisted; messages=%q", res.Messages)
	}
	if fx.drafts.upserted[0].Body != "meeting tonight at 8pm" {
		t.Errorf("Body = %q, want the full reply", fx.drafts.upserted[0].Body)
	}
	if strings.HasSuffix(res.Messages[0], constant.PromptAnnouncementBody) {
		t.Errorf("re-prompted instead of previewing: %q", res.Messages[0])
	}
	if !strings.Contains(res.Messages[0], "meeting tonight at 8pm") {
		t.Errorf("preview %q does not show the body", res.Messages[0])
	}
}

func TestPromptedReplyBecomesPollQuestion(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModePollInput, "what day works best? options: Saturday, Sunday", store.Signals{}, nil)

	fx.router.Execute(context.Background(), store.ResponsePollEdit, f, envWithPending(nil))

	if len(fx.drafts.upserted) != 1 {
		t.Fatal("poll not persisted")
	}
	poll := fx.drafts.upserted[0]
	if poll.Question != "what day works best?" {
		t.Errorf("Question = %q", poll.Question)
	}
	if len(poll.Options) != 2 || poll.Options[0] != "Saturday" || poll.Options[1] != "Sunday" {
		t.Errorf("Options = %v", poll.Options)
	}
}

func TestDraftEditQuoteReplacesBody(t *testing.T) {
	fx := newFixture()
	pending := announcementDraft()
	f := frameWith(store.ModeAnnouncementInput, `say "Practice moved to 7pm Saturday"`,
		store.Signals{Quoted: []string{"Practice moved to 7pm Saturday"}}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseDraftEdit, f, envWithPending(pending))

	if len(fx.drafts.upserted) != 1 || fx.drafts.upserted[0].Body != "Practice moved to 7pm Saturday" {
		t.Errorf("upserted = %+v, want quoted body", fx.drafts.upserted)
	}
	if !strings.Contains(res.Messages[0], "Practice moved to 7pm Saturday") {
		t.Errorf("preview %q missing new body", res.Messages[0])
	}
}

func TestDraftEditFallsBackToGenerator(t *testing.T) {
	fx := newFixture()
	fx.generator.reply = "Practice is rescheduled, details soon"
	pending := announcementDraft()
	f := frameWith(store.ModeAnnouncementInput, "could you jazz it up a bit", store.Signals{}, pending)

	fx.router.Execute(context.Background(), store.ResponseDraftEdit, f, envWithPending(pending))

	if len(fx.drafts.upserted) != 1 || fx.drafts.upserted[0].Body != "Practice is rescheduled, details soon" {
		t.Errorf("upserted = %+v, want generated body", fx.drafts.upserted)
	}
}

func TestDraftEditGeneratorFailureKeepsBody(t *testing.T) {
	fx := newFixture()
	fx.generator.err = errors.New("model offline")
	pending := announcementDraft()
	f := frameWith(store.ModeAnnouncementInput, "could you jazz it up a bit", store.Signals{}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseDraftEdit, f, envWithPending(pending))

	if len(fx.drafts.upserted) != 0 {
		t.Error("failed generation must not persist a change")
	}
	if !strings.Contains(res.Messages[0], pending.Body) {
		t.Errorf("message %q should restate the current draft", res.Messages[0])
	}
}

func TestActionConfirmPreviewsWithoutSending(t *testing.T) {
	fx := newFixture()
	pending := announcementDraft()
	f := frameWith(store.ModeAnnouncementInput, "send it", store.Signals{Command: store.CommandSend}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseActionConfirm, f, envWithPending(pending))

	if len(fx.sender.sent) != 0 {
		t.Error("confirm must not send")
	}
	if !strings.Contains(res.Messages[0], pending.Body) {
		t.Errorf("preview %q missing body", res.Messages[0])
	}
	if res.NewMode == nil || *res.NewMode != store.ModeConfirmSend {
		t.Errorf("NewMode = %v, want CONFIRM_SEND", res.NewMode)
	}
}

func TestActionConfirmNothingPending(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeIdle, "send it", store.Signals{Command: store.CommandSend}, nil)

	res := fx.router.Execute(context.Background(), store.ResponseActionConfirm, f, envWithPending(nil))

	if res.Messages[0] != constant.MsgNothingToSend {
		t.Errorf("message = %q", res.Messages[0])
	}
	if res.NewMode == nil || *res.NewMode != store.ModeIdle {
		t.Errorf("NewMode = %v, want IDLE", res.NewMode)
	}
}

func TestActionExecuteSendsToEveryRecipient(t *testing.T) {
	fx := newFixture()
	pending := announcementDraft()
	f := frameWith(store.ModeConfirmSend, "yes", store.Signals{IsAffirmative: true}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseActionExecute, f, envWithPending(pending))

	if len(fx.sender.sent) != 3 {
		t.Errorf("sent = %v, want all 3 recipients", fx.sender.sent)
	}
	if !strings.Contains(res.Messages[0], "3 recipients") {
		t.Errorf("message = %q, want the delivered count", res.Messages[0])
	}
	if len(fx.drafts.sentIDs) != 1 || fx.drafts.sentIDs[0] != "draft-1" {
		t.Errorf("MarkSent ids = %v", fx.drafts.sentIDs)
	}
	if len(fx.actions.kinds) != 1 || fx.actions.kinds[0] != constant.EventAnnouncementSent {
		t.Errorf("recorded kinds = %v", fx.actions.kinds)
	}
	if fx.actions.payloads[0]["recipients"] != 3 {
		t.Errorf("payload = %v", fx.actions.payloads[0])
	}
	if len(fx.events.events) != 1 || fx.events.events[0] != constant.EventAnnouncementSent {
		t.Errorf("published = %v", fx.events.events)
	}
	if res.NewMode == nil || *res.NewMode != store.ModeIdle {
		t.Errorf("NewMode = %v, want IDLE", res.NewMode)
	}
}

func TestActionExecuteIdempotentWhenNothingPending(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeConfirmSend, "yes", store.Signals{IsAffirmative: true}, nil)

	res := fx.router.Execute(context.Background(), store.ResponseActionExecute, f, envWithPending(nil))

	if len(fx.sender.sent) != 0 {
		t.Errorf("sent = %v, want none", fx.sender.sent)
	}
	if res.Messages[0] != constant.MsgNothingToSend {
		t.Errorf("message = %q", res.Messages[0])
	}
	if res.NewMode == nil || *res.NewMode != store.ModeIdle {
		t.Errorf("NewMode = %v, want IDLE", res.NewMode)
	}
}

func TestActionExecuteSkipsAlreadySentDraft(t *testing.T) {
	fx := newFixture()
	pending := announcementDraft()
	pending.Status = store.DraftStatusSent
	f := frameWith(store.ModeConfirmSend, "yes", store.Signals{IsAffirmative: true}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseActionExecute, f, envWithPending(pending))

	if len(fx.sender.sent) != 0 {
		t.Error("sent draft must not send again")
	}
	if res.Messages[0] != constant.MsgNothingToSend {
		t.Errorf("message = %q", res.Messages[0])
	}
}

func TestActionExecuteTotalDeliveryFailureKeepsDraft(t *testing.T) {
	fx := newFixture()
	fx.sender.failAll = true
	pending := announcementDraft()
	f := frameWith(store.ModeConfirmSend, "yes", store.Signals{IsAffirmative: true}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseActionExecute, f, envWithPending(pending))

	if len(fx.drafts.sentIDs) != 0 {
		t.Error("total failure must not mark the draft sent")
	}
	if len(fx.actions.kinds) != 0 {
		t.Error("total failure must not record an action")
	}
	if !strings.Contains(res.Messages[0], "still saved") {
		t.Errorf("message = %q, want a retry hint", res.Messages[0])
	}
	if res.NewMode != nil {
		t.Errorf("NewMode = %v, want unchanged", res.NewMode)
	}
}

func TestActionExecutePartialFailureReportsBoth(t *testing.T) {
	fx := newFixture()
	fx.sender.failFor = map[string]bool{"5550000002": true}
	pending := announcementDraft()
	f := frameWith(store.ModeConfirmSend, "yes", store.Signals{IsAffirmative: true}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseActionExecute, f, envWithPending(pending))

	if len(fx.sender.sent) != 2 {
		t.Errorf("sent = %v, want 2", fx.sender.sent)
	}
	if !strings.Contains(res.Messages[0], "2 recipients") || !strings.Contains(res.Messages[0], "1 of 3") {
		t.Errorf("message = %q", res.Messages[0])
	}
	if len(fx.drafts.sentIDs) != 1 {
		t.Error("partial success still marks the draft sent")
	}
}

func TestActionExecutePollBodyListsOptions(t *testing.T) {
	fx := newFixture()
	pending := &store.PendingDraft{
		ID: "draft-2", Kind: store.DraftKindPoll, Question: "Pizza or tacos?",
		Options: []string{"Pizza", "Tacos"}, Audience: "everyone", Status: store.DraftStatusDraft,
	}
	f := frameWith(store.ModeConfirmSend, "yes", store.Signals{IsAffirmative: true}, pending)

	fx.router.Execute(context.Background(), store.ResponseActionExecute, f, envWithPending(pending))

	if got := outboundBody(pending); !strings.Contains(got, "Reply with one of: Pizza, Tacos") {
		t.Errorf("outbound body = %q", got)
	}
	if len(fx.actions.kinds) != 1 || fx.actions.kinds[0] != constant.EventPollSent {
		t.Errorf("recorded kinds = %v", fx.actions.kinds)
	}
}

func TestChitChatDeflectsAbuse(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeIdle, "you are an idiot", store.Signals{Toxicity: store.ToxicityAbusive}, nil)

	res := fx.router.Execute(context.Background(), store.ResponseChitChat, f, envWithPending(nil))

	if res.Messages[0] != constant.MsgDeflection {
		t.Errorf("message = %q", res.Messages[0])
	}
}

func TestChitChatCancelDiscardsDraft(t *testing.T) {
	fx := newFixture()
	pending := announcementDraft()
	f := frameWith(store.ModeAnnouncementInput, "cancel", store.Signals{Command: store.CommandCancel}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseChitChat, f, envWithPending(pending))

	if len(fx.drafts.discarded) != 1 || fx.drafts.discarded[0] != store.DraftKindAnnouncement {
		t.Errorf("discarded = %v", fx.drafts.discarded)
	}
	if res.Messages[0] != constant.MsgCancelled {
		t.Errorf("message = %q", res.Messages[0])
	}
	if res.NewMode == nil || *res.NewMode != store.ModeIdle {
		t.Errorf("NewMode = %v, want IDLE", res.NewMode)
	}
}

func TestChitChatNudgesPendingDraft(t *testing.T) {
	fx := newFixture()
	pending := announcementDraft()
	f := frameWith(store.ModeIdle, "hey there", store.Signals{IsSmallTalk: true}, pending)

	res := fx.router.Execute(context.Background(), store.ResponseChitChat, f, envWithPending(pending))

	if !strings.Contains(res.Messages[0], constant.MsgNudgePending) {
		t.Errorf("message = %q, want a pending nudge", res.Messages[0])
	}
}

func TestAnswerUsesGenerator(t *testing.T) {
	fx := newFixture()
	fx.generator.reply = "The meeting is Thursday at 6pm."
	f := frameWith(store.ModeIdle, "when is the meeting?", store.Signals{IsQuestion: true}, nil)
	env := envWithPending(nil)
	env.Evidence = []store.EvidenceUnit{{Scope: store.ScopeResource, SourceID: "r1", Text: "Meeting Thursday 6pm in the gym"}}

	res := fx.router.Execute(context.Background(), store.ResponseAnswer, f, env)

	if res.Messages[0] != "The meeting is Thursday at 6pm." {
		t.Errorf("message = %q", res.Messages[0])
	}
}

func TestAnswerFallsBackToRawSnippet(t *testing.T) {
	fx := newFixture()
	fx.generator.err = errors.New("model offline")
	f := frameWith(store.ModeIdle, "when is the meeting?", store.Signals{IsQuestion: true}, nil)
	env := envWithPending(nil)
	env.Evidence = []store.EvidenceUnit{{Scope: store.ScopeResource, SourceID: "r1", Text: "Meeting Thursday 6pm in the gym"}}

	res := fx.router.Execute(context.Background(), store.ResponseAnswer, f, env)

	if res.Messages[0] != "Meeting Thursday 6pm in the gym" {
		t.Errorf("message = %q, want the raw snippet", res.Messages[0])
	}
}

func TestAnswerEmptyEvidence(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeIdle, "when is the meeting?", store.Signals{IsQuestion: true}, nil)

	res := fx.router.Execute(context.Background(), store.ResponseAnswer, f, envWithPending(nil))

	if res.Messages[0] != constant.MsgNoAnswer {
		t.Errorf("message = %q", res.Messages[0])
	}
}

func TestExecuteUnknownModeApologizes(t *testing.T) {
	fx := newFixture()
	f := frameWith(store.ModeIdle, "hi", store.Signals{}, nil)

	res := fx.router.Execute(context.Background(), store.ResponseMode("BOGUS"), f, envWithPending(nil))

	if res.Messages[0] != constant.MsgApology {
		t.Errorf("message = %q", res.Messages[0])
	}
}
