package store

import "time"

// Mode is the persisted conversation mode, re-derived each turn.
type Mode string

const (
	ModeIdle              Mode = "IDLE"
	ModeAnnouncementInput Mode = "ANNOUNCEMENT_INPUT"
	ModePollInput         Mode = "POLL_INPUT"
	ModeConfirmSend       Mode = "CONFIRM_SEND"
)

// ResponseMode is the planner output. Never persisted.
type ResponseMode string

const (
	ResponseChitChat      ResponseMode = "CHIT_CHAT"
	ResponseAnswer        ResponseMode = "ANSWER"
	ResponseDraftCreate   ResponseMode = "DRAFT_CREATE"
	ResponseDraftEdit     ResponseMode = "DRAFT_EDIT"
	ResponsePollCreate    ResponseMode = "POLL_CREATE"
	ResponsePollEdit      ResponseMode = "POLL_EDIT"
	ResponseActionConfirm ResponseMode = "ACTION_CONFIRM"
	ResponseActionExecute ResponseMode = "ACTION_EXECUTE"
)

// Command is an explicit directive detected in the inbound text.
type Command string

const (
	CommandNone             Command = ""
	CommandSend             Command = "SEND"
	CommandCancel           Command = "CANCEL"
	CommandEdit             Command = "EDIT"
	CommandMakeAnnouncement Command = "MAKE_ANNOUNCEMENT"
	CommandMakePoll         Command = "MAKE_POLL"
)

// Toxicity classification for an inbound message.
type Toxicity string

const (
	ToxicityOK      Toxicity = "ok"
	ToxicityRude    Toxicity = "rude"
	ToxicityAbusive Toxicity = "abusive"
)

// Scope is an evidence source category.
type Scope string

const (
	ScopeConvo     Scope = "CONVO"
	ScopeResource  Scope = "RESOURCE"
	ScopeEnclave   Scope = "ENCLAVE"
	ScopeAction    Scope = "ACTION"
	ScopeSmallTalk Scope = "SMALLTALK"
)

// ScopePriority orders evidence in the final envelope. Lower is earlier.
func ScopePriority(s Scope) int {
	switch s {
	case ScopeAction:
		return 0
	case ScopeResource:
		return 1
	case ScopeEnclave:
		return 2
	case ScopeConvo:
		return 3
	case ScopeSmallTalk:
		return 4
	}
	return 5
}

// DraftKind discriminates the draft union.
type DraftKind string

const (
	DraftKindAnnouncement DraftKind = "announcement"
	DraftKindPoll         DraftKind = "poll"
)

// DraftStatus lifecycle: draft -> scheduled -> sent. "sent" is terminal and
// is written only by the execute handler.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusScheduled DraftStatus = "scheduled"
	DraftStatusSent      DraftStatus = "sent"
)

// Entities are lightweight structured extractions from the message text.
type Entities struct {
	Time   string   `json:"time,omitempty"`
	Date   string   `json:"date,omitempty"`
	People []string `json:"people,omitempty"`
}

// Signals holds everything the frame builder could extract from raw text.
type Signals struct {
	Quoted          []string `json:"quoted"`
	HasQuestionMark bool     `json:"has_question_mark"`
	IsQuestion      bool     `json:"is_question"` // interrogative lead word AND literal '?'
	IsSmallTalk     bool     `json:"is_small_talk"`
	IsNewRequest    bool     `json:"is_new_request"`
	WantsEdit       bool     `json:"wants_edit"`
	IsAffirmative   bool     `json:"is_affirmative"`
	Command         Command  `json:"command"`
	Entities        Entities `json:"entities"`
	Toxicity        Toxicity `json:"toxicity"`
}

// ConvoTurn is one prior exchange from the conversation log.
type ConvoTurn struct {
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Ts          time.Time `json:"ts"`
}

// PendingDraft is the in-flight draft/poll visible to the turn.
type PendingDraft struct {
	ID       string      `json:"id"`
	Kind     DraftKind   `json:"kind"`
	Body     string      `json:"body,omitempty"`
	Question string      `json:"question,omitempty"`
	Options  []string    `json:"options,omitempty"`
	Audience string      `json:"audience"`
	Status   DraftStatus `json:"status"`
	EditedAt time.Time   `json:"edited_at"`
}

// TurnFrame is the immutable per-turn input to planning and execution.
// One instance per inbound message; built once, never mutated.
type TurnFrame struct {
	Now        time.Time     `json:"now"`
	UserPhone  string        `json:"user_phone"`
	WorkspaceID string       `json:"workspace_id"`
	Text       string        `json:"text"`
	Mode       Mode          `json:"mode"`
	Pending    *PendingDraft `json:"pending,omitempty"`
	LastBotAct string        `json:"last_bot_act"`
	History    []ConvoTurn   `json:"history"`
	Signals    Signals       `json:"signals"`
}

// EvidenceScores are the independent relevance components of one unit.
type EvidenceScores struct {
	Semantic  float64 `json:"semantic"`
	Keyword   float64 `json:"keyword"`
	Freshness float64 `json:"freshness"`
	RoleMatch float64 `json:"role_match"`
}

// EvidenceUnit is one scored candidate snippet retrieved for this turn.
// Created fresh per retrieval call and discarded when the turn ends.
type EvidenceUnit struct {
	Scope    Scope          `json:"scope"`
	SourceID string         `json:"source_id"`
	Text     string         `json:"text"`
	Ts       *time.Time     `json:"ts,omitempty"`
	ACLOK    bool           `json:"acl_ok"`
	Scores   EvidenceScores `json:"scores"`
}

// Relevance is the blended score used by scope selection.
func (e EvidenceUnit) Relevance() float64 {
	return 0.4*e.Scores.Semantic + 0.3*e.Scores.Keyword +
		0.2*e.Scores.Freshness + 0.1*e.Scores.RoleMatch
}

// RecentAction is a completed send visible to execute handlers.
type RecentAction struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Ts      time.Time `json:"ts"`
	Summary string    `json:"summary"`
}

// SystemState carries live pipeline-independent state; populated even when
// every retrieval branch failed.
type SystemState struct {
	PendingDraft  *PendingDraft  `json:"pending_draft,omitempty"`
	PendingPoll   *PendingDraft  `json:"pending_poll,omitempty"`
	RecentActions []RecentAction `json:"recent_actions,omitempty"`
}

// Intent categorizes the retrieval need of the planned response.
type Intent string

const (
	IntentLocal    Intent = "local"    // system state only, no search
	IntentAnswer   Intent = "answer"   // resource + convo retrieval
	IntentMixed    Intent = "mixed"    // relaxed scope selection thresholds
	IntentSocial   Intent = "social"   // smalltalk only
)

// ContextEnvelope is the scoped evidence bundle handed to execution.
// Built once per turn, consumed read-only.
type ContextEnvelope struct {
	Intent      Intent         `json:"intent"`
	Scopes      []Scope        `json:"scopes"`
	Evidence    []EvidenceUnit `json:"evidence"`
	SystemState SystemState    `json:"system_state"`
}

// TurnResult is what a mode handler returns: at least one outbound message
// and an optional persisted-mode override.
type TurnResult struct {
	Messages []string `json:"messages"`
	NewMode  *Mode    `json:"new_mode,omitempty"`
}

// WithMode is a convenience for handlers that transition the conversation.
func (r TurnResult) WithMode(m Mode) TurnResult {
	r.NewMode = &m
	return r
}
