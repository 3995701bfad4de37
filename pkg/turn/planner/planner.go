package planner

import (
	"sms-assistant-be/pkg/store"
)

// rule is one row of the decision table. Rules are evaluated top to bottom
// and the first matching row wins.
type rule struct {
	name string
	when func(f *store.TurnFrame) bool
	then store.ResponseMode
}

func pendingDraftOf(f *store.TurnFrame, kind store.DraftKind) bool {
	return f.Pending != nil && f.Pending.Status == store.DraftStatusDraft && f.Pending.Kind == kind
}

func hasPendingDraft(f *store.TurnFrame) bool {
	return f.Pending != nil && f.Pending.Status == store.DraftStatusDraft
}

// The table encodes the full per-mode precedence:
// abusive > CANCEL > confirm-mode rules > SEND(if pending) >
// explicit question > mode default. The final row is a catch-all, which
// makes Plan total by construction.
var rules = []rule{
	{
		name: "abusive-deflect",
		when: func(f *store.TurnFrame) bool { return f.Signals.Toxicity == store.ToxicityAbusive },
		then: store.ResponseChitChat,
	},
	{
		name: "cancel",
		when: func(f *store.TurnFrame) bool { return f.Signals.Command == store.CommandCancel },
		then: store.ResponseChitChat,
	},
	{
		name: "confirm-question",
		when: func(f *store.TurnFrame) bool {
			return f.Mode == store.ModeConfirmSend && f.Signals.IsQuestion
		},
		then: store.ResponseAnswer,
	},
	{
		name: "confirm-affirmative",
		when: func(f *store.TurnFrame) bool {
			return f.Mode == store.ModeConfirmSend &&
				(f.Signals.IsAffirmative || f.Signals.Command == store.CommandSend)
		},
		then: store.ResponseActionExecute,
	},
	{
		name: "confirm-edit-announcement",
		when: func(f *store.TurnFrame) bool {
			return f.Mode == store.ModeConfirmSend && f.Signals.WantsEdit &&
				pendingDraftOf(f, store.DraftKindAnnouncement)
		},
		then: store.ResponseDraftEdit,
	},
	{
		name: "confirm-edit-poll",
		when: func(f *store.TurnFrame) bool {
			return f.Mode == store.ModeConfirmSend && f.Signals.WantsEdit &&
				pendingDraftOf(f, store.DraftKindPoll)
		},
		then: store.ResponsePollEdit,
	},
	{
		name: "confirm-reminder",
		when: func(f *store.TurnFrame) bool { return f.Mode == store.ModeConfirmSend },
		then: store.ResponseChitChat,
	},
	{
		name: "send-pending",
		when: func(f *store.TurnFrame) bool {
			return f.Signals.Command == store.CommandSend && hasPendingDraft(f)
		},
		then: store.ResponseActionConfirm,
	},
	{
		name: "explicit-question",
		when: func(f *store.TurnFrame) bool { return f.Signals.IsQuestion },
		then: store.ResponseAnswer,
	},
	{
		name: "announcement-input-default",
		when: func(f *store.TurnFrame) bool { return f.Mode == store.ModeAnnouncementInput },
		then: store.ResponseDraftEdit,
	},
	{
		name: "poll-input-default",
		when: func(f *store.TurnFrame) bool { return f.Mode == store.ModePollInput },
		then: store.ResponsePollEdit,
	},
	{
		name: "make-announcement",
		when: func(f *store.TurnFrame) bool {
			return f.Signals.Command == store.CommandMakeAnnouncement
		},
		then: store.ResponseDraftCreate,
	},
	{
		name: "make-poll",
		when: func(f *store.TurnFrame) bool { return f.Signals.Command == store.CommandMakePoll },
		then: store.ResponsePollCreate,
	},
	{
		name: "send-nothing-pending",
		when: func(f *store.TurnFrame) bool { return f.Signals.Command == store.CommandSend },
		then: store.ResponseChitChat,
	},
	{
		name: "small-talk",
		when: func(f *store.TurnFrame) bool { return f.Signals.IsSmallTalk },
		then: store.ResponseChitChat,
	},
	{
		name: "default-answer",
		when: func(f *store.TurnFrame) bool { return true },
		then: store.ResponseAnswer,
	},
}

// Plan maps a frame to exactly one response mode. It is pure: no I/O, no
// clock reads, and identical frames always plan identically.
func Plan(f *store.TurnFrame) store.ResponseMode {
	for _, r := range rules {
		if r.when(f) {
			return r.then
		}
	}
	// Unreachable: the last rule always matches.
	return store.ResponseAnswer
}

// PlanNamed also reports which table row fired, for turn logging.
func PlanNamed(f *store.TurnFrame) (store.ResponseMode, string) {
	for _, r := range rules {
		if r.when(f) {
			return r.then, r.name
		}
	}
	return store.ResponseAnswer, "default-answer"
}
