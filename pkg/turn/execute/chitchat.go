package execute

import (
	"context"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/pkg/store"
)

// chitChat covers everything conversational that needs no retrieval:
// deflections, cancellations, confirmation reminders, and small talk.
func (r *Router) chitChat(ctx context.Context, f *store.TurnFrame, env *store.ContextEnvelope) store.TurnResult {
	if f.Signals.Toxicity == store.ToxicityAbusive {
		return store.TurnResult{Messages: []string{constant.MsgDeflection}}
	}

	if f.Signals.Command == store.CommandCancel {
		return r.cancelDraft(ctx, f)
	}

	if f.Mode == store.ModeConfirmSend {
		return store.TurnResult{Messages: []string{constant.MsgConfirmReminder}}
	}

	if f.Signals.Command == store.CommandSend && pendingOf(env) == nil {
		return store.TurnResult{Messages: []string{constant.MsgNothingToSend}}
	}

	msg := constant.MsgGreeting
	if pending := pendingOf(env); pending != nil {
		msg = msg + "\n" + constant.MsgNudgePending
	}
	return store.TurnResult{Messages: []string{msg}}
}

func (r *Router) cancelDraft(ctx context.Context, f *store.TurnFrame) store.TurnResult {
	if f.Pending == nil {
		return store.TurnResult{Messages: []string{constant.MsgNothingToSend}}.WithMode(store.ModeIdle)
	}
	if err := r.drafts.Discard(ctx, f.UserPhone, f.Pending.Kind); err != nil {
		r.logger.Printf("[EXECUTE] discard failed for %s: %v", f.UserPhone, err)
		return store.TurnResult{Messages: []string{constant.MsgApology}}
	}
	return store.TurnResult{Messages: []string{constant.MsgCancelled}}.WithMode(store.ModeIdle)
}

// pendingOf prefers the envelope's live system state over the frame.
func pendingOf(env *store.ContextEnvelope) *store.PendingDraft {
	if env == nil {
		return nil
	}
	if env.SystemState.PendingDraft != nil {
		return env.SystemState.PendingDraft
	}
	return env.SystemState.PendingPoll
}
