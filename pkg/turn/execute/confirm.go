package execute

import (
	"context"
	"fmt"
	"strings"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/pkg/store"
)

// actionConfirm previews the pending draft without mutating anything.
func (r *Router) actionConfirm(f *store.TurnFrame, env *store.ContextEnvelope) store.TurnResult {
	pending := pendingOf(env)
	if pending == nil {
		pending = f.Pending
	}
	if pending == nil {
		return store.TurnResult{Messages: []string{constant.MsgNothingToSend}}.WithMode(store.ModeIdle)
	}

	var preview string
	if pending.Kind == store.DraftKindPoll {
		preview = fmt.Sprintf("About to send this poll to %s:\n%s\nOptions: %s\nReply \"yes\" to send it, or tell me what to change.",
			pending.Audience, pending.Question, strings.Join(pending.Options, " / "))
	} else {
		preview = fmt.Sprintf("About to send to %s:\n\"%s\"\nReply \"yes\" to send it, or tell me what to change.",
			pending.Audience, pending.Body)
	}

	return store.TurnResult{Messages: []string{preview}}.WithMode(store.ModeConfirmSend)
}

// actionExecute is the only handler that performs the side-effecting send
// and the terminal draft transition. With nothing pending it is a safe
// no-op, so repeated confirmations cannot double-send.
func (r *Router) actionExecute(ctx context.Context, f *store.TurnFrame, env *store.ContextEnvelope) store.TurnResult {
	pending := pendingOf(env)
	if pending == nil {
		pending = f.Pending
	}
	if pending == nil || pending.Status == store.DraftStatusSent {
		return store.TurnResult{Messages: []string{constant.MsgNothingToSend}}.WithMode(store.ModeIdle)
	}

	recipients, err := r.audience.Recipients(ctx, f.WorkspaceID, pending.Audience)
	if err != nil {
		r.logger.Printf("[EXECUTE] audience resolution failed: %v", err)
		return store.TurnResult{Messages: []string{constant.MsgApology}}
	}
	if len(recipients) == 0 {
		return store.TurnResult{
			Messages: []string{"I couldn't find anyone in that audience, so nothing was sent."},
		}.WithMode(store.ModeIdle)
	}

	body := outboundBody(pending)
	delivered := 0
	for _, phone := range recipients {
		if _, err := r.sender.Send(ctx, phone, body); err != nil {
			r.logger.Printf("[EXECUTE] send to %s failed: %v", phone, err)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return store.TurnResult{
			Messages: []string{"Delivery failed for every recipient. Your draft is still saved; try \"send\" again in a minute."},
		}
	}

	if err := r.drafts.MarkSent(ctx, f.UserPhone, pending.ID); err != nil {
		r.logger.Printf("[EXECUTE] mark sent failed for %s: %v", f.UserPhone, err)
	}

	actionKind := constant.EventAnnouncementSent
	if pending.Kind == store.DraftKindPoll {
		actionKind = constant.EventPollSent
	}
	payload := map[string]interface{}{
		"draft_id":   pending.ID,
		"body":       body,
		"audience":   pending.Audience,
		"recipients": delivered,
	}
	if pending.Kind == store.DraftKindPoll {
		payload["question"] = pending.Question
		options := make([]interface{}, len(pending.Options))
		for i, o := range pending.Options {
			options[i] = o
		}
		payload["options"] = options
	}
	if _, err := r.actions.Record(ctx, f.UserPhone, actionKind, payload); err != nil {
		r.logger.Printf("[EXECUTE] action record failed: %v", err)
	}
	if err := r.events.Publish(ctx, actionKind, payload); err != nil {
		r.logger.Printf("[EXECUTE] event publish failed: %v", err)
	}

	noun := "announcement"
	if pending.Kind == store.DraftKindPoll {
		noun = "poll"
	}
	msg := fmt.Sprintf("Done! Your %s went out to %d recipient", noun, delivered)
	if delivered != 1 {
		msg += "s"
	}
	msg += "."
	if delivered < len(recipients) {
		msg += fmt.Sprintf(" (%d of %d deliveries failed.)", len(recipients)-delivered, len(recipients))
	}

	return store.TurnResult{Messages: []string{msg}}.WithMode(store.ModeIdle)
}

func outboundBody(d *store.PendingDraft) string {
	if d.Kind == store.DraftKindPoll {
		return fmt.Sprintf("%s Reply with one of: %s", d.Question, strings.Join(d.Options, ", "))
	}
	return d.Body
}
