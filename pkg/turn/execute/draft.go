package execute

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/pkg/store"
	"sms-assistant-be/pkg/turn/reducer"
)

const defaultAudience = "everyone"

var (
	requestLeadRe = regexp.MustCompile(`(?i)^.*?\b(announcements?|polls?)\b\s*(that|about|saying|asking|:)?\s*`)
	optionsRe     = regexp.MustCompile(`(?i)\boptions?\s*:?\s*(.+)$`)
)

// draftCreate starts (or restarts) the single active draft for the kind.
// With no extractable content it asks the matching content prompt and moves
// the conversation into the input mode.
func (r *Router) draftCreate(ctx context.Context, f *store.TurnFrame, kind store.DraftKind) store.TurnResult {
	content := seedContent(f)
	inputMode := inputModeFor(kind)

	if content == "" && f.Mode == inputMode {
		// Reply to the content prompt: the whole message is the content.
		content = strings.TrimSpace(f.Text)
	}

	if content == "" {
		return store.TurnResult{
			Messages: []string{contentPromptFor(kind)},
		}.WithMode(inputMode)
	}

	draft := &store.PendingDraft{
		Kind:     kind,
		Audience: defaultAudience,
		Status:   store.DraftStatusDraft,
	}
	fillDraftContent(draft, content, f.Text)

	if _, err := r.drafts.Upsert(ctx, f.UserPhone, draft); err != nil {
		r.logger.Printf("[EXECUTE] draft upsert failed for %s: %v", f.UserPhone, err)
		return store.TurnResult{Messages: []string{constant.MsgApology}}
	}

	return store.TurnResult{
		Messages: []string{previewMessage(draft)},
	}.WithMode(inputMode)
}

// draftEdit applies the deterministic reducer to the pending draft.
// External generation runs only when no structural rule matched.
func (r *Router) draftEdit(ctx context.Context, f *store.TurnFrame, env *store.ContextEnvelope, kind store.DraftKind) store.TurnResult {
	pending := f.Pending
	if pending == nil {
		pending = pendingOf(env)
	}
	if pending == nil || pending.Kind != kind {
		// Nothing to edit yet: treat the message as the draft content.
		return r.draftCreate(ctx, f, kind)
	}

	current := draftBodyOf(pending)
	res := reducer.Apply(current, f.Signals, f.Text)

	body := res.Body
	if !res.Applied {
		rewritten, err := r.generator.Generate(ctx, rewritePrompt(current, f.Text))
		if err != nil || strings.TrimSpace(rewritten) == "" {
			if err != nil {
				r.logger.Printf("[EXECUTE] edit generation failed, keeping body: %v", err)
			}
			return store.TurnResult{
				Messages: []string{fmt.Sprintf("I wasn't sure how to apply that. Current draft: \"%s\". Try quoting the exact wording you want.", current)},
			}.WithMode(inputModeFor(kind))
		}
		body = strings.TrimSpace(rewritten)
	}

	setDraftBody(pending, body)
	if kind == store.DraftKindPoll {
		if opts := parseOptions(f.Text); opts != nil {
			pending.Options = opts
		}
	}

	if _, err := r.drafts.Upsert(ctx, f.UserPhone, pending); err != nil {
		r.logger.Printf("[EXECUTE] draft upsert failed for %s: %v", f.UserPhone, err)
		return store.TurnResult{Messages: []string{constant.MsgApology}}
	}

	return store.TurnResult{
		Messages: []string{previewMessage(pending)},
	}.WithMode(inputModeFor(kind))
}

// seedContent pulls draft content out of the initiating request: quoted
// text wins, then whatever follows the request phrasing.
func seedContent(f *store.TurnFrame) string {
	if len(f.Signals.Quoted) > 0 {
		return strings.TrimSpace(strings.Join(f.Signals.Quoted, " "))
	}
	stripped := requestLeadRe.ReplaceAllString(f.Text, "")
	stripped = strings.TrimSpace(stripped)
	if stripped == strings.TrimSpace(f.Text) {
		// Lead pattern didn't match; the message was only the request.
		return ""
	}
	return stripped
}

func fillDraftContent(draft *store.PendingDraft, content, rawText string) {
	if draft.Kind == store.DraftKindPoll {
		question := content
		if opts := parseOptions(rawText); opts != nil {
			draft.Options = opts
			question = strings.TrimSpace(optionsRe.ReplaceAllString(question, ""))
		}
		if question != "" && !strings.HasSuffix(question, "?") {
			question += "?"
		}
		draft.Question = question
		if len(draft.Options) == 0 {
			draft.Options = []string{"Yes", "No"}
		}
		return
	}
	draft.Body = content
}

func parseOptions(text string) []string {
	m := optionsRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	parts := strings.FieldsFunc(m[1], func(r rune) bool { return r == ',' || r == ';' })
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(strings.TrimSpace(p), `"`))
		p = strings.TrimSuffix(p, ".")
		if p != "" {
			options = append(options, p)
		}
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

func draftBodyOf(d *store.PendingDraft) string {
	if d.Kind == store.DraftKindPoll {
		return d.Question
	}
	return d.Body
}

func setDraftBody(d *store.PendingDraft, body string) {
	if d.Kind == store.DraftKindPoll {
		d.Question = body
		return
	}
	d.Body = body
}

func inputModeFor(kind store.DraftKind) store.Mode {
	if kind == store.DraftKindPoll {
		return store.ModePollInput
	}
	return store.ModeAnnouncementInput
}

func contentPromptFor(kind store.DraftKind) string {
	if kind == store.DraftKindPoll {
		return "Starting a new poll. Tell me: " + constant.PromptPollQuestion
	}
	return "Starting a new announcement. Tell me: " + constant.PromptAnnouncementBody
}

func previewMessage(d *store.PendingDraft) string {
	if d.Kind == store.DraftKindPoll {
		return fmt.Sprintf("Here's your poll for %s:\n%s\nOptions: %s\nSay \"send\" when it's ready, or tell me what to change.",
			d.Audience, d.Question, strings.Join(d.Options, " / "))
	}
	return fmt.Sprintf("Here's your announcement for %s:\n\"%s\"\nSay \"send\" when it's ready, or tell me what to change.",
		d.Audience, d.Body)
}

func rewritePrompt(current, instruction string) string {
	var sb strings.Builder
	sb.WriteString("Rewrite this SMS draft following the instruction. Reply with ONLY the new draft text, nothing else.\n\n")
	sb.WriteString("Draft: ")
	sb.WriteString(current)
	sb.WriteString("\nInstruction: ")
	sb.WriteString(instruction)
	return sb.String()
}
