package execute

import (
	"context"
	"fmt"
	"strings"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/pkg/store"
)

const answerSnippetMax = 3

// answer composes a reply from the envelope's ranked evidence. Generation
// failures fall back to the raw top snippet; an empty envelope gets an
// honest "nothing found".
func (r *Router) answer(ctx context.Context, f *store.TurnFrame, env *store.ContextEnvelope) store.TurnResult {
	if env == nil || len(env.Evidence) == 0 {
		return store.TurnResult{Messages: []string{constant.MsgNoAnswer}}
	}

	snippets := topSnippets(env.Evidence, answerSnippetMax)

	prompt := answerPrompt(f.Text, snippets)
	reply, err := r.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			r.logger.Printf("[EXECUTE] generation failed, using raw snippet: %v", err)
		}
		reply = snippets[0]
	}

	return store.TurnResult{Messages: []string{strings.TrimSpace(reply)}}
}

func topSnippets(evidence []store.EvidenceUnit, max int) []string {
	snippets := make([]string, 0, max)
	for _, unit := range evidence {
		text := strings.TrimSpace(unit.Text)
		if text == "" {
			continue
		}
		snippets = append(snippets, text)
		if len(snippets) == max {
			break
		}
	}
	if len(snippets) == 0 {
		snippets = append(snippets, constant.MsgNoAnswer)
	}
	return snippets
}

func answerPrompt(question string, snippets []string) string {
	var sb strings.Builder
	sb.WriteString("You are an SMS assistant for a small organization. ")
	sb.WriteString("Answer the member's question in one or two short sentences, using ONLY the facts below. ")
	sb.WriteString("If the facts don't cover it, say you don't know.\n\nFacts:\n")
	for i, s := range snippets {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}
