package frame

import (
	"regexp"
	"strings"

	"sms-assistant-be/pkg/store"
)

// patternRule pairs a compiled predicate with its result, so each
// classifier is an ordered, independently testable rule list instead of an
// inline regex ladder.
type patternRule struct {
	name string
	re   *regexp.Regexp
}

var commandRules = []struct {
	command   store.Command
	re        *regexp.Regexp
	needDraft bool
}{
	{store.CommandCancel, regexp.MustCompile(`(?i)^\s*(cancel|never\s?mind|discard|scrap (it|that))\b`), false},
	{store.CommandSend, regexp.MustCompile(`(?i)^\s*(send( it| now| them)?|go ahead( and send)?|ship it)\s*[.!]*\s*$`), false},
	{store.CommandMakeAnnouncement, regexp.MustCompile(`(?i)\b(make|create|draft|write|send out|start)\b.*\bannouncements?\b|(?i)^\s*announce\b`), false},
	{store.CommandMakePoll, regexp.MustCompile(`(?i)\b(make|create|draft|run|start|send out)\b.*\bpolls?\b`), false},
	{store.CommandEdit, regexp.MustCompile(`(?i)^\s*(edit|change|update|revise|reword)\b`), true},
}

// detectCommand runs the ordered command table. EDIT is only emitted while
// a draft is active; a bare "change ..." with no draft is not a command.
func detectCommand(text string, draftActive bool) store.Command {
	for _, rule := range commandRules {
		if rule.needDraft && !draftActive {
			continue
		}
		if rule.re.MatchString(text) {
			return rule.command
		}
	}
	return store.CommandNone
}

var abusiveRules = []patternRule{
	{"threat", regexp.MustCompile(`(?i)\b(i('ll| will| am going to)?\s*(kill|hurt|beat|destroy) (you|u))\b`)},
	{"targeted-profanity", regexp.MustCompile(`(?i)\b(f[u*]ck (you|u|off)|screw you|go to hell)\b`)},
	{"slur", regexp.MustCompile(`(?i)\b(bitch|bastard|asshole|piece of (shit|sh\*t))\b`)},
}

var rudeRules = []patternRule{
	{"profanity", regexp.MustCompile(`(?i)\b(damn|dammit|shit|crap|hell)\b`)},
	{"dismissive", regexp.MustCompile(`(?i)\b(this (is )?(stupid|dumb)|you suck|useless)\b`)},
}

// detectToxicity classifies abusive over rude over ok. Abusive always wins
// regardless of what else the message contains.
func detectToxicity(text string) store.Toxicity {
	for _, rule := range abusiveRules {
		if rule.re.MatchString(text) {
			return store.ToxicityAbusive
		}
	}
	for _, rule := range rudeRules {
		if rule.re.MatchString(text) {
			return store.ToxicityRude
		}
	}
	return store.ToxicityOK
}

var smallTalkRules = []patternRule{
	{"greeting", regexp.MustCompile(`(?i)^\s*(hi|hiya|hey|hello|yo|howdy|good (morning|afternoon|evening))\b[\s!.,]*$`)},
	{"thanks", regexp.MustCompile(`(?i)^\s*(thanks|thank you|thx|ty)\b`)},
	{"howareyou", regexp.MustCompile(`(?i)\bhow('s| is| are) (it going|you|things)\b`)},
	{"farewell", regexp.MustCompile(`(?i)^\s*(bye|goodbye|good night|see you|later)\b`)},
}

func detectSmallTalk(text string) bool {
	for _, rule := range smallTalkRules {
		if rule.re.MatchString(text) {
			return true
		}
	}
	return false
}

var affirmativeRe = regexp.MustCompile(`(?i)^\s*(yes|yep|yeah|yup|sure|ok(ay)?|confirm(ed)?|send( it)?|do it|go ahead|sounds good|looks good)\s*[.!]*\s*$`)

func detectAffirmative(text string) bool {
	return affirmativeRe.MatchString(text)
}

var wantsEditRe = regexp.MustCompile(`(?i)\b(change|edit|reword|rewrite|tweak|fix|update|revise|different|instead|actually)\b`)

// detectWantsEdit flags "I want to change something" phrasing. Only
// consulted while a confirmation is pending.
func detectWantsEdit(text string) bool {
	return wantsEditRe.MatchString(text)
}

var newRequestRe = regexp.MustCompile(`(?i)\b(make|create|draft|write|run|start|send out)\b\s+(an?\s+|another\s+|new\s+)?\w*\s*(announcements?|polls?)\b`)

// detectNewRequest matches a fresh top-level request. A pending draft must
// not swallow one of these as an edit.
func detectNewRequest(text string) bool {
	return newRequestRe.MatchString(text)
}

var interrogativeRe = regexp.MustCompile(`(?i)^\s*(who|whom|whose|what|when|where|why|how|which|is|are|was|were|do|does|did|can|could|will|would|should|has|have)\b`)

// detectQuestion requires BOTH a leading interrogative word and a literal
// question mark. A statement with a stray '?' is not a question, and a
// question-shaped sentence without '?' is treated as a statement.
func detectQuestion(text string) bool {
	return interrogativeRe.MatchString(text) && strings.Contains(text, "?")
}

var quotedRe = regexp.MustCompile(`"([^"]*)"`)

// extractQuotedSegments returns every double-quoted substring in order,
// quotes stripped. Quoted text later overrides all other edit rules.
func extractQuotedSegments(text string) []string {
	matches := quotedRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	segments := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m[1]) != "" {
			segments = append(segments, m[1])
		}
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}

var clockTimeRe = regexp.MustCompile(`(?i)\b(\d{1,2})(:\d{2})?\s*(am|pm)\b|\b(\d{1,2}):(\d{2})\b|(?i)\b(noon|midnight)\b`)

// parseTime extracts the first clock-time mention, verbatim.
func parseTime(text string) string {
	return strings.TrimSpace(clockTimeRe.FindString(text))
}

var dateRe = regexp.MustCompile(`(?i)\b(today|tonight|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday|this (week|weekend|month)|next (week|monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`)

// parseDate extracts the first relative day reference, verbatim.
func parseDate(text string) string {
	return strings.TrimSpace(dateRe.FindString(text))
}

var peopleRe = regexp.MustCompile(`(?i)\b(everyone|everybody|all members|the team|volunteers|parents|staff)\b`)

func parsePeople(text string) []string {
	matches := peopleRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	people := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToLower(m)
		if !seen[key] {
			seen[key] = true
			people = append(people, key)
		}
	}
	return people
}

// extractSignals runs every classifier over the raw text.
func extractSignals(text string, draftActive bool) store.Signals {
	return store.Signals{
		Quoted:          extractQuotedSegments(text),
		HasQuestionMark: strings.Contains(text, "?"),
		IsQuestion:      detectQuestion(text),
		IsSmallTalk:     detectSmallTalk(text),
		IsNewRequest:    detectNewRequest(text),
		WantsEdit:       detectWantsEdit(text),
		IsAffirmative:   detectAffirmative(text),
		Command:         detectCommand(text, draftActive),
		Entities: store.Entities{
			Time:   parseTime(text),
			Date:   parseDate(text),
			People: parsePeople(text),
		},
		Toxicity: detectToxicity(text),
	}
}
