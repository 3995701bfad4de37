package constant

// Bot prompt fingerprints. The frame builder matches the previous bot
// utterance against these to decide whether the user is answering a
// content prompt.
const (
	PromptAnnouncementBody = "what would you like the announcement to say?"
	PromptPollQuestion     = "what question would you like to ask, and what are the options?"
)

// Canned replies used by the execute handlers.
const (
	MsgGreeting        = "Hi! I can answer questions, or help you send an announcement or a poll. What do you need?"
	MsgDeflection      = "I'm here to help with your organization. Let's keep things respectful."
	MsgNudgePending    = "By the way, you still have an unsent draft. Say \"send\" when it's ready, or \"cancel\" to discard it."
	MsgNothingToSend   = "There's nothing to send right now. Say \"make an announcement\" or \"make a poll\" to start one."
	MsgConfirmReminder = "Your draft is waiting. Reply \"yes\" to send it, describe a change, or say \"cancel\"."
	MsgCancelled       = "Okay, I've discarded that draft."
	MsgApology         = "Sorry, something went wrong on my end. Please try that again."
	MsgNoAnswer        = "I couldn't find anything on that. Try rephrasing, or ask me about recent announcements."
)

// Turn log roles.
const (
	TurnRoleUser = "user"
	TurnRoleBot  = "bot"
)

// Member roles. Admin is the only role that can see enclave resources or
// trigger sends.
const (
	RoleAdmin     = "admin"
	RoleParent    = "parent"
	RolePlayer    = "player"
	RoleVolunteer = "volunteer"
)

// Audience label resolving to every member of the workspace.
const AudienceEveryone = "everyone"

// Draft lifecycle as stored, mirroring store.DraftKind / store.DraftStatus.
const (
	DraftKindAnnouncement = "announcement"
	DraftKindPoll         = "poll"

	DraftStatusDraft     = "draft"
	DraftStatusScheduled = "scheduled"
	DraftStatusSent      = "sent"
)

// Event topics.
const (
	TopicEmbedResource = "EMBED_RESOURCE"

	EventAnnouncementSent = "announcement_sent"
	EventPollSent         = "poll_sent"
	EventPollResponsesAgg = "poll_responses_agg"
)
