package dto

// InboundSmsRequest mirrors the form fields a Twilio-compatible gateway
// posts on each inbound message.
type InboundSmsRequest struct {
	From       string `form:"From" validate:"required"`
	To         string `form:"To"`
	Body       string `form:"Body" validate:"required"`
	MessageSid string `form:"MessageSid" validate:"required"`
	AccountSid string `form:"AccountSid"`
	NumMedia   string `form:"NumMedia"`
}

type InboundSmsResponse struct {
	Replies []string `json:"replies"`
	Mode    string   `json:"mode"`
}
