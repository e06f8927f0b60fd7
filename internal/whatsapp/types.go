package whatsapp

// Meta-standard WhatsApp Cloud API webhook types.

// WebhookPayload is the top-level webhook delivery from Meta.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one business account entry.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps a single change notification.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the message data.
type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata about the receiving phone number.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is a WhatsApp contact.
type Contact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

// ContactProfile has the display name.
type ContactProfile struct {
	Name string `json:"name"`
}

// Message represents an incoming WhatsApp message.
type Message struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

// TextContent holds a text message body.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent is a user's reply to an interactive message
// (a tapped list row or button).
type InteractiveContent struct {
	Type        string       `json:"type"`
	ListReply   *ListReply   `json:"list_reply,omitempty"`
	ButtonReply *ButtonReply `json:"button_reply,omitempty"`
}

// ListReply identifies the tapped list row.
type ListReply struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ButtonReply identifies the tapped button.
type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Status represents a message delivery status update (sent/delivered/read).
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// FirstMessage extracts the first message from the envelope, guarding every
// level of the entry → changes → value.messages chain. It returns false for
// anything that is not a message delivery: an empty object field, a missing
// chain link, or a status-only callback.
func (p *WebhookPayload) FirstMessage() (Message, bool) {
	if p.Object == "" || len(p.Entry) == 0 {
		return Message{}, false
	}
	if len(p.Entry[0].Changes) == 0 {
		return Message{}, false
	}
	value := p.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return Message{}, false
	}
	return value.Messages[0], true
}

// Outbound Cloud API payloads.

// SendMessageRequest is the payload for sending a message via the Cloud API.
// Exactly one of Text or Interactive is set, matching Type.
type SendMessageRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *TextContent `json:"text,omitempty"`
	Interactive      *Interactive `json:"interactive,omitempty"`
}

// Interactive is an outbound interactive message. For list messages Type is
// "list" and Action carries a button label plus sections.
type Interactive struct {
	Type   string             `json:"type"`
	Header *InteractiveHeader `json:"header,omitempty"`
	Body   InteractiveBody    `json:"body"`
	Footer *InteractiveFooter `json:"footer,omitempty"`
	Action InteractiveAction  `json:"action"`
}

// InteractiveHeader is the list message header (text only).
type InteractiveHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// InteractiveBody is the main message text.
type InteractiveBody struct {
	Text string `json:"text"`
}

// InteractiveFooter is the small footer line.
type InteractiveFooter struct {
	Text string `json:"text"`
}

// InteractiveAction holds the list button label and sections.
type InteractiveAction struct {
	Button   string    `json:"button,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Section groups list rows under a title.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Row is a selectable list entry. ID round-trips back in the list_reply.
type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// SendMessageResponse is the response from the send message API.
type SendMessageResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}
