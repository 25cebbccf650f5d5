package email

// From is the fixed sender identity used for every message.
type From struct {
	Email string
	Name  string
}

// Recipient is one entry of the message "to" list.
type Recipient struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

// MergeVar is a named value substituted into the template at send time.
//
// Content is any JSON-encodable value; the story email passes the
// visitor's site list through untouched as json.RawMessage.
type MergeVar struct {
	Name    string      `json:"name"`
	Content interface{} `json:"content"`
}

// RecipientMergeVars scopes merge vars to a single recipient.
type RecipientMergeVars struct {
	Rcpt string     `json:"rcpt"`
	Vars []MergeVar `json:"vars"`
}

// Attachment is a file sent along with the message.
// Content is base64 encoded.
type Attachment struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Message is the outbound payload, in Mailchimp Transactional's shape.
type Message struct {
	FromEmail   string               `json:"from_email"`
	FromName    string               `json:"from_name"`
	Subject     string               `json:"subject"`
	To          []Recipient          `json:"to"`
	InlineCSS   bool                 `json:"inline_css"`
	MergeVars   []RecipientMergeVars `json:"merge_vars"`
	Attachments []Attachment         `json:"attachments,omitempty"`
}

// newMessage builds a single-recipient message. Every message has
// exactly one "to" recipient and one merge var block for that recipient.
func newMessage(from From, to, subject string, vars []MergeVar) *Message {
	return &Message{
		FromEmail: from.Email,
		FromName:  from.Name,
		Subject:   subject,
		To: []Recipient{
			{Email: to, Type: "to"},
		},
		InlineCSS: false,
		MergeVars: []RecipientMergeVars{
			{Rcpt: to, Vars: vars},
		},
	}
}

// Recipient returns the address the message is sent to.
func (m *Message) Recipient() string {
	if len(m.To) == 0 {
		return ""
	}
	return m.To[0].Email
}

// Var returns the content of the named merge var for the recipient.
func (m *Message) Var(name string) (interface{}, bool) {
	for _, block := range m.MergeVars {
		if block.Rcpt != m.Recipient() {
			continue
		}
		for _, v := range block.Vars {
			if v.Name == name {
				return v.Content, true
			}
		}
	}
	return nil, false
}
