package contract

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActivityType is the closed set of events a creator timeline can hold.
type ActivityType string

const (
	ActivityEmailSent      ActivityType = "email_sent"
	ActivityEmailReceived  ActivityType = "email_received"
	ActivityCallMade       ActivityType = "call_made"
	ActivityCallCompleted  ActivityType = "call_completed"
	ActivityCreatorCreated ActivityType = "creator_created"
	ActivityStatusChanged  ActivityType = "status_changed"
	ActivityCallAnalyzed   ActivityType = "call_analyzed"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityEmailSent, ActivityEmailReceived, ActivityCallMade,
		ActivityCallCompleted, ActivityCreatorCreated, ActivityStatusChanged,
		ActivityCallAnalyzed:
		return true
	}
	return false
}

// IsEmail reports whether the activity type counts as email traffic for
// contract synthesis.
func (t ActivityType) IsEmail() bool {
	return t == ActivityEmailSent || t == ActivityEmailReceived
}

// Creator is the business entity this service manages outreach for.
type Creator struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Handle      string    `json:"handle"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Activity is one immutable timestamped event in a creator's history.
// Records are append-only: once written they are never mutated, so
// UpdatedAt stays equal to CreatedAt for the life of the record.
type Activity struct {
	ID           uuid.UUID      `json:"id"`
	CreatorID    uuid.UUID      `json:"creator_id"`
	ActivityType ActivityType   `json:"activity_type"`
	Status       string         `json:"status"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Body returns the human-readable narrative stored under the conventional
// "body" metadata key, or "" when absent.
func (a Activity) Body() string {
	if a.Metadata == nil {
		return ""
	}
	body, _ := a.Metadata["body"].(string)
	return body
}

// ConversationEntry is an email activity projected for prompt rendering.
// It is built on demand during contract synthesis and never persisted.
type ConversationEntry struct {
	Timestamp time.Time `json:"timestamp"`
	To        string    `json:"to"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
}

// NewCreator carries the fields accepted when registering a creator.
type NewCreator struct {
	Name        string `json:"name"`
	Handle      string `json:"handle"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func (n NewCreator) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return validationErr("creator name is required")
	}
	if strings.TrimSpace(n.Handle) == "" {
		return validationErr("creator handle is required")
	}
	if email := strings.TrimSpace(n.Email); email != "" {
		if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
			return validationErr("creator email is malformed")
		}
	}
	return nil
}

const (
	DefaultCallLanguage    = "en"
	DefaultCallVoice       = "nat"
	DefaultCallMaxDuration = 12
)

// CallRequest carries the caller-provided parameters for an outbound call.
type CallRequest struct {
	Prompt      string `json:"prompt"`
	Language    string `json:"language,omitempty"`
	Voice       string `json:"voice,omitempty"`
	MaxDuration int    `json:"max_duration,omitempty"`
}

// WithDefaults fills the provider defaults for any unset optional field.
func (r CallRequest) WithDefaults() CallRequest {
	if strings.TrimSpace(r.Language) == "" {
		r.Language = DefaultCallLanguage
	}
	if strings.TrimSpace(r.Voice) == "" {
		r.Voice = DefaultCallVoice
	}
	if r.MaxDuration <= 0 {
		r.MaxDuration = DefaultCallMaxDuration
	}
	return r
}

// EmailRequest carries the caller-provided parameters for an outbound email.
type EmailRequest struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	CC        string `json:"cc,omitempty"`
	BCC       string `json:"bcc,omitempty"`
	FromEmail string `json:"from_email,omitempty"`
}

// CallPlacement describes one outbound call handed to the call provider.
type CallPlacement struct {
	PhoneNumber string
	Name        string
	Handle      string
	Prompt      string
	Language    string
	Voice       string
	MaxDuration int
	CreatorID   uuid.UUID
}

// CallResult is the normalized provider response for a placed call.
type CallResult struct {
	CallID string         `json:"call_id"`
	Raw    map[string]any `json:"data,omitempty"`
}

// EmailDelivery describes one outbound email handed to the email provider.
type EmailDelivery struct {
	To      string
	From    string
	Subject string
	Body    string
	CC      string
	BCC     string
}

// EmailResult is the normalized provider response for a sent email.
// Raw carries the provider body verbatim so partial recipient failures
// reported there reach the caller.
type EmailResult struct {
	MessageID string         `json:"message_id,omitempty"`
	From      string         `json:"from,omitempty"`
	Raw       map[string]any `json:"data,omitempty"`
}
