// Package audit describes the local activity log: who logged in or out and
// who wrote which backend record.
package audit

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"sura/internal/domain/identity"
)

// Category represents the type of audit event.
type Category string

const (
	CategorySession      Category = "session"
	CategoryRecord       Category = "record"
	CategoryNotification Category = "notification"
	CategorySecurity     Category = "security"
)

// Action represents the action that occurred.
type Action string

const (
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionDeactivate  Action = "deactivate"
	ActionLogin       Action = "login"
	ActionLoginFailed Action = "login_failed"
	ActionLogout      Action = "logout"
	ActionRegister    Action = "register"
	ActionExport      Action = "export"
	ActionEmail       Action = "email"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// ErrInvalidEvent is returned when an event lacks its category or action.
var ErrInvalidEvent = errors.New("audit event requires a category and an action")

// Event represents a single audit log entry.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	Severity    Severity  `json:"severity"`
	ActorEmail  string    `json:"actor_email"`
	ActorName   string    `json:"actor_name"`
	ActorRole   string    `json:"actor_role"`
	Resource    string    `json:"resource"`
	RecordID    string    `json:"record_id"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
}

// NewEvent creates a new audit event with the current timestamp.
// PRE: category and action are non-empty
// POST: Returns an Event with a fresh id, the current UTC time and the actor fields
func NewEvent(actor identity.Identity, category Category, action Action) Event {
	return Event{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Category:   category,
		Action:     action,
		Severity:   SeverityInfo,
		ActorEmail: actor.Email,
		ActorName:  actor.Name,
		ActorRole:  actor.Role,
	}
}

// Validate checks the event can be stored.
func (e Event) Validate() error {
	if e.ID == "" || e.Category == "" || e.Action == "" {
		return ErrInvalidEvent
	}
	return nil
}

// WithSeverity sets the severity level.
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithRecord names the backend resource and, when positive, the record id.
func (e Event) WithRecord(resource string, id int64) Event {
	e.Resource = resource
	if id > 0 {
		e.RecordID = strconv.FormatInt(id, 10)
	}
	return e
}

// WithDescription sets the event description.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithRequest sets IP address and user agent from the HTTP request.
func (e Event) WithRequest(ipAddress, userAgent string) Event {
	e.IPAddress = ipAddress
	e.UserAgent = userAgent
	return e
}
