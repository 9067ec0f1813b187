package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type labels what a notification is about.
type Type string

const (
	TypePrescription      Type = "prescription"
	TypeAppointmentStatus Type = "appointment_status"
	TypeSystem            Type = "system"
)

// Notification is one entry in a user's in-portal notification feed. It is
// distinct from the client-side reminder alerts, which are never persisted.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Type        Type       `json:"type"`
	Message     string     `json:"message"`
	RelatedID   *uuid.UUID `json:"related_id,omitempty"`
	Read        bool       `json:"read"`
	CreatedAt   time.Time  `json:"created_at"`
}
