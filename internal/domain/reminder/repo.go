package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is durable storage for reminders. Mutations are atomic at the
// granularity of one record; no cross-record transactions are assumed.
type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error)
	// ListByPatient returns a patient's reminders newest-created-first,
	// optionally filtered to active ones.
	ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*Reminder, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AppendCompletion records that timeOfDay was acknowledged on date.
	// The write must be atomic and idempotent per (id, date, timeOfDay):
	// concurrent or repeated calls leave exactly one completion record.
	AppendCompletion(ctx context.Context, id uuid.UUID, date, timeOfDay string, completedAt time.Time) error
}
