package reminder

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout is the calendar-date format used throughout the reminder
	// domain (completion log keys, eligibility comparisons).
	DateLayout = "2006-01-02"
	// TimeLayout is the wall-clock time-of-day format for scheduled times.
	TimeLayout = "15:04"
)

// Frequency is the recurrence tag of a reminder. It is a display and
// default-population hint only: the cardinality of ScheduledTimes is not
// required to match the tag.
type Frequency string

const (
	OnceDaily       Frequency = "once daily"
	TwiceDaily      Frequency = "twice daily"
	ThreeTimesDaily Frequency = "three times daily"
	FourTimesDaily  Frequency = "four times daily"
	CustomFrequency Frequency = "custom"
)

var validFrequencies = map[Frequency]bool{
	OnceDaily: true, TwiceDaily: true, ThreeTimesDaily: true,
	FourTimesDaily: true, CustomFrequency: true,
}

func (f Frequency) Valid() bool {
	return validFrequencies[f]
}

// Category groups reminders for display.
type Category string

const (
	CategoryMedication  Category = "medication"
	CategoryExercise    Category = "exercise"
	CategoryBreak       Category = "break"
	CategoryHydration   Category = "hydration"
	CategoryAppointment Category = "appointment"
	CategoryCustom      Category = "custom"
)

var validCategories = map[Category]bool{
	CategoryMedication: true, CategoryExercise: true, CategoryBreak: true,
	CategoryHydration: true, CategoryAppointment: true, CategoryCustom: true,
}

func (c Category) Valid() bool {
	return validCategories[c]
}

// SourceKind distinguishes reminders backed by a prescription from free-form
// custom reminders.
type SourceKind string

const (
	SourcePrescription SourceKind = "prescription"
	SourceCustom       SourceKind = "custom"
)

// Source is what a reminder was created from: either a prescription
// reference or the custom tag for non-medication reminders.
type Source struct {
	Kind           SourceKind `json:"kind"`
	PrescriptionID *uuid.UUID `json:"prescription_id,omitempty"`
}

// PrescriptionSource returns a Source referencing the given prescription.
func PrescriptionSource(id uuid.UUID) Source {
	return Source{Kind: SourcePrescription, PrescriptionID: &id}
}

// CustomSource returns the Source for a non-medication reminder.
func CustomSource() Source {
	return Source{Kind: SourceCustom}
}

func (s Source) IsCustom() bool {
	return s.Kind == SourceCustom
}

// CompletionTime records that one scheduled time was acknowledged.
type CompletionTime struct {
	Time        string    `json:"time"`
	CompletedAt time.Time `json:"completed_at"`
}

// CompletionEntry holds all completions for one calendar date. A reminder's
// log has at most one entry per date, and an entry has at most one
// CompletionTime per distinct time value.
type CompletionEntry struct {
	Date  string           `json:"date"`
	Times []CompletionTime `json:"times"`
}

// Has reports whether the given time of day was completed on this entry's
// date. Safe to call on a nil entry.
func (e *CompletionEntry) Has(timeOfDay string) bool {
	if e == nil {
		return false
	}
	for _, ct := range e.Times {
		if ct.Time == timeOfDay {
			return true
		}
	}
	return false
}

// Reminder is a recurring schedule of wall-clock times at which a patient
// should be alerted to take an action.
type Reminder struct {
	ID             uuid.UUID         `json:"id"`
	PatientID      uuid.UUID         `json:"patient_id"`
	Source         Source            `json:"source"`
	Label          string            `json:"label"`
	ScheduledTimes []string          `json:"scheduled_times"`
	Frequency      Frequency         `json:"frequency"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	Active         bool              `json:"active"`
	Notes          *string           `json:"notes,omitempty"`
	Category       Category          `json:"category"`
	CompletionLog  []CompletionEntry `json:"completion_log"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CompletionFor returns the completion entry for the given date, or nil when
// nothing was completed that day.
func (r *Reminder) CompletionFor(date string) *CompletionEntry {
	for i := range r.CompletionLog {
		if r.CompletionLog[i].Date == date {
			return &r.CompletionLog[i]
		}
	}
	return nil
}

// validTimeOfDay reports whether s is a well-formed HH:MM 24-hour value.
func validTimeOfDay(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}
