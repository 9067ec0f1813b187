package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PrescriptionDirectory resolves prescription ownership during reminder
// creation. found is false when the prescription does not exist.
type PrescriptionDirectory interface {
	Owner(ctx context.Context, id uuid.UUID) (patientID uuid.UUID, found bool, err error)
}

// Draft is the caller-supplied input to Create.
type Draft struct {
	PatientID      uuid.UUID
	Source         Source
	Label          string
	ScheduledTimes []string
	Frequency      Frequency
	StartDate      *time.Time
	EndDate        *time.Time
	Notes          *string
	Category       Category
}

type Service struct {
	repo          Repository
	prescriptions PrescriptionDirectory
	now           func() time.Time
	loc           *time.Location
}

func NewService(repo Repository, prescriptions PrescriptionDirectory) *Service {
	return &Service{
		repo:          repo,
		prescriptions: prescriptions,
		now:           time.Now,
		loc:           time.Local,
	}
}

// SetClock overrides the service's notion of the current instant. Tests use
// this to pin "today".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetLocation pins the time zone in which "today" and the current minute are
// computed for eligibility and classification.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

func (s *Service) localNow() time.Time {
	return s.now().In(s.loc)
}

// Create validates a draft and stores a new active reminder with an empty
// completion log. When the source references a prescription, the
// prescription must exist and belong to the same patient; custom reminders
// skip that check.
func (s *Service) Create(ctx context.Context, d Draft) (*Reminder, error) {
	if d.PatientID == uuid.Nil {
		return nil, validationErr("patient_id", "is required")
	}
	if d.Label == "" {
		return nil, validationErr("label", "is required")
	}
	if len(d.ScheduledTimes) == 0 {
		return nil, validationErr("scheduled_times", "at least one reminder time is required")
	}
	for _, t := range d.ScheduledTimes {
		if !validTimeOfDay(t) {
			return nil, validationErr("scheduled_times", "times must be HH:MM 24-hour values")
		}
	}
	if !d.Frequency.Valid() {
		return nil, validationErr("frequency", "must be one of: once daily, twice daily, three times daily, four times daily, custom")
	}

	source := d.Source
	if source.Kind == "" {
		source = CustomSource()
	}
	switch source.Kind {
	case SourceCustom:
		// No ownership check for custom reminders.
	case SourcePrescription:
		if source.PrescriptionID == nil {
			return nil, validationErr("source", "prescription_id is required for prescription reminders")
		}
		owner, found, err := s.prescriptions.Owner(ctx, *source.PrescriptionID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrPrescriptionNotFound
		}
		if owner != d.PatientID {
			return nil, ErrForbidden
		}
	default:
		return nil, validationErr("source", "kind must be prescription or custom")
	}

	category := d.Category
	if category == "" {
		category = CategoryMedication
	}
	if !category.Valid() {
		return nil, validationErr("category", "unknown category")
	}

	start := s.localNow()
	if d.StartDate != nil {
		start = *d.StartDate
	}

	r := &Reminder{
		PatientID:      d.PatientID,
		Source:         source,
		Label:          d.Label,
		ScheduledTimes: d.ScheduledTimes,
		Frequency:      d.Frequency,
		StartDate:      start,
		EndDate:        d.EndDate,
		Active:         true,
		Notes:          d.Notes,
		Category:       category,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListByPatient returns a patient's reminders newest-created-first.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*Reminder, error) {
	return s.repo.ListByPatient(ctx, patientID, activeOnly)
}

// Today builds the patient's daily schedule: each eligible reminder's
// scheduled times partitioned into completed, due, and upcoming.
func (s *Service) Today(ctx context.Context, patientID uuid.UUID) (*DaySchedule, error) {
	reminders, err := s.repo.ListByPatient(ctx, patientID, true)
	if err != nil {
		return nil, err
	}
	return BuildDaySchedule(reminders, s.localNow()), nil
}

// ToggleActive flips a reminder's active flag and returns the updated
// record. Inactive reminders drop out of daily views but keep their history.
func (s *Service) ToggleActive(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, !r.Active); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete hard-deletes a reminder and returns the deleted record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return r, nil
}

// MarkCompleted records that timeOfDay was acknowledged today. Marking the
// same time twice on one date is a no-op, and marking a time that has not
// arrived yet is permitted (early doses happen).
func (s *Service) MarkCompleted(ctx context.Context, id uuid.UUID, timeOfDay string) (*Reminder, error) {
	if timeOfDay == "" {
		return nil, validationErr("time", "is required")
	}
	if !validTimeOfDay(timeOfDay) {
		return nil, validationErr("time", "must be an HH:MM 24-hour value")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	now := s.localNow()
	if err := s.repo.AppendCompletion(ctx, id, now.Format(DateLayout), timeOfDay, now); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
