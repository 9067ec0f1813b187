package prescription

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Announcer is notified when a new prescription is written, so the patient
// can see it in their notification feed. Failures are logged and swallowed:
// a missed notification never fails the prescription write.
type Announcer interface {
	PrescriptionCreated(ctx context.Context, patientID, prescriptionID uuid.UUID, medication string) error
}

// Draft is the caller-supplied input to Create.
type Draft struct {
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	Medication   string
	Dosage       string
	Frequency    string
	Duration     string
	Instructions string
}

type Service struct {
	repo      Repository
	announcer Announcer
	log       zerolog.Logger
}

func NewService(repo Repository, announcer Announcer, log zerolog.Logger) *Service {
	return &Service{repo: repo, announcer: announcer, log: log}
}

func (s *Service) Create(ctx context.Context, d Draft) (*Prescription, error) {
	if d.PatientID == uuid.Nil {
		return nil, validationErr("patient_id", "is required")
	}
	if d.DoctorID == uuid.Nil {
		return nil, validationErr("doctor_id", "is required")
	}
	if d.Medication == "" {
		return nil, validationErr("medication", "is required")
	}
	if d.Dosage == "" {
		return nil, validationErr("dosage", "is required")
	}

	p := &Prescription{
		PatientID:    d.PatientID,
		DoctorID:     d.DoctorID,
		Medication:   d.Medication,
		Dosage:       d.Dosage,
		Frequency:    d.Frequency,
		Duration:     d.Duration,
		Instructions: d.Instructions,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.announcer != nil {
		if err := s.announcer.PrescriptionCreated(ctx, p.PatientID, p.ID, p.Medication); err != nil {
			s.log.Warn().Err(err).
				Str("prescription_id", p.ID.String()).
				Msg("prescription notification failed")
		}
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

// Owner resolves which patient a prescription belongs to. It backs the
// reminder service's ownership check during reminder creation.
func (s *Service) Owner(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return p.PatientID, true, nil
}
