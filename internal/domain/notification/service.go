package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// FeedLimit caps how many entries a feed read returns. Older entries stay in
// storage but are not surfaced.
const FeedLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, recipientID uuid.UUID, typ Type, message string, relatedID *uuid.UUID) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, fmt.Errorf("recipient_id is required")
	}
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	n := &Notification{
		RecipientID: recipientID,
		Type:        typ,
		Message:     message,
		RelatedID:   relatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// PrescriptionCreated writes a feed entry telling the patient a new
// prescription was issued. It satisfies the prescription service's Announcer.
func (s *Service) PrescriptionCreated(ctx context.Context, patientID, prescriptionID uuid.UUID, medication string) error {
	_, err := s.Create(ctx, patientID, TypePrescription,
		fmt.Sprintf("New prescription: %s", medication), &prescriptionID)
	return err
}

func (s *Service) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, FeedLimit)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *Service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}
