package notification

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Notification
	seq   int
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Notification)}
}

func (m *mockRepo) Create(_ context.Context, n *Notification) error {
	n.ID = uuid.New()
	m.seq++
	n.CreatedAt = time.Unix(int64(m.seq), 0)
	cp := *n
	m.items[n.ID] = &cp
	return nil
}

func (m *mockRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, limit int) ([]*Notification, error) {
	var out []*Notification
	for _, n := range m.items {
		if n.RecipientID == recipientID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	n, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	return nil
}

func (m *mockRepo) MarkAllRead(_ context.Context, recipientID uuid.UUID) error {
	for _, n := range m.items {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (m *mockRepo) UnreadCount(_ context.Context, recipientID uuid.UUID) (int, error) {
	count := 0
	for _, n := range m.items {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Create(context.Background(), uuid.Nil, TypeSystem, "hi", nil); err == nil {
		t.Error("missing recipient accepted")
	}
	if _, err := svc.Create(context.Background(), uuid.New(), TypeSystem, "", nil); err == nil {
		t.Error("empty message accepted")
	}
}

func TestPrescriptionCreatedWritesFeedEntry(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	patientID := uuid.New()
	rxID := uuid.New()

	if err := svc.PrescriptionCreated(context.Background(), patientID, rxID, "Metformin"); err != nil {
		t.Fatal(err)
	}

	items, err := svc.ListByRecipient(context.Background(), patientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("feed has %d entries, want 1", len(items))
	}
	n := items[0]
	if n.Type != TypePrescription || n.RelatedID == nil || *n.RelatedID != rxID {
		t.Errorf("entry = %+v", n)
	}
	if n.Read {
		t.Error("new entry should be unread")
	}
}

func TestFeedLimit(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	recipientID := uuid.New()

	for i := 0; i < FeedLimit+10; i++ {
		if _, err := svc.Create(context.Background(), recipientID, TypeSystem, "entry", nil); err != nil {
			t.Fatal(err)
		}
	}

	items, err := svc.ListByRecipient(context.Background(), recipientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != FeedLimit {
		t.Errorf("feed has %d entries, want %d", len(items), FeedLimit)
	}
}

func TestMarkReadAndCounts(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	recipientID := uuid.New()

	first, _ := svc.Create(context.Background(), recipientID, TypeSystem, "one", nil)
	svc.Create(context.Background(), recipientID, TypeSystem, "two", nil)

	count, err := svc.UnreadCount(context.Background(), recipientID)
	if err != nil || count != 2 {
		t.Fatalf("unread = %d err = %v, want 2", count, err)
	}

	if err := svc.MarkRead(context.Background(), first.ID); err != nil {
		t.Fatal(err)
	}
	count, _ = svc.UnreadCount(context.Background(), recipientID)
	if count != 1 {
		t.Errorf("unread after MarkRead = %d, want 1", count)
	}

	if err := svc.MarkRead(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}

	if err := svc.MarkAllRead(context.Background(), recipientID); err != nil {
		t.Fatal(err)
	}
	count, _ = svc.UnreadCount(context.Background(), recipientID)
	if count != 0 {
		t.Errorf("unread after MarkAllRead = %d, want 0", count)
	}
}
