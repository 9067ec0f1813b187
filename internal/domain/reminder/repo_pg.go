package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by PostgreSQL. Completions live in a
// child table with a unique (reminder_id, completed_on, scheduled_time) key,
// so marking is a conditional insert rather than a read-modify-write of the
// whole record.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const reminderCols = `id, patient_id, source_kind, prescription_id, label,
	scheduled_times, frequency, start_date, end_date, active, notes, category,
	created_at, updated_at`

func scanReminder(row pgx.Row) (*Reminder, error) {
	var r Reminder
	var kind string
	var prescriptionID *uuid.UUID
	err := row.Scan(&r.ID, &r.PatientID, &kind, &prescriptionID, &r.Label,
		&r.ScheduledTimes, &r.Frequency, &r.StartDate, &r.EndDate, &r.Active,
		&r.Notes, &r.Category, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r.Source = Source{Kind: SourceKind(kind), PrescriptionID: prescriptionID}
	return &r, nil
}

func (p *repoPG) Create(ctx context.Context, r *Reminder) error {
	r.ID = uuid.New()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO reminder (id, patient_id, source_kind, prescription_id, label,
			scheduled_times, frequency, start_date, end_date, active, notes, category)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.ID, r.PatientID, string(r.Source.Kind), r.Source.PrescriptionID, r.Label,
		r.ScheduledTimes, string(r.Frequency), r.StartDate, r.EndDate, r.Active,
		r.Notes, string(r.Category))
	return err
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	r, err := scanReminder(p.pool.QueryRow(ctx,
		`SELECT `+reminderCols+` FROM reminder WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	logs, err := p.loadCompletions(ctx, id)
	if err != nil {
		return nil, err
	}
	r.CompletionLog = logs[id]
	return r, nil
}

func (p *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*Reminder, error) {
	query := `SELECT ` + reminderCols + ` FROM reminder WHERE patient_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Reminder
	var ids []uuid.UUID
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
		ids = append(ids, r.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	logs, err := p.loadCompletions(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, r := range items {
		r.CompletionLog = logs[r.ID]
	}
	return items, nil
}

// loadCompletions fetches completion rows for the given reminders and folds
// them into per-date entries, preserving completion insertion order.
func (p *repoPG) loadCompletions(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID][]CompletionEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT reminder_id, completed_on, scheduled_time, completed_at
		FROM reminder_completion
		WHERE reminder_id = ANY($1)
		ORDER BY completed_at`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make(map[uuid.UUID][]CompletionEntry)
	for rows.Next() {
		var reminderID uuid.UUID
		var completedOn time.Time
		var ct CompletionTime
		if err := rows.Scan(&reminderID, &completedOn, &ct.Time, &ct.CompletedAt); err != nil {
			return nil, err
		}
		date := completedOn.Format(DateLayout)

		entries := logs[reminderID]
		found := false
		for i := range entries {
			if entries[i].Date == date {
				entries[i].Times = append(entries[i].Times, ct)
				found = true
				break
			}
		}
		if !found {
			entries = append(entries, CompletionEntry{Date: date, Times: []CompletionTime{ct}})
		}
		logs[reminderID] = entries
	}
	return logs, rows.Err()
}

func (p *repoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE reminder SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM reminder WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) AppendCompletion(ctx context.Context, id uuid.UUID, date, timeOfDay string, completedAt time.Time) error {
	// ON CONFLICT DO NOTHING keeps marking idempotent under concurrent calls
	// for the same reminder, date, and time.
	_, err := p.pool.Exec(ctx, `
		INSERT INTO reminder_completion (id, reminder_id, completed_on, scheduled_time, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (reminder_id, completed_on, scheduled_time) DO NOTHING`,
		uuid.New(), id, date, timeOfDay, completedAt)
	return err
}
