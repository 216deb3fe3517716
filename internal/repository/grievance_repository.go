package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// GrievanceRepository is the ticket store: an insertion-ordered collection
// with atomic transition support. Create assigns the G-<seq> id and
// persists the seeded history; ApplyTransition runs mutate inside one
// atomic read-modify-append so no interleaved writer can observe a partial
// transition on the same id.
type GrievanceRepository interface {
	Create(ctx context.Context, g *domain.Grievance) error
	GetByID(ctx context.Context, id string) (*domain.Grievance, error)
	List(ctx context.Context) ([]domain.Grievance, error)
	ApplyTransition(ctx context.Context, id string, mutate func(domain.Grievance) (domain.Grievance, error)) (*domain.Grievance, error)
}

type grievanceRepository struct {
	pool *pgxpool.Pool
}

// NewGrievanceRepository instantiates the postgres-backed store.
func NewGrievanceRepository(pool *pgxpool.Pool) GrievanceRepository {
	return &grievanceRepository{pool: pool}
}

func (r *grievanceRepository) Create(ctx context.Context, g *domain.Grievance) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// One nextval feeds both seq and id; postgres does not guarantee
	// evaluation order between expressions in the same VALUES list.
	const query = `
        WITH next AS (SELECT nextval('grievance_seq') AS seq)
        INSERT INTO grievances (seq, id, student_id, student_email, student_dept, category, description, status, forwarded_to, created_at)
        SELECT next.seq, 'G-' || next.seq, $1, $2, $3, $4, $5, $6, $7, $8 FROM next
        RETURNING id`
	if err := tx.QueryRow(ctx, query,
		g.StudentID,
		g.StudentEmail,
		g.StudentDept,
		g.Category,
		g.Description,
		g.Status,
		g.ForwardedTo,
		g.CreatedAt,
	).Scan(&g.ID); err != nil {
		return err
	}

	if err := insertHistory(ctx, tx, g.ID, g.History); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *grievanceRepository) GetByID(ctx context.Context, id string) (*domain.Grievance, error) {
	const query = `
        SELECT id, student_id, student_email, student_dept, category, description, status, forwarded_to, created_at
        FROM grievances WHERE id=$1`
	g, err := scanGrievance(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("grievance", map[string]any{"id": id})
		}
		return nil, err
	}
	history, err := r.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	g.History = history
	return g, nil
}

func (r *grievanceRepository) List(ctx context.Context) ([]domain.Grievance, error) {
	const query = `
        SELECT id, student_id, student_email, student_dept, category, description, status, forwarded_to, created_at
        FROM grievances ORDER BY seq DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Grievance
	index := map[string]int{}
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		index[g.ID] = len(result)
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const historyQuery = `
        SELECT grievance_id, action, forwarded_to, remarks, created_at
        FROM grievance_history ORDER BY seq ASC`
	historyRows, err := r.pool.Query(ctx, historyQuery)
	if err != nil {
		return nil, err
	}
	defer historyRows.Close()
	for historyRows.Next() {
		var grievanceID string
		var entry domain.HistoryEntry
		if err := historyRows.Scan(&grievanceID, &entry.Action, &entry.ForwardedTo, &entry.Remarks, &entry.Date); err != nil {
			return nil, err
		}
		if i, ok := index[grievanceID]; ok {
			result[i].History = append(result[i].History, entry)
		}
	}
	return result, historyRows.Err()
}

func (r *grievanceRepository) ApplyTransition(ctx context.Context, id string, mutate func(domain.Grievance) (domain.Grievance, error)) (*domain.Grievance, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        SELECT id, student_id, student_email, student_dept, category, description, status, forwarded_to, created_at
        FROM grievances WHERE id=$1 FOR UPDATE`
	current, err := scanGrievance(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("grievance", map[string]any{"id": id})
		}
		return nil, err
	}
	history, err := loadHistoryTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	current.History = history

	next, err := mutate(*current)
	if err != nil {
		return nil, err
	}

	const update = `UPDATE grievances SET status=$1, forwarded_to=$2, updated_at=NOW() WHERE id=$3`
	if _, err := tx.Exec(ctx, update, next.Status, next.ForwardedTo, id); err != nil {
		return nil, err
	}
	if len(next.History) > len(current.History) {
		if err := insertHistory(ctx, tx, id, next.History[len(current.History):]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &next, nil
}

func (r *grievanceRepository) loadHistory(ctx context.Context, id string) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT action, forwarded_to, remarks, created_at
        FROM grievance_history WHERE grievance_id=$1 ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

func loadHistoryTx(ctx context.Context, tx pgx.Tx, id string) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT action, forwarded_to, remarks, created_at
        FROM grievance_history WHERE grievance_id=$1 ORDER BY seq ASC`
	rows, err := tx.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

func insertHistory(ctx context.Context, tx pgx.Tx, grievanceID string, entries []domain.HistoryEntry) error {
	const query = `
        INSERT INTO grievance_history (id, grievance_id, action, forwarded_to, remarks, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for _, entry := range entries {
		if _, err := tx.Exec(ctx, query,
			uuid.NewString(),
			grievanceID,
			entry.Action,
			entry.ForwardedTo,
			entry.Remarks,
			entry.Date,
		); err != nil {
			return err
		}
	}
	return nil
}

func scanGrievance(row pgx.Row) (*domain.Grievance, error) {
	var g domain.Grievance
	if err := row.Scan(
		&g.ID,
		&g.StudentID,
		&g.StudentEmail,
		&g.StudentDept,
		&g.Category,
		&g.Description,
		&g.Status,
		&g.ForwardedTo,
		&g.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

func scanHistory(rows pgx.Rows) ([]domain.HistoryEntry, error) {
	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.Action, &entry.ForwardedTo, &entry.Remarks, &entry.Date); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
