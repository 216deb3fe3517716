package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// sqliteGrievanceRepository backs the store with a single-file SQLite
// database. The pool is capped at one connection, so every transaction
// holds the database for the whole read-modify-append.
type sqliteGrievanceRepository struct {
	db *sql.DB
}

// NewSQLiteGrievanceRepository returns a SQLite-backed store.
func NewSQLiteGrievanceRepository(db *sql.DB) GrievanceRepository {
	return &sqliteGrievanceRepository{db: db}
}

func (r *sqliteGrievanceRepository) Create(ctx context.Context, g *domain.Grievance) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
        INSERT INTO grievances (id, student_id, student_email, student_dept, category, description, status, forwarded_to, created_at)
        VALUES ('', ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.StudentID,
		g.StudentEmail,
		g.StudentDept,
		g.Category,
		g.Description,
		string(g.Status),
		g.ForwardedTo,
		g.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = fmt.Sprintf("G-%d", seq)
	if _, err := tx.ExecContext(ctx, `UPDATE grievances SET id=? WHERE seq=?`, g.ID, seq); err != nil {
		return err
	}
	if err := sqliteInsertHistory(ctx, tx, g.ID, g.History); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqliteGrievanceRepository) GetByID(ctx context.Context, id string) (*domain.Grievance, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, student_id, student_email, student_dept, category, description, status, forwarded_to, created_at
        FROM grievances WHERE id=?`, id)
	g, err := sqliteScanGrievance(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("grievance", map[string]any{"id": id})
		}
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT action, forwarded_to, remarks, created_at
        FROM grievance_history WHERE grievance_id=? ORDER BY seq ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	g.History, err = sqliteScanHistory(rows)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *sqliteGrievanceRepository) List(ctx context.Context) ([]domain.Grievance, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, student_id, student_email, student_dept, category, description, status, forwarded_to, created_at
        FROM grievances ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Grievance
	index := map[string]int{}
	for rows.Next() {
		g, err := sqliteScanGrievance(rows.Scan)
		if err != nil {
			return nil, err
		}
		index[g.ID] = len(result)
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	historyRows, err := r.db.QueryContext(ctx, `
        SELECT grievance_id, action, forwarded_to, remarks, created_at
        FROM grievance_history ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer historyRows.Close()
	for historyRows.Next() {
		var grievanceID, action, createdAt string
		var forwardedTo, remarks sql.NullString
		if err := historyRows.Scan(&grievanceID, &action, &forwardedTo, &remarks, &createdAt); err != nil {
			return nil, err
		}
		entry, err := sqliteHistoryEntry(action, forwardedTo, remarks, createdAt)
		if err != nil {
			return nil, err
		}
		if i, ok := index[grievanceID]; ok {
			result[i].History = append(result[i].History, entry)
		}
	}
	return result, historyRows.Err()
}

func (r *sqliteGrievanceRepository) ApplyTransition(ctx context.Context, id string, mutate func(domain.Grievance) (domain.Grievance, error)) (*domain.Grievance, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx, `
        SELECT id, student_id, student_email, student_dept, category, description, status, forwarded_to, created_at
        FROM grievances WHERE id=?`, id)
	current, err := sqliteScanGrievance(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("grievance", map[string]any{"id": id})
		}
		return nil, err
	}
	historyQuery, err := tx.QueryContext(ctx, `
        SELECT action, forwarded_to, remarks, created_at
        FROM grievance_history WHERE grievance_id=? ORDER BY seq ASC`, id)
	if err != nil {
		return nil, err
	}
	current.History, err = sqliteScanHistory(historyQuery)
	historyQuery.Close()
	if err != nil {
		return nil, err
	}

	next, err := mutate(*current)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE grievances SET status=?, forwarded_to=? WHERE id=?`,
		string(next.Status), next.ForwardedTo, id); err != nil {
		return nil, err
	}
	if len(next.History) > len(current.History) {
		if err := sqliteInsertHistory(ctx, tx, id, next.History[len(current.History):]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &next, nil
}

func sqliteInsertHistory(ctx context.Context, tx *sql.Tx, grievanceID string, entries []domain.HistoryEntry) error {
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO grievance_history (id, grievance_id, action, forwarded_to, remarks, created_at)
            VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(),
			grievanceID,
			string(entry.Action),
			entry.ForwardedTo,
			entry.Remarks,
			entry.Date.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return err
		}
	}
	return nil
}

func sqliteScanGrievance(scan func(dest ...any) error) (*domain.Grievance, error) {
	var g domain.Grievance
	var status, createdAt string
	var forwardedTo sql.NullString
	if err := scan(
		&g.ID,
		&g.StudentID,
		&g.StudentEmail,
		&g.StudentDept,
		&g.Category,
		&g.Description,
		&status,
		&forwardedTo,
		&createdAt,
	); err != nil {
		return nil, err
	}
	g.Status = domain.GrievanceStatus(status)
	if forwardedTo.Valid {
		v := forwardedTo.String
		g.ForwardedTo = &v
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, err
	}
	g.CreatedAt = ts
	return &g, nil
}

func sqliteScanHistory(rows *sql.Rows) ([]domain.HistoryEntry, error) {
	var result []domain.HistoryEntry
	for rows.Next() {
		var action, createdAt string
		var forwardedTo, remarks sql.NullString
		if err := rows.Scan(&action, &forwardedTo, &remarks, &createdAt); err != nil {
			return nil, err
		}
		entry, err := sqliteHistoryEntry(action, forwardedTo, remarks, createdAt)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func sqliteHistoryEntry(action string, forwardedTo, remarks sql.NullString, createdAt string) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{Action: domain.HistoryAction(action)}
	if forwardedTo.Valid {
		v := forwardedTo.String
		entry.ForwardedTo = &v
	}
	if remarks.Valid {
		v := remarks.String
		entry.Remarks = &v
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	entry.Date = ts
	return entry, nil
}

// sqliteUserRepository stores accounts in the same SQLite database.
type sqliteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository returns a SQLite-backed account store.
func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO users (id, name, email, student_id, course, department, role, password_hash, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.StudentID,
		user.Course,
		user.Department,
		string(user.Role),
		user.PasswordHash,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return apperrors.NewConflict("account already registered", map[string]any{"email": user.Email})
	}
	return err
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `
        SELECT id, name, email, student_id, course, department, role, password_hash, created_at, updated_at
        FROM users WHERE id=?`, id)
}

func (r *sqliteUserRepository) GetByLogin(ctx context.Context, loginID string) (*domain.User, error) {
	return r.fetchSingle(ctx, `
        SELECT id, name, email, student_id, course, department, role, password_hash, created_at, updated_at
        FROM users WHERE LOWER(email)=LOWER(?) OR student_id=?`, loginID, loginID)
}

func (r *sqliteUserRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	var role, createdAt, updatedAt string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.StudentID,
		&user.Course,
		&user.Department,
		&role,
		&user.PasswordHash,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	user.Role = domain.Role(role)
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		user.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		user.UpdatedAt = ts
	}
	return &user, nil
}
