package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"memoapi/internal/model"
	"memoapi/internal/repository"
)

const memoColumns = `id, title, description, date_to, completed, created_at, updated_at`

// MemoPostgres is a PostgreSQL implementation of repository.MemoRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type MemoPostgres struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewMemoPostgres creates a new MemoPostgres repository.
// A nil clock means the wall clock.
func NewMemoPostgres(db *sql.DB, clock clockwork.Clock) *MemoPostgres {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoPostgres{db: db, clock: clock}
}

var _ repository.MemoRepository = (*MemoPostgres)(nil)

// now is truncated to the column precision so the returned row matches what was written.
func (r *MemoPostgres) now() time.Time {
	return r.clock.Now().UTC().Truncate(time.Microsecond)
}

// Create inserts a new memo row and returns the stored record.
func (r *MemoPostgres) Create(ctx context.Context, in repository.CreateMemo) (*model.Memo, error) {
	const q = `
		INSERT INTO memos (id, title, description, date_to, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $5)
		RETURNING ` + memoColumns

	row := r.db.QueryRowContext(ctx, q,
		uuid.New(),
		in.Title,
		in.Description,
		in.DateTo,
		r.now(),
	)
	m, err := scanMemo(row)
	if err != nil {
		return nil, fmt.Errorf("insert memo: %w", err)
	}
	return m, nil
}

// FindByID fetches a single memo by its ID. A missing row yields (nil, nil).
func (r *MemoPostgres) FindByID(ctx context.Context, id uuid.UUID) (*model.Memo, error) {
	const q = `SELECT ` + memoColumns + ` FROM memos WHERE id = $1`

	m, err := scanMemo(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select memo: %w", err)
	}
	return m, nil
}

// FindAll counts the rows matching the filter, then returns the requested
// ordered LIMIT/OFFSET window of them.
func (r *MemoPostgres) FindAll(ctx context.Context, lq repository.ListQuery) (*repository.PageResult[model.Memo], error) {
	where, args := buildFilter(lq)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memos`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count memos: %w", err)
	}

	dir := lq.Order.SQL()
	qList := fmt.Sprintf(`SELECT %s FROM memos%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		memoColumns, where, lq.SortBy.Column(), dir, dir, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, qList, append(args, lq.Limit, lq.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	defer rows.Close()

	items := make([]model.Memo, 0)
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan memo: %w", err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}

	return &repository.PageResult[model.Memo]{
		Items: items,
		Total: total,
	}, nil
}

// Update replaces the mutable fields of a memo in a single statement.
// updated_at never moves backwards, even with a skewed clock.
func (r *MemoPostgres) Update(ctx context.Context, id uuid.UUID, in repository.UpdateMemo) (*model.Memo, error) {
	const q = `
		UPDATE memos
		SET title = $2, description = $3, date_to = $4, completed = $5,
		    updated_at = GREATEST($6::timestamptz, updated_at)
		WHERE id = $1
		RETURNING ` + memoColumns

	row := r.db.QueryRowContext(ctx, q,
		id,
		in.Title,
		in.Description,
		in.DateTo,
		in.Completed,
		r.now(),
	)
	m, err := scanMemo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update memo: %w", err)
	}
	return m, nil
}

// Delete removes a memo by ID and reports whether it existed.
func (r *MemoPostgres) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM memos WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("delete memo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete memo: %w", err)
	}
	return n > 0, nil
}

func buildFilter(lq repository.ListQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if lq.Completed != nil {
		args = append(args, *lq.Completed)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(s rowScanner) (*model.Memo, error) {
	var (
		m    model.Memo
		desc sql.NullString
	)
	if err := s.Scan(
		&m.ID,
		&m.Title,
		&desc,
		&m.DateTo,
		&m.Completed,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if desc.Valid {
		m.Description = &desc.String
	}
	return &m, nil
}
