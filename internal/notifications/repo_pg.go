package notifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const columns = `id, user_id, title, message, type, priority, is_read, read_at, created_at`

func (r *PGRepo) Create(ctx context.Context, n Notification) error {
	query := `INSERT INTO notifications (` + columns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.Priority, n.IsRead, n.ReadAt, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (Notification, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+columns+` FROM notifications WHERE id = $1`, id)
	n, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Notification{}, ErrNotFound
	}
	return n, err
}

func (r *PGRepo) List(ctx context.Context, userID string, limit int) ([]Notification, error) {
	query := `SELECT ` + columns + ` FROM notifications`
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		n, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	const query = `
UPDATE notifications
SET is_read = TRUE, read_at = COALESCE(read_at, $2)
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, at.UTC())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return oneRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return oneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Notification, error) {
	var n Notification
	var readAt sql.NullTime
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Priority, &n.IsRead, &readAt, &n.CreatedAt); err != nil {
		return Notification{}, err
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return n, nil
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
