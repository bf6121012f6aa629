package guidance

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type ConversationRepo interface {
	Append(ctx context.Context, c Conversation) error
	// ListByUser returns the user's most recent conversations, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]Conversation, error)
}

type MemoryConversations struct {
	mu    sync.RWMutex
	items map[string][]Conversation
}

func NewMemoryConversations() *MemoryConversations {
	return &MemoryConversations{items: make(map[string][]Conversation)}
}

func (r *MemoryConversations) Append(ctx context.Context, c Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c = withIdentity(c)
	r.mu.Lock()
	r.items[c.UserID] = append(r.items[c.UserID], c)
	r.mu.Unlock()
	return nil
}

func (r *MemoryConversations) ListByUser(ctx context.Context, userID string, limit int) ([]Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := append([]Conversation(nil), r.items[userID]...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit = historyLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Conversation{}
	}
	return out, nil
}

type PGConversations struct {
	DB *sql.DB
}

func (r *PGConversations) Append(ctx context.Context, c Conversation) error {
	c = withIdentity(c)
	const query = `
INSERT INTO conversations (id, user_id, message, response, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.DB.ExecContext(ctx, query, c.ID, c.UserID, c.Message, c.Response, nullable(c.Model), c.CreatedAt); err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (r *PGConversations) ListByUser(ctx context.Context, userID string, limit int) ([]Conversation, error) {
	const query = `
SELECT id, user_id, message, response, model, created_at
FROM conversations
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, historyLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	out := []Conversation{}
	for rows.Next() {
		var c Conversation
		var model sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.Message, &c.Response, &model, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.Model = model.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func withIdentity(c Conversation) Conversation {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return c
}

func historyLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	default:
		return limit
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
