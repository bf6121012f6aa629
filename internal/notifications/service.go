package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"career-backend/internal/profiles"
	"career-backend/internal/shared/telemetry"
)

var (
	ErrInvalidInput = errors.New("invalid notification")
	ErrUnknownUser  = errors.New("recipient not found")
)

// UserLookup confirms a recipient exists.
type UserLookup interface {
	Get(ctx context.Context, id string) (profiles.Profile, error)
}

type Service struct {
	Repo  Repo
	Users UserLookup
	Now   func() time.Time
}

func NewService(repo Repo, users UserLookup) *Service {
	return &Service{Repo: repo, Users: users, Now: time.Now}
}

// Draft is a notification before it is stored. Type defaults to info and
// Priority to medium.
type Draft struct {
	UserID   string `json:"user_id" binding:"omitempty,max=64"`
	Title    string `json:"title" binding:"required,max=200"`
	Message  string `json:"message" binding:"required,max=2000"`
	Type     string `json:"type" binding:"omitempty,oneof=info success warning error"`
	Priority string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

func (s *Service) Create(ctx context.Context, d Draft) (Notification, error) {
	n := Notification{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(d.UserID),
		Title:     strings.TrimSpace(d.Title),
		Message:   strings.TrimSpace(d.Message),
		Type:      d.Type,
		Priority:  d.Priority,
		CreatedAt: s.now(),
	}
	if n.UserID == "" || n.Title == "" || n.Message == "" {
		return Notification{}, fmt.Errorf("%w: user_id, title and message are required", ErrInvalidInput)
	}
	if n.Type == "" {
		n.Type = TypeInfo
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	if s.Users != nil {
		if _, err := s.Users.Get(ctx, n.UserID); err != nil {
			if errors.Is(err, profiles.ErrNotFound) {
				return Notification{}, ErrUnknownUser
			}
			return Notification{}, err
		}
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return Notification{}, err
	}
	telemetry.Info("notifications.created", map[string]any{"id": n.ID, "user_id": n.UserID, "type": n.Type})
	return n, nil
}

// ForUser returns the user's most recent notifications.
func (s *Service) ForUser(ctx context.Context, userID string) ([]Notification, error) {
	return s.Repo.List(ctx, userID, userListLimit)
}

// All returns the most recent notifications across users.
func (s *Service) All(ctx context.Context) ([]Notification, error) {
	return s.Repo.List(ctx, "", allListLimit)
}

func (s *Service) Get(ctx context.Context, id string) (Notification, error) {
	return s.Repo.Get(ctx, id)
}

// MarkRead flags the notification as read. Repeating it keeps the first
// read time.
func (s *Service) MarkRead(ctx context.Context, id string) (Notification, error) {
	if err := s.Repo.MarkRead(ctx, id, s.now()); err != nil {
		return Notification{}, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
