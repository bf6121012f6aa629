package profiles

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("profile not found")

type Repo interface {
	Get(ctx context.Context, id string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	Upsert(ctx context.Context, p Profile) error
	// List returns up to limit profiles, newest first.
	List(ctx context.Context, limit int) ([]Profile, error)
	Delete(ctx context.Context, id string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	// Stats counts profiles, those signed in at or after activeSince, and
	// profiles per role.
	Stats(ctx context.Context, activeSince time.Time) (Stats, error)
}

// Stats summarizes the profile table.
type Stats struct {
	Total  int
	Active int
	Roles  map[string]int
}

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

func listLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
