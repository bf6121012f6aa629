// Package health reports process readiness: database reachability and
// whether the generation service is usable.
package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"career-backend/internal/shared/server/respond"
	"career-backend/internal/shared/storage/db"
	"career-backend/internal/shared/telemetry"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	pingTimeout = 2 * time.Second
)

// GenerationStatus is the part of the generation client health reads.
type GenerationStatus interface {
	Available() bool
	CurrentModel() string
}

// Report is the health payload.
type Report struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Generation string `json:"generation"`
	Model      string `json:"model,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type Service struct {
	DB         *sql.DB
	Generation GenerationStatus
	Now        func() time.Time
}

func NewService(database *sql.DB, gen GenerationStatus) *Service {
	return &Service{DB: database, Generation: gen, Now: time.Now}
}

// Check builds a report. Without a configured database the memory
// repositories are in use and the database is reported as "memory".
func (s *Service) Check(ctx context.Context) Report {
	r := Report{
		Status:     StatusHealthy,
		Database:   "memory",
		Generation: "unavailable",
		Timestamp:  respond.Timestamp(s.Now()),
	}
	if s.DB != nil {
		if err := db.Ping(ctx, s.DB, pingTimeout); err != nil {
			telemetry.Warn("health.db_ping_failed", map[string]any{"error": err})
			r.Database = "unreachable"
			r.Status = StatusDegraded
		} else {
			r.Database = "connected"
		}
	}
	if s.Generation != nil && s.Generation.Available() {
		r.Generation = "available"
		r.Model = s.Generation.CurrentModel()
	}
	return r
}

func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", s.handle)
}

// handle always answers 200 so the fallback paths stay routable when the
// database is down; the body carries the degraded status.
func (s *Service) handle(c *gin.Context) {
	respond.OK(c, s.Check(c.Request.Context()))
}

