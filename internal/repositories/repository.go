package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/club-portal-backend/internal/models"
)

var (
	// ErrNotFound is returned by every repository when the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a record with the same key already exists
	ErrDuplicate = errors.New("record already exists")
)

// GameRepository defines the interface for game data operations
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	FindByID(ctx context.Context, id string) (*models.Game, error)
	FindActive(ctx context.Context) (*models.Game, error) // the game without an end date, ErrNotFound if none
	FindAll(ctx context.Context) ([]*models.Game, error)  // newest start date first
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id string) error
}

// EntryRepository defines the interface for drawing entry operations.
// Entries come back unordered; ordering is the engine's job.
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	CreateMany(ctx context.Context, entries []*models.Entry) error
	FindByID(ctx context.Context, id string) (*models.Entry, error)
	FindByGameID(ctx context.Context, gameID string) ([]*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id string) error
	DeleteByGameID(ctx context.Context, gameID string) (int64, error)
}

// StaffUserRepository defines the interface for staff account operations
type StaffUserRepository interface {
	Create(ctx context.Context, user *models.StaffUser) error
	FindByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	FindByID(ctx context.Context, id string) (*models.StaffUser, error)
	Count(ctx context.Context) (int64, error)
}

// AuditEventRepository stores the write history of games
type AuditEventRepository interface {
	Create(ctx context.Context, event *models.AuditEvent) error
	// FindByGameID pages through a game's events, newest first; page is 1-based
	FindByGameID(ctx context.Context, gameID string, page, limit int) ([]*models.AuditEvent, error)
}
