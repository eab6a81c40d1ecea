package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
)

var (
	// ErrGameClosed is returned when an entry is written to, or a close is requested for, a closed game
	ErrGameClosed = errors.New("game is closed")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrGameNotFound and ErrEntryNotFound wrap repositories.ErrNotFound
	ErrGameNotFound  = fmt.Errorf("game %w", repositories.ErrNotFound)
	ErrEntryNotFound = fmt.Errorf("entry %w", repositories.ErrNotFound)
)

// GameService defines the interface for game lifecycle operations
type GameService interface {
	// CreateGame starts a new game, closing the currently active one
	CreateGame(ctx context.Context, req *models.CreateGameRequest, actor string) (*models.Game, error)

	// ListGames returns every game, newest first
	ListGames(ctx context.Context) ([]*models.Game, error)

	// GetGameView recomputes the full ledger of a game
	GetGameView(ctx context.Context, gameID string) (*models.GameView, error)

	// GetActiveGameView recomputes the ledger of the game without an end date
	GetActiveGameView(ctx context.Context) (*models.GameView, error)

	// UpdateRules edits the rule set and recomputes every entry
	UpdateRules(ctx context.Context, gameID string, req *models.GameRulesRequest, actor string) (*models.EntryMutationResponse, error)

	// CloseGame closes a game by hand
	CloseGame(ctx context.Context, gameID, actor string) (*models.GameView, error)

	// DeleteGame removes a game and all its entries
	DeleteGame(ctx context.Context, gameID, actor string) error

	// GetDeckState reports card and board availability for a shuffle (0 = current)
	GetDeckState(ctx context.Context, gameID string, shuffle int) (*models.DeckState, error)

	// ListAuditEvents pages through the write history of a game, newest first
	ListAuditEvents(ctx context.Context, gameID string, page, limit int) ([]*models.AuditEvent, error)
}

// EntryService defines the interface for drawing entry operations
type EntryService interface {
	PreviewEntry(ctx context.Context, gameID string, req *models.EntryRequest) (*models.GameView, error)
	CreateEntry(ctx context.Context, gameID string, req *models.EntryRequest, actor string) (*models.EntryMutationResponse, error)
	UpdateEntry(ctx context.Context, gameID, entryID string, req *models.EntryRequest, actor string) (*models.EntryMutationResponse, error)
	DeleteEntry(ctx context.Context, gameID, entryID, actor string) (*models.EntryMutationResponse, error)
	ImportEntries(ctx context.Context, gameID string, entries []*models.Entry, actor string, dryRun bool) (*models.GameView, error)
	ExportEntries(ctx context.Context, gameID string, w io.Writer) error
}

// AuthService defines the interface for staff authentication
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	CreateStaffUser(ctx context.Context, name, email, password, role string) (*models.StaffUser, error)
	// EnsureAdmin creates the admin account unless the email is already registered
	EnsureAdmin(ctx context.Context, email, password string) error
}
