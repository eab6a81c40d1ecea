package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ArowuTest/club-portal-backend/internal/metrics"
	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/qoh"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
	"github.com/ArowuTest/club-portal-backend/internal/utils"
)

// Compile-time check to ensure GameServiceImpl implements GameService
var _ GameService = (*GameServiceImpl)(nil)

const (
	defaultAuditPage = 50
	maxAuditPage     = 200
)

// GameServiceImpl handles game lifecycle and rule changes
type GameServiceImpl struct {
	ledger *gameLedger
	now    func() time.Time
}

// NewGameService creates a new GameServiceImpl
func NewGameService(gameRepo repositories.GameRepository, entryRepo repositories.EntryRepository, auditRepo repositories.AuditEventRepository) *GameServiceImpl {
	return &GameServiceImpl{
		ledger: newGameLedger(gameRepo, entryRepo, auditRepo),
		now:    time.Now,
	}
}

// CreateGame validates the rules, closes the active game and stores the new one
func (s *GameServiceImpl) CreateGame(ctx context.Context, req *models.CreateGameRequest, actor string) (*models.Game, error) {
	now := s.now().UTC()
	game := &models.Game{
		ID:             strings.TrimSpace(req.ID),
		Name:           strings.TrimSpace(req.Name),
		StartDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CurrentShuffle: 1,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if game.ID == "" {
		game.ID = utils.NewID()
	}
	if req.StartDate != "" {
		start, err := utils.ParseDate(req.StartDate)
		if err != nil {
			return nil, &qoh.ValidationError{Field: "startDate", Err: err}
		}
		game.StartDate = start
	}
	req.GameRulesRequest.Apply(game)
	if _, err := qoh.NewRules(game); err != nil {
		return nil, err
	}

	if _, err := s.ledger.gameRepo.FindByID(ctx, game.ID); err == nil {
		return nil, fmt.Errorf("game %s: %w", game.ID, repositories.ErrDuplicate)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		slog.Error("Failed to look up game", "error", err, "gameId", game.ID)
		return nil, fmt.Errorf("failed to look up game: %w", err)
	}

	active, err := s.ledger.gameRepo.FindActive(ctx)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		slog.Error("Failed to look up active game", "error", err)
		return nil, fmt.Errorf("failed to look up active game: %w", err)
	}

	// The new game goes in first so a failed insert leaves the active game untouched.
	if err := s.ledger.gameRepo.Create(ctx, game); err != nil {
		slog.Error("Failed to create game", "error", err, "gameId", game.ID)
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	if active != nil {
		if err := s.supersede(ctx, active.ID, now, actor); err != nil {
			if derr := s.ledger.gameRepo.Delete(ctx, game.ID); derr != nil {
				slog.Error("Failed to remove new game after close failure", "error", derr, "gameId", game.ID)
			}
			return nil, err
		}
		slog.Info("Active game closed by new game", "gameId", active.ID, "newGameId", game.ID)
	}

	s.ledger.record(ctx, models.AuditEvent{GameID: game.ID, Action: models.AuditGameCreated, Actor: actor, Detail: game.Name})
	slog.Info("Game created", "gameId", game.ID, "name", game.Name, "legacy", qoh.IsLegacyGame(game.ID), "by", actor)
	return game, nil
}

// supersede closes the previously active game because a newer one was started
func (s *GameServiceImpl) supersede(ctx context.Context, gameID string, now time.Time, actor string) error {
	defer lockGame(gameID)()

	game, err := s.ledger.loadGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !game.IsActive() {
		return nil
	}
	game.EndDate = &now
	game.ClosedReason = models.CloseReasonSuperseded
	game.ModifiedBy = actor
	if err := s.ledger.gameRepo.Update(ctx, game); err != nil {
		slog.Error("Failed to close active game", "error", err, "gameId", gameID)
		return fmt.Errorf("failed to close active game: %w", err)
	}
	metrics.RecordGameClosed(models.CloseReasonSuperseded)
	s.ledger.record(ctx, models.AuditEvent{GameID: gameID, Action: models.AuditGameClosed, Actor: actor, Detail: models.CloseReasonSuperseded})
	return nil
}

// ListGames returns every game, newest first
func (s *GameServiceImpl) ListGames(ctx context.Context) ([]*models.Game, error) {
	games, err := s.ledger.gameRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Failed to list games", "error", err)
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// GetGameView recomputes the full ledger of a game
func (s *GameServiceImpl) GetGameView(ctx context.Context, gameID string) (*models.GameView, error) {
	_, _, view, err := s.ledger.loadView(ctx, gameID)
	return view, err
}

// GetActiveGameView recomputes the ledger of the active game
func (s *GameServiceImpl) GetActiveGameView(ctx context.Context) (*models.GameView, error) {
	active, err := s.ledger.gameRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to look up active game: %w", err)
	}
	return s.GetGameView(ctx, active.ID)
}

// UpdateRules applies a new rule set. Every entry's figures depend on the rules, so the
// whole ledger is recomputed and reported as such.
func (s *GameServiceImpl) UpdateRules(ctx context.Context, gameID string, req *models.GameRulesRequest, actor string) (*models.EntryMutationResponse, error) {
	defer lockGame(gameID)()

	game, err := s.ledger.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	req.Apply(game)
	rules, err := qoh.NewRules(game)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledger.loadEntries(ctx, gameID)
	if err != nil {
		return nil, err
	}
	// Fewer resets can fold two shuffles into one and make recorded drawings collide.
	if err := qoh.CheckEntries(rules, entries); err != nil {
		slog.Warn("Rule change rejected", "gameId", gameID, "error", err)
		return nil, err
	}
	view, err := s.ledger.build(game, entries)
	if err != nil {
		return nil, err
	}

	game.ModifiedBy = actor
	if err := s.ledger.gameRepo.Update(ctx, game); err != nil {
		slog.Error("Failed to update game rules", "error", err, "gameId", gameID)
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	if err := s.ledger.syncGame(ctx, game, view, actor); err != nil {
		return nil, err
	}

	s.ledger.record(ctx, models.AuditEvent{GameID: gameID, Action: models.AuditRulesUpdated, Actor: actor, RecomputedEntries: len(entries)})
	slog.Info("Game rules updated", "gameId", gameID, "recomputedEntries", len(entries), "by", actor)
	return &models.EntryMutationResponse{
		View:              view,
		RecomputedEntries: len(entries),
		Warning:           recomputeWarning(len(entries)),
	}, nil
}

// CloseGame closes an active game and records the jackpot standing at that moment as paid
func (s *GameServiceImpl) CloseGame(ctx context.Context, gameID, actor string) (*models.GameView, error) {
	defer lockGame(gameID)()

	game, _, view, err := s.ledger.loadView(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsActive() {
		return nil, ErrGameClosed
	}

	now := s.now().UTC()
	game.EndDate = &now
	game.TotalJackpotPaid = view.Totals.TotalJackpot
	game.ClosedReason = models.CloseReasonManual
	game.ModifiedBy = actor
	if err := s.ledger.gameRepo.Update(ctx, game); err != nil {
		slog.Error("Failed to close game", "error", err, "gameId", gameID)
		return nil, fmt.Errorf("failed to close game: %w", err)
	}
	metrics.RecordGameClosed(models.CloseReasonManual)
	s.ledger.record(ctx, models.AuditEvent{GameID: gameID, Action: models.AuditGameClosed, Actor: actor, Detail: models.CloseReasonManual})
	slog.Info("Game closed", "gameId", gameID, "jackpotPaid", game.TotalJackpotPaid, "by", actor)

	view.Game = *game
	view.IsComplete = true
	return view, nil
}

// DeleteGame removes a game and all its entries
func (s *GameServiceImpl) DeleteGame(ctx context.Context, gameID, actor string) error {
	defer lockGame(gameID)()

	if _, err := s.ledger.loadGame(ctx, gameID); err != nil {
		return err
	}
	deleted, err := s.ledger.entryRepo.DeleteByGameID(ctx, gameID)
	if err != nil {
		slog.Error("Failed to delete game entries", "error", err, "gameId", gameID)
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	if err := s.ledger.gameRepo.Delete(ctx, gameID); err != nil {
		slog.Error("Failed to delete game", "error", err, "gameId", gameID)
		return fmt.Errorf("failed to delete game: %w", err)
	}
	metrics.RecordEntryWrite("delete", int(deleted))
	s.ledger.record(ctx, models.AuditEvent{GameID: gameID, Action: models.AuditGameDeleted, Actor: actor, Detail: fmt.Sprintf("%d entries deleted", deleted)})
	slog.Info("Game deleted", "gameId", gameID, "entriesDeleted", deleted, "by", actor)
	return nil
}

// GetDeckState reports card and board availability for a shuffle (0 = current)
func (s *GameServiceImpl) GetDeckState(ctx context.Context, gameID string, shuffle int) (*models.DeckState, error) {
	game, err := s.ledger.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledger.loadEntries(ctx, gameID)
	if err != nil {
		return nil, err
	}
	state, err := qoh.DeckStateFor(*game, entries, shuffle)
	if err != nil {
		return nil, err
	}
	if shuffle < 0 || state.Shuffle > state.CurrentShuffle {
		return nil, &qoh.ValidationError{Field: "shuffle", Err: qoh.ErrShuffleOutOfRange}
	}
	return &state, nil
}

// ListAuditEvents pages through the write history of a game, newest first
func (s *GameServiceImpl) ListAuditEvents(ctx context.Context, gameID string, page, limit int) ([]*models.AuditEvent, error) {
	if s.ledger.auditRepo == nil {
		return []*models.AuditEvent{}, nil
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxAuditPage {
		limit = defaultAuditPage
	}
	events, err := s.ledger.auditRepo.FindByGameID(ctx, gameID, page, limit)
	if err != nil {
		slog.Error("Failed to list audit events", "error", err, "gameId", gameID)
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, nil
}
