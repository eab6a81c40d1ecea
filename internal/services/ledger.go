package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ArowuTest/club-portal-backend/internal/metrics"
	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/qoh"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
	"github.com/ArowuTest/club-portal-backend/internal/utils"
)

// gameLocks holds one mutex per game id. Every write validates against a snapshot of the
// game's entries, so writes to the same game run one at a time whichever service makes them.
var gameLocks sync.Map

func lockGame(gameID string) (unlock func()) {
	v, _ := gameLocks.LoadOrStore(gameID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// gameLedger loads a game with its entries and keeps the derived game fields in step with
// the engine output. Both game and entry services write through it.
type gameLedger struct {
	gameRepo  repositories.GameRepository
	entryRepo repositories.EntryRepository
	auditRepo repositories.AuditEventRepository // optional
}

func newGameLedger(gameRepo repositories.GameRepository, entryRepo repositories.EntryRepository, auditRepo repositories.AuditEventRepository) *gameLedger {
	return &gameLedger{gameRepo: gameRepo, entryRepo: entryRepo, auditRepo: auditRepo}
}

// record appends an audit event. A failed audit write is logged; the change it describes stands.
func (l *gameLedger) record(ctx context.Context, event models.AuditEvent) {
	if l.auditRepo == nil {
		return
	}
	event.ID = utils.NewID()
	if err := l.auditRepo.Create(ctx, &event); err != nil {
		slog.Error("Failed to record audit event", "error", err, "action", event.Action, "gameId", event.GameID)
	}
}

func (l *gameLedger) loadGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := l.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		slog.Error("Failed to load game", "error", err, "gameId", gameID)
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	return game, nil
}

func (l *gameLedger) loadEntries(ctx context.Context, gameID string) ([]models.Entry, error) {
	stored, err := l.entryRepo.FindByGameID(ctx, gameID)
	if err != nil {
		slog.Error("Failed to load entries", "error", err, "gameId", gameID)
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	entries := make([]models.Entry, 0, len(stored))
	for _, e := range stored {
		entries = append(entries, *e)
	}
	return entries, nil
}

// build recomputes the full view; there is no incremental path.
func (l *gameLedger) build(game *models.Game, entries []models.Entry) (*models.GameView, error) {
	start := time.Now()
	view, err := qoh.BuildGameView(*game, entries)
	if err != nil {
		return nil, err
	}
	metrics.ObserveRebuild(time.Since(start), len(entries))
	return &view, nil
}

func (l *gameLedger) loadView(ctx context.Context, gameID string) (*models.Game, []models.Entry, *models.GameView, error) {
	game, err := l.loadGame(ctx, gameID)
	if err != nil {
		return nil, nil, nil, err
	}
	entries, err := l.loadEntries(ctx, gameID)
	if err != nil {
		return nil, nil, nil, err
	}
	view, err := l.build(game, entries)
	if err != nil {
		return nil, nil, nil, err
	}
	return game, entries, view, nil
}

// syncGame copies the state the engine derives (entry shuffles, current shuffle, queen
// close) back onto the stored records and persists whatever changed. The view is patched
// to match.
func (l *gameLedger) syncGame(ctx context.Context, game *models.Game, view *models.GameView, actor string) error {
	moved := 0
	for i := range view.Entries {
		e := &view.Entries[i]
		if e.Shuffle == e.EffectiveShuffle {
			continue
		}
		e.Shuffle = e.EffectiveShuffle
		if err := l.entryRepo.Update(ctx, &e.Entry); err != nil {
			slog.Error("Failed to renumber entry shuffle", "error", err, "entryId", e.ID)
			return fmt.Errorf("failed to update entry shuffle: %w", err)
		}
		moved++
	}
	if moved > 0 {
		slog.Info("Entries moved to the shuffle in force at their draw date", "gameId", game.ID, "entries", moved)
	}

	changed := false
	if game.CurrentShuffle != view.CurrentShuffle {
		game.CurrentShuffle = view.CurrentShuffle
		changed = true
	}

	var queen *models.EnrichedEntry
	for i := range view.Entries {
		if view.Entries[i].EndsGame {
			queen = &view.Entries[i]
			break
		}
	}

	switch {
	case queen != nil && (game.EndDate == nil || game.ClosedReason == models.CloseReasonQueen):
		wasOpen := game.EndDate == nil
		endDate := queen.DrawDate
		if wasOpen || !game.EndDate.Equal(endDate) || game.TotalJackpotPaid != queen.Totals.TotalJackpot {
			game.EndDate = &endDate
			game.TotalJackpotPaid = queen.Totals.TotalJackpot
			game.ClosedReason = models.CloseReasonQueen
			changed = true
		}
		if wasOpen {
			metrics.RecordGameClosed(models.CloseReasonQueen)
			l.record(ctx, models.AuditEvent{GameID: game.ID, EntryID: queen.ID, Action: models.AuditGameClosed, Actor: actor, Detail: models.CloseReasonQueen})
			slog.Info("Queen of Hearts drawn, game closed", "gameId", game.ID, "entryId", queen.ID, "jackpotPaid", game.TotalJackpotPaid)
		}
	case queen == nil && game.ClosedReason == models.CloseReasonQueen:
		// The queen entry was edited or deleted away.
		active, err := l.gameRepo.FindActive(ctx)
		switch {
		case err == nil:
			game.ClosedReason = models.CloseReasonManual
			slog.Warn("Queen entry removed but another game is active, game stays closed", "gameId", game.ID, "activeGameId", active.ID)
		case errors.Is(err, repositories.ErrNotFound):
			game.EndDate = nil
			game.TotalJackpotPaid = 0
			game.ClosedReason = ""
			slog.Warn("Queen entry removed, game reopened", "gameId", game.ID)
		default:
			return fmt.Errorf("failed to check active game: %w", err)
		}
		changed = true
	}

	if changed {
		game.ModifiedBy = actor
		if err := l.gameRepo.Update(ctx, game); err != nil {
			slog.Error("Failed to update derived game state", "error", err, "gameId", game.ID)
			return fmt.Errorf("failed to update game: %w", err)
		}
	}
	view.Game = *game
	view.IsComplete = game.EndDate != nil || view.QueenDrawn
	return nil
}

// laterEntries counts the entries folded after position idx, not counting the entry at idx itself.
func laterEntries(total, idx int) int {
	if idx < 0 || idx >= total {
		return 0
	}
	return total - 1 - idx
}

func indexOf(view *models.GameView, entryID string) int {
	for i, e := range view.Entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}

func recomputeWarning(n int) string {
	if n == 0 {
		return ""
	}
	if n == 1 {
		return "1 later entry was recomputed"
	}
	return fmt.Sprintf("%d later entries were recomputed", n)
}
