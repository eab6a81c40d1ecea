package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ArowuTest/club-portal-backend/internal/metrics"
	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/qoh"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
	"github.com/ArowuTest/club-portal-backend/internal/utils"
)

// Compile-time check to ensure EntryServiceImpl implements EntryService
var _ EntryService = (*EntryServiceImpl)(nil)

const previewEntryID = "preview"

// EntryServiceImpl records weekly drawings and keeps the owning game in step with them
type EntryServiceImpl struct {
	ledger *gameLedger
	now    func() time.Time
}

// NewEntryService creates a new EntryServiceImpl
func NewEntryService(gameRepo repositories.GameRepository, entryRepo repositories.EntryRepository, auditRepo repositories.AuditEventRepository) *EntryServiceImpl {
	return &EntryServiceImpl{
		ledger: newGameLedger(gameRepo, entryRepo, auditRepo),
		now:    time.Now,
	}
}

// PreviewEntry shows the view a new entry would produce without storing it
func (s *EntryServiceImpl) PreviewEntry(ctx context.Context, gameID string, req *models.EntryRequest) (*models.GameView, error) {
	game, entries, _, err := s.ledger.loadView(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsActive() {
		return nil, ErrGameClosed
	}

	candidate, err := entryFromRequest(req)
	if err != nil {
		return nil, err
	}
	candidate.ID = previewEntryID
	candidate.GameID = gameID
	candidate.CreatedAt = s.now()

	validated, err := s.validate(game, entries, candidate)
	if err != nil {
		return nil, err
	}
	return s.ledger.build(game, append(entries, validated))
}

// CreateEntry validates and appends a drawing, then re-derives the game state
func (s *EntryServiceImpl) CreateEntry(ctx context.Context, gameID string, req *models.EntryRequest, actor string) (*models.EntryMutationResponse, error) {
	defer lockGame(gameID)()

	game, entries, _, err := s.ledger.loadView(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsActive() {
		return nil, ErrGameClosed
	}

	candidate, err := entryFromRequest(req)
	if err != nil {
		return nil, err
	}
	candidate.ID = utils.NewID()
	candidate.GameID = gameID
	candidate.CreatedBy = actor
	candidate.CreatedAt = s.now()

	entry, err := s.validate(game, entries, candidate)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.entryRepo.Create(ctx, &entry); err != nil {
		slog.Error("Failed to create entry", "error", err, "gameId", gameID)
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	metrics.RecordEntryWrite("create", 1)

	view, err := s.ledger.build(game, append(entries, entry))
	if err != nil {
		return nil, err
	}
	idx := indexOf(view, entry.ID)
	if idx >= 0 && view.Entries[idx].TriggeredReset {
		metrics.RecordBoardReset()
		slog.Info("Second joker drawn, board reset", "gameId", gameID, "entryId", entry.ID, "shuffle", view.CurrentShuffle)
	}
	if err := s.ledger.syncGame(ctx, game, view, actor); err != nil {
		return nil, err
	}

	recomputed := laterEntries(len(view.Entries), idx)
	s.ledger.record(ctx, models.AuditEvent{GameID: gameID, EntryID: entry.ID, Action: models.AuditEntryCreated, Actor: actor, RecomputedEntries: recomputed})
	slog.Info("Entry recorded", "gameId", gameID, "entryId", entry.ID, "drawDate", entry.DrawDate, "sales", entry.TicketSales, "by", actor)
	return &models.EntryMutationResponse{
		Entry:             &entry,
		View:              view,
		RecomputedEntries: recomputed,
		Warning:           recomputeWarning(recomputed),
	}, nil
}

// UpdateEntry corrects a recorded drawing. Every entry folded after the earlier of its old
// and new positions is recomputed; the count comes back as a warning for the operator.
func (s *EntryServiceImpl) UpdateEntry(ctx context.Context, gameID, entryID string, req *models.EntryRequest, actor string) (*models.EntryMutationResponse, error) {
	defer lockGame(gameID)()

	game, entries, before, err := s.ledger.loadView(ctx, gameID)
	if err != nil {
		return nil, err
	}
	oldIdx := indexOf(before, entryID)
	if oldIdx < 0 {
		return nil, ErrEntryNotFound
	}
	existing := before.Entries[oldIdx].Entry

	candidate, err := entryFromRequest(req)
	if err != nil {
		return nil, err
	}
	candidate.ID = existing.ID
	candidate.GameID = existing.GameID
	candidate.CreatedBy = existing.CreatedBy
	candidate.CreatedAt = existing.CreatedAt
	candidate.ModifiedBy = actor

	entry, err := s.validate(game, entries, candidate)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.entryRepo.Update(ctx, &entry); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		slog.Error("Failed to update entry", "error", err, "entryId", entryID)
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	metrics.RecordEntryWrite("update", 1)

	for i := range entries {
		if entries[i].ID == entryID {
			entries[i] = entry
		}
	}
	view, err := s.ledger.build(game, entries)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.syncGame(ctx, game, view, actor); err != nil {
		return nil, err
	}

	from := oldIdx
	if newIdx := indexOf(view, entryID); newIdx >= 0 && newIdx < from {
		from = newIdx
	}
	recomputed := laterEntries(len(view.Entries), from)
	s.ledger.record(ctx, models.AuditEvent{GameID: gameID, EntryID: entryID, Action: models.AuditEntryUpdated, Actor: actor, RecomputedEntries: recomputed})
	slog.Info("Entry updated", "gameId", gameID, "entryId", entryID, "recomputedEntries", recomputed, "by", actor)
	return &models.EntryMutationResponse{
		Entry:             &entry,
		View:              view,
		RecomputedEntries: recomputed,
		Warning:           recomputeWarning(recomputed),
	}, nil
}

// DeleteEntry removes a drawing and recomputes everything folded after it
func (s *EntryServiceImpl) DeleteEntry(ctx context.Context, gameID, entryID, actor string) (*models.EntryMutationResponse, error) {
	defer lockGame(gameID)()

	game, entries, before, err := s.ledger.loadView(ctx, gameID)
	if err != nil {
		return nil, err
	}
	oldIdx := indexOf(before, entryID)
	if oldIdx < 0 {
		return nil, ErrEntryNotFound
	}
	if err := s.ledger.entryRepo.Delete(ctx, entryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		slog.Error("Failed to delete entry", "error", err, "entryId", entryID)
		return nil, fmt.Errorf("failed to delete entry: %w", err)
	}
	metrics.RecordEntryWrite("delete", 1)

	remaining := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != entryID {
			remaining = append(remaining, e)
		}
	}
	view, err := s.ledger.build(game, remaining)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.syncGame(ctx, game, view, actor); err != nil {
		return nil, err
	}

	recomputed := laterEntries(len(before.Entries), oldIdx)
	s.ledger.record(ctx, models.AuditEvent{GameID: gameID, EntryID: entryID, Action: models.AuditEntryDeleted, Actor: actor, RecomputedEntries: recomputed})
	slog.Info("Entry deleted", "gameId", gameID, "entryId", entryID, "recomputedEntries", recomputed, "by", actor)
	return &models.EntryMutationResponse{
		View:              view,
		RecomputedEntries: recomputed,
		Warning:           recomputeWarning(recomputed),
	}, nil
}

// ImportEntries validates a batch of historical drawings in draw-date order and stores
// them in one write. Closed games accept imports so past games can be loaded.
func (s *EntryServiceImpl) ImportEntries(ctx context.Context, gameID string, batch []*models.Entry, actor string, dryRun bool) (*models.GameView, error) {
	defer lockGame(gameID)()

	game, entries, _, err := s.ledger.loadView(ctx, gameID)
	if err != nil {
		return nil, err
	}

	incoming := make([]models.Entry, 0, len(batch))
	now := s.now()
	for i, e := range batch {
		e.ID = utils.NewID()
		e.GameID = gameID
		e.CreatedBy = actor
		// keeps spreadsheet order for rows sharing a draw date
		e.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		incoming = append(incoming, *e)
	}

	accepted := make([]*models.Entry, 0, len(incoming))
	for _, candidate := range qoh.SortEntries(incoming) {
		entry, err := s.validate(game, entries, candidate)
		if err != nil {
			return nil, fmt.Errorf("entry dated %s: %w", candidate.DrawDate.Format("2006-01-02"), err)
		}
		entries = append(entries, entry)
		accepted = append(accepted, &entry)
	}

	view, err := s.ledger.build(game, entries)
	if err != nil {
		return nil, err
	}
	if dryRun {
		slog.Info("Import dry run", "gameId", gameID, "entries", len(accepted))
		return view, nil
	}

	if err := s.ledger.entryRepo.CreateMany(ctx, accepted); err != nil {
		slog.Error("Failed to import entries", "error", err, "gameId", gameID, "entries", len(accepted))
		return nil, fmt.Errorf("failed to import entries: %w", err)
	}
	metrics.RecordEntryWrite("import", len(accepted))
	if err := s.ledger.syncGame(ctx, game, view, actor); err != nil {
		return nil, err
	}
	s.ledger.record(ctx, models.AuditEvent{GameID: gameID, Action: models.AuditEntriesImported, Actor: actor, Detail: fmt.Sprintf("%d entries", len(accepted))})
	slog.Info("Entries imported", "gameId", gameID, "entries", len(accepted), "by", actor)
	return view, nil
}

// ExportEntries writes the recomputed ledger of a game as CSV
func (s *EntryServiceImpl) ExportEntries(ctx context.Context, gameID string, w io.Writer) error {
	_, _, view, err := s.ledger.loadView(ctx, gameID)
	if err != nil {
		return err
	}
	return utils.WriteEntriesCSV(w, view)
}

func (s *EntryServiceImpl) validate(game *models.Game, entries []models.Entry, candidate models.Entry) (models.Entry, error) {
	rules, err := qoh.NewRules(game)
	if err != nil {
		return candidate, err
	}
	entry, err := qoh.ValidateEntry(rules, entries, candidate)
	if err != nil {
		var verr *qoh.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordValidationFailure(verr.Field)
		}
		slog.Warn("Entry rejected", "gameId", game.ID, "error", err)
		return candidate, err
	}
	return entry, nil
}

func entryFromRequest(req *models.EntryRequest) (models.Entry, error) {
	drawDate, err := utils.ParseDate(req.DrawDate)
	if err != nil {
		return models.Entry{}, &qoh.ValidationError{Field: "drawDate", Err: err}
	}
	entry := models.Entry{
		DrawDate:    drawDate,
		TicketSales: req.TicketSales,
		Payout:      req.Payout,
		Shuffle:     req.Shuffle,
		Winner:      req.Winner,
	}
	if req.Position != nil {
		p := *req.Position
		entry.Position = &p
	}
	if req.CardDrawn != nil {
		card := *req.CardDrawn
		entry.CardDrawn = &card
	}
	return entry, nil
}
