package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/qoh"
	"github.com/ArowuTest/club-portal-backend/internal/utils"
)

func TestCreateEntryComputesLedger(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})

	resp := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 1000, Position: position(7), CardDrawn: card("5C")})
	require.NotNil(t, resp.Entry)
	assert.NotEmpty(t, resp.Entry.ID)
	assert.Equal(t, 1, resp.Entry.Shuffle)
	assert.Equal(t, "staff@club.test", resp.Entry.CreatedBy)
	assert.Equal(t, 0, resp.RecomputedEntries)
	assert.Empty(t, resp.Warning)

	first := resp.View.Entries[0]
	assert.Equal(t, "Draw #001", first.DisplayName)
	assert.Equal(t, 600.0, first.Jackpot)
	assert.Equal(t, 400.0, first.Profit)

	resp = f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 800, Payout: 50})
	second := resp.View.Entries[1]
	assert.Equal(t, 750.0, second.AvailableFund)
	assert.Equal(t, 450.0, second.Jackpot)
	assert.Equal(t, -0.2, second.PercentChange)
	assert.Equal(t, models.GameTotals{
		TotalSales:   1800,
		TotalPayout:  50,
		TotalFund:    1750,
		TotalJackpot: 1050,
		TotalProfit:  700,
	}, resp.View.Totals)

	stored, err := f.entries.FindByGameID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestCreateEntryBackdatedReportsRecompute(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 500})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 600})

	resp := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 400})
	assert.Equal(t, 2, resp.RecomputedEntries)
	assert.Equal(t, "2 later entries were recomputed", resp.Warning)
	assert.Equal(t, resp.Entry.ID, resp.View.Entries[0].ID)
	assert.Equal(t, "Draw #003", resp.View.Entries[2].DisplayName)
}

func TestCreateEntryValidation(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 500, Position: position(4), CardDrawn: card("KS")})

	tests := []struct {
		name  string
		req   models.EntryRequest
		field string
		err   error
	}{
		{"negative sales", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: -1}, "ticketSales", qoh.ErrNegativeAmount},
		{"position taken", models.EntryRequest{DrawDate: "2024-01-12", Position: position(4)}, "position", qoh.ErrPositionTaken},
		{"position out of range", models.EntryRequest{DrawDate: "2024-01-12", Position: position(55)}, "position", qoh.ErrPositionOutOfRange},
		{"card drawn", models.EntryRequest{DrawDate: "2024-01-12", CardDrawn: card("KS")}, "cardDrawn", qoh.ErrCardAlreadyDrawn},
		{"future shuffle", models.EntryRequest{DrawDate: "2024-01-12", Shuffle: 2}, "shuffle", qoh.ErrShuffleOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.entrySvc.CreateEntry(f.ctx, "g1", &req, "staff")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			var verr *qoh.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, err := f.entrySvc.CreateEntry(f.ctx, "g1", &models.EntryRequest{DrawDate: "next friday"}, "staff")
	var verr *qoh.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "drawDate", verr.Field)

	_, err = f.entrySvc.CreateEntry(f.ctx, "missing", &models.EntryRequest{DrawDate: "2024-01-12"}, "staff")
	assert.ErrorIs(t, err, ErrGameNotFound)

	stored, err := f.entries.FindByGameID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestQueenOfHeartsClosesGame(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 1000, Position: position(1), CardDrawn: card("2D")})

	resp := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 500, Position: position(2), CardDrawn: card("QH"), Winner: "Pat"})
	assert.True(t, resp.View.QueenDrawn)
	assert.True(t, resp.View.IsComplete)
	assert.True(t, resp.View.Entries[1].EndsGame)

	game, err := f.games.FindByID(f.ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, game.EndDate)
	assert.True(t, game.EndDate.Equal(time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.CloseReasonQueen, game.ClosedReason)
	assert.Equal(t, 900.0, game.TotalJackpotPaid)

	_, err = f.entrySvc.CreateEntry(f.ctx, "g1", &models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 10}, "staff")
	assert.ErrorIs(t, err, ErrGameClosed)
	_, err = f.entrySvc.PreviewEntry(f.ctx, "g1", &models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 10})
	assert.ErrorIs(t, err, ErrGameClosed)

	// Removing the queen reopens the game while no other game is active.
	_, err = f.entrySvc.DeleteEntry(f.ctx, "g1", resp.Entry.ID, "admin")
	require.NoError(t, err)
	game, err = f.games.FindByID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Nil(t, game.EndDate)
	assert.Empty(t, game.ClosedReason)
	assert.Zero(t, game.TotalJackpotPaid)
}

func TestQueenRemovedStaysClosedWhenAnotherGameIsActive(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	resp := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 100, CardDrawn: card("QH")})
	f.createGame(t, "g2", models.GameRulesRequest{JackpotPercent: 0.6})

	_, err := f.entrySvc.DeleteEntry(f.ctx, "g1", resp.Entry.ID, "admin")
	require.NoError(t, err)

	game, err := f.games.FindByID(f.ctx, "g1")
	require.NoError(t, err)
	assert.NotNil(t, game.EndDate)
	assert.Equal(t, models.CloseReasonManual, game.ClosedReason)
}

func TestSecondJokerResetsBoard(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6, ResetOnTwoJokers: true})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 100, Position: position(10), CardDrawn: card("JK1")})
	resp := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 100, Position: position(20), CardDrawn: card("JK2")})

	assert.True(t, resp.View.Entries[1].TriggeredReset)
	assert.Equal(t, 2, resp.View.CurrentShuffle)
	assert.Equal(t, 2, resp.View.Game.CurrentShuffle)

	game, err := f.games.FindByID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, game.CurrentShuffle)

	// The new shuffle starts with a clean board.
	resp = f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 100, Position: position(10), CardDrawn: card("JK1")})
	assert.Equal(t, 2, resp.Entry.Shuffle)
}

func TestUpdateEntry(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	first := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 1000, Position: position(3)})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 500})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 500})

	resp, err := f.entrySvc.UpdateEntry(f.ctx, "g1", first.Entry.ID, &models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 2000, Position: position(3)}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.RecomputedEntries)
	assert.Equal(t, "2 later entries were recomputed", resp.Warning)
	assert.Equal(t, first.Entry.ID, resp.Entry.ID)
	assert.Equal(t, first.Entry.CreatedBy, resp.Entry.CreatedBy)
	assert.Equal(t, "admin", resp.Entry.ModifiedBy)
	assert.Equal(t, 1, resp.Entry.Shuffle)
	assert.Equal(t, 3000.0, resp.View.Totals.TotalSales)

	// Moving the first entry to the end still counts from its old place.
	resp, err = f.entrySvc.UpdateEntry(f.ctx, "g1", first.Entry.ID, &models.EntryRequest{DrawDate: "2024-01-26", TicketSales: 2000}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.RecomputedEntries)
	assert.Equal(t, first.Entry.ID, resp.View.Entries[2].ID)

	// Moving it back to the front reports the same.
	resp, err = f.entrySvc.UpdateEntry(f.ctx, "g1", first.Entry.ID, &models.EntryRequest{DrawDate: "2024-01-01", TicketSales: 2000}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.RecomputedEntries)

	_, err = f.entrySvc.UpdateEntry(f.ctx, "g1", "missing", &models.EntryRequest{DrawDate: "2024-01-01"}, "admin")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUpdateEntryKeepsOwnCardAndPosition(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	first := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 100, Position: position(3), CardDrawn: card("AS")})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 100, Position: position(4), CardDrawn: card("2S")})

	_, err := f.entrySvc.UpdateEntry(f.ctx, "g1", first.Entry.ID, &models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 150, Position: position(3), CardDrawn: card("AS")}, "admin")
	require.NoError(t, err)

	_, err = f.entrySvc.UpdateEntry(f.ctx, "g1", first.Entry.ID, &models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 150, Position: position(4)}, "admin")
	assert.ErrorIs(t, err, qoh.ErrPositionTaken)
}

func TestDeleteEntry(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	first := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 1000})
	last := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 500})

	resp, err := f.entrySvc.DeleteEntry(f.ctx, "g1", first.Entry.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RecomputedEntries)
	assert.Equal(t, "1 later entry was recomputed", resp.Warning)
	require.Len(t, resp.View.Entries, 1)
	assert.Equal(t, "Draw #001", resp.View.Entries[0].DisplayName)

	resp, err = f.entrySvc.DeleteEntry(f.ctx, "g1", last.Entry.ID, "admin")
	require.NoError(t, err)
	assert.Zero(t, resp.RecomputedEntries)
	assert.Empty(t, resp.View.Entries)

	_, err = f.entrySvc.DeleteEntry(f.ctx, "g1", last.Entry.ID, "admin")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestPreviewEntryDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 1000})

	view, err := f.entrySvc.PreviewEntry(f.ctx, "g1", &models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 500})
	require.NoError(t, err)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, previewEntryID, view.Entries[1].ID)
	assert.Equal(t, 1500.0, view.Totals.TotalSales)

	stored, err := f.entries.FindByGameID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func importBatch() []*models.Entry {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []*models.Entry{
		{DrawDate: day(12), TicketSales: 500, CardDrawn: card("3H")},
		{DrawDate: day(5), TicketSales: 1000, CardDrawn: card("4H")},
		{DrawDate: day(19), TicketSales: 700},
	}
}

func TestImportEntries(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})

	view, err := f.entrySvc.ImportEntries(f.ctx, "g1", importBatch(), "admin", true)
	require.NoError(t, err)
	require.Len(t, view.Entries, 3)
	assert.Equal(t, 1000.0, view.Entries[0].TicketSales)
	stored, err := f.entries.FindByGameID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, stored)

	view, err = f.entrySvc.ImportEntries(f.ctx, "g1", importBatch(), "admin", false)
	require.NoError(t, err)
	assert.Equal(t, 2200.0, view.Totals.TotalSales)
	stored, err = f.entries.FindByGameID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	// A second run repeats the cards of the first and is rejected whole.
	_, err = f.entrySvc.ImportEntries(f.ctx, "g1", importBatch(), "admin", false)
	assert.ErrorIs(t, err, qoh.ErrCardAlreadyDrawn)
	stored, err = f.entries.FindByGameID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestImportEntriesClosesGameOnQueen(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.5})
	batch := []*models.Entry{
		{DrawDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), TicketSales: 1000},
		{DrawDate: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), TicketSales: 1000, CardDrawn: card("QH")},
	}
	view, err := f.entrySvc.ImportEntries(f.ctx, "g1", batch, "admin", false)
	require.NoError(t, err)
	assert.True(t, view.IsComplete)

	game, err := f.games.FindByID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, models.CloseReasonQueen, game.ClosedReason)
	assert.Equal(t, 1000.0, game.TotalJackpotPaid)
}

func TestExportEntries(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 1000, Position: position(9), CardDrawn: card("10S")})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 500})

	var buf bytes.Buffer
	require.NoError(t, f.entrySvc.ExportEntries(f.ctx, "g1", &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, utils.ExportHeader, rows[0])
	assert.Equal(t, "Draw #001", rows[1][0])
	assert.Equal(t, "2024-01-05", rows[1][1])
	assert.Equal(t, "10S", rows[1][4])

	assert.ErrorIs(t, f.entrySvc.ExportEntries(f.ctx, "missing", &buf), ErrGameNotFound)
}

func TestUpdateEntryRejectsQueenBeforeLaterDrawings(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	first := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 100, CardDrawn: card("5C")})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 100, CardDrawn: card("6C")})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 100, CardDrawn: card("7C")})

	_, err := f.entrySvc.UpdateEntry(f.ctx, "g1", first.Entry.ID, &models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 100, CardDrawn: card("QH")}, "admin")
	assert.ErrorIs(t, err, qoh.ErrQueenNotLast)

	game, err := f.games.FindByID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Nil(t, game.EndDate)
	stored, err := f.entries.FindByID(f.ctx, first.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "5C", stored.CardDrawn.String())
}

func TestImportEntriesRejectsBackdatedQueen(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 100, CardDrawn: card("5C")})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 100, CardDrawn: card("6C")})

	batch := []*models.Entry{
		{DrawDate: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), TicketSales: 100, CardDrawn: card("QH")},
	}
	_, err := f.entrySvc.ImportEntries(f.ctx, "g1", batch, "admin", false)
	assert.ErrorIs(t, err, qoh.ErrQueenNotLast)

	stored, err := f.entries.FindByGameID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	game, err := f.games.FindByID(f.ctx, "g1")
	require.NoError(t, err)
	assert.True(t, game.IsActive())
}

func TestEditingAwayResetMovesLaterEntries(t *testing.T) {
	f := newFixture(t)
	f.createGame(t, "g1", models.GameRulesRequest{JackpotPercent: 0.6, ResetOnTwoJokers: true})
	f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-05", TicketSales: 100, Position: position(1), CardDrawn: card("JK1")})
	second := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 100, Position: position(2), CardDrawn: card("JK2")})
	last := f.record(t, "g1", models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 100, Position: position(3), CardDrawn: card("5C")})
	require.Equal(t, 2, last.Entry.Shuffle)

	resp, err := f.entrySvc.UpdateEntry(f.ctx, "g1", second.Entry.ID, &models.EntryRequest{DrawDate: "2024-01-12", TicketSales: 100, Position: position(2), CardDrawn: card("9D")}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.View.CurrentShuffle)
	assert.Equal(t, 1, resp.View.Entries[2].Shuffle)

	stored, err := f.entries.FindByID(f.ctx, last.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Shuffle)
	game, err := f.games.FindByID(f.ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, game.CurrentShuffle)

	// The moved entry can still be corrected.
	resp, err = f.entrySvc.UpdateEntry(f.ctx, "g1", last.Entry.ID, &models.EntryRequest{DrawDate: "2024-01-19", TicketSales: 250, Position: position(3), CardDrawn: card("5C")}, "staff")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Entry.Shuffle)

	state, err := f.gameSvc.GetDeckState(f.ctx, "g1", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, state.TakenPositions)
}
