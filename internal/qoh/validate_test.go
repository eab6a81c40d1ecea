package qoh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/club-portal-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func TestValidateEntry(t *testing.T) {
	r := mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6, ResetOnTwoJokers: true})
	existing := []models.Entry{
		drawn(0, fiveClubs, 10),
		drawn(1, joker1, 11),
	}

	tests := []struct {
		name   string
		modify func(e *models.Entry)
		field  string
		err    error
	}{
		{"negative sales", func(e *models.Entry) { e.TicketSales = -1 }, "ticketSales", ErrNegativeAmount},
		{"negative payout", func(e *models.Entry) { e.Payout = -0.01 }, "payout", ErrNegativeAmount},
		{"position zero", func(e *models.Entry) { e.Position = intPtr(0) }, "position", ErrPositionOutOfRange},
		{"position 55", func(e *models.Entry) { e.Position = intPtr(55) }, "position", ErrPositionOutOfRange},
		{"position taken", func(e *models.Entry) { e.Position = intPtr(10) }, "position", ErrPositionTaken},
		{"unknown card", func(e *models.Entry) { e.CardDrawn = &models.Card{Suit: models.SuitHearts, Value: "1"} }, "cardDrawn", ErrInvalidCard},
		{"card drawn", func(e *models.Entry) { e.CardDrawn = &fiveClubs }, "cardDrawn", ErrCardAlreadyDrawn},
		{"future shuffle", func(e *models.Entry) { e.Shuffle = 2 }, "shuffle", ErrShuffleOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := entryAt(5, 100, 0)
			tt.modify(&candidate)

			_, err := ValidateEntry(r, existing, candidate)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("valid", func(t *testing.T) {
		candidate := entryAt(5, 100, 0)
		candidate.Position = intPtr(54)
		candidate.CardDrawn = &models.QueenOfHearts
		got, err := ValidateEntry(r, existing, candidate)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Shuffle)
	})
}

func TestValidateEntryIgnoresItself(t *testing.T) {
	r := mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6})
	existing := []models.Entry{drawn(0, fiveClubs, 10)}

	edit := existing[0]
	edit.TicketSales = 750
	_, err := ValidateEntry(r, existing, edit)
	assert.NoError(t, err)
}

func TestValidateEntryAfterQueen(t *testing.T) {
	r := mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6})
	existing := []models.Entry{
		drawn(0, fiveClubs, 10),
		drawn(1, models.QueenOfHearts, 20),
	}

	_, err := ValidateEntry(r, existing, entryAt(2, 300, 0))
	assert.ErrorIs(t, err, ErrShuffleComplete)

	// Correcting the queen entry itself is still allowed.
	edit := existing[1]
	edit.Payout = 25
	_, err = ValidateEntry(r, existing, edit)
	assert.NoError(t, err)
}

func TestValidateEntryPositionUniquePerEpoch(t *testing.T) {
	r := mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6, ResetOnTwoJokers: true})
	existing := []models.Entry{
		drawn(0, joker1, 7),
		drawn(2, joker2, 8),
	}

	candidate := entryAt(3, 100, 0)
	candidate.Position = intPtr(7)
	got, err := ValidateEntry(r, existing, candidate)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Shuffle)

	// Drawn between the two jokers, so still on the first board.
	backdated := entryAt(1, 100, 0)
	backdated.Position = intPtr(7)
	_, err = ValidateEntry(r, existing, backdated)
	assert.ErrorIs(t, err, ErrPositionTaken)
}

func TestValidateEntryShuffleFollowsDrawDate(t *testing.T) {
	r := mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6, ResetOnTwoJokers: true})
	existing := []models.Entry{
		drawn(0, fiveClubs, 1),
		drawn(2, joker1, 2),
		drawn(3, joker2, 3),
		entryAt(4, 100, 0),
	}

	backdated := entryAt(1, 100, 0)
	got, err := ValidateEntry(r, existing, backdated)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Shuffle)

	late := entryAt(5, 100, 0)
	late.Shuffle = 1
	_, err = ValidateEntry(r, existing, late)
	assert.ErrorIs(t, err, ErrShuffleMismatch)

	backdated.Shuffle = 2
	_, err = ValidateEntry(r, existing, backdated)
	assert.ErrorIs(t, err, ErrShuffleOutOfRange)
}

func TestValidateEntryQueenMustBeLast(t *testing.T) {
	r := mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6})
	sixClubs := models.Card{Suit: models.SuitClubs, Value: "6"}
	sevenClubs := models.Card{Suit: models.SuitClubs, Value: "7"}
	existing := []models.Entry{
		drawn(0, fiveClubs, 1),
		drawn(1, sixClubs, 2),
		drawn(2, sevenClubs, 3),
	}

	t.Run("edit mid sequence", func(t *testing.T) {
		edit := existing[0]
		edit.CardDrawn = &models.QueenOfHearts
		_, err := ValidateEntry(r, existing, edit)
		assert.ErrorIs(t, err, ErrQueenNotLast)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "cardDrawn", verr.Field)
	})

	t.Run("backdated queen", func(t *testing.T) {
		queen := entryAt(1, 100, 0)
		queen.ID = "queen"
		queen.DrawDate = queen.DrawDate.AddDate(0, 0, -3)
		queen.CardDrawn = &models.QueenOfHearts
		_, err := ValidateEntry(r, existing, queen)
		assert.ErrorIs(t, err, ErrQueenNotLast)
	})

	t.Run("last drawing", func(t *testing.T) {
		edit := existing[2]
		edit.CardDrawn = &models.QueenOfHearts
		_, err := ValidateEntry(r, existing, edit)
		assert.NoError(t, err)
	})
}

func TestValidateEntryRemovingResetRechecksLaterDrawings(t *testing.T) {
	r := mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6, ResetOnTwoJokers: true})
	existing := []models.Entry{
		drawn(0, joker1, 1),
		drawn(1, joker2, 2),
		drawn(2, fiveClubs, 1), // position 1 again, on the second board
	}

	edit := existing[1]
	nine := models.Card{Suit: models.SuitDiamonds, Value: "9"}
	edit.CardDrawn = &nine
	_, err := ValidateEntry(r, existing, edit)
	assert.ErrorIs(t, err, ErrPositionTaken)

	// Without the position clash the later drawing simply moves back to shuffle 1.
	existing[2].Position = intPtr(3)
	got, err := ValidateEntry(r, existing, edit)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Shuffle)
	tracker := TrackDeck(r, SortEntries(append([]models.Entry{existing[0], got}, existing[2])))
	assert.Equal(t, 1, tracker.Annotations()[2].Shuffle)
}

func TestCheckEntries(t *testing.T) {
	entries := []models.Entry{
		drawn(0, joker1, 1),
		drawn(1, joker2, 2),
		drawn(2, fiveClubs, 1),
	}
	assert.NoError(t, CheckEntries(mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6, ResetOnTwoJokers: true}), entries))

	err := CheckEntries(mustRules(t, models.Game{ID: "g1", JackpotPercent: 0.6}), entries)
	assert.ErrorIs(t, err, ErrPositionTaken)
	assert.Contains(t, err.Error(), "2024-01-19")
}
