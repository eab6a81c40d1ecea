package qoh

import (
	"errors"
	"fmt"

	"github.com/ArowuTest/club-portal-backend/internal/models"
)

const candidateKey = "\x00candidate"

// ValidateEntry checks a new or edited entry against the other entries of its game
// before it is folded into the ledger. existing may contain a previous version of the
// candidate (same ID); it is ignored so an entry never conflicts with itself.
//
// The whole sequence is walked with the candidate in place, because a backdated or
// edited entry can move shuffle boundaries for every drawing after it. On success the
// candidate is returned with the shuffle in force at its draw date.
func ValidateEntry(r Rules, existing []models.Entry, candidate models.Entry) (models.Entry, error) {
	if candidate.TicketSales < 0 {
		return candidate, invalid("ticketSales", ErrNegativeAmount)
	}
	if candidate.Payout < 0 {
		return candidate, invalid("payout", ErrNegativeAmount)
	}
	if candidate.Position != nil {
		if p := *candidate.Position; p < 1 || p > models.DeckSize {
			return candidate, invalid("position", ErrPositionOutOfRange)
		}
	}
	if candidate.CardDrawn != nil && !candidate.CardDrawn.Valid() {
		return candidate, invalid("cardDrawn", ErrInvalidCard)
	}

	id := candidate.ID
	if id == "" {
		id = candidateKey
	}
	sequence := make([]models.Entry, 0, len(existing)+1)
	for _, e := range existing {
		if e.ID == id {
			continue
		}
		sequence = append(sequence, e)
	}
	placed := candidate
	placed.ID = id
	sequence = append(sequence, placed)

	t := newDeckTracker(r, len(sequence))
	for _, e := range SortEntries(sequence) {
		own := e.ID == id
		if own {
			switch {
			case candidate.Shuffle > t.current:
				return candidate, invalid("shuffle", ErrShuffleOutOfRange)
			case candidate.Shuffle > 0 && candidate.Shuffle < t.current:
				return candidate, invalid("shuffle", ErrShuffleMismatch)
			}
			candidate.Shuffle = t.current
		}
		if field, err := t.conflict(e); err != nil {
			if own {
				return candidate, invalid(field, err)
			}
			if errors.Is(err, ErrShuffleComplete) && candidate.CardDrawn != nil && candidate.CardDrawn.IsQueenOfHearts() {
				return candidate, invalid("cardDrawn", ErrQueenNotLast)
			}
			return candidate, invalid(field, fmt.Errorf("%w (drawing of %s)", err, e.DrawDate.Format("2006-01-02")))
		}
		t.annotations = append(t.annotations, t.record(e))
	}
	return candidate, nil
}

// CheckEntries walks a full entry list and reports the first drawing that the deck rules
// no longer allow. Rule changes are checked with it before they are stored.
func CheckEntries(r Rules, entries []models.Entry) error {
	t := newDeckTracker(r, len(entries))
	for _, e := range SortEntries(entries) {
		if field, err := t.conflict(e); err != nil {
			return invalid(field, fmt.Errorf("%w (drawing of %s)", err, e.DrawDate.Format("2006-01-02")))
		}
		t.annotations = append(t.annotations, t.record(e))
	}
	return nil
}
