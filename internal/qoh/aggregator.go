package qoh

import (
	"sort"

	"github.com/ArowuTest/club-portal-backend/internal/models"
)

// SortEntries returns a copy of entries ordered by draw date. Entries drawn at the same
// instant keep the order in which they were recorded (CreatedAt, then ID).
func SortEntries(entries []models.Entry) []models.Entry {
	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.DrawDate.Equal(b.DrawDate) {
			return a.DrawDate.Before(b.DrawDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return sorted
}

// BuildGameView sorts the raw entries, runs the ledger and deck passes over the same
// order and merges them into the view served to callers.
func BuildGameView(game models.Game, raw []models.Entry) (models.GameView, error) {
	rules, err := NewRules(&game)
	if err != nil {
		return models.GameView{}, err
	}

	ordered := SortEntries(raw)
	enriched, totals := ComputeLedger(rules, ordered)
	tracker := TrackDeck(rules, ordered)

	for i, ann := range tracker.Annotations() {
		enriched[i].EffectiveShuffle = ann.Shuffle
		enriched[i].TriggeredReset = ann.TriggeredReset
		enriched[i].EndsGame = ann.EndsGame
	}

	view := models.GameView{
		Game:            game,
		Legacy:          rules.Legacy,
		Totals:          totals,
		Entries:         enriched,
		CurrentShuffle:  tracker.CurrentShuffle(),
		ResetCount:      tracker.ResetCount(),
		QueenDrawn:      tracker.QueenDrawn(),
		IsComplete:      game.EndDate != nil || tracker.QueenDrawn(),
		HasAllCards:     true,
		HasAllPositions: true,
	}
	for _, e := range enriched {
		if e.EffectiveShuffle != view.CurrentShuffle {
			continue
		}
		if e.CardDrawn == nil {
			view.HasAllCards = false
		}
		if e.Position == nil {
			view.HasAllPositions = false
		}
	}
	return view, nil
}

// DeckStateFor builds the deck state of one shuffle (0 = current) for a game.
func DeckStateFor(game models.Game, raw []models.Entry, shuffle int) (models.DeckState, error) {
	rules, err := NewRules(&game)
	if err != nil {
		return models.DeckState{}, err
	}
	return TrackDeck(rules, SortEntries(raw)).State(shuffle), nil
}
