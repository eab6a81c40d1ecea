package qoh

import (
	"sort"

	"github.com/ArowuTest/club-portal-backend/internal/models"
)

// Annotation is what the deck walk learned about a single entry.
type Annotation struct {
	Shuffle        int
	TriggeredReset bool
	EndsGame       bool
}

// DeckTracker is the card and board state derived from an ordered entry list. It is
// rebuilt from the entries on every read and never persisted.
type DeckTracker struct {
	rules       Rules
	current     int
	resets      int
	cards       map[int]map[models.Card]string // shuffle -> card -> entry id
	positions   map[int]map[int]string         // shuffle -> position -> entry id
	jokers      map[int]int
	queens      map[int]string // shuffle -> id of the entry that drew the queen
	annotations []Annotation
}

// TrackDeck walks entries (sorted by draw date) and records drawn cards, taken positions,
// joker resets and the Queen of Hearts. Every entry belongs to the shuffle in force at its
// point in the walk; the shuffle stored on the entry is not consulted.
func TrackDeck(r Rules, entries []models.Entry) *DeckTracker {
	t := newDeckTracker(r, len(entries))
	for _, e := range entries {
		t.annotations = append(t.annotations, t.record(e))
	}
	return t
}

func newDeckTracker(r Rules, size int) *DeckTracker {
	return &DeckTracker{
		rules:       r,
		current:     1,
		cards:       map[int]map[models.Card]string{},
		positions:   map[int]map[int]string{},
		jokers:      map[int]int{},
		queens:      map[int]string{},
		annotations: make([]Annotation, 0, size),
	}
}

// conflict reports why e cannot be recorded next, if anything stops it.
func (t *DeckTracker) conflict(e models.Entry) (string, error) {
	if _, ok := t.queens[t.current]; ok {
		return "shuffle", ErrShuffleComplete
	}
	if e.Position != nil {
		if _, ok := t.positions[t.current][*e.Position]; ok {
			return "position", ErrPositionTaken
		}
	}
	if e.CardDrawn != nil {
		if _, ok := t.cards[t.current][*e.CardDrawn]; ok {
			return "cardDrawn", ErrCardAlreadyDrawn
		}
	}
	return "", nil
}

func (t *DeckTracker) record(e models.Entry) Annotation {
	ann := Annotation{Shuffle: t.current}

	if e.Position != nil {
		if t.positions[ann.Shuffle] == nil {
			t.positions[ann.Shuffle] = map[int]string{}
		}
		t.positions[ann.Shuffle][*e.Position] = e.ID
	}
	if e.CardDrawn == nil {
		return ann
	}

	card := *e.CardDrawn
	if t.cards[ann.Shuffle] == nil {
		t.cards[ann.Shuffle] = map[models.Card]string{}
	}
	t.cards[ann.Shuffle][card] = e.ID

	switch {
	case card.IsQueenOfHearts():
		t.queens[ann.Shuffle] = e.ID
		ann.EndsGame = true
	case card.IsJoker():
		t.jokers[ann.Shuffle]++
		// A reset opens a new shuffle with an empty board and its own joker count.
		if t.jokers[ann.Shuffle] == 2 && t.rules.canReset(t.resets) {
			t.current++
			t.resets++
			ann.TriggeredReset = true
		}
	}
	return ann
}

func (t *DeckTracker) resolve(shuffle int) int {
	if shuffle <= 0 {
		return t.current
	}
	return shuffle
}

// CurrentShuffle is the shuffle new entries are recorded in.
func (t *DeckTracker) CurrentShuffle() int {
	return t.current
}

// ResetCount is the number of board resets that have happened.
func (t *DeckTracker) ResetCount() int {
	return t.resets
}

// QueenDrawn reports whether the Queen of Hearts was drawn in any shuffle.
func (t *DeckTracker) QueenDrawn() bool {
	return len(t.queens) > 0
}

// ShuffleComplete reports whether the Queen of Hearts closed the given shuffle.
func (t *DeckTracker) ShuffleComplete(shuffle int) bool {
	_, ok := t.queens[t.resolve(shuffle)]
	return ok
}

// Annotations returns one annotation per walked entry, in walk order.
func (t *DeckTracker) Annotations() []Annotation {
	return t.annotations
}

// IsCardDrawn reports whether the card is already out in the given shuffle.
func (t *DeckTracker) IsCardDrawn(shuffle int, card models.Card) bool {
	_, ok := t.cards[t.resolve(shuffle)][card]
	return ok
}

// IsPositionTaken reports whether the board position is already used in the given shuffle.
func (t *DeckTracker) IsPositionTaken(shuffle, position int) bool {
	_, ok := t.positions[t.resolve(shuffle)][position]
	return ok
}

// UnavailableCards lists the cards drawn in the shuffle, in deck order.
func (t *DeckTracker) UnavailableCards(shuffle int) []models.Card {
	drawn := t.cards[t.resolve(shuffle)]
	cards := make([]models.Card, 0, len(drawn))
	for _, c := range models.FullDeck() {
		if _, ok := drawn[c]; ok {
			cards = append(cards, c)
		}
	}
	return cards
}

// TakenPositions lists the board positions used in the shuffle, ascending.
func (t *DeckTracker) TakenPositions(shuffle int) []int {
	taken := t.positions[t.resolve(shuffle)]
	positions := make([]int, 0, len(taken))
	for p := range taken {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	return positions
}

// CardsExhausted reports whether every card of the deck is out in the shuffle.
func (t *DeckTracker) CardsExhausted(shuffle int) bool {
	return len(t.cards[t.resolve(shuffle)]) >= models.DeckSize
}

// PositionsExhausted reports whether every board position is used in the shuffle.
func (t *DeckTracker) PositionsExhausted(shuffle int) bool {
	return len(t.positions[t.resolve(shuffle)]) >= models.DeckSize
}

// State summarizes availability for one shuffle (0 means the current one).
func (t *DeckTracker) State(shuffle int) models.DeckState {
	shuffle = t.resolve(shuffle)
	return models.DeckState{
		Shuffle:            shuffle,
		CurrentShuffle:     t.current,
		UnavailableCards:   t.UnavailableCards(shuffle),
		TakenPositions:     t.TakenPositions(shuffle),
		CardsExhausted:     t.CardsExhausted(shuffle),
		PositionsExhausted: t.PositionsExhausted(shuffle),
		Complete:           t.ShuffleComplete(shuffle),
	}
}
