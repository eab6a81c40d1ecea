package models

import (
	"time"
)

// Entry represents one weekly drawing recorded against a game
type Entry struct {
	ID          string    `bson:"_id" json:"id"`
	GameID      string    `bson:"gameId" json:"gameId"`
	DrawDate    time.Time `bson:"drawDate" json:"drawDate"`
	TicketSales float64   `bson:"ticketSales" json:"ticketSales"`
	Payout      float64   `bson:"payout" json:"payout"` // payouts beyond the jackpot itself
	Shuffle     int       `bson:"shuffle" json:"shuffle"`
	Position    *int      `bson:"position,omitempty" json:"position,omitempty"` // 1-54
	CardDrawn   *Card     `bson:"cardDrawn,omitempty" json:"cardDrawn,omitempty"`
	Winner      string    `bson:"winner,omitempty" json:"winner,omitempty"`
	CreatedBy   string    `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	ModifiedBy  string    `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`
	ModifiedAt  time.Time `bson:"modifiedAt" json:"modifiedAt"`
}

// GameTotals holds the running figures of a game after a given entry.
type GameTotals struct {
	TotalSales   float64 `json:"totalSales"`
	TotalPayout  float64 `json:"totalPayout"`
	TotalSeed    float64 `json:"totalSeed"`
	TotalFund    float64 `json:"totalFund"`
	TotalJackpot float64 `json:"totalJackpot"`
	TotalProfit  float64 `json:"totalProfit"`
}

// EnrichedEntry is an Entry plus everything derived from the ledger and deck walk. Never persisted.
type EnrichedEntry struct {
	Entry
	Sequence      int        `json:"sequence"` // 1-based position in draw-date order
	DisplayName   string     `json:"displayName"`
	Seed          float64    `json:"seed"`
	AvailableFund float64    `json:"availableFund"`
	Jackpot       float64    `json:"jackpot"`
	Profit        float64    `json:"profit"`
	PercentChange float64    `json:"percentChange"`
	Totals        GameTotals `json:"totals"`

	// Deck annotations.
	EffectiveShuffle int  `json:"effectiveShuffle"`
	TriggeredReset   bool `json:"triggeredReset"`
	EndsGame         bool `json:"endsGame"`
}

// GameView is the aggregate served to callers for one game.
type GameView struct {
	Game            Game            `json:"game"`
	Legacy          bool            `json:"legacy"`
	Totals          GameTotals      `json:"totals"`
	Entries         []EnrichedEntry `json:"entries"`
	CurrentShuffle  int             `json:"currentShuffle"`
	ResetCount      int             `json:"resetCount"`
	QueenDrawn      bool            `json:"queenDrawn"`
	IsComplete      bool            `json:"isComplete"`
	HasAllCards     bool            `json:"hasAllCards"`
	HasAllPositions bool            `json:"hasAllPositions"`
}

// DeckState describes card and board availability for one shuffle.
type DeckState struct {
	Shuffle            int    `json:"shuffle"`
	CurrentShuffle     int    `json:"currentShuffle"`
	UnavailableCards   []Card `json:"unavailableCards"`
	TakenPositions     []int  `json:"takenPositions"`
	CardsExhausted     bool   `json:"cardsExhausted"`
	PositionsExhausted bool   `json:"positionsExhausted"`
	Complete           bool   `json:"complete"`
}

// EntryRequest defines the structure for creating, previewing or editing an entry
type EntryRequest struct {
	DrawDate    string  `json:"drawDate" binding:"required"` // YYYY-MM-DD or RFC3339
	TicketSales float64 `json:"ticketSales" binding:"gte=0"`
	Payout      float64 `json:"payout" binding:"gte=0"`
	Shuffle     int     `json:"shuffle" binding:"gte=0"` // 0 = game's current shuffle
	Position    *int    `json:"position,omitempty"`
	CardDrawn   *Card   `json:"cardDrawn,omitempty"`
	Winner      string  `json:"winner,omitempty"`
}

// EntryMutationResponse is returned after an entry is written.
type EntryMutationResponse struct {
	Entry             *Entry    `json:"entry,omitempty"`
	View              *GameView `json:"view"`
	RecomputedEntries int       `json:"recomputedEntries"`
	Warning           string    `json:"warning,omitempty"`
}
