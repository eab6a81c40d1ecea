package models

import (
	"time"
)

// Reasons a game was closed
const (
	CloseReasonQueen      = "queen"      // the Queen of Hearts was drawn
	CloseReasonManual     = "manual"     // closed by an admin
	CloseReasonSuperseded = "superseded" // a newer game was started
)

// Game represents one Queen of Hearts raffle cycle
type Game struct {
	ID               string     `bson:"_id" json:"id"`
	Name             string     `bson:"name" json:"name"`
	StartDate        time.Time  `bson:"startDate" json:"startDate"`
	EndDate          *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"` // nil while the game is active
	TicketPrice      float64    `bson:"ticketPrice" json:"ticketPrice"`
	JackpotPercent   float64    `bson:"jackpotPercent" json:"jackpotPercent"` // 0-1
	SeedGeneration   bool       `bson:"seedGeneration" json:"seedGeneration"`
	SeedPercent      float64    `bson:"seedPercent" json:"seedPercent"` // 0-1, only used when SeedGeneration is set
	MaxSeed          float64    `bson:"maxSeed" json:"maxSeed"`         // 0 = unlimited
	ResetOnTwoJokers bool       `bson:"resetOnTwoJokers" json:"resetOnTwoJokers"`
	MaxGameReset     int        `bson:"maxGameReset" json:"maxGameReset"` // 0 = unlimited
	CurrentShuffle   int        `bson:"currentShuffle" json:"currentShuffle"`
	InitialJackpot   float64    `bson:"initialJackpot" json:"initialJackpot"`
	TotalJackpotPaid float64    `bson:"totalJackpotPaid" json:"totalJackpotPaid"`
	ClosedReason     string     `bson:"closedReason,omitempty" json:"closedReason,omitempty"`
	CreatedBy        string     `bson:"createdBy" json:"createdBy"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	ModifiedBy       string     `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`
	ModifiedAt       time.Time  `bson:"modifiedAt" json:"modifiedAt"`
}

// IsActive reports whether the game has not been closed yet.
func (g *Game) IsActive() bool {
	return g.EndDate == nil
}

// GameRulesRequest carries the editable rule set of a game.
type GameRulesRequest struct {
	TicketPrice      float64 `json:"ticketPrice" binding:"gte=0"`
	JackpotPercent   float64 `json:"jackpotPercent" binding:"gte=0,lte=1"`
	SeedGeneration   bool    `json:"seedGeneration"`
	SeedPercent      float64 `json:"seedPercent" binding:"gte=0,lte=1"`
	MaxSeed          float64 `json:"maxSeed" binding:"gte=0"`
	ResetOnTwoJokers bool    `json:"resetOnTwoJokers"`
	MaxGameReset     int     `json:"maxGameReset" binding:"gte=0"`
	InitialJackpot   float64 `json:"initialJackpot" binding:"gte=0"`
}

// CreateGameRequest defines the structure for creating a new game
type CreateGameRequest struct {
	ID        string `json:"id"` // optional; generated when empty
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate"` // YYYY-MM-DD, defaults to today
	GameRulesRequest
}

// Apply copies the rule set onto the game.
func (r GameRulesRequest) Apply(g *Game) {
	g.TicketPrice = r.TicketPrice
	g.JackpotPercent = r.JackpotPercent
	g.SeedGeneration = r.SeedGeneration
	g.SeedPercent = r.SeedPercent
	g.MaxSeed = r.MaxSeed
	g.ResetOnTwoJokers = r.ResetOnTwoJokers
	g.MaxGameReset = r.MaxGameReset
	g.InitialJackpot = r.InitialJackpot
}
