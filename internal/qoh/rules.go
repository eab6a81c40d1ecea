package qoh

import (
	"github.com/shopspring/decimal"

	"github.com/ArowuTest/club-portal-backend/internal/models"
)

var one = decimal.NewFromInt(1)

// Rules is the immutable per-game configuration the ledger and deck passes run against.
type Rules struct {
	TicketPrice      decimal.Decimal
	JackpotPercent   decimal.Decimal
	SeedGeneration   bool
	SeedPercent      decimal.Decimal
	MaxSeed          decimal.Decimal // zero means no cap
	ResetOnTwoJokers bool
	MaxGameReset     int // zero means unlimited resets
	InitialJackpot   decimal.Decimal
	Legacy           bool
}

// NewRules validates the game's configuration and converts it to exact decimals.
// The legacy flag comes only from the game id.
func NewRules(game *models.Game) (Rules, error) {
	if game.JackpotPercent < 0 || game.JackpotPercent > 1 {
		return Rules{}, invalid("jackpotPercent", ErrInvalidPercent)
	}
	if game.SeedPercent < 0 || game.SeedPercent > 1 {
		return Rules{}, invalid("seedPercent", ErrInvalidPercent)
	}
	if game.TicketPrice < 0 {
		return Rules{}, invalid("ticketPrice", ErrNegativeAmount)
	}
	if game.MaxSeed < 0 {
		return Rules{}, invalid("maxSeed", ErrNegativeAmount)
	}
	if game.MaxGameReset < 0 {
		return Rules{}, invalid("maxGameReset", ErrNegativeAmount)
	}
	if game.InitialJackpot < 0 {
		return Rules{}, invalid("initialJackpot", ErrNegativeAmount)
	}

	return Rules{
		TicketPrice:      decimal.NewFromFloat(game.TicketPrice),
		JackpotPercent:   decimal.NewFromFloat(game.JackpotPercent),
		SeedGeneration:   game.SeedGeneration,
		SeedPercent:      decimal.NewFromFloat(game.SeedPercent),
		MaxSeed:          decimal.NewFromFloat(game.MaxSeed),
		ResetOnTwoJokers: game.ResetOnTwoJokers,
		MaxGameReset:     game.MaxGameReset,
		InitialJackpot:   decimal.NewFromFloat(game.InitialJackpot),
		Legacy:           IsLegacyGame(game.ID),
	}, nil
}

// IsSeedCapReached reports whether the running seed has hit a non-zero cap.
func (r Rules) IsSeedCapReached(totalSeed decimal.Decimal) bool {
	return r.MaxSeed.IsPositive() && totalSeed.GreaterThanOrEqual(r.MaxSeed)
}

// EffectiveJackpotPercent is the jackpot share used by the legacy formula: the seed
// share comes out of the jackpot while seeding is still active.
func (r Rules) EffectiveJackpotPercent(seedCapReached bool) decimal.Decimal {
	if r.SeedGeneration && !seedCapReached {
		return r.JackpotPercent.Sub(r.SeedPercent)
	}
	return r.JackpotPercent
}

// seedFor returns the seed withheld from one drawing. Seeding stops outright once the cap
// is reached; the drawing that crosses the cap keeps its full seed.
func (r Rules) seedFor(sales, totalSeed decimal.Decimal) decimal.Decimal {
	if !r.SeedGeneration || r.IsSeedCapReached(totalSeed) {
		return decimal.Zero
	}
	return sales.Mul(r.SeedPercent).Floor()
}

func (r Rules) canReset(resets int) bool {
	return r.ResetOnTwoJokers && (r.MaxGameReset == 0 || resets < r.MaxGameReset)
}
