package qoh

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ArowuTest/club-portal-backend/internal/models"
)

// accumulator carries the running totals through the fold.
type accumulator struct {
	fund    decimal.Decimal
	seed    decimal.Decimal
	payout  decimal.Decimal
	sales   decimal.Decimal
	jackpot decimal.Decimal
	profit  decimal.Decimal
}

// drawing is the figure set computed for a single entry.
type drawing struct {
	seed      decimal.Decimal
	available decimal.Decimal
	jackpot   decimal.Decimal
	profit    decimal.Decimal
}

type formula func(r Rules, acc *accumulator, sales, payout decimal.Decimal) drawing

// referenceSales returns the ticket sales that entry i is compared against.
type referenceSales func(entries []models.Entry, i int) (decimal.Decimal, bool)

func newAccumulator(r Rules) accumulator {
	acc := accumulator{fund: r.InitialJackpot}
	if r.Legacy {
		acc.jackpot = r.InitialJackpot
	}
	return acc
}

func (a accumulator) totals() models.GameTotals {
	return models.GameTotals{
		TotalSales:   a.sales.InexactFloat64(),
		TotalPayout:  a.payout.InexactFloat64(),
		TotalSeed:    a.seed.InexactFloat64(),
		TotalFund:    a.fund.InexactFloat64(),
		TotalJackpot: a.jackpot.InexactFloat64(),
		TotalProfit:  a.profit.InexactFloat64(),
	}
}

// BaselineTotals are the totals of a game with no entries.
func BaselineTotals(r Rules) models.GameTotals {
	return newAccumulator(r).totals()
}

// ComputeLedger folds entries, which must already be sorted by draw date, into enriched
// entries carrying their own figures and the running totals as of that entry. The final
// totals are returned alongside; with no entries they equal BaselineTotals.
func ComputeLedger(r Rules, entries []models.Entry) ([]models.EnrichedEntry, models.GameTotals) {
	apply, reference := formula(currentFormula), referenceSales(previousEntrySales)
	if r.Legacy {
		apply, reference = legacyFormula, previousNonZeroSales
	}

	acc := newAccumulator(r)
	enriched := make([]models.EnrichedEntry, 0, len(entries))
	for i, e := range entries {
		sales := decimal.NewFromFloat(e.TicketSales)
		payout := decimal.NewFromFloat(e.Payout)
		d := apply(r, &acc, sales, payout)

		change := 0.0
		if prev, ok := reference(entries, i); ok {
			change = percentChange(sales, prev)
		}

		enriched = append(enriched, models.EnrichedEntry{
			Entry:         e,
			Sequence:      i + 1,
			DisplayName:   DisplayName(i + 1),
			Seed:          d.seed.InexactFloat64(),
			AvailableFund: d.available.InexactFloat64(),
			Jackpot:       d.jackpot.InexactFloat64(),
			Profit:        d.profit.InexactFloat64(),
			PercentChange: change,
			Totals:        acc.totals(),
		})
	}
	return enriched, acc.totals()
}

// DisplayName is the generated label of the n-th drawing (1-based).
func DisplayName(n int) string {
	return fmt.Sprintf("Draw #%03d", n)
}

// currentFormula splits each drawing's net revenue between jackpot and house, and
// derives the cumulative split from the running fund rather than summing the parts.
func currentFormula(r Rules, acc *accumulator, sales, payout decimal.Decimal) drawing {
	seed := r.seedFor(sales, acc.seed)
	available := sales.Sub(payout).Sub(seed)
	jackpot := available.Mul(r.JackpotPercent).Floor()
	profit := available.Mul(one.Sub(r.JackpotPercent)).Ceil()
	// jackpot and profit always add up to the available fund
	if residual := available.Sub(jackpot.Add(profit)); !residual.IsZero() {
		profit = profit.Add(residual)
	}

	acc.fund = acc.fund.Add(available)
	acc.seed = acc.seed.Add(seed)
	acc.payout = acc.payout.Add(payout)
	acc.sales = acc.sales.Add(sales)
	acc.jackpot = acc.fund.Mul(r.JackpotPercent).Floor()
	acc.profit = acc.fund.Mul(one.Sub(r.JackpotPercent)).Ceil()

	return drawing{seed: seed, available: available, jackpot: jackpot, profit: profit}
}

// legacyFormula reproduces the figures of games on the legacy allowlist. Profit uses the
// nominal jackpot percent while the jackpot uses the effective one.
func legacyFormula(r Rules, acc *accumulator, sales, payout decimal.Decimal) drawing {
	capReached := r.IsSeedCapReached(acc.seed)
	seed := r.seedFor(sales, acc.seed)
	jackpot := sales.Mul(r.EffectiveJackpotPercent(capReached)).Sub(payout).Ceil()
	profit := sales.Mul(one.Sub(r.JackpotPercent)).Floor()

	acc.fund = acc.fund.Add(jackpot)
	acc.seed = acc.seed.Add(seed)
	acc.jackpot = acc.jackpot.Add(jackpot)
	acc.payout = acc.payout.Add(payout)
	acc.sales = acc.sales.Add(sales)
	acc.profit = acc.sales.Mul(one.Sub(r.JackpotPercent)).Floor()

	return drawing{seed: seed, available: jackpot, jackpot: jackpot, profit: profit}
}

func previousEntrySales(entries []models.Entry, i int) (decimal.Decimal, bool) {
	if i == 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(entries[i-1].TicketSales), true
}

func previousNonZeroSales(entries []models.Entry, i int) (decimal.Decimal, bool) {
	for j := i - 1; j >= 0; j-- {
		if entries[j].TicketSales != 0 {
			return decimal.NewFromFloat(entries[j].TicketSales), true
		}
	}
	return decimal.Zero, false
}

func percentChange(sales, prev decimal.Decimal) float64 {
	if prev.IsZero() {
		return 0
	}
	return sales.Sub(prev).Div(prev).InexactFloat64()
}
