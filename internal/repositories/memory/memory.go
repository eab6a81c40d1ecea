// Package memory provides map-backed repositories for tests, the import dry run
// and running the API without a database.
package memory

import (
	"github.com/ArowuTest/club-portal-backend/internal/models"
)

func cloneGame(g *models.Game) *models.Game {
	c := *g
	if g.EndDate != nil {
		end := *g.EndDate
		c.EndDate = &end
	}
	return &c
}

func cloneEntry(e *models.Entry) *models.Entry {
	c := *e
	if e.Position != nil {
		p := *e.Position
		c.Position = &p
	}
	if e.CardDrawn != nil {
		card := *e.CardDrawn
		c.CardDrawn = &card
	}
	return &c
}
