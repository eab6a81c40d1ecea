package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories/memory"
)

type fixture struct {
	ctx      context.Context
	games    *memory.GameRepository
	entries  *memory.EntryRepository
	audit    *memory.AuditEventRepository
	gameSvc  *GameServiceImpl
	entrySvc *EntryServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	games := memory.NewGameRepository()
	entries := memory.NewEntryRepository()
	audit := memory.NewAuditEventRepository()
	return &fixture{
		ctx:      context.Background(),
		games:    games,
		entries:  entries,
		audit:    audit,
		gameSvc:  NewGameService(games, entries, audit),
		entrySvc: NewEntryService(games, entries, audit),
	}
}

func (f *fixture) createGame(t *testing.T, id string, rules models.GameRulesRequest) *models.Game {
	t.Helper()
	game, err := f.gameSvc.CreateGame(f.ctx, &models.CreateGameRequest{
		ID:               id,
		Name:             "Game " + id,
		StartDate:        "2024-01-01",
		GameRulesRequest: rules,
	}, "admin@club.test")
	require.NoError(t, err)
	return game
}

func (f *fixture) record(t *testing.T, gameID string, req models.EntryRequest) *models.EntryMutationResponse {
	t.Helper()
	resp, err := f.entrySvc.CreateEntry(f.ctx, gameID, &req, "staff@club.test")
	require.NoError(t, err)
	return resp
}

func card(code string) *models.Card {
	c, err := models.ParseCard(code)
	if err != nil {
		panic(err)
	}
	return &c
}

func position(p int) *int { return &p }
