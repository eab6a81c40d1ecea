package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/club-portal-backend/internal/config"
	"github.com/ArowuTest/club-portal-backend/internal/models"
)

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}})
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close(ctx)) }()

	require.NoError(t, s.Games.Create(ctx, &models.Game{ID: "g1", Name: "Spring"}))
	games, err := s.Games.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
