package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
)

var _ repositories.GameRepository = (*GameRepository)(nil)

// GameRepository keeps games in a map guarded by a mutex. Every read and write copies,
// so callers never share state with the store.
type GameRepository struct {
	mu    sync.Mutex
	games map[string]*models.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{games: map[string]*models.Game{}}
}

func (r *GameRepository) Create(_ context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[game.ID]; ok {
		return repositories.ErrDuplicate
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now()
	}
	game.ModifiedAt = game.CreatedAt
	r.games[game.ID] = cloneGame(game)
	return nil
}

func (r *GameRepository) FindByID(_ context.Context, id string) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneGame(g), nil
}

func (r *GameRepository) FindActive(ctx context.Context) (*models.Game, error) {
	games, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range games {
		if g.IsActive() {
			return g, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *GameRepository) FindAll(_ context.Context) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	games := make([]*models.Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, cloneGame(g))
	}
	sort.Slice(games, func(i, j int) bool {
		if !games[i].StartDate.Equal(games[j].StartDate) {
			return games[i].StartDate.After(games[j].StartDate)
		}
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	return games, nil
}

func (r *GameRepository) Update(_ context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[game.ID]; !ok {
		return repositories.ErrNotFound
	}
	game.ModifiedAt = time.Now()
	r.games[game.ID] = cloneGame(game)
	return nil
}

func (r *GameRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.games, id)
	return nil
}
