package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
)

// Ensure GameRepository implements repositories.GameRepository
var _ repositories.GameRepository = (*GameRepository)(nil)

// GameRepository implements the repositories.GameRepository interface
type GameRepository struct {
	collection *mongo.Collection
}

// NewGameRepository creates a new GameRepository
func NewGameRepository(db *mongo.Database) repositories.GameRepository {
	return &GameRepository{
		collection: db.Collection("games"),
	}
}

// Create inserts a new game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now()
	}
	game.ModifiedAt = game.CreatedAt
	if _, err := r.collection.InsertOne(ctx, game); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to insert game %s: %w", game.ID, err)
	}
	return nil
}

// FindByID finds a game by ID
func (r *GameRepository) FindByID(ctx context.Context, id string) (*models.Game, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

// FindActive finds the game that has no end date
func (r *GameRepository) FindActive(ctx context.Context) (*models.Game, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"endDate": bson.M{"$exists": false}},
		bson.M{"endDate": nil},
	}}
	opts := options.FindOne().SetSort(bson.M{"startDate": -1})
	return r.findOne(ctx, filter, opts)
}

func (r *GameRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.Game, error) {
	var game models.Game
	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&game)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&game)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find game: %w", err)
	}
	return &game, nil
}

// FindAll returns every game, newest first
func (r *GameRepository) FindAll(ctx context.Context) ([]*models.Game, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	if games == nil {
		games = []*models.Game{}
	}
	return games, nil
}

// Update replaces a game
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	game.ModifiedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": game.ID}, game)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID, err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a game by ID
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
