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

// Ensure EntryRepository implements repositories.EntryRepository
var _ repositories.EntryRepository = (*EntryRepository)(nil)

// EntryRepository implements the repositories.EntryRepository interface
type EntryRepository struct {
	collection *mongo.Collection
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *mongo.Database) repositories.EntryRepository {
	return &EntryRepository{
		collection: db.Collection("entries"),
	}
}

// EnsureEntryIndexes creates the lookup index used when loading a game's entries
func EnsureEntryIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("entries").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "gameId", Value: 1}, {Key: "drawDate", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create entry index: %w", err)
	}
	return nil
}

// Create inserts a new entry
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.ModifiedAt = entry.CreatedAt
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// CreateMany inserts a batch of entries in one round trip
func (r *EntryRepository) CreateMany(ctx context.Context, entries []*models.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		e.ModifiedAt = e.CreatedAt
		docs = append(docs, e)
	}
	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to insert %d entries: %w", len(entries), err)
	}
	return nil
}

// FindByID finds an entry by ID
func (r *EntryRepository) FindByID(ctx context.Context, id string) (*models.Entry, error) {
	var entry models.Entry
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", id, err)
	}
	return &entry, nil
}

// FindByGameID returns every entry of a game
func (r *EntryRepository) FindByGameID(ctx context.Context, gameID string) ([]*models.Entry, error) {
	opts := options.Find().SetSort(bson.M{"drawDate": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"gameId": gameID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of game %s: %w", gameID, err)
	}
	defer cursor.Close(ctx)

	var entries []*models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	if entries == nil {
		entries = []*models.Entry{}
	}
	return entries, nil
}

// Update replaces an entry
func (r *EntryRepository) Update(ctx context.Context, entry *models.Entry) error {
	entry.ModifiedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", entry.ID, err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes an entry by ID
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteByGameID deletes every entry of a game
func (r *EntryRepository) DeleteByGameID(ctx context.Context, gameID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"gameId": gameID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries of game %s: %w", gameID, err)
	}
	return res.DeletedCount, nil
}
