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

// Ensure staffUserRepository implements repositories.StaffUserRepository
var _ repositories.StaffUserRepository = (*staffUserRepository)(nil)

type staffUserRepository struct {
	collection *mongo.Collection
}

// NewStaffUserRepository creates a new repository for staff accounts
func NewStaffUserRepository(db *mongo.Database) repositories.StaffUserRepository {
	return &staffUserRepository{
		collection: db.Collection("staff_users"),
	}
}

// EnsureStaffUserIndexes makes email unique across staff accounts
func EnsureStaffUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("staff_users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create staff email index: %w", err)
	}
	return nil
}

// Create inserts a new staff user
func (r *staffUserRepository) Create(ctx context.Context, user *models.StaffUser) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to insert staff user: %w", err)
	}
	return nil
}

// FindByEmail finds a staff user by their email address
func (r *staffUserRepository) FindByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID finds a staff user by their ID
func (r *staffUserRepository) FindByID(ctx context.Context, id string) (*models.StaffUser, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *staffUserRepository) findOne(ctx context.Context, filter bson.M) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// the service layer distinguishes 'not found' from other errors
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Count returns the number of staff accounts
func (r *staffUserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
