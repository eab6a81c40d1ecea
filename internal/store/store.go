// Package store opens the repository set selected by configuration.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"

	"github.com/ArowuTest/club-portal-backend/internal/config"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
	"github.com/ArowuTest/club-portal-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/club-portal-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/club-portal-backend/pkg/mongodb"
)

// Store bundles the repositories used by the services
type Store struct {
	Games       repositories.GameRepository
	Entries     repositories.EntryRepository
	StaffUsers  repositories.StaffUserRepository
	AuditEvents repositories.AuditEventRepository

	client *mongodb.Client
}

// Open builds the repositories for cfg.Store.Driver. The mongo driver connects, pings and
// ensures indexes before returning.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		slog.Warn("Using in-memory store, data is lost on exit")
		return &Store{
			Games:       memory.NewGameRepository(),
			Entries:     memory.NewEntryRepository(),
			StaffUsers:  memory.NewStaffUserRepository(),
			AuditEvents: memory.NewAuditEventRepository(),
		}, nil
	case config.StoreMongo:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB.Database)
		for _, ensure := range []func(context.Context, *mongo.Database) error{
			mongorepo.EnsureEntryIndexes,
			mongorepo.EnsureStaffUserIndexes,
			mongorepo.EnsureAuditEventIndexes,
		} {
			if err := ensure(ctx, db); err != nil {
				_ = client.Disconnect(ctx)
				return nil, err
			}
		}
		slog.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)
		return &Store{
			Games:       mongorepo.NewGameRepository(db),
			Entries:     mongorepo.NewEntryRepository(db),
			StaffUsers:  mongorepo.NewStaffUserRepository(db),
			AuditEvents: mongorepo.NewAuditEventRepository(db),
			client:      client,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Close releases the database connection, if any
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
