package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
)

var _ repositories.AuditEventRepository = (*AuditEventRepository)(nil)

// AuditEventRepository keeps events in insertion order.
type AuditEventRepository struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func NewAuditEventRepository() *AuditEventRepository {
	return &AuditEventRepository{}
}

func (r *AuditEventRepository) Create(_ context.Context, event *models.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	r.events = append(r.events, *event)
	return nil
}

// FindByGameID returns the newest events first. Events recorded at the same instant come
// back in reverse insertion order.
func (r *AuditEventRepository) FindByGameID(_ context.Context, gameID string, page, limit int) ([]*models.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	skip := (page - 1) * limit
	found := []*models.AuditEvent{}
	for i := len(r.events) - 1; i >= 0 && len(found) < limit; i-- {
		if r.events[i].GameID != gameID {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		e := r.events[i]
		found = append(found, &e)
	}
	return found, nil
}
