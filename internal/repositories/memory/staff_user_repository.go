package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
)

var _ repositories.StaffUserRepository = (*StaffUserRepository)(nil)

type StaffUserRepository struct {
	mu    sync.Mutex
	users map[string]models.StaffUser
}

func NewStaffUserRepository() *StaffUserRepository {
	return &StaffUserRepository{users: map[string]models.StaffUser{}}
}

func (r *StaffUserRepository) Create(_ context.Context, user *models.StaffUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *StaffUserRepository) FindByEmail(_ context.Context, email string) (*models.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *StaffUserRepository) FindByID(_ context.Context, id string) (*models.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *StaffUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}
