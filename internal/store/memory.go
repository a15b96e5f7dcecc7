package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/googleauth"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/model"
)

// MemoryStore is an in-memory UserStore and ItemStore with the same filter
// semantics as the Postgres implementation. It backs the test suite and local
// development without a database.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[uint]*model.User
	byGoogleID map[string]uint
	items      map[uint]*model.Item
	nextUserID uint
	nextItemID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint]*model.User),
		byGoogleID: make(map[string]uint),
		items:      make(map[uint]*model.Item),
		nextUserID: 1,
		nextItemID: 1,
	}
}

func (s *MemoryStore) FindOrCreate(_ context.Context, claims *googleauth.Claims, domain string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byGoogleID[claims.SubjectID]; ok {
		return copyUser(s.users[id]), nil
	}

	user := &model.User{
		ID:        s.nextUserID,
		GoogleID:  claims.SubjectID,
		Email:     claims.Email,
		Name:      claims.Name,
		Picture:   claims.Picture,
		Domain:    domain,
		IsActive:  true,
		Role:      model.RoleMember,
		CreatedAt: time.Now(),
	}
	s.nextUserID++
	s.users[user.ID] = user
	s.byGoogleID[user.GoogleID] = user.ID
	return copyUser(user), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(user), nil
}

func (s *MemoryStore) List(_ context.Context, filter ItemFilter) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*model.Item
	for _, item := range s.items {
		if matchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}
	sortByDateReported(matched)

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return s.withOwners(matched), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uint) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := s.withOwners([]*model.Item{item})
	return &out[0], nil
}

func (s *MemoryStore) Create(_ context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *item
	stored.ID = s.nextItemID
	s.nextItemID++
	s.items[stored.ID] = &stored

	*item = s.withOwners([]*model.Item{&stored})[0]
	return nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID uint) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*model.Item
	for _, item := range s.items {
		if item.PostedByID == ownerID {
			matched = append(matched, item)
		}
	}
	sortByDateReported(matched)
	return s.withOwners(matched), nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, itemID, requesterID uint, status string) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	if item.PostedByID != requesterID {
		return nil, ErrForbidden
	}

	item.Status = status
	out := s.withOwners([]*model.Item{item})
	return &out[0], nil
}

func matchesFilter(item *model.Item, filter ItemFilter) bool {
	if filter.Status != "" && item.Status != filter.Status {
		return false
	}
	if filter.Type != "" && item.Type != filter.Type {
		return false
	}
	if filter.Category != "" && item.Category != filter.Category {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(item.Title), needle) &&
			!strings.Contains(strings.ToLower(item.Description), needle) &&
			!strings.Contains(strings.ToLower(item.Location), needle) {
			return false
		}
	}
	return true
}

func sortByDateReported(items []*model.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DateReported.Equal(items[j].DateReported) {
			return items[i].ID > items[j].ID
		}
		return items[i].DateReported.After(items[j].DateReported)
	})
}

// withOwners copies the items and attaches the owners' public profiles.
// Callers must hold the lock.
func (s *MemoryStore) withOwners(items []*model.Item) []model.Item {
	out := make([]model.Item, len(items))
	for i, item := range items {
		out[i] = *item
		if owner, ok := s.users[item.PostedByID]; ok {
			out[i].PostedBy = owner.Profile()
		}
	}
	return out
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}
