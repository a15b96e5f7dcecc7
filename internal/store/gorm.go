package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/googleauth"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/model"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/prometheus"
)

// GormUserStore is the Postgres-backed user directory.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindOrCreate(ctx context.Context, claims *googleauth.Claims, domain string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("google_id = ?", claims.SubjectID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user = model.User{
		GoogleID: claims.SubjectID,
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
		Domain:   domain,
		IsActive: true,
		Role:     model.RoleMember,
	}
	err = s.db.WithContext(ctx).Create(&user).Error
	if err == nil {
		return &user, nil
	}

	// A concurrent first login for the same account can win the insert; the
	// unique index on google_id turns that into a duplicate-key error, so the
	// record now exists and the lookup is retried.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing model.User
		if retryErr := s.db.WithContext(ctx).Where("google_id = ?", claims.SubjectID).First(&existing).Error; retryErr != nil {
			return nil, fmt.Errorf("lookup user after duplicate insert: %w", retryErr)
		}
		return &existing, nil
	}
	return nil, fmt.Errorf("create user: %w", err)
}

func (s *GormUserStore) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// GormItemStore is the Postgres-backed item store.
type GormItemStore struct {
	db *gorm.DB
}

func NewGormItemStore(db *gorm.DB) *GormItemStore {
	return &GormItemStore{db: db}
}

func (s *GormItemStore) List(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	q := s.db.WithContext(ctx).Model(&model.Item{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var items []model.Item
	if err := q.Order("date_reported DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if err := s.attachOwners(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormItemStore) GetByID(ctx context.Context, id uint) (*model.Item, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var item model.Item
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	items := []model.Item{item}
	if err := s.attachOwners(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *GormItemStore) Create(ctx context.Context, item *model.Item) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	items := []model.Item{*item}
	if err := s.attachOwners(ctx, items); err != nil {
		return err
	}
	item.PostedBy = items[0].PostedBy
	return nil
}

func (s *GormItemStore) ListByOwner(ctx context.Context, ownerID uint) ([]model.Item, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var items []model.Item
	err := s.db.WithContext(ctx).
		Where("posted_by_id = ?", ownerID).
		Order("date_reported DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	if err := s.attachOwners(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormItemStore) UpdateStatus(ctx context.Context, itemID, requesterID uint, status string) (*model.Item, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var item model.Item
	if err := s.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item for status update: %w", err)
	}
	if item.PostedByID != requesterID {
		return nil, ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(&item).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update item status: %w", err)
	}

	items := []model.Item{item}
	if err := s.attachOwners(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachOwners joins the owners' public profiles onto the items. Only the
// profile projection leaves the store; the full user record never does.
func (s *GormItemStore) attachOwners(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	ownerIDs := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if !seen[item.PostedByID] {
			seen[item.PostedByID] = true
			ownerIDs = append(ownerIDs, item.PostedByID)
		}
	}

	var owners []model.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ownerIDs).Find(&owners).Error; err != nil {
		return fmt.Errorf("load item owners: %w", err)
	}

	profiles := make(map[uint]*model.Profile, len(owners))
	for i := range owners {
		profiles[owners[i].ID] = owners[i].Profile()
	}
	for i := range items {
		items[i].PostedBy = profiles[items[i].PostedByID]
	}
	return nil
}
