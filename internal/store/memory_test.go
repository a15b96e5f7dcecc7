package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/googleauth"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/model"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/store"
)

const testDomain = "klh.edu.in"

func newUser(t *testing.T, s *store.MemoryStore, sub, email, name string) *model.User {
	t.Helper()
	user, err := s.FindOrCreate(context.Background(), &googleauth.Claims{
		SubjectID: sub,
		Email:     email,
		Name:      name,
	}, testDomain)
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	return user
}

func newItem(t *testing.T, s *store.MemoryStore, owner *model.User, title, desc, category, typ, location, status string, reported time.Time) *model.Item {
	t.Helper()
	item := &model.Item{
		Title:        title,
		Description:  desc,
		Category:     category,
		Type:         typ,
		Location:     location,
		DateReported: reported,
		DateOccurred: reported.AddDate(0, 0, -1),
		PostedByID:   owner.ID,
		Status:       status,
		ContactInfo:  model.ContactInfo{Email: owner.Email},
	}
	if err := s.Create(context.Background(), item); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return item
}

func TestFindOrCreate_Idempotent(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	claims := &googleauth.Claims{SubjectID: "g-1", Email: "a@klh.edu.in", Name: "A"}
	first, err := s.FindOrCreate(ctx, claims, testDomain)
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if first.Role != model.RoleMember {
		t.Fatalf("expected default role member, got %s", first.Role)
	}
	if first.Domain != testDomain {
		t.Fatalf("expected domain %s, got %s", testDomain, first.Domain)
	}
	if !first.IsActive {
		t.Fatal("expected new user to be active")
	}

	// Repeat login with changed profile claims must return the stored record
	// untouched and never create a second one.
	again, err := s.FindOrCreate(ctx, &googleauth.Claims{SubjectID: "g-1", Email: "a@klh.edu.in", Name: "Renamed"}, testDomain)
	if err != nil {
		t.Fatalf("second FindOrCreate: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("expected same user id %d, got %d", first.ID, again.ID)
	}
	if again.Name != "A" {
		t.Fatalf("expected stored name A, got %s", again.Name)
	}
}

func TestFindByID(t *testing.T) {
	s := store.NewMemoryStore()
	user := newUser(t, s, "g-1", "a@klh.edu.in", "A")

	got, err := s.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Email != user.Email {
		t.Fatalf("expected email %s, got %s", user.Email, got.Email)
	}

	if _, err := s.FindByID(context.Background(), 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_DefaultsAndOrdering(t *testing.T) {
	s := store.NewMemoryStore()
	owner := newUser(t, s, "g-1", "a@klh.edu.in", "A")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	oldest := newItem(t, s, owner, "Old umbrella", "Black umbrella", "other", model.TypeLost, "Gate 2", model.StatusActive, base)
	resolved := newItem(t, s, owner, "Resolved phone", "Found phone", "electronics", model.TypeFound, "Canteen", model.StatusResolved, base.Add(time.Hour))
	newest := newItem(t, s, owner, "New charger", "Laptop charger", "electronics", model.TypeLost, "Lab 3", model.StatusActive, base.Add(2*time.Hour))

	// Status active is the browse default; the handler passes it explicitly.
	items, err := s.List(context.Background(), store.ItemFilter{Status: model.StatusActive})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 active items, got %d", len(items))
	}
	if items[0].ID != newest.ID || items[1].ID != oldest.ID {
		t.Fatalf("expected order [%d %d], got [%d %d]", newest.ID, oldest.ID, items[0].ID, items[1].ID)
	}
	for _, item := range items {
		if item.ID == resolved.ID {
			t.Fatal("resolved item must not appear in active listing")
		}
		if item.PostedBy == nil {
			t.Fatal("expected owner profile to be attached")
		}
		if item.PostedBy.Email != owner.Email {
			t.Fatalf("expected owner email %s, got %s", owner.Email, item.PostedBy.Email)
		}
	}
}

func TestList_Filters(t *testing.T) {
	s := store.NewMemoryStore()
	owner := newUser(t, s, "g-1", "a@klh.edu.in", "A")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	wallet := newItem(t, s, owner, "Black Wallet", "Leather wallet with cards", "accessories", model.TypeLost, "Library", model.StatusActive, base)
	newItem(t, s, owner, "Blue bag", "Found near the wallet counter", "bags", model.TypeFound, "Canteen", model.StatusActive, base.Add(time.Hour))
	keys := newItem(t, s, owner, "Hostel keys", "Bunch of keys", "keys", model.TypeFound, "WALLET street", model.StatusActive, base.Add(2*time.Hour))
	newItem(t, s, owner, "Physics book", "Second year textbook", "books", model.TypeLost, "Block C", model.StatusActive, base.Add(3*time.Hour))

	t.Run("by type", func(t *testing.T) {
		items, err := s.List(context.Background(), store.ItemFilter{Status: model.StatusActive, Type: model.TypeFound})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 found items, got %d", len(items))
		}
	})

	t.Run("by category", func(t *testing.T) {
		items, err := s.List(context.Background(), store.ItemFilter{Status: model.StatusActive, Category: "accessories"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 1 || items[0].ID != wallet.ID {
			t.Fatalf("expected only the wallet, got %d items", len(items))
		}
	})

	t.Run("search is case-insensitive across title description location", func(t *testing.T) {
		items, err := s.List(context.Background(), store.ItemFilter{Status: model.StatusActive, Search: "wallet"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 wallet matches, got %d", len(items))
		}
		seen := map[uint]bool{}
		for _, item := range items {
			seen[item.ID] = true
		}
		if !seen[wallet.ID] || !seen[keys.ID] {
			t.Fatal("expected title and location matches to be included")
		}
	})

	t.Run("limit", func(t *testing.T) {
		items, err := s.List(context.Background(), store.ItemFilter{Status: model.StatusActive, Limit: 2})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items with limit 2, got %d", len(items))
		}
	})

	t.Run("default limit caps at 20", func(t *testing.T) {
		big := store.NewMemoryStore()
		bigOwner := newUser(t, big, "g-2", "b@klh.edu.in", "B")
		for i := 0; i < 25; i++ {
			newItem(t, big, bigOwner, fmt.Sprintf("Item %d", i), "desc", "other", model.TypeLost, "Campus", model.StatusActive, base.Add(time.Duration(i)*time.Minute))
		}
		items, err := big.List(context.Background(), store.ItemFilter{Status: model.StatusActive})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != store.DefaultListLimit {
			t.Fatalf("expected %d items, got %d", store.DefaultListLimit, len(items))
		}
	})
}

func TestGetByID(t *testing.T) {
	s := store.NewMemoryStore()
	owner := newUser(t, s, "g-1", "a@klh.edu.in", "A")
	item := newItem(t, s, owner, "Calculator", "Scientific calculator", "electronics", model.TypeFound, "Exam hall", model.StatusActive, time.Now())

	got, err := s.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Calculator" {
		t.Fatalf("expected title Calculator, got %s", got.Title)
	}
	if got.PostedBy == nil || got.PostedBy.ID != owner.ID {
		t.Fatal("expected owner profile attached")
	}

	if _, err := s.GetByID(context.Background(), 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByOwner_AllStatuses(t *testing.T) {
	s := store.NewMemoryStore()
	owner := newUser(t, s, "g-1", "a@klh.edu.in", "A")
	other := newUser(t, s, "g-2", "b@klh.edu.in", "B")
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	newItem(t, s, owner, "Mine active", "d", "other", model.TypeLost, "L", model.StatusActive, base)
	newItem(t, s, owner, "Mine resolved", "d", "other", model.TypeLost, "L", model.StatusResolved, base.Add(time.Hour))
	newItem(t, s, other, "Not mine", "d", "other", model.TypeLost, "L", model.StatusActive, base.Add(2*time.Hour))

	items, err := s.ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Mine resolved" || items[1].Title != "Mine active" {
		t.Fatalf("unexpected order: %s, %s", items[0].Title, items[1].Title)
	}
}

func TestUpdateStatus(t *testing.T) {
	s := store.NewMemoryStore()
	owner := newUser(t, s, "g-1", "a@klh.edu.in", "A")
	stranger := newUser(t, s, "g-2", "b@klh.edu.in", "B")
	item := newItem(t, s, owner, "Black wallet", "Leather wallet", "accessories", model.TypeLost, "Library", model.StatusActive, time.Now())

	t.Run("non-owner is forbidden and status unchanged", func(t *testing.T) {
		_, err := s.UpdateStatus(context.Background(), item.ID, stranger.ID, model.StatusResolved)
		if !errors.Is(err, store.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		got, err := s.GetByID(context.Background(), item.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Status != model.StatusActive {
			t.Fatalf("expected status unchanged, got %s", got.Status)
		}
	})

	t.Run("owner may update", func(t *testing.T) {
		updated, err := s.UpdateStatus(context.Background(), item.ID, owner.ID, model.StatusResolved)
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if updated.Status != model.StatusResolved {
			t.Fatalf("expected resolved, got %s", updated.Status)
		}
	})

	t.Run("reverse transition is allowed for the owner", func(t *testing.T) {
		updated, err := s.UpdateStatus(context.Background(), item.ID, owner.ID, model.StatusActive)
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if updated.Status != model.StatusActive {
			t.Fatalf("expected active, got %s", updated.Status)
		}
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := s.UpdateStatus(context.Background(), 999, owner.ID, model.StatusResolved)
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
