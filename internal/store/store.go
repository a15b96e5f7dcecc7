package store

import (
	"context"
	"errors"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/googleauth"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/model"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the requester does not own the item.
	ErrForbidden = errors.New("forbidden")
)

// DefaultListLimit caps item listings when the caller does not ask for a limit.
const DefaultListLimit = 20

// ItemFilter narrows an item listing. Zero-valued fields are not applied;
// the handler layer fills in the "active" status default before calling List.
type ItemFilter struct {
	Type     string
	Category string
	Status   string
	Search   string
	Limit    int
}

// UserStore is the directory of campus accounts, keyed by Google subject id.
type UserStore interface {
	// FindOrCreate looks up the user for the verified claims and creates one
	// on first sign-in. Existing records are returned untouched: repeat logins
	// do not refresh name or picture.
	FindOrCreate(ctx context.Context, claims *googleauth.Claims, domain string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// ItemStore persists lost/found reports.
type ItemStore interface {
	// List returns items matching the filter, newest report first, with the
	// owner's public profile attached.
	List(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	GetByID(ctx context.Context, id uint) (*model.Item, error)
	// Create persists a new report. The caller has already validated enums and
	// lengths and set DateReported, PostedByID, and the contact email.
	Create(ctx context.Context, item *model.Item) error
	// ListByOwner returns every item posted by the owner regardless of status,
	// newest report first.
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Item, error)
	// UpdateStatus moves the item to status on behalf of the requester.
	// Fails with ErrNotFound if the item is absent and ErrForbidden if the
	// requester is not the owner; the status value itself was validated upstream.
	UpdateStatus(ctx context.Context, itemID, requesterID uint, status string) (*model.Item, error)
}
