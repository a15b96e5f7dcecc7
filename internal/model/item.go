package model

import "time"

// Report types.
const (
	TypeLost  = "lost"
	TypeFound = "found"
)

// Item statuses. Every item starts active; the owner may move it to any status.
const (
	StatusActive   = "active"
	StatusClaimed  = "claimed"
	StatusResolved = "resolved"
)

// Categories is the closed set of item categories.
var Categories = []string{
	"electronics", "clothing", "books", "accessories",
	"documents", "keys", "bags", "other",
}

// Field length bounds enforced at the API boundary.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// ContactInfo is how other students reach the reporter. Email is always the
// owner's account email; phone is optional and user-supplied.
type ContactInfo struct {
	Email string `json:"email" gorm:"column:contact_email;type:varchar(255);not null"`
	Phone string `json:"phone,omitempty" gorm:"column:contact_phone;type:varchar(32)"`
}

// Item is a lost or found report posted by a user.
type Item struct {
	ID           uint        `json:"id" gorm:"primarykey"`
	Title        string      `json:"title" gorm:"type:varchar(100);not null"`
	Description  string      `json:"description" gorm:"type:varchar(500);not null"`
	Category     string      `json:"category" gorm:"type:varchar(32);not null;index"`
	Type         string      `json:"type" gorm:"type:varchar(8);not null;index:idx_items_type_status"`
	Location     string      `json:"location" gorm:"type:varchar(255);not null"`
	DateReported time.Time   `json:"dateReported" gorm:"index:,sort:desc"`
	DateOccurred time.Time   `json:"dateOccurred" gorm:"not null"`
	Images       []string    `json:"images" gorm:"serializer:json"`
	PostedByID   uint        `json:"-" gorm:"index;not null"`
	PostedBy     *Profile    `json:"postedBy,omitempty" gorm:"-"`
	Status       string      `json:"status" gorm:"type:varchar(16);not null;default:'active';index:idx_items_type_status"`
	ContactInfo  ContactInfo `json:"contactInfo" gorm:"embedded"`
}

// ValidCategory reports whether s is a member of the category enum.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

// ValidType reports whether s is "lost" or "found".
func ValidType(s string) bool {
	return s == TypeLost || s == TypeFound
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusClaimed || s == StatusResolved
}
