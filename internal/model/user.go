package model

import "time"

// User roles. New accounts default to member; admin is assigned out of band.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents a campus account created on first Google sign-in.
type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	GoogleID  string    `json:"googleId" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Picture   string    `json:"picture,omitempty" gorm:"type:text"`
	Domain    string    `json:"domain" gorm:"type:varchar(255);not null"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	Role      string    `json:"role" gorm:"type:varchar(16);default:'member'"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the subset of User fields exposed on items posted by the user.
type Profile struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Picture: u.Picture,
	}
}
