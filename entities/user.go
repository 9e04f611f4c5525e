package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	SessionActive   = "active"
	SessionInactive = "inactive"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the Clairity dashboard.
// Status gates login until the email is verified; Session forbids a
// second concurrent login.
type User struct {
	ID               string `gorm:"primaryKey" json:"id"`
	Name             string `json:"name"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string `gorm:"not null" json:"-"`
	Role             string `json:"role"`
	Alerts           bool   `json:"alerts"`
	Status           string `json:"status"`
	Session          string `json:"session"`
	VerificationCode string `json:"-"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	if u.Session == "" {
		u.Session = SessionInactive
	}
	u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	u.UpdatedAt = u.CreatedAt
	return
}
