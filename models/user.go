package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level of an account.
type Role string

const (
	RoleUser   Role = "USER"
	RoleLawyer Role = "LAWYER"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleLawyer, RoleAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may claim and complete lawyer reviews.
func (r Role) CanReview() bool {
	return r == RoleLawyer || r == RoleAdmin
}

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	Phone        string     `json:"phone,omitempty"`
	PersonalCode string     `gorm:"size:11" json:"-"`
	Role         Role       `gorm:"not null;default:USER" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

// MarshalJSON exposes only the masked personal code.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		alias
		PersonalCode string `json:"personal_code,omitempty"`
	}{
		alias:        alias(u),
		PersonalCode: MaskPersonalCode(u.PersonalCode),
	})
}

// MaskPersonalCode keeps the first three digits and the last three, e.g. 385*****123.
func MaskPersonalCode(code string) string {
	if len(code) != 11 {
		return ""
	}
	return code[:3] + "*****" + code[8:]
}
