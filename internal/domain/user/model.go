package user

import (
	"time"

	"cendra-go/internal/domain/access"
)

type User struct {
	ID            int64        `gorm:"primaryKey"`
	Email         string       `gorm:"size:254;not null;uniqueIndex"`
	PasswordHash  string       `gorm:"not null"`
	EntityID      *int64       `gorm:"index"`
	IsEntityAdmin bool         `gorm:"not null;default:false"`
	AffiliateID   *int64       `gorm:"uniqueIndex"`
	Onboarding    access.Stage `gorm:"not null;default:0"`
	CreatedAt     time.Time    `gorm:"autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime"`
}

// Principal is the access identity of the user.
func (u User) Principal() access.Principal {
	return access.Principal{
		UserID:        u.ID,
		Email:         u.Email,
		EntityID:      u.EntityID,
		AffiliateID:   u.AffiliateID,
		IsEntityAdmin: u.IsEntityAdmin,
		Onboarding:    u.Onboarding,
	}
}

// Profile is what the current user sees about itself.
type Profile struct {
	User
	EntityName        *string
	AffiliateName     *string
	AffiliateSurnames *string
	AffiliatePhoto    *string
}

type Session struct {
	User  User
	Token string
}

type RegisterInput struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,secret"`
}

type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}
