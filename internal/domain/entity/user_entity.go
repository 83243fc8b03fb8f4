package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash and never serialized.
//
// Removing a user cascades to the posts, comments and likes it owns.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"size:64;not null;uniqueIndex"`
	Email          string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash   string `gorm:"column:hashed_password;not null"`
	Age            *int
	ProfilePicture *string
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"not null"`

	Posts    []Post    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Comments []Comment `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Likes    []Like    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
