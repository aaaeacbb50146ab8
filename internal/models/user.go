// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	DisplayName  string   `json:"displayName" gorm:"size:50;not null"`
	PasswordHash string   `json:"-" gorm:"size:255"`
	Height       *int     `json:"height"`
	BodyType     BodyType `json:"bodyType,omitempty" gorm:"type:varchar(20)"`
	Gender       Gender   `json:"gender,omitempty" gorm:"type:varchar(20)"`
	AvatarURL    string   `json:"avatarUrl,omitempty" gorm:"size:1024"`

	// Relationships
	ClothingItems []ClothingItem `json:"-" gorm:"foreignKey:UserID"`
	Looks         []Look         `json:"-" gorm:"foreignKey:UserID"`
}

// AuthUser is the identity carried inside access tokens and returned by /me.
type AuthUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) ToAuthUser() AuthUser {
	return AuthUser{ID: u.ID.String(), Email: u.Email, DisplayName: u.DisplayName}
}
