package models

// User is an account holder. Password holds a one-way digest, never the plaintext.
type User struct {
	Base
	Name             string  `gorm:"size:150" json:"name"`
	Email            string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password         string  `gorm:"not null" json:"-"`
	RefreshTokenHash string  `gorm:"size:64" json:"-"`
	Entries          []Entry `gorm:"foreignKey:UserID" json:"entries,omitempty"`
}
