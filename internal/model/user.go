package model

import "time"

// User — учётная запись DSpace (eperson) стаба.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"uniqueIndex;not null"` // email
	Password string `gorm:"not null"`             // bcrypt hash
	FullName string

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
