package model

import (
	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null;type:varchar(255)" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Name           string    `gorm:"not null;type:varchar(100)" json:"name"`
	Role           string    `gorm:"not null;default:'user';type:varchar(20)" json:"role"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	BaseModel
}
