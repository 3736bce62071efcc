package models

import (
	"brandflow-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleSuperAdmin  = "super_admin"
	RoleAgencyAdmin = "agency_admin"
	RoleStaff       = "staff"
	RoleClient      = "client"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	Name     string    `gorm:"not null"`

	Role    string `gorm:"type:varchar(20);not null"` // super_admin, agency_admin, staff, client
	Company string

	IsActive bool `gorm:"default:true"`

	Campaigns []Campaign `gorm:"foreignKey:CreatorID"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = uuid.New()
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleAgencyAdmin
}
