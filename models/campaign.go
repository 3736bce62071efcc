package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Campaign struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	CreatorID uuid.UUID `gorm:"type:uuid;index;not null"`

	// Staff member assigned to the campaign, if different from the creator.
	StaffID *uuid.UUID `gorm:"type:uuid;index"`

	ClientCompany string
	IsActive      bool `gorm:"default:true"`

	Posts []Post `gorm:"foreignKey:CampaignID"`

	gorm.Model
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) (err error) {
	c.ID = uuid.New()
	return
}
