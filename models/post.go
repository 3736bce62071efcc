package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a unit of campaign work. Dates are stored as free-form text
// (YYYY-MM-DD, optionally with a time component) for compatibility with the
// data entry tools upstream; the scheduler normalizes them at read time.
type Post struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CampaignID uuid.UUID `gorm:"type:uuid;index;not null"`

	Title    string `gorm:"type:text;not null"`
	WorkType string `gorm:"type:varchar(100);default:'blog'"`

	StartDate string `gorm:"type:varchar(30)"`
	DueDate   string `gorm:"type:varchar(30)"`

	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	Product   *Product
	Quantity  int `gorm:"default:1"`

	IsActive bool `gorm:"default:true"`

	Campaign Campaign `gorm:"foreignKey:CampaignID"`

	gorm.Model
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}
