// services/resolver.go
package services

import (
	"brandflow-backend/models"

	"gorm.io/gorm"
)

// CandidateItem pairs a post with its campaign for evaluation and message
// formatting. Both are read-only from the scheduler's perspective.
type CandidateItem struct {
	Post     models.Post
	Campaign models.Campaign
}

// CandidateSource resolves which posts a recipient is responsible for. The
// org-chart rules live behind this interface so the scheduler stays testable
// independent of them.
type CandidateSource interface {
	CandidateItems(user models.User) ([]CandidateItem, error)
}

type dbCandidateSource struct {
	db *gorm.DB
}

func NewCandidateSource(db *gorm.DB) CandidateSource {
	return &dbCandidateSource{db: db}
}

// CandidateItems loads the active, due-dated posts of the campaigns the user
// is responsible for. Staff see campaigns they created or are assigned to;
// admins see campaigns they created; clients own nothing here.
func (s *dbCandidateSource) CandidateItems(user models.User) ([]CandidateItem, error) {
	q := s.db.Where("is_active = ?", true)
	switch user.Role {
	case models.RoleStaff:
		q = q.Where("creator_id = ? OR staff_id = ?", user.ID, user.ID)
	case models.RoleSuperAdmin, models.RoleAgencyAdmin:
		q = q.Where("creator_id = ?", user.ID)
	default:
		return nil, nil
	}

	var campaigns []models.Campaign
	if err := q.Find(&campaigns).Error; err != nil {
		return nil, err
	}

	var items []CandidateItem
	for _, campaign := range campaigns {
		var posts []models.Post
		err := s.db.Preload("Product").
			Where("campaign_id = ? AND is_active = ? AND due_date <> ''", campaign.ID, true).
			Find(&posts).Error
		if err != nil {
			return nil, err
		}
		for _, post := range posts {
			items = append(items, CandidateItem{Post: post, Campaign: campaign})
		}
	}
	return items, nil
}
