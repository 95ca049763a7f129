package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/okr-dashboard/internal"
	orgDatamodel "github.com/frahmantamala/okr-dashboard/internal/core/datamodel/org"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/organization"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.Repository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) ListUsers(ctx context.Context) ([]org.User, error) {
	var rows []orgDatamodel.User
	if err := r.db.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]org.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.ToDomain())
	}
	return users, nil
}

func (r *OrganizationRepository) UpdateManager(ctx context.Context, memberID, managerID string) error {
	res := r.db.WithContext(ctx).
		Model(&orgDatamodel.User{}).
		Where("id = ?", memberID).
		Update("manager_id", managerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
