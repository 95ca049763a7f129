package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/okr-dashboard/internal"
	okrDatamodel "github.com/frahmantamala/okr-dashboard/internal/core/datamodel/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/objective"
)

// ObjectiveRepository stores the objective tree across the objectives,
// key_results, milestones and milestone_attachments tables.
type ObjectiveRepository struct {
	db *gorm.DB
}

func NewObjectiveRepository(db *gorm.DB) objective.Repository {
	return &ObjectiveRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *ObjectiveRepository) Graph(ctx context.Context) (*okr.Graph, error) {
	db := r.db.WithContext(ctx)

	var rows []okrDatamodel.Objective
	err := db.
		Preload("KeyResults", byPosition).
		Preload("KeyResults.Milestones", byPosition).
		Order("position ASC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var attachmentRows []okrDatamodel.Attachment
	if err := db.Order("key_result_id, milestone_id, position").Find(&attachmentRows).Error; err != nil {
		return nil, err
	}
	attachments := okrDatamodel.GroupAttachments(attachmentRows)

	objectives := make([]*okr.Objective, 0, len(rows))
	for _, row := range rows {
		objectives = append(objectives, row.ToDomain(attachments))
	}
	return okr.NewGraph(objectives...), nil
}

// Create appends the objective, with its key results and milestones, after
// the existing ones.
func (r *ObjectiveRepository) Create(ctx context.Context, o *okr.Objective) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&okrDatamodel.Objective{}).Count(&count).Error; err != nil {
			return err
		}

		row, attachments := okrDatamodel.FromDomain(o, int(count))
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if len(attachments) > 0 {
			return tx.Create(&attachments).Error
		}
		return nil
	})
}

func (r *ObjectiveRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var keyResultIDs []string
		err := tx.Model(&okrDatamodel.KeyResult{}).
			Where("objective_id = ?", id).
			Pluck("id", &keyResultIDs).Error
		if err != nil {
			return err
		}

		if len(keyResultIDs) > 0 {
			if err := tx.Where("key_result_id IN ?", keyResultIDs).Delete(&okrDatamodel.Attachment{}).Error; err != nil {
				return fmt.Errorf("delete attachments: %w", err)
			}
			if err := tx.Where("key_result_id IN ?", keyResultIDs).Delete(&okrDatamodel.Milestone{}).Error; err != nil {
				return fmt.Errorf("delete milestones: %w", err)
			}
			if err := tx.Where("objective_id = ?", id).Delete(&okrDatamodel.KeyResult{}).Error; err != nil {
				return fmt.Errorf("delete key results: %w", err)
			}
		}

		res := tx.Where("id = ?", id).Delete(&okrDatamodel.Objective{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrObjectiveNotFound
		}
		return nil
	})
}

func (r *ObjectiveRepository) AddMilestone(ctx context.Context, keyResultID string, m *okr.Milestone) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&okrDatamodel.KeyResult{}).Where("id = ?", keyResultID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return internal.ErrKeyResultNotFound
		}

		var count int64
		if err := tx.Model(&okrDatamodel.Milestone{}).Where("key_result_id = ?", keyResultID).Count(&count).Error; err != nil {
			return err
		}

		row := okrDatamodel.FromMilestone(keyResultID, m, int(count))
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if attachments := okrDatamodel.FromAttachments(keyResultID, m.ID, m.Attachments); len(attachments) > 0 {
			return tx.Create(&attachments).Error
		}
		return nil
	})
}

func (r *ObjectiveRepository) UpdateMilestoneStatus(ctx context.Context, keyResultID, milestoneID string, status okr.MilestoneStatus) error {
	res := r.db.WithContext(ctx).
		Model(&okrDatamodel.Milestone{}).
		Where("key_result_id = ? AND id = ?", keyResultID, milestoneID).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrMilestoneNotFound
	}
	return nil
}

func (r *ObjectiveRepository) CreateRequest(ctx context.Context, req *objective.Request) error {
	row := okrDatamodel.ObjectiveRequest{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		RequestedBy: req.RequestedBy,
		Status:      string(req.Status),
		CreatedAt:   req.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *ObjectiveRepository) ListRequests(ctx context.Context) ([]objective.Request, error) {
	var rows []okrDatamodel.ObjectiveRequest
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]objective.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, objective.Request{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			RequestedBy: row.RequestedBy,
			Status:      objective.RequestStatus(row.Status),
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}
