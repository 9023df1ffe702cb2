package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) List(ctx context.Context, ownerID uuid.UUID) ([]model.ReceptionTemplate, error) {
	var rows []model.ReceptionTemplate
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, created_at
		FROM reception_templates
		WHERE owner_id = ?
		ORDER BY name ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.ReceptionTemplate, []model.ReceptionTemplateItem, error) {
	var template model.ReceptionTemplate
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, created_at
		FROM reception_templates
		WHERE id = ? AND owner_id = ?
		LIMIT 1
	`, id, ownerID).Scan(&template).Error
	if err != nil {
		return nil, nil, err
	}
	if template.ID == uuid.Nil {
		return nil, nil, gorm.ErrRecordNotFound
	}

	var items []model.ReceptionTemplateItem
	err = r.db.WithContext(ctx).Raw(`
		SELECT id, template_id, item_name, work_group, transaction_type, price, quantity, sort_order
		FROM reception_template_items
		WHERE template_id = ?
		ORDER BY sort_order ASC
	`, template.ID).Scan(&items).Error
	if err != nil {
		return nil, nil, err
	}
	return &template, items, nil
}

func (r *TemplateRepository) Create(ctx context.Context, template model.ReceptionTemplate, items []model.ReceptionTemplateItem) (*model.ReceptionTemplate, error) {
	var saved model.ReceptionTemplate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO reception_templates (owner_id, name)
			VALUES (?, ?)
			RETURNING id, owner_id, name, created_at
		`, template.OwnerID, template.Name).Scan(&saved).Error
		if err != nil {
			return err
		}

		for i, item := range items {
			if err := tx.Exec(`
				INSERT INTO reception_template_items (template_id, item_name, work_group, transaction_type, price, quantity, sort_order)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, saved.ID, item.ItemName, item.WorkGroup, item.TransactionType, item.Price, item.Quantity, i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *TemplateRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM reception_templates WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
