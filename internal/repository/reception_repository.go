package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

type ReceptionRepository struct {
	db *gorm.DB
}

func NewReceptionRepository(db *gorm.DB) *ReceptionRepository {
	return &ReceptionRepository{db: db}
}

func (r *ReceptionRepository) List(ctx context.Context, ownerID uuid.UUID) ([]model.Reception, error) {
	var rows []model.Reception
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, number, reception_date AS date, counterparty_id,
			counterparty_name, subdivision_name, created_at
		FROM receptions
		WHERE owner_id = ?
		ORDER BY reception_date DESC, number DESC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReceptionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Reception, error) {
	var row model.Reception
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, number, reception_date AS date, counterparty_id,
			counterparty_name, subdivision_name, created_at
		FROM receptions
		WHERE id = ? AND owner_id = ?
		LIMIT 1
	`, id, ownerID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// Create сохраняет приемку вместе с позициями и строками одной транзакцией.
func (r *ReceptionRepository) Create(
	ctx context.Context,
	reception model.Reception,
	positions []model.AcceptedMotor,
	items []model.ReceptionItem,
) (*model.Reception, error) {
	var saved model.Reception
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO receptions (owner_id, number, reception_date, counterparty_id, counterparty_name, subdivision_name)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id, owner_id, number, reception_date AS date, counterparty_id,
				counterparty_name, subdivision_name, created_at
		`, reception.OwnerID, reception.Number, reception.Date, reception.CounterpartyID,
			reception.CounterpartyName, reception.SubdivisionName).Scan(&saved).Error
		if err != nil {
			return err
		}

		for _, pos := range positions {
			if err := tx.Exec(`
				INSERT INTO accepted_motors (owner_id, reception_id, motor_id, position_number, service_description, inventory_number)
				VALUES (?, ?, ?, ?, ?, ?)
			`, reception.OwnerID, saved.ID, pos.MotorID, pos.PositionNumber,
				pos.ServiceDescription, pos.InventoryNumber).Error; err != nil {
				return err
			}
		}

		return insertItems(tx, saved, items)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReceptionRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM receptions WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReceptionRepository) ListItems(ctx context.Context, ownerID, receptionID uuid.UUID) ([]model.ReceptionItem, error) {
	var rows []model.ReceptionItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, owner_id, reception_id, reception_number, reception_date,
			counterparty_name, subdivision_name, position_number,
			service_description, item_name, work_group, transaction_type,
			price, quantity, inventory_number, motor_id,
			upd_document_id, upd_document_number, created_at
		FROM reception_items
		WHERE reception_id = ? AND owner_id = ?
		ORDER BY sort_order ASC
	`, receptionID, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceItems перезаписывает строки приемки новым набором одной
// транзакцией; идентификаторы строк сохраняются как переданы.
func (r *ReceptionRepository) ReplaceItems(ctx context.Context, reception model.Reception, items []model.ReceptionItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			DELETE FROM reception_items WHERE reception_id = ? AND owner_id = ?
		`, reception.ID, reception.OwnerID).Error; err != nil {
			return err
		}
		return insertItems(tx, reception, items)
	})
}

// HasLinkedItems — есть ли у приемки строки, включённые в УПД.
func (r *ReceptionRepository) HasLinkedItems(ctx context.Context, ownerID, receptionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM reception_items
		WHERE reception_id = ? AND owner_id = ? AND upd_document_id IS NOT NULL
	`, receptionID, ownerID).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReceptionRepository) ListPositions(ctx context.Context, ownerID, receptionID uuid.UUID) ([]model.AcceptedMotor, error) {
	var rows []model.AcceptedMotor
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, reception_id, motor_id, position_number,
			service_description, inventory_number, created_at
		FROM accepted_motors
		WHERE reception_id = ? AND owner_id = ?
		ORDER BY position_number ASC
	`, receptionID, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// insertItems пишет строки в переданном порядке: sort_order — позиция
// в срезе, по нему ListItems восстанавливает порядок появления.
func insertItems(tx *gorm.DB, reception model.Reception, items []model.ReceptionItem) error {
	for i, item := range items {
		id := item.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if err := tx.Exec(`
			INSERT INTO reception_items (
				id, owner_id, reception_id, reception_number, reception_date,
				counterparty_name, subdivision_name, position_number,
				service_description, item_name, work_group, transaction_type,
				price, quantity, inventory_number, motor_id,
				upd_document_id, upd_document_number, sort_order
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			reception.OwnerID,
			reception.ID,
			reception.Number,
			reception.Date,
			reception.CounterpartyName,
			item.SubdivisionName,
			item.PositionNumber,
			item.ServiceDescription,
			item.ItemName,
			item.WorkGroup,
			item.TransactionType,
			item.Price,
			item.Quantity,
			item.InventoryNumber,
			item.MotorID,
			item.UPDDocumentID,
			item.UPDDocumentNumber,
			i,
		).Error; err != nil {
			return err
		}
	}
	return nil
}
