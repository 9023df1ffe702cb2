package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

type MotorRepository struct {
	db *gorm.DB
}

func NewMotorRepository(db *gorm.DB) *MotorRepository {
	return &MotorRepository{db: db}
}

func (r *MotorRepository) List(ctx context.Context, ownerID uuid.UUID) ([]model.Motor, error) {
	var rows []model.Motor
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, manufacturer, power_kw, rpm, voltage, inventory_number, notes, created_at
		FROM motors
		WHERE owner_id = ?
		ORDER BY name ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MotorRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Motor, error) {
	var row model.Motor
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, manufacturer, power_kw, rpm, voltage, inventory_number, notes, created_at
		FROM motors
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

func (r *MotorRepository) Create(ctx context.Context, m model.Motor) (*model.Motor, error) {
	var saved model.Motor
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO motors (owner_id, name, manufacturer, power_kw, rpm, voltage, inventory_number, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, owner_id, name, manufacturer, power_kw, rpm, voltage, inventory_number, notes, created_at
	`, m.OwnerID, m.Name, m.Manufacturer, m.PowerKW, m.RPM, m.Voltage, m.InventoryNumber, m.Notes).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Upsert обновляет двигатель по ключу (owner, name); используется импортом CSV.
func (r *MotorRepository) Upsert(ctx context.Context, m model.Motor) (*model.Motor, error) {
	var saved model.Motor
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO motors (owner_id, name, manufacturer, power_kw, rpm, voltage, inventory_number, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, name)
		DO UPDATE SET
			manufacturer = EXCLUDED.manufacturer,
			power_kw = EXCLUDED.power_kw,
			rpm = EXCLUDED.rpm,
			voltage = EXCLUDED.voltage,
			inventory_number = EXCLUDED.inventory_number,
			notes = EXCLUDED.notes
		RETURNING id, owner_id, name, manufacturer, power_kw, rpm, voltage, inventory_number, notes, created_at
	`, m.OwnerID, m.Name, m.Manufacturer, m.PowerKW, m.RPM, m.Voltage, m.InventoryNumber, m.Notes).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *MotorRepository) Update(ctx context.Context, m model.Motor) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE motors
		SET name = ?, manufacturer = ?, power_kw = ?, rpm = ?, voltage = ?, inventory_number = ?, notes = ?
		WHERE id = ? AND owner_id = ?
	`, m.Name, m.Manufacturer, m.PowerKW, m.RPM, m.Voltage, m.InventoryNumber, m.Notes, m.ID, m.OwnerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MotorRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM motors WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListItemsByMotor возвращает строки приемок, относящиеся к двигателю,
// для карточки двигателя.
func (r *MotorRepository) ListItemsByMotor(ctx context.Context, ownerID, motorID uuid.UUID) ([]model.ReceptionItem, error) {
	var rows []model.ReceptionItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, owner_id, reception_id, reception_number, reception_date,
			counterparty_name, subdivision_name, position_number,
			service_description, item_name, work_group, transaction_type,
			price, quantity, inventory_number, motor_id,
			upd_document_id, upd_document_number, created_at
		FROM reception_items
		WHERE owner_id = ? AND motor_id = ?
		ORDER BY created_at ASC, position_number ASC
	`, ownerID, motorID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
