package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

type CounterpartyRepository struct {
	db *gorm.DB
}

func NewCounterpartyRepository(db *gorm.DB) *CounterpartyRepository {
	return &CounterpartyRepository{db: db}
}

func (r *CounterpartyRepository) List(ctx context.Context, ownerID uuid.UUID) ([]model.Counterparty, error) {
	var rows []model.Counterparty
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, inn, kpp, address, phone, email, is_active, created_at
		FROM counterparties
		WHERE owner_id = ?
		ORDER BY name ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CounterpartyRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Counterparty, error) {
	var row model.Counterparty
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, inn, kpp, address, phone, email, is_active, created_at
		FROM counterparties
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

func (r *CounterpartyRepository) Create(ctx context.Context, cp model.Counterparty) (*model.Counterparty, error) {
	var saved model.Counterparty
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counterparties (owner_id, name, inn, kpp, address, phone, email, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, owner_id, name, inn, kpp, address, phone, email, is_active, created_at
	`, cp.OwnerID, cp.Name, cp.INN, cp.KPP, cp.Address, cp.Phone, cp.Email, cp.IsActive).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Upsert обновляет контрагента по ключу (owner, inn); строки без ИНН
// сводятся по ключу (owner, name). Используется импортом CSV.
func (r *CounterpartyRepository) Upsert(ctx context.Context, cp model.Counterparty) (*model.Counterparty, error) {
	query := fmt.Sprintf(`
		INSERT INTO counterparties (owner_id, name, inn, kpp, address, phone, email, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		%s
		DO UPDATE SET
			name = EXCLUDED.name,
			kpp = EXCLUDED.kpp,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			is_active = EXCLUDED.is_active
		RETURNING id, owner_id, name, inn, kpp, address, phone, email, is_active, created_at
	`, counterpartyConflictClause(cp.INN))

	var saved model.Counterparty
	err := r.db.WithContext(ctx).Raw(query,
		cp.OwnerID, cp.Name, cp.INN, cp.KPP, cp.Address, cp.Phone, cp.Email, cp.IsActive,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// counterpartyConflictClause выбирает арбитражный индекс: при пустом ИНН
// конфликты ловит частичный индекс по (owner_id, name).
func counterpartyConflictClause(inn string) string {
	if inn == "" {
		return "ON CONFLICT (owner_id, name) WHERE inn = ''"
	}
	return "ON CONFLICT (owner_id, inn) WHERE inn <> ''"
}

func (r *CounterpartyRepository) Update(ctx context.Context, cp model.Counterparty) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE counterparties
		SET name = ?, inn = ?, kpp = ?, address = ?, phone = ?, email = ?, is_active = ?
		WHERE id = ? AND owner_id = ?
	`, cp.Name, cp.INN, cp.KPP, cp.Address, cp.Phone, cp.Email, cp.IsActive, cp.ID, cp.OwnerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CounterpartyRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM counterparties WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
