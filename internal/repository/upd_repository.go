package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

// ErrAlreadyLinked — часть выбранных строк уже включена в другой УПД.
var ErrAlreadyLinked = errors.New("some items are already linked")

type UPDRepository struct {
	db *gorm.DB
}

func NewUPDRepository(db *gorm.DB) *UPDRepository {
	return &UPDRepository{db: db}
}

// ListCandidates возвращает непривязанные строки владельца: обязательный
// фильтр по контрагенту, необязательные — по подразделению и набору приемок.
func (r *UPDRepository) ListCandidates(
	ctx context.Context,
	ownerID uuid.UUID,
	counterpartyName string,
	subdivisionName *string,
	receptionIDs []uuid.UUID,
) ([]model.ReceptionItem, error) {
	baseQuery := `
		SELECT
			id, owner_id, reception_id, reception_number, reception_date,
			counterparty_name, subdivision_name, position_number,
			service_description, item_name, work_group, transaction_type,
			price, quantity, inventory_number, motor_id,
			upd_document_id, upd_document_number, created_at
		FROM reception_items
		WHERE owner_id = ?
			AND upd_document_id IS NULL
			AND counterparty_name = ?
	`
	args := []interface{}{ownerID, counterpartyName}
	var filters []string
	if subdivisionName != nil {
		filters = append(filters, "subdivision_name = ?")
		args = append(args, *subdivisionName)
	}
	if len(receptionIDs) > 0 {
		placeholders := make([]string, len(receptionIDs))
		for i := range receptionIDs {
			placeholders[i] = "?"
			args = append(args, receptionIDs[i])
		}
		filters = append(filters, fmt.Sprintf("reception_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filters) > 0 {
		baseQuery += " AND " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY reception_date ASC, reception_number ASC, position_number ASC, created_at ASC"

	var rows []model.ReceptionItem
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateWithLinks создаёт документ и привязывает выбранные строки одной
// логической операцией. Если хотя бы одна строка успела попасть в другой
// УПД, транзакция откатывается с ErrAlreadyLinked.
func (r *UPDRepository) CreateWithLinks(ctx context.Context, doc model.UPDDocument, itemIDs []uuid.UUID) (*model.UPDDocument, error) {
	var saved model.UPDDocument
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO upd_documents (owner_id, number, upd_date, counterparty_id, counterparty_name, status)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id, owner_id, number, upd_date AS date, counterparty_id, counterparty_name, status, created_at
		`, doc.OwnerID, doc.Number, doc.Date, doc.CounterpartyID, doc.CounterpartyName, doc.Status).Scan(&saved).Error
		if err != nil {
			return err
		}

		placeholders := make([]string, len(itemIDs))
		args := []interface{}{saved.ID, saved.Number}
		for i := range itemIDs {
			placeholders[i] = "?"
			args = append(args, itemIDs[i])
		}
		args = append(args, doc.OwnerID)

		result := tx.Exec(fmt.Sprintf(`
			UPDATE reception_items
			SET upd_document_id = ?, upd_document_number = ?
			WHERE id IN (%s) AND owner_id = ? AND upd_document_id IS NULL
		`, strings.Join(placeholders, ",")), args...)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(itemIDs)) {
			return ErrAlreadyLinked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Disband удаляет документ и снимает привязку со всех его строк, делая
// их вновь доступными для включения в УПД.
func (r *UPDRepository) Disband(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			UPDATE reception_items
			SET upd_document_id = NULL, upd_document_number = NULL
			WHERE upd_document_id = ? AND owner_id = ?
		`, id, ownerID).Error; err != nil {
			return err
		}

		result := tx.Exec(`
			DELETE FROM upd_documents WHERE id = ? AND owner_id = ?
		`, id, ownerID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *UPDRepository) List(ctx context.Context, ownerID uuid.UUID) ([]model.UPDSummary, error) {
	var rows []model.UPDSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			d.id, d.owner_id, d.number, d.upd_date AS date, d.counterparty_id,
			d.counterparty_name, d.status, d.created_at,
			COUNT(i.id) AS item_count,
			COALESCE(SUM(CASE WHEN i.transaction_type = 'Доходы' THEN i.price * i.quantity ELSE 0 END), 0) AS income_total,
			COALESCE(SUM(CASE WHEN i.transaction_type = 'Расходы' THEN i.price * i.quantity ELSE 0 END), 0) AS expense_total
		FROM upd_documents d
		LEFT JOIN reception_items i ON i.upd_document_id = d.id
		WHERE d.owner_id = ?
		GROUP BY d.id
		ORDER BY d.upd_date DESC, d.number DESC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UPDRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.UPDDocument, error) {
	var row model.UPDDocument
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, number, upd_date AS date, counterparty_id, counterparty_name, status, created_at
		FROM upd_documents
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

func (r *UPDRepository) ListItems(ctx context.Context, ownerID, updID uuid.UUID) ([]model.ReceptionItem, error) {
	var rows []model.ReceptionItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, owner_id, reception_id, reception_number, reception_date,
			counterparty_name, subdivision_name, position_number,
			service_description, item_name, work_group, transaction_type,
			price, quantity, inventory_number, motor_id,
			upd_document_id, upd_document_number, created_at
		FROM reception_items
		WHERE upd_document_id = ? AND owner_id = ?
		ORDER BY reception_number ASC, position_number ASC, created_at ASC
	`, updID, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListStatuses — сохранённые статусы всех УПД владельца, для колонки
// статуса в выгрузках.
func (r *UPDRepository) ListStatuses(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]model.UPDStatus, error) {
	var rows []struct {
		ID     uuid.UUID
		Status model.UPDStatus
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, status FROM upd_documents WHERE owner_id = ?
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	statuses := make(map[uuid.UUID]model.UPDStatus, len(rows))
	for _, row := range rows {
		statuses[row.ID] = row.Status
	}
	return statuses, nil
}

func (r *UPDRepository) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status model.UPDStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE upd_documents SET status = ? WHERE id = ? AND owner_id = ?
	`, status, id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
