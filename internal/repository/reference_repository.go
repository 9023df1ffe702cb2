package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

// ReferenceRepository обслуживает справочные таблицы: подразделения,
// провода, подшипники, рабочие колеса, оплату труда, спецдокументы.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListSubdivisions(ctx context.Context, ownerID uuid.UUID) ([]model.Subdivision, error) {
	var rows []model.Subdivision
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, created_at
		FROM subdivisions
		WHERE owner_id = ?
		ORDER BY name ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReferenceRepository) CreateSubdivision(ctx context.Context, s model.Subdivision) (*model.Subdivision, error) {
	var saved model.Subdivision
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO subdivisions (owner_id, name)
		VALUES (?, ?)
		RETURNING id, owner_id, name, created_at
	`, s.OwnerID, s.Name).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteSubdivision(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteByID(r.db, ctx, "subdivisions", ownerID, id)
}

func (r *ReferenceRepository) ListWires(ctx context.Context, ownerID uuid.UUID) ([]model.Wire, error) {
	var rows []model.Wire
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, brand, diameter, price, created_at
		FROM wires
		WHERE owner_id = ?
		ORDER BY brand ASC, diameter ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReferenceRepository) CreateWire(ctx context.Context, w model.Wire) (*model.Wire, error) {
	var saved model.Wire
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO wires (owner_id, brand, diameter, price)
		VALUES (?, ?, ?, ?)
		RETURNING id, owner_id, brand, diameter, price, created_at
	`, w.OwnerID, w.Brand, w.Diameter, w.Price).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteWire(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteByID(r.db, ctx, "wires", ownerID, id)
}

func (r *ReferenceRepository) ListBearings(ctx context.Context, ownerID uuid.UUID) ([]model.Bearing, error) {
	var rows []model.Bearing
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, number, kind, price, created_at
		FROM bearings
		WHERE owner_id = ?
		ORDER BY number ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReferenceRepository) CreateBearing(ctx context.Context, b model.Bearing) (*model.Bearing, error) {
	var saved model.Bearing
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO bearings (owner_id, number, kind, price)
		VALUES (?, ?, ?, ?)
		RETURNING id, owner_id, number, kind, price, created_at
	`, b.OwnerID, b.Number, b.Kind, b.Price).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteBearing(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteByID(r.db, ctx, "bearings", ownerID, id)
}

func (r *ReferenceRepository) ListImpellers(ctx context.Context, ownerID uuid.UUID) ([]model.Impeller, error) {
	var rows []model.Impeller
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, size, price, created_at
		FROM impellers
		WHERE owner_id = ?
		ORDER BY name ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReferenceRepository) CreateImpeller(ctx context.Context, im model.Impeller) (*model.Impeller, error) {
	var saved model.Impeller
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO impellers (owner_id, name, size, price)
		VALUES (?, ?, ?, ?)
		RETURNING id, owner_id, name, size, price, created_at
	`, im.OwnerID, im.Name, im.Size, im.Price).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteImpeller(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteByID(r.db, ctx, "impellers", ownerID, id)
}

func (r *ReferenceRepository) ListLaborPayments(ctx context.Context, ownerID uuid.UUID) ([]model.LaborPayment, error) {
	var rows []model.LaborPayment
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, price, created_at
		FROM labor_payments
		WHERE owner_id = ?
		ORDER BY name ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReferenceRepository) CreateLaborPayment(ctx context.Context, lp model.LaborPayment) (*model.LaborPayment, error) {
	var saved model.LaborPayment
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO labor_payments (owner_id, name, price)
		VALUES (?, ?, ?)
		RETURNING id, owner_id, name, price, created_at
	`, lp.OwnerID, lp.Name, lp.Price).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteLaborPayment(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteByID(r.db, ctx, "labor_payments", ownerID, id)
}

func (r *ReferenceRepository) ListSpecialDocuments(ctx context.Context, ownerID uuid.UUID) ([]model.SpecialDocument, error) {
	var rows []model.SpecialDocument
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_id, name, number, doc_date AS date, comment, created_at
		FROM special_documents
		WHERE owner_id = ?
		ORDER BY doc_date DESC, name ASC
	`, ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReferenceRepository) CreateSpecialDocument(ctx context.Context, d model.SpecialDocument) (*model.SpecialDocument, error) {
	var saved model.SpecialDocument
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO special_documents (owner_id, name, number, doc_date, comment)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, owner_id, name, number, doc_date AS date, comment, created_at
	`, d.OwnerID, d.Name, d.Number, d.Date, d.Comment).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteSpecialDocument(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteByID(r.db, ctx, "special_documents", ownerID, id)
}

func (r *ReferenceRepository) ListReferenceTypes(ctx context.Context) ([]model.ReferenceType, error) {
	var rows []model.ReferenceType
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, slug, name FROM reference_types ORDER BY name ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func deleteByID(db *gorm.DB, ctx context.Context, table string, ownerID, id uuid.UUID) error {
	result := db.WithContext(ctx).Exec(
		"DELETE FROM "+table+" WHERE id = ? AND owner_id = ?", id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
