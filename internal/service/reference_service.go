package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

// CRUD страниц справочников. Отдельно от подбора: модалки работают
// через Search, страницы редактирования ходят сюда.

type CounterpartyInput struct {
	Name     string `json:"name" binding:"required"`
	INN      string `json:"inn"`
	KPP      string `json:"kpp"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IsActive *bool  `json:"isActive"`
}

type MotorInput struct {
	Name            string  `json:"name" binding:"required"`
	Manufacturer    string  `json:"manufacturer"`
	PowerKW         float64 `json:"powerKw"`
	RPM             int     `json:"rpm"`
	Voltage         string  `json:"voltage"`
	InventoryNumber string  `json:"inventoryNumber"`
	Notes           string  `json:"notes"`
}

func (s *LookupService) ListCounterparties(ctx context.Context, principal model.Principal) ([]model.Counterparty, error) {
	return s.counterparties.List(ctx, principal.UserID)
}

func (s *LookupService) CreateCounterparty(ctx context.Context, principal model.Principal, in CounterpartyInput) (*model.Counterparty, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: наименование контрагента обязательно", ErrInvalidInput)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	cp := model.Counterparty{
		OwnerID:  principal.UserID,
		Name:     strings.TrimSpace(in.Name),
		INN:      strings.TrimSpace(in.INN),
		KPP:      strings.TrimSpace(in.KPP),
		Address:  in.Address,
		Phone:    in.Phone,
		Email:    in.Email,
		IsActive: active,
	}
	created, err := s.counterparties.Create(ctx, cp)
	if err != nil {
		return nil, translateReference(err)
	}
	return created, nil
}

func (s *LookupService) UpdateCounterparty(ctx context.Context, principal model.Principal, id uuid.UUID, in CounterpartyInput) (*model.Counterparty, error) {
	current, err := s.counterparties.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, translateReference(err)
	}
	current.Name = strings.TrimSpace(in.Name)
	current.INN = strings.TrimSpace(in.INN)
	current.KPP = strings.TrimSpace(in.KPP)
	current.Address = in.Address
	current.Phone = in.Phone
	current.Email = in.Email
	if in.IsActive != nil {
		current.IsActive = *in.IsActive
	}
	if err := s.counterparties.Update(ctx, *current); err != nil {
		return nil, translateReference(err)
	}
	return current, nil
}

func (s *LookupService) DeleteCounterparty(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return translateReference(s.counterparties.Delete(ctx, principal.UserID, id))
}

func (s *LookupService) ListMotors(ctx context.Context, principal model.Principal) ([]model.Motor, error) {
	return s.motors.List(ctx, principal.UserID)
}

func (s *LookupService) CreateMotor(ctx context.Context, principal model.Principal, in MotorInput) (*model.Motor, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: наименование двигателя обязательно", ErrInvalidInput)
	}
	m := model.Motor{
		OwnerID:         principal.UserID,
		Name:            strings.TrimSpace(in.Name),
		Manufacturer:    in.Manufacturer,
		PowerKW:         in.PowerKW,
		RPM:             in.RPM,
		Voltage:         in.Voltage,
		InventoryNumber: in.InventoryNumber,
		Notes:           in.Notes,
	}
	created, err := s.motors.Create(ctx, m)
	if err != nil {
		return nil, translateReference(err)
	}
	return created, nil
}

func (s *LookupService) UpdateMotor(ctx context.Context, principal model.Principal, id uuid.UUID, in MotorInput) (*model.Motor, error) {
	current, err := s.motors.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, translateReference(err)
	}
	current.Name = strings.TrimSpace(in.Name)
	current.Manufacturer = in.Manufacturer
	current.PowerKW = in.PowerKW
	current.RPM = in.RPM
	current.Voltage = in.Voltage
	current.InventoryNumber = in.InventoryNumber
	current.Notes = in.Notes
	if err := s.motors.Update(ctx, *current); err != nil {
		return nil, translateReference(err)
	}
	return current, nil
}

func (s *LookupService) DeleteMotor(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return translateReference(s.motors.Delete(ctx, principal.UserID, id))
}

func (s *LookupService) ListSubdivisions(ctx context.Context, principal model.Principal) ([]model.Subdivision, error) {
	return s.refs.ListSubdivisions(ctx, principal.UserID)
}

func (s *LookupService) CreateSubdivision(ctx context.Context, principal model.Principal, name string) (*model.Subdivision, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: наименование подразделения обязательно", ErrInvalidInput)
	}
	created, err := s.refs.CreateSubdivision(ctx, model.Subdivision{OwnerID: principal.UserID, Name: name})
	if err != nil {
		return nil, translateReference(err)
	}
	return created, nil
}

func (s *LookupService) DeleteSubdivision(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return translateReference(s.refs.DeleteSubdivision(ctx, principal.UserID, id))
}

func (s *LookupService) ListWires(ctx context.Context, principal model.Principal) ([]model.Wire, error) {
	return s.refs.ListWires(ctx, principal.UserID)
}

func (s *LookupService) CreateWire(ctx context.Context, principal model.Principal, w model.Wire) (*model.Wire, error) {
	if strings.TrimSpace(w.Brand) == "" {
		return nil, fmt.Errorf("%w: марка провода обязательна", ErrInvalidInput)
	}
	w.OwnerID = principal.UserID
	created, err := s.refs.CreateWire(ctx, w)
	if err != nil {
		return nil, translateReference(err)
	}
	return created, nil
}

func (s *LookupService) DeleteWire(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return translateReference(s.refs.DeleteWire(ctx, principal.UserID, id))
}

func (s *LookupService) ListBearings(ctx context.Context, principal model.Principal) ([]model.Bearing, error) {
	return s.refs.ListBearings(ctx, principal.UserID)
}

func (s *LookupService) CreateBearing(ctx context.Context, principal model.Principal, b model.Bearing) (*model.Bearing, error) {
	if strings.TrimSpace(b.Number) == "" {
		return nil, fmt.Errorf("%w: номер подшипника обязателен", ErrInvalidInput)
	}
	b.OwnerID = principal.UserID
	created, err := s.refs.CreateBearing(ctx, b)
	if err != nil {
		return nil, translateReference(err)
	}
	return created, nil
}

func (s *LookupService) DeleteBearing(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return translateReference(s.refs.DeleteBearing(ctx, principal.UserID, id))
}

func (s *LookupService) ListImpellers(ctx context.Context, principal model.Principal) ([]model.Impeller, error) {
	return s.refs.ListImpellers(ctx, principal.UserID)
}

func (s *LookupService) CreateImpeller(ctx context.Context, principal model.Principal, im model.Impeller) (*model.Impeller, error) {
	if strings.TrimSpace(im.Name) == "" {
		return nil, fmt.Errorf("%w: наименование рабочего колеса обязательно", ErrInvalidInput)
	}
	im.OwnerID = principal.UserID
	created, err := s.refs.CreateImpeller(ctx, im)
	if err != nil {
		return nil, translateReference(err)
	}
	return created, nil
}

func (s *LookupService) DeleteImpeller(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return translateReference(s.refs.DeleteImpeller(ctx, principal.UserID, id))
}

func (s *LookupService) ListLaborPayments(ctx context.Context, principal model.Principal) ([]model.LaborPayment, error) {
	return s.refs.ListLaborPayments(ctx, principal.UserID)
}

func (s *LookupService) CreateLaborPayment(ctx context.Context, principal model.Principal, lp model.LaborPayment) (*model.LaborPayment, error) {
	if strings.TrimSpace(lp.Name) == "" {
		return nil, fmt.Errorf("%w: наименование вида работ обязательно", ErrInvalidInput)
	}
	lp.OwnerID = principal.UserID
	created, err := s.refs.CreateLaborPayment(ctx, lp)
	if err != nil {
		return nil, translateReference(err)
	}
	return created, nil
}

func (s *LookupService) DeleteLaborPayment(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return translateReference(s.refs.DeleteLaborPayment(ctx, principal.UserID, id))
}

func (s *LookupService) ListSpecialDocuments(ctx context.Context, principal model.Principal) ([]model.SpecialDocument, error) {
	return s.refs.ListSpecialDocuments(ctx, principal.UserID)
}

func (s *LookupService) CreateSpecialDocument(ctx context.Context, principal model.Principal, d model.SpecialDocument) (*model.SpecialDocument, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, fmt.Errorf("%w: наименование документа обязательно", ErrInvalidInput)
	}
	d.OwnerID = principal.UserID
	created, err := s.refs.CreateSpecialDocument(ctx, d)
	if err != nil {
		return nil, translateReference(err)
	}
	return created, nil
}

func (s *LookupService) DeleteSpecialDocument(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return translateReference(s.refs.DeleteSpecialDocument(ctx, principal.UserID, id))
}

func (s *LookupService) ListReferenceTypes(ctx context.Context) ([]model.ReferenceType, error) {
	return s.refs.ListReferenceTypes(ctx)
}

func translateReference(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "duplicate key") {
		return fmt.Errorf("%w: запись с таким ключом уже есть", ErrConflict)
	}
	return err
}
