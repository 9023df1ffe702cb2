package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/csvimport"
	"github.com/remservice/motor-backoffice/internal/model"
)

type CounterpartyRepo interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Counterparty, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Counterparty, error)
	Create(ctx context.Context, cp model.Counterparty) (*model.Counterparty, error)
	Upsert(ctx context.Context, cp model.Counterparty) (*model.Counterparty, error)
	Update(ctx context.Context, cp model.Counterparty) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type MotorRepo interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Motor, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Motor, error)
	Create(ctx context.Context, m model.Motor) (*model.Motor, error)
	Upsert(ctx context.Context, m model.Motor) (*model.Motor, error)
	Update(ctx context.Context, m model.Motor) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListItemsByMotor(ctx context.Context, ownerID, motorID uuid.UUID) ([]model.ReceptionItem, error)
}

type ReferenceRepo interface {
	ListSubdivisions(ctx context.Context, ownerID uuid.UUID) ([]model.Subdivision, error)
	CreateSubdivision(ctx context.Context, s model.Subdivision) (*model.Subdivision, error)
	DeleteSubdivision(ctx context.Context, ownerID, id uuid.UUID) error
	ListWires(ctx context.Context, ownerID uuid.UUID) ([]model.Wire, error)
	CreateWire(ctx context.Context, w model.Wire) (*model.Wire, error)
	DeleteWire(ctx context.Context, ownerID, id uuid.UUID) error
	ListBearings(ctx context.Context, ownerID uuid.UUID) ([]model.Bearing, error)
	CreateBearing(ctx context.Context, b model.Bearing) (*model.Bearing, error)
	DeleteBearing(ctx context.Context, ownerID, id uuid.UUID) error
	ListImpellers(ctx context.Context, ownerID uuid.UUID) ([]model.Impeller, error)
	CreateImpeller(ctx context.Context, im model.Impeller) (*model.Impeller, error)
	DeleteImpeller(ctx context.Context, ownerID, id uuid.UUID) error
	ListLaborPayments(ctx context.Context, ownerID uuid.UUID) ([]model.LaborPayment, error)
	CreateLaborPayment(ctx context.Context, lp model.LaborPayment) (*model.LaborPayment, error)
	DeleteLaborPayment(ctx context.Context, ownerID, id uuid.UUID) error
	ListSpecialDocuments(ctx context.Context, ownerID uuid.UUID) ([]model.SpecialDocument, error)
	CreateSpecialDocument(ctx context.Context, d model.SpecialDocument) (*model.SpecialDocument, error)
	DeleteSpecialDocument(ctx context.Context, ownerID, id uuid.UUID) error
	ListReferenceTypes(ctx context.Context) ([]model.ReferenceType, error)
}

// LookupService обслуживает справочники: подбор по подстроке для
// модалок, CRUD страниц справочников и импорт CSV.
type LookupService struct {
	counterparties CounterpartyRepo
	motors         MotorRepo
	refs           ReferenceRepo
}

func NewLookupService(counterparties CounterpartyRepo, motors MotorRepo, refs ReferenceRepo) *LookupService {
	return &LookupService{counterparties: counterparties, motors: motors, refs: refs}
}

// Search выполняет подбор по справочнику: подстрочное совпадение без
// учёта регистра по текстовым полям и строковым представлениям числовых.
// Пустой запрос возвращает полный список.
func (s *LookupService) Search(ctx context.Context, principal model.Principal, domain model.ReferenceDomain, query string) ([]model.LookupItem, error) {
	owner := principal.UserID
	switch domain {
	case model.DomainMotors:
		motors, err := s.motors.List(ctx, owner)
		if err != nil {
			return nil, err
		}
		var result []model.LookupItem
		for _, m := range motors {
			if !matchesQuery(query, m.Name, m.Manufacturer, m.Voltage, formatFloat(m.PowerKW), strconv.Itoa(m.RPM)) {
				continue
			}
			result = append(result, model.LookupItem{ID: m.ID, Name: m.Name, Description: m.Manufacturer})
		}
		return result, nil

	case model.DomainCounterparty:
		rows, err := s.counterparties.List(ctx, owner)
		if err != nil {
			return nil, err
		}
		var result []model.LookupItem
		for _, cp := range rows {
			if !matchesQuery(query, cp.Name, cp.INN) {
				continue
			}
			result = append(result, model.LookupItem{ID: cp.ID, Name: cp.Name, Description: cp.INN})
		}
		return result, nil

	case model.DomainSubdivisions:
		rows, err := s.refs.ListSubdivisions(ctx, owner)
		if err != nil {
			return nil, err
		}
		var result []model.LookupItem
		for _, sub := range rows {
			if !matchesQuery(query, sub.Name) {
				continue
			}
			result = append(result, model.LookupItem{ID: sub.ID, Name: sub.Name})
		}
		return result, nil

	case model.DomainWires:
		rows, err := s.refs.ListWires(ctx, owner)
		if err != nil {
			return nil, err
		}
		var result []model.LookupItem
		for _, w := range rows {
			if !matchesQuery(query, w.Brand, formatFloat(w.Diameter)) {
				continue
			}
			price := w.Price
			result = append(result, model.LookupItem{
				ID:          w.ID,
				Name:        fmt.Sprintf("%s %s", w.Brand, formatFloat(w.Diameter)),
				Price:       &price,
				Description: w.Brand,
			})
		}
		return result, nil

	case model.DomainBearings:
		rows, err := s.refs.ListBearings(ctx, owner)
		if err != nil {
			return nil, err
		}
		var result []model.LookupItem
		for _, b := range rows {
			if !matchesQuery(query, b.Number, b.Kind) {
				continue
			}
			price := b.Price
			result = append(result, model.LookupItem{ID: b.ID, Name: "Подшипник " + b.Number, Price: &price, Description: b.Kind})
		}
		return result, nil

	case model.DomainImpellers:
		rows, err := s.refs.ListImpellers(ctx, owner)
		if err != nil {
			return nil, err
		}
		var result []model.LookupItem
		for _, im := range rows {
			if !matchesQuery(query, im.Name, im.Size) {
				continue
			}
			price := im.Price
			result = append(result, model.LookupItem{ID: im.ID, Name: im.Name, Price: &price, Description: im.Size})
		}
		return result, nil

	case model.DomainLaborPayments:
		rows, err := s.refs.ListLaborPayments(ctx, owner)
		if err != nil {
			return nil, err
		}
		var result []model.LookupItem
		for _, lp := range rows {
			if !matchesQuery(query, lp.Name) {
				continue
			}
			price := lp.Price
			result = append(result, model.LookupItem{ID: lp.ID, Name: lp.Name, Price: &price})
		}
		return result, nil

	default:
		return nil, fmt.Errorf("%w: неизвестный справочник %q", ErrInvalidInput, domain)
	}
}

// ImportCounterparties загружает CSV контрагентов: upsert по ключу
// (владелец, ИНН).
func (s *LookupService) ImportCounterparties(ctx context.Context, principal model.Principal, r io.Reader) (int, error) {
	rows, err := csvimport.ParseCounterparties(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, row := range rows {
		row.OwnerID = principal.UserID
		if _, err := s.counterparties.Upsert(ctx, row); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// ImportMotors загружает CSV двигателей: upsert по ключу (владелец, имя).
func (s *LookupService) ImportMotors(ctx context.Context, principal model.Principal, r io.Reader) (int, error) {
	rows, err := csvimport.ParseMotors(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, row := range rows {
		row.OwnerID = principal.UserID
		if _, err := s.motors.Upsert(ctx, row); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// MotorDetails — карточка двигателя: сам двигатель и строки приемок по нему.
func (s *LookupService) MotorDetails(ctx context.Context, principal model.Principal, motorID uuid.UUID) (*model.Motor, []model.ReceptionItem, error) {
	motor, err := s.motors.GetByID(ctx, principal.UserID, motorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	items, err := s.motors.ListItemsByMotor(ctx, principal.UserID, motorID)
	if err != nil {
		return nil, nil, err
	}
	return motor, items, nil
}

func matchesQuery(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
