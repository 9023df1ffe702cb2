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

type TemplateRepo interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.ReceptionTemplate, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.ReceptionTemplate, []model.ReceptionTemplateItem, error)
	Create(ctx context.Context, template model.ReceptionTemplate, items []model.ReceptionTemplateItem) (*model.ReceptionTemplate, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type TemplateItemInput struct {
	ItemName        string  `json:"itemName" binding:"required"`
	WorkGroup       string  `json:"workGroup"`
	TransactionType string  `json:"transactionType" binding:"required"`
	Price           float64 `json:"price"`
	Quantity        float64 `json:"quantity"`
}

type CreateTemplateInput struct {
	Name  string              `json:"name" binding:"required"`
	Items []TemplateItemInput `json:"items" binding:"required,min=1"`
}

// TemplateService хранит шаблоны типовых наборов строк, которые
// подставляются в новую позицию приемки одним действием.
type TemplateService struct {
	repo TemplateRepo
}

func NewTemplateService(repo TemplateRepo) *TemplateService {
	return &TemplateService{repo: repo}
}

func (s *TemplateService) List(ctx context.Context, principal model.Principal) ([]model.ReceptionTemplate, error) {
	return s.repo.List(ctx, principal.UserID)
}

func (s *TemplateService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.ReceptionTemplate, []model.ReceptionTemplateItem, error) {
	template, items, err := s.repo.GetByID(ctx, principal.UserID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return template, items, nil
}

func (s *TemplateService) Create(ctx context.Context, principal model.Principal, in CreateTemplateInput) (*model.ReceptionTemplate, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: наименование шаблона обязательно", ErrInvalidInput)
	}
	items := make([]model.ReceptionTemplateItem, 0, len(in.Items))
	for i, item := range in.Items {
		tx := model.TransactionType(item.TransactionType)
		if tx != model.TransactionIncome && tx != model.TransactionExpense {
			return nil, fmt.Errorf("%w: неизвестный тип транзакции %q", ErrInvalidInput, item.TransactionType)
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, model.ReceptionTemplateItem{
			ItemName:        strings.TrimSpace(item.ItemName),
			WorkGroup:       strings.TrimSpace(item.WorkGroup),
			TransactionType: tx,
			Price:           item.Price,
			Quantity:        qty,
			SortOrder:       i,
		})
	}
	template := model.ReceptionTemplate{
		OwnerID: principal.UserID,
		Name:    strings.TrimSpace(in.Name),
	}
	return s.repo.Create(ctx, template, items)
}

func (s *TemplateService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, principal.UserID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
