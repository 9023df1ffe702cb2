package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/excel"
	"github.com/remservice/motor-backoffice/internal/grouping"
	"github.com/remservice/motor-backoffice/internal/model"
	"github.com/remservice/motor-backoffice/internal/repository"
)

type UPDRepo interface {
	ListCandidates(ctx context.Context, ownerID uuid.UUID, counterpartyName string, subdivisionName *string, receptionIDs []uuid.UUID) ([]model.ReceptionItem, error)
	CreateWithLinks(ctx context.Context, doc model.UPDDocument, itemIDs []uuid.UUID) (*model.UPDDocument, error)
	Disband(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID) ([]model.UPDSummary, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.UPDDocument, error)
	ListItems(ctx context.Context, ownerID, updID uuid.UUID) ([]model.ReceptionItem, error)
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status model.UPDStatus) error
	ListStatuses(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]model.UPDStatus, error)
}

type PDFGenerator interface {
	Generate(doc model.UPDDocument, items []model.ReceptionItem) ([]byte, error)
}

type UPDService struct {
	repo    UPDRepo
	pdf     PDFGenerator
	baseURL string
}

func NewUPDService(repo UPDRepo, pdf PDFGenerator, baseURL string) *UPDService {
	return &UPDService{repo: repo, pdf: pdf, baseURL: baseURL}
}

type CandidatesInput struct {
	CounterpartyName string      `json:"counterparty_name" binding:"required"`
	SubdivisionName  *string     `json:"subdivision_name"`
	ReceptionIDs     []uuid.UUID `json:"reception_ids"`
}

type Candidates struct {
	Items  []model.ReceptionItem `json:"items"`
	Totals grouping.Totals       `json:"totals"`
}

// Candidates возвращает непривязанные строки: сначала обязательный
// фильтр по контрагенту, затем необязательные по подразделению и
// выбранным приемкам.
func (s *UPDService) Candidates(ctx context.Context, principal model.Principal, input CandidatesInput) (*Candidates, error) {
	if strings.TrimSpace(input.CounterpartyName) == "" {
		return nil, fmt.Errorf("%w: контрагент обязателен", ErrInvalidInput)
	}
	items, err := s.repo.ListCandidates(ctx, principal.UserID, input.CounterpartyName, input.SubdivisionName, input.ReceptionIDs)
	if err != nil {
		return nil, err
	}
	return &Candidates{Items: items, Totals: grouping.Sum(items)}, nil
}

type CreateUPDInput struct {
	Number           string      `json:"number" binding:"required"`
	Date             string      `json:"date" binding:"required"`
	CounterpartyID   *uuid.UUID  `json:"counterparty_id"`
	CounterpartyName string      `json:"counterparty_name" binding:"required"`
	ItemIDs          []uuid.UUID `json:"item_ids" binding:"required"`
}

// Create создаёт документ и привязывает выбранные строки одной
// логической операцией.
func (s *UPDService) Create(ctx context.Context, principal model.Principal, input CreateUPDInput) (*model.UPDDocument, error) {
	if len(input.ItemIDs) == 0 {
		return nil, fmt.Errorf("%w: не выбраны строки", ErrInvalidInput)
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, input.Date)
	}

	doc, err := s.repo.CreateWithLinks(ctx, model.UPDDocument{
		OwnerID:          principal.UserID,
		Number:           input.Number,
		Date:             date,
		CounterpartyID:   input.CounterpartyID,
		CounterpartyName: input.CounterpartyName,
		Status:           model.UPDStatusInProgress,
	}, input.ItemIDs)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyLinked) {
			return nil, fmt.Errorf("%w: часть строк уже включена в другой УПД", ErrConflict)
		}
		return nil, err
	}
	return doc, nil
}

// Disband расформировывает УПД: документ удаляется, его строки вновь
// доступны для включения. Действие необратимо и требует подтверждения.
func (s *UPDService) Disband(ctx context.Context, principal model.Principal, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("%w: расформирование требует подтверждения", ErrInvalidInput)
	}
	err := s.repo.Disband(ctx, principal.UserID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *UPDService) List(ctx context.Context, principal model.Principal) ([]model.UPDSummary, error) {
	return s.repo.List(ctx, principal.UserID)
}

func (s *UPDService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.UPDDocument, []model.ReceptionItem, error) {
	doc, err := s.repo.GetByID(ctx, principal.UserID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	items, err := s.repo.ListItems(ctx, principal.UserID, id)
	if err != nil {
		return nil, nil, err
	}
	return doc, items, nil
}

func (s *UPDService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.UPDStatus) error {
	if status != model.UPDStatusInProgress && status != model.UPDStatusCompleted {
		return fmt.Errorf("%w: неизвестный статус %q", ErrInvalidInput, status)
	}
	err := s.repo.UpdateStatus(ctx, principal.UserID, id, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ExportWorkbook выгружает строки УПД одним плоским листом.
func (s *UPDService) ExportWorkbook(ctx context.Context, principal model.Principal, id uuid.UUID) (string, []byte, error) {
	doc, items, err := s.Get(ctx, principal, id)
	if err != nil {
		return "", nil, err
	}

	statuses := map[uuid.UUID]model.UPDStatus{doc.ID: doc.Status}
	content, err := excel.BuildWorkbook("УПД "+doc.Number, items, statuses, s.baseURL)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("upd-%s-%s.xlsx", sanitizeFileName(doc.Number), doc.Date.Format("20060102")), content, nil
}

// ExportPDF печатает форму УПД.
func (s *UPDService) ExportPDF(ctx context.Context, principal model.Principal, id uuid.UUID) (string, []byte, error) {
	doc, items, err := s.Get(ctx, principal, id)
	if err != nil {
		return "", nil, err
	}
	content, err := s.pdf.Generate(*doc, items)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("upd-%s-%s.pdf", sanitizeFileName(doc.Number), doc.Date.Format("20060102")), content, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
