package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/excel"
	"github.com/remservice/motor-backoffice/internal/grouping"
	"github.com/remservice/motor-backoffice/internal/model"
)

type ReceptionRepo interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Reception, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Reception, error)
	Create(ctx context.Context, reception model.Reception, positions []model.AcceptedMotor, items []model.ReceptionItem) (*model.Reception, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListItems(ctx context.Context, ownerID, receptionID uuid.UUID) ([]model.ReceptionItem, error)
	ReplaceItems(ctx context.Context, reception model.Reception, items []model.ReceptionItem) error
	HasLinkedItems(ctx context.Context, ownerID, receptionID uuid.UUID) (bool, error)
	ListPositions(ctx context.Context, ownerID, receptionID uuid.UUID) ([]model.AcceptedMotor, error)
}

type UPDStatusRepo interface {
	ListStatuses(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]model.UPDStatus, error)
}

type ReceptionService struct {
	receptions ReceptionRepo
	updStatus  UPDStatusRepo
	baseURL    string
	log        zerolog.Logger
}

func NewReceptionService(receptions ReceptionRepo, updStatus UPDStatusRepo, baseURL string, log zerolog.Logger) *ReceptionService {
	return &ReceptionService{
		receptions: receptions,
		updStatus:  updStatus,
		baseURL:    baseURL,
		log:        log,
	}
}

type NewItemInput struct {
	PositionNumber     int                   `json:"position_number" binding:"required"`
	ServiceDescription string                `json:"service_description"`
	ItemName           string                `json:"item_name" binding:"required"`
	WorkGroup          string                `json:"work_group"`
	TransactionType    model.TransactionType `json:"transaction_type" binding:"required"`
	Price              float64               `json:"price"`
	Quantity           float64               `json:"quantity"`
	SubdivisionName    string                `json:"subdivision_name"`
	InventoryNumber    string                `json:"inventory_number"`
	MotorID            *uuid.UUID            `json:"motor_id"`
}

type CreateReceptionInput struct {
	Number           string         `json:"number" binding:"required"`
	Date             string         `json:"date" binding:"required"`
	CounterpartyID   *uuid.UUID     `json:"counterparty_id"`
	CounterpartyName string         `json:"counterparty_name" binding:"required"`
	SubdivisionName  string         `json:"subdivision_name"`
	Items            []NewItemInput `json:"items"`
}

func (s *ReceptionService) List(ctx context.Context, principal model.Principal) ([]model.Reception, error) {
	return s.receptions.List(ctx, principal.UserID)
}

func (s *ReceptionService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Reception, []model.ReceptionItem, error) {
	reception, err := s.receptions.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, nil, translate(err)
	}
	items, err := s.receptions.ListItems(ctx, principal.UserID, id)
	if err != nil {
		return nil, nil, err
	}
	return reception, items, nil
}

func (s *ReceptionService) Create(ctx context.Context, principal model.Principal, input CreateReceptionInput) (*model.Reception, error) {
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, input.Date)
	}
	reception := model.Reception{
		OwnerID:          principal.UserID,
		Number:           input.Number,
		Date:             date,
		CounterpartyID:   input.CounterpartyID,
		CounterpartyName: input.CounterpartyName,
		SubdivisionName:  input.SubdivisionName,
	}

	items := make([]model.ReceptionItem, 0, len(input.Items))
	for _, in := range input.Items {
		item, err := s.newItem(principal, reception, in)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	saved, err := s.receptions.Create(ctx, reception, buildPositions(items), items)
	if err != nil {
		return nil, translate(err)
	}
	return saved, nil
}

// Delete удаляет приемку целиком; при наличии строк, включённых в УПД,
// удаление отклоняется.
func (s *ReceptionService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	linked, err := s.receptions.HasLinkedItems(ctx, principal.UserID, id)
	if err != nil {
		return err
	}
	if linked {
		return fmt.Errorf("%w: приемка содержит строки, включённые в УПД", ErrLinkedItem)
	}
	return translate(s.receptions.Delete(ctx, principal.UserID, id))
}

// PreviewNode — уровень дерева предпросмотра вместе с итогами.
type PreviewPosition struct {
	PositionNumber     int             `json:"position_number"`
	ServiceDescription string          `json:"service_description"`
	Totals             grouping.Totals `json:"totals"`
	Groups             []PreviewGroup  `json:"groups"`
}

type PreviewGroup struct {
	Name   string            `json:"name"`
	Label  string            `json:"label"`
	Totals grouping.Totals   `json:"totals"`
	Items  []PreviewBaseItem `json:"items"`
}

type PreviewBaseItem struct {
	BaseName string                `json:"base_name"`
	Totals   grouping.Totals       `json:"totals"`
	Income   []model.ReceptionItem `json:"income"`
	Expense  []model.ReceptionItem `json:"expense"`
}

type Preview struct {
	Reception model.Reception   `json:"reception"`
	Totals    grouping.Totals   `json:"totals"`
	Positions []PreviewPosition `json:"positions"`
}

// Preview собирает дерево предпросмотра из актуального плоского списка.
// Дерево не хранится и не кешируется.
func (s *ReceptionService) Preview(ctx context.Context, principal model.Principal, id uuid.UUID) (*Preview, error) {
	reception, items, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Reception: *reception,
		Totals:    grouping.Sum(items),
		Positions: buildPreview(items),
	}, nil
}

// BuildPreviewTree — предпросмотр по произвольному списку строк (лист
// импорта до сохранения, карточка двигателя).
func BuildPreviewTree(items []model.ReceptionItem) ([]PreviewPosition, grouping.Totals) {
	return buildPreview(items), grouping.Sum(items)
}

func buildPreview(items []model.ReceptionItem) []PreviewPosition {
	tree := grouping.Build(items)
	positions := make([]PreviewPosition, 0, len(tree))
	for _, pos := range tree {
		preview := PreviewPosition{
			PositionNumber:     pos.PositionNumber,
			ServiceDescription: pos.ServiceDescription,
			Totals:             pos.Totals(),
		}
		for _, group := range pos.Groups {
			pg := PreviewGroup{
				Name:   group.Name,
				Label:  group.Label(),
				Totals: group.Totals(),
			}
			for _, base := range group.Items {
				pg.Items = append(pg.Items, PreviewBaseItem{
					BaseName: base.BaseName,
					Totals:   base.Totals(),
					Income:   base.Income,
					Expense:  base.Expense,
				})
			}
			preview.Groups = append(preview.Groups, pg)
		}
		positions = append(positions, preview)
	}
	return positions
}

type ItemChangeInput struct {
	ItemName        *string                `json:"item_name"`
	WorkGroup       *string                `json:"work_group"`
	Price           *float64               `json:"price"`
	Quantity        *float64               `json:"quantity"`
	TransactionType *model.TransactionType `json:"transaction_type"`
}

func (s *ReceptionService) UpdateItem(ctx context.Context, principal model.Principal, receptionID, itemID uuid.UUID, change ItemChangeInput) error {
	return s.mutate(ctx, principal, receptionID, func(items []model.ReceptionItem) ([]model.ReceptionItem, error) {
		return grouping.UpdateItem(items, itemID, grouping.ItemChange{
			ItemName:        change.ItemName,
			WorkGroup:       change.WorkGroup,
			Price:           change.Price,
			Quantity:        change.Quantity,
			TransactionType: change.TransactionType,
		})
	})
}

func (s *ReceptionService) RenameBaseItem(ctx context.Context, principal model.Principal, receptionID uuid.UUID, positionNumber int, workGroup, baseName, newBaseName string) error {
	if newBaseName == "" {
		return fmt.Errorf("%w: new name is required", ErrInvalidInput)
	}
	return s.mutate(ctx, principal, receptionID, func(items []model.ReceptionItem) ([]model.ReceptionItem, error) {
		return grouping.RenameBaseItem(items, positionNumber, workGroup, baseName, newBaseName)
	})
}

func (s *ReceptionService) DeleteItem(ctx context.Context, principal model.Principal, receptionID, itemID uuid.UUID) error {
	return s.mutate(ctx, principal, receptionID, func(items []model.ReceptionItem) ([]model.ReceptionItem, error) {
		return grouping.DeleteItem(items, itemID)
	})
}

func (s *ReceptionService) InsertItem(ctx context.Context, principal model.Principal, receptionID uuid.UUID, input NewItemInput) error {
	reception, err := s.receptions.GetByID(ctx, principal.UserID, receptionID)
	if err != nil {
		return translate(err)
	}
	item, err := s.newItem(principal, *reception, input)
	if err != nil {
		return err
	}
	return s.mutate(ctx, principal, receptionID, func(items []model.ReceptionItem) ([]model.ReceptionItem, error) {
		return grouping.InsertItem(items, item), nil
	})
}

func (s *ReceptionService) DuplicatePosition(ctx context.Context, principal model.Principal, receptionID uuid.UUID, positionNumber int) (int, error) {
	newNumber := 0
	err := s.mutate(ctx, principal, receptionID, func(items []model.ReceptionItem) ([]model.ReceptionItem, error) {
		result, number, err := grouping.DuplicatePosition(items, positionNumber)
		newNumber = number
		return result, err
	})
	return newNumber, err
}

// DeletePosition удаляет позицию после явного подтверждения.
func (s *ReceptionService) DeletePosition(ctx context.Context, principal model.Principal, receptionID uuid.UUID, positionNumber int, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("%w: удаление позиции требует подтверждения", ErrInvalidInput)
	}
	return s.mutate(ctx, principal, receptionID, func(items []model.ReceptionItem) ([]model.ReceptionItem, error) {
		return grouping.DeletePosition(items, positionNumber)
	})
}

// mutate выполняет правку над свежим плоским списком и сохраняет
// результат целиком. При ошибке согласования ничего не пишется.
func (s *ReceptionService) mutate(
	ctx context.Context,
	principal model.Principal,
	receptionID uuid.UUID,
	apply func([]model.ReceptionItem) ([]model.ReceptionItem, error),
) error {
	reception, err := s.receptions.GetByID(ctx, principal.UserID, receptionID)
	if err != nil {
		return translate(err)
	}
	items, err := s.receptions.ListItems(ctx, principal.UserID, receptionID)
	if err != nil {
		return err
	}

	updated, err := apply(items)
	if err != nil {
		return translateGrouping(err)
	}
	return s.receptions.ReplaceItems(ctx, *reception, updated)
}

func (s *ReceptionService) newItem(principal model.Principal, reception model.Reception, in NewItemInput) (model.ReceptionItem, error) {
	if in.TransactionType != model.TransactionIncome && in.TransactionType != model.TransactionExpense {
		return model.ReceptionItem{}, fmt.Errorf("%w: неизвестный тип транзакции %q", ErrInvalidInput, in.TransactionType)
	}
	if in.PositionNumber <= 0 {
		return model.ReceptionItem{}, fmt.Errorf("%w: номер позиции должен быть положительным", ErrInvalidInput)
	}

	subdivision := in.SubdivisionName
	if subdivision == "" {
		subdivision = reception.SubdivisionName
	}

	return model.ReceptionItem{
		ID:                 uuid.New(),
		OwnerID:            principal.UserID,
		ReceptionID:        reception.ID,
		ReceptionNumber:    reception.Number,
		ReceptionDate:      reception.Date,
		CounterpartyName:   reception.CounterpartyName,
		SubdivisionName:    subdivision,
		PositionNumber:     in.PositionNumber,
		ServiceDescription: in.ServiceDescription,
		ItemName:           in.ItemName,
		WorkGroup:          in.WorkGroup,
		TransactionType:    in.TransactionType,
		Price:              normalizePrice(in.TransactionType, in.Price),
		Quantity:           in.Quantity,
		InventoryNumber:    in.InventoryNumber,
		MotorID:            in.MotorID,
	}, nil
}

// ImportResult — итог загрузки листа приемок.
type ImportResult struct {
	Receptions []model.Reception `json:"receptions"`
	RowCount   int               `json:"row_count"`
	Warnings   []string          `json:"warnings"`
}

// ImportWorkbook разбирает лист xlsx и создаёт по приемке на каждый
// встреченный номер. Строки без обязательных полей пропускаются.
func (s *ReceptionService) ImportWorkbook(ctx context.Context, principal model.Principal, data []byte) (*ImportResult, error) {
	rows, warnings, err := excel.ParseReceptionWorkbook(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, warning := range warnings {
		s.log.Warn().Str("warning", warning).Msg("import row skipped")
	}
	if len(rows) == 0 {
		return &ImportResult{Warnings: warnings}, nil
	}

	type key struct{ number, date, counterparty string }
	grouped := make(map[key][]excel.ImportedRow)
	var order []key
	for _, row := range rows {
		k := key{row.ReceptionNumber, row.ReceptionDate, row.CounterpartyName}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], row)
	}

	result := &ImportResult{RowCount: len(rows), Warnings: warnings}
	for _, k := range order {
		date, err := time.Parse("2006-01-02", k.date)
		if err != nil {
			return nil, fmt.Errorf("%w: дата %q", ErrInvalidInput, k.date)
		}
		reception := model.Reception{
			OwnerID:          principal.UserID,
			Number:           k.number,
			Date:             date,
			CounterpartyName: k.counterparty,
			SubdivisionName:  grouped[k][0].SubdivisionName,
		}

		items := make([]model.ReceptionItem, 0, len(grouped[k]))
		for _, row := range grouped[k] {
			items = append(items, model.ReceptionItem{
				ID:                 uuid.New(),
				OwnerID:            principal.UserID,
				ReceptionNumber:    row.ReceptionNumber,
				ReceptionDate:      date,
				CounterpartyName:   row.CounterpartyName,
				SubdivisionName:    row.SubdivisionName,
				PositionNumber:     row.PositionNumber,
				ServiceDescription: row.ServiceDescription,
				ItemName:           row.ItemName,
				WorkGroup:          row.WorkGroup,
				TransactionType:    model.TransactionType(row.TransactionType),
				Price:              normalizePrice(model.TransactionType(row.TransactionType), row.Price),
				Quantity:           row.Quantity,
				InventoryNumber:    row.InventoryNumber,
			})
		}

		saved, err := s.receptions.Create(ctx, reception, buildPositions(items), items)
		if err != nil {
			return nil, translate(err)
		}
		result.Receptions = append(result.Receptions, *saved)
	}
	return result, nil
}

// ExportWorkbook выгружает приемку одним плоским листом.
func (s *ReceptionService) ExportWorkbook(ctx context.Context, principal model.Principal, id uuid.UUID) (string, []byte, error) {
	reception, items, err := s.Get(ctx, principal, id)
	if err != nil {
		return "", nil, err
	}
	statuses, err := s.updStatus.ListStatuses(ctx, principal.UserID)
	if err != nil {
		return "", nil, err
	}

	content, err := excel.BuildWorkbook("Приемка "+reception.Number, items, statuses, s.baseURL)
	if err != nil {
		return "", nil, err
	}
	fileName := fmt.Sprintf("reception-%s-%s.xlsx", sanitizeFileName(reception.Number), reception.Date.Format("20060102"))
	return fileName, content, nil
}

// normalizePrice приводит знак: расходы хранятся отрицательными,
// прибыль считается простой суммой. Положительные расходные суммы
// с листа импорта инвертируются.
func normalizePrice(tx model.TransactionType, price float64) float64 {
	if tx == model.TransactionExpense && price > 0 {
		return -price
	}
	return price
}

// buildPositions выводит позиции приемки из её строк.
func buildPositions(items []model.ReceptionItem) []model.AcceptedMotor {
	byNumber := make(map[int]model.AcceptedMotor)
	for _, item := range items {
		pos, ok := byNumber[item.PositionNumber]
		if !ok {
			pos = model.AcceptedMotor{
				PositionNumber:     item.PositionNumber,
				ServiceDescription: item.ServiceDescription,
				InventoryNumber:    item.InventoryNumber,
				MotorID:            item.MotorID,
			}
		}
		if pos.ServiceDescription == "" {
			pos.ServiceDescription = item.ServiceDescription
		}
		if pos.InventoryNumber == "" {
			pos.InventoryNumber = item.InventoryNumber
		}
		if pos.MotorID == nil {
			pos.MotorID = item.MotorID
		}
		byNumber[item.PositionNumber] = pos
	}

	numbers := make([]int, 0, len(byNumber))
	for number := range byNumber {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	positions := make([]model.AcceptedMotor, 0, len(numbers))
	for _, number := range numbers {
		positions = append(positions, byNumber[number])
	}
	return positions
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "duplicate key") {
		return fmt.Errorf("%w: приемка с таким номером уже есть", ErrConflict)
	}
	return err
}

func translateGrouping(err error) error {
	switch {
	case errors.Is(err, grouping.ErrItemLinked):
		return fmt.Errorf("%w: строка включена в УПД", ErrLinkedItem)
	case errors.Is(err, grouping.ErrItemNotFound), errors.Is(err, grouping.ErrPositionNotFound):
		return ErrNotFound
	default:
		return err
	}
}
