package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/remservice/motor-backoffice/internal/model"
)

type ReportRepo interface {
	ProfitGroups(ctx context.Context, ownerID uuid.UUID, mode model.ReportMode, from, to time.Time) ([]model.ReportGroup, error)
}

// ReportService считает сводку доход/расход/прибыль за период в
// разрезе контрагентов или подразделений.
type ReportService struct {
	repo ReportRepo
}

func NewReportService(repo ReportRepo) *ReportService {
	return &ReportService{repo: repo}
}

type ReportInput struct {
	Mode        string `json:"mode" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

func (s *ReportService) Generate(ctx context.Context, principal model.Principal, input ReportInput) (*model.ProfitReport, error) {
	mode := model.ReportMode(input.Mode)
	if mode != model.ReportModeCounterparty && mode != model.ReportModeSubdivision {
		return nil, fmt.Errorf("%w: неизвестный разрез %q", ErrInvalidInput, input.Mode)
	}
	from, err := time.Parse("2006-01-02", input.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid period_start %q", ErrInvalidInput, input.PeriodStart)
	}
	end, err := time.Parse("2006-01-02", input.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid period_end %q", ErrInvalidInput, input.PeriodEnd)
	}
	if !end.After(from) {
		return nil, fmt.Errorf("%w: конец периода должен быть позже начала", ErrInvalidInput)
	}
	// правая граница не включается
	to := end.AddDate(0, 0, 1)

	groups, err := s.repo.ProfitGroups(ctx, principal.UserID, mode, from, to)
	if err != nil {
		return nil, err
	}

	report := &model.ProfitReport{
		Mode:        mode,
		PeriodStart: from,
		PeriodEnd:   end,
		Groups:      groups,
	}
	for _, group := range groups {
		report.Income += group.Income
		report.Expense += group.Expense
		report.Profit += group.Profit
	}
	return report, nil
}

// ExportWorkbook выгружает сводку одним листом.
func (s *ReportService) ExportWorkbook(ctx context.Context, principal model.Principal, input ReportInput) (string, []byte, error) {
	report, err := s.Generate(ctx, principal, input)
	if err != nil {
		return "", nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Сводка"
	file.SetSheetName("Sheet1", sheet)

	header := []string{groupHeader(report.Mode), "Доходы", "Расходы", "Прибыль", "Строк"}
	for i, title := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, title)
	}
	for i, group := range report.Groups {
		row := i + 2
		set := func(col int, value interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = file.SetCellValue(sheet, cell, value)
		}
		set(1, group.Name)
		set(2, group.Income)
		set(3, group.Expense)
		set(4, group.Profit)
		set(5, group.RowCount)
	}
	totalRow := len(report.Groups) + 2
	setTotal := func(col int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, totalRow)
		_ = file.SetCellValue(sheet, cell, value)
	}
	setTotal(1, "Итого")
	setTotal(2, report.Income)
	setTotal(3, report.Expense)
	setTotal(4, report.Profit)

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "E", 14)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return "", nil, err
	}
	fileName := fmt.Sprintf("report-%s-%s-%s.xlsx",
		report.Mode, report.PeriodStart.Format("20060102"), report.PeriodEnd.Format("20060102"))
	return fileName, buf.Bytes(), nil
}

func groupHeader(mode model.ReportMode) string {
	if mode == model.ReportModeSubdivision {
		return "Подразделение"
	}
	return "Контрагент"
}
