// Package excel читает и формирует книги xlsx с фиксированным набором
// кириллических колонок строк приемки.
package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/remservice/motor-backoffice/internal/model"
)

// Заголовки листа импорта. Обязательны все, кроме ID приемки и
// инвентарного номера.
const (
	ColReceptionID     = "ID приемки"
	ColReceptionDate   = "Дата приемки"
	ColReceptionNumber = "Номер приемки"
	ColCounterparty    = "Контрагент"
	ColSubdivision     = "Подразделение"
	ColPositionNumber  = "Номер позиции"
	ColService         = "Наименование услуги"
	ColItemName        = "Наименование позиции"
	ColWorkGroup       = "Группа работ"
	ColTransactionType = "Тип транзакции"
	ColAmount          = "Сумма"
	ColQuantity        = "Количество"
	ColInventoryNumber = "Инвентарный номер"
)

var requiredColumns = []string{
	ColReceptionDate,
	ColReceptionNumber,
	ColCounterparty,
	ColSubdivision,
	ColPositionNumber,
	ColService,
	ColItemName,
	ColWorkGroup,
	ColTransactionType,
	ColAmount,
	ColQuantity,
}

// ImportedRow — одна распознанная строка листа импорта.
type ImportedRow struct {
	ReceptionID        string
	ReceptionDate      string // YYYY-MM-DD
	ReceptionNumber    string
	CounterpartyName   string
	SubdivisionName    string
	PositionNumber     int
	ServiceDescription string
	ItemName           string
	WorkGroup          string
	TransactionType    string
	Price              float64
	Quantity           float64
	InventoryNumber    string
}

// ParseReceptionWorkbook читает первый лист книги. Строки без
// обязательного поля пропускаются с предупреждением, а не ошибкой.
func ParseReceptionWorkbook(data []byte) ([]ImportedRow, []string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.TrimSpace(header)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}

	var (
		result   []ImportedRow
		warnings []string
	)
	for rowIdx, raw := range rows[1:] {
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(raw) {
				return ""
			}
			return strings.TrimSpace(raw[idx])
		}

		missing := ""
		for _, name := range requiredColumns {
			if cell(name) == "" {
				missing = name
				break
			}
		}
		if missing != "" {
			warnings = append(warnings, fmt.Sprintf("строка %d пропущена: пустое поле %q", rowIdx+2, missing))
			continue
		}

		txType := cell(ColTransactionType)
		if txType != string(model.TransactionIncome) && txType != string(model.TransactionExpense) {
			warnings = append(warnings, fmt.Sprintf("строка %d пропущена: тип транзакции %q", rowIdx+2, txType))
			continue
		}

		position, err := strconv.Atoi(cell(ColPositionNumber))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("строка %d пропущена: номер позиции %q", rowIdx+2, cell(ColPositionNumber)))
			continue
		}
		price, err := parseNumber(cell(ColAmount))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("строка %d пропущена: сумма %q", rowIdx+2, cell(ColAmount)))
			continue
		}
		quantity, err := parseNumber(cell(ColQuantity))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("строка %d пропущена: количество %q", rowIdx+2, cell(ColQuantity)))
			continue
		}
		date, err := normalizeDate(cell(ColReceptionDate))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("строка %d пропущена: дата %q", rowIdx+2, cell(ColReceptionDate)))
			continue
		}

		result = append(result, ImportedRow{
			ReceptionID:        cell(ColReceptionID),
			ReceptionDate:      date,
			ReceptionNumber:    cell(ColReceptionNumber),
			CounterpartyName:   cell(ColCounterparty),
			SubdivisionName:    cell(ColSubdivision),
			PositionNumber:     position,
			ServiceDescription: cell(ColService),
			ItemName:           cell(ColItemName),
			WorkGroup:          cell(ColWorkGroup),
			TransactionType:    txType,
			Price:              price,
			Quantity:           quantity,
			InventoryNumber:    cell(ColInventoryNumber),
		})
	}

	return result, warnings, nil
}

func parseNumber(raw string) (float64, error) {
	raw = strings.ReplaceAll(raw, ",", ".")
	raw = strings.ReplaceAll(raw, " ", "")
	return strconv.ParseFloat(raw, 64)
}

// normalizeDate принимает дату в текстовом виде либо как числовой
// serial xlsx и приводит к YYYY-MM-DD.
func normalizeDate(raw string) (string, error) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", err
		}
		return parsed.Format("2006-01-02"), nil
	}

	layouts := []string{"2006-01-02", "02.01.2006", "02/01/2006"}
	for _, layout := range layouts {
		if parsed, err := parseDate(raw, layout); err == nil {
			return parsed, nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}

func parseDate(raw, layout string) (string, error) {
	parsed, err := time.Parse(layout, raw)
	if err != nil {
		return "", err
	}
	return parsed.Format("2006-01-02"), nil
}
