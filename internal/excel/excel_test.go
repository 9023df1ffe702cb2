package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/remservice/motor-backoffice/internal/model"
)

func buildImportSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	file := excelize.NewFile()
	defer file.Close()

	headers := []string{
		ColReceptionDate, ColReceptionNumber, ColCounterparty, ColSubdivision,
		ColPositionNumber, ColService, ColItemName, ColWorkGroup,
		ColTransactionType, ColAmount, ColQuantity, ColInventoryNumber,
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, file.SetCellValue("Sheet1", cell, header))
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, file.SetCellValue("Sheet1", cell, value))
		}
	}

	buf, err := file.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseReceptionWorkbook(t *testing.T) {
	data := buildImportSheet(t, [][]interface{}{
		{"2026-03-05", "ПР-42", "ООО Энергомаш", "Цех 1", "1", "Ремонт двигателя", "Перемотка статора", "Обмоточные работы", "Доходы", "100,50", "2", "ИНВ-7"},
	})

	rows, warnings, err := ParseReceptionWorkbook(data)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "2026-03-05", row.ReceptionDate)
	assert.Equal(t, "ПР-42", row.ReceptionNumber)
	assert.Equal(t, 1, row.PositionNumber)
	assert.Equal(t, "Доходы", row.TransactionType)
	assert.Equal(t, 100.5, row.Price)
	assert.Equal(t, 2.0, row.Quantity)
	assert.Equal(t, "ИНВ-7", row.InventoryNumber)
}

func TestParseSkipsIncompleteRows(t *testing.T) {
	data := buildImportSheet(t, [][]interface{}{
		{"2026-03-05", "ПР-42", "ООО Энергомаш", "Цех 1", "1", "Ремонт", "Перемотка", "Обмоточные работы", "Доходы", "100", "1", ""},
		{"2026-03-05", "ПР-42", "", "Цех 1", "2", "Ремонт", "Балансировка", "Механика", "Доходы", "50", "1", ""},
		{"2026-03-05", "ПР-42", "ООО Энергомаш", "Цех 1", "не число", "Ремонт", "Подшипник", "Механика", "Расходы", "30", "1", ""},
	})

	rows, warnings, err := ParseReceptionWorkbook(data)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, warnings, 2)
}

func TestParseSkipsUnknownTransactionType(t *testing.T) {
	data := buildImportSheet(t, [][]interface{}{
		{"2026-03-05", "ПР-42", "ООО Энергомаш", "Цех 1", "1", "Ремонт", "Перемотка", "Обмоточные работы", "Доходы", "100", "1", ""},
		{"2026-03-05", "ПР-42", "ООО Энергомаш", "Цех 1", "1", "Ремонт", "Прочая услуга", "Обмоточные работы", "Прочее", "100", "2", ""},
	})

	rows, warnings, err := ParseReceptionWorkbook(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Доходы", rows[0].TransactionType)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Прочее")
}

func TestParseRejectsMissingColumn(t *testing.T) {
	file := excelize.NewFile()
	require.NoError(t, file.SetCellValue("Sheet1", "A1", ColReceptionDate))
	buf, err := file.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, file.Close())

	_, _, err = ParseReceptionWorkbook(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ColReceptionNumber)
}

func TestParseAcceptsDottedDate(t *testing.T) {
	data := buildImportSheet(t, [][]interface{}{
		{"05.03.2026", "ПР-42", "ООО Энергомаш", "Цех 1", "1", "Ремонт", "Перемотка", "Обмоточные работы", "Доходы", "100", "1", ""},
	})

	rows, _, err := ParseReceptionWorkbook(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-03-05", rows[0].ReceptionDate)
}

func TestBuildWorkbookRoundTrip(t *testing.T) {
	updID := uuid.New()
	updNumber := "УПД-9"
	items := []model.ReceptionItem{
		{
			ID:               uuid.New(),
			ReceptionID:      uuid.New(),
			ReceptionNumber:  "ПР-42",
			ReceptionDate:    time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			CounterpartyName: "ООО Энергомаш",
			SubdivisionName:  "Цех 1",
			PositionNumber:   1,
			ItemName:         "Перемотка статора",
			WorkGroup:        "Обмоточные работы",
			TransactionType:  model.TransactionIncome,
			Price:            100,
			Quantity:         2,
		},
		{
			ID:                uuid.New(),
			ReceptionID:       uuid.New(),
			ReceptionNumber:   "ПР-42",
			ReceptionDate:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			CounterpartyName:  "ООО Энергомаш",
			PositionNumber:    1,
			ItemName:          "Провод",
			TransactionType:   model.TransactionExpense,
			Price:             -30,
			Quantity:          1,
			UPDDocumentID:     &updID,
			UPDDocumentNumber: &updNumber,
		},
	}
	statuses := map[uuid.UUID]model.UPDStatus{updID: model.UPDStatusCompleted}

	content, err := BuildWorkbook("Приемка ПР-42", items, statuses, "http://localhost:7090")
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	sheet := file.GetSheetList()[0]
	rows, err := file.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportHeaders, rows[0][:len(exportHeaders)])
	assert.Equal(t, "200", rows[1][12])
	assert.Equal(t, "В работе", rows[1][14])
	assert.Equal(t, "Завершен", rows[2][14])
	assert.Equal(t, "УПД-9", rows[2][15])
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "Приемка 42-1", sanitizeSheetName("Приемка 42/1"))
	long := sanitizeSheetName("Приемка с очень длинным номером для проверки обрезки имени")
	assert.LessOrEqual(t, len([]rune(long)), 31)
}
