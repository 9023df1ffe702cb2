package excel

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/remservice/motor-backoffice/internal/model"
)

// exportHeaders — 17 колонок плоской выгрузки приемки или УПД.
var exportHeaders = []string{
	ColReceptionID,
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
	"Итого",
	ColInventoryNumber,
	"Статус",
	"Номер УПД",
	"QR-ссылка",
}

// BuildWorkbook формирует один плоский лист по строкам. Статус строки —
// "В работе", если она не привязана; иначе — сохранённый статус её УПД.
// QR-ссылка ведёт на карточку двигателя: <baseURL>/app/motors/<motorId>.
func BuildWorkbook(
	sheetName string,
	items []model.ReceptionItem,
	updStatuses map[uuid.UUID]model.UPDStatus,
	baseURL string,
) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := sanitizeSheetName(sheetName)
	file.SetSheetName("Sheet1", sheet)

	set := func(col, row int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = file.SetCellValue(sheet, cell, value)
	}

	for i, header := range exportHeaders {
		set(i+1, 1, header)
	}

	for i, item := range items {
		row := i + 2
		set(1, row, item.ReceptionID.String())
		set(2, row, item.ReceptionDate.Format("2006-01-02"))
		set(3, row, item.ReceptionNumber)
		set(4, row, item.CounterpartyName)
		set(5, row, item.SubdivisionName)
		set(6, row, item.PositionNumber)
		set(7, row, item.ServiceDescription)
		set(8, row, item.ItemName)
		set(9, row, item.WorkGroup)
		set(10, row, string(item.TransactionType))
		set(11, row, item.Price)
		set(12, row, item.Quantity)
		set(13, row, item.LineTotal())
		set(14, row, item.InventoryNumber)
		set(15, row, statusLabel(item, updStatuses))
		set(16, row, formatLinkedNumber(item))
		set(17, row, motorURL(baseURL, item))
	}

	_ = file.SetColWidth(sheet, "A", "A", 38)
	_ = file.SetColWidth(sheet, "B", "F", 14)
	_ = file.SetColWidth(sheet, "G", "I", 32)
	_ = file.SetColWidth(sheet, "J", "P", 14)
	_ = file.SetColWidth(sheet, "Q", "Q", 48)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statusLabel(item model.ReceptionItem, updStatuses map[uuid.UUID]model.UPDStatus) string {
	if item.UPDDocumentID == nil {
		return string(model.UPDStatusInProgress)
	}
	if status, ok := updStatuses[*item.UPDDocumentID]; ok {
		return string(status)
	}
	return string(model.UPDStatusInProgress)
}

func formatLinkedNumber(item model.ReceptionItem) string {
	if item.UPDDocumentNumber == nil {
		return ""
	}
	return *item.UPDDocumentNumber
}

func motorURL(baseURL string, item model.ReceptionItem) string {
	if item.MotorID == nil {
		return ""
	}
	return fmt.Sprintf("%s/app/motors/%s", strings.TrimRight(baseURL, "/"), item.MotorID.String())
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Лист"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Лист"
	}
	if runes := []rune(value); len(runes) > 31 {
		value = string(runes[:31])
	}
	return value
}
