package pdf

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/remservice/motor-backoffice/internal/grouping"
	"github.com/remservice/motor-backoffice/internal/model"
)

// Generator печатает форму УПД. Кириллица требует UTF-8 шрифта,
// путь к ttf задаётся конфигурацией.
type Generator struct {
	fontName string
	fontData []byte
}

func NewGenerator(fontPath string) (*Generator, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	return &Generator{fontName: "BodyFont", fontData: data}, nil
}

func (g *Generator) Generate(doc model.UPDDocument, items []model.ReceptionItem) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.AddUTF8FontFromBytes(g.fontName, "", g.fontData)
	pdf.AddUTF8FontFromBytes(g.fontName, "B", g.fontData)

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Универсальный передаточный документ", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("УПД № %s от %s", doc.Number, formatDate(doc.Date)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Контрагент: %s", doc.CounterpartyName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Статус: %s", doc.Status), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Позиции документа", "", 1, "L", false, 0, "")

	headers := []string{"Приемка", "Поз.", "Группа работ", "Наименование", "Тип", "Цена", "Кол-во", "Итого"}
	colWidths := []float64{30, 14, 50, 75, 26, 24, 20, 28}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, item := range items {
		row := []string{
			item.ReceptionNumber,
			fmt.Sprintf("%d", item.PositionNumber),
			item.WorkGroup,
			item.ItemName,
			string(item.TransactionType),
			formatAmount(item.Price, 2),
			formatAmount(item.Quantity, 3),
			formatAmount(item.LineTotal(), 2),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	totals := grouping.Sum(items)
	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Доходы: %s руб.", formatAmount(totals.Income, 2)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Расходы: %s руб.", formatAmount(totals.Expense, 2)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Прибыль: %s руб.", formatAmount(totals.Profit, 2)), "", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.CellFormat(0, 6, "Исполнитель: ______________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Заказчик: ______________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i > 4 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatAmount(value float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02.01.2006")
}
