package grouping

import "github.com/remservice/motor-backoffice/internal/model"

// Totals — итоги по произвольному набору строк. Расходные цены хранятся
// отрицательными, поэтому прибыль — простая сумма итогов.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

// Sum пересчитывает итоги по строкам. Итоги не кешируются: каждый
// уровень дерева независимо суммирует свои строки.
func Sum(items []model.ReceptionItem) Totals {
	var t Totals
	for _, item := range items {
		total := item.LineTotal()
		if item.IsExpense() {
			t.Expense += total
		} else {
			t.Income += total
		}
	}
	t.Profit = t.Income + t.Expense
	return t
}

func (p *PositionNode) Totals() Totals  { return Sum(p.Rows()) }
func (g *WorkGroupNode) Totals() Totals { return Sum(g.Rows()) }
func (b *BaseItemNode) Totals() Totals  { return Sum(b.Rows()) }
