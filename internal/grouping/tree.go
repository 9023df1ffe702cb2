// Package grouping строит из плоского списка строк приемки вложенное
// дерево "позиция → группа работ → базовая позиция → доходы/расходы"
// и выполняет правки строк. Дерево нигде не хранится: оно каждый раз
// собирается заново из актуального плоского списка.
package grouping

import (
	"github.com/remservice/motor-backoffice/internal/model"
)

// NoGroupLabel — подпись для строк без группы работ.
const NoGroupLabel = "Без группы"

// PositionNode — одна позиция (двигатель) приемки.
type PositionNode struct {
	PositionNumber     int
	ServiceDescription string
	Groups             []*WorkGroupNode
}

// WorkGroupNode — группа работ внутри позиции. Name может быть пустым,
// такие строки собираются в единый узел с подписью NoGroupLabel.
type WorkGroupNode struct {
	Name  string
	Items []*BaseItemNode
}

// BaseItemNode объединяет строки с одинаковым базовым наименованием
// (часть до маркера варианта) внутри одной группы работ. Доходные и
// расходные строки хранятся двумя непересекающимися списками, доходы
// показываются первыми.
type BaseItemNode struct {
	BaseName string
	Income   []model.ReceptionItem
	Expense  []model.ReceptionItem
}

// Build складывает упорядоченный список строк в дерево фиксированных
// уровней. Порядок детей на каждом уровне — порядок первого появления,
// пересортировка не выполняется. Пустой вход даёт пустое дерево.
func Build(items []model.ReceptionItem) []*PositionNode {
	var positions []*PositionNode
	posIndex := make(map[int]*PositionNode)
	groupIndex := make(map[int]map[string]*WorkGroupNode)
	baseIndex := make(map[int]map[string]map[string]*BaseItemNode)

	for _, item := range items {
		pos, ok := posIndex[item.PositionNumber]
		if !ok {
			pos = &PositionNode{
				PositionNumber:     item.PositionNumber,
				ServiceDescription: item.ServiceDescription,
			}
			posIndex[item.PositionNumber] = pos
			groupIndex[item.PositionNumber] = make(map[string]*WorkGroupNode)
			baseIndex[item.PositionNumber] = make(map[string]map[string]*BaseItemNode)
			positions = append(positions, pos)
		}
		if pos.ServiceDescription == "" {
			pos.ServiceDescription = item.ServiceDescription
		}

		group, ok := groupIndex[item.PositionNumber][item.WorkGroup]
		if !ok {
			group = &WorkGroupNode{Name: item.WorkGroup}
			groupIndex[item.PositionNumber][item.WorkGroup] = group
			baseIndex[item.PositionNumber][item.WorkGroup] = make(map[string]*BaseItemNode)
			pos.Groups = append(pos.Groups, group)
		}

		baseName := item.BaseName()
		base, ok := baseIndex[item.PositionNumber][item.WorkGroup][baseName]
		if !ok {
			base = &BaseItemNode{BaseName: baseName}
			baseIndex[item.PositionNumber][item.WorkGroup][baseName] = base
			group.Items = append(group.Items, base)
		}

		if item.IsExpense() {
			base.Expense = append(base.Expense, item)
		} else {
			base.Income = append(base.Income, item)
		}
	}

	return positions
}

// Flatten возвращает строки дерева в порядке обхода. Вместе с Build
// образует разбиение без потерь: мультимножество строк сохраняется.
func Flatten(positions []*PositionNode) []model.ReceptionItem {
	var items []model.ReceptionItem
	for _, pos := range positions {
		for _, group := range pos.Groups {
			for _, base := range group.Items {
				items = append(items, base.Income...)
				items = append(items, base.Expense...)
			}
		}
	}
	return items
}

// Label возвращает подпись группы работ для отображения.
func (g *WorkGroupNode) Label() string {
	if g.Name == "" {
		return NoGroupLabel
	}
	return g.Name
}

// Rows — все строки узла в порядке обхода.
func (b *BaseItemNode) Rows() []model.ReceptionItem {
	rows := make([]model.ReceptionItem, 0, len(b.Income)+len(b.Expense))
	rows = append(rows, b.Income...)
	rows = append(rows, b.Expense...)
	return rows
}

func (g *WorkGroupNode) Rows() []model.ReceptionItem {
	var rows []model.ReceptionItem
	for _, base := range g.Items {
		rows = append(rows, base.Rows()...)
	}
	return rows
}

func (p *PositionNode) Rows() []model.ReceptionItem {
	var rows []model.ReceptionItem
	for _, group := range p.Groups {
		rows = append(rows, group.Rows()...)
	}
	return rows
}
