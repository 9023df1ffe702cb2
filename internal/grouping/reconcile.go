package grouping

import (
	"errors"

	"github.com/google/uuid"

	"github.com/remservice/motor-backoffice/internal/model"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemLinked       = errors.New("item is linked to an upd document")
	ErrPositionNotFound = errors.New("position not found")
)

// ItemChange — частичное изменение строки; nil-поля не трогаются.
type ItemChange struct {
	ItemName        *string
	WorkGroup       *string
	Price           *float64
	Quantity        *float64
	TransactionType *model.TransactionType
}

// Правки адресуются стабильным идентификатором строки, а не позиционным
// индексом. Каждая операция возвращает новый срез, вход не мутируется.

// UpdateItem применяет изменение к строке с данным id.
// Привязанные к УПД строки менять нельзя.
func UpdateItem(items []model.ReceptionItem, id uuid.UUID, change ItemChange) ([]model.ReceptionItem, error) {
	idx := indexByID(items, id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	if items[idx].Linked() {
		return nil, ErrItemLinked
	}

	result := copyItems(items)
	item := &result[idx]
	if change.ItemName != nil {
		item.ItemName = *change.ItemName
	}
	if change.WorkGroup != nil {
		item.WorkGroup = *change.WorkGroup
	}
	if change.Price != nil {
		item.Price = *change.Price
	}
	if change.Quantity != nil {
		item.Quantity = *change.Quantity
	}
	if change.TransactionType != nil {
		item.TransactionType = *change.TransactionType
	}
	return result, nil
}

// RenameBaseItem переименовывает базовую позицию: новое базовое имя
// получает каждая строка группы, суффикс варианта каждой строки
// сохраняется без изменений.
func RenameBaseItem(items []model.ReceptionItem, positionNumber int, workGroup, baseName, newBaseName string) ([]model.ReceptionItem, error) {
	var affected []int
	for i, item := range items {
		if item.PositionNumber != positionNumber || item.WorkGroup != workGroup {
			continue
		}
		if item.BaseName() != baseName {
			continue
		}
		if item.Linked() {
			return nil, ErrItemLinked
		}
		affected = append(affected, i)
	}
	if len(affected) == 0 {
		return nil, ErrItemNotFound
	}

	result := copyItems(items)
	for _, i := range affected {
		_, suffix := model.SplitItemName(result[i].ItemName)
		result[i].ItemName = newBaseName + suffix
	}
	return result, nil
}

func DeleteItem(items []model.ReceptionItem, id uuid.UUID) ([]model.ReceptionItem, error) {
	idx := indexByID(items, id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	if items[idx].Linked() {
		return nil, ErrItemLinked
	}

	result := make([]model.ReceptionItem, 0, len(items)-1)
	result = append(result, items[:idx]...)
	result = append(result, items[idx+1:]...)
	return result, nil
}

// InsertItem добавляет строку в конец; пустой id заменяется свежим.
func InsertItem(items []model.ReceptionItem, item model.ReceptionItem) []model.ReceptionItem {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	result := copyItems(items)
	return append(result, item)
}

// DuplicatePosition копирует все строки позиции под новым номером
// max(существующие)+1. Копии получают новые идентификаторы и никогда
// не наследуют привязку к УПД.
func DuplicatePosition(items []model.ReceptionItem, positionNumber int) ([]model.ReceptionItem, int, error) {
	maxNumber := 0
	found := false
	for _, item := range items {
		if item.PositionNumber > maxNumber {
			maxNumber = item.PositionNumber
		}
		if item.PositionNumber == positionNumber {
			found = true
		}
	}
	if !found {
		return nil, 0, ErrPositionNotFound
	}

	newNumber := maxNumber + 1
	result := copyItems(items)
	for _, item := range items {
		if item.PositionNumber != positionNumber {
			continue
		}
		copied := item
		copied.ID = uuid.New()
		copied.PositionNumber = newNumber
		copied.UPDDocumentID = nil
		copied.UPDDocumentNumber = nil
		result = append(result, copied)
	}
	return result, newNumber, nil
}

// DeletePosition удаляет все строки позиции. Если хотя бы одна строка
// привязана к УПД, операция отклоняется целиком и список не меняется.
func DeletePosition(items []model.ReceptionItem, positionNumber int) ([]model.ReceptionItem, error) {
	found := false
	for _, item := range items {
		if item.PositionNumber != positionNumber {
			continue
		}
		found = true
		if item.Linked() {
			return nil, ErrItemLinked
		}
	}
	if !found {
		return nil, ErrPositionNotFound
	}

	result := make([]model.ReceptionItem, 0, len(items))
	for _, item := range items {
		if item.PositionNumber != positionNumber {
			result = append(result, item)
		}
	}
	return result, nil
}

func indexByID(items []model.ReceptionItem, id uuid.UUID) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func copyItems(items []model.ReceptionItem) []model.ReceptionItem {
	result := make([]model.ReceptionItem, len(items))
	copy(result, items)
	return result
}
