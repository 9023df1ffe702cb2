package grouping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remservice/motor-backoffice/internal/model"
)

func linkItem(item model.ReceptionItem) model.ReceptionItem {
	updID := uuid.New()
	number := "УПД-1"
	item.UPDDocumentID = &updID
	item.UPDDocumentNumber = &number
	return item
}

func TestUpdateItem(t *testing.T) {
	target := makeItem(1, "Группа", "Старое имя", model.TransactionIncome, 100, 1)
	items := []model.ReceptionItem{target, makeItem(1, "Группа", "Другая", model.TransactionIncome, 50, 1)}

	newName := "Новое имя"
	newQty := 4.0
	updated, err := UpdateItem(items, target.ID, ItemChange{ItemName: &newName, Quantity: &newQty})
	require.NoError(t, err)

	assert.Equal(t, "Новое имя", updated[0].ItemName)
	assert.InDelta(t, 4.0, updated[0].Quantity, 1e-9)
	// вход не мутируется
	assert.Equal(t, "Старое имя", items[0].ItemName)
}

func TestUpdateItemRefusedForLinkedRow(t *testing.T) {
	target := linkItem(makeItem(1, "", "Строка", model.TransactionIncome, 100, 1))
	items := []model.ReceptionItem{target}

	price := 200.0
	_, err := UpdateItem(items, target.ID, ItemChange{Price: &price})
	assert.ErrorIs(t, err, ErrItemLinked)
}

func TestUpdateItemNotFound(t *testing.T) {
	items := []model.ReceptionItem{makeItem(1, "", "Строка", model.TransactionIncome, 1, 1)}
	_, err := UpdateItem(items, uuid.New(), ItemChange{})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRenameBaseItemPreservesVariantSuffixes(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(1, "Замена масла", "Масло_ID_1", model.TransactionIncome, 100, 1),
		makeItem(1, "Замена масла", "Масло_ID_2", model.TransactionExpense, -60, 1),
		makeItem(1, "Замена масла", "Фильтр", model.TransactionExpense, -20, 1),
		makeItem(2, "Замена масла", "Масло_ID_9", model.TransactionIncome, 100, 1),
	}

	renamed, err := RenameBaseItem(items, 1, "Замена масла", "Масло", "Трансмиссионное масло")
	require.NoError(t, err)

	assert.Equal(t, "Трансмиссионное масло_ID_1", renamed[0].ItemName)
	assert.Equal(t, "Трансмиссионное масло_ID_2", renamed[1].ItemName)
	// другая базовая позиция и другая позиция приемки не затронуты
	assert.Equal(t, "Фильтр", renamed[2].ItemName)
	assert.Equal(t, "Масло_ID_9", renamed[3].ItemName)
}

func TestRenameBaseItemWithoutSuffix(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(1, "", "Диагностика", model.TransactionIncome, 500, 1),
	}

	renamed, err := RenameBaseItem(items, 1, "", "Диагностика", "Полная диагностика")
	require.NoError(t, err)
	assert.Equal(t, "Полная диагностика", renamed[0].ItemName)
}

func TestRenameBaseItemRefusedWhenGroupHasLinkedRow(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(1, "", "Масло_ID_1", model.TransactionIncome, 10, 1),
		linkItem(makeItem(1, "", "Масло_ID_2", model.TransactionIncome, 10, 1)),
	}

	_, err := RenameBaseItem(items, 1, "", "Масло", "Иное")
	assert.ErrorIs(t, err, ErrItemLinked)
}

func TestDuplicatePosition(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(1, "", "А", model.TransactionIncome, 1, 1),
		makeItem(2, "", "Б", model.TransactionIncome, 2, 1),
		linkItem(makeItem(3, "Группа", "В", model.TransactionIncome, 3, 2)),
		makeItem(3, "Группа", "Г", model.TransactionExpense, -1, 4),
	}

	result, newNumber, err := DuplicatePosition(items, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, newNumber)
	require.Len(t, result, 6)

	var copies []model.ReceptionItem
	for _, item := range result {
		if item.PositionNumber == 4 {
			copies = append(copies, item)
		}
	}
	require.Len(t, copies, 2)
	for i, copied := range copies {
		original := items[2+i]
		assert.Equal(t, original.ItemName, copied.ItemName)
		assert.Equal(t, original.WorkGroup, copied.WorkGroup)
		assert.Equal(t, original.TransactionType, copied.TransactionType)
		assert.InDelta(t, original.Price, copied.Price, 1e-9)
		assert.InDelta(t, original.Quantity, copied.Quantity, 1e-9)
		// новый идентификатор, привязка к УПД не наследуется
		assert.NotEqual(t, original.ID, copied.ID)
		assert.Nil(t, copied.UPDDocumentID)
		assert.Nil(t, copied.UPDDocumentNumber)
	}
}

func TestDuplicatePositionNotFound(t *testing.T) {
	items := []model.ReceptionItem{makeItem(1, "", "А", model.TransactionIncome, 1, 1)}
	_, _, err := DuplicatePosition(items, 7)
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestDeletePosition(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(1, "", "А", model.TransactionIncome, 1, 1),
		makeItem(2, "", "Б", model.TransactionIncome, 2, 1),
		makeItem(2, "", "В", model.TransactionExpense, -1, 1),
	}

	result, err := DeletePosition(items, 2)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].PositionNumber)
}

func TestDeletePositionRefusedWhenAnyRowLinked(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(2, "", "Б", model.TransactionIncome, 2, 1),
		linkItem(makeItem(2, "", "В", model.TransactionExpense, -1, 1)),
	}
	before := copyItems(items)

	_, err := DeletePosition(items, 2)
	assert.ErrorIs(t, err, ErrItemLinked)
	// отказ не меняет плоский список
	assert.Equal(t, before, items)
}

func TestDeleteItemRefusedForLinkedRow(t *testing.T) {
	target := linkItem(makeItem(1, "", "Строка", model.TransactionIncome, 1, 1))
	_, err := DeleteItem([]model.ReceptionItem{target}, target.ID)
	assert.ErrorIs(t, err, ErrItemLinked)
}

func TestInsertItemAssignsID(t *testing.T) {
	items := InsertItem(nil, model.ReceptionItem{ItemName: "Новая", PositionNumber: 1})
	require.Len(t, items, 1)
	assert.NotEqual(t, uuid.Nil, items[0].ID)
}
