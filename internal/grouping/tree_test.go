package grouping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remservice/motor-backoffice/internal/model"
)

func makeItem(pos int, workGroup, name string, tx model.TransactionType, price, qty float64) model.ReceptionItem {
	return model.ReceptionItem{
		ID:              uuid.New(),
		PositionNumber:  pos,
		WorkGroup:       workGroup,
		ItemName:        name,
		TransactionType: tx,
		Price:           price,
		Quantity:        qty,
	}
}

func TestBuildEmptyInput(t *testing.T) {
	tree := Build(nil)
	assert.Empty(t, tree)
	assert.Empty(t, Flatten(tree))
}

func TestBuildGroupsByFixedLevels(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(1, "Замена масла", "Масло_ID_1", model.TransactionIncome, 100, 2),
		makeItem(1, "Замена масла", "Масло_ID_2", model.TransactionExpense, -40, 2),
		makeItem(1, "Перемотка", "Провод ПЭТВ-2", model.TransactionExpense, -500, 1.5),
		makeItem(2, "", "Диагностика", model.TransactionIncome, 1500, 1),
	}

	tree := Build(items)
	require.Len(t, tree, 2)

	first := tree[0]
	assert.Equal(t, 1, first.PositionNumber)
	require.Len(t, first.Groups, 2)
	assert.Equal(t, "Замена масла", first.Groups[0].Name)
	assert.Equal(t, "Перемотка", first.Groups[1].Name)

	// обе строки "Масло_ID_*" слиты в одну базовую позицию
	oil := first.Groups[0].Items
	require.Len(t, oil, 1)
	assert.Equal(t, "Масло", oil[0].BaseName)
	assert.Len(t, oil[0].Income, 1)
	assert.Len(t, oil[0].Expense, 1)

	second := tree[1]
	assert.Equal(t, 2, second.PositionNumber)
	require.Len(t, second.Groups, 1)
	assert.Equal(t, "", second.Groups[0].Name)
	assert.Equal(t, NoGroupLabel, second.Groups[0].Label())
}

func TestBuildPreservesEncounterOrder(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(3, "Б", "Вторая", model.TransactionIncome, 1, 1),
		makeItem(1, "А", "Первая", model.TransactionIncome, 1, 1),
		makeItem(3, "А", "Третья", model.TransactionIncome, 1, 1),
	}

	tree := Build(items)
	require.Len(t, tree, 2)
	assert.Equal(t, 3, tree[0].PositionNumber)
	assert.Equal(t, 1, tree[1].PositionNumber)
	assert.Equal(t, "Б", tree[0].Groups[0].Name)
	assert.Equal(t, "А", tree[0].Groups[1].Name)
}

func TestFlattenRoundTrip(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(2, "Замена подшипников", "Подшипник 6206", model.TransactionExpense, -350, 2),
		makeItem(1, "", "Диагностика", model.TransactionIncome, 1200, 1),
		makeItem(2, "Замена подшипников", "Работа", model.TransactionIncome, 800, 1),
		makeItem(1, "Перемотка", "Провод_ID_7", model.TransactionExpense, -420, 3),
		makeItem(1, "Перемотка", "Провод_ID_8", model.TransactionExpense, -410, 1),
	}

	flattened := Flatten(Build(items))
	require.Len(t, flattened, len(items))

	seen := make(map[uuid.UUID]model.ReceptionItem, len(items))
	for _, item := range flattened {
		seen[item.ID] = item
	}
	for _, item := range items {
		got, ok := seen[item.ID]
		require.True(t, ok, "row %s lost in round trip", item.ItemName)
		assert.Equal(t, item, got)
	}
}

func TestEmptyBucketDisappearsAfterDelete(t *testing.T) {
	only := makeItem(1, "Группа", "Единственная", model.TransactionExpense, -10, 1)
	items := []model.ReceptionItem{
		only,
		makeItem(1, "Группа", "Другая", model.TransactionIncome, 10, 1),
	}

	remaining, err := DeleteItem(items, only.ID)
	require.NoError(t, err)

	tree := Build(remaining)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Groups, 1)
	for _, base := range tree[0].Groups[0].Items {
		assert.Empty(t, base.Expense)
	}
}

func TestTotals(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(1, "", "Работа", model.TransactionIncome, 100, 2),
		makeItem(1, "", "Материал", model.TransactionExpense, -30, 3),
		makeItem(2, "", "Диагностика", model.TransactionIncome, 50, 1),
	}

	total := Sum(items)
	assert.InDelta(t, 250, total.Income, 1e-9)
	assert.InDelta(t, -90, total.Expense, 1e-9)
	assert.InDelta(t, total.Income+total.Expense, total.Profit, 1e-9)

	tree := Build(items)
	first := tree[0].Totals()
	assert.InDelta(t, 200, first.Income, 1e-9)
	assert.InDelta(t, -90, first.Expense, 1e-9)
	assert.InDelta(t, 110, first.Profit, 1e-9)
}

func TestProfitIdentityHoldsAtEveryLevel(t *testing.T) {
	items := []model.ReceptionItem{
		makeItem(1, "А", "Х_ID_1", model.TransactionIncome, 10, 1),
		makeItem(1, "А", "Х_ID_2", model.TransactionExpense, -4, 2),
		makeItem(1, "Б", "У", model.TransactionIncome, 7, 3),
		makeItem(2, "", "Z", model.TransactionExpense, -1, 5),
	}

	for _, pos := range Build(items) {
		total := pos.Totals()
		assert.InDelta(t, total.Income+total.Expense, total.Profit, 1e-9)
		for _, group := range pos.Groups {
			gt := group.Totals()
			assert.InDelta(t, gt.Income+gt.Expense, gt.Profit, 1e-9)
			for _, base := range group.Items {
				bt := base.Totals()
				assert.InDelta(t, bt.Income+bt.Expense, bt.Profit, 1e-9)
			}
		}
	}
}
