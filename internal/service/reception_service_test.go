package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

type fakeReceptionRepo struct {
	receptions map[uuid.UUID]*model.Reception
	items      map[uuid.UUID][]model.ReceptionItem
	positions  map[uuid.UUID][]model.AcceptedMotor
	createErr  error
}

func newFakeReceptionRepo() *fakeReceptionRepo {
	return &fakeReceptionRepo{
		receptions: map[uuid.UUID]*model.Reception{},
		items:      map[uuid.UUID][]model.ReceptionItem{},
		positions:  map[uuid.UUID][]model.AcceptedMotor{},
	}
}

func (f *fakeReceptionRepo) List(_ context.Context, _ uuid.UUID) ([]model.Reception, error) {
	var out []model.Reception
	for _, r := range f.receptions {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReceptionRepo) GetByID(_ context.Context, _, id uuid.UUID) (*model.Reception, error) {
	r, ok := f.receptions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeReceptionRepo) Create(_ context.Context, reception model.Reception, positions []model.AcceptedMotor, items []model.ReceptionItem) (*model.Reception, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	reception.ID = uuid.New()
	for i := range items {
		items[i].ReceptionID = reception.ID
	}
	f.receptions[reception.ID] = &reception
	f.items[reception.ID] = items
	f.positions[reception.ID] = positions
	return &reception, nil
}

func (f *fakeReceptionRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	if _, ok := f.receptions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.receptions, id)
	delete(f.items, id)
	return nil
}

func (f *fakeReceptionRepo) ListItems(_ context.Context, _, receptionID uuid.UUID) ([]model.ReceptionItem, error) {
	return f.items[receptionID], nil
}

func (f *fakeReceptionRepo) ReplaceItems(_ context.Context, reception model.Reception, items []model.ReceptionItem) error {
	f.items[reception.ID] = items
	return nil
}

func (f *fakeReceptionRepo) HasLinkedItems(_ context.Context, _, receptionID uuid.UUID) (bool, error) {
	for _, item := range f.items[receptionID] {
		if item.Linked() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReceptionRepo) ListPositions(_ context.Context, _, receptionID uuid.UUID) ([]model.AcceptedMotor, error) {
	return f.positions[receptionID], nil
}

type fakeStatusRepo struct{}

func (fakeStatusRepo) ListStatuses(_ context.Context, _ uuid.UUID) (map[uuid.UUID]model.UPDStatus, error) {
	return map[uuid.UUID]model.UPDStatus{}, nil
}

func newReceptionFixture() (*ReceptionService, *fakeReceptionRepo, model.Principal) {
	repo := newFakeReceptionRepo()
	svc := NewReceptionService(repo, fakeStatusRepo{}, "http://localhost", zerolog.Nop())
	return svc, repo, model.Principal{UserID: uuid.New()}
}

func createInput() CreateReceptionInput {
	return CreateReceptionInput{
		Number:           "ПР-42",
		Date:             "2026-03-05",
		CounterpartyName: "ООО Энергомаш",
		SubdivisionName:  "Цех 1",
		Items: []NewItemInput{
			{
				PositionNumber:     1,
				ServiceDescription: "Ремонт двигателя",
				ItemName:           "Перемотка статора",
				WorkGroup:          "Обмоточные работы",
				TransactionType:    model.TransactionIncome,
				Price:              100,
				Quantity:           2,
			},
			{
				PositionNumber:  1,
				ItemName:        "Провод ПЭТВ-2",
				WorkGroup:       "Обмоточные работы",
				TransactionType: model.TransactionExpense,
				Price:           30,
				Quantity:        1,
			},
		},
	}
}

func TestCreateNormalizesExpenseSign(t *testing.T) {
	svc, repo, principal := newReceptionFixture()

	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	items := repo.items[reception.ID]
	require.Len(t, items, 2)
	assert.Equal(t, 100.0, items[0].Price)
	assert.Equal(t, -30.0, items[1].Price)
}

func TestCreateDuplicateNumberIsConflict(t *testing.T) {
	svc, repo, principal := newReceptionFixture()
	repo.createErr = errors.New(`ERROR: duplicate key value violates unique constraint "uq_receptions_owner_number" (SQLSTATE 23505)`)

	_, err := svc.Create(context.Background(), principal, createInput())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc, _, principal := newReceptionFixture()
	input := createInput()
	input.Date = "05.03.2026"

	_, err := svc.Create(context.Background(), principal, input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPreviewTotals(t *testing.T) {
	svc, _, principal := newReceptionFixture()
	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	preview, err := svc.Preview(context.Background(), principal, reception.ID)
	require.NoError(t, err)

	assert.Equal(t, 200.0, preview.Totals.Income)
	assert.Equal(t, -30.0, preview.Totals.Expense)
	assert.Equal(t, 170.0, preview.Totals.Profit)

	require.Len(t, preview.Positions, 1)
	pos := preview.Positions[0]
	assert.Equal(t, 1, pos.PositionNumber)
	assert.Equal(t, "Ремонт двигателя", pos.ServiceDescription)
	assert.Equal(t, 170.0, pos.Totals.Profit)
	require.Len(t, pos.Groups, 1)
	assert.Equal(t, "Обмоточные работы", pos.Groups[0].Name)
}

func TestDeleteRefusesLinkedReception(t *testing.T) {
	svc, repo, principal := newReceptionFixture()
	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	updID := uuid.New()
	updNumber := "УПД-9"
	items := repo.items[reception.ID]
	items[0].UPDDocumentID = &updID
	items[0].UPDDocumentNumber = &updNumber

	err = svc.Delete(context.Background(), principal, reception.ID)
	assert.ErrorIs(t, err, ErrLinkedItem)
	assert.Contains(t, repo.receptions, reception.ID)
}

func TestUpdateItemPersistsChange(t *testing.T) {
	svc, repo, principal := newReceptionFixture()
	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	itemID := repo.items[reception.ID][0].ID
	newPrice := 250.0
	err = svc.UpdateItem(context.Background(), principal, reception.ID, itemID, ItemChangeInput{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 250.0, repo.items[reception.ID][0].Price)
}

func TestMutationKeepsRowOrder(t *testing.T) {
	svc, repo, principal := newReceptionFixture()
	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	before := make([]uuid.UUID, 0, 2)
	for _, item := range repo.items[reception.ID] {
		before = append(before, item.ID)
	}

	newPrice := 75.0
	err = svc.UpdateItem(context.Background(), principal, reception.ID, before[0], ItemChangeInput{Price: &newPrice})
	require.NoError(t, err)
	err = svc.InsertItem(context.Background(), principal, reception.ID, NewItemInput{
		PositionNumber:  1,
		ItemName:        "Балансировка",
		WorkGroup:       "Механика",
		TransactionType: model.TransactionIncome,
		Price:           50,
		Quantity:        1,
	})
	require.NoError(t, err)

	after := repo.items[reception.ID]
	require.Len(t, after, 3)
	assert.Equal(t, before[0], after[0].ID)
	assert.Equal(t, before[1], after[1].ID)
	assert.Equal(t, "Балансировка", after[2].ItemName)
}

func TestUpdateItemUnknownID(t *testing.T) {
	svc, _, principal := newReceptionFixture()
	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	price := 1.0
	err = svc.UpdateItem(context.Background(), principal, reception.ID, uuid.New(), ItemChangeInput{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePositionNeedsConfirmation(t *testing.T) {
	svc, repo, principal := newReceptionFixture()
	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	err = svc.DeletePosition(context.Background(), principal, reception.ID, 1, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, repo.items[reception.ID], 2)

	err = svc.DeletePosition(context.Background(), principal, reception.ID, 1, true)
	require.NoError(t, err)
	assert.Empty(t, repo.items[reception.ID])
}

func TestDuplicatePositionAssignsNextNumber(t *testing.T) {
	svc, repo, principal := newReceptionFixture()
	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	number, err := svc.DuplicatePosition(context.Background(), principal, reception.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, number)
	assert.Len(t, repo.items[reception.ID], 4)
}

func TestInsertItemValidatesTransactionType(t *testing.T) {
	svc, _, principal := newReceptionFixture()
	reception, err := svc.Create(context.Background(), principal, createInput())
	require.NoError(t, err)

	err = svc.InsertItem(context.Background(), principal, reception.ID, NewItemInput{
		PositionNumber:  1,
		ItemName:        "Подшипник",
		TransactionType: model.TransactionType("Прочее"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImportWorkbookRejectsGarbage(t *testing.T) {
	svc, _, principal := newReceptionFixture()

	_, err := svc.ImportWorkbook(context.Background(), principal, []byte("not a workbook"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
