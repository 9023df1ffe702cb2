package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

type fakeCounterpartyRepo struct {
	rows     []model.Counterparty
	upserted []model.Counterparty
}

func (f *fakeCounterpartyRepo) List(_ context.Context, ownerID uuid.UUID) ([]model.Counterparty, error) {
	var out []model.Counterparty
	for _, cp := range f.rows {
		if cp.OwnerID == ownerID {
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeCounterpartyRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*model.Counterparty, error) {
	for _, cp := range f.rows {
		if cp.OwnerID == ownerID && cp.ID == id {
			found := cp
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCounterpartyRepo) Create(_ context.Context, cp model.Counterparty) (*model.Counterparty, error) {
	cp.ID = uuid.New()
	f.rows = append(f.rows, cp)
	return &cp, nil
}

func (f *fakeCounterpartyRepo) Upsert(_ context.Context, cp model.Counterparty) (*model.Counterparty, error) {
	cp.ID = uuid.New()
	f.upserted = append(f.upserted, cp)
	return &cp, nil
}

func (f *fakeCounterpartyRepo) Update(_ context.Context, cp model.Counterparty) error {
	for i := range f.rows {
		if f.rows[i].ID == cp.ID {
			f.rows[i] = cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCounterpartyRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeMotorRepo struct {
	rows  []model.Motor
	items []model.ReceptionItem
}

func (f *fakeMotorRepo) List(_ context.Context, ownerID uuid.UUID) ([]model.Motor, error) {
	var out []model.Motor
	for _, m := range f.rows {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMotorRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*model.Motor, error) {
	for _, m := range f.rows {
		if m.OwnerID == ownerID && m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMotorRepo) Create(_ context.Context, m model.Motor) (*model.Motor, error) {
	m.ID = uuid.New()
	f.rows = append(f.rows, m)
	return &m, nil
}

func (f *fakeMotorRepo) Upsert(_ context.Context, m model.Motor) (*model.Motor, error) {
	m.ID = uuid.New()
	f.rows = append(f.rows, m)
	return &m, nil
}

func (f *fakeMotorRepo) Update(_ context.Context, m model.Motor) error {
	for i := range f.rows {
		if f.rows[i].ID == m.ID {
			f.rows[i] = m
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeMotorRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeMotorRepo) ListItemsByMotor(_ context.Context, _, motorID uuid.UUID) ([]model.ReceptionItem, error) {
	var out []model.ReceptionItem
	for _, item := range f.items {
		if item.MotorID != nil && *item.MotorID == motorID {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeReferenceRepo struct {
	subdivisions []model.Subdivision
	wires        []model.Wire
	bearings     []model.Bearing
	impellers    []model.Impeller
	labor        []model.LaborPayment
	documents    []model.SpecialDocument
	types        []model.ReferenceType
}

func (f *fakeReferenceRepo) ListSubdivisions(_ context.Context, _ uuid.UUID) ([]model.Subdivision, error) {
	return f.subdivisions, nil
}

func (f *fakeReferenceRepo) CreateSubdivision(_ context.Context, s model.Subdivision) (*model.Subdivision, error) {
	s.ID = uuid.New()
	f.subdivisions = append(f.subdivisions, s)
	return &s, nil
}

func (f *fakeReferenceRepo) DeleteSubdivision(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeReferenceRepo) ListWires(_ context.Context, _ uuid.UUID) ([]model.Wire, error) {
	return f.wires, nil
}

func (f *fakeReferenceRepo) CreateWire(_ context.Context, w model.Wire) (*model.Wire, error) {
	w.ID = uuid.New()
	f.wires = append(f.wires, w)
	return &w, nil
}

func (f *fakeReferenceRepo) DeleteWire(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeReferenceRepo) ListBearings(_ context.Context, _ uuid.UUID) ([]model.Bearing, error) {
	return f.bearings, nil
}

func (f *fakeReferenceRepo) CreateBearing(_ context.Context, b model.Bearing) (*model.Bearing, error) {
	b.ID = uuid.New()
	f.bearings = append(f.bearings, b)
	return &b, nil
}

func (f *fakeReferenceRepo) DeleteBearing(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeReferenceRepo) ListImpellers(_ context.Context, _ uuid.UUID) ([]model.Impeller, error) {
	return f.impellers, nil
}

func (f *fakeReferenceRepo) CreateImpeller(_ context.Context, im model.Impeller) (*model.Impeller, error) {
	im.ID = uuid.New()
	f.impellers = append(f.impellers, im)
	return &im, nil
}

func (f *fakeReferenceRepo) DeleteImpeller(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeReferenceRepo) ListLaborPayments(_ context.Context, _ uuid.UUID) ([]model.LaborPayment, error) {
	return f.labor, nil
}

func (f *fakeReferenceRepo) CreateLaborPayment(_ context.Context, lp model.LaborPayment) (*model.LaborPayment, error) {
	lp.ID = uuid.New()
	f.labor = append(f.labor, lp)
	return &lp, nil
}

func (f *fakeReferenceRepo) DeleteLaborPayment(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeReferenceRepo) ListSpecialDocuments(_ context.Context, _ uuid.UUID) ([]model.SpecialDocument, error) {
	return f.documents, nil
}

func (f *fakeReferenceRepo) CreateSpecialDocument(_ context.Context, d model.SpecialDocument) (*model.SpecialDocument, error) {
	d.ID = uuid.New()
	f.documents = append(f.documents, d)
	return &d, nil
}

func (f *fakeReferenceRepo) DeleteSpecialDocument(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeReferenceRepo) ListReferenceTypes(_ context.Context) ([]model.ReferenceType, error) {
	return f.types, nil
}

func newLookupFixture() (*LookupService, *fakeCounterpartyRepo, *fakeMotorRepo, *fakeReferenceRepo, model.Principal) {
	owner := uuid.New()
	principal := model.Principal{UserID: owner, Email: "test@example.com"}
	counterparties := &fakeCounterpartyRepo{}
	motors := &fakeMotorRepo{}
	refs := &fakeReferenceRepo{}
	return NewLookupService(counterparties, motors, refs), counterparties, motors, refs, principal
}

func TestSearchBearingsByNumericPrefix(t *testing.T) {
	svc, _, _, refs, principal := newLookupFixture()
	refs.bearings = []model.Bearing{
		{ID: uuid.New(), Number: "6206-2RZ", Kind: "закрытый", Price: 450},
		{ID: uuid.New(), Number: "6305", Kind: "открытый", Price: 600},
	}

	found, err := svc.Search(context.Background(), principal, model.DomainBearings, "6206")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Подшипник 6206-2RZ", found[0].Name)
	require.NotNil(t, found[0].Price)
	assert.Equal(t, 450.0, *found[0].Price)
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	svc, _, _, refs, principal := newLookupFixture()
	refs.labor = []model.LaborPayment{
		{ID: uuid.New(), Name: "Перемотка статора", Price: 5000},
		{ID: uuid.New(), Name: "Балансировка", Price: 1500},
	}

	found, err := svc.Search(context.Background(), principal, model.DomainLaborPayments, "")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	svc, counterparties, _, _, principal := newLookupFixture()
	counterparties.rows = []model.Counterparty{
		{ID: uuid.New(), OwnerID: principal.UserID, Name: "ООО Энергомаш", INN: "7701234567"},
		{ID: uuid.New(), OwnerID: principal.UserID, Name: "АО Спецремонт", INN: "7809876543"},
	}

	found, err := svc.Search(context.Background(), principal, model.DomainCounterparty, "энерго")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ООО Энергомаш", found[0].Name)
}

func TestSearchWiresByDiameter(t *testing.T) {
	svc, _, _, refs, principal := newLookupFixture()
	refs.wires = []model.Wire{
		{ID: uuid.New(), Brand: "ПЭТВ-2", Diameter: 0.85, Price: 1200},
		{ID: uuid.New(), Brand: "ПЭТВ-2", Diameter: 1.12, Price: 1150},
	}

	found, err := svc.Search(context.Background(), principal, model.DomainWires, "1.12")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, strings.Contains(found[0].Name, "1.12"))
}

func TestSearchUnknownDomain(t *testing.T) {
	svc, _, _, _, principal := newLookupFixture()

	_, err := svc.Search(context.Background(), principal, model.ReferenceDomain("oils"), "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImportCounterpartiesUpsertsRows(t *testing.T) {
	svc, counterparties, _, _, principal := newLookupFixture()
	csv := "name,inn\nООО Энергомаш,7701234567\nАО Спецремонт,7809876543\n"

	count, err := svc.ImportCounterparties(context.Background(), principal, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, counterparties.upserted, 2)
	assert.Equal(t, principal.UserID, counterparties.upserted[0].OwnerID)
	assert.Equal(t, "7701234567", counterparties.upserted[0].INN)
}

func TestMotorDetailsNotFound(t *testing.T) {
	svc, _, _, _, principal := newLookupFixture()

	_, _, err := svc.MotorDetails(context.Background(), principal, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCounterpartyValidatesName(t *testing.T) {
	svc, _, _, _, principal := newLookupFixture()

	_, err := svc.CreateCounterparty(context.Background(), principal, CounterpartyInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
