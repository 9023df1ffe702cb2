package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remservice/motor-backoffice/internal/model"
)

type fakeReportRepo struct {
	groups []model.ReportGroup
	from   time.Time
	to     time.Time
}

func (f *fakeReportRepo) ProfitGroups(_ context.Context, _ uuid.UUID, _ model.ReportMode, from, to time.Time) ([]model.ReportGroup, error) {
	f.from, f.to = from, to
	return f.groups, nil
}

func TestGenerateReportSumsGroups(t *testing.T) {
	repo := &fakeReportRepo{groups: []model.ReportGroup{
		{Name: "ООО Энергомаш", Income: 1000, Expense: -300, Profit: 700, RowCount: 5},
		{Name: "АО Спецремонт", Income: 400, Expense: -100, Profit: 300, RowCount: 2},
	}}
	svc := NewReportService(repo)
	principal := model.Principal{UserID: uuid.New()}

	report, err := svc.Generate(context.Background(), principal, ReportInput{
		Mode:        "counterparty",
		PeriodStart: "2026-01-01",
		PeriodEnd:   "2026-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, 1400.0, report.Income)
	assert.Equal(t, -400.0, report.Expense)
	assert.Equal(t, 1000.0, report.Profit)
	// правая граница не включается
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), repo.to)
}

func TestGenerateReportValidatesInput(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{})
	principal := model.Principal{UserID: uuid.New()}

	_, err := svc.Generate(context.Background(), principal, ReportInput{
		Mode: "trips", PeriodStart: "2026-01-01", PeriodEnd: "2026-01-31",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Generate(context.Background(), principal, ReportInput{
		Mode: "counterparty", PeriodStart: "2026-01-31", PeriodEnd: "2026-01-01",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
