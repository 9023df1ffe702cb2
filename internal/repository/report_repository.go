package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ProfitGroups агрегирует строки приемок за период по контрагентам
// либо подразделениям. Расходы хранятся отрицательными, поэтому
// прибыль — простая сумма.
func (r *ReportRepository) ProfitGroups(
	ctx context.Context,
	ownerID uuid.UUID,
	mode model.ReportMode,
	from, to time.Time,
) ([]model.ReportGroup, error) {
	var groupColumn string
	switch mode {
	case model.ReportModeCounterparty:
		groupColumn = "counterparty_name"
	case model.ReportModeSubdivision:
		groupColumn = "subdivision_name"
	default:
		return nil, fmt.Errorf("unknown report mode %q", mode)
	}

	query := fmt.Sprintf(`
		SELECT
			COALESCE(NULLIF(%s, ''), 'Без группы') AS name,
			COALESCE(SUM(CASE WHEN transaction_type = 'Доходы' THEN price * quantity ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN transaction_type = 'Расходы' THEN price * quantity ELSE 0 END), 0) AS expense,
			COALESCE(SUM(price * quantity), 0) AS profit,
			COUNT(*) AS row_count
		FROM reception_items
		WHERE owner_id = ?
			AND reception_date >= ?
			AND reception_date < ?
		GROUP BY 1
		ORDER BY profit DESC, name ASC
	`, groupColumn)

	var rows []model.ReportGroup
	if err := r.db.WithContext(ctx).Raw(query, ownerID, from, to).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
