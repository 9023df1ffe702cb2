package model

import "time"

type ReportMode string

const (
	ReportModeCounterparty ReportMode = "counterparty"
	ReportModeSubdivision  ReportMode = "subdivision"
)

// ReportGroup — агрегат по одному контрагенту или подразделению.
type ReportGroup struct {
	Name     string  `json:"name"`
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
	Profit   float64 `json:"profit"`
	RowCount int64   `json:"row_count"`
}

// ProfitReport — сводка доход/расход/прибыль за период.
type ProfitReport struct {
	Mode        ReportMode    `json:"mode"`
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	Income      float64       `json:"income"`
	Expense     float64       `json:"expense"`
	Profit      float64       `json:"profit"`
	Groups      []ReportGroup `json:"groups"`
}
