package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "Доходы"
	TransactionExpense TransactionType = "Расходы"
)

// VariantMarker отделяет базовое наименование позиции от служебного суффикса,
// который различает одноимённые позиции, не подлежащие слиянию в интерфейсе.
const VariantMarker = "_ID_"

// ReceptionItem — строка дохода/расхода приемки, единица истины.
// Поля приемки денормализованы, чтобы строка была самодостаточной
// при выгрузке и при сборке УПД.
type ReceptionItem struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	ReceptionID        uuid.UUID
	ReceptionNumber    string
	ReceptionDate      time.Time
	CounterpartyName   string
	SubdivisionName    string
	PositionNumber     int
	ServiceDescription string
	ItemName           string
	WorkGroup          string
	TransactionType    TransactionType
	Price              float64
	Quantity           float64
	InventoryNumber    string
	MotorID            *uuid.UUID
	UPDDocumentID      *uuid.UUID
	UPDDocumentNumber  *string
	CreatedAt          time.Time
}

// SplitItemName делит наименование на базовую часть и суффикс варианта.
// Суффикс возвращается вместе с маркером, чтобы переименование могло
// сохранить его без изменений.
func SplitItemName(name string) (base, suffix string) {
	before, after, found := strings.Cut(name, VariantMarker)
	if !found {
		return strings.TrimSpace(name), ""
	}
	return strings.TrimSpace(before), VariantMarker + after
}

func (i ReceptionItem) BaseName() string {
	base, _ := SplitItemName(i.ItemName)
	return base
}

// LineTotal никогда не хранится, всегда вычисляется при чтении.
func (i ReceptionItem) LineTotal() float64 {
	return i.Price * i.Quantity
}

// Linked — строка уже включена в УПД и доступна только для чтения.
func (i ReceptionItem) Linked() bool {
	return i.UPDDocumentID != nil
}

func (i ReceptionItem) IsIncome() bool {
	return i.TransactionType == TransactionIncome
}

func (i ReceptionItem) IsExpense() bool {
	return i.TransactionType == TransactionExpense
}
