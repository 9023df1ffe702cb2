package model

import (
	"time"

	"github.com/google/uuid"
)

type UPDStatus string

const (
	UPDStatusInProgress UPDStatus = "В работе"
	UPDStatusCompleted  UPDStatus = "Завершен"
)

// UPDDocument — закрывающий документ, объединяющий строки приемок.
// Привязанные строки становятся доступными только для чтения,
// пока документ не расформирован.
type UPDDocument struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Number           string
	Date             time.Time
	CounterpartyID   *uuid.UUID
	CounterpartyName string
	Status           UPDStatus
	CreatedAt        time.Time
}

// UPDSummary — документ вместе с агрегатами по привязанным строкам.
type UPDSummary struct {
	UPDDocument
	ItemCount    int64
	IncomeTotal  float64
	ExpenseTotal float64
}
