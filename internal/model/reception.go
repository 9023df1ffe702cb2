package model

import (
	"time"

	"github.com/google/uuid"
)

type Reception struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Number           string
	Date             time.Time
	CounterpartyID   *uuid.UUID
	CounterpartyName string
	SubdivisionName  string
	CreatedAt        time.Time
}

// AcceptedMotor — позиция приемки: одна единица оборудования,
// нумеруется последовательно внутри приемки.
type AcceptedMotor struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	ReceptionID        uuid.UUID
	MotorID            *uuid.UUID
	PositionNumber     int
	ServiceDescription string
	InventoryNumber    string
	CreatedAt          time.Time
}

type ReceptionTemplate struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	CreatedAt time.Time
}

type ReceptionTemplateItem struct {
	ID              uuid.UUID
	TemplateID      uuid.UUID
	ItemName        string
	WorkGroup       string
	TransactionType TransactionType
	Price           float64
	Quantity        float64
	SortOrder       int
}
