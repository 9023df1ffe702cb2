package model

import (
	"time"

	"github.com/google/uuid"
)

// ReferenceDomain — справочник, из которого модалка подбора
// подставляет наименование и цену в строку приемки.
type ReferenceDomain string

const (
	DomainMotors        ReferenceDomain = "motors"
	DomainCounterparty  ReferenceDomain = "counterparties"
	DomainSubdivisions  ReferenceDomain = "subdivisions"
	DomainWires         ReferenceDomain = "wires"
	DomainBearings      ReferenceDomain = "bearings"
	DomainImpellers     ReferenceDomain = "impellers"
	DomainLaborPayments ReferenceDomain = "labor-payments"
)

type Subdivision struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Wire — обмоточный провод.
type Wire struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Brand     string
	Diameter  float64
	Price     float64
	CreatedAt time.Time
}

type Bearing struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Number    string
	Kind      string
	Price     float64
	CreatedAt time.Time
}

// Impeller — рабочее колесо.
type Impeller struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Size      string
	Price     float64
	CreatedAt time.Time
}

type LaborPayment struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Price     float64
	CreatedAt time.Time
}

type SpecialDocument struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Number    string
	Date      time.Time
	Comment   string
	CreatedAt time.Time
}

type ReferenceType struct {
	ID   uuid.UUID
	Slug string
	Name string
}

// LookupItem — нормализованный результат подбора по справочнику:
// независимо от домена вызывающий получает имя и, если есть, цену.
type LookupItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       *float64  `json:"price,omitempty"`
	Description string    `json:"description,omitempty"`
}
