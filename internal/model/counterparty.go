package model

import (
	"time"

	"github.com/google/uuid"
)

type Counterparty struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	INN       string
	KPP       string
	Address   string
	Phone     string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}

type Motor struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	Manufacturer    string
	PowerKW         float64
	RPM             int
	Voltage         string
	InventoryNumber string
	Notes           string
	CreatedAt       time.Time
}
