package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
}

// Principal — аутентифицированный пользователь запроса.
// Владелец всех строк, которые он видит и меняет.
type Principal struct {
	UserID uuid.UUID
	Email  string
}
