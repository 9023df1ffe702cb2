package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterpartyConflictClause(t *testing.T) {
	assert.Equal(t,
		"ON CONFLICT (owner_id, inn) WHERE inn <> ''",
		counterpartyConflictClause("7701234567"))
	assert.Equal(t,
		"ON CONFLICT (owner_id, name) WHERE inn = ''",
		counterpartyConflictClause(""))
}
