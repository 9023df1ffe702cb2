package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCounterparties(t *testing.T) {
	input := "name,inn\nAcme,123456789"

	rows, err := ParseCounterparties(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Acme", rows[0].Name)
	assert.Equal(t, "123456789", rows[0].INN)
	assert.True(t, rows[0].IsActive, "is_active defaults to true")
}

func TestParseCounterpartiesHeaderCaseInsensitive(t *testing.T) {
	input := "NAME,Inn,IS_ACTIVE,unknown_column\nООО Ромашка,7701234567,0,ignored"

	rows, err := ParseCounterparties(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "ООО Ромашка", rows[0].Name)
	assert.Equal(t, "7701234567", rows[0].INN)
	assert.False(t, rows[0].IsActive)
}

func TestParseCounterpartiesMissingNameColumn(t *testing.T) {
	_, err := ParseCounterparties(strings.NewReader("inn\n123"))
	assert.Error(t, err)
}

func TestParseCounterpartiesEmptyName(t *testing.T) {
	_, err := ParseCounterparties(strings.NewReader("name,inn\n,123"))
	assert.Error(t, err)
}

func TestParseMotors(t *testing.T) {
	input := "name,manufacturer,power_kw,rpm,voltage\nАИР112М4,ВЭМЗ,\"5,5\",1430,380В"

	rows, err := ParseMotors(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "АИР112М4", rows[0].Name)
	assert.Equal(t, "ВЭМЗ", rows[0].Manufacturer)
	assert.InDelta(t, 5.5, rows[0].PowerKW, 1e-9)
	assert.Equal(t, 1430, rows[0].RPM)
	assert.Equal(t, "380В", rows[0].Voltage)
}
