package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mariua.net/obras/models"
)

func TestColumnsFromHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   models.RawRow
		expected LogColumns
		ok       bool
	}{
		{
			name:     "standard layout",
			header:   models.RawRow{"Projeto", "Data do Serviço", "Supervisor", "Equipe", "Atividade", "Quantidade", "Retorno", "Latitude", "Longitude"},
			expected: DefaultLogColumns,
			ok:       true,
		},
		{
			name:   "shuffled with aliases",
			header: models.RawRow{"Atividade", "Qtd", "Obra", "Data"},
			expected: LogColumns{
				Project: 2, ServiceDate: 3, Supervisor: -1, Crew: -1, Activity: 0,
				Quantity: 1, FieldReturn: 6, Latitude: 7, Longitude: 8,
			},
			ok: true,
		},
		{
			name:     "unrecognised",
			header:   models.RawRow{"a", "b", nil},
			expected: DefaultLogColumns,
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, ok := ColumnsFromHeader(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, cols)
		})
	}
}

func TestParseLog(t *testing.T) {
	rows := []models.RawRow{
		{"P-1", "18/11/2025", "MARIA", "EQUIPE 1", "POSTE BT", "3", "ok", "-12,5", -38.9},
		{"", "18/11/2025", "MARIA"},
		{"nan"},
		{"P-2", 45979.0, nil, nil, "CAVA", "x"},
	}

	entries := ParseLog(rows, DefaultLogColumns)
	require.Len(t, entries, 2)

	e := entries[0]
	assert.Equal(t, "P-1", e.ProjectCode)
	assert.Equal(t, "18/11/2025", e.ServiceDate)
	assert.Equal(t, 3.0, e.Quantity)
	assert.Equal(t, "EQUIPE 1", e.Crew)
	require.NotNil(t, e.Latitude)
	assert.Equal(t, -12.5, *e.Latitude)

	assert.Equal(t, 45979.0, entries[1].ServiceDate, "raw date cell is kept")
	assert.Equal(t, 0.0, entries[1].Quantity)
	assert.Nil(t, entries[1].Longitude)
}
