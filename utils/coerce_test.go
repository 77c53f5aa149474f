package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   string
		wantOK bool
	}{
		{"trims spaces", "  P-1001 ", "P-1001", true},
		{"nil", nil, "", false},
		{"empty", "", "", false},
		{"only spaces", "   ", "", false},
		{"nan marker", "nan", "", false},
		{"none marker any case", "None", "", false},
		{"nat marker", "NaT", "", false},
		{"whole float", 12.0, "12", true},
		{"fractional float", 3.5, "3.5", true},
		{"int", 7, "7", true},
		{"leading zeros kept", "00123", "00123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanText(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestTextOr(t *testing.T) {
	assert.Equal(t, "N/A", TextOr(nil, "N/A"))
	assert.Equal(t, "N/A", TextOr("nan", "N/A"))
	assert.Equal(t, "JOÃO", TextOr(" JOÃO ", "N/A"))
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"float", 7.0, 7},
		{"int", 3, 3},
		{"numeric string", "12", 12},
		{"decimal comma", "12,5", 12.5},
		{"thousands and comma", "1.234,5", 1234.5},
		{"comma thousands with dot decimal", "1,234.5", 1234.5},
		{"grouped comma thousands", "1,234,567.25", 1234567.25},
		{"text", "abc", -1},
		{"nil", nil, -1},
		{"null marker", "nan", -1},
		{"bool", true, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToNumber(tt.input, -1))
		})
	}
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 0, ToInt(-3.0))
	assert.Equal(t, 4, ToInt("4.9"))
	assert.Equal(t, 0, ToInt("x"))
	assert.Equal(t, 10, ToInt(10.0))
}

func TestToCoordinate(t *testing.T) {
	c := ToCoordinate("-12,97")
	require.NotNil(t, c)
	assert.InDelta(t, -12.97, *c, 1e-9)

	c = ToCoordinate(-38.5)
	require.NotNil(t, c)
	assert.Equal(t, -38.5, *c)

	assert.Nil(t, ToCoordinate(200.0))
	assert.Nil(t, ToCoordinate("norte"))
	assert.Nil(t, ToCoordinate(nil))
	assert.Nil(t, ToCoordinate(""))
}

func TestToDate(t *testing.T) {
	want := date(2025, time.March, 15)

	tests := []struct {
		name  string
		input any
	}{
		{"brazilian layout", "15/03/2025"},
		{"unpadded brazilian layout", "15/3/2025"},
		{"iso layout", "2025-03-15"},
		{"iso with time", "2025-03-15 00:00:00"},
		{"iso with T", "2025-03-15T10:30:00"},
		{"serial number", 45731.0},
		{"serial as string", "45731"},
		{"time value with clock", time.Date(2025, time.March, 15, 17, 45, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDate(tt.input)
			require.NotNil(t, got)
			assert.True(t, want.Equal(*got), "got %v", got)
		})
	}

	t.Run("both text formats are equal", func(t *testing.T) {
		a, b := ToDate("15/03/2025"), ToDate("2025-03-15")
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.True(t, a.Equal(*b))
	})

	invalid := []any{nil, "", "abc", "31/02/2025", "2025-13-01", "nan", 0.0, -5.0, time.Time{}}
	for _, in := range invalid {
		assert.Nil(t, ToDate(in), "input %#v", in)
	}
}

func TestFormatDateLocal(t *testing.T) {
	d := date(2025, time.November, 3)
	assert.Equal(t, "03/11/2025", FormatDateLocal(&d))
	assert.Equal(t, "", FormatDateLocal(nil))
}

func TestDateOf(t *testing.T) {
	got := DateOf(time.Date(2025, time.June, 9, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, date(2025, time.June, 9), got)
}

func TestFoldAccents(t *testing.T) {
	assert.Equal(t, "ESCAVACAO", FoldAccents("Escavação"))
	assert.Equal(t, "LOCACAO DE POSTE", FoldAccents("locação de poste"))
	assert.Equal(t, "IMPLANTACAO", FoldAccents("IMPLANTAÇÃO"))
	assert.True(t, ContainsAny(FoldAccents("obra energizada ontem"), "ENERGIZADA"))
	assert.False(t, ContainsAny("CAVA", "POSTE", "LOCACAO"))
}
