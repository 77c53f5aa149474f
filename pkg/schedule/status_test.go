package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"mariua.net/obras/models"
)

func day(offset int) *time.Time {
	d := today.AddDate(0, 0, offset)
	return &d
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name               string
		planned, installed int
		expected           int
	}{
		{"nothing planned", 0, 5, 0},
		{"negative planned", -1, 5, 0},
		{"half", 10, 5, 50},
		{"rounds down", 3, 1, 33},
		{"rounds up", 3, 2, 67},
		{"clamped at 100", 10, 15, 100},
		{"none installed", 8, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressPercent(tt.planned, tt.installed); got != tt.expected {
				t.Errorf("ProgressPercent(%d, %d) = %d, expected %d", tt.planned, tt.installed, got, tt.expected)
			}
		})
	}
}

func TestIsEnergized(t *testing.T) {
	assert.True(t, IsEnergized("obra energizada ontem"))
	assert.True(t, IsEnergized("ENERGIZADA"))
	assert.False(t, IsEnergized("energização pendente"))
	assert.False(t, IsEnergized(""))
}

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name       string
		start, due *time.Time
		progress   int
		notes      string
		expected   models.Status
	}{
		{"energized wins over everything", day(-30), day(-1), 10, "obra energizada ontem", models.StatusEnergized},
		{"future start", day(3), day(20), 0, "", models.StatusScheduled},
		{"started and due in future", day(-5), day(10), 40, "", models.StatusInProgress},
		{"due today is not expired", day(-5), day(0), 40, "", models.StatusInProgress},
		{"past due at 100 is expired", day(-20), day(-1), 100, "", models.StatusExpired},
		{"past due without start", nil, day(-1), 0, "", models.StatusExpired},
		{"complete and not due", day(-5), day(5), 100, "", models.StatusCompleted},
		{"started today", day(0), nil, 0, "", models.StatusInProgress},
		{"no dates no progress", nil, nil, 0, "", models.StatusScheduled},
		{"no dates some progress", nil, nil, 30, "", models.StatusInProgress},
		{"no dates complete", nil, nil, 100, "", models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveStatus(tt.start, tt.due, tt.progress, tt.notes, today)
			assert.Equal(t, tt.expected, got)
		})
	}
}
