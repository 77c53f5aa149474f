package schedule

import (
	"math"
	"strings"
	"time"

	"mariua.net/obras/models"
	"mariua.net/obras/utils"
)

const energizedMarker = "ENERGIZADA"

// IsEnergized reports whether the notes carry the "ENERGIZADA" signal.
func IsEnergized(notes string) bool {
	return strings.Contains(utils.FoldAccents(notes), energizedMarker)
}

// ProgressPercent is installed/planned as a whole percentage in [0, 100].
// Zero planned poles means zero progress.
func ProgressPercent(planned, installed int) int {
	if planned <= 0 {
		return 0
	}
	p := int(math.Round(float64(installed) / float64(planned) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ResolveStatus assigns the lifecycle status of a work order. Rules are
// checked in order and the first match wins:
//
//  1. notes contain ENERGIZADA            -> Energizada
//  2. due date before today               -> Vencida
//  3. progress at 100%                    -> Concluída
//  4. start date after today              -> Programada
//  5. started, due today or later/unknown -> Em Andamento
//  6. no usable dates                     -> by progress
//
// today must already be a civil date (see utils.Today).
func ResolveStatus(start, due *time.Time, progress int, notes string, today time.Time) models.Status {
	if IsEnergized(notes) {
		return models.StatusEnergized
	}

	if due != nil && due.Before(today) {
		return models.StatusExpired
	}

	if progress >= 100 {
		return models.StatusCompleted
	}

	if start != nil {
		if start.After(today) {
			return models.StatusScheduled
		}
		return models.StatusInProgress
	}

	if progress > 0 {
		return models.StatusInProgress
	}
	return models.StatusScheduled
}
