package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlannedTask is one row of the daily schedule ("programação diária").
type PlannedTask struct {
	Date              LocalDate `json:"data"`
	ProjectCode       string    `json:"projeto"`
	Supervisor        string    `json:"supervisor"`
	Foreman           string    `json:"encarregado"`
	Title             string    `json:"titulo"`
	Municipality      string    `json:"municipio"`
	ScheduledActivity string    `json:"atividadeProgramada"`
	Criterion         string    `json:"criterio"`
}

// PlannedTaskRow is the persisted form of a PlannedTask. All rows of one
// upload share a SnapshotID; saving a new snapshot replaces the table.
type PlannedTaskRow struct {
	ID                uint           `gorm:"primaryKey" json:"-"`
	SnapshotID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"snapshotId"`
	Position          int            `gorm:"not null" json:"position"`
	Date              datatypes.Date `gorm:"index;not null" json:"data"`
	ProjectCode       string         `gorm:"size:64;index;not null" json:"projeto"`
	Supervisor        string         `gorm:"size:120" json:"supervisor"`
	Foreman           string         `gorm:"size:120" json:"encarregado"`
	Title             string         `gorm:"size:255" json:"titulo"`
	Municipality      string         `gorm:"size:120" json:"municipio"`
	ScheduledActivity string         `gorm:"size:120" json:"atividadeProgramada"`
	Criterion         string         `gorm:"size:64" json:"criterio"`
	Source            string         `gorm:"size:255" json:"source"`
	UploadedAt        time.Time      `gorm:"not null" json:"uploadedAt"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (PlannedTaskRow) TableName() string {
	return "planned_tasks"
}

// NewPlannedTaskRow converts a task for persistence.
func NewPlannedTaskRow(snapshotID uuid.UUID, position int, t PlannedTask, source string, uploadedAt time.Time) PlannedTaskRow {
	var date time.Time
	if d := t.Date.Time(); d != nil {
		date = *d
	}
	return PlannedTaskRow{
		SnapshotID:        snapshotID,
		Position:          position,
		Date:              datatypes.Date(date),
		ProjectCode:       t.ProjectCode,
		Supervisor:        t.Supervisor,
		Foreman:           t.Foreman,
		Title:             t.Title,
		Municipality:      t.Municipality,
		ScheduledActivity: t.ScheduledActivity,
		Criterion:         t.Criterion,
		Source:            source,
		UploadedAt:        uploadedAt,
	}
}

// Task converts a persisted row back to its domain form.
func (r PlannedTaskRow) Task() PlannedTask {
	date := time.Time(r.Date)
	return PlannedTask{
		Date:              NewLocalDate(&date),
		ProjectCode:       r.ProjectCode,
		Supervisor:        r.Supervisor,
		Foreman:           r.Foreman,
		Title:             r.Title,
		Municipality:      r.Municipality,
		ScheduledActivity: r.ScheduledActivity,
		Criterion:         r.Criterion,
	}
}
