package schedule

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"mariua.net/obras/models"
)

// Repository persists daily schedule snapshots. Saving replaces whatever was
// stored before; uploads are never merged.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save replaces the stored schedule with snap inside one transaction.
func (r *Repository) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return errors.New("no daily schedule to save")
	}

	rows := make([]models.PlannedTaskRow, 0, len(snap.Tasks))
	for i, t := range snap.Tasks {
		rows = append(rows, models.NewPlannedTaskRow(snap.ID, i, t, snap.Source, snap.UploadedAt))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PlannedTaskRow{}).Error; err != nil {
			return fmt.Errorf("clear planned tasks: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("insert planned tasks: %w", err)
		}
		return nil
	})
}

// Latest rebuilds the stored snapshot, or returns nil when the table is empty.
func (r *Repository) Latest(ctx context.Context) (*Snapshot, error) {
	var rows []models.PlannedTaskRow
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load planned tasks: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	snap := &Snapshot{
		ID:         rows[0].SnapshotID,
		Source:     rows[0].Source,
		UploadedAt: rows[0].UploadedAt,
		Tasks:      make([]models.PlannedTask, 0, len(rows)),
	}
	for _, row := range rows {
		snap.Tasks = append(snap.Tasks, row.Task())
	}
	return snap, nil
}
