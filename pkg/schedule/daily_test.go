package schedule

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"mariua.net/obras/models"
)

func dailyRows() []models.RawRow {
	return []models.RawRow{
		{"18/11/2025", "P-1", "MARIA", "JOÃO", "Rede Rural", "Feira", "IMPLANTAÇÃO", "A"},
		{"18/11/2025", "", "MARIA", "JOÃO"},
		{"sem data", "P-3", "MARIA"},
		{45980.0, "P-4", nil, nil, "Ramal", "Conceição", "ESCAVAÇÃO"},
	}
}

func TestParseDailySchedule(t *testing.T) {
	tasks, skipped := ParseDailySchedule(dailyRows(), DefaultDailyColumns)

	require.Len(t, tasks, 2)
	assert.Equal(t, "P-1", tasks[0].ProjectCode)
	assert.Equal(t, "18/11/2025", tasks[0].Date.String())
	assert.Equal(t, "IMPLANTAÇÃO", tasks[0].ScheduledActivity)
	assert.Equal(t, "A", tasks[0].Criterion)

	assert.Equal(t, "19/11/2025", tasks[1].Date.String())
	assert.Equal(t, notAvailable, tasks[1].Supervisor)
	assert.Equal(t, "", tasks[1].Criterion)

	assert.Equal(t, []Diagnostic{
		{Line: 3, Reason: reasonNoProject},
		{Line: 4, Reason: "data inválida"},
	}, skipped)
}

func TestSnapshotTasksOn(t *testing.T) {
	tasks, _ := ParseDailySchedule(dailyRows(), DefaultDailyColumns)
	snap := NewSnapshot("PROGRAMACAO.xlsx", tasks, nil, time.Now())

	got := snap.TasksOn(today)
	require.Len(t, got, 1)
	assert.Equal(t, "P-1", got[0].ProjectCode)
	assert.Empty(t, snap.TasksOn(today.AddDate(0, 0, 5)))

	var none *Snapshot
	assert.Nil(t, none.TasksOn(today))
}

func TestStore(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Current())

	first := NewSnapshot("a.xlsx", nil, nil, time.Now())
	assert.Same(t, first, store.InitIfEmpty(first))

	second := NewSnapshot("b.xlsx", nil, nil, time.Now())
	assert.Same(t, first, store.InitIfEmpty(second), "a loaded schedule is never replaced by a fallback")

	assert.Same(t, first, store.Replace(second))
	assert.Same(t, second, store.Current())
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PlannedTaskRow{}))
	return db
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testDB(t))

	snap, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	tasks, _ := ParseDailySchedule(dailyRows(), DefaultDailyColumns)
	uploaded := time.Date(2025, time.November, 18, 9, 30, 0, 0, time.UTC)
	first := NewSnapshot("dia-18.xlsx", tasks, nil, uploaded)
	require.NoError(t, repo.Save(ctx, first))

	loaded, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, first.ID, loaded.ID)
	assert.Equal(t, "dia-18.xlsx", loaded.Source)
	assert.True(t, uploaded.Equal(loaded.UploadedAt))
	assert.Equal(t, tasks, loaded.Tasks)

	// saving again replaces, never merges
	second := NewSnapshot("dia-19.xlsx", tasks[1:], nil, uploaded.Add(24*time.Hour))
	require.NoError(t, repo.Save(ctx, second))
	loaded, err = repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, "P-4", loaded.Tasks[0].ProjectCode)

	assert.Error(t, repo.Save(ctx, nil))
}
