package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskTouchedAt(title string, priority models.TaskPriority, touched time.Time) models.Task {
	return models.Task{
		ID:        uuid.New(),
		Title:     title,
		Priority:  priority,
		CreatedAt: touched.Add(-time.Hour),
		UpdatedAt: touched,
	}
}

func TestSortTasks(t *testing.T) {
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("recency wins outside the tie window", func(t *testing.T) {
		older := taskTouchedAt("older urgent", models.TaskPriorityUrgent, base)
		newer := taskTouchedAt("newer low", models.TaskPriorityLow, base.Add(2*time.Minute))

		sorted := SortTasks([]models.Task{older, newer})

		require.Len(t, sorted, 2)
		assert.Equal(t, "newer low", sorted[0].Title)
		assert.Equal(t, "older urgent", sorted[1].Title)
	})

	t.Run("priority breaks ties inside the one minute window", func(t *testing.T) {
		a := taskTouchedAt("A urgent", models.TaskPriorityUrgent, base)
		b := taskTouchedAt("B low", models.TaskPriorityLow, base.Add(30*time.Second))

		sorted := SortTasks([]models.Task{b, a})

		assert.Equal(t, "A urgent", sorted[0].Title)
		assert.Equal(t, "B low", sorted[1].Title)
	})

	t.Run("priority ranking within a tie group", func(t *testing.T) {
		tasks := []models.Task{
			taskTouchedAt("low", models.TaskPriorityLow, base),
			taskTouchedAt("normal", models.TaskPriorityNormal, base.Add(10*time.Second)),
			taskTouchedAt("urgent", models.TaskPriorityUrgent, base.Add(20*time.Second)),
			taskTouchedAt("high", models.TaskPriorityHigh, base.Add(30*time.Second)),
		}

		sorted := SortTasks(tasks)

		assert.Equal(t, "urgent", sorted[0].Title)
		assert.Equal(t, "high", sorted[1].Title)
		assert.Equal(t, "normal", sorted[2].Title)
		assert.Equal(t, "low", sorted[3].Title)
	})

	t.Run("unrecognized priority ranks as normal", func(t *testing.T) {
		odd := taskTouchedAt("odd", models.TaskPriority("whatever"), base)
		low := taskTouchedAt("low", models.TaskPriorityLow, base.Add(10*time.Second))

		sorted := SortTasks([]models.Task{low, odd})

		assert.Equal(t, "odd", sorted[0].Title)
	})

	t.Run("falls back to created_at when never updated", func(t *testing.T) {
		fresh := models.Task{ID: uuid.New(), Title: "fresh", CreatedAt: base.Add(5 * time.Minute)}
		stale := models.Task{ID: uuid.New(), Title: "stale", CreatedAt: base}

		sorted := SortTasks([]models.Task{stale, fresh})

		assert.Equal(t, "fresh", sorted[0].Title)
	})

	t.Run("deterministic for fixed input", func(t *testing.T) {
		build := func() []models.Task {
			return []models.Task{
				taskTouchedAt("a", models.TaskPriorityLow, base),
				taskTouchedAt("b", models.TaskPriorityUrgent, base.Add(15*time.Second)),
				taskTouchedAt("c", models.TaskPriorityHigh, base.Add(3*time.Minute)),
				taskTouchedAt("d", models.TaskPriorityNormal, base.Add(45*time.Second)),
			}
		}

		first := SortTasks(build())
		second := SortTasks(build())

		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].Title, second[i].Title)
		}
	})
}
