package services

import (
	"testing"
	"time"

	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/dto"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskProvider_Refresh(t *testing.T) {
	f := newTaskFixture(t)
	bus := newTestBus()
	provider := NewTaskProvider(f.svc, bus, time.Hour)

	refreshed, cancel := bus.SubscribeRefreshed()
	defer cancel()

	assert.Equal(t, StateLoading, provider.State())

	_, err := f.svc.CreateTask(f.employee, dto.CreateTaskRequest{Title: "first", Date: "2026-09-01"})
	require.NoError(t, err)

	require.NoError(t, provider.Refresh())
	assert.Equal(t, StateReady, provider.State())
	assert.False(t, provider.RefreshedAt().IsZero())

	select {
	case e := <-refreshed:
		assert.False(t, e.At.IsZero())
	default:
		t.Fatal("expected a TasksRefreshed event after Refresh")
	}

	tasks, err := provider.Tasks(f.employee)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].Title)

	// The snapshot is replaced wholesale: a task created after the refresh
	// is invisible until the next one.
	_, err = f.svc.CreateTask(f.employee, dto.CreateTaskRequest{Title: "second", Date: "2026-09-02"})
	require.NoError(t, err)

	tasks, err = provider.Tasks(f.employee)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	require.NoError(t, provider.Refresh())
	tasks, err = provider.Tasks(f.employee)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTaskProvider_NilActor(t *testing.T) {
	f := newTaskFixture(t)
	provider := NewTaskProvider(f.svc, newTestBus(), time.Hour)

	_, err := f.svc.CreateTask(f.employee, dto.CreateTaskRequest{Title: "hidden", Date: "2026-09-01"})
	require.NoError(t, err)
	require.NoError(t, provider.Refresh())

	tasks, err := provider.Tasks(nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskProvider_VisibilityPerActor(t *testing.T) {
	f := newTaskFixture(t)
	provider := NewTaskProvider(f.svc, newTestBus(), time.Hour)

	_, err := f.svc.CreateTask(f.employee, dto.CreateTaskRequest{Title: "retail work", Date: "2026-09-01"})
	require.NoError(t, err)
	_, err = f.svc.CreateTask(f.outsider, dto.CreateTaskRequest{Title: "project work", Date: "2026-09-01"})
	require.NoError(t, err)
	require.NoError(t, provider.Refresh())

	// Same snapshot, different actors, different views.
	mine, err := provider.Tasks(f.employee)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "retail work", mine[0].Title)

	theirs, err := provider.Tasks(f.outsider)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "project work", theirs[0].Title)
}

func TestTaskProvider_FilterTasks(t *testing.T) {
	f := newTaskFixture(t)
	provider := NewTaskProvider(f.svc, newTestBus(), time.Hour)

	_, err := f.svc.CreateTask(f.employee, dto.CreateTaskRequest{Title: "open", Date: "2026-09-01"})
	require.NoError(t, err)
	_, err = f.svc.CreateTask(f.employee, dto.CreateTaskRequest{Title: "paused", Date: "2026-09-01", Status: "on-hold"})
	require.NoError(t, err)
	require.NoError(t, provider.Refresh())

	tasks, err := provider.FilterTasks(f.employee, dto.TaskFilterRequest{Status: "on-hold"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "paused", tasks[0].Title)
}

func TestTaskProvider_EventDrivenRefresh(t *testing.T) {
	f := newTaskFixture(t)
	bus := newTestBus()
	provider := NewTaskProvider(f.svc, bus, time.Hour)

	provider.Start()
	defer provider.Stop()

	before := provider.RefreshedAt()

	_, err := f.svc.CreateTask(f.employee, dto.CreateTaskRequest{Title: "late arrival", Date: "2026-09-01"})
	require.NoError(t, err)

	bus.PublishUpdated(events.TasksUpdated{Source: "task_create", TaskTitle: "late arrival"})

	require.Eventually(t, func() bool {
		return provider.RefreshedAt().After(before)
	}, 2*time.Second, 10*time.Millisecond)

	tasks, err := provider.Tasks(f.employee)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	// Stop is idempotent.
	provider.Stop()
	provider.Stop()
}
