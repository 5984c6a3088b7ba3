package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSyncFixture(t *testing.T) (*SyncService, *PlanService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	plans := NewPlanService(db)
	sync := NewSyncService(db, plans, newTestBus())
	return sync, plans, db
}

func duePlan(userID uuid.UUID, title string) *models.Plan {
	yesterday := dateAt(-1)
	return &models.Plan{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Type:      models.PlanTypeMeeting,
		Status:    models.PlanStatusPending,
		Priority:  models.PlanPriorityHigh,
		StartDate: yesterday,
		EndDate:   dateAt(2),
		StartTime: "09:00",
	}
}

func TestSyncService_RunSyncPass(t *testing.T) {
	sync, _, db := newSyncFixture(t)
	owner := uuid.New()

	plan := duePlan(owner, "Morning stand-up")
	require.NoError(t, db.Create(plan).Error)

	report, err := sync.RunSyncPass(owner)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Converted)
	assert.Equal(t, 0, report.Failed)

	var task models.Task
	require.NoError(t, db.First(&task, "title = ?", "Morning stand-up").Error)
	assert.Equal(t, owner, task.AssignedTo)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.True(t, task.IsNew)

	var record models.ConversionRecord
	require.NoError(t, db.First(&record, "plan_id = ?", plan.ID).Error)
	assert.True(t, record.Success)
	require.NotNil(t, record.TaskID)
	assert.Equal(t, task.ID, *record.TaskID)

	var closed models.Plan
	require.NoError(t, db.First(&closed, "id = ?", plan.ID).Error)
	assert.Equal(t, models.PlanStatusCompleted, closed.Status)
	assert.Contains(t, closed.Notes, "Converted to task")
}

func TestSyncService_PassIsIdempotent(t *testing.T) {
	sync, _, db := newSyncFixture(t)
	owner := uuid.New()

	require.NoError(t, db.Create(duePlan(owner, "One-shot plan")).Error)

	first, err := sync.RunSyncPass(owner)
	require.NoError(t, err)
	require.Equal(t, 1, first.Converted)

	// The plan is now completed, so a second pass has nothing to scan.
	second, err := sync.RunSyncPass(owner)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Scanned)
	assert.Equal(t, 0, second.Converted)

	var count int64
	db.Model(&models.Task{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSyncService_FingerprintGuardsReconversion(t *testing.T) {
	sync, _, db := newSyncFixture(t)
	owner := uuid.New()

	plan := duePlan(owner, "Sticky plan")
	require.NoError(t, db.Create(plan).Error)

	_, err := sync.RunSyncPass(owner)
	require.NoError(t, err)

	// Reopen the plan without touching updated_at: the revision fingerprint
	// is unchanged, so the audit log must block a second conversion.
	require.NoError(t, db.Model(&models.Plan{}).Where("id = ?", plan.ID).
		UpdateColumn("status", models.PlanStatusPending).Error)

	report, err := sync.RunSyncPass(owner)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Converted)

	var count int64
	db.Model(&models.Task{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSyncService_PartialFailureContinuesBatch(t *testing.T) {
	sync, _, db := newSyncFixture(t)
	owner := uuid.New()

	require.NoError(t, db.Create(duePlan(owner, "first")).Error)
	require.NoError(t, db.Create(duePlan(owner, "boom")).Error)
	require.NoError(t, db.Create(duePlan(owner, "third")).Error)

	sync.convert = func(plan models.Plan, actingUserID uuid.UUID) (models.Task, error) {
		if plan.Title == "boom" {
			return models.Task{}, errors.New("converter exploded")
		}
		return PlanToTask(plan, actingUserID), nil
	}

	report, err := sync.RunSyncPass(owner)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Converted)
	assert.Equal(t, 1, report.Failed)

	var taskCount int64
	db.Model(&models.Task{}).Count(&taskCount)
	assert.EqualValues(t, 2, taskCount)

	var failure models.ConversionRecord
	require.NoError(t, db.First(&failure, "success = ?", false).Error)
	assert.Contains(t, failure.Error, "converter exploded")
	assert.Nil(t, failure.TaskID)

	// Failed conversions stay eligible: the next pass retries them.
	retry, err := sync.RunSyncPass(owner)
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Scanned)
	assert.Equal(t, 1, retry.Failed)
}

func TestSyncService_EmitsUpdateEventAfterConversions(t *testing.T) {
	db := newTestDB(t)
	plans := NewPlanService(db)
	bus := newTestBus()
	sync := NewSyncService(db, plans, bus)

	owner := uuid.New()
	require.NoError(t, db.Create(duePlan(owner, "Signal me")).Error)

	updated, cancel := bus.SubscribeUpdated()
	defer cancel()

	_, err := sync.RunSyncPass(owner)
	require.NoError(t, err)

	select {
	case e := <-updated:
		assert.Equal(t, "plan_sync", e.Source)
		assert.Equal(t, "Signal me", e.TaskTitle)
	default:
		t.Fatal("expected a TasksUpdated event after a successful conversion")
	}
}

func TestSyncService_SkipsPlansNotYetDue(t *testing.T) {
	sync, _, db := newSyncFixture(t)
	owner := uuid.New()

	future := duePlan(owner, "Not yet")
	future.StartDate = dateAt(3)
	future.EndDate = dateAt(4)
	require.NoError(t, db.Create(future).Error)

	report, err := sync.RunSyncPass(owner)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)
	assert.Equal(t, 0, report.Converted)
}

func TestSyncService_RunSyncForAllUsers(t *testing.T) {
	sync, _, db := newSyncFixture(t)

	userA := uuid.New()
	userB := uuid.New()
	require.NoError(t, db.Create(duePlan(userA, "A's plan")).Error)
	require.NoError(t, db.Create(duePlan(userB, "B's plan")).Error)

	report, err := sync.RunSyncForAllUsers()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Converted)

	var count int64
	db.Model(&models.Task{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestSyncService_StartStopAutoSync(t *testing.T) {
	sync, _, db := newSyncFixture(t)
	owner := uuid.New()
	require.NoError(t, db.Create(duePlan(owner, "Timer plan")).Error)

	require.NoError(t, sync.StartAutoSync(owner, time.Hour))
	assert.True(t, sync.Running())

	// The immediate pass runs before the timer arms.
	var count int64
	db.Model(&models.Task{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// Second start is a no-op while running.
	require.NoError(t, sync.StartAutoSync(owner, time.Minute))
	assert.True(t, sync.Running())

	sync.StopAutoSync()
	assert.False(t, sync.Running())

	// Stop is idempotent.
	sync.StopAutoSync()
	assert.False(t, sync.Running())
}
