package services

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/events"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ConvertFunc produces a task draft from a due plan. The default wraps
// PlanToTask, which never fails; tests inject failing variants.
type ConvertFunc func(plan models.Plan, actingUserID uuid.UUID) (models.Task, error)

// SyncReport summarizes one sync pass.
type SyncReport struct {
	Scanned   int
	Skipped   int
	Converted int
	Failed    int
	LastTitle string
}

func (r *SyncReport) merge(other SyncReport) {
	r.Scanned += other.Scanned
	r.Skipped += other.Skipped
	r.Converted += other.Converted
	r.Failed += other.Failed
	if other.LastTitle != "" {
		r.LastTitle = other.LastTitle
	}
}

// SyncService converts due plans into tasks, autonomously on a cron cadence
// or on demand. One instance per process; the running guard makes a second
// StartAutoSync a no-op rather than a second timer.
type SyncService struct {
	db      *gorm.DB
	plans   *PlanService
	bus     *events.Bus
	now     func() time.Time
	convert ConvertFunc

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	entry   cron.EntryID
}

func NewSyncService(db *gorm.DB, plans *PlanService, bus *events.Bus) *SyncService {
	return &SyncService{
		db:    db,
		plans: plans,
		bus:   bus,
		now:   time.Now,
		convert: func(plan models.Plan, actingUserID uuid.UUID) (models.Task, error) {
			return PlanToTask(plan, actingUserID), nil
		},
		cron: cron.New(),
	}
}

// StartAutoSync runs one pass for the user immediately, then re-arms a
// periodic timer. No-op when a timer is already running.
func (s *SyncService) StartAutoSync(userID uuid.UUID, interval time.Duration) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if _, err := s.RunSyncPass(userID); err != nil {
		slog.Error("initial sync pass failed", "user_id", userID, "error", err)
	}

	entry, err := s.cron.AddFunc(intervalSpec(interval), func() {
		if _, err := s.RunSyncPass(userID); err != nil {
			slog.Error("scheduled sync pass failed", "user_id", userID, "error", err)
		}
	})
	if err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("schedule sync: %w", err)
	}

	s.mu.Lock()
	s.entry = entry
	s.mu.Unlock()
	s.cron.Start()
	slog.Info("auto sync started", "user_id", userID, "interval", interval.String())
	return nil
}

// StartAutoSyncAll is the cross-user variant used by the composition root:
// every user with plans gets scanned each tick.
func (s *SyncService) StartAutoSyncAll(interval time.Duration) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if _, err := s.RunSyncForAllUsers(); err != nil {
		slog.Error("initial sync sweep failed", "error", err)
	}

	entry, err := s.cron.AddFunc(intervalSpec(interval), func() {
		if _, err := s.RunSyncForAllUsers(); err != nil {
			slog.Error("scheduled sync sweep failed", "error", err)
		}
	})
	if err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("schedule sync: %w", err)
	}

	s.mu.Lock()
	s.entry = entry
	s.mu.Unlock()
	s.cron.Start()
	slog.Info("auto sync started for all users", "interval", interval.String())
	return nil
}

// StopAutoSync cancels the timer. Idempotent. A pass already in flight
// completes; only future ticks are cancelled.
func (s *SyncService) StopAutoSync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cron.Remove(s.entry)
	s.cron.Stop()
	s.running = false
	slog.Info("auto sync stopped")
}

func (s *SyncService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunSyncPass scans the user's due plans and converts each one that has no
// successful audit entry for its current revision. A single plan's failure
// is recorded and the batch continues. Emits one TasksUpdated event when at
// least one conversion succeeded.
func (s *SyncService) RunSyncPass(userID uuid.UUID) (SyncReport, error) {
	now := s.now()
	due, err := s.plans.ListDuePlans(userID, now)
	if err != nil {
		return SyncReport{}, fmt.Errorf("list due plans: %w", err)
	}

	var report SyncReport
	report.Scanned = len(due)

	for i := range due {
		plan := due[i]
		fingerprint := models.PlanFingerprint(plan.ID, plan.UpdatedAt)

		converted, err := s.alreadyConverted(plan.ID, fingerprint)
		if err != nil {
			return report, fmt.Errorf("check audit log: %w", err)
		}
		if converted {
			report.Skipped++
			continue
		}

		if err := s.convertOne(&plan, userID, fingerprint, now); err != nil {
			report.Failed++
			slog.Error("plan conversion failed", "plan_id", plan.ID, "error", err)
			s.appendAudit(models.ConversionRecord{
				ID:          uuid.New(),
				PlanID:      plan.ID,
				Fingerprint: fingerprint,
				ConvertedAt: now,
				Success:     false,
				Error:       err.Error(),
			})
			continue
		}

		report.Converted++
		report.LastTitle = plan.Title
	}

	if report.Converted > 0 {
		s.bus.PublishUpdated(events.TasksUpdated{Source: "plan_sync", TaskTitle: report.LastTitle})
	}
	return report, nil
}

// RunSyncForAllUsers runs one pass per plan owner. Per-user failures are
// logged and do not stop the sweep.
func (s *SyncService) RunSyncForAllUsers() (SyncReport, error) {
	owners, err := s.plans.ListPlanOwners()
	if err != nil {
		return SyncReport{}, fmt.Errorf("list plan owners: %w", err)
	}

	var total SyncReport
	for _, owner := range owners {
		report, err := s.RunSyncPass(owner)
		if err != nil {
			slog.Error("sync pass failed for user", "user_id", owner, "error", err)
			continue
		}
		total.merge(report)
	}
	return total, nil
}

// AuditLog returns the most recent conversion attempts, newest first.
func (s *SyncService) AuditLog(limit int) ([]models.ConversionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var records []models.ConversionRecord
	err := s.db.Order("converted_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

func (s *SyncService) alreadyConverted(planID uuid.UUID, fingerprint string) (bool, error) {
	var count int64
	err := s.db.Model(&models.ConversionRecord{}).
		Where("plan_id = ? AND fingerprint = ? AND success = ?", planID, fingerprint, true).
		Count(&count).Error
	return count > 0, err
}

func (s *SyncService) convertOne(plan *models.Plan, actingUserID uuid.UUID, fingerprint string, now time.Time) error {
	task, err := s.convert(*plan, actingUserID)
	if err != nil {
		return err
	}

	task.ID = uuid.New()
	if err := s.db.Create(&task).Error; err != nil {
		return fmt.Errorf("persist task: %w", err)
	}

	s.appendAudit(models.ConversionRecord{
		ID:          uuid.New(),
		PlanID:      plan.ID,
		TaskID:      &task.ID,
		Fingerprint: fingerprint,
		ConvertedAt: now,
		Success:     true,
	})

	if err := s.plans.MarkConverted(plan, now); err != nil {
		// Task exists and the audit row guards against re-conversion, so a
		// failed close-out is logged rather than rolled back.
		slog.Error("failed to close out converted plan", "plan_id", plan.ID, "error", err)
	}
	return nil
}

func (s *SyncService) appendAudit(record models.ConversionRecord) {
	if err := s.db.Create(&record).Error; err != nil {
		slog.Error("failed to append conversion audit record", "plan_id", record.PlanID, "error", err)
	}
}

func intervalSpec(interval time.Duration) string {
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return fmt.Sprintf("@every %ds", seconds)
}
