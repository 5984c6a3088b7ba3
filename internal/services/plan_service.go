package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/dto"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/scope"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
)

// PlanService is the per-user plan store. Every read path re-derives the
// overdue status from the schedule, so stored status never goes stale.
type PlanService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{db: db, now: time.Now}
}

// applyDerivedStatus recomputes the overdue flag in memory. Idempotent:
// re-applying on an already-derived plan changes nothing.
func (s *PlanService) applyDerivedStatus(p *models.Plan, now time.Time) {
	if p.Status != models.PlanStatusCompleted && p.EndsAt().Before(now) {
		p.Status = models.PlanStatusOverdue
	}
}

func (s *PlanService) CreatePlan(userID uuid.UUID, userName string, req dto.CreatePlanRequest) (*models.Plan, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate := startDate
	if req.EndDate != "" {
		if endDate, err = parseDate(req.EndDate); err != nil {
			return nil, err
		}
	}

	plan := models.Plan{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        normalizePlanType(req.Type),
		Status:      models.PlanStatusPending,
		Priority:    normalizePlanPriority(req.Priority),
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Notes:       req.Notes,
		Creator:     userName,
	}
	if len(req.Participants) > 0 {
		if b, err := json.Marshal(req.Participants); err == nil {
			plan.Participants = datatypes.JSON(b)
		}
	}

	if err := s.db.Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return &plan, nil
}

func (s *PlanService) ListPlans(userID uuid.UUID) ([]models.Plan, error) {
	var plans []models.Plan
	if err := s.db.Scopes(scope.ForUser(userID)).
		Order("start_date ASC, created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	now := s.now()
	for i := range plans {
		s.applyDerivedStatus(&plans[i], now)
	}
	return plans, nil
}

func (s *PlanService) GetPlan(userID, planID uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.Scopes(scope.ForUser(userID)).First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	s.applyDerivedStatus(&plan, s.now())
	return &plan, nil
}

func (s *PlanService) UpdatePlan(userID, planID uuid.UUID, req dto.UpdatePlanRequest) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.Scopes(scope.ForUser(userID)).First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		plan.Title = *req.Title
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Type != nil {
		plan.Type = normalizePlanType(*req.Type)
	}
	if req.Status != nil {
		// Overdue is derived; user input never writes it directly.
		if st := models.PlanStatus(*req.Status); st == models.PlanStatusPending ||
			st == models.PlanStatusInProgress || st == models.PlanStatusCompleted {
			plan.Status = st
		}
	}
	if req.Priority != nil {
		plan.Priority = normalizePlanPriority(*req.Priority)
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		plan.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		plan.EndDate = d
	}
	if req.StartTime != nil {
		plan.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		plan.EndTime = *req.EndTime
	}
	if req.Location != nil {
		plan.Location = *req.Location
	}
	if req.Notes != nil {
		plan.Notes = *req.Notes
	}
	if req.Participants != nil {
		if b, err := json.Marshal(*req.Participants); err == nil {
			plan.Participants = datatypes.JSON(b)
		}
	}

	if err := s.db.Save(&plan).Error; err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	s.applyDerivedStatus(&plan, s.now())
	return &plan, nil
}

func (s *PlanService) DeletePlan(userID, planID uuid.UUID) error {
	result := s.db.Scopes(scope.ForUser(userID)).Where("id = ?", planID).Delete(&models.Plan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// ListDuePlans returns the user's plans whose scheduled start has passed and
// which are neither completed nor already overdue. The overdue derivation
// runs first so a plan past its end date is excluded from conversion.
func (s *PlanService) ListDuePlans(userID uuid.UUID, now time.Time) ([]models.Plan, error) {
	var plans []models.Plan
	if err := s.db.Scopes(scope.ForUser(userID)).
		Where("status NOT IN ?", []models.PlanStatus{models.PlanStatusCompleted}).
		Order("start_date ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}

	due := make([]models.Plan, 0, len(plans))
	for i := range plans {
		s.applyDerivedStatus(&plans[i], now)
		if plans[i].Status == models.PlanStatusCompleted || plans[i].Status == models.PlanStatusOverdue {
			continue
		}
		if !plans[i].StartsAt().After(now) {
			due = append(due, plans[i])
		}
	}
	return due, nil
}

// ListPlanOwners enumerates every user that currently has plans, for the
// cross-user sync variant. An explicit query, not key introspection.
func (s *PlanService) ListPlanOwners() ([]uuid.UUID, error) {
	var owners []uuid.UUID
	if err := s.db.Model(&models.Plan{}).Distinct("user_id").Pluck("user_id", &owners).Error; err != nil {
		return nil, err
	}
	return owners, nil
}

// MarkConverted closes out a plan after its task has been created, appending
// the conversion annotation to the notes. The write skips the updated_at
// bump: the close-out is bookkeeping, not a user edit, and the conversion
// fingerprint must keep identifying the converted revision.
func (s *PlanService) MarkConverted(plan *models.Plan, convertedAt time.Time) error {
	note := "Converted to task at " + convertedAt.UTC().Format(time.RFC3339)
	if plan.Notes != "" {
		plan.Notes += "\n" + note
	} else {
		plan.Notes = note
	}
	plan.Status = models.PlanStatusCompleted
	return s.db.Model(&models.Plan{}).Where("id = ?", plan.ID).
		UpdateColumns(map[string]interface{}{
			"status": plan.Status,
			"notes":  plan.Notes,
		}).Error
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func normalizePlanType(s string) models.PlanType {
	switch t := models.PlanType(s); t {
	case models.PlanTypeMeeting, models.PlanTypeSiteVisit, models.PlanTypeReport,
		models.PlanTypeTraining, models.PlanTypeClientMeeting:
		return t
	default:
		return models.PlanTypeOther
	}
}

func normalizePlanPriority(s string) models.PlanPriority {
	switch p := models.PlanPriority(s); p {
	case models.PlanPriorityHigh, models.PlanPriorityLow:
		return p
	default:
		return models.PlanPriorityMedium
	}
}
