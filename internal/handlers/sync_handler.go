package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/authctx"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/dto"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/services"
)

type SyncHandler struct {
	syncService *services.SyncService
}

func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Run triggers one manual sync pass for the caller's own plans.
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	report, err := h.syncService.RunSyncPass(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Sync pass failed",
		})
	}

	return c.JSON(syncReportResponse(report))
}

// RunAll sweeps every plan owner. Admin only.
func (h *SyncHandler) RunAll(c *fiber.Ctx) error {
	report, err := h.syncService.RunSyncForAllUsers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Sync sweep failed",
		})
	}

	return c.JSON(syncReportResponse(report))
}

// Start arms the periodic cross-user sync timer. Admin only; a second start
// while running is a no-op.
func (h *SyncHandler) Start(c *fiber.Ctx) error {
	interval := 5 * time.Minute
	if m := c.Query("interval_minutes"); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v > 0 {
			interval = time.Duration(v) * time.Minute
		}
	}

	if err := h.syncService.StartAutoSyncAll(interval); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to start auto sync",
		})
	}

	return c.JSON(fiber.Map{"success": true, "running": h.syncService.Running()})
}

// Stop cancels the periodic timer. Admin only; idempotent.
func (h *SyncHandler) Stop(c *fiber.Ctx) error {
	h.syncService.StopAutoSync()
	return c.JSON(fiber.Map{"success": true, "running": h.syncService.Running()})
}

// AuditLog lists recent conversion attempts for diagnostics. Admin only.
func (h *SyncHandler) AuditLog(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	records, err := h.syncService.AuditLog(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch audit log",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": records, "total": len(records)})
}

func syncReportResponse(report services.SyncReport) dto.SyncReportResponse {
	return dto.SyncReportResponse{
		Success: true,
		Scanned: report.Scanned,
		Skipped: report.Skipped,
		Done:    report.Converted,
		Failed:  report.Failed,
	}
}
