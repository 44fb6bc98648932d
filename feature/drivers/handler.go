package drivers

import (
	"context"
	"errors"

	"driver-manager/core/logger"
	"driver-manager/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for driver reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the drivers routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/drivers")
	group.Get("/", h.HandleListDevices)
	group.Post("/check", h.HandleCheckAll)
	group.Post("/check/:id", h.HandleCheckDevice)
	group.Get("/cache", h.HandleCacheDiagnostics)
	group.Delete("/cache", h.HandleInvalidateCache)
	group.Post("/install", h.HandleStartInstall)
	group.Get("/install", h.HandleInstallProgress)
	group.Get("/history", h.HandleHistory)
	group.Get("/:id/candidates", h.HandleCandidates)
}

// HandleListDevices lists devices with their last known driver status.
// @Summary List Devices
// @Description Enumerates the workstation devices and returns each with its last reconciled driver status, or "checking" if it was never reconciled.
// @Tags drivers
// @Produce json
// @Success 200 {object} map[string]interface{} "Devices"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /drivers [get]
func (h *Handler) HandleListDevices(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	devices, err := h.service.Devices(c.Context())
	if err != nil {
		return h.fail(c, l, "Device listing failed", err)
	}
	return c.JSON(fiber.Map{"devices": devices})
}

// HandleCheckAll runs the fast bulk check.
// @Summary Check All Drivers
// @Description Reconciles every device against the driver catalog using the pending updates known right now. If the update lookup is still running, "pending" is true and a final pass is applied when it settles.
// @Tags drivers
// @Produce json
// @Success 200 {object} PassResult "Pass Result"
// @Failure 409 {object} map[string]string "Check Already Running"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /drivers/check [post]
func (h *Handler) HandleCheckAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering driver check")

	result, err := h.service.CheckAll(c.Context(), nil)
	if err != nil {
		return h.fail(c, l, "Driver check failed", err)
	}
	return c.JSON(result)
}

// HandleCheckDevice runs the authoritative check of one device.
// @Summary Check One Driver
// @Description Waits for the pending update lookup and reconciles a single device.
// @Tags drivers
// @Produce json
// @Param id path string true "Device ID (e.g. gpu-0)"
// @Success 200 {object} DeviceStatus "Device Status"
// @Failure 404 {object} map[string]string "Device Not Found"
// @Failure 504 {object} map[string]string "Update Lookup Timed Out"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /drivers/check/{id} [post]
func (h *Handler) HandleCheckDevice(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	result, err := h.service.CheckDevice(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Device check failed", err, zap.String("device_id", id))
	}
	return c.JSON(result)
}

// HandleCandidates explains the catalog match of one device.
// @Summary Match Candidates
// @Description Shows the catalog entry chosen for a device and the best scoring candidates.
// @Tags drivers
// @Produce json
// @Param id path string true "Device ID (e.g. gpu-0)"
// @Success 200 {object} reconcile.Explanation "Explanation"
// @Failure 404 {object} map[string]string "Device Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /drivers/{id}/candidates [get]
func (h *Handler) HandleCandidates(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	ex, err := h.service.Candidates(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Candidate lookup failed", err, zap.String("device_id", id))
	}
	return c.JSON(ex)
}

// HandleCacheDiagnostics reports the pending-update cache state.
// @Summary Cache Diagnostics
// @Description Returns validity, remaining TTL and size of the pending-update cache.
// @Tags drivers
// @Produce json
// @Success 200 {object} reconcile.CacheDiagnostics "Diagnostics"
// @Router /drivers/cache [get]
func (h *Handler) HandleCacheDiagnostics(c *fiber.Ctx) error {
	return c.JSON(h.service.CacheDiagnostics())
}

// HandleInvalidateCache clears the driver caches.
// @Summary Clear Caches
// @Description Drops the catalog and pending-update snapshots so the next check queries again.
// @Tags drivers
// @Produce json
// @Success 200 {object} map[string]string "Cleared"
// @Router /drivers/cache [delete]
func (h *Handler) HandleInvalidateCache(c *fiber.Ctx) error {
	logger.WithRayID(h.service.logger, c).Info("Clearing driver caches")
	h.service.InvalidateCaches()
	return c.JSON(fiber.Map{"status": "cleared"})
}

// HandleStartInstall starts the install pipeline in the background.
// @Summary Install Driver Updates
// @Description Downloads and installs every pending driver update. The call returns immediately; poll GET /drivers/install for progress.
// @Tags drivers
// @Produce json
// @Success 202 {object} map[string]string "Started"
// @Failure 409 {object} map[string]string "Install Already Running"
// @Router /drivers/install [post]
func (h *Handler) HandleStartInstall(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.StartInstall(); err != nil {
		return h.fail(c, l, "Install not started", err)
	}
	l.Info("Driver installation started")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
}

// HandleInstallProgress reports the install pipeline state.
// @Summary Install Progress
// @Description Returns the progress of the running install, or the outcome of the last one.
// @Tags drivers
// @Produce json
// @Success 200 {object} InstallState "Install State"
// @Router /drivers/install [get]
func (h *Handler) HandleInstallProgress(c *fiber.Ctx) error {
	return c.JSON(h.service.InstallProgress())
}

// HandleHistory returns persisted status records.
// @Summary Status History
// @Description Returns the newest persisted device status records.
// @Tags drivers
// @Produce json
// @Param limit query int false "Maximum number of records (default 100)"
// @Success 200 {array} StatusRecord "Records"
// @Failure 503 {object} map[string]string "History Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /drivers/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.History(c.Context(), c.QueryInt("limit", 100))
	if err != nil {
		return h.fail(c, l, "History lookup failed", err)
	}
	return c.JSON(records)
}

// fail logs err and writes the matching status code.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error, fields ...zap.Field) error {
	status := statusFor(err)
	fields = append(fields, zap.Error(err), zap.Int("status", status))
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, fields...)
	} else {
		l.Warn(msg, fields...)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrDeviceNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrReconcileInProgress), errors.Is(err, ErrInstallInProgress):
		return fiber.StatusConflict
	case errors.Is(err, ErrHistoryDisabled):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, reconcile.ErrUnsupported):
		return fiber.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
