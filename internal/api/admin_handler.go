package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the admin dashboard endpoints. Routes must be
// mounted behind Authenticate and RequireAdmin.
type AdminHandler struct {
	admin  service.AdminService
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin service.AdminService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{admin: admin, logger: logger.With("component", "admin_handler"), now: time.Now}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	farmers, err := h.admin.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}
	if farmers == nil {
		farmers = []*domain.Farmer{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{"users": farmers, "count": len(farmers)})
}

// ExportUsers handles GET /api/admin/users/export.
func (h *AdminHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	data, err := h.admin.ExportUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export users")
		return
	}

	filename := fmt.Sprintf("agrinathi-users-%s.xlsx", h.now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to write export", "error", err)
	}
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	actorID, targetID, ok := handleFarmerIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(r.Context(), actorID, targetID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	log.Info("farmer deleted by admin", "target_id", targetID)
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Success: true, Message: "User deleted successfully"})
}

// UpdateRole handles POST /api/admin/users/{id}/role.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	_, targetID, ok := handleFarmerIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	role := domain.Role(strings.TrimSpace(req.Role))
	if err := h.admin.UpdateRole(r.Context(), targetID, role); err != nil {
		HandleAPIError(w, r, err, "Failed to update role")
		return
	}

	log.Info("farmer role updated", "target_id", targetID, "role", role)
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Success: true, Message: "User role updated successfully"})
}

// Analytics handles GET /api/admin/analytics.
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.admin.Analytics(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load analytics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, a)
}

// Settings handles GET /api/admin/settings.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.admin.Settings())
}
