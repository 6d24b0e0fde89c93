package handlers

import (
	"net/http"

	"easybuk_backend/internal/middleware"
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services"
	"easybuk_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService   services.AdminService
	disputeService services.DisputeService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService, disputeService services.DisputeService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		adminService:   adminService,
		disputeService: disputeService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/dashboard", h.GetDashboard)
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/disputes", h.ListDisputes)
		admin.GET("/disputes/:disputeId", h.GetDispute)
		admin.PUT("/disputes/:disputeId/resolve", h.ResolveDispute)
		admin.PUT("/users/:userId/status", h.SetUserStatus)
	}
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.adminService.GetDashboard()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	var criteria repositories.BookingCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}
	criteria.Page, criteria.PageSize = ParsePagination(c)

	response, err := h.adminService.ListBookings(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AdminHandler) ListDisputes(c *gin.Context) {
	var criteria repositories.DisputeCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}
	criteria.Page, criteria.PageSize = ParsePagination(c)

	disputes, total, err := h.disputeService.ListDisputes(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"disputes":  disputes,
		"total":     total,
		"page":      criteria.Page,
		"page_size": criteria.PageSize,
	})
}

func (h *AdminHandler) GetDispute(c *gin.Context) {
	dispute, err := h.disputeService.GetDispute(c.Param("disputeId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var req dto.SetUserStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.adminService.SetUserStatus(c.Param("userId"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *AdminHandler) ResolveDispute(c *gin.Context) {
	var req dto.ResolveDisputeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	dispute, err := h.disputeService.ResolveDispute(c.Param("disputeId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}
