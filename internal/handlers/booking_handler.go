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

type BookingHandler struct {
	*BaseHandler
	bookingService services.BookingService
	disputeService services.DisputeService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService, disputeService services.DisputeService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    base,
		bookingService: bookingService,
		disputeService: disputeService,
	}
}

func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Provider directory is browsable without an account.
	r.GET("/providers", h.ListProviders)

	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", middleware.RequireRoles(models.UserRoleClient), h.CreateBooking)
		bookings.GET("/mine", h.GetMyBookings)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PUT("/:bookingId/respond", middleware.RequireRoles(models.UserRoleProvider), h.RespondToBooking)
		bookings.PUT("/:bookingId/status", h.UpdateStatus)
		bookings.POST("/:bookingId/payment", middleware.RequireRoles(models.UserRoleClient), h.CompletePayment)
		bookings.POST("/:bookingId/disputes", h.OpenDispute)
		bookings.GET("/:bookingId/disputes", h.GetBookingDisputes)
	}
}

func (h *BookingHandler) ListProviders(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	response, err := h.bookingService.ListProviders(c.Query("category"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.CreateBooking(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	criteria := repositories.BookingCriteria{
		Status:   models.BookingStatus(c.Query("status")),
		Category: c.Query("category"),
		Page:     page,
		PageSize: pageSize,
	}

	var (
		response *dto.BookingListResponse
		err      error
	)
	if middleware.GetUserRole(c) == models.UserRoleProvider {
		response, err = h.bookingService.GetProviderBookings(userID, criteria)
	} else {
		response, err = h.bookingService.GetClientBookings(userID, criteria)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(userID, middleware.GetUserRole(c), c.Param("bookingId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) RespondToBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ProviderRespondRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.RespondToBooking(userID, c.Param("bookingId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(userID, middleware.GetUserRole(c), c.Param("bookingId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CompletePayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CompletePaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.CompletePayment(userID, c.Param("bookingId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) OpenDispute(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.OpenDisputeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	dispute, err := h.disputeService.OpenDispute(userID, middleware.GetUserRole(c), c.Param("bookingId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

func (h *BookingHandler) GetBookingDisputes(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	disputes, err := h.disputeService.GetBookingDisputes(userID, middleware.GetUserRole(c), c.Param("bookingId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disputes": disputes})
}
