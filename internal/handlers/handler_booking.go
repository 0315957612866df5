package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
	"github.com/spinhall/tt_booking_app/internal/middleware"
)

// BookingHandler handles booking lifecycle and availability requests.
type BookingHandler struct {
	bookingService  portssvc.BookingSvcFacade
	calendarService portssvc.CalendarSvcFacade
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService portssvc.BookingSvcFacade, calendarService portssvc.CalendarSvcFacade) *BookingHandler {
	return &BookingHandler{
		bookingService:  bookingService,
		calendarService: calendarService,
	}
}

// registerBookingRoutes sets up the booking and availability routes.
func registerBookingRoutes(v1 *gin.RouterGroup, bookingService portssvc.BookingSvcFacade, calendarService portssvc.CalendarSvcFacade) {
	h := NewBookingHandler(bookingService, calendarService)

	admins := middleware.RequireRoles(domain.RoleCampusAdmin, domain.RoleSuperAdmin)

	bookings := v1.Group("/bookings")
	{
		bookings.POST("", middleware.RequireRoles(domain.RoleStudent), h.CreateBooking)
		bookings.GET("/my", middleware.RequireRoles(domain.RoleStudent, domain.RoleCoach), h.ListMyBookings)
		bookings.GET("/pending", middleware.RequireRoles(domain.RoleCoach), h.ListPendingBookings)
		bookings.GET("", admins, h.ListAllBookings)
		bookings.POST("/:bookingID/decision", middleware.RequireRoles(domain.RoleCoach, domain.RoleCampusAdmin, domain.RoleSuperAdmin), h.DecideBooking)
		bookings.POST("/:bookingID/cancel", middleware.RequireRoles(domain.RoleStudent, domain.RoleCoach), h.CancelBooking)
		bookings.POST("/:bookingID/admin-cancel", admins, h.AdminCancelBooking)
		bookings.POST("/:bookingID/complete", middleware.RequireRoles(domain.RoleCoach, domain.RoleCampusAdmin, domain.RoleSuperAdmin), h.CompleteBooking)
	}

	v1.GET("/tables/available", h.AvailableTables)
	v1.GET("/coaches/:coachID/schedule", h.CoachSchedule)
}

// CreateBooking godoc
// @Summary Request a lesson
// @Description Creates a pending booking for the acting student.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body dto.CreateBookingRequest true "Booking Details"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

// DecideBooking godoc
// @Summary Confirm or reject a pending booking
// @Description Confirms (debiting the lesson fee) or rejects a booking.
// @Tags bookings
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param decision body dto.BookingDecisionRequest true "Decision"
// @Success 200 {object} dto.BookingResponse
// @Failure 402 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /bookings/{bookingID}/decision [post]
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.BookingDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	bookingID := c.Param("bookingID")

	if req.Confirm {
		booking, err := h.bookingService.ConfirmBooking(c.Request.Context(), actor, bookingID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
		return
	}
	if err := h.bookingService.RejectBooking(c.Request.Context(), actor, bookingID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking rejected"})
}

// CancelBooking godoc
// @Summary Cancel a confirmed booking
// @Description Cancels and refunds a confirmed booking. Rejected within 24 hours of start.
// @Tags bookings
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param cancellation body dto.CancelBookingRequest true "Cancellation Reason"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} ErrorResponse
// @Router /bookings/{bookingID}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), actor, c.Param("bookingID"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// AdminCancelBooking godoc
// @Summary Cancel a booking as an administrator
// @Description Cancels a pending or confirmed booking without the 24-hour cutoff.
// @Tags bookings
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param cancellation body dto.CancelBookingRequest true "Cancellation Reason"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} ErrorResponse
// @Router /bookings/{bookingID}/admin-cancel [post]
func (h *BookingHandler) AdminCancelBooking(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	booking, err := h.bookingService.AdminCancelBooking(c.Request.Context(), actor, c.Param("bookingID"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// CompleteBooking godoc
// @Summary Mark a lesson as completed
// @Tags bookings
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} ErrorResponse
// @Router /bookings/{bookingID}/complete [post]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if err := h.bookingService.CompleteBooking(c.Request.Context(), actor, c.Param("bookingID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking completed"})
}

// ListMyBookings godoc
// @Summary List the acting user's bookings
// @Tags bookings
// @Produce json
// @Success 200 {array} dto.BookingResponse
// @Router /bookings/my [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var params dto.ListBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	bookings, err := h.bookingService.ListMyBookings(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListBookingResponse(bookings))
}

// ListPendingBookings godoc
// @Summary List bookings awaiting the coach's decision
// @Tags bookings
// @Produce json
// @Success 200 {array} dto.BookingResponse
// @Router /bookings/pending [get]
func (h *BookingHandler) ListPendingBookings(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	bookings, err := h.bookingService.ListPendingBookings(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListBookingResponse(bookings))
}

// ListAllBookings godoc
// @Summary List bookings across users
// @Description Administrators only. Campus admins see their own campus.
// @Tags bookings
// @Produce json
// @Success 200 {array} dto.BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) ListAllBookings(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var params dto.ListBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	bookings, err := h.bookingService.ListAllBookings(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListBookingResponse(bookings))
}

// AvailableTables godoc
// @Summary List free tables for a slot
// @Description Lists available-status tables of a campus with no conflicting booking.
// @Tags availability
// @Produce json
// @Param campus_id query string true "Campus ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start_time query string true "Start time (HH:MM)"
// @Param end_time query string true "End time (HH:MM)"
// @Success 200 {array} dto.TableResponse
// @Failure 400 {object} ErrorResponse
// @Router /tables/available [get]
func (h *BookingHandler) AvailableTables(c *gin.Context) {
	var params dto.AvailabilityParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	slot, err := dto.ParseSlot(params.Date, params.StartTime, params.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}

	tables, err := h.calendarService.AvailableTables(c.Request.Context(), params.CampusID, slot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListTableResponse(tables))
}

// CoachSchedule godoc
// @Summary A coach's day-by-day schedule
// @Description Returns the coach's active bookings keyed by date. Defaults to the coming week.
// @Tags availability
// @Produce json
// @Param coachID path string true "Coach ID"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} map[string][]dto.BookingResponse
// @Router /coaches/{coachID}/schedule [get]
func (h *BookingHandler) CoachSchedule(c *gin.Context) {
	var params dto.ScheduleParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)
	var err error
	if params.StartDate != "" {
		if from, err = dto.ParseDate(params.StartDate); err != nil {
			respondError(c, err)
			return
		}
		to = from.AddDate(0, 0, 6)
	}
	if params.EndDate != "" {
		if to, err = dto.ParseDate(params.EndDate); err != nil {
			respondError(c, err)
			return
		}
	}

	schedule, err := h.calendarService.CoachSchedule(c.Request.Context(), c.Param("coachID"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make(map[string][]dto.BookingResponse, len(schedule))
	for day, bookings := range schedule {
		response[day] = dto.ToListBookingResponse(bookings)
	}
	c.JSON(http.StatusOK, response)
}
