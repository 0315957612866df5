package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
	"github.com/spinhall/tt_booking_app/internal/middleware"
)

// MatchHandler handles tournament and registration requests.
type MatchHandler struct {
	matchService      portssvc.MatchSvcFacade
	tournamentService portssvc.TournamentSvcFacade
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchService portssvc.MatchSvcFacade, tournamentService portssvc.TournamentSvcFacade) *MatchHandler {
	return &MatchHandler{
		matchService:      matchService,
		tournamentService: tournamentService,
	}
}

// registerMatchRoutes sets up the tournament routes.
func registerMatchRoutes(v1 *gin.RouterGroup, matchService portssvc.MatchSvcFacade, tournamentService portssvc.TournamentSvcFacade) {
	h := NewMatchHandler(matchService, tournamentService)

	admins := middleware.RequireRoles(domain.RoleCampusAdmin, domain.RoleSuperAdmin)

	matches := v1.Group("/matches")
	{
		matches.POST("", admins, h.CreateMatch)
		matches.GET("", h.ListMatches)
		matches.GET("/registrations/my", middleware.RequireRoles(domain.RoleStudent), h.MyRegistrations)
		matches.GET("/:matchID", h.GetMatchDetail)
		matches.POST("/:matchID/register", middleware.RequireRoles(domain.RoleStudent), h.Register)
		matches.GET("/:matchID/registrations", admins, h.ListRegistrations)
		matches.POST("/:matchID/start", admins, h.StartMatch)
		matches.POST("/:matchID/cancel", admins, h.CancelMatch)
		matches.POST("/:matchID/schedule", admins, h.GenerateSchedule)
	}
}

// CreateMatch godoc
// @Summary Create a tournament
// @Tags matches
// @Accept json
// @Produce json
// @Param match body dto.CreateMatchRequest true "Match Details"
// @Success 201 {object} dto.MatchResponse
// @Failure 400 {object} ErrorResponse
// @Router /matches [post]
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	match, err := h.matchService.CreateMatch(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMatchResponse(match))
}

// ListMatches godoc
// @Summary List tournaments
// @Description Without a status filter only upcoming and registration matches are returned.
// @Tags matches
// @Produce json
// @Success 200 {array} dto.MatchResponse
// @Router /matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	var params dto.ListMatchesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	matches, err := h.matchService.ListMatches(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListMatchResponse(matches))
}

// GetMatchDetail godoc
// @Summary A tournament with its per-group paid counts
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} dto.MatchDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatchDetail(c *gin.Context) {
	detail, err := h.matchService.GetMatchDetail(c.Request.Context(), c.Param("matchID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Register godoc
// @Summary Enter a tournament
// @Description Registers the acting student into a group, debiting the fee.
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Param registration body dto.MatchRegisterRequest true "Group Choice"
// @Success 201 {object} dto.RegistrationResponse
// @Failure 402 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /matches/{matchID}/register [post]
func (h *MatchHandler) Register(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.MatchRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	registration, err := h.matchService.Register(c.Request.Context(), actor.UserID, c.Param("matchID"), req.Group)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToRegistrationResponse(registration))
}

// ListRegistrations godoc
// @Summary List a tournament's registrations
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID"
// @Param group query string false "Group filter"
// @Success 200 {array} dto.RegistrationResponse
// @Router /matches/{matchID}/registrations [get]
func (h *MatchHandler) ListRegistrations(c *gin.Context) {
	var params dto.ListRegistrationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	registrations, err := h.matchService.ListRegistrations(c.Request.Context(), c.Param("matchID"), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListRegistrationResponse(registrations))
}

// MyRegistrations godoc
// @Summary The acting student's registrations
// @Tags matches
// @Produce json
// @Success 200 {array} dto.RegistrationResponse
// @Router /matches/registrations/my [get]
func (h *MatchHandler) MyRegistrations(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	registrations, err := h.matchService.MyRegistrations(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListRegistrationResponse(registrations))
}

// StartMatch godoc
// @Summary Move a tournament to ongoing
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} ErrorResponse
// @Router /matches/{matchID}/start [post]
func (h *MatchHandler) StartMatch(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if err := h.matchService.StartMatch(c.Request.Context(), actor, c.Param("matchID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Match started"})
}

// CancelMatch godoc
// @Summary Cancel a tournament and refund paid registrations
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Param cancellation body dto.CancelBookingRequest true "Cancellation Reason"
// @Success 200 {object} map[string]any
// @Failure 409 {object} ErrorResponse
// @Router /matches/{matchID}/cancel [post]
func (h *MatchHandler) CancelMatch(c *gin.Context) {
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

	refunded, err := h.matchService.CancelMatch(c.Request.Context(), actor, c.Param("matchID"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Match cancelled", "refunded": refunded})
}

// GenerateSchedule godoc
// @Summary Derive the round-robin schedule of a tournament
// @Description Builds per-group chunked round robins from paid registrations.
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} domain.MatchSchedule
// @Failure 409 {object} ErrorResponse
// @Router /matches/{matchID}/schedule [post]
func (h *MatchHandler) GenerateSchedule(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	schedule, err := h.tournamentService.GenerateSchedule(c.Request.Context(), actor, c.Param("matchID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}
