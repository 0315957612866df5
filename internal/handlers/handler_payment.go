package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
	"github.com/spinhall/tt_booking_app/internal/middleware"
)

// PaymentHandler handles account and ledger requests.
type PaymentHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ledgerService portssvc.LedgerSvcFacade) *PaymentHandler {
	return &PaymentHandler{ledgerService: ledgerService}
}

// registerPaymentRoutes sets up the payment routes.
func registerPaymentRoutes(v1 *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := NewPaymentHandler(ledgerService)

	admins := middleware.RequireRoles(domain.RoleCampusAdmin, domain.RoleSuperAdmin)

	payments := v1.Group("/payments")
	{
		payments.GET("/account", h.GetAccount)
		payments.POST("/deposit", h.Deposit)
		payments.GET("/transactions/my", h.ListMyTransactions)
		payments.GET("/transactions", admins, h.ListAllTransactions)
		payments.GET("/statistics", middleware.RequireRoles(domain.RoleSuperAdmin), h.Statistics)
	}
}

// GetAccount godoc
// @Summary The acting user's account
// @Description Returns the account, creating an empty one on first use.
// @Tags payments
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Router /payments/account [get]
func (h *PaymentHandler) GetAccount(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	account, err := h.ledgerService.GetAccount(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// Deposit godoc
// @Summary Top up the acting user's account
// @Tags payments
// @Accept json
// @Produce json
// @Param deposit body dto.DepositRequest true "Deposit Details"
// @Success 200 {object} dto.DepositResponse
// @Failure 400 {object} ErrorResponse
// @Router /payments/deposit [post]
func (h *PaymentHandler) Deposit(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, txn, err := h.ledgerService.Deposit(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DepositResponse{
		TransactionID: txn.TransactionID,
		NewBalance:    account.Balance,
	})
}

// ListMyTransactions godoc
// @Summary The acting user's ledger entries
// @Tags payments
// @Produce json
// @Param type query string false "Entry kind (deposit, withdraw, refund)"
// @Success 200 {array} dto.TransactionResponse
// @Router /payments/transactions/my [get]
func (h *PaymentHandler) ListMyTransactions(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	txns, err := h.ledgerService.ListMyTransactions(c.Request.Context(), actor.UserID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// ListAllTransactions godoc
// @Summary Ledger entries across users
// @Description Administrators only. Campus admins see their own campus.
// @Tags payments
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Router /payments/transactions [get]
func (h *PaymentHandler) ListAllTransactions(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	txns, err := h.ledgerService.ListAllTransactions(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// Statistics godoc
// @Summary Aggregate payment figures
// @Tags payments
// @Produce json
// @Success 200 {object} dto.PaymentStatisticsResponse
// @Router /payments/statistics [get]
func (h *PaymentHandler) Statistics(c *gin.Context) {
	stats, err := h.ledgerService.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
