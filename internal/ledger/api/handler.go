package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxz807/finbank/internal/ledger/service"
)

type LedgerHandler struct {
	ledger *service.LedgerService
	query  *service.QueryService
}

func NewLedgerHandler(ledger *service.LedgerService, query *service.QueryService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, query: query}
}

// RegisterRoutes mounts the account routes under r.
func (h *LedgerHandler) RegisterRoutes(r *gin.RouterGroup) {
	accounts := r.Group("/accounts")
	{
		accounts.POST("/deposit", h.Deposit)
		accounts.POST("/withdraw", h.Withdraw)
		accounts.POST("/transfer", h.Transfer)
		accounts.GET("/info", h.Info)
		accounts.GET("/statement", h.Statement)
		accounts.GET("/others", h.Others)
	}
}

// Deposit POST /api/accounts/deposit
func (h *LedgerHandler) Deposit(c *gin.Context) {
	var req AmountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	acc, err := h.ledger.Deposit(c.Request.Context(), service.AmountRequest{
		IBAN:   req.IBAN,
		Amount: amountString(req.Amount),
	})
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, "Deposit successful", toAccountResp(acc))
}

// Withdraw POST /api/accounts/withdraw
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	var req AmountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := h.ledger.Withdraw(c.Request.Context(), service.AmountRequest{
		IBAN:   req.IBAN,
		Amount: amountString(req.Amount),
	})
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, "Withdrawal successful", BalanceResp{Balance: Money(balance)})
}

// Transfer POST /api/accounts/transfer
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req TransferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := h.ledger.Transfer(c.Request.Context(), service.TransferRequest{
		SenderIBAN:    req.SenderIBAN,
		RecipientIBAN: req.RecipientIBAN,
		Amount:        amountString(req.Amount),
	})
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, "Transfer successful", BalanceResp{Balance: Money(balance)})
}

// Info GET /api/accounts/info?iban=
func (h *LedgerHandler) Info(c *gin.Context) {
	balance, err := h.query.GetBalance(c.Request.Context(), c.Query("iban"))
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, "", BalanceResp{Balance: Money(balance)})
}

// Statement GET /api/accounts/statement?iban=
func (h *LedgerHandler) Statement(c *gin.Context) {
	txs, err := h.query.GetStatement(c.Request.Context(), c.Query("iban"))
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, "", toTransactionResps(txs))
}

// Others GET /api/accounts/others?currentIBAN=
func (h *LedgerHandler) Others(c *gin.Context) {
	ibans, err := h.query.ListOtherAccounts(c.Request.Context(), c.Query("currentIBAN"), 0)
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, "", ibans)
}
