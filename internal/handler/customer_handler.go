package handler

import (
	"context"
	"net/http"

	"github.com/bankpoc/banking-ui/internal/command"
	"github.com/bankpoc/banking-ui/internal/query"
	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/middleware"
	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/gin-gonic/gin"
)

// CustomerQuerier defines the read-side operations used by CustomerHandler.
type CustomerQuerier interface {
	GetDashboard(ctx context.Context, q cqrs.GetCustomerDashboardQuery) query.CustomerDashboard
}

// TransactionCommander defines the write-side operations used by CustomerHandler.
type TransactionCommander interface {
	SubmitTransaction(ctx context.Context, cmd cqrs.SubmitTransactionCommand) command.SubmitOutcome
}

// CustomerHandler serves the customer dashboard and its transaction dialog.
type CustomerHandler struct {
	queries  CustomerQuerier
	commands TransactionCommander
	secure   bool
}

type TransactionFormRequest struct {
	Type   string `form:"type" validate:"required,oneof=topup withdraw"`
	Amount string `form:"amount" validate:"required"`
	PIN    string `form:"pin" validate:"required"`
}

func NewCustomerHandler(queries CustomerQuerier, commands TransactionCommander, secure bool) *CustomerHandler {
	return &CustomerHandler{queries: queries, commands: commands, secure: secure}
}

// Dashboard renders card info and history. ?dialog=topup|withdraw opens an
// empty transaction dialog when there is a card to charge.
func (h *CustomerHandler) Dashboard(c *gin.Context) {
	user, _ := middleware.GetUser(c)

	data := h.load(c, user)
	data.Notice = takeFlash(c, h.secure)
	switch dialog := c.Query("dialog"); dialog {
	case models.TransactionTopUp, models.TransactionWithdraw:
		data.DialogOpen = data.Card != nil
		data.Form = command.TransactionForm{Type: dialog}
	}

	c.HTML(http.StatusOK, "customer.html", data)
}

func (h *CustomerHandler) SubmitTransaction(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req TransactionFormRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderFailure(c, http.StatusBadRequest, user, command.TransactionForm{}, "Invalid request body")
		return
	}
	form := command.TransactionForm{Type: req.Type, Amount: req.Amount, PIN: req.PIN}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		h.renderFailure(c, http.StatusBadRequest, user, form, middleware.FirstMessage(validationErrors))
		return
	}

	outcome := h.commands.SubmitTransaction(c.Request.Context(), cqrs.SubmitTransactionCommand{
		SessionID: sessionID,
		User:      *user,
		Type:      req.Type,
		Amount:    req.Amount,
		PIN:       req.PIN,
	})
	if !outcome.Success {
		h.renderFailure(c, http.StatusOK, user, outcome.Form, outcome.Message)
		return
	}

	setFlash(c, outcome.Message, h.secure)
	c.Redirect(http.StatusSeeOther, CustomerDashboardPath)
}

func (h *CustomerHandler) renderFailure(c *gin.Context, code int, user *models.User, form command.TransactionForm, message string) {
	if form.Type == "" {
		form.Type = models.TransactionTopUp
	}
	data := h.load(c, user)
	data.Notice = &Notice{Success: false, Message: message}
	data.DialogOpen = true
	data.Form = form
	c.HTML(code, "customer.html", data)
}

func (h *CustomerHandler) load(c *gin.Context, user *models.User) customerPage {
	dashboard := h.queries.GetDashboard(c.Request.Context(), cqrs.GetCustomerDashboardQuery{Username: user.Username})
	return customerPage{
		page:    page{Title: "Dashboard", User: user},
		Card:    dashboard.Card,
		History: dashboard.History,
	}
}
