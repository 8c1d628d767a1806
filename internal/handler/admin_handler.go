package handler

import (
	"context"
	"net/http"

	"github.com/bankpoc/banking-ui/internal/query"
	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/middleware"
	"github.com/gin-gonic/gin"
)

// AdminQuerier defines the read-side operations used by AdminHandler.
type AdminQuerier interface {
	GetDashboard(ctx context.Context, q cqrs.GetAdminDashboardQuery) query.AdminDashboard
}

type AdminHandler struct {
	queries AdminQuerier
}

func NewAdminHandler(queries AdminQuerier) *AdminHandler {
	return &AdminHandler{queries: queries}
}

// SearchRequest is the admin filter. The term is used exactly as typed.
type SearchRequest struct {
	Q string `form:"q" validate:"max=100"`
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	data := adminPage{page: page{Title: "Admin Dashboard", User: user}}

	code := http.StatusOK
	req, validationErrors := bindSearch(c)
	if validationErrors != nil {
		code = http.StatusBadRequest
		data.Notice = &Notice{Message: middleware.FirstMessage(validationErrors)}
	}

	dashboard := h.queries.GetDashboard(c.Request.Context(), cqrs.GetAdminDashboardQuery{Search: req.Q})
	data.Stats = dashboard.Stats
	data.Transactions = dashboard.Transactions
	data.Search = dashboard.Search
	c.HTML(code, "admin.html", data)
}

// ListTransactions returns the same data as the dashboard as JSON.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	req, validationErrors := bindSearch(c)
	if validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	c.JSON(http.StatusOK, h.queries.GetDashboard(c.Request.Context(), cqrs.GetAdminDashboardQuery{Search: req.Q}))
}

// bindSearch returns an empty term alongside any validation errors.
func bindSearch(c *gin.Context) (SearchRequest, []middleware.ValidationError) {
	req := SearchRequest{Q: c.Query("q")}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		return SearchRequest{}, validationErrors
	}
	return req, nil
}
