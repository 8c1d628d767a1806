package handler

import (
	"github.com/bankpoc/banking-ui/shared/middleware"
	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth     *AuthHandler
	Customer *CustomerHandler
	Admin    *AdminHandler
	Health   gin.HandlerFunc
}

// Register mounts the pages, the admin JSON endpoint and health.
// The session middleware must already be installed on r.
func Register(r *gin.Engine, h Handlers) {
	r.GET("/health", h.Health)

	pages := r.Group("", ViewRouter())
	pages.GET(LoginPath, h.Auth.LoginPage)
	pages.POST(LoginPath, h.Auth.Login)
	pages.GET(CustomerDashboardPath, h.Customer.Dashboard)
	pages.POST("/customer/transaction", h.Customer.SubmitTransaction)
	pages.GET(AdminDashboardPath, h.Admin.Dashboard)

	r.POST("/logout", h.Auth.Logout)
	r.GET("/admin/api/transactions", middleware.RequireRoleJSON(models.RoleAdmin), h.Admin.ListTransactions)

	r.GET("/", RedirectToLogin)
	r.NoRoute(RedirectToLogin)
}
