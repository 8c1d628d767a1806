package handler

import (
	"net/http"
	"strings"

	"github.com/bankpoc/banking-ui/shared/middleware"
	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/gin-gonic/gin"
)

const (
	LoginPath             = "/login"
	CustomerDashboardPath = "/customer/dashboard"
	AdminDashboardPath    = "/admin/dashboard"
)

// Decision is the outcome of routing one page request.
// An empty Redirect means the page may be served.
type Decision struct {
	Redirect string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

// Resolve decides which page a visitor may see. It only looks at the
// current user and path and keeps no history.
func Resolve(user *models.User, path string) Decision {
	switch {
	case path == LoginPath:
		if user == nil {
			return Decision{}
		}
		return Decision{Redirect: homeFor(user.Role)}
	case path == CustomerDashboardPath || strings.HasPrefix(path, "/customer/"):
		if user != nil && user.Role == models.RoleCustomer {
			return Decision{}
		}
		return Decision{Redirect: LoginPath}
	case path == AdminDashboardPath || strings.HasPrefix(path, "/admin/"):
		if user != nil && user.Role == models.RoleAdmin {
			return Decision{}
		}
		return Decision{Redirect: LoginPath}
	default:
		return Decision{Redirect: LoginPath}
	}
}

func homeFor(role models.Role) string {
	if role == models.RoleAdmin {
		return AdminDashboardPath
	}
	return CustomerDashboardPath
}

// ViewRouter applies Resolve to page routes.
func ViewRouter() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetUser(c)
		decision := Resolve(user, c.Request.URL.Path)
		if !decision.Allowed() {
			redirect(c, decision.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectToLogin handles "/" and unknown paths.
func RedirectToLogin(c *gin.Context) {
	redirect(c, LoginPath)
}

// redirect uses 303 for form posts so the browser follows with a GET.
func redirect(c *gin.Context, location string) {
	code := http.StatusFound
	if c.Request.Method == http.MethodPost {
		code = http.StatusSeeOther
	}
	c.Redirect(code, location)
}
